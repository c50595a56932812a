package automata

import (
	"bytes"
	"fmt"
	"io"
	"sort"
	"strconv"
	"sync"
)

// Entry 转换表中的一条记录
type Entry struct {
	State string
	Event string
	Next  *State
}

// Table 转换表：(状态, 事件) -> 后继状态
//
// 表只引用状态，不拥有状态，可被多个 Automaton 共享。
// 需要只读保证时由调用方 Freeze。
type Table struct {
	mu      sync.RWMutex
	entries map[Key]*State
	frozen  bool
	tracer  Tracer
	failFn  FailFunc
}

// TableOption 转换表选项
type TableOption func(*Table)

// WithTableTracer 设置 Lookup 未命中时的告警输出
func WithTableTracer(tr Tracer) TableOption {
	return func(t *Table) {
		t.tracer = tr
	}
}

// WithTableFailHandler 设置结构性错误的处理函数
func WithTableFailHandler(fn FailFunc) TableOption {
	return func(t *Table) {
		t.failFn = fn
	}
}

// NewTable 创建空转换表
func NewTable(opts ...TableOption) *Table {
	t := &Table{
		entries: make(map[Key]*State),
		tracer:  NopTracer{},
	}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// Insert 插入或覆盖一条转换，后写入者生效
func (t *Table) Insert(tr Transition) *Table {
	if !tr.valid() {
		fail(t.failFn, KindNilReference, "Table - transition has no next state")
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	if t.frozen {
		fail(t.failFn, KindFrozenTable, "cannot insert %s into a frozen table", tr.key)
	}
	t.entries[tr.key] = tr.next
	return t
}

// InsertAll 依次插入多条转换
func (t *Table) InsertAll(trs ...Transition) *Table {
	for _, tr := range trs {
		t.Insert(tr)
	}
	return t
}

// Lookup 查找后继状态；未命中时返回 current 并告警
func (t *Table) Lookup(current *State, event *Event) *State {
	next, ok := t.lookup(current, event)
	if !ok {
		safeTrace(t.tracer, missMessage(current, event), true)
	}
	return next
}

// lookup 未命中时返回 (current, false)，不输出告警
func (t *Table) lookup(current *State, event *Event) (*State, bool) {
	key := Derive(current, event)

	t.mu.RLock()
	next, ok := t.entries[key]
	t.mu.RUnlock()

	if !ok {
		return current, false
	}
	return next, true
}

// Has 是否存在 (state, event) 的转换
func (t *Table) Has(state *State, event *Event) bool {
	_, ok := t.lookup(state, event)
	return ok
}

// Len 返回转换条数
func (t *Table) Len() int {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return len(t.entries)
}

// Freeze 冻结转换表，此后 Insert 视为结构性错误
func (t *Table) Freeze() *Table {
	t.mu.Lock()
	t.frozen = true
	t.mu.Unlock()
	return t
}

// Frozen 是否已冻结
func (t *Table) Frozen() bool {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.frozen
}

// Transitions 按状态名、事件名排序返回全部转换
func (t *Table) Transitions() []Entry {
	t.mu.RLock()
	entries := make([]Entry, 0, len(t.entries))
	for k, next := range t.entries {
		entries = append(entries, Entry{State: k.state, Event: k.event, Next: next})
	}
	t.mu.RUnlock()

	sort.Slice(entries, func(i, j int) bool {
		if entries[i].State != entries[j].State {
			return entries[i].State < entries[j].State
		}
		return entries[i].Event < entries[j].Event
	})
	return entries
}

// WriteDOT 以 Graphviz DOT 格式输出转换图，仅用于诊断
func (t *Table) WriteDOT(w io.Writer, name string) error {
	if name == "" {
		name = "automaton"
	}

	entries := t.Transitions()

	nodes := make(map[string]struct{})
	for _, e := range entries {
		nodes[e.State] = struct{}{}
		nodes[e.Next.name] = struct{}{}
	}
	names := make([]string, 0, len(nodes))
	for n := range nodes {
		names = append(names, n)
	}
	sort.Strings(names)

	var buf bytes.Buffer
	fmt.Fprintf(&buf, "digraph %s {\n", strconv.Quote(name))
	buf.WriteString("  rankdir=LR;\n")
	buf.WriteString("  node [shape=box, style=rounded];\n")
	for _, n := range names {
		fmt.Fprintf(&buf, "  %s;\n", strconv.Quote(n))
	}
	for _, e := range entries {
		fmt.Fprintf(&buf, "  %s -> %s [label=%s];\n",
			strconv.Quote(e.State), strconv.Quote(e.Next.name), strconv.Quote(e.Event))
	}
	buf.WriteString("}\n")

	_, err := w.Write(buf.Bytes())
	return err
}

func missMessage(current *State, event *Event) string {
	return "No known transition in the transition table for: " + current.name + " and " + event.name
}
