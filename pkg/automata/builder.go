package automata

import "sort"

// Builder 显式注册状态、事件与转换，返回可直接使用的句柄
type Builder struct {
	states      map[string]*State
	events      map[string]*Event
	transitions []Transition
	tableOpts   []TableOption
}

// NewBuilder 创建构建器
func NewBuilder(opts ...TableOption) *Builder {
	return &Builder{
		states:    make(map[string]*State),
		events:    make(map[string]*Event),
		tableOpts: opts,
	}
}

// State 注册状态；同名状态只注册一次，返回第一次注册的句柄
func (b *Builder) State(name string, action Action) *State {
	if s, ok := b.states[name]; ok {
		return s
	}
	s := NewState(name, action)
	b.states[name] = s
	return s
}

// StateFunc 以函数作为动作注册状态
func (b *Builder) StateFunc(name string, fn func(data, args interface{}) bool) *State {
	if fn == nil {
		return b.State(name, nil)
	}
	return b.State(name, ActionFunc(fn))
}

// Event 注册事件；同名事件只注册一次
func (b *Builder) Event(name string) *Event {
	if e, ok := b.events[name]; ok {
		return e
	}
	e := NewEvent(name)
	b.events[name] = e
	return e
}

// Transition 记录一条转换 (from, event) -> to
func (b *Builder) Transition(from *State, event *Event, to *State) *Builder {
	b.transitions = append(b.transitions, On(from, event).To(to))
	return b
}

// LookupState 按名称查找已注册的状态
func (b *Builder) LookupState(name string) (*State, bool) {
	s, ok := b.states[name]
	return s, ok
}

// LookupEvent 按名称查找已注册的事件
func (b *Builder) LookupEvent(name string) (*Event, bool) {
	e, ok := b.events[name]
	return e, ok
}

// States 按名称排序返回已注册的状态
func (b *Builder) States() []*State {
	out := make([]*State, 0, len(b.states))
	for _, s := range b.states {
		out = append(out, s)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].name < out[j].name })
	return out
}

// Events 按名称排序返回已注册的事件
func (b *Builder) Events() []*Event {
	out := make([]*Event, 0, len(b.events))
	for _, e := range b.events {
		out = append(out, e)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].name < out[j].name })
	return out
}

// Build 生成包含全部已记录转换的新转换表
func (b *Builder) Build() *Table {
	return NewTable(b.tableOpts...).InsertAll(b.transitions...)
}

// Automaton 以 start 为起始状态创建状态机
func (b *Builder) Automaton(start, exit *State, opts ...Option) *Automaton {
	return New(start, start, exit, b.Build(), opts...)
}
