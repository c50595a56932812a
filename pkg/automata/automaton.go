package automata

// Automaton 状态机运行实例
//
// 同一个 Automaton 不支持并发推进，调用方负责串行化 Advance/Reset
// （见 Group、Driver）。
type Automaton struct {
	current  *State
	starting *State
	exit     *State
	table    *Table
	data     interface{}
	dataSet  bool

	tracer   Tracer
	failFn   FailFunc
	recorder *Recorder
}

// Option 状态机选项
type Option func(*Automaton)

// WithData 设置动作使用的上下文数据，nil 在全部选项应用后告警
func WithData(data interface{}) Option {
	return func(a *Automaton) {
		a.data = data
		a.dataSet = true
	}
}

// WithTracer 设置诊断输出
func WithTracer(tr Tracer) Option {
	return func(a *Automaton) {
		a.SetTracer(tr)
	}
}

// WithFailHandler 设置构造期结构性错误的处理函数
func WithFailHandler(fn FailFunc) Option {
	return func(a *Automaton) {
		a.failFn = fn
	}
}

// WithRecorder 记录每一次推进
func WithRecorder(r *Recorder) Option {
	return func(a *Automaton) {
		a.recorder = r
	}
}

// New 创建状态机，任一引用为 nil 都是结构性错误
//
// 转换表不会被冻结，之后插入的转换在下一次 Advance 生效；
// 插入与推进之间的同步由调用方负责。
func New(current, starting, exit *State, table *Table, opts ...Option) *Automaton {
	a := &Automaton{tracer: NopTracer{}}
	a.load(current, starting, exit, table, opts)
	return a
}

// Load 把状态机重新绑定到新的状态与转换表，校验与 New 相同
//
// 未在 opts 中指定的数据、诊断输出和记录器保持不变。
func (a *Automaton) Load(current, starting, exit *State, table *Table, opts ...Option) {
	a.load(current, starting, exit, table, opts)
}

func (a *Automaton) load(current, starting, exit *State, table *Table, opts []Option) {
	// 选项先于校验应用，校验失败时使用自定义的失败处理函数
	for _, opt := range opts {
		opt(a)
	}

	if current == nil {
		fail(a.failFn, KindNilReference, "Automaton current state cannot be nil")
	}
	if starting == nil {
		fail(a.failFn, KindNilReference, "Automaton starting state cannot be nil")
	}
	if exit == nil {
		fail(a.failFn, KindNilReference, "Automaton exit state cannot be nil")
	}
	if table == nil {
		fail(a.failFn, KindNilReference, "Automaton transition table cannot be nil")
	}

	a.current = current
	a.starting = starting
	a.exit = exit
	a.table = table

	if a.dataSet {
		a.dataSet = false
		a.SetData(a.data)
	}
}

// Current 返回当前状态
func (a *Automaton) Current() *State {
	return a.current
}

// Starting 返回起始状态
func (a *Automaton) Starting() *State {
	return a.starting
}

// Exit 返回退出状态
func (a *Automaton) Exit() *State {
	return a.exit
}

// Table 返回转换表
func (a *Automaton) Table() *Table {
	return a.table
}

// Data 返回上下文数据
func (a *Automaton) Data() interface{} {
	return a.data
}

// SetData 替换上下文数据，nil 合法但会告警
func (a *Automaton) SetData(data interface{}) {
	a.data = data
	if data == nil {
		safeTrace(a.tracer, "Automaton not working on any data", true)
	}
}

// SetTracer 替换诊断输出，nil 表示丢弃
func (a *Automaton) SetTracer(tr Tracer) {
	if tr == nil {
		tr = NopTracer{}
	}
	a.tracer = tr
}

// Reset 回到起始状态
func (a *Automaton) Reset() {
	a.current = a.starting
}

// IsInExitState 当前是否处于退出状态；Advance 不会因此停止，由调用方决定
func (a *Automaton) IsInExitState() bool {
	return a.current.Equal(a.exit)
}

// Advance 处理一个事件并执行新当前状态的动作，返回动作的结果
//
// 转换表中没有 (当前状态, event) 时停留在原状态并再次执行其动作；
// 未命中告警同时写入转换表与状态机的诊断输出；NullEventNop 既不查表也不执行动作。
func (a *Automaton) Advance(event *Event, args interface{}) bool {
	if event == nil {
		fail(a.failFn, KindNilReference, "Automaton cannot advance on a nil event")
	}

	previous := a.current

	if event.Equal(NullEventNop) {
		a.trace(previous, previous, event, false)
		return false
	}

	next, hit := a.table.lookup(previous, event)
	if !hit {
		msg := missMessage(previous, event)
		safeTrace(a.table.tracer, msg, true)
		safeTrace(a.tracer, msg, true)
	}
	a.current = next
	a.trace(previous, next, event, hit)

	if !next.HasAction() {
		safeTrace(a.tracer, "Trying to execute nonexistent action assigned to "+next.name+" state!", true)
		return false
	}
	return next.Execute(a.data, args)
}

func (a *Automaton) trace(previous, next *State, event *Event, hit bool) {
	safeTrace(a.tracer, previous.name+" + "+next.name+" -> "+event.name, false)
	if a.recorder != nil {
		a.recorder.record(previous.name, next.name, event.name, hit)
	}
}
