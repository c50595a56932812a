package automata

// Event 触发状态转换的具名事件，构造后不可变
type Event struct {
	name string
}

// NewEvent 创建事件，名称为空视为结构性错误
func NewEvent(name string) *Event {
	if name == "" {
		fail(nil, KindInvalidName, "Event name cannot be empty")
	}
	return &Event{name: name}
}

// Name 返回事件名称
func (e *Event) Name() string {
	return e.name
}

// Equal 按名称比较
func (e *Event) Equal(other *Event) bool {
	if e == nil || other == nil {
		return e == other
	}
	return e.name == other.name
}

func (e *Event) String() string {
	return e.name
}

// 预定义事件
var (
	// NextStateEvent 非稳定状态用于推进到下一状态
	NextStateEvent = NewEvent("NEXT_STATE_EVENT")

	// NullEventOp 停留在当前状态并重新执行其动作
	NullEventOp = NewEvent("NULL_EVENT_OP")

	// NullEventNop 停留在当前状态且不执行动作
	NullEventNop = NewEvent("NULL_EVENT_NOP")

	// ErrorEvent 默认的错误事件
	ErrorEvent = NewEvent("ERROR_EVENT")
)
