package automata

// Action 进入状态时执行的动作，必须同步完成且只作用于 data
type Action interface {
	Execute(data, args interface{}) bool
}

// ActionFunc 把普通函数或闭包适配为 Action
type ActionFunc func(data, args interface{}) bool

func (f ActionFunc) Execute(data, args interface{}) bool {
	return f(data, args)
}

// State 状态机中的具名节点，可绑定一个动作，构造后不可变
type State struct {
	name   string
	action Action
}

// NewState 创建状态，action 可以为 nil
func NewState(name string, action Action) *State {
	if name == "" {
		fail(nil, KindInvalidName, "State name cannot be empty")
	}
	return &State{name: name, action: action}
}

// NewStateFunc 使用函数作为动作创建状态
func NewStateFunc(name string, fn func(data, args interface{}) bool) *State {
	if fn == nil {
		return NewState(name, nil)
	}
	return NewState(name, ActionFunc(fn))
}

// Name 返回状态名称
func (s *State) Name() string {
	return s.name
}

// HasAction 是否绑定了动作
func (s *State) HasAction() bool {
	return s.action != nil
}

// Execute 执行绑定的动作并返回其结果，未绑定动作时返回 false
func (s *State) Execute(data, args interface{}) bool {
	if s.action == nil {
		return false
	}
	return s.action.Execute(data, args)
}

// Equal 按名称比较
func (s *State) Equal(other *State) bool {
	if s == nil || other == nil {
		return s == other
	}
	return s.name == other.name
}

func (s *State) String() string {
	return s.name
}

// NullState 默认的空状态，没有动作
var NullState = NewState("NULL_STATE", nil)
