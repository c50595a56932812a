package automata

// Key 唯一标识一个 (状态, 事件) 组合
//
// 使用结构体而不是拼接字符串作为 map 键：状态 "AB" + 事件 "C"
// 与状态 "A" + 事件 "BC" 得到不同的键。
type Key struct {
	state string
	event string
}

// Derive 计算 (state, event) 的转换键
func Derive(state *State, event *Event) Key {
	if state == nil {
		fail(nil, KindNilReference, "transition key: state is nil")
	}
	if event == nil {
		fail(nil, KindNilReference, "transition key: event is nil")
	}
	return Key{state: state.name, event: event.name}
}

// StateName 返回键中的状态名
func (k Key) StateName() string {
	return k.state
}

// EventName 返回键中的事件名
func (k Key) EventName() string {
	return k.event
}

// String 仅用于诊断输出
func (k Key) String() string {
	return k.state + "/" + k.event
}
