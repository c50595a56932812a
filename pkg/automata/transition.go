package automata

// Transition 一次性的转换构造值：键 -> 后继状态
//
// Table.Insert 只复制键和后继引用，不保留 Transition 本身，
// 重复插入同一个值等价于插入一次。
type Transition struct {
	key  Key
	next *State
}

// On 组合状态和事件得到转换键
func On(state *State, event *Event) Key {
	return Derive(state, event)
}

// Bind 绑定键与后继状态
func Bind(key Key, next *State) Transition {
	if next == nil {
		fail(nil, KindNilReference, "Transition - next state error! nil for key %s", key)
	}
	return Transition{key: key, next: next}
}

// To 等价于 Bind(k, next)
func (k Key) To(next *State) Transition {
	return Bind(k, next)
}

// Key 返回转换键
func (t Transition) Key() Key {
	return t.key
}

// Next 返回后继状态
func (t Transition) Next() *State {
	return t.next
}

// valid 零值 Transition 不可插入
func (t Transition) valid() bool {
	return t.next != nil
}
