package automata

import "testing"

func TestBuilder_Handles(t *testing.T) {
	b := NewBuilder()

	idle := b.State("Idle", nil)
	again := b.StateFunc("Idle", increment)
	if idle != again {
		t.Error("同名状态应返回同一句柄")
	}
	if again.HasAction() {
		t.Error("第一次注册的动作应生效")
	}

	start := b.Event("Start")
	if b.Event("Start") != start {
		t.Error("同名事件应返回同一句柄")
	}

	if s, ok := b.LookupState("Idle"); !ok || s != idle {
		t.Error("LookupState 失败")
	}
	if _, ok := b.LookupState("Missing"); ok {
		t.Error("未注册状态不应找到")
	}
	if e, ok := b.LookupEvent("Start"); !ok || e != start {
		t.Error("LookupEvent 失败")
	}
}

func TestBuilder_Build(t *testing.T) {
	b := NewBuilder()
	idle := b.State("Idle", nil)
	running := b.StateFunc("Running", increment)
	stopped := b.State("Stopped", nil)
	start, stop := b.Event("Start"), b.Event("Stop")

	b.Transition(idle, start, running).
		Transition(running, stop, stopped)

	table := b.Build()
	if table.Len() != 2 {
		t.Fatalf("转换条数错误: got %d", table.Len())
	}
	if table.Lookup(idle, start) != running {
		t.Error("Idle+Start 应转到 Running")
	}

	// 每次 Build 都生成新表
	if b.Build() == table {
		t.Error("Build 应返回新的转换表")
	}

	c := &counter{}
	a := b.Automaton(idle, stopped, WithData(c))
	a.Advance(start, nil)
	a.Advance(stop, nil)
	if !a.IsInExitState() {
		t.Errorf("应到达 Stopped: got %v", a.Current())
	}
	if c.n != 1 {
		t.Errorf("计数错误: got %d", c.n)
	}
}

func TestBuilder_Sorted(t *testing.T) {
	b := NewBuilder()
	b.State("b", nil)
	b.State("a", nil)
	b.Event("y")
	b.Event("x")

	states := b.States()
	if len(states) != 2 || states[0].Name() != "a" || states[1].Name() != "b" {
		t.Errorf("States 排序错误: %v", states)
	}
	events := b.Events()
	if len(events) != 2 || events[0].Name() != "x" || events[1].Name() != "y" {
		t.Errorf("Events 排序错误: %v", events)
	}
}

func TestBuilder_InvalidNames(t *testing.T) {
	b := NewBuilder()
	expectFatal(t, KindInvalidName, func() { b.State("", nil) })
	expectFatal(t, KindInvalidName, func() { b.Event("") })
	expectFatal(t, KindNilReference, func() { b.Transition(b.State("A", nil), b.Event("E"), nil) })
}
