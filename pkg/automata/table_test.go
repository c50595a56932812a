package automata

import (
	"bytes"
	"strings"
	"testing"
)

func TestDerive_AmbiguousBoundaries(t *testing.T) {
	k1 := Derive(NewState("AB", nil), NewEvent("C"))
	k2 := Derive(NewState("A", nil), NewEvent("BC"))

	if k1 == k2 {
		t.Errorf("拼接边界不同的组合应得到不同的键: %v == %v", k1, k2)
	}

	table := NewTable()
	ab, a := NewState("AB", nil), NewState("A", nil)
	x, y := NewState("X", nil), NewState("Y", nil)
	table.Insert(On(ab, NewEvent("C")).To(x))
	table.Insert(On(a, NewEvent("BC")).To(y))

	if table.Len() != 2 {
		t.Errorf("转换条数错误: got %d, want 2", table.Len())
	}
	if got := table.Lookup(ab, NewEvent("C")); got != x {
		t.Errorf("AB+C 应转到 X, got %v", got)
	}
	if got := table.Lookup(a, NewEvent("BC")); got != y {
		t.Errorf("A+BC 应转到 Y, got %v", got)
	}
}

func TestDerive_Deterministic(t *testing.T) {
	k1 := Derive(NewState("Idle", nil), NewEvent("Start"))
	k2 := Derive(NewState("Idle", ActionFunc(increment)), NewEvent("Start"))
	if k1 != k2 {
		t.Error("同名组合应得到相同的键")
	}
	if k1.StateName() != "Idle" || k1.EventName() != "Start" {
		t.Errorf("键内容错误: %v", k1)
	}
	if k1.String() != "Idle/Start" {
		t.Errorf("键的诊断输出错误: %q", k1.String())
	}
}

func TestDerive_NilReference(t *testing.T) {
	expectFatal(t, KindNilReference, func() {
		Derive(nil, NewEvent("Start"))
	})
	expectFatal(t, KindNilReference, func() {
		Derive(NewState("Idle", nil), nil)
	})
}

func TestBind_NilNextState(t *testing.T) {
	key := On(NewState("Idle", nil), NewEvent("Start"))
	expectFatal(t, KindNilReference, func() {
		Bind(key, nil)
	})
}

func TestTable_Insert_ZeroTransition(t *testing.T) {
	expectFatal(t, KindNilReference, func() {
		NewTable().Insert(Transition{})
	})
}

func TestTable_LookupHit(t *testing.T) {
	s1, s2 := NewState("S1", nil), NewState("S2", nil)
	e1 := NewEvent("E1")

	table := NewTable().Insert(Bind(On(s1, e1), s2))
	if got := table.Lookup(s1, e1); got != s2 {
		t.Errorf("查表命中错误: got %v, want S2", got)
	}
	if !table.Has(s1, e1) {
		t.Error("Has 应返回 true")
	}
}

func TestTable_LookupMiss(t *testing.T) {
	tracer := &BufferTracer{}
	s1, s2 := NewState("S1", nil), NewState("S2", nil)
	table := NewTable(WithTableTracer(tracer)).Insert(On(s1, NewEvent("E1")).To(s2))

	if got := table.Lookup(s2, NewEvent("E1")); got != s2 {
		t.Errorf("未命中应停留在当前状态: got %v", got)
	}
	if got := table.Lookup(s1, NewEvent("E2")); got != s1 {
		t.Errorf("未命中应停留在当前状态: got %v", got)
	}
	if table.Has(s1, NewEvent("E2")) {
		t.Error("Has 应返回 false")
	}

	warnings := tracer.Warnings()
	if len(warnings) != 2 {
		t.Fatalf("未命中应告警两次: got %d", len(warnings))
	}
	want := "No known transition in the transition table for: S2 and E1"
	if warnings[0] != want {
		t.Errorf("告警内容错误: got %q, want %q", warnings[0], want)
	}
}

func TestTable_LastWriterWins(t *testing.T) {
	s1, s2, s3 := NewState("S1", nil), NewState("S2", nil), NewState("S3", nil)
	e := NewEvent("E")

	table := NewTable()
	table.Insert(On(s1, e).To(s2))
	table.Insert(On(s1, e).To(s3))

	if table.Len() != 1 {
		t.Errorf("重复键不应新增记录: got %d", table.Len())
	}
	if got := table.Lookup(s1, e); got != s3 {
		t.Errorf("后写入者应生效: got %v, want S3", got)
	}
}

func TestTable_IdempotentInsert(t *testing.T) {
	s1, s2 := NewState("S1", nil), NewState("S2", nil)
	e := NewEvent("E")
	tr := On(s1, e).To(s2)

	once := NewTable().Insert(tr)
	twice := NewTable().Insert(tr).Insert(tr)

	if once.Len() != twice.Len() {
		t.Errorf("重复插入改变了条数: %d != %d", once.Len(), twice.Len())
	}
	for _, probe := range []*State{s1, s2} {
		if once.Lookup(probe, e) != twice.Lookup(probe, e) {
			t.Errorf("重复插入改变了查表结果: %v", probe)
		}
	}
}

func TestTable_Freeze(t *testing.T) {
	s1, s2 := NewState("S1", nil), NewState("S2", nil)
	table := NewTable().Insert(On(s1, NewEvent("E")).To(s2)).Freeze()

	if !table.Frozen() {
		t.Error("Freeze 后应为冻结状态")
	}
	expectFatal(t, KindFrozenTable, func() {
		table.Insert(On(s2, NewEvent("E")).To(s1))
	})
	if table.Len() != 1 {
		t.Errorf("冻结后的插入不应生效: got %d", table.Len())
	}
}

func TestTable_Transitions(t *testing.T) {
	a, b := NewState("A", nil), NewState("B", nil)
	table := NewTable().InsertAll(
		On(b, NewEvent("y")).To(a),
		On(a, NewEvent("z")).To(b),
		On(a, NewEvent("x")).To(a),
	)

	entries := table.Transitions()
	if len(entries) != 3 {
		t.Fatalf("条数错误: got %d", len(entries))
	}
	order := []string{"A/x", "A/z", "B/y"}
	for i, e := range entries {
		if e.State+"/"+e.Event != order[i] {
			t.Errorf("第 %d 条顺序错误: got %s/%s, want %s", i, e.State, e.Event, order[i])
		}
	}
}

func TestTable_WriteDOT(t *testing.T) {
	idle, running := NewState("Idle", nil), NewState("Running", nil)
	table := NewTable().Insert(On(idle, NewEvent("Start")).To(running))

	var buf bytes.Buffer
	if err := table.WriteDOT(&buf, "robot"); err != nil {
		t.Fatalf("WriteDOT 失败: %v", err)
	}

	out := buf.String()
	for _, want := range []string{
		`digraph "robot" {`,
		`"Idle";`,
		`"Running";`,
		`"Idle" -> "Running" [label="Start"];`,
	} {
		if !strings.Contains(out, want) {
			t.Errorf("DOT 输出缺少 %q:\n%s", want, out)
		}
	}
}

func TestTable_TracerPanicIgnored(t *testing.T) {
	boom := TracerFunc(func(msg string, warn bool) { panic("sink failure") })
	s := NewState("S", nil)
	table := NewTable(WithTableTracer(boom))

	if got := table.Lookup(s, NewEvent("E")); got != s {
		t.Errorf("sink 失败不应影响查表: got %v", got)
	}
}
