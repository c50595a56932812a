package automata

import (
	"errors"
	"testing"
)

// expectFatal 断言 fn 以指定类别的结构性错误终止
func expectFatal(t *testing.T, kind Kind, fn func()) {
	t.Helper()

	defer func() {
		t.Helper()
		r := recover()
		if r == nil {
			t.Fatalf("期望结构性错误 %s, 实际未失败", kind)
		}
		fe, ok := r.(*FatalError)
		if !ok {
			t.Fatalf("期望 *FatalError, got %T: %v", r, r)
		}
		if fe.Kind != kind {
			t.Errorf("错误类别不符: got %s, want %s", fe.Kind, kind)
		}
		if !errors.Is(fe, kind.sentinel()) {
			t.Errorf("FatalError 未包装 %v", kind.sentinel())
		}
	}()

	fn()
}

// counter 动作使用的上下文数据
type counter struct {
	n    int
	args []interface{}
}

func increment(data, args interface{}) bool {
	c := data.(*counter)
	c.n++
	c.args = append(c.args, args)
	return true
}
