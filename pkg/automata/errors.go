package automata

import (
	"fmt"
	"sync"
)

var (
	// ErrInvalidName 状态或事件名称为空
	ErrInvalidName = fmt.Errorf("invalid name")

	// ErrNilReference 构造时传入了空引用
	ErrNilReference = fmt.Errorf("nil reference")

	// ErrFrozenTable 向已冻结的转换表插入
	ErrFrozenTable = fmt.Errorf("transition table is frozen")

	// ErrMachineNotFound 当状态机不存在时返回
	ErrMachineNotFound = fmt.Errorf("automaton not found")

	// ErrMachineExists 当状态机名称已被占用时返回
	ErrMachineExists = fmt.Errorf("automaton already exists")

	// ErrDriverStopped 驱动器停止后继续投递事件时返回
	ErrDriverStopped = fmt.Errorf("driver stopped")
)

// Kind 结构性错误分类
type Kind int

const (
	KindInvalidName Kind = iota + 1
	KindNilReference
	KindFrozenTable
)

func (k Kind) String() string {
	switch k {
	case KindInvalidName:
		return "InvalidName"
	case KindNilReference:
		return "NilReference"
	case KindFrozenTable:
		return "FrozenTable"
	}
	return fmt.Sprintf("Kind(%d)", int(k))
}

func (k Kind) sentinel() error {
	switch k {
	case KindInvalidName:
		return ErrInvalidName
	case KindNilReference:
		return ErrNilReference
	case KindFrozenTable:
		return ErrFrozenTable
	}
	return nil
}

// FatalError 结构性错误，表示调用方误用了API，不可恢复
type FatalError struct {
	Kind    Kind
	Message string
}

func (e *FatalError) Error() string {
	return fmt.Sprintf("automata: %s: %s", e.Kind, e.Message)
}

func (e *FatalError) Unwrap() error {
	return e.Kind.sentinel()
}

// FailFunc 结构性错误处理函数，约定不返回
type FailFunc func(kind Kind, msg string)

// Panic 默认的失败处理：以 *FatalError 触发 panic
func Panic(kind Kind, msg string) {
	panic(&FatalError{Kind: kind, Message: msg})
}

var (
	failMu      sync.RWMutex
	failHandler FailFunc = Panic
)

// SetFailHandler 替换全局失败处理函数，传入 nil 恢复默认
func SetFailHandler(fn FailFunc) {
	failMu.Lock()
	defer failMu.Unlock()
	if fn == nil {
		fn = Panic
	}
	failHandler = fn
}

func currentFailHandler() FailFunc {
	failMu.RLock()
	defer failMu.RUnlock()
	return failHandler
}

// fail 调用失败处理函数；处理函数若意外返回，仍以 panic 终止
func fail(handler FailFunc, kind Kind, format string, args ...interface{}) {
	msg := fmt.Sprintf(format, args...)
	if handler == nil {
		handler = currentFailHandler()
	}
	handler(kind, msg)
	Panic(kind, msg)
}
