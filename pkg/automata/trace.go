package automata

import (
	"sync"

	"github.com/junbin-yang/go-automata/pkg/logger"
)

// Tracer 诊断输出，不得影响状态机的控制流
type Tracer interface {
	// Trace 记录一次状态推进
	Trace(msg string)

	// Warn 记录非致命的异常情况：查表未命中、空动作、空数据
	Warn(msg string)
}

// NopTracer 丢弃所有记录
type NopTracer struct{}

func (NopTracer) Trace(string) {}
func (NopTracer) Warn(string)  {}

// TracerFunc 把普通函数适配为 Tracer，warn 标记区分两类记录
type TracerFunc func(msg string, warn bool)

func (f TracerFunc) Trace(msg string) { f(msg, false) }
func (f TracerFunc) Warn(msg string)  { f(msg, true) }

// LoggerTracer 把记录写入 logger：推进记录为 Debug，异常为 Warn
type LoggerTracer struct {
	Logger logger.Logger
	Fields []logger.Field
}

// NewLoggerTracer 创建基于日志的 Tracer，l 为 nil 时使用默认日志
func NewLoggerTracer(l logger.Logger, fields ...logger.Field) *LoggerTracer {
	if l == nil {
		l = logger.Default()
	}
	return &LoggerTracer{Logger: l, Fields: fields}
}

func (t *LoggerTracer) Trace(msg string) { t.Logger.Debug(msg, t.Fields...) }
func (t *LoggerTracer) Warn(msg string)  { t.Logger.Warn(msg, t.Fields...) }

// MultiTracer 依次写入多个 Tracer
type MultiTracer []Tracer

func (m MultiTracer) Trace(msg string) {
	for _, t := range m {
		safeTrace(t, msg, false)
	}
}

func (m MultiTracer) Warn(msg string) {
	for _, t := range m {
		safeTrace(t, msg, true)
	}
}

// BufferTracer 在内存中保存记录，并发安全
type BufferTracer struct {
	mu     sync.Mutex
	traces []string
	warns  []string
}

func (b *BufferTracer) Trace(msg string) {
	b.mu.Lock()
	b.traces = append(b.traces, msg)
	b.mu.Unlock()
}

func (b *BufferTracer) Warn(msg string) {
	b.mu.Lock()
	b.warns = append(b.warns, msg)
	b.mu.Unlock()
}

// Traces 返回推进记录的副本
func (b *BufferTracer) Traces() []string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([]string(nil), b.traces...)
}

// Warnings 返回告警记录的副本
func (b *BufferTracer) Warnings() []string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([]string(nil), b.warns...)
}

// Reset 清空记录
func (b *BufferTracer) Reset() {
	b.mu.Lock()
	b.traces = nil
	b.warns = nil
	b.mu.Unlock()
}

// safeTrace 吞掉 sink 自身的 panic
func safeTrace(t Tracer, msg string, warn bool) {
	if t == nil {
		return
	}
	defer func() { _ = recover() }()
	if warn {
		t.Warn(msg)
	} else {
		t.Trace(msg)
	}
}
