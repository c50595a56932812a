package lifecycle

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/junbin-yang/go-automata/pkg/logger"
)

// Manager 生命周期管理器：启动协程、等待退出信号、按 LIFO 顺序停止
type Manager struct {
	mu              sync.Mutex
	workers         map[string]*Worker
	workerOrder     []string
	hooks           hooks
	signals         []os.Signal
	shutdownTimeout time.Duration
	rootCtx         context.Context
	log             logger.Logger

	ctx          context.Context
	cancel       context.CancelFunc
	running      bool
	wg           sync.WaitGroup
	errChan      chan error
	shutdownOnce sync.Once
	shutdownErr  error
}

// NewManager 创建生命周期管理器
func NewManager(opts ...Option) *Manager {
	m := &Manager{
		workers:         make(map[string]*Worker),
		signals:         []os.Signal{syscall.SIGINT, syscall.SIGTERM},
		shutdownTimeout: 30 * time.Second,
		rootCtx:         context.Background(),
		errChan:         make(chan error, 1),
	}

	for _, opt := range opts {
		opt(m)
	}
	if m.log == nil {
		m.log = logger.Default()
	}
	m.ctx, m.cancel = context.WithCancel(m.rootCtx)

	return m
}

// AddWorker 添加协程；管理器已运行时立即启动
func (m *Manager) AddWorker(name string, runFunc RunFunc, opts ...WorkerOption) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if w, exists := m.workers[name]; exists && !isDone(w) {
		return ErrWorkerExists
	}

	worker := NewWorker(name, runFunc, opts...)
	m.workers[name] = worker
	m.workerOrder = appendOrder(m.workerOrder, name)

	if m.running {
		m.spawn(worker)
	}
	return nil
}

// StopWorker 停止指定协程
func (m *Manager) StopWorker(name string) error {
	m.mu.Lock()
	worker, exists := m.workers[name]
	var cancelWorker context.CancelFunc
	if exists {
		cancelWorker = worker.cancel
	}
	m.mu.Unlock()

	if !exists {
		return ErrWorkerNotFound
	}

	if cancelWorker != nil {
		cancelWorker()
	}

	ctx, cancel := context.WithTimeout(context.Background(), m.shutdownTimeout)
	defer cancel()
	return worker.Stop(ctx)
}

// OnStartup 注册启动钩子
func (m *Manager) OnStartup(fn HookFunc) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.hooks.onStartup = append(m.hooks.onStartup, fn)
}

// OnWorkerExit 注册协程退出钩子
func (m *Manager) OnWorkerExit(fn WorkerHookFunc) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.hooks.onWorkerExit = append(m.hooks.onWorkerExit, fn)
}

// OnShutdown 注册退出钩子
func (m *Manager) OnShutdown(fn HookFunc) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.hooks.onShutdown = append(m.hooks.onShutdown, fn)
}

// OnTimeout 注册超时钩子
func (m *Manager) OnTimeout(fn HookFunc) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.hooks.onTimeout = append(m.hooks.onTimeout, fn)
}

// Context 返回管理器的根上下文，Shutdown 时取消
func (m *Manager) Context() context.Context {
	return m.ctx
}

// Run 启动所有协程并阻塞，直到收到信号、协程出错或 Shutdown
func (m *Manager) Run() error {
	m.mu.Lock()
	if m.running {
		m.mu.Unlock()
		return ErrAlreadyRunning
	}
	m.running = true
	startup := append([]HookFunc(nil), m.hooks.onStartup...)
	m.mu.Unlock()

	if err := callAll(m.ctx, startup); err != nil {
		m.cancel()
		return err
	}

	m.mu.Lock()
	for _, name := range m.workerOrder {
		m.spawn(m.workers[name])
	}
	m.mu.Unlock()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, m.signals...)
	defer signal.Stop(sigChan)

	var runErr error
	select {
	case sig := <-sigChan:
		m.log.Info("received signal, shutting down", logger.String("signal", sig.String()))
	case runErr = <-m.errChan:
		m.log.Error("worker failed, shutting down", logger.Err(runErr))
	case <-m.ctx.Done():
	}

	if err := m.Shutdown(); err != nil && runErr == nil {
		runErr = err
	}
	return runErr
}

// Shutdown 触发退出并等待完成，可多次调用
func (m *Manager) Shutdown() error {
	m.cancel()
	m.shutdownOnce.Do(func() {
		m.shutdownErr = m.shutdown()
	})
	return m.shutdownErr
}

// spawn 启动协程，调用方持有 m.mu
func (m *Manager) spawn(w *Worker) {
	ctx, cancel := context.WithCancel(m.ctx)
	w.cancel = cancel
	exitHooks := append([]WorkerHookFunc(nil), m.hooks.onWorkerExit...)

	m.wg.Add(1)
	go func() {
		defer m.wg.Done()
		defer cancel()

		m.log.Debug("worker started", logger.String("worker", w.Name()))
		err := w.Run(ctx)
		callWorker(exitHooks, w.Name(), err)

		if err != nil && !errors.Is(err, context.Canceled) {
			select {
			case m.errChan <- err:
			default:
			}
		}
	}()
}

// shutdown 取消协程、LIFO 调用停止函数、等待退出、调用退出钩子
func (m *Manager) shutdown() error {
	ctx, cancel := context.WithTimeout(context.Background(), m.shutdownTimeout)
	defer cancel()

	m.mu.Lock()
	m.running = false
	workers := make([]*Worker, 0, len(m.workerOrder))
	for i := len(m.workerOrder) - 1; i >= 0; i-- {
		w := m.workers[m.workerOrder[i]]
		if w.cancel != nil {
			w.cancel()
		}
		workers = append(workers, w)
	}
	h := m.hooks
	m.mu.Unlock()
	for _, w := range workers {
		if err := w.Stop(ctx); err != nil {
			m.log.Warn("worker stop failed", logger.String("worker", w.Name()), logger.Err(err))
		}
	}

	done := make(chan struct{})
	go func() {
		m.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
	case <-ctx.Done():
		_ = callAll(ctx, h.onTimeout)
		return ErrShutdownTimeout
	}

	return callAll(ctx, h.onShutdown)
}

func isDone(w *Worker) bool {
	select {
	case <-w.Done():
		return true
	default:
		return false
	}
}

func appendOrder(order []string, name string) []string {
	for _, n := range order {
		if n == name {
			return order
		}
	}
	return append(order, name)
}
