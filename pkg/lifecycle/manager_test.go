package lifecycle

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"
)

func TestManager_AddWorker(t *testing.T) {
	m := NewManager()

	err := m.AddWorker("test", func(ctx context.Context) error {
		return nil
	})
	if err != nil {
		t.Fatalf("添加协程失败: %v", err)
	}

	err = m.AddWorker("test", func(ctx context.Context) error {
		return nil
	})
	if err != ErrWorkerExists {
		t.Errorf("期望 ErrWorkerExists, got %v", err)
	}
}

func TestManager_StopWorker(t *testing.T) {
	m := NewManager(WithShutdownTimeout(1 * time.Second))

	var stopped int32
	_ = m.AddWorker("test", func(ctx context.Context) error {
		<-ctx.Done()
		atomic.StoreInt32(&stopped, 1)
		return nil
	})

	go func() {
		time.Sleep(100 * time.Millisecond)
		_ = m.StopWorker("test")
	}()

	go func() {
		time.Sleep(500 * time.Millisecond)
		_ = m.Shutdown()
	}()

	_ = m.Run()

	if atomic.LoadInt32(&stopped) != 1 {
		t.Error("协程未被停止")
	}

	if err := m.StopWorker("nonexistent"); err != ErrWorkerNotFound {
		t.Errorf("期望 ErrWorkerNotFound, got %v", err)
	}
}

func TestManager_Hooks(t *testing.T) {
	m := NewManager(WithShutdownTimeout(1 * time.Second))

	var startupCalled, workerExitCalled, shutdownCalled int32

	m.OnStartup(func(ctx context.Context) error {
		atomic.StoreInt32(&startupCalled, 1)
		return nil
	})
	m.OnWorkerExit(func(name string, err error) {
		atomic.StoreInt32(&workerExitCalled, 1)
	})
	m.OnShutdown(func(ctx context.Context) error {
		atomic.StoreInt32(&shutdownCalled, 1)
		return nil
	})

	_ = m.AddWorker("test", func(ctx context.Context) error {
		<-ctx.Done()
		return nil
	})

	go func() {
		time.Sleep(100 * time.Millisecond)
		_ = m.Shutdown()
	}()

	_ = m.Run()

	if atomic.LoadInt32(&startupCalled) != 1 {
		t.Error("OnStartup 未被调用")
	}
	if atomic.LoadInt32(&workerExitCalled) != 1 {
		t.Error("OnWorkerExit 未被调用")
	}
	if atomic.LoadInt32(&shutdownCalled) != 1 {
		t.Error("OnShutdown 未被调用")
	}
}

func TestManager_StartupError(t *testing.T) {
	m := NewManager()
	expectedErr := errors.New("startup error")

	m.OnStartup(func(ctx context.Context) error {
		return expectedErr
	})

	if err := m.Run(); err != expectedErr {
		t.Errorf("期望错误 %v, got %v", expectedErr, err)
	}
}

func TestManager_WorkerError(t *testing.T) {
	m := NewManager(WithShutdownTimeout(1 * time.Second))

	expectedErr := errors.New("worker error")

	_ = m.AddWorker("test", func(ctx context.Context) error {
		return expectedErr
	})

	if err := m.Run(); err != expectedErr {
		t.Errorf("期望错误 %v, got %v", expectedErr, err)
	}
}

func TestManager_ShutdownTimeout(t *testing.T) {
	m := NewManager(WithShutdownTimeout(100 * time.Millisecond))

	var timeoutCalled int32
	m.OnTimeout(func(ctx context.Context) error {
		atomic.StoreInt32(&timeoutCalled, 1)
		return nil
	})

	release := make(chan struct{})
	defer close(release)
	_ = m.AddWorker("stubborn", func(ctx context.Context) error {
		<-release
		return nil
	})

	go func() {
		time.Sleep(50 * time.Millisecond)
		_ = m.Shutdown()
	}()

	if err := m.Run(); err != ErrShutdownTimeout {
		t.Errorf("期望 ErrShutdownTimeout, got %v", err)
	}
	if atomic.LoadInt32(&timeoutCalled) != 1 {
		t.Error("OnTimeout 未被调用")
	}
}

func TestManager_AlreadyRunning(t *testing.T) {
	m := NewManager(WithShutdownTimeout(1 * time.Second))
	_ = m.AddWorker("test", func(ctx context.Context) error {
		<-ctx.Done()
		return nil
	})

	done := make(chan error, 1)
	go func() { done <- m.Run() }()
	time.Sleep(50 * time.Millisecond)

	if err := m.Run(); err != ErrAlreadyRunning {
		t.Errorf("期望 ErrAlreadyRunning, got %v", err)
	}

	_ = m.Shutdown()
	<-done
}

func TestWorker_StopFunc(t *testing.T) {
	var stopCalled int32

	worker := NewWorker("test",
		func(ctx context.Context) error {
			<-ctx.Done()
			return nil
		},
		WithStopFunc(func(ctx context.Context) error {
			atomic.StoreInt32(&stopCalled, 1)
			return nil
		}),
	)

	ctx, cancel := context.WithCancel(context.Background())
	go func() { _ = worker.Run(ctx) }()

	cancel()
	select {
	case <-worker.Done():
	case <-time.After(time.Second):
		t.Fatal("协程未退出")
	}

	_ = worker.Stop(context.Background())

	if atomic.LoadInt32(&stopCalled) != 1 {
		t.Error("StopFunc 未被调用")
	}
	if worker.Err() != nil {
		t.Errorf("协程不应返回错误: %v", worker.Err())
	}
}

func TestManager_DynamicWorker(t *testing.T) {
	m := NewManager(WithShutdownTimeout(2 * time.Second))

	_ = m.AddWorker("long-running", func(ctx context.Context) error {
		<-ctx.Done()
		return nil
	})

	var tempRan int32
	go func() {
		time.Sleep(100 * time.Millisecond)
		_ = m.AddWorker("temp-task", func(ctx context.Context) error {
			atomic.StoreInt32(&tempRan, 1)
			return nil
		})
	}()

	go func() {
		time.Sleep(500 * time.Millisecond)
		_ = m.Shutdown()
	}()

	_ = m.Run()

	if atomic.LoadInt32(&tempRan) != 1 {
		t.Error("运行中添加的协程未被启动")
	}
}

func TestManager_IndependentContext(t *testing.T) {
	m := NewManager(WithShutdownTimeout(2 * time.Second))

	worker1Done := make(chan struct{})
	var worker2Done int32

	_ = m.AddWorker("worker1", func(ctx context.Context) error {
		<-ctx.Done()
		close(worker1Done)
		return nil
	})

	_ = m.AddWorker("worker2", func(ctx context.Context) error {
		<-ctx.Done()
		atomic.StoreInt32(&worker2Done, 1)
		return nil
	})

	go func() {
		time.Sleep(100 * time.Millisecond)
		_ = m.StopWorker("worker1")

		// worker1 停止不影响 worker2
		<-worker1Done
		if atomic.LoadInt32(&worker2Done) != 0 {
			t.Error("worker2 不应随 worker1 停止")
		}
		_ = m.Shutdown()
	}()

	_ = m.Run()

	if atomic.LoadInt32(&worker2Done) != 1 {
		t.Error("worker2 未被停止")
	}
}
