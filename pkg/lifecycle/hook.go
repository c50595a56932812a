package lifecycle

import "context"

// HookFunc 钩子函数
type HookFunc func(ctx context.Context) error

// WorkerHookFunc 协程钩子函数
type WorkerHookFunc func(name string, err error)

type hooks struct {
	onStartup    []HookFunc
	onWorkerExit []WorkerHookFunc
	onShutdown   []HookFunc
	onTimeout    []HookFunc
}

// callAll 依次调用，遇到第一个错误即返回
func callAll(ctx context.Context, fns []HookFunc) error {
	for _, fn := range fns {
		if err := fn(ctx); err != nil {
			return err
		}
	}
	return nil
}

func callWorker(fns []WorkerHookFunc, name string, err error) {
	for _, fn := range fns {
		fn(name, err)
	}
}
