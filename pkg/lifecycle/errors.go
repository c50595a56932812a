package lifecycle

import "errors"

var (
	// ErrWorkerExists 同名协程仍在运行
	ErrWorkerExists = errors.New("lifecycle: worker already exists")

	// ErrWorkerNotFound 协程不存在
	ErrWorkerNotFound = errors.New("lifecycle: worker not found")

	// ErrShutdownTimeout 协程未能在超时时间内退出
	ErrShutdownTimeout = errors.New("lifecycle: shutdown timeout")

	// ErrAlreadyRunning 管理器已在运行
	ErrAlreadyRunning = errors.New("lifecycle: manager already running")
)
