package logger

import (
	"io"
	"time"

	rotatelogs "github.com/lestrrat-go/file-rotatelogs"
	"gopkg.in/natefinch/lumberjack.v2"
)

// SizeRotateConfig 按大小轮转配置
type SizeRotateConfig struct {
	Filename   string // 日志文件路径
	MaxSize    int    // 单文件最大MB
	MaxBackups int    // 保留的旧文件个数
	MaxAge     int    // 保留天数
	Compress   bool   // 是否gzip压缩旧文件
	LocalTime  bool
}

// RotateConfig 按时间轮转配置
type RotateConfig struct {
	Filename     string        // 日志文件路径，实际文件名追加时间后缀
	MaxAge       int           // 保留天数
	RotationTime time.Duration // 轮转周期
	LocalTime    bool
}

// NewRotateBySize 创建按大小轮转的输出
func NewRotateBySize(cfg *SizeRotateConfig) io.Writer {
	return &lumberjack.Logger{
		Filename:   cfg.Filename,
		MaxSize:    cfg.MaxSize,
		MaxBackups: cfg.MaxBackups,
		MaxAge:     cfg.MaxAge,
		Compress:   cfg.Compress,
		LocalTime:  cfg.LocalTime,
	}
}

// NewProductionRotateBySize 生产环境默认的按大小轮转输出
func NewProductionRotateBySize(filename string) io.Writer {
	return NewRotateBySize(&SizeRotateConfig{
		Filename:   filename,
		MaxSize:    100,
		MaxBackups: 10,
		MaxAge:     30,
		Compress:   true,
		LocalTime:  true,
	})
}

// NewRotateByTime 创建按时间轮转的输出，创建失败时返回 nil（New 会退回标准错误）
func NewRotateByTime(cfg *RotateConfig) io.Writer {
	rotationTime := cfg.RotationTime
	if rotationTime <= 0 {
		rotationTime = 24 * time.Hour
	}
	maxAge := time.Duration(cfg.MaxAge) * 24 * time.Hour
	if maxAge <= 0 {
		maxAge = 7 * 24 * time.Hour
	}

	opts := []rotatelogs.Option{
		rotatelogs.WithLinkName(cfg.Filename),
		rotatelogs.WithMaxAge(maxAge),
		rotatelogs.WithRotationTime(rotationTime),
	}
	if !cfg.LocalTime {
		opts = append(opts, rotatelogs.WithClock(rotatelogs.UTC))
	}

	w, err := rotatelogs.New(cfg.Filename+".%Y%m%d%H", opts...)
	if err != nil {
		return nil
	}
	return w
}
