package automata

import (
	"context"
	"sync"

	"github.com/google/uuid"
)

type posted struct {
	event *Event
	args  interface{}
}

// Driver 在单个协程中按顺序把队列中的事件交给 Automaton
//
// 运行期间 Driver 独占该 Automaton，其他地方不应再直接推进它。
type Driver struct {
	id        string
	a         *Automaton
	queue     chan posted
	stopCh    chan struct{}
	stopOnce  sync.Once
	startOnce sync.Once
	wg        sync.WaitGroup
	onAdvance func(state *State, result bool)
}

// NewDriver 创建驱动器，queueSize 为事件队列容量
func NewDriver(a *Automaton, queueSize int) *Driver {
	if a == nil {
		fail(nil, KindNilReference, "Driver automaton cannot be nil")
	}
	if queueSize < 0 {
		queueSize = 0
	}
	return &Driver{
		id:     uuid.NewString(),
		a:      a,
		queue:  make(chan posted, queueSize),
		stopCh: make(chan struct{}),
	}
}

// ID 返回本次运行的唯一标识，用于日志关联
func (d *Driver) ID() string {
	return d.id
}

// Automaton 返回被驱动的状态机
func (d *Driver) Automaton() *Automaton {
	return d.a
}

// OnAdvance 设置每次推进后的回调，必须在 Start 之前调用
func (d *Driver) OnAdvance(fn func(state *State, result bool)) {
	d.onAdvance = fn
}

// Start 启动事件处理协程，重复调用无效
func (d *Driver) Start() {
	d.startOnce.Do(func() {
		d.wg.Add(1)
		go d.loop()
	})
}

// Stop 停止处理并等待协程退出，队列中未处理的事件被丢弃
func (d *Driver) Stop() {
	d.stopOnce.Do(func() {
		close(d.stopCh)
	})
	d.wg.Wait()
}

// Post 投递事件，队列满时阻塞直到 ctx 结束或驱动器停止
func (d *Driver) Post(ctx context.Context, event *Event, args interface{}) error {
	if event == nil {
		return ErrNilReference
	}

	select {
	case <-d.stopCh:
		return ErrDriverStopped
	default:
	}

	select {
	case d.queue <- posted{event: event, args: args}:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	case <-d.stopCh:
		return ErrDriverStopped
	}
}

// QueueLength 返回队列中等待处理的事件数
func (d *Driver) QueueLength() int {
	return len(d.queue)
}

func (d *Driver) loop() {
	defer d.wg.Done()

	for {
		select {
		case <-d.stopCh:
			return
		case p := <-d.queue:
			result := d.a.Advance(p.event, p.args)
			if d.onAdvance != nil {
				d.onAdvance(d.a.Current(), result)
			}
		}
	}
}
