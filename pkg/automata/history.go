package automata

import (
	"encoding/json"
	"sync"
	"time"
)

// History 一次推进的记录
type History struct {
	From      string    `json:"from"`
	To        string    `json:"to"`
	Event     string    `json:"event"`
	Hit       bool      `json:"hit"`
	Timestamp time.Time `json:"timestamp"`
}

// Recorder 环形缓冲区，保存最近的推进记录
type Recorder struct {
	mu      sync.RWMutex
	records []History
	next    int
	full    bool
	now     func() time.Time
}

// NewRecorder 创建记录器，capacity <= 0 时取 128
func NewRecorder(capacity int) *Recorder {
	if capacity <= 0 {
		capacity = 128
	}
	return &Recorder{
		records: make([]History, capacity),
		now:     time.Now,
	}
}

func (r *Recorder) record(from, to, event string, hit bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.records[r.next] = History{
		From:      from,
		To:        to,
		Event:     event,
		Hit:       hit,
		Timestamp: r.now(),
	}
	r.next++
	if r.next == len(r.records) {
		r.next = 0
		r.full = true
	}
}

// Records 按时间先后返回记录副本
func (r *Recorder) Records() []History {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if !r.full {
		return append([]History{}, r.records[:r.next]...)
	}
	out := make([]History, 0, len(r.records))
	out = append(out, r.records[r.next:]...)
	return append(out, r.records[:r.next]...)
}

// Len 返回当前记录数
func (r *Recorder) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if r.full {
		return len(r.records)
	}
	return r.next
}

// Clear 清空记录
func (r *Recorder) Clear() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.records = make([]History, len(r.records))
	r.next = 0
	r.full = false
}

// MarshalJSON 序列化记录
func (r *Recorder) MarshalJSON() ([]byte, error) {
	return json.Marshal(r.Records())
}
