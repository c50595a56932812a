package automata

import (
	"sync"
)

type member struct {
	mu sync.Mutex
	a  *Automaton
}

// Group 按名称管理多个状态机，每个状态机的访问由各自的锁串行化
type Group struct {
	mu       sync.RWMutex
	machines map[string]*member
}

// NewGroup 创建状态机组
func NewGroup() *Group {
	return &Group{
		machines: make(map[string]*member),
	}
}

// Add 加入状态机
func (g *Group) Add(name string, a *Automaton) error {
	if a == nil {
		return ErrNilReference
	}

	g.mu.Lock()
	defer g.mu.Unlock()

	if _, exists := g.machines[name]; exists {
		return ErrMachineExists
	}
	g.machines[name] = &member{a: a}
	return nil
}

// Remove 移除状态机
func (g *Group) Remove(name string) {
	g.mu.Lock()
	defer g.mu.Unlock()
	delete(g.machines, name)
}

// Get 获取状态机；调用方若直接推进，需要自行保证不与组内操作并发
func (g *Group) Get(name string) (*Automaton, bool) {
	g.mu.RLock()
	defer g.mu.RUnlock()
	m, exists := g.machines[name]
	if !exists {
		return nil, false
	}
	return m.a, true
}

// Do 在该状态机的锁内执行 fn
func (g *Group) Do(name string, fn func(a *Automaton)) error {
	m, err := g.member(name)
	if err != nil {
		return err
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	fn(m.a)
	return nil
}

// Advance 推进指定状态机
func (g *Group) Advance(name string, event *Event, args interface{}) (bool, error) {
	var result bool
	err := g.Do(name, func(a *Automaton) {
		result = a.Advance(event, args)
	})
	return result, err
}

// AdvanceAll 并行推进所有状态机，返回各自动作的结果
func (g *Group) AdvanceAll(event *Event, args interface{}) map[string]bool {
	members := g.snapshot()

	results := make(map[string]bool, len(members))
	var wg sync.WaitGroup
	var mu sync.Mutex

	for name, m := range members {
		wg.Add(1)
		go func(n string, m *member) {
			defer wg.Done()
			m.mu.Lock()
			ok := m.a.Advance(event, args)
			m.mu.Unlock()

			mu.Lock()
			results[n] = ok
			mu.Unlock()
		}(name, m)
	}

	wg.Wait()
	return results
}

// ResetAll 重置所有状态机
func (g *Group) ResetAll() {
	for _, m := range g.snapshot() {
		m.mu.Lock()
		m.a.Reset()
		m.mu.Unlock()
	}
}

// States 返回所有状态机的当前状态名
func (g *Group) States() map[string]string {
	members := g.snapshot()

	states := make(map[string]string, len(members))
	for name, m := range members {
		m.mu.Lock()
		states[name] = m.a.Current().Name()
		m.mu.Unlock()
	}
	return states
}

// Count 返回状态机数量
func (g *Group) Count() int {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return len(g.machines)
}

func (g *Group) member(name string) (*member, error) {
	g.mu.RLock()
	defer g.mu.RUnlock()
	m, exists := g.machines[name]
	if !exists {
		return nil, ErrMachineNotFound
	}
	return m, nil
}

func (g *Group) snapshot() map[string]*member {
	g.mu.RLock()
	defer g.mu.RUnlock()
	members := make(map[string]*member, len(g.machines))
	for name, m := range g.machines {
		members[name] = m
	}
	return members
}
