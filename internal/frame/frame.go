// Package frame schedules per-frame work. A Task is a cancellable repeating
// callback; a Scheduler decides when it runs.
package frame

import (
	"context"
	"slices"
	"sync"
	"sync/atomic"
	"time"
)

// Func receives the time elapsed since the scheduler started.
type Func func(ts time.Duration)

// Task is a repeating callback with a cancellation token that is checked
// before every run. Runs never overlap.
type Task struct {
	fn      Func
	mu      sync.Mutex
	running atomic.Bool
}

func NewTask(fn Func) *Task {
	t := &Task{fn: fn}
	t.running.Store(true)
	return t
}

// Run invokes the callback unless the task was cancelled. It reports whether
// the task is still live, so schedulers know to stop rescheduling it.
func (t *Task) Run(ts time.Duration) bool {
	if !t.running.Load() {
		return false
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	if !t.running.Load() {
		return false
	}
	t.fn(ts)
	return true
}

// Cancel stops the task. A run already in progress completes.
func (t *Task) Cancel() { t.running.Store(false) }

func (t *Task) Running() bool { return t.running.Load() }

// Scheduler drives tasks.
type Scheduler interface {
	Start(t *Task)
}

// DefaultInterval approximates a 60 Hz display refresh.
const DefaultInterval = time.Second / 60

// TickerScheduler runs each task on its own goroutine at a fixed refresh
// interval until the task is cancelled or the context ends.
type TickerScheduler struct {
	ctx      context.Context
	interval time.Duration
	wg       sync.WaitGroup
}

func NewTickerScheduler(ctx context.Context, interval time.Duration) *TickerScheduler {
	if ctx == nil {
		ctx = context.Background()
	}
	if interval <= 0 {
		interval = DefaultInterval
	}
	return &TickerScheduler{ctx: ctx, interval: interval}
}

func (s *TickerScheduler) Start(t *Task) {
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		ticker := time.NewTicker(s.interval)
		defer ticker.Stop()
		start := time.Now()
		for {
			select {
			case <-s.ctx.Done():
				return
			case now := <-ticker.C:
				if !t.Run(now.Sub(start)) {
					return
				}
			}
		}
	}()
}

// Wait blocks until every started task has stopped.
func (s *TickerScheduler) Wait() { s.wg.Wait() }

// ManualScheduler runs tasks only when Step is called. Hosts with their own
// frame callback (and tests) use it.
type ManualScheduler struct {
	mu    sync.Mutex
	tasks []*Task
}

func NewManualScheduler() *ManualScheduler { return &ManualScheduler{} }

func (m *ManualScheduler) Start(t *Task) {
	m.mu.Lock()
	m.tasks = append(m.tasks, t)
	m.mu.Unlock()
}

// Step runs every live task once with timestamp ts and drops cancelled ones.
// It returns the number of tasks that ran. Overlapping Steps are allowed;
// the task list is rebuilt by liveness, so tasks started or cancelled while
// a step runs are handled either way.
func (m *ManualScheduler) Step(ts time.Duration) int {
	m.mu.Lock()
	tasks := slices.Clone(m.tasks)
	m.mu.Unlock()

	ran := 0
	for _, t := range tasks {
		if t.Run(ts) {
			ran++
		}
	}

	m.mu.Lock()
	m.tasks = slices.DeleteFunc(m.tasks, func(t *Task) bool { return !t.Running() })
	m.mu.Unlock()
	return ran
}

// Pending is the number of tasks still scheduled.
func (m *ManualScheduler) Pending() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.tasks)
}
