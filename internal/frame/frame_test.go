package frame

import (
	"context"
	"sync/atomic"
	"testing"
	"time"
)

func TestTaskRunAndCancel(t *testing.T) {
	var calls []time.Duration
	task := NewTask(func(ts time.Duration) { calls = append(calls, ts) })

	if !task.Run(10 * time.Millisecond) {
		t.Fatal("Run on live task returned false")
	}
	task.Cancel()
	if task.Running() {
		t.Error("Running() true after Cancel")
	}
	if task.Run(20 * time.Millisecond) {
		t.Error("Run after Cancel returned true")
	}
	if len(calls) != 1 || calls[0] != 10*time.Millisecond {
		t.Errorf("calls = %v, want [10ms]", calls)
	}
}

func TestManualSchedulerDropsCancelledTasks(t *testing.T) {
	m := NewManualScheduler()
	var a, b int
	ta := NewTask(func(time.Duration) { a++ })
	tb := NewTask(func(time.Duration) { b++ })
	m.Start(ta)
	m.Start(tb)

	if ran := m.Step(0); ran != 2 {
		t.Fatalf("Step ran %d tasks, want 2", ran)
	}
	tb.Cancel()
	if ran := m.Step(time.Millisecond); ran != 1 {
		t.Fatalf("Step ran %d tasks, want 1", ran)
	}
	if m.Pending() != 1 {
		t.Errorf("Pending = %d, want 1", m.Pending())
	}
	if a != 2 || b != 1 {
		t.Errorf("a=%d b=%d, want 2 and 1", a, b)
	}
}

func TestManualSchedulerKeepsTasksStartedDuringStep(t *testing.T) {
	m := NewManualScheduler()
	started := false
	m.Start(NewTask(func(time.Duration) {
		if !started {
			started = true
			m.Start(NewTask(func(time.Duration) {}))
		}
	}))
	m.Step(0)
	if m.Pending() != 2 {
		t.Fatalf("Pending = %d, want 2", m.Pending())
	}
}

func TestManualSchedulerOverlappingSteps(t *testing.T) {
	m := NewManualScheduler()
	entered := make(chan struct{})
	release := make(chan struct{})
	var once atomic.Bool
	task := NewTask(func(time.Duration) {
		if once.CompareAndSwap(false, true) {
			close(entered)
			<-release
		}
	})
	m.Start(task)

	first := make(chan any, 1)
	go func() {
		defer func() { first <- recover() }()
		m.Step(time.Millisecond)
	}()
	<-entered

	task.Cancel()
	if ran := m.Step(2 * time.Millisecond); ran != 0 {
		t.Errorf("second Step ran %d tasks, want 0", ran)
	}
	close(release)
	if p := <-first; p != nil {
		t.Fatalf("first Step panicked: %v", p)
	}
	if m.Pending() != 0 {
		t.Errorf("Pending = %d, want 0", m.Pending())
	}

	// A task started after the overlap is still scheduled normally.
	var n int
	m.Start(NewTask(func(time.Duration) { n++ }))
	m.Step(3 * time.Millisecond)
	if n != 1 || m.Pending() != 1 {
		t.Errorf("n=%d pending=%d, want 1 and 1", n, m.Pending())
	}
}

func TestTickerSchedulerStopsOnCancel(t *testing.T) {
	s := NewTickerScheduler(context.Background(), time.Millisecond)
	var n atomic.Int32
	var task *Task
	task = NewTask(func(time.Duration) {
		if n.Add(1) == 3 {
			task.Cancel()
		}
	})
	s.Start(task)

	done := make(chan struct{})
	go func() { s.Wait(); close(done) }()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("scheduler did not stop after cancel")
	}
	if got := n.Load(); got != 3 {
		t.Errorf("task ran %d times, want 3", got)
	}
}

func TestTickerSchedulerStopsOnContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	s := NewTickerScheduler(ctx, time.Millisecond)
	s.Start(NewTask(func(time.Duration) {}))
	cancel()

	done := make(chan struct{})
	go func() { s.Wait(); close(done) }()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("scheduler did not stop after context cancel")
	}
}
