package scheduler

import (
	"sync"

	"github.com/robfig/cron/v3"
)

// Task is the cancellation handle of a scheduled simulation job.
type Task struct {
	name string
	id   cron.EntryID
	stop func()

	once    sync.Once
	mu      sync.Mutex
	stopped bool
}

// Name describes the task.
func (t *Task) Name() string { return t.name }

// Stop cancels the task. Safe to call more than once.
func (t *Task) Stop() {
	t.once.Do(func() {
		t.stop()
		t.setStopped()
	})
}

// Stopped reports whether the task was cancelled or finished.
func (t *Task) Stopped() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.stopped
}

func (t *Task) setStopped() {
	t.mu.Lock()
	t.stopped = true
	t.mu.Unlock()
}
