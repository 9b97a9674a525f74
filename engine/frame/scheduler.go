package frame

import "sync"

// CancelFunc stops a scheduled task. Safe to call more than once and from
// within the task's own step; the task does not run again after the frame in
// which it was cancelled.
type CancelFunc func()

// Scheduler is the single cooperative scheduling primitive the viewer runs
// on: "run this step before the next paint". The scene's player advance, the
// freeze monitor, and the pose enforcement task are all registered here.
// Steps run to completion one at a time, in registration order within a
// frame, so tasks never observe each other mid-step.
type Scheduler interface {
	// Schedule registers a repeating per-frame step and returns its
	// cancellation token. A step scheduled during a frame first runs on the
	// following frame.
	//
	// Parameters:
	//   - step: function invoked once per frame with the frame delta time in seconds
	//
	// Returns:
	//   - CancelFunc: cancels the task cooperatively
	Schedule(step func(deltaTime float32)) CancelFunc
}

// Runner is a Scheduler driven by explicit Run calls. The engine calls Run
// once per tick on its tick goroutine; tests call Run directly to simulate
// frames without a window or a GPU.
type Runner struct {
	mu    sync.Mutex
	tasks []*scheduledTask
	buf   []*scheduledTask
}

// scheduledTask pairs a step with its cancellation flag.
type scheduledTask struct {
	step      func(deltaTime float32)
	cancelled bool
}

var _ Scheduler = &Runner{}

// NewRunner creates an empty Runner.
//
// Returns:
//   - *Runner: the new scheduler
func NewRunner() *Runner {
	return &Runner{}
}

func (r *Runner) Schedule(step func(deltaTime float32)) CancelFunc {
	t := &scheduledTask{step: step}
	r.mu.Lock()
	r.tasks = append(r.tasks, t)
	r.mu.Unlock()
	return func() {
		r.mu.Lock()
		t.cancelled = true
		r.mu.Unlock()
	}
}

// Run executes one frame: every task registered before this call, in
// registration order. Cancelled tasks are skipped and compacted out after
// the frame. Tasks scheduled from within a step start on the next frame.
//
// Parameters:
//   - deltaTime: the frame delta time in seconds, passed to every step
func (r *Runner) Run(deltaTime float32) {
	r.mu.Lock()
	r.buf = append(r.buf[:0], r.tasks...)
	r.mu.Unlock()

	for _, t := range r.buf {
		r.mu.Lock()
		dead := t.cancelled
		r.mu.Unlock()
		if dead {
			continue
		}
		t.step(deltaTime)
	}

	r.mu.Lock()
	alive := r.tasks[:0]
	for _, t := range r.tasks {
		if !t.cancelled {
			alive = append(alive, t)
		}
	}
	r.tasks = alive
	r.mu.Unlock()
}

// TaskCount returns the number of live (not yet cancelled) tasks.
//
// Returns:
//   - int: the live task count
func (r *Runner) TaskCount() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	n := 0
	for _, t := range r.tasks {
		if !t.cancelled {
			n++
		}
	}
	return n
}
