package clock

import "time"

// Task is a scheduled callback. A cancelled or finished task never runs again.
type Task struct {
	due        time.Time
	endOfFrame bool
	fn         func()
	done       bool
}

// Cancel prevents the task from running. Safe on nil and finished tasks.
func (t *Task) Cancel() {
	if t != nil {
		t.done = true
	}
}

// Pending reports whether the task is still waiting to run.
func (t *Task) Pending() bool {
	return t != nil && !t.done
}

// Scheduler runs waits as per-tick state instead of blocking. It is
// driven from the main loop and is not safe for concurrent use.
type Scheduler struct {
	time  TimeProvider
	tasks []*Task
}

// NewScheduler returns a scheduler measuring delays on p.
func NewScheduler(p TimeProvider) *Scheduler {
	return &Scheduler{time: p}
}

// After runs fn on the first Update at least d of real time from now.
func (s *Scheduler) After(d time.Duration, fn func()) *Task {
	t := &Task{due: s.time.Now().Add(d), fn: fn}
	s.tasks = append(s.tasks, t)
	return t
}

// AtEndOfFrame runs fn at the next EndOfFrame.
func (s *Scheduler) AtEndOfFrame(fn func()) *Task {
	t := &Task{endOfFrame: true, fn: fn}
	s.tasks = append(s.tasks, t)
	return t
}

// Update runs due timed tasks.
func (s *Scheduler) Update() {
	now := s.time.Now()
	s.run(func(t *Task) bool { return !t.endOfFrame && !now.Before(t.due) })
}

// EndOfFrame runs end-of-frame tasks queued before the call. Tasks they
// queue wait for the following frame.
func (s *Scheduler) EndOfFrame() {
	s.run(func(t *Task) bool { return t.endOfFrame })
}

// Len returns the number of pending tasks.
func (s *Scheduler) Len() int {
	n := 0
	for _, t := range s.tasks {
		if !t.done {
			n++
		}
	}
	return n
}

func (s *Scheduler) run(ready func(*Task) bool) {
	queued := s.tasks
	s.tasks = nil
	var keep []*Task
	for _, t := range queued {
		if t.done {
			continue
		}
		if !ready(t) {
			keep = append(keep, t)
			continue
		}
		t.done = true
		t.fn()
	}
	s.tasks = append(keep, s.tasks...)
}
