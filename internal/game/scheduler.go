package game

import "sort"

// TaskFunc is a delayed callback run by the scheduler.
type TaskFunc func()

type task struct {
	handle   int
	group    int
	due      uint64
	fn       TaskFunc
	canceled bool
}

// Scheduler is a tick-driven queue of cancelable delayed tasks. It replaces
// free-floating timer chains: every delayed effect is registered here under
// an entity group, so "cancel everything for word X" and "cancel everything"
// are first-class operations and nothing can fire against destroyed state.
//
// Not safe for concurrent use; the engine drives it from the single tick
// loop.
type Scheduler struct {
	now        uint64
	nextHandle int
	tasks      []*task
}

// NewScheduler creates an empty scheduler.
func NewScheduler() *Scheduler {
	return &Scheduler{nextHandle: 1}
}

// After registers fn to run delay ticks from now, under the given group.
// A delay-d task fires on the d-th Advance from now; delay 0 is clamped to
// 1, so it and anything scheduled mid-Advance still land on the next tick.
// Returns a cancelable handle.
func (s *Scheduler) After(group, delay int, fn TaskFunc) int {
	if delay < 1 {
		delay = 1
	}
	h := s.nextHandle
	s.nextHandle++
	s.tasks = append(s.tasks, &task{
		handle: h,
		group:  group,
		due:    s.now + uint64(delay),
		fn:     fn,
	})
	return h
}

// Cancel drops the task with the given handle. Canceling an already-fired
// or unknown handle is a no-op.
func (s *Scheduler) Cancel(handle int) {
	for _, t := range s.tasks {
		if t.handle == handle {
			t.canceled = true
			return
		}
	}
}

// CancelGroup drops every pending task registered under the group.
func (s *Scheduler) CancelGroup(group int) {
	for _, t := range s.tasks {
		if t.group == group {
			t.canceled = true
		}
	}
}

// CancelAll drops every pending task.
func (s *Scheduler) CancelAll() {
	for _, t := range s.tasks {
		t.canceled = true
	}
}

// Pending returns the number of live (not yet fired or canceled) tasks.
func (s *Scheduler) Pending() int {
	n := 0
	for _, t := range s.tasks {
		if !t.canceled {
			n++
		}
	}
	return n
}

// Advance moves the clock one tick and fires every due task in (due, handle)
// order. Tasks canceled by an earlier task in the same tick do not fire.
// A panic inside one task degrades only that task; the rest of the queue
// still runs.
func (s *Scheduler) Advance() {
	s.now++

	// Snapshot the due set: tasks scheduled by firing tasks belong to a
	// later tick.
	var due []*task
	for _, t := range s.tasks {
		if !t.canceled && t.due <= s.now {
			due = append(due, t)
		}
	}
	sort.Slice(due, func(i, j int) bool {
		if due[i].due != due[j].due {
			return due[i].due < due[j].due
		}
		return due[i].handle < due[j].handle
	})

	for _, t := range due {
		if t.canceled {
			continue
		}
		t.canceled = true // consumed
		runTask(t.fn)
	}

	s.compact()
}

func runTask(fn TaskFunc) {
	defer func() {
		// A throw inside a scheduled callback must not kill other
		// pending timers.
		_ = recover()
	}()
	fn()
}

func (s *Scheduler) compact() {
	live := s.tasks[:0]
	for _, t := range s.tasks {
		if !t.canceled {
			live = append(live, t)
		}
	}
	// Zero the tail so fired tasks can be collected
	for i := len(live); i < len(s.tasks); i++ {
		s.tasks[i] = nil
	}
	s.tasks = live
}
