package form

import "time"

// Task is a pending deferred callback.
type Task interface {
	// Stop cancels the callback, reporting whether it had not yet run.
	Stop() bool
}

// Scheduler runs fn once after d.
type Scheduler interface {
	AfterFunc(d time.Duration, fn func()) Task
}

// Navigator changes the current page.
type Navigator interface {
	Navigate(path string)
}

// Observer is told every time a form's feedback changes.
type Observer func(form ID, feedback Feedback)

// TimerScheduler schedules callbacks on the runtime timer.
type TimerScheduler struct{}

// AfterFunc wraps time.AfterFunc.
func (TimerScheduler) AfterFunc(d time.Duration, fn func()) Task {
	return time.AfterFunc(d, fn)
}
