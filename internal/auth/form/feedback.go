package form

import "time"

// ID names a form instance owned by the controller.
type ID string

const (
	Register ID = "registerForm"
	Login    ID = "loginForm"
)

// Kind classifies feedback presentation.
type Kind string

const (
	KindNone    Kind = ""
	KindError   Kind = "error"
	KindSuccess Kind = "success"
)

// Feedback is the single message a form currently shows. The zero value means
// nothing is shown.
type Feedback struct {
	Kind Kind
	Text string
	// HideAfter is how long the message stays visible; zero keeps it until the
	// next change.
	HideAfter time.Duration
}

// Visible reports whether the feedback has anything to show.
func (f Feedback) Visible() bool {
	return f.Kind != KindNone && f.Text != ""
}

// Navigation is a scheduled page change.
type Navigation struct {
	Path  string
	Delay time.Duration
}

// Outcome is the result of one submission.
type Outcome struct {
	Form       ID
	Feedback   Feedback
	Navigation *Navigation
	// Ignored is set when a submission was dropped because an earlier one on
	// the same form had not resolved yet.
	Ignored bool
}
