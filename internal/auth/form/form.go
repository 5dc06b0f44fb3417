// Package form runs the registration and login flows.
//
// A Controller validates input, calls the backend once, persists the returned
// user, and reports the result as a Feedback view-model plus an optional
// Navigation. Rendering is left to the caller: server-rendered pages read the
// returned Outcome, live views subscribe through an Observer and let the
// controller drive a Navigator.
package form

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"strings"
	"sync"
	"time"

	"github.com/louisbranch/easyvents/internal/auth/apiclient"
)

const (
	defaultLandingPath          = "/"
	defaultRegisterSuccessDelay = 2 * time.Second
	defaultLoginSuccessDelay    = 1500 * time.Millisecond
	defaultRedirectDelay        = 2 * time.Second
	defaultErrorHideAfter       = 5 * time.Second
)

// Poster issues backend POST calls.
type Poster interface {
	Post(ctx context.Context, endpoint string, body any) apiclient.Result
}

// SessionStore persists the signed-in user.
type SessionStore interface {
	Save(ctx context.Context, user json.RawMessage, persist bool) error
	Clear(ctx context.Context) error
}

// Config holds flow constants. Zero values take the defaults.
type Config struct {
	LandingPath          string
	RegisterSuccessDelay time.Duration
	LoginSuccessDelay    time.Duration
	RedirectDelay        time.Duration
	ErrorHideAfter       time.Duration
}

// Dependencies are the collaborators a Controller drives.
type Dependencies struct {
	API     Poster
	Session SessionStore
	Copy    *Copy
	// Scheduler defaults to TimerScheduler.
	Scheduler Scheduler
	// Navigator is optional; without it navigations are only reported in the
	// returned Outcome.
	Navigator Navigator
	// Observer is optional; error auto-hide only runs when one is set.
	Observer Observer
}

type formState struct {
	inFlight   bool
	feedback   Feedback
	generation uint64
	navigation Task
	hide       Task
}

// Controller owns the feedback and pending navigation of each form.
type Controller struct {
	cfg       Config
	api       Poster
	sessions  SessionStore
	copy      Copy
	scheduler Scheduler
	navigator Navigator
	observer  Observer

	mu     sync.Mutex
	forms  map[ID]*formState
	closed bool
}

// New builds a Controller.
func New(cfg Config, deps Dependencies) (*Controller, error) {
	if deps.API == nil {
		return nil, errors.New("api client is required")
	}
	if deps.Session == nil {
		return nil, errors.New("session store is required")
	}
	if strings.TrimSpace(cfg.LandingPath) == "" {
		cfg.LandingPath = defaultLandingPath
	}
	if cfg.RegisterSuccessDelay <= 0 {
		cfg.RegisterSuccessDelay = defaultRegisterSuccessDelay
	}
	if cfg.LoginSuccessDelay <= 0 {
		cfg.LoginSuccessDelay = defaultLoginSuccessDelay
	}
	if cfg.RedirectDelay <= 0 {
		cfg.RedirectDelay = defaultRedirectDelay
	}
	if cfg.ErrorHideAfter <= 0 {
		cfg.ErrorHideAfter = defaultErrorHideAfter
	}
	texts := DefaultCopy()
	if deps.Copy != nil {
		texts = *deps.Copy
	}
	scheduler := deps.Scheduler
	if scheduler == nil {
		scheduler = TimerScheduler{}
	}
	return &Controller{
		cfg:       cfg,
		api:       deps.API,
		sessions:  deps.Session,
		copy:      texts,
		scheduler: scheduler,
		navigator: deps.Navigator,
		observer:  deps.Observer,
		forms:     map[ID]*formState{},
	}, nil
}

// Feedback returns what form currently shows.
func (c *Controller) Feedback(form ID) Feedback {
	c.mu.Lock()
	defer c.mu.Unlock()
	if state, ok := c.forms[form]; ok {
		return state.feedback
	}
	return Feedback{}
}

// Close cancels every pending task. Later submissions are ignored.
func (c *Controller) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.closed = true
	for _, state := range c.forms {
		state.cancelTasks()
	}
}

// Logout clears both session scopes and navigates to the landing page at
// once. Callers should treat it as terminal.
func (c *Controller) Logout(ctx context.Context) Outcome {
	c.mu.Lock()
	for _, state := range c.forms {
		state.cancelTasks()
	}
	c.mu.Unlock()

	if err := c.sessions.Clear(ctx); err != nil {
		log.Printf("logout clear session: %v", err)
	}
	nav := &Navigation{Path: c.cfg.LandingPath}
	if c.navigator != nil {
		c.navigator.Navigate(nav.Path)
	}
	return Outcome{Navigation: nav}
}

// begin marks form as in flight and clears its feedback. It reports false when
// the submission must be ignored.
func (c *Controller) begin(form ID) bool {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return false
	}
	state := c.state(form)
	if state.inFlight {
		c.mu.Unlock()
		return false
	}
	state.inFlight = true
	state.cancelTasks()
	state.generation++
	state.feedback = Feedback{}
	c.mu.Unlock()

	c.notify(form, Feedback{})
	return true
}

func (c *Controller) fail(form ID, text string, nav *Navigation) Outcome {
	return c.finish(form, Feedback{Kind: KindError, Text: text, HideAfter: c.cfg.ErrorHideAfter}, nav)
}

func (c *Controller) succeed(form ID, text string, nav *Navigation) Outcome {
	return c.finish(form, Feedback{Kind: KindSuccess, Text: text}, nav)
}

// finish records feedback, schedules follow-up tasks, and releases the form.
func (c *Controller) finish(form ID, feedback Feedback, nav *Navigation) Outcome {
	c.mu.Lock()
	state := c.state(form)
	state.inFlight = false
	state.feedback = feedback
	generation := state.generation
	if !c.closed {
		if nav != nil && c.navigator != nil {
			path := nav.Path
			state.navigation = c.scheduler.AfterFunc(nav.Delay, func() {
				c.runNavigation(form, generation, path)
			})
		}
		if feedback.HideAfter > 0 && c.observer != nil {
			state.hide = c.scheduler.AfterFunc(feedback.HideAfter, func() {
				c.hideFeedback(form, generation)
			})
		}
	}
	c.mu.Unlock()

	c.notify(form, feedback)
	return Outcome{Form: form, Feedback: feedback, Navigation: nav}
}

func (c *Controller) runNavigation(form ID, generation uint64, path string) {
	c.mu.Lock()
	state := c.state(form)
	current := state.generation == generation && !c.closed
	if current {
		state.navigation = nil
	}
	c.mu.Unlock()
	if current {
		c.navigator.Navigate(path)
	}
}

func (c *Controller) hideFeedback(form ID, generation uint64) {
	c.mu.Lock()
	state := c.state(form)
	current := state.generation == generation && state.feedback.Kind == KindError
	if current {
		state.feedback = Feedback{}
		state.hide = nil
	}
	c.mu.Unlock()
	if current {
		c.notify(form, Feedback{})
	}
}

func (c *Controller) notify(form ID, feedback Feedback) {
	if c.observer != nil {
		c.observer(form, feedback)
	}
}

// state must be called with c.mu held.
func (c *Controller) state(form ID) *formState {
	state, ok := c.forms[form]
	if !ok {
		state = &formState{}
		c.forms[form] = state
	}
	return state
}

func (s *formState) cancelTasks() {
	if s.navigation != nil {
		s.navigation.Stop()
		s.navigation = nil
	}
	if s.hide != nil {
		s.hide.Stop()
		s.hide = nil
	}
}

func redirectTo(path string, delay time.Duration) *Navigation {
	path = strings.TrimSpace(path)
	if path == "" {
		return nil
	}
	return &Navigation{Path: path, Delay: delay}
}
