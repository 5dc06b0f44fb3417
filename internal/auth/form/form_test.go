package form

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/louisbranch/easyvents/internal/auth/apiclient"
	"github.com/louisbranch/easyvents/internal/auth/session"
)

type fakePoster struct {
	mu     sync.Mutex
	result apiclient.Result
	calls  []postCall
	// block, when set, holds Post until it is closed.
	block   chan struct{}
	started chan struct{}
}

type postCall struct {
	endpoint string
	body     any
}

func (p *fakePoster) Post(_ context.Context, endpoint string, body any) apiclient.Result {
	p.mu.Lock()
	p.calls = append(p.calls, postCall{endpoint: endpoint, body: body})
	block, started := p.block, p.started
	p.mu.Unlock()
	if started != nil {
		started <- struct{}{}
	}
	if block != nil {
		<-block
	}
	return p.result
}

func (p *fakePoster) callCount() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.calls)
}

type fakeTask struct {
	delay   time.Duration
	fn      func()
	stopped bool
	fired   bool
}

func (t *fakeTask) Stop() bool {
	wasPending := !t.stopped && !t.fired
	t.stopped = true
	return wasPending
}

type fakeScheduler struct {
	mu    sync.Mutex
	tasks []*fakeTask
}

func (s *fakeScheduler) AfterFunc(d time.Duration, fn func()) Task {
	s.mu.Lock()
	defer s.mu.Unlock()
	task := &fakeTask{delay: d, fn: fn}
	s.tasks = append(s.tasks, task)
	return task
}

// fire runs every pending task scheduled with delay d.
func (s *fakeScheduler) fire(d time.Duration) int {
	s.mu.Lock()
	var due []*fakeTask
	for _, task := range s.tasks {
		if task.delay == d && !task.stopped && !task.fired {
			task.fired = true
			due = append(due, task)
		}
	}
	s.mu.Unlock()
	for _, task := range due {
		task.fn()
	}
	return len(due)
}

func (s *fakeScheduler) pending() []*fakeTask {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []*fakeTask
	for _, task := range s.tasks {
		if !task.stopped && !task.fired {
			out = append(out, task)
		}
	}
	return out
}

type fakeNavigator struct {
	mu    sync.Mutex
	paths []string
}

func (n *fakeNavigator) Navigate(path string) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.paths = append(n.paths, path)
}

func (n *fakeNavigator) visited() []string {
	n.mu.Lock()
	defer n.mu.Unlock()
	return append([]string(nil), n.paths...)
}

type harness struct {
	controller *Controller
	poster     *fakePoster
	scheduler  *fakeScheduler
	navigator  *fakeNavigator
	durable    *session.MemoryScope
	ephemeral  *session.MemoryScope
	store      *session.Store
	observed   []Feedback
}

func newHarness(t *testing.T, result apiclient.Result) *harness {
	t.Helper()
	h := &harness{
		poster:    &fakePoster{result: result},
		scheduler: &fakeScheduler{},
		navigator: &fakeNavigator{},
		durable:   session.NewMemoryScope(),
		ephemeral: session.NewMemoryScope(),
	}
	store, err := session.NewStore(session.Config{Durable: h.durable, Ephemeral: h.ephemeral})
	if err != nil {
		t.Fatalf("NewStore() error = %v", err)
	}
	h.store = store
	var mu sync.Mutex
	controller, err := New(Config{}, Dependencies{
		API:       h.poster,
		Session:   store,
		Scheduler: h.scheduler,
		Navigator: h.navigator,
		Observer: func(_ ID, feedback Feedback) {
			mu.Lock()
			defer mu.Unlock()
			h.observed = append(h.observed, feedback)
		},
	})
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	h.controller = controller
	t.Cleanup(controller.Close)
	return h
}

func validRegistration() RegistrationInput {
	return RegistrationInput{
		FirstName:       " Noa ",
		LastName:        "Levi",
		Email:           "noa@example.com",
		Phone:           "050-1234567",
		Password:        "abcd1234",
		ConfirmPassword: "abcd1234",
		AcceptTerms:     true,
		Newsletter:      true,
	}
}

func TestNewRequiresCollaborators(t *testing.T) {
	t.Parallel()

	store, _ := session.NewStore(session.Config{Durable: session.NewMemoryScope(), Ephemeral: session.NewMemoryScope()})
	if _, err := New(Config{}, Dependencies{Session: store}); err == nil {
		t.Fatal("expected error without api")
	}
	if _, err := New(Config{}, Dependencies{API: &fakePoster{}}); err == nil {
		t.Fatal("expected error without session store")
	}
}

func TestRegisterSuccess(t *testing.T) {
	t.Parallel()

	h := newHarness(t, apiclient.Result{Success: true, Message: "נרשמת בהצלחה", User: json.RawMessage(`{"id":1}`), Status: 201})
	out := h.controller.Register(context.Background(), validRegistration())

	if out.Feedback.Kind != KindSuccess || out.Feedback.Text != "✅ נרשמת בהצלחה" {
		t.Fatalf("feedback = %+v", out.Feedback)
	}
	if out.Navigation == nil || out.Navigation.Path != "/" || out.Navigation.Delay != 2*time.Second {
		t.Fatalf("navigation = %+v", out.Navigation)
	}
	value, ok, _ := h.ephemeral.Get(context.Background(), session.DefaultKey)
	if !ok || value != `{"id":1}` {
		t.Fatalf("ephemeral = %q, %v", value, ok)
	}
	if h.durable.Len() != 0 {
		t.Fatal("registration must not write the durable scope")
	}

	call := h.poster.calls[0]
	if call.endpoint != "/register" {
		t.Fatalf("endpoint = %q", call.endpoint)
	}
	body, err := json.Marshal(call.body)
	if err != nil {
		t.Fatalf("marshal body: %v", err)
	}
	want := `{"firstName":"Noa","lastName":"Levi","email":"noa@example.com","phone":"050-1234567","password":"abcd1234","newsletter":true}`
	if string(body) != want {
		t.Fatalf("body = %s, want %s", body, want)
	}

	if len(h.navigator.visited()) != 0 {
		t.Fatal("navigation ran before its delay")
	}
	if n := h.scheduler.fire(2 * time.Second); n != 1 {
		t.Fatalf("fired %d tasks, want 1", n)
	}
	if got := h.navigator.visited(); len(got) != 1 || got[0] != "/" {
		t.Fatalf("visited = %v", got)
	}
	if h.controller.Feedback(Register).Kind != KindSuccess {
		t.Fatal("success feedback should remain")
	}
}

func TestRegisterValidationStopsBeforeNetwork(t *testing.T) {
	t.Parallel()

	texts := DefaultCopy()
	tests := []struct {
		name   string
		mutate func(*RegistrationInput)
		want   string
	}{
		{name: "missing first name", mutate: func(in *RegistrationInput) { in.FirstName = "  " }, want: `השדה "שם פרטי" הוא חובה`},
		{name: "missing last before email", mutate: func(in *RegistrationInput) { in.LastName = ""; in.Email = "" }, want: `השדה "שם משפחה" הוא חובה`},
		{name: "missing confirm", mutate: func(in *RegistrationInput) { in.ConfirmPassword = "" }, want: `השדה "אימות סיסמה" הוא חובה`},
		{name: "bad email", mutate: func(in *RegistrationInput) { in.Email = "noa@example" }, want: texts.InvalidEmail},
		{name: "bad phone", mutate: func(in *RegistrationInput) { in.Phone = "1234567" }, want: texts.InvalidPhone},
		{name: "short password", mutate: func(in *RegistrationInput) { in.Password = "ab12"; in.ConfirmPassword = "ab12" }, want: texts.PasswordTooShort},
		{name: "letters only", mutate: func(in *RegistrationInput) { in.Password = "abcdefgh"; in.ConfirmPassword = "abcdefgh" }, want: texts.PasswordNeedsMix},
		{name: "mismatch", mutate: func(in *RegistrationInput) { in.ConfirmPassword = "abcd12345" }, want: texts.PasswordMismatch},
		{name: "terms", mutate: func(in *RegistrationInput) { in.AcceptTerms = false }, want: texts.TermsRequired},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			h := newHarness(t, apiclient.Result{Success: true})
			in := validRegistration()
			tc.mutate(&in)
			out := h.controller.Register(context.Background(), in)
			if out.Feedback.Kind != KindError || out.Feedback.Text != tc.want {
				t.Fatalf("feedback = %+v, want error %q", out.Feedback, tc.want)
			}
			if out.Navigation != nil {
				t.Fatalf("navigation = %+v, want none", out.Navigation)
			}
			if h.poster.callCount() != 0 {
				t.Fatal("validation failure reached the network")
			}
		})
	}
}

func TestRegisterEmptyPhoneIsAccepted(t *testing.T) {
	t.Parallel()

	h := newHarness(t, apiclient.Result{Success: true, User: json.RawMessage(`{"id":1}`)})
	in := validRegistration()
	in.Phone = ""
	if out := h.controller.Register(context.Background(), in); out.Feedback.Kind != KindSuccess {
		t.Fatalf("feedback = %+v", out.Feedback)
	}
}

func TestRegisterFailureWithRedirect(t *testing.T) {
	t.Parallel()

	h := newHarness(t, apiclient.Result{Success: false, Message: "המשתמש כבר קיים", Redirect: "login.html", Status: 409})
	out := h.controller.Register(context.Background(), validRegistration())
	if out.Feedback.Kind != KindError || out.Feedback.Text != "המשתמש כבר קיים" {
		t.Fatalf("feedback = %+v", out.Feedback)
	}
	if out.Navigation == nil || out.Navigation.Path != "login.html" || out.Navigation.Delay != 2*time.Second {
		t.Fatalf("navigation = %+v", out.Navigation)
	}
	if h.ephemeral.Len() != 0 {
		t.Fatal("failure must not write a session")
	}
}

func TestLoginRememberWritesDurable(t *testing.T) {
	t.Parallel()

	h := newHarness(t, apiclient.Result{Success: true, Message: "התחברת", User: json.RawMessage(`{"id":3}`)})
	out := h.controller.Login(context.Background(), LoginInput{Email: "noa@example.com", Password: "abcd1234", Remember: true})
	if out.Feedback.Kind != KindSuccess {
		t.Fatalf("feedback = %+v", out.Feedback)
	}
	if out.Navigation == nil || out.Navigation.Delay != 1500*time.Millisecond {
		t.Fatalf("navigation = %+v", out.Navigation)
	}
	if h.durable.Len() != 1 || h.ephemeral.Len() != 0 {
		t.Fatalf("durable=%d ephemeral=%d", h.durable.Len(), h.ephemeral.Len())
	}
	if h.poster.calls[0].endpoint != "/login" {
		t.Fatalf("endpoint = %q", h.poster.calls[0].endpoint)
	}
}

func TestLoginWithoutRememberWritesEphemeral(t *testing.T) {
	t.Parallel()

	h := newHarness(t, apiclient.Result{Success: true, User: json.RawMessage(`{"id":3}`)})
	h.controller.Login(context.Background(), LoginInput{Email: "noa@example.com", Password: "abcd1234"})
	if h.durable.Len() != 0 || h.ephemeral.Len() != 1 {
		t.Fatalf("durable=%d ephemeral=%d", h.durable.Len(), h.ephemeral.Len())
	}
}

func TestLoginFailureRedirectsToRegister(t *testing.T) {
	t.Parallel()

	h := newHarness(t, apiclient.Result{Success: false, Message: "משתמש לא נמצא", Redirect: "/register", Status: 404})
	out := h.controller.Login(context.Background(), LoginInput{Email: "noa@example.com", Password: "abcd1234"})
	if out.Feedback.Kind != KindError || out.Feedback.Text != "משתמש לא נמצא" {
		t.Fatalf("feedback = %+v", out.Feedback)
	}
	if out.Navigation == nil || out.Navigation.Path != "/register" || out.Navigation.Delay != 2*time.Second {
		t.Fatalf("navigation = %+v", out.Navigation)
	}
	h.scheduler.fire(2 * time.Second)
	if got := h.navigator.visited(); len(got) != 1 || got[0] != "/register" {
		t.Fatalf("visited = %v", got)
	}
}

func TestLoginValidation(t *testing.T) {
	t.Parallel()

	texts := DefaultCopy()
	tests := []struct {
		name string
		in   LoginInput
		want string
	}{
		{name: "empty", in: LoginInput{}, want: texts.FillAllFields},
		{name: "blank password", in: LoginInput{Email: "a@b.co", Password: "   "}, want: texts.FillAllFields},
		{name: "bad email", in: LoginInput{Email: "nope", Password: "x"}, want: texts.InvalidEmail},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			h := newHarness(t, apiclient.Result{Success: true})
			out := h.controller.Login(context.Background(), tc.in)
			if out.Feedback.Text != tc.want {
				t.Fatalf("feedback = %+v, want %q", out.Feedback, tc.want)
			}
			if h.poster.callCount() != 0 {
				t.Fatal("validation failure reached the network")
			}
		})
	}
}

func TestTransportFailureIsShown(t *testing.T) {
	t.Parallel()

	h := newHarness(t, apiclient.Result{Success: false, Message: apiclient.DefaultPostFailureMessage, Error: "dial tcp: refused"})
	out := h.controller.Login(context.Background(), LoginInput{Email: "a@b.co", Password: "abcd1234"})
	if out.Feedback.Text != apiclient.DefaultPostFailureMessage || out.Navigation != nil {
		t.Fatalf("outcome = %+v", out)
	}
}

func TestErrorAutoHides(t *testing.T) {
	t.Parallel()

	h := newHarness(t, apiclient.Result{})
	out := h.controller.Login(context.Background(), LoginInput{})
	if out.Feedback.HideAfter != 5*time.Second {
		t.Fatalf("HideAfter = %v", out.Feedback.HideAfter)
	}
	if !h.controller.Feedback(Login).Visible() {
		t.Fatal("expected visible error")
	}
	if n := h.scheduler.fire(5 * time.Second); n != 1 {
		t.Fatalf("fired %d hide tasks, want 1", n)
	}
	if h.controller.Feedback(Login).Visible() {
		t.Fatal("expected error hidden")
	}
	if last := h.observed[len(h.observed)-1]; last.Visible() {
		t.Fatalf("last observed = %+v, want cleared", last)
	}
}

func TestSuccessDoesNotAutoHide(t *testing.T) {
	t.Parallel()

	h := newHarness(t, apiclient.Result{Success: true, User: json.RawMessage(`{}`)})
	h.controller.Login(context.Background(), LoginInput{Email: "a@b.co", Password: "abcd1234"})
	for _, task := range h.scheduler.pending() {
		if task.delay == 5*time.Second {
			t.Fatal("success feedback scheduled a hide")
		}
	}
}

func TestSubmitClearsFeedbackFirst(t *testing.T) {
	t.Parallel()

	h := newHarness(t, apiclient.Result{})
	h.controller.Login(context.Background(), LoginInput{})
	h.controller.Login(context.Background(), LoginInput{})
	// clear, error, clear, error
	if len(h.observed) != 4 || h.observed[2].Visible() {
		t.Fatalf("observed = %+v", h.observed)
	}
}

func TestNewSubmitCancelsPendingNavigation(t *testing.T) {
	t.Parallel()

	h := newHarness(t, apiclient.Result{Success: false, Message: "no", Redirect: "/register"})
	ctx := context.Background()
	h.controller.Login(ctx, LoginInput{Email: "a@b.co", Password: "abcd1234"})
	if len(h.scheduler.pending()) == 0 {
		t.Fatal("expected pending navigation")
	}
	h.controller.Login(ctx, LoginInput{})

	for _, task := range h.scheduler.tasks[:2] {
		if !task.stopped {
			t.Fatalf("task %+v not cancelled", task.delay)
		}
	}
	h.scheduler.fire(2 * time.Second)
	if got := h.navigator.visited(); len(got) != 0 {
		t.Fatalf("visited = %v, want none", got)
	}
}

func TestDoubleSubmitIsIgnored(t *testing.T) {
	t.Parallel()

	h := newHarness(t, apiclient.Result{Success: true, User: json.RawMessage(`{"id":1}`)})
	h.poster.block = make(chan struct{})
	h.poster.started = make(chan struct{}, 1)

	ctx := context.Background()
	done := make(chan Outcome)
	go func() {
		done <- h.controller.Login(ctx, LoginInput{Email: "a@b.co", Password: "abcd1234"})
	}()
	<-h.poster.started

	second := h.controller.Login(ctx, LoginInput{Email: "a@b.co", Password: "abcd1234"})
	if !second.Ignored {
		t.Fatalf("second = %+v, want ignored", second)
	}
	other := h.controller.Register(ctx, RegistrationInput{})
	if other.Ignored {
		t.Fatal("other forms should not be blocked")
	}

	close(h.poster.block)
	first := <-done
	if first.Ignored || first.Feedback.Kind != KindSuccess {
		t.Fatalf("first = %+v", first)
	}
	if h.poster.callCount() != 1 {
		t.Fatalf("calls = %d, want 1", h.poster.callCount())
	}
}

func TestLogoutClearsAndNavigates(t *testing.T) {
	t.Parallel()

	h := newHarness(t, apiclient.Result{Success: true, User: json.RawMessage(`{"id":1}`)})
	ctx := context.Background()
	h.controller.Login(ctx, LoginInput{Email: "a@b.co", Password: "abcd1234", Remember: true})
	_ = h.ephemeral.Set(ctx, session.DefaultKey, `{"id":1}`)

	out := h.controller.Logout(ctx)
	if out.Navigation == nil || out.Navigation.Path != "/" || out.Navigation.Delay != 0 {
		t.Fatalf("navigation = %+v", out.Navigation)
	}
	if h.durable.Len() != 0 || h.ephemeral.Len() != 0 {
		t.Fatal("logout left session entries")
	}
	if got := h.navigator.visited(); len(got) != 1 || got[0] != "/" {
		t.Fatalf("visited = %v", got)
	}
	if len(h.scheduler.pending()) != 0 {
		t.Fatal("logout left pending tasks")
	}

	// idempotent on an empty store
	h.controller.Logout(ctx)
	if h.store.IsLoggedIn(ctx) {
		t.Fatal("expected logged out")
	}
}

func TestSessionSaveFailure(t *testing.T) {
	t.Parallel()

	poster := &fakePoster{result: apiclient.Result{Success: true, User: json.RawMessage(`{"id":1}`)}}
	controller, err := New(Config{}, Dependencies{API: poster, Session: failingSessions{}, Scheduler: &fakeScheduler{}})
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	out := controller.Login(context.Background(), LoginInput{Email: "a@b.co", Password: "abcd1234"})
	if out.Feedback.Kind != KindError || out.Feedback.Text != DefaultCopy().SessionFailed || out.Navigation != nil {
		t.Fatalf("outcome = %+v", out)
	}
}

func TestCloseCancelsTasksAndIgnoresSubmits(t *testing.T) {
	t.Parallel()

	h := newHarness(t, apiclient.Result{Success: true, User: json.RawMessage(`{}`)})
	h.controller.Login(context.Background(), LoginInput{Email: "a@b.co", Password: "abcd1234"})
	h.controller.Close()
	if len(h.scheduler.pending()) != 0 {
		t.Fatal("Close left pending tasks")
	}
	if out := h.controller.Login(context.Background(), LoginInput{}); !out.Ignored {
		t.Fatal("expected submit after Close to be ignored")
	}
}

func TestWithoutNavigatorNothingIsScheduled(t *testing.T) {
	t.Parallel()

	store, _ := session.NewStore(session.Config{Durable: session.NewMemoryScope(), Ephemeral: session.NewMemoryScope()})
	scheduler := &fakeScheduler{}
	controller, err := New(Config{LandingPath: "/home"}, Dependencies{
		API:       &fakePoster{result: apiclient.Result{Success: true, User: json.RawMessage(`{}`)}},
		Session:   store,
		Scheduler: scheduler,
	})
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	out := controller.Login(context.Background(), LoginInput{Email: "a@b.co", Password: "abcd1234"})
	if out.Navigation == nil || out.Navigation.Path != "/home" {
		t.Fatalf("navigation = %+v", out.Navigation)
	}
	if len(scheduler.tasks) != 0 {
		t.Fatalf("scheduled %d tasks without a navigator or observer", len(scheduler.tasks))
	}
}

func TestHints(t *testing.T) {
	t.Parallel()

	h := newHarness(t, apiclient.Result{})
	texts := DefaultCopy()
	if got := h.controller.PasswordHint(""); got != "" {
		t.Fatalf("PasswordHint(empty) = %q", got)
	}
	if got := h.controller.PasswordHint("abc"); got != texts.PasswordTooShort {
		t.Fatalf("PasswordHint(short) = %q", got)
	}
	if got := h.controller.PasswordHint("abcd1234"); got != "" {
		t.Fatalf("PasswordHint(ok) = %q", got)
	}
	if got := h.controller.ConfirmHint("abcd1234", "abcd"); got != texts.PasswordMismatch {
		t.Fatalf("ConfirmHint(mismatch) = %q", got)
	}
	if got := h.controller.ConfirmHint("abcd1234", ""); got != "" {
		t.Fatalf("ConfirmHint(empty) = %q", got)
	}
}

type failingSessions struct{}

func (failingSessions) Save(context.Context, json.RawMessage, bool) error {
	return errors.New("quota exceeded")
}
func (failingSessions) Clear(context.Context) error { return nil }
