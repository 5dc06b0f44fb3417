//go:build js && wasm

package browser

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"syscall/js"

	"github.com/louisbranch/easyvents/internal/auth/apiclient"
	"github.com/louisbranch/easyvents/internal/auth/form"
	"github.com/louisbranch/easyvents/internal/auth/session"
)

// App owns the controller behind the page bindings.
type App struct {
	sessions   *session.Store
	controller *form.Controller
}

// ReadConfig reads window.easyVentsConfig. Missing fields keep their zero
// value.
func ReadConfig() Config {
	raw := js.Global().Get("easyVentsConfig")
	if !raw.Truthy() {
		return Config{}
	}
	return Config{
		APIBaseURL:      stringProp(raw, "apiBaseURL"),
		SessionKey:      stringProp(raw, "sessionKey"),
		LandingPath:     stringProp(raw, "landingPath"),
		CanonicalRoutes: raw.Get("canonicalRoutes").Truthy(),
	}
}

// New builds the page bindings. Call Bind to attach them.
func New(cfg Config) (*App, error) {
	cfg = cfg.withDefaults()
	api, err := apiclient.New(apiclient.Config{BaseURL: cfg.APIBaseURL})
	if err != nil {
		return nil, fmt.Errorf("api client: %w", err)
	}
	sessions, err := session.NewStore(session.Config{
		Key:       cfg.SessionKey,
		Durable:   newWebStorage("localStorage"),
		Ephemeral: newWebStorage("sessionStorage"),
	})
	if err != nil {
		return nil, fmt.Errorf("session store: %w", err)
	}
	controller, err := form.New(form.Config{LandingPath: cfg.LandingPath}, form.Dependencies{
		API:       api,
		Session:   sessions,
		Scheduler: form.TimerScheduler{},
		Navigator: locationNavigator{cfg: cfg},
		Observer:  renderFeedback,
	})
	if err != nil {
		return nil, fmt.Errorf("form controller: %w", err)
	}
	return &App{sessions: sessions, controller: controller}, nil
}

// Bind attaches form listeners when their forms are on the page and exports
// the session helpers on window.
func (a *App) Bind() {
	if el, ok := byID(string(form.Register)); ok {
		a.listen(el, "submit", a.onRegister)
		if password, ok := byID(fieldPassword); ok {
			a.listen(password, "input", a.onPasswordInput)
		}
		if confirm, ok := byID(fieldConfirmPassword); ok {
			a.listen(confirm, "input", a.onConfirmInput)
		}
	}
	if el, ok := byID(string(form.Login)); ok {
		a.listen(el, "submit", a.onLogin)
	}

	window := js.Global()
	window.Set("easyVentsIsLoggedIn", a.export(func(js.Value, []js.Value) any {
		return a.sessions.IsLoggedIn(context.Background())
	}))
	window.Set("easyVentsCurrentUser", a.export(a.currentUser))
	window.Set("easyVentsLogout", a.export(func(js.Value, []js.Value) any {
		a.controller.Logout(context.Background())
		return nil
	}))
}

func (a *App) onRegister(_ js.Value, args []js.Value) any {
	preventDefault(args)
	in := form.RegistrationInput{
		FirstName:       inputValue("firstName"),
		LastName:        inputValue("lastName"),
		Email:           inputValue("email"),
		Phone:           inputValue("phone"),
		Password:        inputValue(fieldPassword),
		ConfirmPassword: inputValue(fieldConfirmPassword),
		AcceptTerms:     inputChecked("terms"),
		Newsletter:      inputChecked("newsletter"),
	}
	// fetch blocks, so the flow must leave the event callback.
	go a.controller.Register(context.Background(), in)
	return nil
}

func (a *App) onLogin(_ js.Value, args []js.Value) any {
	preventDefault(args)
	in := form.LoginInput{
		Email:    inputValue("email"),
		Password: inputValue(fieldPassword),
		Remember: inputChecked("remember"),
	}
	go a.controller.Login(context.Background(), in)
	return nil
}

func (a *App) onPasswordInput(this js.Value, _ []js.Value) any {
	this.Call("setCustomValidity", a.controller.PasswordHint(this.Get("value").String()))
	return nil
}

func (a *App) onConfirmInput(this js.Value, _ []js.Value) any {
	hint := a.controller.ConfirmHint(inputValue(fieldPassword), this.Get("value").String())
	this.Call("setCustomValidity", hint)
	return nil
}

func (a *App) currentUser(js.Value, []js.Value) any {
	raw, err := a.sessions.CurrentUser(context.Background())
	if err != nil {
		log.Printf("current user: %v", err)
		return js.Null()
	}
	if raw == nil {
		return js.Null()
	}
	var decoded any
	if err := json.Unmarshal(raw, &decoded); err != nil {
		return js.Null()
	}
	return js.ValueOf(decoded)
}

func (a *App) listen(target js.Value, event string, fn func(js.Value, []js.Value) any) {
	target.Call("addEventListener", event, a.export(fn))
}

func (a *App) export(fn func(js.Value, []js.Value) any) js.Func {
	// Bound callbacks live as long as the page, so they are never released.
	return js.FuncOf(fn)
}

func preventDefault(args []js.Value) {
	if len(args) > 0 {
		args[0].Call("preventDefault")
	}
}

func stringProp(v js.Value, name string) string {
	prop := v.Get(name)
	if prop.Type() != js.TypeString {
		return ""
	}
	return prop.String()
}
