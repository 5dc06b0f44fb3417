package web

import (
	"net/http"

	"github.com/louisbranch/easyvents/internal/auth/form"
	apperrors "github.com/louisbranch/easyvents/internal/services/web/platform/errors"
	"github.com/louisbranch/easyvents/internal/services/web/platform/flash"
	"github.com/louisbranch/easyvents/internal/services/web/platform/httpx"
	"github.com/louisbranch/easyvents/internal/services/web/platform/sessioncookie"
	"github.com/louisbranch/easyvents/internal/services/web/routepath"
	"github.com/louisbranch/easyvents/internal/services/web/templates"
)

func (h *handler) handleLanding(w http.ResponseWriter, r *http.Request) {
	v, err := h.visit(w, r)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	page := v.page("")
	writePage(w, r, http.StatusOK, page, templates.Landing(page))
}

func (h *handler) handleLoginPage(w http.ResponseWriter, r *http.Request) {
	v, err := h.visit(w, r)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	page := v.page("auth.login.title")
	writePage(w, r, http.StatusOK, page, templates.LoginForm(page, templates.LoginView{}))
}

func (h *handler) handleRegisterPage(w http.ResponseWriter, r *http.Request) {
	v, err := h.visit(w, r)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	page := v.page("auth.register.title")
	writePage(w, r, http.StatusOK, page, templates.RegisterForm(page, templates.RegisterView{}))
}

func (h *handler) handleLogin(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		h.writeError(w, r, apperrors.Wrap(apperrors.KindInvalidInput, "web.error.bad_request", err))
		return
	}
	v, err := h.visit(w, r)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	ctrl, err := v.controller()
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	defer ctrl.Close()

	in := form.LoginInput{
		Email:    r.PostFormValue("email"),
		Password: r.PostFormValue("password"),
		Remember: checked(r, "remember"),
	}
	out := ctrl.Login(httpx.RequestContext(r), in)
	page := withRefresh(v.page("auth.login.title"), out.Navigation)
	view := templates.LoginView{Feedback: out.Feedback, Email: in.Email, Remember: in.Remember}
	writePage(w, r, outcomeStatus(out), page, templates.LoginForm(page, view))
}

func (h *handler) handleRegister(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		h.writeError(w, r, apperrors.Wrap(apperrors.KindInvalidInput, "web.error.bad_request", err))
		return
	}
	v, err := h.visit(w, r)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	ctrl, err := v.controller()
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	defer ctrl.Close()

	in := form.RegistrationInput{
		FirstName:       r.PostFormValue("firstName"),
		LastName:        r.PostFormValue("lastName"),
		Email:           r.PostFormValue("email"),
		Phone:           r.PostFormValue("phone"),
		Password:        r.PostFormValue("password"),
		ConfirmPassword: r.PostFormValue("confirmPassword"),
		AcceptTerms:     checked(r, "terms"),
		Newsletter:      checked(r, "newsletter"),
	}
	out := ctrl.Register(httpx.RequestContext(r), in)
	page := withRefresh(v.page("auth.register.title"), out.Navigation)
	view := templates.RegisterView{
		Feedback:    out.Feedback,
		FirstName:   in.FirstName,
		LastName:    in.LastName,
		Email:       in.Email,
		Phone:       in.Phone,
		AcceptTerms: in.AcceptTerms,
		Newsletter:  in.Newsletter,
	}
	writePage(w, r, outcomeStatus(out), page, templates.RegisterForm(page, view))
}

func (h *handler) handleLogout(w http.ResponseWriter, r *http.Request) {
	v, err := h.visit(w, r)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	ctrl, err := v.controller()
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	defer ctrl.Close()

	out := ctrl.Logout(httpx.RequestContext(r))
	h.jar.Clear(w, r, sessioncookie.Device)
	h.jar.Clear(w, r, sessioncookie.Session)
	flash.Write(w, r, flash.NoticeInfo("auth.logout.done"), h.policy)
	target := routepath.Root
	if out.Navigation != nil {
		target = routepath.Canonical(out.Navigation.Path)
	}
	httpx.WriteRedirect(w, r, target)
}

type registerHints struct {
	Password        string `json:"password"`
	ConfirmPassword string `json:"confirmPassword"`
}

// handleRegisterHints reports the advisory messages for the password fields
// while the visitor types. Empty strings mean no hint.
func (h *handler) handleRegisterHints(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		h.writeJSONError(w, r, apperrors.Wrap(apperrors.KindInvalidInput, "web.error.bad_request", err))
		return
	}
	v, err := h.visit(w, r)
	if err != nil {
		h.writeJSONError(w, r, err)
		return
	}
	ctrl, err := v.controller()
	if err != nil {
		h.writeJSONError(w, r, err)
		return
	}
	defer ctrl.Close()

	password := r.PostFormValue("password")
	_ = httpx.WriteJSON(w, http.StatusOK, registerHints{
		Password:        ctrl.PasswordHint(password),
		ConfirmPassword: ctrl.ConfirmHint(password, r.PostFormValue("confirmPassword")),
	})
}

// outcomeStatus keeps a re-rendered form with an error off the 2xx range.
func outcomeStatus(out form.Outcome) int {
	if out.Feedback.Kind == form.KindError {
		return http.StatusUnprocessableEntity
	}
	return http.StatusOK
}

func checked(r *http.Request, name string) bool {
	switch r.PostFormValue(name) {
	case "on", "true", "1":
		return true
	default:
		return false
	}
}
