package templates

import (
	"context"
	"io"
	"strconv"

	"github.com/a-h/templ"

	"github.com/louisbranch/easyvents/internal/auth/form"
	"github.com/louisbranch/easyvents/internal/services/web/routepath"
)

// LoginView is the login form state. Passwords are never echoed back.
type LoginView struct {
	Feedback form.Feedback
	Email    string
	Remember bool
}

// RegisterView is the registration form state.
type RegisterView struct {
	Feedback    form.Feedback
	FirstName   string
	LastName    string
	Email       string
	Phone       string
	AcceptTerms bool
	Newsletter  bool
}

type field struct {
	id           string
	kind         string
	labelKey     string
	value        string
	autocomplete string
	required     bool
}

// LoginForm renders the login card.
func LoginForm(page Page, view LoginView) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		h := newWriter(w)
		authCardOpen(h, page, "auth.login.title", "auth.login.subtitle")
		formOpen(h, string(form.Login), routepath.Login, "")
		h.component(ctx, FormMessage(view.Feedback))
		writeField(h, page, field{id: "email", kind: "email", labelKey: "auth.label.email", value: view.Email, autocomplete: "email", required: true})
		writeField(h, page, field{id: "password", kind: "password", labelKey: "auth.label.password", autocomplete: "current-password", required: true})
		writeCheckbox(h, page, "remember", "auth.login.remember", view.Remember, false)
		submitButton(h, page, "auth.login.submit")
		h.raw("</form>")
		authSwitch(h, page, "auth.login.no_account", "auth.login.register_link", routepath.Register)
		authCardClose(h)
		return h.err
	})
}

// RegisterForm renders the registration card.
func RegisterForm(page Page, view RegisterView) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		h := newWriter(w)
		authCardOpen(h, page, "auth.register.title", "auth.register.subtitle")
		formOpen(h, string(form.Register), routepath.Register, routepath.RegisterHints)
		h.component(ctx, FormMessage(view.Feedback))
		h.raw(`<div class="form-row">`)
		writeField(h, page, field{id: "firstName", kind: "text", labelKey: "auth.label.first_name", value: view.FirstName, autocomplete: "given-name", required: true})
		writeField(h, page, field{id: "lastName", kind: "text", labelKey: "auth.label.last_name", value: view.LastName, autocomplete: "family-name", required: true})
		h.raw("</div>")
		writeField(h, page, field{id: "email", kind: "email", labelKey: "auth.label.email", value: view.Email, autocomplete: "email", required: true})
		writeField(h, page, field{id: "phone", kind: "tel", labelKey: "auth.label.phone", value: view.Phone, autocomplete: "tel"})
		writeField(h, page, field{id: "password", kind: "password", labelKey: "auth.label.password", autocomplete: "new-password", required: true})
		writeField(h, page, field{id: "confirmPassword", kind: "password", labelKey: "auth.label.confirm_password", autocomplete: "new-password", required: true})
		writeCheckbox(h, page, "terms", "auth.register.terms", view.AcceptTerms, true)
		writeCheckbox(h, page, "newsletter", "auth.register.newsletter", view.Newsletter, false)
		submitButton(h, page, "auth.register.submit")
		h.raw("</form>")
		authSwitch(h, page, "auth.register.have_account", "auth.register.login_link", routepath.Login)
		authCardClose(h)
		return h.err
	})
}

// FormMessage renders the single feedback element of a form, or nothing when
// the feedback is empty.
func FormMessage(feedback form.Feedback) templ.Component {
	if !feedback.Visible() {
		return templ.NopComponent
	}
	return templ.ComponentFunc(func(_ context.Context, w io.Writer) error {
		h := newWriter(w)
		role := "status"
		if feedback.Kind == form.KindError {
			role = "alert"
		}
		h.raw("<div")
		h.attr("class", "form-message "+string(feedback.Kind))
		h.attr("role", role)
		if feedback.HideAfter > 0 {
			h.attr("data-hide-after-ms", strconv.FormatInt(feedback.HideAfter.Milliseconds(), 10))
		}
		h.raw(">")
		h.text(feedback.Text)
		h.raw("</div>")
		return h.err
	})
}

func authCardOpen(h *writer, page Page, titleKey string, subtitleKey string) {
	h.raw(`<section class="auth-section"><div class="auth-card"><h1 class="auth-title">`)
	h.text(page.t(titleKey))
	h.raw(`</h1><p class="auth-subtitle">`)
	h.text(page.t(subtitleKey))
	h.raw("</p>")
}

func authCardClose(h *writer) {
	h.raw("</div></section>")
}

// formOpen starts a form. A non-empty hintsURL is where site.js fetches
// advisory field hints.
func formOpen(h *writer, id string, action string, hintsURL string) {
	h.raw(`<form method="post" class="auth-form" novalidate`)
	h.attr("id", id)
	h.attr("action", action)
	if hintsURL != "" {
		h.attr("data-hints-url", hintsURL)
	}
	h.raw(">")
}

func writeField(h *writer, page Page, f field) {
	h.raw(`<div class="form-group"><label`)
	h.attr("for", f.id)
	h.raw(">")
	h.text(page.t(f.labelKey))
	h.raw("</label><input")
	h.attr("type", f.kind)
	h.attr("id", f.id)
	h.attr("name", f.id)
	if f.value != "" {
		h.attr("value", f.value)
	}
	if f.autocomplete != "" {
		h.attr("autocomplete", f.autocomplete)
	}
	h.flag("required", f.required)
	h.raw("></div>")
}

func writeCheckbox(h *writer, page Page, id string, labelKey string, checked bool, required bool) {
	h.raw(`<div class="form-check"><input type="checkbox" value="on"`)
	h.attr("id", id)
	h.attr("name", id)
	h.flag("checked", checked)
	h.flag("required", required)
	h.raw("><label")
	h.attr("for", id)
	h.raw(">")
	h.text(page.t(labelKey))
	h.raw("</label></div>")
}

func submitButton(h *writer, page Page, key string) {
	h.raw(`<button type="submit" class="btn btn-primary btn-block">`)
	h.text(page.t(key))
	h.raw("</button>")
}

func authSwitch(h *writer, page Page, promptKey string, linkKey string, href string) {
	h.raw(`<p class="auth-switch">`)
	h.text(page.t(promptKey))
	h.raw(" <a")
	h.attr("href", href)
	h.raw(">")
	h.text(page.t(linkKey))
	h.raw("</a></p>")
}

// ErrorBody renders a short error panel.
func ErrorBody(message string) templ.Component {
	return templ.ComponentFunc(func(_ context.Context, w io.Writer) error {
		h := newWriter(w)
		h.raw(`<section class="error-section"><div class="container"><h1 class="error-title">`)
		h.text(message)
		h.raw(`</h1><p><a class="btn btn-primary" href="/">EasyVents</a></p></div></section>`)
		return h.err
	})
}
