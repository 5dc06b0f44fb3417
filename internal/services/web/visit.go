package web

import (
	"bytes"
	"log"
	"net/http"

	"github.com/a-h/templ"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/louisbranch/easyvents/internal/auth/apiclient"
	"github.com/louisbranch/easyvents/internal/auth/form"
	"github.com/louisbranch/easyvents/internal/auth/session"
	"github.com/louisbranch/easyvents/internal/auth/storage/sqlite"
	platformi18n "github.com/louisbranch/easyvents/internal/platform/i18n"
	"github.com/louisbranch/easyvents/internal/platform/timeouts"
	apperrors "github.com/louisbranch/easyvents/internal/services/web/platform/errors"
	"github.com/louisbranch/easyvents/internal/services/web/platform/flash"
	"github.com/louisbranch/easyvents/internal/services/web/platform/httpx"
	webi18n "github.com/louisbranch/easyvents/internal/services/web/platform/i18n"
	"github.com/louisbranch/easyvents/internal/services/web/platform/sessioncookie"
	"github.com/louisbranch/easyvents/internal/services/web/routepath"
	"github.com/louisbranch/easyvents/internal/services/web/templates"
)

func newBackendClient() *http.Client {
	return &http.Client{Timeout: timeouts.BackendRequest}
}

// visit is the per-request view of language and session state.
type visit struct {
	h        *handler
	w        http.ResponseWriter
	r        *http.Request
	tag      language.Tag
	loc      *message.Printer
	sessions *session.Store
}

func (h *handler) visit(w http.ResponseWriter, r *http.Request) (*visit, error) {
	tag, persist := webi18n.ResolveTag(r)
	if persist {
		webi18n.SetLanguageCookie(w, r, tag, h.policy)
	}
	sessions, err := session.NewStore(session.Config{
		Key:       h.sessionKey,
		Durable:   newOwnerScope(h.scopes, sqlite.KindDurable, sessioncookie.Device, h.jar, w, r),
		Ephemeral: newOwnerScope(h.scopes, sqlite.KindEphemeral, sessioncookie.Session, h.jar, w, r),
	})
	if err != nil {
		return nil, apperrors.Wrap(apperrors.KindUnknown, "web.error.internal", err)
	}
	return &visit{h: h, w: w, r: r, tag: tag, loc: webi18n.Printer(tag), sessions: sessions}, nil
}

// controller builds a form controller for this request. It carries no
// navigator or observer: navigations come back in the Outcome and render as a
// meta refresh.
func (v *visit) controller() (*form.Controller, error) {
	transport := webi18n.Transport(v.loc)
	client, err := apiclient.New(apiclient.Config{
		BaseURL:            v.h.apiBaseURL,
		HTTPClient:         v.h.httpClient,
		PostFailureMessage: transport.Post,
		GetFailureMessage:  transport.Get,
	})
	if err != nil {
		return nil, apperrors.Wrap(apperrors.KindUnavailable, "web.error.internal", err)
	}
	texts := webi18n.FormCopy(v.tag)
	ctrl, err := form.New(v.h.flow, form.Dependencies{API: client, Session: v.sessions, Copy: &texts})
	if err != nil {
		return nil, apperrors.Wrap(apperrors.KindUnknown, "web.error.internal", err)
	}
	return ctrl, nil
}

// page builds the shell for titleKey. It reads the session and consumes any
// pending flash notice, so call it after the request's writes.
func (v *visit) page(titleKey string) templates.Page {
	title := "EasyVents"
	if titleKey != "" {
		title = webi18n.Text(v.loc, titleKey) + " | EasyVents"
	}
	alternate := webi18n.Alternate(v.tag)
	page := templates.Page{
		Title:           title,
		Lang:            v.tag.String(),
		RTL:             platformi18n.IsRTL(v.tag),
		Loc:             v.loc,
		LangSwitchURL:   webi18n.LanguageURL(v.r.URL.Path, v.r.URL.RawQuery, alternate.String()),
		LangSwitchLabel: webi18n.Text(v.loc, "web.lang.switch"),
		LangSwitchTag:   alternate.String(),
		Viewer:          v.viewer(),
	}
	if notice, ok := flash.ReadAndClear(v.w, v.r, v.h.policy); ok {
		page.Notice = &templates.Notice{Kind: string(notice.Kind), Text: webi18n.Text(v.loc, notice.Key)}
	}
	return page
}

func (v *visit) viewer() *templates.Viewer {
	ctx := httpx.RequestContext(v.r)
	raw, err := v.sessions.CurrentUser(ctx)
	if err != nil {
		log.Printf("read current user path=%s err=%v", v.r.URL.Path, err)
		return nil
	}
	if raw == nil {
		return nil
	}
	user, ok := session.DecodeUser(raw)
	if !ok {
		return nil
	}
	return &templates.Viewer{Name: user.DisplayName()}
}

// withRefresh attaches a scheduled navigation to page.
func withRefresh(page templates.Page, nav *form.Navigation) templates.Page {
	if nav == nil {
		return page
	}
	page.Refresh = &templates.Refresh{URL: routepath.Canonical(nav.Path), Delay: nav.Delay}
	return page
}

func writePage(w http.ResponseWriter, r *http.Request, status int, page templates.Page, body templ.Component) {
	var buf bytes.Buffer
	ctx := templ.WithChildren(httpx.RequestContext(r), body)
	if err := templates.Layout(page).Render(ctx, &buf); err != nil {
		log.Printf("render page path=%s err=%v", r.URL.Path, err)
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_, _ = w.Write(buf.Bytes())
}

// writeError renders err as a localized error page.
func (h *handler) writeError(w http.ResponseWriter, r *http.Request, err error) {
	status := apperrors.HTTPStatus(err)
	if status >= http.StatusInternalServerError {
		log.Printf("web error path=%s status=%d err=%v", r.URL.Path, status, err)
	}
	tag, _ := webi18n.ResolveTag(r)
	loc := webi18n.Printer(tag)
	key := apperrors.LocalizationKey(err)
	if key == "" {
		key = "web.error.internal"
	}
	page := templates.Page{
		Title: webi18n.Text(loc, key) + " | EasyVents",
		Lang:  tag.String(),
		RTL:   platformi18n.IsRTL(tag),
		Loc:   loc,
	}
	writePage(w, r, status, page, templates.ErrorBody(webi18n.Text(loc, key)))
}

// writeJSONError reports err as {"error": <localized text>}. The wrapped cause
// is logged, never sent.
func (h *handler) writeJSONError(w http.ResponseWriter, r *http.Request, err error) {
	status := apperrors.HTTPStatus(err)
	log.Printf("web json error path=%s status=%d err=%v", r.URL.Path, status, err)
	tag, _ := webi18n.ResolveTag(r)
	key := apperrors.LocalizationKey(err)
	if key == "" {
		key = "web.error.internal"
	}
	_ = httpx.WriteJSONError(w, status, webi18n.Text(webi18n.Printer(tag), key))
}

func (h *handler) handleNotFound(w http.ResponseWriter, r *http.Request) {
	h.writeError(w, r, apperrors.EK(apperrors.KindNotFound, "web.error.not_found", "page not found"))
}
