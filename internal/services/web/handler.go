package web

import (
	"errors"
	"io/fs"
	"net/http"
	"strings"

	"github.com/louisbranch/easyvents/internal/auth/form"
	"github.com/louisbranch/easyvents/internal/auth/session"
	"github.com/louisbranch/easyvents/internal/services/web/platform/httpx"
	"github.com/louisbranch/easyvents/internal/services/web/platform/requestmeta"
	"github.com/louisbranch/easyvents/internal/services/web/platform/sessioncookie"
	"github.com/louisbranch/easyvents/internal/services/web/routepath"
	"github.com/louisbranch/easyvents/internal/services/web/static"
)

var staticFS fs.FS = static.FS

// HandlerConfig wires the HTTP surface to its collaborators.
type HandlerConfig struct {
	// APIBaseURL is the backend origin plus its API prefix.
	APIBaseURL string
	// HTTPClient defaults to a client bounded by timeouts.BackendRequest.
	HTTPClient *http.Client
	Scopes     ScopeStore
	Cookies    *sessioncookie.Codec
	// SessionKey defaults to session.DefaultKey.
	SessionKey          string
	TrustForwardedProto bool
	Flow                form.Config
}

type handler struct {
	apiBaseURL string
	httpClient *http.Client
	scopes     ScopeStore
	jar        sessioncookie.Jar
	sessionKey string
	policy     requestmeta.SchemePolicy
	flow       form.Config
}

// NewHandler builds the routed and wrapped HTTP handler.
func NewHandler(cfg HandlerConfig) (http.Handler, error) {
	baseURL := strings.TrimSpace(cfg.APIBaseURL)
	if baseURL == "" {
		return nil, errors.New("api base url is required")
	}
	if cfg.Scopes == nil {
		return nil, errors.New("scope store is required")
	}
	if cfg.Cookies == nil {
		return nil, errors.New("cookie codec is required")
	}
	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = newBackendClient()
	}
	sessionKey := strings.TrimSpace(cfg.SessionKey)
	if sessionKey == "" {
		sessionKey = session.DefaultKey
	}
	flow := cfg.Flow
	if strings.TrimSpace(flow.LandingPath) == "" {
		flow.LandingPath = routepath.Root
	}
	policy := requestmeta.SchemePolicy{TrustForwardedProto: cfg.TrustForwardedProto}
	h := &handler{
		apiBaseURL: baseURL,
		httpClient: httpClient,
		scopes:     cfg.Scopes,
		jar:        sessioncookie.NewJar(cfg.Cookies, policy),
		sessionKey: sessionKey,
		policy:     policy,
		flow:       flow,
	}

	mux := http.NewServeMux()
	mux.Handle("GET "+routepath.StaticPrefix, http.StripPrefix(routepath.StaticPrefix, http.FileServer(http.FS(staticFS))))
	mux.HandleFunc("GET "+routepath.Health, h.handleHealth)

	mux.HandleFunc("GET /{$}", h.handleLanding)
	mux.HandleFunc("GET "+routepath.Login, h.handleLoginPage)
	mux.HandleFunc("POST "+routepath.Login, h.handleLogin)
	mux.HandleFunc(routepath.Login, httpx.MethodNotAllowed("GET, POST"))
	mux.HandleFunc("GET "+routepath.Register, h.handleRegisterPage)
	mux.HandleFunc("POST "+routepath.Register, h.handleRegister)
	mux.HandleFunc(routepath.Register, httpx.MethodNotAllowed("GET, POST"))
	mux.HandleFunc("POST "+routepath.RegisterHints, h.handleRegisterHints)
	mux.HandleFunc(routepath.RegisterHints, httpx.MethodNotAllowed(http.MethodPost))
	mux.HandleFunc("POST "+routepath.Logout, h.handleLogout)
	mux.HandleFunc(routepath.Logout, httpx.MethodNotAllowed(http.MethodPost))

	mux.HandleFunc("GET "+routepath.LegacyIndex, httpx.Permanent(routepath.Root))
	mux.HandleFunc("GET "+routepath.LegacyLogin, httpx.Permanent(routepath.Login))
	mux.HandleFunc("GET "+routepath.LegacyRegister, httpx.Permanent(routepath.Register))

	mux.HandleFunc("/", h.handleNotFound)

	return httpx.Chain(mux,
		httpx.RecoverPanic(),
		httpx.RequestID(),
		httpx.AccessLog(),
	), nil
}

func (h *handler) handleHealth(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}
