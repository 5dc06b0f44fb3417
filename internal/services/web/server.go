// Package web serves the EasyVents marketing site and its login and
// registration flows.
package web

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"strings"

	"github.com/louisbranch/easyvents/internal/auth/form"
	"github.com/louisbranch/easyvents/internal/auth/storage/sqlite"
	"github.com/louisbranch/easyvents/internal/platform/timeouts"
	"github.com/louisbranch/easyvents/internal/services/web/platform/sessioncookie"
)

// Config defines the inputs for the web server.
type Config struct {
	HTTPAddr   string
	APIBaseURL string
	// DBPath is the sqlite file holding session scopes.
	DBPath string
	// CookieSecret signs the owner cookies.
	CookieSecret        []byte
	SessionKey          string
	TrustForwardedProto bool
	Flow                form.Config
	Janitor             JanitorConfig
}

// Server hosts the web HTTP server and its session storage.
type Server struct {
	httpAddr   string
	httpServer *http.Server
	store      *sqlite.Store
	janitor    *janitor
}

// NewServer opens storage and builds a configured web server.
func NewServer(config Config) (*Server, error) {
	httpAddr := strings.TrimSpace(config.HTTPAddr)
	if httpAddr == "" {
		return nil, errors.New("http address is required")
	}
	codec, err := sessioncookie.NewCodec(config.CookieSecret)
	if err != nil {
		return nil, err
	}
	store, err := sqlite.Open(config.DBPath)
	if err != nil {
		return nil, fmt.Errorf("open session store: %w", err)
	}
	handler, err := NewHandler(HandlerConfig{
		APIBaseURL:          config.APIBaseURL,
		Scopes:              store,
		Cookies:             codec,
		SessionKey:          config.SessionKey,
		TrustForwardedProto: config.TrustForwardedProto,
		Flow:                config.Flow,
	})
	if err != nil {
		_ = store.Close()
		return nil, fmt.Errorf("build handler: %w", err)
	}
	return &Server{
		httpAddr: httpAddr,
		httpServer: &http.Server{
			Addr:              httpAddr,
			Handler:           handler,
			ReadHeaderTimeout: timeouts.ReadHeader,
		},
		store:   store,
		janitor: newJanitor(store, config.Janitor),
	}, nil
}

// ListenAndServe runs the HTTP server and the session janitor until the
// context ends.
//
// On cancellation, it performs a bounded shutdown so in-flight requests
// are drained before hard close.
func (s *Server) ListenAndServe(ctx context.Context) error {
	if s == nil {
		return errors.New("web server is nil")
	}
	if ctx == nil {
		return errors.New("context is required")
	}

	janitorCtx, stopJanitor := context.WithCancel(ctx)
	defer stopJanitor()
	go s.janitor.run(janitorCtx)

	serveErr := make(chan error, 1)
	log.Printf("web listening on %s", s.httpAddr)
	go func() {
		serveErr <- s.httpServer.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), timeouts.Shutdown)
		err := s.httpServer.Shutdown(shutdownCtx)
		cancel()
		if err != nil {
			return fmt.Errorf("shutdown http server: %w", err)
		}
		log.Printf("web shutdown complete")
		return nil
	case err := <-serveErr:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("serve http: %w", err)
	}
}

// Close releases the session store.
func (s *Server) Close() {
	if s == nil || s.store == nil {
		return
	}
	if err := s.store.Close(); err != nil {
		log.Printf("close session store: %v", err)
	}
}
