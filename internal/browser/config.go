// Package browser binds the auth flow to the page it runs in when compiled
// to js/wasm. The DOM bindings only build for js/wasm; the settings and
// naming rules below build everywhere.
package browser

import (
	"strings"

	"github.com/louisbranch/easyvents/internal/auth/form"
	"github.com/louisbranch/easyvents/internal/auth/session"
	"github.com/louisbranch/easyvents/internal/services/web/routepath"
)

const (
	defaultAPIBaseURL  = "http://localhost:5000/api"
	defaultLandingPath = "index.html"

	fieldPassword        = "password"
	fieldConfirmPassword = "confirmPassword"
)

// Config holds the page-level settings read from window.easyVentsConfig.
type Config struct {
	APIBaseURL string
	SessionKey string
	// LandingPath is where logout and successful submissions go.
	LandingPath string
	// CanonicalRoutes rewrites legacy .html targets to the server routes.
	CanonicalRoutes bool
}

func (c Config) withDefaults() Config {
	c.APIBaseURL = strings.TrimSpace(c.APIBaseURL)
	if c.APIBaseURL == "" {
		c.APIBaseURL = defaultAPIBaseURL
	}
	c.SessionKey = strings.TrimSpace(c.SessionKey)
	if c.SessionKey == "" {
		c.SessionKey = session.DefaultKey
	}
	c.LandingPath = strings.TrimSpace(c.LandingPath)
	if c.LandingPath == "" {
		if c.CanonicalRoutes {
			c.LandingPath = routepath.Root
		} else {
			c.LandingPath = defaultLandingPath
		}
	}
	return c
}

// target resolves a navigation path against the configured routing mode.
func (c Config) target(path string) string {
	if c.CanonicalRoutes {
		return routepath.Canonical(path)
	}
	return path
}

// messageClass is the class list of a rendered feedback element.
func messageClass(kind form.Kind) string {
	return "form-message " + string(kind)
}
