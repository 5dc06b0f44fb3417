// Package web parses web command configuration and starts the site server.
package web

import (
	"context"
	"crypto/rand"
	"errors"
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"

	entrypoint "github.com/louisbranch/easyvents/internal/platform/cmd"
	"github.com/louisbranch/easyvents/internal/services/web"
	"github.com/louisbranch/easyvents/internal/services/web/platform/sessioncookie"
)

// Config holds web command configuration.
type Config struct {
	HTTPAddr            string `env:"WEB_HTTP_ADDR" envDefault:"localhost:8080"`
	APIBaseURL          string `env:"API_BASE_URL" envDefault:"http://localhost:5000/api"`
	DBPath              string `env:"WEB_DB_PATH" envDefault:"data/web.db"`
	CookieSecret        string `env:"WEB_COOKIE_SECRET"`
	SessionKey          string `env:"SESSION_KEY" envDefault:"easyVentsCurrentUser"`
	TrustForwardedProto bool   `env:"WEB_TRUST_FORWARDED_PROTO"`
}

// ParseConfig parses environment and flags into a Config.
func ParseConfig(fs *flag.FlagSet, args []string) (Config, error) {
	var cfg Config
	if err := entrypoint.ParseConfig(&cfg); err != nil {
		return Config{}, err
	}
	fs.StringVar(&cfg.HTTPAddr, "http-addr", cfg.HTTPAddr, "HTTP listen address")
	fs.StringVar(&cfg.APIBaseURL, "api-base-url", cfg.APIBaseURL, "EasyVents REST API base URL")
	fs.StringVar(&cfg.DBPath, "db-path", cfg.DBPath, "Session store sqlite path")
	fs.StringVar(&cfg.SessionKey, "session-key", cfg.SessionKey, "Storage key for the signed-in user")
	fs.BoolVar(&cfg.TrustForwardedProto, "trust-forwarded-proto", cfg.TrustForwardedProto, "Trust X-Forwarded-Proto for secure cookies")
	if err := entrypoint.ParseArgs(fs, args); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Run starts the web server.
func Run(ctx context.Context, cfg Config) error {
	secret, err := cookieSecret(cfg.CookieSecret)
	if err != nil {
		return err
	}
	if err := ensureDir(cfg.DBPath); err != nil {
		return err
	}
	return entrypoint.RunWithTelemetry(ctx, entrypoint.ServiceWeb, func(ctx context.Context) error {
		server, err := web.NewServer(web.Config{
			HTTPAddr:            cfg.HTTPAddr,
			APIBaseURL:          cfg.APIBaseURL,
			DBPath:              cfg.DBPath,
			CookieSecret:        secret,
			SessionKey:          cfg.SessionKey,
			TrustForwardedProto: cfg.TrustForwardedProto,
		})
		if err != nil {
			return fmt.Errorf("init web server: %w", err)
		}
		defer server.Close()

		if err := server.ListenAndServe(ctx); err != nil {
			return fmt.Errorf("serve web: %w", err)
		}
		return nil
	})
}

// cookieSecret returns the configured secret, or a random one when none is
// set. Cookies signed with a random secret do not survive a restart.
func cookieSecret(configured string) ([]byte, error) {
	configured = strings.TrimSpace(configured)
	if configured != "" {
		if len(configured) < sessioncookie.MinSecretLength {
			return nil, fmt.Errorf("cookie secret must be at least %d bytes", sessioncookie.MinSecretLength)
		}
		return []byte(configured), nil
	}
	secret := make([]byte, sessioncookie.MinSecretLength)
	if _, err := rand.Read(secret); err != nil {
		return nil, fmt.Errorf("generate cookie secret: %w", err)
	}
	log.Printf("web cookie secret not set; using a random secret, sessions reset on restart")
	return secret, nil
}

func ensureDir(dbPath string) error {
	dbPath = strings.TrimSpace(dbPath)
	if dbPath == "" {
		return errors.New("db path is required")
	}
	dir := filepath.Dir(dbPath)
	if dir == "." {
		return nil
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create db dir: %w", err)
	}
	return nil
}
