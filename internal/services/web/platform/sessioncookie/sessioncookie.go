// Package sessioncookie issues the signed cookies that own session storage.
//
// A browser carries two owner ids: a device id that survives restarts and a
// session id that dies with the browser session. Each id is wrapped in an
// HS256 JWT so a client cannot point its cookie at another owner's rows.
package sessioncookie

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/louisbranch/easyvents/internal/platform/id"
	"github.com/louisbranch/easyvents/internal/services/web/platform/requestmeta"
)

// MinSecretLength is the shortest accepted signing secret, in bytes.
const MinSecretLength = 32

const issuer = "easyvents-web"

// Slot describes one owner cookie.
type Slot struct {
	Name     string
	Audience string
	// MaxAge is the cookie lifetime in seconds; zero makes a browser-session cookie.
	MaxAge int
}

var (
	// Device owns the durable scope.
	Device = Slot{Name: "ev_device", Audience: "durable", MaxAge: 365 * 24 * 60 * 60}
	// Session owns the ephemeral scope.
	Session = Slot{Name: "ev_session", Audience: "ephemeral"}
)

// ErrInvalid reports a cookie that does not verify.
var ErrInvalid = errors.New("session cookie is invalid")

type ownerClaims struct {
	jwt.RegisteredClaims
}

// Codec signs and verifies owner tokens.
type Codec struct {
	secret []byte
	now    func() time.Time
}

// NewCodec builds a Codec for secret.
func NewCodec(secret []byte) (*Codec, error) {
	if len(secret) < MinSecretLength {
		return nil, fmt.Errorf("cookie secret must be at least %d bytes", MinSecretLength)
	}
	return &Codec{secret: append([]byte(nil), secret...), now: time.Now}, nil
}

// Sign returns a token binding owner to slot.
func (c *Codec) Sign(slot Slot, owner string) (string, error) {
	owner = strings.TrimSpace(owner)
	if owner == "" {
		return "", errors.New("owner is required")
	}
	now := c.now().UTC()
	claims := ownerClaims{RegisteredClaims: jwt.RegisteredClaims{
		Issuer:   issuer,
		Subject:  owner,
		Audience: jwt.ClaimStrings{slot.Audience},
		IssuedAt: jwt.NewNumericDate(now),
	}}
	if slot.MaxAge > 0 {
		claims.ExpiresAt = jwt.NewNumericDate(now.Add(time.Duration(slot.MaxAge) * time.Second))
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(c.secret)
	if err != nil {
		return "", fmt.Errorf("sign owner token: %w", err)
	}
	return signed, nil
}

// Verify returns the owner carried by token for slot.
func (c *Codec) Verify(slot Slot, token string) (string, error) {
	token = strings.TrimSpace(token)
	if token == "" {
		return "", ErrInvalid
	}
	var claims ownerClaims
	_, err := jwt.ParseWithClaims(token, &claims, func(*jwt.Token) (any, error) {
		return c.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(issuer),
		jwt.WithAudience(slot.Audience),
		jwt.WithTimeFunc(c.now),
	)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrInvalid, err)
	}
	owner := strings.TrimSpace(claims.Subject)
	if owner == "" {
		return "", ErrInvalid
	}
	return owner, nil
}

// Jar reads and writes owner cookies.
type Jar struct {
	codec  *Codec
	policy requestmeta.SchemePolicy
}

// NewJar builds a Jar.
func NewJar(codec *Codec, policy requestmeta.SchemePolicy) Jar {
	return Jar{codec: codec, policy: policy}
}

// Owner returns the verified owner of slot, if the request carries one.
func (j Jar) Owner(r *http.Request, slot Slot) (string, bool) {
	if r == nil || j.codec == nil {
		return "", false
	}
	cookie, err := r.Cookie(slot.Name)
	if err != nil {
		return "", false
	}
	owner, err := j.codec.Verify(slot, cookie.Value)
	if err != nil {
		return "", false
	}
	return owner, true
}

// Issue mints a fresh owner for slot and sets its cookie.
func (j Jar) Issue(w http.ResponseWriter, r *http.Request, slot Slot) (string, error) {
	if j.codec == nil {
		return "", errors.New("cookie codec is required")
	}
	owner, err := id.NewID()
	if err != nil {
		return "", fmt.Errorf("new owner id: %w", err)
	}
	token, err := j.codec.Sign(slot, owner)
	if err != nil {
		return "", err
	}
	if w != nil {
		http.SetCookie(w, &http.Cookie{
			Name:     slot.Name,
			Value:    token,
			Path:     "/",
			MaxAge:   slot.MaxAge,
			HttpOnly: true,
			Secure:   requestmeta.IsHTTPSWithPolicy(r, j.policy),
			SameSite: http.SameSiteLaxMode,
		})
	}
	return owner, nil
}

// Clear expires the cookie for slot.
func (j Jar) Clear(w http.ResponseWriter, r *http.Request, slot Slot) {
	if w == nil {
		return
	}
	http.SetCookie(w, &http.Cookie{
		Name:     slot.Name,
		Value:    "",
		Path:     "/",
		HttpOnly: true,
		Secure:   requestmeta.IsHTTPSWithPolicy(r, j.policy),
		SameSite: http.SameSiteLaxMode,
		MaxAge:   -1,
	})
}
