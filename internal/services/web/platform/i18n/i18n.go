// Package i18n resolves the request language and exposes localized copy.
package i18n

import (
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/louisbranch/easyvents/internal/auth/form"
	platformi18n "github.com/louisbranch/easyvents/internal/platform/i18n"
	"github.com/louisbranch/easyvents/internal/platform/i18n/catalog"
	"github.com/louisbranch/easyvents/internal/services/web/platform/requestmeta"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

const (
	// LangParam is the query parameter used to select a language.
	LangParam = "lang"
	// LangCookieName stores the visitor's language preference.
	LangCookieName = "ev_lang"
)

// Localizer resolves message keys.
type Localizer interface {
	Sprintf(key message.Reference, args ...any) string
}

// Printer returns a message printer for tag backed by the embedded catalogs.
func Printer(tag language.Tag) *message.Printer {
	_ = catalog.Default()
	return message.NewPrinter(tag)
}

// ResolveTag determines the best language tag for the request.
// The bool indicates whether the lang query param should be persisted as a cookie.
func ResolveTag(r *http.Request) (language.Tag, bool) {
	if r == nil {
		return platformi18n.DefaultTag(), false
	}

	if langValue := strings.TrimSpace(r.URL.Query().Get(LangParam)); langValue != "" {
		if tag, ok := platformi18n.ParseTag(langValue); ok {
			return tag, true
		}
	}

	if cookie, err := r.Cookie(LangCookieName); err == nil {
		if tag, ok := platformi18n.ParseTag(cookie.Value); ok {
			return tag, false
		}
	}

	if accept := strings.TrimSpace(r.Header.Get("Accept-Language")); accept != "" {
		if tags, _, err := language.ParseAcceptLanguage(accept); err == nil {
			return platformi18n.MatchTags(tags), false
		}
	}

	return platformi18n.DefaultTag(), false
}

// SetLanguageCookie persists the selected language on the response.
func SetLanguageCookie(w http.ResponseWriter, r *http.Request, tag language.Tag, policy requestmeta.SchemePolicy) {
	if w == nil {
		return
	}
	http.SetCookie(w, &http.Cookie{
		Name:     LangCookieName,
		Value:    tag.String(),
		Path:     "/",
		MaxAge:   int((365 * 24 * time.Hour).Seconds()),
		Secure:   requestmeta.IsHTTPSWithPolicy(r, policy),
		SameSite: http.SameSiteLaxMode,
	})
}

// LanguageURL returns the current URL with the language param updated.
func LanguageURL(path string, rawQuery string, tag string) string {
	path = strings.TrimSpace(path)
	if path == "" {
		path = "/"
	}
	query, err := url.ParseQuery(rawQuery)
	if err != nil {
		query = url.Values{}
	}
	query.Set(LangParam, tag)
	return (&url.URL{Path: path, RawQuery: query.Encode()}).String()
}

// Alternate returns the supported tag a language switch should offer.
func Alternate(active language.Tag) language.Tag {
	for _, tag := range platformi18n.SupportedTags() {
		if tag != active {
			return tag
		}
	}
	return active
}

// T localizes key, falling back to fallback when the catalog lacks it.
func T(loc Localizer, key string, fallback string) string {
	if loc != nil {
		value := strings.TrimSpace(loc.Sprintf(key))
		if value != "" && value != key {
			return value
		}
	}
	return fallback
}

// Text localizes key, falling back to the key itself.
func Text(loc Localizer, key string) string {
	return T(loc, key, key)
}

// Greeting renders the signed-in greeting for name.
func Greeting(loc Localizer, name string) string {
	return strings.TrimSpace(strings.ReplaceAll(T(loc, "auth.greeting", "שלום {name}"), "{name}", strings.TrimSpace(name)))
}

// FormCopy returns the controller copy for tag.
func FormCopy(tag language.Tag) form.Copy {
	return form.CopyFromPrinter(Printer(tag))
}

// TransportMessages are the localized API client failure texts.
type TransportMessages struct {
	Post string
	Get  string
}

// Transport returns the API client failure texts for loc.
func Transport(loc Localizer) TransportMessages {
	return TransportMessages{
		Post: T(loc, "auth.error.transport_post", ""),
		Get:  T(loc, "auth.error.transport_get", ""),
	}
}
