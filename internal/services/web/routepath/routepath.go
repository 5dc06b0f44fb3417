// Package routepath stores canonical HTTP paths for the web service.
package routepath

import (
	"net/url"
	"strings"
)

const (
	Root           = "/"
	Login          = "/login"
	Register       = "/register"
	Logout         = "/logout"
	RegisterHints  = "/register/hints"
	Health         = "/healthz"
	StaticPrefix   = "/static/"
	Stylesheet     = "/static/site.css"
	Script         = "/static/site.js"
	LegacyIndex    = "/index.html"
	LegacyLogin    = "/login.html"
	LegacyRegister = "/register.html"
)

// Section anchors on the landing page.
const (
	SectionFeatures = "#features"
	SectionAbout    = "#about"
	SectionContact  = "#contact"
)

var legacy = map[string]string{
	"index.html":    Root,
	"login.html":    Login,
	"register.html": Register,
}

// Canonical maps a navigation target to a served route. The backend names
// pages by their static file ("login.html"), with or without a leading slash;
// those map to the canonical route. Anything else that is a local path passes
// through, and external or malformed targets fall back to Root.
func Canonical(target string) string {
	target = strings.TrimSpace(target)
	if target == "" {
		return Root
	}
	parsed, err := url.Parse(target)
	if err != nil || parsed.Scheme != "" || parsed.Host != "" || strings.HasPrefix(target, "//") {
		return Root
	}
	name := strings.TrimPrefix(parsed.Path, "/")
	if mapped, ok := legacy[name]; ok {
		return withQuery(mapped, parsed)
	}
	if !strings.HasPrefix(parsed.Path, "/") {
		return withQuery("/"+parsed.Path, parsed)
	}
	return withQuery(parsed.Path, parsed)
}

func withQuery(path string, parsed *url.URL) string {
	if parsed.RawQuery == "" {
		return path
	}
	return path + "?" + parsed.RawQuery
}
