// Package templates renders the EasyVents pages as templ components.
package templates

import (
	"math"
	"strconv"
	"time"

	webi18n "github.com/louisbranch/easyvents/internal/services/web/platform/i18n"
)

// Viewer is the signed-in visitor shown in the header.
type Viewer struct {
	Name string
}

// Notice is a one-time banner rendered above the page body.
type Notice struct {
	Kind string
	Text string
}

// Refresh is a delayed client-side navigation.
type Refresh struct {
	URL   string
	Delay time.Duration
}

// Content renders the meta refresh content attribute. Browsers only read
// whole seconds there, so the delay rounds up; site.js navigates at the exact
// delay when scripts run.
func (r Refresh) Content() string {
	seconds := int64(0)
	if r.Delay > 0 {
		seconds = int64(math.Ceil(r.Delay.Seconds()))
	}
	return strconv.FormatInt(seconds, 10) + ";url=" + r.URL
}

// DelayMillis is the exact delay in milliseconds.
func (r Refresh) DelayMillis() string {
	if r.Delay <= 0 {
		return "0"
	}
	return strconv.FormatInt(r.Delay.Milliseconds(), 10)
}

// Page is the shell shared by every page.
type Page struct {
	Title string
	Lang  string
	RTL   bool
	Loc   webi18n.Localizer

	LangSwitchURL   string
	LangSwitchLabel string
	LangSwitchTag   string

	Viewer  *Viewer
	Notice  *Notice
	Refresh *Refresh
}

func (p Page) dir() string {
	if p.RTL {
		return "rtl"
	}
	return "ltr"
}

func (p Page) t(key string) string {
	return webi18n.Text(p.Loc, key)
}
