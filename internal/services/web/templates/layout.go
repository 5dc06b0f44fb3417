package templates

import (
	"context"
	"io"

	"github.com/a-h/templ"

	webi18n "github.com/louisbranch/easyvents/internal/services/web/platform/i18n"
	"github.com/louisbranch/easyvents/internal/services/web/routepath"
)

// Layout renders the document shell around the children in ctx.
func Layout(page Page) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		h := newWriter(w)
		h.raw("<!DOCTYPE html><html")
		h.attr("lang", page.Lang)
		h.attr("dir", page.dir())
		h.raw(`><head><meta charset="utf-8"><meta name="viewport" content="width=device-width, initial-scale=1">`)
		if page.Refresh != nil {
			h.raw(`<meta http-equiv="refresh"`)
			h.attr("content", page.Refresh.Content())
			h.attr("data-url", page.Refresh.URL)
			h.attr("data-delay-ms", page.Refresh.DelayMillis())
			h.raw(">")
		}
		h.raw("<title>")
		h.text(page.Title)
		h.raw(`</title><link rel="stylesheet"`)
		h.attr("href", routepath.Stylesheet)
		h.raw("><script defer")
		h.attr("src", routepath.Script)
		h.raw("></script></head><body>")
		h.component(ctx, Header(page))
		if page.Notice != nil && page.Notice.Text != "" {
			h.raw(`<div role="status"`)
			h.attr("class", "flash flash-"+page.Notice.Kind)
			h.raw(">")
			h.text(page.Notice.Text)
			h.raw("</div>")
		}
		h.raw("<main>")
		h.component(ctx, templ.GetChildren(ctx))
		h.raw("</main>")
		h.component(ctx, Footer(page))
		h.raw("</body></html>")
		return h.err
	})
}

// Header renders the navigation bar. Signed-in visitors get a greeting and a
// logout button instead of the login and register links.
func Header(page Page) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		h := newWriter(w)
		h.raw(`<header class="main-header"><div class="container"><div class="header-content">`)
		h.raw(`<div class="logo"><a`)
		h.attr("href", routepath.Root)
		h.raw(`>EasyVents</a></div><nav class="main-nav"><ul>`)
		for _, item := range []struct{ href, key string }{
			{routepath.Root, "web.nav.home"},
			{routepath.Root + routepath.SectionFeatures, "web.nav.features"},
			{routepath.Root + routepath.SectionAbout, "web.nav.about"},
			{routepath.Root + routepath.SectionContact, "web.nav.contact"},
		} {
			h.raw("<li><a")
			h.attr("href", item.href)
			h.raw(">")
			h.text(page.t(item.key))
			h.raw("</a></li>")
		}
		h.raw(`</ul></nav><div class="header-actions">`)
		if page.Viewer != nil {
			h.raw(`<span class="user-greeting">`)
			h.text(greeting(page))
			h.raw(`</span><form method="post" class="logout-form"`)
			h.attr("action", routepath.Logout)
			h.raw(`><button type="submit" id="logoutButton" class="btn btn-secondary">`)
			h.text(page.t("auth.logout.submit"))
			h.raw("</button></form>")
		} else {
			h.raw(`<a class="btn btn-secondary"`)
			h.attr("href", routepath.Login)
			h.raw(">")
			h.text(page.t("web.nav.login"))
			h.raw(`</a><a class="btn btn-primary"`)
			h.attr("href", routepath.Register)
			h.raw(">")
			h.text(page.t("web.nav.register"))
			h.raw("</a>")
		}
		if page.LangSwitchURL != "" {
			h.raw(`<a class="lang-switch"`)
			h.attr("href", page.LangSwitchURL)
			h.attr("hreflang", page.LangSwitchTag)
			h.raw(">")
			h.text(page.LangSwitchLabel)
			h.raw("</a>")
		}
		h.raw("</div></div></div></header>")
		return h.err
	})
}

// Footer renders the site footer.
func Footer(page Page) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		h := newWriter(w)
		h.raw(`<footer class="main-footer" id="contact"><div class="container"><div class="footer-grid">`)
		h.raw(`<div class="footer-brand"><h3>EasyVents</h3><p>`)
		h.text(page.t("web.footer.tagline"))
		h.raw("</p></div>")
		footerColumn(h, page, "web.footer.quick_links", []string{"web.nav.home", "web.nav.features", "web.nav.about"})
		footerColumn(h, page, "web.footer.support", []string{"web.footer.help_center", "web.footer.faq", "web.footer.terms", "web.footer.privacy"})
		h.raw(`<div class="footer-contact"><h4>`)
		h.text(page.t("web.footer.contact"))
		h.raw(`</h4><p>info@easyvents.co.il</p><p>`)
		h.text(page.t("web.footer.address"))
		h.raw(`</p></div></div><p class="footer-rights">&copy; 2026 EasyVents. `)
		h.text(page.t("web.footer.rights"))
		h.raw("</p></div></footer>")
		return h.err
	})
}

func footerColumn(h *writer, page Page, titleKey string, keys []string) {
	h.raw(`<div class="footer-links"><h4>`)
	h.text(page.t(titleKey))
	h.raw("</h4><ul>")
	for _, key := range keys {
		h.raw(`<li><a href="#">`)
		h.text(page.t(key))
		h.raw("</a></li>")
	}
	h.raw("</ul></div>")
}

func greeting(page Page) string {
	name := ""
	if page.Viewer != nil {
		name = page.Viewer.Name
	}
	return webi18n.Greeting(page.Loc, name)
}
