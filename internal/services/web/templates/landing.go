package templates

import (
	"context"
	"io"
	"strconv"

	"github.com/a-h/templ"

	"github.com/louisbranch/easyvents/internal/services/web/routepath"
)

var eventTypes = []struct{ icon, key string }{
	{"💍", "web.events.weddings"},
	{"🎉", "web.events.bar_mitzvah"},
	{"🥂", "web.events.bachelorette"},
	{"💼", "web.events.business"},
}

var steps = []string{"signup", "create", "plan", "enjoy"}

// Landing renders the marketing page body.
func Landing(page Page) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		h := newWriter(w)

		h.raw(`<section class="hero-section" id="home"><div class="container"><div class="hero-content"><h2 class="hero-title">`)
		h.text(page.t("web.hero.title"))
		h.raw(`</h2><p class="hero-subtitle">`)
		h.text(page.t("web.hero.subtitle"))
		h.raw("<br>")
		h.text(page.t("web.hero.subtitle_more"))
		h.raw(`</p><div class="hero-buttons"><a class="btn btn-hero-primary"`)
		h.attr("href", routepath.Register)
		h.raw(">")
		h.text(page.t("web.hero.start"))
		h.raw(`</a><a class="btn btn-hero-secondary"`)
		h.attr("href", routepath.SectionFeatures)
		h.raw(">")
		h.text(page.t("web.hero.more"))
		h.raw("</a></div></div></div></section>")

		h.raw(`<section class="features-section" id="features"><div class="container">`)
		sectionHeading(h, page, "web.events.title", "web.events.subtitle")
		h.raw(`<div class="event-grid">`)
		for _, event := range eventTypes {
			h.raw(`<div class="event-card"><span class="event-icon" aria-hidden="true">`)
			h.text(event.icon)
			h.raw("</span><h3>")
			h.text(page.t(event.key))
			h.raw("</h3></div>")
		}
		h.raw("</div></div></section>")

		h.raw(`<section class="steps-section" id="about"><div class="container">`)
		sectionHeading(h, page, "web.steps.title", "web.steps.subtitle")
		h.raw(`<ol class="steps-grid">`)
		for i, step := range steps {
			h.raw(`<li class="step-card"><span class="step-number">`)
			h.text(strconv.Itoa(i + 1))
			h.raw("</span><h3>")
			h.text(page.t("web.steps." + step + ".title"))
			h.raw("</h3><p>")
			h.text(page.t("web.steps." + step + ".body"))
			h.raw("</p></li>")
		}
		h.raw("</ol></div></section>")

		h.raw(`<section class="cta-section"><div class="container"><h2>`)
		h.text(page.t("web.cta.title"))
		h.raw("</h2><p>")
		h.text(page.t("web.cta.body"))
		h.raw(`</p><a class="btn btn-hero-primary"`)
		h.attr("href", routepath.Register)
		h.raw(">")
		h.text(page.t("web.cta.button"))
		h.raw("</a></div></section>")
		return h.err
	})
}

func sectionHeading(h *writer, page Page, titleKey string, subtitleKey string) {
	h.raw(`<div class="section-header"><h2 class="section-title">`)
	h.text(page.t(titleKey))
	h.raw(`</h2><p class="section-subtitle">`)
	h.text(page.t(subtitleKey))
	h.raw("</p></div>")
}
