package views

import (
	"strconv"
	"strings"
	"time"

	g "maragu.dev/gomponents"
	h "maragu.dev/gomponents/html"

	"github.com/chhitz007/nexora-page/internal/carousel"
	"github.com/chhitz007/nexora-page/internal/content"
	"github.com/chhitz007/nexora-page/internal/overlay"
)

// CarouselData is the founders carousel state at render time.
type CarouselData struct {
	ViewID   string
	Founders []content.Founder
	PageSize int
	Current  int
	// RefreshIn is the delay before the fragment re-fetches itself. Zero disables polling.
	RefreshIn time.Duration
}

// OverlayData describes the open overlay. BodyHTML is sanitised markup for the panel
// content or founder note.
type OverlayData struct {
	ViewID   string
	Active   overlay.Active
	BodyHTML string
	Founders []content.Founder
}

// HomeData feeds the home page.
type HomeData struct {
	Page     PageData
	Carousel CarouselData
	Overlay  OverlayData
}

// HomePage renders the landing page.
func HomePage(d HomeData) g.Node {
	site := d.Page.Site
	return Layout(d.Page,
		hero(site.Hero),
		pillarsSection(d.Page.ViewID, site.PillarsHeader, site.Pillars),
		visionSection(d.Page.ViewID, site.Panels),
		h.Section(h.ID("founders"), h.Class("section founders"),
			h.H2(h.Class("section-title"), g.Text("Meet the Founders")),
			Carousel(d.Carousel),
		),
		Overlay(d.Overlay),
	)
}

func hero(hr content.Hero) g.Node {
	return h.Section(h.ID("hero"), h.Class("hero"),
		h.P(h.Class("hero-tagline"), g.Text(hr.Tagline)),
		h.H1(h.Class("hero-headline"), highlighted(hr.Headline, hr.Highlight)),
	)
}

// highlighted wraps the first occurrence of word in text with a highlight span.
func highlighted(text, word string) g.Node {
	i := strings.Index(text, word)
	if word == "" || i < 0 {
		return g.Text(text)
	}
	return g.Group([]g.Node{
		g.Text(text[:i]),
		h.Span(h.Class("highlight"), g.Text(word)),
		g.Text(text[i+len(word):]),
	})
}

func pillarsSection(viewID string, hdr content.SectionHeader, pillars []content.Pillar) g.Node {
	cards := make([]g.Node, 0, len(pillars))
	for i, p := range pillars {
		cards = append(cards, pillarCard(viewID, i, p))
	}
	return h.Section(h.ID("pillars"), h.Class("section pillars"),
		h.P(h.Class("section-tagline"), g.Text(hdr.Tagline)),
		h.H2(h.Class("section-title"), g.Text(hdr.Title)),
		g.If(hdr.Subtitle != "", h.P(h.Class("section-subtitle"), g.Text(hdr.Subtitle))),
		h.Div(h.Class("pillar-grid"), g.Group(cards)),
	)
}

func pillarCard(viewID string, i int, p content.Pillar) g.Node {
	return h.Button(
		h.Type("button"),
		h.Class("pillar-card accent-"+string(p.AccentColor)),
		g.Attr("data-pillar", strconv.Itoa(i)),
		g.Attr("hx-post", ViewURL(viewID, "pillars", strconv.Itoa(i), "open")),
		g.Attr("hx-target", "#overlay"),
		g.Attr("hx-swap", "outerHTML"),
		icon(p.Icon),
		h.H3(g.Text(p.Name)),
		h.P(h.Class("pillar-slogan"), g.Text(p.Slogan)),
		statusBadge(p.Status),
	)
}

func statusBadge(s content.PillarStatus) g.Node {
	label := "Join Waitlist"
	if s == content.PillarLaunching {
		label = "Launching Soon"
	}
	return h.Span(h.Class("badge badge-"+string(s)), g.Text(label))
}

func visionSection(viewID string, panels []content.Panel) g.Node {
	return h.Section(h.ID("vision"), h.Class("section vision"),
		g.Group(g.Map(panels, func(p content.Panel) g.Node {
			return h.Article(h.Class("panel-preview accent-"+string(p.AccentColor)), g.Attr("data-panel", string(p.Type)),
				h.H3(g.Text(p.Title)),
				h.P(g.Text(p.Preview)),
				h.Button(
					h.Type("button"),
					h.Class("link-button"),
					g.Attr("hx-post", ViewURL(viewID, "vision", string(p.Type), "open")),
					g.Attr("hx-target", "#overlay"),
					g.Attr("hx-swap", "outerHTML"),
					g.Text("Read more"),
				),
			)
		})),
	)
}

// Carousel renders the current page of founder cards, padded with placeholders, and the
// page dots. The fragment polls itself when the next rotation is due.
func Carousel(d CarouselData) g.Node {
	size := d.PageSize
	if size <= 0 {
		size = carousel.DefaultPageSize
	}
	total := carousel.TotalPages(len(d.Founders), size)
	page := carousel.Page(d.Founders, size, d.Current)
	pad := carousel.Padding(len(d.Founders), size, d.Current)

	attrs := []g.Node{
		h.ID("founders-carousel"),
		h.Class("carousel"),
		g.Attr("data-page", strconv.Itoa(d.Current)),
		g.Attr("data-total", strconv.Itoa(total)),
	}
	if d.RefreshIn > 0 {
		attrs = append(attrs,
			g.Attr("hx-get", ViewURL(d.ViewID, "carousel")),
			g.Attr("hx-trigger", refreshTrigger(d.RefreshIn)),
			g.Attr("hx-swap", "outerHTML"),
		)
	}

	cards := make([]g.Node, 0, size)
	for _, f := range page {
		cards = append(cards, founderCard(d.ViewID, f))
	}
	for i := 0; i < pad; i++ {
		cards = append(cards, h.Div(h.Class("founder-card placeholder"), g.Attr("aria-hidden", "true")))
	}

	dots := make([]g.Node, 0, total)
	for i := 0; i < total; i++ {
		dots = append(dots, h.Button(
			h.Type("button"),
			h.Class(classes("carousel-dot", activeClass(i == d.Current))),
			g.Attr("aria-label", "Show page "+strconv.Itoa(i+1)),
			g.If(i == d.Current, g.Attr("aria-current", "true")),
			g.Attr("hx-post", ViewURL(d.ViewID, "carousel", "select")),
			g.Attr("hx-vals", hxVals("page", strconv.Itoa(i))),
			g.Attr("hx-target", "#founders-carousel"),
			g.Attr("hx-swap", "outerHTML"),
		))
	}

	return h.Div(g.Group(attrs),
		h.Div(h.Class("founder-row"), g.Group(cards)),
		g.If(total > 1, h.Div(h.Class("carousel-dots"), g.Group(dots))),
	)
}

func founderCard(viewID string, f content.Founder) g.Node {
	return h.Div(h.Class("founder-card accent-"+string(f.AccentColor)), g.Attr("data-founder", strconv.Itoa(f.ID)),
		h.Img(h.Src(f.AvatarURL), h.Alt(f.Name), g.Attr("loading", "lazy")),
		h.H3(g.Text(f.Name)),
		h.P(h.Class("founder-title"), g.Text(f.Title)),
		h.Button(
			h.Type("button"),
			h.Class("link-button"),
			g.Attr("hx-post", ViewURL(viewID, "founders", strconv.Itoa(f.ID), "open")),
			g.Attr("hx-target", "#overlay"),
			g.Attr("hx-swap", "outerHTML"),
			g.Text("Note from "+f.FirstName()),
		),
	)
}

// Overlay renders the overlay slot. An empty slot is kept so later swaps have a target.
func Overlay(d OverlayData) g.Node {
	active := d.Active
	if active.Kind() == overlay.KindNone {
		return h.Div(h.ID("overlay"), h.Class("overlay-slot"))
	}
	kind := active.Kind().String()
	var body g.Node
	switch active.Kind() {
	case overlay.KindPillar:
		p, _, _ := active.Pillar()
		body = pillarOverlay(p)
	case overlay.KindVisionMission:
		p, _ := active.Panel()
		body = panelOverlay(p, d.BodyHTML)
	case overlay.KindFounder:
		f, i, _ := active.Founder()
		body = founderOverlay(d.ViewID, f, d.BodyHTML, adjacentFounders(d.Founders, i))
	}
	return h.Div(h.ID("overlay"), h.Class("overlay-slot is-open"), g.Attr("data-overlay", kind),
		h.Div(
			h.Class("overlay-backdrop"),
			g.Attr("hx-post", ViewURL(d.ViewID, "overlay", kind, "close")),
			g.Attr("hx-target", "#overlay"),
			g.Attr("hx-swap", "outerHTML"),
			h.Div(
				h.Class("overlay-content"),
				h.Role("dialog"),
				g.Attr("aria-modal", "true"),
				g.Attr("hx-on:click", "event.stopPropagation()"),
				closeButton(ViewURL(d.ViewID, "overlay", kind, "close"), "#overlay"),
				body,
			),
		),
	)
}

func closeButton(url, target string) g.Node {
	return h.Button(
		h.Type("button"),
		h.Class("overlay-close"),
		g.Attr("aria-label", "Close"),
		g.Attr("hx-post", url),
		g.Attr("hx-target", target),
		g.Attr("hx-swap", "outerHTML"),
		g.Text("×"),
	)
}

func pillarOverlay(p content.Pillar) g.Node {
	return h.Div(h.Class("pillar-detail accent-"+string(p.AccentColor)),
		icon(p.Icon),
		h.H2(g.Text(p.Name)),
		h.P(h.Class("pillar-slogan"), g.Text(p.Slogan)),
		h.P(g.Text(p.Description)),
		statusBadge(p.Status),
		g.If(p.ActionText != "", h.A(h.Class("button"), h.Href(p.ActionHref), g.Text(p.ActionText))),
	)
}

func panelOverlay(p content.Panel, bodyHTML string) g.Node {
	var body g.Node
	if bodyHTML != "" {
		body = h.Div(h.Class("prose"), g.Raw(bodyHTML))
	} else {
		body = h.Div(h.Class("prose"), g.Group(g.Map(p.Paragraphs(), func(s string) g.Node {
			return h.P(g.Text(s))
		})))
	}
	return h.Div(h.Class("panel-detail accent-"+string(p.AccentColor)),
		h.H2(g.Text(p.Title)),
		body,
	)
}

// adjacentFounders returns the founders before and after i, wrapping. It returns nil
// when there is nobody to step to.
func adjacentFounders(all []content.Founder, i int) []content.Founder {
	n := len(all)
	if n < 2 || i < 0 || i >= n {
		return nil
	}
	return []content.Founder{all[(i-1+n)%n], all[(i+1)%n]}
}

func founderOverlay(viewID string, f content.Founder, noteHTML string, adjacent []content.Founder) g.Node {
	step := func(dir string, to content.Founder) g.Node {
		label := "Note from " + to.FirstName()
		return h.Button(
			h.Type("button"),
			h.Class("founder-step founder-"+dir),
			g.Attr("aria-label", label),
			g.Attr("hx-post", ViewURL(viewID, "founders", dir)),
			g.Attr("hx-target", "#overlay"),
			g.Attr("hx-swap", "outerHTML"),
			g.Text(label),
		)
	}
	return h.Div(h.Class("founder-detail accent-"+string(f.AccentColor)), g.Attr("data-founder", strconv.Itoa(f.ID)),
		h.Img(h.Src(f.AvatarURL), h.Alt(f.Name)),
		h.H2(g.Text(f.Name)),
		h.P(h.Class("founder-title"), g.Text(f.Title)),
		h.H3(g.Text(f.NoteTitle)),
		h.Div(h.Class("prose"), g.Raw(noteHTML)),
		g.Iff(len(adjacent) == 2, func() g.Node {
			return h.Div(h.Class("founder-nav"),
				step("prev", adjacent[0]),
				step("next", adjacent[1]),
			)
		}),
	)
}
