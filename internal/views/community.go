package views

import (
	g "maragu.dev/gomponents"
	h "maragu.dev/gomponents/html"
)

// CommunityPage renders the launching-soon teaser.
func CommunityPage(p PageData) g.Node {
	c := p.Site.Community
	return Layout(p,
		h.Section(h.Class("section community-hero"),
			h.Span(h.Class("badge"), g.Text(c.Badge)),
			h.H1(g.Text(c.Title+" "), h.Span(h.Class("highlight"), g.Text(c.Highlight))),
			h.P(h.Class("section-subtitle"), g.Text(c.Subtitle)),
		),
		h.Section(h.Class("section community-features"),
			h.H2(h.Class("section-title"), g.Text(c.SectionTitle)),
			featureGrid(c.Features),
			h.A(h.Class("button button-primary"), h.Href(c.CTAHref), g.Text(c.CTAText)),
		),
	)
}

// NotFoundPage is served for unknown paths.
func NotFoundPage(p PageData) g.Node {
	return Layout(p,
		h.Section(h.Class("section not-found"),
			h.H1(g.Text("Page not found")),
			h.P(g.Text("The page you are looking for does not exist.")),
			h.A(h.Class("button"), h.Href("/"), g.Text("Back home")),
		),
	)
}
