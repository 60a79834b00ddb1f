package views

import (
	g "maragu.dev/gomponents"
	h "maragu.dev/gomponents/html"

	"github.com/chhitz007/nexora-page/internal/content"
)

// InvestorsData feeds the investor page.
type InvestorsData struct {
	Page   PageData
	Form   FormData
	Banner BannerData
}

// InvestorsPage renders the highlights and the inquiry form.
func InvestorsPage(d InvestorsData) g.Node {
	inv := d.Page.Site.Investors
	return Layout(d.Page,
		h.Section(h.Class("section investors-hero"),
			h.Span(h.Class("badge"), g.Text(inv.Badge)),
			h.H1(g.Text(inv.Title+" "), h.Span(h.Class("highlight"), g.Text(inv.Highlight))),
			h.P(h.Class("section-subtitle"), g.Text(inv.Subtitle)),
		),
		h.Section(h.Class("section investor-highlights"),
			h.H2(h.Class("section-title"), g.Text(inv.SectionTitle)),
			featureGrid(inv.Highlights),
		),
		h.Section(h.Class("section investor-inquiry"),
			h.H2(g.Text(d.Form.Def.Heading)),
			InvestorForm(d.Page.ViewID, d.Form),
		),
		Banner(d.Banner),
	)
}

// InvestorForm renders the inquiry form as a swappable fragment.
func InvestorForm(viewID string, f FormData) g.Node {
	f.Action = ViewURL(viewID, "investors")
	f.Target = "#investor-form"
	return h.Div(h.ID("investor-form"), formElement(f))
}

func featureGrid(features []content.Feature) g.Node {
	return h.Div(h.Class("feature-grid"),
		g.Group(g.Map(features, func(f content.Feature) g.Node {
			return h.Div(h.Class("feature"),
				icon(f.Icon),
				h.H3(g.Text(f.Title)),
				h.P(g.Text(f.Description)),
			)
		})),
	)
}
