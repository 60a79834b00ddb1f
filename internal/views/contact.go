package views

import (
	g "maragu.dev/gomponents"
	h "maragu.dev/gomponents/html"

	"github.com/chhitz007/nexora-page/internal/forms"
)

// ContactData feeds the contact page.
type ContactData struct {
	Page   PageData
	Forms  []forms.Definition
	Panel  FormPanelData
	Banner BannerData
}

// FormPanelData is the open contact form, or none when Form is nil.
type FormPanelData struct {
	ViewID string
	Form   *FormData
}

// ContactPage renders the path cards, the form panel slot and the banner slot.
func ContactPage(d ContactData) g.Node {
	c := d.Page.Site.Contact
	return Layout(d.Page,
		h.Section(h.Class("section contact-hero"),
			h.H1(g.Text(c.Title+" "), h.Span(h.Class("highlight"), g.Text(c.Highlight))),
			h.P(h.Class("section-subtitle"), g.Text(c.Subtitle)),
		),
		h.Section(h.Class("section contact-paths"),
			h.H2(h.Class("section-title"), g.Text(c.PathTitle)),
			h.Div(h.Class("path-grid"),
				g.Group(g.Map(d.Forms, func(def forms.Definition) g.Node {
					return pathCard(d.Page.ViewID, def)
				})),
			),
		),
		FormPanel(d.Panel),
		Banner(d.Banner),
	)
}

func pathCard(viewID string, def forms.Definition) g.Node {
	return h.Button(
		h.Type("button"),
		h.Class("path-card"),
		g.Attr("data-form", string(def.Kind)),
		g.Attr("hx-post", ViewURL(viewID, "forms", string(def.Kind), "open")),
		g.Attr("hx-target", "#form-panel"),
		g.Attr("hx-swap", "outerHTML"),
		icon(def.Icon),
		h.H3(g.Text(def.Title)),
		h.P(g.Text(def.Description)),
	)
}

// FormPanel renders the contact form modal slot.
func FormPanel(d FormPanelData) g.Node {
	if d.Form == nil {
		return h.Div(h.ID("form-panel"), h.Class("form-panel"))
	}
	f := *d.Form
	kind := string(f.Def.Kind)
	closeURL := ViewURL(d.ViewID, "forms", kind, "close")
	f.Action = ViewURL(d.ViewID, "forms", kind)
	f.Target = "#form-panel"
	return h.Div(h.ID("form-panel"), h.Class("form-panel is-open"), g.Attr("data-form", kind),
		h.Div(
			h.Class("overlay-backdrop"),
			g.Attr("hx-post", closeURL),
			g.Attr("hx-target", "#form-panel"),
			g.Attr("hx-swap", "outerHTML"),
			h.Div(
				h.Class("overlay-content"),
				h.Role("dialog"),
				g.Attr("aria-modal", "true"),
				g.Attr("hx-on:click", "event.stopPropagation()"),
				closeButton(closeURL, "#form-panel"),
				icon(f.Def.Icon),
				h.H2(g.Text(f.Def.Heading)),
				h.P(g.Text(f.Def.Description)),
				formElement(f),
			),
		),
	)
}
