package views

import (
	"fmt"
	"net/url"
	"strconv"
	"time"

	g "maragu.dev/gomponents"
	h "maragu.dev/gomponents/html"

	"github.com/chhitz007/nexora-page/internal/content"
	"github.com/chhitz007/nexora-page/internal/nav"
	"github.com/chhitz007/nexora-page/internal/seo"
)

const htmxSrc = "https://unpkg.com/htmx.org@2.0.4/dist/htmx.min.js"

// htmxConfig lets 422 validation responses swap like successes.
const htmxConfig = `{"responseHandling":[{"code":"204","swap":false},{"code":"[23]..","swap":true},{"code":"422","swap":true},{"code":"[45]..","swap":false,"error":true}]}`

// Analytics carries optional tag ids. Debug turns on GA4 debug_mode.
type Analytics struct {
	GAMeasurementID string
	GTMContainerID  string
	Debug           bool
}

const gtmLoader = `(function(w,d,s,l,i){w[l]=w[l]||[];w[l].push({'gtm.start':new Date().getTime(),event:'gtm.js'});` +
	`var f=d.getElementsByTagName(s)[0],j=d.createElement(s),dl=l!='dataLayer'?'&l='+l:'';j.async=true;` +
	`j.src='https://www.googletagmanager.com/gtm.js?id='+i+dl;f.parentNode.insertBefore(j,f);})(window,document,'script','dataLayer',%s);`

// PageData is shared by every full page.
type PageData struct {
	Meta      seo.Meta
	Path      string
	Nav       []nav.RenderedItem
	Site      *content.Site
	CSRFToken string
	ViewID    string
	Analytics Analytics
	Year      int
}

// Layout wraps body in the document shell, navbar and footer.
func Layout(p PageData, body ...g.Node) g.Node {
	bodyAttrs := []g.Node{
		h.Class("site"),
		g.Attr("hx-headers", hxVals("X-CSRF-Token", p.CSRFToken)),
	}
	if p.ViewID != "" {
		bodyAttrs = append(bodyAttrs, g.Attr("data-view-id", p.ViewID), g.Attr("data-unmount-url", ViewURL(p.ViewID, "unmount")))
	}
	return h.Doctype(
		h.HTML(h.Lang("en"),
			head(p),
			h.Body(
				g.Group(bodyAttrs),
				gtmNoScript(p.Analytics.GTMContainerID),
				navbar(p.Nav),
				h.Main(h.ID("content"), g.Group(body)),
				footer(p.Site.Footer, p.Year),
			),
		),
	)
}

func head(p PageData) g.Node {
	m := p.Meta
	return h.Head(
		h.Meta(h.Charset("utf-8")),
		h.Meta(h.Name("viewport"), h.Content("width=device-width, initial-scale=1")),
		h.Meta(h.Name("csrf-token"), h.Content(p.CSRFToken)),
		h.Meta(h.Name("htmx-config"), h.Content(htmxConfig)),
		h.TitleEl(g.Text(m.Title)),
		g.If(m.Description != "", h.Meta(h.Name("description"), h.Content(m.Description))),
		g.If(m.Canonical != "", h.Link(h.Rel("canonical"), h.Href(m.Canonical))),
		g.Group([]g.Node{
			h.Meta(g.Attr("property", "og:title"), h.Content(m.OG.Title)),
			h.Meta(g.Attr("property", "og:type"), h.Content(m.OG.Type)),
			g.If(m.OG.Description != "", h.Meta(g.Attr("property", "og:description"), h.Content(m.OG.Description))),
			g.If(m.OG.URL != "", h.Meta(g.Attr("property", "og:url"), h.Content(m.OG.URL))),
			g.If(m.Twitter.Card != "", h.Meta(h.Name("twitter:card"), h.Content(m.Twitter.Card))),
		}),
		g.Group(g.Map(m.JSONLD, func(doc string) g.Node {
			return h.Script(h.Type("application/ld+json"), g.Raw(doc))
		})),
		h.Link(h.Rel("stylesheet"), h.Href("/assets/css/site.css")),
		h.Script(h.Src(htmxSrc), h.Defer()),
		h.Script(h.Src("/assets/js/app.js"), h.Defer()),
		analytics(p.Analytics),
	)
}

func analytics(a Analytics) g.Node {
	var nodes []g.Node
	if a.GTMContainerID != "" {
		nodes = append(nodes, h.Script(g.Raw(fmt.Sprintf(gtmLoader, strconv.Quote(a.GTMContainerID)))))
	}
	if a.GAMeasurementID != "" {
		params := ""
		if a.Debug {
			params = ",{debug_mode:true}"
		}
		nodes = append(nodes,
			h.Script(h.Src("https://www.googletagmanager.com/gtag/js?id="+a.GAMeasurementID), g.Attr("async")),
			h.Script(g.Raw("window.dataLayer=window.dataLayer||[];function gtag(){dataLayer.push(arguments);}gtag('js',new Date());gtag('config',"+strconv.Quote(a.GAMeasurementID)+params+");")),
		)
	}
	return g.Group(nodes)
}

func gtmNoScript(id string) g.Node {
	if id == "" {
		return nil
	}
	return h.NoScript(
		h.IFrame(
			h.Src("https://www.googletagmanager.com/ns.html?id="+url.QueryEscape(id)),
			h.Height("0"), h.Width("0"),
			h.Style("display:none;visibility:hidden"),
		),
	)
}

func navbar(items []nav.RenderedItem) g.Node {
	return h.Header(h.Class("navbar"),
		h.A(h.Class("brand"), h.Href("/"), g.Text("Nexora")),
		h.Nav(g.Attr("aria-label", "Main"),
			h.Ul(h.Class("nav-links"),
				g.Group(g.Map(items, func(it nav.RenderedItem) g.Node {
					return h.Li(
						h.A(
							h.Href(it.Href),
							h.Class(classes("nav-link", activeClass(it.Active))),
							g.If(it.Active, g.Attr("aria-current", "page")),
							icon(it.Icon),
							g.Text(it.Label),
						),
					)
				})),
			),
		),
	)
}

func activeClass(active bool) string {
	if active {
		return "is-active"
	}
	return ""
}

func footer(f content.Footer, year int) g.Node {
	if year == 0 {
		year = time.Now().Year()
	}
	return h.Footer(h.Class("footer"),
		h.Div(h.Class("footer-grid"),
			h.Div(h.Class("footer-brand"),
				h.H4(g.Text(f.Brand)),
				h.P(g.Text(f.Tagline)),
				h.Div(h.Class("socials"),
					g.Group(g.Map(f.Socials, func(l content.Link) g.Node {
						return h.A(h.Href(l.Href), h.Target("_blank"), h.Rel("noopener noreferrer"), g.Attr("aria-label", l.Label), g.Text(l.Label))
					})),
				),
			),
			g.Group(g.Map(f.Columns, func(col content.LinkColumn) g.Node {
				return h.Div(h.Class("footer-column"),
					h.H4(g.Text(col.Title)),
					h.Ul(g.Group(g.Map(col.Links, func(l content.Link) g.Node {
						return h.Li(h.A(h.Href(l.Href), g.Text(l.Label)))
					}))),
				)
			})),
		),
		h.Div(h.Class("footer-bottom"),
			h.P(g.Textf("© %d %s", year, f.Copyright)),
			h.P(g.Text(f.Credit)),
		),
	)
}
