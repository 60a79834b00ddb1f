package views

import (
	"strconv"
	"time"

	g "maragu.dev/gomponents"
	h "maragu.dev/gomponents/html"

	"github.com/chhitz007/nexora-page/internal/toast"
)

// BannerData is the status banner slot. Message is ignored when Visible is false.
type BannerData struct {
	ViewID    string
	Message   toast.Message
	Visible   bool
	RefreshIn time.Duration
	// OOB marks the fragment for an out-of-band swap alongside another response.
	OOB bool
}

// Banner renders the banner slot, polling once its dismissal is due.
func Banner(d BannerData) g.Node {
	attrs := []g.Node{h.ID("banner"), h.Class("banner-slot"), g.Attr("aria-live", "polite")}
	if d.OOB {
		attrs = append(attrs, g.Attr("hx-swap-oob", "true"))
	}
	if !d.Visible {
		return h.Div(g.Group(attrs))
	}
	m := d.Message
	attrs = append(attrs,
		g.Attr("data-level", string(m.Level)),
		g.Attr("data-seq", strconv.FormatUint(m.Seq, 10)),
		g.Attr("hx-get", ViewURL(d.ViewID, "banner")),
		g.Attr("hx-trigger", refreshTrigger(d.RefreshIn)),
		g.Attr("hx-swap", "outerHTML"),
	)
	return h.Div(g.Group(attrs),
		h.Div(h.Class("banner banner-"+string(m.Level)), h.Role("status"),
			icon(bannerIcon(m.Level)),
			h.Div(h.Class("banner-body"),
				h.Strong(g.Text(m.Headline)),
				h.P(g.Text(m.Text)),
			),
			h.Button(
				h.Type("button"),
				h.Class("banner-dismiss"),
				g.Attr("aria-label", "Dismiss"),
				g.Attr("hx-post", ViewURL(d.ViewID, "banner", "dismiss")),
				g.Attr("hx-vals", hxVals("seq", strconv.FormatUint(m.Seq, 10))),
				g.Attr("hx-target", "#banner"),
				g.Attr("hx-swap", "outerHTML"),
				g.Text("×"),
			),
		),
	)
}

func bannerIcon(l toast.Level) string {
	if l == toast.LevelError {
		return "alert-triangle"
	}
	return "check-circle"
}

func itoa(n int) string { return strconv.Itoa(n) }
