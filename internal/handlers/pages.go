package handlers

import (
	"net/http"

	"github.com/chhitz007/nexora-page/internal/forms"
	"github.com/chhitz007/nexora-page/internal/views"
	"github.com/chhitz007/nexora-page/internal/viewstate"
)

// Home renders the landing page and starts its carousel.
func (h *Handlers) Home(w http.ResponseWriter, r *http.Request) {
	v, ok := h.mount(w, r, viewstate.KindHome)
	if !ok {
		return
	}
	data := views.HomeData{
		Page:     h.pageData(r, "/", "", h.content().Hero.Tagline, v.ID()),
		Carousel: h.carouselData(v),
		Overlay:  views.OverlayData{ViewID: v.ID()},
	}
	render(w, r, http.StatusOK, views.HomePage(data))
}

// Community renders the teaser page. It has no interactive state.
func (h *Handlers) Community(w http.ResponseWriter, r *http.Request) {
	c := h.content().Community
	render(w, r, http.StatusOK, views.CommunityPage(h.pageData(r, "/community", "Community", c.Subtitle, "")))
}

// Contact renders the contact paths.
func (h *Handlers) Contact(w http.ResponseWriter, r *http.Request) {
	v, ok := h.mount(w, r, viewstate.KindContact)
	if !ok {
		return
	}
	c := h.content().Contact
	data := views.ContactData{
		Page:   h.pageData(r, "/contact", "Contact", c.Subtitle, v.ID()),
		Forms:  forms.ContactDefinitions(),
		Panel:  views.FormPanelData{ViewID: v.ID()},
		Banner: views.BannerData{ViewID: v.ID()},
	}
	render(w, r, http.StatusOK, views.ContactPage(data))
}

// Investors renders the investor page with a fresh inquiry form.
func (h *Handlers) Investors(w http.ResponseWriter, r *http.Request) {
	v, ok := h.mount(w, r, viewstate.KindInvestors)
	if !ok {
		return
	}
	def := forms.Investor()
	inv := h.content().Investors
	data := views.InvestorsData{
		Page:   h.pageData(r, "/investors", "Investors", inv.Subtitle, v.ID()),
		Form:   views.FormData{Def: def, Values: def.Initial()},
		Banner: views.BannerData{ViewID: v.ID()},
	}
	render(w, r, http.StatusOK, views.InvestorsPage(data))
}
