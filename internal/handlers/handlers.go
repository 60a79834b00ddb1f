// Package handlers serves the site pages and the htmx fragments that drive each
// mounted view.
package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
	g "maragu.dev/gomponents"

	"github.com/chhitz007/nexora-page/internal/clock"
	"github.com/chhitz007/nexora-page/internal/content"
	"github.com/chhitz007/nexora-page/internal/forms"
	mw "github.com/chhitz007/nexora-page/internal/middleware"
	"github.com/chhitz007/nexora-page/internal/nav"
	"github.com/chhitz007/nexora-page/internal/observability"
	"github.com/chhitz007/nexora-page/internal/overlay"
	"github.com/chhitz007/nexora-page/internal/seo"
	"github.com/chhitz007/nexora-page/internal/views"
	"github.com/chhitz007/nexora-page/internal/viewstate"
)

// SiteInfo is the public identity used in titles and structured data.
type SiteInfo struct {
	Name    string
	Title   string
	BaseURL string
	Socials []string
}

// Dependencies collects the services the handlers need.
type Dependencies struct {
	Registry               *viewstate.Registry
	Submitter              *forms.Submitter
	Site                   SiteInfo
	Analytics              views.Analytics
	BannerDuration         time.Duration
	InvestorBannerDuration time.Duration
	Clock                  clock.Clock
}

// Handlers exposes page and fragment handlers.
type Handlers struct {
	registry       *viewstate.Registry
	submitter      *forms.Submitter
	site           SiteInfo
	analytics      views.Analytics
	bannerFor      time.Duration
	investorBanner time.Duration
	clock          clock.Clock
}

// New wires the handler set.
func New(deps Dependencies) (*Handlers, error) {
	if deps.Registry == nil {
		return nil, errors.New("handlers: registry is required")
	}
	if deps.Submitter == nil {
		return nil, errors.New("handlers: submitter is required")
	}
	site := deps.Site
	if site.Name == "" {
		site.Name = "Nexora"
	}
	if site.Title == "" {
		site.Title = "Bulk Business | Global Wholesale & Procurement"
	}
	c := deps.Clock
	if c == nil {
		c = clock.Real()
	}
	bannerFor := deps.BannerDuration
	if bannerFor <= 0 {
		bannerFor = forms.ContactBannerDuration
	}
	investorBanner := deps.InvestorBannerDuration
	if investorBanner <= 0 {
		investorBanner = forms.InvestorBannerDuration
	}
	return &Handlers{
		registry:       deps.Registry,
		submitter:      deps.Submitter,
		site:           site,
		analytics:      deps.Analytics,
		bannerFor:      bannerFor,
		investorBanner: investorBanner,
		clock:          c,
	}, nil
}

func (h *Handlers) content() *content.Site { return h.registry.Site() }

func owner(r *http.Request) string {
	if sd := mw.GetSession(r); sd != nil {
		return sd.ID
	}
	return ""
}

// mount creates a view for the page being rendered.
func (h *Handlers) mount(w http.ResponseWriter, r *http.Request, kind viewstate.Kind) (*viewstate.View, bool) {
	v, err := h.registry.Mount(kind, owner(r))
	if err != nil {
		observability.FromContext(r.Context()).Error("mount view failed", zap.String("view_kind", string(kind)), zap.Error(err))
		http.Error(w, http.StatusText(http.StatusServiceUnavailable), http.StatusServiceUnavailable)
		return nil, false
	}
	return v, true
}

// view resolves the {id} route parameter to a view of the expected kind owned by the caller.
func (h *Handlers) view(w http.ResponseWriter, r *http.Request, kinds ...viewstate.Kind) (*viewstate.View, bool) {
	v, err := h.registry.Get(chi.URLParam(r, "id"), owner(r))
	if err != nil {
		mw.WriteError(w, r, http.StatusNotFound, "view not found")
		return nil, false
	}
	for _, k := range kinds {
		if v.Kind() == k {
			return v, true
		}
	}
	mw.WriteError(w, r, http.StatusNotFound, "view not found")
	return nil, false
}

func (h *Handlers) pageData(r *http.Request, path, title, description string, viewID string) views.PageData {
	meta := seo.Page(h.site.Title, h.site.BaseURL, path, title, description)
	base := h.site.BaseURL
	meta.JSONLD = append(meta.JSONLD,
		seo.JSON(seo.Organization(h.site.Name, base, base+"/assets/img/logo.svg", h.site.Socials)),
		seo.JSON(seo.WebSite(h.site.Name, base)),
	)
	if crumbs := nav.Breadcrumbs(path); len(crumbs) > 1 {
		items := make([]seo.BreadcrumbItem, 0, len(crumbs))
		for _, c := range crumbs {
			items = append(items, seo.BreadcrumbItem{Name: c.Label, Item: base + c.Href})
		}
		meta.JSONLD = append(meta.JSONLD, seo.JSON(seo.BreadcrumbList(items)))
	}
	return views.PageData{
		Meta:      meta,
		Path:      path,
		Nav:       nav.Build(path),
		Site:      h.content(),
		CSRFToken: mw.CSRFToken(r.Context()),
		ViewID:    viewID,
		Analytics: h.analytics,
		Year:      h.clock.Now().Year(),
	}
}

// scrollLockTrigger tells the browser to lock or unlock page scroll when a transition
// happened during the request.
func scrollLockTrigger(w http.ResponseWriter, t overlay.Transition) {
	if t == overlay.TransitionNone {
		return
	}
	payload, _ := json.Marshal(map[string]any{
		"scroll-lock": map[string]bool{"locked": t == overlay.TransitionEngaged},
	})
	w.Header().Set("HX-Trigger", string(payload))
}

func render(w http.ResponseWriter, r *http.Request, status int, nodes ...g.Node) {
	views.Render(w, r, status, nodes...)
}

// NotFound renders the 404 page.
func (h *Handlers) NotFound(w http.ResponseWriter, r *http.Request) {
	if mw.IsHTMX(r.Context()) {
		mw.WriteError(w, r, http.StatusNotFound, http.StatusText(http.StatusNotFound))
		return
	}
	render(w, r, http.StatusNotFound, views.NotFoundPage(h.pageData(r, r.URL.Path, "Not Found", "", "")))
}

// Unmount stops the view. It is the target of the page-hide beacon.
func (h *Handlers) Unmount(w http.ResponseWriter, r *http.Request) {
	if !h.registry.Unmount(chi.URLParam(r, "id"), owner(r)) {
		w.WriteHeader(http.StatusNotFound)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
