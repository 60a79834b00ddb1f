package handlers

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/chhitz007/nexora-page/internal/carousel"
	"github.com/chhitz007/nexora-page/internal/content"
	mw "github.com/chhitz007/nexora-page/internal/middleware"
	"github.com/chhitz007/nexora-page/internal/observability"
	"github.com/chhitz007/nexora-page/internal/overlay"
	"github.com/chhitz007/nexora-page/internal/views"
	"github.com/chhitz007/nexora-page/internal/viewstate"
)

// refreshSlack delays the carousel poll slightly past the tick so the fetch sees the new page.
const refreshSlack = 50 * time.Millisecond

func (h *Handlers) carouselData(v *viewstate.View) views.CarouselData {
	rot := v.Carousel
	data := views.CarouselData{
		ViewID:   v.ID(),
		Founders: h.content().Founders,
		PageSize: h.registry.PageSize(),
		Current:  rot.Current(),
	}
	if due := rot.NextTickAt(); !due.IsZero() {
		data.RefreshIn = due.Sub(h.clock.Now()) + refreshSlack
	}
	return data
}

// Carousel returns the founders carousel fragment.
func (h *Handlers) Carousel(w http.ResponseWriter, r *http.Request) {
	v, ok := h.view(w, r, viewstate.KindHome)
	if !ok {
		return
	}
	render(w, r, http.StatusOK, views.Carousel(h.carouselData(v)))
}

// SelectPage jumps the carousel to the posted page and restarts the countdown.
func (h *Handlers) SelectPage(w http.ResponseWriter, r *http.Request) {
	v, ok := h.view(w, r, viewstate.KindHome)
	if !ok {
		return
	}
	page, err := strconv.Atoi(r.FormValue("page"))
	if err != nil {
		mw.WriteError(w, r, http.StatusBadRequest, "invalid page")
		return
	}
	if err := v.Carousel.Select(page); err != nil {
		if errors.Is(err, carousel.ErrPageOutOfRange) {
			mw.WriteError(w, r, http.StatusBadRequest, "page out of range")
			return
		}
		observability.FromContext(r.Context()).Error("carousel select failed", zap.Error(err))
		mw.WriteError(w, r, http.StatusInternalServerError, http.StatusText(http.StatusInternalServerError))
		return
	}
	render(w, r, http.StatusOK, views.Carousel(h.carouselData(v)))
}

// overlayResponse applies fn to the view state and renders the overlay slot.
func (h *Handlers) overlayResponse(w http.ResponseWriter, r *http.Request, v *viewstate.View, fn func(*overlay.Coordinator) error) {
	var (
		active     overlay.Active
		transition overlay.Transition
		err        error
	)
	v.Update(func(st *viewstate.State) {
		err = fn(st.Overlay)
		active = st.Overlay.Active()
		transition = st.Lock.Drain()
	})
	if err != nil {
		mw.WriteError(w, r, http.StatusBadRequest, err.Error())
		return
	}

	data := views.OverlayData{ViewID: v.ID(), Active: active, Founders: h.content().Founders}
	var src string
	switch active.Kind() {
	case overlay.KindVisionMission:
		p, _ := active.Panel()
		src = p.FullContent
	case overlay.KindFounder:
		f, _, _ := active.Founder()
		src = f.NoteContent
	}
	if src != "" {
		html, err := content.RenderMarkdown(src)
		if err != nil {
			observability.FromContext(r.Context()).Warn("render overlay markdown failed", zap.Error(err))
		}
		data.BodyHTML = html
	}
	scrollLockTrigger(w, transition)
	render(w, r, http.StatusOK, views.Overlay(data))
}

// OpenPillar opens the pillar overlay at {index}.
func (h *Handlers) OpenPillar(w http.ResponseWriter, r *http.Request) {
	v, ok := h.view(w, r, viewstate.KindHome)
	if !ok {
		return
	}
	idx, err := strconv.Atoi(chi.URLParam(r, "index"))
	if err != nil {
		mw.WriteError(w, r, http.StatusBadRequest, "invalid pillar index")
		return
	}
	p, ok := h.content().Pillar(idx)
	if !ok {
		mw.WriteError(w, r, http.StatusBadRequest, "pillar index out of range")
		return
	}
	h.overlayResponse(w, r, v, func(c *overlay.Coordinator) error {
		c.OpenPillar(idx, p)
		return nil
	})
}

// OpenVision opens the vision or mission overlay.
func (h *Handlers) OpenVision(w http.ResponseWriter, r *http.Request) {
	v, ok := h.view(w, r, viewstate.KindHome)
	if !ok {
		return
	}
	kind, ok := content.ParsePanelKind(chi.URLParam(r, "kind"))
	if !ok {
		mw.WriteError(w, r, http.StatusBadRequest, "unknown panel")
		return
	}
	p, ok := h.content().Panel(kind)
	if !ok {
		mw.WriteError(w, r, http.StatusNotFound, "panel not found")
		return
	}
	h.overlayResponse(w, r, v, func(c *overlay.Coordinator) error {
		c.OpenVisionMission(p)
		return nil
	})
}

// OpenFounder opens the note of the founder with {founderID}.
func (h *Handlers) OpenFounder(w http.ResponseWriter, r *http.Request) {
	v, ok := h.view(w, r, viewstate.KindHome)
	if !ok {
		return
	}
	id, err := strconv.Atoi(chi.URLParam(r, "founderID"))
	if err != nil {
		mw.WriteError(w, r, http.StatusBadRequest, "invalid founder id")
		return
	}
	idx, ok := h.content().FounderIndex(id)
	if !ok {
		mw.WriteError(w, r, http.StatusNotFound, "founder not found")
		return
	}
	h.overlayResponse(w, r, v, func(c *overlay.Coordinator) error {
		return c.OpenFounder(idx)
	})
}

// NextFounder steps the founder overlay forward. It is a no-op when no founder is open.
func (h *Handlers) NextFounder(w http.ResponseWriter, r *http.Request) {
	h.stepFounder(w, r, (*overlay.Coordinator).NextFounder)
}

// PrevFounder steps the founder overlay back.
func (h *Handlers) PrevFounder(w http.ResponseWriter, r *http.Request) {
	h.stepFounder(w, r, (*overlay.Coordinator).PrevFounder)
}

func (h *Handlers) stepFounder(w http.ResponseWriter, r *http.Request, step func(*overlay.Coordinator) (content.Founder, bool)) {
	v, ok := h.view(w, r, viewstate.KindHome)
	if !ok {
		return
	}
	h.overlayResponse(w, r, v, func(c *overlay.Coordinator) error {
		step(c)
		return nil
	})
}

// CloseOverlay closes the overlay of {kind}. Closing a kind that is not open changes nothing.
func (h *Handlers) CloseOverlay(w http.ResponseWriter, r *http.Request) {
	v, ok := h.view(w, r, viewstate.KindHome)
	if !ok {
		return
	}
	kind, ok := overlay.ParseKind(chi.URLParam(r, "kind"))
	if !ok {
		mw.WriteError(w, r, http.StatusBadRequest, "unknown overlay")
		return
	}
	h.overlayResponse(w, r, v, func(c *overlay.Coordinator) error {
		c.Close(kind)
		return nil
	})
}
