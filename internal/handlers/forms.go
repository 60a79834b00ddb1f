package handlers

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	g "maragu.dev/gomponents"

	"github.com/chhitz007/nexora-page/internal/forms"
	mw "github.com/chhitz007/nexora-page/internal/middleware"
	"github.com/chhitz007/nexora-page/internal/overlay"
	"github.com/chhitz007/nexora-page/internal/toast"
	"github.com/chhitz007/nexora-page/internal/views"
	"github.com/chhitz007/nexora-page/internal/viewstate"
)

// contactForm resolves {kind} to one of the contact page forms.
func contactForm(w http.ResponseWriter, r *http.Request) (forms.Definition, bool) {
	def, ok := forms.Lookup(chi.URLParam(r, "kind"))
	if !ok || def.Kind == forms.KindInvestor {
		mw.WriteError(w, r, http.StatusNotFound, "form not found")
		return forms.Definition{}, false
	}
	return def, true
}

func (h *Handlers) bannerData(v *viewstate.View, oob bool) views.BannerData {
	data := views.BannerData{ViewID: v.ID(), OOB: oob}
	if msg, ok := v.Banner.Current(); ok {
		data.Message = msg
		data.Visible = true
		data.RefreshIn = msg.DismissAt.Sub(h.clock.Now())
	}
	return data
}

func (h *Handlers) panelData(v *viewstate.View, st *viewstate.State) views.FormPanelData {
	data := views.FormPanelData{ViewID: v.ID()}
	if st.ActiveForm == "" {
		return data
	}
	def, ok := forms.Lookup(string(st.ActiveForm))
	if !ok {
		return data
	}
	data.Form = &views.FormData{Def: def, Values: st.FormValues(def), Invalid: st.Invalid[def.Kind]}
	return data
}

// OpenForm opens the contact form panel for {kind}.
func (h *Handlers) OpenForm(w http.ResponseWriter, r *http.Request) {
	h.panelTransition(w, r, func(st *viewstate.State, kind forms.Kind) { st.OpenForm(kind) })
}

// CloseForm closes the contact form panel for {kind}, keeping entered values.
func (h *Handlers) CloseForm(w http.ResponseWriter, r *http.Request) {
	h.panelTransition(w, r, func(st *viewstate.State, kind forms.Kind) { st.CloseForm(kind) })
}

func (h *Handlers) panelTransition(w http.ResponseWriter, r *http.Request, fn func(*viewstate.State, forms.Kind)) {
	v, ok := h.view(w, r, viewstate.KindContact)
	if !ok {
		return
	}
	def, ok := contactForm(w, r)
	if !ok {
		return
	}
	var (
		panel      views.FormPanelData
		transition overlay.Transition
	)
	v.Update(func(st *viewstate.State) {
		fn(st, def.Kind)
		panel = h.panelData(v, st)
		transition = st.Lock.Drain()
	})
	scrollLockTrigger(w, transition)
	render(w, r, http.StatusOK, views.FormPanel(panel))
}

// submitOutcome is what a submission left behind for rendering.
type submitOutcome struct {
	stored  bool
	status  int
	message toast.Message
	ttl     time.Duration
}

// submit runs the submission outside the view lock and classifies its result.
func (h *Handlers) submit(r *http.Request, def forms.Definition) (forms.Values, []string, submitOutcome, error) {
	if err := r.ParseForm(); err != nil {
		return nil, nil, submitOutcome{}, err
	}
	values := def.Parse(r.PostForm)
	_, err := h.submitter.Submit(r.Context(), def, values)

	var verr *forms.ValidationError
	switch {
	case err == nil:
		return values, nil, submitOutcome{stored: true, status: http.StatusOK}, nil
	case errors.As(err, &verr):
		invalid := make([]string, 0, len(verr.Fields))
		for _, f := range verr.Fields {
			invalid = append(invalid, f.Field)
		}
		return values, invalid, submitOutcome{
			status:  http.StatusUnprocessableEntity,
			message: toast.Error(verr.Message()),
			ttl:     h.bannerFor,
		}, nil
	default:
		// Logged by the submitter.
		return values, nil, submitOutcome{
			status:  http.StatusOK,
			message: toast.Error(forms.MessageFailed),
			ttl:     h.bannerFor,
		}, nil
	}
}

// SubmitContact stores a contact form. Success closes the panel and resets the form;
// failures keep the panel open with the entered values.
func (h *Handlers) SubmitContact(w http.ResponseWriter, r *http.Request) {
	v, ok := h.view(w, r, viewstate.KindContact)
	if !ok {
		return
	}
	def, ok := contactForm(w, r)
	if !ok {
		return
	}
	values, invalid, out, err := h.submit(r, def)
	if err != nil {
		mw.WriteError(w, r, http.StatusBadRequest, "invalid form body")
		return
	}
	succeeded := out.stored
	if succeeded {
		out.message = toast.Success(def.SuccessMessage)
		out.ttl = h.bannerFor
	}

	var (
		panel      views.FormPanelData
		transition overlay.Transition
	)
	v.Update(func(st *viewstate.State) {
		if succeeded {
			st.ResetForm(def)
			st.CloseForm(def.Kind)
		} else {
			st.KeepForm(def, values, invalid)
		}
		panel = h.panelData(v, st)
		transition = st.Lock.Drain()
	})
	v.Banner.Show(out.message, out.ttl)

	scrollLockTrigger(w, transition)
	h.renderWithBanner(w, r, out.status, v, views.FormPanel(panel))
}

// SubmitInvestor stores an investor inquiry. Success resets the form and shows the
// success state for the investor banner duration.
func (h *Handlers) SubmitInvestor(w http.ResponseWriter, r *http.Request) {
	v, ok := h.view(w, r, viewstate.KindInvestors)
	if !ok {
		return
	}
	def := forms.Investor()
	values, invalid, out, err := h.submit(r, def)
	if err != nil {
		mw.WriteError(w, r, http.StatusBadRequest, "invalid form body")
		return
	}
	succeeded := out.stored
	if succeeded {
		out.message = toast.Message{
			Level:    toast.LevelSuccess,
			Headline: def.SuccessMessage,
			Text:     h.content().Investors.SuccessText,
		}
		out.ttl = h.investorBanner
	}

	var form views.FormData
	v.Update(func(st *viewstate.State) {
		if succeeded {
			st.ResetForm(def)
		} else {
			st.KeepForm(def, values, invalid)
		}
		form = views.FormData{Def: def, Values: st.FormValues(def), Invalid: st.Invalid[def.Kind]}
	})
	v.Banner.Show(out.message, out.ttl)

	h.renderWithBanner(w, r, out.status, v, views.InvestorForm(v.ID(), form))
}

func (h *Handlers) renderWithBanner(w http.ResponseWriter, r *http.Request, status int, v *viewstate.View, main g.Node) {
	render(w, r, status, main, views.Banner(h.bannerData(v, true)))
}

// Banner returns the banner slot. htmx polls it when the current message is due to expire.
func (h *Handlers) Banner(w http.ResponseWriter, r *http.Request) {
	v, ok := h.view(w, r, viewstate.KindContact, viewstate.KindInvestors)
	if !ok {
		return
	}
	render(w, r, http.StatusOK, views.Banner(h.bannerData(v, false)))
}

// DismissBanner clears the banner when {seq} is still the message on display.
func (h *Handlers) DismissBanner(w http.ResponseWriter, r *http.Request) {
	v, ok := h.view(w, r, viewstate.KindContact, viewstate.KindInvestors)
	if !ok {
		return
	}
	seq, err := strconv.ParseUint(r.FormValue("seq"), 10, 64)
	if err != nil {
		mw.WriteError(w, r, http.StatusBadRequest, "invalid seq")
		return
	}
	v.Banner.Dismiss(seq)
	render(w, r, http.StatusOK, views.Banner(h.bannerData(v, false)))
}
