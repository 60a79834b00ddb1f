package views

import (
	"bytes"
	"context"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/stretchr/testify/require"
	g "maragu.dev/gomponents"

	"github.com/chhitz007/nexora-page/internal/content"
	"github.com/chhitz007/nexora-page/internal/forms"
	"github.com/chhitz007/nexora-page/internal/nav"
	"github.com/chhitz007/nexora-page/internal/overlay"
	"github.com/chhitz007/nexora-page/internal/seo"
	"github.com/chhitz007/nexora-page/internal/toast"
)

func render(t *testing.T, n g.Node) *goquery.Document {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, Component(n).Render(context.Background(), &buf))
	doc, err := goquery.NewDocumentFromReader(&buf)
	require.NoError(t, err)
	return doc
}

func pageData(path string) PageData {
	return PageData{
		Meta:      seo.Page("Bulk Business | Global Wholesale & Procurement", "https://nexora.example", path, "", "desc"),
		Path:      path,
		Nav:       nav.Build(path),
		Site:      content.MustLoad(),
		CSRFToken: "tok",
		ViewID:    "v1",
		Year:      2026,
	}
}

func TestLayoutCarriesCSRFAndActiveNav(t *testing.T) {
	t.Parallel()

	p := pageData("/community")
	p.Meta.JSONLD = []string{seo.JSON(seo.WebSite("Nexora", "https://nexora.example"))}
	doc := render(t, CommunityPage(p))

	require.Equal(t, "Bulk Business | Global Wholesale & Procurement", doc.Find("title").Text())
	headers, _ := doc.Find("body").Attr("hx-headers")
	require.Equal(t, `{"X-CSRF-Token":"tok"}`, headers)
	unmount, _ := doc.Find("body").Attr("data-unmount-url")
	require.Equal(t, "/views/v1/unmount", unmount)
	require.Equal(t, "Community", strings.TrimSpace(doc.Find(`a[aria-current="page"]`).Text()))
	require.Equal(t, 1, doc.Find(`script[type="application/ld+json"]`).Length())
	require.Contains(t, doc.Find("footer").Text(), "2026")
}

func TestLayoutAnalyticsTags(t *testing.T) {
	t.Parallel()

	doc := render(t, CommunityPage(pageData("/community")))
	require.Zero(t, doc.Find("noscript").Length())
	require.NotContains(t, doc.Find("head").Text(), "dataLayer")

	p := pageData("/community")
	p.Analytics = Analytics{GAMeasurementID: "G-TEST", GTMContainerID: "GTM-ABC123", Debug: true}
	doc = render(t, CommunityPage(p))

	inline := doc.Find("head script:not([src])").Text()
	require.Contains(t, inline, `gtm.js?id='+i+dl`)
	require.Contains(t, inline, `"GTM-ABC123"`)
	require.Contains(t, inline, `gtag('config',"G-TEST",{debug_mode:true})`)
	require.Equal(t, 1, doc.Find(`head script[src="https://www.googletagmanager.com/gtag/js?id=G-TEST"]`).Length())
	require.Contains(t, doc.Find("body > noscript").Text(), "ns.html?id=GTM-ABC123")

	p.Analytics = Analytics{GAMeasurementID: "G-TEST"}
	doc = render(t, CommunityPage(p))
	inline = doc.Find("head script:not([src])").Text()
	require.Contains(t, inline, `gtag('config',"G-TEST");`)
	require.NotContains(t, inline, "debug_mode")
	require.NotContains(t, inline, "gtm.js")
}

func TestCarouselPadsLastPage(t *testing.T) {
	t.Parallel()

	site := content.MustLoad()
	doc := render(t, Carousel(CarouselData{
		ViewID:    "v1",
		Founders:  site.Founders,
		PageSize:  3,
		Current:   1,
		RefreshIn: 1500 * time.Millisecond,
	}))

	root := doc.Find("#founders-carousel")
	trigger, _ := root.Attr("hx-trigger")
	require.Equal(t, "load delay:1500ms", trigger)
	require.Equal(t, 2, root.Find(".founder-card[data-founder]").Length())
	require.Equal(t, 1, root.Find(".founder-card.placeholder").Length())
	require.Equal(t, 2, root.Find(".carousel-dot").Length())
	vals, _ := root.Find(".carousel-dot").Eq(0).Attr("hx-vals")
	require.Equal(t, `{"page":"0"}`, vals)
	require.Contains(t, root.Find(".founder-card button").First().Text(), "Note from ")
}

func TestCarouselWithoutRefreshDoesNotPoll(t *testing.T) {
	t.Parallel()

	doc := render(t, Carousel(CarouselData{ViewID: "v1", Founders: content.MustLoad().Founders[:2]}))
	_, ok := doc.Find("#founders-carousel").Attr("hx-trigger")
	require.False(t, ok)
	require.Zero(t, doc.Find(".carousel-dot").Length())
}

func TestOverlayFounderHasNavigationAndStopsPropagation(t *testing.T) {
	t.Parallel()

	site := content.MustLoad()
	coord := overlay.NewCoordinator(site.Founders, nil)
	require.NoError(t, coord.OpenFounder(0))

	doc := render(t, Overlay(OverlayData{ViewID: "v1", Active: coord.Active(), BodyHTML: "<p>hello</p>", Founders: site.Founders}))
	slot := doc.Find("#overlay")
	kind, _ := slot.Attr("data-overlay")
	require.Equal(t, "founder", kind)
	closeURL, _ := slot.Find(".overlay-backdrop").Attr("hx-post")
	require.Equal(t, "/views/v1/overlay/founder/close", closeURL)
	stop, _ := slot.Find(".overlay-content").Attr("hx-on:click")
	require.Equal(t, "event.stopPropagation()", stop)
	require.Equal(t, 1, slot.Find(".founder-next").Length())
	require.Equal(t, "hello", slot.Find(".prose p").Text())

	last := site.Founders[len(site.Founders)-1]
	require.Equal(t, "Note from "+last.FirstName(), slot.Find(".founder-prev").Text())
	require.Equal(t, "Note from "+site.Founders[1].FirstName(), slot.Find(".founder-next").Text())
	label, _ := slot.Find(".founder-next").Attr("aria-label")
	require.Equal(t, "Note from "+site.Founders[1].FirstName(), label)

	solo := overlay.NewCoordinator(site.Founders[:1], nil)
	require.NoError(t, solo.OpenFounder(0))
	doc = render(t, Overlay(OverlayData{ViewID: "v1", Active: solo.Active(), Founders: site.Founders[:1]}))
	require.Zero(t, doc.Find(".founder-nav").Length())
}

func TestOverlayEmptySlot(t *testing.T) {
	t.Parallel()

	doc := render(t, Overlay(OverlayData{ViewID: "v1"}))
	require.Equal(t, 1, doc.Find("#overlay").Length())
	require.Zero(t, doc.Find(".overlay-backdrop").Length())
}

func TestFormPanelPreservesValuesAndMarksInvalid(t *testing.T) {
	t.Parallel()

	def, ok := forms.Lookup("partnership")
	require.True(t, ok)
	values := def.Initial()
	values["fullName"] = "Jane Doe"
	values["message"] = "Hi"

	doc := render(t, FormPanel(FormPanelData{ViewID: "v1", Form: &FormData{Def: def, Values: values, Invalid: []string{"partnershipType"}}}))
	form := doc.Find("#form-panel form")
	action, _ := form.Attr("hx-post")
	require.Equal(t, "/views/v1/forms/partnership", action)
	name, _ := form.Find(`input[name="fullName"]`).Attr("value")
	require.Equal(t, "Jane Doe", name)
	require.Equal(t, "Hi", form.Find(`textarea[name="message"]`).Text())
	invalid, _ := form.Find(`select[name="partnershipType"]`).Attr("aria-invalid")
	require.Equal(t, "true", invalid)
}

func TestInvestorFormDefaults(t *testing.T) {
	t.Parallel()

	def := forms.Investor()
	doc := render(t, InvestorForm("v1", FormData{Def: def, Values: def.Initial()}))
	selected, _ := doc.Find(`select[name="interest"] option[selected]`).Attr("value")
	require.Equal(t, "VC", selected)
	require.Equal(t, 1, doc.Find(`input[type="checkbox"][name="representsFirm"]`).Length())
}

func TestBannerRendersAndPolls(t *testing.T) {
	t.Parallel()

	msg := toast.Success("Your message has been sent successfully.")
	msg.Seq = 7
	doc := render(t, Banner(BannerData{ViewID: "v1", Message: msg, Visible: true, RefreshIn: 4 * time.Second, OOB: true}))
	slot := doc.Find("#banner")
	require.Equal(t, toast.SuccessHeadline, slot.Find("strong").Text())
	trigger, _ := slot.Attr("hx-trigger")
	require.Equal(t, "load delay:4000ms", trigger)
	oob, _ := slot.Attr("hx-swap-oob")
	require.Equal(t, "true", oob)
	vals, _ := slot.Find(".banner-dismiss").Attr("hx-vals")
	require.Equal(t, `{"seq":"7"}`, vals)
}

func TestRenderSetsStatus(t *testing.T) {
	t.Parallel()

	rec := httptest.NewRecorder()
	Render(rec, httptest.NewRequest("GET", "/", nil), 422, Banner(BannerData{ViewID: "v1"}))
	require.Equal(t, 422, rec.Code)
	require.Contains(t, rec.Body.String(), `id="banner"`)
}

func TestHomeHeroHighlightsWord(t *testing.T) {
	t.Parallel()

	p := pageData("/")
	doc := render(t, HomePage(HomeData{
		Page:     p,
		Carousel: CarouselData{ViewID: "v1", Founders: p.Site.Founders, PageSize: 3},
		Overlay:  OverlayData{ViewID: "v1"},
	}))
	require.Equal(t, "The Future Begins with Nexora.", doc.Find(".hero-headline").Text())
	require.Equal(t, "Nexora", doc.Find(".hero-headline .highlight").Text())
	require.Equal(t, len(p.Site.Pillars), doc.Find(".pillar-card").Length())
	open, _ := doc.Find(".pillar-card").First().Attr("hx-post")
	require.Equal(t, "/views/v1/pillars/0/open", open)
	require.Equal(t, 1, doc.Find("#overlay").Length())
}
