package handlers_test

import (
	"errors"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	pfirestore "github.com/chhitz007/nexora-page/internal/firestore"
	"github.com/chhitz007/nexora-page/internal/testutil"
)

func mountPage(t *testing.T, env *testutil.Env, path string) (string, *goquery.Document) {
	t.Helper()
	res := env.Get(t, path, false)
	require.Equal(t, http.StatusOK, res.StatusCode)
	doc := testutil.ParseHTML(t, res.Body)
	id, ok := doc.Find("body").Attr("data-view-id")
	require.True(t, ok)
	require.NotEmpty(t, id)
	return id, doc
}

func TestHealthz(t *testing.T) {
	t.Parallel()
	env := testutil.NewServer(t)

	res := env.Get(t, "/healthz", false)
	require.Equal(t, http.StatusOK, res.StatusCode)
	require.Equal(t, "ok", string(res.Body))
}

func TestAssetsCarryETag(t *testing.T) {
	t.Parallel()
	env := testutil.NewServer(t)

	res := env.Get(t, "/assets/css/site.css", false)
	require.Equal(t, http.StatusOK, res.StatusCode)
	require.NotEmpty(t, res.Header.Get("ETag"))
	require.Contains(t, res.Header.Get("Cache-Control"), "max-age")
}

func TestHomeMountsViewWithCarousel(t *testing.T) {
	t.Parallel()
	env := testutil.NewServer(t)

	_, doc := mountPage(t, env, "/")
	require.Equal(t, 1, env.Registry.Len())
	require.Equal(t, "Bulk Business | Global Wholesale & Procurement", doc.Find("title").Text())
	require.Equal(t, 1, doc.Find("#founders-carousel").Length())
	page, _ := doc.Find("#founders-carousel").Attr("data-page")
	require.Equal(t, "0", page)
	require.NotEmpty(t, env.CSRFToken(t))
}

func TestCarouselFragmentFollowsClock(t *testing.T) {
	t.Parallel()
	env := testutil.NewServer(t)
	id, _ := mountPage(t, env, "/")

	direct := env.Get(t, "/views/"+id+"/carousel", false)
	require.Equal(t, http.StatusNotFound, direct.StatusCode)

	env.Clock.Advance(6 * time.Second)
	res := env.Get(t, "/views/"+id+"/carousel", true)
	require.Equal(t, http.StatusOK, res.StatusCode)
	page, _ := testutil.ParseHTML(t, res.Body).Find("#founders-carousel").Attr("data-page")
	require.Equal(t, "1", page)
}

func TestSelectPage(t *testing.T) {
	t.Parallel()
	env := testutil.NewServer(t)
	id, _ := mountPage(t, env, "/")

	res := env.Post(t, "/views/"+id+"/carousel/select", url.Values{"page": {"1"}})
	require.Equal(t, http.StatusOK, res.StatusCode)
	page, _ := testutil.ParseHTML(t, res.Body).Find("#founders-carousel").Attr("data-page")
	require.Equal(t, "1", page)

	bad := env.Post(t, "/views/"+id+"/carousel/select", url.Values{"page": {"9"}})
	require.Equal(t, http.StatusBadRequest, bad.StatusCode)

	// the countdown restarted at the select, so one interval later the page wraps
	env.Clock.Advance(6 * time.Second)
	res = env.Get(t, "/views/"+id+"/carousel", true)
	page, _ = testutil.ParseHTML(t, res.Body).Find("#founders-carousel").Attr("data-page")
	require.Equal(t, "0", page)
}

func TestOverlayLifecycleSignalsScrollLock(t *testing.T) {
	t.Parallel()
	env := testutil.NewServer(t)
	id, _ := mountPage(t, env, "/")
	base := "/views/" + id

	res := env.Post(t, base+"/pillars/0/open", nil)
	require.Equal(t, http.StatusOK, res.StatusCode)
	require.JSONEq(t, `{"scroll-lock":{"locked":true}}`, res.Header.Get("HX-Trigger"))
	kind, _ := testutil.ParseHTML(t, res.Body).Find("#overlay").Attr("data-overlay")
	require.Equal(t, "pillar", kind)

	// switching overlays keeps the lock engaged
	res = env.Post(t, base+"/founders/1/open", nil)
	require.Equal(t, http.StatusOK, res.StatusCode)
	require.Empty(t, res.Header.Get("HX-Trigger"))
	doc := testutil.ParseHTML(t, res.Body)
	founder, _ := doc.Find(".founder-detail").Attr("data-founder")
	require.Equal(t, "1", founder)
	require.NotEmpty(t, strings.TrimSpace(doc.Find(".founder-detail .prose").Text()))
	require.Equal(t, "Note from Piyush", doc.Find(".founder-prev").Text())
	require.Equal(t, "Note from Chhitiz", doc.Find(".founder-next").Text())

	res = env.Post(t, base+"/founders/prev", nil)
	founder, _ = testutil.ParseHTML(t, res.Body).Find(".founder-detail").Attr("data-founder")
	require.Equal(t, "5", founder)

	// closing a kind that is not open is a no-op
	res = env.Post(t, base+"/overlay/pillar/close", nil)
	require.Empty(t, res.Header.Get("HX-Trigger"))
	require.Equal(t, 1, testutil.ParseHTML(t, res.Body).Find(".founder-detail").Length())

	res = env.Post(t, base+"/overlay/founder/close", nil)
	require.JSONEq(t, `{"scroll-lock":{"locked":false}}`, res.Header.Get("HX-Trigger"))
	require.Zero(t, testutil.ParseHTML(t, res.Body).Find(".overlay-backdrop").Length())
}

func TestFounderNavigationLeavesCarouselRunning(t *testing.T) {
	t.Parallel()
	env := testutil.NewServer(t)
	id, _ := mountPage(t, env, "/")
	base := "/views/" + id

	carouselPage := func() string {
		t.Helper()
		res := env.Get(t, base+"/carousel", true)
		require.Equal(t, http.StatusOK, res.StatusCode)
		page, _ := testutil.ParseHTML(t, res.Body).Find("#founders-carousel").Attr("data-page")
		return page
	}
	openFounder := func(path string) string {
		t.Helper()
		res := env.Post(t, path, nil)
		require.Equal(t, http.StatusOK, res.StatusCode)
		founder, _ := testutil.ParseHTML(t, res.Body).Find(".founder-detail").Attr("data-founder")
		return founder
	}

	require.Equal(t, "1", openFounder(base+"/founders/1/open"))

	env.Clock.Advance(3 * time.Second)
	require.Equal(t, "2", openFounder(base+"/founders/next"))
	require.Equal(t, "0", carouselPage())

	// a full interval since mount: stepping founders did not restart the countdown
	env.Clock.Advance(3 * time.Second)
	require.Equal(t, "1", carouselPage())

	env.Clock.Advance(6 * time.Second)
	require.Equal(t, "0", carouselPage())
	require.Equal(t, "3", openFounder(base+"/founders/next"))
	require.Equal(t, "2", openFounder(base+"/founders/prev"))
	require.Equal(t, "0", carouselPage())
}

func TestOverlayRejectsBadInput(t *testing.T) {
	t.Parallel()
	env := testutil.NewServer(t)
	id, _ := mountPage(t, env, "/")
	base := "/views/" + id

	require.Equal(t, http.StatusBadRequest, env.Post(t, base+"/pillars/7/open", nil).StatusCode)
	require.Equal(t, http.StatusBadRequest, env.Post(t, base+"/vision/values/open", nil).StatusCode)
	require.Equal(t, http.StatusNotFound, env.Post(t, base+"/founders/42/open", nil).StatusCode)
	require.Equal(t, http.StatusBadRequest, env.Post(t, base+"/overlay/modal/close", nil).StatusCode)
}

func TestVisionOverlayRendersParagraphs(t *testing.T) {
	t.Parallel()
	env := testutil.NewServer(t)
	id, _ := mountPage(t, env, "/")

	res := env.Post(t, "/views/"+id+"/vision/mission/open", nil)
	require.Equal(t, http.StatusOK, res.StatusCode)
	doc := testutil.ParseHTML(t, res.Body)
	require.Greater(t, doc.Find(".panel-detail .prose p").Length(), 1)
}

func TestViewsAreScopedToSession(t *testing.T) {
	t.Parallel()
	env := testutil.NewServer(t)
	id, _ := mountPage(t, env, "/")

	// a second client on the same server has its own session
	jar, err := cookiejar.New(nil)
	require.NoError(t, err)
	stranger := *env
	stranger.Client = &http.Client{Jar: jar}
	mountPage(t, &stranger, "/")
	res := stranger.Get(t, "/views/"+id+"/carousel", true)
	require.Equal(t, http.StatusNotFound, res.StatusCode)
}

func TestPostWithoutCSRFIsRejected(t *testing.T) {
	t.Parallel()
	env := testutil.NewServer(t)
	id, _ := mountPage(t, env, "/")

	req, err := http.NewRequest(http.MethodPost, env.Server.URL+"/views/"+id+"/pillars/0/open", nil)
	require.NoError(t, err)
	req.Header.Set("HX-Request", "true")
	resp, err := env.Client.Do(req)
	require.NoError(t, err)
	resp.Body.Close()
	require.Equal(t, http.StatusForbidden, resp.StatusCode)
}

func TestUnmountStopsView(t *testing.T) {
	t.Parallel()
	env := testutil.NewServer(t)
	id, _ := mountPage(t, env, "/")

	res := env.Post(t, "/views/"+id+"/unmount", url.Values{"_csrf": {env.CSRFToken(t)}})
	require.Equal(t, http.StatusNoContent, res.StatusCode)
	require.Zero(t, env.Registry.Len())
	require.Equal(t, http.StatusNotFound, env.Get(t, "/views/"+id+"/carousel", true).StatusCode)
}

func TestWaitlistSubmissionEndToEnd(t *testing.T) {
	t.Parallel()
	env := testutil.NewServer(t)
	id, doc := mountPage(t, env, "/contact")
	require.Equal(t, 5, doc.Find(".path-card").Length())
	base := "/views/" + id

	res := env.Post(t, base+"/forms/waitlist/open", nil)
	require.Equal(t, http.StatusOK, res.StatusCode)
	require.JSONEq(t, `{"scroll-lock":{"locked":true}}`, res.Header.Get("HX-Trigger"))
	panel := testutil.ParseHTML(t, res.Body)
	checked, _ := panel.Find(`input[name="userType"][checked]`).Attr("value")
	require.Equal(t, "Business", checked)

	res = env.Post(t, base+"/forms/waitlist", url.Values{
		"fullName": {"Jane Doe"},
		"email":    {"jane@example.com"},
		"userType": {"Individual"},
		"city":     {"Mumbai"},
	})
	require.Equal(t, http.StatusOK, res.StatusCode)
	require.JSONEq(t, `{"scroll-lock":{"locked":false}}`, res.Header.Get("HX-Trigger"))

	doc = testutil.ParseHTML(t, res.Body)
	require.Zero(t, doc.Find("#form-panel form").Length())
	banner := doc.Find("#banner")
	require.Equal(t, "Transmission Complete", banner.Find("strong").Text())
	require.Equal(t, "You've been added to the waitlist successfully.", banner.Find(".banner-body p").Text())

	records := env.Store.Records("contact_waitlist")
	require.Len(t, records, 1)
	fields := records[0].Fields
	require.Equal(t, "Jane Doe", fields["fullName"])
	require.Equal(t, "Individual", fields["userType"])
	require.Equal(t, "Mumbai", fields["city"])
	require.Equal(t, env.Clock.Now(), fields[pfirestore.CreatedAtField])

	env.Clock.Advance(4 * time.Second)
	res = env.Get(t, base+"/banner", true)
	require.Zero(t, testutil.ParseHTML(t, res.Body).Find(".banner").Length())
}

func TestPartnershipValidationKeepsValues(t *testing.T) {
	t.Parallel()
	env := testutil.NewServer(t)
	id, _ := mountPage(t, env, "/contact")
	base := "/views/" + id

	env.Post(t, base+"/forms/partnership/open", nil)
	res := env.Post(t, base+"/forms/partnership", url.Values{
		"fullName": {"Jane Doe"},
		"email":    {"jane@example.com"},
		"message":  {"Let us build together."},
	})
	require.Equal(t, http.StatusUnprocessableEntity, res.StatusCode)
	require.Zero(t, env.Store.Len())

	doc := testutil.ParseHTML(t, res.Body)
	name, _ := doc.Find(`#form-panel input[name="fullName"]`).Attr("value")
	require.Equal(t, "Jane Doe", name)
	email, _ := doc.Find(`#form-panel input[name="email"]`).Attr("value")
	require.Equal(t, "jane@example.com", email)
	require.Equal(t, "Let us build together.", doc.Find(`#form-panel textarea[name="message"]`).Text())
	invalid, _ := doc.Find(`select[name="partnershipType"]`).Attr("aria-invalid")
	require.Equal(t, "true", invalid)
	require.Equal(t, "Error Detected", doc.Find("#banner strong").Text())
	require.Equal(t, "Please complete all required fields.", doc.Find("#banner .banner-body p").Text())
}

func TestInvalidUTF8IsRejectedBeforeStore(t *testing.T) {
	t.Parallel()
	env := testutil.NewServer(t)
	id, _ := mountPage(t, env, "/contact")
	base := "/views/" + id

	env.Post(t, base+"/forms/waitlist/open", nil)
	res := env.Post(t, base+"/forms/waitlist", url.Values{
		"fullName": {"Jane Doe"},
		"email":    {"jane@example.com"},
		"userType": {"Business"},
		"city":     {"M\xffumbai"},
	})
	require.Equal(t, http.StatusUnprocessableEntity, res.StatusCode)
	doc := testutil.ParseHTML(t, res.Body)
	invalid, _ := doc.Find(`#form-panel input[name="city"]`).Attr("aria-invalid")
	require.Equal(t, "true", invalid)
	require.Zero(t, env.Store.Len())
}

func TestStoreFailureShowsGenericError(t *testing.T) {
	t.Parallel()
	core, logs := observer.New(zapcore.InfoLevel)
	env := testutil.NewServer(t, testutil.WithLogger(zap.New(core)))
	env.Store.FailWith(errors.New("disk full"))
	id, _ := mountPage(t, env, "/contact")
	base := "/views/" + id

	env.Post(t, base+"/forms/general/open", nil)
	res := env.Post(t, base+"/forms/general", url.Values{
		"fullName": {"Jane Doe"},
		"email":    {"jane@example.com"},
		"category": {"Support"},
		"message":  {"Help"},
	})
	require.Equal(t, http.StatusOK, res.StatusCode)
	doc := testutil.ParseHTML(t, res.Body)
	require.Equal(t, "Something went wrong. Please try again.", doc.Find("#banner .banner-body p").Text())
	name, _ := doc.Find(`#form-panel input[name="fullName"]`).Attr("value")
	require.Equal(t, "Jane Doe", name)

	failures := logs.FilterLevelExact(zapcore.ErrorLevel).All()
	require.Len(t, failures, 1)
	require.Equal(t, "submission failed", failures[0].Message)
	require.Equal(t, "contact_general", failures[0].ContextMap()["collection"])
}

func TestStoreOutageLoggedAsWarning(t *testing.T) {
	t.Parallel()
	core, logs := observer.New(zapcore.InfoLevel)
	env := testutil.NewServer(t, testutil.WithLogger(zap.New(core)))
	env.Store.FailWith(pfirestore.WrapError("contact_waitlist", status.Error(codes.Unavailable, "backend down")))
	id, _ := mountPage(t, env, "/contact")
	base := "/views/" + id

	env.Post(t, base+"/forms/waitlist/open", nil)
	res := env.Post(t, base+"/forms/waitlist", url.Values{
		"fullName": {"Jane Doe"},
		"email":    {"jane@example.com"},
		"userType": {"Business"},
		"city":     {"Mumbai"},
	})
	require.Equal(t, http.StatusOK, res.StatusCode)
	doc := testutil.ParseHTML(t, res.Body)
	require.Equal(t, "Error Detected", doc.Find("#banner strong").Text())
	require.Equal(t, "Something went wrong. Please try again.", doc.Find("#banner .banner-body p").Text())

	require.Zero(t, logs.FilterLevelExact(zapcore.ErrorLevel).Len())
	require.Equal(t, 1, logs.FilterMessage("submission store unavailable").Len())
}

func TestInvestorSubmissionResetsForm(t *testing.T) {
	t.Parallel()
	env := testutil.NewServer(t)
	id, _ := mountPage(t, env, "/investors")

	res := env.Post(t, "/views/"+id+"/investors", url.Values{
		"name":           {"Ada Investor"},
		"email":          {"ada@fund.example"},
		"interest":       {"Angel"},
		"representsFirm": {"true"},
	})
	require.Equal(t, http.StatusOK, res.StatusCode)
	doc := testutil.ParseHTML(t, res.Body)
	name, _ := doc.Find(`#investor-form input[name="name"]`).Attr("value")
	require.Empty(t, name)
	require.Equal(t, "Inquiry Sent Successfully", doc.Find("#banner strong").Text())

	records := env.Store.Records("investorInquiries")
	require.Len(t, records, 1)
	require.Equal(t, true, records[0].Fields["representsFirm"])

	env.Clock.Advance(5 * time.Second)
	res = env.Get(t, "/views/"+id+"/banner", true)
	require.Equal(t, 1, testutil.ParseHTML(t, res.Body).Find(".banner").Length())
	env.Clock.Advance(time.Second)
	res = env.Get(t, "/views/"+id+"/banner", true)
	require.Zero(t, testutil.ParseHTML(t, res.Body).Find(".banner").Length())
}

func TestDismissBannerIgnoresStaleSeq(t *testing.T) {
	t.Parallel()
	env := testutil.NewServer(t)
	id, _ := mountPage(t, env, "/contact")
	base := "/views/" + id

	res := env.Post(t, base+"/forms/general", url.Values{})
	seq, _ := testutil.ParseHTML(t, res.Body).Find("#banner").Attr("data-seq")
	require.NotEmpty(t, seq)

	res = env.Post(t, base+"/banner/dismiss", url.Values{"seq": {"999"}})
	require.Equal(t, 1, testutil.ParseHTML(t, res.Body).Find(".banner").Length())
	res = env.Post(t, base+"/banner/dismiss", url.Values{"seq": {seq}})
	require.Zero(t, testutil.ParseHTML(t, res.Body).Find(".banner").Length())
}

func TestUnknownPathRendersNotFoundPage(t *testing.T) {
	t.Parallel()
	env := testutil.NewServer(t)

	res := env.Get(t, "/missing", false)
	require.Equal(t, http.StatusNotFound, res.StatusCode)
	require.Contains(t, string(res.Body), "Page not found")
}
