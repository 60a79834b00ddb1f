// Package testutil runs the full site stack against fakes for handler tests.
package testutil

import (
	"io"
	"net/http"
	"net/http/cookiejar"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/chhitz007/nexora-page/internal/clock"
	"github.com/chhitz007/nexora-page/internal/content"
	"github.com/chhitz007/nexora-page/internal/forms"
	"github.com/chhitz007/nexora-page/internal/handlers"
	"github.com/chhitz007/nexora-page/internal/httpserver"
	mw "github.com/chhitz007/nexora-page/internal/middleware"
	"github.com/chhitz007/nexora-page/internal/viewstate"
)

// Env is a running test server with handles on its fakes.
type Env struct {
	Server   *httptest.Server
	Client   *http.Client
	Clock    *clock.Fake
	Store    *forms.MemoryStore
	Registry *viewstate.Registry
}

type options struct {
	store    forms.Store
	notifier forms.Notifier
	site     *content.Site
	logger   *zap.Logger
	start    time.Time
}

// ServerOption customises the stack built by NewServer.
type ServerOption func(*options)

// WithStore replaces the in-memory submission store.
func WithStore(s forms.Store) ServerOption {
	return func(o *options) { o.store = s }
}

// WithNotifier wires a submission notifier.
func WithNotifier(n forms.Notifier) ServerOption {
	return func(o *options) { o.notifier = n }
}

// WithSite overrides the embedded content.
func WithSite(s *content.Site) ServerOption {
	return func(o *options) { o.site = s }
}

// WithLogger sets the request logger, e.g. a zaptest observer.
func WithLogger(l *zap.Logger) ServerOption {
	return func(o *options) { o.logger = l }
}

// NewServer constructs an httptest server running the site HTTP stack with a fake clock.
func NewServer(t testing.TB, opts ...ServerOption) *Env {
	t.Helper()

	o := options{start: time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)}
	for _, opt := range opts {
		opt(&o)
	}
	fake := clock.NewFake(o.start)
	if o.site == nil {
		o.site = content.MustLoad()
	}
	mem := forms.NewMemoryStore(fake)
	store := o.store
	if store == nil {
		store = mem
	}

	registry := viewstate.NewRegistry(o.site, viewstate.WithClock(fake))
	submitterOpts := []forms.SubmitterOption{forms.WithClock(fake)}
	if o.notifier != nil {
		submitterOpts = append(submitterOpts, forms.WithNotifier(o.notifier))
	}
	submitter, err := forms.NewSubmitter(store, submitterOpts...)
	if err != nil {
		t.Fatalf("submitter: %v", err)
	}
	h, err := handlers.New(handlers.Dependencies{
		Registry:  registry,
		Submitter: submitter,
		Site:      handlers.SiteInfo{BaseURL: "https://nexora.example"},
		Clock:     fake,
	})
	if err != nil {
		t.Fatalf("handlers: %v", err)
	}
	srv, err := httpserver.New(httpserver.Config{
		Handlers:          h,
		Logger:            o.logger,
		SessionSigningKey: []byte("test-signing-key-0123456789abcdef"),
	})
	if err != nil {
		t.Fatalf("httpserver: %v", err)
	}

	ts := httptest.NewServer(srv.Handler)
	jar, err := cookiejar.New(nil)
	if err != nil {
		t.Fatalf("cookiejar: %v", err)
	}
	t.Cleanup(func() {
		ts.Close()
		registry.Close()
	})

	return &Env{
		Server:   ts,
		Client:   &http.Client{Jar: jar},
		Clock:    fake,
		Store:    mem,
		Registry: registry,
	}
}

// Response is a fully read HTTP response.
type Response struct {
	*http.Response
	Body []byte
}

// Get fetches path. htmx marks the request as an htmx fragment request.
func (e *Env) Get(t testing.TB, path string, htmx bool) Response {
	t.Helper()
	req, err := http.NewRequest(http.MethodGet, e.Server.URL+path, nil)
	if err != nil {
		t.Fatalf("new request: %v", err)
	}
	if htmx {
		req.Header.Set("HX-Request", "true")
	}
	return e.do(t, req)
}

// Post submits form as an htmx request carrying the session's CSRF token.
func (e *Env) Post(t testing.TB, path string, form url.Values) Response {
	t.Helper()
	req, err := http.NewRequest(http.MethodPost, e.Server.URL+path, strings.NewReader(form.Encode()))
	if err != nil {
		t.Fatalf("new request: %v", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("HX-Request", "true")
	req.Header.Set(mw.DefaultCSRFHeader, e.CSRFToken(t))
	return e.do(t, req)
}

// CSRFToken reads the token from the cookie jar.
func (e *Env) CSRFToken(t testing.TB) string {
	t.Helper()
	u, err := url.Parse(e.Server.URL)
	if err != nil {
		t.Fatalf("parse url: %v", err)
	}
	for _, c := range e.Client.Jar.Cookies(u) {
		if c.Name == mw.DefaultCSRFCookie {
			return c.Value
		}
	}
	return ""
}

func (e *Env) do(t testing.TB, req *http.Request) Response {
	t.Helper()
	resp, err := e.Client.Do(req)
	if err != nil {
		t.Fatalf("%s %s: %v", req.Method, req.URL.Path, err)
	}
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("read body: %v", err)
	}
	return Response{Response: resp, Body: body}
}
