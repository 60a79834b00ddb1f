// Package httpserver assembles the router, middleware stack and embedded assets.
package httpserver

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"github.com/chhitz007/nexora-page/internal/handlers"
	mw "github.com/chhitz007/nexora-page/internal/middleware"
	"github.com/chhitz007/nexora-page/internal/observability"
	"github.com/chhitz007/nexora-page/public"
)

// Config holds runtime options for the site server.
type Config struct {
	Address           string
	Handlers          *handlers.Handlers
	Logger            *zap.Logger
	ProjectID         string
	SessionCookieName string
	SessionSigningKey []byte
	SecureCookies     bool
	ReadHeaderTimeout time.Duration
	ReadTimeout       time.Duration
	WriteTimeout      time.Duration
	IdleTimeout       time.Duration
}

// New constructs the HTTP server.
func New(cfg Config) (*http.Server, error) {
	if cfg.Handlers == nil {
		return nil, errors.New("httpserver: handlers are required")
	}
	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	router := chi.NewRouter()
	router.Use(chimw.RequestID)
	router.Use(chimw.RealIP)
	router.Use(observability.InjectLoggerMiddleware(logger))
	router.Use(observability.TraceMiddleware(cfg.ProjectID))
	router.Use(observability.RequestLoggerMiddleware(cfg.ProjectID))
	router.Use(observability.RecoveryMiddleware(logger))
	router.Use(mw.HTMX)

	staticContent, err := public.StaticFS()
	if err != nil {
		return nil, fmt.Errorf("embed static: %w", err)
	}
	router.Handle("/assets/*", http.StripPrefix("/assets", mw.AssetsWithCache(staticContent)))
	router.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		_, _ = w.Write([]byte("ok"))
	})

	h := cfg.Handlers
	router.Group(func(r chi.Router) {
		r.Use(mw.Session(mw.SessionConfig{
			CookieName: cfg.SessionCookieName,
			SigningKey: cfg.SessionSigningKey,
			Secure:     cfg.SecureCookies,
			Logger:     logger,
		}))
		r.Use(mw.CSRF(mw.CSRFConfig{Secure: cfg.SecureCookies}))

		r.Get("/", h.Home)
		r.Get("/community", h.Community)
		r.Get("/contact", h.Contact)
		r.Get("/investors", h.Investors)

		r.Route("/views/{id}", func(r chi.Router) {
			r.Use(mw.NoStore)
			mountViewRoutes(r, h)
		})
	})
	router.NotFound(h.NotFound)

	return &http.Server{
		Addr:              cfg.Address,
		Handler:           router,
		ReadHeaderTimeout: orDefault(cfg.ReadHeaderTimeout, 5*time.Second),
		ReadTimeout:       orDefault(cfg.ReadTimeout, 10*time.Second),
		WriteTimeout:      orDefault(cfg.WriteTimeout, 30*time.Second),
		IdleTimeout:       orDefault(cfg.IdleTimeout, 60*time.Second),
	}, nil
}

func mountViewRoutes(r chi.Router, h *handlers.Handlers) {
	RegisterFragment(r, "/carousel", h.Carousel)
	r.Post("/carousel/select", h.SelectPage)

	r.Post("/pillars/{index}/open", h.OpenPillar)
	r.Post("/vision/{kind}/open", h.OpenVision)
	r.Post("/founders/next", h.NextFounder)
	r.Post("/founders/prev", h.PrevFounder)
	r.Post("/founders/{founderID}/open", h.OpenFounder)
	r.Post("/overlay/{kind}/close", h.CloseOverlay)

	r.Post("/forms/{kind}/open", h.OpenForm)
	r.Post("/forms/{kind}/close", h.CloseForm)
	r.Post("/forms/{kind}", h.SubmitContact)
	r.Post("/investors", h.SubmitInvestor)

	RegisterFragment(r, "/banner", h.Banner)
	r.Post("/banner/dismiss", h.DismissBanner)

	r.Post("/unmount", h.Unmount)
}

// RegisterFragment registers a GET handler intended for htmx fragment rendering.
func RegisterFragment(r chi.Router, pattern string, handler http.HandlerFunc) {
	r.With(mw.RequireHTMX).Get(pattern, handler)
}

func orDefault(v, def time.Duration) time.Duration {
	if v > 0 {
		return v
	}
	return def
}
