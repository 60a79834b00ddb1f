package middleware

import (
	"net/http"
	"strings"
)

// HTMXInfo captures request metadata from HX-* headers.
type HTMXInfo struct {
	IsHTMX         bool
	IsBoosted      bool
	CurrentURL     string
	Target         string
	TriggerID      string
	HistoryRestore bool
}

// HTMX annotates the context with htmx request metadata.
func HTMX(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		info := HTMXInfo{
			IsHTMX:         strings.EqualFold(r.Header.Get("HX-Request"), "true"),
			IsBoosted:      strings.EqualFold(r.Header.Get("HX-Boosted"), "true"),
			CurrentURL:     r.Header.Get("HX-Current-URL"),
			Target:         r.Header.Get("HX-Target"),
			TriggerID:      r.Header.Get("HX-Trigger"),
			HistoryRestore: strings.EqualFold(r.Header.Get("HX-History-Restore-Request"), "true"),
		}
		next.ServeHTTP(w, r.WithContext(WithHTMX(r.Context(), info)))
	})
}

// RequireHTMX answers 404 to direct navigation of fragment routes.
func RequireHTMX(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !IsHTMX(r.Context()) {
			http.NotFound(w, r)
			return
		}
		w.Header().Add("Vary", "HX-Request")
		next.ServeHTTP(w, r)
	})
}

// NoStore disables caching of dynamic responses.
func NoStore(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Cache-Control", "no-store")
		next.ServeHTTP(w, r)
	})
}
