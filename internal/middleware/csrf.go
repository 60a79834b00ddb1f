package middleware

import (
	"context"
	"crypto/rand"
	"crypto/subtle"
	"encoding/hex"
	"net/http"
	"time"
)

const (
	DefaultCSRFCookie = "csrf_token"
	DefaultCSRFHeader = "X-CSRF-Token"
	// CSRFFormField is accepted when the header is absent.
	CSRFFormField = "_csrf"
)

// CSRFConfig controls cookie/header behaviour.
type CSRFConfig struct {
	CookieName string
	HeaderName string
	MaxAge     time.Duration
	Secure     bool
}

// CSRF ties a token to the session and verifies unsafe requests carry it in the header
// (or the _csrf form field) and in the double-submit cookie.
func CSRF(cfg CSRFConfig) func(http.Handler) http.Handler {
	cookieName := cfg.CookieName
	if cookieName == "" {
		cookieName = DefaultCSRFCookie
	}
	headerName := cfg.HeaderName
	if headerName == "" {
		headerName = DefaultCSRFHeader
	}
	maxAge := cfg.MaxAge
	if maxAge == 0 {
		maxAge = 24 * time.Hour
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			s := GetSession(r)
			token := s.CSRFToken
			if token == "" {
				token = newToken()
				s.CSRFToken = token
				s.MarkDirty()
			}

			if c, err := r.Cookie(cookieName); err != nil || c.Value != token {
				http.SetCookie(w, &http.Cookie{
					Name:     cookieName,
					Value:    token,
					Path:     "/",
					HttpOnly: false,
					Secure:   cfg.Secure || r.TLS != nil,
					SameSite: http.SameSiteLaxMode,
					MaxAge:   int(maxAge.Seconds()),
				})
			}

			if !isSafeMethod(r.Method) {
				submitted := r.Header.Get(headerName)
				if submitted == "" {
					submitted = r.PostFormValue(CSRFFormField)
				}
				if !tokensMatch(submitted, token) {
					WriteError(w, r, http.StatusForbidden, "invalid CSRF token")
					return
				}
				if c, err := r.Cookie(cookieName); err != nil || !tokensMatch(c.Value, token) {
					WriteError(w, r, http.StatusForbidden, "invalid CSRF token")
					return
				}
			}

			ctx := context.WithValue(r.Context(), ctxKeyCSRF, token)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func tokensMatch(a, b string) bool {
	if a == "" || b == "" {
		return false
	}
	return subtle.ConstantTimeCompare([]byte(a), []byte(b)) == 1
}

func newToken() string {
	b := make([]byte, 16)
	_, _ = rand.Read(b)
	return hex.EncodeToString(b)
}

func isSafeMethod(m string) bool {
	switch m {
	case http.MethodGet, http.MethodHead, http.MethodOptions, http.MethodTrace:
		return true
	default:
		return false
	}
}
