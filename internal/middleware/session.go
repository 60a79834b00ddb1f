package middleware

import (
	"context"
	"crypto/hmac"
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"
)

const (
	DefaultSessionCookie = "NEXORA_WEB_SESSION"
	sessionMaxAge        = 30 * 24 * time.Hour
)

// SessionData is the signed cookie payload identifying a visitor.
type SessionData struct {
	ID        string    `json:"id"`
	CSRFToken string    `json:"csrf,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
	// internal dirty flag; not serialized
	dirty bool
}

// SessionConfig controls cookie signing.
type SessionConfig struct {
	CookieName string
	SigningKey []byte
	Secure     bool
	Logger     *zap.Logger
}

// Session loads or initialises the visitor session and stores it in request context.
// An empty signing key generates a process-ephemeral one, which is only suitable for
// development.
func Session(cfg SessionConfig) func(http.Handler) http.Handler {
	name := cfg.CookieName
	if name == "" {
		name = DefaultSessionCookie
	}
	key := cfg.SigningKey
	if len(key) == 0 {
		key = make([]byte, 32)
		_, _ = rand.Read(key)
		if cfg.Logger != nil {
			cfg.Logger.Warn("session: using ephemeral signing key; set NEXORA_WEB_SESSION_SIGNING_KEY for production")
		}
	}
	codec := sessionCodec{key: key}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			sd, fromCookie := codec.read(r, name)
			if sd.ID == "" {
				now := time.Now().UTC()
				sd = &SessionData{ID: randID(), CSRFToken: newToken(), CreatedAt: now, UpdatedAt: now, dirty: true}
			}
			ctx := context.WithValue(r.Context(), ctxKeySession, sd)

			rw := NewResponseRecorder(w)
			// ensure cookie is set just before first write if needed
			rw.SetBeforeWrite(func(w http.ResponseWriter) {
				if sd.dirty || !fromCookie {
					codec.write(w, name, sd, cfg.Secure || r.TLS != nil)
				}
			})
			next.ServeHTTP(rw, r.WithContext(ctx))
			// If nothing was written yet (e.g., HEAD), persist cookie now
			if !rw.Wrote() && (sd.dirty || !fromCookie) {
				codec.write(w, name, sd, cfg.Secure || r.TLS != nil)
			}
		})
	}
}

// GetSession returns session data from context
func GetSession(r *http.Request) *SessionData {
	return SessionFromContext(r.Context())
}

// SessionFromContext returns the session, or an empty one when the middleware did not run.
func SessionFromContext(ctx context.Context) *SessionData {
	if sd, ok := ctx.Value(ctxKeySession).(*SessionData); ok && sd != nil {
		return sd
	}
	return &SessionData{}
}

// MarkDirty flags the session for writing at end of request
func (s *SessionData) MarkDirty() { s.dirty = true; s.UpdatedAt = time.Now().UTC() }

type sessionCodec struct {
	key []byte
}

func (c sessionCodec) sign(payload []byte) []byte {
	mac := hmac.New(sha256.New, c.key)
	mac.Write(payload)
	return mac.Sum(nil)
}

// read parses and verifies the session cookie
func (c sessionCodec) read(r *http.Request, name string) (*SessionData, bool) {
	cookie, err := r.Cookie(name)
	if err != nil || cookie.Value == "" {
		return &SessionData{}, false
	}
	payloadPart, sigPart, ok := strings.Cut(cookie.Value, ".")
	if !ok {
		return &SessionData{}, false
	}
	payload, err := base64.RawURLEncoding.DecodeString(payloadPart)
	if err != nil {
		return &SessionData{}, false
	}
	sig, err := base64.RawURLEncoding.DecodeString(sigPart)
	if err != nil {
		return &SessionData{}, false
	}
	if !hmac.Equal(sig, c.sign(payload)) {
		return &SessionData{}, false
	}
	var sd SessionData
	if err := json.Unmarshal(payload, &sd); err != nil {
		return &SessionData{}, false
	}
	return &sd, true
}

func (c sessionCodec) encode(sd *SessionData) string {
	b, _ := json.Marshal(sd)
	return base64.RawURLEncoding.EncodeToString(b) + "." + base64.RawURLEncoding.EncodeToString(c.sign(b))
}

func (c sessionCodec) write(w http.ResponseWriter, name string, sd *SessionData, secure bool) {
	http.SetCookie(w, &http.Cookie{
		Name:     name,
		Value:    c.encode(sd),
		Path:     "/",
		HttpOnly: true,
		Secure:   secure,
		SameSite: http.SameSiteLaxMode,
		Expires:  time.Now().Add(sessionMaxAge),
	})
}

func randID() string {
	b := make([]byte, 16)
	if _, err := rand.Read(b); err != nil {
		return ""
	}
	return base64.RawURLEncoding.EncodeToString(b)
}
