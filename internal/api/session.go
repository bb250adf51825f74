package api

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/dreamdive/dreamdive/internal/model"
	"github.com/dreamdive/dreamdive/internal/store"
)

// CookieName carries the opaque session token.
const CookieName = "dreamdive_session"

type ctxKey int

const tokenKey ctxKey = 0

// SessionToken returns the session token established by the middleware.
func SessionToken(r *http.Request) string {
	if v, ok := r.Context().Value(tokenKey).(string); ok {
		return v
	}
	return ""
}

// SessionMiddleware establishes session identity for every request. A
// browser with no cookie, an unknown token, or a token older than the TTL
// gets a fresh session; the lifetime is fixed at issuance.
type SessionMiddleware struct {
	sessions store.Sessions
	ttl      time.Duration
	log      zerolog.Logger
}

func NewSessionMiddleware(sessions store.Sessions, ttl time.Duration, log zerolog.Logger) *SessionMiddleware {
	return &SessionMiddleware{sessions: sessions, ttl: ttl, log: log}
}

func (m *SessionMiddleware) Handler(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token := ""
		if c, err := r.Cookie(CookieName); err == nil {
			token = c.Value
		}

		if token != "" {
			sess, err := m.sessions.Get(r.Context(), token)
			switch {
			case err == nil && time.Since(sess.CreatedAt) < m.ttl:
				// live session
			case err == nil:
				// expired in the store; a replayed cookie gets a new session
				_ = m.sessions.Delete(r.Context(), token)
				token = ""
			case errors.Is(err, model.ErrNotFound):
				token = ""
			default:
				m.log.Error().Stack().Err(err).Msg("session lookup failed")
				http.Error(w, "internal error", http.StatusInternalServerError)
				return
			}
		}

		if token == "" {
			token = uuid.New().String()
			if _, err := m.sessions.Create(r.Context(), token); err != nil {
				m.log.Error().Stack().Err(err).Msg("session create failed")
				http.Error(w, "internal error", http.StatusInternalServerError)
				return
			}
			http.SetCookie(w, &http.Cookie{
				Name:     CookieName,
				Value:    token,
				Path:     "/",
				Expires:  time.Now().Add(m.ttl),
				HttpOnly: true,
				SameSite: http.SameSiteLaxMode,
			})
		}

		next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), tokenKey, token)))
	})
}

// ClearCookie expires the session cookie on the client.
func ClearCookie(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     CookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}
