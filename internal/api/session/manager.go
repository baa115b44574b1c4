// Package session implements cookie-bound server-side sessions. The client
// holds a signed token whose only claim of substance is the session ID; all
// session state (identity, flash messages) lives server-side with a TTL and
// is invalidated on logout.
package session

import (
	"errors"
	"net/http"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/taskdeck/todo-webapp/internal/core/domain"
	"github.com/taskdeck/todo-webapp/internal/core/ports"
)

const (
	// CookieName carries the signed session token.
	CookieName = "todo_session"

	contextKey = "session_state"
)

// Manager resolves cookies to session state and persists mutations.
type Manager struct {
	store  ports.SessionStore
	secret []byte
	ttl    time.Duration
	log    zerolog.Logger
}

func NewManager(store ports.SessionStore, secret string, ttl time.Duration, log zerolog.Logger) *Manager {
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	return &Manager{store: store, secret: []byte(secret), ttl: ttl, log: log}
}

// Middleware loads the session referenced by the request cookie (an invalid,
// expired, or unknown token simply yields an anonymous state), exposes it via
// FromContext, and persists any mutation exactly once.
//
// Persistence runs in a Response.Before hook: handlers commit the response
// themselves (a redirect flushes headers immediately), and a Set-Cookie added
// after that flush would be dropped. The hook fires right before the first
// write, when the handler is done mutating the state but headers are still
// open. The post-handler call covers handlers that never write a body.
func (m *Manager) Middleware() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			state := m.load(c)
			c.Set(contextKey, state)

			persisted := false
			persistOnce := func() {
				if persisted {
					return
				}
				persisted = true
				m.persist(c, state)
			}
			c.Response().Before(persistOnce)

			err := next(c)

			persistOnce()
			return err
		}
	}
}

// FromContext returns the request's session state. Requests that never went
// through Middleware get a detached anonymous state.
func FromContext(c echo.Context) *State {
	if state, ok := c.Get(contextKey).(*State); ok {
		return state
	}
	return newState(nil, "")
}

func (m *Manager) load(c echo.Context) *State {
	cookie, err := c.Cookie(CookieName)
	if err != nil || cookie.Value == "" {
		return newState(nil, "")
	}

	sid, err := m.parseToken(cookie.Value)
	if err != nil {
		return newState(nil, "")
	}

	sess, err := m.store.Find(c.Request().Context(), sid)
	if err != nil {
		if !errors.Is(err, domain.ErrSessionNotFound) {
			m.log.Warn().Err(err).Msg("session lookup failed")
		}
		return newState(nil, "")
	}

	return newState(sess, sid)
}

func (m *Manager) persist(c echo.Context, state *State) {
	ctx := c.Request().Context()

	if state.cleared && state.loadedID != "" {
		if err := m.store.Delete(ctx, state.loadedID); err != nil {
			m.log.Error().Err(err).Msg("session delete failed")
		}
	}

	if !state.dirty {
		if state.cleared && state.loadedID != "" {
			m.expireCookie(c)
		}
		return
	}

	now := time.Now()
	reissue := state.sess.ID == ""
	if reissue {
		state.sess.ID = uuid.NewString()
		state.sess.CreatedAt = now
	}
	state.sess.ExpiresAt = now.Add(m.ttl)

	if err := m.store.Save(ctx, state.sess); err != nil {
		m.log.Error().Err(err).Msg("session save failed")
		return
	}

	if reissue {
		token, err := m.signToken(state.sess.ID, state.sess.ExpiresAt)
		if err != nil {
			m.log.Error().Err(err).Msg("session token signing failed")
			return
		}
		m.setCookie(c, token, state.sess.ExpiresAt)
	}
}

func (m *Manager) signToken(sid string, expiresAt time.Time) (string, error) {
	claims := jwt.MapClaims{
		"sid": sid,
		"exp": expiresAt.Unix(),
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(m.secret)
}

func (m *Manager) parseToken(token string) (string, error) {
	claims := jwt.MapClaims{}
	tkn, err := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (interface{}, error) {
		if t.Method.Alg() != jwt.SigningMethodHS256.Alg() {
			return nil, jwt.ErrTokenSignatureInvalid
		}
		return m.secret, nil
	})
	if err != nil || !tkn.Valid {
		return "", jwt.ErrTokenSignatureInvalid
	}

	sid, _ := claims["sid"].(string)
	if sid == "" {
		return "", jwt.ErrTokenInvalidClaims
	}
	return sid, nil
}

func (m *Manager) setCookie(c echo.Context, token string, expiresAt time.Time) {
	c.SetCookie(&http.Cookie{
		Name:     CookieName,
		Value:    token,
		Path:     "/",
		Expires:  expiresAt,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}

func (m *Manager) expireCookie(c echo.Context) {
	c.SetCookie(&http.Cookie{
		Name:     CookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}
