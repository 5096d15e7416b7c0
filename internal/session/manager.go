package session

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"storefront/internal/domain"
)

const DefaultCookieName = "storefront_session"

// refreshSkew is how close to expiry an access token may get before it is
// swapped for a new one.
const refreshSkew = 30 * time.Second

// Refresher exchanges a refresh token for a new pair.
type Refresher interface {
	Refresh(ctx context.Context, refreshToken string) (*domain.Token, error)
}

type Options struct {
	CookieName string
	TTL        time.Duration
	Secure     bool
}

// Manager ties a Store to the session cookie.
type Manager struct {
	store     Store
	refresher Refresher
	opts      Options
	logger    zerolog.Logger
	now       func() time.Time
}

func NewManager(store Store, refresher Refresher, opts Options, logger zerolog.Logger) *Manager {
	if opts.CookieName == "" {
		opts.CookieName = DefaultCookieName
	}
	if opts.TTL <= 0 {
		opts.TTL = 7 * 24 * time.Hour
	}
	return &Manager{
		store:     store,
		refresher: refresher,
		opts:      opts,
		logger:    logger,
		now:       time.Now,
	}
}

func (m *Manager) Store() Store {
	return m.store
}

// Load returns the session named by the request cookie, or a new one when
// the cookie is missing, unknown or expired.
func (m *Manager) Load(r *http.Request) *Session {
	c, err := r.Cookie(m.opts.CookieName)
	if err != nil || c.Value == "" {
		return New(m.opts.TTL)
	}
	if _, err := uuid.Parse(c.Value); err != nil {
		return New(m.opts.TTL)
	}
	s, err := m.store.Get(r.Context(), c.Value)
	if err != nil {
		if !errors.Is(err, domain.ErrNotFound) {
			m.logger.Error().Err(err).Msg("load session")
		}
		return New(m.opts.TTL)
	}
	return s
}

// Save persists s when it changed, sliding its expiry forward.
func (m *Manager) Save(ctx context.Context, s *Session) error {
	if !s.dirty {
		return nil
	}
	s.ExpiresAt = m.now().UTC().Add(m.opts.TTL)
	if err := m.store.Save(ctx, s); err != nil {
		return fmt.Errorf("save session %s: %w", s.ID, err)
	}
	s.dirty = false
	s.isNew = false
	return nil
}

// WriteCookie points the browser at s.
func (m *Manager) WriteCookie(w http.ResponseWriter, s *Session) {
	http.SetCookie(w, &http.Cookie{
		Name:     m.opts.CookieName,
		Value:    s.ID,
		Path:     "/",
		Expires:  m.now().Add(m.opts.TTL),
		MaxAge:   int(m.opts.TTL.Seconds()),
		HttpOnly: true,
		Secure:   m.opts.Secure,
		SameSite: http.SameSiteLaxMode,
	})
}

// Renew moves s to a fresh id. Called on sign-in so a planted cookie never
// ends up holding someone's tokens.
func (m *Manager) Renew(ctx context.Context, w http.ResponseWriter, s *Session) {
	old := s.ID
	s.ID = uuid.NewString()
	s.isNew = true
	s.dirty = true
	if err := m.store.Delete(ctx, old); err != nil && !errors.Is(err, domain.ErrNotFound) {
		m.logger.Warn().Err(err).Str("session", old).Msg("drop renewed session")
	}
	m.WriteCookie(w, s)
}

// Destroy removes s from the store and expires the cookie.
func (m *Manager) Destroy(ctx context.Context, w http.ResponseWriter, s *Session) {
	if err := m.store.Delete(ctx, s.ID); err != nil && !errors.Is(err, domain.ErrNotFound) {
		m.logger.Warn().Err(err).Str("session", s.ID).Msg("destroy session")
	}
	s.SignOut()
	s.dirty = false
	http.SetCookie(w, &http.Cookie{
		Name:     m.opts.CookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   m.opts.Secure,
		SameSite: http.SameSiteLaxMode,
	})
}

// AccessToken returns a usable bearer token for s, refreshing it first when
// it is about to expire. A failed refresh signs the session out.
func (m *Manager) AccessToken(ctx context.Context, s *Session) (string, error) {
	if s == nil || s.AccessToken == "" {
		return "", domain.ErrUnauthorized
	}
	exp, ok := tokenExpiry(s.AccessToken)
	if !ok || m.now().Add(refreshSkew).Before(exp) {
		return s.AccessToken, nil
	}
	if s.RefreshToken == "" || m.refresher == nil {
		s.SignOut()
		return "", domain.ErrUnauthorized
	}
	tok, err := m.refresher.Refresh(ctx, s.RefreshToken)
	if err != nil {
		m.logger.Info().Err(err).Str("session", s.ID).Msg("token refresh failed")
		s.SignOut()
		return "", fmt.Errorf("refresh token: %w", domain.ErrUnauthorized)
	}
	s.SetTokens(*tok)
	return s.AccessToken, nil
}

// tokenExpiry reads exp without verifying the signature; the backend is
// the one that verifies.
func tokenExpiry(token string) (time.Time, bool) {
	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return time.Time{}, false
	}
	exp, err := claims.GetExpirationTime()
	if err != nil || exp == nil {
		return time.Time{}, false
	}
	return exp.Time, true
}

// RunSweeper deletes expired sessions every interval until ctx is done.
// Stores that expire entries themselves are left alone.
func RunSweeper(ctx context.Context, store Store, interval time.Duration, logger zerolog.Logger) {
	sw, ok := store.(Sweeper)
	if !ok {
		return
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			n, err := sw.DeleteExpired(ctx)
			if err != nil {
				logger.Warn().Err(err).Msg("sweep sessions")
				continue
			}
			if n > 0 {
				logger.Debug().Int64("removed", n).Msg("swept expired sessions")
			}
		}
	}
}
