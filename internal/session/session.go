// Package session keeps the per-browser state of the storefront: backend
// tokens, the signed-in user and one-shot flash notices.
package session

import (
	"context"
	"time"

	"github.com/google/uuid"

	"storefront/internal/domain"
)

const (
	FlashSuccess = "success"
	FlashError   = "error"
	FlashInfo    = "info"
)

// Flash is a notice shown once on the next rendered page.
type Flash struct {
	Kind    string `json:"kind"`
	Message string `json:"message"`
}

type Session struct {
	ID           string       `json:"id"`
	AccessToken  string       `json:"access_token,omitempty"`
	RefreshToken string       `json:"refresh_token,omitempty"`
	User         *domain.User `json:"user,omitempty"`
	// PendingEmail is the address awaiting OTP verification after signup.
	PendingEmail string `json:"pending_email,omitempty"`
	// CartCount is the header badge, refreshed whenever the cart is read.
	CartCount int       `json:"cart_count,omitempty"`
	Flashes   []Flash   `json:"flashes,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	ExpiresAt time.Time `json:"expires_at"`

	dirty bool
	isNew bool
}

// New starts an unsaved session that lives for ttl.
func New(ttl time.Duration) *Session {
	now := time.Now().UTC()
	return &Session{
		ID:        uuid.NewString(),
		CreatedAt: now,
		ExpiresAt: now.Add(ttl),
		isNew:     true,
	}
}

func (s *Session) SignedIn() bool {
	return s != nil && s.AccessToken != "" && s.User != nil
}

func (s *Session) IsAdmin() bool {
	return s.SignedIn() && s.User.IsAdmin()
}

// SetTokens stores a fresh token pair. An empty refresh token keeps the
// previous one.
func (s *Session) SetTokens(t domain.Token) {
	s.AccessToken = t.AccessToken
	if t.RefreshToken != "" {
		s.RefreshToken = t.RefreshToken
	}
	s.dirty = true
}

func (s *Session) SetUser(u *domain.User) {
	s.User = u
	s.dirty = true
}

func (s *Session) SetPendingEmail(email string) {
	s.PendingEmail = email
	s.dirty = true
}

func (s *Session) SetCartCount(n int) {
	if s.CartCount != n {
		s.CartCount = n
		s.dirty = true
	}
}

// SignOut drops the tokens and user but keeps pending flashes.
func (s *Session) SignOut() {
	s.AccessToken = ""
	s.RefreshToken = ""
	s.User = nil
	s.CartCount = 0
	s.dirty = true
}

func (s *Session) AddFlash(kind, message string) {
	s.Flashes = append(s.Flashes, Flash{Kind: kind, Message: message})
	s.dirty = true
}

func (s *Session) Success(message string) { s.AddFlash(FlashSuccess, message) }
func (s *Session) Error(message string)   { s.AddFlash(FlashError, message) }
func (s *Session) Info(message string)    { s.AddFlash(FlashInfo, message) }

// TakeFlashes returns and clears the pending notices.
func (s *Session) TakeFlashes() []Flash {
	if len(s.Flashes) == 0 {
		return nil
	}
	out := s.Flashes
	s.Flashes = nil
	s.dirty = true
	return out
}

// Dirty reports whether the session changed since it was loaded.
func (s *Session) Dirty() bool {
	return s.dirty
}

// IsNew reports whether the session was created during this request.
func (s *Session) IsNew() bool {
	return s.isNew
}

func (s *Session) expired(now time.Time) bool {
	return !s.ExpiresAt.IsZero() && now.After(s.ExpiresAt)
}

// clone copies s as a store would hand it back: without change tracking.
func (s *Session) clone() *Session {
	cp := *s
	cp.dirty = false
	cp.isNew = false
	if s.User != nil {
		u := *s.User
		cp.User = &u
	}
	cp.Flashes = append([]Flash(nil), s.Flashes...)
	return &cp
}

// Store persists sessions by id. Get returns domain.ErrNotFound for unknown
// or expired sessions.
type Store interface {
	Get(ctx context.Context, id string) (*Session, error)
	Save(ctx context.Context, s *Session) error
	Delete(ctx context.Context, id string) error
	Ping(ctx context.Context) error
}

// Sweeper is implemented by stores that need expired rows removed by hand.
type Sweeper interface {
	DeleteExpired(ctx context.Context) (int64, error)
}
