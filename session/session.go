// Package session owns the operator's login token, its decoded expiry and profile.
//
// The token's claims are decoded without verifying the signature. The upstream
// API verifies it on every call; expiry here only drives bookkeeping and the
// local validity check.
package session

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"inventaris_admin/gateway"
	"inventaris_admin/models"

	"github.com/golang-jwt/jwt/v5"
)

var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrMalformedToken     = errors.New("malformed token")
	ErrNoSession          = errors.New("no session")
	ErrUnauthenticated    = errors.New("session missing or expired")
)

// Session is the authenticated context passed to every gateway-calling operation.
type Session struct {
	ClientID  string
	Token     string
	ExpiresAt time.Time
	Profile   models.Profile
}

// ValidAt reports whether the session may be used at t.
func (s *Session) ValidAt(t time.Time) bool {
	return s != nil && s.Token != "" && t.Before(s.ExpiresAt)
}

// Checker decides session validity; *Manager implements it.
type Checker interface {
	IsValid(s *Session) bool
}

// Require returns ErrUnauthenticated unless s is valid.
func Require(c Checker, s *Session) error {
	if !c.IsValid(s) {
		return ErrUnauthenticated
	}
	return nil
}

type Authenticator interface {
	Login(ctx context.Context, creds gateway.Credentials) (*gateway.LoginResult, error)
}

type Manager struct {
	gw    Authenticator
	store Store
	now   func() time.Time
	log   *slog.Logger
}

func NewManager(gw Authenticator, store Store, log *slog.Logger) *Manager {
	if log == nil {
		log = slog.Default()
	}
	return &Manager{gw: gw, store: store, now: time.Now, log: log}
}

// WithClock overrides the time source.
func (m *Manager) WithClock(now func() time.Time) *Manager {
	m.now = now
	return m
}

// Authenticate exchanges credentials for a token and persists the session,
// replacing whatever the client had before.
func (m *Manager) Authenticate(ctx context.Context, clientID string, creds gateway.Credentials) (*Session, error) {
	res, err := m.gw.Login(ctx, creds)
	if err != nil {
		if gateway.KindOf(err) == gateway.KindUnauthorized {
			return nil, fmt.Errorf("%w: %w", ErrInvalidCredentials, err)
		}
		if gateway.KindOf(err) == gateway.KindDecode {
			return nil, fmt.Errorf("%w: %w", ErrMalformedToken, err)
		}
		return nil, err
	}

	exp, err := DecodeExpiry(res.Token)
	if err != nil {
		return nil, err
	}
	// the record keeps whole seconds; Current must report the same instant
	exp = time.Unix(exp.Unix(), 0)

	s := &Session{ClientID: clientID, Token: res.Token, ExpiresAt: exp, Profile: res.User}
	rec := Record{Token: s.Token, Data: s.Profile, Expire: exp.Unix()}
	if err := m.store.Save(ctx, clientID, rec, m.retention(exp)); err != nil {
		return nil, fmt.Errorf("persist session: %w", err)
	}
	m.log.Info("session started", "client", clientID, "user", s.Profile.Username, "expires_at", exp)
	return s, nil
}

// Current loads the persisted session, valid or not.
func (m *Manager) Current(ctx context.Context, clientID string) (*Session, error) {
	if clientID == "" {
		return nil, ErrNoSession
	}
	rec, err := m.store.Load(ctx, clientID)
	if err != nil {
		return nil, err
	}
	return &Session{
		ClientID:  clientID,
		Token:     rec.Token,
		ExpiresAt: time.Unix(rec.Expire, 0),
		Profile:   rec.Data,
	}, nil
}

func (m *Manager) IsValid(s *Session) bool { return s.ValidAt(m.now()) }

// Clear removes the persisted session for the client.
func (m *Manager) Clear(ctx context.Context, clientID string) error {
	if clientID == "" {
		return nil
	}
	if err := m.store.Delete(ctx, clientID); err != nil {
		return err
	}
	m.log.Info("session cleared", "client", clientID)
	return nil
}

// retention is the store TTL: the token's remaining life, never below a second
// (a zero TTL means no expiry in redis).
func (m *Manager) retention(exp time.Time) time.Duration {
	ttl := exp.Sub(m.now())
	if ttl < time.Second {
		ttl = time.Second
	}
	return ttl
}

// DecodeExpiry reads the exp claim without signature verification.
func DecodeExpiry(token string) (time.Time, error) {
	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return time.Time{}, fmt.Errorf("%w: %w", ErrMalformedToken, err)
	}
	exp, err := claims.GetExpirationTime()
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: %w", ErrMalformedToken, err)
	}
	if exp == nil {
		return time.Time{}, fmt.Errorf("%w: no exp claim", ErrMalformedToken)
	}
	return exp.Time, nil
}
