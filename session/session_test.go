package session

import (
	"context"
	"errors"
	"testing"
	"time"

	"inventaris_admin/gateway"
	"inventaris_admin/models"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/require"
)

type fakeAuth struct {
	res   *gateway.LoginResult
	err   error
	calls int
}

func (f *fakeAuth) Login(_ context.Context, _ gateway.Credentials) (*gateway.LoginResult, error) {
	f.calls++
	return f.res, f.err
}

func signedToken(t *testing.T, claims jwt.MapClaims) string {
	t.Helper()
	tok, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("upstream-secret"))
	require.NoError(t, err)
	return tok
}

var creds = gateway.Credentials{Username: "admin", Password: "secret"}

func TestAuthenticate_PersistsAndDecodesExpiry(t *testing.T) {
	now := time.Date(2024, 1, 1, 8, 0, 0, 0, time.UTC)
	exp := now.Add(time.Hour)
	tok := signedToken(t, jwt.MapClaims{"sub": "1", "exp": exp.Unix()})
	store := NewMemoryStore()
	m := NewManager(&fakeAuth{res: &gateway.LoginResult{Token: tok, User: models.Profile{ID: "1", Username: "admin"}}}, store, nil).
		WithClock(func() time.Time { return now })

	s, err := m.Authenticate(context.Background(), "c1", creds)
	require.NoError(t, err)
	require.True(t, s.ExpiresAt.Equal(exp))
	require.True(t, m.IsValid(s))

	rec, err := store.Load(context.Background(), "c1")
	require.NoError(t, err)
	require.Equal(t, tok, rec.Token)
	require.Equal(t, exp.Unix(), rec.Expire)
	require.Equal(t, "admin", rec.Data.Username)

	cur, err := m.Current(context.Background(), "c1")
	require.NoError(t, err)
	require.True(t, cur.ExpiresAt.Equal(exp))
	require.True(t, m.IsValid(cur))
}

func TestAuthenticate_OverwritesPriorSession(t *testing.T) {
	now := time.Now()
	auth := &fakeAuth{res: &gateway.LoginResult{Token: signedToken(t, jwt.MapClaims{"exp": now.Add(time.Hour).Unix()})}}
	m := NewManager(auth, NewMemoryStore(), nil)

	_, err := m.Authenticate(context.Background(), "c1", creds)
	require.NoError(t, err)

	second := signedToken(t, jwt.MapClaims{"exp": now.Add(2 * time.Hour).Unix(), "sub": "2"})
	auth.res = &gateway.LoginResult{Token: second}
	_, err = m.Authenticate(context.Background(), "c1", creds)
	require.NoError(t, err)

	cur, err := m.Current(context.Background(), "c1")
	require.NoError(t, err)
	require.Equal(t, second, cur.Token)
}

func TestAuthenticate_InvalidCredentials(t *testing.T) {
	store := NewMemoryStore()
	m := NewManager(&fakeAuth{err: &gateway.Error{Op: "login", Kind: gateway.KindUnauthorized, Status: 401, Message: "salah"}}, store, nil)

	_, err := m.Authenticate(context.Background(), "c1", creds)
	require.ErrorIs(t, err, ErrInvalidCredentials)
	require.Equal(t, "salah", gateway.MessageOf(err))

	_, err = store.Load(context.Background(), "c1")
	require.ErrorIs(t, err, ErrNoSession)
}

func TestAuthenticate_MalformedToken(t *testing.T) {
	cases := map[string]string{
		"garbage":  "not-a-jwt",
		"no exp":   signedToken(t, jwt.MapClaims{"sub": "1"}),
		"bad type": signedToken(t, jwt.MapClaims{"exp": "tomorrow"}),
	}
	for name, tok := range cases {
		m := NewManager(&fakeAuth{res: &gateway.LoginResult{Token: tok}}, NewMemoryStore(), nil)
		_, err := m.Authenticate(context.Background(), "c1", creds)
		require.ErrorIs(t, err, ErrMalformedToken, name)
	}
}

func TestAuthenticate_GatewayDownIsNotAuthError(t *testing.T) {
	m := NewManager(&fakeAuth{err: &gateway.Error{Op: "login", Kind: gateway.KindUnavailable}}, NewMemoryStore(), nil)

	_, err := m.Authenticate(context.Background(), "c1", creds)
	require.Error(t, err)
	require.False(t, errors.Is(err, ErrInvalidCredentials))
	require.Equal(t, gateway.KindUnavailable, gateway.KindOf(err))
}

func TestValidAt_Boundary(t *testing.T) {
	exp := time.Date(2024, 1, 1, 9, 0, 0, 0, time.UTC)
	s := &Session{Token: "t", ExpiresAt: exp}

	require.True(t, s.ValidAt(exp.Add(-time.Nanosecond)))
	require.True(t, s.ValidAt(exp.Add(-time.Hour)))
	require.False(t, s.ValidAt(exp))
	require.False(t, s.ValidAt(exp.Add(time.Second)))

	require.False(t, (&Session{ExpiresAt: exp}).ValidAt(exp.Add(-time.Hour)))
	var none *Session
	require.False(t, none.ValidAt(exp))
}

func TestClear(t *testing.T) {
	tok := signedToken(t, jwt.MapClaims{"exp": time.Now().Add(time.Hour).Unix()})
	m := NewManager(&fakeAuth{res: &gateway.LoginResult{Token: tok}}, NewMemoryStore(), nil)
	_, err := m.Authenticate(context.Background(), "c1", creds)
	require.NoError(t, err)

	require.NoError(t, m.Clear(context.Background(), "c1"))

	_, err = m.Current(context.Background(), "c1")
	require.ErrorIs(t, err, ErrNoSession)
	require.ErrorIs(t, Require(m, nil), ErrUnauthenticated)
}

func TestMemoryStore_TTL(t *testing.T) {
	now := time.Now()
	s := NewMemoryStore()
	s.now = func() time.Time { return now }
	require.NoError(t, s.Save(context.Background(), "c1", Record{Token: "t"}, time.Minute))

	now = now.Add(time.Minute)
	_, err := s.Load(context.Background(), "c1")
	require.ErrorIs(t, err, ErrNoSession)
}

func TestAuthenticate_FractionalExpMatchesCurrent(t *testing.T) {
	now := time.Date(2024, 1, 1, 8, 0, 0, 0, time.UTC)
	exp := float64(now.Add(time.Hour).Unix()) + 0.75
	tok := signedToken(t, jwt.MapClaims{"exp": exp})
	m := NewManager(&fakeAuth{res: &gateway.LoginResult{Token: tok}}, NewMemoryStore(), nil).
		WithClock(func() time.Time { return now })

	s, err := m.Authenticate(context.Background(), "c1", creds)
	require.NoError(t, err)
	cur, err := m.Current(context.Background(), "c1")
	require.NoError(t, err)

	require.True(t, s.ExpiresAt.Equal(cur.ExpiresAt), "%v vs %v", s.ExpiresAt, cur.ExpiresAt)
	require.Equal(t, now.Add(time.Hour).Unix(), s.ExpiresAt.Unix())
}
