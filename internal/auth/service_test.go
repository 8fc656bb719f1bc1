package auth

import (
	"testing"
	"time"

	"github.com/alexedwards/argon2id"
	"github.com/stretchr/testify/require"
)

func TestVerifyPasswordPlain(t *testing.T) {
	svc := NewService("letmein", []byte("secret"), time.Hour)

	require.NoError(t, svc.VerifyPassword("letmein"))
	require.Error(t, svc.VerifyPassword("wrong"))
	require.Error(t, svc.VerifyPassword(""))
}

func TestVerifyPasswordArgon2id(t *testing.T) {
	hash, err := argon2id.CreateHash("letmein", argon2id.DefaultParams)
	require.NoError(t, err)

	svc := NewService(hash, []byte("secret"), time.Hour)
	require.NoError(t, svc.VerifyPassword("letmein"))
	require.Error(t, svc.VerifyPassword("wrong"))
}

func TestVerifyPasswordUnconfigured(t *testing.T) {
	svc := NewService("", []byte("secret"), time.Hour)
	require.Error(t, svc.VerifyPassword("anything"))
}

func TestSessionRoundTrip(t *testing.T) {
	svc := NewService("letmein", []byte("0123456789abcdef0123456789abcdef"), time.Hour)

	token, expiry, err := svc.IssueSession()
	require.NoError(t, err)
	require.NotEmpty(t, token)
	require.WithinDuration(t, time.Now().Add(time.Hour), expiry, 5*time.Second)

	require.NoError(t, svc.ParseSession(token))
}

func TestSessionRejectsWrongSecret(t *testing.T) {
	issuer := NewService("letmein", []byte("0123456789abcdef0123456789abcdef"), time.Hour)
	token, _, err := issuer.IssueSession()
	require.NoError(t, err)

	other := NewService("letmein", []byte("another-secret-another-secret-ok"), time.Hour)
	require.Error(t, other.ParseSession(token))
}

func TestSessionRejectsExpiredToken(t *testing.T) {
	svc := NewService("letmein", []byte("0123456789abcdef0123456789abcdef"), time.Hour)
	svc.Now = func() time.Time { return time.Now().Add(-3 * time.Hour) }

	token, _, err := svc.IssueSession()
	require.NoError(t, err)

	svc.Now = nil
	require.Error(t, svc.ParseSession(token), "token issued three hours ago with a one hour TTL")
}

func TestSessionRejectsGarbage(t *testing.T) {
	svc := NewService("letmein", []byte("0123456789abcdef0123456789abcdef"), time.Hour)
	require.Error(t, svc.ParseSession("not-a-token"))
}
