package auth

import (
	"crypto/sha256"
	"crypto/subtle"
	"net/http"
	"strings"
	"time"

	"github.com/alexedwards/argon2id"
	"github.com/lestrrat-go/jwx/v2/jwa"
	"github.com/lestrrat-go/jwx/v2/jwt"

	"github.com/noah-isme/proposal-api/internal/common"
)

const (
	tokenIssuer   = "proposal-api"
	tokenAudience = "proposal-api"
)

var (
	errBadPassword = common.NewAppError("UNAUTHORIZED", "invalid password", http.StatusUnauthorized, nil)
	errBadSession  = common.NewAppError("UNAUTHORIZED", "missing or invalid session", http.StatusUnauthorized, nil)
)

// Service implements the shared-password session gate. The whole team shares
// one password; a successful login yields a short-lived signed session token
// carried in a cookie. There are no user accounts.
type Service struct {
	// PasswordHash is either an argon2id hash (recommended) or, for local
	// development, the plain shared password.
	PasswordHash  string
	SessionSecret []byte
	SessionTTL    time.Duration
	Now           func() time.Time

	validator TokenValidator
}

// NewService wires a session service with sane defaults.
func NewService(passwordHash string, secret []byte, ttl time.Duration) *Service {
	if ttl <= 0 {
		ttl = 12 * time.Hour
	}
	return &Service{
		PasswordHash:  passwordHash,
		SessionSecret: secret,
		SessionTTL:    ttl,
		validator: TokenValidator{
			Issuer:    tokenIssuer,
			Audience:  tokenAudience,
			ClockSkew: time.Minute,
			Algorithm: jwa.HS256,
		},
	}
}

// VerifyPassword checks the shared password. Argon2id hashes are detected by
// prefix; anything else is compared in constant time against the configured
// value so a plain dev password does not leak through timing.
func (s *Service) VerifyPassword(password string) error {
	if s.PasswordHash == "" || password == "" {
		return errBadPassword
	}
	if strings.HasPrefix(s.PasswordHash, "$argon2id$") {
		match, err := argon2id.ComparePasswordAndHash(password, s.PasswordHash)
		if err != nil || !match {
			return errBadPassword
		}
		return nil
	}
	want := sha256.Sum256([]byte(s.PasswordHash))
	got := sha256.Sum256([]byte(password))
	if subtle.ConstantTimeCompare(want[:], got[:]) != 1 {
		return errBadPassword
	}
	return nil
}

// IssueSession builds and signs a session token.
func (s *Service) IssueSession() (string, time.Time, error) {
	now := s.now()
	expiry := now.Add(s.SessionTTL)
	token, err := jwt.NewBuilder().
		Subject("sales-team").
		Issuer(tokenIssuer).
		Audience([]string{tokenAudience}).
		IssuedAt(now).
		Expiration(expiry).
		Build()
	if err != nil {
		return "", time.Time{}, common.NewAppError("INTERNAL", "failed to build session token", http.StatusInternalServerError, err)
	}
	signed, err := jwt.Sign(token, jwt.WithKey(jwa.HS256, s.SessionSecret))
	if err != nil {
		return "", time.Time{}, common.NewAppError("INTERNAL", "failed to sign session token", http.StatusInternalServerError, err)
	}
	return string(signed), expiry, nil
}

// ParseSession verifies a session token's signature and claims.
func (s *Service) ParseSession(raw string) error {
	tok, err := jwt.ParseString(raw, jwt.WithKey(jwa.HS256, s.SessionSecret), jwt.WithValidate(false))
	if err != nil {
		return errBadSession
	}
	if err := s.validator.Validate(tok, jwa.HS256, s.now()); err != nil {
		return errBadSession
	}
	return nil
}

func (s *Service) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return time.Now()
}
