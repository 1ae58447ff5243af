package auth

import (
	"context"
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/wofodev/meerkat/internal"
)

// ServiceAPI is the authentication surface consumed by the HTTP boundary.
type ServiceAPI interface {
	Authenticate(ctx context.Context, dto LoginDTO) (SessionToken, error)
	ValidateSessionToken(tokenString string) (*Claims, error)
	ResolveSession(ctx context.Context, claims *Claims) (*internal.Session, error)
}

// RepositoryAPI looks up the (code, digest) credential pair. A miss returns
// (nil, nil); only store failures are errors.
type RepositoryAPI interface {
	LookupCredentials(ctx context.Context, userCode, digest string) (*CredentialRecord, error)
}

// GroupResolver resolves the effective group for a freshly built session.
type GroupResolver interface {
	EffectiveGroup(ctx context.Context, userCode string) (string, error)
}

// CredentialRecord is what the credential store returns on a successful
// pair lookup. The digest itself never leaves the store query.
type CredentialRecord struct {
	UserCode string
	UserName string
}

// Claims carried in the session token.
type Claims struct {
	UserCode string `json:"user_code"`
	UserName string `json:"user_name"`
	jwt.RegisteredClaims
}

// SessionToken is the transport representation of a logged-in session.
type SessionToken struct {
	Token     string    `json:"session_token"`
	UserCode  string    `json:"user_code"`
	UserName  string    `json:"user_name"`
	ExpiresAt time.Time `json:"expires_at"`
}

var (
	ErrMissingCredentials = errors.New("missing credentials")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrInvalidToken       = errors.New("invalid token")
	ErrTokenExpired       = errors.New("token expired")
	ErrStoreUnavailable   = errors.New("credential store unavailable")
)
