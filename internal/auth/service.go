package auth

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/wofodev/meerkat/internal"
)

// Service authenticates users against the credential store and builds
// request-scoped sessions.
type Service struct {
	repo     RepositoryAPI
	digester *PasswordDigester
	tokens   *SessionTokenIssuer
	groups   GroupResolver
	logger   *slog.Logger
}

func NewService(repo RepositoryAPI, digester *PasswordDigester, tokens *SessionTokenIssuer, groups GroupResolver, logger *slog.Logger) *Service {
	return &Service{
		repo:     repo,
		digester: digester,
		tokens:   tokens,
		groups:   groups,
		logger:   logger,
	}
}

// Authenticate verifies the code+password pair and issues a session token.
// Unknown code and wrong password are indistinguishable to the caller.
func (s *Service) Authenticate(ctx context.Context, dto LoginDTO) (SessionToken, error) {
	if err := dto.Validate(); err != nil {
		return SessionToken{}, err
	}

	digest := s.digester.Digest(dto.Password)

	record, err := s.repo.LookupCredentials(ctx, dto.UserCode, digest)
	if err != nil {
		s.logger.Error("credential lookup failed", "error", err)
		return SessionToken{}, fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}
	if record == nil {
		return SessionToken{}, ErrInvalidCredentials
	}

	token, expiresAt, err := s.tokens.Issue(record.UserCode, record.UserName)
	if err != nil {
		s.logger.Error("failed to issue session token", "error", err)
		return SessionToken{}, err
	}

	s.logger.Info("user authenticated", "user_code", record.UserCode)

	return SessionToken{
		Token:     token,
		UserCode:  record.UserCode,
		UserName:  record.UserName,
		ExpiresAt: expiresAt,
	}, nil
}

func (s *Service) ValidateSessionToken(tokenString string) (*Claims, error) {
	return s.tokens.Validate(tokenString)
}

// ResolveSession rebuilds the request-scoped session from validated claims.
// Effective-group resolution is fail-closed: a store failure propagates and
// the caller must deny, never proceed with an empty group.
func (s *Service) ResolveSession(ctx context.Context, claims *Claims) (*internal.Session, error) {
	group, err := s.groups.EffectiveGroup(ctx, claims.UserCode)
	if err != nil {
		s.logger.Error("effective group resolution failed", "user_code", claims.UserCode, "error", err)
		return nil, fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}

	return &internal.Session{
		UserCode:       claims.UserCode,
		UserName:       claims.UserName,
		EffectiveGroup: group,
		LoggedIn:       true,
	}, nil
}
