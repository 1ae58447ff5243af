package authz

import (
	"context"
	"fmt"
	"log/slog"
)

// Service answers "may user U see section S / page P" questions. Every
// evaluation is fail-closed: a store error always comes back alongside a
// deny answer, never a grant.
type Service struct {
	repo   RepositoryAPI
	logger *slog.Logger
}

func NewService(repo RepositoryAPI, logger *slog.Logger) *Service {
	return &Service{
		repo:   repo,
		logger: logger,
	}
}

// HasAccess reports whether the user holds a direct grant or inherits one
// through any group linked to them, scoped to the named section. The
// evaluation is a single relational join in the repository, not separate
// direct and group passes.
func (s *Service) HasAccess(ctx context.Context, userCode, sectionName string) (bool, error) {
	allowed, err := s.repo.HasSectionAccess(ctx, userCode, sectionName)
	if err != nil {
		s.logger.Error("access check failed", "user_code", userCode, "section", sectionName, "error", err)
		return false, fmt.Errorf("%w: %v", ErrAuthorizationUnavailable, err)
	}
	return allowed, nil
}

// ListAccessiblePages returns the pages the user may open, optionally
// filtered by a reference prefix (a feature family such as "R_S"). The
// result is de-duplicated by page name.
func (s *Service) ListAccessiblePages(ctx context.Context, userCode, refPrefix string) ([]PageAccess, error) {
	pages, err := s.repo.AccessiblePages(ctx, userCode, refPrefix)
	if err != nil {
		s.logger.Error("page listing failed", "user_code", userCode, "prefix", refPrefix, "error", err)
		return nil, fmt.Errorf("%w: %v", ErrAuthorizationUnavailable, err)
	}

	seen := make(map[string]bool, len(pages))
	deduped := make([]PageAccess, 0, len(pages))
	for _, p := range pages {
		if seen[p.PageName] {
			continue
		}
		seen[p.PageName] = true
		deduped = append(deduped, p)
	}
	return deduped, nil
}

// ListSections returns the distinct section names the user can reach.
func (s *Service) ListSections(ctx context.Context, userCode string) ([]string, error) {
	sections, err := s.repo.AccessibleSections(ctx, userCode)
	if err != nil {
		s.logger.Error("section listing failed", "user_code", userCode, "error", err)
		return nil, fmt.Errorf("%w: %v", ErrAuthorizationUnavailable, err)
	}
	return sections, nil
}

// EffectiveGroup resolves the single group used for admin gating: the group
// of the user's grant with the smallest grant id. No group membership yields
// an empty name with no error.
func (s *Service) EffectiveGroup(ctx context.Context, userCode string) (string, error) {
	group, err := s.repo.EffectiveGroup(ctx, userCode)
	if err != nil {
		s.logger.Error("effective group lookup failed", "user_code", userCode, "error", err)
		return "", fmt.Errorf("%w: %v", ErrAuthorizationUnavailable, err)
	}
	return group, nil
}

// IsAdmin reports whether the user's effective group is the admin group.
func (s *Service) IsAdmin(ctx context.Context, userCode string) (bool, error) {
	group, err := s.EffectiveGroup(ctx, userCode)
	if err != nil {
		return false, err
	}
	return group == AdminGroupName, nil
}
