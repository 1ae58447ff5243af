package report

import (
	"context"
	"log/slog"

	errors "github.com/wofodev/meerkat/internal"
	"github.com/wofodev/meerkat/internal/authz"
)

// Authorizer is the slice of the access evaluator the report menu needs.
type Authorizer interface {
	ListAccessiblePages(ctx context.Context, userCode, refPrefix string) ([]authz.PageAccess, error)
	ListSections(ctx context.Context, userCode string) ([]string, error)
	HasAccess(ctx context.Context, userCode, sectionName string) (bool, error)
}

type Service struct {
	registry *Registry
	authz    Authorizer
	logger   *slog.Logger
}

func NewService(registry *Registry, authorizer Authorizer, logger *slog.Logger) *Service {
	return &Service{
		registry: registry,
		authz:    authorizer,
		logger:   logger,
	}
}

// AccessibleReports intersects the user's granted pages with the registry.
// A grant whose reference is not registered is silently dropped; a store
// failure denies everything.
func (s *Service) AccessibleReports(ctx context.Context, userCode, refPrefix string) ([]Descriptor, error) {
	pages, err := s.authz.ListAccessiblePages(ctx, userCode, refPrefix)
	if err != nil {
		return nil, errors.NewUnavailableError("could not evaluate report access", err)
	}

	out := make([]Descriptor, 0, len(pages))
	for _, p := range pages {
		d, ok := s.registry.Lookup(p.PageRef)
		if !ok {
			s.logger.Warn("grant references unregistered report", "user_code", userCode, "page_ref", p.PageRef)
			continue
		}
		out = append(out, d)
	}
	return out, nil
}

// AccessibleSections returns the section names the user can reach, for
// building the dashboard navigation.
func (s *Service) AccessibleSections(ctx context.Context, userCode string) ([]string, error) {
	sections, err := s.authz.ListSections(ctx, userCode)
	if err != nil {
		return nil, errors.NewUnavailableError("could not list sections", err)
	}
	return sections, nil
}

// OpenReport resolves a single report for rendering, checking the user's
// access to the report's section first.
func (s *Service) OpenReport(ctx context.Context, userCode, ref string) (*Descriptor, error) {
	d, ok := s.registry.Lookup(ref)
	if !ok {
		return nil, errors.NewNotFoundError("report", ref)
	}

	allowed, err := s.authz.HasAccess(ctx, userCode, d.Section)
	if err != nil {
		return nil, errors.NewUnavailableError("could not evaluate report access", err)
	}
	if !allowed {
		return nil, errors.NewForbiddenError("access to this report is not granted", errors.ErrCodeAccessDenied)
	}
	return &d, nil
}
