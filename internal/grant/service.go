package grant

import (
	"context"
	"fmt"
	"log/slog"

	errors "github.com/wofodev/meerkat/internal"
	directoryDatamodel "github.com/wofodev/meerkat/internal/core/datamodel/directory"
	"github.com/wofodev/meerkat/internal/core/events"
	"github.com/wofodev/meerkat/internal/core/storeerr"
)

type Service struct {
	repo   RepositoryAPI
	bus    *events.EventBus
	logger *slog.Logger
}

func NewService(repo RepositoryAPI, bus *events.EventBus, logger *slog.Logger) *Service {
	return &Service{
		repo:   repo,
		bus:    bus,
		logger: logger,
	}
}

// CreateGrant enforces the referential rules before writing: user and page
// must exist, group/section must exist when present, and "acting under a
// group" requires that user-group linkage is already established by a prior
// grant.
func (s *Service) CreateGrant(ctx context.Context, dto CreateGrantDTO) (*Grant, error) {
	if appErr := dto.Validate(); appErr != nil {
		return nil, appErr
	}

	if err := s.checkReferences(ctx, dto); err != nil {
		return nil, err
	}

	model := &directoryDatamodel.AccessGrant{
		UserCode:    dto.UserCode,
		GroupCode:   dto.GroupCode,
		SectionCode: dto.SectionCode,
		PageRef:     dto.PageRef,
	}

	if err := s.repo.Create(ctx, model); err != nil {
		s.logger.Error("failed to create grant", "user_code", dto.UserCode, "page_ref", dto.PageRef, "error", err)
		return nil, errors.NewUnavailableError("could not create grant", err)
	}

	s.publish(ctx, events.NewGrantCreatedEvent(model.ID, model.UserCode, model.GroupCode, model.SectionCode, model.PageRef))
	s.logger.Info("grant created", "grant_id", model.ID, "user_code", dto.UserCode, "page_ref", dto.PageRef)

	return &Grant{
		ID:          model.ID,
		UserCode:    model.UserCode,
		GroupCode:   model.GroupCode,
		SectionCode: model.SectionCode,
		PageRef:     model.PageRef,
		CreatedAt:   model.CreatedAt,
	}, nil
}

func (s *Service) checkReferences(ctx context.Context, dto CreateGrantDTO) error {
	exists, err := s.repo.UserExists(ctx, dto.UserCode)
	if err != nil {
		return errors.NewUnavailableError("could not verify user", err)
	}
	if !exists {
		return errors.NewValidationError(fmt.Sprintf("user '%s' does not exist", dto.UserCode), errors.ErrCodeValidationFailed)
	}

	exists, err = s.repo.PageExists(ctx, dto.PageRef)
	if err != nil {
		return errors.NewUnavailableError("could not verify page", err)
	}
	if !exists {
		return errors.NewValidationError(fmt.Sprintf("page '%s' does not exist", dto.PageRef), errors.ErrCodeValidationFailed)
	}

	if dto.SectionCode != nil {
		exists, err = s.repo.SectionExists(ctx, *dto.SectionCode)
		if err != nil {
			return errors.NewUnavailableError("could not verify section", err)
		}
		if !exists {
			return errors.NewValidationError(fmt.Sprintf("section '%s' does not exist", *dto.SectionCode), errors.ErrCodeValidationFailed)
		}
	}

	if dto.GroupCode != nil {
		exists, err = s.repo.GroupExists(ctx, *dto.GroupCode)
		if err != nil {
			return errors.NewUnavailableError("could not verify group", err)
		}
		if !exists {
			return errors.NewValidationError(fmt.Sprintf("group '%s' does not exist", *dto.GroupCode), errors.ErrCodeValidationFailed)
		}

		linked, err := s.repo.UserLinkedToGroup(ctx, dto.UserCode, *dto.GroupCode)
		if err != nil {
			return errors.NewUnavailableError("could not verify group linkage", err)
		}
		if !linked {
			return errors.NewValidationError(
				fmt.Sprintf("user '%s' has no established link to group '%s'", dto.UserCode, *dto.GroupCode),
				errors.ErrCodeValidationFailed,
			)
		}
	}

	return nil
}

// ListGrants returns all grants joined with display names, in grant-id
// order.
func (s *Service) ListGrants(ctx context.Context) ([]Record, error) {
	records, err := s.repo.GetAll(ctx)
	if err != nil {
		s.logger.Error("failed to list grants", "error", err)
		return nil, errors.NewUnavailableError("could not list grants", err)
	}

	out := make([]Record, 0, len(records))
	for _, r := range records {
		out = append(out, *r)
	}
	return out, nil
}

// UpdateGrant rewrites a grant row in place, applying the same referential
// checks as creation.
func (s *Service) UpdateGrant(ctx context.Context, id int64, dto CreateGrantDTO) (*Grant, error) {
	if appErr := dto.Validate(); appErr != nil {
		return nil, appErr
	}
	if err := s.checkReferences(ctx, dto); err != nil {
		return nil, err
	}

	model := &directoryDatamodel.AccessGrant{
		UserCode:    dto.UserCode,
		GroupCode:   dto.GroupCode,
		SectionCode: dto.SectionCode,
		PageRef:     dto.PageRef,
	}

	if err := s.repo.Update(ctx, id, model); err != nil {
		if storeerr.IsNotFound(err) {
			return nil, errors.NewNotFoundError("grant", fmt.Sprintf("%d", id))
		}
		s.logger.Error("failed to update grant", "grant_id", id, "error", err)
		return nil, errors.NewUnavailableError("could not update grant", err)
	}

	model.ID = id
	return &Grant{
		ID:          id,
		UserCode:    model.UserCode,
		GroupCode:   model.GroupCode,
		SectionCode: model.SectionCode,
		PageRef:     model.PageRef,
	}, nil
}

func (s *Service) DeleteGrant(ctx context.Context, id int64) error {
	deleted, err := s.repo.Delete(ctx, id)
	if err != nil {
		if storeerr.IsNotFound(err) {
			return errors.NewNotFoundError("grant", fmt.Sprintf("%d", id))
		}
		s.logger.Error("failed to delete grant", "grant_id", id, "error", err)
		return errors.NewUnavailableError("could not delete grant", err)
	}

	s.publish(ctx, events.NewGrantRevokedEvent(deleted.ID, deleted.UserCode, deleted.PageRef))
	s.logger.Info("grant revoked", "grant_id", id, "user_code", deleted.UserCode, "page_ref", deleted.PageRef)
	return nil
}

func (s *Service) publish(ctx context.Context, event events.Event) {
	if s.bus == nil {
		return
	}
	if err := s.bus.Publish(ctx, event); err != nil {
		s.logger.Warn("failed to publish event", "event_type", event.EventType(), "error", err)
	}
}
