package page

import (
	"context"
	"log/slog"

	errors "github.com/wofodev/meerkat/internal"
	directoryDatamodel "github.com/wofodev/meerkat/internal/core/datamodel/directory"
	"github.com/wofodev/meerkat/internal/core/storeerr"
)

type Service struct {
	repo   RepositoryAPI
	logger *slog.Logger
}

func NewService(repo RepositoryAPI, logger *slog.Logger) *Service {
	return &Service{repo: repo, logger: logger}
}

func (s *Service) CreatePage(ctx context.Context, dto PageDTO) (*PageResponse, error) {
	if appErr := dto.Validate(); appErr != nil {
		return nil, appErr
	}

	model := &directoryDatamodel.Page{
		PageRef:  dto.PageRef,
		PageName: dto.PageName,
	}
	if err := s.repo.Create(ctx, model); err != nil {
		if storeerr.IsDuplicate(err) {
			return nil, errors.NewDuplicateKeyError("page", dto.PageRef)
		}
		s.logger.Error("failed to create page", "page_ref", dto.PageRef, "error", err)
		return nil, errors.NewUnavailableError("could not create page", err)
	}

	resp := FromDataModel(model).ToResponse()
	return &resp, nil
}

func (s *Service) ListPages(ctx context.Context) ([]PageResponse, error) {
	models, err := s.repo.GetAll(ctx)
	if err != nil {
		s.logger.Error("failed to list pages", "error", err)
		return nil, errors.NewUnavailableError("could not list pages", err)
	}

	responses := make([]PageResponse, 0, len(models))
	for _, m := range models {
		responses = append(responses, FromDataModel(m).ToResponse())
	}
	return responses, nil
}

func (s *Service) UpdatePage(ctx context.Context, originalRef string, dto PageDTO) (*PageResponse, error) {
	if appErr := dto.Validate(); appErr != nil {
		return nil, appErr
	}

	existing, err := s.repo.GetByRef(ctx, originalRef)
	if err != nil {
		if storeerr.IsNotFound(err) {
			return nil, errors.NewNotFoundError("page", originalRef)
		}
		return nil, errors.NewUnavailableError("could not load page", err)
	}

	existing.PageRef = dto.PageRef
	existing.PageName = dto.PageName

	if err := s.repo.Rename(ctx, originalRef, existing); err != nil {
		if storeerr.IsDuplicate(err) {
			return nil, errors.NewDuplicateKeyError("page", dto.PageRef)
		}
		if storeerr.IsNotFound(err) {
			return nil, errors.NewNotFoundError("page", originalRef)
		}
		s.logger.Error("failed to update page", "page_ref", originalRef, "error", err)
		return nil, errors.NewUnavailableError("could not update page", err)
	}

	resp := FromDataModel(existing).ToResponse()
	return &resp, nil
}

func (s *Service) DeletePage(ctx context.Context, ref string) error {
	count, err := s.repo.GrantCount(ctx, ref)
	if err != nil {
		return errors.NewUnavailableError("could not check page grants", err)
	}
	if count > 0 {
		return errors.NewReferentialConflictError("page", ref)
	}

	if err := s.repo.Delete(ctx, ref); err != nil {
		if storeerr.IsNotFound(err) {
			return errors.NewNotFoundError("page", ref)
		}
		s.logger.Error("failed to delete page", "page_ref", ref, "error", err)
		return errors.NewUnavailableError("could not delete page", err)
	}
	return nil
}
