package section

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

func (s *Service) CreateSection(ctx context.Context, dto SectionDTO) (*SectionResponse, error) {
	if appErr := dto.Validate(); appErr != nil {
		return nil, appErr
	}

	model := &directoryDatamodel.Section{
		SectionCode: dto.SectionCode,
		SectionName: dto.SectionName,
	}
	if err := s.repo.Create(ctx, model); err != nil {
		if storeerr.IsDuplicate(err) {
			return nil, errors.NewDuplicateKeyError("section", dto.SectionCode)
		}
		s.logger.Error("failed to create section", "section_code", dto.SectionCode, "error", err)
		return nil, errors.NewUnavailableError("could not create section", err)
	}

	resp := FromDataModel(model).ToResponse()
	return &resp, nil
}

func (s *Service) ListSections(ctx context.Context) ([]SectionResponse, error) {
	models, err := s.repo.GetAll(ctx)
	if err != nil {
		s.logger.Error("failed to list sections", "error", err)
		return nil, errors.NewUnavailableError("could not list sections", err)
	}

	responses := make([]SectionResponse, 0, len(models))
	for _, m := range models {
		responses = append(responses, FromDataModel(m).ToResponse())
	}
	return responses, nil
}

func (s *Service) UpdateSection(ctx context.Context, originalCode string, dto SectionDTO) (*SectionResponse, error) {
	if appErr := dto.Validate(); appErr != nil {
		return nil, appErr
	}

	existing, err := s.repo.GetByCode(ctx, originalCode)
	if err != nil {
		if storeerr.IsNotFound(err) {
			return nil, errors.NewNotFoundError("section", originalCode)
		}
		return nil, errors.NewUnavailableError("could not load section", err)
	}

	existing.SectionCode = dto.SectionCode
	existing.SectionName = dto.SectionName

	if err := s.repo.Rename(ctx, originalCode, existing); err != nil {
		if storeerr.IsDuplicate(err) {
			return nil, errors.NewDuplicateKeyError("section", dto.SectionCode)
		}
		if storeerr.IsNotFound(err) {
			return nil, errors.NewNotFoundError("section", originalCode)
		}
		s.logger.Error("failed to update section", "section_code", originalCode, "error", err)
		return nil, errors.NewUnavailableError("could not update section", err)
	}

	resp := FromDataModel(existing).ToResponse()
	return &resp, nil
}

func (s *Service) DeleteSection(ctx context.Context, code string) error {
	count, err := s.repo.GrantCount(ctx, code)
	if err != nil {
		return errors.NewUnavailableError("could not check section grants", err)
	}
	if count > 0 {
		return errors.NewReferentialConflictError("section", code)
	}

	if err := s.repo.Delete(ctx, code); err != nil {
		if storeerr.IsNotFound(err) {
			return errors.NewNotFoundError("section", code)
		}
		s.logger.Error("failed to delete section", "section_code", code, "error", err)
		return errors.NewUnavailableError("could not delete section", err)
	}
	return nil
}
