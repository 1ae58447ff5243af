package group

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

func (s *Service) CreateGroup(ctx context.Context, dto GroupDTO) (*GroupResponse, error) {
	if appErr := dto.Validate(); appErr != nil {
		return nil, appErr
	}

	model := &directoryDatamodel.Group{
		GroupCode: dto.GroupCode,
		GroupName: dto.GroupName,
	}
	if err := s.repo.Create(ctx, model); err != nil {
		if storeerr.IsDuplicate(err) {
			return nil, errors.NewDuplicateKeyError("group", dto.GroupCode)
		}
		s.logger.Error("failed to create group", "group_code", dto.GroupCode, "error", err)
		return nil, errors.NewUnavailableError("could not create group", err)
	}

	s.logger.Info("group created", "group_code", dto.GroupCode)
	resp := FromDataModel(model).ToResponse()
	return &resp, nil
}

func (s *Service) ListGroups(ctx context.Context) ([]GroupResponse, error) {
	models, err := s.repo.GetAll(ctx)
	if err != nil {
		s.logger.Error("failed to list groups", "error", err)
		return nil, errors.NewUnavailableError("could not list groups", err)
	}

	responses := make([]GroupResponse, 0, len(models))
	for _, m := range models {
		responses = append(responses, FromDataModel(m).ToResponse())
	}
	return responses, nil
}

func (s *Service) UpdateGroup(ctx context.Context, originalCode string, dto GroupDTO) (*GroupResponse, error) {
	if appErr := dto.Validate(); appErr != nil {
		return nil, appErr
	}

	existing, err := s.repo.GetByCode(ctx, originalCode)
	if err != nil {
		if storeerr.IsNotFound(err) {
			return nil, errors.NewNotFoundError("group", originalCode)
		}
		return nil, errors.NewUnavailableError("could not load group", err)
	}

	existing.GroupCode = dto.GroupCode
	existing.GroupName = dto.GroupName

	if err := s.repo.Rename(ctx, originalCode, existing); err != nil {
		if storeerr.IsDuplicate(err) {
			return nil, errors.NewDuplicateKeyError("group", dto.GroupCode)
		}
		if storeerr.IsNotFound(err) {
			return nil, errors.NewNotFoundError("group", originalCode)
		}
		s.logger.Error("failed to update group", "group_code", originalCode, "error", err)
		return nil, errors.NewUnavailableError("could not update group", err)
	}

	resp := FromDataModel(existing).ToResponse()
	return &resp, nil
}

func (s *Service) DeleteGroup(ctx context.Context, code string) error {
	count, err := s.repo.GrantCount(ctx, code)
	if err != nil {
		return errors.NewUnavailableError("could not check group grants", err)
	}
	if count > 0 {
		return errors.NewReferentialConflictError("group", code)
	}

	if err := s.repo.Delete(ctx, code); err != nil {
		if storeerr.IsNotFound(err) {
			return errors.NewNotFoundError("group", code)
		}
		s.logger.Error("failed to delete group", "group_code", code, "error", err)
		return errors.NewUnavailableError("could not delete group", err)
	}

	s.logger.Info("group deleted", "group_code", code)
	return nil
}
