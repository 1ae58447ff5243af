package user

import (
	"context"
	"log/slog"

	errors "github.com/wofodev/meerkat/internal"
	directoryDatamodel "github.com/wofodev/meerkat/internal/core/datamodel/directory"
	"github.com/wofodev/meerkat/internal/core/events"
	"github.com/wofodev/meerkat/internal/core/storeerr"
)

// Digester is the one-way credential digest shared with the authenticator.
type Digester interface {
	Digest(rawPassword string) string
}

type RepositoryAPI interface {
	GetAll(ctx context.Context) ([]*directoryDatamodel.User, error)
	GetByCode(ctx context.Context, code string) (*directoryDatamodel.User, error)
	Create(ctx context.Context, u *directoryDatamodel.User) error
	Rename(ctx context.Context, originalCode string, u *directoryDatamodel.User) error
	Delete(ctx context.Context, code string) error
	UpdatePassword(ctx context.Context, code, digest string) error
	GrantCount(ctx context.Context, code string) (int64, error)
}

type Service struct {
	repo     RepositoryAPI
	digester Digester
	bus      *events.EventBus
	logger   *slog.Logger
}

func NewService(repo RepositoryAPI, digester Digester, bus *events.EventBus, logger *slog.Logger) *Service {
	return &Service{
		repo:     repo,
		digester: digester,
		bus:      bus,
		logger:   logger,
	}
}

// CreateUser validates, digests the password, and writes one row in one
// transaction. The raw password is digested before it touches the store
// layer and is never logged.
func (s *Service) CreateUser(ctx context.Context, dto CreateUserDTO) (*UserResponse, error) {
	if appErr := dto.Validate(); appErr != nil {
		return nil, appErr
	}

	model := &directoryDatamodel.User{
		UserCode: dto.UserCode,
		UserName: dto.UserName,
		Password: s.digester.Digest(dto.Password),
	}

	if err := s.repo.Create(ctx, model); err != nil {
		if storeerr.IsDuplicate(err) {
			return nil, errors.NewDuplicateKeyError("user", dto.UserCode)
		}
		s.logger.Error("failed to create user", "user_code", dto.UserCode, "error", err)
		return nil, errors.NewUnavailableError("could not create user", err)
	}

	s.publish(ctx, events.NewUserCreatedEvent(dto.UserCode, dto.UserName))
	s.logger.Info("user created", "user_code", dto.UserCode)

	resp := FromDataModel(model).ToResponse()
	return &resp, nil
}

// ListUsers returns users in primary-key order, stable for display binding.
func (s *Service) ListUsers(ctx context.Context) ([]UserResponse, error) {
	models, err := s.repo.GetAll(ctx)
	if err != nil {
		s.logger.Error("failed to list users", "error", err)
		return nil, errors.NewUnavailableError("could not list users", err)
	}

	responses := make([]UserResponse, 0, len(models))
	for _, m := range models {
		responses = append(responses, FromDataModel(m).ToResponse())
	}
	return responses, nil
}

// UpdateUser renames a user. A primary-key change rewrites dependent access
// grants inside the same transaction so no grant is orphaned.
func (s *Service) UpdateUser(ctx context.Context, originalCode string, dto UpdateUserDTO) (*UserResponse, error) {
	if appErr := dto.Validate(); appErr != nil {
		return nil, appErr
	}

	existing, err := s.repo.GetByCode(ctx, originalCode)
	if err != nil {
		if storeerr.IsNotFound(err) {
			return nil, errors.NewNotFoundError("user", originalCode)
		}
		return nil, errors.NewUnavailableError("could not load user", err)
	}

	existing.UserCode = dto.UserCode
	existing.UserName = dto.UserName

	if err := s.repo.Rename(ctx, originalCode, existing); err != nil {
		if storeerr.IsDuplicate(err) {
			return nil, errors.NewDuplicateKeyError("user", dto.UserCode)
		}
		if storeerr.IsNotFound(err) {
			return nil, errors.NewNotFoundError("user", originalCode)
		}
		s.logger.Error("failed to update user", "user_code", originalCode, "error", err)
		return nil, errors.NewUnavailableError("could not update user", err)
	}

	s.logger.Info("user updated", "user_code", originalCode, "new_code", dto.UserCode)

	resp := FromDataModel(existing).ToResponse()
	return &resp, nil
}

// DeleteUser rejects the delete while grants still reference the user.
func (s *Service) DeleteUser(ctx context.Context, code string) error {
	count, err := s.repo.GrantCount(ctx, code)
	if err != nil {
		return errors.NewUnavailableError("could not check user grants", err)
	}
	if count > 0 {
		return errors.NewReferentialConflictError("user", code)
	}

	if err := s.repo.Delete(ctx, code); err != nil {
		if storeerr.IsNotFound(err) {
			return errors.NewNotFoundError("user", code)
		}
		s.logger.Error("failed to delete user", "user_code", code, "error", err)
		return errors.NewUnavailableError("could not delete user", err)
	}

	s.publish(ctx, events.NewUserDeletedEvent(code))
	s.logger.Info("user deleted", "user_code", code)
	return nil
}

// ChangePassword is the privileged credential mutation. A blank password is
// rejected before any store call.
func (s *Service) ChangePassword(ctx context.Context, code string, dto ChangePasswordDTO) error {
	if appErr := dto.Validate(); appErr != nil {
		return appErr
	}

	if _, err := s.repo.GetByCode(ctx, code); err != nil {
		if storeerr.IsNotFound(err) {
			return errors.NewNotFoundError("user", code)
		}
		return errors.NewUnavailableError("could not load user", err)
	}

	if err := s.repo.UpdatePassword(ctx, code, s.digester.Digest(dto.NewPassword)); err != nil {
		s.logger.Error("failed to change password", "user_code", code, "error", err)
		return errors.NewUnavailableError("could not change password", err)
	}

	s.publish(ctx, events.NewPasswordChangedEvent(code))
	s.logger.Info("password changed", "user_code", code)
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
