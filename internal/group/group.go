package group

import (
	"context"
	"time"

	errors "github.com/wofodev/meerkat/internal"
	"github.com/wofodev/meerkat/internal/core/common/validation"
	directoryDatamodel "github.com/wofodev/meerkat/internal/core/datamodel/directory"
)

type Group struct {
	GroupCode string    `json:"group_code"`
	GroupName string    `json:"group_name"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func FromDataModel(m *directoryDatamodel.Group) *Group {
	return &Group{
		GroupCode: m.GroupCode,
		GroupName: m.GroupName,
		CreatedAt: m.CreatedAt,
		UpdatedAt: m.UpdatedAt,
	}
}

func (g *Group) ToResponse() GroupResponse {
	return GroupResponse{GroupCode: g.GroupCode, GroupName: g.GroupName}
}

type GroupDTO struct {
	GroupCode string `json:"group_code"`
	GroupName string `json:"group_name"`
}

func (d GroupDTO) Validate() *errors.AppError {
	v := validation.NewValidator()
	v.Field("group_code", d.GroupCode).Required().MaxLength(64)
	v.Field("group_name", d.GroupName).Required().MaxLength(255)
	return v.Validate()
}

type GroupResponse struct {
	GroupCode string `json:"group_code"`
	GroupName string `json:"group_name"`
}

type GroupsResponse struct {
	Groups []GroupResponse `json:"groups"`
}

type RepositoryAPI interface {
	GetAll(ctx context.Context) ([]*directoryDatamodel.Group, error)
	GetByCode(ctx context.Context, code string) (*directoryDatamodel.Group, error)
	Create(ctx context.Context, g *directoryDatamodel.Group) error
	Rename(ctx context.Context, originalCode string, g *directoryDatamodel.Group) error
	Delete(ctx context.Context, code string) error
	GrantCount(ctx context.Context, code string) (int64, error)
}
