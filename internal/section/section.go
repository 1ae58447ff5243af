package section

import (
	"context"
	"time"

	errors "github.com/wofodev/meerkat/internal"
	"github.com/wofodev/meerkat/internal/core/common/validation"
	directoryDatamodel "github.com/wofodev/meerkat/internal/core/datamodel/directory"
)

// Section is a business-domain scoping dimension for grants, e.g. "Sales".
type Section struct {
	SectionCode string    `json:"section_code"`
	SectionName string    `json:"section_name"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

func FromDataModel(m *directoryDatamodel.Section) *Section {
	return &Section{
		SectionCode: m.SectionCode,
		SectionName: m.SectionName,
		CreatedAt:   m.CreatedAt,
		UpdatedAt:   m.UpdatedAt,
	}
}

func (s *Section) ToResponse() SectionResponse {
	return SectionResponse{SectionCode: s.SectionCode, SectionName: s.SectionName}
}

type SectionDTO struct {
	SectionCode string `json:"section_code"`
	SectionName string `json:"section_name"`
}

func (d SectionDTO) Validate() *errors.AppError {
	v := validation.NewValidator()
	v.Field("section_code", d.SectionCode).Required().MaxLength(64)
	v.Field("section_name", d.SectionName).Required().MaxLength(255)
	return v.Validate()
}

type SectionResponse struct {
	SectionCode string `json:"section_code"`
	SectionName string `json:"section_name"`
}

type SectionsResponse struct {
	Sections []SectionResponse `json:"sections"`
}

type RepositoryAPI interface {
	GetAll(ctx context.Context) ([]*directoryDatamodel.Section, error)
	GetByCode(ctx context.Context, code string) (*directoryDatamodel.Section, error)
	Create(ctx context.Context, s *directoryDatamodel.Section) error
	Rename(ctx context.Context, originalCode string, s *directoryDatamodel.Section) error
	Delete(ctx context.Context, code string) error
	GrantCount(ctx context.Context, code string) (int64, error)
}
