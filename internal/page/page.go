package page

import (
	"context"
	"time"

	errors "github.com/wofodev/meerkat/internal"
	"github.com/wofodev/meerkat/internal/core/common/validation"
	directoryDatamodel "github.com/wofodev/meerkat/internal/core/datamodel/directory"
)

// Page is an addressable feature or report the system can gate access to.
// The reference is an admin-chosen stable key, e.g. "R_S01".
type Page struct {
	PageRef   string    `json:"page_ref"`
	PageName  string    `json:"page_name"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func FromDataModel(m *directoryDatamodel.Page) *Page {
	return &Page{
		PageRef:   m.PageRef,
		PageName:  m.PageName,
		CreatedAt: m.CreatedAt,
		UpdatedAt: m.UpdatedAt,
	}
}

func (p *Page) ToResponse() PageResponse {
	return PageResponse{PageRef: p.PageRef, PageName: p.PageName}
}

type PageDTO struct {
	PageRef  string `json:"page_ref"`
	PageName string `json:"page_name"`
}

func (d PageDTO) Validate() *errors.AppError {
	v := validation.NewValidator()
	v.Field("page_ref", d.PageRef).Required().MaxLength(64)
	v.Field("page_name", d.PageName).Required().MaxLength(255)
	return v.Validate()
}

type PageResponse struct {
	PageRef  string `json:"page_ref"`
	PageName string `json:"page_name"`
}

type PagesResponse struct {
	Pages []PageResponse `json:"pages"`
}

type RepositoryAPI interface {
	GetAll(ctx context.Context) ([]*directoryDatamodel.Page, error)
	GetByRef(ctx context.Context, ref string) (*directoryDatamodel.Page, error)
	Create(ctx context.Context, p *directoryDatamodel.Page) error
	Rename(ctx context.Context, originalRef string, p *directoryDatamodel.Page) error
	Delete(ctx context.Context, ref string) error
	GrantCount(ctx context.Context, ref string) (int64, error)
}
