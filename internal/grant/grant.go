package grant

import (
	"context"
	"time"

	errors "github.com/wofodev/meerkat/internal"
	"github.com/wofodev/meerkat/internal/core/common/validation"
	directoryDatamodel "github.com/wofodev/meerkat/internal/core/datamodel/directory"
)

// Grant is one access-control row: a user, optionally acting under a group
// and scoped to a section, granted a page. Every grant anchors on a user
// code; a group-only grant is meaningless and rejected at write time.
type Grant struct {
	ID          int64     `json:"id"`
	UserCode    string    `json:"user_code"`
	GroupCode   *string   `json:"group_code,omitempty"`
	SectionCode *string   `json:"section_code,omitempty"`
	PageRef     string    `json:"page_ref"`
	CreatedAt   time.Time `json:"created_at"`
}

// Record is a grant joined with the display names of everything it
// references, used for the maintenance table.
type Record struct {
	ID          int64   `json:"id"`
	UserCode    string  `json:"user_code"`
	UserName    string  `json:"user_name"`
	GroupCode   *string `json:"group_code,omitempty"`
	GroupName   *string `json:"group_name,omitempty"`
	SectionCode *string `json:"section_code,omitempty"`
	SectionName *string `json:"section_name,omitempty"`
	PageRef     string  `json:"page_ref"`
	PageName    string  `json:"page_name"`
}

type CreateGrantDTO struct {
	UserCode    string  `json:"user_code"`
	GroupCode   *string `json:"group_code,omitempty"`
	SectionCode *string `json:"section_code,omitempty"`
	PageRef     string  `json:"page_ref"`
}

func (d CreateGrantDTO) Validate() *errors.AppError {
	v := validation.NewValidator()
	v.Field("user_code", d.UserCode).Required()
	v.Field("page_ref", d.PageRef).Required()
	if appErr := v.Validate(); appErr != nil {
		return appErr
	}
	// Empty strings in optional fields are treated as absent by the caller;
	// here a present-but-blank value is an input error.
	if d.GroupCode != nil && *d.GroupCode == "" {
		return errors.NewValidationFieldError("group_code", "group_code must not be blank when present", errors.ErrCodeValidationFailed)
	}
	if d.SectionCode != nil && *d.SectionCode == "" {
		return errors.NewValidationFieldError("section_code", "section_code must not be blank when present", errors.ErrCodeValidationFailed)
	}
	return nil
}

type GrantsResponse struct {
	Grants []Record `json:"grants"`
}

type RepositoryAPI interface {
	GetAll(ctx context.Context) ([]*Record, error)
	Create(ctx context.Context, g *directoryDatamodel.AccessGrant) error
	Update(ctx context.Context, id int64, g *directoryDatamodel.AccessGrant) error
	Delete(ctx context.Context, id int64) (*directoryDatamodel.AccessGrant, error)
	UserExists(ctx context.Context, code string) (bool, error)
	GroupExists(ctx context.Context, code string) (bool, error)
	SectionExists(ctx context.Context, code string) (bool, error)
	PageExists(ctx context.Context, ref string) (bool, error)
	UserLinkedToGroup(ctx context.Context, userCode, groupCode string) (bool, error)
}
