package postgres

import (
	"context"
	"errors"

	"gorm.io/gorm"

	directoryDatamodel "github.com/wofodev/meerkat/internal/core/datamodel/directory"
	"github.com/wofodev/meerkat/internal/grant"
)

type GrantRepository struct {
	db *gorm.DB
}

func NewGrantRepository(db *gorm.DB) grant.RepositoryAPI {
	return &GrantRepository{db: db}
}

// GetAll joins grants with every referenced display name. Group and section
// joins are LEFT joins because both anchors are optional.
func (r *GrantRepository) GetAll(ctx context.Context) ([]*grant.Record, error) {
	var records []*grant.Record
	err := r.db.WithContext(ctx).Raw(`
		SELECT ac.id, ac.user_code, u.user_name,
		       ac.group_code, g.group_name,
		       ac.section_code, s.section_name,
		       ac.page_ref, p.page_name
		FROM access_control ac
		JOIN users u ON ac.user_code = u.user_code
		LEFT JOIN groups g ON ac.group_code = g.group_code
		LEFT JOIN sections s ON ac.section_code = s.section_code
		LEFT JOIN pages p ON ac.page_ref = p.page_ref
		ORDER BY ac.id ASC`,
	).Scan(&records).Error
	if err != nil {
		return nil, err
	}
	return records, nil
}

func (r *GrantRepository) Create(ctx context.Context, g *directoryDatamodel.AccessGrant) error {
	return r.db.WithContext(ctx).Create(g).Error
}

func (r *GrantRepository) Update(ctx context.Context, id int64, g *directoryDatamodel.AccessGrant) error {
	res := r.db.WithContext(ctx).Model(&directoryDatamodel.AccessGrant{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"user_code":    g.UserCode,
			"group_code":   g.GroupCode,
			"section_code": g.SectionCode,
			"page_ref":     g.PageRef,
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// Delete loads the row first so the revocation event can name what was
// removed.
func (r *GrantRepository) Delete(ctx context.Context, id int64) (*directoryDatamodel.AccessGrant, error) {
	var g directoryDatamodel.AccessGrant
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("id = ?", id).First(&g).Error; err != nil {
			return err
		}
		return tx.Where("id = ?", id).Delete(&directoryDatamodel.AccessGrant{}).Error
	})
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, gorm.ErrRecordNotFound
		}
		return nil, err
	}
	return &g, nil
}

func (r *GrantRepository) UserExists(ctx context.Context, code string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&directoryDatamodel.User{}).
		Where("user_code = ?", code).Count(&count).Error
	return count > 0, err
}

func (r *GrantRepository) GroupExists(ctx context.Context, code string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&directoryDatamodel.Group{}).
		Where("group_code = ?", code).Count(&count).Error
	return count > 0, err
}

func (r *GrantRepository) SectionExists(ctx context.Context, code string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&directoryDatamodel.Section{}).
		Where("section_code = ?", code).Count(&count).Error
	return count > 0, err
}

func (r *GrantRepository) PageExists(ctx context.Context, ref string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&directoryDatamodel.Page{}).
		Where("page_ref = ?", ref).Count(&count).Error
	return count > 0, err
}

func (r *GrantRepository) UserLinkedToGroup(ctx context.Context, userCode, groupCode string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&directoryDatamodel.AccessGrant{}).
		Where("user_code = ? AND group_code = ?", userCode, groupCode).
		Count(&count).Error
	return count > 0, err
}
