package postgres

import (
	"context"

	"gorm.io/gorm"

	directoryDatamodel "github.com/wofodev/meerkat/internal/core/datamodel/directory"
	"github.com/wofodev/meerkat/internal/group"
)

type GroupRepository struct {
	db *gorm.DB
}

func NewGroupRepository(db *gorm.DB) group.RepositoryAPI {
	return &GroupRepository{db: db}
}

func (r *GroupRepository) GetAll(ctx context.Context) ([]*directoryDatamodel.Group, error) {
	var groups []*directoryDatamodel.Group
	err := r.db.WithContext(ctx).Order("group_code ASC").Find(&groups).Error
	return groups, err
}

func (r *GroupRepository) GetByCode(ctx context.Context, code string) (*directoryDatamodel.Group, error) {
	var g directoryDatamodel.Group
	if err := r.db.WithContext(ctx).Where("group_code = ?", code).First(&g).Error; err != nil {
		return nil, err
	}
	return &g, nil
}

func (r *GroupRepository) Create(ctx context.Context, g *directoryDatamodel.Group) error {
	return r.db.WithContext(ctx).Create(g).Error
}

func (r *GroupRepository) Rename(ctx context.Context, originalCode string, g *directoryDatamodel.Group) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&directoryDatamodel.Group{}).
			Where("group_code = ?", originalCode).
			Updates(map[string]interface{}{
				"group_code": g.GroupCode,
				"group_name": g.GroupName,
			})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}

		if g.GroupCode != originalCode {
			if err := tx.Model(&directoryDatamodel.AccessGrant{}).
				Where("group_code = ?", originalCode).
				Update("group_code", g.GroupCode).Error; err != nil {
				return err
			}
		}
		return nil
	})
}

func (r *GroupRepository) Delete(ctx context.Context, code string) error {
	res := r.db.WithContext(ctx).Where("group_code = ?", code).Delete(&directoryDatamodel.Group{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *GroupRepository) GrantCount(ctx context.Context, code string) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&directoryDatamodel.AccessGrant{}).
		Where("group_code = ?", code).
		Count(&count).Error
	return count, err
}
