package postgres

import (
	"context"

	"gorm.io/gorm"

	directoryDatamodel "github.com/wofodev/meerkat/internal/core/datamodel/directory"
	"github.com/wofodev/meerkat/internal/page"
)

type PageRepository struct {
	db *gorm.DB
}

func NewPageRepository(db *gorm.DB) page.RepositoryAPI {
	return &PageRepository{db: db}
}

func (r *PageRepository) GetAll(ctx context.Context) ([]*directoryDatamodel.Page, error) {
	var pages []*directoryDatamodel.Page
	err := r.db.WithContext(ctx).Order("page_ref ASC").Find(&pages).Error
	return pages, err
}

func (r *PageRepository) GetByRef(ctx context.Context, ref string) (*directoryDatamodel.Page, error) {
	var p directoryDatamodel.Page
	if err := r.db.WithContext(ctx).Where("page_ref = ?", ref).First(&p).Error; err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *PageRepository) Create(ctx context.Context, p *directoryDatamodel.Page) error {
	return r.db.WithContext(ctx).Create(p).Error
}

func (r *PageRepository) Rename(ctx context.Context, originalRef string, p *directoryDatamodel.Page) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&directoryDatamodel.Page{}).
			Where("page_ref = ?", originalRef).
			Updates(map[string]interface{}{
				"page_ref":  p.PageRef,
				"page_name": p.PageName,
			})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}

		if p.PageRef != originalRef {
			if err := tx.Model(&directoryDatamodel.AccessGrant{}).
				Where("page_ref = ?", originalRef).
				Update("page_ref", p.PageRef).Error; err != nil {
				return err
			}
		}
		return nil
	})
}

func (r *PageRepository) Delete(ctx context.Context, ref string) error {
	res := r.db.WithContext(ctx).Where("page_ref = ?", ref).Delete(&directoryDatamodel.Page{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *PageRepository) GrantCount(ctx context.Context, ref string) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&directoryDatamodel.AccessGrant{}).
		Where("page_ref = ?", ref).
		Count(&count).Error
	return count, err
}
