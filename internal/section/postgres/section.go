package postgres

import (
	"context"

	"gorm.io/gorm"

	directoryDatamodel "github.com/wofodev/meerkat/internal/core/datamodel/directory"
	"github.com/wofodev/meerkat/internal/section"
)

type SectionRepository struct {
	db *gorm.DB
}

func NewSectionRepository(db *gorm.DB) section.RepositoryAPI {
	return &SectionRepository{db: db}
}

func (r *SectionRepository) GetAll(ctx context.Context) ([]*directoryDatamodel.Section, error) {
	var sections []*directoryDatamodel.Section
	err := r.db.WithContext(ctx).Order("section_code ASC").Find(&sections).Error
	return sections, err
}

func (r *SectionRepository) GetByCode(ctx context.Context, code string) (*directoryDatamodel.Section, error) {
	var s directoryDatamodel.Section
	if err := r.db.WithContext(ctx).Where("section_code = ?", code).First(&s).Error; err != nil {
		return nil, err
	}
	return &s, nil
}

func (r *SectionRepository) Create(ctx context.Context, s *directoryDatamodel.Section) error {
	return r.db.WithContext(ctx).Create(s).Error
}

func (r *SectionRepository) Rename(ctx context.Context, originalCode string, s *directoryDatamodel.Section) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&directoryDatamodel.Section{}).
			Where("section_code = ?", originalCode).
			Updates(map[string]interface{}{
				"section_code": s.SectionCode,
				"section_name": s.SectionName,
			})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}

		if s.SectionCode != originalCode {
			if err := tx.Model(&directoryDatamodel.AccessGrant{}).
				Where("section_code = ?", originalCode).
				Update("section_code", s.SectionCode).Error; err != nil {
				return err
			}
		}
		return nil
	})
}

func (r *SectionRepository) Delete(ctx context.Context, code string) error {
	res := r.db.WithContext(ctx).Where("section_code = ?", code).Delete(&directoryDatamodel.Section{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *SectionRepository) GrantCount(ctx context.Context, code string) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&directoryDatamodel.AccessGrant{}).
		Where("section_code = ?", code).
		Count(&count).Error
	return count, err
}
