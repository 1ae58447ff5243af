package postgres

import (
	"context"

	"gorm.io/gorm"

	directoryDatamodel "github.com/wofodev/meerkat/internal/core/datamodel/directory"
	"github.com/wofodev/meerkat/internal/user"
)

type UserRepository struct {
	db *gorm.DB
}

func NewUserRepository(db *gorm.DB) user.RepositoryAPI {
	return &UserRepository{db: db}
}

func (r *UserRepository) GetAll(ctx context.Context) ([]*directoryDatamodel.User, error) {
	var users []*directoryDatamodel.User
	err := r.db.WithContext(ctx).Order("user_code ASC").Find(&users).Error
	return users, err
}

func (r *UserRepository) GetByCode(ctx context.Context, code string) (*directoryDatamodel.User, error) {
	var u directoryDatamodel.User
	if err := r.db.WithContext(ctx).Where("user_code = ?", code).First(&u).Error; err != nil {
		return nil, err
	}
	return &u, nil
}

func (r *UserRepository) Create(ctx context.Context, u *directoryDatamodel.User) error {
	return r.db.WithContext(ctx).Create(u).Error
}

// Rename updates the user row and rewrites dependent access_control rows in
// the same transaction so a key change never orphans grants.
func (r *UserRepository) Rename(ctx context.Context, originalCode string, u *directoryDatamodel.User) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&directoryDatamodel.User{}).
			Where("user_code = ?", originalCode).
			Updates(map[string]interface{}{
				"user_code": u.UserCode,
				"user_name": u.UserName,
			})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}

		if u.UserCode != originalCode {
			if err := tx.Model(&directoryDatamodel.AccessGrant{}).
				Where("user_code = ?", originalCode).
				Update("user_code", u.UserCode).Error; err != nil {
				return err
			}
		}
		return nil
	})
}

func (r *UserRepository) Delete(ctx context.Context, code string) error {
	res := r.db.WithContext(ctx).Where("user_code = ?", code).Delete(&directoryDatamodel.User{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *UserRepository) UpdatePassword(ctx context.Context, code, digest string) error {
	res := r.db.WithContext(ctx).Model(&directoryDatamodel.User{}).
		Where("user_code = ?", code).
		Update("password", digest)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *UserRepository) GrantCount(ctx context.Context, code string) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&directoryDatamodel.AccessGrant{}).
		Where("user_code = ?", code).
		Count(&count).Error
	return count, err
}
