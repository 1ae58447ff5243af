package postgres

import (
	"context"
	"database/sql"
	"errors"

	"gorm.io/gorm"

	"github.com/wofodev/meerkat/internal/authz"
)

type Repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) authz.RepositoryAPI {
	return &Repository{db: db}
}

// The subquery resolves every group the user belongs to, so a single join
// covers both direct and group-inherited grants.
const groupMembershipSubquery = `
	SELECT group_code FROM access_control
	WHERE user_code = ? AND group_code IS NOT NULL`

func (r *Repository) HasSectionAccess(ctx context.Context, userCode, sectionName string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Raw(`
		SELECT COUNT(1)
		FROM access_control ac
		JOIN sections s ON ac.section_code = s.section_code
		WHERE (ac.user_code = ? OR ac.group_code IN (`+groupMembershipSubquery+`))
		AND s.section_name = ?`,
		userCode, userCode, sectionName,
	).Scan(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *Repository) AccessiblePages(ctx context.Context, userCode, refPrefix string) ([]authz.PageAccess, error) {
	var pages []authz.PageAccess
	err := r.db.WithContext(ctx).Raw(`
		SELECT DISTINCT p.page_ref, p.page_name
		FROM pages p
		JOIN access_control ac ON p.page_ref = ac.page_ref
		WHERE p.page_ref LIKE ?
		AND (ac.user_code = ? OR ac.group_code IN (`+groupMembershipSubquery+`))
		ORDER BY p.page_ref`,
		refPrefix+"%", userCode, userCode,
	).Scan(&pages).Error
	if err != nil {
		return nil, err
	}
	return pages, nil
}

func (r *Repository) AccessibleSections(ctx context.Context, userCode string) ([]string, error) {
	var sections []string
	err := r.db.WithContext(ctx).Raw(`
		SELECT DISTINCT s.section_name
		FROM access_control ac
		JOIN sections s ON ac.section_code = s.section_code
		WHERE ac.user_code = ? OR ac.group_code IN (`+groupMembershipSubquery+`)
		ORDER BY s.section_name`,
		userCode, userCode,
	).Scan(&sections).Error
	if err != nil {
		return nil, err
	}
	return sections, nil
}

// EffectiveGroup orders by the surrogate grant id: the ordering key is
// mandatory, store-returned order is never relied on.
func (r *Repository) EffectiveGroup(ctx context.Context, userCode string) (string, error) {
	var groupName string
	row := r.db.WithContext(ctx).Raw(`
		SELECT g.group_name
		FROM access_control ac
		JOIN groups g ON ac.group_code = g.group_code
		WHERE ac.user_code = ?
		ORDER BY ac.id ASC
		LIMIT 1`,
		userCode,
	).Row()

	if err := row.Scan(&groupName); err != nil {
		if errors.Is(err, sql.ErrNoRows) || errors.Is(err, gorm.ErrRecordNotFound) {
			return "", nil
		}
		return "", err
	}
	return groupName, nil
}
