package postgres

import (
	"context"
	"database/sql"
	"errors"

	"gorm.io/gorm"

	"github.com/wofodev/meerkat/internal/auth"
)

type Repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// LookupCredentials queries the (code, digest) pair with bound parameters.
// No match returns (nil, nil); the service maps that to invalid credentials.
func (r *Repository) LookupCredentials(ctx context.Context, userCode, digest string) (*auth.CredentialRecord, error) {
	var record auth.CredentialRecord

	row := r.db.WithContext(ctx).Raw(
		`SELECT user_code, user_name FROM users WHERE user_code = ? AND password = ?`,
		userCode, digest,
	).Row()

	if err := row.Scan(&record.UserCode, &record.UserName); err != nil {
		if errors.Is(err, sql.ErrNoRows) || errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &record, nil
}
