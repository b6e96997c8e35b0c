package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/frahmantamala/payraise-portal/internal/auth"
	userDatamodel "github.com/frahmantamala/payraise-portal/internal/core/datamodel/user"
	"github.com/jmoiron/sqlx"
	"gorm.io/gorm"
)

// Repository reads credentials with sqlx and writes them through gorm. Both
// handles share one connection pool.
type Repository struct {
	db   *gorm.DB
	sqlx *sqlx.DB
}

func NewRepository(db *gorm.DB, sqlxDB *sqlx.DB) *Repository {
	return &Repository{
		db:   db,
		sqlx: sqlxDB,
	}
}

type credentialRow struct {
	ID            int64         `db:"id"`
	Username      string        `db:"username"`
	PasswordHash  string        `db:"password_hash"`
	SecurityLevel int           `db:"security_level"`
	FullName      string        `db:"full_name"`
	EmployeeID    sql.NullInt64 `db:"employee_id"`
}

func (r *Repository) GetByUsername(ctx context.Context, username string) (*userDatamodel.User, error) {
	var row credentialRow
	query := r.sqlx.Rebind(`SELECT id, username, password_hash, security_level, full_name, employee_id
	FROM users WHERE username = ?`)

	if err := r.sqlx.GetContext(ctx, &row, query, username); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, auth.ErrUserNotFound
		}
		return nil, fmt.Errorf("get user by username: %w", err)
	}

	// Some collations compare case-insensitively; usernames are exact.
	if row.Username != username {
		return nil, auth.ErrUserNotFound
	}

	u := &userDatamodel.User{
		ID:            row.ID,
		Username:      row.Username,
		PasswordHash:  row.PasswordHash,
		SecurityLevel: row.SecurityLevel,
		FullName:      row.FullName,
	}
	if row.EmployeeID.Valid {
		id := row.EmployeeID.Int64
		u.EmployeeID = &id
	}
	return u, nil
}

func (r *Repository) Create(ctx context.Context, u *userDatamodel.User) error {
	return r.db.WithContext(ctx).Create(u).Error
}
