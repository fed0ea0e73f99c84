package postgres

import (
	"database/sql"
	"fmt"

	"github.com/spectralworx/evidencija-radnika/internal/auth"
	"gorm.io/gorm"
)

type Repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) *Repository {
	return &Repository{
		db: db,
	}
}

func (r *Repository) GetCredentials(email string) (*auth.Credential, error) {
	var cred auth.Credential
	query := `SELECT id, password_hash, role, is_active FROM users WHERE email = ?`

	row := r.db.Raw(query, email).Row()
	if err := row.Scan(&cred.UserID, &cred.PasswordHash, &cred.Role, &cred.IsActive); err != nil {
		if err == sql.ErrNoRows {
			return nil, fmt.Errorf("user not found")
		}
		return nil, err
	}
	return &cred, nil
}

func (r *Repository) GetAuthUser(userID int64) (*auth.User, error) {
	var u auth.User
	query := `SELECT id, email, role FROM users WHERE id = ? AND is_active = true`

	row := r.db.Raw(query, userID).Row()
	if err := row.Scan(&u.ID, &u.Email, &u.Role); err != nil {
		if err == sql.ErrNoRows {
			return nil, fmt.Errorf("user not found")
		}
		return nil, err
	}
	return &u, nil
}
