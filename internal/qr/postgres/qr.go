package postgres

import (
	"errors"
	"time"

	"github.com/spectralworx/evidencija-radnika/internal/qr"
	"gorm.io/gorm"
)

// QrRepository implements qr.Repository using GORM.
type QrRepository struct {
	db *gorm.DB
}

func NewQrRepository(db *gorm.DB) qr.Repository {
	return &QrRepository{db: db}
}

func (r *QrRepository) Create(token *qr.Token) error {
	return r.db.Create(token).Error
}

func (r *QrRepository) GetByCode(code string) (*qr.Token, error) {
	var token qr.Token
	err := r.db.Where("code = ?", code).First(&token).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, qr.ErrInvalidOrExpiredToken
		}
		return nil, err
	}
	return &token, nil
}

func (r *QrRepository) NewestValid(now time.Time) (*qr.Token, error) {
	var token qr.Token
	err := r.db.Where("valid_until > ?", now).
		Order("generated_at DESC").
		First(&token).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, qr.ErrNoValidToken
		}
		return nil, err
	}
	return &token, nil
}
