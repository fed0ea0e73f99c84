package qr

import (
	"crypto/rand"
	"encoding/hex"
	"errors"
	"time"
)

// Token is a scannable QR code gating attendance transitions. A token is
// usable exactly while now < ValidUntil.
type Token struct {
	ID          int64     `json:"id" gorm:"primaryKey"`
	Code        string    `json:"code" gorm:"column:code;uniqueIndex;not null"`
	GeneratedAt time.Time `json:"generated_at" gorm:"column:generated_at;not null"`
	ValidUntil  time.Time `json:"valid_until" gorm:"column:valid_until;not null"`
}

func (Token) TableName() string {
	return "qr_tokens"
}

var ErrInvalidOrExpiredToken = errors.New("qr token is invalid or expired")

// Morning/afternoon cutover anchors, in the reference time zone.
const (
	cutoverHour = 15
	morningHour = 8
)

// ExpiryFor computes the validity boundary for a token generated at the
// given moment, evaluated in the reference zone. Before 15:00 local the
// token lasts until today 15:00:00; from 15:00 onward it lasts until
// 08:00:00 the next day. The branch looks at the local hour only, so a
// token generated at exactly 15:00 always falls into the next-day branch.
func ExpiryFor(now time.Time, loc *time.Location) time.Time {
	local := now.In(loc)
	if local.Hour() < cutoverHour {
		return time.Date(local.Year(), local.Month(), local.Day(), cutoverHour, 0, 0, 0, loc)
	}
	next := local.AddDate(0, 0, 1)
	return time.Date(next.Year(), next.Month(), next.Day(), morningHour, 0, 0, 0, loc)
}

// NewCode returns a unique, unguessable token code. The code gates
// attendance mutations, so it comes from a cryptographically secure source.
func NewCode() (string, error) {
	buf := make([]byte, 16)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return hex.EncodeToString(buf), nil
}
