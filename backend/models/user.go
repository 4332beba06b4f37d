package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// User is created on first Google login and never deleted. Username is
// filled in after creation once a free one is computed from the email.
type User struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	Email     string    `gorm:"uniqueIndex;not null" json:"email"`
	Username  *string   `gorm:"uniqueIndex" json:"username"`
	Name      string    `json:"name"`
	AvatarURL string    `json:"avatarUrl"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"-"`
}

func (u *User) BeforeCreate(tx *gorm.DB) error {
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	return nil
}
