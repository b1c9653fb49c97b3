package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// User is a local account backed by an external identity provider. The
// provider's stable subject identifier is the lookup key on login.
type User struct {
	ID        uuid.UUID `json:"id" db:"id" gorm:"type:uuid;primaryKey;not null"`
	GoogleSub string    `json:"-" db:"google_sub" gorm:"type:text;not null;uniqueIndex:idx_users_google_sub"`
	Email     string    `json:"email" db:"email" gorm:"type:text;not null;uniqueIndex:idx_users_email"`
	Name      *string   `json:"name,omitempty" db:"name" gorm:"type:text"`
	AvatarURL *string   `json:"avatar_url,omitempty" db:"avatar_url" gorm:"type:text"`
	CreatedAt time.Time `json:"created_at" db:"created_at" gorm:"type:timestamp;not null"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at" gorm:"type:timestamp;not null"`

	Posts []Post `json:"posts,omitempty" gorm:"foreignKey:UserID;references:ID"`
	Tags  []Tag  `json:"tags,omitempty" gorm:"foreignKey:UserID;references:ID"`
}

func (u *User) BeforeCreate(*gorm.DB) error {
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	return nil
}

// DisplayName falls back to the email address when the provider returned no
// profile name.
func (u *User) DisplayName() string {
	if u.Name != nil && *u.Name != "" {
		return *u.Name
	}
	return u.Email
}
