package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type SocialPlatform string

const (
	PlatformLinkedIn SocialPlatform = "linkedin"
	PlatformTwitter  SocialPlatform = "twitter"
)

// ValidPlatform reports whether p is one of the supported platforms.
func ValidPlatform(p SocialPlatform) bool {
	return p == PlatformLinkedIn || p == PlatformTwitter
}

// SocialPost records AI-repurposed content derived from a blog post for an
// external platform. The payload shape is platform-specific, hence the raw
// JSON column.
type SocialPost struct {
	ID        uuid.UUID      `json:"id" db:"id" gorm:"type:uuid;primaryKey;not null"`
	PostID    uuid.UUID      `json:"post_id" db:"post_id" gorm:"type:uuid;not null;index:idx_social_posts_post_id"`
	UserID    uuid.UUID      `json:"user_id" db:"user_id" gorm:"type:uuid;not null;index:idx_social_posts_user_id"`
	Platform  SocialPlatform `json:"platform" db:"platform" gorm:"type:text;not null"`
	Payload   datatypes.JSON `json:"payload" db:"payload" gorm:"not null"`
	CreatedAt time.Time      `json:"created_at" db:"created_at" gorm:"type:timestamp;not null"`

	Post Post `json:"-" gorm:"foreignKey:PostID;references:ID"`
}

func (s *SocialPost) BeforeCreate(*gorm.DB) error {
	if s.ID == uuid.Nil {
		s.ID = uuid.New()
	}
	return nil
}
