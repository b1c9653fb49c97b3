package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Tag is scoped to its owner: two users may hold identically named tags, the
// unique index only covers (user_id, name). Names are stored lowercased.
type Tag struct {
	ID        uuid.UUID `json:"id" db:"id" gorm:"type:uuid;primaryKey;not null"`
	UserID    uuid.UUID `json:"-" db:"user_id" gorm:"type:uuid;not null;index:idx_tags_user_id;uniqueIndex:idx_tags_user_id_name"`
	Name      string    `json:"name" db:"name" gorm:"type:text;not null;uniqueIndex:idx_tags_user_id_name"`
	CreatedAt time.Time `json:"created_at" db:"created_at" gorm:"type:timestamp;not null"`
}

func (t *Tag) BeforeCreate(*gorm.DB) error {
	if t.ID == uuid.Nil {
		t.ID = uuid.New()
	}
	return nil
}
