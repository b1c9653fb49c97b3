package models

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Post is a markdown blog post. ContentHTML caches the rendered markdown so
// read paths never re-render. PublishedAt is set once on first publish and
// never cleared by later edits.
type Post struct {
	ID              uuid.UUID  `json:"id" db:"id" gorm:"type:uuid;primaryKey;not null"`
	UserID          uuid.UUID  `json:"user_id" db:"user_id" gorm:"type:uuid;not null;index:idx_posts_user_id"`
	Title           string     `json:"title" db:"title" gorm:"type:text;not null"`
	Slug            string     `json:"slug" db:"slug" gorm:"type:text;not null;index:idx_posts_slug"`
	Description     string     `json:"description" db:"description" gorm:"type:text;not null;default:''"`
	ContentMarkdown string     `json:"content" db:"content_markdown" gorm:"type:text;not null;default:''"`
	ContentHTML     string     `json:"-" db:"content_html" gorm:"type:text"`
	IsPublished     bool       `json:"is_published" db:"is_published" gorm:"not null;default:false"`
	PublishedAt     *time.Time `json:"published_at,omitempty" db:"published_at" gorm:"type:timestamp"`
	CreatedAt       time.Time  `json:"created_at" db:"created_at" gorm:"type:timestamp;not null"`
	UpdatedAt       time.Time  `json:"updated_at" db:"updated_at" gorm:"type:timestamp;not null;index:idx_posts_updated_at"`

	User User  `json:"-" gorm:"foreignKey:UserID;references:ID"`
	Tags []Tag `json:"tags,omitempty" gorm:"many2many:post_tags"`
}

func (p *Post) BeforeCreate(*gorm.DB) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	return nil
}

// Slugify derives the URL slug from a post title: lowercase, spaces become
// hyphens, nothing else touched.
func Slugify(title string) string {
	return strings.ReplaceAll(strings.ToLower(title), " ", "-")
}
