package database

import (
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/team-codebug/blogforge-app/models"
)

type PostRepo struct {
	db *gorm.DB
}

func NewPostRepo(db *gorm.DB) *PostRepo {
	return &PostRepo{db}
}

// FindByOwner returns all posts belonging to ownerID, most recently updated
// first.
func (r *PostRepo) FindByOwner(ownerID uuid.UUID) ([]*models.Post, error) {
	var posts []*models.Post
	err := r.db.Preload("Tags").
		Where("user_id = ?", ownerID).
		Order("updated_at DESC").
		Find(&posts).Error
	return posts, err
}

// FindByIDAndOwner returns a post only when it belongs to ownerID. A post
// owned by anyone else surfaces as gorm.ErrRecordNotFound, so callers cannot
// distinguish "not yours" from "doesn't exist".
func (r *PostRepo) FindByIDAndOwner(id, ownerID uuid.UUID) (*models.Post, error) {
	var post models.Post
	err := r.db.Preload("Tags").
		Where("id = ? AND user_id = ?", id, ownerID).
		First(&post).Error
	if err != nil {
		return nil, err
	}
	return &post, nil
}

// FindPublishedByID returns a published post with its author and tags,
// regardless of who asks.
func (r *PostRepo) FindPublishedByID(id uuid.UUID) (*models.Post, error) {
	var post models.Post
	err := r.db.Preload("Tags").Preload("User").
		Where("id = ? AND is_published = ?", id, true).
		First(&post).Error
	if err != nil {
		return nil, err
	}
	return &post, nil
}

// FindPublished returns published posts across all owners ordered by most
// recently updated. A non-empty filter narrows by case-insensitive substring
// match against title, description, or any associated tag name.
func (r *PostRepo) FindPublished(filter string) ([]*models.Post, error) {
	query := r.db.Preload("Tags").Preload("User").
		Where("is_published = ?", true)

	if filter != "" {
		pattern := "%" + strings.ToLower(filter) + "%"
		tagged := r.db.Table("post_tags").
			Select("post_tags.post_id").
			Joins("JOIN tags ON tags.id = post_tags.tag_id").
			Where("LOWER(tags.name) LIKE ?", pattern)
		query = query.Where(
			"LOWER(title) LIKE ? OR LOWER(description) LIKE ? OR id IN (?)",
			pattern, pattern, tagged,
		)
	}

	var posts []*models.Post
	err := query.Order("updated_at DESC").Find(&posts).Error
	return posts, err
}

// TitleTaken reports whether ownerID already has a post with the exact title.
func (r *PostRepo) TitleTaken(ownerID uuid.UUID, title string) (bool, error) {
	var count int64
	err := r.db.Model(&models.Post{}).
		Where("user_id = ? AND title = ?", ownerID, title).
		Count(&count).Error
	return count > 0, err
}

// Add inserts a new post into the database
func (r *PostRepo) Add(post *models.Post) error {
	return r.db.Create(post).Error
}

// Update persists all fields of an existing post and bumps updated_at.
func (r *PostRepo) Update(post *models.Post) error {
	return r.db.Save(post).Error
}

// UpdateContentColumns writes the given columns directly, bypassing hooks and
// the updated_at auto-touch. This is the auto-save path: background saves
// must not look like user-visible edits.
func (r *PostRepo) UpdateContentColumns(id uuid.UUID, columns map[string]any) error {
	return r.db.Model(&models.Post{}).
		Where("id = ?", id).
		UpdateColumns(columns).Error
}

// ReplaceTags swaps the post's tag associations for the given set.
func (r *PostRepo) ReplaceTags(post *models.Post, tags []models.Tag) error {
	return r.db.Model(post).Association("Tags").Replace(&tags)
}
