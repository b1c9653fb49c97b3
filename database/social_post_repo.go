package database

import (
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/team-codebug/blogforge-app/models"
)

type SocialPostRepo struct {
	db *gorm.DB
}

func NewSocialPostRepo(db *gorm.DB) *SocialPostRepo {
	return &SocialPostRepo{db}
}

// Add inserts a new social post record into the database
func (r *SocialPostRepo) Add(socialPost *models.SocialPost) error {
	return r.db.Create(socialPost).Error
}

// FindByPost returns every repurposed payload recorded for a post, newest
// first.
func (r *SocialPostRepo) FindByPost(postID uuid.UUID) ([]*models.SocialPost, error) {
	var socialPosts []*models.SocialPost
	err := r.db.Where("post_id = ?", postID).
		Order("created_at DESC").
		Find(&socialPosts).Error
	return socialPosts, err
}
