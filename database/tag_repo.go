package database

import (
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/team-codebug/blogforge-app/models"
)

type TagRepo struct {
	db *gorm.DB
}

func NewTagRepo(db *gorm.DB) *TagRepo {
	return &TagRepo{db}
}

// FindByOwner returns all tags belonging to ownerID.
func (r *TagRepo) FindByOwner(ownerID uuid.UUID) ([]*models.Tag, error) {
	var tags []*models.Tag
	err := r.db.Where("user_id = ?", ownerID).Order("name ASC").Find(&tags).Error
	return tags, err
}

// FindByOwnerAndIDs returns the subset of ids that are tags owned by ownerID.
// Foreign ids are silently dropped, which keeps cross-user tag injection out
// of post updates.
func (r *TagRepo) FindByOwnerAndIDs(ownerID uuid.UUID, ids []uuid.UUID) ([]models.Tag, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	var tags []models.Tag
	err := r.db.Where("user_id = ? AND id IN ?", ownerID, ids).Find(&tags).Error
	return tags, err
}

// Add inserts a tag. A duplicate (owner, name) pair is silently ignored so
// repeated creates are idempotent.
func (r *TagRepo) Add(tag *models.Tag) error {
	return r.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "user_id"}, {Name: "name"}},
		DoNothing: true,
	}).Create(tag).Error
}

// Delete removes an owner's tag and its post associations. The returned count
// is zero when the tag is missing or belongs to someone else.
func (r *TagRepo) Delete(id, ownerID uuid.UUID) (int64, error) {
	var deleted int64
	err := r.db.Transaction(func(tx *gorm.DB) error {
		result := tx.Where("id = ? AND user_id = ?", id, ownerID).Delete(&models.Tag{})
		if result.Error != nil {
			return result.Error
		}
		deleted = result.RowsAffected
		if deleted == 0 {
			return nil
		}
		return tx.Exec("DELETE FROM post_tags WHERE tag_id = ?", id).Error
	})
	return deleted, err
}
