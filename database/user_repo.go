package database

import (
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/team-codebug/blogforge-app/models"
)

type UserRepo struct {
	db *gorm.DB
}

func NewUserRepo(db *gorm.DB) *UserRepo {
	return &UserRepo{db}
}

// FindByGoogleSub returns the user owning the given provider subject id.
func (r *UserRepo) FindByGoogleSub(sub string) (*models.User, error) {
	var user models.User
	err := r.db.Where("google_sub = ?", sub).First(&user).Error
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// FindByID returns a user by its ID
func (r *UserRepo) FindByID(id uuid.UUID) (*models.User, error) {
	var user models.User
	err := r.db.First(&user, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// Add inserts a new user into the database
func (r *UserRepo) Add(user *models.User) error {
	return r.db.Create(user).Error
}

// Update persists all fields of an existing user.
func (r *UserRepo) Update(user *models.User) error {
	return r.db.Save(user).Error
}
