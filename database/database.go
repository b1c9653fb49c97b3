package database

import (
	"gorm.io/gorm"

	"github.com/team-codebug/blogforge-app/models"
)

type Database struct {
	userRepo       *UserRepo
	postRepo       *PostRepo
	tagRepo        *TagRepo
	socialPostRepo *SocialPostRepo
}

// New initializes a new Database struct with each repository using a shared GORM database instance
func New(db *gorm.DB) Database {
	return Database{
		userRepo:       NewUserRepo(db),
		postRepo:       NewPostRepo(db),
		tagRepo:        NewTagRepo(db),
		socialPostRepo: NewSocialPostRepo(db),
	}
}

// Accessor methods for each repository

func (d Database) UserRepo() *UserRepo {
	return d.userRepo
}

func (d Database) PostRepo() *PostRepo {
	return d.postRepo
}

func (d Database) TagRepo() *TagRepo {
	return d.tagRepo
}

func (d Database) SocialPostRepo() *SocialPostRepo {
	return d.socialPostRepo
}

// AutoMigrate creates or updates the schema for every model the app owns.
func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&models.User{},
		&models.Post{},
		&models.Tag{},
		&models.SocialPost{},
	)
}
