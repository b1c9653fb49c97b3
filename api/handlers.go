package api

import (
	"github.com/team-codebug/blogforge-app/config"
	"github.com/team-codebug/blogforge-app/database"
	"github.com/team-codebug/blogforge-app/markdown"
	"github.com/team-codebug/blogforge-app/services"
)

// initializeHandlers creates and returns all handlers organized in a routeHandlers struct
func initializeHandlers(db database.Database, c map[string]string, sessions *sessionManager) *routeHandlers {
	renderer := markdown.NewRenderer(markdown.Options{
		AllowRawHTML: config.GetBool(c, "MARKDOWN_ALLOW_RAW_HTML", false),
	})

	generator := services.NewContentGenerator(c)
	repurposer := services.NewRepurposer(generator, db.SocialPostRepo(), config.GetString(c, "BASE_URL", ""))

	return &routeHandlers{
		authHandler: newAuthHandler(db.UserRepo(), sessions, newOAuthSettings(c)),
		feedHandler: newFeedHandler(db.PostRepo(), db.UserRepo()),
		postHandler: newPostHandler(db.PostRepo(), db.TagRepo(), db.UserRepo(), renderer),
		tagHandler:  newTagHandler(db.TagRepo()),
		aiHandler:   newAIHandler(db.PostRepo(), generator, repurposer),
	}
}
