package api

import (
	"time"

	"github.com/go-chi/chi/v5"
)

// setupRoutes wires every route group: public pages, the OAuth flow, the
// authenticated editor surface, and the JSON content API.
func setupRoutes(r chi.Router, handlers *routeHandlers, authMiddleware authMiddleware, editorLimiter *rateLimiter) {
	// Public pages and content API
	r.Group(func(r chi.Router) {
		r.Get("/", handlers.feedHandler.index())
		r.Get("/posts/{postID}", handlers.postHandler.viewPost())
		r.Get("/api/blog/{blogID}", handlers.feedHandler.blogContent())
	})

	// OAuth flow
	r.Group(func(r chi.Router) {
		r.Get("/auth/login", handlers.authHandler.login())
		r.Get("/auth/callback", handlers.authHandler.callback())
		r.Post("/auth/logout", handlers.authHandler.logout())
	})

	// Authenticated pages
	r.Group(func(r chi.Router) {
		r.Use(authMiddleware.requireUser)

		r.Get("/dashboard", handlers.feedHandler.dashboard())
		r.Get("/profile", handlers.feedHandler.profile())

		r.Get("/posts", handlers.postHandler.listPosts())
		r.Post("/posts", handlers.postHandler.createPost())
		r.Get("/posts/new", handlers.postHandler.newPostForm())
		r.Get("/posts/{postID}/edit", handlers.postHandler.editPostForm())
		r.Post("/posts/{postID}", handlers.postHandler.updatePost())

		r.Get("/posts/tags", handlers.tagHandler.listTags())
		r.Post("/posts/tags", handlers.tagHandler.createTag())
		r.Delete("/posts/tags/{tagID}", handlers.tagHandler.deleteTag())
	})

	// Editor JSON endpoints, rate limited per user
	r.Group(func(r chi.Router) {
		r.Use(authMiddleware.requireUser)
		r.Use(editorLimiter.Limit)

		r.Get("/posts/render-markdown", handlers.postHandler.renderMarkdown())
		r.Post("/posts/auto-save", handlers.postHandler.autoSave())
		r.Post("/posts/save-draft", handlers.postHandler.saveDraft())
	})

	// AI repurposing endpoints
	r.Group(func(r chi.Router) {
		r.Use(authMiddleware.requireUser)

		r.Post("/api/ai/summarize", handlers.aiHandler.summarize())
		r.Post("/api/ai/blog-to-linkedin", handlers.aiHandler.blogToLinkedIn())
		r.Post("/api/ai/blog-to-twitter-thread", handlers.aiHandler.blogToTwitterThread())
		r.Post("/api/ai/suggest-tags", handlers.aiHandler.suggestTags())
		r.Post("/api/ai/repurpose", handlers.aiHandler.repurpose())
	})
}

// newEditorLimiter sizes the limiter for a fast-typing author: the preview
// fires on every pause, so the window has to be generous.
func newEditorLimiter(requestsPerMinute int) *rateLimiter {
	return newRateLimiter(requestsPerMinute, time.Minute)
}
