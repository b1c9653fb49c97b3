package api

import (
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"

	"github.com/team-codebug/blogforge-app/database"
	"github.com/team-codebug/blogforge-app/errs"
	"github.com/team-codebug/blogforge-app/models"
)

type feedHandler struct {
	responder Responder
	logger    zerolog.Logger
	postRepo  *database.PostRepo
	userRepo  *database.UserRepo
}

func newFeedHandler(postRepo *database.PostRepo, userRepo *database.UserRepo) feedHandler {
	logger := log.With().Str("handlerName", "feedHandler").Logger()

	return feedHandler{
		responder: NewResponder(logger),
		logger:    logger,
		postRepo:  postRepo,
		userRepo:  userRepo,
	}
}

// index is the landing page. Signed-in visitors skip straight to the feed.
func (h feedHandler) index() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if _, ok := ctxUserID(r.Context()); ok {
			http.Redirect(w, r, "/dashboard", http.StatusFound)
			return
		}
		h.responder.RenderPage(w, "index.html", nil)
	}
}

type feedItem struct {
	ID          string
	Title       string
	Description string
	Author      string
	Tags        []string
}

// dashboard lists every published post, newest edits first, optionally
// narrowed by the q query param.
func (h feedHandler) dashboard() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		query := r.URL.Query().Get("q")

		posts, err := h.postRepo.FindPublished(query)
		if err != nil {
			h.responder.WriteError(w, wrapDatabaseError("find published posts", "posts", err))
			return
		}

		items := make([]feedItem, 0, len(posts))
		for _, post := range posts {
			tagNames := make([]string, 0, len(post.Tags))
			for _, tag := range post.Tags {
				tagNames = append(tagNames, tag.Name)
			}
			items = append(items, feedItem{
				ID:          post.ID.String(),
				Title:       post.Title,
				Description: post.Description,
				Author:      post.User.DisplayName(),
				Tags:        tagNames,
			})
		}

		h.responder.RenderPage(w, "dashboard.html", map[string]any{
			"Posts": items,
			"Query": query,
		})
	}
}

func (h feedHandler) profile() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, _ := ctxUserID(r.Context())

		user, err := h.userRepo.FindByID(userID)
		if err != nil {
			h.responder.WriteError(w, wrapDatabaseError("find", "user", err))
			return
		}

		posts, err := h.postRepo.FindByOwner(userID)
		if err != nil {
			h.responder.WriteError(w, wrapDatabaseError("find posts", "posts", err))
			return
		}

		var avatarURL string
		if user.AvatarURL != nil {
			avatarURL = *user.AvatarURL
		}

		h.responder.RenderPage(w, "profile.html", map[string]any{
			"Name":      user.DisplayName(),
			"Email":     user.Email,
			"AvatarURL": avatarURL,
			"PostCount": len(posts),
		})
	}
}

type blogAuthor struct {
	Name      string `json:"name"`
	AvatarURL string `json:"avatar_url"`
}

type blogTag struct {
	Name string `json:"name"`
}

type blogContentResponse struct {
	ID          string     `json:"id"`
	Title       string     `json:"title"`
	Slug        string     `json:"slug"`
	Description string     `json:"description"`
	Content     string     `json:"content"`
	ContentHTML string     `json:"content_html"`
	PublishedAt *time.Time `json:"published_at"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
	Author      blogAuthor `json:"author"`
	Tags        []blogTag  `json:"tags"`
}

// blogContent serves a published post as JSON for external consumers. The
// content field carries the markdown source, content_html the cached render;
// drafts are indistinguishable from missing posts.
func (h feedHandler) blogContent() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		postID, err := uuid.Parse(chi.URLParam(r, "blogID"))
		if err != nil {
			h.responder.WriteError(w, errs.NewNotFound("post"))
			return
		}

		post, err := h.postRepo.FindPublishedByID(postID)
		if errors.Is(err, gorm.ErrRecordNotFound) {
			h.responder.WriteError(w, errs.NewNotFound("post"))
			return
		}
		if err != nil {
			h.responder.WriteError(w, wrapDatabaseError("find", "post", err))
			return
		}

		h.responder.WriteJSON(w, toBlogContentResponse(post))
	}
}

func toBlogContentResponse(post *models.Post) blogContentResponse {
	var avatarURL string
	if post.User.AvatarURL != nil {
		avatarURL = *post.User.AvatarURL
	}

	tags := make([]blogTag, 0, len(post.Tags))
	for _, tag := range post.Tags {
		tags = append(tags, blogTag{Name: tag.Name})
	}

	return blogContentResponse{
		ID:          post.ID.String(),
		Title:       post.Title,
		Slug:        post.Slug,
		Description: post.Description,
		Content:     post.ContentMarkdown,
		ContentHTML: post.ContentHTML,
		PublishedAt: post.PublishedAt,
		CreatedAt:   post.CreatedAt,
		UpdatedAt:   post.UpdatedAt,
		Author: blogAuthor{
			Name:      post.User.DisplayName(),
			AvatarURL: avatarURL,
		},
		Tags: tags,
	}
}
