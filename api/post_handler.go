package api

import (
	"encoding/json"
	"errors"
	"html/template"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"

	"github.com/team-codebug/blogforge-app/database"
	"github.com/team-codebug/blogforge-app/errs"
	"github.com/team-codebug/blogforge-app/markdown"
	"github.com/team-codebug/blogforge-app/models"
)

type postHandler struct {
	responder Responder
	logger    zerolog.Logger
	postRepo  *database.PostRepo
	tagRepo   *database.TagRepo
	userRepo  *database.UserRepo
	renderer  *markdown.Renderer
}

func newPostHandler(postRepo *database.PostRepo, tagRepo *database.TagRepo, userRepo *database.UserRepo, renderer *markdown.Renderer) postHandler {
	logger := log.With().Str("handlerName", "postHandler").Logger()

	return postHandler{
		responder: NewResponder(logger),
		logger:    logger,
		postRepo:  postRepo,
		tagRepo:   tagRepo,
		userRepo:  userRepo,
		renderer:  renderer,
	}
}

type postListItem struct {
	ID          string
	Title       string
	IsPublished bool
	UpdatedAt   string
}

// listPosts shows the signed-in user's posts, drafts included.
func (h postHandler) listPosts() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, _ := ctxUserID(r.Context())

		posts, err := h.postRepo.FindByOwner(userID)
		if err != nil {
			h.responder.WriteError(w, wrapDatabaseError("find posts", "posts", err))
			return
		}

		items := make([]postListItem, 0, len(posts))
		for _, post := range posts {
			items = append(items, postListItem{
				ID:          post.ID.String(),
				Title:       post.Title,
				IsPublished: post.IsPublished,
				UpdatedAt:   post.UpdatedAt.Format("Jan 2, 2006 15:04"),
			})
		}

		h.responder.RenderPage(w, "posts_list.html", map[string]any{"Posts": items})
	}
}

func (h postHandler) newPostForm() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		h.responder.RenderPage(w, "post_new.html", nil)
	}
}

// createPost publishes a new post straight away. Validation failures bounce
// the user back to the compose form.
func (h postHandler) createPost() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, _ := ctxUserID(r.Context())

		if err := r.ParseForm(); err != nil {
			http.Redirect(w, r, "/posts/new", http.StatusFound)
			return
		}

		title := strings.TrimSpace(r.FormValue("title"))
		if title == "" {
			http.Redirect(w, r, "/posts/new", http.StatusFound)
			return
		}

		taken, err := h.postRepo.TitleTaken(userID, title)
		if err != nil {
			h.responder.WriteError(w, wrapDatabaseError("check title", "post", err))
			return
		}
		if taken {
			h.logger.Warn().Str("title", title).Msg("Rejected duplicate post title")
			http.Redirect(w, r, "/posts/new", http.StatusFound)
			return
		}

		content := r.FormValue("content")
		html, err := h.renderer.Render(content)
		if err != nil {
			h.responder.WriteError(w, errs.NewInternalErrorWithCause("failed to render markdown", err))
			return
		}

		now := time.Now()
		post := &models.Post{
			UserID:          userID,
			Title:           title,
			Slug:            models.Slugify(title),
			Description:     strings.TrimSpace(r.FormValue("description")),
			ContentMarkdown: content,
			ContentHTML:     html,
			IsPublished:     true,
			PublishedAt:     &now,
		}
		if err := h.postRepo.Add(post); err != nil {
			h.responder.WriteError(w, wrapDatabaseError("create", "post", err))
			return
		}

		http.Redirect(w, r, "/posts/"+post.ID.String()+"/edit", http.StatusFound)
	}
}

// viewPost renders a single post. Published posts are visible to everyone;
// drafts only to their owner.
func (h postHandler) viewPost() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		postID, err := uuid.Parse(chi.URLParam(r, "postID"))
		if err != nil {
			http.NotFound(w, r)
			return
		}

		viewerID, signedIn := ctxUserID(r.Context())

		post, err := h.postRepo.FindPublishedByID(postID)
		if errors.Is(err, gorm.ErrRecordNotFound) && signedIn {
			// Owners can preview their own drafts.
			post, err = h.postRepo.FindByIDAndOwner(postID, viewerID)
		}
		if errors.Is(err, gorm.ErrRecordNotFound) {
			http.NotFound(w, r)
			return
		}
		if err != nil {
			h.responder.WriteError(w, wrapDatabaseError("find", "post", err))
			return
		}

		author := post.User.DisplayName()
		if post.User.ID == uuid.Nil {
			if owner, err := h.userRepo.FindByID(post.UserID); err == nil {
				author = owner.DisplayName()
			}
		}

		tagNames := make([]string, 0, len(post.Tags))
		for _, tag := range post.Tags {
			tagNames = append(tagNames, tag.Name)
		}

		var publishedAt string
		if post.PublishedAt != nil {
			publishedAt = post.PublishedAt.Format("Jan 2, 2006")
		}

		h.responder.RenderPage(w, "post_detail.html", map[string]any{
			"ID":          post.ID.String(),
			"Title":       post.Title,
			"Author":      author,
			"PublishedAt": publishedAt,
			"Tags":        tagNames,
			"HTML":        template.HTML(post.ContentHTML),
			"Editable":    signedIn && post.UserID == viewerID,
		})
	}
}

type tagChoice struct {
	ID       string
	Name     string
	Selected bool
}

func (h postHandler) editPostForm() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, _ := ctxUserID(r.Context())

		post, ok := h.loadOwnedPost(w, r, userID)
		if !ok {
			return
		}

		allTags, err := h.tagRepo.FindByOwner(userID)
		if err != nil {
			h.responder.WriteError(w, wrapDatabaseError("find tags", "tags", err))
			return
		}

		selected := make(map[uuid.UUID]bool, len(post.Tags))
		for _, tag := range post.Tags {
			selected[tag.ID] = true
		}
		choices := make([]tagChoice, 0, len(allTags))
		for _, tag := range allTags {
			choices = append(choices, tagChoice{
				ID:       tag.ID.String(),
				Name:     tag.Name,
				Selected: selected[tag.ID],
			})
		}

		h.responder.RenderPage(w, "post_edit.html", map[string]any{
			"ID":          post.ID.String(),
			"Title":       post.Title,
			"Description": post.Description,
			"Content":     post.ContentMarkdown,
			"AllTags":     choices,
		})
	}
}

// updatePost saves an explicit edit. This is the user-visible save: it bumps
// updated_at, publishes the post if it was a draft, and replaces the tag set
// with whatever the form submitted.
func (h postHandler) updatePost() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, _ := ctxUserID(r.Context())

		post, ok := h.loadOwnedPost(w, r, userID)
		if !ok {
			return
		}

		if err := r.ParseForm(); err != nil {
			h.responder.WriteError(w, errs.NewBadRequestError("malformed form"))
			return
		}

		title := strings.TrimSpace(r.FormValue("title"))
		if title == "" {
			http.Redirect(w, r, "/posts/"+post.ID.String()+"/edit", http.StatusFound)
			return
		}

		content := r.FormValue("content")
		html, err := h.renderer.Render(content)
		if err != nil {
			h.responder.WriteError(w, errs.NewInternalErrorWithCause("failed to render markdown", err))
			return
		}

		post.Title = title
		post.Description = strings.TrimSpace(r.FormValue("description"))
		post.ContentMarkdown = content
		post.ContentHTML = html
		post.IsPublished = true
		if post.PublishedAt == nil {
			now := time.Now()
			post.PublishedAt = &now
		}

		if err := h.postRepo.Update(post); err != nil {
			h.responder.WriteError(w, wrapDatabaseError("update", "post", err))
			return
		}

		if err := h.replaceTagsFromForm(post, userID, r.Form["tags"]); err != nil {
			h.responder.WriteError(w, err)
			return
		}

		http.Redirect(w, r, "/posts/"+post.ID.String()+"/edit", http.StatusFound)
	}
}

func (h postHandler) replaceTagsFromForm(post *models.Post, userID uuid.UUID, rawIDs []string) error {
	ids := make([]uuid.UUID, 0, len(rawIDs))
	for _, raw := range rawIDs {
		id, err := uuid.Parse(raw)
		if err != nil {
			continue
		}
		ids = append(ids, id)
	}

	// Tags owned by someone else are silently dropped here.
	tags, err := h.tagRepo.FindByOwnerAndIDs(userID, ids)
	if err != nil {
		return wrapDatabaseError("find tags", "tags", err)
	}

	if err := h.postRepo.ReplaceTags(post, tags); err != nil {
		return wrapDatabaseError("replace tags", "post_tags", err)
	}
	return nil
}

// renderMarkdown backs the editor's live preview pane.
func (h postHandler) renderMarkdown() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		html, err := h.renderer.Render(r.URL.Query().Get("text"))
		if err != nil {
			h.responder.WriteError(w, errs.NewInternalErrorWithCause("failed to render markdown", err))
			return
		}
		h.responder.WriteJSON(w, map[string]string{"html": html})
	}
}

type autoSaveRequest struct {
	BlogID      string `json:"blog_id"`
	Title       string `json:"title"`
	Description string `json:"description"`
	Content     string `json:"content"`
}

// autoSave is the editor's background save. It writes content columns
// directly so updated_at stays put; only an explicit save should read as an
// edit to other users.
func (h postHandler) autoSave() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, _ := ctxUserID(r.Context())

		var req autoSaveRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			h.responder.WriteError(w, errs.NewMalformedPayloadError("JSON", err))
			return
		}

		postID, err := uuid.Parse(req.BlogID)
		if err != nil {
			h.responder.WriteError(w, errs.NewInvalidFieldError("blog_id", "must be a valid UUID"))
			return
		}

		title := strings.TrimSpace(req.Title)
		if title == "" {
			h.responder.WriteError(w, errs.NewMissingRequiredFieldError("title"))
			return
		}

		post, err := h.postRepo.FindByIDAndOwner(postID, userID)
		if errors.Is(err, gorm.ErrRecordNotFound) {
			h.responder.WriteError(w, errs.NewNotFound("post"))
			return
		}
		if err != nil {
			h.responder.WriteError(w, wrapDatabaseError("find", "post", err))
			return
		}

		html, err := h.renderer.Render(req.Content)
		if err != nil {
			h.responder.WriteError(w, errs.NewInternalErrorWithCause("failed to render markdown", err))
			return
		}

		columns := map[string]any{
			"title":            title,
			"description":      strings.TrimSpace(req.Description),
			"content_markdown": req.Content,
			"content_html":     html,
			"is_published":     true,
		}
		if post.PublishedAt == nil {
			columns["published_at"] = time.Now()
		}

		if err := h.postRepo.UpdateContentColumns(post.ID, columns); err != nil {
			h.responder.WriteError(w, wrapDatabaseError("auto-save", "post", err))
			return
		}

		h.responder.WriteJSON(w, map[string]any{"success": true})
	}
}

type saveDraftRequest struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Content     string `json:"content"`
}

// saveDraft creates an unpublished post from the compose screen.
func (h postHandler) saveDraft() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, _ := ctxUserID(r.Context())

		var req saveDraftRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			h.responder.WriteError(w, errs.NewMalformedPayloadError("JSON", err))
			return
		}

		title := strings.TrimSpace(req.Title)
		if title == "" {
			h.responder.WriteError(w, errs.NewMissingRequiredFieldError("title"))
			return
		}

		taken, err := h.postRepo.TitleTaken(userID, title)
		if err != nil {
			h.responder.WriteError(w, wrapDatabaseError("check title", "post", err))
			return
		}
		if taken {
			h.responder.WriteError(w, errs.NewAlreadyExists("post"))
			return
		}

		html, err := h.renderer.Render(req.Content)
		if err != nil {
			h.responder.WriteError(w, errs.NewInternalErrorWithCause("failed to render markdown", err))
			return
		}

		post := &models.Post{
			UserID:          userID,
			Title:           title,
			Slug:            models.Slugify(title),
			Description:     strings.TrimSpace(req.Description),
			ContentMarkdown: req.Content,
			ContentHTML:     html,
			IsPublished:     false,
		}
		if err := h.postRepo.Add(post); err != nil {
			h.responder.WriteError(w, wrapDatabaseError("create", "post", err))
			return
		}

		h.responder.WriteJSONStatus(w, http.StatusCreated, map[string]any{"success": true, "id": post.ID})
	}
}

// loadOwnedPost resolves the postID route param against the signed-in user.
// Anything that isn't the caller's own post is a 404.
func (h postHandler) loadOwnedPost(w http.ResponseWriter, r *http.Request, userID uuid.UUID) (*models.Post, bool) {
	postID, err := uuid.Parse(chi.URLParam(r, "postID"))
	if err != nil {
		h.responder.WriteError(w, errs.NewNotFound("post"))
		return nil, false
	}

	post, err := h.postRepo.FindByIDAndOwner(postID, userID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		h.responder.WriteError(w, errs.NewNotFound("post"))
		return nil, false
	}
	if err != nil {
		h.responder.WriteError(w, wrapDatabaseError("find", "post", err))
		return nil, false
	}
	return post, true
}
