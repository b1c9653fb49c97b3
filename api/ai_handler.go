package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"

	"github.com/team-codebug/blogforge-app/database"
	"github.com/team-codebug/blogforge-app/errs"
	"github.com/team-codebug/blogforge-app/models"
	"github.com/team-codebug/blogforge-app/services"
)

type aiHandler struct {
	responder  Responder
	logger     zerolog.Logger
	postRepo   *database.PostRepo
	generator  services.ContentGenerator
	repurposer *services.Repurposer
}

func newAIHandler(postRepo *database.PostRepo, generator services.ContentGenerator, repurposer *services.Repurposer) aiHandler {
	logger := log.With().Str("handlerName", "aiHandler").Logger()

	return aiHandler{
		responder:  NewResponder(logger),
		logger:     logger,
		postRepo:   postRepo,
		generator:  generator,
		repurposer: repurposer,
	}
}

type aiRequest struct {
	BlogID string `json:"blog_id"`
}

// loadPost resolves the blog_id in the request body against the signed-in
// user. Repurposing someone else's post is a 404, same as a missing one.
func (h aiHandler) loadPost(w http.ResponseWriter, r *http.Request) (*models.Post, bool) {
	var req aiRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.responder.WriteError(w, errs.NewMalformedPayloadError("JSON", err))
		return nil, false
	}

	postID, err := uuid.Parse(req.BlogID)
	if err != nil {
		h.responder.WriteError(w, errs.NewInvalidFieldError("blog_id", "must be a valid UUID"))
		return nil, false
	}

	userID, _ := ctxUserID(r.Context())
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

func (h aiHandler) summarize() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		post, ok := h.loadPost(w, r)
		if !ok {
			return
		}

		summary, err := h.generator.Summarize(r.Context(), post.ContentMarkdown)
		if err != nil {
			h.responder.WriteError(w, errs.NewInternalErrorWithCause("failed to summarize post", err))
			return
		}

		h.responder.WriteJSON(w, map[string]string{"summary": summary})
	}
}

func (h aiHandler) blogToLinkedIn() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		post, ok := h.loadPost(w, r)
		if !ok {
			return
		}

		payload, err := h.repurposer.LinkedIn(r.Context(), post, post.Tags)
		if err != nil {
			h.responder.WriteError(w, errs.NewInternalErrorWithCause("failed to generate LinkedIn post", err))
			return
		}

		h.responder.WriteJSON(w, payload)
	}
}

func (h aiHandler) blogToTwitterThread() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		post, ok := h.loadPost(w, r)
		if !ok {
			return
		}

		payload, err := h.repurposer.Twitter(r.Context(), post)
		if err != nil {
			h.responder.WriteError(w, errs.NewInternalErrorWithCause("failed to generate Twitter thread", err))
			return
		}

		h.responder.WriteJSON(w, payload)
	}
}

func (h aiHandler) suggestTags() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		post, ok := h.loadPost(w, r)
		if !ok {
			return
		}

		tags, err := h.generator.SuggestTags(r.Context(), post.ContentMarkdown)
		if err != nil {
			h.responder.WriteError(w, errs.NewInternalErrorWithCause("failed to suggest tags", err))
			return
		}

		h.responder.WriteJSON(w, map[string][]string{"tags": tags})
	}
}

type repurposeRequest struct {
	BlogID    string   `json:"blog_id"`
	Platforms []string `json:"platforms"`
}

// repurpose fans the post out to the requested platforms, defaulting to all
// of them, and records a SocialPost row per platform.
func (h aiHandler) repurpose() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req repurposeRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			h.responder.WriteError(w, errs.NewMalformedPayloadError("JSON", err))
			return
		}

		postID, err := uuid.Parse(req.BlogID)
		if err != nil {
			h.responder.WriteError(w, errs.NewInvalidFieldError("blog_id", "must be a valid UUID"))
			return
		}

		platforms := []models.SocialPlatform{models.PlatformLinkedIn, models.PlatformTwitter}
		if len(req.Platforms) > 0 {
			platforms = platforms[:0]
			for _, raw := range req.Platforms {
				platform := models.SocialPlatform(raw)
				if !models.ValidPlatform(platform) {
					h.responder.WriteError(w, errs.NewInvalidFieldError("platforms", "unsupported platform "+raw))
					return
				}
				platforms = append(platforms, platform)
			}
		}

		userID, _ := ctxUserID(r.Context())
		post, err := h.postRepo.FindByIDAndOwner(postID, userID)
		if errors.Is(err, gorm.ErrRecordNotFound) {
			h.responder.WriteError(w, errs.NewNotFound("post"))
			return
		}
		if err != nil {
			h.responder.WriteError(w, wrapDatabaseError("find", "post", err))
			return
		}

		if err := h.repurposer.RepurposeAll(r.Context(), post, post.Tags, platforms); err != nil {
			h.responder.WriteError(w, errs.NewInternalErrorWithCause("failed to repurpose post", err))
			return
		}

		h.responder.WriteJSON(w, map[string]any{"success": true, "platforms": platforms})
	}
}
