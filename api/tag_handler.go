package api

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/team-codebug/blogforge-app/database"
	"github.com/team-codebug/blogforge-app/errs"
	"github.com/team-codebug/blogforge-app/models"
)

type tagHandler struct {
	responder Responder
	logger    zerolog.Logger
	tagRepo   *database.TagRepo
}

func newTagHandler(tagRepo *database.TagRepo) tagHandler {
	logger := log.With().Str("handlerName", "tagHandler").Logger()

	return tagHandler{
		responder: NewResponder(logger),
		logger:    logger,
		tagRepo:   tagRepo,
	}
}

func (h tagHandler) listTags() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, _ := ctxUserID(r.Context())

		tags, err := h.tagRepo.FindByOwner(userID)
		if err != nil {
			h.responder.WriteError(w, wrapDatabaseError("find tags", "tags", err))
			return
		}

		h.responder.RenderPage(w, "tags.html", map[string]any{"Tags": tags})
	}
}

// createTag adds a tag to the user's vocabulary. Names are normalized to
// lowercase and re-adding an existing name is a no-op.
func (h tagHandler) createTag() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, _ := ctxUserID(r.Context())

		if err := r.ParseForm(); err != nil {
			http.Redirect(w, r, "/posts/tags", http.StatusFound)
			return
		}

		name := strings.ToLower(strings.TrimSpace(r.FormValue("name")))
		if name == "" {
			http.Redirect(w, r, "/posts/tags", http.StatusFound)
			return
		}

		if err := h.tagRepo.Add(&models.Tag{UserID: userID, Name: name}); err != nil {
			h.responder.WriteError(w, wrapDatabaseError("create", "tag", err))
			return
		}

		http.Redirect(w, r, "/posts/tags", http.StatusFound)
	}
}

// deleteTag removes one of the user's tags along with its post associations.
// Someone else's tag looks exactly like a missing one.
func (h tagHandler) deleteTag() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, _ := ctxUserID(r.Context())

		tagID, err := uuid.Parse(chi.URLParam(r, "tagID"))
		if err != nil {
			h.responder.WriteError(w, errs.NewNotFound("tag"))
			return
		}

		deleted, err := h.tagRepo.Delete(tagID, userID)
		if err != nil {
			h.responder.WriteError(w, wrapDatabaseError("delete", "tag", err))
			return
		}
		if deleted == 0 {
			h.responder.WriteError(w, errs.NewNotFound("tag"))
			return
		}

		h.responder.WriteJSON(w, map[string]string{"status": "success"})
	}
}
