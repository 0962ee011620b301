// Intent administration HTTP handlers.
//
// This file exposes the admin endpoints for the rule store:
//   - POST   /admin/intents      (create or update a keyword/response pair)
//   - GET    /admin/intents      (list the rule set, insertion order, ETag)
//   - DELETE /admin/intents/:id  (remove a pair by id)
//
// There is deliberately no PUT: the keyword is the natural identity of a
// rule, so POST with an existing keyword updates its response in place.
package handlers

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/arisehq/chatbot-backend/internal/domain"
	"github.com/arisehq/chatbot-backend/internal/repo"
	"github.com/arisehq/chatbot-backend/internal/services"
)

//
// DTOs
//

// UpsertIntentRequest is the JSON payload for creating or updating an intent.
// The keyword is normalized (trimmed, lowercased) before storage.
type UpsertIntentRequest struct {
	// Keyword the resolver searches for inside user messages.
	Keyword string `json:"keyword" binding:"required,min=1" example:"opening hours"`
	// Response returned verbatim when the keyword matches.
	Response string `json:"response" binding:"required,min=1" example:"We're open 9-5, Monday to Friday."`
}

// UpsertIntentResponse reports the stored intent and whether it was newly
// created (false means an existing keyword's response was replaced).
type UpsertIntentResponse struct {
	Intent  *domain.Intent `json:"intent"`
	Created bool           `json:"created"`
}

// ListIntentsResponse contains the full rule set in insertion order.
type ListIntentsResponse struct {
	Intents []domain.Intent `json:"intents"`
	Total   int64           `json:"total"`
}

//
// Handlers
//

// UpsertIntent godoc
// @ID          upsertIntent
// @Summary     Create or update an intent
// @Description Stores a keyword/response pair. When the normalized keyword already
// @Description exists its response is replaced and the original creation time is
// @Description kept, so the rule keeps its position in match order.
// @Tags        Intents
// @Accept      json
// @Produce     json
//
// @Param       body  body  handlers.UpsertIntentRequest  true  "Keyword/response payload"
//
// @Success     200  {object}  handlers.UpsertIntentResponse  "Existing intent updated"
// @Success     201  {object}  handlers.UpsertIntentResponse  "New intent created"
// @Failure     400  {object}  handlers.ErrorResponse         "Bad request"
// @Failure     500  {object}  handlers.ErrorResponse         "Internal error"
// @Router      /admin/intents [post]
func (h *Handlers) UpsertIntent(c *gin.Context) {
	var req UpsertIntentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "keyword and response required")
		return
	}

	in, created, err := h.intentSvc.Upsert(c.Request.Context(), req.Keyword, req.Response)
	if err != nil {
		switch err {
		case services.ErrEmptyKeyword:
			fail(c, http.StatusBadRequest, ErrCodeBadRequest, "keyword must contain non-whitespace text")
		case services.ErrEmptyResponse:
			fail(c, http.StatusBadRequest, ErrCodeBadRequest, "response must contain non-whitespace text")
		default:
			fail(c, http.StatusInternalServerError, ErrCodeUpsertFailed, err.Error())
		}
		return
	}

	status := http.StatusOK
	if created {
		status = http.StatusCreated
	}
	ok(c, status, UpsertIntentResponse{Intent: in, Created: created})
}

// ListIntents godoc
// @ID          listIntents
// @Summary     List all intents
// @Description Returns every keyword/response pair in insertion order (the order
// @Description the resolver walks them in). Supports weak ETag via If-None-Match.
// @Tags        Intents
// @Produce     json
//
// @Param       If-None-Match  header  string  false "Return 304 if ETag matches"  example(W/\"abc123\")
//
// @Success     200  {object} handlers.ListIntentsResponse
// @Header      200  {string} ETag "Weak ETag for current result"
// @Success     304  {string} string "Not Modified"
// @Failure     500  {object} handlers.ErrorResponse "Internal error"
// @Router      /admin/intents [get]
func (h *Handlers) ListIntents(c *gin.Context) {
	ctx := c.Request.Context()

	// ETag pre-check (best effort). UpdatedAt moves on every upsert, so the
	// high-water mark doubles as a change detector.
	if db := intentDB(h.intentSvc); db != nil {
		count, maxTS, err := repo.IntentsStats(ctx, db)
		if err == nil {
			var ts int64
			if maxTS != nil {
				ts = maxTS.Unix()
			}
			etag := fmt.Sprintf(`W/"intents:%d:%d"`, count, ts)
			c.Header("ETag", etag)
			if inm := c.GetHeader("If-None-Match"); inm != "" && inm == etag {
				c.Status(http.StatusNotModified)
				return
			}
		}
	}

	items, total, err := h.intentSvc.List(ctx)
	if err != nil {
		fail(c, http.StatusInternalServerError, ErrCodeListFailed, err.Error())
		return
	}
	ok(c, http.StatusOK, ListIntentsResponse{Intents: items, Total: total})
}

// DeleteIntent godoc
// @ID          deleteIntent
// @Summary     Delete an intent
// @Description Removes a keyword/response pair by id. Deleting an id that does not
// @Description exist returns 404; the operation is otherwise idempotent.
// @Tags        Intents
// @Produce     json
//
// @Param       id  path  string  true  "Intent ID (UUID)"  format(uuid)
//
// @Success     204  {string} string "No Content"
// @Failure     404  {object} handlers.ErrorResponse "Intent not found"
// @Failure     500  {object} handlers.ErrorResponse "Internal error"
// @Router      /admin/intents/{id} [delete]
func (h *Handlers) DeleteIntent(c *gin.Context) {
	id := strings.TrimSpace(c.Param("id"))

	removed, err := h.intentSvc.Remove(c.Request.Context(), id)
	if err != nil {
		fail(c, http.StatusInternalServerError, ErrCodeDeleteFailed, err.Error())
		return
	}
	if !removed {
		fail(c, http.StatusNotFound, ErrCodeNotFound, "intent not found")
		return
	}
	noContent(c)
}

// intentDB exposes the GORM handle of the concrete IntentService for
// conditional responses. Returns nil for fake services in tests.
func intentDB(svc IntentService) *gorm.DB {
	if is, ok := svc.(*services.IntentService); ok {
		return is.DB
	}
	return nil
}
