// Chat HTTP handlers.
//
// This file exposes the public conversation endpoints:
//   - POST /chat          (send a message, get the bot's reply)
//   - GET  /chat/history  (list the conversation log, paginated, ETag support)
//
// Handlers are transport-thin: they validate input, call application services,
// and translate results into HTTP responses (including conditional responses).
package handlers

import (
	"context"
	"fmt"
	"net/http"
	"unicode/utf8"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/arisehq/chatbot-backend/internal/domain"
	"github.com/arisehq/chatbot-backend/internal/repo"
	"github.com/arisehq/chatbot-backend/internal/services"
	"github.com/arisehq/chatbot-backend/internal/utils"
)

//
// Service contracts (context-aware)
//

// ChatService defines the conversation operations consumed by HTTP handlers.
//
// Implementations should be safe for concurrent use and must honor the
// provided context for cancellation and timeouts.
type ChatService interface {
	// Reply resolves one user message and appends the exchange to the log.
	Reply(ctx context.Context, message string) (*domain.Conversation, error)
	// History returns a page of logged exchanges (oldest first) and the total.
	History(ctx context.Context, page, pageSize int) ([]domain.Conversation, int64, error)
}

// IntentService defines the rule-store administration operations consumed by
// HTTP handlers.
type IntentService interface {
	// Upsert creates or updates the intent for a keyword; the boolean reports
	// whether a new intent was created.
	Upsert(ctx context.Context, keyword, response string) (*domain.Intent, bool, error)
	// Remove deletes an intent by id, reporting whether it existed.
	Remove(ctx context.Context, id string) (bool, error)
	// List returns the full rule set in insertion order plus its size.
	List(ctx context.Context) ([]domain.Intent, int64, error)
}

//
// Handler wiring
//

// Handlers groups the HTTP endpoints for chat and intent administration. It
// depends on abstract service interfaces to keep transport concerns separate
// from business logic.
type Handlers struct {
	chatSvc   ChatService
	intentSvc IntentService
}

// New constructs a Handlers instance bound to the given services.
func New(chatSvc ChatService, intentSvc IntentService) *Handlers {
	return &Handlers{chatSvc: chatSvc, intentSvc: intentSvc}
}

//
// DTOs
//

// ChatRequest is the JSON payload for sending a message to the bot.
type ChatRequest struct {
	// Message is the user's utterance. It must be non-empty.
	Message string `json:"message" binding:"required,min=1" example:"hello there"`
}

// Pagination carries pagination metadata for list responses.
type Pagination struct {
	Page       int   `json:"page"`
	PageSize   int   `json:"page_size"`
	Total      int64 `json:"total"`
	TotalPages int   `json:"total_pages"`
	HasNext    bool  `json:"has_next"`
}

// HistoryResponse wraps a page of conversation turns and pagination metadata.
type HistoryResponse struct {
	History    []domain.Conversation `json:"history"`
	Pagination Pagination            `json:"pagination"`
}

//
// Helpers
//

// clampPagination parses and bounds page and page_size query params to sane
// defaults and limits, returning (page, pageSize).
func clampPagination(c *gin.Context) (page, pageSize int) {
	const (
		defaultPage     = 1
		defaultPageSize = 20
		maxPageSize     = 100
	)
	page = utils.AtoiDefault(c.Query("page"), defaultPage)
	if page < 1 {
		page = 1
	}
	pageSize = utils.AtoiDefault(c.Query("page_size"), defaultPageSize)
	if pageSize < 1 {
		pageSize = 1
	}
	if pageSize > maxPageSize {
		pageSize = maxPageSize
	}
	return
}

// maxMessageChars inspects the concrete ChatService for its configured
// message cap so the edge can fail fast with the same bound the service
// enforces. Falls back to a conservative default.
func maxMessageChars(svc ChatService) int {
	const fallback = 500
	if cs, ok := svc.(*services.ChatService); ok && cs.MaxMessageChars > 0 {
		return cs.MaxMessageChars
	}
	return fallback
}

//
// Handlers
//

// PostChat godoc
// @ID          postChat
// @Summary     Send a message to the bot
// @Description Resolves the message against the current rule set and returns the
// @Description recorded exchange. Unrecognized messages receive a fixed fallback
// @Description reply; the endpoint never fails to answer a valid message.
// @Tags        Chat
// @Accept      json
// @Produce     json
//
// @Param       body  body  handlers.ChatRequest  true  "User message payload"
//
// @Success     200  {object}  domain.Conversation           "Recorded exchange"
// @Failure     400  {object}  handlers.ErrorResponse        "Bad request"
// @Failure     500  {object}  handlers.ErrorResponse        "Internal error"
// @Router      /chat [post]
func (h *Handlers) PostChat(c *gin.Context) {
	var req ChatRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "message required")
		return
	}

	// Early size cap to fail fast at the edge; the service enforces the same
	// bound again.
	maxChars := maxMessageChars(h.chatSvc)
	if maxChars > 0 && utf8.RuneCountInString(req.Message) > maxChars {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest,
			fmt.Sprintf("message too long: max %d characters", maxChars))
		return
	}

	turn, err := h.chatSvc.Reply(c.Request.Context(), req.Message)
	if err != nil {
		switch err {
		case services.ErrEmptyMessage:
			fail(c, http.StatusBadRequest, ErrCodeBadRequest, "message required")
		case services.ErrMessageTooLong:
			fail(c, http.StatusBadRequest, ErrCodeBadRequest,
				fmt.Sprintf("message too long: max %d characters", maxChars))
		default:
			fail(c, http.StatusInternalServerError, ErrCodeReplyFailed, err.Error())
		}
		return
	}

	ok(c, http.StatusOK, turn)
}

// GetHistory godoc
// @ID          getHistory
// @Summary     List the conversation log (paginated)
// @Description Returns a page of recorded exchanges, oldest first. Supports weak
// @Description ETag via If-None-Match and may return 304.
// @Tags        Chat
// @Produce     json
//
// @Param       If-None-Match  header  string  false "Return 304 if ETag matches"  example(W/\"abc123\")
// @Param       page           query   int     false "Page number"                  minimum(1) default(1)
// @Param       page_size      query   int     false "Items per page"               minimum(1) maximum(100) default(20)
//
// @Success     200  {object} handlers.HistoryResponse
// @Header      200  {string} ETag "Weak ETag for current result"
// @Success     304  {string} string "Not Modified"
// @Failure     500  {object} handlers.ErrorResponse "Internal error"
// @Router      /chat/history [get]
func (h *Handlers) GetHistory(c *gin.Context) {
	ctx := c.Request.Context()
	page, pageSize := clampPagination(c)

	// ETag pre-check (best effort).
	if db := chatDB(h.chatSvc); db != nil {
		count, maxTS, err := repo.ConversationsStats(ctx, db)
		if err == nil {
			var ts int64
			if maxTS != nil {
				ts = maxTS.Unix()
			}
			etag := fmt.Sprintf(`W/"history:%d:%d"`, count, ts)
			c.Header("ETag", etag)
			if inm := c.GetHeader("If-None-Match"); inm != "" && inm == etag {
				c.Status(http.StatusNotModified)
				return
			}
		}
	}

	items, total, err := h.chatSvc.History(ctx, page, pageSize)
	if err != nil {
		fail(c, http.StatusInternalServerError, ErrCodeListFailed, err.Error())
		return
	}

	totalPages := int((total + int64(pageSize) - 1) / int64(pageSize))
	ok(c, http.StatusOK, HistoryResponse{
		History: items,
		Pagination: Pagination{
			Page:       page,
			PageSize:   pageSize,
			Total:      total,
			TotalPages: totalPages,
			HasNext:    page < totalPages,
		},
	})
}

// chatDB exposes the GORM handle of the concrete ChatService for conditional
// responses. Returns nil for fake services in tests.
func chatDB(svc ChatService) *gorm.DB {
	if cs, ok := svc.(*services.ChatService); ok {
		return cs.DB
	}
	return nil
}
