// Package services – ChatService
//
// This file implements ChatService, the application-level component that owns
// the chat resolution flow. It validates the user message, takes a snapshot
// of the current rule set, resolves a reply through the rules package, and
// appends the exchange to the conversation log.
//
// The resolver itself never fails: any message yields a reply (a matched
// rule's response or the fixed fallback). Errors surfaced by this service are
// input-validation and persistence errors only.
//
// Observability: public methods are OpenTelemetry-instrumented, and a
// Prometheus counter tracks matched vs fallback outcomes.
package services

import (
	"context"
	"strings"
	"unicode/utf8"

	"github.com/prometheus/client_golang/prometheus"
	"gorm.io/gorm"

	"github.com/arisehq/chatbot-backend/internal/domain"
	"github.com/arisehq/chatbot-backend/internal/repo"
	"github.com/arisehq/chatbot-backend/internal/rules"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

// resolutions counts chat resolutions by outcome ("matched" or "fallback").
// The fallback rate is the main quality signal for the rule set.
var resolutions = prometheus.NewCounterVec(
	prometheus.CounterOpts{
		Name: "chatbot_resolutions_total",
		Help: "Total number of chat resolutions by outcome.",
	},
	[]string{"outcome"},
)

func init() {
	prometheus.MustRegister(resolutions)
}

// ChatService coordinates message validation, rule resolution, and
// conversation persistence.
type ChatService struct {
	// DB is the GORM handle used for persistence.
	DB *gorm.DB

	// MaxMessageChars caps accepted messages by rune length; <= 0 disables
	// the cap. The HTTP layer enforces the same bound at the edge.
	MaxMessageChars int
}

// NewChatService constructs a ChatService with the default 500-character
// message cap.
func NewChatService(db *gorm.DB) *ChatService {
	return &ChatService{DB: db, MaxMessageChars: 500}
}

// Reply resolves one user message against the current rule set and appends
// the exchange to the conversation log.
//
// The message is trimmed and bounds-checked (ErrEmptyMessage,
// ErrMessageTooLong); the rule snapshot is read once per call, so concurrent
// admin edits never affect an in-flight resolution. Whether a rule matched —
// and which keyword — is recorded on the returned Conversation.
func (s *ChatService) Reply(ctx context.Context, message string) (*domain.Conversation, error) {
	tr := otel.Tracer("services/ChatService")
	ctx, span := tr.Start(ctx, "Reply")
	defer span.End()

	message = strings.TrimSpace(message)
	if message == "" {
		return nil, ErrEmptyMessage
	}
	if s.MaxMessageChars > 0 && utf8.RuneCountInString(message) > s.MaxMessageChars {
		return nil, ErrMessageTooLong
	}

	intents, err := repo.ListIntents(ctx, s.DB)
	if err != nil {
		return nil, err
	}

	res := rules.Resolve(message, snapshot(intents))
	span.SetAttributes(
		attribute.Bool("chat.matched", res.Matched),
		attribute.Int("chat.rules", len(intents)),
	)
	if res.Matched {
		resolutions.WithLabelValues("matched").Inc()
	} else {
		resolutions.WithLabelValues("fallback").Inc()
	}

	return repo.CreateConversation(ctx, s.DB, message, res.Response, res.Matched, res.Keyword)
}

// History returns a page of logged exchanges, oldest first, plus the total.
// It applies defaults for invalid page/pageSize.
func (s *ChatService) History(ctx context.Context, page, pageSize int) ([]domain.Conversation, int64, error) {
	tr := otel.Tracer("services/ChatService")
	ctx, span := tr.Start(ctx, "History",
		trace.WithAttributes(
			attribute.Int("page", page),
			attribute.Int("page_size", pageSize),
		),
	)
	defer span.End()

	if page < 1 {
		page = 1
	}
	if pageSize <= 0 {
		pageSize = 20
	}
	offset := (page - 1) * pageSize

	total, err := repo.CountConversations(ctx, s.DB)
	if err != nil {
		return nil, 0, err
	}
	if total == 0 {
		return []domain.Conversation{}, 0, nil
	}

	items, err := repo.ListConversationsPage(ctx, s.DB, offset, pageSize)
	return items, total, err
}

// snapshot converts stored intents into the resolver's immutable rule slice.
// Keywords are already normalized at the store boundary; the copy keeps the
// resolver decoupled from live store rows.
func snapshot(intents []domain.Intent) []rules.Rule {
	out := make([]rules.Rule, 0, len(intents))
	for _, in := range intents {
		out = append(out, rules.Rule{Keyword: in.Keyword, Response: in.Response})
	}
	return out
}
