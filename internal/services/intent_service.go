// Package services – IntentService
//
// This file implements the IntentService, which manages the chatbot's rule
// store. It normalizes and validates keyword/response pairs before they reach
// persistence, so the store only ever holds canonical (trimmed, lowercased)
// keywords, and coordinates repository operations for upserting, removing,
// and enumerating intents.
//
// Service-level errors (e.g., ErrEmptyKeyword) are returned for predictable
// cases so handlers can map them to HTTP results consistently.
package services

import (
	"context"
	"strings"

	"gorm.io/gorm"

	"github.com/arisehq/chatbot-backend/internal/domain"
	"github.com/arisehq/chatbot-backend/internal/rules"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

// IntentRepo defines the repository contract required by IntentService.
// Implementations are responsible for persistence of the rule store.
type IntentRepo interface {
	// UpsertIntent inserts or updates the intent for a normalized keyword.
	UpsertIntent(ctx context.Context, db *gorm.DB, keyword, response string) (*domain.Intent, bool, error)

	// DeleteIntent removes an intent by id, reporting whether a row existed.
	DeleteIntent(ctx context.Context, db *gorm.DB, id string) (bool, error)

	// ListIntents returns all intents in insertion order (oldest first).
	ListIntents(ctx context.Context, db *gorm.DB) ([]domain.Intent, error)

	// CountIntents returns the number of stored intents.
	CountIntents(ctx context.Context, db *gorm.DB) (int64, error)
}

// IntentService provides administrative operations on the rule store:
// creating or updating keyword/response pairs, deleting them, and listing
// the current rule set.
type IntentService struct {
	// DB is the GORM handle used for persistence.
	DB *gorm.DB
	// Repo is the intent repository used by this service.
	Repo IntentRepo
}

// NewIntentService constructs an IntentService bound to db and r.
func NewIntentService(db *gorm.DB, r IntentRepo) *IntentService {
	return &IntentService{DB: db, Repo: r}
}

// Upsert normalizes the keyword (trim, lowercase) and response (trim) and
// inserts or updates the corresponding intent. The returned boolean reports
// whether a new intent was created (false means an existing keyword's
// response was replaced, with its CreatedAt preserved).
//
// It returns ErrEmptyKeyword or ErrEmptyResponse when either value
// normalizes to empty text.
func (s *IntentService) Upsert(ctx context.Context, keyword, response string) (*domain.Intent, bool, error) {
	tr := otel.Tracer("services/IntentService")
	ctx, span := tr.Start(ctx, "Upsert",
		trace.WithAttributes(attribute.String("intent.keyword", keyword)),
	)
	defer span.End()

	kw := rules.Normalize(keyword)
	if kw == "" {
		return nil, false, ErrEmptyKeyword
	}
	resp := strings.TrimSpace(response)
	if resp == "" {
		return nil, false, ErrEmptyResponse
	}

	return s.Repo.UpsertIntent(ctx, s.DB, kw, resp)
}

// Remove deletes the intent with the given id. A missing id is reported via
// the boolean, not an error.
func (s *IntentService) Remove(ctx context.Context, id string) (bool, error) {
	tr := otel.Tracer("services/IntentService")
	ctx, span := tr.Start(ctx, "Remove",
		trace.WithAttributes(attribute.String("intent.id", id)),
	)
	defer span.End()

	return s.Repo.DeleteIntent(ctx, s.DB, id)
}

// List returns the full rule set in insertion order together with its size.
// The returned slice is a fresh copy per call; callers may hand it to the
// resolver as a snapshot while edits continue concurrently.
func (s *IntentService) List(ctx context.Context) ([]domain.Intent, int64, error) {
	tr := otel.Tracer("services/IntentService")
	ctx, span := tr.Start(ctx, "List")
	defer span.End()

	items, err := s.Repo.ListIntents(ctx, s.DB)
	if err != nil {
		return nil, 0, err
	}
	return items, int64(len(items)), nil
}

// Count returns the number of intents currently stored.
func (s *IntentService) Count(ctx context.Context) (int64, error) {
	return s.Repo.CountIntents(ctx, s.DB)
}
