// Package repo implements the data persistence layer for domain entities,
// backed by GORM. This file provides repository functions for the Intent
// model — the chatbot's keyword/response rule store.
//
// All functions are context-aware and accept a *gorm.DB handle, making them
// safe for use within transactions or connection-scoped operations.
// They follow the "thin repository" approach: no business logic, only CRUD
// persistence and query composition. Keyword/response normalization and
// validation happen in the service layer; this package expects already
// normalized values.
//
// Error semantics:
//   - UpsertIntent never produces duplicate-keyword rows: the keyword column
//     carries a unique index, and the insert path retries as an update when
//     it loses a race, so concurrent upserts of one keyword converge to a
//     single row (last writer wins).
//   - DeleteIntent signals absence through its boolean, not an error.
//   - On DB errors the raw gorm error is propagated.
package repo

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/arisehq/chatbot-backend/internal/domain"
)

// ErrNotFound is returned when a requested record does not exist.
// It aliases gorm.ErrRecordNotFound for convenience and consistency
// across the service layer and handlers.
var ErrNotFound = gorm.ErrRecordNotFound

// UpsertIntent inserts a new intent or, when the keyword already exists,
// replaces that intent's response. CreatedAt is set once on first insertion
// and preserved across updates. The returned boolean reports whether a new
// row was created.
//
// The whole operation runs in one transaction; together with the unique
// keyword index this keeps concurrent upserts of the same keyword from ever
// leaving two rows behind.
func UpsertIntent(ctx context.Context, db *gorm.DB, keyword, response string) (*domain.Intent, bool, error) {
	var (
		out     *domain.Intent
		created bool
	)
	err := db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var existing domain.Intent
		ferr := tx.Where("keyword = ?", keyword).First(&existing).Error
		if ferr == nil {
			return updateResponse(tx, &existing, response, &out)
		}
		if !errors.Is(ferr, gorm.ErrRecordNotFound) {
			return ferr
		}

		in := &domain.Intent{
			ID:        uuid.NewString(),
			Keyword:   keyword,
			Response:  response,
			CreatedAt: time.Now().UTC(),
		}
		if cerr := tx.Create(in).Error; cerr != nil {
			// Insert lost a race against a concurrent upsert of the same
			// keyword; the unique index rejected it. Re-read and update.
			if gerr := tx.Where("keyword = ?", keyword).First(&existing).Error; gerr != nil {
				return cerr
			}
			return updateResponse(tx, &existing, response, &out)
		}
		out, created = in, true
		return nil
	})
	if err != nil {
		return nil, false, err
	}
	return out, created, nil
}

// updateResponse rewrites an existing intent's response in place, leaving
// CreatedAt untouched, and stores the refreshed row in *out.
func updateResponse(tx *gorm.DB, existing *domain.Intent, response string, out **domain.Intent) error {
	res := tx.Model(&domain.Intent{}).
		Where("id = ?", existing.ID).
		Update("response", response)
	if res.Error != nil {
		return res.Error
	}
	existing.Response = response
	*out = existing
	return nil
}

// DeleteIntent removes the intent with the given id. It reports whether a row
// was actually deleted; a missing id is a normal outcome (false, nil), not an
// error.
func DeleteIntent(ctx context.Context, db *gorm.DB, id string) (bool, error) {
	res := db.WithContext(ctx).Delete(&domain.Intent{}, "id = ?", id)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

// ListIntents returns all intents in insertion order (oldest first, with the
// id as a stable tiebreak for equal timestamps). Each call produces a fresh
// slice, so callers can hand the result to the resolver as an immutable
// snapshot while admin edits continue concurrently.
func ListIntents(ctx context.Context, db *gorm.DB) ([]domain.Intent, error) {
	var out []domain.Intent
	err := db.WithContext(ctx).
		Order("created_at asc, id asc").
		Find(&out).Error
	return out, err
}

// CountIntents returns the total number of intents currently stored.
func CountIntents(ctx context.Context, db *gorm.DB) (int64, error) {
	var total int64
	err := db.WithContext(ctx).
		Model(&domain.Intent{}).
		Count(&total).Error
	return total, err
}

// GetIntent fetches a single intent by id, or ErrNotFound if missing.
func GetIntent(ctx context.Context, db *gorm.DB, id string) (*domain.Intent, error) {
	var in domain.Intent
	if err := db.WithContext(ctx).Where("id = ?", id).First(&in).Error; err != nil {
		return nil, err
	}
	return &in, nil
}
