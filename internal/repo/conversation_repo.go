// Package repo implements the data persistence layer for domain entities,
// backed by GORM. This file provides repository functions for the
// Conversation model — the append-only log of resolved exchanges.
//
// Conversations are written once per resolution and never updated. Reads are
// ordered oldest-first so the history endpoint replays the dialogue in the
// order it happened. ClearConversations supports the retention policy of
// wiping history at process start.
package repo

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/arisehq/chatbot-backend/internal/domain"
)

// CreateConversation appends one resolved exchange to the log. The row ID is
// a randomly generated UUID and CreatedAt is set to UTC now.
func CreateConversation(ctx context.Context, db *gorm.DB, userMessage, botReply string, matched bool, keyword string) (*domain.Conversation, error) {
	c := &domain.Conversation{
		ID:          uuid.NewString(),
		UserMessage: userMessage,
		BotReply:    botReply,
		Matched:     matched,
		Keyword:     keyword,
		CreatedAt:   time.Now().UTC(),
	}
	if err := db.WithContext(ctx).Create(c).Error; err != nil {
		return nil, err
	}
	return c, nil
}

// CountConversations returns the total number of logged exchanges.
func CountConversations(ctx context.Context, db *gorm.DB) (int64, error) {
	var total int64
	err := db.WithContext(ctx).
		Model(&domain.Conversation{}).
		Count(&total).Error
	return total, err
}

// ListConversationsPage returns a page of exchanges ordered oldest first.
// Use CountConversations to obtain the total for pagination metadata.
//
// The caller is responsible for computing offset and limit (e.g., (page-1)*pageSize).
func ListConversationsPage(ctx context.Context, db *gorm.DB, offset, limit int) ([]domain.Conversation, error) {
	var out []domain.Conversation
	err := db.WithContext(ctx).
		Order("created_at asc, id asc").
		Offset(offset).
		Limit(limit).
		Find(&out).Error
	return out, err
}

// ClearConversations deletes the entire conversation log and returns the
// number of rows removed. Used by the start-up retention policy.
func ClearConversations(ctx context.Context, db *gorm.DB) (int64, error) {
	res := db.WithContext(ctx).
		Where("1 = 1").
		Delete(&domain.Conversation{})
	return res.RowsAffected, res.Error
}
