// Package domain defines the persistence models for chatbot intents and
// conversation turns. These types are mapped with GORM and form the core
// data layer of the chatbot application.
package domain

import (
	"time"
)

// Intent is one unit of chatbot knowledge: a normalized keyword and the
// response returned verbatim when the keyword matches a user message.
//
// Fields:
//   - ID: stable UUID primary key (char(36)).
//   - Keyword: normalized (trimmed, lowercased) trigger text; unique across
//     the table, so re-inserting a keyword updates its response instead of
//     creating a duplicate.
//   - Response: trimmed reply text.
//   - CreatedAt: set at first insertion and preserved across updates.
//   - UpdatedAt: timestamp managed by GORM, bumped on response changes.
type Intent struct {
	ID        string    `json:"id"         gorm:"type:char(36);primaryKey"`
	Keyword   string    `json:"keyword"    gorm:"type:varchar(255);not null;uniqueIndex:ux_intents_keyword"`
	Response  string    `json:"response"   gorm:"type:text;not null"`
	CreatedAt time.Time `json:"created_at" gorm:"index:idx_intents_created"`
	UpdatedAt time.Time `json:"updated_at"`
}

// TableName returns the database table name for Intent.
func (Intent) TableName() string { return "intents" }

// Conversation is one resolved exchange between a user and the bot. Rows are
// append-only: created once per resolution, never mutated. An external
// retention policy (clearing at process start) may delete them in bulk.
//
// Fields:
//   - ID: UUID primary key (char(36)).
//   - UserMessage: the trimmed user input.
//   - BotReply: the resolved reply (a rule's response, or the fallback).
//   - Matched: whether any rule matched; false means BotReply is the fallback.
//   - Keyword: the normalized keyword that matched, empty on fallback.
//   - CreatedAt: resolution timestamp; indexed for ordered history reads.
type Conversation struct {
	ID          string    `json:"id"                 gorm:"type:char(36);primaryKey"`
	UserMessage string    `json:"user_message"       gorm:"type:text;not null"`
	BotReply    string    `json:"bot_reply"          gorm:"type:text;not null"`
	Matched     bool      `json:"matched"            gorm:"not null"`
	Keyword     string    `json:"keyword,omitempty"  gorm:"type:varchar(255)"`
	CreatedAt   time.Time `json:"timestamp"          gorm:"index:idx_conversations_created"`
}

// TableName returns the database table name for Conversation.
func (Conversation) TableName() string { return "conversations" }
