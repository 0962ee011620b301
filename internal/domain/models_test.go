package domain

import (
	"encoding/json"
	"strings"
	"testing"
	"time"
)

func TestTableNames(t *testing.T) {
	if got := (Intent{}).TableName(); got != "intents" {
		t.Fatalf("Intent table = %q; want intents", got)
	}
	if got := (Conversation{}).TableName(); got != "conversations" {
		t.Fatalf("Conversation table = %q; want conversations", got)
	}
}

func TestIntentJSONShape(t *testing.T) {
	in := Intent{
		ID:        "id-1",
		Keyword:   "hello",
		Response:  "Hi!",
		CreatedAt: time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC),
	}
	b, err := json.Marshal(in)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	s := string(b)
	for _, want := range []string{`"keyword":"hello"`, `"response":"Hi!"`, `"created_at"`} {
		if !strings.Contains(s, want) {
			t.Errorf("intent JSON missing %s: %s", want, s)
		}
	}
}

func TestConversationJSON_TimestampAndOptionalKeyword(t *testing.T) {
	c := Conversation{
		ID:          "id-2",
		UserMessage: "hello there",
		BotReply:    "Hi!",
		Matched:     true,
		Keyword:     "hello",
		CreatedAt:   time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC),
	}
	b, err := json.Marshal(c)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	s := string(b)
	// The wire name for CreatedAt is "timestamp", matching the chat endpoint.
	if !strings.Contains(s, `"timestamp"`) {
		t.Errorf("conversation JSON missing timestamp field: %s", s)
	}

	// Keyword is omitted when the resolver fell back.
	fb := Conversation{ID: "id-3", UserMessage: "???", BotReply: "sorry", Matched: false}
	b, err = json.Marshal(fb)
	if err != nil {
		t.Fatalf("marshal fallback: %v", err)
	}
	if strings.Contains(string(b), `"keyword"`) {
		t.Errorf("fallback JSON should omit keyword: %s", b)
	}
}
