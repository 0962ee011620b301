// Package bootstrap populates the rule store at process start. It seeds a
// fixed starter set when the store is empty, applies an optional YAML
// training file through the intent service, and can watch that file for
// changes so new knowledge lands without a restart.
package bootstrap

import (
	"context"

	"github.com/rs/zerolog/log"
	"gorm.io/gorm"

	"github.com/arisehq/chatbot-backend/internal/repo"
)

// Pair is one keyword/response seed entry.
type Pair struct {
	Keyword  string `yaml:"keyword"`
	Response string `yaml:"response"`
}

// StarterIntents is the default knowledge installed into an empty store.
// Keywords are stored normalized, so they are written lowercase here.
var StarterIntents = []Pair{
	{Keyword: "hello", Response: "Hello! How can I help you today?"},
	{Keyword: "hi", Response: "Hi there! What can I do for you?"},
	{Keyword: "hey", Response: "Hey! How are you doing?"},
	{Keyword: "how are you", Response: "I'm doing great, thank you for asking! How about you?"},
	{Keyword: "what is your name", Response: "I'm an AI Chatbot Assistant, here to help you!"},
	{Keyword: "help", Response: "I can answer your questions! Try asking me about greetings, time, weather, or general queries."},
	{Keyword: "bye", Response: "Goodbye! Have a great day!"},
	{Keyword: "goodbye", Response: "See you later! Take care!"},
	{Keyword: "thanks", Response: "You're welcome! Happy to help!"},
	{Keyword: "thank you", Response: "You're very welcome!"},
	{Keyword: "weather", Response: "I don't have real-time weather data, but I hope it's nice where you are!"},
	{Keyword: "time", Response: "I don't have access to a real-time clock, but you can check your device!"},
	{Keyword: "joke", Response: "Why did the programmer quit his job? Because he didn't get arrays!"},
	{Keyword: "who created you", Response: "I was created by a talented developer as a chatbot project!"},
	{Keyword: "what can you do", Response: "I can chat with you, answer questions, and learn new responses through my admin panel!"},
}

// EnsureSeed installs StarterIntents when the store is empty. A non-empty
// store is left untouched, so operator-curated knowledge survives restarts.
func EnsureSeed(ctx context.Context, db *gorm.DB) error {
	count, err := repo.CountIntents(ctx, db)
	if err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	for _, p := range StarterIntents {
		if _, _, err := repo.UpsertIntent(ctx, db, p.Keyword, p.Response); err != nil {
			return err
		}
	}
	log.Info().Int("intents", len(StarterIntents)).Msg("seeded starter intents")
	return nil
}
