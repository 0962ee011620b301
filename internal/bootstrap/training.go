package bootstrap

import (
	"context"
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/arisehq/chatbot-backend/internal/services"
)

// TrainingReport summarizes one training-file application.
type TrainingReport struct {
	Added   int // new intents created
	Updated int // existing keywords whose response changed
	Skipped int // entries rejected by validation (blank keyword/response)
}

// ApplyTrainingFile reads a YAML list of keyword/response pairs and upserts
// each through the intent service. Entries that fail validation are counted
// as skipped rather than aborting the run, so one bad line does not block
// the rest of the file.
//
// File format:
//
//	- keyword: good morning
//	  response: Good morning! Hope you have a wonderful day ahead!
//	- keyword: see you
//	  response: See you later! Take care!
func ApplyTrainingFile(ctx context.Context, svc *services.IntentService, path string) (TrainingReport, error) {
	var rep TrainingReport

	data, err := os.ReadFile(path)
	if err != nil {
		return rep, fmt.Errorf("read training file: %w", err)
	}

	var pairs []Pair
	if err := yaml.Unmarshal(data, &pairs); err != nil {
		return rep, fmt.Errorf("parse training file: %w", err)
	}

	for _, p := range pairs {
		_, created, err := svc.Upsert(ctx, p.Keyword, p.Response)
		switch {
		case errors.Is(err, services.ErrEmptyKeyword) || errors.Is(err, services.ErrEmptyResponse):
			rep.Skipped++
		case err != nil:
			return rep, err
		case created:
			rep.Added++
		default:
			rep.Updated++
		}
	}
	return rep, nil
}
