// Package extractor fills trip record slots from conversation text. The
// model reads the transcript window, proposes updated field values with
// per-field confidence scores, and only confident extractions are merged —
// the planner would rather ask again than record a guess.
package extractor

import (
	"context"
	"errors"
	"fmt"

	"trip-planner/internal/activity"
	"trip-planner/internal/config"
	"trip-planner/internal/gateway"
	"trip-planner/internal/llmjson"
	"trip-planner/internal/trip"
)

// confidenceThreshold is exclusive: a score equal to it is still rejected
const confidenceThreshold = 50

const systemPrompt = `You are a detail extraction specialist for travel planning.
Analyze the conversation history and extract travel planning details.
Only update values when you have high confidence in the information.
For each detail, provide a confidence score (0-100).
If information is not mentioned or unclear, do not update the field.`

// payload is the JSON shape the model is asked to emit
type payload struct {
	UpdatedDetails   map[string]string  `json:"updated_details"`
	ConfidenceScores map[string]float64 `json:"confidence_scores"`
}

// Extractor asks the completion backend to extract slot values
type Extractor struct {
	gw  gateway.Completer
	cfg *config.Config
	log *activity.Log
}

// New creates a slot extractor
func New(gw gateway.Completer, cfg *config.Config, log *activity.Log) *Extractor {
	return &Extractor{gw: gw, cfg: cfg, log: log}
}

// Extract updates rec in place from the rendered conversation window and
// returns the model's confidence scores. A malformed model response leaves
// rec unchanged and is not an error; a gateway failure is returned so the
// caller can abort the turn.
func (e *Extractor) Extract(ctx context.Context, conversation string, rec *trip.Record) (map[string]float64, error) {
	currentBlock, err := rec.MarshalBlock()
	if err != nil {
		return nil, err
	}

	userPrompt := fmt.Sprintf(`Current trip details:
%s

Conversation history:
%s

Extract any new or updated travel details from this conversation.
Return your findings as valid JSON with two objects:
1. "updated_details" - The trip details with any new information
2. "confidence_scores" - Your confidence level (0-100) for each field

Format:
{
  "updated_details": {
    "Destination": "value",
    "Duration": "value"
  },
  "confidence_scores": {
    "Destination": 95,
    "Duration": 80
  }
}`, currentBlock, conversation)

	response, err := e.gw.Complete(ctx, gateway.Request{
		System:      systemPrompt,
		User:        userPrompt,
		Model:       e.cfg.Model,
		Temperature: e.cfg.FactualTemperature,
		MaxTokens:   e.cfg.MaxTokensStandard,
	})
	if err != nil {
		return nil, err
	}

	var extracted payload
	if err := llmjson.DecodeLastObject(response, &extracted); err != nil {
		// ParseError: recover locally, the record stays as it was
		if !errors.Is(err, llmjson.ErrNoJSON) {
			e.record("parse error", err.Error())
		} else {
			e.record("parse error", "no JSON block in extraction response")
		}
		return nil, nil
	}

	e.merge(rec, extracted)
	return extracted.ConfidenceScores, nil
}

// merge overwrites record values only for known fields whose extracted
// value is non-blank and whose confidence is strictly above the threshold
func (e *Extractor) merge(rec *trip.Record, extracted payload) {
	for field, value := range extracted.UpdatedDetails {
		if !trip.Known(field) {
			continue
		}
		if extracted.ConfidenceScores[field] <= confidenceThreshold {
			continue
		}
		if rec.Set(field, value) {
			e.record("updated "+field, value)
		}
	}
}

func (e *Extractor) record(action, detail string) {
	if e.log != nil {
		e.log.Record("details agent", action, detail)
	}
}
