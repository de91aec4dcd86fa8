// Package planner decides the single highest-priority missing trip field
// and phrases one natural question about it. Questions always target one
// field at a time and never enumerate what is missing.
package planner

import (
	"context"
	"fmt"
	"strings"

	"github.com/samber/lo"

	"trip-planner/internal/activity"
	"trip-planner/internal/config"
	"trip-planner/internal/gateway"
	"trip-planner/internal/trip"
)

// ReadyMessage is emitted once every required field is filled
const ReadyMessage = "Great! I have all the essential information I need to create your personalized itinerary. Just say 'generate itinerary' and I'll create a detailed plan for your trip! ✨"

// tiers is a static partition of the field set by priority; the first
// missing field in the first non-empty tier wins.
var tiers = [][]string{
	{trip.FieldDestination, trip.FieldDuration},
	{trip.FieldBudget},
	{trip.FieldDietaryPreferences, trip.FieldMobilityConcerns},
	{trip.FieldSeason, trip.FieldActivityPrefs, trip.FieldAccommodationType},
}

// fallbackQuestions are used when the question call fails; the turn still
// needs something to ask.
var fallbackQuestions = map[string]string{
	trip.FieldDestination:        "Where would you like to go for your trip?",
	trip.FieldDuration:           "How long are you planning to stay?",
	trip.FieldBudget:             "What's your budget for this trip? (e.g., economy, mid-range, luxury)",
	trip.FieldDietaryPreferences: "Do you have any dietary preferences or restrictions I should know about?",
	trip.FieldMobilityConcerns:   "Do you have any mobility concerns or accessibility requirements?",
	trip.FieldSeason:             "Is there a particular season or time of year you'd like to travel?",
	trip.FieldActivityPrefs:      "What kinds of activities do you enjoy when you travel?",
	trip.FieldAccommodationType:  "What type of accommodation do you prefer?",
}

var fieldSuffixes = map[string]string{
	trip.FieldDestination:        "🌍",
	trip.FieldDuration:           "📅",
	trip.FieldBudget:             "💰",
	trip.FieldDietaryPreferences: "🍽️",
	trip.FieldMobilityConcerns:   "♿",
	trip.FieldSeason:             "☀️",
	trip.FieldActivityPrefs:      "🗺️",
	trip.FieldAccommodationType:  "🏨",
}

var knownSuffixes = []string{"🌍", "✈️", "🏨", "🍽️", "🧳", "🗺️", "🌴", "🏖️", "🎭", "🚗", "📅", "💰", "♿", "☀️", "✨", "🏙️"}

// Planner phrases the next question to ask
type Planner struct {
	gw  gateway.Completer
	cfg *config.Config
	log *activity.Log
}

// New creates a question planner
func New(gw gateway.Completer, cfg *config.Config, log *activity.Log) *Planner {
	return &Planner{gw: gw, cfg: cfg, log: log}
}

// Next returns a question for the highest-priority missing field and the
// full list of missing required fields. A complete record yields the fixed
// ready message and an empty missing list.
func (p *Planner) Next(ctx context.Context, rec *trip.Record, conversation string) (string, []string) {
	missing := rec.Missing()
	if len(missing) == 0 {
		return ReadyMessage, nil
	}

	target := p.targetField(rec)
	question, err := p.phraseQuestion(ctx, rec, conversation, target)
	if err != nil {
		p.record("question fallback", fmt.Sprintf("%s: %v", target, err))
		question = fallbackQuestions[target]
	}

	return decorate(question, target), missing
}

// targetField picks the single field to ask about next by tier priority
func (p *Planner) targetField(rec *trip.Record) string {
	for _, tier := range tiers {
		blank := lo.Filter(tier, func(field string, _ int) bool {
			return strings.TrimSpace(rec.Get(field)) == ""
		})
		if len(blank) > 0 {
			return blank[0]
		}
	}
	return trip.FieldDestination
}

func (p *Planner) phraseQuestion(ctx context.Context, rec *trip.Record, conversation, target string) (string, error) {
	systemPrompt := fmt.Sprintf(`You are a travel planning expert who excels at gathering information in a conversational way.
Your goal is to formulate the next best question to ask the user to gather essential travel information.
The question should flow naturally from the conversation and not feel like a generic form question.

The next information you need is the user's "%s".

Guidelines for your question:
- Make it sound natural and conversational, not like a form field
- Reference previously collected information when relevant
- Ask for only ONE piece of information at a time
- Never list the remaining missing details to the user
- Be specific but friendly`, target)

	filled, err := marshalFilled(rec)
	if err != nil {
		return "", err
	}

	userPrompt := fmt.Sprintf(`Current trip details:
%s

Recent conversation:
%s

Generate a single, natural-sounding question to ask about the user's "%s".
The question must fit naturally into the conversation flow and not feel like a survey.
Use what you already know about their trip to personalize the question.

Return ONLY the question you would ask the user, nothing else.`, filled, conversation, target)

	response, err := p.gw.Complete(ctx, gateway.Request{
		System:      systemPrompt,
		User:        userPrompt,
		Model:       p.cfg.Model,
		Temperature: p.cfg.CreativeTemperature,
		MaxTokens:   150,
	})
	if err != nil {
		return "", err
	}

	return cleanQuestion(response), nil
}

// cleanQuestion strips wrapping quotes and, when the model padded the
// question with explanation text, salvages the first sentence ending in "?"
func cleanQuestion(text string) string {
	text = strings.TrimSpace(text)
	for _, quote := range []string{`"`, `'`} {
		if strings.HasPrefix(text, quote) && strings.HasSuffix(text, quote) && len(text) > 1 {
			text = strings.TrimSuffix(strings.TrimPrefix(text, quote), quote)
			text = strings.TrimSpace(text)
		}
	}

	if strings.HasSuffix(text, "?") {
		return text
	}
	if at := strings.Index(text, "?"); at >= 0 {
		sentence := text[:at+1]
		// Back up to the start of the question sentence
		if cut := strings.LastIndexAny(sentence[:at], ".!"); cut >= 0 {
			sentence = sentence[cut+1:]
		}
		return strings.TrimSpace(sentence)
	}
	return text
}

// decorate appends the field's emoji suffix unless one is already present
func decorate(question, field string) string {
	for _, suffix := range knownSuffixes {
		if strings.Contains(question, suffix) {
			return question
		}
	}
	suffix, ok := fieldSuffixes[field]
	if !ok {
		suffix = "✨"
	}
	return question + " " + suffix
}

func marshalFilled(rec *trip.Record) (string, error) {
	filled := rec.Filled()
	if len(filled) == 0 {
		return "(nothing collected yet)", nil
	}
	var sb strings.Builder
	for _, field := range trip.AllFields {
		if value, ok := filled[field]; ok {
			fmt.Fprintf(&sb, "- %s: %s\n", field, value)
		}
	}
	return sb.String(), nil
}

func (p *Planner) record(action, detail string) {
	if p.log != nil {
		p.log.Record("details agent", action, detail)
	}
}
