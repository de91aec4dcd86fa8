// Package dialogue orchestrates one planning conversation per user turn:
// extract slots, research the destination, plan the next question, compose
// the reply, and generate the itinerary once asked. All mutable state hangs
// off the Session — there are no package-level globals, so callers serving
// several conversations hold one Session each.
package dialogue

import (
	"context"
	"fmt"
	"strings"

	"trip-planner/internal/activity"
	"trip-planner/internal/config"
	"trip-planner/internal/extractor"
	"trip-planner/internal/gateway"
	"trip-planner/internal/itinerary"
	"trip-planner/internal/planner"
	"trip-planner/internal/research"
	"trip-planner/internal/transcript"
	"trip-planner/internal/trip"
)

// State is the dialogue state machine position
type State int

const (
	// StateCollecting means required trip details are still missing
	StateCollecting State = iota
	// StateReady means every required detail is filled
	StateReady
	// StateItineraryGenerated means an itinerary exists for the current
	// destination
	StateItineraryGenerated
)

func (s State) String() string {
	switch s {
	case StateCollecting:
		return "COLLECTING"
	case StateReady:
		return "READY"
	case StateItineraryGenerated:
		return "ITINERARY_GENERATED"
	default:
		return "UNKNOWN"
	}
}

// Greeting opens every session
const Greeting = "Hi! I'm so excited to help you plan your next adventure! ✈️ Where would you like to go? Tell me about your dream destination! 🌟"

const generatingMessage = "Perfect! I'll create your personalized itinerary now... ✨"

const personaPrompt = `You are a friendly and knowledgeable travel expert.

Your personality:
- Warm and engaging, using a conversational tone
- Enthusiastic about travel planning
- Helpful but not pushy
- Asks thoughtful follow-up questions but only one at a time

Your goal is to help users plan their perfect vacation by gathering key information
and providing personalized recommendations.

Always maintain a natural conversation flow while collecting the necessary information.
Respond to user queries directly, while gently guiding the conversation toward
collecting the required trip details if they're still missing.`

// TurnResult is what one processed user turn produces
type TurnResult struct {
	// Reply is the assistant text to display (trip-details block stripped)
	Reply string
	// Missing lists required fields still blank after the turn
	Missing []string
	// Itinerary holds the markdown document when this turn generated one
	Itinerary string
	// GeneratedNow is true when Itinerary was produced by this turn
	GeneratedNow bool
	// State is the machine position after the turn
	State State
}

// Session owns all conversation state and the agents operating on it.
// Processing is strictly turn-serial; a Session must not be shared between
// concurrent conversations.
type Session struct {
	cfg        *config.Config
	log        *activity.Log
	gw         gateway.Completer
	record     *trip.Record
	transcript *transcript.Transcript
	extractor  *extractor.Extractor
	planner    *planner.Planner
	research   *research.Service
	composer   *itinerary.Composer

	itinerary string
	generated bool
}

// NewSession creates a session with an empty trip record and fresh transcript
func NewSession(cfg *config.Config, gw gateway.Completer, log *activity.Log) *Session {
	s := &Session{
		cfg:        cfg,
		log:        log,
		gw:         gw,
		record:     trip.New(),
		transcript: transcript.New(personaPrompt),
		extractor:  extractor.New(gw, cfg, log),
		planner:    planner.New(gw, cfg, log),
		research:   research.New(gw, cfg, log),
		composer:   itinerary.New(gw, cfg, log),
	}
	s.transcript.Append(transcript.RoleAssistant, Greeting)
	return s
}

// ID returns the session identifier
func (s *Session) ID() string {
	return s.transcript.ID()
}

// Record returns the session's trip record
func (s *Session) Record() *trip.Record {
	return s.record
}

// Transcript returns the session's conversation transcript
func (s *Session) Transcript() *transcript.Transcript {
	return s.transcript
}

// ActivityLog returns the session's diagnostic activity log
func (s *Session) ActivityLog() *activity.Log {
	return s.log
}

// State reports the machine position derived from record completeness and
// itinerary state
func (s *Session) State() State {
	switch {
	case s.generated:
		return StateItineraryGenerated
	case s.record.IsComplete():
		return StateReady
	default:
		return StateCollecting
	}
}

// Itinerary returns the stored itinerary, if one has been generated
func (s *Session) Itinerary() (string, bool) {
	return s.itinerary, s.generated
}

// ProcessTurn runs one full dialogue turn for the given user input.
// A gateway failure aborts the turn with an error and leaves the record
// and pending reply unchanged; parse failures degrade silently.
func (s *Session) ProcessTurn(ctx context.Context, input string) (*TurnResult, error) {
	input = strings.TrimSpace(input)
	if input == "" {
		return nil, fmt.Errorf("empty input")
	}

	s.transcript.Append(transcript.RoleUser, input)
	window := s.transcript.Render(s.cfg.HistoryWindow)

	previousDestination := s.record.Get(trip.FieldDestination)
	if _, err := s.extractor.Extract(ctx, window, s.record); err != nil {
		return nil, err
	}
	s.handleDestinationChange(ctx, previousDestination)

	question, missing := s.planner.Next(ctx, s.record, window)

	wantsItinerary := DetectGenerateIntent(input)
	if wantsItinerary && s.record.IsComplete() {
		return s.generateTurn(ctx, missing)
	}

	reply, err := s.composeReply(ctx, question, missing)
	if err != nil {
		return nil, err
	}

	s.transcript.Append(transcript.RoleAssistant, reply)

	values, displayText, found := trip.ExtractBlock(reply)
	if found {
		prev := s.record.Get(trip.FieldDestination)
		s.record.Merge(values)
		s.handleDestinationChange(ctx, prev)
	}
	if strings.TrimSpace(displayText) == "" {
		displayText = question
	}

	return &TurnResult{
		Reply:   displayText,
		Missing: s.record.Missing(),
		State:   s.State(),
	}, nil
}

// generateTurn handles a turn whose intent is itinerary generation
func (s *Session) generateTurn(ctx context.Context, missing []string) (*TurnResult, error) {
	doc, err := s.GenerateItinerary(ctx)
	if err != nil {
		return nil, err
	}

	reply := generatingMessage
	s.transcript.Append(transcript.RoleAssistant, reply)

	return &TurnResult{
		Reply:        reply,
		Missing:      missing,
		Itinerary:    doc,
		GeneratedNow: true,
		State:        s.State(),
	}, nil
}

// GenerateItinerary composes and stores an itinerary for the current
// record. Callers may invoke it directly for manual regeneration; a
// *itinerary.ValidationError is returned when details are insufficient.
func (s *Session) GenerateItinerary(ctx context.Context) (string, error) {
	res := s.research.Lookup(ctx, s.record.Get(trip.FieldDestination))

	doc, err := s.composer.Compose(ctx, s.record, res)
	if err != nil {
		return "", err
	}

	s.itinerary = doc
	s.generated = true
	s.log.Record("session", "itinerary generated", s.record.Get(trip.FieldDestination))
	return doc, nil
}

// composeReply asks the backend for the conversational reply, guided by
// the planned question and current details
func (s *Session) composeReply(ctx context.Context, question string, missing []string) (string, error) {
	detailsBlock, err := s.record.MarshalBlock()
	if err != nil {
		return "", err
	}

	missingText := "None"
	if len(missing) > 0 {
		missingText = strings.Join(missing, ", ")
	}

	destinationInfo := ""
	if res := s.research.Lookup(ctx, s.record.Get(trip.FieldDestination)); res != nil {
		destinationInfo = res.Summary(300)
	}

	systemPrompt := s.transcript.SystemPrompt() + fmt.Sprintf(`

Current trip details: %s
Next question to ask: %s
Missing required fields: %s

Destination information: %s

Guidelines:
1. Maintain a natural, friendly conversation
2. If all details are collected, remind the user they can say "generate itinerary"
3. Always include the trip details JSON object at the end of your response`,
		detailsBlock, question, missingText, destinationInfo)

	reply, err := s.gw.Complete(ctx, gateway.Request{
		System:      systemPrompt,
		User:        s.transcript.Render(s.cfg.HistoryWindow),
		Model:       s.cfg.Model,
		Temperature: s.cfg.BalancedTemperature,
		MaxTokens:   s.cfg.MaxTokensStandard,
	})
	if err != nil {
		return "", err
	}
	return reply, nil
}

// handleDestinationChange clears the stored itinerary when the destination
// moved to a different non-empty value; other fields are untouched. The new
// destination is researched eagerly so the data is warm by generation time.
func (s *Session) handleDestinationChange(ctx context.Context, previous string) {
	current := s.record.Get(trip.FieldDestination)
	if current == "" || current == previous {
		return
	}
	if s.generated {
		s.itinerary = ""
		s.generated = false
		s.log.Record("session", "reset itinerary", "destination changed")
	}
	s.research.Lookup(ctx, current)
}

// SetDetail is the manual edit path (the /set command): it applies one
// field value with the same destination-change semantics as extraction
func (s *Session) SetDetail(field, value string) error {
	if !trip.Known(field) {
		return fmt.Errorf("unknown trip detail %q", field)
	}
	previous := s.record.Get(trip.FieldDestination)
	if s.record.Set(field, value) {
		s.log.Record("session", "updated "+field, value)
	}
	s.handleDestinationChange(context.Background(), previous)
	return nil
}

// Reset clears the trip record and any generated itinerary
func (s *Session) Reset() {
	s.record.Reset()
	s.itinerary = ""
	s.generated = false
	s.log.Record("session", "reset", "trip details cleared")
}
