package trip

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/samber/lo"

	"trip-planner/internal/llmjson"
)

// Field names for the trip record. The set is fixed at initialization;
// Set ignores anything outside it.
const (
	FieldDestination        = "Destination"
	FieldDuration           = "Duration"
	FieldBudget             = "Budget"
	FieldDietaryPreferences = "Dietary Preferences"
	FieldMobilityConcerns   = "Mobility Concerns"
	FieldSeason             = "Season"
	FieldActivityPrefs      = "Activity Preferences"
	FieldAccommodationType  = "Accommodation Type"
)

// RequiredFields must all be filled before an itinerary can be generated
var RequiredFields = []string{
	FieldDestination,
	FieldDuration,
	FieldBudget,
	FieldDietaryPreferences,
	FieldMobilityConcerns,
}

// OptionalFields enrich the itinerary but never gate it
var OptionalFields = []string{
	FieldSeason,
	FieldActivityPrefs,
	FieldAccommodationType,
}

// AllFields lists every known field in display order
var AllFields = append(append([]string{}, RequiredFields...), OptionalFields...)

// Record is the mutable mapping of trip field to collected value.
// An empty string means "unknown".
type Record struct {
	values map[string]string
}

// New creates a record with every known field present and empty
func New() *Record {
	values := make(map[string]string, len(AllFields))
	for _, field := range AllFields {
		values[field] = ""
	}
	return &Record{values: values}
}

// Known reports whether field is part of the fixed field set
func Known(field string) bool {
	_, ok := New().values[field]
	return ok
}

// Get returns the collected value for field, or "" for unknown fields
func (r *Record) Get(field string) string {
	return r.values[field]
}

// Set records a trimmed value for a known field and reports whether the
// stored value changed. Unknown fields and blank values are ignored.
func (r *Record) Set(field, value string) bool {
	if _, ok := r.values[field]; !ok {
		return false
	}
	value = strings.TrimSpace(value)
	if value == "" || r.values[field] == value {
		return false
	}
	r.values[field] = value
	return true
}

// Merge applies Set for every entry in values and reports whether
// anything changed
func (r *Record) Merge(values map[string]string) bool {
	modified := false
	for field, value := range values {
		if r.Set(field, value) {
			modified = true
		}
	}
	return modified
}

// IsComplete reports whether every required field holds a non-blank value
func (r *Record) IsComplete() bool {
	return len(r.Missing()) == 0
}

// Missing returns the required fields still blank, in priority order
func (r *Record) Missing() []string {
	return lo.Filter(RequiredFields, func(field string, _ int) bool {
		return strings.TrimSpace(r.values[field]) == ""
	})
}

// Reset clears every value while leaving the key set intact
func (r *Record) Reset() {
	for field := range r.values {
		r.values[field] = ""
	}
}

// Snapshot returns a copy of the current field values
func (r *Record) Snapshot() map[string]string {
	out := make(map[string]string, len(r.values))
	for field, value := range r.values {
		out[field] = value
	}
	return out
}

// Filled returns only the non-blank field values
func (r *Record) Filled() map[string]string {
	out := make(map[string]string)
	for field, value := range r.values {
		if strings.TrimSpace(value) != "" {
			out[field] = value
		}
	}
	return out
}

// block is the wire shape shared with the completion model: the assistant
// is asked to reproduce it at the end of every reply.
type block struct {
	TripDetails map[string]string `json:"trip_details"`
}

// MarshalBlock renders the record as its trailing JSON block form
func (r *Record) MarshalBlock() (string, error) {
	data, err := json.MarshalIndent(block{TripDetails: r.Snapshot()}, "", "    ")
	if err != nil {
		return "", fmt.Errorf("failed to marshal trip details: %w", err)
	}
	return string(data), nil
}

// ExtractBlock pulls a trailing trip_details JSON block out of assistant
// text. It returns the field values, the text with the block removed, and
// whether a block was found. Malformed blocks are treated as absent.
func ExtractBlock(text string) (map[string]string, string, bool) {
	var parsed block
	if err := llmjson.DecodeLastObject(text, &parsed); err != nil || parsed.TripDetails == nil {
		return nil, text, false
	}

	// Remove the block from the fence-stripped text so a fully
	// fence-wrapped reply does not leave dangling markers behind.
	stripped := llmjson.StripFences(text)
	if raw, ok := llmjson.LastObject(stripped); ok {
		if at := llmjson.Offset(stripped, raw); at >= 0 {
			stripped = strings.TrimSpace(stripped[:at] + stripped[at+len(raw):])
		}
	}

	return parsed.TripDetails, stripped, true
}
