// Package transcript holds the in-memory conversation history for a single
// planning session. It is the sole memory of dialogue state: the last N
// turns form the window handed to the completion backend.
package transcript

import (
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
)

// Roles for conversation turns
const (
	RoleSystem    = "system"
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// Turn is a single conversation turn
type Turn struct {
	Role      string    `json:"role"`
	Content   string    `json:"content"`
	Timestamp time.Time `json:"timestamp"`
}

// Transcript is an append-only ordered sequence of turns with a single
// leading system turn. It never leaves process memory.
type Transcript struct {
	mu     sync.RWMutex
	id     string
	system string
	turns  []Turn
}

// New creates a transcript with the given leading system prompt
func New(systemPrompt string) *Transcript {
	return &Transcript{
		id:     uuid.New().String(),
		system: systemPrompt,
	}
}

// ID returns the session identifier
func (t *Transcript) ID() string {
	return t.id
}

// SystemPrompt returns the leading system turn's text
func (t *Transcript) SystemPrompt() string {
	return t.system
}

// Append adds a user or assistant turn. System turns beyond the leading one
// are not stored.
func (t *Transcript) Append(role, content string) {
	if role != RoleUser && role != RoleAssistant {
		return
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	t.turns = append(t.turns, Turn{
		Role:      role,
		Content:   content,
		Timestamp: time.Now(),
	})
}

// Recent returns the last n turns (excluding the system turn)
func (t *Transcript) Recent(n int) []Turn {
	t.mu.RLock()
	defer t.mu.RUnlock()

	if n > len(t.turns) {
		n = len(t.turns)
	}
	out := make([]Turn, n)
	copy(out, t.turns[len(t.turns)-n:])
	return out
}

// Len returns the number of non-system turns
func (t *Transcript) Len() int {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return len(t.turns)
}

// Render flattens the last n turns into "ROLE: text" lines for prompt
// interpolation
func (t *Transcript) Render(n int) string {
	turns := t.Recent(n)
	var sb strings.Builder
	for i, turn := range turns {
		if i > 0 {
			sb.WriteString("\n")
		}
		sb.WriteString(strings.ToUpper(turn.Role))
		sb.WriteString(": ")
		sb.WriteString(turn.Content)
	}
	return sb.String()
}
