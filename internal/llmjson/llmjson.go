// Package llmjson recovers structured data from free-form model output.
// Models are asked to end their responses with a JSON block, but routinely
// wrap it in prose or markdown fences; callers always want the last
// well-formed block in the text.
package llmjson

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

// ErrNoJSON is returned when no well-formed block is present
var ErrNoJSON = errors.New("no JSON block found in text")

// LastObject returns the last well-formed top-level {...} region in s
func LastObject(s string) (string, bool) {
	return lastBlock(s, '{', '}')
}

// LastArray returns the last well-formed top-level [...] region in s
func LastArray(s string) (string, bool) {
	return lastBlock(s, '[', ']')
}

// DecodeLastObject finds the last {...} block and decodes it into v
func DecodeLastObject(s string, v interface{}) error {
	block, ok := LastObject(StripFences(s))
	if !ok {
		return ErrNoJSON
	}
	if err := json.Unmarshal([]byte(block), v); err != nil {
		return fmt.Errorf("failed to decode JSON block: %w", err)
	}
	return nil
}

// DecodeLastArray finds the last [...] block and decodes it into v
func DecodeLastArray(s string, v interface{}) error {
	block, ok := LastArray(StripFences(s))
	if !ok {
		return ErrNoJSON
	}
	if err := json.Unmarshal([]byte(block), v); err != nil {
		return fmt.Errorf("failed to decode JSON block: %w", err)
	}
	return nil
}

// StripFences removes a wrapping markdown code fence if present
func StripFences(s string) string {
	s = strings.TrimSpace(s)
	if strings.HasPrefix(s, "```json") {
		s = strings.TrimPrefix(s, "```json")
		s = strings.TrimSuffix(s, "```")
		return strings.TrimSpace(s)
	}
	if strings.HasPrefix(s, "```") {
		s = strings.TrimPrefix(s, "```")
		s = strings.TrimSuffix(s, "```")
		return strings.TrimSpace(s)
	}
	return s
}

// lastBlock scans s for balanced top-level open...close regions and returns
// the last one that is valid JSON. String literals inside a candidate region
// are honored so embedded braces do not break the depth count.
func lastBlock(s string, open, close byte) (string, bool) {
	var (
		depth int
		start = -1
		inStr bool
		esc   bool
		best  string
		found bool
	)

	for i := 0; i < len(s); i++ {
		c := s[i]

		if inStr {
			switch {
			case esc:
				esc = false
			case c == '\\':
				esc = true
			case c == '"':
				inStr = false
			}
			continue
		}

		switch c {
		case '"':
			// Only treat quotes as string delimiters inside a candidate
			// region; prose quotes outside any block are not JSON.
			if depth > 0 {
				inStr = true
			}
		case open:
			if depth == 0 {
				start = i
			}
			depth++
		case close:
			if depth == 0 {
				continue
			}
			depth--
			if depth == 0 && start >= 0 {
				candidate := s[start : i+1]
				if json.Valid([]byte(candidate)) {
					best = candidate
					found = true
				}
				start = -1
				inStr = false
			}
		}
	}

	// An unterminated candidate may have swallowed a later well-formed
	// block; rescan past its opener so the trailing block still wins.
	if depth > 0 && start >= 0 && start+1 < len(s) {
		if tail, ok := lastBlock(s[start+1:], open, close); ok {
			return tail, true
		}
	}

	return best, found
}

// Offset returns the byte offset of block's last occurrence in s, or -1
func Offset(s, block string) int {
	return strings.LastIndex(s, block)
}
