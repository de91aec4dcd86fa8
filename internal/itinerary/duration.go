package itinerary

import (
	"regexp"
	"strconv"
	"strings"
)

// defaultDays is used when no duration signal can be found at all
const defaultDays = 3

var firstNumber = regexp.MustCompile(`\d+`)

// ParseDuration extracts a day count from free-text duration like
// "10 days", "a week", or "long weekend". It is a best-effort normalizer,
// not a grammar: anything unrecognized falls back to the default.
func ParseDuration(text string) int {
	text = strings.TrimSpace(text)
	if text == "" {
		return defaultDays
	}

	if match := firstNumber.FindString(text); match != "" {
		if days, err := strconv.Atoi(match); err == nil && days > 0 {
			return days
		}
	}

	lower := strings.ToLower(text)
	switch {
	case strings.Contains(lower, "week"):
		if strings.Contains(lower, "two") {
			return 14
		}
		if strings.Contains(lower, "three") {
			return 21
		}
		if strings.Contains(lower, "weekend") {
			if strings.Contains(lower, "long") {
				return 3
			}
			return 2
		}
		return 7
	}

	return defaultDays
}
