package dialogue

import (
	"strings"
	"unicode"
)

// Intent detection for "build my itinerary now". A plain substring scan
// over trigger phrases fires on sentences like "I generally like plans",
// so the matcher works on tokens: a generate verb must appear shortly
// before an itinerary noun.

var generateVerbs = map[string]bool{
	"generate":   true,
	"regenerate": true,
	"create":     true,
	"make":       true,
	"build":      true,
	"plan":       true,
}

var itineraryNouns = map[string]bool{
	"itinerary": true,
	"trip":      true,
	"plan":      true,
	"vacation":  true,
}

// verbNounWindow is the maximum token distance between verb and noun
const verbNounWindow = 3

// DetectGenerateIntent reports whether the user's input asks for itinerary
// generation. The verb and noun must be distinct tokens with the verb
// first, so a lone "plan" or "generate" never fires.
func DetectGenerateIntent(input string) bool {
	tokens := tokenize(input)

	for i, token := range tokens {
		if !generateVerbs[token] {
			continue
		}
		limit := i + verbNounWindow
		if limit >= len(tokens) {
			limit = len(tokens) - 1
		}
		for j := i + 1; j <= limit; j++ {
			if itineraryNouns[tokens[j]] {
				return true
			}
		}
	}
	return false
}

func tokenize(input string) []string {
	return strings.FieldsFunc(strings.ToLower(input), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsNumber(r)
	})
}
