package itinerary

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseDuration(t *testing.T) {
	tests := []struct {
		input string
		days  int
	}{
		{"10 days", 10},
		{"5", 5},
		{"I'll stay 12 nights", 12},
		{"a week", 7},
		{"one week", 7},
		{"two weeks", 14},
		{"three weeks", 21},
		{"weekend", 2},
		{"long weekend", 3},
		{"a long weekend getaway", 3},
		{"asdf", 3},
		{"", 3},
		{"   ", 3},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.days, ParseDuration(tt.input))
		})
	}
}

func TestParseDuration_NumberWinsOverKeyword(t *testing.T) {
	assert.Equal(t, 4, ParseDuration("4 day weekend trip"))
}
