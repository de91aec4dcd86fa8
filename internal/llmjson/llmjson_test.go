package llmjson

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLastObject_SingleBlock(t *testing.T) {
	block, ok := LastObject(`here you go: {"a": 1}`)

	require.True(t, ok)
	assert.Equal(t, `{"a": 1}`, block)
}

func TestLastObject_PicksLastOfMultiple(t *testing.T) {
	text := `First attempt {"a": 1} was wrong, use {"b": 2} instead`

	block, ok := LastObject(text)

	require.True(t, ok)
	assert.Equal(t, `{"b": 2}`, block)
}

func TestLastObject_NestedBraces(t *testing.T) {
	text := `Sure! {"outer": {"inner": {"deep": true}}, "n": 3}`

	block, ok := LastObject(text)

	require.True(t, ok)
	assert.Equal(t, `{"outer": {"inner": {"deep": true}}, "n": 3}`, block)
}

func TestLastObject_BracesInsideStrings(t *testing.T) {
	text := `{"note": "contains } and { inside", "x": 1}`

	block, ok := LastObject(text)

	require.True(t, ok)
	assert.Equal(t, text, block)
}

func TestLastObject_ProseBeforeAndAfter(t *testing.T) {
	text := "The model said:\n\n{\"trip_details\": {\"Destination\": \"Paris\"}}\n\nHope that helps!"

	block, ok := LastObject(text)

	require.True(t, ok)
	assert.JSONEq(t, `{"trip_details": {"Destination": "Paris"}}`, block)
}

func TestLastObject_SkipsMalformedKeepsValid(t *testing.T) {
	text := `{"good": 1} trailing {not valid json}`

	block, ok := LastObject(text)

	require.True(t, ok)
	assert.Equal(t, `{"good": 1}`, block)
}

func TestLastObject_RecoversAfterUnbalancedOpener(t *testing.T) {
	// The unterminated first object must not swallow the trailing one
	text := `{"broken: oops {"a": 1}`

	block, ok := LastObject(text)

	require.True(t, ok)
	assert.Equal(t, `{"a": 1}`, block)
}

func TestLastObject_UnterminatedStringThenValidBlock(t *testing.T) {
	text := `prose {"dangling": "never closed... and later {"b": 2}`

	block, ok := LastObject(text)

	require.True(t, ok)
	assert.Equal(t, `{"b": 2}`, block)
}

func TestLastObject_NoBlock(t *testing.T) {
	_, ok := LastObject("no json here at all")

	assert.False(t, ok)
}

func TestLastArray_PicksLastBlock(t *testing.T) {
	text := `ignore [1, 2] and take ["a", "b"]`

	block, ok := LastArray(text)

	require.True(t, ok)
	assert.Equal(t, `["a", "b"]`, block)
}

func TestDecodeLastObject(t *testing.T) {
	var out struct {
		A int `json:"a"`
	}

	err := DecodeLastObject(`prefix {"a": 7} suffix`, &out)

	require.NoError(t, err)
	assert.Equal(t, 7, out.A)
}

func TestDecodeLastObject_Fenced(t *testing.T) {
	var out map[string]int

	err := DecodeLastObject("```json\n{\"a\": 2}\n```", &out)

	require.NoError(t, err)
	assert.Equal(t, 2, out["a"])
}

func TestDecodeLastObject_NoJSON(t *testing.T) {
	var out map[string]int

	err := DecodeLastObject("nothing structured", &out)

	assert.ErrorIs(t, err, ErrNoJSON)
}

func TestDecodeLastArray(t *testing.T) {
	var out []string

	err := DecodeLastArray(`events: ["fest", "expo"]`, &out)

	require.NoError(t, err)
	assert.Equal(t, []string{"fest", "expo"}, out)
}

func TestStripFences(t *testing.T) {
	assert.Equal(t, `{"a":1}`, StripFences("```json\n{\"a\":1}\n```"))
	assert.Equal(t, `{"a":1}`, StripFences("```\n{\"a\":1}\n```"))
	assert.Equal(t, `{"a":1}`, StripFences(`{"a":1}`))
}
