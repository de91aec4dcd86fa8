package trip

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew_AllFieldsPresentAndEmpty(t *testing.T) {
	rec := New()

	for _, field := range AllFields {
		assert.Equal(t, "", rec.Get(field))
	}
	assert.False(t, rec.IsComplete())
}

func TestSet_UnknownFieldIgnored(t *testing.T) {
	rec := New()

	changed := rec.Set("Favorite Color", "blue")

	assert.False(t, changed)
	assert.Equal(t, "", rec.Get("Favorite Color"))
}

func TestSet_TrimsAndIgnoresBlank(t *testing.T) {
	rec := New()

	assert.True(t, rec.Set(FieldDestination, "  Paris  "))
	assert.Equal(t, "Paris", rec.Get(FieldDestination))

	assert.False(t, rec.Set(FieldDuration, "   "))
	assert.Equal(t, "", rec.Get(FieldDuration))
}

func TestIsComplete_RequiresAllRequiredFields(t *testing.T) {
	rec := New()
	rec.Set(FieldDestination, "Paris")
	rec.Set(FieldDuration, "5 days")
	rec.Set(FieldBudget, "mid-range")
	rec.Set(FieldDietaryPreferences, "none")

	assert.False(t, rec.IsComplete())
	assert.Equal(t, []string{FieldMobilityConcerns}, rec.Missing())

	rec.Set(FieldMobilityConcerns, "none")

	assert.True(t, rec.IsComplete())
	assert.Empty(t, rec.Missing())
}

func TestIsComplete_OptionalFieldsDoNotGate(t *testing.T) {
	rec := New()
	for _, field := range RequiredFields {
		rec.Set(field, "x")
	}

	require.True(t, rec.IsComplete())

	// Filling or leaving optional fields must not change completeness
	rec.Set(FieldSeason, "summer")
	assert.True(t, rec.IsComplete())
}

func TestMissing_PriorityOrder(t *testing.T) {
	rec := New()
	rec.Set(FieldBudget, "luxury")

	missing := rec.Missing()

	assert.Equal(t, []string{
		FieldDestination,
		FieldDuration,
		FieldDietaryPreferences,
		FieldMobilityConcerns,
	}, missing)
}

func TestReset_ClearsValuesKeepsKeys(t *testing.T) {
	rec := New()
	rec.Set(FieldDestination, "Kyoto")
	rec.Set(FieldSeason, "autumn")

	rec.Reset()

	for _, field := range AllFields {
		assert.Equal(t, "", rec.Get(field))
	}
	// Key set survives a reset
	assert.True(t, rec.Set(FieldDestination, "Oslo"))
}

func TestMerge(t *testing.T) {
	rec := New()

	modified := rec.Merge(map[string]string{
		FieldDestination: "Lisbon",
		FieldDuration:    "a week",
		"Bogus":          "ignored",
	})

	assert.True(t, modified)
	assert.Equal(t, "Lisbon", rec.Get(FieldDestination))
	assert.Equal(t, "a week", rec.Get(FieldDuration))

	// Merging identical values reports no change
	assert.False(t, rec.Merge(map[string]string{FieldDestination: "Lisbon"}))
}

func TestKnown(t *testing.T) {
	assert.True(t, Known(FieldDestination))
	assert.True(t, Known(FieldAccommodationType))
	assert.False(t, Known("Shoe Size"))
}

func TestMarshalBlock_RoundTrip(t *testing.T) {
	rec := New()
	rec.Set(FieldDestination, "Paris")
	rec.Set(FieldBudget, "mid-range")

	blockText, err := rec.MarshalBlock()
	require.NoError(t, err)

	values, _, found := ExtractBlock("Sounds great!\n\n" + blockText)
	require.True(t, found)
	assert.Equal(t, "Paris", values[FieldDestination])
	assert.Equal(t, "mid-range", values[FieldBudget])
}

func TestExtractBlock_StripsBlockFromText(t *testing.T) {
	text := "Paris sounds lovely! How long will you stay? 📅\n\n" +
		`{"trip_details": {"Destination": "Paris", "Duration": ""}}`

	values, stripped, found := ExtractBlock(text)

	require.True(t, found)
	assert.Equal(t, "Paris", values[FieldDestination])
	assert.Equal(t, "Paris sounds lovely! How long will you stay? 📅", stripped)
}

func TestExtractBlock_FenceWrappedReply(t *testing.T) {
	text := "```json\nOff to Oslo then!\n\n" +
		`{"trip_details": {"Destination": "Oslo"}}` + "\n```"

	values, stripped, found := ExtractBlock(text)

	require.True(t, found)
	assert.Equal(t, "Oslo", values[FieldDestination])
	assert.Equal(t, "Off to Oslo then!", stripped)
	assert.NotContains(t, stripped, "```")
}

func TestExtractBlock_NoBlock(t *testing.T) {
	values, stripped, found := ExtractBlock("just chatting about travel")

	assert.False(t, found)
	assert.Nil(t, values)
	assert.Equal(t, "just chatting about travel", stripped)
}

func TestExtractBlock_MalformedBlockTreatedAsAbsent(t *testing.T) {
	_, _, found := ExtractBlock(`reply text {"trip_details": broken}`)

	assert.False(t, found)
}
