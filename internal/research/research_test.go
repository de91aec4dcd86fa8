package research

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"trip-planner/internal/activity"
	"trip-planner/internal/config"
	"trip-planner/internal/gateway"
)

// routingCompleter dispatches canned responses by prompt content, standing
// in for the four fabrication calls
type routingCompleter struct {
	calls     int
	overview  string
	weather   string
	events    string
	advisory  string
}

func (r *routingCompleter) Complete(_ context.Context, req gateway.Request) (string, error) {
	r.calls++
	switch {
	case strings.Contains(req.System, "weather information specialist"):
		return r.weather, nil
	case strings.Contains(req.System, "events research specialist"):
		return r.events, nil
	case strings.Contains(req.System, "travel safety specialist"):
		return r.advisory, nil
	default:
		return r.overview, nil
	}
}

func goodCompleter() *routingCompleter {
	return &routingCompleter{
		overview: "# Paris\n\nThe city of light.\n\n## Top Attractions\n1. Louvre\n2. Eiffel Tower\n\n## Local Cuisine\nBistros everywhere.",
		weather:  `{"current": {"temp": "21°C", "condition": "Sunny", "humidity": "55%"}, "forecast": [{"day": "Today", "temp_high": "23°C", "temp_low": "15°C", "condition": "Sunny"}]}`,
		events:   `[{"name": "Jazz Festival", "date": "2026-09-10", "venue": "Parc Floral", "category": "Music", "description": "Open-air jazz", "ticket_info": "Free"}]`,
		advisory: `{"overall_risk": "Low", "safety_info": "Mind pickpockets.", "health_info": "None.", "entry_requirements": "Schengen rules.", "emergency_contacts": {"police": "17"}}`,
	}
}

func newService(stub gateway.Completer, fabricate bool) *Service {
	cfg := config.NewConfig()
	cfg.FabricateResearch = fabricate
	return New(stub, cfg, activity.NewLog(50))
}

func TestLookup_FabricatesAllSections(t *testing.T) {
	stub := goodCompleter()
	svc := newService(stub, true)

	rec := svc.Lookup(context.Background(), "Paris")

	require.NotNil(t, rec)
	assert.Equal(t, "Paris", rec.Destination)
	assert.False(t, rec.FetchedAt.IsZero())
	assert.Contains(t, rec.Overview, "city of light")
	require.NotNil(t, rec.Weather)
	assert.Equal(t, "21°C", rec.Weather.Current.Temp)
	require.Len(t, rec.Events, 1)
	assert.Equal(t, "Jazz Festival", rec.Events[0].Name)
	require.NotNil(t, rec.Advisory)
	assert.Equal(t, "Low", rec.Advisory.OverallRisk)
	assert.Equal(t, 4, stub.calls)
}

func TestLookup_CachesPerDestination(t *testing.T) {
	stub := goodCompleter()
	svc := newService(stub, true)

	first := svc.Lookup(context.Background(), "Paris")
	second := svc.Lookup(context.Background(), " Paris ")

	assert.Same(t, first, second)
	assert.Equal(t, 4, stub.calls)
}

func TestLookup_PartialParseFailureDegrades(t *testing.T) {
	stub := goodCompleter()
	stub.weather = "sorry, clouds everywhere but no JSON"
	stub.events = "also not a list"
	svc := newService(stub, true)

	rec := svc.Lookup(context.Background(), "Paris")

	require.NotNil(t, rec)
	assert.Nil(t, rec.Weather)
	assert.NotEmpty(t, rec.WeatherErr)
	assert.Empty(t, rec.Events)
	require.NotNil(t, rec.Advisory)
	assert.Contains(t, rec.Overview, "city of light")
}

func TestLookup_DegradedRecordIsStillCached(t *testing.T) {
	stub := goodCompleter()
	stub.weather = "no JSON at all"
	svc := newService(stub, true)

	svc.Lookup(context.Background(), "Paris")
	callsAfterFirst := stub.calls
	svc.Lookup(context.Background(), "Paris")

	assert.Equal(t, callsAfterFirst, stub.calls)
}

func TestLookup_DisabledReturnsNil(t *testing.T) {
	stub := goodCompleter()
	svc := newService(stub, false)

	rec := svc.Lookup(context.Background(), "Paris")

	assert.Nil(t, rec)
	assert.Equal(t, 0, stub.calls)
}

func TestLookup_BlankDestinationReturnsNil(t *testing.T) {
	svc := newService(goodCompleter(), true)

	assert.Nil(t, svc.Lookup(context.Background(), "   "))
}

func TestLookup_CapacityBound(t *testing.T) {
	stub := goodCompleter()
	cfg := config.NewConfig()
	cfg.ResearchCapacity = 2
	svc := New(stub, cfg, activity.NewLog(50))

	svc.Lookup(context.Background(), "Paris")
	svc.Lookup(context.Background(), "Rome")
	svc.Lookup(context.Background(), "Oslo")

	// The third destination is fabricated but not cached
	callsBefore := stub.calls
	svc.Lookup(context.Background(), "Oslo")
	assert.Greater(t, stub.calls, callsBefore)

	// Cached destinations still hit
	svc.Lookup(context.Background(), "Paris")
	assert.Equal(t, callsBefore+4, stub.calls)
}

func TestSummary_FirstSection(t *testing.T) {
	rec := &Record{Overview: "Intro paragraph about the place.\n\n## Best Time to Visit\nSpring."}

	summary := rec.Summary(0)

	assert.Equal(t, "Intro paragraph about the place.", summary)
}

func TestSummary_Truncates(t *testing.T) {
	rec := &Record{Overview: strings.Repeat("x", 50)}

	summary := rec.Summary(10)

	assert.Equal(t, strings.Repeat("x", 10)+"...", summary)
}

func TestSummary_NilRecord(t *testing.T) {
	var rec *Record

	assert.Equal(t, "", rec.Summary(100))
}
