// Package itinerary turns a complete trip record (plus optional destination
// research) into a single markdown document: overview, one block per day,
// practical information, and a generation footer. Each fragment is its own
// completion call; no cross-fragment consistency is attempted beyond
// sharing the same research text.
package itinerary

import (
	"context"
	"fmt"
	"hash/fnv"
	"regexp"
	"strings"
	"time"

	"trip-planner/internal/activity"
	"trip-planner/internal/config"
	"trip-planner/internal/gateway"
	"trip-planner/internal/research"
	"trip-planner/internal/trip"
)

// ValidationError reports unmet composition preconditions
type ValidationError struct {
	Missing []string
}

func (e *ValidationError) Error() string {
	return "insufficient details to generate an itinerary: missing " + strings.Join(e.Missing, ", ")
}

// interiorThemes is the fixed rotation for days between the first and last.
// The pick is keyed by day index plus a destination hash, so themes are
// deterministic per destination but differ between destinations.
var interiorThemes = []string{
	"Cultural Immersion",
	"Natural Beauty",
	"Local Experiences",
	"Historical Discovery",
	"Culinary Adventure",
	"Relaxation & Leisure",
	"Off the Beaten Path",
}

const (
	firstDayTheme = "Orientation & Key Highlights"
	lastDayTheme  = "Final Explorations & Favorites"
)

var listItem = regexp.MustCompile(`(?m)^(?:\d+\.|[-*])\s+(.+)$`)

// Composer generates itinerary documents
type Composer struct {
	gw  gateway.Completer
	cfg *config.Config
	log *activity.Log
	now func() time.Time
}

// New creates an itinerary composer
func New(gw gateway.Completer, cfg *config.Config, log *activity.Log) *Composer {
	return &Composer{gw: gw, cfg: cfg, log: log, now: time.Now}
}

// Compose builds the full markdown itinerary. Destination and Duration must
// be non-blank; everything else degrades per fragment — a failed day call
// becomes a visible placeholder block rather than failing the document.
func (c *Composer) Compose(ctx context.Context, rec *trip.Record, res *research.Record) (string, error) {
	if err := validate(rec); err != nil {
		return "", err
	}

	destination := rec.Get(trip.FieldDestination)
	days := ParseDuration(rec.Get(trip.FieldDuration))
	c.record("generating", fmt.Sprintf("%d-day itinerary for %s", days, destination))

	overview := c.composeOverview(ctx, rec, res)
	dayBlocks := c.composeDays(ctx, rec, res, days)
	practical := c.composePractical(ctx, rec, res)

	var sb strings.Builder
	fmt.Fprintf(&sb, "# Your %d-Day Adventure in %s ✈️\n\n", days, destination)
	sb.WriteString("## Trip Overview\n")
	sb.WriteString(overview)
	sb.WriteString("\n\n---\n\n")
	sb.WriteString(strings.Join(dayBlocks, "\n\n---\n\n"))
	sb.WriteString("\n\n---\n\n")
	sb.WriteString(practical)
	sb.WriteString("\n\n---\n\n")
	fmt.Fprintf(&sb, "*This itinerary was created on %s based on current travel information.*\n", c.now().Format("2006-01-02"))

	return sb.String(), nil
}

func validate(rec *trip.Record) error {
	var missing []string
	for _, field := range []string{trip.FieldDestination, trip.FieldDuration} {
		if strings.TrimSpace(rec.Get(field)) == "" {
			missing = append(missing, field)
		}
	}
	if len(missing) > 0 {
		return &ValidationError{Missing: missing}
	}
	return nil
}

// DayTheme returns the theme for a given 1-based day of an n-day trip
func DayTheme(day, days int, destination string) string {
	if day == 1 {
		return firstDayTheme
	}
	if day == days {
		return lastDayTheme
	}
	return interiorThemes[(day+hashDestination(destination))%len(interiorThemes)]
}

func hashDestination(destination string) int {
	h := fnv.New32a()
	h.Write([]byte(destination))
	return int(h.Sum32() % uint32(len(interiorThemes)))
}

func (c *Composer) composeOverview(ctx context.Context, rec *trip.Record, res *research.Record) string {
	systemPrompt := `You are a travel planner creating an engaging overview section for a trip itinerary.
Write a concise but informative summary of the trip, highlighting what makes this destination special.
Include practical information based on the budget level and duration.
Format your response in markdown with appropriate styling.`

	destinationInfo := ""
	if summary := res.Summary(0); summary != "" {
		destinationInfo = "Destination Information:\n" + summary
	}

	userPrompt := fmt.Sprintf(`Create an overview section for a %s trip to %s with a %s budget.

%s

Keep it concise (200-300 words) but exciting and informative, highlighting the key experiences and what makes this trip special.`,
		rec.Get(trip.FieldDuration), rec.Get(trip.FieldDestination), rec.Get(trip.FieldBudget), destinationInfo)

	overview, err := c.gw.Complete(ctx, gateway.Request{
		System:      systemPrompt,
		User:        userPrompt,
		Model:       c.cfg.Model,
		Temperature: c.cfg.CreativeTemperature,
		MaxTokens:   500,
	})
	if err != nil {
		c.record("overview error", err.Error())
		return "_The trip overview could not be generated._"
	}
	return overview
}

func (c *Composer) composeDays(ctx context.Context, rec *trip.Record, res *research.Record, days int) []string {
	attractions := extractAttractions(res)
	events := upcomingEvents(res)

	blocks := make([]string, 0, days)
	for day := 1; day <= days; day++ {
		theme := DayTheme(day, days, rec.Get(trip.FieldDestination))
		plan, err := c.composeDay(ctx, rec, day, theme, attractions, events)
		if err != nil {
			c.record("day error", fmt.Sprintf("day %d: %v", day, err))
			plan = "_Plans for this day could not be generated._"
		}
		blocks = append(blocks, fmt.Sprintf("## Day %d: %s\n\n%s", day, theme, plan))
	}
	return blocks
}

func (c *Composer) composeDay(ctx context.Context, rec *trip.Record, day int, theme string, attractions, events []string) (string, error) {
	systemPrompt := `You are a travel planner creating a detailed day plan for a vacation itinerary.
Structure your response with Morning, Afternoon, and Evening sections.
Include specific venues with realistic names, times, and practical details.
Format in markdown with clear headings and bullet points.
Ensure activities flow logically with appropriate travel time between locations.`

	attractionsText := ""
	if len(attractions) > 0 {
		attractionsText = "Suggested attractions:\n- " + strings.Join(attractions, "\n- ")
	}
	eventsText := ""
	if len(events) > 0 {
		eventsText = "Events happening during the stay (work them in where the theme fits):\n- " + strings.Join(events, "\n- ")
	}

	userPrompt := fmt.Sprintf(`Create a detailed Day %d itinerary for a trip to %s with theme: "%s".

Trip details:
- Budget level: %s
- Dietary preferences: %s
- Mobility concerns: %s

%s

%s

Include:
1. A morning activity with breakfast recommendation
2. Lunch at a specific venue appropriate to the budget level
3. Afternoon activities
4. Dinner recommendation
5. Evening activity or relaxation

For each place mentioned, include:
- Name and brief description
- Approximate timings
- Price range indicator ($ to $$$)
- Any special notes or tips`,
		day, rec.Get(trip.FieldDestination), theme,
		rec.Get(trip.FieldBudget), rec.Get(trip.FieldDietaryPreferences), rec.Get(trip.FieldMobilityConcerns),
		attractionsText, eventsText)

	return c.gw.Complete(ctx, gateway.Request{
		System:      systemPrompt,
		User:        userPrompt,
		Model:       c.cfg.Model,
		Temperature: c.cfg.CreativeTemperature,
		MaxTokens:   c.cfg.MaxTokensLarge,
	})
}

func (c *Composer) composePractical(ctx context.Context, rec *trip.Record, res *research.Record) string {
	systemPrompt := `You are a travel planning assistant providing practical information for a trip.
Create a concise section with essential practical tips including:
1. Local transportation options
2. Packing recommendations
3. Money and tipping customs
4. Essential phrases if applicable
5. Emergency contacts and safety tips

Format your response in clear markdown with appropriate headings and bullet points.`

	userPrompt := fmt.Sprintf(`Create a practical information section for a trip to %s.
Include transportation options, packing tips, money handling advice, useful phrases,
and any other practical information travelers should know.
Keep it concise but comprehensive.`, rec.Get(trip.FieldDestination))

	tips, err := c.gw.Complete(ctx, gateway.Request{
		System:      systemPrompt,
		User:        userPrompt,
		Model:       c.cfg.Model,
		Temperature: c.cfg.BalancedTemperature,
		MaxTokens:   c.cfg.MaxTokensStandard,
	})
	if err != nil {
		c.record("practical info error", err.Error())
		tips = "_Practical tips could not be generated._"
	}

	var sb strings.Builder
	sb.WriteString("## Practical Information\n")
	if section := formatWeather(res); section != "" {
		sb.WriteString("\n")
		sb.WriteString(section)
	}
	if section := formatEvents(res); section != "" {
		sb.WriteString("\n")
		sb.WriteString(section)
	}
	if section := formatAdvisory(res); section != "" {
		sb.WriteString("\n")
		sb.WriteString(section)
	}
	sb.WriteString("\n")
	sb.WriteString(tips)

	return sb.String()
}

// formatWeather interpolates cached forecast data verbatim
func formatWeather(res *research.Record) string {
	if res == nil || res.Weather == nil {
		return ""
	}
	weather := res.Weather

	var sb strings.Builder
	sb.WriteString("### Weather Forecast\n")
	fmt.Fprintf(&sb, "Current: %s, %s\n\nForecast:\n", weather.Current.Temp, weather.Current.Condition)
	for i, day := range weather.Forecast {
		if i == 3 {
			break
		}
		fmt.Fprintf(&sb, "- %s: %s/%s, %s\n", day.Day, day.TempHigh, day.TempLow, day.Condition)
	}
	return sb.String()
}

// formatEvents interpolates cached event listings verbatim, at most five
func formatEvents(res *research.Record) string {
	if res == nil || len(res.Events) == 0 {
		return ""
	}

	var sb strings.Builder
	sb.WriteString("### Upcoming Events\n")
	for i, event := range res.Events {
		if i == 5 {
			break
		}
		fmt.Fprintf(&sb, "- %s (%s) at %s", event.Name, orDefault(event.Date, "date TBA"), orDefault(event.Venue, "venue TBA"))
		if strings.TrimSpace(event.TicketInfo) != "" {
			sb.WriteString(" - " + event.TicketInfo)
		}
		sb.WriteString("\n")
	}
	return sb.String()
}

// upcomingEvents flattens cached events into one-line entries for day prompts
func upcomingEvents(res *research.Record) []string {
	if res == nil {
		return nil
	}
	var events []string
	for i, event := range res.Events {
		if i == 5 {
			break
		}
		events = append(events, fmt.Sprintf("%s (%s): %s", event.Name, event.Date, event.Description))
	}
	return events
}

// formatAdvisory interpolates cached advisory data verbatim
func formatAdvisory(res *research.Record) string {
	if res == nil || res.Advisory == nil {
		return ""
	}
	advisory := res.Advisory

	var sb strings.Builder
	sb.WriteString("### Travel Advisory\n")
	fmt.Fprintf(&sb, "Risk Level: %s\n\n%s\n\nHealth Information:\n%s\n\nEntry Requirements:\n%s\n",
		orDefault(advisory.OverallRisk, "No data"),
		orDefault(advisory.SafetyInfo, "No safety information available."),
		orDefault(advisory.HealthInfo, "No health information available."),
		orDefault(advisory.EntryRequirements, "Check with local embassy for entry requirements."))
	return sb.String()
}

// extractAttractions pulls list items out of the research overview's
// "Top Attractions" section
func extractAttractions(res *research.Record) []string {
	if res == nil || res.Overview == "" {
		return nil
	}
	section := markdownSection(res.Overview, "Top Attractions")
	if section == "" {
		return nil
	}

	var attractions []string
	for _, match := range listItem.FindAllStringSubmatch(section, -1) {
		attractions = append(attractions, strings.TrimSpace(match[1]))
	}
	return attractions
}

func markdownSection(text, title string) string {
	start := -1
	if at := strings.Index(text, "## "+title); at >= 0 {
		start = at + len("## "+title)
	} else if at := strings.Index(text, title); at >= 0 {
		// Overview sections may be numbered ("3. Top Attractions")
		start = at + len(title)
	} else {
		return ""
	}
	rest := text[start:]
	if end := strings.Index(rest, "\n## "); end >= 0 {
		rest = rest[:end]
	}
	return strings.TrimSpace(rest)
}

func orDefault(value, fallback string) string {
	if strings.TrimSpace(value) == "" {
		return fallback
	}
	return value
}

// ExportFilename names the downloadable markdown file for a destination
func ExportFilename(destination string) string {
	destination = strings.TrimSpace(destination)
	if destination == "" {
		destination = "My_Trip"
	}
	return strings.ReplaceAll(destination, " ", "_") + "_itinerary.md"
}

func (c *Composer) record(action, detail string) {
	if c.log != nil {
		c.log.Record("itinerary agent", action, detail)
	}
}
