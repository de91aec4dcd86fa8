// Package research fabricates destination background via the completion
// backend: an overview, a weather snapshot, an events list, and a travel
// advisory. None of it comes from a real integration — the model invents
// plausible data following fixed shapes. Results are cached per destination
// with a TTL so fabricated "weather" does not live forever.
package research

import (
	"context"
	"strings"
	"time"

	gocache "github.com/patrickmn/go-cache"

	"trip-planner/internal/activity"
	"trip-planner/internal/config"
	"trip-planner/internal/gateway"
	"trip-planner/internal/llmjson"
)

// Weather is the fabricated forecast shape
type Weather struct {
	Current  WeatherSnapshot `json:"current"`
	Forecast []ForecastDay   `json:"forecast"`
}

// WeatherSnapshot describes current conditions
type WeatherSnapshot struct {
	Temp      string `json:"temp"`
	Condition string `json:"condition"`
	Humidity  string `json:"humidity"`
}

// ForecastDay is one fabricated forecast entry
type ForecastDay struct {
	Day       string `json:"day"`
	TempHigh  string `json:"temp_high"`
	TempLow   string `json:"temp_low"`
	Condition string `json:"condition"`
}

// Event is one fabricated local event
type Event struct {
	Name        string `json:"name"`
	Date        string `json:"date"`
	Venue       string `json:"venue"`
	Category    string `json:"category"`
	Description string `json:"description"`
	TicketInfo  string `json:"ticket_info"`
}

// Advisory is the fabricated travel advisory shape
type Advisory struct {
	OverallRisk       string            `json:"overall_risk"`
	SafetyInfo        string            `json:"safety_info"`
	HealthInfo        string            `json:"health_info"`
	EntryRequirements string            `json:"entry_requirements"`
	EmergencyContacts map[string]string `json:"emergency_contacts"`
}

// Record holds everything fabricated for one destination. Weather and
// Advisory are nil when their responses could not be parsed; WeatherErr and
// AdvisoryErr then carry the reason. A degraded record is still cached.
type Record struct {
	Destination string
	FetchedAt   time.Time
	Overview    string
	Weather     *Weather
	WeatherErr  string
	Events      []Event
	Advisory    *Advisory
	AdvisoryErr string
}

// Summary returns the overview's first markdown section, truncated to
// maxLen runes, for interpolation into conversational prompts
func (r *Record) Summary(maxLen int) string {
	if r == nil || r.Overview == "" {
		return ""
	}
	summary := r.Overview
	if at := strings.Index(summary, "\n## "); at > 0 {
		summary = strings.TrimSpace(summary[:at])
	} else if paragraphs := strings.SplitN(summary, "\n\n", 3); len(paragraphs) > 1 {
		summary = paragraphs[0] + "\n\n" + paragraphs[1]
	}
	runes := []rune(summary)
	if maxLen > 0 && len(runes) > maxLen {
		summary = string(runes[:maxLen]) + "..."
	}
	return summary
}

// Service fabricates and caches destination research
type Service struct {
	gw       gateway.Completer
	cfg      *config.Config
	log      *activity.Log
	cache    *gocache.Cache
	capacity int
	enabled  bool
}

// New creates a research service. With fabrication disabled in config the
// service returns nil records and never calls the backend.
func New(gw gateway.Completer, cfg *config.Config, log *activity.Log) *Service {
	return &Service{
		gw:       gw,
		cfg:      cfg,
		log:      log,
		cache:    gocache.New(cfg.ResearchTTL, cfg.ResearchTTL),
		capacity: cfg.ResearchCapacity,
		enabled:  cfg.FabricateResearch,
	}
}

// Lookup returns research for the destination, fabricating it on a cache
// miss. Partial failures (a malformed weather response, say) degrade the
// affected sub-field rather than failing the lookup, and the degraded
// record is still cached until it expires.
func (s *Service) Lookup(ctx context.Context, destination string) *Record {
	destination = strings.TrimSpace(destination)
	if !s.enabled || destination == "" {
		return nil
	}

	if cached, ok := s.cache.Get(destination); ok {
		s.record("cache hit", destination)
		return cached.(*Record)
	}

	s.record("researching", destination)
	rec := s.fabricate(ctx, destination)

	if s.cache.ItemCount() >= s.capacity {
		s.cache.DeleteExpired()
	}
	if s.cache.ItemCount() < s.capacity {
		s.cache.Set(destination, rec, gocache.DefaultExpiration)
	}

	return rec
}

func (s *Service) fabricate(ctx context.Context, destination string) *Record {
	rec := &Record{
		Destination: destination,
		FetchedAt:   time.Now(),
	}

	rec.Overview = s.fetchOverview(ctx, destination)

	if weather, err := s.fetchWeather(ctx, destination); err != nil {
		rec.WeatherErr = err.Error()
		s.record("weather parse error", err.Error())
	} else {
		rec.Weather = weather
	}

	if events, err := s.fetchEvents(ctx, destination); err != nil {
		s.record("events parse error", err.Error())
	} else {
		rec.Events = events
	}

	if advisory, err := s.fetchAdvisory(ctx, destination); err != nil {
		rec.AdvisoryErr = err.Error()
		s.record("advisory parse error", err.Error())
	} else {
		rec.Advisory = advisory
	}

	return rec
}

func (s *Service) fetchOverview(ctx context.Context, destination string) string {
	systemPrompt := `You are a travel research specialist with extensive knowledge about global destinations.
Provide comprehensive, factual information about the requested destination.
Structure your response in markdown format with these sections:
1. Overview - Brief introduction to the destination
2. Best Time to Visit - Seasonal information and weather patterns
3. Top Attractions - Must-see places and experiences
4. Local Cuisine - Notable food and dining recommendations
5. Cultural Etiquette - Important customs and practices
6. Transportation - How to get around the destination

Keep your response factual, organized, and helpful for travelers planning a visit.`

	userPrompt := "Research the travel destination: " + destination + `

Please provide detailed information that would help a traveler plan their trip.
Include specific attractions, seasonal recommendations, and practical tips.`

	overview, err := s.gw.Complete(ctx, gateway.Request{
		System:      systemPrompt,
		User:        userPrompt,
		Model:       s.cfg.Model,
		Temperature: 0.3,
		MaxTokens:   s.cfg.MaxTokensLarge,
	})
	if err != nil {
		s.record("overview error", err.Error())
		return "Destination overview is unavailable right now."
	}
	return overview
}

func (s *Service) fetchWeather(ctx context.Context, destination string) (*Weather, error) {
	systemPrompt := `You are a weather information specialist.
Create a realistic current weather report and 5-day forecast for the specified destination.
Use plausible temperature ranges and weather conditions based on the destination's typical climate.
Format your response as JSON with these fields:
{
    "current": {"temp": "23°C", "condition": "Partly Cloudy", "humidity": "65%"},
    "forecast": [
        {"day": "Today", "temp_high": "24°C", "temp_low": "18°C", "condition": "Partly Cloudy"}
    ]
}`

	userPrompt := "Create a realistic weather forecast for " + destination +
		" for today's date (" + time.Now().Format("2006-01-02") + ")."

	response, err := s.gw.Complete(ctx, gateway.Request{
		System:      systemPrompt,
		User:        userPrompt,
		Model:       s.cfg.Model,
		Temperature: 0.4,
		MaxTokens:   s.cfg.MaxTokensSmall,
	})
	if err != nil {
		return nil, err
	}

	var weather Weather
	if err := llmjson.DecodeLastObject(response, &weather); err != nil {
		return nil, err
	}
	return &weather, nil
}

func (s *Service) fetchEvents(ctx context.Context, destination string) ([]Event, error) {
	today := time.Now()
	end := today.AddDate(0, 0, 30)

	systemPrompt := `You are an events research specialist.
Create a list of realistic, plausible upcoming events for the specified destination.
Include cultural festivals, concerts, exhibitions, and local celebrations that would be relevant for tourists.
Format your response as JSON with an array of event objects:
[
    {
        "name": "Annual Food Festival",
        "date": "2026-09-15",
        "venue": "City Center",
        "category": "Food",
        "description": "A celebration of local cuisine with food stalls and chef demonstrations",
        "ticket_info": "Free entry"
    }
]
Include 3-5 realistic events with varied dates within the next month.`

	userPrompt := "Create a list of realistic upcoming events in " + destination +
		" between " + today.Format("2006-01-02") + " and " + end.Format("2006-01-02") + `.
Focus on events that would interest tourists.`

	response, err := s.gw.Complete(ctx, gateway.Request{
		System:      systemPrompt,
		User:        userPrompt,
		Model:       s.cfg.Model,
		Temperature: 0.7,
		MaxTokens:   s.cfg.MaxTokensStandard,
	})
	if err != nil {
		return nil, err
	}

	var events []Event
	if err := llmjson.DecodeLastArray(response, &events); err != nil {
		return nil, err
	}
	return events, nil
}

func (s *Service) fetchAdvisory(ctx context.Context, destination string) (*Advisory, error) {
	systemPrompt := `You are a travel safety specialist.
Create a realistic travel advisory for the specified destination.
Include information about safety, health concerns, and entry requirements.
Format your response as JSON with these fields:
{
    "overall_risk": "Low/Medium/High",
    "safety_info": "...",
    "health_info": "...",
    "entry_requirements": "...",
    "emergency_contacts": {"police": "...", "ambulance": "...", "embassy": "..."}
}
Base your advisory on realistic conditions for the destination.`

	userPrompt := "Create a realistic travel advisory for " + destination +
		" as of " + time.Now().Format("2006-01-02") + "."

	response, err := s.gw.Complete(ctx, gateway.Request{
		System:      systemPrompt,
		User:        userPrompt,
		Model:       s.cfg.Model,
		Temperature: 0.4,
		MaxTokens:   s.cfg.MaxTokensSmall,
	})
	if err != nil {
		return nil, err
	}

	var advisory Advisory
	if err := llmjson.DecodeLastObject(response, &advisory); err != nil {
		return nil, err
	}
	return &advisory, nil
}

func (s *Service) record(action, detail string) {
	if s.log != nil {
		s.log.Record("destination agent", action, detail)
	}
}
