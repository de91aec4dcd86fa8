package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"trip-planner/internal/activity"
	"trip-planner/internal/config"
	"trip-planner/internal/dialogue"
	"trip-planner/internal/gateway"
	"trip-planner/internal/itinerary"
	"trip-planner/internal/terminal"
	"trip-planner/internal/trip"
	"trip-planner/internal/ui"
)

func main() {
	// Set the GetEnv function for config
	config.GetEnv = os.Getenv

	// Parse command-line flags
	cfg := parseFlags()

	// Validate configuration
	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(os.Stderr, "Configuration error: %v\n", err)
		os.Exit(1)
	}

	// Initialize display
	display := ui.NewDisplay()

	// Initialize components
	log := activity.NewLog(cfg.ActivityLogCap)
	gw := gateway.NewClient(gateway.Config{
		APIKey:  cfg.APIKey,
		BaseURL: cfg.BaseURL,
		Timeout: cfg.GatewayTimeout,
	}, log)

	// Health check
	if err := gw.Ping(context.Background()); err != nil {
		display.PrintError(err)
		if errors.Is(err, gateway.ErrNoCredential) {
			display.PrintInfo("Set OPENAI_API_KEY (or pass -api-key) and try again")
		}
		os.Exit(1)
	}

	session := dialogue.NewSession(cfg, gw, log)

	// Setup graceful shutdown
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-sigChan
		display.PrintInfo("\nShutting down gracefully...")
		cancel()
		os.Exit(0)
	}()

	// Print welcome and the opening greeting
	display.PrintWelcome(cfg.Model)
	display.PrintAssistantMessage(dialogue.Greeting)

	// Main conversation loop
	for {
		display.PrintPrompt()
		input, err := terminal.ReadUserInput()
		if err != nil {
			if err != io.EOF {
				display.PrintError(err)
			}
			break
		}

		if input == "exit" || input == "quit" {
			break
		}
		if name, args, ok := terminal.ParseCommand(input); ok {
			if quit := runCommand(ctx, name, args, session, display, cfg); quit {
				break
			}
			continue
		}

		// Skip empty input
		if strings.TrimSpace(input) == "" {
			continue
		}

		display.PrintUserMessage(input, time.Now())
		display.PrintThinking("Thinking")

		result, err := session.ProcessTurn(ctx, input)
		if err != nil {
			display.PrintError(err)
			continue
		}

		display.PrintAssistantMessage(result.Reply)

		if result.GeneratedNow {
			display.PrintItinerary(result.Itinerary)
			display.PrintInfo("Use /export to save this itinerary as markdown")
		} else if cfg.Verbose && len(result.Missing) > 0 {
			display.PrintInfo(fmt.Sprintf("Still missing: %s", strings.Join(result.Missing, ", ")))
		}
	}

	display.PrintGoodbye()
}

// runCommand handles slash commands; it returns true when the loop should end
func runCommand(ctx context.Context, name, args string, session *dialogue.Session, display *ui.Display, cfg *config.Config) bool {
	switch name {
	case "/exit", "/quit":
		return true

	case "/clear":
		display.ClearScreen()
		display.PrintWelcome(cfg.Model)

	case "/details":
		display.PrintDetails(session.Record().Snapshot(), trip.AllFields)
		display.PrintInfo(fmt.Sprintf("State: %s", session.State()))

	case "/set":
		field, value, ok := splitSetArgs(args)
		if !ok {
			display.PrintWarning("Usage: /set <field>=<value>  (e.g. /set Destination=Lisbon)")
			return false
		}
		if err := session.SetDetail(field, value); err != nil {
			display.PrintError(err)
			return false
		}
		display.PrintSuccess(fmt.Sprintf("%s set to %q", field, value))

	case "/reset":
		session.Reset()
		display.PrintSuccess("Trip details cleared")

	case "/generate":
		display.PrintThinking("Generating your personalized itinerary, this might take a minute")
		doc, err := session.GenerateItinerary(ctx)
		if err != nil {
			display.PrintError(err)
			return false
		}
		display.PrintItinerary(doc)

	case "/export":
		doc, ok := session.Itinerary()
		if !ok {
			display.PrintWarning("No itinerary generated yet — say \"generate itinerary\" first")
			return false
		}
		filename := itinerary.ExportFilename(session.Record().Get(trip.FieldDestination))
		if err := os.WriteFile(filename, []byte(doc), 0644); err != nil {
			display.PrintError(fmt.Errorf("failed to write itinerary: %w", err))
			return false
		}
		display.PrintSuccess("Itinerary saved to " + filename)

	case "/log":
		display.PrintActivityLog(session.ActivityLog().Recent(20))

	case "/help":
		display.PrintInfo("Commands: /exit /clear /details /set <field>=<value> /reset /generate /export /log")

	default:
		display.PrintWarning("Unknown command " + name + " — try /help")
	}
	return false
}

// splitSetArgs parses "/set Field=value" arguments
func splitSetArgs(args string) (field, value string, ok bool) {
	parts := strings.SplitN(args, "=", 2)
	if len(parts) != 2 {
		return "", "", false
	}
	field = strings.TrimSpace(parts[0])
	value = strings.TrimSpace(parts[1])
	return field, value, field != "" && value != ""
}

// parseFlags parses command-line flags into the configuration
func parseFlags() *config.Config {
	cfg := config.NewConfig()

	flag.StringVar(&cfg.Model, "model", cfg.Model, "Completion model name")
	flag.StringVar(&cfg.APIKey, "api-key", cfg.APIKey, "API key (defaults to OPENAI_API_KEY)")
	flag.StringVar(&cfg.BaseURL, "base-url", cfg.BaseURL, "Override the completion endpoint base URL")
	flag.IntVar(&cfg.HistoryWindow, "window", cfg.HistoryWindow, "Conversation turns sent to the model")
	flag.BoolVar(&cfg.Verbose, "verbose", cfg.Verbose, "Enable verbose output")

	timeoutSeconds := flag.Int("timeout", int(cfg.GatewayTimeout/time.Second), "Completion request timeout in seconds")
	noResearch := flag.Bool("no-research", false, "Disable fabricated destination research")

	flag.Parse()

	cfg.GatewayTimeout = time.Duration(*timeoutSeconds) * time.Second
	if *noResearch {
		cfg.FabricateResearch = false
	}

	return cfg
}
