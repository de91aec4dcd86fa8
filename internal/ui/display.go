package ui

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/charmbracelet/glamour"
	"golang.org/x/term"

	"trip-planner/internal/activity"
)

// Display provides the terminal chat surface
type Display struct {
	width    int
	renderer *glamour.TermRenderer
}

// NewDisplay creates a display sized to the current terminal
func NewDisplay() *Display {
	width := terminalWidth()

	renderer, _ := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(min(width-4, 100)),
	)

	return &Display{
		width:    width,
		renderer: renderer,
	}
}

// Color codes
const (
	colorReset  = "\033[0m"
	colorBold   = "\033[1m"
	colorDim    = "\033[2m"
	colorRed    = "\033[31m"
	colorGreen  = "\033[32m"
	colorYellow = "\033[33m"
	colorCyan   = "\033[36m"
	colorGray   = "\033[90m"
)

// ClearScreen clears the terminal
func (d *Display) ClearScreen() {
	fmt.Print("\033[2J\033[H")
}

// PrintWelcome displays the welcome banner
func (d *Display) PrintWelcome(modelName string) {
	d.ClearScreen()
	fmt.Printf("%s%s╔══════════════════════════════════════════════════════════╗%s\n", colorBold, colorCyan, colorReset)
	fmt.Printf("%s%s║                                                          ║%s\n", colorBold, colorCyan, colorReset)
	fmt.Printf("%s%s║           trip-planner - AI Travel Planner ✈️             ║%s\n", colorBold, colorCyan, colorReset)
	fmt.Printf("%s%s║                                                          ║%s\n", colorBold, colorCyan, colorReset)
	fmt.Printf("%s%s╚══════════════════════════════════════════════════════════╝%s\n", colorBold, colorCyan, colorReset)
	fmt.Printf("\n%s%sModel:%s %s\n", colorBold, colorGray, colorReset, modelName)
	fmt.Printf("%sCommands:%s /exit | /clear | /details | /set | /reset | /export | /log\n", colorGray, colorReset)
	fmt.Println()
}

// PrintSeparator prints a visual separator
func (d *Display) PrintSeparator() {
	line := strings.Repeat("─", min(d.width, 80))
	fmt.Printf("%s%s%s\n", colorDim, line, colorReset)
}

// PrintPrompt displays the user input prompt
func (d *Display) PrintPrompt() {
	fmt.Printf("\n%s%s❯%s ", colorBold, colorGreen, colorReset)
}

// PrintUserMessage displays a user message with timestamp
func (d *Display) PrintUserMessage(content string, timestamp time.Time) {
	fmt.Printf("\n%s┌─ You · %s%s\n", colorGray, timestamp.Format("15:04:05"), colorReset)
	fmt.Printf("%s│%s %s\n", colorGray, colorReset, content)
	fmt.Printf("%s└%s\n", colorGray, colorReset)
}

// PrintAssistantMessage displays an assistant reply
func (d *Display) PrintAssistantMessage(content string) {
	fmt.Printf("\n%s┌─ Assistant · %s%s\n", colorGray, time.Now().Format("15:04:05"), colorReset)
	for _, line := range strings.Split(strings.TrimRight(content, "\n"), "\n") {
		fmt.Printf("%s│%s %s\n", colorGray, colorReset, line)
	}
	fmt.Printf("%s└%s\n", colorGray, colorReset)
}

// PrintItinerary renders the generated itinerary as markdown
func (d *Display) PrintItinerary(markdown string) {
	d.PrintSeparator()
	fmt.Printf("%s%s🗺️  Your Personalized Itinerary%s\n", colorBold, colorCyan, colorReset)
	d.PrintSeparator()

	if d.renderer != nil {
		if rendered, err := d.renderer.Render(markdown); err == nil {
			fmt.Println(rendered)
			return
		}
	}
	fmt.Println(markdown)
}

// PrintDetails shows the current trip record values
func (d *Display) PrintDetails(values map[string]string, order []string) {
	fmt.Printf("\n%sTrip details:%s\n", colorBold, colorReset)
	for _, field := range order {
		value := values[field]
		if strings.TrimSpace(value) == "" {
			value = colorDim + "(not set)" + colorReset
		}
		fmt.Printf("  %s%-22s%s %s\n", colorGray, field+":", colorReset, value)
	}
}

// PrintActivityLog shows recent agent activity
func (d *Display) PrintActivityLog(entries []activity.Entry) {
	if len(entries) == 0 {
		d.PrintInfo("No agent activity yet")
		return
	}
	fmt.Printf("\n%sAgent activity:%s\n", colorBold, colorReset)
	for _, entry := range entries {
		detail := entry.Detail
		if detail != "" {
			detail = " — " + truncate(detail, 60)
		}
		fmt.Printf("  %s[%s]%s %s: %s%s\n",
			colorGray, entry.Timestamp.Format("15:04:05"), colorReset,
			entry.Agent, entry.Action, detail)
	}
}

// PrintThinking shows a progress note while agents are working
func (d *Display) PrintThinking(message string) {
	fmt.Printf("%s%s⏳ %s...%s\n", colorDim, colorCyan, message, colorReset)
}

// PrintInfo displays an info message
func (d *Display) PrintInfo(msg string) {
	fmt.Printf("%sℹ %s%s\n", colorCyan, msg, colorReset)
}

// PrintWarning displays a warning message
func (d *Display) PrintWarning(msg string) {
	fmt.Printf("%s⚠ %s%s\n", colorYellow, msg, colorReset)
}

// PrintError displays an error message
func (d *Display) PrintError(err error) {
	fmt.Printf("%s✗ Error: %v%s\n", colorRed, err, colorReset)
}

// PrintSuccess displays a success message
func (d *Display) PrintSuccess(msg string) {
	fmt.Printf("%s✓ %s%s\n", colorGreen, msg, colorReset)
}

// PrintGoodbye displays the goodbye message
func (d *Display) PrintGoodbye() {
	fmt.Printf("\n%s%sHappy travels! 👋%s\n", colorBold, colorCyan, colorReset)
}

func truncate(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen-3] + "..."
}

func terminalWidth() int {
	if width, _, err := term.GetSize(int(os.Stdout.Fd())); err == nil && width > 0 {
		return width
	}
	return 80
}

func min(a, b int) int {
	if a < b {
		return a
	}
	return b
}
