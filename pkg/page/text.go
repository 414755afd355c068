package page

import (
	"fmt"
	"unicode/utf8"

	"github.com/aretw0/folio/pkg/domain"
)

const (
	// CounterMax is the character budget shown by the message counter.
	CounterMax = 500
	// HiddenTitle replaces the document title while the tab is hidden.
	HiddenTitle = "👋 Come back soon!"
)

// Counter is the message field character counter.
type Counter struct {
	Count   int    `json:"count"`
	Max     int    `json:"max"`
	Warning bool   `json:"warning"`
	Text    string `json:"text"`
}

// CharCounter computes the counter for value, counted in UTF-16 code units.
// The counter warns past 90% of the budget; it never blocks input beyond it.
func CharCounter(value string) Counter {
	n := domain.TextLength(value)
	return Counter{
		Count:   n,
		Max:     CounterMax,
		Warning: n*10 > CounterMax*9,
		Text:    fmt.Sprintf("%d/%d", n, CounterMax),
	}
}

// Title is the document title for the given visibility.
func Title(hidden bool, base string) string {
	if hidden {
		return HiddenTitle
	}
	return base
}

// TypeFrames returns the successive texts of the typing effect on the hero
// subtitle, one more character per frame.
func TypeFrames(text string) []string {
	frames := make([]string, 0, utf8.RuneCountInString(text))
	for i := range text {
		if i == 0 {
			continue
		}
		frames = append(frames, text[:i])
	}
	if text != "" {
		frames = append(frames, text)
	}
	return frames
}

// ConsoleGreeting is the branding printed to the developer console and, by the
// CLI, to an interactive terminal.
func ConsoleGreeting() []string {
	return []string{
		"👋 Hello Developer!",
		"Interested in how this was built? Check out the code!",
		"Looking for a developer? Let's connect! 🚀",
	}
}
