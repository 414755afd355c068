// Package dom binds the portfolio page's DOM events to the contact form
// controller and the page behaviors when folio runs in the browser.
package dom

import (
	"encoding/json"
	"time"

	"github.com/aretw0/folio/pkg/page"
)

// TypeDelay is the pause between two frames of the hero typing effect.
const TypeDelay = 50 * time.Millisecond

// Typewriter steps through the frames of the typing effect.
type Typewriter struct {
	frames []string
	next   int
}

// NewTypewriter prepares the effect for text.
func NewTypewriter(text string) *Typewriter {
	return &Typewriter{frames: page.TypeFrames(text)}
}

// Next returns the next frame, or false once the text is complete.
func (t *Typewriter) Next() (string, bool) {
	if t.next >= len(t.frames) {
		return "", false
	}
	f := t.frames[t.next]
	t.next++
	return f, true
}

// Beacon is the analytics body sent for a click on a social link.
func Beacon(label string) []byte {
	b, _ := json.Marshal(struct {
		Platform string `json:"platform"`
	}{page.SocialPlatform(label)})
	return b
}
