package page

import "strings"

const (
	// SectionLead is how far ahead of a section top the nav highlight switches.
	SectionLead = 100.0
	// HeaderOffset keeps anchored sections clear of the fixed navbar.
	HeaderOffset = 80.0
	// NavbarThreshold is the scroll depth past which the navbar is "scrolled".
	NavbarThreshold = 50.0
	// ScrollTopThreshold is the scroll depth past which the scroll-to-top button shows.
	ScrollTopThreshold = 500.0
)

// Section is a page section with an id, measured in document coordinates.
type Section struct {
	ID     string
	Top    float64
	Height float64
}

// ActiveSection returns the id of the section the nav should highlight for
// scrollY, or "" when none matches. A section is active when scrollY lies in
// (top-100, top-100+height]. If ranges overlap the last match wins, as every
// section is evaluated in document order.
func ActiveSection(sections []Section, scrollY float64) string {
	active := ""
	for _, s := range sections {
		start := s.Top - SectionLead
		if scrollY > start && scrollY <= start+s.Height {
			active = s.ID
		}
	}
	return active
}

// NavActive reports for every section whether its nav link is active.
func NavActive(sections []Section, scrollY float64) map[string]bool {
	active := ActiveSection(sections, scrollY)
	out := make(map[string]bool, len(sections))
	for _, s := range sections {
		out[s.ID] = s.ID == active && active != ""
	}
	return out
}

// IsAnchor reports whether href points inside the page and should scroll smoothly.
func IsAnchor(href string) bool {
	return strings.HasPrefix(href, "#")
}

// AnchorTarget is the scroll position for a section starting at top.
func AnchorTarget(top float64) float64 {
	y := top - HeaderOffset
	if y < 0 {
		return 0
	}
	return y
}

// NavbarScrolled reports whether the navbar takes its "scrolled" look.
func NavbarScrolled(scrollY float64) bool {
	return scrollY > NavbarThreshold
}

// ScrollTopVisible reports whether the scroll-to-top button is shown.
func ScrollTopVisible(scrollY float64) bool {
	return scrollY > ScrollTopThreshold
}

// PlaceholderLink reports whether a click on href should be suppressed.
// Bare "#" links do nothing, except in the nav menu and the hero buttons where
// they scroll to the top.
func PlaceholderLink(href string, inNav, inHero bool) bool {
	return href == "#" && !inNav && !inHero
}
