package page_test

import (
	"strings"
	"sync"
	"testing"

	"github.com/aretw0/folio/pkg/page"
	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
)

func TestMenu(t *testing.T) {
	var m page.Menu
	assert.False(t, m.Open())
	assert.Equal(t, page.OverflowAuto, m.BodyOverflow())

	m.Toggle()
	assert.True(t, m.Open())
	assert.Equal(t, page.OverflowHidden, m.BodyOverflow())

	assert.False(t, m.OutsideClick(true, false), "click inside the menu keeps it open")
	assert.False(t, m.OutsideClick(false, true), "click on the hamburger is handled by Toggle")
	assert.True(t, m.Open())

	assert.False(t, m.Key("Enter"))
	assert.True(t, m.Key("Escape"))
	assert.False(t, m.Open())
	assert.False(t, m.Key("Escape"), "escape on a closed menu is a no-op")

	m.Toggle()
	assert.True(t, m.OutsideClick(false, false))
	assert.Equal(t, page.OverflowAuto, m.BodyOverflow())

	m.Toggle()
	m.CloseOnLink()
	assert.False(t, m.Open())
}

func TestActiveSection(t *testing.T) {
	sections := []page.Section{
		{ID: "home", Top: 0, Height: 600},
		{ID: "about", Top: 600, Height: 400},
		{ID: "contact", Top: 1000, Height: 500},
	}

	tests := []struct {
		scrollY float64
		want    string
	}{
		{-100, ""},    // open start: exactly top-100 is excluded
		{-99, "home"}, // just past the start
		{500, "home"}, // closed end: top-100+height is included
		{501, "about"},
		{899, "about"},
		{900, "about"},
		{901, "contact"},
		{1400, "contact"},
		{1401, ""},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, page.ActiveSection(sections, tt.scrollY), "scrollY=%v", tt.scrollY)
	}

	got := page.NavActive(sections, 700)
	want := map[string]bool{"home": false, "about": true, "contact": false}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("NavActive mismatch (-want +got):\n%s", diff)
	}
}

func TestAnchorAndThresholds(t *testing.T) {
	assert.Equal(t, 520.0, page.AnchorTarget(600))
	assert.Equal(t, 0.0, page.AnchorTarget(30))
	assert.True(t, page.IsAnchor("#about"))
	assert.False(t, page.IsAnchor("https://github.com"))

	assert.False(t, page.NavbarScrolled(50))
	assert.True(t, page.NavbarScrolled(51))
	assert.False(t, page.ScrollTopVisible(500))
	assert.True(t, page.ScrollTopVisible(501))

	assert.True(t, page.PlaceholderLink("#", false, false))
	assert.False(t, page.PlaceholderLink("#", true, false))
	assert.False(t, page.PlaceholderLink("#", false, true))
	assert.False(t, page.PlaceholderLink("#about", false, false))
}

func TestRevealer_FiresOnce(t *testing.T) {
	r := page.NewRevealer("card-1", "card-2")

	assert.False(t, r.Intersect("card-1", false))
	assert.True(t, r.Intersect("card-1", true))
	assert.False(t, r.Intersect("card-1", true), "second intersection must not fire again")
	assert.False(t, r.Observing("card-1"))
	assert.False(t, r.Intersect("unknown", true))
	assert.Equal(t, 1, r.Pending())
}

func TestRevealer_Concurrent(t *testing.T) {
	r := page.NewRevealer("x")
	var wg sync.WaitGroup
	var mu sync.Mutex
	fired := 0
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if r.Intersect("x", true) {
				mu.Lock()
				fired++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()
	assert.Equal(t, 1, fired)
}

func TestLazyLoader(t *testing.T) {
	l := page.NewLazyLoader(
		page.LazyImage{ID: "a", DataSrc: "/img/a.png"},
		page.LazyImage{ID: "b", Src: "/img/b.png"},
	)
	assert.Equal(t, 1, l.Pending(), "images without data-src are not observed")

	img, ok := l.Intersect("a", true)
	assert.True(t, ok)
	assert.Equal(t, page.LazyImage{ID: "a", Src: "/img/a.png"}, img)

	_, ok = l.Intersect("a", true)
	assert.False(t, ok)
	assert.Equal(t, 0, l.Pending())
}

func TestCharCounter(t *testing.T) {
	assert.Equal(t, page.Counter{Count: 0, Max: 500, Warning: false, Text: "0/500"}, page.CharCounter(""))
	assert.False(t, page.CharCounter(strings.Repeat("a", 450)).Warning)
	assert.True(t, page.CharCounter(strings.Repeat("a", 451)).Warning)

	over := page.CharCounter(strings.Repeat("a", 520))
	assert.Equal(t, "520/500", over.Text)
	assert.Equal(t, 3, page.CharCounter("héé").Count)
	assert.Equal(t, 4, page.CharCounter("👋👋").Count)
}

func TestTitle(t *testing.T) {
	assert.Equal(t, "👋 Come back soon!", page.Title(true, "Jane | Portfolio"))
	assert.Equal(t, "Jane | Portfolio", page.Title(false, "Jane | Portfolio"))
}

func TestTypeFrames(t *testing.T) {
	assert.Equal(t, []string{"G", "Go", "Go!"}, page.TypeFrames("Go!"))
	assert.Equal(t, []string{"é", "éa"}, page.TypeFrames("éa"))
	assert.Empty(t, page.TypeFrames(""))
}

func TestSocialPlatform(t *testing.T) {
	assert.Equal(t, "github", page.SocialPlatform(" GitHub "))
	assert.Equal(t, "twitter", page.SocialPlatform("X"))
	assert.Equal(t, "other", page.SocialPlatform("myspace"))
}

func TestScript(t *testing.T) {
	s := page.Script()
	assert.Equal(t, page.FadeInClass, s.FadeInClass)
	assert.Equal(t, 80.0, s.HeaderOffset)
	assert.Equal(t, 100.0, s.SectionLead)
	assert.Equal(t, 50.0, s.NavbarThreshold)
	assert.Equal(t, 500.0, s.ScrollTopThreshold)
	assert.Equal(t, page.HiddenTitle, s.HiddenTitle)
	assert.Equal(t, page.ConsoleGreeting(), s.Greeting)
}
