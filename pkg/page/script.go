package page

// ScriptConfig carries the page rules to the plain JavaScript client, which
// cannot call into this package. The server embeds it as JSON in the page.
type ScriptConfig struct {
	FadeInClass        string   `json:"fadeInClass"`
	SectionLead        float64  `json:"sectionLead"`
	HeaderOffset       float64  `json:"headerOffset"`
	NavbarThreshold    float64  `json:"navbarThreshold"`
	ScrollTopThreshold float64  `json:"scrollTopThreshold"`
	CounterMax         int      `json:"counterMax"`
	HiddenTitle        string   `json:"hiddenTitle"`
	Greeting           []string `json:"greeting"`
	OverflowHidden     string   `json:"overflowHidden"`
	OverflowAuto       string   `json:"overflowAuto"`
}

// Script returns the configuration of the JavaScript client.
func Script() ScriptConfig {
	return ScriptConfig{
		FadeInClass:        FadeInClass,
		SectionLead:        SectionLead,
		HeaderOffset:       HeaderOffset,
		NavbarThreshold:    NavbarThreshold,
		ScrollTopThreshold: ScrollTopThreshold,
		CounterMax:         CounterMax,
		HiddenTitle:        HiddenTitle,
		Greeting:           ConsoleGreeting(),
		OverflowHidden:     OverflowHidden,
		OverflowAuto:       OverflowAuto,
	}
}
