package page

import "strings"

// knownPlatforms bounds the label values of the social click counter.
var knownPlatforms = map[string]string{
	"github":    "github",
	"linkedin":  "linkedin",
	"twitter":   "twitter",
	"x":         "twitter",
	"email":     "email",
	"mail":      "email",
	"instagram": "instagram",
	"dribbble":  "dribbble",
	"medium":    "medium",
}

// SocialPlatform normalizes the aria-label of a clicked social link.
// Unknown labels collapse to "other".
func SocialPlatform(label string) string {
	key := strings.ToLower(strings.TrimSpace(label))
	if p, ok := knownPlatforms[key]; ok {
		return p
	}
	return "other"
}
