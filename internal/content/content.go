// Package content loads the portfolio site content (owner, sections, projects,
// skills, social links and the about text) from a single YAML document.
package content

import (
	"bytes"
	_ "embed"
	"errors"
	"fmt"
	"html/template"
	"os"
	"regexp"
	"strings"

	chromahtml "github.com/alecthomas/chroma/v2/formatters/html"
	"github.com/microcosm-cc/bluemonday"
	"github.com/mitchellh/mapstructure"
	"github.com/yuin/goldmark"
	highlighting "github.com/yuin/goldmark-highlighting/v2"
	"github.com/yuin/goldmark/extension"
	"gopkg.in/yaml.v3"
)

// ErrInvalidContent wraps every content decoding or validation failure.
var ErrInvalidContent = errors.New("invalid content")

// Site is the decoded site content.
type Site struct {
	Owner    string    `mapstructure:"owner" json:"owner"`
	Title    string    `mapstructure:"title" json:"title"`
	Tagline  string    `mapstructure:"tagline" json:"tagline"`
	Subtitle string    `mapstructure:"subtitle" json:"subtitle"`
	About    string    `mapstructure:"about" json:"about"`
	Location string    `mapstructure:"location" json:"location,omitempty"`
	Email    string    `mapstructure:"email" json:"email,omitempty"`
	Sections []Section `mapstructure:"sections" json:"sections"`
	Projects []Project `mapstructure:"projects" json:"projects"`
	Skills   []Skill   `mapstructure:"skills" json:"skills"`
	Social   []Social  `mapstructure:"social" json:"social"`

	// AboutHTML is About rendered from markdown and sanitized.
	AboutHTML template.HTML `mapstructure:"-" json:"-"`
}

// Section is a navigable part of the page.
type Section struct {
	ID    string `mapstructure:"id" json:"id"`
	Label string `mapstructure:"label" json:"label"`
}

// Project is a portfolio entry.
type Project struct {
	Title       string   `mapstructure:"title" json:"title"`
	Description string   `mapstructure:"description" json:"description"`
	Image       string   `mapstructure:"image" json:"image,omitempty"`
	Tags        []string `mapstructure:"tags" json:"tags,omitempty"`
	URL         string   `mapstructure:"url" json:"url,omitempty"`
	Repo        string   `mapstructure:"repo" json:"repo,omitempty"`
}

// Skill is a category of skills.
type Skill struct {
	Category string   `mapstructure:"category" json:"category"`
	Items    []string `mapstructure:"items" json:"items"`
}

// Social is an outbound profile link.
type Social struct {
	Platform string `mapstructure:"platform" json:"platform"`
	URL      string `mapstructure:"url" json:"url"`
	Icon     string `mapstructure:"icon" json:"icon,omitempty"`
}

// DefaultSections is used when the document lists none.
var DefaultSections = []Section{
	{ID: "home", Label: "Home"},
	{ID: "about", Label: "About"},
	{ID: "projects", Label: "Projects"},
	{ID: "skills", Label: "Skills"},
	{ID: "contact", Label: "Contact"},
}

var markdown = goldmark.New(
	goldmark.WithExtensions(
		extension.GFM,
		highlighting.NewHighlighting(
			highlighting.WithStyle("github"),
			highlighting.WithFormatOptions(chromahtml.WithClasses(true)),
		),
	),
)

// Load reads and parses the content file at path.
func Load(path string) (*Site, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading content %s: %w", path, err)
	}
	return Parse(data)
}

// Parse decodes a content document.
func Parse(data []byte) (*Site, error) {
	var raw map[string]any
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidContent, err)
	}

	var site Site
	var md mapstructure.Metadata
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:           &site,
		Metadata:         &md,
		WeaklyTypedInput: true,
	})
	if err != nil {
		return nil, err
	}
	if err := dec.Decode(raw); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidContent, err)
	}
	if len(md.Unused) > 0 {
		return nil, fmt.Errorf("%w: unknown keys %s", ErrInvalidContent, strings.Join(md.Unused, ", "))
	}

	if err := site.validate(); err != nil {
		return nil, err
	}
	if len(site.Sections) == 0 {
		site.Sections = append([]Section(nil), DefaultSections...)
	}
	if site.Title == "" {
		site.Title = site.Owner + " | Portfolio"
	}

	html, err := RenderMarkdown(site.About)
	if err != nil {
		return nil, err
	}
	site.AboutHTML = html
	return &site, nil
}

func (s *Site) validate() error {
	if strings.TrimSpace(s.Owner) == "" {
		return fmt.Errorf("%w: owner is required", ErrInvalidContent)
	}
	seen := make(map[string]bool)
	for _, sec := range s.Sections {
		if sec.ID == "" {
			return fmt.Errorf("%w: section without id", ErrInvalidContent)
		}
		if seen[sec.ID] {
			return fmt.Errorf("%w: duplicate section %q", ErrInvalidContent, sec.ID)
		}
		seen[sec.ID] = true
	}
	for _, soc := range s.Social {
		if soc.Platform == "" || soc.URL == "" {
			return fmt.Errorf("%w: social links need platform and url", ErrInvalidContent)
		}
	}
	return nil
}

var htmlPolicy = func() *bluemonday.Policy {
	p := bluemonday.UGCPolicy()
	// chroma token classes of highlighted code blocks
	p.AllowAttrs("class").Matching(regexp.MustCompile(`^[a-z0-9 -]+$`)).OnElements("pre", "code", "span")
	return p
}()

// RenderMarkdown converts markdown to sanitized HTML.
func RenderMarkdown(src string) (template.HTML, error) {
	var buf bytes.Buffer
	if err := markdown.Convert([]byte(src), &buf); err != nil {
		return "", fmt.Errorf("rendering markdown: %w", err)
	}
	return template.HTML(htmlPolicy.SanitizeBytes(buf.Bytes())), nil
}

// Markdown returns the site as a markdown document (terminal preview, MCP resource).
func (s *Site) Markdown() string {
	var b strings.Builder
	fmt.Fprintf(&b, "# %s\n\n", s.Owner)
	if s.Tagline != "" {
		fmt.Fprintf(&b, "**%s**\n\n", s.Tagline)
	}
	if s.Subtitle != "" {
		fmt.Fprintf(&b, "%s\n\n", s.Subtitle)
	}
	if s.About != "" {
		fmt.Fprintf(&b, "## About\n\n%s\n\n", strings.TrimSpace(s.About))
	}
	if len(s.Projects) > 0 {
		b.WriteString("## Projects\n\n")
		for _, p := range s.Projects {
			fmt.Fprintf(&b, "- **%s**: %s", p.Title, p.Description)
			if len(p.Tags) > 0 {
				fmt.Fprintf(&b, " (%s)", strings.Join(p.Tags, ", "))
			}
			b.WriteString("\n")
		}
		b.WriteString("\n")
	}
	if len(s.Skills) > 0 {
		b.WriteString("## Skills\n\n")
		for _, sk := range s.Skills {
			fmt.Fprintf(&b, "- **%s**: %s\n", sk.Category, strings.Join(sk.Items, ", "))
		}
		b.WriteString("\n")
	}
	if len(s.Social) > 0 {
		b.WriteString("## Elsewhere\n\n")
		for _, soc := range s.Social {
			fmt.Fprintf(&b, "- [%s](%s)\n", soc.Platform, soc.URL)
		}
	}
	return b.String()
}

//go:embed default.yaml
var defaultContent []byte

// Default returns the built-in demo content.
func Default() *Site {
	site, err := Parse(defaultContent)
	if err != nil {
		panic(fmt.Sprintf("embedded content is invalid: %v", err))
	}
	return site
}
