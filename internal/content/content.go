// Package content loads the static marketing copy shipped with the binary.
package content

import (
	_ "embed"
	"errors"
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"
)

//go:embed site.yaml
var siteYAML []byte

// AccentColor selects a colour theme for a card.
type AccentColor string

// Founder accent palette.
const (
	AccentRed    AccentColor = "red"
	AccentBlue   AccentColor = "blue"
	AccentYellow AccentColor = "yellow"
	AccentGreen  AccentColor = "green"
	AccentPink   AccentColor = "pink"
)

// Pillar accent palette.
const (
	AccentIndigo  AccentColor = "indigo"
	AccentEmerald AccentColor = "emerald"
	AccentAmber   AccentColor = "amber"
)

// Panel accent palette.
const (
	AccentTeal   AccentColor = "teal"
	AccentPurple AccentColor = "purple"
)

var (
	founderPalette = map[AccentColor]struct{}{AccentRed: {}, AccentBlue: {}, AccentYellow: {}, AccentGreen: {}, AccentPink: {}}
	pillarPalette  = map[AccentColor]struct{}{AccentIndigo: {}, AccentPink: {}, AccentEmerald: {}, AccentAmber: {}}
	panelPalette   = map[AccentColor]struct{}{AccentTeal: {}, AccentPurple: {}}
)

// PillarStatus is the availability of a product pillar.
type PillarStatus string

const (
	PillarLaunching PillarStatus = "launching"
	PillarWaitlist  PillarStatus = "waitlist"
)

// PanelKind distinguishes the vision and mission panels.
type PanelKind string

const (
	PanelVision  PanelKind = "vision"
	PanelMission PanelKind = "mission"
)

// ParsePanelKind validates a raw panel kind.
func ParsePanelKind(raw string) (PanelKind, bool) {
	switch PanelKind(strings.ToLower(strings.TrimSpace(raw))) {
	case PanelVision:
		return PanelVision, true
	case PanelMission:
		return PanelMission, true
	default:
		return "", false
	}
}

// Founder is one member of the founding team.
type Founder struct {
	ID          int         `yaml:"id"`
	Name        string      `yaml:"name"`
	Title       string      `yaml:"title"`
	AccentColor AccentColor `yaml:"accentColor"`
	AvatarURL   string      `yaml:"avatarUrl"`
	NoteTitle   string      `yaml:"noteTitle"`
	NoteContent string      `yaml:"noteContent"`
}

// FirstName returns the first word of the founder's name.
func (f Founder) FirstName() string {
	fields := strings.Fields(f.Name)
	if len(fields) == 0 {
		return ""
	}
	return fields[0]
}

// Pillar is one of the product lines shown on the home page.
type Pillar struct {
	Name        string       `yaml:"name"`
	Slogan      string       `yaml:"slogan"`
	Description string       `yaml:"description"`
	Icon        string       `yaml:"icon"`
	Status      PillarStatus `yaml:"status"`
	ActionText  string       `yaml:"actionText"`
	ActionHref  string       `yaml:"actionHref"`
	AccentColor AccentColor  `yaml:"accentColor"`
}

// Panel holds the vision or mission copy.
type Panel struct {
	Type        PanelKind   `yaml:"type"`
	Title       string      `yaml:"title"`
	Preview     string      `yaml:"preview"`
	FullContent string      `yaml:"fullContent"`
	AccentColor AccentColor `yaml:"accentColor"`
}

// Paragraphs splits the full content on blank lines.
func (p Panel) Paragraphs() []string {
	var out []string
	for _, chunk := range strings.Split(strings.ReplaceAll(p.FullContent, "\r\n", "\n"), "\n\n") {
		if trimmed := strings.TrimSpace(chunk); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}

type Hero struct {
	Tagline   string `yaml:"tagline"`
	Headline  string `yaml:"headline"`
	Highlight string `yaml:"highlight"`
}

type SectionHeader struct {
	Tagline  string `yaml:"tagline"`
	Title    string `yaml:"title"`
	Subtitle string `yaml:"subtitle"`
}

type Feature struct {
	Icon        string `yaml:"icon"`
	Title       string `yaml:"title"`
	Description string `yaml:"description"`
}

type Community struct {
	Badge        string    `yaml:"badge"`
	Title        string    `yaml:"title"`
	Highlight    string    `yaml:"highlight"`
	Subtitle     string    `yaml:"subtitle"`
	SectionTitle string    `yaml:"sectionTitle"`
	CTAText      string    `yaml:"ctaText"`
	CTAHref      string    `yaml:"ctaHref"`
	Features     []Feature `yaml:"features"`
}

type Investors struct {
	Badge        string    `yaml:"badge"`
	Title        string    `yaml:"title"`
	Highlight    string    `yaml:"highlight"`
	Subtitle     string    `yaml:"subtitle"`
	SectionTitle string    `yaml:"sectionTitle"`
	SuccessText  string    `yaml:"successText"`
	Highlights   []Feature `yaml:"highlights"`
}

type Contact struct {
	Title     string `yaml:"title"`
	Highlight string `yaml:"highlight"`
	Subtitle  string `yaml:"subtitle"`
	PathTitle string `yaml:"pathTitle"`
}

type Link struct {
	Label string `yaml:"label"`
	Href  string `yaml:"href"`
}

type LinkColumn struct {
	Title string `yaml:"title"`
	Links []Link `yaml:"links"`
}

type Footer struct {
	Brand     string       `yaml:"brand"`
	Tagline   string       `yaml:"tagline"`
	Copyright string       `yaml:"copyright"`
	Credit    string       `yaml:"credit"`
	Socials   []Link       `yaml:"socials"`
	Columns   []LinkColumn `yaml:"columns"`
}

// Site is the full content tree.
type Site struct {
	Hero          Hero          `yaml:"hero"`
	PillarsHeader SectionHeader `yaml:"pillarsHeader"`
	Pillars       []Pillar      `yaml:"pillars"`
	Panels        []Panel       `yaml:"panels"`
	Founders      []Founder     `yaml:"founders"`
	Community     Community     `yaml:"community"`
	Investors     Investors     `yaml:"investors"`
	Contact       Contact       `yaml:"contact"`
	Footer        Footer        `yaml:"footer"`
}

// Load parses the embedded site content.
func Load() (*Site, error) {
	return Parse(siteYAML)
}

// MustLoad is Load for process start-up.
func MustLoad() *Site {
	site, err := Load()
	if err != nil {
		panic(err)
	}
	return site
}

// Parse decodes and validates a content document.
func Parse(data []byte) (*Site, error) {
	var site Site
	if err := yaml.Unmarshal(data, &site); err != nil {
		return nil, fmt.Errorf("content: decode: %w", err)
	}
	for i := range site.Founders {
		site.Founders[i].Name = strings.TrimSpace(site.Founders[i].Name)
	}
	if err := site.validate(); err != nil {
		return nil, err
	}
	return &site, nil
}

func (s *Site) validate() error {
	var errs []error
	seen := make(map[int]struct{}, len(s.Founders))
	for _, f := range s.Founders {
		if _, dup := seen[f.ID]; dup {
			errs = append(errs, fmt.Errorf("founder %d: duplicate id", f.ID))
		}
		seen[f.ID] = struct{}{}
		if f.Name == "" {
			errs = append(errs, fmt.Errorf("founder %d: name is required", f.ID))
		}
		if _, ok := founderPalette[f.AccentColor]; !ok {
			errs = append(errs, fmt.Errorf("founder %d: accent %q not in palette", f.ID, f.AccentColor))
		}
	}
	for _, p := range s.Pillars {
		if p.Status != PillarLaunching && p.Status != PillarWaitlist {
			errs = append(errs, fmt.Errorf("pillar %s: unknown status %q", p.Name, p.Status))
		}
		if _, ok := pillarPalette[p.AccentColor]; !ok {
			errs = append(errs, fmt.Errorf("pillar %s: accent %q not in palette", p.Name, p.AccentColor))
		}
	}
	kinds := map[PanelKind]int{}
	for _, p := range s.Panels {
		if _, ok := ParsePanelKind(string(p.Type)); !ok {
			errs = append(errs, fmt.Errorf("panel %q: unknown type %q", p.Title, p.Type))
		}
		if _, ok := panelPalette[p.AccentColor]; !ok {
			errs = append(errs, fmt.Errorf("panel %q: accent %q not in palette", p.Title, p.AccentColor))
		}
		kinds[p.Type]++
	}
	for kind, n := range kinds {
		if n > 1 {
			errs = append(errs, fmt.Errorf("panel type %q defined %d times", kind, n))
		}
	}
	if err := errors.Join(errs...); err != nil {
		return fmt.Errorf("content: invalid site: %w", err)
	}
	return nil
}

// FounderIndex returns the position of the founder with id.
func (s *Site) FounderIndex(id int) (int, bool) {
	for i, f := range s.Founders {
		if f.ID == id {
			return i, true
		}
	}
	return -1, false
}

// Panel returns the panel of the given kind.
func (s *Site) Panel(kind PanelKind) (Panel, bool) {
	for _, p := range s.Panels {
		if p.Type == kind {
			return p, true
		}
	}
	return Panel{}, false
}

// Pillar returns the pillar at index.
func (s *Site) Pillar(index int) (Pillar, bool) {
	if index < 0 || index >= len(s.Pillars) {
		return Pillar{}, false
	}
	return s.Pillars[index], true
}
