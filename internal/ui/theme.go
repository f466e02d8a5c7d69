package ui

import (
	"fmt"
	"image/color"
	"slices"
	"strings"

	"charm.land/bubbles/v2/spinner"
	"charm.land/lipgloss/v2"
)

// Theme defines the color scheme for the application
type Theme struct {
	Primary   color.Color // titles, highlights
	Secondary color.Color
	Accent    color.Color // navigation, active search

	Text      color.Color
	TextDim   color.Color // labels, hints
	TextMuted color.Color // separators, disabled controls

	Success color.Color
	Warning color.Color
	Danger  color.Color
	Pending color.Color

	Border        color.Color
	Background    color.Color
	Selection     color.Color
	SelectionText color.Color

	TableHeader     color.Color
	TableHeaderText color.Color
}

// DefaultTheme returns the default dark theme
func DefaultTheme() *Theme {
	return &Theme{
		Primary:   lipgloss.Color("38"),  // Teal
		Secondary: lipgloss.Color("33"),  // Blue
		Accent:    lipgloss.Color("86"),  // Cyan
		Text:      lipgloss.Color("252"), // Light gray
		TextDim:   lipgloss.Color("247"),
		TextMuted: lipgloss.Color("241"),

		Success: lipgloss.Color("42"),
		Warning: lipgloss.Color("214"),
		Danger:  lipgloss.Color("196"),
		Pending: lipgloss.Color("226"),

		Border:        lipgloss.Color("244"),
		Background:    lipgloss.Color("235"),
		Selection:     lipgloss.Color("24"),
		SelectionText: lipgloss.Color("231"),

		TableHeader:     lipgloss.Color("30"),
		TableHeaderText: lipgloss.Color("231"),
	}
}

// LightTheme is tuned for light terminal backgrounds.
func LightTheme() *Theme {
	return &Theme{
		Primary:   lipgloss.Color("#00707A"),
		Secondary: lipgloss.Color("#1F5FBF"),
		Accent:    lipgloss.Color("#007C91"),
		Text:      lipgloss.Color("#202020"),
		TextDim:   lipgloss.Color("#5C5C5C"),
		TextMuted: lipgloss.Color("#9A9A9A"),

		Success: lipgloss.Color("#1A7F37"),
		Warning: lipgloss.Color("#9A6700"),
		Danger:  lipgloss.Color("#CF222E"),
		Pending: lipgloss.Color("#8250DF"),

		Border:        lipgloss.Color("#BDBDBD"),
		Background:    lipgloss.Color("#F2F2F2"),
		Selection:     lipgloss.Color("#CCE5FF"),
		SelectionText: lipgloss.Color("#0B0B0B"),

		TableHeader:     lipgloss.Color("#00707A"),
		TableHeaderText: lipgloss.Color("#FFFFFF"),
	}
}

var presets = map[string]func() *Theme{
	"dark":  DefaultTheme,
	"light": LightTheme,
}

// AvailableThemes lists preset names in sorted order.
func AvailableThemes() []string {
	names := make([]string, 0, len(presets))
	for name := range presets {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

var current = DefaultTheme()

// Current returns the current active theme
func Current() *Theme {
	return current
}

// SetTheme switches to a preset by name.
func SetTheme(name string) error {
	ctor, ok := presets[strings.ToLower(strings.TrimSpace(name))]
	if !ok {
		return fmt.Errorf("unknown theme %q (available: %s)", name, strings.Join(AvailableThemes(), ", "))
	}
	current = ctor()
	return nil
}

// ApplyConfigWithOverride selects the CLI override if set, otherwise the
// configured theme. Unknown names keep the current theme.
func ApplyConfigWithOverride(configured, override string) error {
	name := configured
	if override != "" {
		name = override
	}
	if name == "" {
		return nil
	}
	return SetTheme(name)
}

func DimStyle() lipgloss.Style {
	return lipgloss.NewStyle().Foreground(current.TextDim)
}

func MutedStyle() lipgloss.Style {
	return lipgloss.NewStyle().Foreground(current.TextMuted)
}

func TextStyle() lipgloss.Style {
	return lipgloss.NewStyle().Foreground(current.Text)
}

func SuccessStyle() lipgloss.Style {
	return lipgloss.NewStyle().Foreground(current.Success)
}

func WarningStyle() lipgloss.Style {
	return lipgloss.NewStyle().Foreground(current.Warning)
}

// DangerStyle returns a style for danger/error states
func DangerStyle() lipgloss.Style {
	return lipgloss.NewStyle().Foreground(current.Danger)
}

func PendingStyle() lipgloss.Style {
	return lipgloss.NewStyle().Foreground(current.Pending)
}

func TitleStyle() lipgloss.Style {
	return lipgloss.NewStyle().Bold(true).Foreground(current.Primary)
}

func PrimaryStyle() lipgloss.Style {
	return lipgloss.NewStyle().Foreground(current.Primary)
}

func SectionStyle() lipgloss.Style {
	return lipgloss.NewStyle().Bold(true).Foreground(current.Secondary)
}

// AccentStyle returns a style for accent-colored text (non-bold)
func AccentStyle() lipgloss.Style {
	return lipgloss.NewStyle().Foreground(current.Accent)
}

func SelectedStyle() lipgloss.Style {
	return lipgloss.NewStyle().Background(current.Selection).Foreground(current.SelectionText)
}

func TableHeaderStyle() lipgloss.Style {
	return lipgloss.NewStyle().Bold(true).Background(current.TableHeader).Foreground(current.TableHeaderText)
}

// BorderStyle returns a style for border-colored text (separators)
func BorderStyle() lipgloss.Style {
	return lipgloss.NewStyle().Foreground(current.Border)
}

func BoxStyle() lipgloss.Style {
	return lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(current.Border).
		Padding(0, 1)
}

// InputFieldStyle returns a style for input fields (search, login form)
func InputFieldStyle() lipgloss.Style {
	return lipgloss.NewStyle().
		Background(current.Background).
		Foreground(current.Text).
		Padding(0, 1)
}

// ReadOnlyBadgeStyle returns a style for the READ-ONLY indicator badge
func ReadOnlyBadgeStyle() lipgloss.Style {
	return lipgloss.NewStyle().
		Background(current.Warning).
		Foreground(current.Background).
		Bold(true).
		Padding(0, 1)
}

func NewSpinner() spinner.Model {
	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = lipgloss.NewStyle().Foreground(current.Accent)
	return s
}
