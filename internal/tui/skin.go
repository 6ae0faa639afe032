package tui

import (
	"fmt"
	"os"

	"github.com/charmbracelet/lipgloss"
	"gopkg.in/yaml.v3"
)

// Skin holds the TUI color palette. Skins are small YAML files so users
// can restyle the client without rebuilding it.
type Skin struct {
	Name   string `yaml:"name"`
	Colors struct {
		Accent   string `yaml:"accent"`
		Border   string `yaml:"border"`
		Text     string `yaml:"text"`
		Muted    string `yaml:"muted"`
		Error    string `yaml:"error"`
		Success  string `yaml:"success"`
		Bar      string `yaml:"bar"`
		Selected string `yaml:"selected"`
	} `yaml:"colors"`
}

// DefaultSkin returns the built-in palette.
func DefaultSkin() Skin {
	var s Skin
	s.Name = "default"
	s.Colors.Accent = "39"
	s.Colors.Border = "240"
	s.Colors.Text = "7"
	s.Colors.Muted = "8"
	s.Colors.Error = "196"
	s.Colors.Success = "42"
	s.Colors.Bar = "39"
	s.Colors.Selected = "63"
	return s
}

// LoadSkin reads a skin file, filling unset colors from the default palette.
func LoadSkin(path string) (Skin, error) {
	skin := DefaultSkin()

	data, err := os.ReadFile(path)
	if err != nil {
		return skin, fmt.Errorf("tui: read skin: %w", err)
	}
	if err := yaml.Unmarshal(data, &skin); err != nil {
		return skin, fmt.Errorf("tui: parse skin %s: %w", path, err)
	}

	def := DefaultSkin()
	if skin.Colors.Accent == "" {
		skin.Colors.Accent = def.Colors.Accent
	}
	if skin.Colors.Border == "" {
		skin.Colors.Border = def.Colors.Border
	}
	if skin.Colors.Text == "" {
		skin.Colors.Text = def.Colors.Text
	}
	if skin.Colors.Muted == "" {
		skin.Colors.Muted = def.Colors.Muted
	}
	if skin.Colors.Error == "" {
		skin.Colors.Error = def.Colors.Error
	}
	if skin.Colors.Success == "" {
		skin.Colors.Success = def.Colors.Success
	}
	if skin.Colors.Bar == "" {
		skin.Colors.Bar = def.Colors.Bar
	}
	if skin.Colors.Selected == "" {
		skin.Colors.Selected = def.Colors.Selected
	}
	return skin, nil
}

// Styles are the lipgloss styles derived from a skin.
type Styles struct {
	Title    lipgloss.Style
	Card     lipgloss.Style
	CardSel  lipgloss.Style
	Label    lipgloss.Style
	Value    lipgloss.Style
	Muted    lipgloss.Style
	Error    lipgloss.Style
	Success  lipgloss.Style
	Bar      lipgloss.Style
	Status   lipgloss.Style
	FormHint lipgloss.Style
}

// NewStyles builds the style set for a skin.
func NewStyles(s Skin) Styles {
	border := lipgloss.RoundedBorder()
	return Styles{
		Title: lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color(s.Colors.Accent)),
		Card: lipgloss.NewStyle().
			Border(border).
			BorderForeground(lipgloss.Color(s.Colors.Border)).
			Padding(0, 1),
		CardSel: lipgloss.NewStyle().
			Border(border).
			BorderForeground(lipgloss.Color(s.Colors.Selected)).
			Padding(0, 1),
		Label: lipgloss.NewStyle().
			Foreground(lipgloss.Color(s.Colors.Muted)),
		Value: lipgloss.NewStyle().
			Foreground(lipgloss.Color(s.Colors.Text)),
		Muted: lipgloss.NewStyle().
			Foreground(lipgloss.Color(s.Colors.Muted)),
		Error: lipgloss.NewStyle().
			Foreground(lipgloss.Color(s.Colors.Error)),
		Success: lipgloss.NewStyle().
			Foreground(lipgloss.Color(s.Colors.Success)),
		Bar: lipgloss.NewStyle().
			Foreground(lipgloss.Color(s.Colors.Bar)).
			Background(lipgloss.Color(s.Colors.Bar)),
		Status: lipgloss.NewStyle().
			Foreground(lipgloss.Color(s.Colors.Text)).
			Background(lipgloss.Color("236")),
		FormHint: lipgloss.NewStyle().
			Foreground(lipgloss.Color(s.Colors.Muted)).
			Italic(true),
	}
}
