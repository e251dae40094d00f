package ui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// BgStyle renders segments that share one background color. lipgloss resets
// the background after every styled segment, so plain spaces between
// segments would otherwise show the terminal color.
type BgStyle struct {
	bg    lipgloss.Color
	space string
}

// NewBgStyle returns a helper for bgColor.
func NewBgStyle(bgColor string) BgStyle {
	b := BgStyle{bg: lipgloss.Color(bgColor)}
	b.space = b.fill().Render(" ")
	return b
}

func (b BgStyle) fill() lipgloss.Style {
	return lipgloss.NewStyle().Background(b.bg)
}

// Render applies style to text word by word so the spaces between words
// carry the background too.
func (b BgStyle) Render(text string, style lipgloss.Style) string {
	if text == "" {
		return ""
	}
	style = style.Background(b.bg)
	if !strings.Contains(text, " ") {
		return style.Render(text)
	}
	words := strings.Split(text, " ")
	for i, w := range words {
		if w != "" {
			words[i] = style.Render(w)
		}
	}
	return strings.Join(words, b.space)
}

func (b BgStyle) Space() string { return b.space }

func (b BgStyle) Spaces(n int) string { return b.fill().Render(strings.Repeat(" ", n)) }

func (b BgStyle) Sep(sep string) string { return b.fill().Render(sep) }

// Join joins already rendered parts with a background-colored separator.
func (b BgStyle) Join(parts []string, sep string) string {
	return strings.Join(parts, b.Sep(sep))
}

func (b BgStyle) Color() lipgloss.Color { return b.bg }

// FillLine pads rendered content to width.
func (b BgStyle) FillLine(content string, width int) string {
	return b.fill().Width(width).Render(content)
}

// Pair renders "label value" with independent styles, the common shape of
// header and card fields.
func (b BgStyle) Pair(label, value string, labelStyle, valueStyle lipgloss.Style) string {
	return b.Render(label, labelStyle) + b.space + b.Render(value, valueStyle)
}
