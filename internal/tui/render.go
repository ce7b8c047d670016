package tui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/grove-dev/grove/internal/story"
)

const swatchGlyph = "■"

// RenderMarkup renders scene markup with lipgloss styles.
func RenderMarkup(text string) string {
	var b strings.Builder
	for _, sp := range story.Spans(text) {
		switch {
		case sp.Swatch != "":
			b.WriteString(lipgloss.NewStyle().Foreground(lipgloss.Color(sp.Swatch)).Render(swatchGlyph))
		case sp.Highlight && sp.Emphasis:
			b.WriteString(HighlightStyle.Italic(true).Render(sp.Text))
		case sp.Highlight:
			b.WriteString(HighlightStyle.Render(sp.Text))
		case sp.Emphasis:
			b.WriteString(EmphasisStyle.Render(sp.Text))
		default:
			b.WriteString(sp.Text)
		}
	}
	return b.String()
}
