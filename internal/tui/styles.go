package tui

import "github.com/charmbracelet/lipgloss"

// Forest palette.
const (
	primaryColor   = "#2F855A" // Moss
	secondaryColor = "#D69E2E" // Honey
	accentColor    = "#3182CE" // Stream
	errorColor     = "#E53E3E" // Red
	dimColor       = "#718096" // Bark
)

// Style variables for consistent TUI rendering.
var (
	// BoxStyle frames the scene text.
	BoxStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color(primaryColor)).
			Padding(1, 2)

	// TitleStyle renders the story title.
	TitleStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color(primaryColor)).
			Bold(true)

	// SelectedStyle highlights the choice under the cursor.
	SelectedStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color(secondaryColor)).
			Bold(true)

	// ChoiceStyle renders the other choices.
	ChoiceStyle = lipgloss.NewStyle().
			PaddingLeft(2)

	// HighlightStyle renders highlighted markup spans.
	HighlightStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color(accentColor)).
			Bold(true)

	// EmphasisStyle renders *emphasised* markup spans.
	EmphasisStyle = lipgloss.NewStyle().
			Italic(true)

	// DimStyle renders dim/muted text.
	DimStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color(dimColor))

	// ErrorStyle renders error messages in red.
	ErrorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color(errorColor))

	// StatusBarStyle provides styling for the status bar.
	StatusBarStyle = lipgloss.NewStyle().
			Background(lipgloss.Color("#1C4532")).
			Foreground(lipgloss.Color("#C6F6D5")).
			Padding(0, 1)
)

// Pre-rendered markers.
var (
	CursorMarker = SelectedStyle.Render("▸")
	EndMarker    = DimStyle.Render("❦")
)
