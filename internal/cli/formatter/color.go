package formatter

import (
	"fmt"
	"strings"

	"github.com/alexanderramin/crossjob/internal/domain"
	"github.com/charmbracelet/lipgloss"
)

// Gruvbox-inspired color palette.
var (
	ColorGreen  = lipgloss.Color("#8ec07c")
	ColorYellow = lipgloss.Color("#fabd2f")
	ColorRed    = lipgloss.Color("#fb4934")
	ColorBlue   = lipgloss.Color("#83a598")
	ColorDim    = lipgloss.Color("#928374")
	ColorFg     = lipgloss.Color("#ebdbb2")
	ColorHeader = lipgloss.Color("#fe8019")
)

var (
	StyleGreen  = lipgloss.NewStyle().Foreground(ColorGreen)
	StyleYellow = lipgloss.NewStyle().Foreground(ColorYellow)
	StyleRed    = lipgloss.NewStyle().Foreground(ColorRed)
	StyleBlue   = lipgloss.NewStyle().Foreground(ColorBlue)
	StyleDim    = lipgloss.NewStyle().Foreground(ColorDim)
	StyleFg     = lipgloss.NewStyle().Foreground(ColorFg)
	StyleHeader = lipgloss.NewStyle().Foreground(ColorHeader).Bold(true)
	StyleBold   = lipgloss.NewStyle().Foreground(ColorFg).Bold(true)
)

// Header renders an upper-cased section header with an underline.
func Header(text string) string {
	upper := strings.ToUpper(text)
	return fmt.Sprintf("%s\n%s", StyleHeader.Render(upper), StyleDim.Render(strings.Repeat("─", lipgloss.Width(upper))))
}

func Dim(text string) string  { return StyleDim.Render(text) }
func Bold(text string) string { return StyleBold.Render(text) }

// Error renders an inline validation or failure message.
func Error(text string) string { return StyleRed.Render(text) }

// BadgeIndicator renders a badge as a colored dot and its status.
func BadgeIndicator(b domain.Badge) string {
	label := fmt.Sprintf("● %s %s", b.ID, b.Status)
	switch b.Status {
	case domain.BadgeVerified:
		return StyleGreen.Render(label)
	case domain.BadgePending:
		return StyleYellow.Render(label)
	default:
		return StyleDim.Render(label)
	}
}

// SaveIndicator renders the autosave status; idle renders as empty.
func SaveIndicator(s domain.SaveStatus) string {
	switch s {
	case domain.SaveSaving:
		return StyleYellow.Render("saving…")
	case domain.SaveSaved:
		return StyleGreen.Render("saved")
	case domain.SaveError:
		return StyleRed.Render("save failed, will retry on next change")
	default:
		return ""
	}
}
