package tui

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/playgroundstudio/pgstudio/pkg/generator"
)

// Color constants
const (
	ColorActive   = "170" // Purple/magenta for active elements
	ColorInactive = "240" // Gray for inactive elements
	ColorSelected = "236" // Dark gray for background selection
	ColorNormal   = "245" // Light gray for normal text
	ColorDim      = "241" // Dimmer gray
	ColorVeryDim  = "242" // Even dimmer gray
	ColorWarning  = "214" // Orange/yellow for warnings
	ColorDanger   = "196" // Red for dangerous actions
	ColorSuccess  = "28"  // Green for success
	ColorWhite    = "255" // White
	ColorDark     = "235" // Dark for contrast
	ColorPrimary  = "33"  // Blue for drop indicators
)

var (
	ActiveBorderStyle = lipgloss.NewStyle().
				Border(lipgloss.RoundedBorder()).
				BorderForeground(lipgloss.Color(ColorActive))

	InactiveBorderStyle = lipgloss.NewStyle().
				Border(lipgloss.RoundedBorder()).
				BorderForeground(lipgloss.Color(ColorInactive))

	SelectedStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color(ColorActive)).
			Background(lipgloss.Color(ColorSelected)).
			Bold(true)

	NormalStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color(ColorNormal))

	ChapterStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color(ColorWarning))

	HeaderStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color(ColorDim))

	GrabbedStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color(ColorPrimary)).
			Italic(true)

	DropLineStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color(ColorPrimary)).
			Bold(true)

	EmptyStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color(ColorVeryDim))

	ConfirmDangerStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color(ColorDanger)).
				Bold(true)

	ConfirmSafeStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color(ColorSuccess)).
				Bold(true)

	InputStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color(ColorActive)).
			Padding(0, 1)

	DescriptionStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color(ColorDim))

	ErrorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color(ColorDanger))

	HelpStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color(ColorVeryDim))

	StatusBarStyle = lipgloss.NewStyle().
			Background(lipgloss.Color("62")).
			Foreground(lipgloss.Color("230")).
			Padding(0, 1)
)

// GetTokenBadgeStyle colors a prompt token estimate by how much of the
// generator's context it uses.
func GetTokenBadgeStyle(tokenCount int) lipgloss.Style {
	_, _, status := generator.PromptBudget(tokenCount)
	switch status {
	case "good":
		return lipgloss.NewStyle().
			Background(lipgloss.Color(ColorSuccess)).
			Foreground(lipgloss.Color(ColorWhite)).
			Padding(0, 1).
			Bold(true)
	case "warning":
		return lipgloss.NewStyle().
			Background(lipgloss.Color(ColorWarning)).
			Foreground(lipgloss.Color(ColorDark)).
			Padding(0, 1).
			Bold(true)
	case "danger":
		return lipgloss.NewStyle().
			Background(lipgloss.Color(ColorDanger)).
			Foreground(lipgloss.Color(ColorWhite)).
			Padding(0, 1).
			Bold(true)
	default:
		return lipgloss.NewStyle().
			Padding(0, 1)
	}
}

// GetActiveBorderStyle returns the border for the focused or unfocused pane.
func GetActiveBorderStyle(isActive bool) lipgloss.Style {
	if isActive {
		return ActiveBorderStyle
	}
	return InactiveBorderStyle
}

func formatConfirmOptions(destructive bool) string {
	yes, no := ConfirmSafeStyle, ConfirmDangerStyle
	if destructive {
		yes, no = ConfirmDangerStyle, ConfirmSafeStyle
	}
	return yes.Render("[y]") + "/" + no.Render("[n]")
}
