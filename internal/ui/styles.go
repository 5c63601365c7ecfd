package ui

import "github.com/charmbracelet/lipgloss"

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("213")).
			MarginBottom(1)

	normalStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("255"))

	helpStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("243")).
			Italic(true)

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("196")).
			Bold(true)

	statusStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("117"))

	messageFromMeStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("111")).
				Align(lipgloss.Right)

	messageFromOtherStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("120"))

	messageHeaderStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("243")).
				Italic(true)

	selectedMarkerStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("213")).
				Bold(true)

	reactionStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("255")).
			Background(lipgloss.Color("238")).
			Padding(0, 1)

	glyphReadStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("117"))

	placeholderStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("243")).
				Align(lipgloss.Center)

	typingStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("243")).
			Italic(true)

	inputStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("117")).
			Bold(true)
)

// avatarStyle renders initials on the profile's accent colour.
func avatarStyle(color string) lipgloss.Style {
	return lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("255")).
		Background(lipgloss.Color(color)).
		Padding(0, 1)
}
