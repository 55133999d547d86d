package cmd

import "github.com/charmbracelet/lipgloss"

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("39")).
			MarginBottom(1)

	labelStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("214"))

	valueStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("245"))

	pathStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("81"))

	hintStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("242")).
			Italic(true)

	successIcon = lipgloss.NewStyle().Foreground(lipgloss.Color("42")).Render("✓")
	failureIcon = lipgloss.NewStyle().Foreground(lipgloss.Color("196")).Render("✗")
	infoIcon    = lipgloss.NewStyle().Foreground(lipgloss.Color("39")).Render("•")
)
