package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

func (m Model) viewDashboard() string {
	summary := m.deps.Dashboard.Summary()
	if summary == nil {
		if err := m.deps.Dashboard.Err(); err != nil {
			return lipgloss.NewStyle().Foreground(m.theme.Danger).
				Render("Summary unavailable: " + err.Error())
		}
		return lipgloss.NewStyle().Foreground(m.theme.FaintText).Render("Loading summary...")
	}

	stat := func(label string, value int) string {
		return lipgloss.NewStyle().
			Border(lipgloss.NormalBorder()).
			BorderForeground(m.theme.BorderColor).
			Padding(0, 2).
			Render(fmt.Sprintf("%s\n%d", label, value))
	}
	cards := lipgloss.JoinHorizontal(lipgloss.Top,
		stat("Materials", summary.MaterialCount), " ",
		stat("Tickets", summary.TicketCount), " ",
		stat("Unanswered", summary.UnansweredCount),
	)

	heading := lipgloss.NewStyle().Foreground(m.theme.HeaderForeground).Bold(true)
	faint := lipgloss.NewStyle().Foreground(m.theme.FaintText)

	var recent []string
	recent = append(recent, heading.Render("Recent tickets"))
	if len(summary.RecentTickets) == 0 {
		recent = append(recent, faint.Render("  none"))
	}
	for _, ticket := range summary.RecentTickets {
		marker := lipgloss.NewStyle().Foreground(m.theme.StatusColor(ticket.IsAnswered)).Render("●")
		recent = append(recent, fmt.Sprintf("  %s #%d %s", marker, ticket.ID, truncate(ticket.QuestionText, 60)))
	}

	recent = append(recent, "", heading.Render("Latest materials"))
	if len(summary.RecentMaterials) == 0 {
		recent = append(recent, faint.Render("  none"))
	}
	for _, material := range summary.RecentMaterials {
		recent = append(recent, fmt.Sprintf("  %s (%s, %s)",
			truncate(material.Title, 50), material.MaterialType, material.DestinationName()))
	}

	footer := faint.Render("Refreshed " + summary.RefreshedAt.Format("15:04:05"))
	if err := m.deps.Dashboard.Err(); err != nil {
		footer = lipgloss.NewStyle().Foreground(m.theme.Danger).
			Render("Refresh failed, showing previous numbers: " + err.Error())
	}

	return lipgloss.JoinVertical(lipgloss.Left,
		"", cards, "", strings.Join(recent, "\n"), "", footer)
}

func truncate(text string, max int) string {
	runes := []rune(text)
	if len(runes) <= max {
		return text
	}
	return string(runes[:max-1]) + "…"
}
