package ui

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/trippal/admin-console/internal/controller"
	"github.com/trippal/admin-console/internal/domain"
)

// ticketModal identifies which overlay the ticket view shows.
type ticketModal int

const (
	ticketModalNone ticketModal = iota
	// ticketModalDetail shows the question and answer in a viewport.
	ticketModalDetail
	// ticketModalAnswer shows the detail plus the answer input.
	ticketModalAnswer
	// ticketModalNew shows the new-question form.
	ticketModalNew
)

// ticketCategoryFilters is the filter vocabulary: "all" plus each
// creatable category.
var ticketCategoryFilters = append([]string{"all"},
	categoriesAsStrings(domain.TicketCategories)...)

var ticketStatusFilters = []string{
	string(domain.TicketStatusAll),
	string(domain.TicketStatusAnswered),
	string(domain.TicketStatusUnanswered),
}

func categoriesAsStrings(categories []domain.TicketCategory) []string {
	out := make([]string, len(categories))
	for i, c := range categories {
		out[i] = string(c)
	}
	return out
}

// ticketsView holds the list cursor, the filter bar state, and the
// detail and form overlays.
type ticketsView struct {
	search    textField
	searching bool
	category  int
	status    int
	cursor    int

	modal    ticketModal
	detail   viewport.Model
	answer   textField
	question textField
	newCat   int
	busy     bool
}

func newTicketsView() ticketsView {
	return ticketsView{
		search:   newTextField("Search"),
		answer:   newTextField("Answer"),
		question: newTextField("Question"),
		detail:   viewport.Model{Width: 80, Height: 12},
	}
}

func (v *ticketsView) typing() bool {
	return v.searching || v.modal == ticketModalAnswer || v.modal == ticketModalNew
}

func (v *ticketsView) closeModal() {
	v.modal = ticketModalNone
	v.answer.SetValue("")
	v.answer.Blur()
	v.question.SetValue("")
	v.question.Blur()
}

// filters builds the controller filter map from the bar state.
func (v *ticketsView) filters() map[string]string {
	return map[string]string{
		controller.FilterQuery:    strings.TrimSpace(v.search.Value()),
		controller.FilterCategory: ticketCategoryFilters[v.category],
		controller.FilterStatus:   ticketStatusFilters[v.status],
	}
}

func (m Model) updateTickets(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	v := &m.tickets

	if v.busy {
		return m, nil
	}

	switch v.modal {
	case ticketModalDetail:
		switch {
		case key.Matches(msg, m.keys.Back):
			v.closeModal()
			return m, nil
		case key.Matches(msg, m.keys.Answer):
			if ticket, ok := m.selectedTicket(); ok && !ticket.IsAnswered {
				v.modal = ticketModalAnswer
				v.answer.Focus()
			}
			return m, nil
		}
		var cmd tea.Cmd
		v.detail, cmd = v.detail.Update(msg)
		return m, cmd

	case ticketModalAnswer:
		switch msg.Type {
		case tea.KeyEsc:
			// The draft survives: closing only hides the input.
			v.modal = ticketModalDetail
			v.answer.Blur()
			return m, nil
		case tea.KeyEnter:
			return m.submitAnswer()
		}
		v.answer.Update(msg)
		return m, nil

	case ticketModalNew:
		switch msg.Type {
		case tea.KeyEsc:
			v.closeModal()
			return m, nil
		case tea.KeyEnter:
			return m.submitNewTicket()
		case tea.KeyTab:
			v.newCat = (v.newCat + 1) % len(domain.TicketCategories)
			return m, nil
		}
		v.question.Update(msg)
		return m, nil
	}

	if v.searching {
		switch msg.Type {
		case tea.KeyEsc:
			v.searching = false
			v.search.Blur()
			v.search.SetValue("")
			m.deps.Tickets.SetFilters(v.filters())
			return m, nil
		case tea.KeyEnter:
			v.searching = false
			v.search.Blur()
			return m, nil
		}
		v.search.Update(msg)
		// Every edit re-arms the debounce timer; the request fires
		// after the quiet period.
		m.deps.Tickets.SetFilters(v.filters())
		return m, nil
	}

	switch {
	case key.Matches(msg, m.keys.FilterActivate):
		v.searching = true
		v.search.Focus()
		return m, nil
	case key.Matches(msg, m.keys.CycleCategory):
		v.category = (v.category + 1) % len(ticketCategoryFilters)
		m.deps.Tickets.SetFilters(v.filters())
		return m, nil
	case key.Matches(msg, m.keys.CycleStatus):
		v.status = (v.status + 1) % len(ticketStatusFilters)
		m.deps.Tickets.SetFilters(v.filters())
		return m, nil
	case key.Matches(msg, m.keys.Up):
		if v.cursor > 0 {
			v.cursor--
		}
		return m, nil
	case key.Matches(msg, m.keys.Down):
		if v.cursor < len(m.deps.Tickets.Items())-1 {
			v.cursor++
		}
		return m, nil
	case key.Matches(msg, m.keys.PageDown):
		return m, func() tea.Msg {
			return listRefreshedMsg{err: m.deps.Tickets.LoadMore(context.Background())}
		}
	case key.Matches(msg, m.keys.Refresh):
		return m, func() tea.Msg {
			return listRefreshedMsg{err: m.deps.Tickets.Reload(context.Background())}
		}
	case key.Matches(msg, m.keys.Select):
		if _, ok := m.selectedTicket(); ok {
			v.modal = ticketModalDetail
			v.detail.SetContent(m.renderTicketDetail())
			v.detail.GotoTop()
		}
		return m, nil
	case key.Matches(msg, m.keys.Answer):
		if ticket, ok := m.selectedTicket(); ok && !ticket.IsAnswered {
			v.modal = ticketModalAnswer
			v.detail.SetContent(m.renderTicketDetail())
			v.answer.Focus()
		}
		return m, nil
	case key.Matches(msg, m.keys.New):
		v.modal = ticketModalNew
		v.newCat = 0
		v.question.Focus()
		return m, nil
	}
	return m, nil
}

func (m Model) selectedTicket() (domain.SupportTicket, bool) {
	items := m.deps.Tickets.Items()
	if m.tickets.cursor < 0 || m.tickets.cursor >= len(items) {
		return domain.SupportTicket{}, false
	}
	return items[m.tickets.cursor], true
}

func (m Model) submitAnswer() (tea.Model, tea.Cmd) {
	ticket, ok := m.selectedTicket()
	if !ok {
		return m, nil
	}
	content := m.tickets.answer.Value()

	m.tickets.busy = true
	return m, func() tea.Msg {
		_, err := m.deps.Mutator.AnswerTicket(context.Background(), ticket.ID, content)
		return mutationDoneMsg{notice: fmt.Sprintf("Ticket #%d answered", ticket.ID), err: err}
	}
}

func (m Model) submitNewTicket() (tea.Model, tea.Cmd) {
	category := domain.TicketCategories[m.tickets.newCat]
	text := m.tickets.question.Value()

	m.tickets.busy = true
	return m, func() tea.Msg {
		err := m.deps.Mutator.CreateTicket(context.Background(), category, text)
		return mutationDoneMsg{notice: "Ticket created", err: err}
	}
}

func (m Model) viewTickets() string {
	v := m.tickets

	switch v.modal {
	case ticketModalDetail, ticketModalAnswer:
		return m.viewTicketDetail()
	case ticketModalNew:
		return m.viewNewTicket()
	}

	faint := lipgloss.NewStyle().Foreground(m.theme.FaintText)
	bar := fmt.Sprintf("category:%s  status:%s",
		ticketCategoryFilters[v.category], ticketStatusFilters[v.status])
	if v.searching {
		bar = v.search.View(m.theme) + "  " + faint.Render(bar)
	} else if query := strings.TrimSpace(v.search.Value()); query != "" {
		bar = fmt.Sprintf("search:%q  %s", query, bar)
	}

	items := m.deps.Tickets.Items()
	var rows []string
	rows = append(rows, faint.Render(bar), "")

	if m.deps.Tickets.IsLoadingInitial() {
		rows = append(rows, faint.Render("Loading tickets..."))
	} else if len(items) == 0 {
		rows = append(rows, faint.Render("No tickets match the current filters"))
	}

	selected := lipgloss.NewStyle().
		Background(m.theme.SelectedBackground).
		Foreground(m.theme.SelectedForeground)
	for i, ticket := range items {
		marker := lipgloss.NewStyle().Foreground(m.theme.StatusColor(ticket.IsAnswered)).Render("●")
		line := fmt.Sprintf("%s #%-5d %-10s %s", marker, ticket.ID, ticket.Category,
			truncate(ticket.QuestionText, 70))
		if i == v.cursor {
			line = selected.Render(line)
		}
		rows = append(rows, line)
	}

	footer := fmt.Sprintf("%d of %d", len(items), m.deps.Tickets.TotalCount())
	if m.deps.Tickets.IsLoadingMore() {
		footer += "  loading more..."
	} else if m.deps.Tickets.HasMore() {
		footer += "  pgdn for more"
	}
	if err := m.deps.Tickets.Err(); err != nil {
		footer = lipgloss.NewStyle().Foreground(m.theme.Danger).
			Render("Load failed, showing previous results: "+err.Error()) + "  " + footer
	}
	rows = append(rows, "", faint.Render(footer))

	return strings.Join(rows, "\n")
}

func (m Model) renderTicketDetail() string {
	ticket, ok := m.selectedTicket()
	if !ok {
		return ""
	}

	heading := lipgloss.NewStyle().Foreground(m.theme.HeaderForeground).Bold(true)
	faint := lipgloss.NewStyle().Foreground(m.theme.FaintText)

	author := "unknown"
	if ticket.Author != nil {
		author = ticket.Author.DisplayName()
	}
	lines := []string{
		heading.Render(fmt.Sprintf("Ticket #%d (%s)", ticket.ID, ticket.Category)),
		faint.Render(fmt.Sprintf("by %s on %s", author, ticket.CreatedAt.Format("2006-01-02 15:04"))),
		"",
		ticket.QuestionText,
		"",
	}
	if ticket.IsAnswered {
		answeredBy := "staff"
		if ticket.AnsweredBy != nil {
			answeredBy = ticket.AnsweredBy.DisplayName()
		}
		lines = append(lines,
			heading.Render("Answer"),
			faint.Render("by "+answeredBy),
			"",
			ticket.AnswerContent,
		)
	} else {
		lines = append(lines, faint.Render("Not answered yet"))
	}
	return strings.Join(lines, "\n")
}

func (m Model) viewTicketDetail() string {
	v := m.tickets
	parts := []string{v.detail.View()}
	if v.modal == ticketModalAnswer {
		parts = append(parts, "", v.answer.View(m.theme),
			lipgloss.NewStyle().Foreground(m.theme.HelpText).Render("enter submit  esc keep draft"))
	} else {
		parts = append(parts, "",
			lipgloss.NewStyle().Foreground(m.theme.HelpText).Render("a answer  esc back"))
	}
	return strings.Join(parts, "\n")
}

func (m Model) viewNewTicket() string {
	v := m.tickets
	heading := lipgloss.NewStyle().Foreground(m.theme.HeaderForeground).Bold(true)
	return strings.Join([]string{
		heading.Render("New ticket"),
		"",
		"Category: " + string(domain.TicketCategories[v.newCat]) + "  (tab to change)",
		v.question.View(m.theme),
		"",
		lipgloss.NewStyle().Foreground(m.theme.HelpText).Render("enter submit  esc cancel"),
	}, "\n")
}
