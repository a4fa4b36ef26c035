package ui

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/trippal/admin-console/internal/controller"
	"github.com/trippal/admin-console/internal/domain"
)

var materialTypeFilters = []string{
	"all",
	string(domain.MaterialTypeHotel),
	string(domain.MaterialTypeTicket),
	string(domain.MaterialTypeRoute),
	string(domain.MaterialTypeTransport),
}

// materialsView holds the catalog cursor and filter bar state. The
// destination filter cycles through the server-provided option list,
// with index -1 meaning no constraint.
type materialsView struct {
	search      textField
	searching   bool
	typeIndex   int
	destination int
	cursor      int
}

func newMaterialsView() materialsView {
	return materialsView{
		search:      newTextField("Search"),
		destination: -1,
	}
}

func (v *materialsView) typing() bool { return v.searching }

func (m Model) materialDestinations() []domain.Destination {
	return m.deps.Destinations.Items()
}

func (v *materialsView) filters() map[string]string {
	return map[string]string{
		controller.FilterSearch:       strings.TrimSpace(v.search.Value()),
		controller.FilterMaterialType: materialTypeFilters[v.typeIndex],
	}
}

// materialFilters adds the destination slug, which needs the loaded
// option list.
func (m Model) materialFilters() map[string]string {
	filters := m.materials.filters()
	destinations := m.materialDestinations()
	if m.materials.destination >= 0 && m.materials.destination < len(destinations) {
		filters[controller.FilterDestination] = destinations[m.materials.destination].Slug
	}
	return filters
}

func (m Model) updateMaterials(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	v := &m.materials

	if v.searching {
		switch msg.Type {
		case tea.KeyEsc:
			v.searching = false
			v.search.Blur()
			v.search.SetValue("")
			m.deps.Materials.SetFilters(m.materialFilters())
			return m, nil
		case tea.KeyEnter:
			v.searching = false
			v.search.Blur()
			return m, nil
		}
		v.search.Update(msg)
		m.deps.Materials.SetFilters(m.materialFilters())
		return m, nil
	}

	switch {
	case key.Matches(msg, m.keys.FilterActivate):
		v.searching = true
		v.search.Focus()
		return m, nil
	case key.Matches(msg, m.keys.CycleCategory):
		v.typeIndex = (v.typeIndex + 1) % len(materialTypeFilters)
		m.deps.Materials.SetFilters(m.materialFilters())
		return m, nil
	case key.Matches(msg, m.keys.CycleStatus):
		// Destination cycles through -1 (any) and the loaded options.
		count := len(m.materialDestinations())
		if count > 0 {
			v.destination++
			if v.destination >= count {
				v.destination = -1
			}
			m.deps.Materials.SetFilters(m.materialFilters())
		}
		return m, nil
	case key.Matches(msg, m.keys.Up):
		if v.cursor > 0 {
			v.cursor--
		}
		return m, nil
	case key.Matches(msg, m.keys.Down):
		if v.cursor < len(m.deps.Materials.Items())-1 {
			v.cursor++
		}
		return m, nil
	case key.Matches(msg, m.keys.PageDown):
		return m, func() tea.Msg {
			return listRefreshedMsg{err: m.deps.Materials.LoadMore(context.Background())}
		}
	case key.Matches(msg, m.keys.Refresh):
		return m, func() tea.Msg {
			return listRefreshedMsg{err: m.deps.Materials.Reload(context.Background())}
		}
	case key.Matches(msg, m.keys.Select):
		items := m.deps.Materials.Items()
		if v.cursor >= 0 && v.cursor < len(items) {
			material := items[v.cursor]
			if material.PDFFile == "" {
				return m.showNotice("No PDF attached to this material", true)
			}
			return m.showNotice("PDF: "+m.deps.API.MaterialPDFURL(material.ID), false)
		}
		return m, nil
	}
	return m, nil
}

func (m Model) viewMaterials() string {
	v := m.materials
	faint := lipgloss.NewStyle().Foreground(m.theme.FaintText)

	destinationLabel := "any"
	destinations := m.materialDestinations()
	if v.destination >= 0 && v.destination < len(destinations) {
		destinationLabel = destinations[v.destination].Name
	}
	bar := fmt.Sprintf("type:%s  destination:%s", materialTypeFilters[v.typeIndex], destinationLabel)
	if v.searching {
		bar = v.search.View(m.theme) + "  " + faint.Render(bar)
	} else if query := strings.TrimSpace(v.search.Value()); query != "" {
		bar = fmt.Sprintf("search:%q  %s", query, bar)
	}

	items := m.deps.Materials.Items()
	var rows []string
	rows = append(rows, faint.Render(bar), "")

	if m.deps.Materials.IsLoadingInitial() {
		rows = append(rows, faint.Render("Loading materials..."))
	} else if len(items) == 0 {
		rows = append(rows, faint.Render("No materials match the current filters"))
	}

	selected := lipgloss.NewStyle().
		Background(m.theme.SelectedBackground).
		Foreground(m.theme.SelectedForeground)
	for i, material := range items {
		pdf := " "
		if material.PDFFile != "" {
			pdf = lipgloss.NewStyle().Foreground(m.theme.Accent).Render("⎙")
		}
		line := fmt.Sprintf("%s %-40s %-10s %-15s %8s", pdf,
			truncate(material.Title, 40), material.MaterialType,
			truncate(material.DestinationName(), 15), material.Price)
		if i == v.cursor {
			line = selected.Render(line)
		}
		rows = append(rows, line)
	}

	footer := fmt.Sprintf("%d of %d", len(items), m.deps.Materials.TotalCount())
	if m.deps.Materials.IsLoadingMore() {
		footer += "  loading more..."
	} else if m.deps.Materials.HasMore() {
		footer += "  pgdn for more"
	}
	if err := m.deps.Materials.Err(); err != nil {
		footer = lipgloss.NewStyle().Foreground(m.theme.Danger).
			Render("Load failed, showing previous results: "+err.Error()) + "  " + footer
	}
	rows = append(rows, "", faint.Render(footer))

	return strings.Join(rows, "\n")
}
