package ui

import (
	"context"
	"time"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"go.uber.org/zap"

	"github.com/trippal/admin-console/internal/api"
	"github.com/trippal/admin-console/internal/config"
	"github.com/trippal/admin-console/internal/controller"
	"github.com/trippal/admin-console/internal/domain"
	"github.com/trippal/admin-console/internal/events"
	"github.com/trippal/admin-console/internal/session"
	"github.com/trippal/admin-console/pkg/util"
)

// Tab identifies which data view is active.
type Tab int

const (
	// TabDashboard shows the summary statistics.
	TabDashboard Tab = iota
	// TabTickets shows the support ticket list.
	TabTickets
	// TabMaterials shows the travel material catalog.
	TabMaterials
	// TabProfile shows the account editor.
	TabProfile
)

// noticeFadeDelay is how long a status-bar notice stays visible.
const noticeFadeDelay = 4 * time.Second

// reloginDelay is how long an auth-failure notice stays readable
// before the session is torn down and the login view takes over.
const reloginDelay = 2 * time.Second

// Messages delivered through the bubbletea loop. Anything touching
// the network runs in a tea.Cmd and reports back with one of these.
type (
	sessionRestoredMsg struct{ err error }
	loginResultMsg     struct {
		user *domain.User
		err  error
	}
	larkStatusMsg struct {
		enabled bool
		err     error
	}
	larkURLMsg struct {
		url string
		err error
	}
	summaryRefreshedMsg struct{ err error }
	listRefreshedMsg    struct{ err error }
	mutationDoneMsg     struct {
		notice string
		err    error
	}
	noticeFadeMsg     struct{}
	sessionExpiredMsg struct{}
	busEventMsg       struct{ event events.Event }
)

// BusEvent wraps a dispatcher event for delivery into the program.
// The runner subscribes this through Program.Send so controller state
// changes made off the UI goroutine trigger a re-render.
func BusEvent(event events.Event) tea.Msg {
	return busEventMsg{event: event}
}

// Dependencies bundles everything the root model needs.
type Dependencies struct {
	Config       *config.Config
	API          *api.Client
	Session      *session.Store
	Tickets      *controller.ListController[domain.SupportTicket]
	Materials    *controller.ListController[domain.Material]
	Destinations *controller.Destinations
	Dashboard    *controller.Dashboard
	Mutator      *controller.Mutator
	Logger       *zap.Logger
}

// Model is the top-level bubbletea model for the console.
type Model struct {
	deps  Dependencies
	theme Theme
	keys  KeyMap

	width  int
	height int

	tab       Tab
	login     loginView
	tickets   ticketsView
	materials materialsView
	profile   profileView

	restoring bool
	notice    string
	noticeBad bool
}

// New constructs the root model.
func New(deps Dependencies) Model {
	theme := DefaultTheme
	return Model{
		deps:      deps,
		theme:     theme,
		keys:      DefaultKeyMap,
		login:     newLoginView(),
		tickets:   newTicketsView(),
		materials: newMaterialsView(),
		profile:   newProfileView(),
		restoring: true,
	}
}

// Init restores the persisted session and checks SSO availability.
func (m Model) Init() tea.Cmd {
	return tea.Batch(
		func() tea.Msg {
			return sessionRestoredMsg{err: m.deps.Session.Restore(context.Background())}
		},
		func() tea.Msg {
			status, err := m.deps.API.LarkStatus(context.Background())
			return larkStatusMsg{enabled: status.LarkLoginEnabled, err: err}
		},
	)
}

func (m Model) authenticated() bool {
	return m.deps.Session.Current().Authenticated()
}

// Update routes messages. Keyboard input goes to the login form until
// a session exists, then to the active tab.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.tickets.detail.Width = msg.Width
		m.tickets.detail.Height = msg.Height - 4
		return m, nil

	case sessionRestoredMsg:
		m.restoring = false
		if msg.err != nil {
			m.login.status = "Session expired, sign in again"
			return m, nil
		}
		if m.authenticated() {
			return m, m.enterMainCmd()
		}
		return m, nil

	case loginResultMsg:
		m.login.busy = false
		if msg.err != nil {
			m.login.status = msg.err.Error()
			return m, nil
		}
		m.login.reset()
		m.tab = TabDashboard
		return m, m.enterMainCmd()

	case larkStatusMsg:
		// A failed availability check just leaves the SSO entry hidden.
		m.login.larkEnabled = msg.err == nil && msg.enabled
		return m, nil

	case larkURLMsg:
		if msg.err != nil {
			m.login.status = msg.err.Error()
			return m, nil
		}
		m.login.larkURL = msg.url
		m.login.status = "Open the URL below in a browser, then paste the redirect URL"
		return m, nil

	case summaryRefreshedMsg, listRefreshedMsg:
		return m, nil

	case mutationDoneMsg:
		m.tickets.busy = false
		m.profile.busy = false
		if msg.err != nil {
			if util.IsKind(msg.err, util.KindAuth) {
				// The stored access token is already cleared by the
				// mutator; after a short readable delay the in-memory
				// session goes too, putting the login view up.
				next, cmd := m.showNotice(msg.err.Error(), true)
				return next, tea.Batch(cmd, tea.Tick(reloginDelay, func(time.Time) tea.Msg {
					return sessionExpiredMsg{}
				}))
			}
			return m.showNotice(msg.err.Error(), true)
		}
		m.tickets.closeModal()
		return m.showNotice(msg.notice, false)

	case sessionExpiredMsg:
		if m.authenticated() {
			m.deps.Session.Logout()
		}
		m.login.status = "Session expired, sign in again"
		return m, nil

	case noticeFadeMsg:
		m.notice = ""
		return m, nil

	case busEventMsg:
		if msg.event.Type == events.EventSessionChanged && !m.authenticated() {
			m.login.reset()
		}
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)
	}
	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if key.Matches(msg, m.keys.Quit) && !m.typing() {
		return m, tea.Quit
	}
	if msg.Type == tea.KeyCtrlC {
		return m, tea.Quit
	}

	if !m.authenticated() {
		return m.updateLogin(msg)
	}

	if key.Matches(msg, m.keys.Logout) {
		m.deps.Session.Logout()
		m.login.status = "Signed out"
		return m, nil
	}

	// Tab switching is disabled while a text field has focus.
	if !m.typing() {
		switch {
		case key.Matches(msg, m.keys.TabDashboard):
			m.tab = TabDashboard
			return m, m.refreshSummaryCmd()
		case key.Matches(msg, m.keys.TabTickets):
			m.tab = TabTickets
			return m, m.loadTicketsCmd()
		case key.Matches(msg, m.keys.TabMaterials):
			m.tab = TabMaterials
			return m, m.loadMaterialsCmd()
		case key.Matches(msg, m.keys.TabProfile):
			m.tab = TabProfile
			m.profile.populate(m.deps.Session.Current().User)
			return m, nil
		}
	}

	switch m.tab {
	case TabDashboard:
		if key.Matches(msg, m.keys.Refresh) {
			return m, m.refreshSummaryCmd()
		}
		return m, nil
	case TabTickets:
		return m.updateTickets(msg)
	case TabMaterials:
		return m.updateMaterials(msg)
	case TabProfile:
		return m.updateProfile(msg)
	}
	return m, nil
}

// typing reports whether keystrokes currently belong to a text field.
func (m Model) typing() bool {
	if !m.authenticated() {
		return true
	}
	switch m.tab {
	case TabTickets:
		return m.tickets.typing()
	case TabMaterials:
		return m.materials.typing()
	case TabProfile:
		return m.profile.typing()
	}
	return false
}

// enterMainCmd kicks off the initial data loads after authentication.
func (m Model) enterMainCmd() tea.Cmd {
	return tea.Batch(
		m.refreshSummaryCmd(),
		m.loadTicketsCmd(),
		m.loadMaterialsCmd(),
		func() tea.Msg {
			return listRefreshedMsg{err: m.deps.Destinations.Load(context.Background())}
		},
	)
}

func (m Model) refreshSummaryCmd() tea.Cmd {
	return func() tea.Msg {
		return summaryRefreshedMsg{err: m.deps.Dashboard.Refresh(context.Background())}
	}
}

func (m Model) loadTicketsCmd() tea.Cmd {
	filters := m.tickets.filters()
	return func() tea.Msg {
		return listRefreshedMsg{err: m.deps.Tickets.Load(context.Background(), 1, filters)}
	}
}

func (m Model) loadMaterialsCmd() tea.Cmd {
	filters := m.materials.filters()
	return func() tea.Msg {
		return listRefreshedMsg{err: m.deps.Materials.Load(context.Background(), 1, filters)}
	}
}

func (m Model) showNotice(text string, bad bool) (tea.Model, tea.Cmd) {
	m.notice = text
	m.noticeBad = bad
	return m, tea.Tick(noticeFadeDelay, func(time.Time) tea.Msg {
		return noticeFadeMsg{}
	})
}

// View renders the active screen.
func (m Model) View() string {
	if m.restoring {
		return lipgloss.NewStyle().Foreground(m.theme.FaintText).Render("Restoring session...")
	}
	if !m.authenticated() {
		return m.viewLogin()
	}

	header := m.viewHeader()
	var body string
	switch m.tab {
	case TabDashboard:
		body = m.viewDashboard()
	case TabTickets:
		body = m.viewTickets()
	case TabMaterials:
		body = m.viewMaterials()
	case TabProfile:
		body = m.viewProfile()
	}
	return lipgloss.JoinVertical(lipgloss.Left, header, body, m.viewStatusBar())
}

func (m Model) viewHeader() string {
	names := []string{"1 Dashboard", "2 Tickets", "3 Materials", "4 Profile"}
	active := lipgloss.NewStyle().Foreground(m.theme.HeaderForeground).Bold(true)
	inactive := lipgloss.NewStyle().Foreground(m.theme.FaintText)

	parts := make([]string, len(names))
	for i, name := range names {
		style := inactive
		if Tab(i) == m.tab {
			style = active
		}
		parts[i] = style.Render(name)
	}
	user := m.deps.Session.Current().User.DisplayName()
	left := lipgloss.JoinHorizontal(lipgloss.Top, parts[0], "  ", parts[1], "  ", parts[2], "  ", parts[3])
	right := inactive.Render(user)

	gap := m.width - lipgloss.Width(left) - lipgloss.Width(right)
	if gap < 1 {
		gap = 1
	}
	return left + lipgloss.NewStyle().Width(gap).Render("") + right
}

func (m Model) viewStatusBar() string {
	if m.notice != "" {
		color := m.theme.Success
		if m.noticeBad {
			color = m.theme.Danger
		}
		return lipgloss.NewStyle().Foreground(color).Render(m.notice)
	}
	return lipgloss.NewStyle().Foreground(m.theme.HelpText).
		Render("/ search  c category  s status  r refresh  pgdn more  ctrl+l logout  q quit")
}
