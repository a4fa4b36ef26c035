package ui

import (
	"context"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// loginView is the credential form plus the optional SSO flow. The
// terminal cannot intercept a browser redirect, so the SSO flow shows
// the provider URL and accepts the redirect URL pasted back in.
type loginView struct {
	username textField
	password textField
	redirect textField
	focus    int

	larkEnabled bool
	larkURL     string
	status      string
	busy        bool
}

func newLoginView() loginView {
	v := loginView{
		username: newTextField("Username"),
		password: newTextField("Password"),
		redirect: newTextField("SSO URL"),
	}
	v.password.Masked = true
	v.username.Focus()
	return v
}

func (v *loginView) reset() {
	enabled := v.larkEnabled
	*v = newLoginView()
	v.larkEnabled = enabled
}

func (v *loginView) fields() []*textField {
	fields := []*textField{&v.username, &v.password}
	if v.larkURL != "" {
		fields = append(fields, &v.redirect)
	}
	return fields
}

func (v *loginView) cycleFocus(backward bool) {
	fields := v.fields()
	fields[v.focus].Blur()
	if backward {
		v.focus = (v.focus - 1 + len(fields)) % len(fields)
	} else {
		v.focus = (v.focus + 1) % len(fields)
	}
	fields[v.focus].Focus()
}

func (m Model) updateLogin(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.login.busy {
		return m, nil
	}

	switch msg.Type {
	case tea.KeyTab:
		m.login.cycleFocus(false)
		return m, nil
	case tea.KeyShiftTab:
		m.login.cycleFocus(true)
		return m, nil
	case tea.KeyEnter:
		if m.login.larkURL != "" && m.login.redirect.Focused() {
			return m.submitSSO()
		}
		return m.submitLogin()
	case tea.KeyCtrlO:
		if m.login.larkEnabled {
			m.login.status = "Requesting sign-in URL..."
			return m, func() tea.Msg {
				start, err := m.deps.API.LarkStart(context.Background())
				return larkURLMsg{url: start.AuthURL, err: err}
			}
		}
		return m, nil
	}

	fields := m.login.fields()
	fields[m.login.focus].Update(msg)
	return m, nil
}

func (m Model) submitLogin() (tea.Model, tea.Cmd) {
	username := strings.TrimSpace(m.login.username.Value())
	password := m.login.password.Value()
	if username == "" || password == "" {
		m.login.status = "Username and password are required"
		return m, nil
	}

	m.login.busy = true
	m.login.status = "Signing in..."
	return m, func() tea.Msg {
		user, err := m.deps.Session.Login(context.Background(), username, password)
		return loginResultMsg{user: user, err: err}
	}
}

func (m Model) submitSSO() (tea.Model, tea.Cmd) {
	redirect := strings.TrimSpace(m.login.redirect.Value())
	if redirect == "" {
		m.login.status = "Paste the redirect URL first"
		return m, nil
	}

	m.login.busy = true
	m.login.status = "Completing sign-in..."
	return m, func() tea.Msg {
		user, err := m.deps.Session.CompleteSSO(context.Background(), redirect)
		return loginResultMsg{user: user, err: err}
	}
}

func (m Model) viewLogin() string {
	title := lipgloss.NewStyle().Foreground(m.theme.HeaderForeground).Bold(true).
		Render("TripPal Admin Console")

	lines := []string{
		title,
		"",
		m.login.username.View(m.theme),
		m.login.password.View(m.theme),
	}
	if m.login.larkURL != "" {
		lines = append(lines,
			m.login.redirect.View(m.theme),
			"",
			lipgloss.NewStyle().Foreground(m.theme.Accent).Render(m.login.larkURL),
		)
	}
	if m.login.status != "" {
		lines = append(lines, "", lipgloss.NewStyle().Foreground(m.theme.FaintText).Render(m.login.status))
	}

	help := "enter sign in  tab next field"
	if m.login.larkEnabled {
		help += "  ctrl+o sign in with Lark"
	}
	lines = append(lines, "", lipgloss.NewStyle().Foreground(m.theme.HelpText).Render(help))

	box := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(m.theme.BorderColor).
		Padding(1, 2).
		Render(strings.Join(lines, "\n"))
	if m.width > 0 && m.height > 0 {
		return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, box)
	}
	return box
}
