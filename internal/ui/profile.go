package ui

import (
	"context"
	"os"
	"path/filepath"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/trippal/admin-console/internal/api/dto"
	"github.com/trippal/admin-console/internal/domain"
)

// profileView is the account editor: the editable fields plus a path
// input for picking an avatar file from disk.
type profileView struct {
	firstName textField
	lastName  textField
	email     textField
	avatar    textField
	focus     int
	busy      bool
}

func newProfileView() profileView {
	v := profileView{
		firstName: newTextField("First name"),
		lastName:  newTextField("Last name"),
		email:     newTextField("Email"),
		avatar:    newTextField("Avatar"),
	}
	v.firstName.Focus()
	return v
}

func (v *profileView) typing() bool { return true }

func (v *profileView) fields() []*textField {
	return []*textField{&v.firstName, &v.lastName, &v.email, &v.avatar}
}

// populate pre-fills the form from the session user.
func (v *profileView) populate(user *domain.User) {
	if user == nil {
		return
	}
	v.firstName.SetValue(user.FirstName)
	v.lastName.SetValue(user.LastName)
	v.email.SetValue(user.Email)
	v.avatar.SetValue("")
}

func (v *profileView) cycleFocus(backward bool) {
	fields := v.fields()
	fields[v.focus].Blur()
	if backward {
		v.focus = (v.focus - 1 + len(fields)) % len(fields)
	} else {
		v.focus = (v.focus + 1) % len(fields)
	}
	fields[v.focus].Focus()
}

func (m Model) updateProfile(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	v := &m.profile
	if v.busy {
		return m, nil
	}

	switch msg.Type {
	case tea.KeyEsc:
		// The form captures digits, so leaving goes through escape.
		m.tab = TabDashboard
		return m, nil
	case tea.KeyTab:
		v.cycleFocus(false)
		return m, nil
	case tea.KeyShiftTab:
		v.cycleFocus(true)
		return m, nil
	case tea.KeyEnter:
		if v.avatar.Focused() {
			return m.submitAvatar()
		}
		return m.submitProfile()
	}

	v.fields()[v.focus].Update(msg)
	return m, nil
}

func (m Model) submitProfile() (tea.Model, tea.Cmd) {
	firstName := strings.TrimSpace(m.profile.firstName.Value())
	lastName := strings.TrimSpace(m.profile.lastName.Value())
	email := strings.TrimSpace(m.profile.email.Value())

	patch := dto.ProfilePatch{
		FirstName: &firstName,
		LastName:  &lastName,
	}
	if email != "" {
		patch.Email = &email
	}

	m.profile.busy = true
	return m, func() tea.Msg {
		_, err := m.deps.Mutator.UpdateProfile(context.Background(), patch)
		return mutationDoneMsg{notice: "Profile updated", err: err}
	}
}

func (m Model) submitAvatar() (tea.Model, tea.Cmd) {
	path := strings.TrimSpace(m.profile.avatar.Value())
	if path == "" {
		return m.showNotice("Enter the path of an image file", true)
	}

	m.profile.busy = true
	return m, func() tea.Msg {
		data, err := os.ReadFile(path)
		if err != nil {
			return mutationDoneMsg{err: err}
		}
		upload := dto.AvatarUpload{
			FileName:    filepath.Base(path),
			ContentType: avatarContentType(path),
			Data:        data,
		}
		_, err = m.deps.Mutator.UploadAvatar(context.Background(), upload)
		return mutationDoneMsg{notice: "Avatar updated", err: err}
	}
}

// avatarContentType maps the file extension to a MIME type. Unknown
// extensions map to an empty string, which the mutator rejects before
// any network traffic.
func avatarContentType(path string) string {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".jpg", ".jpeg":
		return "image/jpeg"
	case ".png":
		return "image/png"
	case ".gif":
		return "image/gif"
	default:
		return ""
	}
}

func (m Model) viewProfile() string {
	v := m.profile
	heading := lipgloss.NewStyle().Foreground(m.theme.HeaderForeground).Bold(true)
	faint := lipgloss.NewStyle().Foreground(m.theme.FaintText)

	user := m.deps.Session.Current().User
	identity := ""
	if user != nil {
		identity = faint.Render(user.Username + "  " + user.AvatarRef())
	}

	lines := []string{
		heading.Render("Profile"),
		identity,
		"",
		v.firstName.View(m.theme),
		v.lastName.View(m.theme),
		v.email.View(m.theme),
		"",
		v.avatar.View(m.theme) + faint.Render("  (path to a JPEG, PNG or GIF, max 2 MB)"),
		"",
	}
	if v.busy {
		lines = append(lines, faint.Render("Saving..."))
	}
	lines = append(lines, lipgloss.NewStyle().Foreground(m.theme.HelpText).
		Render("tab next field  enter save  enter on avatar uploads"))
	return strings.Join(lines, "\n")
}
