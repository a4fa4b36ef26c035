package ui

import (
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// textField is a single-line input with cursor tracking. Masked mode
// renders every rune as an asterisk for password entry.
type textField struct {
	Label   string
	Masked  bool
	focused bool
	runes   []rune
	cursor  int
}

func newTextField(label string) textField {
	return textField{Label: label}
}

func (f *textField) Focus()          { f.focused = true }
func (f *textField) Blur()           { f.focused = false }
func (f *textField) Focused() bool   { return f.focused }
func (f *textField) Value() string   { return string(f.runes) }
func (f *textField) SetValue(v string) {
	f.runes = []rune(v)
	f.cursor = len(f.runes)
}

// Update processes a key message. Non-editing keys are ignored so the
// caller can route enter/tab/escape itself.
func (f *textField) Update(msg tea.KeyMsg) {
	switch msg.Type {
	case tea.KeyRunes, tea.KeySpace:
		for _, r := range msg.Runes {
			f.runes = append(f.runes[:f.cursor], append([]rune{r}, f.runes[f.cursor:]...)...)
			f.cursor++
		}
	case tea.KeyBackspace:
		if f.cursor > 0 {
			f.runes = append(f.runes[:f.cursor-1], f.runes[f.cursor:]...)
			f.cursor--
		}
	case tea.KeyDelete:
		if f.cursor < len(f.runes) {
			f.runes = append(f.runes[:f.cursor], f.runes[f.cursor+1:]...)
		}
	case tea.KeyLeft:
		if f.cursor > 0 {
			f.cursor--
		}
	case tea.KeyRight:
		if f.cursor < len(f.runes) {
			f.cursor++
		}
	case tea.KeyHome:
		f.cursor = 0
	case tea.KeyEnd:
		f.cursor = len(f.runes)
	}
}

// View renders the label and content with a block cursor when focused.
func (f *textField) View(theme Theme) string {
	text := string(f.runes)
	if f.Masked {
		text = strings.Repeat("*", len(f.runes))
	}

	var body string
	if f.focused {
		cursorStyle := lipgloss.NewStyle().
			Background(theme.SelectedBackground).
			Foreground(theme.SelectedForeground)
		before := text[:cellOffset(text, f.cursor)]
		at := " "
		after := ""
		if f.cursor < len(f.runes) {
			at = string([]rune(text)[f.cursor])
			after = string([]rune(text)[f.cursor+1:])
		}
		body = before + cursorStyle.Render(at) + after
	} else {
		body = text
	}

	labelStyle := lipgloss.NewStyle().Foreground(theme.FaintText).Width(10)
	if f.focused {
		labelStyle = labelStyle.Foreground(theme.Accent)
	}
	return labelStyle.Render(f.Label+":") + " " + body
}

// cellOffset converts a rune index into a byte offset. Masked text is
// all ASCII so the two coincide there.
func cellOffset(text string, runeIndex int) int {
	runes := []rune(text)
	if runeIndex > len(runes) {
		runeIndex = len(runes)
	}
	return len(string(runes[:runeIndex]))
}
