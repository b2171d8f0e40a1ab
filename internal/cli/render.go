// Package cli renders the chat surface in the terminal, mapping the app's
// deity theme palettes onto lipgloss styles.
package cli

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	chatmodel "github.com/Heipiao/taluo/internal/model/chat"
	"github.com/Heipiao/taluo/internal/model/deity"
	thememodel "github.com/Heipiao/taluo/internal/theme"
)

// Renderer styles output for one active theme; rebuild it on deity change.
type Renderer struct {
	header    lipgloss.Style
	tagBase   lipgloss.Style
	user      lipgloss.Style
	assistant lipgloss.Style
	faint     lipgloss.Style
}

// NewRenderer derives terminal styles from the palette.
func NewRenderer(th thememodel.Theme) *Renderer {
	return &Renderer{
		header: lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color(th.ButtonText)).
			Background(lipgloss.Color(th.Primary)).
			Padding(0, 2),
		tagBase: lipgloss.NewStyle().
			Foreground(lipgloss.Color("#333333")).
			Padding(0, 1),
		user: lipgloss.NewStyle().
			Foreground(lipgloss.Color(th.ButtonText)).
			Background(lipgloss.Color(th.ButtonBackground)).
			Padding(0, 1),
		assistant: lipgloss.NewStyle().
			Foreground(lipgloss.Color(th.Text)).
			Background(lipgloss.Color(th.ChatBackground)).
			Padding(0, 1),
		faint: lipgloss.NewStyle().Faint(true),
	}
}

// Header renders the deity banner with its tag chips.
func (r *Renderer) Header(d deity.Deity) string {
	var b strings.Builder
	b.WriteString(r.header.Render(d.Name))
	b.WriteString("  ")

	for i, tag := range d.Tags {
		if i > 0 {
			b.WriteString(" ")
		}
		b.WriteString(r.tagBase.Background(lipgloss.Color(tag.Color)).Render(tag.Name))
	}
	b.WriteString("\n")
	b.WriteString(r.faint.Render(d.Description))
	return b.String()
}

// Message renders one transcript bubble with its sender label.
func (r *Renderer) Message(msg chatmodel.Message) string {
	style := r.assistant
	if msg.Role == chatmodel.RoleUser {
		style = r.user
	}
	return r.faint.Render(msg.SenderDisplay+":") + " " + style.Render(msg.Text)
}

// Typing renders the "remote is typing" line.
func (r *Renderer) Typing(name string) string {
	return r.faint.Render(name + " 正在输入...")
}
