package tui

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/cshotwell/mp3-tagger/internal/selection"
)

// Styles for the TUI
var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FF6B6B")).
			MarginBottom(1)

	subtitleStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#4ECDC4"))

	successStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#95E1A3"))

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FF6B6B"))

	warningStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FFE66D"))

	infoStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#A8DADC"))

	dimStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#6C757D"))

	boxStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("#4ECDC4")).
			Padding(1, 2)

	cursorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#F8B500"))

	conflictStyle = lipgloss.NewStyle().
			Italic(true).
			Foreground(lipgloss.Color("#6C757D"))
)

const labelWidth = 20

// View renders the UI.
func (m Model) View() string {
	var b strings.Builder

	b.WriteString(titleStyle.Render("🎵 MP3 Tagger"))
	b.WriteString("\n")
	b.WriteString(dimStyle.Render(m.dir))
	b.WriteString("\n\n")

	switch m.state {
	case StateBrowse:
		b.WriteString(lipgloss.JoinHorizontal(lipgloss.Top, m.viewFiles(), "   ", m.viewFields()))
		b.WriteString("\n")
		b.WriteString(m.viewStatus())
	case StateArtQuery:
		b.WriteString(m.viewArtQuery())
	case StateArtBusy:
		b.WriteString(m.spinner.View())
		b.WriteString(" ")
		b.WriteString(subtitleStyle.Render(m.busyText))
		b.WriteString("\n")
	case StateArtResults:
		b.WriteString(m.viewArtResults())
	case StateReport:
		b.WriteString(boxStyle.Render(m.report))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(dimStyle.Render(m.getHelpText()))

	return b.String()
}

func (m Model) viewFiles() string {
	var b strings.Builder

	title := fmt.Sprintf("Files (%d selected)", len(m.sync.Selected()))
	if m.focus == focusFiles {
		b.WriteString(subtitleStyle.Render(title))
	} else {
		b.WriteString(dimStyle.Render(title))
	}
	b.WriteString("\n\n")

	if len(m.files) == 0 {
		b.WriteString(dimStyle.Render("  (no files)"))
		b.WriteString("\n")
	}

	start, end := m.fileWindow()
	for i := start; i < end; i++ {
		f := m.files[i]
		check := "[ ]"
		if m.selected[f] {
			check = "[×]"
		}
		line := fmt.Sprintf("%s %s", check, filepath.Base(f))
		if i == m.cursor && m.focus == focusFiles {
			b.WriteString(cursorStyle.Render("› " + line))
		} else {
			b.WriteString("  " + line)
		}
		b.WriteString("\n")
	}

	return b.String()
}

// fileWindow returns the slice of the file list that fits the terminal.
func (m Model) fileWindow() (int, int) {
	rows := m.height - 10
	if rows <= 0 || len(m.files) <= rows {
		return 0, len(m.files)
	}
	start := max(m.cursor-rows/2, 0)
	end := min(start+rows, len(m.files))
	return end - rows, end
}

func (m Model) viewFields() string {
	var b strings.Builder

	if m.focus == focusFields {
		b.WriteString(subtitleStyle.Render("Tags"))
	} else {
		b.WriteString(dimStyle.Render("Tags"))
	}
	b.WriteString("\n\n")

	if len(m.sync.Selected()) == 0 {
		b.WriteString(dimStyle.Render("Select one or more files to edit their tags."))
		b.WriteString("\n")
		return b.String()
	}

	for i, row := range m.fields {
		write := "[ ]"
		if row.write {
			write = "[×]"
		}
		label := fmt.Sprintf("%-*s", labelWidth, row.desc.Label)
		if i == m.fieldCursor && m.focus == focusFields {
			label = cursorStyle.Render(label)
		}

		var value string
		switch {
		case row.desc.Toggle && row.conflict:
			value = conflictStyle.Render(selection.MultipleValuesText)
		case row.desc.Toggle && row.checked:
			value = "yes"
		case row.desc.Toggle:
			value = "no"
		default:
			value = row.input.View()
		}

		b.WriteString(fmt.Sprintf("%s %s %s\n", write, label, value))
	}

	return b.String()
}

func (m Model) viewStatus() string {
	if m.status == "" {
		return ""
	}

	var style lipgloss.Style
	prefix := "›"
	switch m.statusLevel {
	case LevelError:
		style = errorStyle
		prefix = "✗"
	case LevelWarning:
		style = warningStyle
		prefix = "!"
	case LevelSuccess:
		style = successStyle
		prefix = "✓"
	default:
		style = infoStyle
	}
	return style.Render(prefix+" "+m.status) + "\n"
}

func (m Model) viewArtQuery() string {
	var b strings.Builder

	b.WriteString(subtitleStyle.Render("Search album art:"))
	b.WriteString("\n\n")
	b.WriteString(m.query.View())
	b.WriteString("\n\n")
	b.WriteString(dimStyle.Render(fmt.Sprintf("Applies to %d selected file(s)", len(m.sync.Selected()))))
	b.WriteString("\n")

	return b.String()
}

func (m Model) viewArtResults() string {
	var b strings.Builder

	b.WriteString(successStyle.Render(fmt.Sprintf("Found %d album(s):", len(m.candidates))))
	b.WriteString("\n")
	for i, c := range m.candidates {
		line := "♪ " + c.String()
		if i == m.candCursor {
			b.WriteString(cursorStyle.Render("› " + line))
		} else {
			b.WriteString("  " + line)
		}
		b.WriteString("\n")
	}

	return b.String()
}

func (m Model) getHelpText() string {
	switch m.state {
	case StateBrowse:
		if m.focus == focusFields {
			return "↑/↓: field • enter: tick field • space: toggle • tab: files • ctrl+s: save • ctrl+r: rename • ctrl+f: album art"
		}
		return "space: select • a: all • n: none • r: reload • tab: tags • ctrl+s: save • ctrl+r: rename • ctrl+f: album art • q: quit"
	case StateArtQuery:
		return "enter: search • esc: back"
	case StateArtBusy:
		return "esc: cancel"
	case StateArtResults:
		return "enter: embed • esc: back"
	case StateReport:
		return "any key: continue"
	}
	return ""
}
