package styles

import (
	"strconv"

	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/lipgloss"

	"github.com/bnema/composer/internal/application/port"
)

// NewStyledTable creates a themed table model.
func NewStyledTable(theme *Theme, columns []table.Column, rows []table.Row, width, height int) table.Model {
	t := table.New(
		table.WithColumns(columns),
		table.WithRows(rows),
		table.WithFocused(false),
		table.WithHeight(height),
		table.WithWidth(width),
	)

	s := table.DefaultStyles()
	s.Header = s.Header.
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(theme.Border).
		BorderBottom(true).
		Foreground(theme.Accent).
		Bold(true)
	s.Selected = s.Cell.
		Foreground(theme.Text)
	s.Cell = s.Cell.
		Foreground(theme.Text)

	t.SetStyles(s)
	return t
}

// JournalTableColumns returns columns for the journal listing.
func JournalTableColumns() []table.Column {
	return []table.Column{
		{Title: "#", Width: 6},
		{Title: "Type", Width: 20},
		{Title: "Move", Width: 36},
		{Title: "Node", Width: 40},
		{Title: "Recorded", Width: 10},
	}
}

// JournalRow converts a journal entry to a table row.
func JournalRow(e port.JournalEntry) table.Row {
	return table.Row{
		strconv.FormatInt(e.ID, 10),
		string(e.Type),
		e.MoveID,
		e.MagicpathID,
		RelativeTime(e.RecordedAt),
	}
}

// RenderJournal renders entries as a static table.
func RenderJournal(theme *Theme, entries []port.JournalEntry) string {
	if len(entries) == 0 {
		return theme.Subtle.Render("No host messages recorded")
	}
	rows := make([]table.Row, 0, len(entries))
	for _, e := range entries {
		rows = append(rows, JournalRow(e))
	}
	width := 0
	for _, c := range JournalTableColumns() {
		width += c.Width + 2
	}
	t := NewStyledTable(theme, JournalTableColumns(), rows, width, len(rows)+1)
	return t.View()
}
