package console

import (
	"strings"

	"shipment-dashboard/internal/features/shipments/domain"
	"shipment-dashboard/internal/features/shipments/grid"
	"shipment-dashboard/internal/features/shipments/live"

	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

const maxColumnWidth = 28

// Setter receives keystrokes; the live controller implements it.
type Setter interface {
	Set(field domain.Field, value string)
}

// SnapshotMsg carries a controller snapshot into the program.
type SnapshotMsg live.Snapshot

// StartMsg is returned once the controller has been started.
type StartMsg struct{}

// filterInput is one labeled text field.
type filterInput struct {
	field domain.Field
	label string
	input textinput.Model
}

// Model is the Bubble Tea model of the shipment console.
type Model struct {
	inputs    []filterInput
	focus     int
	table     table.Model
	setter    Setter
	formatter *grid.Formatter
	start     tea.Cmd

	snap    live.Snapshot
	grid    grid.Grid
	version uint64

	width  int
	styles Styles
}

// NewModel creates the console seeded with the initial filter values.
// start, when non-nil, runs as the program's first command.
func NewModel(setter Setter, formatter *grid.Formatter, initial domain.Filters, start tea.Cmd) Model {
	specs := []struct {
		field       domain.Field
		label       string
		placeholder string
	}{
		{domain.FieldExternalID, "#Pedido", "Type at least 4 characters"},
		{domain.FieldInvoiceCode, "Invoice Code", "Type at least 4 characters"},
		{domain.FieldStatus, "Status", "Filter by status"},
	}

	inputs := make([]filterInput, 0, len(specs))
	for _, s := range specs {
		ti := textinput.New()
		ti.Placeholder = s.placeholder
		ti.CharLimit = 64
		ti.Width = 28
		ti.SetValue(initial.Get(s.field))
		inputs = append(inputs, filterInput{field: s.field, label: s.label, input: ti})
	}
	inputs[0].input.Focus()

	t := table.New(table.WithFocused(false), table.WithHeight(12), table.WithWidth(120))

	return Model{
		inputs:    inputs,
		table:     t,
		setter:    setter,
		formatter: formatter,
		start:     start,
		grid:      grid.Build(nil, formatter),
		styles:    DefaultStyles(),
	}
}

// Init starts the cursor blink and the controller.
func (m Model) Init() tea.Cmd {
	if m.start == nil {
		return textinput.Blink
	}
	return tea.Batch(textinput.Blink, m.start)
}

// Update handles messages.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case SnapshotMsg:
		if msg.Version <= m.version {
			return m, nil
		}
		m.apply(live.Snapshot(msg))
		return m, nil

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.table.SetWidth(msg.Width)
		if h := msg.Height - 12; h > 3 {
			m.table.SetHeight(h)
		}
		return m, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "esc":
			return m, tea.Quit
		case "tab":
			m.setFocus((m.focus + 1) % len(m.inputs))
			return m, nil
		case "shift+tab":
			m.setFocus((m.focus + len(m.inputs) - 1) % len(m.inputs))
			return m, nil
		case "up", "down", "pgup", "pgdown":
			var cmd tea.Cmd
			m.table, cmd = m.table.Update(msg)
			return m, cmd
		}
	}

	current := &m.inputs[m.focus]
	before := current.input.Value()
	var cmd tea.Cmd
	current.input, cmd = current.input.Update(msg)
	if after := current.input.Value(); after != before && m.setter != nil {
		m.setter.Set(current.field, after)
	}
	return m, cmd
}

func (m *Model) setFocus(i int) {
	m.inputs[m.focus].input.Blur()
	m.focus = i
	m.inputs[m.focus].input.Focus()
}

// apply adopts a newer snapshot and rebuilds the table.
func (m *Model) apply(s live.Snapshot) {
	m.snap = s
	m.version = s.Version
	m.grid = grid.Build(s.Records, m.formatter)

	widths := make([]int, len(m.grid.Columns))
	for i, c := range m.grid.Columns {
		widths[i] = lipgloss.Width(c.Label)
	}
	rows := make([]table.Row, 0, len(m.grid.Rows))
	for _, r := range m.grid.Rows {
		for i, cell := range r.Cells {
			if w := lipgloss.Width(cell); w > widths[i] {
				widths[i] = w
			}
		}
		rows = append(rows, table.Row(r.Cells))
	}

	cols := make([]table.Column, len(m.grid.Columns))
	for i, c := range m.grid.Columns {
		cols[i] = table.Column{Title: c.Label, Width: min(widths[i], maxColumnWidth)}
	}

	// rows must never be wider than the columns
	m.table.SetRows(nil)
	m.table.SetColumns(cols)
	m.table.SetRows(rows)
}

// Version returns the version of the snapshot on screen.
func (m Model) Version() uint64 { return m.version }

// Grid returns the grid on screen.
func (m Model) Grid() grid.Grid { return m.grid }

// View renders the console.
func (m Model) View() string {
	var b strings.Builder

	b.WriteString(m.styles.Title.Render("Pedidos e fretes"))
	b.WriteString("\n")

	for i, in := range m.inputs {
		label := m.styles.Label.Render(in.label)
		if i == m.focus {
			label = m.styles.Focused.Render(in.label)
		}
		b.WriteString(label + "\n" + in.input.View() + "\n")
	}

	if m.snap.Error != "" {
		b.WriteString(m.styles.Error.Render(m.snap.Error) + "\n")
	}
	b.WriteString("\n")

	if m.grid.Empty {
		b.WriteString(m.styles.Muted.Render(m.grid.EmptyText) + "\n")
	} else {
		b.WriteString(m.table.View() + "\n")
	}

	status := m.snap.Location
	if m.snap.Loading {
		status += "  loading…"
	}
	b.WriteString(m.styles.Footer.Render(status + "\n" + "tab: next field · ↑/↓: rows · esc: quit"))
	return b.String()
}
