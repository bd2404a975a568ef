package wizard

import (
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

var typeColumns = []ModelType{TypePage, TypeData, TypeSkip}

type tableKeyMap struct {
	Up     key.Binding
	Down   key.Binding
	Left   key.Binding
	Right  key.Binding
	Submit key.Binding
	Quit   key.Binding
}

var tableKeys = tableKeyMap{
	Up:     key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/k", "up")),
	Down:   key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓/j", "down")),
	Left:   key.NewBinding(key.WithKeys("left", "h"), key.WithHelp("←/h", "previous type")),
	Right:  key.NewBinding(key.WithKeys("right", "l", " "), key.WithHelp("→/l", "next type")),
	Submit: key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "confirm")),
	Quit:   key.NewBinding(key.WithKeys("ctrl+c", "esc"), key.WithHelp("esc", "abort")),
}

var (
	cursorStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("12")).Bold(true)
	selectedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("10")).Bold(true)
	mutedStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
)

// typeTable is the bubbletea model for the model-type question.
// Every row starts as Skip.
type typeTable struct {
	message  string
	rows     []ModelRow
	choice   []int
	cursor   int
	done     bool
	aborted  bool
	pageSize int
}

func newTypeTable(message string, rows []ModelRow) typeTable {
	choice := make([]int, len(rows))
	for i := range choice {
		choice[i] = len(typeColumns) - 1
	}
	return typeTable{message: message, rows: rows, choice: choice, pageSize: 7}
}

func (m typeTable) Init() tea.Cmd {
	return nil
}

func (m typeTable) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}

	switch {
	case key.Matches(keyMsg, tableKeys.Quit):
		m.aborted = true
		return m, tea.Quit
	case key.Matches(keyMsg, tableKeys.Submit):
		m.done = true
		return m, tea.Quit
	case key.Matches(keyMsg, tableKeys.Up):
		if m.cursor > 0 {
			m.cursor--
		}
	case key.Matches(keyMsg, tableKeys.Down):
		if m.cursor < len(m.rows)-1 {
			m.cursor++
		}
	case key.Matches(keyMsg, tableKeys.Left):
		if len(m.rows) > 0 {
			m.choice = withChoice(m.choice, m.cursor, (m.choice[m.cursor]+len(typeColumns)-1)%len(typeColumns))
		}
	case key.Matches(keyMsg, tableKeys.Right):
		if len(m.rows) > 0 {
			m.choice = withChoice(m.choice, m.cursor, (m.choice[m.cursor]+1)%len(typeColumns))
		}
	}
	return m, nil
}

// withChoice copies choice so earlier model values stay unchanged.
func withChoice(choice []int, row, col int) []int {
	out := append([]int(nil), choice...)
	out[row] = col
	return out
}

func (m typeTable) View() string {
	if m.done || m.aborted {
		return ""
	}

	var b strings.Builder
	b.WriteString(m.message + "\n\n")
	b.WriteString(mutedStyle.Render("      Page  Data  Skip") + "\n")

	start := 0
	if m.cursor >= m.pageSize {
		start = m.cursor - m.pageSize + 1
	}
	end := min(start+m.pageSize, len(m.rows))

	for i := start; i < end; i++ {
		prefix := "  "
		if i == m.cursor {
			prefix = cursorStyle.Render("> ")
		}
		b.WriteString(prefix)
		for col := range typeColumns {
			mark := "  ○   "
			if m.choice[i] == col {
				mark = selectedStyle.Render("  ●   ")
			}
			b.WriteString(mark)
		}
		b.WriteString(m.rows[i].Label + " " + mutedStyle.Render(m.rows[i].Detail) + "\n")
	}

	b.WriteString("\n" + mutedStyle.Render(helpLine()) + "\n")
	return b.String()
}

func helpLine() string {
	bindings := []key.Binding{tableKeys.Up, tableKeys.Down, tableKeys.Right, tableKeys.Submit, tableKeys.Quit}
	parts := make([]string, 0, len(bindings))
	for _, kb := range bindings {
		h := kb.Help()
		parts = append(parts, h.Key+" "+h.Desc)
	}
	return strings.Join(parts, " • ")
}

// types returns the chosen ModelType per row.
func (m typeTable) types() []ModelType {
	out := make([]ModelType, len(m.choice))
	for i, c := range m.choice {
		out[i] = typeColumns[c]
	}
	return out
}
