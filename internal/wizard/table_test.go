package wizard

import (
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func press(t *testing.T, m typeTable, keys ...tea.KeyMsg) typeTable {
	t.Helper()
	for _, k := range keys {
		next, _ := m.Update(k)
		var ok bool
		m, ok = next.(typeTable)
		require.True(t, ok)
	}
	return m
}

var (
	keyRight = tea.KeyMsg{Type: tea.KeyRight}
	keyLeft  = tea.KeyMsg{Type: tea.KeyLeft}
	keyDown  = tea.KeyMsg{Type: tea.KeyDown}
	keyUp    = tea.KeyMsg{Type: tea.KeyUp}
	keyEnter = tea.KeyMsg{Type: tea.KeyEnter}
	keyEsc   = tea.KeyMsg{Type: tea.KeyEsc}
)

func TestTypeTable_Selection(t *testing.T) {
	m := newTypeTable("Choose", []ModelRow{{Label: "Post"}, {Label: "Nav"}, {Label: "Author"}})
	assert.Equal(t, []ModelType{TypeSkip, TypeSkip, TypeSkip}, m.types(), "rows start skipped")

	// skip -> page on row 0, skip -> page -> data on row 1
	m = press(t, m, keyRight, keyDown, keyRight, keyRight)
	// row 2: skip -> data via left
	m = press(t, m, keyDown, keyLeft)
	m = press(t, m, keyEnter)

	assert.True(t, m.done)
	assert.False(t, m.aborted)
	assert.Equal(t, []ModelType{TypePage, TypeData, TypeData}, m.types())
	assert.Empty(t, m.View())
}

func TestTypeTable_CursorBounds(t *testing.T) {
	m := newTypeTable("Choose", []ModelRow{{Label: "A"}, {Label: "B"}})
	m = press(t, m, keyUp)
	assert.Equal(t, 0, m.cursor)
	m = press(t, m, keyDown, keyDown, keyDown)
	assert.Equal(t, 1, m.cursor)
}

func TestTypeTable_Abort(t *testing.T) {
	m := newTypeTable("Choose", []ModelRow{{Label: "A"}})
	m = press(t, m, keyEsc)
	assert.True(t, m.aborted)
}

func TestTypeTable_View(t *testing.T) {
	m := newTypeTable("Choose a type", []ModelRow{{Label: "Post", Detail: "└cms"}})
	view := m.View()
	assert.Contains(t, view, "Choose a type")
	assert.Contains(t, view, "Page  Data  Skip")
	assert.Contains(t, view, "Post")
	assert.Contains(t, view, "enter confirm")
}
