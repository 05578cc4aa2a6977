package cli

import (
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mesh-intelligence/hdsbridge/pkg/hds"
	"github.com/mesh-intelligence/hdsbridge/pkg/sqlite"
	"github.com/mesh-intelligence/hdsbridge/pkg/types"
)

func newTestBrowser(t *testing.T) (*browser, *hds.Session) {
	t.Helper()
	env := newTestEnv(t)
	env.must(t, "new", "--create", "obs", "N", "_INTEGER")
	env.must(t, "put", "obs", "N", "42")
	env.must(t, "new", "obs", "ROWS", "ROW", "2")
	env.must(t, "new", "obs", "ROWS[1].X", "_DOUBLE")
	env.must(t, "put", "obs", "ROWS[1].X", "2.5")

	eng, err := sqlite.NewEngine(types.Config{Engine: types.EngineSQLite, Dir: env.dataDir})
	require.NoError(t, err)
	s := hds.NewSession(eng)
	t.Cleanup(func() { s.Close() })

	root, err := s.Open("obs", types.ModeRead, types.DispOld)
	require.NoError(t, err)
	b, err := newBrowser(s, root, 4)
	require.NoError(t, err)
	return b, s
}

func press(b *browser, keys ...tea.KeyMsg) tea.Cmd {
	var cmd tea.Cmd
	for _, k := range keys {
		_, cmd = b.Update(k)
	}
	return cmd
}

var (
	keyDown  = tea.KeyMsg{Type: tea.KeyDown}
	keyUp    = tea.KeyMsg{Type: tea.KeyUp}
	keyEnter = tea.KeyMsg{Type: tea.KeyEnter}
	keyBack  = tea.KeyMsg{Type: tea.KeyBackspace}
	keyEsc   = tea.KeyMsg{Type: tea.KeyEsc}
)

func keyRunes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func TestBrowserListsRoot(t *testing.T) {
	b, _ := newTestBrowser(t)
	lv := b.current()
	assert.Equal(t, "OBS", lv.label)
	require.Len(t, lv.entries, 2)
	assert.Equal(t, "N", lv.entries[0].label)
	assert.Equal(t, "42", lv.entries[0].summary)
	assert.Equal(t, "ROWS", lv.entries[1].label)
	assert.Equal(t, "{array of structures}", lv.entries[1].summary)

	view := b.View()
	assert.Contains(t, view, "hds browse")
	assert.Contains(t, view, "ROWS")
}

func TestBrowserNavigatesScopes(t *testing.T) {
	b, s := newTestBrowser(t)
	base := s.Depth()

	press(b, keyEnter)
	assert.Equal(t, "OBS", b.current().label, "primitives do not open")
	assert.Equal(t, base, s.Depth())

	press(b, keyDown, keyEnter)
	assert.Equal(t, "OBS.ROWS", b.current().label)
	assert.Equal(t, base+1, s.Depth())
	require.Len(t, b.current().entries, 2)
	assert.Equal(t, []int{1}, b.current().entries[1].cell)

	press(b, keyDown, keyEnter)
	lv := b.current()
	assert.Equal(t, "OBS.ROWS[1]", lv.label)
	assert.Equal(t, base+2, s.Depth())
	require.Len(t, lv.entries, 1)
	assert.Equal(t, "X", lv.entries[0].label)
	assert.Equal(t, "2.5", lv.entries[0].summary)

	press(b, keyBack, keyBack)
	assert.Equal(t, "OBS", b.current().label)
	assert.Equal(t, base, s.Depth())

	press(b, keyBack)
	assert.Equal(t, base, s.Depth(), "the root level stays open")
	assert.NoError(t, b.err)
}

func TestBrowserCursorBounds(t *testing.T) {
	b, _ := newTestBrowser(t)
	press(b, keyUp)
	assert.Equal(t, 0, b.current().cursor)
	press(b, keyDown, keyDown, keyDown)
	assert.Equal(t, 1, b.current().cursor)
}

func TestBrowserFilter(t *testing.T) {
	b, s := newTestBrowser(t)
	base := s.Depth()

	press(b, keyRunes("/"))
	assert.True(t, b.filtering)
	press(b, keyRunes("r"), keyRunes("o"))
	assert.Equal(t, []int{1}, b.visible())

	press(b, keyEnter)
	assert.False(t, b.filtering)
	assert.Equal(t, []int{1}, b.visible(), "enter keeps the filter")

	press(b, keyEnter)
	assert.Equal(t, "OBS.ROWS", b.current().label)
	assert.Equal(t, base+1, s.Depth())
	assert.Len(t, b.visible(), 2, "filter clears on descent")

	press(b, keyBack, keyRunes("/"), keyRunes("zz"))
	assert.Empty(t, b.visible())
	assert.Contains(t, b.View(), "(no components)")
	press(b, keyEsc)
	assert.False(t, b.filtering)
	assert.Len(t, b.visible(), 2)
}

func TestBrowserQuit(t *testing.T) {
	b, _ := newTestBrowser(t)
	cmd := press(b, keyRunes("q"))
	require.NotNil(t, cmd)
	assert.Equal(t, tea.QuitMsg{}, cmd())
}
