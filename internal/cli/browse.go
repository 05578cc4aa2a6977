package cli

import (
	"fmt"
	"os"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/mesh-intelligence/hdsbridge/pkg/hds"
	"github.com/mesh-intelligence/hdsbridge/pkg/types"
)

var (
	browseTitleStyle = lipgloss.NewStyle().
				Bold(true).
				Foreground(lipgloss.Color("#FAFAFA")).
				Background(lipgloss.Color("#7D56F4")).
				Padding(0, 1)

	browseSelectedStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("#FAFAFA")).
				Background(lipgloss.Color("#7D56F4"))

	browseTypeStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#87CEEB"))

	browseErrorStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("#FF6B6B"))

	browseHelpStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#666666"))
)

// browseEntry is one row of a structure listing: a component, or a cell
// of a structure array.
type browseEntry struct {
	label   string
	name    string
	cell    []int
	typ     string
	shape   types.Shape
	struc   bool
	summary string
}

// browseLevel is one structure on the navigation stack. Each level owns a
// session scope that is ended when the level is left.
type browseLevel struct {
	loc     *hds.Locator
	label   string
	entries []browseEntry
	cursor  int
}

type browser struct {
	s         *hds.Session
	levels    []*browseLevel
	filter    textinput.Model
	filtering bool
	values    int
	err       error
}

func newBrowseCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "browse <container>",
		Short: "Browse a container interactively",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if !term.IsTerminal(int(os.Stdin.Fd())) {
				return types.E("browse", types.KindInvalidOperation, "browse needs an interactive terminal")
			}
			return a.withSession(func(s *hds.Session) error {
				root, err := s.Open(args[0], types.ModeRead, types.DispOld)
				if err != nil {
					return err
				}
				m, err := newBrowser(s, root, a.config.GetInt(cfgKeyTraceValues))
				if err != nil {
					return err
				}
				_, err = tea.NewProgram(m, tea.WithAltScreen()).Run()
				return err
			})
		},
	}
}

func newBrowser(s *hds.Session, root *hds.Locator, values int) (*browser, error) {
	ti := textinput.New()
	ti.Prompt = "/"
	ti.Placeholder = "component name"
	ti.Width = 30

	b := &browser{s: s, filter: ti, values: values}
	label, err := root.Name()
	if err != nil {
		return nil, err
	}
	if err := b.push(root, label); err != nil {
		return nil, err
	}
	return b, nil
}

// push lists loc in a new scope and makes it the current level.
func (b *browser) push(loc *hds.Locator, label string) error {
	entries, err := browseEntries(loc, b.values)
	if err != nil {
		return err
	}
	b.levels = append(b.levels, &browseLevel{loc: loc, label: label, entries: entries})
	return nil
}

func (b *browser) current() *browseLevel {
	return b.levels[len(b.levels)-1]
}

// browseEntries lists the components of a scalar structure, or the cells
// of a structure array.
func browseEntries(loc *hds.Locator, values int) ([]browseEntry, error) {
	shape, err := loc.Shape()
	if err != nil {
		return nil, err
	}
	var entries []browseEntry
	if len(shape) > 0 {
		typ, err := loc.Type()
		if err != nil {
			return nil, err
		}
		err = forEachIndex(shape, func(idx []int) error {
			entries = append(entries, browseEntry{label: cellLabel(idx), cell: idx, typ: typ, struc: true})
			return nil
		})
		return entries, err
	}

	n, err := loc.Ncomp()
	if err != nil {
		return nil, err
	}
	for i := 0; i < n; i++ {
		child, err := loc.Index(i)
		if err != nil {
			return nil, err
		}
		e, err := browseEntryOf(child, values)
		child.Annul()
		if err != nil {
			return nil, err
		}
		entries = append(entries, e)
	}
	return entries, nil
}

func browseEntryOf(loc *hds.Locator, values int) (browseEntry, error) {
	info, err := describe(loc)
	if err != nil {
		return browseEntry{}, err
	}
	e := browseEntry{label: info.Name, name: info.Name, typ: info.Type, shape: info.Shape, struc: info.Struct}
	switch {
	case e.struc:
		e.summary = "{structure}"
		if len(e.shape) > 0 {
			e.summary = "{array of structures}"
		}
	case !info.Defined:
		e.summary = "<undefined>"
	default:
		buf, err := loc.Get()
		if err != nil {
			return browseEntry{}, err
		}
		e.summary = joinValues(buf, values)
	}
	return e, nil
}

// visible returns the indices of entries matching the filter.
func (b *browser) visible() []int {
	lv := b.current()
	f := strings.ToUpper(strings.TrimSpace(b.filter.Value()))
	var idx []int
	for i, e := range lv.entries {
		if f == "" || strings.Contains(e.label, f) {
			idx = append(idx, i)
		}
	}
	return idx
}

func (b *browser) selected() (browseEntry, bool) {
	vis := b.visible()
	lv := b.current()
	if lv.cursor < 0 || lv.cursor >= len(vis) {
		return browseEntry{}, false
	}
	return lv.entries[vis[lv.cursor]], true
}

// descend opens the selected structure or cell in a new scope.
func (b *browser) descend() {
	e, ok := b.selected()
	if !ok || !e.struc {
		return
	}
	lv := b.current()
	b.s.Begin()
	var (
		child *hds.Locator
		err   error
	)
	if e.cell != nil {
		child, err = lv.loc.Cell(e.cell...)
	} else {
		child, err = lv.loc.Find(e.name)
	}
	label := lv.label + "." + e.label
	if e.cell != nil {
		label = lv.label + e.label
	}
	if err == nil {
		err = b.push(child, label)
	}
	if err != nil {
		b.s.End()
		b.err = err
		return
	}
	b.err = nil
	b.filter.SetValue("")
}

// ascend returns to the parent structure, ending the level's scope.
func (b *browser) ascend() {
	if len(b.levels) < 2 {
		return
	}
	b.levels = b.levels[:len(b.levels)-1]
	if err := b.s.End(); err != nil {
		b.err = err
	}
	b.filter.SetValue("")
}

func (b *browser) Init() tea.Cmd {
	return nil
}

func (b *browser) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	key, ok := msg.(tea.KeyMsg)
	if !ok {
		return b, nil
	}
	if b.filtering {
		switch key.String() {
		case "enter":
			b.filtering = false
			b.filter.Blur()
			return b, nil
		case "esc":
			b.filtering = false
			b.filter.Blur()
			b.filter.SetValue("")
			b.current().cursor = 0
			return b, nil
		}
		var cmd tea.Cmd
		b.filter, cmd = b.filter.Update(msg)
		b.current().cursor = 0
		return b, cmd
	}

	lv := b.current()
	switch key.String() {
	case "ctrl+c", "q":
		return b, tea.Quit
	case "up", "k":
		if lv.cursor > 0 {
			lv.cursor--
		}
	case "down", "j":
		if lv.cursor < len(b.visible())-1 {
			lv.cursor++
		}
	case "enter", "right", "l":
		b.descend()
	case "backspace", "left", "h", "esc":
		b.ascend()
	case "/":
		b.filtering = true
		return b, b.filter.Focus()
	}
	return b, nil
}

func (b *browser) View() string {
	var sb strings.Builder
	lv := b.current()

	sb.WriteString(browseTitleStyle.Render("hds browse"))
	sb.WriteString(" ")
	sb.WriteString(lv.label)
	sb.WriteString("\n\n")

	vis := b.visible()
	if len(vis) == 0 {
		sb.WriteString(browseHelpStyle.Render("  (no components)"))
		sb.WriteString("\n")
	}
	for row, i := range vis {
		e := lv.entries[i]
		typ := "<" + e.typ + ">"
		if len(e.shape) > 0 {
			typ += formatShape(e.shape)
		}
		text := fmt.Sprintf("%-*s %s %s", traceNameWidth, e.label, browseTypeStyle.Render(typ), e.summary)
		if row == lv.cursor {
			sb.WriteString(browseSelectedStyle.Render("> " + text))
		} else {
			sb.WriteString("  " + text)
		}
		sb.WriteString("\n")
	}

	if b.filtering || b.filter.Value() != "" {
		sb.WriteString("\n")
		sb.WriteString(b.filter.View())
		sb.WriteString("\n")
	}
	if b.err != nil {
		sb.WriteString("\n")
		sb.WriteString(browseErrorStyle.Render("Error: " + b.err.Error()))
		sb.WriteString("\n")
	}
	sb.WriteString("\n")
	sb.WriteString(browseHelpStyle.Render("↑/↓ select • enter open • backspace up • / filter • q quit"))
	return sb.String()
}
