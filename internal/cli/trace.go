package cli

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/mesh-intelligence/hdsbridge/pkg/hds"
	"github.com/mesh-intelligence/hdsbridge/pkg/types"
)

const traceNameWidth = 16

// palette renders the parts of a trace line.
type palette struct {
	name, typ, value, note func(string) string
}

func render(st lipgloss.Style) func(string) string {
	return func(s string) string { return st.Render(s) }
}

// newPalette styles output only when w is a terminal.
func newPalette(w io.Writer) palette {
	if f, ok := w.(*os.File); ok && term.IsTerminal(int(f.Fd())) {
		return palette{
			name:  render(lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#98FB98"))),
			typ:   render(lipgloss.NewStyle().Foreground(lipgloss.Color("#87CEEB"))),
			value: render(lipgloss.NewStyle()),
			note:  render(lipgloss.NewStyle().Foreground(lipgloss.Color("#666666"))),
		}
	}
	plain := func(s string) string { return s }
	return palette{name: plain, typ: plain, value: plain, note: plain}
}

// tracer prints an object tree, one line per object.
type tracer struct {
	s      *hds.Session
	w      io.Writer
	p      palette
	depth  int
	values int
}

func newTraceCmd(a *app) *cobra.Command {
	var depth, values int
	cmd := &cobra.Command{
		Use:   "trace <container> [path]",
		Short: "List an object and everything below it",
		Long: "Print each object's name, type, shape and leading values. Cells of\n" +
			"structure arrays are shown with zero-based caller-order indices.",
		Args: cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			if !cmd.Flags().Changed("depth") {
				depth = a.config.GetInt(cfgKeyTraceDepth)
			}
			if !cmd.Flags().Changed("values") {
				values = a.config.GetInt(cfgKeyTraceValues)
			}
			return a.withSession(func(s *hds.Session) error {
				loc, err := openObject(s, args[0], optionalArg(args, 1), types.ModeRead)
				if err != nil {
					return err
				}
				label, err := loc.Name()
				if err != nil {
					return err
				}
				out := cmd.OutOrStdout()
				t := &tracer{s: s, w: out, p: newPalette(out), depth: depth, values: values}
				return t.trace(loc, label, 0)
			})
		},
	}
	cmd.Flags().IntVar(&depth, "depth", defaultTraceDepth, "levels of structure to descend")
	cmd.Flags().IntVar(&values, "values", defaultTraceValues, "values to show per primitive (0 shows all)")
	return cmd
}

func (t *tracer) line(level int, label, typ, rest string) {
	pad := traceNameWidth - len(label)
	if pad < 1 {
		pad = 1
	}
	fmt.Fprintf(t.w, "%s%s%s%s  %s\n",
		strings.Repeat("  ", level), t.p.name(label), strings.Repeat(" ", pad), t.p.typ(typ), rest)
}

// trace prints loc and, within the depth limit, its contents. Each
// structure level runs in its own scope so child locators are released on
// the way back up.
func (t *tracer) trace(loc *hds.Locator, label string, level int) error {
	typ, err := loc.Type()
	if err != nil {
		return err
	}
	shape, err := loc.Shape()
	if err != nil {
		return err
	}
	struc, err := loc.Struc()
	if err != nil {
		return err
	}
	typeLabel := "<" + typ + ">"
	if len(shape) > 0 {
		typeLabel += formatShape(shape)
	}

	if !struc {
		return t.primitive(loc, label, typeLabel, level)
	}
	if level >= t.depth {
		t.line(level, label, typeLabel, t.p.note("{...}"))
		return nil
	}

	t.s.Begin()
	defer t.s.End()

	if len(shape) > 0 {
		t.line(level, label, typeLabel, t.p.note("{array of structures}"))
		return forEachIndex(shape, func(idx []int) error {
			cell, err := loc.Cell(idx...)
			if err != nil {
				return err
			}
			return t.components(cell, label+cellLabel(idx), level+1)
		})
	}
	t.line(level, label, typeLabel, t.p.note("{structure}"))
	return t.components(loc, "", level+1)
}

// components traces every component of a scalar structure. A non-empty
// header is printed first, for structure array cells.
func (t *tracer) components(loc *hds.Locator, header string, level int) error {
	if header != "" {
		t.line(level-1, header, "", t.p.note("{cell}"))
	}
	n, err := loc.Ncomp()
	if err != nil {
		return err
	}
	for i := 0; i < n; i++ {
		child, err := loc.Index(i)
		if err != nil {
			return err
		}
		name, err := child.Name()
		if err != nil {
			return err
		}
		if err := t.trace(child, name, level); err != nil {
			return err
		}
	}
	return nil
}

func (t *tracer) primitive(loc *hds.Locator, label, typeLabel string, level int) error {
	defined, err := loc.State()
	if err != nil {
		return err
	}
	if !defined {
		t.line(level, label, typeLabel, t.p.note("<undefined>"))
		return nil
	}
	buf, err := loc.Get()
	if err != nil {
		return err
	}
	t.line(level, label, typeLabel, t.p.value(joinValues(buf, t.values)))
	return nil
}

// forEachIndex calls fn with every caller-order index of shape, last
// index fastest.
func forEachIndex(shape types.Shape, fn func(idx []int) error) error {
	idx := make([]int, len(shape))
	for n := shape.Size(); n > 0; n-- {
		if err := fn(append([]int(nil), idx...)); err != nil {
			return err
		}
		for d := len(idx) - 1; d >= 0; d-- {
			idx[d]++
			if idx[d] < shape[d] {
				break
			}
			idx[d] = 0
		}
	}
	return nil
}
