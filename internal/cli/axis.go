package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/hdsbridge/pkg/hds"
	"github.com/mesh-intelligence/hdsbridge/pkg/types"
)

func newAxisCmd(a *app) *cobra.Command {
	var (
		axis  int
		comp  string
		limit int
	)
	cmd := &cobra.Command{
		Use:   "axis <container> [path]",
		Short: "Print an axis component of an array object",
		Long: "Print CENTRE, WIDTH or VARIANCE values of one axis, with the\n" +
			"storage form for CENTRE and WIDTH, or the LABEL or UNITS text.\n" +
			"Axes are zero-based in caller order; CENTRE and WIDTH default\n" +
			"to pixel centres and unit widths.",
		Example: "  hds axis obs IMG\n  hds axis -a 1 -c UNITS obs IMG",
		Args:    cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.withSession(func(s *hds.Session) error {
				obj, err := openObject(s, args[0], optionalArg(args, 1), types.ModeRead)
				if err != nil {
					return err
				}
				out := cmd.OutOrStdout()
				name := strings.ToUpper(comp)
				if name == "DATA" {
					name = hds.AxisCentre
				}

				switch name {
				case hds.AxisLabel, hds.AxisUnits:
					v, ok, err := obj.AxisCget(name, axis)
					if err != nil {
						return err
					}
					if !ok {
						fmt.Fprintf(out, "%s is undefined\n", name)
						return nil
					}
					fmt.Fprintln(out, v)
					return nil
				}

				form := ""
				if name != hds.AxisVariance {
					if form, err = obj.AxisForm(name, axis); err != nil {
						return err
					}
				}
				buf, err := obj.AxisRead(name, axis)
				if err != nil {
					return err
				}
				if a.flags.jsonMode {
					info := map[string]any{"component": name, "axis": axis, "defined": buf != nil}
					if form != "" {
						info["form"] = form
					}
					if buf != nil {
						info["type"] = buf.Type.String()
						info["values"] = jsonValues(buf)
					}
					return writeJSON(out, info)
				}
				if buf == nil {
					fmt.Fprintf(out, "%s is undefined\n", name)
					return nil
				}
				header := fmt.Sprintf("%s <%s> %s", name, buf.Type, formatShape(buf.Shape))
				if form != "" {
					header += " " + form
				}
				fmt.Fprintln(out, header)
				fmt.Fprintln(out, joinValues(buf, limit))
				return nil
			})
		},
	}
	cmd.Flags().IntVarP(&axis, "axis", "a", 0, "zero-based caller-order axis")
	cmd.Flags().StringVarP(&comp, "component", "c", hds.AxisCentre, "CENTRE, WIDTH, VARIANCE, LABEL or UNITS")
	cmd.Flags().IntVar(&limit, "limit", 0, "print at most this many values (0 prints all)")
	return cmd
}
