package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/hdsbridge/pkg/hds"
	"github.com/mesh-intelligence/hdsbridge/pkg/types"
)

func newNewObjCmd(a *app) *cobra.Command {
	var (
		create bool
		title  string
	)
	cmd := &cobra.Command{
		Use:   "newobj <container> <path> <type> <bounds...>",
		Short: "Create an array object with DATA and pixel bounds",
		Long: "Create an array object. Each bound is lo:hi or n (meaning 1:n), in\n" +
			"caller order; put -- before negative bounds. An empty path (\".\")\n" +
			"turns the container root into the object.",
		Example: "  hds newobj obs IMG _REAL 1:512 1:256\n  hds newobj obs . _DOUBLE -- -5:5",
		Args:    cobra.MinimumNArgs(4),
		RunE: func(cmd *cobra.Command, args []string) error {
			tag, err := types.ParseTypeTag(args[2])
			if err != nil {
				return err
			}
			lower, upper, err := parseBounds(args[3:])
			if err != nil {
				return err
			}
			var parent []pathElem
			var name string
			if p := strings.TrimSpace(args[1]); p != "" && p != "." {
				if parent, name, err = splitLast(p); err != nil {
					return err
				}
			}

			return a.withSession(func(s *hds.Session) error {
				disp := types.DispOld
				if create {
					disp = types.DispUnknown
				}
				root, err := s.Open(args[0], types.ModeUpdate, disp)
				if err != nil {
					return err
				}
				loc, err := walk(root, parent)
				if err != nil {
					return err
				}
				obj, err := loc.NewObject(name, tag, lower, upper)
				if err != nil {
					return err
				}
				if title != "" {
					return obj.Cput(hds.CompTitle, title)
				}
				return nil
			})
		},
	}
	cmd.Flags().BoolVar(&create, "create", false, "create the container if it does not exist")
	cmd.Flags().StringVar(&title, "title", "", "set the object's TITLE")
	return cmd
}

func newDimCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "dim <container> [path]",
		Short: "Print the dimensions of an array object",
		Args:  cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.withSession(func(s *hds.Session) error {
				obj, err := openObject(s, args[0], optionalArg(args, 1), types.ModeRead)
				if err != nil {
					return err
				}
				dims, err := obj.Dim()
				if err != nil {
					return err
				}
				out := cmd.OutOrStdout()
				if a.flags.jsonMode {
					return writeJSON(out, map[string]any{"dims": append([]int{}, dims...)})
				}
				fmt.Fprintln(out, formatShape(dims))
				return nil
			})
		},
	}
}

func newBoundCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "bound <container> [path]",
		Short: "Print the pixel bounds of an array object",
		Args:  cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.withSession(func(s *hds.Session) error {
				obj, err := openObject(s, args[0], optionalArg(args, 1), types.ModeRead)
				if err != nil {
					return err
				}
				lower, upper, err := obj.Bound()
				if err != nil {
					return err
				}
				out := cmd.OutOrStdout()
				if a.flags.jsonMode {
					return writeJSON(out, map[string]any{"lower": lower, "upper": upper})
				}
				for i := range lower {
					fmt.Fprintf(out, "%d:%d\n", lower[i], upper[i])
				}
				return nil
			})
		},
	}
}

func newReadCmd(a *app) *cobra.Command {
	var (
		comp  string
		limit int
	)
	cmd := &cobra.Command{
		Use:   "read <container> [path]",
		Short: "Print an array component of an object",
		Long: "Read DATA, QUALITY, VARIANCE or ERROR of an array object through a\n" +
			"mapped region. Character components TITLE, LABEL and UNITS are\n" +
			"printed as text.",
		Args: cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.withSession(func(s *hds.Session) error {
				obj, err := openObject(s, args[0], optionalArg(args, 1), types.ModeRead)
				if err != nil {
					return err
				}
				out := cmd.OutOrStdout()
				name := strings.ToUpper(comp)
				switch name {
				case hds.CompTitle, hds.CompLabel, hds.CompUnits:
					v, ok, err := obj.Cget(name)
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

				buf, err := obj.Read(types.Component(name))
				if err != nil {
					return err
				}
				if buf == nil {
					fmt.Fprintf(out, "%s is undefined\n", name)
					return nil
				}
				if a.flags.jsonMode {
					return writeJSON(out, map[string]any{
						"component": name,
						"type":      buf.Type.String(),
						"shape":     append([]int{}, buf.Shape...),
						"values":    jsonValues(buf),
					})
				}
				fmt.Fprintf(out, "%s <%s> %s\n", name, buf.Type, formatShape(buf.Shape))
				fmt.Fprintln(out, joinValues(buf, limit))
				return nil
			})
		},
	}
	cmd.Flags().StringVarP(&comp, "component", "c", string(types.CompData), "component to read")
	cmd.Flags().IntVar(&limit, "limit", 0, "print at most this many values (0 prints all)")
	return cmd
}

func newExtCmd(a *app) *cobra.Command {
	ext := &cobra.Command{
		Use:   "ext",
		Short: "Manage the extensions of an array object",
	}
	ext.AddCommand(newExtListCmd(a), newExtStatCmd(a), newExtNewCmd(a))
	return ext
}

func newExtListCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "list <container> [path]",
		Short: "List extension names in order",
		Args:  cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.withSession(func(s *hds.Session) error {
				obj, err := openObject(s, args[0], optionalArg(args, 1), types.ModeRead)
				if err != nil {
					return err
				}
				names, err := obj.Extensions()
				if err != nil {
					return err
				}
				out := cmd.OutOrStdout()
				if a.flags.jsonMode {
					return writeJSON(out, names)
				}
				for i, n := range names {
					x, err := obj.Xloc(n, types.ModeRead)
					if err != nil {
						return err
					}
					typ, err := x.Type()
					if err != nil {
						return err
					}
					fmt.Fprintf(out, "%d %s <%s>\n", i, n, typ)
				}
				return nil
			})
		},
	}
}

func newExtStatCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "stat <container> <path> <name>",
		Short: "Report whether an extension exists",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.withSession(func(s *hds.Session) error {
				obj, err := openObject(s, args[0], args[1], types.ModeRead)
				if err != nil {
					return err
				}
				ok, err := obj.Xstat(args[2])
				if err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), ok)
				return nil
			})
		},
	}
}

func newExtNewCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:     "new <container> <path> <name> <type> [extent...]",
		Short:   "Create an extension",
		Example: "  hds ext new obs IMG FITS FITS_EXT\n  hds ext new obs IMG NCOADD _INTEGER",
		Args:    cobra.MinimumNArgs(4),
		RunE: func(cmd *cobra.Command, args []string) error {
			shape, err := parseShape(args[4:])
			if err != nil {
				return err
			}
			return a.withSession(func(s *hds.Session) error {
				obj, err := openObject(s, args[0], args[1], types.ModeUpdate)
				if err != nil {
					return err
				}
				_, err = obj.Xnew(args[2], args[3], shape)
				return err
			})
		},
	}
}
