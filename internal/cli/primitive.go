package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/hdsbridge/pkg/hds"
	"github.com/mesh-intelligence/hdsbridge/pkg/types"
)

// objectInfo is the JSON form of an object description.
type objectInfo struct {
	Name    string `json:"name"`
	Type    string `json:"type"`
	Shape   []int  `json:"shape"`
	Struct  bool   `json:"struct"`
	Defined bool   `json:"defined"`
	Values  any    `json:"values,omitempty"`
}

func newNewCmd(a *app) *cobra.Command {
	var create bool
	cmd := &cobra.Command{
		Use:   "new <container> <path> <type> [extent...]",
		Short: "Create a component",
		Long: "Create a primitive (type such as _REAL or _CHAR*20) or a structure\n" +
			"(any other type name). Extents are in caller order.",
		Example: "  hds new obs DATA _REAL 2 3\n  hds new obs ROWS ROW 4\n  hds new obs ROWS[1].X _DOUBLE",
		Args:    cobra.MinimumNArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			parent, name, err := splitLast(args[1])
			if err != nil {
				return err
			}
			shape, err := parseShape(args[3:])
			if err != nil {
				return err
			}
			typ := args[2]

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
				if types.IsStructureType(typ) {
					err = loc.NewStructure(name, typ, shape)
				} else {
					var tag types.TypeTag
					if tag, err = types.ParseTypeTag(typ); err != nil {
						return err
					}
					err = loc.New(name, tag, shape)
				}
				return err
			})
		},
	}
	cmd.Flags().BoolVar(&create, "create", false, "create the container if it does not exist")
	return cmd
}

func newPutCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "put <container> <path> <value...>",
		Short: "Write every element of a primitive",
		Long: "Write values into a primitive in caller order, last index fastest.\n" +
			"_LOGICAL accepts TRUE/FALSE, YES/NO or 1/0.",
		Example: "  hds put obs DATA 1 2 3 4 5 6\n  hds put obs TITLE \"Orion nebula\"",
		Args:    cobra.MinimumNArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.withSession(func(s *hds.Session) error {
				loc, err := openObject(s, args[0], args[1], types.ModeUpdate)
				if err != nil {
					return err
				}
				tag, err := loc.Tag()
				if err != nil {
					return err
				}
				shape, err := loc.Shape()
				if err != nil {
					return err
				}
				buf, err := parseValues(tag, shape, args[2:])
				if err != nil {
					return err
				}
				return loc.Put(tag, shape, buf)
			})
		},
	}
}

func newGetCmd(a *app) *cobra.Command {
	var limit int
	cmd := &cobra.Command{
		Use:   "get <container> <path>",
		Short: "Print the values of a primitive",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.withSession(func(s *hds.Session) error {
				loc, err := openObject(s, args[0], args[1], types.ModeRead)
				if err != nil {
					return err
				}
				buf, err := loc.Get()
				if err != nil {
					return err
				}
				out := cmd.OutOrStdout()
				if a.flags.jsonMode {
					info, err := describe(loc)
					if err != nil {
						return err
					}
					info.Values = jsonValues(buf)
					return writeJSON(out, info)
				}
				vals, more := formatValues(buf, limit)
				for _, v := range vals {
					fmt.Fprintln(out, v)
				}
				if more {
					fmt.Fprintf(out, "... %d more\n", buf.Len()-len(vals))
				}
				return nil
			})
		},
	}
	cmd.Flags().IntVar(&limit, "limit", 0, "print at most this many values (0 prints all)")
	return cmd
}

func newShapeCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "shape <container> [path]",
		Short: "Describe an object: type, shape and state",
		Args:  cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.withSession(func(s *hds.Session) error {
				loc, err := openObject(s, args[0], optionalArg(args, 1), types.ModeRead)
				if err != nil {
					return err
				}
				info, err := describe(loc)
				if err != nil {
					return err
				}
				out := cmd.OutOrStdout()
				if a.flags.jsonMode {
					return writeJSON(out, info)
				}
				fmt.Fprintf(out, "%s <%s> %s\n", info.Name, info.Type, formatShape(info.Shape))
				return nil
			})
		},
	}
}

// describe collects name, type, shape and state of loc.
func describe(loc *hds.Locator) (objectInfo, error) {
	var info objectInfo
	var err error
	if info.Name, err = loc.Name(); err != nil {
		return info, err
	}
	if info.Type, err = loc.Type(); err != nil {
		return info, err
	}
	if info.Struct, err = loc.Struc(); err != nil {
		return info, err
	}
	if info.Type != "" && !info.Struct {
		if tag, err := loc.Tag(); err == nil {
			info.Type = tag.String()
		}
	}
	shape, err := loc.Shape()
	if err != nil {
		return info, err
	}
	info.Shape = append([]int{}, shape...)
	if info.Struct {
		info.Defined = true
		return info, nil
	}
	info.Defined, err = loc.State()
	return info, err
}

func formatShape(shape []int) string {
	if len(shape) == 0 {
		return "scalar"
	}
	parts := make([]string, len(shape))
	for i, d := range shape {
		parts[i] = fmt.Sprint(d)
	}
	return "[" + strings.Join(parts, ",") + "]"
}

func optionalArg(args []string, i int) string {
	if i < len(args) {
		return args[i]
	}
	return ""
}
