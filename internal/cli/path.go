package cli

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/mesh-intelligence/hdsbridge/pkg/hds"
	"github.com/mesh-intelligence/hdsbridge/pkg/types"
)

// pathElem is one step of an object path: a component name and, for a
// structure array, the zero-based caller-order indices of one cell.
type pathElem struct {
	name string
	cell []int
}

// parsePath parses paths such as "MORE.FITS" or "ROWS[2].X". An empty
// path or "." addresses the container root.
func parsePath(s string) ([]pathElem, error) {
	s = strings.TrimSpace(s)
	if s == "" || s == "." {
		return nil, nil
	}
	var elems []pathElem
	for _, part := range strings.Split(s, ".") {
		el, err := parseElem(part)
		if err != nil {
			return nil, types.E("path", types.KindInvalidArgument, fmt.Sprintf("%q: %v", s, err))
		}
		elems = append(elems, el)
	}
	return elems, nil
}

func parseElem(part string) (pathElem, error) {
	name, rest, hasCell := strings.Cut(part, "[")
	if name == "" {
		return pathElem{}, fmt.Errorf("empty component name")
	}
	el := pathElem{name: strings.ToUpper(name)}
	if !hasCell {
		return el, nil
	}
	inner, ok := strings.CutSuffix(rest, "]")
	if !ok || inner == "" {
		return pathElem{}, fmt.Errorf("malformed cell subscript in %q", part)
	}
	for _, f := range strings.Split(inner, ",") {
		i, err := strconv.Atoi(strings.TrimSpace(f))
		if err != nil {
			return pathElem{}, fmt.Errorf("bad subscript %q", f)
		}
		el.cell = append(el.cell, i)
	}
	return el, nil
}

func (el pathElem) String() string {
	if el.cell == nil {
		return el.name
	}
	return el.name + cellLabel(el.cell)
}

// cellLabel formats caller-order cell indices as "[i,j]".
func cellLabel(idx []int) string {
	parts := make([]string, len(idx))
	for i, v := range idx {
		parts[i] = strconv.Itoa(v)
	}
	return "[" + strings.Join(parts, ",") + "]"
}

// walk follows elems from loc. Intermediate locators stay owned by the
// session.
func walk(loc *hds.Locator, elems []pathElem) (*hds.Locator, error) {
	cur := loc
	for _, el := range elems {
		next, err := cur.Find(el.name)
		if err != nil {
			return nil, err
		}
		if el.cell != nil {
			if next, err = next.Cell(el.cell...); err != nil {
				return nil, err
			}
		}
		cur = next
	}
	return cur, nil
}

// openObject opens container and walks to path.
func openObject(s *hds.Session, container, path string, mode types.AccessMode) (*hds.Locator, error) {
	elems, err := parsePath(path)
	if err != nil {
		return nil, err
	}
	root, err := s.Open(container, mode, types.DispOld)
	if err != nil {
		return nil, err
	}
	return walk(root, elems)
}

// splitLast separates the final component name of path from its parent.
func splitLast(path string) ([]pathElem, string, error) {
	elems, err := parsePath(path)
	if err != nil {
		return nil, "", err
	}
	if len(elems) == 0 {
		return nil, "", types.E("path", types.KindInvalidArgument, "a component name is required")
	}
	last := elems[len(elems)-1]
	if last.cell != nil {
		return nil, "", types.E("path", types.KindInvalidArgument, fmt.Sprintf("%q names a cell, not a component", last))
	}
	return elems[:len(elems)-1], last.name, nil
}

// parseShape parses caller-order extents.
func parseShape(args []string) (types.Shape, error) {
	var shape types.Shape
	for _, a := range args {
		n, err := strconv.Atoi(a)
		if err != nil || n < 1 {
			return nil, types.E("shape", types.KindInvalidArgument, fmt.Sprintf("bad extent %q", a))
		}
		shape = append(shape, n)
	}
	return shape, nil
}

// parseBounds parses "lo:hi" pixel ranges; a bare "n" means "1:n".
func parseBounds(args []string) (lower, upper []int, err error) {
	for _, a := range args {
		lo, hi := "1", a
		if l, h, ok := strings.Cut(a, ":"); ok {
			lo, hi = l, h
		}
		l, err1 := strconv.Atoi(lo)
		h, err2 := strconv.Atoi(hi)
		if err1 != nil || err2 != nil {
			return nil, nil, types.E("bounds", types.KindInvalidArgument, fmt.Sprintf("bad bounds %q", a))
		}
		lower = append(lower, l)
		upper = append(upper, h)
	}
	return lower, upper, nil
}
