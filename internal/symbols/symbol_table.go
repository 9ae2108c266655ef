// Package symbols implements the scoped identifier-category table the
// parser consults to disambiguate generic calls from comparisons, tuple
// reads from method calls, and intrinsic names from user functions.
package symbols

import "golang.org/x/exp/maps"

// Category classifies what an identifier names, per spec.md §3.
type Category int

const (
	Function Category = iota
	Tuple
	GenericParam
	RangeGenericParam
	Other
)

func (c Category) String() string {
	switch c {
	case Function:
		return "FUNCTION"
	case Tuple:
		return "TUPLE"
	case GenericParam:
		return "GENERIC_PARAM"
	case RangeGenericParam:
		return "RANGE_GENERIC_PARAM"
	default:
		return "OTHER"
	}
}

type frame map[string]Category

// Table is a stack of scope frames. Lookup returns the innermost binding;
// insertion always targets the current top frame. The parser is
// responsible for the invariant that the frame count after parsing any
// function equals the count before entry — Table only offers the
// mechanism (Push/Pop/Depth), not the guarantee.
type Table struct {
	frames []frame
}

// NewTable returns a table with a single, empty global frame.
func NewTable() *Table {
	return &Table{frames: []frame{make(frame)}}
}

// Push opens a new, empty innermost scope.
func (t *Table) Push() {
	t.frames = append(t.frames, make(frame))
}

// Pop closes the innermost scope. Popping the last remaining frame panics:
// that would violate the table's invariant of always having a global
// frame, and every caller that pushes is expected to pop exactly once.
func (t *Table) Pop() {
	if len(t.frames) <= 1 {
		panic("symbols: Pop called with no scope to close")
	}
	t.frames = t.frames[:len(t.frames)-1]
}

// Depth returns the current scope-nesting depth, used by the parser to
// assert scope balance after parsing any (valid or invalid) program.
func (t *Table) Depth() int {
	return len(t.frames)
}

// Declare binds name to category in the current innermost frame,
// shadowing any outer binding of the same name.
func (t *Table) Declare(name string, cat Category) {
	t.frames[len(t.frames)-1][name] = cat
}

// Lookup returns the innermost binding for name, if any.
func (t *Table) Lookup(name string) (Category, bool) {
	for i := len(t.frames) - 1; i >= 0; i-- {
		if cat, ok := t.frames[i][name]; ok {
			return cat, true
		}
	}
	return Other, false
}

// IsFunction reports whether name is bound as FUNCTION in the innermost
// scope that declares it. Used at `.ident(...)` call sites to distinguish
// a CallExpr from a method call.
func (t *Table) IsFunction(name string) bool {
	cat, ok := t.Lookup(name)
	return ok && cat == Function
}

// IsTuple reports whether name is bound as TUPLE, distinguishing
// `(expr)`/`.ident` tuple reads from other primary-expression forms.
func (t *Table) IsTuple(name string) bool {
	cat, ok := t.Lookup(name)
	return ok && cat == Tuple
}

// Names returns every name visible from the innermost scope outward,
// deepest-wins. The order of the returned names is not defined, and
// nothing in this repository calls it.
func (t *Table) Names() []string {
	merged := make(frame)
	for _, f := range t.frames {
		maps.Copy(merged, f)
	}
	return maps.Keys(merged)
}
