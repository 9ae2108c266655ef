// Package mircontext is the MIRContext external surface spec.md §6
// names: a registry for element types, function declarations, and
// global variables that outlives both the FIR and MIR trees built
// against it, plus the backend-configuration flags those trees are
// lowered and generated under.
package mircontext

import (
	"github.com/google/uuid"

	"github.com/funvibe/graphitc/internal/buildcache"
	"github.com/funvibe/graphitc/internal/fir"
	"github.com/funvibe/graphitc/internal/mir"
)

// Context is threaded through lowering, the direction-choice pass, and
// code generation. Registrations made while lowering one function
// (e.g. an element type declared earlier in the program) remain visible
// to every later pass, which is what "outlives FIR and MIR" means in
// practice: the registries are never cleared mid-compilation.
type Context struct {
	// ModuleName prefixes every generated top-level symbol; set by the
	// "module_name" key in a backend-config sidecar (cmd/graphitc falls
	// back to the source file's base name).
	ModuleName string

	ElementTypes map[string]*fir.ElementTypeDecl
	Functions    map[string]*fir.FuncDecl
	Globals      map[string]fir.Type

	// FunctionOrder records registration order so codegen can iterate
	// Functions deterministically; Go map iteration order is not stable.
	FunctionOrder []string

	// TraversalFlavor is "read here" per spec.md §6: filled in by an
	// earlier pass outside the core (e.g. a whole-program frontier-size
	// estimator), keyed by the edgeset variable name.
	TraversalFlavor map[string]string

	// FusionLabels and DirectionOverrides are keyed by statement label
	// (see fir.Base.Label), letting a backend-config sidecar target one
	// specific while-loop or apply without needing a source edit.
	FusionLabels       map[string]bool
	DirectionOverrides map[string]mir.Direction

	// BuildID is stamped once per Context and threaded into every
	// generated translation unit so two builds of the same source can
	// still be told apart in a build log.
	BuildID uuid.UUID

	// Cache is nil until CLI flag -cache DIR opens one; codegen treats a
	// nil Cache as "caching disabled" rather than requiring callers to
	// special-case it.
	Cache *buildcache.Cache
}

// New returns an empty Context with a fresh BuildID.
func New() *Context {
	return &Context{
		ElementTypes:       make(map[string]*fir.ElementTypeDecl),
		Functions:          make(map[string]*fir.FuncDecl),
		Globals:            make(map[string]fir.Type),
		TraversalFlavor:    make(map[string]string),
		FusionLabels:       make(map[string]bool),
		DirectionOverrides: make(map[string]mir.Direction),
		BuildID:            uuid.New(),
	}
}

func (c *Context) RegisterElementType(d *fir.ElementTypeDecl) {
	c.ElementTypes[d.Name] = d
}

func (c *Context) RegisterFunction(d *fir.FuncDecl) {
	if _, exists := c.Functions[d.Name]; !exists {
		c.FunctionOrder = append(c.FunctionOrder, d.Name)
	}
	c.Functions[d.Name] = d
}

func (c *Context) RegisterGlobal(name string, ty fir.Type) {
	c.Globals[name] = ty
}

// LookupFunction reports whether name is a registered function and, if
// so, returns its declaration.
func (c *Context) LookupFunction(name string) (*fir.FuncDecl, bool) {
	d, ok := c.Functions[name]
	return d, ok
}

// DirectionOverride reports a backend-config-supplied traversal
// direction for the statement labeled label, if any. internal/lower
// consults this when lowering an apply; internal/directionpolicy's
// static heuristic only fills in applies still left Unresolved.
func (c *Context) DirectionOverride(label string) (mir.Direction, bool) {
	if label == "" {
		return mir.DirectionUnresolved, false
	}
	d, ok := c.DirectionOverrides[label]
	return d, ok
}

// IsFused reports whether the while statement labeled label has been
// marked fusible by backend config.
func (c *Context) IsFused(label string) bool {
	if label == "" {
		return false
	}
	return c.FusionLabels[label]
}
