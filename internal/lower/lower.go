// Package lower implements MIREmitter, the pass that turns a fir.Program
// into MIR: a mircontext.Context populated with every top-level
// declaration, plus the lowered statement list for top-level var/const
// initializers. Function bodies are lowered lazily, one at a time, by
// EmitFunctionBody — MIR's data model has no FuncDecl node (spec's MIR
// kind list never names one), so a function's statements only exist
// once something (codegen) asks for them.
//
// Every Visit<Kind> method stores its result in one of three scratch
// fields (retExpr, retStmt, retType) rather than returning a value —
// Accept(Visitor) has no return, so there is nowhere else to put it.
// The wrapper methods EmitExpr/EmitStmt/EmitType save the previous
// scratch value, clear it, call Accept, drain the result, and restore
// the previous value before returning. All recursive lowering goes
// through these wrappers, never a direct .Accept() chain, so a scratch
// field is never "live" across more than the one Accept call it belongs
// to even though Emitter itself is reused across the whole tree.
package lower

import (
	"fmt"
	"strconv"

	"github.com/funvibe/graphitc/internal/diagnostics"
	"github.com/funvibe/graphitc/internal/fir"
	"github.com/funvibe/graphitc/internal/mir"
	"github.com/funvibe/graphitc/internal/mircontext"
	"github.com/funvibe/graphitc/internal/symbols"
	"github.com/funvibe/graphitc/internal/token"
)

// structuralAbort is raised when a FIR node that cannot occur in a
// well-formed program — one reachable only through the parser's
// deprecated productions, or a node type used outside the single
// context it belongs to — reaches lowering anyway. Emitter's entry
// points recover it and turn it into a diagnostic instead of letting it
// crash the whole pipeline, the same way go/parser uses panic/recover
// internally for productions that "cannot happen".
type structuralAbort struct {
	err *diagnostics.Error
}

// Emitter lowers one fir.Program (or, lazily, one fir.FuncDecl body) to
// MIR against a shared mircontext.Context and symbols.Table.
type Emitter struct {
	fir.BaseVisitor

	ctx    *mircontext.Context
	syms   *symbols.Table
	file   string
	labels fir.LabelScope

	Errors []*diagnostics.Error

	retExpr mir.Expr
	retStmt mir.Stmt
	retType mir.Type
}

// New returns an Emitter. ctx and syms must already reflect whatever
// scope the program being lowered was parsed and analyzed in.
func New(ctx *mircontext.Context, syms *symbols.Table, file string) *Emitter {
	e := &Emitter{ctx: ctx, syms: syms, file: file}
	e.Self = e
	return e
}

// EmitExpr lowers one FIR expression and returns its MIR counterpart.
func (e *Emitter) EmitExpr(x fir.Expr) mir.Expr {
	prev := e.retExpr
	e.retExpr = nil
	x.Accept(e)
	out := e.retExpr
	e.retExpr = prev
	if out == nil {
		e.abortf(x.Range(), "lowering produced no expression for %T", x)
	}
	return out
}

// EmitStmt lowers one FIR statement and returns its MIR counterpart. It
// also pushes s's label (if any) onto e.labels for the duration of the
// call, so that anything lowered underneath it — most importantly an
// EdgeSetApplyExpr nested in an ExprStmt, or the WhileStmt itself — can
// look up a backend-config override keyed by this exact label. MIR
// nodes carry no Label field of their own; the override is resolved
// here, once, while the FIR label is still in hand, rather than
// reconstructed from the lowered tree later.
func (e *Emitter) EmitStmt(s fir.Stmt) mir.Stmt {
	prev := e.retStmt
	e.retStmt = nil
	lbl := s.Label()
	if lbl != "" {
		e.labels.Push(lbl)
	}
	s.Accept(e)
	if lbl != "" {
		e.labels.Pop()
	}
	out := e.retStmt
	e.retStmt = prev
	if out == nil {
		e.abortf(s.Range(), "lowering produced no statement for %T", s)
	}
	return out
}

// EmitType lowers one FIR type and returns its MIR counterpart.
func (e *Emitter) EmitType(t fir.Type) mir.Type {
	prev := e.retType
	e.retType = nil
	t.Accept(e)
	out := e.retType
	e.retType = prev
	if out == nil {
		e.abortf(t.Range(), "lowering produced no type for %T", t)
	}
	return out
}

// EmitBlock lowers an `end`-terminated statement sequence. It special-
// cases do-while, which MIR has no node for: `do body while(cond)`
// unrolls into one eager copy of body followed by an ordinary
// WhileStmt, so the expansion belongs here rather than in a single-
// statement Visit method.
func (e *Emitter) EmitBlock(b *fir.StmtBlock) []mir.Stmt {
	out := make([]mir.Stmt, 0, len(b.Stmts))
	for _, s := range b.Stmts {
		if dw, ok := s.(*fir.DoWhileStmt); ok {
			out = append(out, e.emitDoWhile(dw)...)
			continue
		}
		out = append(out, e.EmitStmt(s))
	}
	return out
}

func (e *Emitter) emitDoWhile(n *fir.DoWhileStmt) []mir.Stmt {
	first := e.EmitBlock(n.Body)
	again := &mir.WhileStmt{
		Base: mir.NewBase(n.Range()),
		Cond: e.EmitExpr(n.Cond),
		Body: e.EmitBlock(n.Body),
	}
	return append(first, again)
}

// EmitProgram registers every top-level declaration in ctx and lowers
// top-level var/const initializers, returning the resulting statement
// list plus any diagnostics raised along the way. A structural abort
// anywhere in the program is recovered here and folded into Errors;
// everything already registered or lowered before the abort is kept,
// matching pipeline.Pipeline's own continue-on-error policy.
func EmitProgram(prog *fir.Program, ctx *mircontext.Context, syms *symbols.Table, file string) (body []mir.Stmt, errs []*diagnostics.Error) {
	e := New(ctx, syms, file)
	defer func() {
		if r := recover(); r != nil {
			sa, ok := r.(structuralAbort)
			if !ok {
				panic(r)
			}
			e.Errors = append(e.Errors, sa.err)
		}
		errs = e.Errors
	}()

	for _, el := range prog.Elements {
		switch d := el.(type) {
		case *fir.ElementTypeDecl:
			ctx.RegisterElementType(d)
		case *fir.FuncDecl:
			ctx.RegisterFunction(d)
		case *fir.ExternDecl:
			ctx.RegisterGlobal(d.Name, d.Ty)
		case *fir.VarDecl:
			ctx.RegisterGlobal(d.Name, d.Ty)
			body = append(body, e.EmitStmt(d))
		case *fir.ConstDecl:
			ctx.RegisterGlobal(d.Name, d.Ty)
			body = append(body, e.EmitStmt(d))
		default:
			e.abortf(el.Range(), "unexpected top-level FIR node %T", el)
		}
	}
	return body, e.Errors
}

// EmitFunctionBody lowers one function's body on demand. d must already
// be registered in the Context (EmitProgram does this for every
// top-level FuncDecl). Returns nil for an extern function, which has no
// body.
func (e *Emitter) EmitFunctionBody(d *fir.FuncDecl) ([]mir.Stmt, []*diagnostics.Error) {
	if d.Body == nil {
		return nil, nil
	}
	start := len(e.Errors)
	var body []mir.Stmt
	func() {
		defer func() {
			if r := recover(); r != nil {
				sa, ok := r.(structuralAbort)
				if !ok {
					panic(r)
				}
				e.Errors = append(e.Errors, sa.err)
			}
		}()
		body = e.EmitBlock(d.Body)
	}()
	return body, e.Errors[start:]
}

func (e *Emitter) abortf(rng fir.Range, format string, args ...interface{}) {
	panic(structuralAbort{err: diagnostics.Internal(e.tokenAt(rng), fmt.Sprintf(format, args...))})
}

func (e *Emitter) tokenAt(r fir.Range) token.Token {
	return token.Token{Line: r.LineBegin, Col: r.ColBegin, EndLine: r.LineEnd, EndCol: r.ColEnd}
}

// checkFunction records a non-fatal diagnostic if name is not known to
// resolve to a declared function — used at apply/where/map call sites,
// which name their callee by a bare identifier rather than an Expr.
func (e *Emitter) checkFunction(name string, rng fir.Range) {
	if name == "" {
		return
	}
	cat, ok := e.syms.Lookup(name)
	if !ok {
		e.Errors = append(e.Errors, diagnostics.NewLowering(diagnostics.ErrUndeclaredIdent, e.tokenAt(rng), name))
		return
	}
	if cat != symbols.Function {
		e.Errors = append(e.Errors, diagnostics.NewLowering(diagnostics.ErrNotAFunction, e.tokenAt(rng), name))
	}
}

// typeName renders a FIR type as the canonical string MIR allocator
// calls pass at the position a concrete Type node doesn't fit (Call's
// Args are values, not types), e.g. newList("int", n).
func (e *Emitter) typeName(t fir.Type) string {
	switch ty := t.(type) {
	case nil:
		return ""
	case *fir.ScalarType:
		return ty.Name
	case *fir.ElementType:
		return ty.Name
	case *fir.VertexSetType:
		return "vertexset{" + ty.ElementType + "}"
	case *fir.EdgeSetType:
		return "edgeset{" + ty.SrcElementType + "," + ty.DstElementType + "}"
	case *fir.ListType:
		return "list{" + e.typeName(ty.ElemType) + "}"
	case *fir.OpaqueType:
		return ty.Name
	case *fir.TupleType:
		if ty.Name != "" {
			return ty.Name
		}
		return "tuple"
	case *fir.PriorityQueueType:
		return "priority_queue{" + ty.ElementType + "}"
	default:
		return fmt.Sprintf("%T", t)
	}
}

func tupleIndexField(i int) string {
	return strconv.Itoa(i)
}
