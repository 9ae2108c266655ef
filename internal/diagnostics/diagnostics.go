// Package diagnostics is the compiler's single error surface: every phase
// (lexer, parser, lowering, codegen) reports through the same structured
// Error type instead of ad hoc fmt.Errorf strings.
package diagnostics

import (
	"fmt"

	"github.com/funvibe/graphitc/internal/token"
)

// Phase identifies which pipeline stage raised an Error.
type Phase string

const (
	PhaseLexer    Phase = "lexer"
	PhaseParser   Phase = "parser"
	PhaseLowering Phase = "lowering"
	PhaseCodegen  Phase = "codegen"
)

// Code is a stable, greppable identifier for an error template.
type Code string

const (
	// Parser errors.
	ErrUnexpectedToken  Code = "P001" // unexpected token
	ErrExpectedToken    Code = "P002" // expected X, got Y
	ErrBadInteger       Code = "P003" // could not parse integer literal
	ErrNoPrefixParseFn  Code = "P004" // no prefix parse function for token
	ErrBadApplyThirdArg Code = "P005" // applyModified third arg must be true/false literal
	ErrBadAllocator     Code = "P006" // malformed `new` allocator expression
	ErrBadType          Code = "P007" // malformed type expression

	// Lowering (structural / semantic) errors.
	ErrUndeclaredIdent Code = "L001" // identifier not found in scope
	ErrNotAFunction    Code = "L002" // reduction target / apply function resolves to non-function
	ErrStructural      Code = "L003" // programmer error: wrong FIR node kind in context

	// Codegen errors.
	ErrUnsafeKernelWrite Code = "C001" // kernel write is neither atomic, CAS, nor exclusive
	ErrNoDirection       Code = "C002" // EdgeSetApplyExpr reached codegen with no direction chosen
)

var templates = map[Code]string{
	ErrUnexpectedToken:   "unexpected token %q",
	ErrExpectedToken:     "expected %s, got %s",
	ErrBadInteger:        "could not parse %q as an integer",
	ErrNoPrefixParseFn:   "no prefix parse function for %s",
	ErrBadApplyThirdArg:  "applyModified's third argument must be the literal true or false, got %q",
	ErrBadAllocator:      "malformed allocator expression: %s",
	ErrBadType:           "malformed type expression: %s",
	ErrUndeclaredIdent:   "undeclared identifier %q",
	ErrNotAFunction:      "%q does not resolve to a function",
	ErrStructural:        "internal error: %s",
	ErrUnsafeKernelWrite: "write to %q inside kernel region is neither atomic, CAS, nor exclusive",
	ErrNoDirection:       "edgeset apply has no resolved traversal direction",
}

// Error is the single structured diagnostic type produced by every phase:
// (line_begin, col_begin, line_end, col_end, message) plus phase and code.
type Error struct {
	Phase Phase
	Code  Code
	Tok   token.Token
	Args  []interface{}
	File  string
}

func (e *Error) Error() string {
	tmpl, ok := templates[e.Code]
	msg := fmt.Sprintf("unknown error code: %s", e.Code)
	if ok {
		msg = fmt.Sprintf(tmpl, e.Args...)
	}

	prefix := ""
	if e.File != "" {
		prefix = e.File + ": "
	}
	return fmt.Sprintf("%s[%s] %d:%d-%d:%d [%s]: %s",
		prefix, e.Phase, e.Tok.Line, e.Tok.Col, e.Tok.EndLine, e.Tok.EndCol, e.Code, msg)
}

// Range returns the (line_begin, col_begin, line_end, col_end) tuple the
// specification's error surface names.
func (e *Error) Range() (lineBegin, colBegin, lineEnd, colEnd int) {
	return e.Tok.Line, e.Tok.Col, e.Tok.EndLine, e.Tok.EndCol
}

func New(phase Phase, code Code, tok token.Token, args ...interface{}) *Error {
	return &Error{Phase: phase, Code: code, Tok: tok, Args: args}
}

func NewParser(code Code, tok token.Token, args ...interface{}) *Error {
	return New(PhaseParser, code, tok, args...)
}

func NewLowering(code Code, tok token.Token, args ...interface{}) *Error {
	return New(PhaseLowering, code, tok, args...)
}

// Internal builds a structural-error diagnostic for "should never happen"
// cases in lowering: an unexpected FIR node kind in a context that
// demanded another.
func Internal(tok token.Token, message string) *Error {
	return NewLowering(ErrStructural, tok, message)
}
