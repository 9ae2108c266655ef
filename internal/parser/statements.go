package parser

import (
	"github.com/funvibe/graphitc/internal/diagnostics"
	"github.com/funvibe/graphitc/internal/fir"
	"github.com/funvibe/graphitc/internal/symbols"
	"github.com/funvibe/graphitc/internal/token"
)

// assignOps are the operators parsed into an AssignStmt: plain "=" and
// the "+=" compound form (fir.AssignStmt's doc comment).
var assignOps = map[token.Kind]bool{token.ASSIGN: true, token.PLUS_ASSIGN: true}

// reduceOps are the operators parsed into a ReduceStmt: the min/max
// reduction family used inside apply functions (fir.ReduceStmt's doc
// comment), kept syntactically distinct from a compound AssignStmt.
var reduceOps = map[token.Kind]bool{
	token.MIN_ASSIGN: true, token.MAX_ASSIGN: true,
	token.ASYNC_MIN_ASSIGN: true, token.ASYNC_MAX_ASSIGN: true,
}

// parseStmtBlock parses statements until one of END/ELIF/ELSE/EOF, or
// any extraStop kind (do-while's body stops at WHILE instead of END).
// It leaves cur sitting on the stopping token, unconsumed, matching
// every other production's "ends on its own terminator" convention.
func (p *Parser) parseStmtBlock(extraStops ...token.Kind) *fir.StmtBlock {
	stop := map[token.Kind]bool{token.END: true, token.ELIF: true, token.ELSE: true, token.EOF: true}
	for _, k := range extraStops {
		stop[k] = true
	}

	start := p.cur
	block := &fir.StmtBlock{}
	for !stop[p.cur.Kind] {
		depth := p.syms.Depth()
		s := p.parseStmt()
		if s != nil {
			block.Stmts = append(block.Stmts, s)
		} else {
			p.skipTo(stmtSkipSet)
		}
		if p.syms.Depth() != depth {
			p.addError(diagnostics.Internal(p.cur, "scope depth not restored after statement"))
		}
		if !stop[p.cur.Kind] {
			p.next()
		}
	}
	block.Base = fir.NewBase(fir.RangeOf(start, p.cur))
	return block
}

func (p *Parser) parseStmt() fir.Stmt {
	var label string
	if p.curIs(token.HASH) {
		label = p.parseLabelPrefix()
	}

	switch p.cur.Kind {
	case token.IF:
		return p.parseIfStmt(label)
	case token.WHILE:
		return p.parseWhileStmt(label)
	case token.DO:
		return p.parseDoWhileStmt(label)
	case token.FOR:
		return p.parseForStmt(label)
	case token.PRINT:
		return p.parsePrintStmt(label)
	case token.BREAK:
		return p.parseBreakStmt(label)
	case token.VAR:
		return p.parseVarDeclStmt(label)
	case token.CONST:
		return p.parseConstDeclStmt(label)
	default:
		return p.parseSimpleStmt(label)
	}
}

// parseLabelPrefix parses `# ident #` and advances cur onto the first
// token of the statement it labels.
func (p *Parser) parseLabelPrefix() string {
	if !p.expect(token.IDENT) {
		return ""
	}
	name := p.cur.Lexeme
	if !p.expect(token.HASH) {
		return name
	}
	p.next()
	return name
}

func (p *Parser) parseIfStmt(label string) fir.Stmt {
	start := p.cur
	if !p.expect(token.LPAREN) {
		return nil
	}
	p.next()
	cond := p.parseExpression(LOWEST)
	p.expect(token.RPAREN)
	p.next()
	then := p.parseStmtBlock()

	var elseIfs []fir.ElseIf
	var elseBlock *fir.StmtBlock
	for p.curIs(token.ELIF) {
		if !p.expect(token.LPAREN) {
			break
		}
		p.next()
		c := p.parseExpression(LOWEST)
		p.expect(token.RPAREN)
		p.next()
		b := p.parseStmtBlock()
		elseIfs = append(elseIfs, fir.ElseIf{Cond: c, Block: b})
	}
	if p.curIs(token.ELSE) {
		p.next()
		elseBlock = p.parseStmtBlock()
	}
	if !p.curIs(token.END) {
		p.addError(diagnostics.NewParser(diagnostics.ErrExpectedToken, p.cur, "end", string(p.cur.Kind)))
	}
	return &fir.IfStmt{
		Base:    fir.NewLabeledBase(fir.RangeOf(start, p.cur), label),
		Cond:    cond,
		Then:    then,
		ElseIfs: elseIfs,
		Else:    elseBlock,
	}
}

func (p *Parser) parseWhileStmt(label string) fir.Stmt {
	start := p.cur
	if !p.expect(token.LPAREN) {
		return nil
	}
	p.next()
	cond := p.parseExpression(LOWEST)
	p.expect(token.RPAREN)
	p.next()
	body := p.parseStmtBlock()
	if !p.curIs(token.END) {
		p.addError(diagnostics.NewParser(diagnostics.ErrExpectedToken, p.cur, "end", string(p.cur.Kind)))
	}
	// Fuse is never set here: kernel-fusion eligibility is a MIR-level
	// backend-config decision made after lowering, not a source annotation.
	return &fir.WhileStmt{Base: fir.NewLabeledBase(fir.RangeOf(start, p.cur), label), Cond: cond, Body: body}
}

func (p *Parser) parseDoWhileStmt(label string) fir.Stmt {
	start := p.cur
	p.next()
	body := p.parseStmtBlock(token.WHILE)
	if !p.curIs(token.WHILE) {
		p.addError(diagnostics.NewParser(diagnostics.ErrExpectedToken, p.cur, "while", string(p.cur.Kind)))
	}
	if !p.expect(token.LPAREN) {
		return nil
	}
	p.next()
	cond := p.parseExpression(LOWEST)
	p.expect(token.RPAREN)
	if !p.expect(token.SEMI) {
		p.skipTo(stmtSkipSet)
	}
	return &fir.DoWhileStmt{Base: fir.NewLabeledBase(fir.RangeOf(start, p.cur), label), Body: body, Cond: cond}
}

func (p *Parser) parseForStmt(label string) fir.Stmt {
	start := p.cur
	if !p.expect(token.LPAREN) {
		return nil
	}
	if !p.expect(token.IDENT) {
		return nil
	}
	name := p.cur.Lexeme
	if !p.expect(token.IN) {
		return nil
	}
	p.next()

	inclusive := false
	if p.curIs(token.LBRACKET) {
		inclusive = true
		p.next()
	}
	lo := p.parseExpression(LOWEST)
	if !p.expect(token.COLON) {
		return nil
	}
	p.next()
	hi := p.parseExpression(LOWEST)
	if inclusive {
		p.expect(token.RBRACKET)
	}
	if !p.expect(token.RPAREN) {
		return nil
	}
	p.next()

	p.syms.Push()
	p.syms.Declare(name, symbols.Other)
	body := p.parseStmtBlock()
	p.syms.Pop()

	if !p.curIs(token.END) {
		p.addError(diagnostics.NewParser(diagnostics.ErrExpectedToken, p.cur, "end", string(p.cur.Kind)))
	}
	return &fir.ForStmt{
		Base:   fir.NewLabeledBase(fir.RangeOf(start, p.cur), label),
		Var:    name,
		Domain: fir.ForDomain{Lo: lo, Hi: hi, Inclusive: inclusive},
		Body:   body,
	}
}

func (p *Parser) parsePrintStmt(label string) fir.Stmt {
	start := p.cur
	p.next()
	var args []fir.Expr
	args = append(args, p.parseExpression(LOWEST))
	for p.peekIs(token.COMMA) {
		p.next()
		p.next()
		args = append(args, p.parseExpression(LOWEST))
	}
	if !p.expect(token.SEMI) {
		p.skipTo(stmtSkipSet)
	}
	return &fir.PrintStmt{Base: fir.NewLabeledBase(fir.RangeOf(start, p.cur), label), Args: args}
}

func (p *Parser) parseBreakStmt(label string) fir.Stmt {
	start := p.cur
	if !p.expect(token.SEMI) {
		p.skipTo(stmtSkipSet)
	}
	return &fir.BreakStmt{Base: fir.NewLabeledBase(fir.RangeOf(start, p.cur), label)}
}

func (p *Parser) parseVarDeclStmt(label string) fir.Stmt {
	start := p.cur
	if !p.expect(token.IDENT) {
		return nil
	}
	name := p.cur.Lexeme
	var ty fir.Type
	if p.peekIs(token.COLON) {
		p.next()
		p.next()
		ty = p.parseType()
	}
	var val fir.Expr
	if p.peekIs(token.ASSIGN) {
		p.next()
		p.next()
		val = p.parseExpression(LOWEST)
	}
	p.syms.Declare(name, symbols.Other)
	if !p.expect(token.SEMI) {
		p.skipTo(stmtSkipSet)
	}
	return &fir.VarDecl{Base: fir.NewLabeledBase(fir.RangeOf(start, p.cur), label), Name: name, Ty: ty, Value: val}
}

func (p *Parser) parseConstDeclStmt(label string) fir.Stmt {
	start := p.cur
	if !p.expect(token.IDENT) {
		return nil
	}
	name := p.cur.Lexeme
	var ty fir.Type
	if p.peekIs(token.COLON) {
		p.next()
		p.next()
		ty = p.parseType()
	}
	if !p.expect(token.ASSIGN) {
		return nil
	}
	p.next()
	val := p.parseExpression(LOWEST)
	p.syms.Declare(name, symbols.Other)
	if !p.expect(token.SEMI) {
		p.skipTo(stmtSkipSet)
	}
	return &fir.ConstDecl{Base: fir.NewLabeledBase(fir.RangeOf(start, p.cur), label), Name: name, Ty: ty, Value: val}
}

// parseSimpleStmt handles the forms that start with an arbitrary
// expression: a bare ExprStmt (most commonly a method-chain apply), a
// plain or "+=" AssignStmt, or a min=/max=/asyncMin=/asyncMax= ReduceStmt.
func (p *Parser) parseSimpleStmt(label string) fir.Stmt {
	start := p.cur
	lhs := p.parseExpression(LOWEST)

	if assignOps[p.peek.Kind] {
		op := p.peek.Kind
		p.next()
		p.next()
		rhs := p.parseExpression(LOWEST)
		if !p.expect(token.SEMI) {
			p.skipTo(stmtSkipSet)
		}
		return &fir.AssignStmt{Base: fir.NewLabeledBase(fir.RangeOf(start, p.cur), label), Lhs: lhs, Op: op, Rhs: rhs}
	}

	if reduceOps[p.peek.Kind] {
		op := p.peek.Kind
		p.next()
		p.next()
		rhs := p.parseExpression(LOWEST)
		if !p.expect(token.SEMI) {
			p.skipTo(stmtSkipSet)
		}
		return &fir.ReduceStmt{Base: fir.NewLabeledBase(fir.RangeOf(start, p.cur), label), Target: lhs, Op: op, Value: rhs}
	}

	if !p.expect(token.SEMI) {
		p.skipTo(stmtSkipSet)
	}
	return &fir.ExprStmt{Base: fir.NewLabeledBase(fir.RangeOf(start, p.cur), label), X: lhs}
}
