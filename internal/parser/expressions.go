package parser

import (
	"github.com/funvibe/graphitc/internal/config"
	"github.com/funvibe/graphitc/internal/diagnostics"
	"github.com/funvibe/graphitc/internal/fir"
	"github.com/funvibe/graphitc/internal/token"
)

// parseExpression is the Pratt loop entry point. Each call gets its own
// chain state (internal/fir/printer.go's round trip and the spec's
// "discard if chain ends without apply" rule both assume a from/to
// buffer scoped to one postfix chain, not the whole parse).
func (p *Parser) parseExpression(prec int) fir.Expr {
	savedChain := p.chain
	p.chain = &chainState{}
	defer func() { p.chain = savedChain }()

	prefix, ok := p.prefixParseFns[p.cur.Kind]
	if !ok {
		p.addError(diagnostics.NewParser(diagnostics.ErrNoPrefixParseFn, p.cur, string(p.cur.Kind)))
		return nil
	}
	left := prefix()

	for !p.peekIs(token.SEMI) && prec < p.peekPrecedence() {
		infix, ok := p.infixParseFns[p.peek.Kind]
		if !ok {
			return left
		}
		p.next()
		left = infix(left)
	}
	return left
}

func (p *Parser) parseArgList(end token.Kind) []fir.Expr {
	var args []fir.Expr
	if p.peekIs(end) {
		return args
	}
	p.next()
	args = append(args, p.parseExpression(LOWEST))
	for p.peekIs(token.COMMA) {
		p.next()
		p.next()
		args = append(args, p.parseExpression(LOWEST))
	}
	return args
}

// ---- Identifiers, calls, tuple reads, generic-call disambiguation ----

func (p *Parser) parseIdentifierOrCallLike() fir.Expr {
	tok := p.cur
	name := tok.Lexeme

	if p.peekIs(token.LT) && p.looksLikeGenericCall() {
		return p.parseGenericCallExpr(tok)
	}

	if p.syms.IsTuple(name) && p.peekIs(token.LPAREN) {
		p.next()
		var idx int64
		if !p.peekIs(token.RPAREN) {
			p.next()
			if lit, ok := p.parseExpression(LOWEST).(*fir.IntLiteral); ok {
				idx = lit.Value
			}
		}
		p.expect(token.RPAREN)
		target := &fir.VarExpr{Base: fir.NewBase(fir.RangeOfOne(tok)), Name: name}
		return &fir.TupleReadExpr{Base: fir.NewBase(fir.RangeOf(tok, p.cur)), Target: target, Index: int(idx)}
	}

	if p.peekIs(token.LPAREN) && (p.syms.IsFunction(name) || config.IsIntrinsic(name)) {
		p.next()
		args := p.parseArgList(token.RPAREN)
		p.expect(token.RPAREN)
		fn := name
		if config.IsIntrinsic(name) {
			fn = config.QualifyIntrinsic(name)
		}
		return &fir.CallExpr{Base: fir.NewBase(fir.RangeOf(tok, p.cur)), Func: fn, Args: args}
	}

	return &fir.VarExpr{Base: fir.NewBase(fir.RangeOfOne(tok)), Name: name}
}

// looksLikeGenericCall peeks a bounded window ahead of a `<` to find a
// matching `>` directly followed by `(`, per spec.md §4.1's "peeks
// 3-5 tokens ahead to distinguish a generic call from a less-than
// comparison".
func (p *Parser) looksLikeGenericCall() bool {
	for n := 2; n <= 6; n++ {
		t := p.peekN(n)
		switch t.Kind {
		case token.GT:
			return p.peekN(n+1).Kind == token.LPAREN
		case token.SEMI, token.EOF, token.END, token.LBRACE:
			return false
		}
	}
	return false
}

func (p *Parser) parseGenericCallExpr(tok token.Token) fir.Expr {
	name := tok.Lexeme
	p.next() // consume '<'
	depth := 1
	for depth > 0 && !p.curIs(token.EOF) {
		p.next()
		switch p.cur.Kind {
		case token.LT:
			depth++
		case token.GT:
			depth--
		}
	}
	if !p.expect(token.LPAREN) {
		return &fir.VarExpr{Base: fir.NewBase(fir.RangeOfOne(tok)), Name: name}
	}
	args := p.parseArgList(token.RPAREN)
	p.expect(token.RPAREN)
	fn := name
	if config.IsIntrinsic(name) {
		fn = config.QualifyIntrinsic(name)
	}
	return &fir.CallExpr{Base: fir.NewBase(fir.RangeOf(tok, p.cur)), Func: fn, Args: args}
}

// ---- Unary / binary / logical / N-ary equality ----

func (p *Parser) parseNegExpr() fir.Expr {
	tok := p.cur
	p.next()
	x := p.parseExpression(UNARY)
	return &fir.NegExpr{Base: fir.NewBase(fir.RangeOf(tok, p.cur)), X: x}
}

func (p *Parser) parseBinaryExpr(left fir.Expr) fir.Expr {
	tok := p.cur
	op := tok.Kind
	prec := p.curPrecedence()
	nextPrec := prec
	if op == token.CARET {
		nextPrec = prec - 1 // right-associative
	}
	p.next()
	right := p.parseExpression(nextPrec)
	return &fir.BinaryExpr{Base: fir.NewBase(fir.RangeOf(tok, p.cur)), Op: op, Lhs: left, Rhs: right}
}

func (p *Parser) parseLogicalExpr(left fir.Expr) fir.Expr {
	tok := p.cur
	op := tok.Kind
	prec := p.curPrecedence()
	p.next()
	right := p.parseExpression(prec)
	return &fir.LogicalExpr{Base: fir.NewBase(fir.RangeOf(tok, p.cur)), Op: op, Lhs: left, Rhs: right}
}

func (p *Parser) parseEqExpr(left fir.Expr) fir.Expr {
	tok := p.cur
	op := tok.Kind
	p.next()
	right := p.parseExpression(EQUALITY)
	if eq, ok := left.(*fir.EqExpr); ok {
		eq.Operands = append(eq.Operands, right)
		eq.Ops = append(eq.Ops, op)
		eq.Rng.LineEnd, eq.Rng.ColEnd = p.cur.EndLine, p.cur.EndCol
		return eq
	}
	return &fir.EqExpr{
		Base:     fir.NewBase(fir.RangeOf(tok, p.cur)),
		Operands: []fir.Expr{left, right},
		Ops:      []token.Kind{op},
	}
}

func (p *Parser) parseTransposeExpr(left fir.Expr) fir.Expr {
	tok := p.cur
	return &fir.TransposeExpr{Base: fir.NewBase(fir.RangeOf(tok, tok)), X: left}
}

func (p *Parser) parseTensorReadExpr(left fir.Expr) fir.Expr {
	startTok := p.cur
	var indices []fir.Expr
	if !p.peekIs(token.RBRACKET) {
		p.next()
		indices = append(indices, p.parseExpression(LOWEST))
		for p.peekIs(token.COMMA) {
			p.next()
			p.next()
			indices = append(indices, p.parseExpression(LOWEST))
		}
	}
	p.expect(token.RBRACKET)
	return &fir.TensorReadExpr{Base: fir.NewBase(fir.RangeOf(startTok, p.cur)), Target: left, Indices: indices}
}

func (p *Parser) parseGroupedExpr() fir.Expr {
	p.next()
	e := p.parseExpression(LOWEST)
	p.expect(token.RPAREN)
	return e
}

// ---- map / load / intersection ----

func (p *Parser) parseMapExpr() fir.Expr {
	tok := p.cur
	if !p.expect(token.LPAREN) {
		return nil
	}
	if !p.expect(token.IDENT) {
		return nil
	}
	fn := p.cur.Lexeme
	var args []fir.Expr
	for p.peekIs(token.COMMA) {
		p.next()
		p.next()
		args = append(args, p.parseExpression(LOWEST))
	}
	p.expect(token.RPAREN)
	return &fir.MapExpr{Base: fir.NewBase(fir.RangeOf(tok, p.cur)), Func: fn, Args: args}
}

func (p *Parser) parseLoadExpr() fir.Expr {
	tok := p.cur
	if !p.expect(token.LPAREN) {
		return nil
	}
	p.next()
	file := p.parseExpression(LOWEST)
	p.expect(token.RPAREN)
	return &fir.EdgeSetLoadExpr{Base: fir.NewBase(fir.RangeOf(tok, p.cur)), File: file}
}

func (p *Parser) parseIntersectionExpr() fir.Expr {
	tok := p.cur
	if !p.expect(token.LPAREN) {
		return nil
	}
	p.next()
	lhs := p.parseExpression(LOWEST)
	p.expect(token.COMMA)
	p.next()
	rhs := p.parseExpression(LOWEST)
	p.expect(token.RPAREN)
	return &fir.IntersectionExpr{Base: fir.NewBase(fir.RangeOf(tok, p.cur)), Lhs: lhs, Rhs: rhs}
}

// ---- new (allocators) ----

func (p *Parser) parseNewExpr() fir.Expr {
	tok := p.cur
	p.next()
	switch p.cur.Kind {
	case token.VERTEXSET:
		return p.parseVertexSetAlloc(tok)
	case token.LIST:
		return p.parseListAlloc(tok)
	case token.VECTOR:
		return p.parseVectorAlloc(tok)
	case token.PRIORITYQUEUE:
		return p.parsePriorityQueueAlloc(tok)
	default:
		p.addError(diagnostics.NewParser(diagnostics.ErrBadAllocator, p.cur, p.cur.Lexeme))
		return nil
	}
}

func (p *Parser) parseVertexSetAlloc(newTok token.Token) fir.Expr {
	if !p.expect(token.LBRACE) {
		return nil
	}
	if !p.expect(token.IDENT) {
		return nil
	}
	elt := p.cur.Lexeme
	if !p.expect(token.RBRACE) {
		return nil
	}
	if !p.expect(token.LPAREN) {
		return nil
	}
	var count fir.Expr
	if !p.peekIs(token.RPAREN) {
		p.next()
		count = p.parseExpression(LOWEST)
	}
	p.expect(token.RPAREN)
	return &fir.VertexSetAllocExpr{Base: fir.NewBase(fir.RangeOf(newTok, p.cur)), ElementType: elt, NumElements: count}
}

func (p *Parser) parseListAlloc(newTok token.Token) fir.Expr {
	if !p.expect(token.LBRACE) {
		return nil
	}
	p.next()
	elemTy := p.parseType()
	if !p.expect(token.RBRACE) {
		return nil
	}
	if !p.expect(token.LPAREN) {
		return nil
	}
	var count fir.Expr
	if !p.peekIs(token.RPAREN) {
		p.next()
		count = p.parseExpression(LOWEST)
	}
	p.expect(token.RPAREN)
	return &fir.ListAllocExpr{Base: fir.NewBase(fir.RangeOf(newTok, p.cur)), ElemType: elemTy, NumElements: count}
}

func (p *Parser) parseVectorAlloc(newTok token.Token) fir.Expr {
	if !p.expect(token.LBRACKET) {
		return nil
	}
	var idxSets []fir.Expr
	if !p.peekIs(token.RBRACKET) {
		p.next()
		idxSets = append(idxSets, p.parseExpression(LOWEST))
		for p.peekIs(token.COMMA) {
			p.next()
			p.next()
			idxSets = append(idxSets, p.parseExpression(LOWEST))
		}
	}
	p.expect(token.RBRACKET)
	if !p.expect(token.LBRACE) {
		return nil
	}
	p.next()
	elemTy := p.parseType()
	if !p.expect(token.RBRACE) {
		return nil
	}
	if !p.expect(token.LPAREN) {
		return nil
	}
	var init fir.Expr
	if !p.peekIs(token.RPAREN) {
		p.next()
		init = p.parseExpression(LOWEST)
	}
	p.expect(token.RPAREN)
	return &fir.VectorAllocExpr{Base: fir.NewBase(fir.RangeOf(newTok, p.cur)), IndexSets: idxSets, ElemType: elemTy, InitValue: init}
}

func (p *Parser) parsePriorityQueueAlloc(newTok token.Token) fir.Expr {
	if !p.expect(token.LBRACE) {
		return nil
	}
	if !p.expect(token.IDENT) {
		return nil
	}
	elt := p.cur.Lexeme
	if !p.expect(token.RBRACE) {
		return nil
	}
	if !p.expect(token.LPAREN) {
		return nil
	}
	p.next()
	prio := p.parseType()
	p.expect(token.RPAREN)

	ap := &fir.PriorityQueueAllocExpr{ElementType: elt, PriorityType: prio}
	if p.peekIs(token.LPAREN) {
		p.next()
		slots := []*fir.Expr{
			&ap.DupWithin, &ap.DupAcross, &ap.VectorFunction,
			&ap.BucketOrdering, &ap.PriorityOrdering, &ap.InitBucket, &ap.StartNode,
		}
		if !p.peekIs(token.RPAREN) {
			p.next()
			*slots[0] = p.parseExpression(LOWEST)
			for i := 1; i < len(slots) && p.peekIs(token.COMMA); i++ {
				p.next()
				p.next()
				*slots[i] = p.parseExpression(LOWEST)
			}
		}
		p.expect(token.RPAREN)
	}
	ap.Base = fir.NewBase(fir.RangeOf(newTok, p.cur))
	return ap
}

// ---- method-chain dispatch: from/to/apply*/where/filter/method/field ----

func (p *Parser) parseChainExpr(left fir.Expr) fir.Expr {
	dotTok := p.cur
	// The chain vocabulary (from, apply, where, ...) lexes as keyword
	// tokens rather than IDENT, so accept those names here as well.
	switch p.peek.Kind {
	case token.FROM, token.TO, token.SRC_FILTER, token.DST_FILTER,
		token.APPLY, token.APPLY_MODIFIED, token.APPLY_UPDATE_PRIORITY,
		token.APPLY_UPDATE_PRIORITY_EXTERN, token.WHERE, token.FILTER:
		p.next()
	default:
		if !p.expect(token.IDENT) {
			return left
		}
	}
	name := p.cur.Lexeme

	switch name {
	case "from", "srcFilter":
		return p.parseFromCall(left)
	case "to", "dstFilter":
		return p.parseToCall(left)
	case "apply":
		return p.parseApplyCall(left, dotTok, fir.RegularApply)
	case "applyModified":
		return p.parseApplyModifiedCall(left, dotTok)
	case "applyUpdatePriority":
		return p.parseApplyCall(left, dotTok, fir.UpdatePriorityApply)
	case "applyUpdatePriorityExtern":
		return p.parseApplyCall(left, dotTok, fir.UpdatePriorityExternApply)
	case "where", "filter":
		return p.parseWhereCall(left, dotTok)
	}

	idTok := p.cur
	if p.peekIs(token.LPAREN) {
		p.next()
		args := p.parseArgList(token.RPAREN)
		p.expect(token.RPAREN)
		fn := name
		if config.IsIntrinsic(name) {
			fn = config.QualifyIntrinsic(name)
		}
		if p.syms.IsFunction(name) {
			args = append([]fir.Expr{left}, args...)
			return &fir.CallExpr{Base: fir.NewBase(fir.RangeOf(dotTok, p.cur)), Func: fn, Args: args}
		}
		return &fir.MethodCallExpr{Base: fir.NewBase(fir.RangeOf(dotTok, p.cur)), Receiver: left, Method: fn, Args: args}
	}

	return &fir.FieldReadExpr{Base: fir.NewBase(fir.RangeOf(dotTok, idTok)), Target: left, Field: name}
}

func (p *Parser) parseIdentArg() string {
	if !p.expect(token.LPAREN) {
		return ""
	}
	if !p.expect(token.IDENT) {
		return ""
	}
	name := p.cur.Lexeme
	p.expect(token.RPAREN)
	return name
}

func (p *Parser) parseFromCall(left fir.Expr) fir.Expr {
	start := p.cur
	name := p.parseIdentArg()
	p.chain.from = &fir.FromExpr{Base: fir.NewBase(fir.RangeOf(start, p.cur)), InputFunc: name}
	return left
}

func (p *Parser) parseToCall(left fir.Expr) fir.Expr {
	start := p.cur
	name := p.parseIdentArg()
	p.chain.to = &fir.ToExpr{Base: fir.NewBase(fir.RangeOf(start, p.cur)), InputFunc: name}
	return left
}

func (p *Parser) attachChain(ap *fir.ApplyExpr) {
	if p.chain == nil {
		return
	}
	ap.FromExpr = p.chain.from
	ap.ToExpr = p.chain.to
	p.chain.from = nil
	p.chain.to = nil
}

func (p *Parser) parseApplyCall(left fir.Expr, dotTok token.Token, kind fir.ApplyKind) fir.Expr {
	if !p.expect(token.LPAREN) {
		return left
	}
	if !p.expect(token.IDENT) {
		return left
	}
	fn := p.cur.Lexeme
	p.expect(token.RPAREN)
	ap := &fir.ApplyExpr{
		Base:          fir.NewBase(fir.RangeOf(dotTok, p.cur)),
		Target:        left,
		Type:          kind,
		InputFunction: fn,
	}
	p.attachChain(ap)
	return ap
}

func (p *Parser) parseApplyModifiedCall(left fir.Expr, dotTok token.Token) fir.Expr {
	if !p.expect(token.LPAREN) {
		return left
	}
	if !p.expect(token.IDENT) {
		return left
	}
	fn := p.cur.Lexeme
	if !p.expect(token.COMMA) {
		return left
	}
	if !p.expect(token.IDENT) {
		return left
	}
	field := p.cur.Lexeme
	disableDedup := false
	if p.peekIs(token.COMMA) {
		p.next()
		if p.peekIs(token.TRUE) || p.peekIs(token.FALSE) {
			p.next()
			disableDedup = p.cur.Kind == token.TRUE
		} else {
			p.addError(diagnostics.NewParser(diagnostics.ErrBadApplyThirdArg, p.peek, p.peek.Lexeme))
		}
	}
	p.expect(token.RPAREN)
	ap := &fir.ApplyExpr{
		Base:                 fir.NewBase(fir.RangeOf(dotTok, p.cur)),
		Target:               left,
		Type:                 fir.RegularApply,
		InputFunction:        fn,
		ChangeTrackingField:  field,
		HasChangeTracking:    true,
		DisableDeduplication: disableDedup,
	}
	p.attachChain(ap)
	return ap
}

func (p *Parser) parseWhereCall(left fir.Expr, dotTok token.Token) fir.Expr {
	if !p.expect(token.LPAREN) {
		return left
	}
	if !p.expect(token.IDENT) {
		return left
	}
	pred := p.cur.Lexeme
	p.expect(token.RPAREN)
	return &fir.WhereExpr{Base: fir.NewBase(fir.RangeOf(dotTok, p.cur)), Target: left, Pred: pred}
}
