package parser

import (
	"github.com/funvibe/graphitc/internal/diagnostics"
	"github.com/funvibe/graphitc/internal/fir"
	"github.com/funvibe/graphitc/internal/token"
)

var scalarTypeNames = map[token.Kind]bool{
	token.INT: true, token.UINT: true, token.UINT64: true, token.FLOAT: true,
	token.DOUBLE: true, token.BOOLT: true, token.COMPLEX: true, token.STRINGT: true,
}

// parseType parses a type expression starting at p.cur, leaving cur on
// the type's own final token.
func (p *Parser) parseType() fir.Type {
	tok := p.cur

	if scalarTypeNames[tok.Kind] {
		return &fir.ScalarType{Base: fir.NewBase(fir.RangeOfOne(tok)), Name: tok.Lexeme}
	}

	switch tok.Kind {
	case token.VERTEXSET:
		return p.parseVertexSetType(tok)
	case token.EDGESET:
		return p.parseEdgeSetType(tok)
	case token.LIST:
		return p.parseListTypeNode(tok)
	case token.VECTOR, token.MATRIX:
		return p.parseTensorType(tok)
	case token.PRIORITYQUEUE:
		return p.parsePriorityQueueType(tok)
	case token.SET:
		return p.parseSetType(tok)
	case token.GRID:
		return p.parseGridType(tok)
	case token.LPAREN:
		return p.parseTupleTypeLiteral(tok)
	case token.IDENT:
		if p.syms.IsTuple(tok.Lexeme) {
			return &fir.TupleType{Base: fir.NewBase(fir.RangeOfOne(tok)), Name: tok.Lexeme}
		}
		return &fir.ElementType{Base: fir.NewBase(fir.RangeOfOne(tok)), Name: tok.Lexeme}
	default:
		p.addError(diagnostics.NewParser(diagnostics.ErrBadType, tok, tok.Lexeme))
		return &fir.OpaqueType{Base: fir.NewBase(fir.RangeOfOne(tok)), Name: tok.Lexeme}
	}
}

func (p *Parser) parseVertexSetType(tok token.Token) fir.Type {
	if !p.expect(token.LBRACE) {
		return &fir.OpaqueType{Base: fir.NewBase(fir.RangeOfOne(tok)), Name: "vertexset"}
	}
	if !p.expect(token.IDENT) {
		return &fir.OpaqueType{Base: fir.NewBase(fir.RangeOfOne(tok)), Name: "vertexset"}
	}
	elt := p.cur.Lexeme
	p.expect(token.RBRACE)
	return &fir.VertexSetType{Base: fir.NewBase(fir.RangeOf(tok, p.cur)), ElementType: elt}
}

func (p *Parser) parseEdgeSetType(tok token.Token) fir.Type {
	if !p.expect(token.LBRACE) {
		return &fir.OpaqueType{Base: fir.NewBase(fir.RangeOfOne(tok)), Name: "edgeset"}
	}
	if !p.expect(token.IDENT) {
		return &fir.OpaqueType{Base: fir.NewBase(fir.RangeOfOne(tok)), Name: "edgeset"}
	}
	src := p.cur.Lexeme
	if !p.expect(token.COMMA) {
		return &fir.OpaqueType{Base: fir.NewBase(fir.RangeOfOne(tok)), Name: "edgeset"}
	}
	if !p.expect(token.IDENT) {
		return &fir.OpaqueType{Base: fir.NewBase(fir.RangeOfOne(tok)), Name: "edgeset"}
	}
	dst := p.cur.Lexeme
	p.expect(token.RBRACE)

	var weight fir.Type
	if p.peekIs(token.LPAREN) {
		p.next()
		p.next()
		weight = p.parseType()
		p.expect(token.RPAREN)
	}
	return &fir.EdgeSetType{
		Base:           fir.NewBase(fir.RangeOf(tok, p.cur)),
		SrcElementType: src,
		DstElementType: dst,
		WeightType:     weight,
	}
}

func (p *Parser) parseListTypeNode(tok token.Token) fir.Type {
	if !p.expect(token.LBRACE) {
		return &fir.OpaqueType{Base: fir.NewBase(fir.RangeOfOne(tok)), Name: "list"}
	}
	p.next()
	elem := p.parseType()
	p.expect(token.RBRACE)
	return &fir.ListType{Base: fir.NewBase(fir.RangeOf(tok, p.cur)), ElemType: elem}
}

// parseTensorType covers vector{Elt}, vector[Idx]{Elt}, and
// matrix[Idx1, Idx2]{Elt} — all shapes of fir.NDTensorType distinguished
// only by how many index sets they carry.
func (p *Parser) parseTensorType(tok token.Token) fir.Type {
	var idxSets []fir.Type
	if p.peekIs(token.LBRACKET) {
		p.next()
		if !p.peekIs(token.RBRACKET) {
			p.next()
			idxSets = append(idxSets, p.parseType())
			for p.peekIs(token.COMMA) {
				p.next()
				p.next()
				idxSets = append(idxSets, p.parseType())
			}
		}
		p.expect(token.RBRACKET)
	}
	var elem fir.Type
	if !p.expect(token.LBRACE) {
		return &fir.NDTensorType{Base: fir.NewBase(fir.RangeOf(tok, p.cur)), IndexSets: idxSets}
	}
	p.next()
	elem = p.parseType()
	p.expect(token.RBRACE)
	return &fir.NDTensorType{Base: fir.NewBase(fir.RangeOf(tok, p.cur)), IndexSets: idxSets, ElementType: elem}
}

func (p *Parser) parsePriorityQueueType(tok token.Token) fir.Type {
	if !p.expect(token.LBRACE) {
		return &fir.OpaqueType{Base: fir.NewBase(fir.RangeOfOne(tok)), Name: "priority_queue"}
	}
	if !p.expect(token.IDENT) {
		return &fir.OpaqueType{Base: fir.NewBase(fir.RangeOfOne(tok)), Name: "priority_queue"}
	}
	elt := p.cur.Lexeme
	p.expect(token.RBRACE)
	return &fir.PriorityQueueType{Base: fir.NewBase(fir.RangeOf(tok, p.cur)), ElementType: elt}
}

func (p *Parser) parseSetType(tok token.Token) fir.Type {
	if !p.expect(token.LBRACE) {
		return &fir.OpaqueType{Base: fir.NewBase(fir.RangeOfOne(tok)), Name: "set"}
	}
	var elems []fir.Type
	p.next()
	elems = append(elems, p.parseType())
	for p.peekIs(token.COMMA) {
		p.next()
		p.next()
		elems = append(elems, p.parseType())
	}
	p.expect(token.RBRACE)
	return &fir.SetType{Base: fir.NewBase(fir.RangeOf(tok, p.cur)), ElemTypes: elems}
}

func (p *Parser) parseGridType(tok token.Token) fir.Type {
	if !p.expect(token.LBRACKET) {
		return &fir.OpaqueType{Base: fir.NewBase(fir.RangeOfOne(tok)), Name: "grid"}
	}
	var dims []fir.Expr
	if !p.peekIs(token.RBRACKET) {
		p.next()
		dims = append(dims, p.parseExpression(LOWEST))
		for p.peekIs(token.COMMA) {
			p.next()
			p.next()
			dims = append(dims, p.parseExpression(LOWEST))
		}
	}
	p.expect(token.RBRACKET)
	return &fir.GridType{Base: fir.NewBase(fir.RangeOf(tok, p.cur)), Dims: dims}
}

// parseTupleTypeLiteral covers both unnamed tuples, `(int, int)`, and
// named-field tuples, `(x: int, y: int)`.
func (p *Parser) parseTupleTypeLiteral(tok token.Token) fir.Type {
	var fields []fir.TupleField
	if !p.peekIs(token.RPAREN) {
		p.next()
		fields = append(fields, p.parseTupleField())
		for p.peekIs(token.COMMA) {
			p.next()
			p.next()
			fields = append(fields, p.parseTupleField())
		}
	}
	p.expect(token.RPAREN)
	return &fir.TupleType{Base: fir.NewBase(fir.RangeOf(tok, p.cur)), Fields: fields}
}

func (p *Parser) parseTupleField() fir.TupleField {
	if p.curIs(token.IDENT) && p.peekIs(token.COLON) {
		name := p.cur.Lexeme
		p.next()
		p.next()
		ty := p.parseType()
		return fir.TupleField{Name: name, Ty: ty}
	}
	ty := p.parseType()
	return fir.TupleField{Ty: ty}
}
