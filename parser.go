package main

import (
	"fmt"
	"strings"
)

// The parser turns a token stream into top-level items: IMPORT directives
// and rule definitions.  Bodies are parsed straight into term sequences;
// there is no separate syntax tree.
type parser struct {
	file string
	toks []token
	pos  int
}

type importStmt struct {
	names []string
	pos   Pos
}

type topItem struct {
	imp *importStmt
	def *ruleDef
}

func parseSource(file, src string) ([]topItem, error) {
	toks, err := lexAll(file, src)
	if err != nil {
		return nil, err
	}
	p := &parser{file: file, toks: toks}
	return p.items()
}

func (p *parser) cur() token  { return p.toks[p.pos] }
func (p *parser) next() token { tok := p.toks[p.pos]; p.pos++; return tok }

func (p *parser) errorf(pos Pos, format string, args ...interface{}) error {
	return &ParseError{Pos: pos, Msg: fmt.Sprintf(format, args...)}
}

func (p *parser) items() ([]topItem, error) {
	var items []topItem
	for p.cur().kind != tokEOF {
		if p.cur().kind == tokImport {
			imp, err := p.importStmt()
			if err != nil {
				return nil, err
			}
			items = append(items, topItem{imp: imp})
			continue
		}
		def, err := p.definition()
		if err != nil {
			return nil, err
		}
		items = append(items, topItem{def: def})
	}
	return items, nil
}

// importStmt parses `IMPORT name...;`.  Several libraries may be named in
// one directive.
func (p *parser) importStmt() (*importStmt, error) {
	imp := &importStmt{pos: p.next().pos}
	for p.cur().kind == tokIdent {
		imp.names = append(imp.names, p.next().text)
	}
	if len(imp.names) == 0 {
		return nil, p.errorf(p.cur().pos, "IMPORT wants at least one library name")
	}
	if p.cur().kind != tokSemi {
		return nil, p.errorf(p.cur().pos, "IMPORT must end with ;")
	}
	p.next()
	return imp, nil
}

// definition parses `head (constraints) kind body ;` where the constraint
// list is optional.
func (p *parser) definition() (*ruleDef, error) {
	head := p.next()
	if head.kind != tokIdent {
		return nil, p.errorf(head.pos, "expected a definition head, got %v", head.kind)
	}
	def := &ruleDef{head: head.text, pos: head.pos}

	if p.cur().kind == tokLParen {
		p.next()
		params, err := p.constraints()
		if err != nil {
			return nil, err
		}
		def.params = params
	}

	switch kind := p.next(); kind.kind {
	case tokDoubleEq:
		def.kind = ruleSubst
	case tokDoubleEqQuery:
		def.kind = ruleGen
	case tokDoubleEqBang:
		def.kind = ruleExec
	default:
		return nil, p.errorf(kind.pos, "expected ==, ==? or ==! after %v, got %v", def.head, kind.kind)
	}

	body, err := p.terms(tokSemi)
	if err != nil {
		return nil, err
	}
	def.body = body
	p.next() // the ;
	return def, nil
}

func (p *parser) constraints() ([]constraint, error) {
	var params []constraint
	for {
		tok := p.cur()
		switch tok.kind {
		case tokRParen:
			p.next()
			return params, nil
		case tokNumber:
			p.next()
			params = append(params, constraint{kind: conByteExact, b: tok.b})
		case tokAt:
			p.next()
			params = append(params, constraint{kind: conByteAny})
		case tokQuery:
			p.next()
			params = append(params, constraint{kind: conQuotAny})
		case tokIdent:
			p.next()
			switch {
			case len(tok.text) == 1 && tok.text[0] >= 'a' && tok.text[0] <= 'z':
				params = append(params, constraint{kind: conByteNamed, id: tok.text})
			case len(tok.text) == 1 && tok.text[0] >= 'A' && tok.text[0] <= 'Z':
				params = append(params, constraint{kind: conQuotNamed, id: tok.text})
			default:
				return nil, p.errorf(tok.pos, "constraint names are single letters, got %v", tok.text)
			}
		case tokLBracket:
			p.next()
			body, err := p.terms(tokRBracket)
			if err != nil {
				return nil, err
			}
			p.next() // the ]
			params = append(params, constraint{kind: conQuotExact, body: body})
		case tokEOF:
			return nil, p.errorf(tok.pos, "unclosed constraint list")
		default:
			return nil, p.errorf(tok.pos, "unexpected %v in constraint list", tok.kind)
		}
	}
}

// terms parses a body up to (not consuming) the stop token.
func (p *parser) terms(stop tokenKind) ([]term, error) {
	var body []term
	for {
		tok := p.cur()
		if tok.kind == stop {
			return body, nil
		}
		switch tok.kind {
		case tokNumber:
			p.next()
			body = append(body, term{kind: termNum, b: tok.b, pos: tok.pos})
		case tokCharLit:
			p.next()
			body = append(body, term{kind: termChar, b: tok.b, pos: tok.pos})
		case tokStringLit:
			p.next()
			body = append(body, term{kind: termString, text: tok.text, pos: tok.pos})
		case tokBFBlock:
			p.next()
			code, err := cleanBF(tok.text)
			if err != nil {
				return nil, p.errorf(tok.pos, "brainfuck block: %v", err)
			}
			body = append(body, term{kind: termBF, text: code, pos: tok.pos})
		case tokIdent:
			p.next()
			body = append(body, term{kind: termCall, text: tok.text, pos: tok.pos})
		case tokLBracket:
			p.next()
			inner, err := p.terms(tokRBracket)
			if err != nil {
				return nil, err
			}
			p.next() // the ]
			body = append(body, term{kind: termQuot, body: inner, pos: tok.pos})
		case tokMacroInput:
			p.next()
			name := p.cur()
			if name.kind != tokIdent || !strings.HasSuffix(name.text, "!") {
				return nil, p.errorf(name.pos, "macro input must be followed by a name!, got %v", name.kind)
			}
			p.next()
			body = append(body, term{
				kind: termMacro,
				name: strings.TrimSuffix(name.text, "!"),
				text: tok.text,
				pos:  tok.pos,
			})
		case tokEOF:
			if stop == tokRBracket {
				return nil, p.errorf(tok.pos, "unclosed quotation")
			}
			return nil, p.errorf(tok.pos, "definition must end with ;")
		default:
			return nil, p.errorf(tok.pos, "unexpected %v in a body", tok.kind)
		}
	}
}
