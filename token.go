package main

type tokenKind uint8

const (
	tokEOF tokenKind = iota
	tokIdent
	tokNumber
	tokCharLit
	tokStringLit
	tokBFBlock
	tokMacroInput
	tokImport
	tokDoubleEq      // ==
	tokDoubleEqQuery // ==?
	tokDoubleEqBang  // ==!
	tokSemi
	tokLParen
	tokRParen
	tokLBracket
	tokRBracket
	tokAt
	tokQuery
)

var tokenNames = [...]string{
	tokEOF:           "end of input",
	tokIdent:         "identifier",
	tokNumber:        "number",
	tokCharLit:       "character literal",
	tokStringLit:     "string literal",
	tokBFBlock:       "brainfuck block",
	tokMacroInput:    "macro input",
	tokImport:        "IMPORT",
	tokDoubleEq:      "==",
	tokDoubleEqQuery: "==?",
	tokDoubleEqBang:  "==!",
	tokSemi:          ";",
	tokLParen:        "(",
	tokRParen:        ")",
	tokLBracket:      "[",
	tokRBracket:      "]",
	tokAt:            "@",
	tokQuery:         "?",
}

func (k tokenKind) String() string {
	if int(k) < len(tokenNames) {
		return tokenNames[k]
	}
	return "invalid token"
}

// A token carries its decoded payload: identifier text, string bytes, raw
// macro input or Brainfuck code in text, a number or character value in b.
type token struct {
	kind tokenKind
	text string
	b    byte
	pos  Pos
}
