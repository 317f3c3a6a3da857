package main

import (
	"fmt"
	"strings"
)

// bfOps is the full Brainfuck instruction set.  Every terminal fragment the
// compiler handles is drawn from these eight characters.
const bfOps = "+-<>[].,"

// cleanBF strips insignificant whitespace from a fragment and rejects
// anything else that is not a Brainfuck instruction.  Backtick blocks and
// generation-rule output both pass through here.
func cleanBF(text string) (string, error) {
	var sb strings.Builder
	for i := 0; i < len(text); i++ {
		c := text[i]
		if isSpace(c) {
			continue
		}
		if strings.IndexByte(bfOps, c) < 0 {
			return "", fmt.Errorf("%q is not a brainfuck instruction", c)
		}
		sb.WriteByte(c)
	}
	return sb.String(), nil
}

// emit concatenates a fully-reduced term sequence into Brainfuck text.
// A byte value pushes one cell right and increments it into place; string
// runs were expanded during reduction but are handled here the same way
// for completeness.
func emit(seq []term) (string, error) {
	var sb strings.Builder
	for _, t := range seq {
		switch t.kind {
		case termBF:
			sb.WriteString(t.text)
		case termQuot:
			sb.WriteString(t.bf)
		case termNum, termChar:
			sb.WriteByte('>')
			sb.WriteString(strings.Repeat("+", int(t.b)))
		case termString:
			sb.WriteByte('>')
			for i := len(t.text) - 1; i >= 0; i-- {
				sb.WriteByte('>')
				sb.WriteString(strings.Repeat("+", int(t.text[i])))
			}
		default:
			return "", fmt.Errorf("cannot emit unreduced term %v", t)
		}
	}
	return sb.String(), nil
}

// stripMoves removes the no-ops the generator likes to produce: a `>...<`
// pair wrapping the whole program, and adjacent pointer moves that cancel.
// Neither changes what the program computes on a fresh tape.
func stripMoves(code string) string {
	if strings.HasPrefix(code, ">") && strings.HasSuffix(code, "<") {
		code = code[1 : len(code)-1]
	}
	acc := make([]byte, 0, len(code))
	for i := 0; i < len(code); i++ {
		c := code[i]
		if n := len(acc); n > 0 {
			last := acc[n-1]
			if last == '>' && c == '<' || last == '<' && c == '>' {
				acc = acc[:n-1]
				continue
			}
		}
		acc = append(acc, c)
	}
	return string(acc)
}
