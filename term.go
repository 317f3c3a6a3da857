package main

import (
	"fmt"
	"strings"
)

// A term is one element of the working sequence that reduction rewrites.
// Terms share a single tagged record; the kind selects which fields are
// meaningful.
type termKind uint8

const (
	termNum    termKind = iota // b: an integer literal 0-255
	termChar                   // b: a character literal, same value semantics as termNum
	termString                 // text: a run of bytes, expanded during reduction
	termBF                     // text: a verbatim Brainfuck fragment, the only terminal form
	termCall                   // text: an unresolved reference to a rule
	termQuot                   // body: a bracketed sub-program; bf once compiled
	termMacro                  // name, text: a macro invocation with raw input
)

type term struct {
	kind termKind
	b    byte
	text string
	name string
	body []term

	// bf holds the compiled fragment of a termQuot once the quotation
	// pre-pass has run.  fromQuot marks a termBF that a generation rule
	// produced rather than a backtick block.
	bf       string
	fromQuot bool

	pos Pos
}

func (t term) isByte() bool { return t.kind == termNum || t.kind == termChar }

// isQuotish reports whether t can satisfy a quotation constraint: a real
// quotation, or a Brainfuck fragment standing in for one.
func (t term) isQuotish() bool { return t.kind == termQuot || t.kind == termBF }

// quotBF is the Brainfuck text a quotation-like value contributes.
func (t term) quotBF() string {
	if t.kind == termQuot {
		return t.bf
	}
	return t.text
}

func (t term) String() string {
	switch t.kind {
	case termNum:
		return fmt.Sprintf("%d", t.b)
	case termChar:
		return fmt.Sprintf("%q", rune(t.b))
	case termString:
		return fmt.Sprintf("%q", t.text)
	case termBF:
		return "`" + t.text + "`"
	case termCall:
		return t.text
	case termQuot:
		return "[" + termsString(t.body) + "]"
	case termMacro:
		return "{" + t.text + "} " + t.name + "!"
	}
	return "?"
}

func termsString(ts []term) string {
	parts := make([]string, len(ts))
	for i, t := range ts {
		parts[i] = t.String()
	}
	return strings.Join(parts, " ")
}

// termsEqual is structural equality over parsed bodies, used for exact
// quotation constraints.  Positions and compiled fragments are ignored, so
// two quotations that spell the same program compare equal regardless of
// where they were written.
func termsEqual(a, b []term) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if !termEqual(a[i], b[i]) {
			return false
		}
	}
	return true
}

func termEqual(a, b term) bool {
	if a.kind != b.kind {
		return false
	}
	switch a.kind {
	case termNum, termChar:
		return a.b == b.b
	case termString, termBF, termCall:
		return a.text == b.text
	case termQuot:
		return termsEqual(a.body, b.body)
	case termMacro:
		return a.name == b.name && a.text == b.text
	}
	return false
}

// valueShape renders the values to the left of a failed call site for
// diagnostics.
func valueShape(vals []term) string {
	parts := make([]string, len(vals))
	for i, v := range vals {
		switch {
		case v.isByte():
			parts[i] = fmt.Sprintf("byte:%d", v.b)
		case v.kind == termQuot:
			parts[i] = "quot"
		case v.kind == termBF:
			parts[i] = "bf"
		default:
			parts[i] = v.String()
		}
	}
	return "(" + strings.Join(parts, " ") + ")"
}
