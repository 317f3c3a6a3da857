package main

import (
	"github.com/serotonin-lang/serotonin/internal/autoperm"
)

// A macroFunc receives the raw text between the braces of a `{...} name!`
// invocation, whitespace preserved, and returns the terms to splice in its
// place.
type macroFunc func(input string) ([]term, error)

// The macro registry is a closed set; adding a handler means rebuilding
// the compiler.
var macros = map[string]macroFunc{
	"autoperm": macroAutoperm,
}

// macroAutoperm turns a stack effect diagram such as {a b c -- b c a} into
// a Brainfuck block that shuffles the top of the stack accordingly.
func macroAutoperm(input string) ([]term, error) {
	code, err := autoperm.BF(input)
	if err != nil {
		return nil, err
	}
	return []term{{kind: termBF, text: code}}, nil
}
