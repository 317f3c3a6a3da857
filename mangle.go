package main

import (
	"fmt"
	"hash/fnv"
	"strings"
)

// canonical serialises a tuple of bound inputs as kind-tagged bytes.
// Quotations contribute their compiled fragment, never object identity, so
// two structurally different quotations that compile to the same Brainfuck
// share a specialisation.
func canonical(args []term) string {
	var sb strings.Builder
	for _, a := range args {
		if a.isByte() {
			fmt.Fprintf(&sb, "b%d;", a.b)
		} else {
			fmt.Fprintf(&sb, "q%s;", a.quotBF())
		}
	}
	return sb.String()
}

// mangle synthesises the name of a specialisation: the parent name plus a
// stable hash of the bound inputs.  The same rule applied to the same
// inputs always mangles to the same name, which keeps compilation
// deterministic.
func mangle(name string, args []term) string {
	h := fnv.New64a()
	h.Write([]byte(canonical(args)))
	return fmt.Sprintf("%s__%x", name, h.Sum64())
}

// cacheKey identifies one (rule name, inputs) pairing in the
// specialisation cache.
func cacheKey(name string, args []term) string {
	return name + "\x00" + canonical(args)
}

// exactParams pins a specialisation to the inputs it was built from: bytes
// by value, quotations by compiled fragment.
func exactParams(args []term) []constraint {
	params := make([]constraint, len(args))
	for i, a := range args {
		if a.isByte() {
			params[i] = constraint{kind: conByteExact, b: a.b}
		} else {
			params[i] = constraint{kind: conQuotExactBF, bf: a.quotBF()}
		}
	}
	return params
}
