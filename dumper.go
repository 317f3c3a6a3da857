package main

import (
	"fmt"
	"io"

	"github.com/eaburns/pretty"
)

// A ruleSummary is the printable form of one table entry.
type ruleSummary struct {
	Head   string
	Params string
	Kind   string
	Body   string
}

// dumpRules renders the most recent compilation's rule table, including
// any specialisations staged evaluation registered along the way.
func (c *Compiler) dumpRules(w io.Writer) {
	rt := c.lastRules
	if rt == nil {
		fmt.Fprintln(w, "no rules: nothing has been compiled")
		return
	}
	for _, name := range rt.names() {
		defs := rt.lookup(name)
		sums := make([]ruleSummary, len(defs))
		for i, def := range defs {
			sums[i] = ruleSummary{
				Head:   def.head,
				Params: paramsString(def.params),
				Kind:   def.kind.String(),
				Body:   termsString(def.body),
			}
		}
		fmt.Fprintf(w, "%s %s\n", name, pretty.String(sums))
	}
}
