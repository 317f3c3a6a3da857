package main

import (
	"fmt"
	"sort"
	"strings"
)

// A constraint is the pattern for one formal parameter of a rule.
type constraintKind uint8

const (
	conByteNamed  constraintKind = iota // id: matches any byte and binds it
	conByteAny                          // @: matches any byte, no binding
	conByteExact                        // b: matches that exact byte
	conQuotNamed                        // id: matches any quotation and binds it
	conQuotAny                          // ?: matches any quotation, no binding
	conQuotExact                        // body: structural match on the pre-reduction body
	conQuotExactBF                      // bf: specialisations pin a quotation by its compiled fragment
)

type constraint struct {
	kind constraintKind
	id   string
	b    byte
	body []term
	bf   string
}

func (p constraint) String() string {
	switch p.kind {
	case conByteNamed, conQuotNamed:
		return p.id
	case conByteAny:
		return "@"
	case conByteExact:
		return fmt.Sprintf("%d", p.b)
	case conQuotAny:
		return "?"
	case conQuotExact:
		return "[" + termsString(p.body) + "]"
	case conQuotExactBF:
		return "`" + p.bf + "`"
	}
	return "?"
}

func paramsString(params []constraint) string {
	if len(params) == 0 {
		return ""
	}
	parts := make([]string, len(params))
	for i, p := range params {
		parts[i] = p.String()
	}
	return "(" + strings.Join(parts, " ") + ")"
}

// The three rewrite kinds share the ruleDef record; the kind selects what
// happens after a successful match.
type ruleKind uint8

const (
	ruleSubst ruleKind = iota // ==  splice the body in place of the call
	ruleGen                   // ==? run the body, output is Brainfuck text
	ruleExec                  // ==! run the body, output is data bytes
)

func (k ruleKind) String() string {
	switch k {
	case ruleGen:
		return "==?"
	case ruleExec:
		return "==!"
	}
	return "=="
}

type ruleDef struct {
	id     int
	head   string
	params []constraint
	kind   ruleKind
	body   []term
	pos    Pos
}

func (r *ruleDef) String() string {
	head := r.head
	if ps := paramsString(r.params); ps != "" {
		head += " " + ps
	}
	return fmt.Sprintf("%v %v %v;", head, r.kind, termsString(r.body))
}

// ruleTable indexes rules by name in definition order.  Lookup returns the
// whole list; matching walks it from last to first so that later rules
// shadow earlier ones.  The table is append-only for the duration of a
// compilation: staged specialisations are inserted through the same add.
type ruleTable struct {
	rules map[string][]*ruleDef
}

func (rt *ruleTable) add(name string, r *ruleDef) {
	if rt.rules == nil {
		rt.rules = make(map[string][]*ruleDef)
	}
	rt.rules[name] = append(rt.rules[name], r)
}

func (rt *ruleTable) lookup(name string) []*ruleDef {
	return rt.rules[name]
}

func (rt *ruleTable) names() []string {
	names := make([]string, 0, len(rt.rules))
	for name := range rt.rules {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
