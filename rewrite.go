package main

import (
	"github.com/serotonin-lang/serotonin/internal/bf"
)

// A compilation holds the state of one compile: the rule table and the
// specialisation cache, both append-only until the output is emitted, plus
// the shared step counter that bounds reduction.
type compilation struct {
	c      *Compiler
	rules  ruleTable
	cache  map[string]*ruleDef
	steps  int
	nextID int
}

func newCompilation(c *Compiler) *compilation {
	return &compilation{c: c, cache: make(map[string]*ruleDef)}
}

func (comp *compilation) install(def *ruleDef) {
	def.id = comp.nextID
	comp.nextID++
	comp.rules.add(def.head, def)
}

func (c *Compiler) compile(dir, name, source string) (string, error) {
	ld := c.newLoader(dir)
	defs, err := ld.load(name, source)
	if err != nil {
		return "", err
	}

	comp := newCompilation(c)
	for _, def := range defs {
		comp.install(def)
	}
	c.lastRules = &comp.rules

	if len(comp.rules.lookup("main")) == 0 {
		return "", errNoMain
	}
	terminals, err := comp.reduce([]term{{kind: termCall, text: "main"}}, make(map[int]bool))
	if err != nil {
		return "", err
	}
	code, err := emit(terminals)
	if err != nil {
		return "", err
	}
	if c.optimize {
		code = stripMoves(code)
	}
	return code, nil
}

// A workItem is either a term awaiting reduction or, when finish is
// non-negative, a marker releasing a rule from the in-progress set once
// its spliced body has fully reduced.
type workItem struct {
	t      term
	finish int
}

// reduce rewrites a term sequence to terminals.  It sweeps a work stack
// depth-first, accumulating reduced values; a call site therefore always
// sees its predecessors fully reduced.  builds carries the rules currently
// being applied somewhere up the reduction: those are skipped during
// candidate selection, which is what lets a specialising rule mention its
// own name and have it resolve to an earlier, more general definition.
func (comp *compilation) reduce(seq []term, builds map[int]bool) ([]term, error) {
	work := make([]workItem, 0, len(seq))
	for i := len(seq) - 1; i >= 0; i-- {
		work = append(work, workItem{t: seq[i], finish: -1})
	}

	var vals []term
	for len(work) > 0 {
		comp.steps++
		if comp.steps > comp.c.stepLimit {
			return nil, errReductionOverflow
		}

		it := work[len(work)-1]
		work = work[:len(work)-1]
		if it.finish >= 0 {
			delete(builds, it.finish)
			continue
		}

		t := it.t
		switch t.kind {
		case termNum, termChar, termBF:
			vals = append(vals, t)

		case termString:
			// A string pushes its zero terminator first and its bytes in
			// reverse, leaving the first character on top so that sprint
			// can pop the text off in order.
			vals = append(vals, term{kind: termNum, pos: t.pos})
			for i := len(t.text) - 1; i >= 0; i-- {
				vals = append(vals, term{kind: termNum, b: t.text[i], pos: t.pos})
			}

		case termQuot:
			// The quotation pre-pass: compile the body in a fresh context
			// and annotate the value with its fragment.
			inner, err := comp.reduce(t.body, builds)
			if err != nil {
				return nil, err
			}
			code, err := emit(inner)
			if err != nil {
				return nil, err
			}
			t.bf = code
			vals = append(vals, t)

		case termMacro:
			fn := macros[t.name]
			if fn == nil {
				return nil, &MacroUnknownError{Pos: t.pos, Name: t.name}
			}
			out, err := fn(t.text)
			if err != nil {
				return nil, &MacroError{Pos: t.pos, Name: t.name, Err: err}
			}
			comp.c.logf("macro %v! -> %v", t.name, termsString(out))
			for i := len(out) - 1; i >= 0; i-- {
				work = append(work, workItem{t: out[i], finish: -1})
			}

		case termCall:
			var err error
			work, vals, err = comp.applyCall(t, work, vals, builds)
			if err != nil {
				return nil, err
			}
		}
	}
	return vals, nil
}

// applyCall resolves one call site.  Candidates are tested in reverse
// definition order so that later rules shadow earlier ones; the first
// whose constraints match the values to the left wins.
func (comp *compilation) applyCall(t term, work []workItem, vals []term, builds map[int]bool) ([]workItem, []term, error) {
	rs := comp.rules.lookup(t.text)
	if len(rs) == 0 {
		return nil, nil, &NoMatchError{Pos: t.pos, Name: t.text}
	}

	short := -1
	maxArity := 0
	sawFit := false
	for i := len(rs) - 1; i >= 0; i-- {
		r := rs[i]
		if builds[r.id] {
			continue
		}
		k := len(r.params)
		if k > maxArity {
			maxArity = k
		}
		if k > len(vals) {
			if short < 0 || k < short {
				short = k
			}
			continue
		}
		sawFit = true
		binds, ok := matchParams(r.params, vals[len(vals)-k:])
		if !ok {
			continue
		}

		comp.c.logf("apply %v%v %v at %v", r.head, paramsString(r.params), r.kind, t.pos)
		args := append([]term(nil), vals[len(vals)-k:]...)
		vals = vals[:len(vals)-k]

		if r.kind == ruleSubst {
			builds[r.id] = true
			work = append(work, workItem{finish: r.id})
			body := substTerms(r.body, binds, false)
			for j := len(body) - 1; j >= 0; j-- {
				work = append(work, workItem{t: body[j], finish: -1})
			}
			return work, vals, nil
		}

		out, err := comp.applyStaged(r, t, args, binds, builds)
		if err != nil {
			return nil, nil, err
		}
		vals = append(vals, out...)
		return work, vals, nil
	}

	if short >= 0 && !sawFit {
		return nil, nil, &ArityError{Pos: t.pos, Name: t.text, Want: short, Have: len(vals)}
	}
	n := maxArity
	if n > len(vals) {
		n = len(vals)
	}
	nm := &NoMatchError{Pos: t.pos, Name: t.text}
	if n > 0 {
		nm.Arity = n
		nm.Shape = valueShape(vals[len(vals)-n:])
	}
	return nil, nil, nm
}

// applyStaged evaluates a generation or execution rule: reduce the body
// with bindings in place, run the resulting program on the embedded
// interpreter, then splice the output back in as Brainfuck text (==?) or
// data bytes (==!).  The result is registered as a specialised rule under
// a mangled name and cached, so identical inputs never run twice.
func (comp *compilation) applyStaged(r *ruleDef, t term, args []term, binds map[string]term, builds map[int]bool) ([]term, error) {
	key := cacheKey(r.head, args)
	if sp := comp.cache[key]; sp != nil {
		comp.c.logf("cache hit %v", sp.head)
		return append([]term(nil), sp.body...), nil
	}

	builds[r.id] = true
	body := substTerms(r.body, binds, true)
	inner, err := comp.reduce(body, builds)
	delete(builds, r.id)
	if err != nil {
		return nil, err
	}
	prog, err := emit(inner)
	if err != nil {
		return nil, err
	}

	out, err := bf.Run(prog, nil, comp.c.fuel)
	if err != nil {
		return nil, &StagedError{Pos: t.pos, Name: r.head, Err: err}
	}
	comp.c.stagedRuns++

	var result []term
	if r.kind == ruleGen {
		code, err := cleanBF(string(out))
		if err != nil {
			return nil, &StagedError{Pos: t.pos, Name: r.head, Err: err}
		}
		result = []term{{kind: termBF, text: code, fromQuot: true, pos: t.pos}}
	} else {
		result = make([]term, len(out))
		for i, b := range out {
			result[i] = term{kind: termNum, b: b, pos: t.pos}
		}
	}

	sp := &ruleDef{
		head:   mangle(r.head, args),
		params: exactParams(args),
		kind:   ruleSubst,
		body:   result,
		pos:    r.pos,
	}
	comp.install(sp)
	// Register under the parent name too: the specialisation is later in
	// the table, so it wins over its generic parent on identical inputs.
	comp.rules.add(r.head, sp)
	comp.cache[key] = sp
	comp.c.logf("specialised %v -> %v (%v bytes)", r.head, sp.head, len(out))

	return append([]term(nil), result...), nil
}

// matchParams tests a constraint list against the values consumed by a
// call and collects named bindings.  Reusing a name within one list is an
// equality constraint: both positions must hold the same value.
func matchParams(params []constraint, args []term) (map[string]term, bool) {
	var binds map[string]term
	bind := func(id string, v term) bool {
		if prev, ok := binds[id]; ok {
			if prev.isByte() {
				return v.isByte() && prev.b == v.b
			}
			return v.isQuotish() && prev.quotBF() == v.quotBF()
		}
		if binds == nil {
			binds = make(map[string]term)
		}
		binds[id] = v
		return true
	}

	for i, p := range params {
		v := args[i]
		switch p.kind {
		case conByteAny:
			if !v.isByte() {
				return nil, false
			}
		case conByteExact:
			if !v.isByte() || v.b != p.b {
				return nil, false
			}
		case conByteNamed:
			if !v.isByte() || !bind(p.id, v) {
				return nil, false
			}
		case conQuotAny:
			if !v.isQuotish() {
				return nil, false
			}
		case conQuotNamed:
			if !v.isQuotish() || !bind(p.id, v) {
				return nil, false
			}
		case conQuotExact:
			if v.kind != termQuot || !termsEqual(v.body, p.body) {
				return nil, false
			}
		case conQuotExactBF:
			if !v.isQuotish() || v.quotBF() != p.bf {
				return nil, false
			}
		}
	}
	return binds, true
}

// substTerms replaces bound names in a rule body, descending into
// quotations.  In a staged body a bound quotation becomes a string of its
// compiled fragment, since the body's job is to print program text; in a
// substitution body the value is spliced as-is.
func substTerms(body []term, binds map[string]term, staged bool) []term {
	if len(binds) == 0 {
		return body
	}
	out := make([]term, 0, len(body))
	for _, t := range body {
		switch t.kind {
		case termCall:
			if v, ok := binds[t.text]; ok {
				out = append(out, bindValue(v, staged, t.pos))
				continue
			}
			out = append(out, t)
		case termQuot:
			nt := t
			nt.body = substTerms(t.body, binds, staged)
			out = append(out, nt)
		default:
			out = append(out, t)
		}
	}
	return out
}

func bindValue(v term, staged bool, pos Pos) term {
	if v.isByte() {
		return term{kind: termNum, b: v.b, pos: pos}
	}
	if staged {
		return term{kind: termString, text: v.quotBF(), pos: pos}
	}
	v.pos = pos
	return v
}
