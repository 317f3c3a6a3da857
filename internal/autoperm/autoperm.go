// Package autoperm generates Brainfuck that rearranges the top of the
// stack according to a stack effect diagram such as `a b c -- b c a`.
// Inputs may be dropped or duplicated; the generated code contains only
// cell and pointer operations, never input or output.
package autoperm

import (
	"fmt"
	"strings"
)

// BF compiles a diagram into a shuffling Brainfuck block.
//
// Cells are addressed relative to the deepest input: inputs occupy cells
// 0..n-1 with the data pointer starting on the top input, outputs end up
// in cells 0..m-1 with the pointer on the new top.  Each input is first
// parked in a scratch cell above the working area, then moved or copied
// into its output slots.  Scratch and destination cells above the original
// stack may hold garbage and are cleared before use.
func BF(diagram string) (string, error) {
	inputs, outputs, err := parse(diagram)
	if err != nil {
		return "", err
	}

	n, m := len(inputs), len(outputs)
	index := make(map[string]int, n)
	for i, name := range inputs {
		index[name] = i
	}
	uses := make([]int, n)
	for _, name := range outputs {
		i, ok := index[name]
		if !ok {
			return "", fmt.Errorf("autoperm: %q is not an input", name)
		}
		uses[i]++
	}

	base := n
	if m > base {
		base = m
	}
	scratch := func(i int) int { return base + i }
	tmp := base + n

	g := gen{cur: n - 1}

	// Cells above the original stack top may be dirty.
	for at := n; at <= tmp; at++ {
		g.clear(at)
	}
	// Park every input above the working area.
	for i := n - 1; i >= 0; i-- {
		g.moveVal(i, scratch(i))
	}
	// Fill the output slots deepest first.
	for k, name := range outputs {
		i := index[name]
		uses[i]--
		if uses[i] == 0 {
			g.moveVal(scratch(i), k)
		} else {
			g.copyVal(scratch(i), k, tmp)
		}
	}
	// Dropped inputs are still parked; clear them.
	for i, name := range inputs {
		if !used(outputs, name) {
			g.clear(scratch(i))
		}
	}
	g.moveTo(m - 1)

	return g.sb.String(), nil
}

func used(outputs []string, name string) bool {
	for _, o := range outputs {
		if o == name {
			return true
		}
	}
	return false
}

func parse(diagram string) (inputs, outputs []string, err error) {
	fields := strings.Fields(diagram)
	sep := -1
	for i, f := range fields {
		if f == "--" {
			if sep >= 0 {
				return nil, nil, fmt.Errorf("autoperm: more than one -- in %q", diagram)
			}
			sep = i
		}
	}
	if sep < 0 {
		return nil, nil, fmt.Errorf("autoperm: missing -- in %q", diagram)
	}
	inputs, outputs = fields[:sep], fields[sep+1:]
	seen := make(map[string]bool, len(inputs))
	for _, name := range inputs {
		if seen[name] {
			return nil, nil, fmt.Errorf("autoperm: duplicate input %q", name)
		}
		seen[name] = true
	}
	return inputs, outputs, nil
}

// gen emits instructions while tracking the data pointer's cell.
type gen struct {
	sb  strings.Builder
	cur int
}

func (g *gen) moveTo(at int) {
	for g.cur < at {
		g.sb.WriteByte('>')
		g.cur++
	}
	for g.cur > at {
		g.sb.WriteByte('<')
		g.cur--
	}
}

func (g *gen) clear(at int) {
	g.moveTo(at)
	g.sb.WriteString("[-]")
}

// moveVal drains from into to, which must already be clear.
func (g *gen) moveVal(from, to int) {
	g.moveTo(from)
	g.sb.WriteByte('[')
	g.sb.WriteByte('-')
	g.moveTo(to)
	g.sb.WriteByte('+')
	g.moveTo(from)
	g.sb.WriteByte(']')
}

// copyVal adds from's value into to while preserving from, bouncing
// through the clear cell tmp.
func (g *gen) copyVal(from, to, tmp int) {
	g.moveTo(from)
	g.sb.WriteByte('[')
	g.sb.WriteByte('-')
	g.moveTo(to)
	g.sb.WriteByte('+')
	g.moveTo(tmp)
	g.sb.WriteByte('+')
	g.moveTo(from)
	g.sb.WriteByte(']')
	g.moveVal(tmp, from)
}
