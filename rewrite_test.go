package main

import (
	"errors"
	"io/ioutil"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/serotonin-lang/serotonin/internal/bf"
	"github.com/serotonin-lang/serotonin/internal/logio"
)

// The rule dump includes specialisations registered during staged
// evaluation, rendered through the test log.
func TestDumpRules(t *testing.T) {
	c := New()
	_, err := c.Compile("dump.sero", `IMPORT std; main == 2 2 + pop;`)
	require.NoError(t, err)

	var sb strings.Builder
	c.dumpRules(&sb)
	assert.Contains(t, sb.String(), "+__")

	lw := &logio.Writer{Logf: t.Logf}
	defer lw.Close()
	c.dumpRules(lw)
}

type compileTestCases []compileTestCase

func (cts compileTestCases) run(t *testing.T) {
	for _, ct := range cts {
		t.Run(ct.name, ct.run)
	}
}

func compileTest(name string) (ct compileTestCase) {
	ct.name = name
	ct.wantStaged = -1
	ct.runLimit = 1_000_000
	return ct
}

type compileTestCase struct {
	name string
	src  string
	opts []Option
	libs map[string]string

	input    string
	runLimit int

	wantCode        *string
	wantContains    []string
	wantNotContains []string
	wantOutput      *string
	wantPrefix      *string
	wantRunErr      error
	wantStaged      int
	wantErr         func(t *testing.T, err error)
}

func (ct compileTestCase) source(src string) compileTestCase { ct.src = src; return ct }

func (ct compileTestCase) withOptions(opts ...Option) compileTestCase {
	ct.opts = append(ct.opts, opts...)
	return ct
}

func (ct compileTestCase) withLibrary(name, src string) compileTestCase {
	if ct.libs == nil {
		ct.libs = make(map[string]string)
	}
	ct.libs[name] = src
	return ct
}

func (ct compileTestCase) withInput(input string) compileTestCase { ct.input = input; return ct }

func (ct compileTestCase) withRunLimit(limit int) compileTestCase { ct.runLimit = limit; return ct }

func (ct compileTestCase) expectCode(code string) compileTestCase { ct.wantCode = &code; return ct }

func (ct compileTestCase) expectCodeContains(s string) compileTestCase {
	ct.wantContains = append(ct.wantContains, s)
	return ct
}

func (ct compileTestCase) expectCodeNotContains(s string) compileTestCase {
	ct.wantNotContains = append(ct.wantNotContains, s)
	return ct
}

// expectOutput runs the emitted program on the embedded interpreter and
// compares what it prints.
func (ct compileTestCase) expectOutput(out string) compileTestCase { ct.wantOutput = &out; return ct }

// expectOutputPrefix runs the emitted program expecting it to exhaust its
// budget (a deliberately infinite program) after printing at least prefix.
func (ct compileTestCase) expectOutputPrefix(prefix string, runErr error) compileTestCase {
	ct.wantPrefix = &prefix
	ct.wantRunErr = runErr
	return ct
}

func (ct compileTestCase) expectStagedRuns(n int) compileTestCase { ct.wantStaged = n; return ct }

func (ct compileTestCase) expectError(check func(t *testing.T, err error)) compileTestCase {
	ct.wantErr = check
	return ct
}

func (ct compileTestCase) expectErrorIs(target error) compileTestCase {
	return ct.expectError(func(t *testing.T, err error) {
		assert.True(t, errors.Is(err, target), "expected error %v, got %+v", target, err)
	})
}

func (ct compileTestCase) run(t *testing.T) {
	opts := ct.opts
	if len(ct.libs) > 0 {
		dir := t.TempDir()
		for name, src := range ct.libs {
			require.NoError(t, ioutil.WriteFile(filepath.Join(dir, name+".sero"), []byte(src), 0644))
		}
		opts = append(opts, WithLibDir(dir))
	}
	opts = append(opts, WithLogf(func(mess string, args ...interface{}) {
		t.Logf("compile: "+mess, args...)
	}))

	c := New(opts...)
	code, err := c.Compile(t.Name()+".sero", ct.src)
	if ct.wantErr != nil {
		require.Error(t, err, "expected compilation to fail")
		ct.wantErr(t, err)
		return
	}
	require.NoError(t, err, "unexpected compile error")

	for _, r := range code {
		assert.Contains(t, bfOps, string(r), "output must be pure brainfuck")
	}
	if ct.wantCode != nil {
		assert.Equal(t, *ct.wantCode, code, "expected code")
	}
	for _, s := range ct.wantContains {
		assert.Contains(t, code, s)
	}
	for _, s := range ct.wantNotContains {
		assert.NotContains(t, code, s)
	}
	if ct.wantStaged >= 0 {
		assert.Equal(t, ct.wantStaged, c.stagedRuns, "expected staged evaluation count")
	}

	if ct.wantOutput != nil {
		out, rerr := bf.Run(code, []byte(ct.input), ct.runLimit)
		require.NoError(t, rerr, "emitted program failed")
		assert.Equal(t, *ct.wantOutput, string(out), "expected program output")
	}
	if ct.wantPrefix != nil {
		out, rerr := bf.Run(code, []byte(ct.input), ct.runLimit)
		if ct.wantRunErr != nil {
			assert.True(t, errors.Is(rerr, ct.wantRunErr), "expected run error %v, got %v", ct.wantRunErr, rerr)
		}
		assert.True(t, strings.HasPrefix(string(out), *ct.wantPrefix),
			"expected output prefix %q, got %q", *ct.wantPrefix, out)
	}
}

func TestCompileScenarios(t *testing.T) {
	compileTestCases{
		compileTest("add pops four").
			source(`IMPORT std; main == 2 2 + pop;`).
			expectOutput("\x04"),

		compileTest("arithmetic folds mod 256").
			source(`IMPORT std; main == 3 5 2 + * pop;`).
			expectOutput("\x15"),

		compileTest("wrapping fold").
			source(`IMPORT std; main == 250 10 + pop;`).
			expectOutput("\x04"),

		compileTest("string prints in order").
			source(`IMPORT std; main == "Hi" sprint;`).
			expectOutput("Hi"),

		compileTest("while true compiles to an infinite loop").
			source(`IMPORT std; main == 'y' [true] [print] while;`).
			withRunLimit(10_000).
			expectOutputPrefix("yyy", bf.ErrBudget),

		compileTest("while false reduces away").
			source(`IMPORT std; main == 'y' [false] [print] while pop;`).
			expectOutput("y"),

		compileTest("while counts down").
			source(`IMPORT std; main == 3 [dup] [dup pop dec] while drop;`).
			expectOutput("\x03\x02\x01"),

		compileTest("dup specialises to literal copies").
			source(`IMPORT std; main == 10 dup + pop;`).
			expectOutput("\x14").
			expectCodeNotContains("[->+>+<<]"),

		compileTest("autoperm shuffles").
			source(`IMPORT std; rot3 == {a b c -- b c a} autoperm!; main == 1 2 3 rot3 pop pop pop;`).
			expectOutput("\x01\x03\x02"),

		compileTest("autoperm emits no io").
			source(`main == {a b c -- b c a} autoperm!;`).
			expectCodeNotContains(".").
			expectCodeNotContains(","),
	}.run(t)
}

func TestCompileSemantics(t *testing.T) {
	compileTestCases{
		compileTest("later rules win").
			source(`IMPORT std; f == 1; f == 2; main == f pop;`).
			expectOutput("\x02"),

		compileTest("identical staged inputs run once").
			source(`IMPORT std; main == 2 2 + pop 2 2 + pop;`).
			expectStagedRuns(1).
			expectOutput("\x04\x04"),

		compileTest("distinct staged inputs run twice").
			source(`IMPORT std; main == 2 2 + pop 2 3 + pop;`).
			expectStagedRuns(2).
			expectOutput("\x04\x05"),

		compileTest("execution rule output is data").
			source(`IMPORT std; sq (a) ==! a a * pop; main == 7 sq pop;`).
			expectOutput("\x31"),

		compileTest("empty generation body emits nothing").
			source(`IMPORT std; g ==? ; main == g 5 pop;`).
			expectOutput("\x05"),

		compileTest("quotation exact match ignores comments").
			source("IMPORT std; main == 'y' [ false # never\n ] [print] while pop;").
			expectOutput("y"),

		compileTest("while false accepts the generation form").
			source(`IMPORT std; while ([false] ?) ==? ; main == 'y' [false] [print] while pop;`).
			expectOutput("y"),

		compileTest("hex literal").
			source(`IMPORT std; main == 0x41 pop;`).
			expectOutput("A"),

		compileTest("char literal escape").
			source(`IMPORT std; main == '\n' pop;`).
			expectOutput("\n"),

		compileTest("quotation binding reaches staged body as text").
			source(`IMPORT std; F (Q) ==? Q sprint; main == [5 dup + pop] F;`).
			expectOutput("\x0a"),

		compileTest("imports resolve on the search path").
			withLibrary("mylib", `three == 3;`).
			source(`IMPORT std mylib; main == three pop;`).
			expectOutput("\x03"),

		compileTest("imports load once").
			withLibrary("a", "IMPORT b; one == 1;").
			withLibrary("b", "IMPORT a; two == 2;").
			source(`IMPORT std a b; main == one two + pop;`).
			expectOutput("\x03"),
	}.run(t)
}

func TestCompileErrors(t *testing.T) {
	compileTestCases{
		compileTest("no match on shape").
			source(`f (a) == ; main == [1] f;`).
			expectError(func(t *testing.T, err error) {
				var nm *NoMatchError
				if assert.True(t, errors.As(err, &nm), "expected NoMatchError, got %+v", err) {
					assert.Equal(t, "f", nm.Name)
				}
			}),

		compileTest("arity insufficient").
			source(`f (a b) == ; main == 1 f;`).
			expectError(func(t *testing.T, err error) {
				var ae *ArityError
				if assert.True(t, errors.As(err, &ae), "expected ArityError, got %+v", err) {
					assert.Equal(t, 2, ae.Want)
					assert.Equal(t, 1, ae.Have)
				}
			}),

		compileTest("unknown word").
			source(`main == frobnicate;`).
			expectError(func(t *testing.T, err error) {
				var nm *NoMatchError
				assert.True(t, errors.As(err, &nm), "expected NoMatchError, got %+v", err)
			}),

		compileTest("unknown macro").
			source(`main == {x} nope!;`).
			expectError(func(t *testing.T, err error) {
				var me *MacroUnknownError
				if assert.True(t, errors.As(err, &me), "expected MacroUnknownError, got %+v", err) {
					assert.Equal(t, "nope", me.Name)
				}
			}),

		compileTest("macro handler failure").
			source(`main == {a b} autoperm!;`).
			expectError(func(t *testing.T, err error) {
				var me *MacroError
				assert.True(t, errors.As(err, &me), "expected MacroError, got %+v", err)
			}),

		compileTest("unresolved import").
			source(`IMPORT nosuchlib; main == 1;`).
			expectError(func(t *testing.T, err error) {
				var ue *UnresolvedImportError
				if assert.True(t, errors.As(err, &ue), "expected UnresolvedImportError, got %+v", err) {
					assert.Equal(t, "nosuchlib", ue.Name)
				}
			}),

		compileTest("missing main").
			source(`f == 1;`).
			expectErrorIs(errNoMain),

		compileTest("reduction overflow").
			source(`main == 1 2 3 4 5 6 7 8 9 10 11 12;`).
			withOptions(WithStepLimit(5)).
			expectErrorIs(errReductionOverflow),

		compileTest("staged timeout").
			source(`spin ==? ` + "`+[]`" + ` ; main == spin;`).
			withOptions(WithStagedFuel(10_000)).
			expectErrorIs(bf.ErrBudget),

		compileTest("staged underflow").
			source(`under ==! ` + "`<`" + ` ; main == under;`).
			expectErrorIs(bf.ErrTapeUnderflow),

		compileTest("generation output must be brainfuck").
			source(`IMPORT std; bad ==? "xyz" sprint; main == bad;`).
			expectError(func(t *testing.T, err error) {
				var se *StagedError
				assert.True(t, errors.As(err, &se), "expected StagedError, got %+v", err)
			}),
	}.run(t)
}

// Two compilations of the same source must be byte-identical, including
// the mangled names staged evaluation introduces along the way.
func TestCompileDeterminism(t *testing.T) {
	const src = `IMPORT std; main == 3 5 2 + * pop "ok" sprint 10 dup + pop;`
	a, err := New().Compile("det.sero", src)
	require.NoError(t, err)
	b, err := New().Compile("det.sero", src)
	require.NoError(t, err)
	assert.Equal(t, a, b, "compilation must be deterministic")
}

// Compiling `[ B ] F` through `F (Q) ==? Q sprint` must emit exactly what
// B compiles to on its own.
func TestQuotationCompilation(t *testing.T) {
	bodies := []string{
		"5 dup +",
		`"Hi" sprint`,
		"2 2 + pop",
	}
	for _, body := range bodies {
		t.Run(body, func(t *testing.T) {
			direct, err := New().Compile("direct.sero", "IMPORT std; main == "+body+";")
			require.NoError(t, err)
			quoted, err := New().Compile("quoted.sero",
				"IMPORT std; F (Q) ==? Q sprint; main == ["+body+"] F;")
			require.NoError(t, err)
			assert.Equal(t, direct, quoted, "quotation must compile to the same program")
		})
	}
}
