package main

import (
	"io/ioutil"
	"path/filepath"

	"github.com/serotonin-lang/serotonin/internal/panicerr"
)

// A Compiler turns serotonin source into Brainfuck.  It carries
// configuration plus a staged-run counter and the last compile's rule
// table; per-compile state lives in a compilation, so one Compiler may be
// reused across files.
type Compiler struct {
	libDirs   []string
	stepLimit int
	fuel      int
	optimize  bool
	logfn     func(mess string, args ...interface{})

	// stagedRuns counts embedded interpreter invocations across compiles;
	// within one compile the specialisation cache keeps it from growing on
	// repeated inputs.
	stagedRuns int
	lastRules  *ruleTable
}

func New(opts ...Option) *Compiler {
	var c Compiler
	defaultOptions.apply(&c)
	Options(opts...).apply(&c)
	return &c
}

// CompileFile reads and compiles one entry file.  The file's directory and
// its libraries/ subdirectory join the front of the import search path.
func (c *Compiler) CompileFile(path string) (string, error) {
	data, err := ioutil.ReadFile(path)
	if err != nil {
		return "", err
	}
	return c.compileGuarded(filepath.Dir(path), path, string(data))
}

// Compile compiles source held in memory, with name used for positions.
func (c *Compiler) Compile(name, source string) (string, error) {
	return c.compileGuarded(".", name, source)
}

func (c *Compiler) compileGuarded(dir, name, source string) (out string, err error) {
	err = panicerr.Recover("compile", func() error {
		var cerr error
		out, cerr = c.compile(dir, name, source)
		return cerr
	})
	return out, err
}

func (c *Compiler) logf(mess string, args ...interface{}) {
	if c.logfn != nil {
		c.logfn(mess, args...)
	}
}
