package main

// An Option configures a Compiler.
type Option interface{ apply(c *Compiler) }

type options []Option

func (opts options) apply(c *Compiler) {
	for _, opt := range opts {
		if opt != nil {
			opt.apply(c)
		}
	}
}

// Options combines several options into one.
func Options(opts ...Option) Option { return options(opts) }

var defaultOptions = Options(
	WithStepLimit(1<<20),
	WithStagedFuel(50_000_000),
	WithOptimize(true),
)

type withLogfn func(mess string, args ...interface{})

func (logfn withLogfn) apply(c *Compiler) { c.logfn = logfn }

// WithLogf enables trace logging through the given formatted print
// function.
func WithLogf(logfn func(mess string, args ...interface{})) Option { return withLogfn(logfn) }

type libDirOption string
type stepLimitOption int
type stagedFuelOption int
type optimizeOption bool

// WithLibDir appends a directory to the import search path.
func WithLibDir(dir string) Option { return libDirOption(dir) }

// WithStepLimit bounds the total number of reduction steps in one compile.
func WithStepLimit(n int) Option { return stepLimitOption(n) }

// WithStagedFuel bounds the instruction count of each staged evaluation.
func WithStagedFuel(n int) Option { return stagedFuelOption(n) }

// WithOptimize toggles the no-op cleanup pass over the emitted output.
func WithOptimize(on bool) Option { return optimizeOption(on) }

func (dir libDirOption) apply(c *Compiler)  { c.libDirs = append(c.libDirs, string(dir)) }
func (n stepLimitOption) apply(c *Compiler) { c.stepLimit = int(n) }
func (n stagedFuelOption) apply(c *Compiler) { c.fuel = int(n) }
func (on optimizeOption) apply(c *Compiler) { c.optimize = bool(on) }
