/* Package main: the serotonin compiler.

Serotonin is a tiny concatenative language that compiles to Brainfuck.  A
program is a sequence of whitespace-separated words; composition is
juxtaposition and operators follow their operands, so `2 2 +` pushes two
twos and adds them.  The unit of definition is the rule:

	head (constraints) kind body ;

where kind is one of `==` (substitution), `==?` (generation) and `==!`
(execution).  Substitution rules are plain rewrites.  Generation rules are
programs that run at compile time and whose output is spliced back in as
Brainfuck text.  Execution rules run the same way but their output is
spliced back in as data bytes.  Both staged kinds run on a small embedded
Brainfuck interpreter (internal/bf) and are memoised per input tuple, so a
rule body is only ever evaluated once for the same arguments.

Rules may pattern match the values to their left.  `dup (a) == a a;`
rewrites a known byte into two copies of itself; a later definition shadows
an earlier one, so libraries are written from most general to most
specific.  Bracketed quotations are first-class values that compile to
Brainfuck fragments, which is how control flow such as `while` is built
without any native branching in the compiler.

The compiler reads a single entry file, resolves `IMPORT name;` directives
against a library search path (the entry file's directory, its `libraries/`
subdirectory, any `-lib` directories, and finally the standard library
embedded in the binary), rewrites `main` to a fixed point and prints the
resulting Brainfuck program on standard output.  The output runs on any
Brainfuck interpreter with 8-bit wrapping cells.
*/
package main
