package main

import (
	"flag"
	"fmt"
	"io/ioutil"
	"log"
	"os"
	"path/filepath"

	"github.com/eaburns/pretty"
)

func main() {
	var (
		lib        string
		out        string
		trace      bool
		dump       bool
		noOptimize bool
		steps      int
		fuel       int
	)
	flag.StringVar(&lib, "lib", "", "extra library directories (path list)")
	flag.StringVar(&out, "o", "", "write the brainfuck output to a file instead of stdout")
	flag.BoolVar(&trace, "trace", false, "enable trace logging")
	flag.BoolVar(&dump, "dump-rules", false, "dump the rule table after compiling")
	flag.BoolVar(&noOptimize, "no-optimize", false, "disable output cleanup")
	flag.IntVar(&steps, "steps", 0, "override the reduction step budget")
	flag.IntVar(&fuel, "fuel", 0, "override the staged evaluation instruction budget")
	flag.Parse()

	if flag.NArg() != 1 {
		fmt.Fprintln(os.Stderr, "usage: serotonin [flags] <file.sero>")
		flag.PrintDefaults()
		os.Exit(2)
	}

	var opts []Option
	for _, dir := range filepath.SplitList(lib) {
		opts = append(opts, WithLibDir(dir))
	}
	if trace {
		opts = append(opts, WithLogf(log.Printf))
	}
	if noOptimize {
		opts = append(opts, WithOptimize(false))
	}
	if steps != 0 {
		opts = append(opts, WithStepLimit(steps))
	}
	if fuel != 0 {
		opts = append(opts, WithStagedFuel(fuel))
	}

	c := New(opts...)
	code, err := c.CompileFile(flag.Arg(0))
	if err != nil {
		fmt.Fprintf(os.Stderr, "ERROR: %+v\n", err)
		os.Exit(1)
	}

	if dump {
		pretty.Indent = "  "
		c.dumpRules(os.Stderr)
	}

	if out != "" {
		if err := ioutil.WriteFile(out, []byte(code+"\n"), 0644); err != nil {
			fmt.Fprintf(os.Stderr, "ERROR: %v\n", err)
			os.Exit(1)
		}
		return
	}
	fmt.Println(code)
}
