// Command glox is the top-level driver for the interpreter: script mode
// reads one file and runs it once, no-argument mode starts the
// interactive REPL (internal/repl). Its only job is argument handling
// and mapping internal/driver's result to the process exit code.
package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/fatih/color"

	"glox/internal/driver"
	"glox/internal/repl"
)

const (
	exitUsage   = 64
	exitNoInput = 66
	exitIOErr   = 74
)

func main() {
	noColor := flag.Bool("no-color", false, "disable ANSI color in diagnostics and the REPL")
	flag.Parse()
	if *noColor {
		color.NoColor = true
	}

	args := flag.Args()
	switch {
	case len(args) == 0:
		if err := repl.New().Run(os.Stdout); err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(exitIOErr)
		}
	case len(args) == 1:
		os.Exit(runFile(args[0]))
	default:
		fmt.Fprintln(os.Stderr, "Usage: glox [script]")
		os.Exit(exitUsage)
	}
}

func runFile(path string) int {
	source, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			fmt.Fprintf(os.Stderr, "Can't open file: %s\n", path)
			return exitNoInput
		}
		fmt.Fprintln(os.Stderr, err)
		return exitIOErr
	}

	return driver.RunSource(source, os.Stdout, os.Stderr)
}
