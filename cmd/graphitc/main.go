// Command graphitc is the compiler driver: it wires the lexer, parser,
// lowering, direction-policy, and codegen stages from internal/pipeline
// into one `build` subcommand, the way the teacher's cmd/funxy wires its
// own lexer/analyzer/evaluator stages behind a dispatch of os.Args.
package main

import (
	"fmt"
	"os"
)

func main() {
	if len(os.Args) < 2 {
		usage()
		os.Exit(1)
	}

	switch os.Args[1] {
	case "build":
		cmdBuild(os.Args[2:])
	case "-help", "--help", "help":
		usage()
	default:
		fmt.Fprintf(os.Stderr, "graphitc: unknown subcommand %q\n\n", os.Args[1])
		usage()
		os.Exit(1)
	}
}

func usage() {
	fmt.Fprintln(os.Stderr, "Usage: graphitc build [-o out] [-config graphit.config.yaml] [-cache DIR] [-j N] <file>")
}
