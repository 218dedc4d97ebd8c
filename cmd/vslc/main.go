// Command vslc is the compiler's entry point. With no arguments it launches
// the interactive shell (spec §6 "a single interactive shell"); with
// arguments it behaves as a single-shot "run" invocation, the way the
// teacher's main.go parses Options once and calls run directly, grounded on
// _examples/hhramberg-go-vslc/src/main.go.
package main

import (
	"fmt"
	"os"
	"strings"

	"vslc/internal/shell"
)

func main() {
	if len(os.Args) <= 1 {
		if err := shell.Start(shell.Options{}); err != nil {
			fmt.Fprintln(os.Stderr, "shell error:", err)
			os.Exit(1)
		}
		return
	}

	out, _, err := shell.Dispatch(commandLine(os.Args[1:]))
	if err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
	fmt.Println(out)
}

// commandLine turns a single-shot invocation's argv into a shell command
// line. "vslc help"/"vslc exit" pass through untouched; anything else is
// treated as "vslc <file> [flags]", the teacher's own calling convention,
// and gets the "run" keyword prepended so it reuses the shell's dispatcher.
func commandLine(args []string) string {
	switch args[0] {
	case "help", "exit":
		return strings.Join(args, " ")
	default:
		return "run " + strings.Join(args, " ")
	}
}
