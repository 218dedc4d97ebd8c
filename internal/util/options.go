package util

import (
	"fmt"
	"os"
	"strings"
	"text/tabwriter"
)

// Options holds the flags recognised by the "run" shell command and by the
// single-shot command line entry point.
type Options struct {
	Src     string // Path to source file.
	AST     bool   // Dump the parsed AST and exit.
	SAKIR   bool   // Dump the builder's typed IR ("SAK IR") and exit.
	RawLLVM bool   // Dump the textual pseudo-LLVM IR and exit.
	LLVMIR  bool   // Alias of RawLLVM kept for flag-compatibility with the teacher CLI.
	TS      bool   // Dump the raw token stream and exit.
	Verbose bool   // Enable verbose/debug logging.
}

const appVersion = "vslc 1.0"

// ParseRunArgs parses the flags following a "run" shell command, e.g.
// "run prog.vsl -ast". args does not include the "run" token itself.
func ParseRunArgs(args []string) (Options, error) {
	opt := Options{}
	for _, a := range args {
		switch a {
		case "-ast":
			opt.AST = true
		case "-sakir":
			opt.SAKIR = true
		case "-rawllvm":
			opt.RawLLVM = true
		case "-llvmir":
			opt.LLVMIR = true
		case "-ts":
			opt.TS = true
		case "-vb", "-verbose":
			opt.Verbose = true
		default:
			if strings.HasPrefix(a, "-") {
				return opt, fmt.Errorf("unexpected flag: %s", a)
			}
			if opt.Src != "" {
				return opt, fmt.Errorf("unexpected extra argument: %s", a)
			}
			opt.Src = a
		}
	}
	if opt.Src == "" {
		return opt, fmt.Errorf("run requires a source file path")
	}
	return opt, nil
}

// PrintHelp writes the shell's help text to stdout, tab-aligned the way the
// teacher's printHelp writes its command line usage.
func PrintHelp() {
	w := tabwriter.NewWriter(os.Stdout, 6, 1, 1, 0, ' ')
	_, _ = fmt.Fprintln(w, "help\tPrint this help message.")
	_, _ = fmt.Fprintln(w, "run <file> [-ast] [-sakir] [-rawllvm] [-llvmir]\tLex, parse and build IR, then report a compile summary.")
	_, _ = fmt.Fprintln(w, "\t-ast\tDump the parsed syntax tree instead of reporting a summary.")
	_, _ = fmt.Fprintln(w, "\t-sakir\tDump the builder's typed IR instead of reporting a summary.")
	_, _ = fmt.Fprintln(w, "\t-rawllvm, -llvmir\tDump the textual pseudo-IR instead of reporting a summary.")
	_, _ = fmt.Fprintln(w, "exit\tExit the shell.")
	_, _ = fmt.Fprintf(w, "%s\n", appVersion)
	_ = w.Flush()
}

// ReadSource reads source code from the given file path.
func ReadSource(path string) (string, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return "", err
	}
	return string(b), nil
}
