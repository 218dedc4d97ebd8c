package shell

import (
	"fmt"
	"strings"

	"vslc/internal/frontend"
	"vslc/internal/ir"
	"vslc/internal/util"
)

// Dispatch parses and executes one shell command line. It returns the text
// to show the user, whether the shell should exit, and any error.
func Dispatch(line string) (string, bool, error) {
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return "", false, nil
	}

	switch fields[0] {
	case "help":
		return helpText(), false, nil

	case "exit", "quit":
		return "bye", true, nil

	case "run":
		out, err := runFile(fields[1:])
		return out, false, err

	default:
		return "", false, fmt.Errorf("unknown command %q (try \"help\")", fields[0])
	}
}

func helpText() string {
	var sb strings.Builder
	sb.WriteString("help                                           Print this help message.\n")
	sb.WriteString("run <file> [-ast] [-sakir] [-rawllvm] [-llvmir] Compile <file> through the frontend and IR builder.\n")
	sb.WriteString("  -ast                                         Dump the parsed syntax tree instead of reporting a summary.\n")
	sb.WriteString("  -sakir                                       Dump the builder's typed IR instead of reporting a summary.\n")
	sb.WriteString("  -rawllvm, -llvmir                             Dump the textual pseudo-IR backend stand-in instead of reporting a summary.\n")
	sb.WriteString("  -ts                                           Dump the raw token stream instead of reporting a summary.\n")
	sb.WriteString("exit                                           Exit the shell.\n")
	return sb.String()
}

// runFile drives the pipeline Run -> frontend.Parse -> ir.Builder.Build,
// honouring the dump flags. Backend emission and JIT execution are external
// collaborators out of scope for this implementation, so a flagless run
// reports a compile summary rather than a return value.
func runFile(args []string) (string, error) {
	opt, err := util.ParseRunArgs(args)
	if err != nil {
		return "", err
	}
	if opt.Verbose {
		util.SetVerbose()
	}

	src, err := util.ReadSource(opt.Src)
	if err != nil {
		return "", err
	}

	if opt.TS {
		return dumpTokens(src), nil
	}

	root, err := frontend.Parse(src)
	if err != nil {
		return "", err
	}
	if opt.AST {
		var sb strings.Builder
		root.Print(0, &sb)
		return sb.String(), nil
	}

	builder := ir.NewBuilder(opt.Src)
	program, err := builder.Build(root)
	if err != nil {
		return "", err
	}
	if opt.SAKIR || opt.RawLLVM || opt.LLVMIR {
		return program.Dump(), nil
	}

	return summarize(program), nil
}

func dumpTokens(src string) string {
	toks := frontend.Tokenize(src)
	var sb strings.Builder
	for _, t := range toks {
		sb.WriteString(t.String())
		sb.WriteByte('\n')
	}
	return sb.String()
}

func summarize(program *ir.Program) string {
	var sb strings.Builder
	for _, m := range program.Modules {
		sb.WriteString(fmt.Sprintf("module %s: %d function(s)\n", m.ID, len(m.Functions)))
		for _, f := range m.Functions {
			sb.WriteString(fmt.Sprintf("  func %s: %d block(s)\n", f.Name, len(f.Blocks)))
		}
	}
	return sb.String()
}
