package util

import (
	"sync"

	"go.uber.org/zap"
)

// Log is the package level structured logger used by the shell, the IR
// builder and the GC runtime to trace internal events (need_gc flips, heap
// resizes, collection cycles). User-facing compile diagnostics go through
// CompileError instead; Log is for operators who want to see what the
// compiler and runtime are doing.
var Log *zap.SugaredLogger

var once sync.Once

func init() {
	once.Do(func() {
		l, err := zap.NewProduction()
		if err != nil {
			l = zap.NewNop()
		}
		Log = l.Sugar()
	})
}

// SetVerbose swaps the logger for a development logger with debug-level
// output enabled, used when Options.Verbose is set.
func SetVerbose() {
	l, err := zap.NewDevelopment()
	if err != nil {
		return
	}
	Log = l.Sugar()
}
