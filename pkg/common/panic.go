package common

import (
	"fmt"
	"io"
	"os"
	"runtime/debug"
)

// RecoverPanic recovers from a panic and reports it.
// It returns true if a panic was recovered, false otherwise.
//
// It must be deferred directly (defer common.RecoverPanic()), otherwise
// recover() has no effect.
func RecoverPanic() bool {
	if r := recover(); r != nil {
		reportPanic(GetLogger(), os.Stderr, r)
		return true
	}
	return false
}

// reportPanic logs the panic value with its stack trace and writes a short
// notice to w. When the logger writes to a file, only the file gets the stack.
func reportPanic(logger *Logger, w io.Writer, r interface{}) {
	stackTrace := debug.Stack()

	logger.Error("PANIC RECOVERED: %v", r)
	logger.Error("Stack trace:\n%s", stackTrace)

	_, _ = fmt.Fprintf(w, "PANIC RECOVERED: %v\n", r)
	if path := logger.FilePath(); path != "" {
		_, _ = fmt.Fprintf(w, "Stack trace has been written to the log file: %s\n", path)
	} else {
		_, _ = fmt.Fprintf(w, "Stack trace:\n%s\n", stackTrace)
	}
}

// PanicToError converts a recovered panic value into an error, logging the
// stack trace. Use it in deferred functions that must keep running after a
// handler blows up:
//
//	defer func() {
//		if r := recover(); r != nil {
//			err = common.PanicToError(r)
//		}
//	}()
func PanicToError(r interface{}) error {
	logger := GetLogger()
	logger.Error("PANIC RECOVERED: %v", r)
	logger.Error("Stack trace:\n%s", debug.Stack())
	return fmt.Errorf("internal error: %v", r)
}
