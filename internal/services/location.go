package services

import (
	"fmt"
	"path/filepath"
	"runtime"
	"strings"
)

// CallerLocation returns a concise "file.go:line in func" description of the
// caller, skip frames above the caller of this function. It backs the
// error_location column on failed records.
func CallerLocation(skip int) string {
	pc, file, line, ok := runtime.Caller(skip + 1)
	if !ok {
		return "unknown"
	}
	fn := "unknown"
	if f := runtime.FuncForPC(pc); f != nil {
		fn = shortFuncName(f.Name())
	}
	return fmt.Sprintf("%s:%d in %s", filepath.Base(file), line, fn)
}

func shortFuncName(qualified string) string {
	if idx := strings.LastIndex(qualified, "/"); idx >= 0 {
		qualified = qualified[idx+1:]
	}
	if idx := strings.Index(qualified, "."); idx >= 0 {
		qualified = qualified[idx+1:]
	}
	return qualified
}
