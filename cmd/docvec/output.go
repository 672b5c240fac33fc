package main

import (
	"encoding/json"
	"fmt"
	"os"
)

// ErrorResponse is the JSON shape for command-level failures.
type ErrorResponse struct {
	Error string `json:"error"`
}

// outputJSON writes v as a single JSON line on stdout.
func outputJSON(v any) {
	enc := json.NewEncoder(os.Stdout)
	if err := enc.Encode(v); err != nil {
		fmt.Fprintf(os.Stderr, "error: encoding output: %v\n", err)
	}
}

// outputError reports a failure in the selected output format and returns
// the exit code for the caller to pass to os.Exit.
func outputError(code int, format string, args ...any) int {
	msg := fmt.Sprintf(format, args...)

	if humanOutput {
		fmt.Fprintf(os.Stderr, "error: %s\n", msg)
	} else {
		outputJSON(ErrorResponse{Error: msg})
	}

	return code
}
