package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/spboyer/loadcsv/internal/pipeline"
)

// Exit codes for different failure modes
const (
	ExitSuccess   = 0 // All reports converted
	ExitDataError = 1 // A report is malformed (parse or schema error)
	ExitError     = 2 // Configuration, discovery or write error
)

func main() {
	if err := execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(exitCode(err))
	}
}

func exitCode(err error) int {
	if err == nil {
		return ExitSuccess
	}

	var convertErr *pipeline.ConvertError
	if errors.As(err, &convertErr) && convertErr.IsDataError() {
		return ExitDataError
	}

	// All other errors are configuration/runtime errors
	return ExitError
}
