// Package cmd the cookiecat command line
package cmd

import (
	"errors"
	"fmt"
	"os"
)

// ErrFalse the command result is false, the process exits with 1.
var ErrFalse = errors.New("false")

// Execute main command
func Execute() {
	err := rootCmd.Execute()
	closeEnv()
	if err != nil {
		if !errors.Is(err, ErrFalse) {
			fmt.Fprintln(os.Stderr, "Error:", err)
		}
		os.Exit(1)
	}
}

// boolResult maps a false result to ErrFalse.
func boolResult(ok bool) error {
	if !ok {
		return ErrFalse
	}
	return nil
}
