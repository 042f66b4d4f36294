// Package main provides the CLI entrypoint for mapvet.
//
// mapvet checks conceptual-to-store mapping documents:
//   - validate loads one or more YAML documents describing a container and
//     reports every structural, closure and consistency violation
//   - groups prints the cell groups view generation would process together
//   - version prints the build version
package main

import (
	"errors"
	"fmt"
	"os"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		if !errors.Is(err, errViolations) {
			fmt.Fprintln(os.Stderr, "Error:", err)
		}

		os.Exit(1)
	}
}
