// framegwctl drives a frame gateway's job registry from the command
// line: install, remove, list, and monitor forwarding jobs.
package main

import (
	"fmt"
	"os"

	"framegw/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}
