// Command triptych compares Gemini models side by side from the terminal.
package main

import (
	"fmt"
	"os"

	"github.com/ahrav/go-triptych/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
