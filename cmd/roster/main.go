// Command roster runs the reconciliation pipeline once and prints roster views.
package main

import (
	"os"

	"github.com/albanecoiffe/JO2024-visualization/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
