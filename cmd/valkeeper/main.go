package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/solatis/valkeeper/cmd/valkeeper/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		if errors.Is(err, cmd.ErrViolations) {
			os.Exit(2)
		}
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
