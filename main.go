package main

import (
	"fmt"
	"os"

	"github.com/Rana718/dictseed/cmd"
	"github.com/Rana718/dictseed/internal/errs"
)

func main() {
	if err := cmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		if errs.IsInvalidInput(err) {
			os.Exit(2)
		}
		os.Exit(1)
	}
}
