package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/danieljhkim/modcheck/internal/cli"
)

var version = "dev"

func main() {
	cli.SetVersion(version)

	if err := cli.Execute(); err != nil {
		if !errors.Is(err, cli.ErrUnsatisfied) {
			fmt.Fprintln(os.Stderr, cli.FormatError(err))
		}
		os.Exit(1)
	}
}
