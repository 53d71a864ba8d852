// Command byakoron transliterates between romanized Bengali and Bengali
// script.
package main

import (
	"fmt"
	"os"

	"github.com/roach88/byakoron/internal/cli"
)

func main() {
	if err := cli.NewRootCommand().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(cli.GetExitCode(err))
	}
}
