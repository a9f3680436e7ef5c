// hedgecalc computes key-rate DV01 profiles and ridge least-squares hedges
// for fixed-rate bonds. Requests are JSON on stdin (or -input), results are
// JSON on stdout, logs go to stderr.
package main

import (
	"os"

	"github.com/meenmo/krdhedge/cmd/hedgecalc/cmd"
)

func main() {
	os.Exit(cmd.ExitCode(cmd.Execute()))
}
