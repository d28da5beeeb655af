package main

import (
	"os"

	"github.com/ariel-frischer/changelog-notify/internal/cli"
)

func main() {
	os.Exit(cli.ExitCode(cli.Execute()))
}
