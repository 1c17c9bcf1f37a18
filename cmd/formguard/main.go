package main

import (
	"os"

	"github.com/goliatone/go-formguard/internal/cli"
)

func main() {
	os.Exit(cli.Execute())
}
