package main

import (
	"os"

	"github.com/scan-io-git/lint-adapters/cmd"
)

func main() {
	code := cmd.Execute()
	os.Exit(code)
}
