package main

import (
	"github.com/isupersid/stalker-test-client/cmd/cli"
)

// main delegates to the command tree in the cli package.
func main() {
	cli.Execute()
}
