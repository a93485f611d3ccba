package main

import (
	"os"

	"stickies/internal/cli"
)

func main() {
	os.Exit(cli.Execute())
}
