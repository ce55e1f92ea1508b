package main

import (
	"os"

	"github.com/toyz/iocscan/internal/cli"
)

func main() {
	os.Exit(cli.Execute())
}
