package main

import (
	"os"

	"linerun/internal/cmd"
)

func main() {
	os.Exit(cmd.Execute())
}
