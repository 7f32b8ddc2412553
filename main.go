package main

import (
	"os"

	"cminus/cmd"
)

func main() {
	os.Exit(cmd.Execute())
}
