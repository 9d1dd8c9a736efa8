package main

import (
	"github.com/bitswalk/rpisrc/src/rpisrc/internal/cmd"
)

func main() {
	cmd.Execute()
}
