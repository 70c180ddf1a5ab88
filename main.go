package main

import (
	"github.com/BAAL-NF/tfomics/cmd"
)

func main() {
	cmd.Execute() // initialize cobra commands
}
