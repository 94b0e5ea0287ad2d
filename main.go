// ./main.go
package main

import (
	"github.com/visor-ai/visor/cmd"
)

// main is the entry point for the visor CLI.
func main() {
	cmd.Execute()
}
