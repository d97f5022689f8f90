// Package main provides the entry point for rv32sim.
// rv32sim is an RV32I instruction set emulator with an optional in-order
// timing model.
//
// For the full CLI, use: go run ./cmd/rv32sim
package main

import (
	"fmt"
	"os"
)

func main() {
	fmt.Println("rv32sim - RV32I Emulator")
	fmt.Println("")
	fmt.Println("Usage: rv32sim [options] <image>")
	fmt.Println("")
	fmt.Println("Options:")
	fmt.Println("  -timing    Enable timing simulation mode")
	fmt.Println("  -config    Path to timing configuration JSON file")
	fmt.Println("  -max       Max instructions to execute")
	fmt.Println("  -mem       Memory size in bytes")
	fmt.Println("  -trace     Log every retired instruction")
	fmt.Println("  -v         Verbose output")
	fmt.Println("")
	fmt.Println("Run 'go run ./cmd/rv32sim' for the full CLI.")

	if len(os.Args) > 1 {
		fmt.Println("\nNote: You provided arguments. Use 'go run ./cmd/rv32sim' instead.")
	}
}
