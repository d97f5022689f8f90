// Validate decoder throughput - measures decode rate and allocations per
// decoded instruction across every instruction format.
package main

import (
	"fmt"
	"os"
	"runtime"
	"time"

	"github.com/sarchlab/rv32sim/insts"
)

// One word per format.
var words = []uint32{
	0x00b50533, // add a0, a0, a1      (R)
	0x00600513, // addi a0, zero, 6    (I)
	0x80152583, // lw a1, -2047(a0)    (I)
	0x7eb52fa3, // sw a1, 2047(a0)     (S)
	0x12345537, // lui a0, 0x12345     (U)
	0xfeb50ce3, // beq a0, a1, -8      (B)
	0x008000ef, // jal ra, 8           (J)
	0x00008067, // jalr zero, 0(ra)    (I)
}

func main() {
	decoder := insts.NewDecoder()

	for _, w := range words {
		if _, err := decoder.Decode(w); err != nil {
			fmt.Fprintf(os.Stderr, "decode 0x%08x: %v\n", w, err)
			os.Exit(1)
		}
	}

	// Warm up
	for i := 0; i < 1000; i++ {
		_, _ = decoder.Decode(words[i%len(words)])
	}

	runtime.GC()
	var m1, m2 runtime.MemStats
	runtime.ReadMemStats(&m1)

	start := time.Now()
	iterations := 100000

	for i := 0; i < iterations; i++ {
		for _, w := range words {
			_, _ = decoder.Decode(w)
		}
	}

	elapsed := time.Since(start)
	runtime.ReadMemStats(&m2)

	totalDecodes := iterations * len(words)
	allocations := m2.Mallocs - m1.Mallocs
	allocatedBytes := m2.TotalAlloc - m1.TotalAlloc

	fmt.Printf("Decoder Validation Results:\n")
	fmt.Printf("===========================\n")
	fmt.Printf("Total decode operations: %d\n", totalDecodes)
	fmt.Printf("Time elapsed: %v\n", elapsed)
	fmt.Printf("Decodes per second: %.0f\n", float64(totalDecodes)/elapsed.Seconds())
	fmt.Printf("Allocations: %d\n", allocations)
	fmt.Printf("Allocated bytes: %d\n", allocatedBytes)
	fmt.Printf("Allocations per decode: %.3f\n", float64(allocations)/float64(totalDecodes))
	fmt.Printf("Bytes per decode: %.1f\n", float64(allocatedBytes)/float64(totalDecodes))

	if float64(allocations)/float64(totalDecodes) <= 1 {
		fmt.Printf("\nOK: at most one allocation per decode\n")
	} else {
		fmt.Printf("\nWARNING: more than one allocation per decode\n")
	}
}
