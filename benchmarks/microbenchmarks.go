package benchmarks

import (
	"github.com/sarchlab/rv32sim/emu"
	"github.com/sarchlab/rv32sim/insts"
)

// ABI register numbers used by the programs below.
const (
	zero uint8 = 0
	ra   uint8 = 1
	t0   uint8 = 5
	t1   uint8 = 6
	a0   uint8 = 10
	a1   uint8 = 11
	a2   uint8 = 12
	a3   uint8 = 13
	a4   uint8 = 14
	a5   uint8 = 15
	a6   uint8 = 16
	a7   uint8 = 17
)

// GetMicrobenchmarks returns the standard set of microbenchmarks. Each
// benchmark targets a specific part of the timing model.
func GetMicrobenchmarks() []Benchmark {
	return []Benchmark{
		arithmeticSequential(),
		dependencyChain(),
		memorySequential(),
		functionCalls(),
		branchTaken(),
		mixedOperations(),
		softwareMultiply(),
		loopSimulation(),
		vectorSum(),
		byteCopy(),
	}
}

// GetCoreBenchmarks returns a minimal set of 3 core benchmarks for quick
// validation: a loop, a multiply kernel and branch-heavy code.
func GetCoreBenchmarks() []Benchmark {
	return []Benchmark{
		loopSimulation(),
		softwareMultiply(),
		branchTaken(),
	}
}

// withExit assembles words followed by a jump to the end of a memory of
// memSize bytes, which halts the emulator.
func withExit(memSize int, words ...uint32) []byte {
	pc := int32(len(words) * 4)
	words = append(words, insts.EncodeJAL(zero, int32(memSize)-pc))
	return insts.BuildProgram(words...)
}

func repeat(n int, words ...uint32) []uint32 {
	out := make([]uint32, 0, n*len(words))
	for range n {
		out = append(out, words...)
	}
	return out
}

// 1. Arithmetic Sequential - ALU throughput with independent operations
func arithmeticSequential() Benchmark {
	return Benchmark{
		Name:        "arithmetic_sequential",
		Description: "20 independent ADDI operations - measures ALU throughput",
		Program: insts.BuildProgram(repeat(4,
			insts.EncodeOpImm(insts.OpADDI, a0, a0, 1),
			insts.EncodeOpImm(insts.OpADDI, a1, a1, 1),
			insts.EncodeOpImm(insts.OpADDI, a2, a2, 1),
			insts.EncodeOpImm(insts.OpADDI, a3, a3, 1),
			insts.EncodeOpImm(insts.OpADDI, a4, a4, 1),
		)...),
		Expected: []RegValue{{a0, 4}, {a1, 4}, {a2, 4}, {a3, 4}, {a4, 4}},
	}
}

// 2. Dependency Chain - every instruction reads the previous result
func dependencyChain() Benchmark {
	return Benchmark{
		Name:        "dependency_chain",
		Description: "20 dependent ADDI operations - measures back-to-back latency",
		Program: insts.BuildProgram(repeat(20,
			insts.EncodeOpImm(insts.OpADDI, a0, a0, 1),
		)...),
		Expected: []RegValue{{a0, 20}},
	}
}

// 3. Memory Sequential - store/load pairs over consecutive words
func memorySequential() Benchmark {
	words := []uint32{
		insts.EncodeOpImm(insts.OpADDI, a1, zero, 0x400),
		insts.EncodeOpImm(insts.OpADDI, a0, zero, 42),
	}
	for i := range int32(10) {
		words = append(words,
			insts.EncodeStore(insts.OpSW, a0, a1, i*4),
			insts.EncodeLoad(insts.OpLW, a0, a1, i*4),
		)
	}

	return Benchmark{
		Name:        "memory_sequential",
		Description: "10 store/load pairs to sequential words - measures D-cache behavior",
		Program:     withExit(0x800, words...),
		MemorySize:  0x800,
		Expected:    []RegValue{{a0, 42}, {a1, 0x400}},
	}
}

// 4. Function Calls - JAL/JALR pairs
func functionCalls() Benchmark {
	// 0x00..0x10: five calls to the function at 0x18
	// 0x14: jump past the function
	// 0x18: addi a0, a0, 1; ret
	words := make([]uint32, 0, 8)
	for i := range int32(5) {
		words = append(words, insts.EncodeJAL(ra, 0x18-i*4))
	}
	words = append(words,
		insts.EncodeJAL(zero, 12),
		insts.EncodeOpImm(insts.OpADDI, a0, a0, 1),
		insts.EncodeJALR(zero, ra, 0),
	)

	return Benchmark{
		Name:        "function_calls",
		Description: "5 call/return pairs - measures indirect jump cost",
		Program:     insts.BuildProgram(words...),
		Expected:    []RegValue{{a0, 5}, {ra, 0x14}},
	}
}

// 5. Branch Taken - always-taken forward branches
func branchTaken() Benchmark {
	return Benchmark{
		Name:        "branch_taken",
		Description: "5 taken BEQ skipping an instruction - measures branch prediction",
		Program: insts.BuildProgram(repeat(5,
			insts.EncodeBranch(insts.OpBEQ, zero, zero, 8),
			insts.EncodeOpImm(insts.OpADDI, a1, zero, 99),
			insts.EncodeOpImm(insts.OpADDI, a0, a0, 1),
		)...),
		Expected: []RegValue{{a0, 5}, {a1, 0}},
	}
}

// 6. Mixed Operations - one of each ALU operation
func mixedOperations() Benchmark {
	return Benchmark{
		Name:        "mixed_operations",
		Description: "Mix of add, sub, logic, shift and compare - measures ALU mix",
		Program: insts.BuildProgram(
			insts.EncodeOpImm(insts.OpADDI, a0, zero, 12),
			insts.EncodeOpImm(insts.OpADDI, a1, zero, 10),
			insts.EncodeOp(insts.OpADD, a2, a0, a1),
			insts.EncodeOp(insts.OpSUB, a3, a0, a1),
			insts.EncodeOp(insts.OpAND, a4, a0, a1),
			insts.EncodeOp(insts.OpOR, a5, a0, a1),
			insts.EncodeOp(insts.OpXOR, a6, a0, a1),
			insts.EncodeOpImm(insts.OpSLLI, a7, a0, 2),
			insts.EncodeOpImm(insts.OpSRAI, t0, a3, 1),
			insts.EncodeOp(insts.OpSLT, t1, a1, a0),
		),
		Expected: []RegValue{
			{a2, 22}, {a3, 2}, {a4, 8}, {a5, 14}, {a6, 6}, {a7, 48}, {t0, 1}, {t1, 1},
		},
	}
}

// 7. Software Multiply - shift-and-add 13 * 11
func softwareMultiply() Benchmark {
	return Benchmark{
		Name:        "software_multiply",
		Description: "Shift-and-add multiply loop - measures data-dependent branches",
		Program: insts.BuildProgram(
			insts.EncodeOpImm(insts.OpADDI, a0, zero, 13),
			insts.EncodeOpImm(insts.OpADDI, a1, zero, 11),
			insts.EncodeOpImm(insts.OpANDI, t0, a1, 1),
			insts.EncodeBranch(insts.OpBEQ, t0, zero, 8),
			insts.EncodeOp(insts.OpADD, a2, a2, a0),
			insts.EncodeOpImm(insts.OpSLLI, a0, a0, 1),
			insts.EncodeOpImm(insts.OpSRLI, a1, a1, 1),
			insts.EncodeBranch(insts.OpBNE, a1, zero, -20),
		),
		Expected: []RegValue{{a2, 143}, {a1, 0}},
	}
}

// 8. Loop Simulation - counted loop with a backward branch
func loopSimulation() Benchmark {
	return Benchmark{
		Name:        "loop_simulation",
		Description: "10-iteration counted loop - measures loop branch prediction",
		Program: insts.BuildProgram(
			insts.EncodeOpImm(insts.OpADDI, a0, zero, 10),
			insts.EncodeOpImm(insts.OpADDI, a1, a1, 1),
			insts.EncodeOpImm(insts.OpADDI, a0, a0, -1),
			insts.EncodeBranch(insts.OpBNE, a0, zero, -8),
		),
		Expected: []RegValue{{a0, 0}, {a1, 10}},
	}
}

// 9. Vector Sum - load-accumulate over an array placed by Setup
func vectorSum() Benchmark {
	const base = 0x100

	return Benchmark{
		Name:        "vector_sum",
		Description: "Sum of 8 words loaded in a loop - measures load-use in loops",
		Setup: func(_ *emu.RegFile, memory *emu.Memory) {
			for i := range uint64(8) {
				_ = memory.Write32(base+i*4, uint32(i+1))
			}
		},
		Program: withExit(0x200,
			insts.EncodeOpImm(insts.OpADDI, a1, zero, base),
			insts.EncodeOpImm(insts.OpADDI, a2, zero, base+32),
			insts.EncodeLoad(insts.OpLW, t0, a1, 0),
			insts.EncodeOp(insts.OpADD, a0, a0, t0),
			insts.EncodeOpImm(insts.OpADDI, a1, a1, 4),
			insts.EncodeBranch(insts.OpBNE, a1, a2, -12),
		),
		MemorySize: 0x200,
		Expected:   []RegValue{{a0, 36}},
	}
}

// 10. Byte Copy - 16-byte memcpy with LBU/SB
func byteCopy() Benchmark {
	const src, dst = 0x100, 0x180

	return Benchmark{
		Name:        "byte_copy",
		Description: "16-byte copy with byte loads and stores - measures sub-word access",
		Setup: func(_ *emu.RegFile, memory *emu.Memory) {
			for i := range uint64(16) {
				_ = memory.Write8(src+i, uint8(i+1))
			}
		},
		Program: withExit(0x200,
			insts.EncodeOpImm(insts.OpADDI, a1, zero, src),
			insts.EncodeOpImm(insts.OpADDI, a2, zero, dst),
			insts.EncodeOpImm(insts.OpADDI, a3, zero, src+16),
			insts.EncodeLoad(insts.OpLBU, t0, a1, 0),
			insts.EncodeStore(insts.OpSB, t0, a2, 0),
			insts.EncodeOpImm(insts.OpADDI, a1, a1, 1),
			insts.EncodeOpImm(insts.OpADDI, a2, a2, 1),
			insts.EncodeBranch(insts.OpBNE, a1, a3, -16),
			insts.EncodeLoad(insts.OpLW, a4, zero, dst+12),
		),
		MemorySize: 0x200,
		Expected:   []RegValue{{a4, 0x100F0E0D}},
	}
}
