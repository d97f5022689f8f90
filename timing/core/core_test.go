package core_test

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/sarchlab/rv32sim/emu"
	"github.com/sarchlab/rv32sim/insts"
	"github.com/sarchlab/rv32sim/timing/core"
	"github.com/sarchlab/rv32sim/timing/latency"
)

// run executes program with a Core attached using the default timing
// configuration (1-cycle ops, 20-cycle memory, 3-cycle mispredict).
func run(program []byte, opts ...emu.EmulatorOption) (*emu.Emulator, *core.Core) {
	e := emu.NewEmulator(program, opts...)
	c := core.NewCore(e.Memory(), latency.DefaultTimingConfig())
	e.SetTracer(c)

	Expect(e.Run()).To(Succeed())
	return e, c
}

var _ = Describe("Core", func() {
	It("should charge one cold instruction cache miss for straight-line code", func() {
		e, c := run(insts.BuildProgram(
			insts.EncodeOpImm(insts.OpADDI, 10, 0, 1),
			insts.EncodeOpImm(insts.OpADDI, 11, 0, 2),
			insts.EncodeOpImm(insts.OpADDI, 12, 0, 3),
		))

		stats := c.Stats()
		Expect(stats.Instructions).To(Equal(e.InstructionCount()))
		Expect(stats.Cycles).To(Equal(uint64(3 + 19)))
		Expect(stats.Stalls).To(Equal(uint64(19)))
		Expect(stats.CPI()).To(BeNumerically("~", 22.0/3.0))

		icache := c.ICacheStats()
		Expect(icache.Reads).To(Equal(uint64(3)))
		Expect(icache.Misses).To(Equal(uint64(1)))
	})

	It("should charge mispredictions of a counting loop", func() {
		_, c := run(insts.BuildProgram(
			insts.EncodeOpImm(insts.OpADDI, 10, 0, 5),
			insts.EncodeOpImm(insts.OpADDI, 10, 10, -1),
			insts.EncodeBranch(insts.OpBNE, 10, 0, -4),
		))

		stats := c.Stats()
		Expect(stats.Instructions).To(Equal(uint64(11)))
		Expect(stats.Branches).To(Equal(uint64(5)))
		// First taken iteration misses the BTB, the exit is mispredicted.
		Expect(stats.Flushes).To(Equal(uint64(2)))
		Expect(stats.Cycles).To(Equal(uint64(11 + 19 + 2*3)))

		pred := c.PredictorStats()
		Expect(pred.Predictions).To(Equal(uint64(5)))
		Expect(pred.Correct).To(Equal(uint64(4)))
	})

	It("should charge data cache misses for loads and stores", func() {
		e, c := run(insts.BuildProgram(
			insts.EncodeOpImm(insts.OpADDI, 10, 0, 64),
			insts.EncodeStore(insts.OpSW, 10, 10, 0),
			insts.EncodeLoad(insts.OpLW, 11, 10, 0),
			insts.EncodeJAL(0, 128-12),
		), emu.WithMemorySize(128))

		Expect(e.RegFile().ReadReg(11)).To(Equal(uint64(64)))

		stats := c.Stats()
		Expect(stats.Loads).To(Equal(uint64(1)))
		Expect(stats.Stores).To(Equal(uint64(1)))
		Expect(stats.Cycles).To(Equal(uint64(3 + 19 + 20 + 1)))
		Expect(stats.Stalls).To(Equal(uint64(38)))

		dcache := c.DCacheStats()
		Expect(dcache.Writes).To(Equal(uint64(1)))
		Expect(dcache.Reads).To(Equal(uint64(1)))
		Expect(dcache.Hits).To(Equal(uint64(1)))
	})

	It("should split accesses that cross a cache line", func() {
		e, c := run(insts.BuildProgram(
			insts.EncodeOpImm(insts.OpADDI, 10, 0, 30),
			insts.EncodeStore(insts.OpSW, 10, 10, 0),
			insts.EncodeJAL(0, 64),
		), emu.WithMemorySize(64))

		Expect(c.DCacheStats().Writes).To(Equal(uint64(2)))
		Expect(e.Memory().Read32(30)).To(Equal(uint32(30)))
	})

	It("should leave architectural state alone across an emulator Reset", func() {
		// 256, 2304 and 4352 share a set of the 2-way data cache, so the
		// second run evicts the line the first run left dirty.
		e := emu.NewEmulator(insts.BuildProgram(
			insts.EncodeLUI(6, 1),
			insts.EncodeOpImm(insts.OpADDI, 6, 6, 256),
			insts.EncodeOpImm(insts.OpADDI, 7, 6, -2048),
			insts.EncodeLoad(insts.OpLW, 5, 6, 0),
			insts.EncodeLoad(insts.OpLW, 5, 7, 0),
			insts.EncodeLoad(insts.OpLW, 10, 0, 256),
			insts.EncodeOpImm(insts.OpADDI, 10, 10, 1),
			insts.EncodeStore(insts.OpSW, 10, 0, 256),
			insts.EncodeJAL(0, 8192-32),
		), emu.WithMemorySize(8192))
		c := core.NewCore(e.Memory(), latency.DefaultTimingConfig())
		e.SetTracer(c)

		Expect(e.Run()).To(Succeed())
		firstRegs := *e.RegFile()
		firstMem := append([]byte(nil), e.Memory().Bytes()...)
		Expect(firstRegs.ReadReg(10)).To(Equal(uint64(1)))

		e.Reset()
		Expect(e.Memory().Read32(256)).To(BeZero())

		Expect(e.Run()).To(Succeed())
		Expect(*e.RegFile()).To(Equal(firstRegs))
		Expect(e.Memory().Bytes()).To(Equal(firstMem))
		Expect(c.DCacheStats().Writebacks).To(Equal(uint64(1)))
	})

	It("should flush on indirect jumps", func() {
		_, c := run(insts.BuildProgram(
			insts.EncodeJAL(1, 8),
			insts.EncodeJAL(0, 12),
			insts.EncodeJALR(0, 1, 0),
		))

		stats := c.Stats()
		Expect(stats.Instructions).To(Equal(uint64(3)))
		Expect(stats.Flushes).To(Equal(uint64(1)))
		Expect(stats.Cycles).To(Equal(uint64(3 + 19 + 3)))
	})

	It("should clear statistics on Reset", func() {
		_, c := run(insts.BuildProgram(insts.EncodeOpImm(insts.OpADDI, 10, 0, 1)))

		c.Reset()

		Expect(c.Stats()).To(Equal(core.Stats{}))
		Expect(c.Stats().CPI()).To(BeZero())
		Expect(c.ICacheStats().Reads).To(BeZero())
		Expect(c.PredictorStats().Predictions).To(BeZero())
	})
})
