package latency_test

import (
	"os"
	"path/filepath"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/sarchlab/rv32sim/insts"
	"github.com/sarchlab/rv32sim/timing/latency"
)

var _ = Describe("Latency", func() {
	var (
		table   *latency.Table
		decoder *insts.Decoder
	)

	decode := func(word uint32) insts.Instruction {
		inst, err := decoder.Decode(word)
		Expect(err).NotTo(HaveOccurred())
		return inst
	}

	BeforeEach(func() {
		table = latency.NewTable()
		decoder = insts.NewDecoder()
	})

	Describe("Default Timing Values", func() {
		It("should have single-cycle execution latencies", func() {
			config := table.Config()
			Expect(config.ALULatency).To(Equal(uint64(1)))
			Expect(config.BranchLatency).To(Equal(uint64(1)))
			Expect(config.LoadLatency).To(Equal(uint64(1)))
			Expect(config.StoreLatency).To(Equal(uint64(1)))
		})

		It("should have correct branch misprediction penalty", func() {
			Expect(table.Config().BranchMispredictPenalty).To(Equal(uint64(3)))
		})
	})

	DescribeTable("class latencies",
		func(word uint32, load, store, branch, jump bool) {
			inst := decode(word)
			Expect(table.GetLatency(inst)).To(Equal(uint64(1)))
			Expect(table.IsLoadOp(inst)).To(Equal(load))
			Expect(table.IsStoreOp(inst)).To(Equal(store))
			Expect(table.IsMemoryOp(inst)).To(Equal(load || store))
			Expect(table.IsBranchOp(inst)).To(Equal(branch))
			Expect(table.IsJumpOp(inst)).To(Equal(jump))
		},
		Entry("add", uint32(0x00b50533), false, false, false, false),
		Entry("srai", uint32(0x40355513), false, false, false, false),
		Entry("lui", uint32(0x12345537), false, false, false, false),
		Entry("lw", uint32(0x80152583), true, false, false, false),
		Entry("sw", uint32(0x80b520a3), false, true, false, false),
		Entry("beq", uint32(0xfeb50ce3), false, false, true, false),
		Entry("jal", uint32(0x008000ef), false, false, false, true),
		Entry("jalr", uint32(0x00008067), false, false, false, true),
	)

	Describe("Nil Instruction Handling", func() {
		It("should return 1 for nil instruction", func() {
			Expect(table.GetLatency(nil)).To(Equal(uint64(1)))
		})

		It("should return false for nil instruction checks", func() {
			Expect(table.IsMemoryOp(nil)).To(BeFalse())
			Expect(table.IsLoadOp(nil)).To(BeFalse())
			Expect(table.IsStoreOp(nil)).To(BeFalse())
			Expect(table.IsBranchOp(nil)).To(BeFalse())
			Expect(table.IsJumpOp(nil)).To(BeFalse())
		})
	})

	Describe("Custom Configuration", func() {
		It("should use custom config values per class", func() {
			config := latency.DefaultTimingConfig()
			config.ALULatency = 2
			config.ShiftLatency = 3
			config.CompareLatency = 4
			config.UpperLatency = 5
			config.LoadLatency = 6
			config.StoreLatency = 7
			config.BranchLatency = 8
			config.JumpLatency = 9
			customTable := latency.NewTableWithConfig(config)

			Expect(customTable.GetLatency(decode(0x00b50533))).To(Equal(uint64(2)))
			Expect(customTable.GetLatency(decode(0x00351513))).To(Equal(uint64(3)))
			Expect(customTable.GetLatency(decode(insts.EncodeOp(insts.OpSLTU, 1, 2, 3)))).To(Equal(uint64(4)))
			Expect(customTable.GetLatency(decode(0x00000597))).To(Equal(uint64(5)))
			Expect(customTable.GetLatency(decode(0x80152583))).To(Equal(uint64(6)))
			Expect(customTable.GetLatency(decode(0x7eb52fa3))).To(Equal(uint64(7)))
			Expect(customTable.GetLatency(decode(0xfeb50ce3))).To(Equal(uint64(8)))
			Expect(customTable.GetLatency(decode(0xffdff06f))).To(Equal(uint64(9)))
		})
	})
})

var _ = Describe("TimingConfig", func() {
	Describe("Default Config", func() {
		It("should create valid default config", func() {
			config := latency.DefaultTimingConfig()
			Expect(config.Validate()).To(Succeed())
		})
	})

	Describe("Validation", func() {
		DescribeTable("rejections",
			func(mutate func(*latency.TimingConfig), message string) {
				config := latency.DefaultTimingConfig()
				mutate(config)
				err := config.Validate()
				Expect(err).To(HaveOccurred())
				Expect(err.Error()).To(ContainSubstring(message))
			},
			Entry("zero ALU latency",
				func(c *latency.TimingConfig) { c.ALULatency = 0 }, "alu_latency"),
			Entry("zero jump latency",
				func(c *latency.TimingConfig) { c.JumpLatency = 0 }, "jump_latency"),
			Entry("zero load latency",
				func(c *latency.TimingConfig) { c.LoadLatency = 0 }, "load_latency"),
			Entry("memory faster than L1",
				func(c *latency.TimingConfig) { c.MemoryLatency = 0 }, "memory_latency"),
			Entry("odd block size",
				func(c *latency.TimingConfig) { c.CacheBlockSize = 24 }, "power of two"),
			Entry("zero ways",
				func(c *latency.TimingConfig) { c.CacheAssociativity = 0 }, "associativity"),
			Entry("ragged cache size",
				func(c *latency.TimingConfig) { c.DCacheSize = 1000 }, "multiple"),
			Entry("empty predictor",
				func(c *latency.TimingConfig) { c.BranchPredictorSize = 0 }, "branch_predictor_size"),
			Entry("predictor size not a power of two",
				func(c *latency.TimingConfig) { c.BranchPredictorSize = 100 }, "branch_predictor_size must be a power of two"),
		)
	})

	Describe("Clone", func() {
		It("should create independent copy", func() {
			original := latency.DefaultTimingConfig()
			clone := original.Clone()

			clone.ALULatency = 100

			Expect(original.ALULatency).To(Equal(uint64(1)))
			Expect(clone.ALULatency).To(Equal(uint64(100)))
		})
	})

	Describe("File Operations", func() {
		var tempDir string

		BeforeEach(func() {
			var err error
			tempDir, err = os.MkdirTemp("", "latency-test")
			Expect(err).NotTo(HaveOccurred())
		})

		AfterEach(func() {
			_ = os.RemoveAll(tempDir)
		})

		It("should save and load config", func() {
			original := latency.DefaultTimingConfig()
			original.ALULatency = 5
			original.DCacheSize = 8192

			path := filepath.Join(tempDir, "timing.json")
			Expect(original.SaveConfig(path)).To(Succeed())

			loaded, err := latency.LoadConfig(path)
			Expect(err).NotTo(HaveOccurred())
			Expect(loaded).To(Equal(original))
		})

		It("should keep defaults for fields missing from the file", func() {
			path := filepath.Join(tempDir, "partial.json")
			Expect(os.WriteFile(path, []byte(`{"load_latency": 3}`), 0644)).To(Succeed())

			loaded, err := latency.LoadConfig(path)
			Expect(err).NotTo(HaveOccurred())
			Expect(loaded.LoadLatency).To(Equal(uint64(3)))
			Expect(loaded.MemoryLatency).To(Equal(uint64(20)))
		})

		It("should return error for non-existent file", func() {
			_, err := latency.LoadConfig("/nonexistent/path/timing.json")
			Expect(err).To(MatchError(os.ErrNotExist))
		})

		It("should return error for invalid JSON", func() {
			path := filepath.Join(tempDir, "invalid.json")
			err := os.WriteFile(path, []byte("not valid json"), 0644)
			Expect(err).NotTo(HaveOccurred())

			_, err = latency.LoadConfig(path)
			Expect(err).To(HaveOccurred())
			Expect(err.Error()).To(ContainSubstring("failed to parse"))
		})
	})
})
