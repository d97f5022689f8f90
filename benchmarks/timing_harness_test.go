package benchmarks_test

import (
	"bytes"
	"encoding/json"
	"strings"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/sirupsen/logrus"

	"github.com/sarchlab/rv32sim/benchmarks"
	"github.com/sarchlab/rv32sim/emu"
	"github.com/sarchlab/rv32sim/insts"
)

func find(results []benchmarks.BenchmarkResult, name string) benchmarks.BenchmarkResult {
	for _, r := range results {
		if r.Name == name {
			return r
		}
	}
	Fail("no result named " + name)
	return benchmarks.BenchmarkResult{}
}

var _ = Describe("Harness", func() {
	var (
		out     *bytes.Buffer
		harness *benchmarks.Harness
	)

	BeforeEach(func() {
		out = &bytes.Buffer{}
		config := benchmarks.DefaultConfig()
		config.Output = out
		harness = benchmarks.NewHarness(config)
	})

	It("should pass every microbenchmark", func() {
		harness.AddBenchmarks(benchmarks.GetMicrobenchmarks())
		results := harness.RunAll()

		Expect(results).To(HaveLen(len(benchmarks.GetMicrobenchmarks())))
		for _, r := range results {
			Expect(r.Error).To(BeEmpty(), r.Name)
			Expect(r.Passed).To(BeTrue(), r.Name)
			Expect(r.InstructionsRetired).NotTo(BeZero(), r.Name)
			Expect(r.SimulatedCycles).To(BeNumerically(">=", r.InstructionsRetired), r.Name)
		}
	})

	It("should pass the core benchmarks", func() {
		harness.AddBenchmarks(benchmarks.GetCoreBenchmarks())
		results := harness.RunAll()

		Expect(results).To(HaveLen(3))
		for _, r := range results {
			Expect(r.Passed).To(BeTrue(), r.Name)
		}
	})

	It("should charge instruction cache misses on a dependency chain", func() {
		harness.AddBenchmarks(benchmarks.GetMicrobenchmarks())
		r := find(harness.RunAll(), "dependency_chain")

		// 80 bytes of code span three 32-byte lines.
		Expect(r.InstructionsRetired).To(Equal(uint64(20)))
		Expect(r.ICacheMisses).To(Equal(uint64(3)))
		Expect(r.StallCycles).To(Equal(uint64(3 * 19)))
		Expect(r.SimulatedCycles).To(Equal(uint64(20 + 3*19)))
	})

	It("should flush on every return", func() {
		harness.AddBenchmarks(benchmarks.GetMicrobenchmarks())
		r := find(harness.RunAll(), "function_calls")

		Expect(r.InstructionsRetired).To(Equal(uint64(5*3 + 1)))
		Expect(r.PipelineFlushes).To(Equal(uint64(5)))
		Expect(r.BranchPredictions).To(BeZero())
	})

	It("should count loop branches", func() {
		harness.AddBenchmarks(benchmarks.GetCoreBenchmarks())
		r := find(harness.RunAll(), "loop_simulation")

		Expect(r.Branches).To(Equal(uint64(10)))
		Expect(r.BranchPredictions).To(Equal(uint64(10)))
		Expect(r.BranchCorrect + r.BranchMispredictions).To(Equal(uint64(10)))
	})

	It("should use the data cache for memory benchmarks", func() {
		harness.AddBenchmarks(benchmarks.GetMicrobenchmarks())
		r := find(harness.RunAll(), "memory_sequential")

		Expect(r.Loads).To(Equal(uint64(10)))
		Expect(r.Stores).To(Equal(uint64(10)))
		Expect(r.DCacheMisses).To(Equal(uint64(2)))
		Expect(r.DCacheHits).To(Equal(uint64(18)))
	})

	It("should fail a benchmark whose registers do not match", func() {
		harness.AddBenchmark(benchmarks.Benchmark{
			Name: "wrong",
			Program: insts.BuildProgram(
				insts.EncodeOpImm(insts.OpADDI, 10, 0, 1),
			),
			Expected: []benchmarks.RegValue{{Reg: 10, Value: 2}},
		})
		r := harness.RunAll()[0]

		Expect(r.Passed).To(BeFalse())
		Expect(r.Error).To(Equal("a0 = 0x1, want 0x2"))
		Expect(r.InstructionsRetired).To(Equal(uint64(1)))
	})

	It("should report faults", func() {
		harness.AddBenchmark(benchmarks.Benchmark{
			Name:    "fault",
			Program: insts.BuildProgram(insts.EncodeLoad(insts.OpLW, 10, 0, 64)),
		})
		r := harness.RunAll()[0]

		Expect(r.Passed).To(BeFalse())
		Expect(r.Error).To(ContainSubstring("outside memory"))
	})

	It("should stop runaway programs at the instruction budget", func() {
		config := benchmarks.DefaultConfig()
		config.Output = out
		config.MaxInstructions = 50
		harness = benchmarks.NewHarness(config)

		harness.AddBenchmark(benchmarks.Benchmark{
			Name:    "spin",
			Program: insts.BuildProgram(insts.EncodeJAL(0, 0)),
		})
		r := harness.RunAll()[0]

		Expect(r.Passed).To(BeFalse())
		Expect(r.InstructionsRetired).To(Equal(uint64(50)))
	})

	It("should run setup before execution", func() {
		harness.AddBenchmark(benchmarks.Benchmark{
			Name: "setup",
			Setup: func(regFile *emu.RegFile, _ *emu.Memory) {
				regFile.WriteReg(11, 41)
			},
			Program: insts.BuildProgram(
				insts.EncodeOpImm(insts.OpADDI, 10, 11, 1),
			),
			Expected: []benchmarks.RegValue{{Reg: 10, Value: 42}},
		})

		Expect(harness.RunAll()[0].Passed).To(BeTrue())
	})

	It("should log each benchmark when verbose", func() {
		logOut := &bytes.Buffer{}
		logger := logrus.New()
		logger.SetOutput(logOut)

		config := benchmarks.DefaultConfig()
		config.Output = out
		config.Verbose = true
		config.Logger = logger
		harness = benchmarks.NewHarness(config)

		harness.AddBenchmarks(benchmarks.GetCoreBenchmarks())
		harness.RunAll()

		Expect(strings.Count(logOut.String(), "benchmark complete")).To(Equal(3))
		Expect(logOut.String()).To(ContainSubstring("benchmark=loop_simulation"))
	})

	Describe("output", func() {
		var results []benchmarks.BenchmarkResult

		BeforeEach(func() {
			harness.AddBenchmarks(benchmarks.GetCoreBenchmarks())
			results = harness.RunAll()
		})

		It("should print human-readable results", func() {
			harness.PrintResults(results)

			text := out.String()
			Expect(text).To(HavePrefix("=== rv32sim Timing Benchmark Results ==="))
			Expect(text).To(ContainSubstring("Benchmark: software_multiply"))
			Expect(text).To(ContainSubstring("Result: PASS"))
			Expect(text).To(ContainSubstring("--- Branch Predictor ---"))
		})

		It("should print one CSV row per benchmark", func() {
			harness.PrintCSV(results)

			lines := strings.Split(strings.TrimSpace(out.String()), "\n")
			Expect(lines).To(HaveLen(4))
			Expect(lines[0]).To(HavePrefix("name,cycles,instructions,cpi"))
			Expect(lines[1]).To(HavePrefix("loop_simulation,"))
			Expect(lines[1]).To(HaveSuffix(",true"))
		})

		It("should print a JSON report with a summary", func() {
			Expect(harness.PrintJSON(results)).To(Succeed())

			var report benchmarks.BenchmarkReport
			Expect(json.Unmarshal(out.Bytes(), &report)).To(Succeed())

			Expect(report.Metadata.Version).To(Equal(benchmarks.Version))
			Expect(report.Metadata.Config.MemoryLatency).To(Equal(uint64(20)))
			Expect(report.Results).To(HaveLen(3))
			Expect(report.Summary).To(Equal(benchmarks.Summarize(results)))
			Expect(report.Summary.Passed).To(Equal(3))
		})
	})
})
