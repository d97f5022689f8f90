// Package main provides the entry point for rv32sim, an RV32I instruction
// set emulator.
//
// Usage:
//
//	rv32sim [flags] <image>
//
// The image is a raw binary executed from address 0, or a 32-bit RISC-V ELF
// executable. After the program runs off the end of memory the register
// state is printed.
package main

import (
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/sirupsen/logrus"

	"github.com/sarchlab/rv32sim/emu"
	"github.com/sarchlab/rv32sim/loader"
	"github.com/sarchlab/rv32sim/timing/core"
	"github.com/sarchlab/rv32sim/timing/latency"
)

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

type options struct {
	verbose    bool
	trace      bool
	timing     bool
	configPath string
	maxInsts   uint64
	memSize    int
}

// run executes the command line args and returns the process exit code.
func run(args []string, stdout, stderr io.Writer) int {
	var opts options

	fs := flag.NewFlagSet("rv32sim", flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.BoolVar(&opts.verbose, "v", false, "Verbose output")
	fs.BoolVar(&opts.trace, "trace", false, "Log every retired instruction")
	fs.BoolVar(&opts.timing, "timing", false, "Enable timing simulation mode")
	fs.StringVar(&opts.configPath, "config", "", "Path to timing configuration JSON file (implies -timing)")
	fs.Uint64Var(&opts.maxInsts, "max", 0, "Max instructions to execute (0 = unlimited)")
	fs.IntVar(&opts.memSize, "mem", 0, "Memory size in bytes (0 = image size)")

	if err := fs.Parse(args); err != nil {
		if err == flag.ErrHelp {
			return 0
		}
		return 2
	}

	if fs.NArg() != 1 {
		_, _ = fmt.Fprintf(stdout, "Usage: rv32sim [options] <image>\n")
		_, _ = fmt.Fprintf(stdout, "\nOptions:\n")
		fs.SetOutput(stdout)
		fs.PrintDefaults()
		return 0
	}

	imagePath := fs.Arg(0)

	prog, err := loader.Load(imagePath)
	if err != nil {
		_, _ = fmt.Fprintf(stderr, "Error loading program: %v\n", err)
		return 1
	}

	var timingConfig *latency.TimingConfig
	if opts.timing || opts.configPath != "" {
		timingConfig, err = loadTimingConfig(opts.configPath)
		if err != nil {
			_, _ = fmt.Fprintf(stderr, "Error loading timing config: %v\n", err)
			return 1
		}
	}

	logger := logrus.New()
	logger.SetOutput(stderr)
	if opts.trace {
		logger.SetLevel(logrus.DebugLevel)
	}

	if opts.verbose {
		_, _ = fmt.Fprintf(stdout, "Loaded: %s\n", imagePath)
		_, _ = fmt.Fprintf(stdout, "Format: %s\n", prog.Format)
		_, _ = fmt.Fprintf(stdout, "Entry point: 0x%X\n", prog.Entry)
		_, _ = fmt.Fprintf(stdout, "Image size: %d bytes\n", len(prog.Image))
	}

	emulator := emu.NewEmulator(prog.Image,
		emu.WithLogger(logger),
		emu.WithEntryPoint(prog.Entry),
		emu.WithMaxInstructions(opts.maxInsts),
		emu.WithMemorySize(opts.memSize),
	)

	var timingCore *core.Core
	if timingConfig != nil {
		timingCore = core.NewCore(emulator.Memory(), timingConfig)
		emulator.SetTracer(timingCore)
	}

	runErr := emulator.Run()

	if err := emu.WriteState(stdout, emulator.RegFile()); err != nil {
		_, _ = fmt.Fprintf(stderr, "Error writing state: %v\n", err)
		return 1
	}

	if opts.verbose {
		_, _ = fmt.Fprintf(stdout, "\nInstructions executed: %d\n", emulator.InstructionCount())
	}

	if timingCore != nil {
		printTiming(stdout, timingCore)
	}

	if runErr != nil {
		_, _ = fmt.Fprintf(stderr, "Error: %v\n", runErr)
		return 1
	}

	return 0
}

func loadTimingConfig(path string) (*latency.TimingConfig, error) {
	if path == "" {
		return latency.DefaultTimingConfig(), nil
	}

	config, err := latency.LoadConfig(path)
	if err != nil {
		return nil, err
	}

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid timing config: %w", err)
	}

	return config, nil
}

// printTiming prints the timing report of a finished run.
func printTiming(w io.Writer, c *core.Core) {
	stats := c.Stats()

	totalCycles := stats.Cycles
	if totalCycles == 0 {
		totalCycles = 1
	}

	_, _ = fmt.Fprintf(w, "\n")
	_, _ = fmt.Fprintf(w, "Total Instructions: %d\n", stats.Instructions)
	_, _ = fmt.Fprintf(w, "Total Cycles: %d\n", stats.Cycles)
	_, _ = fmt.Fprintf(w, "CPI: %.2f\n", stats.CPI())
	_, _ = fmt.Fprintf(w, "\n")
	_, _ = fmt.Fprintf(w, "Breakdown:\n")
	_, _ = fmt.Fprintf(w, "  Cache stalls: %4d cycles (%5.1f%%)\n",
		stats.Stalls, 100.0*float64(stats.Stalls)/float64(totalCycles))
	_, _ = fmt.Fprintf(w, "  Flushes:      %4d\n", stats.Flushes)
	_, _ = fmt.Fprintf(w, "  Loads:        %4d\n", stats.Loads)
	_, _ = fmt.Fprintf(w, "  Stores:       %4d\n", stats.Stores)
	_, _ = fmt.Fprintf(w, "  Branches:     %4d\n", stats.Branches)

	icache := c.ICacheStats()
	dcache := c.DCacheStats()
	bp := c.PredictorStats()

	_, _ = fmt.Fprintf(w, "\n")
	_, _ = fmt.Fprintf(w, "I-Cache: %d hits, %d misses (%.1f%% hit rate)\n",
		icache.Hits, icache.Misses, 100*icache.HitRate())
	_, _ = fmt.Fprintf(w, "D-Cache: %d hits, %d misses (%.1f%% hit rate)\n",
		dcache.Hits, dcache.Misses, 100*dcache.HitRate())
	_, _ = fmt.Fprintf(w, "Branch Predictor: %d predictions, %.1f%% accuracy\n",
		bp.Predictions, bp.Accuracy())
}
