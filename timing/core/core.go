// Package core provides a timing model that rides along with the functional
// emulator. It observes retired instructions through the emu.Tracer hook and
// charges cycles for execution, cache misses and branch mispredictions.
package core

import (
	"encoding/binary"

	"github.com/sarchlab/rv32sim/emu"
	"github.com/sarchlab/rv32sim/insts"
	"github.com/sarchlab/rv32sim/timing/cache"
	"github.com/sarchlab/rv32sim/timing/latency"
)

// Stats holds performance statistics for the core.
type Stats struct {
	// Cycles is the total number of cycles charged.
	Cycles uint64
	// Instructions is the number of instructions retired.
	Instructions uint64
	// Stalls is the number of cycles lost to cache misses.
	Stalls uint64
	// Flushes is the number of pipeline flushes. A mispredicted conditional
	// branch flushes, and so does every JALR.
	Flushes uint64
	// Loads, Stores and Branches count retired instructions by kind.
	Loads    uint64
	Stores   uint64
	Branches uint64
}

// CPI returns cycles per instruction, or 0 before the first instruction.
func (s Stats) CPI() float64 {
	if s.Instructions == 0 {
		return 0
	}
	return float64(s.Cycles) / float64(s.Instructions)
}

// Core is an in-order timing model. Attach it with emu.WithTracer.
type Core struct {
	config    *latency.TimingConfig
	latencies *latency.Table
	memory    *emu.Memory

	icache    *cache.Cache
	dcache    *cache.Cache
	predictor *BranchPredictor

	stats Stats
}

// NewCore creates a Core whose caches are backed by memory. memory must be
// the emulator's memory so that cache fills observe its stores. Dirty lines
// are never written back to it.
func NewCore(memory *emu.Memory, config *latency.TimingConfig) *Core {
	backing := cache.NewReadOnlyMemoryBacking(memory)

	return &Core{
		config:    config,
		latencies: latency.NewTableWithConfig(config),
		memory:    memory,
		icache:    cache.New(cacheConfig(config, config.ICacheSize), backing),
		dcache:    cache.New(cacheConfig(config, config.DCacheSize), backing),
		predictor: NewBranchPredictor(BranchPredictorConfig{
			BHTSize: config.BranchPredictorSize,
			BTBSize: config.BranchPredictorSize,
		}),
	}
}

func cacheConfig(config *latency.TimingConfig, size int) cache.Config {
	return cache.Config{
		Size:          size,
		Associativity: config.CacheAssociativity,
		BlockSize:     config.CacheBlockSize,
		HitLatency:    config.L1HitLatency,
		MissLatency:   config.MemoryLatency,
	}
}

// Retire charges the cycles of one retired instruction.
func (c *Core) Retire(r emu.Retirement) {
	c.stats.Instructions++

	cycles := c.latencies.GetLatency(r.Inst)
	cycles += c.fetch(r.PC)

	switch r.Inst.Mnemonic().Class() {
	case insts.ClassLoad:
		c.stats.Loads++
		cycles += c.dataAccess(r.MemAddr, r.MemSize, false)
	case insts.ClassStore:
		c.stats.Stores++
		cycles += c.dataAccess(r.MemAddr, r.MemSize, true)
	case insts.ClassBranch:
		c.stats.Branches++
		cycles += c.branch(r)
	case insts.ClassJump:
		// JAL targets are known at decode; JALR resolves in execute.
		if r.Inst.Mnemonic() == insts.OpJALR {
			c.stats.Flushes++
			cycles += c.config.BranchMispredictPenalty
		}
	}

	c.stats.Cycles += cycles
}

// fetch returns the stall cycles of the instruction fetch at pc.
func (c *Core) fetch(pc uint64) uint64 {
	res := c.icache.Read(pc, 4)
	if res.Hit {
		return 0
	}

	stall := res.Latency - c.config.L1HitLatency
	c.stats.Stalls += stall
	return stall
}

// dataAccess runs a load or store through the data cache, splitting it at
// block boundaries, and returns its latency.
func (c *Core) dataAccess(addr uint64, size int, store bool) uint64 {
	blockSize := uint64(c.dcache.Config().BlockSize)

	var lat uint64
	for size > 0 {
		n := min(size, int(blockSize-addr%blockSize))

		var res cache.AccessResult
		if store {
			res = c.dcache.Write(addr, n, c.storedValue(addr, n))
		} else {
			res = c.dcache.Read(addr, n)
		}

		if !res.Hit {
			c.stats.Stalls += res.Latency - c.config.L1HitLatency
		}
		lat = max(lat, res.Latency)

		addr += uint64(n)
		size -= n
	}

	return lat
}

// storedValue reads back what the emulator just stored at addr.
func (c *Core) storedValue(addr uint64, size int) uint64 {
	var buf [8]byte
	copy(buf[:size], c.memory.Bytes()[addr:])
	return binary.LittleEndian.Uint64(buf[:])
}

// branch predicts and trains a conditional branch and returns the
// misprediction penalty.
func (c *Core) branch(r emu.Retirement) uint64 {
	pred := c.predictor.Predict(r.PC)
	c.predictor.Update(r.PC, r.Taken, r.NextPC)

	if pred.NextPC(r.PC) == r.NextPC {
		return 0
	}

	c.stats.Flushes++
	return c.config.BranchMispredictPenalty
}

// Stats returns performance statistics for the core.
func (c *Core) Stats() Stats {
	return c.stats
}

// ICacheStats returns the instruction cache statistics.
func (c *Core) ICacheStats() cache.Statistics {
	return c.icache.Stats()
}

// DCacheStats returns the data cache statistics.
func (c *Core) DCacheStats() cache.Statistics {
	return c.dcache.Stats()
}

// PredictorStats returns the branch predictor statistics.
func (c *Core) PredictorStats() BranchPredictorStats {
	return c.predictor.Stats()
}

// Reset clears all core state. Dirty data cache lines are discarded; their
// contents already live in emulator memory.
func (c *Core) Reset() {
	c.icache.Reset()
	c.dcache.Reset()
	c.predictor.Reset()
	c.stats = Stats{}
}
