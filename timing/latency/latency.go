// Package latency provides instruction timing models for the RV32I timing
// core.
//
// Latencies are looked up per instruction class and can be configured via
// TimingConfig.
package latency

import (
	"github.com/sarchlab/rv32sim/insts"
)

// Table provides instruction latency lookups.
type Table struct {
	config *TimingConfig
}

// NewTable creates a new latency table with default timing values.
func NewTable() *Table {
	return &Table{
		config: DefaultTimingConfig(),
	}
}

// NewTableWithConfig creates a new latency table with custom timing configuration.
func NewTableWithConfig(config *TimingConfig) *Table {
	return &Table{
		config: config,
	}
}

// GetLatency returns the execution latency in cycles for the given
// instruction. Cache and misprediction penalties are not included.
func (t *Table) GetLatency(inst insts.Instruction) uint64 {
	if inst == nil {
		return 1
	}

	switch inst.Mnemonic().Class() {
	case insts.ClassALU:
		return t.config.ALULatency
	case insts.ClassShift:
		return t.config.ShiftLatency
	case insts.ClassCompare:
		return t.config.CompareLatency
	case insts.ClassUpper:
		return t.config.UpperLatency
	case insts.ClassLoad:
		return t.config.LoadLatency
	case insts.ClassStore:
		return t.config.StoreLatency
	case insts.ClassBranch:
		return t.config.BranchLatency
	case insts.ClassJump:
		return t.config.JumpLatency
	default:
		return 1
	}
}

// IsMemoryOp returns true if the instruction accesses memory.
func (t *Table) IsMemoryOp(inst insts.Instruction) bool {
	return t.IsLoadOp(inst) || t.IsStoreOp(inst)
}

// IsLoadOp returns true if the instruction is a load operation.
func (t *Table) IsLoadOp(inst insts.Instruction) bool {
	return classOf(inst) == insts.ClassLoad
}

// IsStoreOp returns true if the instruction is a store operation.
func (t *Table) IsStoreOp(inst insts.Instruction) bool {
	return classOf(inst) == insts.ClassStore
}

// IsBranchOp returns true if the instruction is a conditional branch.
func (t *Table) IsBranchOp(inst insts.Instruction) bool {
	return classOf(inst) == insts.ClassBranch
}

// IsJumpOp returns true if the instruction is JAL or JALR.
func (t *Table) IsJumpOp(inst insts.Instruction) bool {
	return classOf(inst) == insts.ClassJump
}

// Config returns the current timing configuration.
func (t *Table) Config() *TimingConfig {
	return t.config
}

func classOf(inst insts.Instruction) insts.Class {
	if inst == nil {
		return insts.ClassUnknown
	}
	return inst.Mnemonic().Class()
}
