package emu

import "github.com/sarchlab/rv32sim/insts"

// LoadStoreUnit implements the RV32I loads and stores.
//
// A faulting access returns a *MemoryError and leaves both the destination
// register and memory untouched.
type LoadStoreUnit struct {
	regFile *RegFile
	memory  *Memory
}

// NewLoadStoreUnit creates a new LoadStoreUnit connected to the given
// register file and memory.
func NewLoadStoreUnit(regFile *RegFile, memory *Memory) *LoadStoreUnit {
	return &LoadStoreUnit{
		regFile: regFile,
		memory:  memory,
	}
}

// EffectiveAddr returns rs1 + sext(offset).
func (lsu *LoadStoreUnit) EffectiveAddr(rs1 uint8, offset int32) uint64 {
	return lsu.regFile.ReadReg(rs1) + sext(offset)
}

// AccessSize returns the number of bytes a load or store op touches, or 0
// for other ops.
func AccessSize(op insts.Op) int {
	switch op {
	case insts.OpLB, insts.OpLBU, insts.OpSB:
		return 1
	case insts.OpLH, insts.OpLHU, insts.OpSH:
		return 2
	case insts.OpLW, insts.OpSW:
		return 4
	default:
		return 0
	}
}

// LB loads a sign-extended byte: rd = sext(mem8[rs1 + offset]).
func (lsu *LoadStoreUnit) LB(rd, rs1 uint8, offset int32) error {
	v, err := lsu.memory.Read8(lsu.EffectiveAddr(rs1, offset))
	if err != nil {
		return err
	}
	lsu.regFile.WriteReg(rd, uint64(int64(int8(v))))
	return nil
}

// LH loads a sign-extended halfword.
func (lsu *LoadStoreUnit) LH(rd, rs1 uint8, offset int32) error {
	v, err := lsu.memory.Read16(lsu.EffectiveAddr(rs1, offset))
	if err != nil {
		return err
	}
	lsu.regFile.WriteReg(rd, uint64(int64(int16(v))))
	return nil
}

// LW loads a sign-extended word.
func (lsu *LoadStoreUnit) LW(rd, rs1 uint8, offset int32) error {
	v, err := lsu.memory.Read32(lsu.EffectiveAddr(rs1, offset))
	if err != nil {
		return err
	}
	lsu.regFile.WriteReg(rd, uint64(int64(int32(v))))
	return nil
}

// LBU loads a zero-extended byte.
func (lsu *LoadStoreUnit) LBU(rd, rs1 uint8, offset int32) error {
	v, err := lsu.memory.Read8(lsu.EffectiveAddr(rs1, offset))
	if err != nil {
		return err
	}
	lsu.regFile.WriteReg(rd, uint64(v))
	return nil
}

// LHU loads a zero-extended halfword.
func (lsu *LoadStoreUnit) LHU(rd, rs1 uint8, offset int32) error {
	v, err := lsu.memory.Read16(lsu.EffectiveAddr(rs1, offset))
	if err != nil {
		return err
	}
	lsu.regFile.WriteReg(rd, uint64(v))
	return nil
}

// SB stores the low byte of rs2: mem8[rs1 + offset] = rs2.
func (lsu *LoadStoreUnit) SB(rs2, rs1 uint8, offset int32) error {
	return lsu.memory.Write8(lsu.EffectiveAddr(rs1, offset), uint8(lsu.regFile.ReadReg(rs2)))
}

// SH stores the low halfword of rs2.
func (lsu *LoadStoreUnit) SH(rs2, rs1 uint8, offset int32) error {
	return lsu.memory.Write16(lsu.EffectiveAddr(rs1, offset), uint16(lsu.regFile.ReadReg(rs2)))
}

// SW stores the low word of rs2.
func (lsu *LoadStoreUnit) SW(rs2, rs1 uint8, offset int32) error {
	return lsu.memory.Write32(lsu.EffectiveAddr(rs1, offset), uint32(lsu.regFile.ReadReg(rs2)))
}
