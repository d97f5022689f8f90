package emu

import "github.com/sarchlab/rv32sim/insts"

// BranchUnit implements conditional branches and jumps.
//
// All methods run after the fetch stage has advanced PC by 4, so PC holds
// the return address and PC-4 is the address of the branch itself.
type BranchUnit struct {
	regFile *RegFile
}

// NewBranchUnit creates a new BranchUnit connected to the given register file.
func NewBranchUnit(regFile *RegFile) *BranchUnit {
	return &BranchUnit{regFile: regFile}
}

// Condition evaluates the comparison of a conditional branch op.
// It returns false for ops that are not conditional branches.
func Condition(op insts.Op, a, b uint64) bool {
	switch op {
	case insts.OpBEQ:
		return a == b
	case insts.OpBNE:
		return a != b
	case insts.OpBLT:
		return int64(a) < int64(b)
	case insts.OpBGE:
		return int64(a) >= int64(b)
	case insts.OpBLTU:
		return a < b
	case insts.OpBGEU:
		return a >= b
	default:
		return false
	}
}

// Branch evaluates a conditional branch and redirects PC when it is taken.
// It reports whether the branch was taken.
func (b *BranchUnit) Branch(op insts.Op, rs1, rs2 uint8, offset int32) bool {
	if !Condition(op, b.regFile.ReadReg(rs1), b.regFile.ReadReg(rs2)) {
		return false
	}

	b.regFile.PC = b.regFile.PC - 4 + sext(offset)
	return true
}

// JAL links the return address into rd and jumps PC-relative.
func (b *BranchUnit) JAL(rd uint8, offset int32) {
	ret := b.regFile.PC
	b.regFile.PC = ret - 4 + sext(offset)
	b.regFile.WriteReg(rd, ret)
}

// JALR links the return address into rd and jumps to rs1+offset with the
// lowest bit cleared. rs1 is read before rd is written, so rd == rs1 works.
func (b *BranchUnit) JALR(rd, rs1 uint8, offset int32) {
	target := (b.regFile.ReadReg(rs1) + sext(offset)) &^ 1
	b.regFile.WriteReg(rd, b.regFile.PC)
	b.regFile.PC = target
}
