package emu

// ALU implements the RV32I integer arithmetic, logic, shift and compare
// operations on 64-bit registers.
type ALU struct {
	regFile *RegFile
}

// NewALU creates a new ALU connected to the given register file.
func NewALU(regFile *RegFile) *ALU {
	return &ALU{regFile: regFile}
}

// ADD performs rd = rs1 + rs2, wrapping modulo 2^64.
func (a *ALU) ADD(rd, rs1, rs2 uint8) {
	a.regFile.WriteReg(rd, a.regFile.ReadReg(rs1)+a.regFile.ReadReg(rs2))
}

// SUB performs rd = rs1 - rs2, wrapping modulo 2^64.
func (a *ALU) SUB(rd, rs1, rs2 uint8) {
	a.regFile.WriteReg(rd, a.regFile.ReadReg(rs1)-a.regFile.ReadReg(rs2))
}

// AND performs rd = rs1 & rs2.
func (a *ALU) AND(rd, rs1, rs2 uint8) {
	a.regFile.WriteReg(rd, a.regFile.ReadReg(rs1)&a.regFile.ReadReg(rs2))
}

// OR performs rd = rs1 | rs2.
func (a *ALU) OR(rd, rs1, rs2 uint8) {
	a.regFile.WriteReg(rd, a.regFile.ReadReg(rs1)|a.regFile.ReadReg(rs2))
}

// XOR performs rd = rs1 ^ rs2.
func (a *ALU) XOR(rd, rs1, rs2 uint8) {
	a.regFile.WriteReg(rd, a.regFile.ReadReg(rs1)^a.regFile.ReadReg(rs2))
}

// SLL shifts rs1 left by the low five bits of rs2.
func (a *ALU) SLL(rd, rs1, rs2 uint8) {
	a.regFile.WriteReg(rd, shiftLeft(a.regFile.ReadReg(rs1), a.regFile.ReadReg(rs2)))
}

// SRL shifts rs1 right logically by the low five bits of rs2.
func (a *ALU) SRL(rd, rs1, rs2 uint8) {
	a.regFile.WriteReg(rd, shiftRight(a.regFile.ReadReg(rs1), a.regFile.ReadReg(rs2)))
}

// SRA shifts rs1 right arithmetically by the low five bits of rs2.
func (a *ALU) SRA(rd, rs1, rs2 uint8) {
	a.regFile.WriteReg(rd, shiftRightArith(a.regFile.ReadReg(rs1), a.regFile.ReadReg(rs2)))
}

// SLT sets rd to 1 if rs1 < rs2 as signed values, else 0.
func (a *ALU) SLT(rd, rs1, rs2 uint8) {
	a.regFile.WriteReg(rd, boolToReg(a.regFile.ReadRegSigned(rs1) < a.regFile.ReadRegSigned(rs2)))
}

// SLTU sets rd to 1 if rs1 < rs2 as unsigned values, else 0.
func (a *ALU) SLTU(rd, rs1, rs2 uint8) {
	a.regFile.WriteReg(rd, boolToReg(a.regFile.ReadReg(rs1) < a.regFile.ReadReg(rs2)))
}

// ADDI performs rd = rs1 + sext(imm).
func (a *ALU) ADDI(rd, rs1 uint8, imm int32) {
	a.regFile.WriteReg(rd, a.regFile.ReadReg(rs1)+sext(imm))
}

// ANDI performs rd = rs1 & sext(imm).
func (a *ALU) ANDI(rd, rs1 uint8, imm int32) {
	a.regFile.WriteReg(rd, a.regFile.ReadReg(rs1)&sext(imm))
}

// ORI performs rd = rs1 | sext(imm).
func (a *ALU) ORI(rd, rs1 uint8, imm int32) {
	a.regFile.WriteReg(rd, a.regFile.ReadReg(rs1)|sext(imm))
}

// XORI performs rd = rs1 ^ sext(imm).
func (a *ALU) XORI(rd, rs1 uint8, imm int32) {
	a.regFile.WriteReg(rd, a.regFile.ReadReg(rs1)^sext(imm))
}

// SLTI sets rd to 1 if rs1 < imm as signed values, else 0.
func (a *ALU) SLTI(rd, rs1 uint8, imm int32) {
	a.regFile.WriteReg(rd, boolToReg(a.regFile.ReadRegSigned(rs1) < int64(imm)))
}

// SLTIU sets rd to 1 if rs1 < sext(imm) as unsigned values, else 0.
// An immediate of -1 therefore compares against the largest value.
func (a *ALU) SLTIU(rd, rs1 uint8, imm int32) {
	a.regFile.WriteReg(rd, boolToReg(a.regFile.ReadReg(rs1) < sext(imm)))
}

// SLLI shifts rs1 left by shamt.
func (a *ALU) SLLI(rd, rs1, shamt uint8) {
	a.regFile.WriteReg(rd, shiftLeft(a.regFile.ReadReg(rs1), uint64(shamt)))
}

// SRLI shifts rs1 right logically by shamt.
func (a *ALU) SRLI(rd, rs1, shamt uint8) {
	a.regFile.WriteReg(rd, shiftRight(a.regFile.ReadReg(rs1), uint64(shamt)))
}

// SRAI shifts rs1 right arithmetically by shamt.
func (a *ALU) SRAI(rd, rs1, shamt uint8) {
	a.regFile.WriteReg(rd, shiftRightArith(a.regFile.ReadReg(rs1), uint64(shamt)))
}

// LUI loads the sign-extended upper immediate into rd.
func (a *ALU) LUI(rd uint8, imm int32) {
	a.regFile.WriteReg(rd, sext(imm))
}

// AUIPC adds the sign-extended upper immediate to the address of the
// instruction itself. pc is that address.
func (a *ALU) AUIPC(rd uint8, pc uint64, imm int32) {
	a.regFile.WriteReg(rd, pc+sext(imm))
}

// shiftMask keeps the RV32 shift amount range.
const shiftMask = 0x1F

func shiftLeft(value, amount uint64) uint64 {
	return value << (amount & shiftMask)
}

func shiftRight(value, amount uint64) uint64 {
	return value >> (amount & shiftMask)
}

func shiftRightArith(value, amount uint64) uint64 {
	return uint64(int64(value) >> (amount & shiftMask))
}

func sext(imm int32) uint64 {
	return uint64(int64(imm))
}

func boolToReg(b bool) uint64 {
	if b {
		return 1
	}
	return 0
}
