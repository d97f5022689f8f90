package insts

import "encoding/binary"

// encoding holds the fixed fields that identify a mnemonic.
type encoding struct {
	opcode uint32
	funct3 uint32
	funct7 uint32
}

const (
	opcodeLoad   = 0b0000011
	opcodeOpImm  = 0b0010011
	opcodeAUIPC  = 0b0010111
	opcodeStore  = 0b0100011
	opcodeOp     = 0b0110011
	opcodeLUI    = 0b0110111
	opcodeBranch = 0b1100011
	opcodeJALR   = 0b1100111
	opcodeJAL    = 0b1101111
)

var encodings = [numOps]encoding{
	OpLUI:   {opcodeLUI, 0, 0},
	OpAUIPC: {opcodeAUIPC, 0, 0},
	OpJAL:   {opcodeJAL, 0, 0},
	OpJALR:  {opcodeJALR, 0b000, 0},
	OpBEQ:   {opcodeBranch, 0b000, 0},
	OpBNE:   {opcodeBranch, 0b001, 0},
	OpBLT:   {opcodeBranch, 0b100, 0},
	OpBGE:   {opcodeBranch, 0b101, 0},
	OpBLTU:  {opcodeBranch, 0b110, 0},
	OpBGEU:  {opcodeBranch, 0b111, 0},
	OpLB:    {opcodeLoad, 0b000, 0},
	OpLH:    {opcodeLoad, 0b001, 0},
	OpLW:    {opcodeLoad, 0b010, 0},
	OpLBU:   {opcodeLoad, 0b100, 0},
	OpLHU:   {opcodeLoad, 0b101, 0},
	OpSB:    {opcodeStore, 0b000, 0},
	OpSH:    {opcodeStore, 0b001, 0},
	OpSW:    {opcodeStore, 0b010, 0},
	OpADDI:  {opcodeOpImm, 0b000, 0},
	OpSLTI:  {opcodeOpImm, 0b010, 0},
	OpSLTIU: {opcodeOpImm, 0b011, 0},
	OpXORI:  {opcodeOpImm, 0b100, 0},
	OpORI:   {opcodeOpImm, 0b110, 0},
	OpANDI:  {opcodeOpImm, 0b111, 0},
	OpSLLI:  {opcodeOpImm, 0b001, 0},
	OpSRLI:  {opcodeOpImm, 0b101, 0},
	OpSRAI:  {opcodeOpImm, 0b101, funct7Alt},
	OpADD:   {opcodeOp, 0b000, 0},
	OpSUB:   {opcodeOp, 0b000, funct7Alt},
	OpSLL:   {opcodeOp, 0b001, 0},
	OpSLT:   {opcodeOp, 0b010, 0},
	OpSLTU:  {opcodeOp, 0b011, 0},
	OpXOR:   {opcodeOp, 0b100, 0},
	OpSRL:   {opcodeOp, 0b101, 0},
	OpSRA:   {opcodeOp, 0b101, funct7Alt},
	OpOR:    {opcodeOp, 0b110, 0},
	OpAND:   {opcodeOp, 0b111, 0},
}

// EncodeR assembles an R-type word.
func EncodeR(opcode, funct3, funct7 uint32, rd, rs1, rs2 uint8) uint32 {
	return opcode |
		uint32(rd&0x1F)<<7 |
		(funct3&0x7)<<12 |
		uint32(rs1&0x1F)<<15 |
		uint32(rs2&0x1F)<<20 |
		(funct7&0x7F)<<25
}

// EncodeI assembles an I-type word. Only the low 12 bits of imm are used.
func EncodeI(opcode, funct3 uint32, rd, rs1 uint8, imm int32) uint32 {
	return opcode |
		uint32(rd&0x1F)<<7 |
		(funct3&0x7)<<12 |
		uint32(rs1&0x1F)<<15 |
		bits(uint32(imm), 0, 12)<<20
}

// EncodeS assembles an S-type word. Only the low 12 bits of imm are used.
func EncodeS(opcode, funct3 uint32, rs1, rs2 uint8, imm int32) uint32 {
	u := uint32(imm)
	return opcode |
		bits(u, 0, 5)<<7 |
		(funct3&0x7)<<12 |
		uint32(rs1&0x1F)<<15 |
		uint32(rs2&0x1F)<<20 |
		bits(u, 5, 7)<<25
}

// EncodeU assembles a U-type word. imm is the full 32-bit value; its low
// 12 bits are dropped.
func EncodeU(opcode uint32, rd uint8, imm int32) uint32 {
	return opcode |
		uint32(rd&0x1F)<<7 |
		uint32(imm)&0xFFFFF000
}

// EncodeB assembles a B-type word from a byte offset.
func EncodeB(opcode, funct3 uint32, rs1, rs2 uint8, offset int32) uint32 {
	u := uint32(offset)
	return opcode |
		bits(u, 11, 1)<<7 |
		bits(u, 1, 4)<<8 |
		(funct3&0x7)<<12 |
		uint32(rs1&0x1F)<<15 |
		uint32(rs2&0x1F)<<20 |
		bits(u, 5, 6)<<25 |
		bits(u, 12, 1)<<31
}

// EncodeJ assembles a J-type word from a byte offset.
func EncodeJ(opcode uint32, rd uint8, offset int32) uint32 {
	u := uint32(offset)
	return opcode |
		uint32(rd&0x1F)<<7 |
		bits(u, 12, 8)<<12 |
		bits(u, 11, 1)<<20 |
		bits(u, 1, 10)<<21 |
		bits(u, 20, 1)<<31
}

// Encode assembles a decoded instruction back into its machine word.
func Encode(inst Instruction) uint32 {
	e := encodings[inst.Mnemonic()]

	switch i := inst.(type) {
	case RInst:
		return EncodeR(e.opcode, e.funct3, e.funct7, i.Rd, i.Rs1, i.Rs2)
	case IInst:
		imm := i.Imm
		if i.Op.Class() == ClassShift {
			imm = int32(e.funct7<<5) | int32(i.Shamt())
		}
		return EncodeI(e.opcode, e.funct3, i.Rd, i.Rs1, imm)
	case SInst:
		return EncodeS(e.opcode, e.funct3, i.Rs1, i.Rs2, i.Imm)
	case UInst:
		return EncodeU(e.opcode, i.Rd, i.Imm)
	case BInst:
		return EncodeB(e.opcode, e.funct3, i.Rs1, i.Rs2, i.Imm)
	case JInst:
		return EncodeJ(e.opcode, i.Rd, i.Imm)
	default:
		return 0
	}
}

// EncodeOp encodes a register-register instruction: op rd, rs1, rs2.
func EncodeOp(op Op, rd, rs1, rs2 uint8) uint32 {
	return Encode(RInst{Op: op, RType: RType{Rd: rd, Rs1: rs1, Rs2: rs2}})
}

// EncodeOpImm encodes a register-immediate instruction: op rd, rs1, imm.
// For SLLI, SRLI and SRAI imm is the shift amount.
func EncodeOpImm(op Op, rd, rs1 uint8, imm int32) uint32 {
	return Encode(IInst{Op: op, IType: IType{Rd: rd, Rs1: rs1, Imm: imm}})
}

// EncodeLoad encodes op rd, offset(rs1).
func EncodeLoad(op Op, rd, rs1 uint8, offset int32) uint32 {
	return Encode(IInst{Op: op, IType: IType{Rd: rd, Rs1: rs1, Imm: offset}})
}

// EncodeStore encodes op rs2, offset(rs1).
func EncodeStore(op Op, rs2, rs1 uint8, offset int32) uint32 {
	return Encode(SInst{Op: op, SType: SType{Rs1: rs1, Rs2: rs2, Imm: offset}})
}

// EncodeBranch encodes op rs1, rs2, offset.
func EncodeBranch(op Op, rs1, rs2 uint8, offset int32) uint32 {
	return Encode(BInst{Op: op, BType: BType{Rs1: rs1, Rs2: rs2, Imm: offset}})
}

// EncodeLUI encodes lui rd, imm20.
func EncodeLUI(rd uint8, imm20 uint32) uint32 {
	return EncodeU(opcodeLUI, rd, int32(imm20<<12))
}

// EncodeAUIPC encodes auipc rd, imm20.
func EncodeAUIPC(rd uint8, imm20 uint32) uint32 {
	return EncodeU(opcodeAUIPC, rd, int32(imm20<<12))
}

// EncodeJAL encodes jal rd, offset.
func EncodeJAL(rd uint8, offset int32) uint32 {
	return EncodeJ(opcodeJAL, rd, offset)
}

// EncodeJALR encodes jalr rd, offset(rs1).
func EncodeJALR(rd, rs1 uint8, offset int32) uint32 {
	return EncodeI(opcodeJALR, 0, rd, rs1, offset)
}

// BuildProgram lays out instruction words as a little-endian image.
func BuildProgram(words ...uint32) []byte {
	program := make([]byte, 4*len(words))
	for i, w := range words {
		binary.LittleEndian.PutUint32(program[4*i:], w)
	}
	return program
}
