package insts

// RType holds the fields of a register-register instruction.
// Layout: funct7 | rs2 | rs1 | funct3 | rd | opcode
type RType struct {
	Rd     uint8
	Rs1    uint8
	Rs2    uint8
	Funct3 uint8
	Funct7 uint8
}

// IType holds the fields of a register-immediate, load or JALR instruction.
// Layout: imm[11:0] | rs1 | funct3 | rd | opcode
type IType struct {
	Rd     uint8
	Rs1    uint8
	Funct3 uint8
	Imm    int32 // sign-extended from bit 11
}

// SType holds the fields of a store instruction.
// Layout: imm[11:5] | rs2 | rs1 | funct3 | imm[4:0] | opcode
type SType struct {
	Rs1    uint8
	Rs2    uint8
	Funct3 uint8
	Imm    int32 // sign-extended from bit 11
}

// UType holds the fields of LUI and AUIPC.
// Layout: imm[31:12] | rd | opcode
type UType struct {
	Rd  uint8
	Imm int32 // upper 20 bits in place, low 12 bits zero
}

// BType holds the fields of a conditional branch.
// Layout: imm[12|10:5] | rs2 | rs1 | funct3 | imm[4:1|11] | opcode
type BType struct {
	Rs1    uint8
	Rs2    uint8
	Funct3 uint8
	Imm    int32 // byte offset, always even
}

// JType holds the fields of JAL.
// Layout: imm[20|10:1|11|19:12] | rd | opcode
type JType struct {
	Rd  uint8
	Imm int32 // byte offset, always even
}

// bits extracts length bits of word starting at bit start.
func bits(word uint32, start, length uint) uint32 {
	return (word >> start) & ((1 << length) - 1)
}

func rd(word uint32) uint8     { return uint8(bits(word, 7, 5)) }
func rs1(word uint32) uint8    { return uint8(bits(word, 15, 5)) }
func rs2(word uint32) uint8    { return uint8(bits(word, 20, 5)) }
func funct3(word uint32) uint8 { return uint8(bits(word, 12, 3)) }
func funct7(word uint32) uint8 { return uint8(bits(word, 25, 7)) }

// DecodeRType extracts R-type fields from word.
func DecodeRType(word uint32) RType {
	return RType{
		Rd:     rd(word),
		Rs1:    rs1(word),
		Rs2:    rs2(word),
		Funct3: funct3(word),
		Funct7: funct7(word),
	}
}

// DecodeIType extracts I-type fields from word.
func DecodeIType(word uint32) IType {
	return IType{
		Rd:     rd(word),
		Rs1:    rs1(word),
		Funct3: funct3(word),
		Imm:    int32(word) >> 20,
	}
}

// DecodeSType extracts S-type fields from word. The two immediate pieces
// occupy disjoint bit ranges and are OR'd together.
func DecodeSType(word uint32) SType {
	hi := (int32(word) >> 25) << 5
	lo := int32(bits(word, 7, 5))

	return SType{
		Rs1:    rs1(word),
		Rs2:    rs2(word),
		Funct3: funct3(word),
		Imm:    hi | lo,
	}
}

// DecodeUType extracts U-type fields from word. The immediate keeps its
// position in the upper 20 bits.
func DecodeUType(word uint32) UType {
	return UType{
		Rd:  rd(word),
		Imm: int32(word & 0xFFFFF000),
	}
}

// DecodeBType extracts B-type fields from word.
func DecodeBType(word uint32) BType {
	imm := (int32(word) >> 31) << 12     // imm[12]
	imm |= int32(bits(word, 7, 1)) << 11 // imm[11]
	imm |= int32(bits(word, 25, 6)) << 5 // imm[10:5]
	imm |= int32(bits(word, 8, 4)) << 1  // imm[4:1]

	return BType{
		Rs1:    rs1(word),
		Rs2:    rs2(word),
		Funct3: funct3(word),
		Imm:    imm,
	}
}

// DecodeJType extracts J-type fields from word.
func DecodeJType(word uint32) JType {
	imm := (int32(word) >> 31) << 20      // imm[20]
	imm |= int32(bits(word, 12, 8)) << 12 // imm[19:12]
	imm |= int32(bits(word, 20, 1)) << 11 // imm[11]
	imm |= int32(bits(word, 21, 10)) << 1 // imm[10:1]

	return JType{
		Rd:  rd(word),
		Imm: imm,
	}
}
