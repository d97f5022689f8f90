package insts

import (
	"errors"
	"fmt"
)

// ErrUnsupported is matched by every decoding failure.
var ErrUnsupported = errors.New("unsupported instruction")

// DecodeError describes a word the decoder cannot represent.
type DecodeError struct {
	Word   uint32
	Group  string // major opcode group name, e.g. "AMO"
	Reason string
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("unsupported instruction 0x%08x (%s): %s", e.Word, e.Group, e.Reason)
}

// Unwrap returns ErrUnsupported.
func (e *DecodeError) Unwrap() error {
	return ErrUnsupported
}

// Major opcode groups, bits [6:2] of a 32-bit word.
const (
	groupLoad   = 0b00000
	groupOpImm  = 0b00100
	groupAUIPC  = 0b00101
	groupStore  = 0b01000
	groupOp     = 0b01100
	groupLUI    = 0b01101
	groupBranch = 0b11000
	groupJALR   = 0b11001
	groupJAL    = 0b11011
)

var groupNames = [32]string{
	"LOAD", "LOAD-FP", "custom-0", "MISC-MEM", "OP-IMM", "AUIPC", "OP-IMM-32", "48b",
	"STORE", "STORE-FP", "custom-1", "AMO", "OP", "LUI", "OP-32", "64b",
	"MADD", "MSUB", "NMSUB", "NMADD", "OP-FP", "reserved", "custom-2", "48b",
	"BRANCH", "JALR", "reserved", "JAL", "SYSTEM", "reserved", "custom-3", "80b",
}

// Mnemonic tables indexed by funct3. OpUnknown marks a hole.
var (
	loadOps = [8]Op{
		0b000: OpLB,
		0b001: OpLH,
		0b010: OpLW,
		0b100: OpLBU,
		0b101: OpLHU,
	}

	storeOps = [8]Op{
		0b000: OpSB,
		0b001: OpSH,
		0b010: OpSW,
	}

	branchOps = [8]Op{
		0b000: OpBEQ,
		0b001: OpBNE,
		0b100: OpBLT,
		0b101: OpBGE,
		0b110: OpBLTU,
		0b111: OpBGEU,
	}

	opImmOps = [8]Op{
		0b000: OpADDI,
		0b001: OpSLLI,
		0b010: OpSLTI,
		0b011: OpSLTIU,
		0b100: OpXORI,
		0b101: OpSRLI, // SRAI when imm[10] is set
		0b110: OpORI,
		0b111: OpANDI,
	}

	// opOps is indexed by funct3 | bit30<<3.
	opOps = [16]Op{
		0b0000: OpADD,
		0b1000: OpSUB,
		0b0001: OpSLL,
		0b0010: OpSLT,
		0b0011: OpSLTU,
		0b0100: OpXOR,
		0b0101: OpSRL,
		0b1101: OpSRA,
		0b0110: OpOR,
		0b0111: OpAND,
	}
)

// funct7Alt is the funct7 value selecting SUB, SRA and SRAI.
const funct7Alt = 0b0100000

// groupDecoder decodes every word of one major opcode group.
type groupDecoder func(word uint32) (Instruction, error)

// Decoder decodes RV32I machine code into instructions.
type Decoder struct {
	groups [32]groupDecoder
}

// NewDecoder creates a new RV32I instruction decoder.
func NewDecoder() *Decoder {
	d := &Decoder{}

	d.groups[groupLoad] = decodeLoad
	d.groups[groupOpImm] = decodeOpImm
	d.groups[groupAUIPC] = decodeAUIPC
	d.groups[groupStore] = decodeStore
	d.groups[groupOp] = decodeOp
	d.groups[groupLUI] = decodeLUI
	d.groups[groupBranch] = decodeBranch
	d.groups[groupJALR] = decodeJALR
	d.groups[groupJAL] = decodeJAL

	return d
}

// Decode decodes a 32-bit instruction word. Words outside the supported set
// return a *DecodeError.
func (d *Decoder) Decode(word uint32) (Instruction, error) {
	// Only the 32-bit encoding space ends in 0b11.
	if word&0b11 != 0b11 {
		return nil, &DecodeError{Word: word, Group: "compressed", Reason: "16-bit encoding"}
	}

	group := bits(word, 2, 5)
	decode := d.groups[group]
	if decode == nil {
		return nil, unsupported(word, "opcode not implemented")
	}

	return decode(word)
}

func unsupported(word uint32, reason string) *DecodeError {
	return &DecodeError{
		Word:   word,
		Group:  groupNames[bits(word, 2, 5)],
		Reason: reason,
	}
}

func unsupportedFunct3(word uint32) *DecodeError {
	return unsupported(word, fmt.Sprintf("funct3 0b%03b", funct3(word)))
}

func decodeLoad(word uint32) (Instruction, error) {
	f := DecodeIType(word)
	op := loadOps[f.Funct3]
	if op == OpUnknown {
		return nil, unsupportedFunct3(word)
	}
	return IInst{Op: op, IType: f}, nil
}

func decodeStore(word uint32) (Instruction, error) {
	f := DecodeSType(word)
	op := storeOps[f.Funct3]
	if op == OpUnknown {
		return nil, unsupportedFunct3(word)
	}
	return SInst{Op: op, SType: f}, nil
}

func decodeBranch(word uint32) (Instruction, error) {
	f := DecodeBType(word)
	op := branchOps[f.Funct3]
	if op == OpUnknown {
		return nil, unsupportedFunct3(word)
	}
	return BInst{Op: op, BType: f}, nil
}

// decodeOpImm decodes ADDI, SLTI, SLTIU, XORI, ORI, ANDI, SLLI, SRLI, SRAI.
// The shift forms keep a funct7-like selector in imm[11:5].
func decodeOpImm(word uint32) (Instruction, error) {
	f := DecodeIType(word)
	op := opImmOps[f.Funct3]

	switch op {
	case OpSLLI:
		if funct7(word) != 0 {
			return nil, unsupported(word, fmt.Sprintf("slli imm[11:5] 0b%07b", funct7(word)))
		}
	case OpSRLI:
		switch funct7(word) {
		case 0:
		case funct7Alt:
			op = OpSRAI
		default:
			return nil, unsupported(word, fmt.Sprintf("srli/srai imm[11:5] 0b%07b", funct7(word)))
		}
	}

	return IInst{Op: op, IType: f}, nil
}

// decodeOp decodes the register-register group. Bit 30 selects SUB over ADD
// and SRA over SRL; any other funct7 bit (e.g. the M extension) is rejected.
func decodeOp(word uint32) (Instruction, error) {
	f := DecodeRType(word)
	if f.Funct7&^funct7Alt != 0 {
		return nil, unsupported(word, fmt.Sprintf("funct7 0b%07b", f.Funct7))
	}

	alt := f.Funct7 >> 5
	op := opOps[f.Funct3|alt<<3]
	if op == OpUnknown {
		return nil, unsupported(word, fmt.Sprintf("funct3 0b%03b with funct7 0b%07b", f.Funct3, f.Funct7))
	}

	return RInst{Op: op, RType: f}, nil
}

func decodeLUI(word uint32) (Instruction, error) {
	return UInst{Op: OpLUI, UType: DecodeUType(word)}, nil
}

func decodeAUIPC(word uint32) (Instruction, error) {
	return UInst{Op: OpAUIPC, UType: DecodeUType(word)}, nil
}

func decodeJAL(word uint32) (Instruction, error) {
	return JInst{Op: OpJAL, JType: DecodeJType(word)}, nil
}

func decodeJALR(word uint32) (Instruction, error) {
	f := DecodeIType(word)
	if f.Funct3 != 0 {
		return nil, unsupportedFunct3(word)
	}
	return IInst{Op: OpJALR, IType: f}, nil
}
