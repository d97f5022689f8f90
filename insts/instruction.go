package insts

import "fmt"

// Op represents an RV32I mnemonic.
type Op uint8

// RV32I opcodes.
const (
	OpUnknown Op = iota
	OpLUI
	OpAUIPC
	OpJAL
	OpJALR
	OpBEQ
	OpBNE
	OpBLT
	OpBGE
	OpBLTU
	OpBGEU
	OpLB
	OpLH
	OpLW
	OpLBU
	OpLHU
	OpSB
	OpSH
	OpSW
	OpADDI
	OpSLTI
	OpSLTIU
	OpXORI
	OpORI
	OpANDI
	OpSLLI
	OpSRLI
	OpSRAI
	OpADD
	OpSUB
	OpSLL
	OpSLT
	OpSLTU
	OpXOR
	OpSRL
	OpSRA
	OpOR
	OpAND

	numOps
)

var opNames = [numOps]string{
	OpUnknown: "unknown",
	OpLUI:     "lui",
	OpAUIPC:   "auipc",
	OpJAL:     "jal",
	OpJALR:    "jalr",
	OpBEQ:     "beq",
	OpBNE:     "bne",
	OpBLT:     "blt",
	OpBGE:     "bge",
	OpBLTU:    "bltu",
	OpBGEU:    "bgeu",
	OpLB:      "lb",
	OpLH:      "lh",
	OpLW:      "lw",
	OpLBU:     "lbu",
	OpLHU:     "lhu",
	OpSB:      "sb",
	OpSH:      "sh",
	OpSW:      "sw",
	OpADDI:    "addi",
	OpSLTI:    "slti",
	OpSLTIU:   "sltiu",
	OpXORI:    "xori",
	OpORI:     "ori",
	OpANDI:    "andi",
	OpSLLI:    "slli",
	OpSRLI:    "srli",
	OpSRAI:    "srai",
	OpADD:     "add",
	OpSUB:     "sub",
	OpSLL:     "sll",
	OpSLT:     "slt",
	OpSLTU:    "sltu",
	OpXOR:     "xor",
	OpSRL:     "srl",
	OpSRA:     "sra",
	OpOR:      "or",
	OpAND:     "and",
}

// String returns the assembler mnemonic.
func (op Op) String() string {
	if op >= numOps {
		return fmt.Sprintf("op(%d)", uint8(op))
	}
	return opNames[op]
}

// Class groups mnemonics that share an execution resource.
type Class uint8

// Instruction classes.
const (
	ClassUnknown Class = iota
	ClassALU           // ADD, SUB, logical ops and their immediate forms
	ClassShift         // SLL, SRL, SRA and their immediate forms
	ClassCompare       // SLT, SLTU and their immediate forms
	ClassUpper         // LUI, AUIPC
	ClassLoad          // LB, LH, LW, LBU, LHU
	ClassStore         // SB, SH, SW
	ClassBranch        // conditional branches
	ClassJump          // JAL, JALR
)

// Class returns the execution class of op.
func (op Op) Class() Class {
	switch op {
	case OpADD, OpSUB, OpXOR, OpOR, OpAND, OpADDI, OpXORI, OpORI, OpANDI:
		return ClassALU
	case OpSLL, OpSRL, OpSRA, OpSLLI, OpSRLI, OpSRAI:
		return ClassShift
	case OpSLT, OpSLTU, OpSLTI, OpSLTIU:
		return ClassCompare
	case OpLUI, OpAUIPC:
		return ClassUpper
	case OpLB, OpLH, OpLW, OpLBU, OpLHU:
		return ClassLoad
	case OpSB, OpSH, OpSW:
		return ClassStore
	case OpBEQ, OpBNE, OpBLT, OpBGE, OpBLTU, OpBGEU:
		return ClassBranch
	case OpJAL, OpJALR:
		return ClassJump
	default:
		return ClassUnknown
	}
}

// Format represents an instruction encoding format.
type Format uint8

// Instruction formats.
const (
	FormatUnknown Format = iota
	FormatR              // register-register
	FormatI              // register-immediate, loads, JALR
	FormatS              // stores
	FormatU              // LUI, AUIPC
	FormatB              // conditional branches
	FormatJ              // JAL
)

// Instruction is a decoded RV32I instruction. The set of implementations is
// closed: RInst, IInst, SInst, UInst, BInst and JInst.
type Instruction interface {
	// Mnemonic returns the operation this instruction performs.
	Mnemonic() Op
	// Format returns the encoding layout the fields were extracted from.
	Format() Format
	// String returns the instruction in assembler syntax.
	String() string

	isInstruction()
}

// RInst is a register-register instruction.
type RInst struct {
	Op Op
	RType
}

// IInst is a register-immediate, load or JALR instruction.
type IInst struct {
	Op Op
	IType
}

// SInst is a store instruction.
type SInst struct {
	Op Op
	SType
}

// UInst is LUI or AUIPC.
type UInst struct {
	Op Op
	UType
}

// BInst is a conditional branch.
type BInst struct {
	Op Op
	BType
}

// JInst is JAL.
type JInst struct {
	Op Op
	JType
}

func (i RInst) Mnemonic() Op { return i.Op }
func (i IInst) Mnemonic() Op { return i.Op }
func (i SInst) Mnemonic() Op { return i.Op }
func (i UInst) Mnemonic() Op { return i.Op }
func (i BInst) Mnemonic() Op { return i.Op }
func (i JInst) Mnemonic() Op { return i.Op }

func (RInst) Format() Format { return FormatR }
func (IInst) Format() Format { return FormatI }
func (SInst) Format() Format { return FormatS }
func (UInst) Format() Format { return FormatU }
func (BInst) Format() Format { return FormatB }
func (JInst) Format() Format { return FormatJ }

func (RInst) isInstruction() {}
func (IInst) isInstruction() {}
func (SInst) isInstruction() {}
func (UInst) isInstruction() {}
func (BInst) isInstruction() {}
func (JInst) isInstruction() {}

// Shamt returns the shift amount of SLLI, SRLI and SRAI.
func (i IInst) Shamt() uint8 {
	return uint8(i.Imm & 0x1F)
}

func (i RInst) String() string {
	return fmt.Sprintf("%s %s, %s, %s", i.Op, RegName(i.Rd), RegName(i.Rs1), RegName(i.Rs2))
}

func (i IInst) String() string {
	switch i.Op.Class() {
	case ClassLoad:
		return fmt.Sprintf("%s %s, %d(%s)", i.Op, RegName(i.Rd), i.Imm, RegName(i.Rs1))
	case ClassShift:
		return fmt.Sprintf("%s %s, %s, %d", i.Op, RegName(i.Rd), RegName(i.Rs1), i.Shamt())
	}
	if i.Op == OpJALR {
		return fmt.Sprintf("%s %s, %d(%s)", i.Op, RegName(i.Rd), i.Imm, RegName(i.Rs1))
	}
	return fmt.Sprintf("%s %s, %s, %d", i.Op, RegName(i.Rd), RegName(i.Rs1), i.Imm)
}

func (i SInst) String() string {
	return fmt.Sprintf("%s %s, %d(%s)", i.Op, RegName(i.Rs2), i.Imm, RegName(i.Rs1))
}

func (i UInst) String() string {
	return fmt.Sprintf("%s %s, 0x%x", i.Op, RegName(i.Rd), uint32(i.Imm)>>12)
}

func (i BInst) String() string {
	return fmt.Sprintf("%s %s, %s, %d", i.Op, RegName(i.Rs1), RegName(i.Rs2), i.Imm)
}

func (i JInst) String() string {
	return fmt.Sprintf("%s %s, %d", i.Op, RegName(i.Rd), i.Imm)
}

// NumRegs is the number of general-purpose registers.
const NumRegs = 32

var abiNames = [NumRegs]string{
	"zero", "ra", "sp", "gp", "tp", "t0", "t1", "t2",
	"s0", "s1", "a0", "a1", "a2", "a3", "a4", "a5",
	"a6", "a7", "s2", "s3", "s4", "s5", "s6", "s7",
	"s8", "s9", "s10", "s11", "t3", "t4", "t5", "t6",
}

// RegName returns the ABI name of register reg ("zero", "ra", "a0", ...).
func RegName(reg uint8) string {
	if int(reg) >= NumRegs {
		return fmt.Sprintf("x%d", reg)
	}
	return abiNames[reg]
}
