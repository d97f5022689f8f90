package emu

import (
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/sarchlab/rv32sim/insts"
)

// StepResult represents the result of executing a single instruction.
type StepResult struct {
	// Halted is true if PC has run past the end of memory. No instruction
	// was executed in that step.
	Halted bool

	// Err is set if the step faulted. The faulting instruction is not
	// retired, but PC has already moved past it.
	Err error
}

// Retirement describes one executed instruction. It is handed to the
// Tracer after the instruction has updated the architectural state.
type Retirement struct {
	// PC is the address of the instruction.
	PC uint64

	// Word is the raw instruction word.
	Word uint32

	// Inst is the decoded instruction.
	Inst insts.Instruction

	// NextPC is the PC after execution.
	NextPC uint64

	// Taken is true for jumps and taken conditional branches.
	Taken bool

	// MemAccess is true for loads and stores. MemAddr and MemSize describe
	// the access.
	MemAccess bool
	MemAddr   uint64
	MemSize   int
}

// Tracer observes retired instructions.
type Tracer interface {
	Retire(r Retirement)
}

// Emulator executes RV32I instructions functionally.
type Emulator struct {
	regFile *RegFile
	memory  *Memory
	decoder *insts.Decoder

	// Execution units
	alu        *ALU
	lsu        *LoadStoreUnit
	branchUnit *BranchUnit

	logger *logrus.Logger
	tracer Tracer

	// Construction parameters
	memorySize int
	entry      uint64

	// Execution state
	instructionCount uint64
	maxInstructions  uint64 // 0 means no limit
}

// EmulatorOption is a functional option for configuring the Emulator.
type EmulatorOption func(*Emulator)

// WithLogger sets the logger used for instruction tracing. Retired
// instructions are logged at debug level.
func WithLogger(logger *logrus.Logger) EmulatorOption {
	return func(e *Emulator) {
		e.logger = logger
	}
}

// WithMaxInstructions sets the maximum number of instructions to execute.
// A value of 0 means no limit.
func WithMaxInstructions(max uint64) EmulatorOption {
	return func(e *Emulator) {
		e.maxInstructions = max
	}
}

// WithMemorySize sets the memory capacity in bytes. Memory is never
// smaller than the program image.
func WithMemorySize(size int) EmulatorOption {
	return func(e *Emulator) {
		e.memorySize = size
	}
}

// WithEntryPoint sets the initial PC.
func WithEntryPoint(entry uint64) EmulatorOption {
	return func(e *Emulator) {
		e.entry = entry
	}
}

// WithTracer attaches a Tracer that sees every retired instruction.
func WithTracer(tracer Tracer) EmulatorOption {
	return func(e *Emulator) {
		e.tracer = tracer
	}
}

// NewEmulator creates an emulator whose memory holds program at address 0.
func NewEmulator(program []byte, opts ...EmulatorOption) *Emulator {
	e := &Emulator{
		regFile: &RegFile{},
		decoder: insts.NewDecoder(),
		logger:  logrus.StandardLogger(),
	}

	for _, opt := range opts {
		opt(e)
	}

	e.memory = NewMemory(program, e.memorySize)
	e.regFile.PC = e.entry

	e.alu = NewALU(e.regFile)
	e.lsu = NewLoadStoreUnit(e.regFile, e.memory)
	e.branchUnit = NewBranchUnit(e.regFile)

	return e
}

// RegFile returns the emulator's register file.
func (e *Emulator) RegFile() *RegFile {
	return e.regFile
}

// Memory returns the emulator's memory.
func (e *Emulator) Memory() *Memory {
	return e.memory
}

// SetTracer attaches a Tracer after construction, for observers that need
// the emulator's memory. A nil tracer detaches.
func (e *Emulator) SetTracer(tracer Tracer) {
	e.tracer = tracer
}

// InstructionCount returns the number of instructions executed.
func (e *Emulator) InstructionCount() uint64 {
	return e.instructionCount
}

// Reset restores the program image, clears all registers and sets PC back
// to the entry point.
func (e *Emulator) Reset() {
	*e.regFile = RegFile{PC: e.entry}
	e.memory.Reset()
	e.instructionCount = 0
}

// Step executes a single instruction.
func (e *Emulator) Step() StepResult {
	pc := e.regFile.PC
	if pc >= uint64(e.memory.Len()) {
		e.logger.WithField("pc", fmt.Sprintf("0x%x", pc)).Debug("halted: pc past end of memory")
		return StepResult{Halted: true}
	}

	if e.maxInstructions > 0 && e.instructionCount >= e.maxInstructions {
		return StepResult{Err: ErrMaxInstructions}
	}

	word, err := e.memory.Fetch(pc)
	if err != nil {
		return StepResult{Err: err}
	}

	e.regFile.PC = pc + 4

	inst, err := e.decoder.Decode(word)
	if err != nil {
		return StepResult{Err: &IllegalInstructionError{PC: pc, Word: word, Err: err}}
	}

	r := Retirement{PC: pc, Word: word, Inst: inst}
	if err := e.execute(inst, &r); err != nil {
		return StepResult{Err: err}
	}
	r.NextPC = e.regFile.PC

	e.instructionCount++

	if e.logger.IsLevelEnabled(logrus.DebugLevel) {
		e.logger.WithFields(logrus.Fields{
			"pc":   fmt.Sprintf("0x%x", pc),
			"word": fmt.Sprintf("0x%08x", word),
			"inst": inst.String(),
		}).Debug("retire")
	}

	if e.tracer != nil {
		e.tracer.Retire(r)
	}

	return StepResult{}
}

// Run executes instructions until PC runs past the end of memory or a
// fault occurs. It returns nil on a clean halt.
func (e *Emulator) Run() error {
	for {
		result := e.Step()
		if result.Err != nil {
			e.logger.WithError(result.Err).Debug("run stopped")
			return result.Err
		}
		if result.Halted {
			return nil
		}
	}
}

// execute dispatches a decoded instruction to its execution unit.
func (e *Emulator) execute(inst insts.Instruction, r *Retirement) error {
	switch i := inst.(type) {
	case insts.RInst:
		e.executeOp(i)
	case insts.IInst:
		return e.executeIType(i, r)
	case insts.SInst:
		return e.executeStore(i, r)
	case insts.UInst:
		e.executeUpper(i, r.PC)
	case insts.BInst:
		r.Taken = e.branchUnit.Branch(i.Op, i.Rs1, i.Rs2, i.Imm)
	case insts.JInst:
		e.branchUnit.JAL(i.Rd, i.Imm)
		r.Taken = true
	default:
		return fmt.Errorf("unhandled instruction %v at pc 0x%x", inst, r.PC)
	}

	return nil
}

// executeOp executes register-register instructions.
func (e *Emulator) executeOp(i insts.RInst) {
	switch i.Op {
	case insts.OpADD:
		e.alu.ADD(i.Rd, i.Rs1, i.Rs2)
	case insts.OpSUB:
		e.alu.SUB(i.Rd, i.Rs1, i.Rs2)
	case insts.OpSLL:
		e.alu.SLL(i.Rd, i.Rs1, i.Rs2)
	case insts.OpSLT:
		e.alu.SLT(i.Rd, i.Rs1, i.Rs2)
	case insts.OpSLTU:
		e.alu.SLTU(i.Rd, i.Rs1, i.Rs2)
	case insts.OpXOR:
		e.alu.XOR(i.Rd, i.Rs1, i.Rs2)
	case insts.OpSRL:
		e.alu.SRL(i.Rd, i.Rs1, i.Rs2)
	case insts.OpSRA:
		e.alu.SRA(i.Rd, i.Rs1, i.Rs2)
	case insts.OpOR:
		e.alu.OR(i.Rd, i.Rs1, i.Rs2)
	case insts.OpAND:
		e.alu.AND(i.Rd, i.Rs1, i.Rs2)
	}
}

// executeIType executes register-immediate ALU ops, loads, and JALR.
func (e *Emulator) executeIType(i insts.IInst, r *Retirement) error {
	switch i.Op {
	case insts.OpADDI:
		e.alu.ADDI(i.Rd, i.Rs1, i.Imm)
	case insts.OpSLTI:
		e.alu.SLTI(i.Rd, i.Rs1, i.Imm)
	case insts.OpSLTIU:
		e.alu.SLTIU(i.Rd, i.Rs1, i.Imm)
	case insts.OpXORI:
		e.alu.XORI(i.Rd, i.Rs1, i.Imm)
	case insts.OpORI:
		e.alu.ORI(i.Rd, i.Rs1, i.Imm)
	case insts.OpANDI:
		e.alu.ANDI(i.Rd, i.Rs1, i.Imm)
	case insts.OpSLLI:
		e.alu.SLLI(i.Rd, i.Rs1, i.Shamt())
	case insts.OpSRLI:
		e.alu.SRLI(i.Rd, i.Rs1, i.Shamt())
	case insts.OpSRAI:
		e.alu.SRAI(i.Rd, i.Rs1, i.Shamt())
	case insts.OpJALR:
		e.branchUnit.JALR(i.Rd, i.Rs1, i.Imm)
		r.Taken = true
	default:
		return e.executeLoad(i, r)
	}

	return nil
}

func (e *Emulator) executeLoad(i insts.IInst, r *Retirement) error {
	r.MemAccess = true
	r.MemAddr = e.lsu.EffectiveAddr(i.Rs1, i.Imm)
	r.MemSize = AccessSize(i.Op)

	switch i.Op {
	case insts.OpLB:
		return e.lsu.LB(i.Rd, i.Rs1, i.Imm)
	case insts.OpLH:
		return e.lsu.LH(i.Rd, i.Rs1, i.Imm)
	case insts.OpLW:
		return e.lsu.LW(i.Rd, i.Rs1, i.Imm)
	case insts.OpLBU:
		return e.lsu.LBU(i.Rd, i.Rs1, i.Imm)
	case insts.OpLHU:
		return e.lsu.LHU(i.Rd, i.Rs1, i.Imm)
	default:
		return fmt.Errorf("unhandled I-type op %v at pc 0x%x", i.Op, r.PC)
	}
}

func (e *Emulator) executeStore(i insts.SInst, r *Retirement) error {
	r.MemAccess = true
	r.MemAddr = e.lsu.EffectiveAddr(i.Rs1, i.Imm)
	r.MemSize = AccessSize(i.Op)

	switch i.Op {
	case insts.OpSB:
		return e.lsu.SB(i.Rs2, i.Rs1, i.Imm)
	case insts.OpSH:
		return e.lsu.SH(i.Rs2, i.Rs1, i.Imm)
	case insts.OpSW:
		return e.lsu.SW(i.Rs2, i.Rs1, i.Imm)
	default:
		return fmt.Errorf("unhandled store op %v at pc 0x%x", i.Op, r.PC)
	}
}

func (e *Emulator) executeUpper(i insts.UInst, pc uint64) {
	switch i.Op {
	case insts.OpLUI:
		e.alu.LUI(i.Rd, i.Imm)
	case insts.OpAUIPC:
		e.alu.AUIPC(i.Rd, pc, i.Imm)
	}
}
