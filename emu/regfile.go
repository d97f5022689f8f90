// Package emu provides functional RV32I emulation.
package emu

// RegFile represents the integer register file.
// It contains 32 general-purpose registers (x0-x31) and the program
// counter (PC). Registers are kept at 64-bit width.
type RegFile struct {
	// X holds general-purpose registers x0-x31.
	// X[0] is hardwired to zero; writes to it are discarded.
	X [32]uint64

	// PC is the program counter. During execution it already points at
	// the instruction following the one being executed.
	PC uint64
}

// ReadReg reads a register value. Register 0 and out-of-range indices
// return 0.
func (r *RegFile) ReadReg(reg uint8) uint64 {
	if reg == 0 || reg >= 32 {
		return 0
	}
	return r.X[reg]
}

// WriteReg writes a value to a register. Writes to register 0 are ignored.
func (r *RegFile) WriteReg(reg uint8, value uint64) {
	if reg == 0 || reg >= 32 {
		return
	}
	r.X[reg] = value
}

// ReadRegSigned reads a register as a signed 64-bit value.
func (r *RegFile) ReadRegSigned(reg uint8) int64 {
	return int64(r.ReadReg(reg))
}
