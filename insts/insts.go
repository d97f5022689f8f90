// Package insts provides RV32I instruction definitions and decoding.
//
// This package implements decoding of RISC-V machine code into structured
// instruction representations. It supports the RV32I base integer set
// without FENCE, ECALL and EBREAK:
//   - Register-register: ADD, SUB, SLL, SLT, SLTU, XOR, SRL, SRA, OR, AND
//   - Register-immediate: ADDI, SLTI, SLTIU, XORI, ORI, ANDI, SLLI, SRLI, SRAI
//   - Upper immediate: LUI, AUIPC
//   - Loads and stores: LB, LH, LW, LBU, LHU, SB, SH, SW
//   - Control transfer: BEQ, BNE, BLT, BGE, BLTU, BGEU, JAL, JALR
//
// Every other encoding, including compressed 16-bit words, is rejected with
// an error matching ErrUnsupported.
//
// Usage:
//
//	decoder := insts.NewDecoder()
//	inst, err := decoder.Decode(0x00600513) // addi a0, zero, 6
//	if err != nil {
//		return err
//	}
//	fmt.Println(inst) // addi a0, zero, 6
package insts
