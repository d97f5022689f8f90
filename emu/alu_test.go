package emu_test

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/sarchlab/rv32sim/emu"
)

var _ = Describe("ALU", func() {
	var (
		regFile *emu.RegFile
		alu     *emu.ALU
	)

	BeforeEach(func() {
		regFile = &emu.RegFile{}
		alu = emu.NewALU(regFile)
	})

	Describe("register-register", func() {
		BeforeEach(func() {
			regFile.WriteReg(1, 12)
			regFile.WriteReg(2, 10)
		})

		It("should add and subtract", func() {
			alu.ADD(3, 1, 2)
			alu.SUB(4, 2, 1)
			Expect(regFile.ReadReg(3)).To(Equal(uint64(22)))
			Expect(regFile.ReadReg(4)).To(Equal(uint64(0xFFFFFFFFFFFFFFFE)))
		})

		It("should wrap addition modulo 2^64", func() {
			regFile.WriteReg(1, 0xFFFFFFFFFFFFFFFF)
			regFile.WriteReg(2, 1)
			alu.ADD(3, 1, 2)
			Expect(regFile.ReadReg(3)).To(Equal(uint64(0)))
		})

		It("should compute bitwise ops", func() {
			alu.AND(3, 1, 2)
			alu.OR(4, 1, 2)
			alu.XOR(5, 1, 2)
			Expect(regFile.ReadReg(3)).To(Equal(uint64(8)))
			Expect(regFile.ReadReg(4)).To(Equal(uint64(14)))
			Expect(regFile.ReadReg(5)).To(Equal(uint64(6)))
		})

		It("should mask shift amounts to five bits", func() {
			regFile.WriteReg(1, 1)
			regFile.WriteReg(2, 33)
			alu.SLL(3, 1, 2)
			Expect(regFile.ReadReg(3)).To(Equal(uint64(2)))
		})

		It("should shift right logically and arithmetically", func() {
			regFile.WriteReg(1, 0xFFFFFFFFFFFFFFF0)
			regFile.WriteReg(2, 4)
			alu.SRL(3, 1, 2)
			alu.SRA(4, 1, 2)
			Expect(regFile.ReadReg(3)).To(Equal(uint64(0x0FFFFFFFFFFFFFFF)))
			Expect(regFile.ReadReg(4)).To(Equal(uint64(0xFFFFFFFFFFFFFFFF)))
		})

		It("should compare signed and unsigned", func() {
			regFile.WriteReg(1, 0xFFFFFFFFFFFFFFFF)
			regFile.WriteReg(2, 1)
			alu.SLT(3, 1, 2)
			alu.SLTU(4, 1, 2)
			Expect(regFile.ReadReg(3)).To(Equal(uint64(1)))
			Expect(regFile.ReadReg(4)).To(Equal(uint64(0)))
		})
	})

	Describe("register-immediate", func() {
		BeforeEach(func() {
			regFile.WriteReg(1, 5)
		})

		It("should sign-extend immediates", func() {
			alu.ADDI(2, 1, -6)
			alu.ANDI(3, 1, -1)
			Expect(regFile.ReadReg(2)).To(Equal(uint64(0xFFFFFFFFFFFFFFFF)))
			Expect(regFile.ReadReg(3)).To(Equal(uint64(5)))
		})

		It("should compute andi, ori and xori", func() {
			alu.ANDI(2, 1, 4)
			alu.ORI(3, 1, 2)
			alu.XORI(4, 1, 10)
			Expect(regFile.ReadReg(2)).To(Equal(uint64(4)))
			Expect(regFile.ReadReg(3)).To(Equal(uint64(7)))
			Expect(regFile.ReadReg(4)).To(Equal(uint64(15)))
		})

		It("should compare the sign-extended immediate unsigned in sltiu", func() {
			alu.SLTIU(2, 1, -1)
			alu.SLTI(3, 1, -1)
			alu.SLTIU(4, 1, 5)
			Expect(regFile.ReadReg(2)).To(Equal(uint64(1)))
			Expect(regFile.ReadReg(3)).To(Equal(uint64(0)))
			Expect(regFile.ReadReg(4)).To(Equal(uint64(0)))
		})

		It("should shift by shamt", func() {
			regFile.WriteReg(1, 0xFFFFFFFFFFFFFFF0)
			alu.SLLI(2, 1, 4)
			alu.SRLI(3, 1, 2)
			alu.SRAI(4, 1, 2)
			Expect(regFile.ReadReg(2)).To(Equal(uint64(0xFFFFFFFFFFFFFF00)))
			Expect(regFile.ReadReg(3)).To(Equal(uint64(0x3FFFFFFFFFFFFFFC)))
			Expect(regFile.ReadReg(4)).To(Equal(uint64(0xFFFFFFFFFFFFFFFC)))
		})
	})

	Describe("upper immediates", func() {
		It("should sign-extend lui", func() {
			alu.LUI(1, int32(-0x80000000))
			alu.LUI(2, 0x12345000)
			Expect(regFile.ReadReg(1)).To(Equal(uint64(0xFFFFFFFF80000000)))
			Expect(regFile.ReadReg(2)).To(Equal(uint64(0x12345000)))
		})

		It("should add the instruction address in auipc", func() {
			alu.AUIPC(1, 0x100, 0x1000)
			alu.AUIPC(2, 0x100, -0x1000)
			Expect(regFile.ReadReg(1)).To(Equal(uint64(0x1100)))
			Expect(regFile.ReadReg(2)).To(Equal(uint64(0xFFFFFFFFFFFFF100)))
		})
	})

	It("should never write x0", func() {
		alu.ADDI(0, 0, 5)
		alu.LUI(0, 0x1000)
		Expect(regFile.ReadReg(0)).To(Equal(uint64(0)))
	})
})
