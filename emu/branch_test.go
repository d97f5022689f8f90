package emu_test

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/sarchlab/rv32sim/emu"
	"github.com/sarchlab/rv32sim/insts"
)

var _ = Describe("BranchUnit", func() {
	var (
		regFile    *emu.RegFile
		branchUnit *emu.BranchUnit
	)

	BeforeEach(func() {
		regFile = &emu.RegFile{}
		branchUnit = emu.NewBranchUnit(regFile)
		// The branch under test sits at 0x100; fetch has advanced PC.
		regFile.PC = 0x104
	})

	DescribeTable("conditions",
		func(op insts.Op, a, b uint64, expected bool) {
			Expect(emu.Condition(op, a, b)).To(Equal(expected))
		},
		Entry("beq equal", insts.OpBEQ, uint64(3), uint64(3), true),
		Entry("beq different", insts.OpBEQ, uint64(3), uint64(4), false),
		Entry("bne different", insts.OpBNE, uint64(3), uint64(4), true),
		Entry("blt signed", insts.OpBLT, uint64(0xFFFFFFFFFFFFFFFF), uint64(1), true),
		Entry("bltu unsigned", insts.OpBLTU, uint64(0xFFFFFFFFFFFFFFFF), uint64(1), false),
		Entry("bge equal", insts.OpBGE, uint64(7), uint64(7), true),
		Entry("bge signed", insts.OpBGE, uint64(1), uint64(0xFFFFFFFFFFFFFFFF), true),
		Entry("bgeu equal", insts.OpBGEU, uint64(7), uint64(7), true),
		Entry("bgeu unsigned", insts.OpBGEU, uint64(1), uint64(0xFFFFFFFFFFFFFFFF), false),
		Entry("non-branch op", insts.OpADD, uint64(0), uint64(0), false),
	)

	It("should redirect relative to the branch address when taken", func() {
		regFile.WriteReg(10, 1)
		regFile.WriteReg(11, 1)

		Expect(branchUnit.Branch(insts.OpBEQ, 10, 11, -8)).To(BeTrue())
		Expect(regFile.PC).To(Equal(uint64(0xF8)))
	})

	It("should fall through when not taken", func() {
		regFile.WriteReg(10, 1)

		Expect(branchUnit.Branch(insts.OpBEQ, 10, 11, -8)).To(BeFalse())
		Expect(regFile.PC).To(Equal(uint64(0x104)))
	})

	It("should link and jump in jal", func() {
		branchUnit.JAL(1, 16)
		Expect(regFile.ReadReg(1)).To(Equal(uint64(0x104)))
		Expect(regFile.PC).To(Equal(uint64(0x110)))
	})

	It("should clear bit 0 of the jalr target", func() {
		regFile.WriteReg(5, 0x201)
		branchUnit.JALR(1, 5, 2)
		Expect(regFile.PC).To(Equal(uint64(0x202)))
		Expect(regFile.ReadReg(1)).To(Equal(uint64(0x104)))
	})

	It("should read rs1 before writing rd in jalr", func() {
		regFile.WriteReg(5, 0x40)
		branchUnit.JALR(5, 5, 4)
		Expect(regFile.PC).To(Equal(uint64(0x44)))
		Expect(regFile.ReadReg(5)).To(Equal(uint64(0x104)))
	})
})
