package emu_test

import (
	"errors"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/sarchlab/rv32sim/emu"
)

var _ = Describe("Memory", func() {
	var memory *emu.Memory

	BeforeEach(func() {
		memory = emu.NewMemory([]byte{0x01, 0x02, 0x03, 0x04}, 8)
	})

	It("should size memory to the larger of image and capacity", func() {
		Expect(memory.Len()).To(Equal(8))
		Expect(emu.NewMemory([]byte{1, 2, 3, 4}, 2).Len()).To(Equal(4))
		Expect(memory.Bytes()).To(Equal([]byte{1, 2, 3, 4, 0, 0, 0, 0}))
	})

	It("should read little-endian values", func() {
		Expect(memory.Read32(0)).To(Equal(uint32(0x04030201)))
		Expect(memory.Read16(1)).To(Equal(uint16(0x0302)))
		Expect(memory.Read8(3)).To(Equal(uint8(0x04)))
		Expect(memory.Fetch(0)).To(Equal(uint32(0x04030201)))
	})

	It("should write little-endian values", func() {
		Expect(memory.Write32(4, 0xCAFEBABE)).To(Succeed())
		Expect(memory.Bytes()[4:8]).To(Equal([]byte{0xBE, 0xBA, 0xFE, 0xCA}))

		Expect(memory.Write16(0, 0xBEEF)).To(Succeed())
		Expect(memory.Write8(2, 0x7F)).To(Succeed())
		Expect(memory.Read32(0)).To(Equal(uint32(0x047FBEEF)))
	})

	It("should allow an access ending exactly at the last byte", func() {
		Expect(memory.Write32(4, 1)).To(Succeed())
		Expect(memory.Read8(7)).To(Equal(uint8(0)))
	})

	Describe("out of bounds", func() {
		It("should reject a word straddling the end", func() {
			_, err := memory.Read32(6)
			Expect(err).To(MatchError(emu.ErrOutOfBounds))

			var memErr *emu.MemoryError
			Expect(errors.As(err, &memErr)).To(BeTrue())
			Expect(*memErr).To(Equal(emu.MemoryError{
				Access: emu.AccessLoad, Addr: 6, Size: 4, Limit: 8,
			}))
		})

		It("should reject addresses that overflow", func() {
			_, err := memory.Read16(0xFFFFFFFFFFFFFFFF)
			Expect(err).To(MatchError(emu.ErrOutOfBounds))

			_, err = memory.Read8(8)
			Expect(err).To(MatchError(emu.ErrOutOfBounds))
		})

		It("should tag fetches and stores", func() {
			_, err := memory.Fetch(5)
			var memErr *emu.MemoryError
			Expect(errors.As(err, &memErr)).To(BeTrue())
			Expect(memErr.Access).To(Equal(emu.AccessFetch))

			err = memory.Write16(7, 0xFFFF)
			Expect(errors.As(err, &memErr)).To(BeTrue())
			Expect(memErr.Access).To(Equal(emu.AccessStore))
			Expect(err.Error()).To(ContainSubstring("store of 2 bytes at 0x7"))
		})

		It("should leave memory untouched on a failed store", func() {
			Expect(memory.Write32(5, 0xFFFFFFFF)).NotTo(Succeed())
			Expect(memory.Bytes()).To(Equal([]byte{1, 2, 3, 4, 0, 0, 0, 0}))
		})
	})

	It("should restore the image on Reset", func() {
		Expect(memory.Write32(0, 0)).To(Succeed())
		Expect(memory.Write32(4, 0xFFFFFFFF)).To(Succeed())

		memory.Reset()

		Expect(memory.Bytes()).To(Equal([]byte{1, 2, 3, 4, 0, 0, 0, 0}))
	})
})
