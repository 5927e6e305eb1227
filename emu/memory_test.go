package emu_test

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/sarchlab/mips5sim/emu"
)

var _ = Describe("Memory", func() {
	var mem *emu.Memory

	BeforeEach(func() {
		mem = emu.NewMemory(1024)
	})

	It("round-trips a big-endian word store/load (S6)", func() {
		mem.WriteWord(0x0100, 0x11223344)
		Expect(mem.ReadByte(0x0100)).To(Equal(uint8(0x11)))
		Expect(mem.ReadByte(0x0101)).To(Equal(uint8(0x22)))
		Expect(mem.ReadByte(0x0102)).To(Equal(uint8(0x33)))
		Expect(mem.ReadByte(0x0103)).To(Equal(uint8(0x44)))
		Expect(mem.ReadWord(0x0100)).To(Equal(uint32(0x11223344)))
	})

	It("returns 0 and counts an out-of-range byte read", func() {
		Expect(mem.ReadByte(10000)).To(Equal(uint8(0)))
		Expect(mem.OutOfRangeReads()).To(Equal(uint64(1)))
	})

	It("drops and counts an out-of-range byte write", func() {
		mem.WriteByte(10000, 0xFF)
		Expect(mem.OutOfRangeWrites()).To(Equal(uint64(1)))
	})

	It("returns 0 for a word read that would overrun by one byte", func() {
		small := emu.NewMemory(4)
		Expect(small.ReadWord(1)).To(Equal(uint32(0)))
		Expect(small.OutOfRangeReads()).To(Equal(uint64(1)))
	})

	It("loads words contiguously from a base address", func() {
		mem.LoadWords(0x200, []uint32{0x11111111, 0x22222222, 0x33333333})
		Expect(mem.ReadWord(0x200)).To(Equal(uint32(0x11111111)))
		Expect(mem.ReadWord(0x204)).To(Equal(uint32(0x22222222)))
		Expect(mem.ReadWord(0x208)).To(Equal(uint32(0x33333333)))
	})

	It("zeroes all bytes and counters on Reset", func() {
		mem.WriteWord(0, 0xFFFFFFFF)
		mem.ReadByte(10000)
		mem.Reset()

		Expect(mem.ReadWord(0)).To(Equal(uint32(0)))
		Expect(mem.OutOfRangeReads()).To(Equal(uint64(0)))
	})
})
