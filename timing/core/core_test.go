package core_test

import (
	"errors"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/sarchlab/mips5sim/emu"
	"github.com/sarchlab/mips5sim/insts"
	"github.com/sarchlab/mips5sim/loader"
	"github.com/sarchlab/mips5sim/timing/core"
)

func rtype(op insts.Op, rd, rs, rt uint8) uint32 {
	return insts.Encode(&insts.Instruction{Op: op, Rd: rd, Rs: rs, Rt: rt})
}

func itype(op insts.Op, rt, rs uint8, imm int16) uint32 {
	return insts.Encode(&insts.Instruction{Op: op, Rs: rs, Rt: rt, ImmU: uint16(imm)})
}

const haltWord = uint32(0x0000003F)

// sumOfFirstN computes 1+2+...+n via a countdown loop, exercising
// arithmetic, a backward branch, and memory-free register-only state —
// a good program to run identically under both engines.
func sumOfFirstN(n int16) []uint32 {
	return []uint32{
		itype(insts.OpADDI, 8, 0, n), // $t0 = n          (counter)
		itype(insts.OpADDI, 9, 0, 0), // $t1 = 0          (accumulator)
		rtype(insts.OpADD, 9, 9, 8),  // loop: $t1 += $t0
		itype(insts.OpADDI, 8, 8, -1),
		itype(insts.OpBNE, 8, 0, -3), // branch back to loop while $t0 != 0
		haltWord,
	}
}

var _ = Describe("Core, pipelined mode", func() {
	It("runs straight-line arithmetic to halt", func() {
		c := core.NewCore()
		Expect(c.Load([]uint32{
			itype(insts.OpADDI, 8, 0, 5),
			itype(insts.OpADDI, 9, 0, 7),
			rtype(insts.OpADD, 10, 8, 9),
			haltWord,
		})).To(Succeed())

		res := c.Run(100)
		Expect(res.Halted).To(BeTrue())
		Expect(res.SafetyCapped).To(BeFalse())
		Expect(c.Registers().Read(10)).To(Equal(uint32(12)))
	})

	It("round-trips a big-endian word through memory (S6)", func() {
		c := core.NewCore()
		Expect(c.Load([]uint32{
			itype(insts.OpADDI, 8, 0, 0x1100), // never run: the round trip below goes through Memory directly
			haltWord,
		})).To(Succeed())
		c.Memory().WriteWord(0x2000, 0x11223344)
		Expect(c.Memory().ReadByte(0x2000)).To(Equal(uint8(0x11)))
		Expect(c.Memory().ReadByte(0x2003)).To(Equal(uint8(0x44)))
		Expect(c.Memory().ReadWord(0x2000)).To(Equal(uint32(0x11223344)))
	})

	It("reports a safety cap instead of hanging on a program that never halts", func() {
		c := core.NewCore(core.WithSafetyCap(50))
		Expect(c.Load([]uint32{
			itype(insts.OpBEQ, 0, 0, -1), // infinite self-branch
		})).To(Succeed())

		res := c.Run(0)
		Expect(res.SafetyCapped).To(BeTrue())
		Expect(res.Halted).To(BeFalse())
	})

	It("reports a LoadError and leaves state untouched for an image too large for memory", func() {
		c := core.NewCore(core.WithMemorySize(16), core.WithBaseAddress(0))
		oversized := make([]uint32, 8) // 32 bytes > 16-byte memory

		err := c.Load(oversized)
		Expect(err).To(HaveOccurred())

		var loadErr *loader.LoadError
		Expect(errors.As(err, &loadErr)).To(BeTrue())
		Expect(c.PC()).To(Equal(uint32(0)))
	})
})

var _ = Describe("Core, interpreter mode", func() {
	It("produces the same final register state as the pipelined mode (property 4)", func() {
		program := sumOfFirstN(5)

		pipelined := core.NewCore()
		Expect(pipelined.Load(program)).To(Succeed())
		pipelined.Run(500)

		interpreted := core.NewCore(core.WithPipelineDisabled())
		Expect(interpreted.Load(program)).To(Succeed())
		interpreted.Run(500)

		Expect(interpreted.Registers().Read(9)).To(Equal(pipelined.Registers().Read(9)))
		Expect(interpreted.Registers().Read(9)).To(Equal(uint32(15))) // 1+2+3+4+5
	})

	It("leaves hazard/branch-predictor stats at zero, since it performs no timing simulation", func() {
		c := core.NewCore(core.WithPipelineDisabled())
		Expect(c.Load(sumOfFirstN(3))).To(Succeed())
		c.Run(100)

		stats := c.Stats()
		Expect(stats.StallsInserted).To(Equal(uint64(0)))
		Expect(stats.BranchTotal).To(Equal(uint64(0)))
		Expect(stats.InstructionsRetired).To(BeNumerically(">", 0))
	})
})

var _ = Describe("Core lifecycle", func() {
	It("resets register state and PC without needing to reload memory", func() {
		c := core.NewCore()
		Expect(c.Load([]uint32{
			itype(insts.OpADDI, 8, 0, 99),
			haltWord,
		})).To(Succeed())
		c.Run(100)
		Expect(c.Registers().Read(8)).To(Equal(uint32(99)))

		c.Reset()
		Expect(c.Registers().Read(8)).To(Equal(uint32(0)))
		Expect(c.PC()).To(Equal(uint32(emu.DefaultBaseAddress))) // PC restored to base; re-running reproduces state

		c.Run(100)
		Expect(c.Registers().Read(8)).To(Equal(uint32(99)))
	})

	It("switches engines without resetting architectural state", func() {
		c := core.NewCore()
		Expect(c.Load([]uint32{itype(insts.OpADDI, 8, 0, 1), haltWord})).To(Succeed())
		c.Run(100)
		Expect(c.PipelineEnabled()).To(BeTrue())
		Expect(c.Registers().Read(8)).To(Equal(uint32(1)))

		c.EnablePipeline(false)
		Expect(c.PipelineEnabled()).To(BeFalse())
		Expect(c.Registers().Read(8)).To(Equal(uint32(1)))
	})
})
