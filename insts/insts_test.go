package insts_test

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/sarchlab/mips5sim/insts"
)

var _ = Describe("Instruction", func() {
	It("computes the sign-extended immediate on demand", func() {
		in := &insts.Instruction{ImmU: 0xFFFF}
		Expect(in.ImmS()).To(Equal(int32(-1)))
	})

	It("computes the branch target from the branch's own address", func() {
		in := &insts.Instruction{Addr: 0x00400010, ImmU: 0xFFFE} // imm = -2
		Expect(in.BranchTarget()).To(Equal(uint32(0x00400010 + 4 - 8)))
	})

	It("computes the jump target from the top bits of addr+4 and the field", func() {
		in := &insts.Instruction{Addr: 0x00400000, JTarget: 0x100}
		Expect(in.JumpTarget()).To(Equal(uint32(0x00000400)))
	})

	It("reports no write register for stores and branches", func() {
		sw := insts.Decode(0xAC090000, 0)
		_, writes := sw.WriteReg()
		Expect(writes).To(BeFalse())

		beq := insts.Decode(0x10000000, 0)
		_, writes = beq.WriteReg()
		Expect(writes).To(BeFalse())
	})

	It("reports $ra as JAL's write register", func() {
		jal := insts.Decode(0x0C000000, 0)
		reg, writes := jal.WriteReg()
		Expect(writes).To(BeTrue())
		Expect(reg).To(Equal(uint8(31)))
	})
})

var _ = Describe("Disassemble", func() {
	It("renders R-type as \"op $rd, $rs, $rt\"", func() {
		Expect(insts.Disassemble(0x00622020, 0)).To(Equal("add $a0, $v1, $v0"))
	})

	It("renders immediate arithmetic as \"op $rt, $rs, imm\"", func() {
		Expect(insts.Disassemble(0x20020005, 0)).To(Equal("addi $v0, $zero, 5"))
	})

	It("renders loads as \"op $rt, imm($rs)\"", func() {
		Expect(insts.Disassemble(0x8C080004, 0)).To(Equal("lw $t0, 4($zero)"))
	})

	It("renders branches as \"op $rs, $rt, offset\"", func() {
		Expect(insts.Disassemble(0x1109FFFE, 0)).To(Equal("beq $t0, $t1, -2"))
	})

	It("renders jumps as \"op 0xHEX\"", func() {
		Expect(insts.Disassemble(0x08000004, 0)).To(Equal("j 0x10"))
	})
})
