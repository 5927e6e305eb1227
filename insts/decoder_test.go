package insts_test

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/sarchlab/mips5sim/insts"
)

var _ = Describe("Decode", func() {
	It("decodes the all-zero word as NOP", func() {
		in := insts.Decode(0x00000000, 0x00400000)
		Expect(in.Op).To(Equal(insts.OpNOP))
	})

	It("decodes addi $v0, $zero, 5", func() {
		in := insts.Decode(0x20020005, 0x00400000)
		Expect(in.Op).To(Equal(insts.OpADDI))
		Expect(in.Rs).To(Equal(uint8(0)))
		Expect(in.Rt).To(Equal(uint8(2)))
		Expect(in.ImmS()).To(Equal(int32(5)))
		Expect(in.WritesRt).To(BeTrue())
	})

	It("decodes add $a0, $v1, $v0 as R-type", func() {
		in := insts.Decode(0x00622020, 0x00400008)
		Expect(in.Type).To(Equal(insts.TypeR))
		Expect(in.Op).To(Equal(insts.OpADD))
		Expect(in.Rs).To(Equal(uint8(3)))
		Expect(in.Rt).To(Equal(uint8(2)))
		Expect(in.Rd).To(Equal(uint8(4)))
		Expect(in.WritesRd).To(BeTrue())
	})

	It("decodes sw $t1, 0($zero)", func() {
		in := insts.Decode(0xAC090000, 0x00400000)
		Expect(in.Op).To(Equal(insts.OpSW))
		Expect(in.IsStore).To(BeTrue())
		Expect(in.ReadsRs).To(BeTrue())
		Expect(in.ReadsRt).To(BeTrue())
	})

	It("decodes lw $t0, 0($zero)", func() {
		in := insts.Decode(0x8C080000, 0x00400004)
		Expect(in.Op).To(Equal(insts.OpLW))
		Expect(in.IsLoad).To(BeTrue())
		Expect(in.WritesRt).To(BeTrue())
		Expect(in.Rt).To(Equal(uint8(8)))
	})

	It("decodes jr $ra", func() {
		word := insts.Encode(&insts.Instruction{Op: insts.OpJR, Rs: 31})
		in := insts.Decode(word, 0x00400000)
		Expect(in.Op).To(Equal(insts.OpJR))
		Expect(in.Rs).To(Equal(uint8(31)))
		Expect(in.IsJump).To(BeTrue())
		Expect(in.ReadsRs).To(BeTrue())
	})

	It("decodes an unmapped funct as UNKNOWN", func() {
		// opcode 0, funct 0x3E is not assigned to any op (0x3F is HALT).
		in := insts.Decode(0x0000003E, 0x00400000)
		Expect(in.Op).To(Equal(insts.OpUNKNOWN))
	})

	It("decodes the reserved HALT funct", func() {
		in := insts.Decode(0x0000003F, 0x00400000)
		Expect(in.Op).To(Equal(insts.OpHALT))
	})

	It("distinguishes BLTZ and BGEZ sharing opcode 1 via rt", func() {
		bltz := insts.Decode(0x04000001, 0x00400000)
		Expect(bltz.Op).To(Equal(insts.OpBLTZ))

		bgez := insts.Decode(0x04010001, 0x00400000)
		Expect(bgez.Op).To(Equal(insts.OpBGEZ))
	})

	DescribeTable("decode/encode round trip for R-type ops",
		func(op insts.Op) {
			original := &insts.Instruction{Op: op, Rs: 5, Rt: 6, Rd: 7, Shamt: 3}
			word := insts.Encode(original)
			decoded := insts.Decode(word, 0x00400000)

			Expect(decoded.Op).To(Equal(op))
			Expect(decoded.Rs).To(Equal(original.Rs))
			Expect(decoded.Rt).To(Equal(original.Rt))
			Expect(decoded.Rd).To(Equal(original.Rd))
			Expect(decoded.Shamt).To(Equal(original.Shamt))
		},
		Entry("ADD", insts.OpADD),
		Entry("SUB", insts.OpSUB),
		Entry("AND", insts.OpAND),
		Entry("OR", insts.OpOR),
		Entry("NOR", insts.OpNOR),
		Entry("XOR", insts.OpXOR),
		Entry("SLT", insts.OpSLT),
		Entry("SLTU", insts.OpSLTU),
		Entry("SLL", insts.OpSLL),
		Entry("SRL", insts.OpSRL),
		Entry("SRA", insts.OpSRA),
		Entry("MULT", insts.OpMULT),
		Entry("MULTU", insts.OpMULTU),
		Entry("DIV", insts.OpDIV),
		Entry("DIVU", insts.OpDIVU),
		Entry("MFHI", insts.OpMFHI),
		Entry("MFLO", insts.OpMFLO),
		Entry("MTHI", insts.OpMTHI),
		Entry("MTLO", insts.OpMTLO),
	)

	DescribeTable("decode/encode round trip for I-type ops",
		func(op insts.Op) {
			original := &insts.Instruction{Op: op, Rs: 9, Rt: 10, ImmU: 0x1234}
			word := insts.Encode(original)
			decoded := insts.Decode(word, 0x00400000)

			Expect(decoded.Op).To(Equal(op))
			Expect(decoded.Rs).To(Equal(original.Rs))
			Expect(decoded.Rt).To(Equal(original.Rt))
			Expect(decoded.ImmU).To(Equal(original.ImmU))
		},
		Entry("ADDI", insts.OpADDI),
		Entry("ADDIU", insts.OpADDIU),
		Entry("ANDI", insts.OpANDI),
		Entry("ORI", insts.OpORI),
		Entry("XORI", insts.OpXORI),
		Entry("SLTI", insts.OpSLTI),
		Entry("SLTIU", insts.OpSLTIU),
		Entry("LUI", insts.OpLUI),
		Entry("LW", insts.OpLW),
		Entry("LH", insts.OpLH),
		Entry("LB", insts.OpLB),
		Entry("LBU", insts.OpLBU),
		Entry("LHU", insts.OpLHU),
		Entry("SW", insts.OpSW),
		Entry("SH", insts.OpSH),
		Entry("SB", insts.OpSB),
		Entry("BEQ", insts.OpBEQ),
		Entry("BNE", insts.OpBNE),
		Entry("BLEZ", insts.OpBLEZ),
		Entry("BGTZ", insts.OpBGTZ),
	)

	It("round-trips J with a jump target", func() {
		original := &insts.Instruction{Op: insts.OpJ, Type: insts.TypeJ, JTarget: 0x123456}
		word := insts.Encode(original)
		decoded := insts.Decode(word, 0x00400000)

		Expect(decoded.Op).To(Equal(insts.OpJ))
		Expect(decoded.JTarget).To(Equal(original.JTarget))
	})
})
