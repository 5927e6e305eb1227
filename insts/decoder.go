package insts

// Decode decodes a 32-bit MIPS-I instruction word fetched from the given
// address into an Instruction. A word of 0x00000000 decodes as NOP.
// Unmapped opcode/funct pairs decode to UNKNOWN (never executed; the
// interpreter counts each one as a decode anomaly, the pipeline does not).
func Decode(word uint32, addr uint32) *Instruction {
	in := &Instruction{
		Raw:     word,
		Addr:    addr,
		Opcode:  uint8(word >> 26),
		Rs:      uint8((word >> 21) & 0x1F),
		Rt:      uint8((word >> 16) & 0x1F),
		Rd:      uint8((word >> 11) & 0x1F),
		Shamt:   uint8((word >> 6) & 0x1F),
		Funct:   uint8(word & 0x3F),
		ImmU:    uint16(word & 0xFFFF),
		JTarget: word & 0x3FFFFFF,
	}

	if word == 0 {
		in.Op = OpNOP
		return in
	}

	if in.Opcode == 0 {
		in.Type = TypeR
		decodeSpecial(in)
	} else {
		decodeOpcode(in)
	}

	deriveFlags(in)
	return in
}

// decodeSpecial fills in Op for R-type (opcode 0) words, keyed by Funct.
func decodeSpecial(in *Instruction) {
	switch in.Funct {
	case 0x20:
		in.Op = OpADD
	case 0x22:
		in.Op = OpSUB
	case 0x24:
		in.Op = OpAND
	case 0x25:
		in.Op = OpOR
	case 0x27:
		in.Op = OpNOR
	case 0x26:
		in.Op = OpXOR
	case 0x2A:
		in.Op = OpSLT
	case 0x2B:
		in.Op = OpSLTU
	case 0x00:
		if in.Raw == 0 {
			in.Op = OpNOP
		} else {
			in.Op = OpSLL
		}
	case 0x02:
		in.Op = OpSRL
	case 0x03:
		in.Op = OpSRA
	case 0x08:
		in.Op = OpJR
	case 0x09:
		in.Op = OpJALR
	case 0x18:
		in.Op = OpMULT
	case 0x19:
		in.Op = OpMULTU
	case 0x1A:
		in.Op = OpDIV
	case 0x1B:
		in.Op = OpDIVU
	case 0x10:
		in.Op = OpMFHI
	case 0x12:
		in.Op = OpMFLO
	case 0x11:
		in.Op = OpMTHI
	case 0x13:
		in.Op = OpMTLO
	case functHalt:
		in.Op = OpHALT
	default:
		in.Op = OpUNKNOWN
	}
}

// decodeOpcode fills in Op and Type for opcode != 0 words.
func decodeOpcode(in *Instruction) {
	switch in.Opcode {
	case 0x08:
		in.Type = TypeI
		in.Op = OpADDI
	case 0x09:
		in.Type = TypeI
		in.Op = OpADDIU
	case 0x0C:
		in.Type = TypeI
		in.Op = OpANDI
	case 0x0D:
		in.Type = TypeI
		in.Op = OpORI
	case 0x0E:
		in.Type = TypeI
		in.Op = OpXORI
	case 0x0A:
		in.Type = TypeI
		in.Op = OpSLTI
	case 0x0B:
		in.Type = TypeI
		in.Op = OpSLTIU
	case 0x0F:
		in.Type = TypeI
		in.Op = OpLUI
	case 0x23:
		in.Type = TypeI
		in.Op = OpLW
	case 0x21:
		in.Type = TypeI
		in.Op = OpLH
	case 0x20:
		in.Type = TypeI
		in.Op = OpLB
	case 0x24:
		in.Type = TypeI
		in.Op = OpLBU
	case 0x25:
		in.Type = TypeI
		in.Op = OpLHU
	case 0x2B:
		in.Type = TypeI
		in.Op = OpSW
	case 0x29:
		in.Type = TypeI
		in.Op = OpSH
	case 0x28:
		in.Type = TypeI
		in.Op = OpSB
	case 0x04:
		in.Type = TypeI
		in.Op = OpBEQ
	case 0x05:
		in.Type = TypeI
		in.Op = OpBNE
	case 0x06:
		in.Type = TypeI
		in.Op = OpBLEZ
	case 0x07:
		in.Type = TypeI
		in.Op = OpBGTZ
	case 0x01:
		in.Type = TypeI
		// REGIMM: BLTZ (rt=0x00) / BGEZ (rt=0x01) share opcode 1.
		if in.Rt == 0x01 {
			in.Op = OpBGEZ
		} else {
			in.Op = OpBLTZ
		}
	case 0x02:
		in.Type = TypeJ
		in.Op = OpJ
	case 0x03:
		in.Type = TypeJ
		in.Op = OpJAL
	default:
		in.Type = TypeI
		in.Op = OpUNKNOWN
	}
}

// deriveFlags computes the capability flags once, at decode time.
func deriveFlags(in *Instruction) {
	switch in.Op {
	case OpADD, OpSUB, OpAND, OpOR, OpNOR, OpXOR, OpSLT, OpSLTU:
		in.ReadsRs, in.ReadsRt, in.WritesRd = true, true, true
	case OpSLL, OpSRL, OpSRA:
		in.ReadsRt, in.WritesRd = true, true
	case OpJR:
		in.ReadsRs, in.IsJump = true, true
	case OpJALR:
		in.ReadsRs, in.IsJump, in.WritesRd = true, true, true
	case OpMULT, OpMULTU, OpDIV, OpDIVU:
		in.ReadsRs, in.ReadsRt = true, true
	case OpMFHI, OpMFLO:
		in.WritesRd = true
	case OpMTHI, OpMTLO:
		in.ReadsRs = true
	case OpADDI, OpADDIU, OpANDI, OpORI, OpXORI, OpSLTI, OpSLTIU:
		in.ReadsRs, in.WritesRt = true, true
	case OpLUI:
		in.WritesRt = true
	case OpLW, OpLH, OpLB, OpLBU, OpLHU:
		in.ReadsRs, in.WritesRt, in.IsLoad = true, true, true
	case OpSW, OpSH, OpSB:
		in.ReadsRs, in.ReadsRt, in.IsStore = true, true, true
	case OpBEQ, OpBNE:
		in.ReadsRs, in.ReadsRt, in.IsBranch = true, true, true
	case OpBLEZ, OpBGTZ, OpBLTZ, OpBGEZ:
		in.ReadsRs, in.IsBranch = true, true
	case OpJ, OpJAL:
		in.IsJump = true
	}
}
