package insts

// opFunct maps an R-type Op back to its SPECIAL funct code. Used only by
// Encode, which exists to validate the decode/encode round trip in tests —
// it is not part of the Engine API.
var opFunct = map[Op]uint8{
	OpADD: 0x20, OpSUB: 0x22, OpAND: 0x24, OpOR: 0x25, OpNOR: 0x27, OpXOR: 0x26,
	OpSLT: 0x2A, OpSLTU: 0x2B, OpSLL: 0x00, OpSRL: 0x02, OpSRA: 0x03,
	OpJR: 0x08, OpJALR: 0x09,
	OpMULT: 0x18, OpMULTU: 0x19, OpDIV: 0x1A, OpDIVU: 0x1B,
	OpMFHI: 0x10, OpMFLO: 0x12, OpMTHI: 0x11, OpMTLO: 0x13,
	OpHALT: functHalt,
}

// opOpcode maps an I-type/J-type Op back to its primary opcode field.
var opOpcode = map[Op]uint8{
	OpADDI: 0x08, OpADDIU: 0x09, OpANDI: 0x0C, OpORI: 0x0D, OpXORI: 0x0E,
	OpSLTI: 0x0A, OpSLTIU: 0x0B, OpLUI: 0x0F,
	OpLW: 0x23, OpLH: 0x21, OpLB: 0x20, OpLBU: 0x24, OpLHU: 0x25,
	OpSW: 0x2B, OpSH: 0x29, OpSB: 0x28,
	OpBEQ: 0x04, OpBNE: 0x05, OpBLEZ: 0x06, OpBGTZ: 0x07,
	OpJ: 0x02, OpJAL: 0x03,
}

// Encode assembles a MIPS-I machine word from decoded fields. It is the
// inverse of Decode for every Op Decode can produce (except UNKNOWN, which
// has no canonical encoding), used to check the decode/encode round trip.
func Encode(in *Instruction) uint32 {
	switch in.Op {
	case OpNOP:
		return 0
	case OpBLTZ:
		return encodeI(0x01, in.Rs, 0x00, in.ImmU)
	case OpBGEZ:
		return encodeI(0x01, in.Rs, 0x01, in.ImmU)
	}

	if funct, ok := opFunct[in.Op]; ok {
		word := uint32(in.Rs&0x1F)<<21 | uint32(in.Rt&0x1F)<<16 | uint32(in.Rd&0x1F)<<11 |
			uint32(in.Shamt&0x1F)<<6 | uint32(funct)
		return word
	}
	if opcode, ok := opOpcode[in.Op]; ok {
		switch in.Type {
		case TypeJ:
			return uint32(opcode)<<26 | (in.JTarget & 0x3FFFFFF)
		default:
			return encodeI(opcode, in.Rs, in.Rt, in.ImmU)
		}
	}
	return 0
}

func encodeI(opcode, rs, rt uint8, imm uint16) uint32 {
	return uint32(opcode&0x3F)<<26 | uint32(rs&0x1F)<<21 | uint32(rt&0x1F)<<16 | uint32(imm)
}
