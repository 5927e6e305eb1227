package insts

import "fmt"

// regNames is the canonical MIPS register naming table from spec.md §6.
var regNames = [32]string{
	"$zero", "$at", "$v0", "$v1", "$a0", "$a1", "$a2", "$a3",
	"$t0", "$t1", "$t2", "$t3", "$t4", "$t5", "$t6", "$t7",
	"$s0", "$s1", "$s2", "$s3", "$s4", "$s5", "$s6", "$s7",
	"$t8", "$t9", "$k0", "$k1", "$gp", "$sp", "$fp", "$ra",
}

// RegName returns the canonical ABI name for register index r.
func RegName(r uint8) string {
	return regNames[r&0x1F]
}

// mnemonics gives the lower-case mnemonic for every Op that participates
// in disassembly (UNKNOWN has no mnemonic of its own).
var mnemonics = map[Op]string{
	OpNOP: "nop",
	OpADD: "add", OpSUB: "sub", OpAND: "and", OpOR: "or", OpNOR: "nor", OpXOR: "xor",
	OpSLT: "slt", OpSLTU: "sltu", OpSLL: "sll", OpSRL: "srl", OpSRA: "sra",
	OpJR: "jr", OpJALR: "jalr",
	OpMULT: "mult", OpMULTU: "multu", OpDIV: "div", OpDIVU: "divu",
	OpMFHI: "mfhi", OpMFLO: "mflo", OpMTHI: "mthi", OpMTLO: "mtlo",
	OpADDI: "addi", OpADDIU: "addiu", OpANDI: "andi", OpORI: "ori", OpXORI: "xori",
	OpSLTI: "slti", OpSLTIU: "sltiu", OpLUI: "lui",
	OpLW: "lw", OpLH: "lh", OpLB: "lb", OpLBU: "lbu", OpLHU: "lhu",
	OpSW: "sw", OpSH: "sh", OpSB: "sb",
	OpBEQ: "beq", OpBNE: "bne", OpBLEZ: "blez", OpBGTZ: "bgtz",
	OpBLTZ: "bltz", OpBGEZ: "bgez",
	OpJ: "j", OpJAL: "jal",
	OpHALT: "halt",
}

// Disassemble decodes word (as fetched from addr) and renders it in the
// normative textual form of spec.md §6.
func Disassemble(word uint32, addr uint32) string {
	in := Decode(word, addr)
	return in.String()
}

// String renders an already-decoded Instruction in the normative textual
// form: R-type "op $rd, $rs, $rt"; immediate arithmetic
// "op $rt, $rs, imm"; loads/stores "op $rt, imm($rs)"; branches
// "op $rs, $rt, offset"; jumps "op 0xHEX".
func (in *Instruction) String() string {
	mnem, ok := mnemonics[in.Op]
	if !ok {
		return "unknown"
	}

	switch in.Op {
	case OpNOP, OpHALT:
		return mnem
	case OpADD, OpSUB, OpAND, OpOR, OpNOR, OpXOR, OpSLT, OpSLTU:
		return fmt.Sprintf("%s %s, %s, %s", mnem, RegName(in.Rd), RegName(in.Rs), RegName(in.Rt))
	case OpSLL, OpSRL, OpSRA:
		return fmt.Sprintf("%s %s, %s, %d", mnem, RegName(in.Rd), RegName(in.Rt), in.Shamt)
	case OpJR:
		return fmt.Sprintf("%s %s", mnem, RegName(in.Rs))
	case OpJALR:
		return fmt.Sprintf("%s %s, %s", mnem, RegName(in.Rd), RegName(in.Rs))
	case OpMULT, OpMULTU, OpDIV, OpDIVU:
		return fmt.Sprintf("%s %s, %s", mnem, RegName(in.Rs), RegName(in.Rt))
	case OpMFHI, OpMFLO:
		return fmt.Sprintf("%s %s", mnem, RegName(in.Rd))
	case OpMTHI, OpMTLO:
		return fmt.Sprintf("%s %s", mnem, RegName(in.Rs))
	case OpADDI, OpADDIU, OpSLTI, OpSLTIU:
		return fmt.Sprintf("%s %s, %s, %d", mnem, RegName(in.Rt), RegName(in.Rs), in.ImmS())
	case OpANDI, OpORI, OpXORI:
		return fmt.Sprintf("%s %s, %s, %d", mnem, RegName(in.Rt), RegName(in.Rs), in.ImmU)
	case OpLUI:
		return fmt.Sprintf("%s %s, %d", mnem, RegName(in.Rt), in.ImmU)
	case OpLW, OpLH, OpLB, OpLBU, OpLHU, OpSW, OpSH, OpSB:
		return fmt.Sprintf("%s %s, %d(%s)", mnem, RegName(in.Rt), in.ImmS(), RegName(in.Rs))
	case OpBEQ, OpBNE:
		return fmt.Sprintf("%s %s, %s, %d", mnem, RegName(in.Rs), RegName(in.Rt), in.ImmS())
	case OpBLEZ, OpBGTZ, OpBLTZ, OpBGEZ:
		return fmt.Sprintf("%s %s, %d", mnem, RegName(in.Rs), in.ImmS())
	case OpJ, OpJAL:
		return fmt.Sprintf("%s 0x%X", mnem, in.JumpTarget())
	default:
		return "unknown"
	}
}
