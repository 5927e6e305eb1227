package pipeline

import (
	"github.com/sarchlab/mips5sim/emu"
	"github.com/sarchlab/mips5sim/insts"
)

// decodeControl derives the IDEXLatch control signals for inst.
// RsValue/RtValue/ImmS are left for the caller to fill in, since those
// require the register file and forwarding context.
func decodeControl(inst *insts.Instruction) IDEXLatch {
	wr, _ := inst.WriteReg()
	return IDEXLatch{
		WriteReg: wr,
		RegWrite: inst.WritesRd || inst.WritesRt || inst.Op == insts.OpJAL,
		MemRead:  inst.IsLoad,
		MemWrite: inst.IsStore,
		MemToReg: inst.IsLoad,
		IsBranch: inst.IsBranch,
		IsJump:   inst.IsJump,
	}
}

// aluOpFor maps an instruction's Op to the ALU operation EX must perform.
// Ops with no direct ALU equivalent (loads/stores/branches/HI-LO moves)
// default to AluADD, which is what address and branch-comparison
// computation needs anyway.
func aluOpFor(op insts.Op) emu.AluOp {
	switch op {
	case insts.OpADD, insts.OpADDI, insts.OpADDIU:
		return emu.AluADD
	case insts.OpSUB:
		return emu.AluSUB
	case insts.OpAND, insts.OpANDI:
		return emu.AluAND
	case insts.OpOR, insts.OpORI:
		return emu.AluOR
	case insts.OpNOR:
		return emu.AluNOR
	case insts.OpXOR, insts.OpXORI:
		return emu.AluXOR
	case insts.OpSLT, insts.OpSLTI:
		return emu.AluSLT
	case insts.OpSLTU, insts.OpSLTIU:
		return emu.AluSLTU
	case insts.OpSLL:
		return emu.AluSLL
	case insts.OpSRL:
		return emu.AluSRL
	case insts.OpSRA:
		return emu.AluSRA
	default:
		return emu.AluADD
	}
}

// aluOperands picks EX's two ALU operands from the (possibly-forwarded)
// rs/rt values: rs and the immediate for I-type ALU and memory ops, 0 and
// rt for shifts, 0 and imm<<16 for LUI, and rs and rt for everything else.
func aluOperands(inst *insts.Instruction, rsValue, rtValue uint32) (a, b uint32) {
	switch inst.Op {
	case insts.OpLUI:
		return 0, uint32(inst.ImmS()) << 16
	case insts.OpANDI, insts.OpORI, insts.OpXORI:
		// Logical immediates are zero-extended, not sign-extended.
		return rsValue, uint32(inst.ImmU)
	case insts.OpADDI, insts.OpADDIU, insts.OpSLTI, insts.OpSLTIU,
		insts.OpLW, insts.OpLH, insts.OpLB, insts.OpLBU, insts.OpLHU,
		insts.OpSW, insts.OpSH, insts.OpSB:
		return rsValue, uint32(inst.ImmS())
	case insts.OpSLL, insts.OpSRL, insts.OpSRA:
		return 0, rtValue
	default:
		return rsValue, rtValue
	}
}

// executeHiLo applies MULT/MULTU/DIV/DIVU/MFHI/MFLO/MTHI/MTLO directly
// against the register file's HI/LO state. Per spec.md's non-goal on
// modeling HI/LO pipelining latency, these resolve within the single EX
// cycle that issues them rather than occupying their own latch fields.
func executeHiLo(inst *insts.Instruction, rf *emu.RegisterFile, rsValue, rtValue uint32) (aluResult uint32, handled bool) {
	switch inst.Op {
	case insts.OpMULT:
		res := emu.Mult(int32(rsValue), int32(rtValue))
		rf.HI, rf.LO = res.Hi, res.Lo
		return 0, true
	case insts.OpMULTU:
		res := emu.MultU(rsValue, rtValue)
		rf.HI, rf.LO = res.Hi, res.Lo
		return 0, true
	case insts.OpDIV:
		res := emu.Div(int32(rsValue), int32(rtValue))
		rf.LO, rf.HI = res.Quotient, res.Remainder
		return 0, true
	case insts.OpDIVU:
		res := emu.DivU(rsValue, rtValue)
		rf.LO, rf.HI = res.Quotient, res.Remainder
		return 0, true
	case insts.OpMFHI:
		return rf.HI, true
	case insts.OpMFLO:
		return rf.LO, true
	case insts.OpMTHI:
		rf.HI = rsValue
		return 0, true
	case insts.OpMTLO:
		rf.LO = rsValue
		return 0, true
	default:
		return 0, false
	}
}

// storeValueFor extracts the value a store instruction writes to memory,
// truncated to its natural width in MEM.
func storeValueFor(inst *insts.Instruction, rtValue uint32) uint32 {
	switch inst.Op {
	case insts.OpSB:
		return uint32(uint8(rtValue))
	case insts.OpSH:
		return uint32(uint16(rtValue))
	default:
		return rtValue
	}
}

// doMemoryAccess performs the MEM-stage load or store for inst against
// mem, given the effective address addr (the EX-stage ALU result) and the
// value to store (already truncated by storeValueFor).
func doMemoryAccess(inst *insts.Instruction, mem *emu.Memory, addr, storeValue uint32) uint32 {
	switch inst.Op {
	case insts.OpLW:
		return mem.ReadWord(addr)
	case insts.OpLH:
		return uint32(int32(int16(mem.ReadHalf(addr))))
	case insts.OpLHU:
		return uint32(mem.ReadHalf(addr))
	case insts.OpLB:
		return uint32(int32(int8(mem.ReadByte(addr))))
	case insts.OpLBU:
		return uint32(mem.ReadByte(addr))
	case insts.OpSW:
		mem.WriteWord(addr, storeValue)
	case insts.OpSH:
		mem.WriteHalf(addr, uint16(storeValue))
	case insts.OpSB:
		mem.WriteByte(addr, uint8(storeValue))
	}
	return 0
}

// evaluateBranch reports whether a branch instruction's condition holds,
// given its (possibly-forwarded) operand values.
func evaluateBranch(inst *insts.Instruction, rsValue, rtValue uint32) bool {
	switch inst.Op {
	case insts.OpBEQ:
		return rsValue == rtValue
	case insts.OpBNE:
		return rsValue != rtValue
	case insts.OpBLEZ:
		return int32(rsValue) <= 0
	case insts.OpBGTZ:
		return int32(rsValue) > 0
	case insts.OpBLTZ:
		return int32(rsValue) < 0
	case insts.OpBGEZ:
		return int32(rsValue) >= 0
	default:
		return false
	}
}
