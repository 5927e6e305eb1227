package core

import (
	"github.com/sarchlab/mips5sim/emu"
	"github.com/sarchlab/mips5sim/insts"
)

// interpreter is the pipeline-disabled execution path: one instruction
// fetched, decoded, and executed per Step, with no latches, no hazard
// detection, and no branch prediction. It shares insts.Decode, emu.Eval,
// and emu.Memory with the pipelined path, so the only way the two paths
// can disagree is in timing, never in architectural outcome.
type interpreter struct {
	rf  *emu.RegisterFile
	mem *emu.Memory

	pc      uint32
	retired uint64
	halted  bool
}

func newInterpreter(rf *emu.RegisterFile, mem *emu.Memory, pc uint32) *interpreter {
	return &interpreter{rf: rf, mem: mem, pc: pc}
}

func (in *interpreter) reset(pc uint32) {
	in.pc = pc
	in.retired = 0
	in.halted = false
}

// step fetches, decodes, and executes exactly one instruction, unless
// fetchEnabled is false or the interpreter has already halted. It
// returns whether the interpreter is now halted, and whether the
// fetched word decoded to OpUNKNOWN (a decode anomaly).
func (in *interpreter) step(fetchEnabled bool) (halted bool, anomaly bool) {
	if in.halted || !fetchEnabled {
		in.halted = true
		return true, false
	}

	word := in.mem.ReadWord(in.pc)
	inst := insts.Decode(word, in.pc)
	in.retired++

	nextPC := in.pc + 4

	switch {
	case inst.Op == insts.OpUNKNOWN:
		anomaly = true

	case inst.Op == insts.OpHALT:
		in.halted = true

	case inst.IsBranch:
		rs := in.rf.Read(inst.Rs)
		rt := in.rf.Read(inst.Rt)
		if evaluateBranch(inst.Op, rs, rt) {
			nextPC = inst.BranchTarget()
		}

	case inst.Op == insts.OpJ:
		nextPC = inst.JumpTarget()

	case inst.Op == insts.OpJAL:
		in.rf.Write(31, in.pc+8)
		nextPC = inst.JumpTarget()

	case inst.Op == insts.OpJR:
		nextPC = in.rf.Read(inst.Rs)

	case inst.Op == insts.OpJALR:
		target := in.rf.Read(inst.Rs)
		if wr, ok := inst.WriteReg(); ok {
			in.rf.Write(wr, in.pc+8)
		}
		nextPC = target

	case hiLoOp(inst.Op):
		in.execHiLo(inst)

	case inst.IsLoad:
		in.execLoad(inst)

	case inst.IsStore:
		in.execStore(inst)

	default:
		in.execALU(inst)
	}

	in.pc = nextPC
	return in.halted, anomaly
}

func hiLoOp(op insts.Op) bool {
	switch op {
	case insts.OpMULT, insts.OpMULTU, insts.OpDIV, insts.OpDIVU,
		insts.OpMFHI, insts.OpMFLO, insts.OpMTHI, insts.OpMTLO:
		return true
	default:
		return false
	}
}

func (in *interpreter) execHiLo(inst *insts.Instruction) {
	rs := in.rf.Read(inst.Rs)
	rt := in.rf.Read(inst.Rt)

	switch inst.Op {
	case insts.OpMULT:
		res := emu.Mult(int32(rs), int32(rt))
		in.rf.HI, in.rf.LO = res.Hi, res.Lo
	case insts.OpMULTU:
		res := emu.MultU(rs, rt)
		in.rf.HI, in.rf.LO = res.Hi, res.Lo
	case insts.OpDIV:
		res := emu.Div(int32(rs), int32(rt))
		in.rf.LO, in.rf.HI = res.Quotient, res.Remainder
	case insts.OpDIVU:
		res := emu.DivU(rs, rt)
		in.rf.LO, in.rf.HI = res.Quotient, res.Remainder
	case insts.OpMFHI:
		in.rf.Write(inst.Rd, in.rf.HI)
	case insts.OpMFLO:
		in.rf.Write(inst.Rd, in.rf.LO)
	case insts.OpMTHI:
		in.rf.HI = rs
	case insts.OpMTLO:
		in.rf.LO = rs
	}
}

func (in *interpreter) execLoad(inst *insts.Instruction) {
	addr := uint32(int64(in.rf.Read(inst.Rs)) + int64(inst.ImmS()))

	var value uint32
	switch inst.Op {
	case insts.OpLW:
		value = in.mem.ReadWord(addr)
	case insts.OpLH:
		value = uint32(int32(int16(in.mem.ReadHalf(addr))))
	case insts.OpLHU:
		value = uint32(in.mem.ReadHalf(addr))
	case insts.OpLB:
		value = uint32(int32(int8(in.mem.ReadByte(addr))))
	case insts.OpLBU:
		value = uint32(in.mem.ReadByte(addr))
	}
	in.rf.Write(inst.Rt, value)
}

func (in *interpreter) execStore(inst *insts.Instruction) {
	addr := uint32(int64(in.rf.Read(inst.Rs)) + int64(inst.ImmS()))
	rt := in.rf.Read(inst.Rt)

	switch inst.Op {
	case insts.OpSW:
		in.mem.WriteWord(addr, rt)
	case insts.OpSH:
		in.mem.WriteHalf(addr, uint16(rt))
	case insts.OpSB:
		in.mem.WriteByte(addr, uint8(rt))
	}
}

func (in *interpreter) execALU(inst *insts.Instruction) {
	rs := in.rf.Read(inst.Rs)
	rt := in.rf.Read(inst.Rt)

	var a, b uint32
	switch inst.Op {
	case insts.OpLUI:
		a, b = 0, uint32(inst.ImmS())<<16
	case insts.OpANDI, insts.OpORI, insts.OpXORI:
		a, b = rs, uint32(inst.ImmU)
	case insts.OpADDI, insts.OpADDIU, insts.OpSLTI, insts.OpSLTIU:
		a, b = rs, uint32(inst.ImmS())
	case insts.OpSLL, insts.OpSRL, insts.OpSRA:
		a, b = 0, rt
	default:
		a, b = rs, rt
	}

	res := emu.Eval(aluOpFor(inst.Op), a, b, inst.Shamt)

	if wr, ok := inst.WriteReg(); ok {
		in.rf.Write(wr, res.Value)
	}
}

func aluOpFor(op insts.Op) emu.AluOp {
	switch op {
	case insts.OpADD, insts.OpADDI, insts.OpADDIU, insts.OpLUI:
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

func evaluateBranch(op insts.Op, rs, rt uint32) bool {
	switch op {
	case insts.OpBEQ:
		return rs == rt
	case insts.OpBNE:
		return rs != rt
	case insts.OpBLEZ:
		return int32(rs) <= 0
	case insts.OpBGTZ:
		return int32(rs) > 0
	case insts.OpBLTZ:
		return int32(rs) < 0
	case insts.OpBGEZ:
		return int32(rs) >= 0
	default:
		return false
	}
}
