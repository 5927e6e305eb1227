package pipeline

import (
	"github.com/sarchlab/mips5sim/emu"
	"github.com/sarchlab/mips5sim/insts"
)

// Stats summarizes one pipeline run, independent of the HazardUnit's and
// BranchPredictor's own more detailed counters.
type Stats struct {
	Cycles              uint64
	InstructionsRetired uint64
}

// CPI returns cycles-per-instruction, or 0 if nothing has retired yet.
func (s Stats) CPI() float64 {
	if s.InstructionsRetired == 0 {
		return 0
	}
	return float64(s.Cycles) / float64(s.InstructionsRetired)
}

// Pipeline is the classic 5-stage in-order MIPS-I pipeline: four latches,
// a HazardUnit, and a BranchPredictor, advanced one cycle at a time by
// Tick. It owns fetch/decode/execute/memory/writeback sequencing; the
// architectural register file and memory it operates on are supplied by
// the caller (ordinarily timing/core.Core) on every Tick.
type Pipeline struct {
	pc uint32

	ifid  IFIDLatch
	idex  IDEXLatch
	exmem EXMEMLatch
	memwb MEMWBLatch

	hazard    *HazardUnit
	predictor BranchPredictor

	stats Stats

	halted bool
}

// NewPipeline creates a Pipeline starting fetch at pc, using predictor
// for branch prediction. A nil predictor defaults to StaticNT.
func NewPipeline(pc uint32, predictor BranchPredictor) *Pipeline {
	if predictor == nil {
		predictor = NewBranchPredictor(PredictorStaticNT, 0, 0)
	}
	return &Pipeline{
		pc:        pc,
		hazard:    NewHazardUnit(),
		predictor: predictor,
	}
}

// PC returns the address the pipeline will fetch from next.
func (p *Pipeline) PC() uint32 { return p.pc }

// SetPC redirects fetch to pc, e.g. when the caller reloads a program.
func (p *Pipeline) SetPC(pc uint32) { p.pc = pc }

// Stats returns the pipeline's cycle/retirement counters.
func (p *Pipeline) Stats() Stats { return p.stats }

// Hazard exposes the HazardUnit for inspection (stall/forward/flush
// counters).
func (p *Pipeline) Hazard() *HazardUnit { return p.hazard }

// Predictor exposes the BranchPredictor for inspection.
func (p *Pipeline) Predictor() BranchPredictor { return p.predictor }

// Halted reports whether a HALT instruction has executed. From then on
// nothing is fetched and the instructions behind the HALT are discarded,
// so the pipeline drains in the cycle the HALT itself retires.
func (p *Pipeline) Halted() bool { return p.halted }

// Reset clears all latches, statistics, and the HazardUnit, and sets the
// fetch PC to pc. The BranchPredictor's learned state is left untouched;
// call Predictor().Reset() separately if that is also wanted.
func (p *Pipeline) Reset(pc uint32) {
	p.pc = pc
	p.ifid.Clear()
	p.idex.Clear()
	p.exmem.Clear()
	p.memwb.Clear()
	p.hazard.Reset()
	p.stats = Stats{}
	p.halted = false
}

// Drained reports whether every latch is empty and the pipeline has
// nothing left in flight — the condition for Run to stop once fetch
// itself has stopped producing new instructions (end of program or HALT).
func (p *Pipeline) Drained() bool {
	return !p.ifid.Valid && !p.idex.Valid && !p.exmem.Valid && !p.memwb.Valid
}

// Tick advances the pipeline by exactly one cycle, evaluating stages in
// reverse pipeline order (WB, MEM, EX, ID, IF) so that every stage reads
// the latch values its upstream neighbor produced on the *previous*
// cycle — except WB, which commits to rf before ID reads it this same
// cycle, giving same-cycle write-before-read forwarding into ID. mem
// serves both instruction fetch and data access; fetchEnabled controls
// whether IF is allowed to pull in new instructions (the caller clears
// this once the program's instruction stream is exhausted).
func (p *Pipeline) Tick(rf *emu.RegisterFile, mem *emu.Memory, fetchEnabled bool) {
	oldIFID := p.ifid
	oldIDEX := p.idex
	oldEXMEM := p.exmem
	oldMEMWB := p.memwb

	p.stats.Cycles++

	// WB
	if oldMEMWB.Valid {
		p.stats.InstructionsRetired++
		if oldMEMWB.RegWrite {
			value := oldMEMWB.ALUResult
			if oldMEMWB.MemToReg {
				value = oldMEMWB.MemData
			}
			rf.Write(oldMEMWB.WriteReg, value)
		}
	}

	// MEM
	newMEMWB := stageMemory(&oldEXMEM, mem)

	// EX
	newEXMEM, exFlush := p.stageExecute(&oldIDEX, &oldEXMEM, &oldMEMWB, rf)

	// ID
	newIDEX, idFlush, stall := p.stageDecode(&oldIFID, &oldIDEX, rf)

	// IF
	newIFID := p.stageFetch(mem, fetchEnabled, stall)

	switch {
	case exFlush.Flush:
		newIFID.Clear()
		newIDEX.Clear()
		p.pc = exFlush.RedirectPC
	case idFlush.Flush:
		newIFID.Clear()
		p.pc = idFlush.RedirectPC
	}

	if newEXMEM.Valid && newEXMEM.Inst != nil && newEXMEM.Inst.Op == insts.OpHALT {
		// Nothing fetched after a HALT executes: squash the younger
		// instructions in ID and IF and stop fetching.
		newIFID.Clear()
		newIDEX.Clear()
		p.halted = true
	}

	p.ifid = newIFID
	p.idex = newIDEX
	p.exmem = newEXMEM
	p.memwb = newMEMWB
}

// stageFetch fetches the word at the current pc into a fresh IFIDLatch.
// It also performs a lightweight decode of its own, solely to recognize
// branches and consult the predictor immediately — this is what lets a
// correctly-predicted branch cost zero bubble cycles: the redirect must
// land before the *next* cycle's fetch, one stage earlier than the full
// decode in ID would allow. If fetching is disabled or a load-use stall
// is holding the front end back, the pc is left untouched and the
// previously-fetched instruction (or a bubble) is returned instead.
func (p *Pipeline) stageFetch(mem *emu.Memory, fetchEnabled, stall bool) IFIDLatch {
	if stall {
		return p.ifid // hold the already-fetched instruction; don't refetch
	}
	if !fetchEnabled || p.halted {
		return IFIDLatch{}
	}

	word := mem.ReadWord(p.pc)
	latch := IFIDLatch{Valid: true, PC: p.pc, Word: word}

	next := p.pc + 4
	if inst := insts.Decode(word, p.pc); inst.IsBranch {
		target := inst.BranchTarget()
		if p.predictor.Predict(p.pc, target) {
			next = target
		}
	}
	p.pc = next

	return latch
}

// stageDecode decodes the instruction latched in oldIFID, reads its
// operands from rf (already updated by this cycle's WB), checks for a
// load-use hazard against oldIDEX, and resolves J/JAL (which redirect
// unconditionally from ID). It returns the new IDEXLatch, any ID-stage
// control flush, and whether a stall bubble was inserted.
func (p *Pipeline) stageDecode(oldIFID *IFIDLatch, oldIDEX *IDEXLatch, rf *emu.RegisterFile) (IDEXLatch, ControlFlush, bool) {
	if !oldIFID.Valid {
		return IDEXLatch{}, ControlFlush{}, false
	}

	inst := insts.Decode(oldIFID.Word, oldIFID.PC)

	if p.hazard.DetectLoadUseHazard(oldIDEX, inst.Rs, inst.Rt, inst.ReadsRs, inst.ReadsRt) {
		return IDEXLatch{}, ControlFlush{}, true
	}

	latch := decodeControl(inst)
	latch.Valid = true
	latch.PC = oldIFID.PC
	latch.Inst = inst
	latch.RsValue = rf.Read(inst.Rs)
	latch.RtValue = rf.Read(inst.Rt)
	latch.ImmS = inst.ImmS()

	var flush ControlFlush
	switch inst.Op {
	case insts.OpJ, insts.OpJAL:
		flush = p.hazard.ResolveDirectJump(inst.JumpTarget())
	}

	if inst.IsBranch {
		// IF already steered fetch for this branch and p.pc still holds the
		// address it chose, so record that direction rather than asking the
		// predictor again (its state may have changed since fetch).
		latch.PredictedTarget = inst.BranchTarget()
		latch.PredictedTaken = p.pc == latch.PredictedTarget
	}

	return latch, flush, false
}

// stageExecute runs EX for the instruction in oldIDEX: it resolves
// operand forwarding from oldEXMEM/oldMEMWB, performs the ALU/HI-LO/
// branch/jump computation, and — for branches and JR/JALR — resolves the
// control-flow outcome against what was predicted or assumed at fetch.
func (p *Pipeline) stageExecute(oldIDEX *IDEXLatch, oldEXMEM *EXMEMLatch, oldMEMWB *MEMWBLatch, rf *emu.RegisterFile) (EXMEMLatch, ControlFlush) {
	if !oldIDEX.Valid || oldIDEX.Inst == nil {
		return EXMEMLatch{}, ControlFlush{}
	}

	inst := oldIDEX.Inst
	fd := p.hazard.DetectForwarding(oldIDEX, oldEXMEM, oldMEMWB)
	rsValue := resolveForward(fd.ForwardRs, oldIDEX.RsValue, oldEXMEM, oldMEMWB)
	rtValue := resolveForward(fd.ForwardRt, oldIDEX.RtValue, oldEXMEM, oldMEMWB)

	base := EXMEMLatch{
		Valid:    true,
		PC:       oldIDEX.PC,
		Inst:     inst,
		WriteReg: oldIDEX.WriteReg,
		RegWrite: oldIDEX.RegWrite,
		MemRead:  oldIDEX.MemRead,
		MemWrite: oldIDEX.MemWrite,
		MemToReg: oldIDEX.MemToReg,
	}

	if result, handled := executeHiLo(inst, rf, rsValue, rtValue); handled {
		base.ALUResult = result
		return base, ControlFlush{}
	}

	switch {
	case inst.IsBranch:
		taken := evaluateBranch(inst, rsValue, rtValue)
		target := inst.BranchTarget()
		fallthroughPC := oldIDEX.PC + 4
		flush := p.hazard.ResolveBranch(oldIDEX.PredictedTaken, oldIDEX.PredictedTarget, taken, target, fallthroughPC)
		p.predictor.Update(inst.Addr, taken, target)
		base.Zero = rsValue == rtValue
		return base, flush

	case inst.Op == insts.OpJR:
		return base, p.hazard.ResolveJumpRegister(rsValue)

	case inst.Op == insts.OpJALR:
		base.ALUResult = oldIDEX.PC + 8
		return base, p.hazard.ResolveJumpRegister(rsValue)

	case inst.Op == insts.OpJAL:
		base.ALUResult = oldIDEX.PC + 8
		return base, ControlFlush{}

	case inst.IsLoad, inst.IsStore:
		a, b := aluOperands(inst, rsValue, rtValue)
		res := emu.Eval(emu.AluADD, a, b, 0)
		base.ALUResult = res.Value
		base.StoreValue = storeValueFor(inst, rtValue)
		return base, ControlFlush{}

	default:
		a, b := aluOperands(inst, rsValue, rtValue)
		res := emu.Eval(aluOpFor(inst.Op), a, b, inst.Shamt)
		base.ALUResult = res.Value
		base.Zero = res.Zero
		return base, ControlFlush{}
	}
}

// resolveForward applies a ForwardDecision to a raw operand value read in
// ID, substituting the EX/MEM or MEM/WB latch's result when indicated.
func resolveForward(src ForwardSource, raw uint32, exmem *EXMEMLatch, memwb *MEMWBLatch) uint32 {
	switch src {
	case ForwardFromEXMEM:
		return exmem.ALUResult
	case ForwardFromMEMWB:
		if memwb.MemToReg {
			return memwb.MemData
		}
		return memwb.ALUResult
	default:
		return raw
	}
}

// stageMemory runs MEM for the instruction in oldEXMEM: loads read mem,
// stores write it, and every other instruction passes its ALU result
// through untouched.
func stageMemory(oldEXMEM *EXMEMLatch, mem *emu.Memory) MEMWBLatch {
	if !oldEXMEM.Valid {
		return MEMWBLatch{}
	}

	latch := MEMWBLatch{
		Valid:     true,
		PC:        oldEXMEM.PC,
		Inst:      oldEXMEM.Inst,
		ALUResult: oldEXMEM.ALUResult,
		WriteReg:  oldEXMEM.WriteReg,
		RegWrite:  oldEXMEM.RegWrite,
		MemToReg:  oldEXMEM.MemToReg,
	}

	if oldEXMEM.MemRead || oldEXMEM.MemWrite {
		latch.MemData = doMemoryAccess(oldEXMEM.Inst, mem, oldEXMEM.ALUResult, oldEXMEM.StoreValue)
	}

	return latch
}
