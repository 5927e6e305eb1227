package pipeline

// ForwardSource indicates where a forwarded operand value should come
// from, in priority order EX/MEM over MEM/WB over the register file.
type ForwardSource int

const (
	// ForwardNone means no forwarding needed — use the register file value.
	ForwardNone ForwardSource = iota
	// ForwardFromEXMEM forwards from the EX/MEM latch.
	ForwardFromEXMEM
	// ForwardFromMEMWB forwards from the MEM/WB latch.
	ForwardFromMEMWB
)

// ForwardDecision is the HazardUnit's forwarding decision for both ALU
// source operands of the instruction currently in ID/EX.
type ForwardDecision struct {
	ForwardRs ForwardSource
	ForwardRt ForwardSource
}

// HazardUnit detects data and control hazards and decides forwarding,
// stalling, and flushing, per spec.md §4.6.
type HazardUnit struct {
	DataHazards      uint64
	ControlHazards   uint64
	ForwardingEvents uint64
	StallsInserted   uint64
	FlushesPerformed uint64
}

// NewHazardUnit creates a HazardUnit with zeroed statistics.
func NewHazardUnit() *HazardUnit {
	return &HazardUnit{}
}

// Reset zeroes all statistics counters.
func (h *HazardUnit) Reset() {
	*h = HazardUnit{}
}

// DetectForwarding decides, for the instruction about to enter EX
// (idex), whether either ALU source operand should be forwarded from
// EX/MEM or MEM/WB instead of the register file it was read from in ID.
func (h *HazardUnit) DetectForwarding(idex *IDEXLatch, exmem *EXMEMLatch, memwb *MEMWBLatch) ForwardDecision {
	var fd ForwardDecision
	if !idex.Valid || idex.Inst == nil {
		return fd
	}

	if idex.Inst.ReadsRs {
		fd.ForwardRs = h.forwardFor(idex.Inst.Rs, exmem, memwb)
	}
	if idex.Inst.ReadsRt {
		fd.ForwardRt = h.forwardFor(idex.Inst.Rt, exmem, memwb)
	}

	if fd.ForwardRs != ForwardNone {
		h.ForwardingEvents++
	}
	if fd.ForwardRt != ForwardNone {
		h.ForwardingEvents++
	}
	if fd.ForwardRs != ForwardNone || fd.ForwardRt != ForwardNone {
		h.DataHazards++
	}

	return fd
}

// forwardFor picks EX/MEM over MEM/WB over "no forwarding" for a single
// source register. Register 0 is never forwarded: it always reads 0.
func (h *HazardUnit) forwardFor(reg uint8, exmem *EXMEMLatch, memwb *MEMWBLatch) ForwardSource {
	if reg == 0 {
		return ForwardNone
	}
	if exmem.Valid && exmem.RegWrite && exmem.WriteReg == reg {
		return ForwardFromEXMEM
	}
	if memwb.Valid && memwb.RegWrite && memwb.WriteReg == reg {
		return ForwardFromMEMWB
	}
	return ForwardNone
}

// DetectLoadUseHazard reports whether the load currently in ID/EX must
// stall the instruction currently in IF/ID by one cycle because the
// latter reads the load's destination register before the loaded value
// is available (it isn't ready until MEM, one stage too late to forward
// into the very next EX).
func (h *HazardUnit) DetectLoadUseHazard(idex *IDEXLatch, nextRs, nextRt uint8, usesRs, usesRt bool) bool {
	if !idex.Valid || !idex.MemRead || idex.WriteReg == 0 {
		return false
	}

	hazard := (usesRs && idex.WriteReg == nextRs) || (usesRt && idex.WriteReg == nextRt)
	if hazard {
		h.StallsInserted++
	}
	return hazard
}

// ControlFlush describes the flush/redirect the HazardUnit requires after
// a control-flow instruction resolves against what was predicted or
// assumed at fetch time.
type ControlFlush struct {
	Flush      bool
	RedirectPC uint32
}

// ResolveBranch is called in EX once a branch's actual outcome and target
// are known. fallthroughPC is the sequential PC (branch PC + 4) to
// redirect to when the correct outcome is not-taken. If the predicted and
// actual outcomes disagree, this signals a flush that costs exactly two
// bubble cycles (IF/ID and ID/EX both invalidated).
func (h *HazardUnit) ResolveBranch(predictedTaken bool, predictedTarget uint32, actualTaken bool, actualTarget uint32, fallthroughPC uint32) ControlFlush {
	mispredicted := predictedTaken != actualTaken ||
		(actualTaken && predictedTaken && predictedTarget != actualTarget)
	if !mispredicted {
		return ControlFlush{}
	}

	h.ControlHazards++
	h.FlushesPerformed++
	if actualTaken {
		return ControlFlush{Flush: true, RedirectPC: actualTarget}
	}
	return ControlFlush{Flush: true, RedirectPC: fallthroughPC}
}

// ResolveJumpRegister is called in EX for JR/JALR, which always redirect
// unconditionally (the predictor is never consulted for these): this
// costs exactly two bubble cycles, matching the branch-misprediction cost.
func (h *HazardUnit) ResolveJumpRegister(target uint32) ControlFlush {
	h.ControlHazards++
	h.FlushesPerformed++
	return ControlFlush{Flush: true, RedirectPC: target}
}

// ResolveDirectJump is called in ID for J/JAL, which always redirect to a
// PC-computable target: this costs exactly one bubble cycle (IF only).
func (h *HazardUnit) ResolveDirectJump(target uint32) ControlFlush {
	h.ControlHazards++
	h.FlushesPerformed++
	return ControlFlush{Flush: true, RedirectPC: target}
}
