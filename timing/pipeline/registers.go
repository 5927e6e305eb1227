// Package pipeline implements the classic 5-stage in-order MIPS-I pipeline:
// hazard detection and forwarding, the branch predictor family, and the
// per-cycle latch state machine described in spec.md §4.6–§4.7.
package pipeline

import "github.com/sarchlab/mips5sim/insts"

// IFIDLatch carries state from Fetch into Decode.
type IFIDLatch struct {
	Valid bool
	PC    uint32
	Word  uint32
}

// Clear resets the latch to an empty bubble.
func (l *IFIDLatch) Clear() {
	*l = IFIDLatch{}
}

// IDEXLatch carries state from Decode into Execute.
type IDEXLatch struct {
	Valid bool
	PC    uint32
	Inst  *insts.Instruction

	RsValue uint32
	RtValue uint32
	ImmS    int32

	WriteReg uint8

	// Control signals.
	RegWrite bool
	MemRead  bool
	MemWrite bool
	MemToReg bool
	IsBranch bool
	IsJump   bool

	// PredictedTaken/PredictedTarget are what the predictor said for this
	// branch at fetch time, carried forward so EX can compare against the
	// resolved outcome.
	PredictedTaken  bool
	PredictedTarget uint32
}

// Clear resets the latch to an empty bubble.
func (l *IDEXLatch) Clear() {
	*l = IDEXLatch{}
}

// EXMEMLatch carries state from Execute into Memory.
type EXMEMLatch struct {
	Valid bool
	PC    uint32
	Inst  *insts.Instruction

	ALUResult  uint32
	StoreValue uint32
	WriteReg   uint8

	RegWrite bool
	MemRead  bool
	MemWrite bool
	MemToReg bool
	Zero     bool
}

// Clear resets the latch to an empty bubble.
func (l *EXMEMLatch) Clear() {
	*l = EXMEMLatch{}
}

// MEMWBLatch carries state from Memory into Writeback.
type MEMWBLatch struct {
	Valid bool
	PC    uint32
	Inst  *insts.Instruction

	ALUResult uint32
	MemData   uint32
	WriteReg  uint8

	RegWrite bool
	MemToReg bool
}

// Clear resets the latch to an empty bubble.
func (l *MEMWBLatch) Clear() {
	*l = MEMWBLatch{}
}
