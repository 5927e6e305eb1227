// Package emu provides the architectural state of the MIPS-I core: the
// register file, main memory, and the ALU.
package emu

// Register index conventions, per spec.md §6.
const (
	RegZero = 0
	RegSP   = 29
	RegGP   = 28
	RegRA   = 31
)

// Default reload values for $sp and $gp on reset: the conventional MIPS
// values for a full 32-bit address space. Both lie above
// DefaultMemorySize, so accesses through them are out of range unless the
// memory is made large enough to cover them.
const (
	DefaultSP = 0x7FFFEFFC
	DefaultGP = 0x10008000
)

// RegisterFile holds the 32 general-purpose registers plus the HI/LO
// special registers used by MULT/DIV. Register 0 is hard-wired to zero:
// reads return 0 and writes are silently discarded.
type RegisterFile struct {
	R [32]uint32

	// HI/LO hold the multiply/divide result (§3 of SPEC_FULL.md): HI is
	// the high word of a product or the remainder of a division, LO is
	// the low word of a product or the quotient.
	HI uint32
	LO uint32
}

// NewRegisterFile creates a register file with $sp/$gp at their default
// values, matching the state Core.Reset restores.
func NewRegisterFile() *RegisterFile {
	rf := &RegisterFile{}
	rf.Reset()
	return rf
}

// Reset zeroes every register and HI/LO, then reloads $sp and $gp.
func (rf *RegisterFile) Reset() {
	for i := range rf.R {
		rf.R[i] = 0
	}
	rf.HI = 0
	rf.LO = 0
	rf.R[RegSP] = DefaultSP
	rf.R[RegGP] = DefaultGP
}

// Read returns the value of register idx. Register 0 always reads 0.
func (rf *RegisterFile) Read(idx uint8) uint32 {
	if idx == RegZero {
		return 0
	}
	return rf.R[idx&0x1F]
}

// Write stores value into register idx. Writes to register 0 are no-ops.
func (rf *RegisterFile) Write(idx uint8, value uint32) {
	if idx == RegZero {
		return
	}
	rf.R[idx&0x1F] = value
}

// Snapshot returns a copy of the full register state, for inspection.
func (rf *RegisterFile) Snapshot() [32]uint32 {
	return rf.R
}
