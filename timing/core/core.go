// Package core provides the top-level simulator façade: a Core owns the
// architectural register file and memory plus either a timing-accurate
// Pipeline or a pipeline-disabled direct interpreter, and exposes the
// load/step/run/reset surface described in spec.md §6.
package core

import (
	"fmt"

	"github.com/sarchlab/mips5sim/emu"
	"github.com/sarchlab/mips5sim/loader"
	"github.com/sarchlab/mips5sim/timing/pipeline"
)

// DefaultSafetyCap bounds Run's cycle count so a program that never halts
// cannot hang the caller; it is deliberately generous.
const DefaultSafetyCap = 1_000_000

// Stats aggregates every counter a caller might want after a run:
// pipeline cycle/retirement counts, hazard-unit activity, branch-predictor
// accuracy, and memory/decode anomalies.
type Stats struct {
	Cycles              uint64
	InstructionsRetired uint64

	DataHazards      uint64
	ControlHazards   uint64
	ForwardingEvents uint64
	StallsInserted   uint64
	FlushesPerformed uint64

	BranchTotal        uint64
	BranchCorrect      uint64
	BranchMispredicted uint64

	OutOfRangeReads  uint64
	OutOfRangeWrites uint64

	DecodeAnomalies uint64
}

// CPI returns cycles-per-instruction, or 0 if nothing has retired.
func (s Stats) CPI() float64 {
	if s.InstructionsRetired == 0 {
		return 0
	}
	return float64(s.Cycles) / float64(s.InstructionsRetired)
}

// BranchAccuracy returns BranchCorrect/BranchTotal, or 0 with no branches.
func (s Stats) BranchAccuracy() float64 {
	if s.BranchTotal == 0 {
		return 0
	}
	return float64(s.BranchCorrect) / float64(s.BranchTotal)
}

// StepResult reports the outcome of a single Step/Run call.
type StepResult struct {
	Halted       bool
	SafetyCapped bool
	CyclesRun    uint64
}

// Option configures a Core at construction time, in the teacher's
// functional-options style.
type Option func(*Core)

// WithMemorySize overrides DefaultMemorySize.
func WithMemorySize(size int) Option {
	return func(c *Core) { c.mem = emu.NewMemory(size) }
}

// WithBaseAddress overrides the default program load/start address.
func WithBaseAddress(addr uint32) Option {
	return func(c *Core) { c.baseAddr = addr }
}

// WithBranchPredictor selects the BranchPredictor variant the pipelined
// path uses. Has no effect once the interpreter path is enabled.
func WithBranchPredictor(predictor pipeline.BranchPredictor) Option {
	return func(c *Core) { c.predictor = predictor }
}

// WithPipelineDisabled starts the Core in direct-interpreter mode instead
// of the default timing-accurate pipeline.
func WithPipelineDisabled() Option {
	return func(c *Core) { c.pipelineEnabled = false }
}

// WithSafetyCap overrides DefaultSafetyCap.
func WithSafetyCap(cap uint64) Option {
	return func(c *Core) { c.safetyCap = cap }
}

// Core is the simulator's top-level façade over the architectural state
// (RegisterFile, Memory) and one of two execution engines: the
// timing-accurate Pipeline, or a pipeline-disabled direct interpreter
// that executes one instruction per Step with no timing model at all.
// Both engines share the same decode/ALU/memory semantics, so a
// hazard-free program produces identical final state under either
// (spec.md §8 property 4).
type Core struct {
	rf  *emu.RegisterFile
	mem *emu.Memory

	baseAddr  uint32
	predictor pipeline.BranchPredictor
	safetyCap uint64

	pipelineEnabled bool
	pipe            *pipeline.Pipeline
	interp          *interpreter

	programWords int
	decodeAnom   uint64
}

// NewCore creates a Core with DefaultMemorySize bytes of memory, the conventional
// MIPS-I text-segment base address, a StaticNT predictor, and the
// timing-accurate pipeline enabled, as overridden by opts.
func NewCore(opts ...Option) *Core {
	c := &Core{
		rf:              emu.NewRegisterFile(),
		baseAddr:        emu.DefaultBaseAddress,
		safetyCap:       DefaultSafetyCap,
		pipelineEnabled: true,
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.mem == nil {
		c.mem = emu.NewMemory(emu.DefaultMemorySize)
	}
	if c.predictor == nil {
		c.predictor = pipeline.NewBranchPredictor(pipeline.PredictorStaticNT, 0, 0)
	}

	c.pipe = pipeline.NewPipeline(c.baseAddr, c.predictor)
	c.interp = newInterpreter(c.rf, c.mem, c.baseAddr)
	return c
}

// Load writes words into memory starting at the base address and resets
// both execution engines to start fetching from there. It reports a
// *loader.LoadError — the same error kind LoadImage uses for a malformed
// token (spec.md §7) — if the image has more words than fit in memory
// from the base address onward; on that error nothing is written and
// Core's state is left exactly as it was before the call.
func (c *Core) Load(words []uint32) error {
	need := uint64(c.baseAddr) + uint64(len(words))*4
	if need > uint64(c.mem.Size()) {
		return &loader.LoadError{
			Err: fmt.Errorf("program image of %d words overflows memory: base 0x%x needs %d bytes, memory is %d bytes", len(words), c.baseAddr, need, c.mem.Size()),
		}
	}

	c.mem.LoadWords(c.baseAddr, words)
	c.programWords = len(words)
	c.Reset()
	return nil
}

// Registers returns the architectural register file.
func (c *Core) Registers() *emu.RegisterFile { return c.rf }

// Memory returns the architectural memory.
func (c *Core) Memory() *emu.Memory { return c.mem }

// PC returns the current program counter, from whichever engine is active.
func (c *Core) PC() uint32 {
	if c.pipelineEnabled {
		return c.pipe.PC()
	}
	return c.interp.pc
}

// SetPC redirects both engines' fetch address, e.g. to restart execution.
func (c *Core) SetPC(pc uint32) {
	c.pipe.SetPC(pc)
	c.interp.pc = pc
}

// EnablePipeline switches between the timing-accurate pipeline and the
// direct interpreter. Switching does not reset architectural state, only
// which engine subsequently advances it.
func (c *Core) EnablePipeline(enabled bool) {
	c.pipelineEnabled = enabled
}

// PipelineEnabled reports which engine is currently active.
func (c *Core) PipelineEnabled() bool { return c.pipelineEnabled }

// Reset clears the register file, the active pipeline/interpreter state,
// and re-homes the PC at the base address. Memory contents are untouched
// (re-Load to change the program).
func (c *Core) Reset() {
	c.rf.Reset()
	c.pipe.Reset(c.baseAddr)
	c.interp.reset(c.baseAddr)
	c.decodeAnom = 0
}

// fetchEnabled reports whether the active PC still falls within the
// loaded program image.
func (c *Core) fetchEnabled(pc uint32) bool {
	return pc < c.baseAddr+uint32(c.programWords)*4
}

// Step advances the simulator by exactly one cycle (pipelined mode) or
// one instruction (interpreter mode), returning whether the program has
// now halted.
func (c *Core) Step() StepResult {
	if c.pipelineEnabled {
		c.pipe.Tick(c.rf, c.mem, c.fetchEnabled(c.pipe.PC()))
		done := c.pipe.Halted() || !c.fetchEnabled(c.pipe.PC())
		return StepResult{Halted: done && c.pipe.Drained(), CyclesRun: 1}
	}

	halted, anomaly := c.interp.step(c.fetchEnabled(c.interp.pc))
	if anomaly {
		c.decodeAnom++
	}
	return StepResult{Halted: halted, CyclesRun: 1}
}

// Run steps the simulator until it halts or until maxCycles or the Core's
// safety cap (DefaultSafetyCap unless WithSafetyCap overrides it) elapses,
// whichever is smaller; maxCycles 0 means the safety cap alone.
func (c *Core) Run(maxCycles uint64) StepResult {
	cap := c.safetyCap
	if maxCycles != 0 && maxCycles < cap {
		cap = maxCycles
	}

	var ran uint64
	for ran < cap {
		res := c.Step()
		ran++
		if res.Halted {
			return StepResult{Halted: true, CyclesRun: ran}
		}
	}
	return StepResult{SafetyCapped: true, CyclesRun: ran}
}

// Stats aggregates counters from whichever engine is active. In
// interpreter mode the hazard/branch-predictor fields are zero, since
// that engine performs no timing simulation. DecodeAnomalies is counted
// by the interpreter only; the pipelined engine does not count them.
func (c *Core) Stats() Stats {
	s := Stats{
		OutOfRangeReads:  c.mem.OutOfRangeReads(),
		OutOfRangeWrites: c.mem.OutOfRangeWrites(),
		DecodeAnomalies:  c.decodeAnom,
	}

	if !c.pipelineEnabled {
		s.InstructionsRetired = c.interp.retired
		s.Cycles = c.interp.retired
		return s
	}

	ps := c.pipe.Stats()
	s.Cycles = ps.Cycles
	s.InstructionsRetired = ps.InstructionsRetired

	h := c.pipe.Hazard()
	s.DataHazards = h.DataHazards
	s.ControlHazards = h.ControlHazards
	s.ForwardingEvents = h.ForwardingEvents
	s.StallsInserted = h.StallsInserted
	s.FlushesPerformed = h.FlushesPerformed

	bs := c.pipe.Predictor().Stats()
	s.BranchTotal = bs.Total
	s.BranchCorrect = bs.Correct
	s.BranchMispredicted = bs.Mispredicted

	return s
}
