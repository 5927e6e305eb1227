package pipeline

// PredictorKind selects a BranchPredictor variant, mirroring the original
// simulator's PredictorType taxonomy (static policies through a hybrid
// tournament predictor).
type PredictorKind int

// Supported predictor variants.
const (
	PredictorStaticNT PredictorKind = iota
	PredictorStaticT
	PredictorBTFN
	PredictorBimodal1Bit
	PredictorBimodal2Bit
	PredictorGshare
	PredictorLocalHistory
	PredictorTournament
)

// BranchStats reports a predictor's running accuracy.
type BranchStats struct {
	Total        uint64
	Correct      uint64
	Mispredicted uint64
}

// Accuracy returns Correct/Total, or 0 when no prediction has been made.
func (s BranchStats) Accuracy() float64 {
	if s.Total == 0 {
		return 0
	}
	return float64(s.Correct) / float64(s.Total)
}

// BranchPredictor is the capability set every predictor variant
// implements: a pure query (Predict), an outcome-driven state update
// (Update), a state reset, and running statistics. Predict never mutates
// state and never caches a result across calls — Update independently
// recomputes what Predict would have said for pc, per spec.md §4.5.
type BranchPredictor interface {
	Predict(pc uint32, target uint32) bool
	Update(pc uint32, taken bool, target uint32)
	Reset()
	Stats() BranchStats
}

// NewBranchPredictor is the predictor factory: it builds a variant by
// kind, with k and h as the variant's size parameters (index bits and, for
// gshare, local-history and tournament, history bits). Zero values fall
// back to sensible defaults.
func NewBranchPredictor(kind PredictorKind, k, h uint) BranchPredictor {
	if k == 0 {
		k = 10
	}
	if h == 0 {
		h = 10
	}

	switch kind {
	case PredictorStaticT:
		return &staticPredictor{prediction: true}
	case PredictorBTFN:
		return &btfnPredictor{}
	case PredictorBimodal1Bit:
		return newBimodalPredictor(k, false)
	case PredictorBimodal2Bit:
		return newBimodalPredictor(k, true)
	case PredictorGshare:
		return newGsharePredictor(k, h)
	case PredictorLocalHistory:
		return newLocalHistoryPredictor(k, h)
	case PredictorTournament:
		return newTournamentPredictor(k, h)
	default:
		return &staticPredictor{prediction: false}
	}
}

// recordOutcome is the shared statistics bookkeeping every variant's
// Update performs: compare the outcome against what Predict would have
// said right now, then tally it.
func recordOutcome(stats *BranchStats, predicted, actual bool) {
	stats.Total++
	if predicted == actual {
		stats.Correct++
	} else {
		stats.Mispredicted++
	}
}

// staticPredictor implements StaticNT (prediction=false) and StaticT
// (prediction=true): a constant result regardless of pc/target.
type staticPredictor struct {
	prediction bool
	stats      BranchStats
}

func (p *staticPredictor) Predict(pc, target uint32) bool { return p.prediction }

func (p *staticPredictor) Update(pc uint32, taken bool, target uint32) {
	recordOutcome(&p.stats, p.prediction, taken)
}

func (p *staticPredictor) Reset()             { p.stats = BranchStats{} }
func (p *staticPredictor) Stats() BranchStats { return p.stats }

// btfnPredictor implements Backward-Taken-Forward-Not-taken: a branch is
// predicted taken iff its target address is behind its own pc.
type btfnPredictor struct {
	stats BranchStats
}

func (p *btfnPredictor) Predict(pc, target uint32) bool {
	return target < pc
}

func (p *btfnPredictor) Update(pc uint32, taken bool, target uint32) {
	recordOutcome(&p.stats, p.Predict(pc, target), taken)
}

func (p *btfnPredictor) Reset()             { p.stats = BranchStats{} }
func (p *btfnPredictor) Stats() BranchStats { return p.stats }

// bimodalPredictor is a direct-mapped table of per-pc counters: a single
// taken/not-taken bit (BIMODAL_1BIT) or a 2-bit saturating counter
// (BIMODAL_2BIT), indexed by (pc>>2) mod 2^k.
type bimodalPredictor struct {
	table  []uint8
	mask   uint32
	twoBit bool
	stats  BranchStats
}

func newBimodalPredictor(k uint, twoBit bool) *bimodalPredictor {
	size := uint32(1) << k
	p := &bimodalPredictor{table: make([]uint8, size), mask: size - 1, twoBit: twoBit}
	p.Reset()
	return p
}

func (p *bimodalPredictor) index(pc uint32) uint32 {
	return (pc >> 2) & p.mask
}

func (p *bimodalPredictor) Predict(pc, target uint32) bool {
	entry := p.table[p.index(pc)]
	if p.twoBit {
		return entry >= 2
	}
	return entry == 1
}

func (p *bimodalPredictor) Update(pc uint32, taken bool, target uint32) {
	recordOutcome(&p.stats, p.Predict(pc, target), taken)

	idx := p.index(pc)
	if p.twoBit {
		p.table[idx] = saturatingUpdate(p.table[idx], taken)
		return
	}
	if taken {
		p.table[idx] = 1
	} else {
		p.table[idx] = 0
	}
}

func (p *bimodalPredictor) Reset() {
	p.stats = BranchStats{}
	initial := uint8(0)
	if p.twoBit {
		initial = 1 // WNT: weakly not-taken
	}
	for i := range p.table {
		p.table[i] = initial
	}
}

func (p *bimodalPredictor) Stats() BranchStats { return p.stats }

// saturatingUpdate advances a 2-bit saturating counter toward ST (3) on a
// taken outcome and toward SNT (0) on a not-taken outcome, clamped to
// [0,3]. States: 0=SNT, 1=WNT, 2=WT, 3=ST.
func saturatingUpdate(counter uint8, taken bool) uint8 {
	if taken {
		if counter < 3 {
			return counter + 1
		}
		return 3
	}
	if counter > 0 {
		return counter - 1
	}
	return 0
}

// gsharePredictor indexes a table of 2-bit saturating counters by
// (pc>>2 mod 2^k) XOR (global history mod 2^min(h,k)).
type gsharePredictor struct {
	table     []uint8
	indexBits uint
	histBits  uint
	mask      uint32
	ghr       uint32
	stats     BranchStats
}

func newGsharePredictor(k, h uint) *gsharePredictor {
	size := uint32(1) << k
	p := &gsharePredictor{table: make([]uint8, size), indexBits: k, histBits: h, mask: size - 1}
	p.Reset()
	return p
}

func (p *gsharePredictor) index(pc uint32) uint32 {
	histBits := p.histBits
	if histBits > p.indexBits {
		histBits = p.indexBits
	}
	histMask := uint32(1)<<histBits - 1
	return ((pc >> 2) & p.mask) ^ (p.ghr & histMask)
}

func (p *gsharePredictor) Predict(pc, target uint32) bool {
	return p.table[p.index(pc)] >= 2
}

func (p *gsharePredictor) Update(pc uint32, taken bool, target uint32) {
	recordOutcome(&p.stats, p.Predict(pc, target), taken)

	idx := p.index(pc)
	p.table[idx] = saturatingUpdate(p.table[idx], taken)

	p.ghr <<= 1
	if taken {
		p.ghr |= 1
	}
	p.ghr &= uint32(1)<<p.histBits - 1
}

func (p *gsharePredictor) Reset() {
	p.stats = BranchStats{}
	p.ghr = 0
	for i := range p.table {
		p.table[i] = 1
	}
}

func (p *gsharePredictor) Stats() BranchStats { return p.stats }

// localHistoryPredictor keeps a per-pc local-history shift register that
// indexes a shared pattern-history table of 2-bit saturating counters.
type localHistoryPredictor struct {
	localHistory []uint32
	localMask    uint32
	patternTable []uint8
	patternBits  uint
	patternMask  uint32
	stats        BranchStats
}

func newLocalHistoryPredictor(localBits, patternBits uint) *localHistoryPredictor {
	localSize := uint32(1) << localBits
	patternSize := uint32(1) << patternBits
	p := &localHistoryPredictor{
		localHistory: make([]uint32, localSize),
		localMask:    localSize - 1,
		patternTable: make([]uint8, patternSize),
		patternBits:  patternBits,
		patternMask:  patternSize - 1,
	}
	p.Reset()
	return p
}

func (p *localHistoryPredictor) localIndex(pc uint32) uint32 {
	return (pc >> 2) & p.localMask
}

func (p *localHistoryPredictor) patternIndex(localHist uint32) uint32 {
	return localHist & p.patternMask
}

func (p *localHistoryPredictor) Predict(pc, target uint32) bool {
	localHist := p.localHistory[p.localIndex(pc)]
	return p.patternTable[p.patternIndex(localHist)] >= 2
}

func (p *localHistoryPredictor) Update(pc uint32, taken bool, target uint32) {
	recordOutcome(&p.stats, p.Predict(pc, target), taken)

	lIdx := p.localIndex(pc)
	localHist := p.localHistory[lIdx]
	pIdx := p.patternIndex(localHist)
	p.patternTable[pIdx] = saturatingUpdate(p.patternTable[pIdx], taken)

	localHist <<= 1
	if taken {
		localHist |= 1
	}
	p.localHistory[lIdx] = localHist & (uint32(1)<<p.patternBits - 1)
}

func (p *localHistoryPredictor) Reset() {
	p.stats = BranchStats{}
	for i := range p.localHistory {
		p.localHistory[i] = 0
	}
	for i := range p.patternTable {
		p.patternTable[i] = 1
	}
}

func (p *localHistoryPredictor) Stats() BranchStats { return p.stats }

// tournamentPredictor composes, and exclusively owns, a gshare and a
// local-history predictor and picks between them with a chooser table of
// 2-bit saturating counters indexed by (pc>>2). The chooser picks global
// on a counter value >= 2, local otherwise.
type tournamentPredictor struct {
	global  *gsharePredictor
	local   *localHistoryPredictor
	chooser []uint8
	mask    uint32
	stats   BranchStats
}

func newTournamentPredictor(k, h uint) *tournamentPredictor {
	size := uint32(1) << k
	p := &tournamentPredictor{
		global:  newGsharePredictor(k, h),
		local:   newLocalHistoryPredictor(k, h),
		chooser: make([]uint8, size),
		mask:    size - 1,
	}
	p.Reset()
	return p
}

func (p *tournamentPredictor) chooserIndex(pc uint32) uint32 {
	return (pc >> 2) & p.mask
}

func (p *tournamentPredictor) useGlobal(pc uint32) bool {
	return p.chooser[p.chooserIndex(pc)] >= 2
}

func (p *tournamentPredictor) Predict(pc, target uint32) bool {
	if p.useGlobal(pc) {
		return p.global.Predict(pc, target)
	}
	return p.local.Predict(pc, target)
}

func (p *tournamentPredictor) Update(pc uint32, taken bool, target uint32) {
	recordOutcome(&p.stats, p.Predict(pc, target), taken)

	globalPredicted := p.global.Predict(pc, target)
	localPredicted := p.local.Predict(pc, target)

	// Always update both sub-predictors independently of which one was
	// consulted, so each keeps learning from every branch outcome.
	p.global.Update(pc, taken, target)
	p.local.Update(pc, taken, target)

	globalCorrect := globalPredicted == taken
	localCorrect := localPredicted == taken
	if globalCorrect == localCorrect {
		return // exactly one must be right to move the chooser
	}

	idx := p.chooserIndex(pc)
	if globalCorrect {
		p.chooser[idx] = saturatingUpdate(p.chooser[idx], true)
	} else {
		p.chooser[idx] = saturatingUpdate(p.chooser[idx], false)
	}
}

func (p *tournamentPredictor) Reset() {
	p.stats = BranchStats{}
	p.global.Reset()
	p.local.Reset()
	for i := range p.chooser {
		p.chooser[i] = 1
	}
}

func (p *tournamentPredictor) Stats() BranchStats { return p.stats }
