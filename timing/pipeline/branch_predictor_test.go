package pipeline_test

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/sarchlab/mips5sim/timing/pipeline"
)

var _ = Describe("StaticNT predictor", func() {
	It("always predicts not-taken", func() {
		p := pipeline.NewBranchPredictor(pipeline.PredictorStaticNT, 0, 0)
		Expect(p.Predict(0x1000, 0x2000)).To(BeFalse())
		p.Update(0x1000, true, 0x2000)
		Expect(p.Stats().Total).To(Equal(uint64(1)))
		Expect(p.Stats().Correct).To(Equal(uint64(0)))
	})
})

var _ = Describe("StaticT predictor", func() {
	It("always predicts taken", func() {
		p := pipeline.NewBranchPredictor(pipeline.PredictorStaticT, 0, 0)
		Expect(p.Predict(0x1000, 0x2000)).To(BeTrue())
	})
})

var _ = Describe("BTFN predictor", func() {
	var p pipeline.BranchPredictor

	BeforeEach(func() {
		p = pipeline.NewBranchPredictor(pipeline.PredictorBTFN, 0, 0)
	})

	It("predicts taken for a backward branch", func() {
		Expect(p.Predict(0x2000, 0x1000)).To(BeTrue())
	})

	It("predicts not-taken for a forward branch", func() {
		Expect(p.Predict(0x1000, 0x2000)).To(BeFalse())
	})
})

var _ = Describe("Bimodal 1-bit predictor", func() {
	It("tracks the last outcome per pc (S4 scenario)", func() {
		p := pipeline.NewBranchPredictor(pipeline.PredictorBimodal1Bit, 4, 0)
		Expect(p.Predict(0x40, 0x80)).To(BeFalse())

		p.Update(0x40, true, 0x80)
		Expect(p.Predict(0x40, 0x80)).To(BeTrue())

		p.Update(0x40, false, 0x80)
		Expect(p.Predict(0x40, 0x80)).To(BeFalse())
	})
})

var _ = Describe("Bimodal 2-bit predictor", func() {
	var p pipeline.BranchPredictor

	BeforeEach(func() {
		p = pipeline.NewBranchPredictor(pipeline.PredictorBimodal2Bit, 4, 0)
	})

	It("starts weakly-not-taken and flips to taken after one taken outcome (S4 scenario)", func() {
		Expect(p.Predict(0x40, 0x80)).To(BeFalse())

		p.Update(0x40, true, 0x80)
		Expect(p.Predict(0x40, 0x80)).To(BeTrue(), "one taken outcome moves WNT to WT, which predicts taken")

		p.Update(0x40, true, 0x80)
		Expect(p.Predict(0x40, 0x80)).To(BeTrue(), "a second taken outcome should saturate toward taken")
	})

	It("does not flip on a single not-taken outcome once strongly taken", func() {
		p.Update(0x40, true, 0x80)
		p.Update(0x40, true, 0x80)
		p.Update(0x40, true, 0x80)
		Expect(p.Predict(0x40, 0x80)).To(BeTrue())

		p.Update(0x40, false, 0x80)
		Expect(p.Predict(0x40, 0x80)).To(BeTrue(), "ST should only decay to WT after one not-taken outcome")
	})

	It("keeps separate counters per pc", func() {
		p.Update(0x40, true, 0x80)
		p.Update(0x40, true, 0x80)
		Expect(p.Predict(0x40, 0x80)).To(BeTrue())
		Expect(p.Predict(0x44, 0x80)).To(BeFalse())
	})
})

var _ = Describe("Gshare predictor", func() {
	It("folds global history into the index and learns an alternating pattern", func() {
		p := pipeline.NewBranchPredictor(pipeline.PredictorGshare, 6, 2)
		for i := 0; i < 20; i++ {
			taken := i%2 == 0
			p.Predict(0x1000, 0x2000)
			p.Update(0x1000, taken, 0x2000)
		}
		Expect(p.Stats().Total).To(Equal(uint64(20)))
		// Two cold misses while the history fills, then every outcome is predicted.
		Expect(p.Stats().Mispredicted).To(Equal(uint64(2)))
	})
})

var _ = Describe("Local-history predictor", func() {
	It("learns a per-pc repeating pattern", func() {
		p := pipeline.NewBranchPredictor(pipeline.PredictorLocalHistory, 6, 4)
		for i := 0; i < 30; i++ {
			taken := i%3 != 0
			p.Update(0x2000, taken, 0x3000)
		}
		Expect(p.Stats().Total).To(Equal(uint64(30)))
		Expect(p.Stats().Accuracy()).To(BeNumerically(">", 0.5))
	})
})

var _ = Describe("Tournament predictor", func() {
	It("tracks total outcomes across both sub-predictors", func() {
		p := pipeline.NewBranchPredictor(pipeline.PredictorTournament, 6, 4)
		for i := 0; i < 10; i++ {
			p.Update(0x3000, i%2 == 0, 0x4000)
		}
		Expect(p.Stats().Total).To(Equal(uint64(10)))
	})

	It("resets chooser, global, and local state together", func() {
		p := pipeline.NewBranchPredictor(pipeline.PredictorTournament, 6, 4)
		p.Update(0x3000, true, 0x4000)
		p.Reset()
		Expect(p.Stats().Total).To(Equal(uint64(0)))
	})
})

var _ = Describe("BranchStats", func() {
	It("reports zero accuracy with no observations", func() {
		var s pipeline.BranchStats
		Expect(s.Accuracy()).To(Equal(0.0))
	})

	It("computes accuracy as correct/total", func() {
		s := pipeline.BranchStats{Total: 4, Correct: 3}
		Expect(s.Accuracy()).To(Equal(0.75))
	})
})
