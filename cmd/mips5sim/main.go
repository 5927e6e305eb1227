// Command mips5sim runs a MIPS-I program image under the timing-accurate
// pipeline simulator (or, with --pipeline=false, the direct interpreter).
package main

import (
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/sarchlab/mips5sim/insts"
	"github.com/sarchlab/mips5sim/loader"
	"github.com/sarchlab/mips5sim/timing/core"
	"github.com/sarchlab/mips5sim/timing/pipeline"
)

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

func run(args []string, stdout, stderr io.Writer) int {
	fs := flag.NewFlagSet("mips5sim", flag.ContinueOnError)
	fs.SetOutput(stderr)

	step := fs.Bool("step", false, "single-step and print a trace line per cycle/instruction")
	pipelined := fs.Bool("pipeline", true, "run under the timing-accurate pipeline (false: direct interpreter)")
	branchPred := fs.Bool("branch-pred", true, "enable branch prediction (pipelined mode only)")
	predType := fs.String("pred-type", "2bit", "predictor: static|1bit|2bit|gshare|local|tournament")
	maxCycles := fs.Uint64("max-cycles", core.DefaultSafetyCap, "safety cap on cycles/instructions run")

	if err := fs.Parse(args); err != nil {
		return 1
	}
	if fs.NArg() < 1 {
		fmt.Fprintln(stderr, "usage: mips5sim [flags] <program-image>")
		fs.PrintDefaults()
		return 1
	}

	f, err := os.Open(fs.Arg(0))
	if err != nil {
		fmt.Fprintf(stderr, "mips5sim: %v\n", err)
		return 1
	}
	defer f.Close()

	words, err := loader.LoadImage(f)
	if err != nil {
		fmt.Fprintf(stderr, "mips5sim: %v\n", err)
		return 1
	}

	predictor := choosePredictor(*predType, *branchPred)

	c := core.NewCore(
		core.WithBranchPredictor(predictor),
	)
	if !*pipelined {
		c.EnablePipeline(false)
	}
	if err := c.Load(words); err != nil {
		fmt.Fprintf(stderr, "mips5sim: %v\n", err)
		return 1
	}

	if *step {
		runStepped(c, stdout, *maxCycles)
	} else {
		res := c.Run(*maxCycles)
		if res.SafetyCapped {
			fmt.Fprintf(stderr, "mips5sim: safety cap of %d reached without halting\n", *maxCycles)
		}
	}

	printSummary(c, stdout)
	return 0
}

func choosePredictor(kind string, enabled bool) pipeline.BranchPredictor {
	if !enabled {
		return pipeline.NewBranchPredictor(pipeline.PredictorStaticNT, 0, 0)
	}
	switch kind {
	case "static":
		return pipeline.NewBranchPredictor(pipeline.PredictorStaticT, 0, 0)
	case "1bit":
		return pipeline.NewBranchPredictor(pipeline.PredictorBimodal1Bit, 10, 0)
	case "2bit":
		return pipeline.NewBranchPredictor(pipeline.PredictorBimodal2Bit, 10, 0)
	case "gshare":
		return pipeline.NewBranchPredictor(pipeline.PredictorGshare, 10, 10)
	case "local":
		return pipeline.NewBranchPredictor(pipeline.PredictorLocalHistory, 10, 10)
	case "tournament":
		return pipeline.NewBranchPredictor(pipeline.PredictorTournament, 10, 10)
	default:
		return pipeline.NewBranchPredictor(pipeline.PredictorBimodal2Bit, 10, 0)
	}
}

func runStepped(c *core.Core, stdout io.Writer, maxCycles uint64) {
	for i := uint64(0); i < maxCycles; i++ {
		pc := c.PC()
		word := c.Memory().ReadWord(pc)
		fmt.Fprintf(stdout, "%08x: %s\n", pc, insts.Disassemble(word, pc))

		res := c.Step()
		if res.Halted {
			return
		}
	}
}

func printSummary(c *core.Core, stdout io.Writer) {
	stats := c.Stats()
	fmt.Fprintf(stdout, "cycles=%d instructions=%d cpi=%.2f\n",
		stats.Cycles, stats.InstructionsRetired, stats.CPI())
	if c.PipelineEnabled() {
		fmt.Fprintf(stdout, "stalls=%d flushes=%d branch-accuracy=%.2f\n",
			stats.StallsInserted, stats.FlushesPerformed, stats.BranchAccuracy())
	}
}
