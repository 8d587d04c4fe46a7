package main

import (
	"math"
	"sync"

	"gonum.org/v1/gonum/stat"

	"github.com/pthm-cable/fieldsim/cloth"
	"github.com/pthm-cable/fieldsim/compute"
	"github.com/pthm-cable/fieldsim/config"
)

const (
	// Strain above this fraction of the rest length is penalized
	stretchTolerance = 0.05
	stretchWeight    = 100.0

	// Fitness of a run that blew up
	unstablePenalty = 1e9
)

// Scenario is one headless cloth run evaluated per parameter vector.
type Scenario struct {
	Name string
	Wind bool
}

// DefaultScenarios evaluates the sheet hanging still and in the wind.
func DefaultScenarios() []Scenario {
	return []Scenario{
		{Name: "still", Wind: false},
		{Name: "wind", Wind: true},
	}
}

// RunResult summarizes one scenario run.
type RunResult struct {
	TailEnergy float64 // mean kinetic energy per node over the last quarter of frames
	MaxStretch float64 // largest edge strain seen during the run
	Unstable   bool    // positions or energy went non-finite
}

// Fitness scores r; lower is better.
func (r RunResult) Fitness() float64 {
	if r.Unstable {
		return unstablePenalty
	}
	return r.TailEnergy + stretchWeight*math.Max(0, r.MaxStretch-stretchTolerance)
}

// FitnessEvaluator runs headless cloth simulations and computes fitness.
type FitnessEvaluator struct {
	params     *ParamVector
	frames     int
	scenarios  []Scenario
	baseConfig *config.Config

	mu         sync.Mutex
	lastResult []RunResult
}

// NewFitnessEvaluator creates a new evaluator.
func NewFitnessEvaluator(params *ParamVector, frames int, scenarios []Scenario, baseCfg *config.Config) *FitnessEvaluator {
	return &FitnessEvaluator{
		params:     params,
		frames:     frames,
		scenarios:  scenarios,
		baseConfig: baseCfg,
	}
}

// LastResults returns the per-scenario results of the most recent evaluation.
func (fe *FitnessEvaluator) LastResults() []RunResult {
	fe.mu.Lock()
	defer fe.mu.Unlock()
	return fe.lastResult
}

// Evaluate computes the mean fitness of x over all scenarios (lower = better).
func (fe *FitnessEvaluator) Evaluate(x []float64) float64 {
	results := make([]RunResult, len(fe.scenarios))
	var wg sync.WaitGroup

	for i, sc := range fe.scenarios {
		wg.Add(1)
		go func(idx int, sc Scenario) {
			defer wg.Done()
			cfg := fe.copyConfig()
			fe.params.ApplyToConfig(cfg, x)
			cfg.Cloth.Wind = sc.Wind
			results[idx] = RunScenario(cfg, fe.frames)
		}(i, sc)
	}
	wg.Wait()

	var total float64
	for _, r := range results {
		total += r.Fitness()
	}

	fe.mu.Lock()
	fe.lastResult = results
	fe.mu.Unlock()

	return total / float64(len(results))
}

// copyConfig returns an independent copy of the base config.
func (fe *FitnessEvaluator) copyConfig() *config.Config {
	cfg := *fe.baseConfig
	cfg.ComputeDerived()
	return &cfg
}

// RunScenario simulates the cloth described by cfg for the given number of frames.
func RunScenario(cfg *config.Config, frames int) RunResult {
	pool := compute.NewPool(1)
	defer pool.Stop()

	c := cloth.New(cfg, pool)
	rest := cfg.Derived.RestLength
	tail := frames - frames/4

	var result RunResult
	energies := make([]float64, 0, frames-tail)

	for f := 0; f < frames; f++ {
		c.Step()

		strain := MaxStrain(c, rest)
		if math.IsNaN(strain) || math.IsInf(strain, 0) {
			result.Unstable = true
			return result
		}
		result.MaxStretch = math.Max(result.MaxStretch, strain)

		if f >= tail {
			energies = append(energies, c.KineticEnergy()/float64(c.Len()))
		}
	}

	if len(energies) > 0 {
		result.TailEnergy = stat.Mean(energies, nil)
	}
	if math.IsNaN(result.TailEnergy) || math.IsInf(result.TailEnergy, 0) {
		result.Unstable = true
	}
	return result
}

// MaxStrain returns the largest |length/rest - 1| over the cloth's edges.
func MaxStrain(c *cloth.Cloth, rest float64) float64 {
	if rest <= 0 {
		return 0
	}
	pos := c.Current().Position
	edges := c.Edges()

	var worst float64
	for k := 0; k+1 < len(edges); k += 2 {
		a, b := 4*int(edges[k]), 4*int(edges[k+1])
		dx := float64(pos[a] - pos[b])
		dy := float64(pos[a+1] - pos[b+1])
		dz := float64(pos[a+2] - pos[b+2])
		strain := math.Abs(math.Sqrt(dx*dx+dy*dy+dz*dz)/rest - 1)
		if strain > worst || math.IsNaN(strain) {
			worst = strain
		}
	}
	return worst
}
