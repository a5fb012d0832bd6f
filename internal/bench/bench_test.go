package bench

import (
	"bytes"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/dekarrin/quicksc/internal/determinize"
	"github.com/dekarrin/quicksc/internal/gen"
	"github.com/dekarrin/quicksc/internal/results"
)

func testSolver(seed int64) *Solver {
	alphabet := gen.Alphabet(5)
	opts := gen.NFAOptions{
		Size:                 20,
		Structure:            gen.StructureStratified,
		EpsilonProbability:   0.2,
		FinalProbability:     0.1,
		TransitionPercentage: 0.3,
		MaxDistance:          5,
	}
	g := gen.NewNFAGenerator(alphabet, opts, rand.New(rand.NewSource(seed)))

	algorithms := []determinize.Algorithm{
		determinize.NewSubsetConstruction(),
		determinize.NewQuickSubsetConstruction(),
	}
	collector := results.NewCollector(algorithms, opts.Size)

	return NewSolver(g, algorithms, collector)
}

func Test_Solver_SolveSeries(t *testing.T) {
	assert := assert.New(t)

	sv := testSolver(63)

	err := sv.SolveSeries(10, nil)

	if !assert.NoError(err) {
		return
	}
	assert.Equal(10, sv.Collector().Len())
}

func Test_Solver_SolveSeries_solutionsAgree(t *testing.T) {
	assert := assert.New(t)

	sv := testSolver(1017)

	err := sv.SolveSeries(20, nil)

	if !assert.NoError(err) {
		return
	}
	assert.Equal(1.0, sv.Collector().SuccessPercentage("qsc"))
}

func Test_Solver_SolveSeries_printsProgress(t *testing.T) {
	assert := assert.New(t)

	sv := testSolver(2)

	var buf bytes.Buffer
	err := sv.SolveSeries(3, &buf)

	if !assert.NoError(err) {
		return
	}
	assert.Contains(buf.String(), "Solving 3 problems...")
	assert.Contains(buf.String(), "100 %")
}
