// Package network is an inference-only feed-forward network with
// hard-threshold neurons, used to turn sensor readings into controls.
package network

import (
	"encoding/binary"
	"errors"
	"fmt"
	"math"
	"math/rand/v2"
	"slices"

	"github.com/cespare/xxhash/v2"
)

var (
	// ErrShapeMismatch is returned when vector or matrix sizes disagree.
	ErrShapeMismatch = errors.New("shape mismatch")
	// ErrEmptyTopology is returned for networks without any level.
	ErrEmptyTopology = errors.New("network needs at least one level")
)

// Level maps one layer of neurons to the next.
// Weights is indexed [input][output]. Inputs and Outputs are scratch space
// overwritten by every FeedForward call.
type Level struct {
	Inputs  []float64
	Outputs []float64
	Weights [][]float64
	Biases  []float64
}

// NewLevel creates a level with weights and biases drawn uniformly from [-1, 1].
// A nil rng draws from a randomly seeded source.
func NewLevel(inputCount, outputCount int, rng *rand.Rand) (*Level, error) {
	rng = orRandom(rng)
	if inputCount < 1 || outputCount < 1 {
		return nil, fmt.Errorf("%w: level %dx%d", ErrShapeMismatch, inputCount, outputCount)
	}
	weights := make([][]float64, inputCount)
	for i := range weights {
		weights[i] = make([]float64, outputCount)
		for j := range weights[i] {
			weights[i][j] = uniform(rng)
		}
	}
	biases := make([]float64, outputCount)
	for j := range biases {
		biases[j] = uniform(rng)
	}
	return newLevel(weights, biases), nil
}

// NewLevelFromWeights creates a level from externally supplied values.
// The slices are copied.
func NewLevelFromWeights(weights [][]float64, biases []float64) (*Level, error) {
	if len(weights) == 0 || len(biases) == 0 {
		return nil, fmt.Errorf("%w: empty weights or biases", ErrShapeMismatch)
	}
	copied := make([][]float64, len(weights))
	for i, row := range weights {
		if len(row) != len(biases) {
			return nil, fmt.Errorf("%w: weights row %d has %d columns, want %d",
				ErrShapeMismatch, i, len(row), len(biases))
		}
		copied[i] = slices.Clone(row)
	}
	return newLevel(copied, slices.Clone(biases)), nil
}

func newLevel(weights [][]float64, biases []float64) *Level {
	return &Level{
		Inputs:  make([]float64, len(weights)),
		Outputs: make([]float64, len(biases)),
		Weights: weights,
		Biases:  biases,
	}
}

func orRandom(rng *rand.Rand) *rand.Rand {
	if rng != nil {
		return rng
	}
	return rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
}

func uniform(rng *rand.Rand) float64 {
	return rng.Float64()*2 - 1
}

// InputCount is the number of inputs the level expects.
func (l *Level) InputCount() int { return len(l.Inputs) }

// OutputCount is the number of neurons of the level.
func (l *Level) OutputCount() int { return len(l.Outputs) }

// FeedForward computes the level outputs. A neuron fires (1) only when its
// weighted sum is strictly greater than its bias. The returned slice is the
// level's scratch Outputs.
func (l *Level) FeedForward(inputs []float64) ([]float64, error) {
	if len(inputs) != len(l.Inputs) {
		return nil, fmt.Errorf("%w: got %d inputs, level expects %d",
			ErrShapeMismatch, len(inputs), len(l.Inputs))
	}
	copy(l.Inputs, inputs)

	for j := range l.Outputs {
		sum := 0.0
		for i, in := range l.Inputs {
			sum += in * l.Weights[i][j]
		}
		if sum > l.Biases[j] {
			l.Outputs[j] = 1
		} else {
			l.Outputs[j] = 0
		}
	}
	return l.Outputs, nil
}

// Network is an ordered chain of levels. The topology is fixed once built.
type Network struct {
	Levels []*Level
}

// New builds a random network from neuron counts, e.g. New(rng, 5, 6, 4)
// creates a 5->6 level followed by a 6->4 level. A nil rng draws from a
// randomly seeded source, so the result is not reproducible.
func New(rng *rand.Rand, neuronCounts ...int) (*Network, error) {
	if len(neuronCounts) < 2 {
		return nil, fmt.Errorf("%w: got neuron counts %v", ErrEmptyTopology, neuronCounts)
	}
	rng = orRandom(rng)
	levels := make([]*Level, 0, len(neuronCounts)-1)
	for i := 0; i < len(neuronCounts)-1; i++ {
		l, err := NewLevel(neuronCounts[i], neuronCounts[i+1], rng)
		if err != nil {
			return nil, err
		}
		levels = append(levels, l)
	}
	return &Network{Levels: levels}, nil
}

// FromLevels chains existing levels, checking each output count matches
// the next input count.
func FromLevels(levels ...*Level) (*Network, error) {
	if len(levels) == 0 {
		return nil, ErrEmptyTopology
	}
	for i := 1; i < len(levels); i++ {
		if levels[i-1].OutputCount() != levels[i].InputCount() {
			return nil, fmt.Errorf("%w: level %d outputs %d, level %d expects %d",
				ErrShapeMismatch, i-1, levels[i-1].OutputCount(), i, levels[i].InputCount())
		}
	}
	return &Network{Levels: levels}, nil
}

// FeedForward runs every level in order and returns a copy of the final outputs.
func (n *Network) FeedForward(inputs []float64) ([]float64, error) {
	outputs := inputs
	for i, l := range n.Levels {
		var err error
		outputs, err = l.FeedForward(outputs)
		if err != nil {
			return nil, fmt.Errorf("level %d: %w", i, err)
		}
	}
	return slices.Clone(outputs), nil
}

// Topology returns the neuron counts, inputs first.
func (n *Network) Topology() []int {
	if len(n.Levels) == 0 {
		return nil
	}
	t := []int{n.Levels[0].InputCount()}
	for _, l := range n.Levels {
		t = append(t, l.OutputCount())
	}
	return t
}

// InputCount is the size of the vector FeedForward expects.
func (n *Network) InputCount() int { return n.Levels[0].InputCount() }

// OutputCount is the size of the vector FeedForward returns.
func (n *Network) OutputCount() int { return n.Levels[len(n.Levels)-1].OutputCount() }

// Expect checks the network has the given input and output sizes.
func (n *Network) Expect(inputs, outputs int) error {
	if n.InputCount() != inputs || n.OutputCount() != outputs {
		return fmt.Errorf("%w: network is %v, want %d inputs and %d outputs",
			ErrShapeMismatch, n.Topology(), inputs, outputs)
	}
	return nil
}

// Clone deep-copies the network so each agent owns its scratch state.
func (n *Network) Clone() *Network {
	levels := make([]*Level, len(n.Levels))
	for i, l := range n.Levels {
		weights := make([][]float64, len(l.Weights))
		for r, row := range l.Weights {
			weights[r] = slices.Clone(row)
		}
		levels[i] = newLevel(weights, slices.Clone(l.Biases))
	}
	return &Network{Levels: levels}
}

// Fingerprint is a stable hash of topology, weights and biases.
// Scratch inputs and outputs do not contribute.
func (n *Network) Fingerprint() uint64 {
	d := xxhash.New()
	var buf [8]byte
	put := func(v uint64) {
		binary.LittleEndian.PutUint64(buf[:], v)
		_, _ = d.Write(buf[:])
	}
	for _, c := range n.Topology() {
		put(uint64(c))
	}
	for _, l := range n.Levels {
		for _, row := range l.Weights {
			for _, w := range row {
				put(math.Float64bits(w))
			}
		}
		for _, b := range l.Biases {
			put(math.Float64bits(b))
		}
	}
	return d.Sum64()
}
