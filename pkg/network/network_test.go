package network

import (
	"bytes"
	"math/rand/v2"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fixtureNetwork(t *testing.T) *Network {
	t.Helper()
	l1, err := NewLevelFromWeights(
		[][]float64{{1, -1}, {0.5, 1}, {-1, 0.3}},
		[]float64{0.5, -0.1},
	)
	require.NoError(t, err)
	l2, err := NewLevelFromWeights(
		[][]float64{{0.4, -0.2, 1}, {1, 1, 1}},
		[]float64{0.4, -0.3, 0.9},
	)
	require.NoError(t, err)
	n, err := FromLevels(l1, l2)
	require.NoError(t, err)
	return n
}

func TestFeedForwardFixture(t *testing.T) {
	n := fixtureNetwork(t)

	out, err := n.FeedForward([]float64{0.5, 0.2, 0})
	require.NoError(t, err)
	// second level neuron 0 sums to exactly its bias and must stay off
	assert.Equal(t, []float64{0, 1, 1}, out)
	assert.Equal(t, []float64{1, 0}, n.Levels[0].Outputs)

	again, err := n.FeedForward([]float64{0.5, 0.2, 0})
	require.NoError(t, err)
	assert.Equal(t, out, again)
}

func TestLevelStrictThreshold(t *testing.T) {
	tests := []struct {
		name   string
		inputs []float64
		bias   float64
		want   float64
	}{
		{"zero sum zero bias", []float64{0}, 0, 0},
		{"sum above bias", []float64{0.5}, 0.25, 1},
		{"sum equals bias", []float64{0.5}, 0.5, 0},
		{"sum below negative bias", []float64{-1}, -0.5, 0},
		{"zero sum negative bias", []float64{0}, -0.01, 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			l, err := NewLevelFromWeights([][]float64{{1}}, []float64{tt.bias})
			require.NoError(t, err)
			out, err := l.FeedForward(tt.inputs)
			require.NoError(t, err)
			assert.Equal(t, []float64{tt.want}, out)
		})
	}
}

func TestFeedForwardShapeMismatch(t *testing.T) {
	n := fixtureNetwork(t)
	_, err := n.FeedForward([]float64{1, 2})
	assert.ErrorIs(t, err, ErrShapeMismatch)
}

func TestNewRandom(t *testing.T) {
	n, err := New(rand.New(rand.NewPCG(1, 2)), 5, 6, 4)
	require.NoError(t, err)
	assert.Equal(t, []int{5, 6, 4}, n.Topology())
	assert.Equal(t, 5, n.InputCount())
	assert.Equal(t, 4, n.OutputCount())
	require.NoError(t, n.Expect(5, 4))
	assert.ErrorIs(t, n.Expect(3, 4), ErrShapeMismatch)

	for _, l := range n.Levels {
		for _, row := range l.Weights {
			for _, w := range row {
				assert.GreaterOrEqual(t, w, -1.0)
				assert.LessOrEqual(t, w, 1.0)
			}
		}
		for _, b := range l.Biases {
			assert.GreaterOrEqual(t, b, -1.0)
			assert.LessOrEqual(t, b, 1.0)
		}
	}

	same, err := New(rand.New(rand.NewPCG(1, 2)), 5, 6, 4)
	require.NoError(t, err)
	assert.Equal(t, n.Fingerprint(), same.Fingerprint())

	other, err := New(rand.New(rand.NewPCG(3, 4)), 5, 6, 4)
	require.NoError(t, err)
	assert.NotEqual(t, n.Fingerprint(), other.Fingerprint())
}

func TestNewWithoutRandomSource(t *testing.T) {
	n, err := New(nil, 5, 6, 4)
	require.NoError(t, err)
	assert.Equal(t, []int{5, 6, 4}, n.Topology())
	for _, l := range n.Levels {
		for _, row := range l.Weights {
			for _, w := range row {
				assert.GreaterOrEqual(t, w, -1.0)
				assert.LessOrEqual(t, w, 1.0)
			}
		}
	}
	out, err := n.FeedForward([]float64{0, 0.5, 1, 0.5, 0})
	require.NoError(t, err)
	assert.Len(t, out, 4)

	l, err := NewLevel(3, 2, nil)
	require.NoError(t, err)
	assert.Equal(t, 3, l.InputCount())
}

func TestNewInvalidTopology(t *testing.T) {
	rng := rand.New(rand.NewPCG(1, 2))
	_, err := New(rng, 5)
	assert.ErrorIs(t, err, ErrEmptyTopology)
	_, err = New(rng, 5, 0)
	assert.ErrorIs(t, err, ErrShapeMismatch)
	_, err = FromLevels()
	assert.ErrorIs(t, err, ErrEmptyTopology)
}

func TestFromLevelsMismatch(t *testing.T) {
	l1, err := NewLevelFromWeights([][]float64{{1, 1}}, []float64{0, 0})
	require.NoError(t, err)
	l2, err := NewLevelFromWeights([][]float64{{1}, {1}, {1}}, []float64{0})
	require.NoError(t, err)
	_, err = FromLevels(l1, l2)
	assert.ErrorIs(t, err, ErrShapeMismatch)
}

func TestNewLevelFromWeightsRagged(t *testing.T) {
	_, err := NewLevelFromWeights([][]float64{{1, 2}, {3}}, []float64{0, 0})
	assert.ErrorIs(t, err, ErrShapeMismatch)
	_, err = NewLevelFromWeights(nil, []float64{0})
	assert.ErrorIs(t, err, ErrShapeMismatch)
}

func TestCloneIsIndependent(t *testing.T) {
	n := fixtureNetwork(t)
	c := n.Clone()
	assert.Equal(t, n.Fingerprint(), c.Fingerprint())

	c.Levels[0].Weights[0][0] = 42
	assert.Equal(t, 1.0, n.Levels[0].Weights[0][0])
	assert.NotEqual(t, n.Fingerprint(), c.Fingerprint())
}

func TestFingerprintIgnoresScratch(t *testing.T) {
	n := fixtureNetwork(t)
	before := n.Fingerprint()
	_, err := n.FeedForward([]float64{1, 1, 1})
	require.NoError(t, err)
	assert.Equal(t, before, n.Fingerprint())
}

func TestSaveLoad(t *testing.T) {
	n, err := New(rand.New(rand.NewPCG(7, 8)), 5, 6, 4)
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, Save(&buf, n))
	loaded, err := Load(&buf)
	require.NoError(t, err)
	assert.Equal(t, n.Fingerprint(), loaded.Fingerprint())

	path := filepath.Join(t.TempDir(), "brain.json")
	require.NoError(t, SaveFile(path, n))
	fromFile, err := LoadFile(path)
	require.NoError(t, err)
	assert.Equal(t, n.Fingerprint(), fromFile.Fingerprint())
}

func TestLoadRejectsInvalid(t *testing.T) {
	tests := []struct {
		name     string
		body     string
		shapeErr bool
	}{
		{"not json", `{levels`, false},
		{"no levels", `{"levels": []}`, false},
		{"missing biases", `{"levels": [{"weights": [[1]]}]}`, false},
		{"string weight", `{"levels": [{"weights": [["x"]], "biases": [0]}]}`, false},
		{"ragged", `{"levels": [{"weights": [[1, 2], [1]], "biases": [0, 0]}]}`, true},
		{"chain", `{"levels": [
			{"weights": [[1, 2]], "biases": [0, 0]},
			{"weights": [[1]], "biases": [0]}
		]}`, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(strings.NewReader(tt.body))
			require.Error(t, err)
			if tt.shapeErr {
				assert.ErrorIs(t, err, ErrShapeMismatch)
			}
		})
	}
}

func BenchmarkFeedForward(b *testing.B) {
	n, err := New(rand.New(rand.NewPCG(1, 2)), 5, 6, 4)
	if err != nil {
		b.Fatal(err)
	}
	inputs := []float64{0.1, 0, 0.7, 0.3, 0}
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_, _ = n.FeedForward(inputs)
	}
}
