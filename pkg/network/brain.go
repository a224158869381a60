package network

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/santhosh-tekuri/jsonschema/v5"
)

// brainSchema describes the persisted weights. Shape consistency between
// levels is checked after decoding since JSON schema cannot express it.
const brainSchema = `{
  "$schema": "https://json-schema.org/draft/2020-12/schema",
  "type": "object",
  "required": ["levels"],
  "properties": {
    "levels": {
      "type": "array",
      "minItems": 1,
      "items": {
        "type": "object",
        "required": ["weights", "biases"],
        "properties": {
          "weights": {
            "type": "array",
            "minItems": 1,
            "items": {"type": "array", "minItems": 1, "items": {"type": "number"}}
          },
          "biases": {"type": "array", "minItems": 1, "items": {"type": "number"}}
        }
      }
    }
  }
}`

var brainValidator = jsonschema.MustCompileString("brain.schema.json", brainSchema)

type brainFile struct {
	Levels []brainLevel `json:"levels"`
}

type brainLevel struct {
	Weights [][]float64 `json:"weights"`
	Biases  []float64   `json:"biases"`
}

// Save writes the network weights and biases as JSON.
func Save(w io.Writer, n *Network) error {
	f := brainFile{Levels: make([]brainLevel, len(n.Levels))}
	for i, l := range n.Levels {
		f.Levels[i] = brainLevel{Weights: l.Weights, Biases: l.Biases}
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(f); err != nil {
		return fmt.Errorf("failed to encode brain: %w", err)
	}
	return nil
}

// Load reads a network written by Save, validating it against the brain schema.
func Load(r io.Reader) (*Network, error) {
	b, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("failed to read brain: %w", err)
	}

	var v interface{}
	if err := json.Unmarshal(b, &v); err != nil {
		return nil, fmt.Errorf("failed to decode brain json: %w", err)
	}
	if err := brainValidator.Validate(v); err != nil {
		return nil, fmt.Errorf("brain validation failed: %w", err)
	}

	var f brainFile
	if err := json.Unmarshal(b, &f); err != nil {
		return nil, fmt.Errorf("failed to unmarshal brain: %w", err)
	}
	levels := make([]*Level, len(f.Levels))
	for i, bl := range f.Levels {
		l, err := NewLevelFromWeights(bl.Weights, bl.Biases)
		if err != nil {
			return nil, fmt.Errorf("brain level %d: %w", i, err)
		}
		levels[i] = l
	}
	return FromLevels(levels...)
}

// SaveFile writes the network to path.
func SaveFile(path string, n *Network) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create brain file: %w", err)
	}
	if err := Save(f, n); err != nil {
		_ = f.Close()
		return err
	}
	return f.Close()
}

// LoadFile reads a network from path.
func LoadFile(path string) (*Network, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open brain file: %w", err)
	}
	defer f.Close()
	return Load(f)
}
