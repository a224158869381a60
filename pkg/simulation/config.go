package simulation

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/lao-tseu-is-alive/go-selfdriving-simulation/pkg/kinematics"
	"github.com/lao-tseu-is-alive/go-selfdriving-simulation/pkg/sensor"
	"github.com/santhosh-tekuri/jsonschema/v5"
	"gopkg.in/yaml.v3"
)

var ErrInvalidConfig = errors.New("invalid config")

type RoadConfig struct {
	CenterX   float64 `json:"centerX" yaml:"centerX"`
	Width     float64 `json:"width" yaml:"width"`
	LaneCount int     `json:"laneCount" yaml:"laneCount"`
}

type CarConfig struct {
	Width  float64 `json:"width" yaml:"width"`
	Height float64 `json:"height" yaml:"height"`
}

// TrafficCar places one scripted car. Lane is clamped to the road.
type TrafficCar struct {
	Lane int     `json:"lane" yaml:"lane"`
	Y    float64 `json:"y" yaml:"y"`
}

type Config struct {
	// Viewer window
	WindowWidth  int `json:"windowWidth" yaml:"windowWidth"`
	WindowHeight int `json:"windowHeight" yaml:"windowHeight"`

	Road RoadConfig `json:"road" yaml:"road"`
	Car  CarConfig  `json:"car" yaml:"car"`

	// Physics applies to pilots. Traffic uses the same values except MaxSpeed.
	Physics         kinematics.Params `json:"physics" yaml:"physics"`
	TrafficMaxSpeed float64           `json:"trafficMaxSpeed" yaml:"trafficMaxSpeed"`

	Sensor sensor.Config `json:"sensor" yaml:"sensor"`
	// Hidden layer sizes between the sensor inputs and the 4 controls.
	HiddenLayers []int `json:"hiddenLayers" yaml:"hiddenLayers"`

	// Population
	Pilots    int          `json:"pilots" yaml:"pilots"`
	PilotLane int          `json:"pilotLane" yaml:"pilotLane"`
	StartY    float64      `json:"startY" yaml:"startY"`
	Traffic   []TrafficCar `json:"traffic" yaml:"traffic"`
	// Manual drives the first pilot from the keyboard instead of a brain.
	Manual bool `json:"manual" yaml:"manual"`

	// Seed for the random brains. Runs with the same seed are identical.
	Seed uint64 `json:"seed" yaml:"seed"`
	// BrainFile, when set, seeds every pilot with a saved network.
	BrainFile string `json:"brainFile,omitempty" yaml:"brainFile,omitempty"`

	Workers        int `json:"workers" yaml:"workers"`
	TicksPerSecond int `json:"ticksPerSecond" yaml:"ticksPerSecond"`
}

func DefaultConfig() *Config {
	return &Config{
		WindowWidth:  400,
		WindowHeight: 800,
		Road: RoadConfig{
			CenterX:   200,
			Width:     300,
			LaneCount: 3,
		},
		Car: CarConfig{
			Width:  30,
			Height: 50,
		},
		Physics:         kinematics.DefaultParams(),
		TrafficMaxSpeed: 2,
		Sensor:          sensor.DefaultConfig(),
		HiddenLayers:    []int{6},
		Pilots:          1,
		PilotLane:       1,
		StartY:          100,
		Traffic: []TrafficCar{
			{Lane: 1, Y: -100},
			{Lane: 0, Y: -300},
			{Lane: 2, Y: -300},
			{Lane: 0, Y: -500},
			{Lane: 1, Y: -500},
			{Lane: 1, Y: -700},
			{Lane: 2, Y: -700},
		},
		Seed:           1,
		Workers:        1,
		TicksPerSecond: 60,
	}
}

// Topology is the neuron counts of a pilot brain.
func (c *Config) Topology() []int {
	t := []int{c.Sensor.RayCount}
	t = append(t, c.HiddenLayers...)
	return append(t, ControlCount)
}

// Validate checks the values a schema cannot express.
func (c *Config) Validate() error {
	switch {
	case c.Road.Width <= 0 || c.Road.LaneCount < 1:
		return fmt.Errorf("%w: road %+v", ErrInvalidConfig, c.Road)
	case c.Car.Width <= 0 || c.Car.Height <= 0:
		return fmt.Errorf("%w: car %+v", ErrInvalidConfig, c.Car)
	case c.Car.Width >= c.Road.Width/float64(c.Road.LaneCount):
		return fmt.Errorf("%w: car width %v does not fit a lane", ErrInvalidConfig, c.Car.Width)
	case c.Pilots < 0:
		return fmt.Errorf("%w: pilots %d", ErrInvalidConfig, c.Pilots)
	case c.TrafficMaxSpeed <= 0:
		return fmt.Errorf("%w: trafficMaxSpeed %v", ErrInvalidConfig, c.TrafficMaxSpeed)
	case c.Workers < 0 || c.TicksPerSecond < 1:
		return fmt.Errorf("%w: workers %d ticksPerSecond %d", ErrInvalidConfig, c.Workers, c.TicksPerSecond)
	}
	for _, n := range c.HiddenLayers {
		if n < 1 {
			return fmt.Errorf("%w: hidden layer size %d", ErrInvalidConfig, n)
		}
	}
	if err := c.Physics.Validate(); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}
	if err := c.Sensor.Validate(); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}
	return nil
}

const configSchema = `{
  "$schema": "https://json-schema.org/draft/2020-12/schema",
  "type": "object",
  "additionalProperties": false,
  "properties": {
    "windowWidth": {"type": "integer", "minimum": 1},
    "windowHeight": {"type": "integer", "minimum": 1},
    "road": {
      "type": "object",
      "additionalProperties": false,
      "properties": {
        "centerX": {"type": "number"},
        "width": {"type": "number", "exclusiveMinimum": 0},
        "laneCount": {"type": "integer", "minimum": 1}
      }
    },
    "car": {
      "type": "object",
      "additionalProperties": false,
      "properties": {
        "width": {"type": "number", "exclusiveMinimum": 0},
        "height": {"type": "number", "exclusiveMinimum": 0}
      }
    },
    "physics": {
      "type": "object",
      "additionalProperties": false,
      "properties": {
        "acceleration": {"type": "number", "exclusiveMinimum": 0},
        "maxSpeed": {"type": "number", "exclusiveMinimum": 0},
        "friction": {"type": "number", "minimum": 0},
        "steerRate": {"type": "number", "minimum": 0}
      }
    },
    "trafficMaxSpeed": {"type": "number", "exclusiveMinimum": 0},
    "sensor": {
      "type": "object",
      "additionalProperties": false,
      "properties": {
        "rayCount": {"type": "integer", "minimum": 1},
        "rayLength": {"type": "number", "exclusiveMinimum": 0},
        "raySpread": {"type": "number", "minimum": 0}
      }
    },
    "hiddenLayers": {"type": "array", "items": {"type": "integer", "minimum": 1}},
    "pilots": {"type": "integer", "minimum": 0},
    "pilotLane": {"type": "integer"},
    "startY": {"type": "number"},
    "traffic": {
      "type": "array",
      "items": {
        "type": "object",
        "required": ["lane", "y"],
        "additionalProperties": false,
        "properties": {
          "lane": {"type": "integer"},
          "y": {"type": "number"}
        }
      }
    },
    "manual": {"type": "boolean"},
    "seed": {"type": "integer", "minimum": 0},
    "brainFile": {"type": "string"},
    "workers": {"type": "integer", "minimum": 0},
    "ticksPerSecond": {"type": "integer", "minimum": 1}
  }
}`

var configValidator = jsonschema.MustCompileString("config.schema.json", configSchema)

// LoadConfig loads a JSON or YAML (.yaml, .yml) file, validates it against
// the config schema and applies it on top of DefaultConfig.
func LoadConfig(configFile string) (*Config, error) {
	b, err := os.ReadFile(configFile)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	switch strings.ToLower(filepath.Ext(configFile)) {
	case ".yaml", ".yml":
		var doc map[string]interface{}
		if err := yaml.Unmarshal(b, &doc); err != nil {
			return nil, fmt.Errorf("failed to decode config yaml: %w", err)
		}
		if doc == nil {
			doc = map[string]interface{}{}
		}
		if b, err = json.Marshal(doc); err != nil {
			return nil, fmt.Errorf("failed to convert config yaml: %w", err)
		}
	}

	var v interface{}
	if err := json.Unmarshal(b, &v); err != nil {
		return nil, fmt.Errorf("failed to decode config json: %w", err)
	}
	if err := configValidator.Validate(v); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	cfg := DefaultConfig()
	if err := json.Unmarshal(b, cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}
