// Package sensor casts a fan of rays from a vehicle and reports the nearest
// obstacle hit along each ray.
package sensor

import (
	"errors"
	"fmt"
	"math"

	"github.com/lao-tseu-is-alive/go-selfdriving-simulation/pkg/geometry"
	"github.com/lao-tseu-is-alive/go-selfdriving-simulation/pkg/kinematics"
	"github.com/paulmach/orb"
)

// ErrInvalidConfig is returned by New for unusable ray settings.
var ErrInvalidConfig = errors.New("invalid sensor config")

// Config is the fixed geometry of the ray fan.
type Config struct {
	RayCount  int     `json:"rayCount" yaml:"rayCount"`   // odd counts keep a center ray
	RayLength float64 `json:"rayLength" yaml:"rayLength"` // in world units
	RaySpread float64 `json:"raySpread" yaml:"raySpread"` // total fan width in radians
}

// DefaultConfig returns 5 rays of length 150 over a quarter turn.
func DefaultConfig() Config {
	return Config{
		RayCount:  5,
		RayLength: 150,
		RaySpread: math.Pi / 2,
	}
}

// Validate checks the fan can be cast.
func (c Config) Validate() error {
	switch {
	case c.RayCount < 1:
		return fmt.Errorf("%w: rayCount %d must be >= 1", ErrInvalidConfig, c.RayCount)
	case c.RayLength <= 0:
		return fmt.Errorf("%w: rayLength %v must be > 0", ErrInvalidConfig, c.RayLength)
	case c.RaySpread < 0:
		return fmt.Errorf("%w: raySpread %v must be >= 0", ErrInvalidConfig, c.RaySpread)
	}
	return nil
}

// Reading is the nearest hit along one ray. Offset is the fraction of the
// ray length at which it occurred, in [0, 1].
type Reading = geometry.Intersection

// Sensor holds the last cast rays and their readings.
// A nil entry in Readings means nothing was hit within the ray length.
type Sensor struct {
	cfg      Config
	rays     []geometry.Segment
	readings []*Reading
}

// New creates a sensor. Readings are all empty until the first Update.
func New(cfg Config) (*Sensor, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &Sensor{
		cfg:      cfg,
		readings: make([]*Reading, cfg.RayCount),
	}, nil
}

// Config returns the fan geometry.
func (s *Sensor) Config() Config {
	return s.cfg
}

// RayAngles returns the absolute angle of each ray, leftmost first.
// A single ray points exactly along the heading.
func (c Config) RayAngles(heading float64) []float64 {
	angles := make([]float64, c.RayCount)
	for i := range angles {
		t := 0.5
		if c.RayCount > 1 {
			t = float64(i) / float64(c.RayCount-1)
		}
		angles[i] = geometry.Lerp(c.RaySpread/2, -c.RaySpread/2, t) + heading
	}
	return angles
}

// CastRays builds the ray segments from the pose.
func (c Config) CastRays(pose kinematics.Pose) []geometry.Segment {
	start := geometry.Point{X: pose.X, Y: pose.Y}
	angles := c.RayAngles(pose.Heading)
	rays := make([]geometry.Segment, len(angles))
	for i, angle := range angles {
		rays[i] = geometry.Segment{
			A: start,
			B: geometry.Point{
				X: pose.X - math.Sin(angle)*c.RayLength,
				Y: pose.Y - math.Cos(angle)*c.RayLength,
			},
		}
	}
	return rays
}

// Reach is the box every ray of a fan cast from pose stays inside.
func (c Config) Reach(pose kinematics.Pose) orb.Bound {
	center := orb.Point{pose.X, pose.Y}
	return center.Bound().Pad(c.RayLength)
}

// GetReading returns the hit closest to the ray start over every edge of every
// obstacle, or nil if the ray touches nothing.
func GetReading(ray geometry.Segment, obstacles []geometry.Shape) (*Reading, error) {
	var nearest *Reading
	for _, o := range obstacles {
		if err := o.Validate(); err != nil {
			return nil, fmt.Errorf("failed to read sensor: %w", err)
		}
		for _, edge := range o.Edges() {
			hit, ok := ray.Intersect(edge)
			if !ok {
				continue
			}
			if nearest == nil || hit.Offset < nearest.Offset {
				h := hit
				nearest = &h
			}
		}
	}
	return nearest, nil
}

// Update recasts the rays from pose and refreshes every reading.
func (s *Sensor) Update(pose kinematics.Pose, obstacles []geometry.Shape) error {
	rays := s.cfg.CastRays(pose)
	readings := make([]*Reading, len(rays))
	for i, ray := range rays {
		r, err := GetReading(ray, obstacles)
		if err != nil {
			return err
		}
		readings[i] = r
	}
	s.rays = rays
	s.readings = readings
	return nil
}

// Rays returns the rays cast by the last Update (nil before the first one).
func (s *Sensor) Rays() []geometry.Segment {
	return s.rays
}

// Readings returns one entry per ray, in cast order.
func (s *Sensor) Readings() []*Reading {
	return s.readings
}

// Inputs maps the readings to network inputs: 1-offset for a hit
// (closer is stronger) and 0 when nothing is in range.
func (s *Sensor) Inputs() []float64 {
	inputs := make([]float64, len(s.readings))
	for i, r := range s.readings {
		if r != nil {
			inputs[i] = 1 - r.Offset
		}
	}
	return inputs
}
