// Package kinematics holds the arcade-style vehicle motion model.
// Heading 0 points "up" the screen; x -= sin(heading)*speed, y -= cos(heading)*speed.
package kinematics

import (
	"errors"
	"fmt"
	"math"
)

// ErrInvalidParams is returned when motion constants cannot produce sane motion.
var ErrInvalidParams = errors.New("invalid kinematic params")

// Pose is a position and a heading in radians.
type Pose struct {
	X       float64 `json:"x"`
	Y       float64 `json:"y"`
	Heading float64 `json:"heading"`
}

// Controls is the control input for one tick.
type Controls struct {
	Forward bool `json:"forward"`
	Reverse bool `json:"reverse"`
	Left    bool `json:"left"`
	Right   bool `json:"right"`
}

// Params are the tunable constants of a body.
type Params struct {
	Acceleration float64 `json:"acceleration" yaml:"acceleration"`
	MaxSpeed     float64 `json:"maxSpeed" yaml:"maxSpeed"`
	Friction     float64 `json:"friction" yaml:"friction"`
	SteerRate    float64 `json:"steerRate" yaml:"steerRate"` // radians per tick
}

// DefaultParams returns the car constants.
func DefaultParams() Params {
	return Params{
		Acceleration: 0.2,
		MaxSpeed:     3,
		Friction:     0.05,
		SteerRate:    0.03,
	}
}

// MaxReverseSpeed is half of the forward capability.
func (p Params) MaxReverseSpeed() float64 {
	return p.MaxSpeed / 2
}

// Validate checks every constant is positive.
func (p Params) Validate() error {
	switch {
	case p.Acceleration <= 0:
		return fmt.Errorf("%w: acceleration %v must be > 0", ErrInvalidParams, p.Acceleration)
	case p.MaxSpeed <= 0:
		return fmt.Errorf("%w: maxSpeed %v must be > 0", ErrInvalidParams, p.MaxSpeed)
	case p.Friction < 0:
		return fmt.Errorf("%w: friction %v must be >= 0", ErrInvalidParams, p.Friction)
	case p.SteerRate < 0:
		return fmt.Errorf("%w: steerRate %v must be >= 0", ErrInvalidParams, p.SteerRate)
	}
	return nil
}

// Body is the kinematic state of one vehicle.
type Body struct {
	Pose
	Speed  float64 `json:"speed"`
	Params Params  `json:"params"`
}

// NewBody creates a body at rest.
func NewBody(pose Pose, params Params) (*Body, error) {
	if err := params.Validate(); err != nil {
		return nil, err
	}
	return &Body{Pose: pose, Params: params}, nil
}

// Update advances the body by one fixed tick.
func (b *Body) Update(c Controls) {
	p := b.Params

	// Throttle and brake may both be held; they cancel out.
	if c.Forward {
		b.Speed += p.Acceleration
	}
	if c.Reverse {
		b.Speed -= p.Acceleration
	}

	b.Speed = math.Min(b.Speed, p.MaxSpeed)
	b.Speed = math.Max(b.Speed, -p.MaxReverseSpeed())

	if b.Speed > 0 {
		b.Speed -= p.Friction
	}
	if b.Speed < 0 {
		b.Speed += p.Friction
	}
	if math.Abs(b.Speed) < p.Friction {
		b.Speed = 0
	}

	// Steering only bites while moving, mirrored when reversing.
	if b.Speed != 0 {
		flip := 1.0
		if b.Speed < 0 {
			flip = -1
		}
		if c.Left {
			b.Heading += p.SteerRate * flip
		}
		if c.Right {
			b.Heading -= p.SteerRate * flip
		}
	}

	b.X -= math.Sin(b.Heading) * b.Speed
	b.Y -= math.Cos(b.Heading) * b.Speed
}
