package player

import (
	"errors"
	"fmt"
	"math"
)

// Tuning holds every numeric knob of the controller. Speeds are in world
// units per second, times in seconds, angles in degrees.
type Tuning struct {
	MoveSpeed        float64 `yaml:"move_speed"`
	FloorSpeed       float64 `yaml:"floor_speed"`
	Acceleration     float64 `yaml:"acceleration"`
	Deceleration     float64 `yaml:"deceleration"`
	MinAcceleration  float64 `yaml:"min_acceleration"`
	AirControl       float64 `yaml:"air_control"`
	MinMoveThreshold float64 `yaml:"min_move_threshold"`

	JumpForce         float64 `yaml:"jump_force"`
	DoubleJumpForce   float64 `yaml:"double_jump_force"`
	DoubleJumpEnabled bool    `yaml:"double_jump_enabled"`
	CoyoteTime        float64 `yaml:"coyote_time"`
	JumpBufferTime    float64 `yaml:"jump_buffer_time"`
	JumpGraceTime     float64 `yaml:"jump_grace_time"`

	DashEnabled    bool    `yaml:"dash_enabled"`
	DashInAir      bool    `yaml:"dash_in_air"`
	DashSpeed      float64 `yaml:"dash_speed"`
	DashDuration   float64 `yaml:"dash_duration"`
	DashCooldown   float64 `yaml:"dash_cooldown"`
	DashBufferTime float64 `yaml:"dash_buffer_time"`

	// MinSlopeAngle is where idle slope damping starts; MinSlideAngle is the
	// steepness a slide needs.
	MinSlopeAngle      float64 `yaml:"min_slope_angle"`
	MinSlideAngle      float64 `yaml:"min_slide_angle"`
	SlideDownForce     float64 `yaml:"slide_down_force"`
	MinSlideForceScale float64 `yaml:"min_slide_force_scale"`
	SlideJumpBoost     float64 `yaml:"slide_jump_boost"`
	SlopeStopDamping   float64 `yaml:"slope_stop_damping"`

	GravityScale          float64        `yaml:"gravity_scale"`
	GroundNormalThreshold float64        `yaml:"ground_normal_threshold"`
	Friction              FrictionConfig `yaml:"friction"`
	Materials             Materials      `yaml:"materials"`
}

func DefaultTuning() Tuning {
	return Tuning{
		MoveSpeed:        5,
		FloorSpeed:       1.5,
		Acceleration:     20,
		Deceleration:     20,
		MinAcceleration:  5,
		AirControl:       0.5,
		MinMoveThreshold: 0.1,

		JumpForce:         12,
		DoubleJumpForce:   10,
		DoubleJumpEnabled: true,
		CoyoteTime:        0.1,
		JumpBufferTime:    0.1,
		JumpGraceTime:     0.15,

		DashEnabled:    true,
		DashInAir:      true,
		DashSpeed:      14,
		DashDuration:   0.18,
		DashCooldown:   0.6,
		DashBufferTime: 0.1,

		MinSlopeAngle:      8,
		MinSlideAngle:      15,
		SlideDownForce:     8,
		MinSlideForceScale: 0.7,
		SlideJumpBoost:     1.3,
		SlopeStopDamping:   12,

		GravityScale:          3,
		GroundNormalThreshold: DefaultMinNormalY,
		Friction: FrictionConfig{
			StopDelay:         0.1,
			MomentumThreshold: 1.5,
		},
		Materials: Materials{
			Moving:  0,
			Stopped: 10,
			Sliding: 0.05,
		},
	}
}

var ErrInvalidTuning = errors.New("player: invalid tuning")

// Validate reports every out-of-range field.
func (t Tuning) Validate() error {
	var errs []error
	nonNegative := func(name string, v float64) {
		if v < 0 || math.IsNaN(v) || math.IsInf(v, 0) {
			errs = append(errs, fmt.Errorf("%w: %s must be a finite non-negative number, got %v", ErrInvalidTuning, name, v))
		}
	}
	nonNegative("move_speed", t.MoveSpeed)
	nonNegative("floor_speed", t.FloorSpeed)
	nonNegative("acceleration", t.Acceleration)
	nonNegative("deceleration", t.Deceleration)
	nonNegative("min_acceleration", t.MinAcceleration)
	nonNegative("min_move_threshold", t.MinMoveThreshold)
	nonNegative("jump_force", t.JumpForce)
	nonNegative("double_jump_force", t.DoubleJumpForce)
	nonNegative("coyote_time", t.CoyoteTime)
	nonNegative("jump_buffer_time", t.JumpBufferTime)
	nonNegative("jump_grace_time", t.JumpGraceTime)
	nonNegative("dash_speed", t.DashSpeed)
	nonNegative("dash_duration", t.DashDuration)
	nonNegative("dash_cooldown", t.DashCooldown)
	nonNegative("dash_buffer_time", t.DashBufferTime)
	nonNegative("slide_down_force", t.SlideDownForce)
	nonNegative("slide_jump_boost", t.SlideJumpBoost)
	nonNegative("slope_stop_damping", t.SlopeStopDamping)
	nonNegative("gravity_scale", t.GravityScale)
	nonNegative("friction.stop_delay", t.Friction.StopDelay)
	nonNegative("friction.momentum_threshold", t.Friction.MomentumThreshold)
	nonNegative("materials.moving", t.Materials.Moving)
	nonNegative("materials.stopped", t.Materials.Stopped)
	nonNegative("materials.sliding", t.Materials.Sliding)

	if t.FloorSpeed > t.MoveSpeed {
		errs = append(errs, fmt.Errorf("%w: floor_speed %v exceeds move_speed %v", ErrInvalidTuning, t.FloorSpeed, t.MoveSpeed))
	}
	if t.AirControl < 0 || t.AirControl > 1 || math.IsNaN(t.AirControl) {
		errs = append(errs, fmt.Errorf("%w: air_control must be in [0,1], got %v", ErrInvalidTuning, t.AirControl))
	}
	if t.MinSlideForceScale < 0 || t.MinSlideForceScale > 1 || math.IsNaN(t.MinSlideForceScale) {
		errs = append(errs, fmt.Errorf("%w: min_slide_force_scale must be in [0,1], got %v", ErrInvalidTuning, t.MinSlideForceScale))
	}
	if t.GroundNormalThreshold <= 0 || t.GroundNormalThreshold >= 1 || math.IsNaN(t.GroundNormalThreshold) {
		errs = append(errs, fmt.Errorf("%w: ground_normal_threshold must be in (0,1), got %v", ErrInvalidTuning, t.GroundNormalThreshold))
	}
	for _, a := range []struct {
		name string
		v    float64
	}{{"min_slope_angle", t.MinSlopeAngle}, {"min_slide_angle", t.MinSlideAngle}} {
		if a.v < 0 || a.v >= 90 || math.IsNaN(a.v) {
			errs = append(errs, fmt.Errorf("%w: %s must be in [0,90), got %v", ErrInvalidTuning, a.name, a.v))
		}
	}
	return errors.Join(errs...)
}

// Sanitized returns a copy with every invalid field replaced by its default.
func (t Tuning) Sanitized() Tuning {
	d := DefaultTuning()
	fix := func(v *float64, def float64) {
		if *v < 0 || math.IsNaN(*v) || math.IsInf(*v, 0) {
			*v = def
		}
	}
	fix(&t.MoveSpeed, d.MoveSpeed)
	fix(&t.FloorSpeed, d.FloorSpeed)
	fix(&t.Acceleration, d.Acceleration)
	fix(&t.Deceleration, d.Deceleration)
	fix(&t.MinAcceleration, d.MinAcceleration)
	fix(&t.MinMoveThreshold, d.MinMoveThreshold)
	fix(&t.JumpForce, d.JumpForce)
	fix(&t.DoubleJumpForce, d.DoubleJumpForce)
	fix(&t.CoyoteTime, d.CoyoteTime)
	fix(&t.JumpBufferTime, d.JumpBufferTime)
	fix(&t.JumpGraceTime, d.JumpGraceTime)
	fix(&t.DashSpeed, d.DashSpeed)
	fix(&t.DashDuration, d.DashDuration)
	fix(&t.DashCooldown, d.DashCooldown)
	fix(&t.DashBufferTime, d.DashBufferTime)
	fix(&t.SlideDownForce, d.SlideDownForce)
	fix(&t.SlideJumpBoost, d.SlideJumpBoost)
	fix(&t.SlopeStopDamping, d.SlopeStopDamping)
	fix(&t.GravityScale, d.GravityScale)
	fix(&t.Friction.StopDelay, d.Friction.StopDelay)
	fix(&t.Friction.MomentumThreshold, d.Friction.MomentumThreshold)
	fix(&t.Materials.Moving, d.Materials.Moving)
	fix(&t.Materials.Stopped, d.Materials.Stopped)
	fix(&t.Materials.Sliding, d.Materials.Sliding)

	if t.FloorSpeed > t.MoveSpeed {
		t.FloorSpeed = t.MoveSpeed
	}
	if t.AirControl < 0 || t.AirControl > 1 || math.IsNaN(t.AirControl) {
		t.AirControl = d.AirControl
	}
	if t.MinSlideForceScale < 0 || t.MinSlideForceScale > 1 || math.IsNaN(t.MinSlideForceScale) {
		t.MinSlideForceScale = d.MinSlideForceScale
	}
	if t.GroundNormalThreshold <= 0 || t.GroundNormalThreshold >= 1 || math.IsNaN(t.GroundNormalThreshold) {
		t.GroundNormalThreshold = d.GroundNormalThreshold
	}
	if t.MinSlopeAngle < 0 || t.MinSlopeAngle >= 90 || math.IsNaN(t.MinSlopeAngle) {
		t.MinSlopeAngle = d.MinSlopeAngle
	}
	if t.MinSlideAngle < 0 || t.MinSlideAngle >= 90 || math.IsNaN(t.MinSlideAngle) {
		t.MinSlideAngle = d.MinSlideAngle
	}
	return t
}
