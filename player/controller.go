package player

import (
	"math"

	"github.com/jakecoffman/cp"
	"github.com/milk9111/heavypockets/common"
	"github.com/sirupsen/logrus"
)

// Body is the physical body the controller drives.
type Body interface {
	Velocity() cp.Vector
	SetVelocity(v cp.Vector)
	SetGravityScale(scale float64)
	SetFriction(friction float64)
}

// Option configures a Controller at construction.
type Option func(*Controller)

// WithDetector attaches the ground detector and registers the controller as
// its listener.
func WithDetector(d *GroundContactDetector) Option {
	return func(c *Controller) {
		c.detector = d
	}
}

// WithBudget shares an ability budget with the controller.
func WithBudget(b *AbilityBudget) Option {
	return func(c *Controller) {
		c.budget = b
	}
}

// WithLogger sets the logger; the standard logger is used otherwise.
func WithLogger(log logrus.FieldLogger) Option {
	return func(c *Controller) {
		c.log = log
	}
}

// Controller is the per-step player state machine: input, timers, ground
// state and the ability budget in; velocity, gravity scale and friction out.
type Controller struct {
	cfg      Tuning
	body     Body
	detector *GroundContactDetector
	budget   *AbilityBudget
	log      logrus.FieldLogger
	enabled  bool

	input InputFrame

	grounded     bool
	groundedSeen bool

	jumpCount      int
	jumpedThisStep bool
	coyote         Countdown
	jumpBuffer     Countdown
	jumpGrace      Countdown

	dashing      bool
	dashDir      float64
	dashTimer    Countdown
	dashCooldown Countdown
	dashBuffer   Countdown

	sliding       bool
	wasSliding    bool
	slideReleased bool
	slideMomentum float64

	noInputTime float64
	facing      float64
	friction    FrictionMode
	velocity    cp.Vector

	warnedNoCoins bool
}

func NewController(cfg Tuning, body Body, opts ...Option) *Controller {
	c := &Controller{
		enabled: true,
		facing:  1,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(c)
		}
	}
	c.log = loggerOrStandard(c.log)

	if err := cfg.Validate(); err != nil {
		c.log.WithError(err).Warn("player: tuning out of range, using defaults for invalid fields")
	}
	c.cfg = cfg.Sanitized()

	if body == nil {
		c.log.Warn("player: no body assigned, driving a detached body")
		body = &detachedBody{}
	}
	c.body = body

	if c.detector == nil {
		c.log.Warn("player: no ground sensor assigned, controller will stay airborne")
	} else {
		c.detector.SetListener(c)
		c.detector.SetMinNormalY(c.cfg.GroundNormalThreshold)
		c.grounded = c.detector.IsGrounded()
		c.groundedSeen = c.grounded
	}

	if c.budget == nil {
		c.budget = NewAbilityBudget(0, c.cfg.MoveSpeed, c.cfg.FloorSpeed, c.cfg.MinSlideForceScale)
	} else {
		c.budget.Configure(c.cfg.MoveSpeed, c.cfg.FloorSpeed, c.cfg.MinSlideForceScale)
	}

	c.velocity = c.body.Velocity()
	c.body.SetGravityScale(c.cfg.GravityScale)
	c.body.SetFriction(c.cfg.Materials.Friction(FrictionMoving))
	return c
}

// SetGrounded is the detector's callback.
func (c *Controller) SetGrounded(grounded bool) {
	if c == nil || c.detector == nil {
		return
	}
	c.grounded = grounded
}

// ResetBudget starts a new level's coin economy. A level without coins never
// degrades any ability.
func (c *Controller) ResetBudget(totalCoins int) {
	if c == nil {
		return
	}
	c.budget.Reset(totalCoins)
	if c.budget.Total() == 0 && !c.warnedNoCoins {
		c.warnedNoCoins = true
		c.log.Warn("player: level has no coins, ability budget disabled")
	}
}

// SetTuning swaps the tuning in place. Running timers keep their remaining
// time.
func (c *Controller) SetTuning(cfg Tuning) {
	if c == nil {
		return
	}
	if err := cfg.Validate(); err != nil {
		c.log.WithError(err).Warn("player: reloaded tuning out of range")
	}
	c.cfg = cfg.Sanitized()
	c.budget.Configure(c.cfg.MoveSpeed, c.cfg.FloorSpeed, c.cfg.MinSlideForceScale)
	if c.detector != nil {
		c.detector.SetMinNormalY(c.cfg.GroundNormalThreshold)
	}
	c.body.SetGravityScale(c.gravityScale())
}

func (c *Controller) Tuning() Tuning {
	if c == nil {
		return DefaultTuning()
	}
	return c.cfg
}

// SetEnabled freezes the controller (death). A disabled controller neither
// reads input nor writes to the body.
func (c *Controller) SetEnabled(enabled bool) {
	if c == nil {
		return
	}
	c.enabled = enabled
}

func (c *Controller) Enabled() bool {
	return c != nil && c.enabled
}

// ResetState clears jump, dash and slide state and restores gravity. Called on
// respawn and level change.
func (c *Controller) ResetState() {
	if c == nil {
		return
	}
	c.input = InputFrame{}
	c.jumpCount = 0
	c.jumpedThisStep = false
	c.coyote.Clear()
	c.jumpBuffer.Clear()
	c.jumpGrace.Clear()
	c.dashing = false
	c.dashDir = 0
	c.dashTimer.Clear()
	c.dashCooldown.Clear()
	c.dashBuffer.Clear()
	c.sliding = false
	c.wasSliding = false
	c.slideReleased = false
	c.slideMomentum = 0
	c.noInputTime = 0
	c.facing = 1
	c.friction = FrictionMoving
	c.groundedSeen = c.isGrounded()
	c.enabled = true
	c.body.SetGravityScale(c.cfg.GravityScale)
	c.body.SetFriction(c.cfg.Materials.Friction(FrictionMoving))
	c.velocity = c.body.Velocity()
}

// Step runs a logic tick and a physics tick with the same dt.
func (c *Controller) Step(in InputFrame, dt float64) {
	c.Tick(in, dt)
	c.FixedStep(dt)
}

// Tick is the logic tick: it latches input and advances the input-driven
// timers.
func (c *Controller) Tick(in InputFrame, dt float64) {
	if c == nil || !c.enabled {
		return
	}
	if dt < 0 || math.IsNaN(dt) {
		dt = 0
	}
	in = in.Normalized()
	c.input = in
	c.observeLanding()

	if c.isGrounded() {
		c.coyote.Arm(c.cfg.CoyoteTime)
	} else {
		c.coyote.Tick(dt)
	}

	if in.JumpPressed {
		c.jumpBuffer.Arm(c.cfg.JumpBufferTime)
	} else {
		c.jumpBuffer.Tick(dt)
	}

	if in.DashPressed {
		c.dashBuffer.Arm(c.cfg.DashBufferTime)
	} else {
		c.dashBuffer.Tick(dt)
	}

	if in.MoveAxis != 0 {
		c.facing = common.SignOrPositive(in.MoveAxis)
	}
}

// FixedStep is the physics tick. The order of the stages matters: later
// stages override earlier ones.
func (c *Controller) FixedStep(dt float64) {
	if c == nil || !c.enabled {
		return
	}
	if dt < 0 || math.IsNaN(dt) {
		dt = 0
	}
	c.observeLanding()

	v := c.body.Velocity()
	if !common.Finite(v) {
		v = cp.Vector{}
	}
	axis := c.input.MoveAxis
	grounded := c.isGrounded()
	angle := slopeAngle(c.groundNormal())
	onSlideSlope := grounded && angle >= c.cfg.MinSlideAngle
	onSlope := grounded && angle >= c.cfg.MinSlopeAngle
	c.jumpedThisStep = false

	// 1. no-input timer
	if axis != 0 {
		c.noInputTime = 0
	} else {
		c.noInputTime += dt
	}

	// 2. slide
	c.wasSliding = c.sliding
	held := c.input.SlideHeld
	c.sliding = (grounded && held && onSlideSlope) ||
		(c.wasSliding && held && !grounded) ||
		(c.wasSliding && held && grounded && !onSlideSlope && math.Abs(v.X) > c.cfg.MinMoveThreshold)
	if c.sliding && !c.wasSliding {
		c.slideMomentum = v.X
	}

	// 3. dash
	if c.dashReady(grounded) {
		c.dashing = true
		c.dashBuffer.Clear()
		c.dashTimer.Arm(c.cfg.DashDuration)
		c.dashCooldown.Arm(c.cfg.DashCooldown)
		c.dashDir = c.dashDirection(axis, v.X)
		c.facing = c.dashDir
		c.log.WithField("dir", c.dashDir).Debug("player: dash")
	}

	// 4 and 5. horizontal velocity
	vx := v.X
	vy := v.Y
	switch {
	case c.dashing:
		vx = c.dashDir * c.cfg.DashSpeed
	case c.sliding:
		c.slideMomentum = vx
	default:
		vx = c.blend(vx, axis*c.budget.MoveSpeed(), axis, grounded, dt)
	}

	// 6. jump
	if c.jumpBuffer.Active() && !c.dashing {
		first := c.coyote.Active() && c.jumpCount == 0
		second := !first && c.cfg.DoubleJumpEnabled && c.jumpCount == 1 && !grounded && c.budget.DoubleJumpAllowed()
		if first || second {
			if first {
				vy = c.cfg.JumpForce
			} else {
				vy = c.cfg.DoubleJumpForce
			}
			c.jumpCount++
			c.jumpedThisStep = true
			c.jumpBuffer.Clear()
			c.coyote.Clear()
			c.jumpGrace.Arm(c.cfg.JumpGraceTime)
			if c.sliding {
				vx = c.slideMomentum * c.cfg.SlideJumpBoost
				c.slideMomentum = vx
			}
		}
	}

	// 7. slide down force
	if c.sliding && onSlideSlope && !c.jumpGrace.Active() && !c.jumpedThisStep {
		limit := -c.cfg.SlideDownForce * c.budget.SlideForceScale()
		if vy > limit {
			vy = limit
		}
	}

	// 8. idle slope damping
	if onSlope && !c.sliding && axis == 0 && !c.dashing && !c.jumpedThisStep {
		k := math.Max(0, 1-c.cfg.SlopeStopDamping*dt)
		vx *= k
		if vy < 0 {
			vy *= k
		}
	}

	// 9. apply
	if c.dashing {
		vy = 0
	}
	c.velocity = cp.Vector{X: vx, Y: vy}
	c.body.SetVelocity(c.velocity)

	// 10. timers
	c.dashTimer.Tick(dt)
	c.dashCooldown.Tick(dt)
	c.jumpGrace.Tick(dt)
	if c.dashing && !c.dashTimer.Active() {
		c.dashing = false
	}
	c.body.SetGravityScale(c.gravityScale())

	// 11. friction; a released slide holds stopped friction until the player
	// slows down or steers
	switch {
	case c.wasSliding && !c.sliding && grounded:
		c.slideReleased = true
	case !grounded, c.sliding, axis != 0, c.dashing, c.jumpedThisStep,
		math.Abs(vx) < c.cfg.MinMoveThreshold:
		c.slideReleased = false
	}
	c.friction = SelectFriction(FrictionState{
		Grounded:      grounded,
		Sliding:       c.sliding,
		WasSliding:    c.slideReleased,
		Speed:         math.Abs(vx),
		NoInputTime:   c.noInputTime,
		Transitioning: c.dashing || c.jumpedThisStep || c.jumpGrace.Active(),
	}, c.cfg.Friction)
	c.body.SetFriction(c.cfg.Materials.Friction(c.friction))
}

// observeLanding resets the jump count on the airborne to grounded edge.
func (c *Controller) observeLanding() {
	grounded := c.isGrounded()
	if grounded && !c.groundedSeen {
		c.jumpCount = 0
	}
	c.groundedSeen = grounded
}

func (c *Controller) dashReady(grounded bool) bool {
	return c.cfg.DashEnabled &&
		c.dashBuffer.Active() &&
		!c.dashCooldown.Active() &&
		!c.dashing &&
		(c.cfg.DashInAir || grounded) &&
		c.budget.DashAllowed()
}

func (c *Controller) dashDirection(axis, vx float64) float64 {
	switch {
	case axis != 0:
		return common.SignOrPositive(axis)
	case vx != 0:
		return common.SignOrPositive(vx)
	default:
		return c.facing
	}
}

func (c *Controller) blend(vx, target, axis float64, grounded bool, dt float64) float64 {
	control := 1.0
	if !grounded {
		control = c.cfg.AirControl
	}

	if axis == 0 {
		next := common.MoveTowards(vx, 0, c.cfg.Deceleration*control*dt)
		if math.Abs(next) < c.cfg.MinMoveThreshold {
			next = 0
		}
		return next
	}

	accel := math.Max(c.cfg.Acceleration, c.cfg.MinAcceleration)
	rate := accel
	if common.SignOrPositive(vx) != common.SignOrPositive(target) {
		rate = accel + c.cfg.Deceleration
	}
	next := common.MoveTowards(vx, target, rate*control*dt)
	if math.Abs(next) < c.cfg.MinMoveThreshold && math.Abs(target) > c.cfg.MinMoveThreshold {
		next = common.SignOrPositive(target) * c.cfg.MinMoveThreshold
	}
	return next
}

func (c *Controller) gravityScale() float64 {
	if c.dashing {
		return 0
	}
	return c.cfg.GravityScale
}

func (c *Controller) isGrounded() bool {
	return c.detector != nil && c.grounded
}

func (c *Controller) groundNormal() cp.Vector {
	if !c.isGrounded() {
		return common.Up
	}
	return c.detector.GroundNormal()
}

func (c *Controller) OnCoinCollected() {
	if c == nil {
		return
	}
	c.budget.OnCoinCollected()
}

func (c *Controller) Budget() *AbilityBudget {
	if c == nil {
		return nil
	}
	return c.budget
}

func (c *Controller) IsGrounded() bool { return c != nil && c.isGrounded() }

func (c *Controller) CurrentVelocity() cp.Vector {
	if c == nil {
		return cp.Vector{}
	}
	return c.velocity
}

func (c *Controller) IsDashing() bool { return c != nil && c.dashing }

func (c *Controller) IsSliding() bool { return c != nil && c.sliding }

// CanDash reports whether the coin budget and the dash switch still allow
// dashing. Cooldown is not considered.
func (c *Controller) CanDash() bool {
	return c != nil && c.cfg.DashEnabled && c.budget.DashAllowed()
}

func (c *Controller) CanDoubleJump() bool {
	return c != nil && c.cfg.DoubleJumpEnabled && c.budget.DoubleJumpAllowed()
}

func (c *Controller) JumpCount() int {
	if c == nil {
		return 0
	}
	return c.jumpCount
}

func (c *Controller) CoinCollectionRatio() float64 {
	if c == nil {
		return 0
	}
	return c.budget.Ratio()
}

func (c *Controller) CurrentMoveSpeed() float64 {
	if c == nil {
		return 0
	}
	return c.budget.MoveSpeed()
}

func (c *Controller) FrictionMode() FrictionMode {
	if c == nil {
		return FrictionMoving
	}
	return c.friction
}

// Facing is -1 or 1.
func (c *Controller) Facing() float64 {
	if c == nil {
		return 1
	}
	return c.facing
}

// detachedBody stands in when no physical body was assigned.
type detachedBody struct {
	velocity     cp.Vector
	gravityScale float64
	friction     float64
}

func (b *detachedBody) Velocity() cp.Vector           { return b.velocity }
func (b *detachedBody) SetVelocity(v cp.Vector)       { b.velocity = v }
func (b *detachedBody) SetGravityScale(scale float64) { b.gravityScale = scale }
func (b *detachedBody) SetFriction(friction float64)  { b.friction = friction }
