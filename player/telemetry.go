package player

// Telemetry is a point-in-time view of the controller for debugging and
// headless runs.
type Telemetry struct {
	Grounded      bool    `yaml:"grounded"`
	ContactCount  int     `yaml:"contact_count"`
	SlopeAngle    float64 `yaml:"slope_angle"`
	VelocityX     float64 `yaml:"vx"`
	VelocityY     float64 `yaml:"vy"`
	Facing        float64 `yaml:"facing"`
	JumpCount     int     `yaml:"jump_count"`
	Dashing       bool    `yaml:"dashing"`
	Sliding       bool    `yaml:"sliding"`
	Friction      string  `yaml:"friction"`
	CanDash       bool    `yaml:"can_dash"`
	CanDoubleJump bool    `yaml:"can_double_jump"`
	Coins         int     `yaml:"coins"`
	CoinsTotal    int     `yaml:"coins_total"`
	Ratio         float64 `yaml:"ratio"`
	MoveSpeed     float64 `yaml:"move_speed"`
	Coyote        float64 `yaml:"coyote"`
	JumpBuffer    float64 `yaml:"jump_buffer"`
	DashCooldown  float64 `yaml:"dash_cooldown"`
}

func (c *Controller) Snapshot() Telemetry {
	if c == nil {
		return Telemetry{}
	}
	t := Telemetry{
		Grounded:      c.isGrounded(),
		SlopeAngle:    slopeAngle(c.groundNormal()),
		VelocityX:     c.velocity.X,
		VelocityY:     c.velocity.Y,
		Facing:        c.facing,
		JumpCount:     c.jumpCount,
		Dashing:       c.dashing,
		Sliding:       c.sliding,
		Friction:      c.friction.String(),
		CanDash:       c.CanDash(),
		CanDoubleJump: c.CanDoubleJump(),
		Coins:         c.budget.CoinsCollected(),
		CoinsTotal:    c.budget.Total(),
		Ratio:         c.budget.Ratio(),
		MoveSpeed:     c.budget.MoveSpeed(),
		Coyote:        c.coyote.Remaining(),
		JumpBuffer:    c.jumpBuffer.Remaining(),
		DashCooldown:  c.dashCooldown.Remaining(),
	}
	if c.detector != nil {
		t.ContactCount = c.detector.ContactCount()
	}
	return t
}
