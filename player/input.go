package player

import "math"

// InputFrame is one logic tick worth of player input. Press fields are edges
// (true only on the tick the button went down); held fields are levels.
type InputFrame struct {
	MoveAxis    float64
	JumpPressed bool
	JumpHeld    bool
	SlideHeld   bool
	DashPressed bool
}

// Normalized clamps the move axis into [-1, 1] and zeroes NaN.
func (in InputFrame) Normalized() InputFrame {
	switch {
	case math.IsNaN(in.MoveAxis):
		in.MoveAxis = 0
	case in.MoveAxis > 1:
		in.MoveAxis = 1
	case in.MoveAxis < -1:
		in.MoveAxis = -1
	}
	return in
}
