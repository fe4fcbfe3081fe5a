package device

import (
	"math"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/milk9111/heavypockets/ecs"
	"github.com/milk9111/heavypockets/ecs/component"
	"github.com/milk9111/heavypockets/player"
)

const stickDeadzone = 0.2

// InputSystem samples keyboard and the first standard gamepad into every
// Input component. Press fields are set only on the tick the button went down.
type InputSystem struct{}

func NewInputSystem() *InputSystem {
	return &InputSystem{}
}

func (i *InputSystem) Update(w *ecs.World) {
	if w == nil {
		return
	}
	frame := ReadInput()
	ecs.ForEach(w, component.InputComponent.Kind(), func(e ecs.Entity, input *component.Input) {
		input.Frame = frame
	})
}

// ReadInput polls the devices once.
func ReadInput() player.InputFrame {
	left := ebiten.IsKeyPressed(ebiten.KeyA) || ebiten.IsKeyPressed(ebiten.KeyArrowLeft)
	right := ebiten.IsKeyPressed(ebiten.KeyD) || ebiten.IsKeyPressed(ebiten.KeyArrowRight)

	in := player.InputFrame{
		JumpPressed: inpututil.IsKeyJustPressed(ebiten.KeySpace) ||
			inpututil.IsKeyJustPressed(ebiten.KeyW) ||
			inpututil.IsKeyJustPressed(ebiten.KeyArrowUp),
		JumpHeld: ebiten.IsKeyPressed(ebiten.KeySpace) ||
			ebiten.IsKeyPressed(ebiten.KeyW) ||
			ebiten.IsKeyPressed(ebiten.KeyArrowUp),
		SlideHeld: ebiten.IsKeyPressed(ebiten.KeyShift) ||
			ebiten.IsKeyPressed(ebiten.KeyS) ||
			ebiten.IsKeyPressed(ebiten.KeyArrowDown),
		DashPressed: inpututil.IsKeyJustPressed(ebiten.KeyK) ||
			inpututil.IsKeyJustPressed(ebiten.KeyJ),
	}
	if left {
		in.MoveAxis -= 1
	}
	if right {
		in.MoveAxis += 1
	}

	if gamepads := ebiten.GamepadIDs(); len(gamepads) > 0 {
		id := gamepads[0]
		if !ebiten.IsStandardGamepadLayoutAvailable(id) {
			return in
		}
		leftX := ebiten.StandardGamepadAxisValue(id, ebiten.StandardGamepadAxisLeftStickHorizontal)
		if math.Abs(leftX) > stickDeadzone {
			in.MoveAxis = leftX
		}
		if ebiten.IsStandardGamepadButtonPressed(id, ebiten.StandardGamepadButtonLeftLeft) {
			in.MoveAxis = -1
		}
		if ebiten.IsStandardGamepadButtonPressed(id, ebiten.StandardGamepadButtonLeftRight) {
			in.MoveAxis = 1
		}

		in.JumpPressed = in.JumpPressed || inpututil.IsStandardGamepadButtonJustPressed(id, ebiten.StandardGamepadButtonRightBottom)
		in.JumpHeld = in.JumpHeld || ebiten.IsStandardGamepadButtonPressed(id, ebiten.StandardGamepadButtonRightBottom)
		in.DashPressed = in.DashPressed ||
			inpututil.IsStandardGamepadButtonJustPressed(id, ebiten.StandardGamepadButtonRightLeft) ||
			inpututil.IsStandardGamepadButtonJustPressed(id, ebiten.StandardGamepadButtonFrontBottomRight)
		in.SlideHeld = in.SlideHeld ||
			ebiten.IsStandardGamepadButtonPressed(id, ebiten.StandardGamepadButtonFrontBottomLeft) ||
			ebiten.IsStandardGamepadButtonPressed(id, ebiten.StandardGamepadButtonLeftBottom)
	}
	return in.Normalized()
}

// PausePressed reports Escape or the gamepad start button going down.
func PausePressed() bool {
	if inpututil.IsKeyJustPressed(ebiten.KeyEscape) {
		return true
	}
	for _, id := range ebiten.GamepadIDs() {
		if inpututil.IsStandardGamepadButtonJustPressed(id, ebiten.StandardGamepadButtonCenterRight) {
			return true
		}
	}
	return false
}
