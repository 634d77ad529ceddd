package core

import (
	"fmt"

	"github.com/go-gl/mathgl/mgl32"
)

const epsilon = 1e-6

// Action is a logical camera input. Physical keys are mapped onto actions
// by the windowing layer.
type Action int

const (
	ActionNone Action = iota
	ActionForward
	ActionBackward
	ActionPanLeft
	ActionPanRight
	ActionOrbitUp
	ActionOrbitDown
	ActionOrbitLeft
	ActionOrbitRight
	ActionReset
	actionCount
)

var actionNames = [actionCount]string{
	ActionNone:       "none",
	ActionForward:    "forward",
	ActionBackward:   "backward",
	ActionPanLeft:    "pan_left",
	ActionPanRight:   "pan_right",
	ActionOrbitUp:    "orbit_up",
	ActionOrbitDown:  "orbit_down",
	ActionOrbitLeft:  "orbit_left",
	ActionOrbitRight: "orbit_right",
	ActionReset:      "reset",
}

func (a Action) String() string {
	if a < 0 || a >= actionCount {
		return fmt.Sprintf("Action(%d)", int(a))
	}
	return actionNames[a]
}

// Valid reports whether a is one of the recognized camera actions.
func (a Action) Valid() bool {
	return a > ActionNone && a < actionCount
}

// Actions lists every recognized action in declaration order.
func Actions() []Action {
	out := make([]Action, 0, actionCount-1)
	for a := ActionNone + 1; a < actionCount; a++ {
		out = append(out, a)
	}
	return out
}

func ParseAction(name string) (Action, error) {
	for a := ActionNone + 1; a < actionCount; a++ {
		if actionNames[a] == name {
			return a, nil
		}
	}
	return ActionNone, fmt.Errorf("unknown camera action %q", name)
}

// CameraController accumulates held-key state and applies it to a Camera
// once per tick.
type CameraController struct {
	Speed   float32
	pressed [actionCount]bool
}

func NewCameraController(speed float32) *CameraController {
	return &CameraController{Speed: speed}
}

// ProcessInput records a press or release. It returns false, changing
// nothing, when the action is not a recognized camera action.
func (cc *CameraController) ProcessInput(pressed bool, action Action) bool {
	if !action.Valid() {
		return false
	}
	cc.pressed[action] = pressed
	return true
}

func (cc *CameraController) Pressed(action Action) bool {
	if !action.Valid() {
		return false
	}
	return cc.pressed[action]
}

// Release clears every held action.
func (cc *CameraController) Release() {
	cc.pressed = [actionCount]bool{}
}

// Update integrates one tick of input into c. The steps run in a fixed order
// because the orbit steps read vectors recomputed after moving and panning.
func (cc *CameraController) Update(c *Camera) {
	speed := cc.Speed

	// 1. Reset composes with the rest of this tick.
	if cc.pressed[ActionReset] {
		c.Reset()
	}

	// 2-4. Dolly along the view direction.
	forward, forwardMag, ok := viewDirection(c)
	if ok {
		// The guard keeps the eye from reaching or passing the target.
		if cc.pressed[ActionForward] && forwardMag > speed {
			c.Eye = c.Eye.Add(forward.Mul(speed))
		}
		if cc.pressed[ActionBackward] {
			c.Eye = c.Eye.Sub(forward.Mul(speed))
		}
	}

	// 5. Local basis.
	var right, upLocal mgl32.Vec3
	basisOK := false
	if ok {
		right, basisOK = normalize(forward.Cross(c.Up))
		if basisOK {
			upLocal, basisOK = normalize(forward.Cross(right))
		}
	}

	// 6. Pan slides the whole rig along world X.
	if cc.pressed[ActionPanLeft] {
		c.Eye[0] -= speed
		c.Target[0] -= speed
	}
	if cc.pressed[ActionPanRight] {
		c.Eye[0] += speed
		c.Target[0] += speed
	}

	// 7. Recompute after the pan.
	forward, forwardMag, ok = viewDirection(c)
	if !ok || !basisOK {
		return
	}

	// 8. Horizontal orbit holds forwardMag fixed.
	if cc.pressed[ActionOrbitRight] {
		c.Eye = orbit(c.Target, forward, right.Mul(speed), forwardMag, c.Eye)
	}
	if cc.pressed[ActionOrbitLeft] {
		c.Eye = orbit(c.Target, forward, right.Mul(-speed), forwardMag, c.Eye)
	}

	// 9. Vertical orbit, same radius.
	if cc.pressed[ActionOrbitUp] || cc.pressed[ActionOrbitDown] {
		forward, _, ok = viewDirection(c)
		if !ok {
			return
		}
		if cc.pressed[ActionOrbitUp] {
			c.Eye = orbit(c.Target, forward, upLocal.Mul(speed), forwardMag, c.Eye)
		}
		if cc.pressed[ActionOrbitDown] {
			c.Eye = orbit(c.Target, forward, upLocal.Mul(-speed), forwardMag, c.Eye)
		}
	}
}

// orbit places the eye at radius from target, opposite the tilted direction.
// The previous eye is kept when the tilt cancels the forward vector.
func orbit(target, forward, tilt mgl32.Vec3, radius float32, eye mgl32.Vec3) mgl32.Vec3 {
	dir, ok := normalize(forward.Add(tilt))
	if !ok {
		return eye
	}
	return target.Sub(dir.Mul(radius))
}

func viewDirection(c *Camera) (mgl32.Vec3, float32, bool) {
	delta := c.Target.Sub(c.Eye)
	mag := delta.Len()
	if mag < epsilon {
		return mgl32.Vec3{}, 0, false
	}
	return delta.Mul(1 / mag), mag, true
}

func normalize(v mgl32.Vec3) (mgl32.Vec3, bool) {
	l := v.Len()
	if l < epsilon {
		return mgl32.Vec3{}, false
	}
	return v.Mul(1 / l), true
}
