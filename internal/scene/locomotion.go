package scene

import "github.com/chewxy/math32"

const DefaultSpeed float32 = 0.1

type Character struct {
	Position Vec3
	Heading  float32
	Walking  bool
	// Half is the body half extent; zero means the character collides as a point.
	Half Vec3
}

// LocomotionSystem moves the character by a fixed step per frame and rejects
// the whole step when the destination is blocked.
type LocomotionSystem struct {
	Speed        float32
	RotationLerp float32
}

func (s LocomotionSystem) Execute(f *Frame) {
	w := f.World
	next, heading, ok := s.Step(&w.Colliders, w.Character, w.Input.Keys)
	if !ok {
		w.Character.Walking = false
		return
	}
	if next == w.Character.Position {
		w.blocked++
		w.Character.Walking = false
		return
	}
	w.Character.Position = next
	w.Character.Heading = heading
	w.Character.Walking = true
}

// Step computes the character's next position and heading. ok is false when no
// direction key is held. A blocked step returns the current position.
func (s LocomotionSystem) Step(colliders *ColliderSet, c Character, keys KeyState) (next Vec3, heading float32, ok bool) {
	var dir Vec3
	if keys.Forward {
		dir.Z--
	}
	if keys.Backward {
		dir.Z++
	}
	if keys.Left {
		dir.X--
	}
	if keys.Right {
		dir.X++
	}
	if dir.IsZero() {
		return c.Position, c.Heading, false
	}

	speed := s.Speed
	if speed <= 0 {
		speed = DefaultSpeed
	}
	step := dir.Normalize().Scale(speed)
	candidate := c.Position.Add(step)
	if colliders != nil && colliders.Blocks(candidate, c.Half) {
		return c.Position, c.Heading, true
	}

	target := math32.Atan2(step.X, step.Z)
	if s.RotationLerp > 0 && s.RotationLerp < 1 {
		heading = lerpAngle(c.Heading, target, s.RotationLerp)
	} else {
		heading = target
	}
	return candidate, heading, true
}
