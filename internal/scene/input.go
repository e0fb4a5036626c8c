package scene

import "strings"

type KeyCode string

const (
	KeyW KeyCode = "KeyW"
	KeyA KeyCode = "KeyA"
	KeyS KeyCode = "KeyS"
	KeyD KeyCode = "KeyD"
	KeyQ KeyCode = "KeyQ"
	KeyE KeyCode = "KeyE"
)

// ParseKey accepts DOM code names ("KeyW") and bare key values ("w").
func ParseKey(s string) (KeyCode, bool) {
	s = strings.TrimSpace(s)
	if len(s) == 1 {
		s = "Key" + strings.ToUpper(s)
	}
	switch k := KeyCode(s); k {
	case KeyW, KeyA, KeyS, KeyD, KeyQ, KeyE:
		return k, true
	}
	return "", false
}

type KeyState struct {
	Forward  bool `json:"forward"`
	Backward bool `json:"backward"`
	Left     bool `json:"left"`
	Right    bool `json:"right"`
	LookDown bool `json:"look_down"`
	OpenDoor bool `json:"open_door"`
}

func (k *KeyState) Set(code KeyCode, down bool) {
	switch code {
	case KeyW:
		k.Forward = down
	case KeyS:
		k.Backward = down
	case KeyA:
		k.Left = down
	case KeyD:
		k.Right = down
	case KeyQ:
		k.LookDown = down
	case KeyE:
		k.OpenDoor = down
	}
}

type InputKind string

const (
	InputKey         InputKind = "key"
	InputMouse       InputKind = "mouse"
	InputPointerLock InputKind = "pointer_lock"
	InputCamera      InputKind = "camera"
)

type CameraAction string

const (
	CameraToggle CameraAction = "toggle"
	CameraOrbit  CameraAction = "orbit"
	CameraFollow CameraAction = "follow"
)

// Input is one client event. Events are queued and folded into the frame
// state at the start of the next frame.
type Input struct {
	Kind   InputKind
	Key    KeyCode
	Down   bool
	DX, DY float32
	Locked bool
	Action CameraAction
}

func KeyInput(code KeyCode, down bool) Input {
	return Input{Kind: InputKey, Key: code, Down: down}
}

func MouseInput(dx, dy float32) Input {
	return Input{Kind: InputMouse, DX: dx, DY: dy}
}

func PointerLockInput(locked bool) Input {
	return Input{Kind: InputPointerLock, Locked: locked}
}

func CameraInput(action CameraAction) Input {
	return Input{Kind: InputCamera, Action: action}
}

// InputState is what systems read for the current frame. DoorDown records a
// door key press seen during the frame even when the release arrived before
// the frame ran.
type InputState struct {
	Keys          KeyState
	DoorDown      bool
	MouseDX       float32
	MouseDY       float32
	PointerLocked bool
	CameraActions []CameraAction
}

// DoorPressed reports the frame where the door key goes down.
func (s InputState) DoorPressed() bool {
	return s.DoorDown
}

// InputSystem drains the queued events into InputState.
type InputSystem struct{}

func (InputSystem) Execute(f *Frame) {
	w := f.World
	st := &w.Input
	st.DoorDown = false
	st.MouseDX, st.MouseDY = 0, 0
	st.CameraActions = st.CameraActions[:0]

	for _, in := range w.pending {
		switch in.Kind {
		case InputKey:
			if in.Key == KeyE && in.Down && !st.Keys.OpenDoor {
				st.DoorDown = true
			}
			st.Keys.Set(in.Key, in.Down)
		case InputMouse:
			st.MouseDX += in.DX
			st.MouseDY += in.DY
		case InputPointerLock:
			st.PointerLocked = in.Locked
		case InputCamera:
			st.CameraActions = append(st.CameraActions, in.Action)
		}
	}
	w.pending = w.pending[:0]
}
