package ws

import (
	"encoding/json"
	"errors"
	"fmt"

	"careerxr/internal/scene"
)

const (
	MsgKey         = "key"
	MsgMouse       = "mouse"
	MsgPointerLock = "pointer_lock"
	MsgCamera      = "camera"

	MsgReady    = "ready"
	MsgSnapshot = "snapshot"
	MsgError    = "error"
)

var ErrBadMessage = errors.New("bad scene message")

// ClientMessage is any message a scene client may send; Type selects which
// fields are meaningful.
type ClientMessage struct {
	Type   string  `json:"type"`
	Code   string  `json:"code,omitempty"`
	Down   bool    `json:"down,omitempty"`
	DX     float32 `json:"dx,omitempty"`
	DY     float32 `json:"dy,omitempty"`
	Locked bool    `json:"locked,omitempty"`
	Action string  `json:"action,omitempty"`
}

type ServerMessage struct {
	Type    string `json:"type"`
	Message string `json:"message,omitempty"`
	Data    any    `json:"data,omitempty"`
}

type readyData struct {
	SessionID string `json:"session_id"`
	Layout    string `json:"layout"`
}

// DecodeInput parses one client frame into a scene input.
func DecodeInput(raw []byte) (scene.Input, error) {
	var m ClientMessage
	if err := json.Unmarshal(raw, &m); err != nil {
		return scene.Input{}, fmt.Errorf("%w: %v", ErrBadMessage, err)
	}

	switch m.Type {
	case MsgKey:
		code, ok := scene.ParseKey(m.Code)
		if !ok {
			return scene.Input{}, fmt.Errorf("%w: unknown key %q", ErrBadMessage, m.Code)
		}
		return scene.KeyInput(code, m.Down), nil
	case MsgMouse:
		return scene.MouseInput(m.DX, m.DY), nil
	case MsgPointerLock:
		return scene.PointerLockInput(m.Locked), nil
	case MsgCamera:
		switch a := scene.CameraAction(m.Action); a {
		case scene.CameraToggle, scene.CameraOrbit, scene.CameraFollow:
			return scene.CameraInput(a), nil
		}
		return scene.Input{}, fmt.Errorf("%w: unknown camera action %q", ErrBadMessage, m.Action)
	}
	return scene.Input{}, fmt.Errorf("%w: unknown type %q", ErrBadMessage, m.Type)
}
