package scene

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// ScriptStep holds a key set for a number of frames. It drives worlds
// headless from the CLI and in tests.
type ScriptStep struct {
	Keys    KeyState
	Actions []CameraAction
	Lock    *bool
	Frames  int
}

var scriptKeys = map[rune]KeyCode{
	'w': KeyW, 'a': KeyA, 's': KeyS, 'd': KeyD, 'q': KeyQ, 'e': KeyE,
}

// ParseScript reads steps like "wx30 wdx10 cx1 -x5". Each step is a set of
// held keys with an optional frame count (default 1). Besides the movement
// keys, c toggles the camera, o selects orbit, f selects follow, l locks
// and u unlocks the pointer; "-" holds nothing.
func ParseScript(src string) ([]ScriptStep, error) {
	fields := strings.FieldsFunc(src, func(r rune) bool {
		return r == ',' || r == ' ' || r == '\n' || r == '\t'
	})
	steps := make([]ScriptStep, 0, len(fields))
	for _, f := range fields {
		st, err := parseStep(strings.ToLower(f))
		if err != nil {
			return nil, err
		}
		steps = append(steps, st)
	}
	return steps, nil
}

func parseStep(tok string) (ScriptStep, error) {
	st := ScriptStep{Frames: 1}
	keys := tok
	if i := strings.LastIndexByte(tok, 'x'); i >= 0 {
		n, err := strconv.Atoi(tok[i+1:])
		if err != nil || n <= 0 {
			return ScriptStep{}, fmt.Errorf("script step %q: bad frame count", tok)
		}
		st.Frames = n
		keys = tok[:i]
	}
	if keys == "-" {
		return st, nil
	}
	if keys == "" {
		return ScriptStep{}, fmt.Errorf("script step %q: no keys", tok)
	}
	for _, r := range keys {
		if code, ok := scriptKeys[r]; ok {
			st.Keys.Set(code, true)
			continue
		}
		switch r {
		case 'c':
			st.Actions = append(st.Actions, CameraToggle)
		case 'o':
			st.Actions = append(st.Actions, CameraOrbit)
		case 'f':
			st.Actions = append(st.Actions, CameraFollow)
		case 'l', 'u':
			locked := r == 'l'
			st.Lock = &locked
		default:
			return ScriptStep{}, fmt.Errorf("script step %q: unknown key %q", tok, r)
		}
	}
	return st, nil
}

// RunScript feeds the steps into w, calling onFrame after every frame when
// set, and returns the last snapshot.
func RunScript(w *World, steps []ScriptStep, dt time.Duration, onFrame func(Snapshot)) Snapshot {
	var held KeyState
	snap := w.Snapshot()
	for _, st := range steps {
		w.Enqueue(keyTransitions(held, st.Keys)...)
		held = st.Keys
		if st.Lock != nil {
			w.Enqueue(PointerLockInput(*st.Lock))
		}
		for _, a := range st.Actions {
			w.Enqueue(CameraInput(a))
		}
		for i := 0; i < st.Frames; i++ {
			snap = w.Step(dt)
			if onFrame != nil {
				onFrame(snap)
			}
		}
	}
	return snap
}

func keyTransitions(from, to KeyState) []Input {
	pairs := []struct {
		code     KeyCode
		was, now bool
	}{
		{KeyW, from.Forward, to.Forward},
		{KeyS, from.Backward, to.Backward},
		{KeyA, from.Left, to.Left},
		{KeyD, from.Right, to.Right},
		{KeyQ, from.LookDown, to.LookDown},
		{KeyE, from.OpenDoor, to.OpenDoor},
	}
	out := make([]Input, 0, len(pairs))
	for _, p := range pairs {
		if p.was != p.now {
			out = append(out, KeyInput(p.code, p.now))
		}
	}
	return out
}
