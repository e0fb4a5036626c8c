package scene

import (
	"bytes"
	"log"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const frame = time.Second / 60

func builtin(t *testing.T, name string) Layout {
	t.Helper()
	c, err := LoadLayouts(nil)
	require.NoError(t, err)
	l, err := c.Get(name)
	require.NoError(t, err)
	return l
}

func TestWorld_InputVisibleNextFrame(t *testing.T) {
	w := NewWorld(builtin(t, "profession-room"), DefaultOptions())
	start := w.Character.Position

	w.Enqueue(KeyInput(KeyW, true))
	snap := w.Step(frame)
	assert.Equal(t, uint64(1), snap.Tick)
	assert.InDelta(t, start.Z-0.1, snap.Character.Position.Z, 1e-6)
	assert.True(t, snap.Character.Walking)

	w.Enqueue(KeyInput(KeyW, false))
	snap = w.Step(frame)
	assert.False(t, snap.Character.Walking)
	assert.InDelta(t, start.Z-0.1, snap.Character.Position.Z, 1e-6)
}

func TestWorld_WalkIntoWall(t *testing.T) {
	w := NewWorld(builtin(t, "profession-room"), DefaultOptions())
	w.Enqueue(KeyInput(KeyD, true))
	for i := 0; i < 100; i++ {
		w.Step(frame)
	}
	snap := w.Snapshot()
	assert.Less(t, snap.Character.Position.X, float32(4.5))
	assert.Greater(t, snap.Character.Position.X, float32(4.3))
	assert.NotZero(t, snap.Blocked)
	assert.False(t, snap.Character.Walking)
}

func TestWorld_DoorOpensPassage(t *testing.T) {
	w := NewWorld(builtin(t, "environment-two"), DefaultOptions())
	require.Len(t, w.Doors, 1)

	w.Enqueue(KeyInput(KeyW, true))
	for i := 0; i < 200; i++ {
		w.Step(frame)
	}
	closedZ := w.Character.Position.Z
	assert.Greater(t, closedZ, float32(0.25), "door blocks while closed")

	w.Enqueue(KeyInput(KeyE, true))
	w.Step(frame)
	require.True(t, w.Snapshot().Doors[0].Open)

	// held key does not toggle again
	w.Step(frame)
	assert.True(t, w.Snapshot().Doors[0].Open)

	for i := 0; i < 200; i++ {
		w.Step(frame)
	}
	assert.Less(t, w.Character.Position.Z, float32(-0.25))
}

func TestWorld_DoorTapWithinOneFrame(t *testing.T) {
	w := NewWorld(builtin(t, "environment-two"), DefaultOptions())
	w.Enqueue(KeyInput(KeyW, true))
	for i := 0; i < 200; i++ {
		w.Step(frame)
	}

	w.Enqueue(KeyInput(KeyE, true))
	w.Enqueue(KeyInput(KeyE, false))
	w.Step(frame)
	assert.True(t, w.Snapshot().Doors[0].Open)
	assert.False(t, w.Input.Keys.OpenDoor)

	w.Step(frame)
	assert.True(t, w.Snapshot().Doors[0].Open)
}

func TestInputSystem_DoorDown(t *testing.T) {
	w := &World{}
	step := func(in ...Input) bool {
		w.pending = append(w.pending, in...)
		InputSystem{}.Execute(&Frame{World: w})
		return w.Input.DoorPressed()
	}

	assert.True(t, step(KeyInput(KeyE, true)))
	assert.False(t, step(KeyInput(KeyE, true)), "repeat while held")
	assert.False(t, step(KeyInput(KeyE, false)))
	assert.True(t, step(KeyInput(KeyE, true), KeyInput(KeyE, false)))
	assert.False(t, step())
}

func TestWorld_DoorOutOfReach(t *testing.T) {
	w := NewWorld(builtin(t, "environment-two"), DefaultOptions())
	w.Enqueue(KeyInput(KeyE, true))
	w.Step(frame)
	assert.False(t, w.Snapshot().Doors[0].Open)
}

func TestWorld_AnimationClips(t *testing.T) {
	w := NewWorld(builtin(t, "environment-two"), DefaultOptions())
	w.Step(frame)
	assert.Equal(t, "idle", w.Animation.Clip)

	w.Enqueue(KeyInput(KeyA, true))
	w.Step(frame)
	assert.Equal(t, "walk", w.Snapshot().Character.Clip)
	w.Step(frame)
	assert.InDelta(t, frame.Seconds(), w.Animation.Time, 1e-9)
}

func TestWorld_MissingClipsWarnOnce(t *testing.T) {
	var buf bytes.Buffer
	opts := DefaultOptions()
	opts.Logger = log.New(&buf, "", 0)

	w := NewWorld(builtin(t, "studio"), opts)
	for i := 0; i < 5; i++ {
		w.Step(frame)
	}
	assert.Equal(t, 1, strings.Count(buf.String(), "no animation clips"))
	assert.Empty(t, w.Animation.Clip)
}

func TestWorld_StatsFollowRegistrationOrder(t *testing.T) {
	w := NewWorld(builtin(t, "studio"), DefaultOptions())
	w.Step(frame)
	w.Step(frame)

	st := w.Stats()
	require.Equal(t, 5, st.SystemCount)
	names := make([]string, 0, len(st.Systems))
	for _, s := range st.Systems {
		names = append(names, s.Name)
		assert.Equal(t, int64(2), s.ExecutionCount)
	}
	assert.Equal(t, []string{"InputSystem", "DoorSystem", "LocomotionSystem", "AnimationSystem", "CameraSystem"}, names)
	assert.Equal(t, int64(10), st.TotalExecutions)
}

func TestWorld_FirstPersonFollowsHeading(t *testing.T) {
	w := NewWorld(builtin(t, "studio"), DefaultOptions())
	w.Enqueue(CameraInput(CameraToggle), PointerLockInput(true), KeyInput(KeyD, true))
	snap := w.Step(frame)

	assert.Equal(t, CameraModeFirstPerson, snap.Camera.Mode)
	assert.InDelta(t, snap.Character.Heading, snap.Camera.Yaw, 1e-6)
}

func TestParseKey(t *testing.T) {
	k, ok := ParseKey("w")
	assert.True(t, ok)
	assert.Equal(t, KeyW, k)

	k, ok = ParseKey("KeyE")
	assert.True(t, ok)
	assert.Equal(t, KeyE, k)

	_, ok = ParseKey("Space")
	assert.False(t, ok)
}
