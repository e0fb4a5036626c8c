package scene

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseScript(t *testing.T) {
	steps, err := ParseScript("wx30, wd -x5\ncl")
	require.NoError(t, err)
	require.Len(t, steps, 4)

	assert.True(t, steps[0].Keys.Forward)
	assert.Equal(t, 30, steps[0].Frames)
	assert.Equal(t, 1, steps[1].Frames)
	assert.True(t, steps[1].Keys.Forward)
	assert.True(t, steps[1].Keys.Right)
	assert.Equal(t, KeyState{}, steps[2].Keys)
	assert.Equal(t, 5, steps[2].Frames)
	assert.Equal(t, []CameraAction{CameraToggle}, steps[3].Actions)
	require.NotNil(t, steps[3].Lock)
	assert.True(t, *steps[3].Lock)

	for _, bad := range []string{"zx3", "wx0", "wx", "x4", "wd x2"} {
		_, err := ParseScript(bad)
		assert.Error(t, err, bad)
	}
}

func TestRunScript(t *testing.T) {
	w := NewWorld(builtin(t, "profession-room"), DefaultOptions())
	steps, err := ParseScript("wx5 -x3 dx100")
	require.NoError(t, err)

	frames := 0
	snap := RunScript(w, steps, frame, func(Snapshot) { frames++ })

	assert.Equal(t, 108, frames)
	assert.Equal(t, uint64(108), snap.Tick)
	assert.InDelta(t, -0.5, snap.Character.Position.Z, 1e-5)
	assert.Less(t, snap.Character.Position.X, float32(4.5))
	assert.NotZero(t, snap.Blocked)
}

func TestRunScript_CameraToggle(t *testing.T) {
	w := NewWorld(builtin(t, "profession-room"), DefaultOptions())
	steps, err := ParseScript("lc -x2 c")
	require.NoError(t, err)

	snap := RunScript(w, steps[:1], frame, nil)
	assert.Equal(t, CameraModeFirstPerson, snap.Camera.Mode)

	snap = RunScript(w, steps[1:], frame, nil)
	assert.Equal(t, CameraModeFollow, snap.Camera.Mode)
}
