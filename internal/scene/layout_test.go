package scene

import (
	"testing"
	"testing/fstest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadLayouts_Builtins(t *testing.T) {
	c, err := LoadLayouts(nil)
	require.NoError(t, err)

	names := make([]string, 0)
	for _, l := range c.All() {
		names = append(names, l.Name)
	}
	assert.Equal(t, []string{"environment-two", "profession-room", "studio"}, names)

	room, err := c.Get("profession-room")
	require.NoError(t, err)
	assert.Len(t, room.Walls, 4)
	assert.Equal(t, [3]float32{10, 4, 1}, room.Walls[0].Size)
	assert.InDelta(t, 0.1, room.Speed, 1e-6)

	two, err := c.Get("environment-two")
	require.NoError(t, err)
	require.NotNil(t, two.Model)
	assert.Equal(t, []string{"idle", "walk"}, two.Model.Clips)
	assert.Len(t, two.Doors, 1)

	_, err = c.Get("missing")
	assert.ErrorIs(t, err, ErrUnknownLayout)
}

func TestLoadLayouts_DirOverrides(t *testing.T) {
	dir := fstest.MapFS{
		"studio.yaml": {Data: []byte("name: studio\nfloor: {width: 5, depth: 5}\nspawn: [1, 0, 1]\n")},
		"lab.yaml":    {Data: []byte("name: lab\nfloor: {width: 8, depth: 8}\nspawn: [0, 0, 0]\n")},
		"notes.txt":   {Data: []byte("ignored")},
	}

	c, err := LoadLayouts(dir)
	require.NoError(t, err)
	assert.Len(t, c.All(), 4)

	studio, err := c.Get("studio")
	require.NoError(t, err)
	assert.Equal(t, [3]float32{1, 0, 1}, studio.Spawn)
}

func TestParseLayout_SchemaErrors(t *testing.T) {
	tests := []struct {
		name  string
		doc   string
		field string
	}{
		{"missing spawn", "name: x\nfloor: {width: 1, depth: 1}\n", "(root)"},
		{"bad vector", "name: x\nfloor: {width: 1, depth: 1}\nspawn: [0, 0]\n", "spawn"},
		{"zero wall size", "name: x\nfloor: {width: 1, depth: 1}\nspawn: [0,0,0]\nwalls: [{center: [0,0,0], size: [0,1,1]}]\n", "walls.0.size.0"},
		{"unknown field", "name: x\nfloor: {width: 1, depth: 1}\nspawn: [0,0,0]\ncolour: red\n", "(root)"},
		{"bad name", "name: X Y\nfloor: {width: 1, depth: 1}\nspawn: [0,0,0]\n", "name"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseLayout("test.yaml", []byte(tt.doc))
			var verr *ValidationError
			require.ErrorAs(t, err, &verr)
			fields := make([]string, 0, len(verr.Errors))
			for _, fe := range verr.Errors {
				fields = append(fields, fe.Field)
			}
			assert.Contains(t, fields, tt.field)
		})
	}
}

func TestParseLayout_InvalidYAML(t *testing.T) {
	_, err := ParseLayout("bad.yaml", []byte("name: [unterminated"))
	require.Error(t, err)

	_, err = ParseLayout("empty.yaml", []byte(""))
	var verr *ValidationError
	assert.ErrorAs(t, err, &verr)
}
