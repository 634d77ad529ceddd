package orbitview

import (
	"testing"

	"github.com/go-gl/glfw/v3.3/glfw"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gekko3d/orbitview/rt/core"
)

func TestDefaultBindings(t *testing.T) {
	b := DefaultBindings()
	want := map[glfw.Key]core.Action{
		glfw.KeyW:     core.ActionForward,
		glfw.KeyS:     core.ActionBackward,
		glfw.KeyA:     core.ActionPanLeft,
		glfw.KeyD:     core.ActionPanRight,
		glfw.KeyLeft:  core.ActionOrbitLeft,
		glfw.KeyRight: core.ActionOrbitRight,
		glfw.KeyUp:    core.ActionOrbitUp,
		glfw.KeyDown:  core.ActionOrbitDown,
		glfw.KeyR:     core.ActionReset,
	}
	assert.Len(t, b, len(want))
	for key, action := range want {
		assert.Equal(t, action, b.Action(key), "key %d", key)
	}
	assert.Equal(t, core.ActionNone, b.Action(glfw.KeyEscape))
	assert.Equal(t, core.ActionNone, b.Action(glfw.KeyQ))

	// Every action has at least one key.
	bound := map[core.Action]bool{}
	for _, a := range b {
		bound[a] = true
	}
	for _, a := range core.Actions() {
		assert.True(t, bound[a], "action %s unbound", a)
	}
}

func TestKeyByName(t *testing.T) {
	k, ok := KeyByName(" W ")
	require.True(t, ok)
	assert.Equal(t, glfw.KeyW, k)

	k, ok = KeyByName("page_down")
	require.True(t, ok)
	assert.Equal(t, glfw.KeyPageDown, k)

	_, ok = KeyByName("escape")
	assert.False(t, ok, "escape is reserved for closing the window")
	_, ok = KeyByName("")
	assert.False(t, ok)
}

func TestParseBindings_Conflict(t *testing.T) {
	_, err := ParseBindings(map[string][]string{
		"forward":  {"w"},
		"backward": {"w"},
	})
	assert.ErrorContains(t, err, "bound to both")

	// Same key listed twice for one action is fine.
	b, err := ParseBindings(map[string][]string{"reset": {"r", "R"}})
	require.NoError(t, err)
	assert.Len(t, b, 1)
}

func TestParseBindings_RejectsNone(t *testing.T) {
	_, err := ParseBindings(map[string][]string{"none": {"x"}})
	assert.Error(t, err)
}
