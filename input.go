package orbitview

import (
	"fmt"
	"sort"
	"strings"

	"github.com/go-gl/glfw/v3.3/glfw"

	"github.com/gekko3d/orbitview/rt/core"
)

// Bindings maps physical keys to camera actions. Keys absent from the map
// are reported to the controller as core.ActionNone and ignored.
type Bindings map[glfw.Key]core.Action

// Action returns the action bound to key, or core.ActionNone.
func (b Bindings) Action(key glfw.Key) core.Action {
	if a, ok := b[key]; ok {
		return a
	}
	return core.ActionNone
}

// DefaultKeyNames is the action to key-name table used when a config has
// no bindings section.
func DefaultKeyNames() map[string][]string {
	return map[string][]string{
		core.ActionForward.String():    {"w"},
		core.ActionBackward.String():   {"s"},
		core.ActionPanLeft.String():    {"a"},
		core.ActionPanRight.String():   {"d"},
		core.ActionOrbitLeft.String():  {"left"},
		core.ActionOrbitRight.String(): {"right"},
		core.ActionOrbitUp.String():    {"up"},
		core.ActionOrbitDown.String():  {"down"},
		core.ActionReset.String():      {"r"},
	}
}

func DefaultBindings() Bindings {
	b, err := ParseBindings(DefaultKeyNames())
	if err != nil {
		panic(err)
	}
	return b
}

// ParseBindings resolves action and key names. A key bound to two actions
// is an error.
func ParseBindings(names map[string][]string) (Bindings, error) {
	b := Bindings{}
	actions := make([]string, 0, len(names))
	for a := range names {
		actions = append(actions, a)
	}
	sort.Strings(actions)

	for _, name := range actions {
		action, err := core.ParseAction(name)
		if err != nil {
			return nil, err
		}
		for _, keyName := range names[name] {
			key, ok := KeyByName(keyName)
			if !ok {
				return nil, fmt.Errorf("binding %s: unknown key %q", name, keyName)
			}
			if prev, dup := b[key]; dup && prev != action {
				return nil, fmt.Errorf("key %q bound to both %s and %s", keyName, prev, action)
			}
			b[key] = action
		}
	}
	return b, nil
}

// KeyByName looks up a glfw key by its lowercase name ("w", "left", "f1").
func KeyByName(name string) (glfw.Key, bool) {
	k, ok := keyNames[strings.ToLower(strings.TrimSpace(name))]
	return k, ok
}

var keyNames = map[string]glfw.Key{
	"a":         glfw.KeyA,
	"b":         glfw.KeyB,
	"c":         glfw.KeyC,
	"d":         glfw.KeyD,
	"e":         glfw.KeyE,
	"f":         glfw.KeyF,
	"g":         glfw.KeyG,
	"h":         glfw.KeyH,
	"i":         glfw.KeyI,
	"j":         glfw.KeyJ,
	"k":         glfw.KeyK,
	"l":         glfw.KeyL,
	"m":         glfw.KeyM,
	"n":         glfw.KeyN,
	"o":         glfw.KeyO,
	"p":         glfw.KeyP,
	"q":         glfw.KeyQ,
	"r":         glfw.KeyR,
	"s":         glfw.KeyS,
	"t":         glfw.KeyT,
	"u":         glfw.KeyU,
	"v":         glfw.KeyV,
	"w":         glfw.KeyW,
	"x":         glfw.KeyX,
	"y":         glfw.KeyY,
	"z":         glfw.KeyZ,
	"0":         glfw.Key0,
	"1":         glfw.Key1,
	"2":         glfw.Key2,
	"3":         glfw.Key3,
	"4":         glfw.Key4,
	"5":         glfw.Key5,
	"6":         glfw.Key6,
	"7":         glfw.Key7,
	"8":         glfw.Key8,
	"9":         glfw.Key9,
	"space":     glfw.KeySpace,
	"enter":     glfw.KeyEnter,
	"tab":       glfw.KeyTab,
	"backspace": glfw.KeyBackspace,
	"insert":    glfw.KeyInsert,
	"delete":    glfw.KeyDelete,
	"right":     glfw.KeyRight,
	"left":      glfw.KeyLeft,
	"down":      glfw.KeyDown,
	"up":        glfw.KeyUp,
	"page_up":   glfw.KeyPageUp,
	"page_down": glfw.KeyPageDown,
	"home":      glfw.KeyHome,
	"end":       glfw.KeyEnd,
	"f1":        glfw.KeyF1,
	"f2":        glfw.KeyF2,
	"f3":        glfw.KeyF3,
	"f4":        glfw.KeyF4,
	"f5":        glfw.KeyF5,
	"f6":        glfw.KeyF6,
	"f7":        glfw.KeyF7,
	"f8":        glfw.KeyF8,
	"f9":        glfw.KeyF9,
	"f10":       glfw.KeyF10,
	"f11":       glfw.KeyF11,
	"f12":       glfw.KeyF12,
	"minus":     glfw.KeyMinus,
	"equal":     glfw.KeyEqual,
	"kp_add":    glfw.KeyKPAdd,
	"kp_sub":    glfw.KeyKPSubtract,
	"shift":     glfw.KeyLeftShift,
	"control":   glfw.KeyLeftControl,
	"alt":       glfw.KeyLeftAlt,
}
