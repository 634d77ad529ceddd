package shaders

import (
	"strings"
	"testing"
)

func TestTexturedWGSL_EntryPoints(t *testing.T) {
	for _, want := range []string{"fn vs_main", "fn fs_main", "@group(0) @binding(0)", "@group(1) @binding(0)"} {
		if !strings.Contains(TexturedWGSL, want) {
			t.Errorf("TexturedWGSL missing %q", want)
		}
	}
}
