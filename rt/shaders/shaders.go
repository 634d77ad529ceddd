package shaders

import (
	_ "embed"
)

// Textured mesh program: vs_main reads the camera at group 1, fs_main samples
// the texture at group 0.
//
//go:embed textured.wgsl
var TexturedWGSL string
