// Package shaders provides embedded GLSL shader sources.
package shaders

import _ "embed"

// PhongVertexShader is the vertex shader for lit, multi-material meshes.
//
//go:embed phong.vert
var PhongVertexShader string

// PhongFragmentShader is the fragment shader for lit, multi-material meshes.
//
//go:embed phong.frag
var PhongFragmentShader string

// TexturedVertexShader is the vertex shader for unlit textured objects.
//
//go:embed textured.vert
var TexturedVertexShader string

// TexturedFragmentShader is the fragment shader for unlit textured objects.
//
//go:embed textured.frag
var TexturedFragmentShader string
