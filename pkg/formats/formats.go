// Package formats provides parsers for mesh and material interchange formats.
package formats

// Note: OBJ geometry and usemtl groups are implemented in obj.go
// Note: MTL material libraries are implemented in mtl.go
// Note: glTF 2.0 (.gltf and .glb) meshes are implemented in gltf.go
