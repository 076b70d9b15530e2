// Package scene holds the viewer's scene graph and the shared rendering context
// that the lighting controller and model loader operate on.
package scene

import (
	"github.com/Faultbox/glbview/pkg/math"
)

// ColorSpace marks how a texture's stored values are encoded.
type ColorSpace int

const (
	// ColorSpaceNone leaves values untouched (data textures, loader default).
	ColorSpaceNone ColorSpace = iota
	// ColorSpaceLinear marks linear-light color data.
	ColorSpaceLinear
	// ColorSpaceSRGB marks display-encoded color that must be decoded before lighting.
	ColorSpaceSRGB
)

func (c ColorSpace) String() string {
	switch c {
	case ColorSpaceLinear:
		return "linear"
	case ColorSpaceSRGB:
		return "srgb"
	default:
		return "none"
	}
}

// Texture references an image used by a material.
type Texture struct {
	Name       string
	MimeType   string
	ColorSpace ColorSpace
}

// Material describes the surface of a mesh or of one of its groups.
type Material struct {
	Name        string
	Color       [4]float32 // Base color factor (linear RGBA)
	Emissive    [3]float32
	Map         *Texture // Base color map
	EmissiveMap *Texture
	AOMap       *Texture // Occlusion, stored linear
	FlatShading bool
	DoubleSided bool

	// NeedsUpdate asks the renderer to rebuild GPU state for this material.
	NeedsUpdate bool
}

// Group is a contiguous index range drawn with one material of the mesh.
type Group struct {
	Start         int
	Count         int
	MaterialIndex int
}

// Geometry holds vertex data in the mesh's local space.
type Geometry struct {
	Positions [][3]float32
	Normals   [][3]float32
	Indices   []uint32
	Groups    []Group
	Bounds    math.Box3
}

// ComputeBounds recomputes Bounds from Positions.
func (g *Geometry) ComputeBounds() {
	b := math.EmptyBox()
	for _, p := range g.Positions {
		b = b.ExpandByPoint(math.FromArray(p))
	}
	g.Bounds = b
}

// ComputeNormals fills Normals with area-weighted vertex normals.
func (g *Geometry) ComputeNormals() {
	g.Normals = VertexNormals(g.Positions, g.Indices)
}

// VertexNormals returns area-weighted vertex normals for the triangles of
// indices, or for consecutive position triples when indices is empty.
func VertexNormals(positions [][3]float32, indices []uint32) [][3]float32 {
	normals := make([]math.Vec3, len(positions))
	tri := func(a, b, c uint32) {
		if int(a) >= len(positions) || int(b) >= len(positions) || int(c) >= len(positions) {
			return
		}
		p0 := math.FromArray(positions[a])
		p1 := math.FromArray(positions[b])
		p2 := math.FromArray(positions[c])
		n := p1.Sub(p0).Cross(p2.Sub(p0))
		normals[a] = normals[a].Add(n)
		normals[b] = normals[b].Add(n)
		normals[c] = normals[c].Add(n)
	}

	if len(indices) > 0 {
		for i := 0; i+2 < len(indices); i += 3 {
			tri(indices[i], indices[i+1], indices[i+2])
		}
	} else {
		for i := 0; i+2 < len(positions); i += 3 {
			tri(uint32(i), uint32(i+1), uint32(i+2))
		}
	}

	out := make([][3]float32, len(normals))
	for i, n := range normals {
		out[i] = n.Normalize().Array()
	}
	return out
}

// Mesh is renderable geometry with one or more materials.
// With several materials, Geometry.Groups selects the index range for each.
type Mesh struct {
	Geometry      *Geometry
	Materials     []*Material
	CastShadow    bool
	ReceiveShadow bool
}

// Node is an element of the scene graph.
type Node struct {
	Name     string
	Position math.Vec3
	Rotation math.Quat
	Scale    math.Vec3

	// Matrix, when set, replaces Position/Rotation/Scale as the local transform.
	Matrix *math.Mat4

	Mesh     *Mesh
	Children []*Node

	parent *Node
}

// NewNode creates a node with identity transform.
func NewNode(name string) *Node {
	return &Node{
		Name:     name,
		Rotation: math.QuatIdentity(),
		Scale:    math.Vec3{X: 1, Y: 1, Z: 1},
	}
}

// Parent returns the node's parent, or nil for a root.
func (n *Node) Parent() *Node {
	return n.parent
}

// Add attaches child to n, detaching it from any previous parent.
func (n *Node) Add(child *Node) {
	if child == nil || child == n {
		return
	}
	if child.parent != nil {
		child.parent.Remove(child)
	}
	child.parent = n
	n.Children = append(n.Children, child)
}

// Remove detaches child from n. It reports whether child was found.
func (n *Node) Remove(child *Node) bool {
	for i, c := range n.Children {
		if c == child {
			n.Children = append(n.Children[:i], n.Children[i+1:]...)
			child.parent = nil
			return true
		}
	}
	return false
}

// Traverse calls fn for n and every descendant, depth first.
// A nil node has nothing to visit.
func (n *Node) Traverse(fn func(*Node)) {
	if n == nil {
		return
	}
	fn(n)
	for _, c := range n.Children {
		c.Traverse(fn)
	}
}

// LocalMatrix returns the node's transform relative to its parent.
func (n *Node) LocalMatrix() math.Mat4 {
	if n.Matrix != nil {
		return *n.Matrix
	}
	return math.Compose(n.Position, n.Rotation, n.Scale)
}

// WorldMatrix returns the node's transform relative to the scene root.
func (n *Node) WorldMatrix() math.Mat4 {
	m := n.LocalMatrix()
	for p := n.parent; p != nil; p = p.parent {
		m = p.LocalMatrix().Mul(m)
	}
	return m
}

// Meshes returns every mesh in the subtree.
func (n *Node) Meshes() []*Mesh {
	var meshes []*Mesh
	n.Traverse(func(node *Node) {
		if node.Mesh != nil {
			meshes = append(meshes, node.Mesh)
		}
	})
	return meshes
}

// BoundingBox returns the world-space box enclosing all geometry under n.
func BoundingBox(n *Node) math.Box3 {
	box := math.EmptyBox()
	if n == nil {
		return box
	}
	var visit func(node *Node, parent math.Mat4)
	visit = func(node *Node, parent math.Mat4) {
		world := parent.Mul(node.LocalMatrix())
		if node.Mesh != nil && node.Mesh.Geometry != nil {
			box = box.Union(node.Mesh.Geometry.Bounds.Transform(world))
		}
		for _, c := range node.Children {
			visit(c, world)
		}
	}

	start := math.Identity()
	if n.parent != nil {
		start = n.parent.WorldMatrix()
	}
	visit(n, start)
	return box
}
