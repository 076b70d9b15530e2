// Package glb builds viewer scene graphs from binary glTF assets.
package glb

import (
	"bytes"
	"context"
	"errors"
	"fmt"

	"github.com/qmuntal/gltf"
	"github.com/qmuntal/gltf/modeler"
	"go.uber.org/zap"

	"github.com/Faultbox/glbview/internal/viewer/loader"
	"github.com/Faultbox/glbview/internal/viewer/scene"
	"github.com/Faultbox/glbview/pkg/math"
)

// ErrNodeCycle is returned when the node hierarchy is not a tree.
var ErrNodeCycle = errors.New("glb: node hierarchy contains a cycle")

// Opener resolves a blob URL to its bytes.
type Opener interface {
	Open(url string) (loader.Blob, error)
}

// Loader parses GLB data behind blob URLs. It implements loader.AssetLoader.
type Loader struct {
	blobs Opener
	log   *zap.Logger
}

// New creates a GLB loader reading from blobs.
func New(blobs Opener, log *zap.Logger) *Loader {
	if log == nil {
		log = zap.NewNop()
	}
	return &Loader{blobs: blobs, log: log}
}

// Load decodes the GLB behind url and returns its default scene.
// It returns a nil node and nil error when the asset defines no scene.
func (l *Loader) Load(ctx context.Context, url string) (*scene.Node, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	blob, err := l.blobs.Open(url)
	if err != nil {
		return nil, err
	}
	return Parse(ctx, blob.Data)
}

// Parse decodes GLB bytes into a scene subtree.
func Parse(ctx context.Context, data []byte) (*scene.Node, error) {
	doc := new(gltf.Document)
	if err := gltf.NewDecoder(bytes.NewReader(data)).Decode(doc); err != nil {
		return nil, fmt.Errorf("decoding glTF: %w", err)
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return Build(doc)
}

// Build converts a decoded document into a scene subtree rooted at its default scene.
func Build(doc *gltf.Document) (*scene.Node, error) {
	if len(doc.Scenes) == 0 {
		return nil, nil
	}
	sceneIdx := uint32(0)
	if doc.Scene != nil && int(*doc.Scene) < len(doc.Scenes) {
		sceneIdx = *doc.Scene
	}
	gs := doc.Scenes[sceneIdx]

	b := &builder{
		doc:       doc,
		materials: make(map[uint32]*scene.Material),
		visiting:  make(map[uint32]bool),
	}

	root := scene.NewNode(gs.Name)
	if root.Name == "" {
		root.Name = "model"
	}
	for _, idx := range gs.Nodes {
		child, err := b.node(idx)
		if err != nil {
			return nil, err
		}
		root.Add(child)
	}
	return root, nil
}

type builder struct {
	doc       *gltf.Document
	materials map[uint32]*scene.Material
	fallback  *scene.Material
	visiting  map[uint32]bool
}

func (b *builder) node(idx uint32) (*scene.Node, error) {
	if int(idx) >= len(b.doc.Nodes) {
		return nil, fmt.Errorf("glb: node %d out of range", idx)
	}
	if b.visiting[idx] {
		return nil, fmt.Errorf("%w at node %d", ErrNodeCycle, idx)
	}
	b.visiting[idx] = true
	defer delete(b.visiting, idx)

	gn := b.doc.Nodes[idx]
	n := scene.NewNode(gn.Name)
	applyTransform(n, gn)

	if gn.Mesh != nil {
		mesh, err := b.mesh(*gn.Mesh)
		if err != nil {
			return nil, fmt.Errorf("node %d: %w", idx, err)
		}
		n.Mesh = mesh
	}

	for _, c := range gn.Children {
		child, err := b.node(c)
		if err != nil {
			return nil, err
		}
		n.Add(child)
	}
	return n, nil
}

var identity = [16]float32{1, 0, 0, 0, 0, 1, 0, 0, 0, 0, 1, 0, 0, 0, 0, 1}

func applyTransform(n *scene.Node, gn *gltf.Node) {
	if gn.Matrix != identity && gn.Matrix != ([16]float32{}) {
		m := math.Mat4(gn.Matrix)
		n.Matrix = &m
		return
	}
	n.Position = math.FromArray(gn.Translation)
	n.Rotation = math.Quat{X: gn.Rotation[0], Y: gn.Rotation[1], Z: gn.Rotation[2], W: gn.Rotation[3]}.Normalize()
	if gn.Scale != ([3]float32{}) {
		n.Scale = math.FromArray(gn.Scale)
	}
}

func (b *builder) mesh(idx uint32) (*scene.Mesh, error) {
	if int(idx) >= len(b.doc.Meshes) {
		return nil, fmt.Errorf("glb: mesh %d out of range", idx)
	}
	gm := b.doc.Meshes[idx]

	geom := &scene.Geometry{}
	mesh := &scene.Mesh{Geometry: geom}
	bounds := math.EmptyBox()

	for pi, prim := range gm.Primitives {
		if prim.Mode != gltf.PrimitiveTriangles {
			continue
		}
		posIdx, ok := prim.Attributes[gltf.POSITION]
		if !ok {
			continue
		}
		posAcc, err := b.accessor(posIdx)
		if err != nil {
			return nil, err
		}
		positions, err := modeler.ReadPosition(b.doc, posAcc, nil)
		if err != nil {
			return nil, fmt.Errorf("mesh %q primitive %d positions: %w", gm.Name, pi, err)
		}

		var indices []uint32
		if prim.Indices != nil {
			iAcc, err := b.accessor(*prim.Indices)
			if err != nil {
				return nil, err
			}
			indices, err = modeler.ReadIndices(b.doc, iAcc, nil)
			if err != nil {
				return nil, fmt.Errorf("mesh %q primitive %d indices: %w", gm.Name, pi, err)
			}
		} else {
			indices = make([]uint32, len(positions))
			for i := range indices {
				indices[i] = uint32(i)
			}
		}

		var normals [][3]float32
		if nIdx, ok := prim.Attributes[gltf.NORMAL]; ok {
			nAcc, err := b.accessor(nIdx)
			if err != nil {
				return nil, err
			}
			normals, err = modeler.ReadNormal(b.doc, nAcc, nil)
			if err != nil {
				return nil, fmt.Errorf("mesh %q primitive %d normals: %w", gm.Name, pi, err)
			}
		}
		if len(normals) != len(positions) {
			normals = scene.VertexNormals(positions, indices)
		}

		base := uint32(len(geom.Positions))
		start := len(geom.Indices)
		geom.Positions = append(geom.Positions, positions...)
		geom.Normals = append(geom.Normals, normals...)
		for _, i := range indices {
			geom.Indices = append(geom.Indices, base+i)
		}

		mat := b.material(prim.Material)
		if _, hasNormal := prim.Attributes[gltf.NORMAL]; !hasNormal {
			mat.FlatShading = true
		}
		geom.Groups = append(geom.Groups, scene.Group{
			Start:         start,
			Count:         len(indices),
			MaterialIndex: len(mesh.Materials),
		})
		mesh.Materials = append(mesh.Materials, mat)

		bounds = bounds.Union(accessorBounds(posAcc, positions))
	}

	geom.Bounds = bounds
	return mesh, nil
}

func (b *builder) accessor(idx uint32) (*gltf.Accessor, error) {
	if int(idx) >= len(b.doc.Accessors) {
		return nil, fmt.Errorf("glb: accessor %d out of range", idx)
	}
	return b.doc.Accessors[idx], nil
}

// accessorBounds prefers the accessor's declared min/max.
func accessorBounds(acc *gltf.Accessor, positions [][3]float32) math.Box3 {
	if len(acc.Min) == 3 && len(acc.Max) == 3 {
		return math.Box3{
			Min: math.Vec3{X: acc.Min[0], Y: acc.Min[1], Z: acc.Min[2]},
			Max: math.Vec3{X: acc.Max[0], Y: acc.Max[1], Z: acc.Max[2]},
		}
	}
	box := math.EmptyBox()
	for _, p := range positions {
		box = box.ExpandByPoint(math.FromArray(p))
	}
	return box
}

func (b *builder) material(idx *uint32) *scene.Material {
	if idx == nil || int(*idx) >= len(b.doc.Materials) {
		if b.fallback == nil {
			b.fallback = &scene.Material{Name: "default", Color: [4]float32{1, 1, 1, 1}}
		}
		return b.fallback
	}
	if m, ok := b.materials[*idx]; ok {
		return m
	}

	gm := b.doc.Materials[*idx]
	m := &scene.Material{
		Name:        gm.Name,
		Color:       [4]float32{1, 1, 1, 1},
		Emissive:    gm.EmissiveFactor,
		DoubleSided: gm.DoubleSided,
	}
	if pbr := gm.PBRMetallicRoughness; pbr != nil {
		if pbr.BaseColorFactor != nil {
			m.Color = *pbr.BaseColorFactor
		}
		if pbr.BaseColorTexture != nil {
			m.Map = b.texture(pbr.BaseColorTexture.Index)
		}
	}
	if gm.EmissiveTexture != nil {
		m.EmissiveMap = b.texture(gm.EmissiveTexture.Index)
	}
	if occ := gm.OcclusionTexture; occ != nil && occ.Index != nil {
		m.AOMap = b.texture(*occ.Index)
	}
	b.materials[*idx] = m
	return m
}

// texture references are kept as metadata; image data is not decoded.
func (b *builder) texture(idx uint32) *scene.Texture {
	if int(idx) >= len(b.doc.Textures) {
		return nil
	}
	gt := b.doc.Textures[idx]
	t := &scene.Texture{Name: gt.Name}
	if gt.Source != nil && int(*gt.Source) < len(b.doc.Images) {
		img := b.doc.Images[*gt.Source]
		t.MimeType = img.MimeType
		if t.Name == "" {
			t.Name = img.Name
		}
	}
	return t
}
