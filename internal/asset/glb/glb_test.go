package glb

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/qmuntal/gltf"
	"github.com/qmuntal/gltf/modeler"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Faultbox/glbview/internal/viewer/loader"
	"github.com/Faultbox/glbview/internal/viewer/scene"
	"github.com/Faultbox/glbview/pkg/math"
)

var (
	identityRotation = [4]float32{0, 0, 0, 1}
	unitScale        = [3]float32{1, 1, 1}
)

// encode writes doc as GLB and returns the bytes.
func encode(t *testing.T, doc *gltf.Document) []byte {
	t.Helper()
	path := filepath.Join(t.TempDir(), "model.glb")
	require.NoError(t, gltf.SaveBinary(doc, path))
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	return data
}

// triangleDoc is a two-node scene: a translated parent with a textured
// triangle child. The triangle has no normals.
func triangleDoc() *gltf.Document {
	doc := gltf.NewDocument()
	pos := modeler.WritePosition(doc, [][3]float32{{0, 0, 0}, {2, 0, 0}, {0, 4, 0}})
	idx := modeler.WriteIndices(doc, []uint32{0, 1, 2})

	doc.Textures = []*gltf.Texture{{Name: "albedo"}}
	doc.Materials = []*gltf.Material{{
		Name: "paint",
		PBRMetallicRoughness: &gltf.PBRMetallicRoughness{
			BaseColorFactor:  &[4]float32{1, 0, 0, 1},
			BaseColorTexture: &gltf.TextureInfo{Index: 0},
		},
		EmissiveFactor: [3]float32{0.1, 0.2, 0.3},
	}}
	doc.Meshes = []*gltf.Mesh{{
		Name: "tri",
		Primitives: []*gltf.Primitive{{
			Attributes: map[string]uint32{gltf.POSITION: pos},
			Indices:    gltf.Index(idx),
			Material:   gltf.Index(0),
		}},
	}}
	doc.Nodes = []*gltf.Node{
		{
			Name:        "body",
			Children:    []uint32{1},
			Translation: [3]float32{10, 0, 0},
			Rotation:    identityRotation,
			Scale:       unitScale,
		},
		{
			Name:     "shell",
			Mesh:     gltf.Index(0),
			Rotation: identityRotation,
			Scale:    unitScale,
		},
	}
	doc.Scenes[0].Nodes = []uint32{0}
	return doc
}

func TestParseBuildsHierarchy(t *testing.T) {
	root, err := Parse(context.Background(), encode(t, triangleDoc()))
	require.NoError(t, err)
	require.NotNil(t, root)

	require.Len(t, root.Children, 1)
	body := root.Children[0]
	assert.Equal(t, "body", body.Name)
	assert.Equal(t, math.V3(10, 0, 0), body.Position)
	assert.Nil(t, body.Matrix)

	require.Len(t, body.Children, 1)
	shell := body.Children[0]
	assert.Same(t, body, shell.Parent())
	require.NotNil(t, shell.Mesh)

	geom := shell.Mesh.Geometry
	assert.Len(t, geom.Positions, 3)
	assert.Equal(t, []uint32{0, 1, 2}, geom.Indices)
	assert.Equal(t, []scene.Group{{Start: 0, Count: 3, MaterialIndex: 0}}, geom.Groups)
	assert.Equal(t, math.V3(0, 0, 0), geom.Bounds.Min)
	assert.Equal(t, math.V3(2, 4, 0), geom.Bounds.Max)

	box := scene.BoundingBox(root)
	assert.Equal(t, math.V3(10, 0, 0), box.Min)
	assert.Equal(t, math.V3(12, 4, 0), box.Max)
}

func TestParseGeneratesMissingNormals(t *testing.T) {
	root, err := Parse(context.Background(), encode(t, triangleDoc()))
	require.NoError(t, err)

	mesh := root.Children[0].Children[0].Mesh
	require.Len(t, mesh.Geometry.Normals, 3)
	for _, n := range mesh.Geometry.Normals {
		assert.InDelta(t, 1.0, math.FromArray(n).Length(), 1e-5)
	}
	require.Len(t, mesh.Materials, 1)
	assert.True(t, mesh.Materials[0].FlatShading, "meshes without normals start flat shaded")
}

func TestParseKeepsAuthoredNormals(t *testing.T) {
	doc := gltf.NewDocument()
	tri := [][3]float32{{0, 0, 0}, {1, 0, 0}, {0, 1, 0}}
	lit := modeler.WritePosition(doc, tri)
	normals := modeler.WriteNormal(doc, [][3]float32{{1, 0, 0}, {1, 0, 0}, {1, 0, 0}})
	bare := modeler.WritePosition(doc, tri)
	doc.Materials = []*gltf.Material{{Name: "bare"}}
	doc.Meshes = []*gltf.Mesh{{
		Name: "mixed",
		Primitives: []*gltf.Primitive{
			{Attributes: map[string]uint32{gltf.POSITION: lit, gltf.NORMAL: normals}},
			{Attributes: map[string]uint32{gltf.POSITION: bare}, Material: gltf.Index(0)},
		},
	}}
	doc.Nodes = []*gltf.Node{{Name: "mixed", Mesh: gltf.Index(0), Rotation: identityRotation, Scale: unitScale}}
	doc.Scenes[0].Nodes = []uint32{0}

	root, err := Parse(context.Background(), encode(t, doc))
	require.NoError(t, err)

	mesh := root.Children[0].Mesh
	geom := mesh.Geometry
	require.Len(t, geom.Normals, 6)
	for i := 0; i < 3; i++ {
		assert.Equal(t, [3]float32{1, 0, 0}, geom.Normals[i], "authored normal %d", i)
	}
	for i := 3; i < 6; i++ {
		assert.Equal(t, [3]float32{0, 0, 1}, geom.Normals[i], "generated normal %d", i)
	}
	assert.Equal(t, []uint32{0, 1, 2, 3, 4, 5}, geom.Indices)

	require.Len(t, mesh.Materials, 2)
	assert.False(t, mesh.Materials[0].FlatShading)
	assert.True(t, mesh.Materials[1].FlatShading)
}

func TestParseOcclusionMap(t *testing.T) {
	doc := triangleDoc()
	doc.Textures = append(doc.Textures, &gltf.Texture{Name: "ao"})
	doc.Materials[0].OcclusionTexture = &gltf.OcclusionTexture{Index: gltf.Index(1)}

	root, err := Parse(context.Background(), encode(t, doc))
	require.NoError(t, err)

	mat := root.Children[0].Children[0].Mesh.Materials[0]
	require.NotNil(t, mat.AOMap)
	assert.Equal(t, "ao", mat.AOMap.Name)
	assert.Equal(t, scene.ColorSpaceNone, mat.AOMap.ColorSpace)
}

func TestParseMaterials(t *testing.T) {
	root, err := Parse(context.Background(), encode(t, triangleDoc()))
	require.NoError(t, err)

	mat := root.Children[0].Children[0].Mesh.Materials[0]
	assert.Equal(t, "paint", mat.Name)
	assert.Equal(t, [4]float32{1, 0, 0, 1}, mat.Color)
	assert.Equal(t, [3]float32{0.1, 0.2, 0.3}, mat.Emissive)
	require.NotNil(t, mat.Map)
	assert.Equal(t, "albedo", mat.Map.Name)
	assert.Equal(t, scene.ColorSpaceNone, mat.Map.ColorSpace)
	assert.Nil(t, mat.EmissiveMap)
}

func TestParseMatrixNode(t *testing.T) {
	doc := triangleDoc()
	m := math.Translate(0, 5, 0)
	doc.Nodes[0].Matrix = [16]float32(m)

	root, err := Parse(context.Background(), encode(t, doc))
	require.NoError(t, err)

	body := root.Children[0]
	require.NotNil(t, body.Matrix)
	assert.Equal(t, m, *body.Matrix)

	box := scene.BoundingBox(root)
	assert.Equal(t, math.V3(0, 5, 0), box.Min)
}

func TestParseNoScene(t *testing.T) {
	doc := gltf.NewDocument()
	doc.Scene = nil
	doc.Scenes = nil

	root, err := Parse(context.Background(), encode(t, doc))
	assert.NoError(t, err)
	assert.Nil(t, root)
}

func TestParseRejectsGarbage(t *testing.T) {
	_, err := Parse(context.Background(), []byte("definitely not a glb"))
	assert.Error(t, err)
}

func TestBuildDetectsCycles(t *testing.T) {
	doc := gltf.NewDocument()
	doc.Nodes = []*gltf.Node{
		{Name: "a", Children: []uint32{1}, Rotation: identityRotation, Scale: unitScale},
		{Name: "b", Children: []uint32{0}, Rotation: identityRotation, Scale: unitScale},
	}
	doc.Scenes[0].Nodes = []uint32{0}

	_, err := Build(doc)
	assert.ErrorIs(t, err, ErrNodeCycle)
}

func TestLoaderReadsBlob(t *testing.T) {
	blobs := loader.NewBlobStore()
	url := blobs.CreateURL(encode(t, triangleDoc()), loader.MimeGLB)

	root, err := New(blobs, nil).Load(context.Background(), url)
	require.NoError(t, err)
	require.NotNil(t, root)
	assert.Len(t, root.Meshes(), 1)

	blobs.Revoke(url)
	_, err = New(blobs, nil).Load(context.Background(), url)
	assert.ErrorIs(t, err, loader.ErrBlobNotFound)
}

func TestLoaderHonorsCanceledContext(t *testing.T) {
	blobs := loader.NewBlobStore()
	url := blobs.CreateURL(encode(t, triangleDoc()), loader.MimeGLB)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := New(blobs, nil).Load(ctx, url)
	assert.ErrorIs(t, err, context.Canceled)
}
