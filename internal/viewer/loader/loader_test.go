package loader

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Faultbox/glbview/internal/viewer/lighting"
	"github.com/Faultbox/glbview/internal/viewer/scene"
)

// fakeAssets resolves the blob, records what it saw and returns a canned result.
type fakeAssets struct {
	blobs *BlobStore
	gate  chan struct{}
	build func(data []byte) (*scene.Node, error)

	seen     []byte
	seenMime string
	calls    int
}

func (f *fakeAssets) Load(ctx context.Context, url string) (*scene.Node, error) {
	f.calls++
	if f.gate != nil {
		select {
		case <-f.gate:
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	blob, err := f.blobs.Open(url)
	if err != nil {
		return nil, err
	}
	f.seen = blob.Data
	f.seenMime = blob.MimeType
	return f.build(blob.Data)
}

func texturedModel() *scene.Node {
	root := scene.NewNode("model")
	child := scene.NewNode("part")
	child.Mesh = &scene.Mesh{
		Geometry: &scene.Geometry{},
		Materials: []*scene.Material{
			{Name: "a", Map: &scene.Texture{}, EmissiveMap: &scene.Texture{}, FlatShading: true},
			{Name: "b", EmissiveMap: &scene.Texture{}, AOMap: &scene.Texture{ColorSpace: scene.ColorSpaceNone}},
		},
	}
	root.Add(child)
	return root
}

type harness struct {
	scene    *scene.Context
	lights   *lighting.Controller
	assets   *fakeAssets
	loader   *Loader
	statuses []Status
}

func newHarness(t *testing.T, build func([]byte) (*scene.Node, error)) *harness {
	t.Helper()
	h := &harness{scene: scene.NewContext()}
	h.lights = lighting.NewController(h.scene, nil)
	blobs := NewBlobStore()
	h.assets = &fakeAssets{blobs: blobs, build: build}

	l, err := New(Config{
		Blobs:  blobs,
		Assets: h.assets,
		Target: h.scene,
		Lights: h.lights,
		Status: StatusFunc(func(s Status) { h.statuses = append(h.statuses, s) }),
	})
	require.NoError(t, err)
	h.loader = l
	return h
}

func okBuild([]byte) (*scene.Node, error) { return texturedModel(), nil }

func TestNewRequiresCollaborators(t *testing.T) {
	_, err := New(Config{Target: scene.NewContext()})
	assert.Error(t, err)
	_, err = New(Config{Assets: &fakeAssets{}})
	assert.Error(t, err)
}

func TestLoadEmptyPayload(t *testing.T) {
	h := newHarness(t, okBuild)

	status, err := h.loader.Load(context.Background(), "")

	assert.NoError(t, err)
	assert.Equal(t, StatusNoModel, status)
	assert.Nil(t, h.scene.Model())
	assert.Equal(t, []Status{StatusNoModel}, h.statuses)
	assert.Zero(t, h.assets.calls)
}

func TestLoadInvalidBase64(t *testing.T) {
	h := newHarness(t, okBuild)
	previous := scene.NewNode("previous")
	h.scene.SetModel(previous)

	status, err := h.loader.Load(context.Background(), "!!not base64!!")

	assert.ErrorIs(t, err, ErrInvalidPayload)
	assert.Equal(t, StatusInvalid, status)
	assert.Same(t, previous, h.scene.Model())
	assert.Zero(t, h.assets.calls)
	assert.Zero(t, h.loader.Blobs().Len())
}

func TestLoadSuccess(t *testing.T) {
	h := newHarness(t, okBuild)
	h.lights.SetBrightness(40)
	h.scene.SetExposure(-1) // must be overwritten by the post-load refresh

	status, err := h.loader.Load(context.Background(), EncodePayload([]byte("glTF-binary")))

	require.NoError(t, err)
	assert.Equal(t, StatusReady, status)
	assert.Equal(t, []Status{StatusLoading, StatusReady}, h.statuses)
	assert.Equal(t, []byte("glTF-binary"), h.assets.seen)
	assert.Equal(t, MimeGLB, h.assets.seenMime)

	model := h.scene.Model()
	require.NotNil(t, model)
	assert.Same(t, model, h.scene.Root.Children[0])
	assert.Equal(t, lighting.Exposure(40), h.scene.Renderer.Exposure)
	assert.Equal(t, h.lights.Saturation(), h.scene.Display.Saturation)
	assert.Zero(t, h.loader.Blobs().Len(), "blob URL must be revoked")
}

func TestLoadNormalizesMaterials(t *testing.T) {
	h := newHarness(t, okBuild)

	_, err := h.loader.Load(context.Background(), EncodePayload([]byte{1, 2, 3}))
	require.NoError(t, err)

	mesh := h.scene.Model().Children[0].Mesh
	assert.True(t, mesh.CastShadow)
	assert.True(t, mesh.ReceiveShadow)

	a, b := mesh.Materials[0], mesh.Materials[1]
	assert.Equal(t, scene.ColorSpaceSRGB, a.Map.ColorSpace)
	assert.Equal(t, scene.ColorSpaceSRGB, a.EmissiveMap.ColorSpace)
	assert.Equal(t, scene.ColorSpaceSRGB, b.EmissiveMap.ColorSpace)
	assert.Equal(t, scene.ColorSpaceNone, b.AOMap.ColorSpace, "data maps keep their encoding")
	assert.False(t, a.FlatShading)
	assert.True(t, a.NeedsUpdate)
	assert.True(t, b.NeedsUpdate)
}

func TestLoadAssetError(t *testing.T) {
	parseErr := errors.New("bad magic")
	h := newHarness(t, func([]byte) (*scene.Node, error) { return nil, parseErr })

	status, err := h.loader.Load(context.Background(), EncodePayload([]byte("junk")))

	assert.ErrorIs(t, err, ErrLoadFailed)
	assert.ErrorIs(t, err, parseErr)
	assert.Equal(t, StatusLoadError, status)
	assert.Nil(t, h.scene.Model())
	assert.Empty(t, h.scene.Root.Children)
	assert.Zero(t, h.loader.Blobs().Len(), "blob URL must be revoked on failure")
}

func TestLoadNoScene(t *testing.T) {
	h := newHarness(t, func([]byte) (*scene.Node, error) { return nil, nil })

	status, err := h.loader.Load(context.Background(), EncodePayload([]byte("empty")))

	assert.ErrorIs(t, err, ErrNoScene)
	assert.Equal(t, StatusNoScene, status)
	assert.Nil(t, h.scene.Model())
	assert.Zero(t, h.loader.Blobs().Len())
}

func TestStartDoesNotInsertUntilPolled(t *testing.T) {
	h := newHarness(t, okBuild)
	h.assets.gate = make(chan struct{})

	task := h.loader.Start(context.Background(), EncodePayload([]byte("async")))
	assert.False(t, task.Poll())
	assert.Equal(t, StatusLoading, task.Status())
	assert.Equal(t, 1, h.loader.Blobs().Len(), "blob stays live while parsing")

	close(h.assets.gate)
	require.Eventually(t, func() bool { return task.Poll() }, time.Second, time.Millisecond)

	assert.NoError(t, task.Err())
	assert.NotNil(t, h.scene.Model())
	assert.Zero(t, h.loader.Blobs().Len())
	assert.True(t, task.Poll(), "finished task stays finished")
}

func TestWaitHonorsContext(t *testing.T) {
	h := newHarness(t, okBuild)
	h.assets.gate = make(chan struct{})

	ctx, cancel := context.WithCancel(context.Background())
	task := h.loader.Start(ctx, EncodePayload([]byte("slow")))
	cancel()

	err := task.Wait(context.Background())
	assert.ErrorIs(t, err, ErrLoadFailed)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Nil(t, h.scene.Model())
	assert.Zero(t, h.loader.Blobs().Len())
}

func TestSecondLoadReplacesModel(t *testing.T) {
	h := newHarness(t, okBuild)

	_, err := h.loader.Load(context.Background(), EncodePayload([]byte("one")))
	require.NoError(t, err)
	first := h.scene.Model()

	_, err = h.loader.Load(context.Background(), EncodePayload([]byte("two")))
	require.NoError(t, err)

	assert.NotSame(t, first, h.scene.Model())
	assert.Len(t, h.scene.Root.Children, 1)
}
