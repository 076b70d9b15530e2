// Package renderer draws a viewer scene with OpenGL.
//
// Each frame renders the scene into an offscreen target (exposure, tone
// mapping, sRGB output), then presents it to the window through the
// saturation display filter. Screenshots read the offscreen target, so
// they do not include the filter.
package renderer

import (
	"fmt"
	"math"

	"github.com/go-gl/gl/v4.1-core/gl"
	"go.uber.org/zap"

	"github.com/Faultbox/glbview/internal/engine/framebuffer"
	gpulight "github.com/Faultbox/glbview/internal/engine/lighting"
	"github.com/Faultbox/glbview/internal/engine/shader"
	"github.com/Faultbox/glbview/internal/viewer/scene"
	vmath "github.com/Faultbox/glbview/pkg/math"
)

// DefaultMaxPixelRatio caps the drawable-to-window pixel ratio.
const DefaultMaxPixelRatio = 2.0

// Config holds renderer configuration.
type Config struct {
	Width         int
	Height        int
	MaxPixelRatio float64
}

// Renderer handles all OpenGL rendering.
type Renderer struct {
	config Config
	log    *zap.Logger

	scene   *shader.Program
	present *shader.Program
	target  *framebuffer.Framebuffer
	quadVAO uint32
	meshes  *meshCache

	drawW, drawH int
}

// New creates a renderer. It must be called after the OpenGL context exists.
func New(cfg Config, log *zap.Logger) (*Renderer, error) {
	if log == nil {
		log = zap.NewNop()
	}
	if cfg.MaxPixelRatio <= 0 {
		cfg.MaxPixelRatio = DefaultMaxPixelRatio
	}
	r := &Renderer{config: cfg, log: log, meshes: newMeshCache()}

	if err := gl.Init(); err != nil {
		return nil, fmt.Errorf("failed to initialize OpenGL: %w", err)
	}
	log.Info("OpenGL initialized",
		zap.String("version", gl.GoStr(gl.GetString(gl.VERSION))),
		zap.String("renderer", gl.GoStr(gl.GetString(gl.RENDERER))),
	)

	var err error
	if r.scene, err = shader.New("scene", sceneVertexShader, sceneFragmentShader); err != nil {
		return nil, err
	}
	if r.present, err = shader.New("present", presentVertexShader, presentFragmentShader); err != nil {
		r.scene.Delete()
		return nil, err
	}

	w, h := RenderSize(cfg.Width, cfg.Height, cfg.Width, cfg.Height, cfg.MaxPixelRatio)
	if r.target, err = framebuffer.New(int32(w), int32(h)); err != nil {
		r.Close()
		return nil, err
	}
	r.drawW, r.drawH = cfg.Width, cfg.Height

	// Core profile needs a bound VAO even for attribute-less draws.
	gl.GenVertexArrays(1, &r.quadVAO)

	gl.DepthFunc(gl.LESS)
	return r, nil
}

// Close releases GPU resources.
func (r *Renderer) Close() {
	r.log.Info("closing renderer")
	r.meshes.release()
	if r.target != nil {
		r.target.Destroy()
	}
	if r.quadVAO != 0 {
		gl.DeleteVertexArrays(1, &r.quadVAO)
		r.quadVAO = 0
	}
	if r.scene != nil {
		r.scene.Delete()
	}
	if r.present != nil {
		r.present.Delete()
	}
}

// RenderSize returns the render target size for a window of winW x winH whose
// drawable is drawW x drawH pixels, with the pixel ratio capped at maxRatio.
func RenderSize(winW, winH, drawW, drawH int, maxRatio float64) (int, int) {
	if winW <= 0 || winH <= 0 {
		return max(drawW, 1), max(drawH, 1)
	}
	ratio := float64(drawW) / float64(winW)
	if maxRatio > 0 {
		ratio = math.Min(ratio, maxRatio)
	}
	return max(int(math.Round(float64(winW)*ratio)), 1), max(int(math.Round(float64(winH)*ratio)), 1)
}

// Resize adapts the render target to the window and its drawable size.
func (r *Renderer) Resize(winW, winH, drawW, drawH int) {
	r.drawW, r.drawH = drawW, drawH
	w, h := RenderSize(winW, winH, drawW, drawH, r.config.MaxPixelRatio)
	if r.target.Resize(int32(w), int32(h)) {
		r.log.Debug("renderer resized", zap.Int("width", w), zap.Int("height", h))
	}
}

// Render draws one frame of sc and presents it.
func (r *Renderer) Render(sc *scene.Context) {
	r.drawScene(sc)
	r.drawPresent(sc.Display.Saturation)
}

// ReadScene reads back the last scene pass, before the display filter.
func (r *Renderer) ReadScene() ([]byte, int, int) {
	return r.target.ReadPixels()
}

func (r *Renderer) drawScene(sc *scene.Context) {
	r.target.Bind()
	bg := sc.Renderer.Background
	gl.ClearColor(bg[0], bg[1], bg[2], 1)
	gl.Enable(gl.DEPTH_TEST)
	gl.Clear(gl.COLOR_BUFFER_BIT | gl.DEPTH_BUFFER_BIT)

	p := r.scene
	p.Use()
	view := sc.Camera.ViewMatrix()
	proj := sc.Camera.ProjectionMatrix()
	p.SetMat4("uView", view)
	p.SetMat4("uProjection", proj)

	lights := gpulight.FromEnsemble(&sc.Lights)
	p.SetVec3("uAmbient", lights.Ambient)
	p.SetVec3("uSkyColor", lights.SkyColor)
	p.SetVec3("uGroundColor", lights.GroundColor)
	p.SetInt("uLightCount", int32(lights.Count))
	p.SetVec3Array("uLightDir", lights.Directions())
	p.SetVec3Array("uLightColor", lights.Colors())

	p.SetFloat("uExposure", float32(sc.Renderer.Exposure))
	toneMapping := int32(0)
	if sc.Renderer.ToneMapping == scene.ToneMappingACESFilmic {
		toneMapping = 1
	}
	p.SetInt("uToneMapping", toneMapping)
	srgb := int32(0)
	if sc.Renderer.OutputColorSpace == scene.ColorSpaceSRGB {
		srgb = 1
	}
	p.SetInt("uOutputSRGB", srgb)

	var visit func(n *scene.Node, parent vmath.Mat4)
	visit = func(n *scene.Node, parent vmath.Mat4) {
		world := parent.Mul(n.LocalMatrix())
		if n.Mesh != nil && n.Mesh.Geometry != nil {
			r.drawMesh(n.Mesh, world)
		}
		for _, c := range n.Children {
			visit(c, world)
		}
	}
	visit(sc.Root, vmath.Identity())
	r.meshes.sweep()

	r.target.Unbind()
}

func (r *Renderer) drawMesh(mesh *scene.Mesh, world vmath.Mat4) {
	reupload := false
	for _, m := range mesh.Materials {
		if m != nil && m.NeedsUpdate {
			reupload = true
			m.NeedsUpdate = false
		}
	}
	gm := r.meshes.get(mesh.Geometry, reupload)

	p := r.scene
	p.SetMat4("uModel", world)
	gl.BindVertexArray(gm.vao)

	groups := mesh.Geometry.Groups
	if len(groups) == 0 {
		groups = []scene.Group{{Start: 0, Count: int(gm.indexCount), MaterialIndex: 0}}
	}
	for _, g := range groups {
		var mat *scene.Material
		if g.MaterialIndex >= 0 && g.MaterialIndex < len(mesh.Materials) {
			mat = mesh.Materials[g.MaterialIndex]
		}
		r.applyMaterial(mat)
		gm.draw(g.Start, g.Count)
	}
	gl.BindVertexArray(0)
}

var defaultMaterial = scene.Material{Color: [4]float32{1, 1, 1, 1}}

func (r *Renderer) applyMaterial(m *scene.Material) {
	if m == nil {
		m = &defaultMaterial
	}
	p := r.scene
	p.SetVec4("uBaseColor", m.Color)
	p.SetVec3("uEmissive", m.Emissive)
	flat := int32(0)
	if m.FlatShading {
		flat = 1
	}
	p.SetInt("uFlatShading", flat)
	if m.DoubleSided {
		gl.Disable(gl.CULL_FACE)
	} else {
		gl.Enable(gl.CULL_FACE)
		gl.CullFace(gl.BACK)
	}
}

func (r *Renderer) drawPresent(saturation float64) {
	gl.BindFramebuffer(gl.FRAMEBUFFER, 0)
	gl.Viewport(0, 0, int32(r.drawW), int32(r.drawH))
	gl.Disable(gl.DEPTH_TEST)
	gl.Disable(gl.CULL_FACE)

	p := r.present
	p.Use()
	gl.ActiveTexture(gl.TEXTURE0)
	gl.BindTexture(gl.TEXTURE_2D, r.target.ColorTexture())
	p.SetInt("uScene", 0)
	p.SetMat3("uSaturation", gpulight.SaturationMatrix(saturation))

	gl.BindVertexArray(r.quadVAO)
	gl.DrawArrays(gl.TRIANGLES, 0, 3)
	gl.BindVertexArray(0)
}
