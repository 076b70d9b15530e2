package main

import (
	"context"
	"fmt"
	"io"

	"github.com/Faultbox/glbview/internal/asset/glb"
	"github.com/Faultbox/glbview/internal/logger"
	"github.com/Faultbox/glbview/internal/viewer/lighting"
	"github.com/Faultbox/glbview/internal/viewer/loader"
	"github.com/Faultbox/glbview/internal/viewer/scene"
)

// inspect runs the viewer's load pipeline against a fresh scene and writes a
// report to w. An empty payload is the idle state, not a failure.
func inspect(ctx context.Context, w io.Writer, payload string) (loader.Status, error) {
	sc := scene.NewContext()
	lights := lighting.NewController(sc, logger.Named("lighting"))
	lights.Refresh()

	blobs := loader.NewBlobStore()
	l, err := loader.New(loader.Config{
		Blobs:  blobs,
		Assets: glb.New(blobs, logger.Named("glb")),
		Target: sc,
		Lights: lights,
		Logger: logger.Named("loader"),
	})
	if err != nil {
		return "", err
	}

	status, err := l.Load(ctx, payload)
	fmt.Fprintf(w, "Status:  %s\n", statusText(status))
	if err != nil {
		fmt.Fprintf(w, "Error:   %v\n", err)
		return status, err
	}

	model := sc.Model()
	if model == nil {
		fmt.Fprintln(w, "Model:   none")
		return status, nil
	}

	meshes := model.Meshes()
	materials := make(map[*scene.Material]bool)
	vertices, triangles := 0, 0
	for _, m := range meshes {
		for _, mat := range m.Materials {
			materials[mat] = true
		}
		vertices += len(m.Geometry.Positions)
		triangles += len(m.Geometry.Indices) / 3
	}

	box := scene.BoundingBox(model)
	size := box.Size()
	fmt.Fprintf(w, "Model:   %q\n", model.Name)
	fmt.Fprintf(w, "Meshes:  %d (%d materials)\n", len(meshes), len(materials))
	fmt.Fprintf(w, "Geometry: %d vertices, %d triangles\n", vertices, triangles)
	if box.IsEmpty() {
		fmt.Fprintln(w, "Bounds:  empty")
	} else {
		fmt.Fprintf(w, "Bounds:  min %v max %v size %.3f x %.3f x %.3f\n",
			box.Min.Array(), box.Max.Array(), size.X, size.Y, size.Z)
	}

	sc.Recenter()
	eye := sc.Camera.Position()
	fmt.Fprintf(w, "Camera:  (%.3f, %.3f, %.3f) looking at origin\n", eye.X, eye.Y, eye.Z)
	fmt.Fprintf(w, "Exposure: %.4f\n", sc.Renderer.Exposure)
	return status, nil
}

func statusText(s loader.Status) string {
	if s == loader.StatusReady {
		return "ready"
	}
	return string(s)
}
