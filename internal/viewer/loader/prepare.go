package loader

import (
	"github.com/Faultbox/glbview/internal/viewer/scene"
)

// PrepareStats counts what PrepareModel touched.
type PrepareStats struct {
	Meshes    int
	Materials int
}

// PrepareModel readies a freshly parsed subtree for display: every mesh casts
// and receives shadows, color-bearing maps are marked sRGB, flat shading is
// turned off, and every material is flagged for re-upload.
func PrepareModel(root *scene.Node) PrepareStats {
	var stats PrepareStats
	if root == nil {
		return stats
	}

	root.Traverse(func(n *scene.Node) {
		mesh := n.Mesh
		if mesh == nil {
			return
		}
		stats.Meshes++
		mesh.CastShadow = true
		mesh.ReceiveShadow = true

		for _, m := range mesh.Materials {
			if m == nil {
				continue
			}
			stats.Materials++
			for _, tex := range []*scene.Texture{m.Map, m.EmissiveMap} {
				if tex != nil {
					tex.ColorSpace = scene.ColorSpaceSRGB
				}
			}
			m.FlatShading = false
			m.NeedsUpdate = true
		}
	})
	return stats
}
