package app

import (
	"github.com/veandco/go-sdl2/sdl"

	"github.com/Faultbox/glbview/internal/viewer/controls"
)

var keyBindings = map[sdl.Scancode]controls.Action{
	sdl.SCANCODE_UP:     controls.ActionBrightnessUp,
	sdl.SCANCODE_DOWN:   controls.ActionBrightnessDown,
	sdl.SCANCODE_RIGHT:  controls.ActionSaturationUp,
	sdl.SCANCODE_LEFT:   controls.ActionSaturationDown,
	sdl.SCANCODE_1:      controls.ActionPresetStudio,
	sdl.SCANCODE_2:      controls.ActionPresetProduct,
	sdl.SCANCODE_3:      controls.ActionPresetDramatic,
	sdl.SCANCODE_R:      controls.ActionReset,
	sdl.SCANCODE_C:      controls.ActionRecenter,
	sdl.SCANCODE_F:      controls.ActionFullscreen,
	sdl.SCANCODE_P:      controls.ActionScreenshot,
	sdl.SCANCODE_G:      controls.ActionDownload,
	sdl.SCANCODE_O:      controls.ActionOpen,
	sdl.SCANCODE_ESCAPE: controls.ActionQuit,
}

// ActionForKey maps a key to its panel action.
func ActionForKey(key sdl.Scancode) controls.Action {
	return keyBindings[key]
}

// Holding a slider key keeps moving it; everything else fires once per press.
func repeatable(a controls.Action) bool {
	switch a {
	case controls.ActionBrightnessUp, controls.ActionBrightnessDown,
		controls.ActionSaturationUp, controls.ActionSaturationDown:
		return true
	}
	return false
}
