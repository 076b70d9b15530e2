package controls

import (
	"fmt"

	"github.com/Faultbox/glbview/internal/viewer/lighting"
)

// Action is a panel command triggered by a key or button.
type Action int

const (
	ActionNone Action = iota
	ActionBrightnessUp
	ActionBrightnessDown
	ActionSaturationUp
	ActionSaturationDown
	ActionPresetStudio
	ActionPresetProduct
	ActionPresetDramatic
	ActionReset
	ActionRecenter
	ActionFullscreen
	ActionScreenshot
	ActionDownload
	ActionOpen
	ActionQuit
)

var actionNames = map[Action]string{
	ActionNone:           "none",
	ActionBrightnessUp:   "brightness_up",
	ActionBrightnessDown: "brightness_down",
	ActionSaturationUp:   "saturation_up",
	ActionSaturationDown: "saturation_down",
	ActionPresetStudio:   "preset_studio",
	ActionPresetProduct:  "preset_product",
	ActionPresetDramatic: "preset_dramatic",
	ActionReset:          "reset",
	ActionRecenter:       "recenter",
	ActionFullscreen:     "fullscreen",
	ActionScreenshot:     "screenshot",
	ActionDownload:       "download",
	ActionOpen:           "open",
	ActionQuit:           "quit",
}

func (a Action) String() string {
	if name, ok := actionNames[a]; ok {
		return name
	}
	return fmt.Sprintf("action(%d)", int(a))
}

// Do runs a. ActionOpen, ActionQuit and ActionNone need the host window and
// are left to the caller.
func (p *Panel) Do(a Action) error {
	switch a {
	case ActionBrightnessUp:
		p.NudgeBrightness(1)
	case ActionBrightnessDown:
		p.NudgeBrightness(-1)
	case ActionSaturationUp:
		p.NudgeSaturation(1)
	case ActionSaturationDown:
		p.NudgeSaturation(-1)
	case ActionPresetStudio:
		return p.ApplyPreset(lighting.PresetStudio.Name)
	case ActionPresetProduct:
		return p.ApplyPreset(lighting.PresetProduct.Name)
	case ActionPresetDramatic:
		return p.ApplyPreset(lighting.PresetDramatic.Name)
	case ActionReset:
		p.Reset()
	case ActionRecenter:
		p.Recenter()
	case ActionFullscreen:
		return p.ToggleFullscreen()
	case ActionScreenshot:
		_, err := p.Screenshot()
		return err
	case ActionDownload:
		return p.Download()
	}
	return nil
}
