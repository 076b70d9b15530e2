package lighting

import (
	"errors"
	"fmt"
	"sort"

	"go.uber.org/zap"
)

// Default control values when the viewer starts.
const (
	DefaultBrightness = 1.0
	DefaultSaturation = 0.5
)

// ErrUnknownPreset is returned when a preset name is not registered.
var ErrUnknownPreset = errors.New("unknown lighting preset")

// Rig is the part of the scene the controller drives.
type Rig interface {
	SetExposure(exposure float64)
	SetLightIntensity(role Role, intensity float64)
	SetSaturation(saturation float64)
}

// Preset is a named (brightness, saturation) pair.
type Preset struct {
	Name       string
	Brightness float64
	Saturation float64
}

// Built-in presets.
var (
	PresetStudio   = Preset{Name: "studio", Brightness: 30, Saturation: 0.8}
	PresetProduct  = Preset{Name: "product", Brightness: 80, Saturation: 1.2}
	PresetDramatic = Preset{Name: "dramatic", Brightness: 15, Saturation: 1.5}
	PresetReset    = Preset{Name: "reset", Brightness: DefaultBrightness, Saturation: DefaultSaturation}
)

var presets = map[string]Preset{
	PresetStudio.Name:   PresetStudio,
	PresetProduct.Name:  PresetProduct,
	PresetDramatic.Name: PresetDramatic,
	PresetReset.Name:    PresetReset,
}

// LookupPreset finds a built-in preset by name.
func LookupPreset(name string) (Preset, bool) {
	p, ok := presets[name]
	return p, ok
}

// PresetNames returns the built-in preset names, sorted.
func PresetNames() []string {
	names := make([]string, 0, len(presets))
	for name := range presets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Controller owns the brightness and saturation state and pushes it onto a Rig.
type Controller struct {
	rig        Rig
	log        *zap.Logger
	brightness float64
	saturation float64
	levels     Levels
}

// NewController creates a controller at the default control values.
// Nothing is written to the rig until the first change or Refresh.
func NewController(rig Rig, log *zap.Logger) *Controller {
	if log == nil {
		log = zap.NewNop()
	}
	return &Controller{
		rig:        rig,
		log:        log,
		brightness: DefaultBrightness,
		saturation: DefaultSaturation,
		levels:     Response(DefaultBrightness),
	}
}

// Brightness returns the current brightness (always within the slider range).
func (c *Controller) Brightness() float64 { return c.brightness }

// Saturation returns the current saturation as given by the caller.
func (c *Controller) Saturation() float64 { return c.saturation }

// Levels returns the most recently computed curve output.
func (c *Controller) Levels() Levels { return c.levels }

// SetBrightness stores b (clamped to the slider range) and recomputes the lighting cascade.
func (c *Controller) SetBrightness(b float64) Levels {
	c.brightness = ClampBrightness(b)
	return c.updateLighting()
}

// SetSaturation stores s verbatim and reapplies the display filter.
func (c *Controller) SetSaturation(s float64) {
	c.saturation = s
	c.updateSaturation()
}

// ApplyPreset sets both values and then recomputes lighting and saturation.
func (c *Controller) ApplyPreset(p Preset) Levels {
	c.brightness = ClampBrightness(p.Brightness)
	c.saturation = p.Saturation
	c.log.Debug("applying lighting preset",
		zap.String("preset", p.Name),
		zap.Float64("brightness", c.brightness),
		zap.Float64("saturation", c.saturation),
	)
	levels := c.updateLighting()
	c.updateSaturation()
	return levels
}

// ApplyPresetByName applies a built-in preset.
func (c *Controller) ApplyPresetByName(name string) (Levels, error) {
	p, ok := LookupPreset(name)
	if !ok {
		return c.levels, fmt.Errorf("%w: %q", ErrUnknownPreset, name)
	}
	return c.ApplyPreset(p), nil
}

// Reset restores the default control values.
func (c *Controller) Reset() Levels {
	return c.ApplyPreset(PresetReset)
}

// Refresh pushes the current state onto the rig again.
func (c *Controller) Refresh() Levels {
	levels := c.updateLighting()
	c.updateSaturation()
	return levels
}

// BrightnessLabel returns the brightness label text.
func (c *Controller) BrightnessLabel() string { return BrightnessLabel(c.brightness) }

// SaturationLabel returns the saturation label text.
func (c *Controller) SaturationLabel() string { return SaturationLabel(c.saturation) }

func (c *Controller) updateLighting() Levels {
	c.levels = Response(c.brightness)
	c.rig.SetExposure(c.levels.Exposure)
	for _, role := range Roles {
		c.rig.SetLightIntensity(role, c.levels.Intensity(role))
	}
	c.log.Debug("lighting updated",
		zap.Float64("brightness", c.brightness),
		zap.Float64("exposure", c.levels.Exposure),
		zap.Float64("ambient", c.levels.Ambient),
	)
	return c.levels
}

func (c *Controller) updateSaturation() {
	c.rig.SetSaturation(c.saturation)
}
