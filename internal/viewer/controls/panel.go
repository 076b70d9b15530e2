// Package controls is the viewer's control panel: brightness and saturation
// sliders, lighting presets, and the scene actions bound to keys.
package controls

import (
	"errors"
	"fmt"
	"math"

	"go.uber.org/zap"

	"github.com/Faultbox/glbview/internal/viewer/lighting"
	"github.com/Faultbox/glbview/internal/viewer/loader"
)

// Slider steps and ranges.
const (
	BrightnessStep = 1.0
	SaturationStep = 0.05
	SaturationMin  = 0.0
	SaturationMax  = 2.0
)

// Status messages for panel actions.
const (
	StatusRecentered = "View recentered"
	StatusDownload   = "GLB download would be implemented here with proper export logic"
)

// ErrDownloadUnavailable is returned by Download; exporting is not supported.
var ErrDownloadUnavailable = errors.New(StatusDownload)

// Surface displays panel state. Every registered surface sees every change.
type Surface interface {
	ShowBrightness(value float64, label string)
	ShowSaturation(value float64, label string)
	ShowStatus(text string)
}

// Recenterer frames the current model.
type Recenterer interface {
	Recenter() bool
}

// Fullscreener toggles fullscreen display.
type Fullscreener interface {
	ToggleFullscreen() error
}

// Capturer saves the current frame and returns where it went.
type Capturer interface {
	Capture() (string, error)
}

// Options are the panel's optional collaborators.
type Options struct {
	Scene      Recenterer
	Fullscreen Fullscreener
	Screenshot Capturer
	Logger     *zap.Logger
}

// Panel drives a lighting controller and mirrors its state to surfaces.
type Panel struct {
	lights   *lighting.Controller
	opts     Options
	log      *zap.Logger
	surfaces []Surface
	status   string
}

// NewPanel creates a panel over lights.
func NewPanel(lights *lighting.Controller, opts Options) *Panel {
	log := opts.Logger
	if log == nil {
		log = zap.NewNop()
	}
	return &Panel{lights: lights, opts: opts, log: log}
}

// AddSurface registers s and brings it up to date.
func (p *Panel) AddSurface(s Surface) {
	p.surfaces = append(p.surfaces, s)
	p.showBrightness(s)
	p.showSaturation(s)
	s.ShowStatus(p.status)
}

// Status returns the last status text.
func (p *Panel) Status() string { return p.status }

// SetStatus shows a loader status. It implements loader.StatusSink.
func (p *Panel) SetStatus(s loader.Status) {
	p.ShowStatus(string(s))
}

// ShowStatus sets the status text on every surface.
func (p *Panel) ShowStatus(text string) {
	p.status = text
	for _, s := range p.surfaces {
		s.ShowStatus(text)
	}
}

// SetBrightness moves the brightness slider.
func (p *Panel) SetBrightness(b float64) lighting.Levels {
	levels := p.lights.SetBrightness(b)
	p.syncBrightness()
	return levels
}

// SetSaturation moves the saturation slider. The value is passed through as is.
func (p *Panel) SetSaturation(s float64) {
	p.lights.SetSaturation(s)
	p.syncSaturation()
}

// NudgeBrightness moves brightness by steps slider steps.
func (p *Panel) NudgeBrightness(steps int) lighting.Levels {
	return p.SetBrightness(p.lights.Brightness() + float64(steps)*BrightnessStep)
}

// NudgeSaturation moves saturation by steps slider steps, within the slider range.
func (p *Panel) NudgeSaturation(steps int) {
	s := p.lights.Saturation() + float64(steps)*SaturationStep
	s = math.Round(s*100) / 100
	p.SetSaturation(math.Max(SaturationMin, math.Min(SaturationMax, s)))
}

// ApplyPreset applies a named preset.
func (p *Panel) ApplyPreset(name string) error {
	if _, err := p.lights.ApplyPresetByName(name); err != nil {
		return err
	}
	p.syncBrightness()
	p.syncSaturation()
	p.log.Debug("preset applied", zap.String("preset", name))
	return nil
}

// Reset restores the default lighting.
func (p *Panel) Reset() {
	p.lights.Reset()
	p.syncBrightness()
	p.syncSaturation()
}

// Recenter frames the model. It reports whether a model was present.
// Without a model it does nothing, so the load status stays visible.
func (p *Panel) Recenter() bool {
	if p.opts.Scene == nil || !p.opts.Scene.Recenter() {
		p.log.Debug("recenter skipped: no model")
		return false
	}
	p.ShowStatus(StatusRecentered)
	return true
}

// ToggleFullscreen switches between windowed and fullscreen display.
func (p *Panel) ToggleFullscreen() error {
	if p.opts.Fullscreen == nil {
		return errors.New("fullscreen is not available")
	}
	if err := p.opts.Fullscreen.ToggleFullscreen(); err != nil {
		p.log.Warn("fullscreen toggle failed", zap.Error(err))
		return err
	}
	return nil
}

// Screenshot captures the current frame.
func (p *Panel) Screenshot() (string, error) {
	if p.opts.Screenshot == nil {
		return "", errors.New("screenshots are not available")
	}
	path, err := p.opts.Screenshot.Capture()
	if err != nil {
		p.ShowStatus("Screenshot failed")
		return "", fmt.Errorf("screenshot: %w", err)
	}
	p.ShowStatus("Screenshot saved: " + path)
	return path, nil
}

// Download would export the model as GLB. It always fails.
func (p *Panel) Download() error {
	p.ShowStatus(StatusDownload)
	return ErrDownloadUnavailable
}

func (p *Panel) syncBrightness() {
	for _, s := range p.surfaces {
		p.showBrightness(s)
	}
}

func (p *Panel) syncSaturation() {
	for _, s := range p.surfaces {
		p.showSaturation(s)
	}
}

func (p *Panel) showBrightness(s Surface) {
	s.ShowBrightness(p.lights.Brightness(), p.lights.BrightnessLabel())
}

func (p *Panel) showSaturation(s Surface) {
	s.ShowSaturation(p.lights.Saturation(), p.lights.SaturationLabel())
}
