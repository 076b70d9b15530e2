// Package app wires the viewer together and runs its frame loop.
package app

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/Faultbox/glbview/internal/asset/glb"
	"github.com/Faultbox/glbview/internal/config"
	"github.com/Faultbox/glbview/internal/engine/debug"
	"github.com/Faultbox/glbview/internal/engine/input"
	"github.com/Faultbox/glbview/internal/engine/renderer"
	"github.com/Faultbox/glbview/internal/engine/window"
	"github.com/Faultbox/glbview/internal/logger"
	"github.com/Faultbox/glbview/internal/viewer/controls"
	"github.com/Faultbox/glbview/internal/viewer/lighting"
	"github.com/Faultbox/glbview/internal/viewer/loader"
	"github.com/Faultbox/glbview/internal/viewer/scene"
)

// Title prefixes the window title.
const Title = "GLB Viewer"

// App is one viewer window and everything it drives.
type App struct {
	cfg *config.Config
	log *zap.Logger

	window   *window.Window
	renderer *renderer.Renderer
	input    *input.Input

	scene  *scene.Context
	lights *lighting.Controller
	panel  *controls.Panel
	loader *loader.Loader
	tasks  []*loader.Task
	title  *controls.StatusLine

	picked  chan string
	picking bool

	cancel  context.CancelFunc
	running bool
}

// New opens the window and prepares an empty scene.
func New(cfg *config.Config) (*App, error) {
	a := &App{cfg: cfg, log: logger.Named("app"), picked: make(chan string, 1)}

	var err error
	a.window, err = window.New(window.Config{
		Title:      Title,
		Width:      cfg.Graphics.Width,
		Height:     cfg.Graphics.Height,
		Fullscreen: cfg.Graphics.Fullscreen,
		VSync:      cfg.Graphics.VSync,
	}, logger.Named("window"))
	if err != nil {
		return nil, fmt.Errorf("failed to create window: %w", err)
	}

	// The renderer needs the GL context the window created.
	a.renderer, err = renderer.New(renderer.Config{
		Width:         cfg.Graphics.Width,
		Height:        cfg.Graphics.Height,
		MaxPixelRatio: cfg.Graphics.PixelRatio,
	}, logger.Named("renderer"))
	if err != nil {
		a.window.Close()
		return nil, fmt.Errorf("failed to create renderer: %w", err)
	}
	a.input = input.New()

	a.scene = scene.NewContext()
	a.scene.Renderer.Background = cfg.Viewer.Background
	a.lights = lighting.NewController(a.scene, logger.Named("lighting"))

	shots := debug.NewScreenshotCapture(cfg.Screenshot.Dir, cfg.Screenshot.Filename)
	shots.Timestamped = cfg.Screenshot.Timestamped
	a.panel = controls.NewPanel(a.lights, controls.Options{
		Scene:      a.scene,
		Fullscreen: a.window,
		Screenshot: frameCapture{renderer: a.renderer, shots: shots},
		Logger:     logger.Named("controls"),
	})
	a.title = &controls.StatusLine{Prefix: Title}
	a.panel.AddSurface(a.title)

	blobs := loader.NewBlobStore()
	a.loader, err = loader.New(loader.Config{
		Blobs:  blobs,
		Assets: glb.New(blobs, logger.Named("glb")),
		Target: a.scene,
		Lights: a.lights,
		Status: a.panel,
		Logger: logger.Named("loader"),
	})
	if err != nil {
		a.Close()
		return nil, err
	}

	a.applyInitialControls()
	w, h := a.window.GetSize()
	a.resize(w, h)

	a.log.Info("viewer initialized")
	return a, nil
}

func (a *App) applyInitialControls() {
	v := a.cfg.Viewer
	if v.Preset != "" {
		err := a.panel.ApplyPreset(v.Preset)
		if err == nil {
			return
		}
		a.log.Warn("ignoring startup preset", zap.Error(err))
	}
	a.panel.SetBrightness(v.Brightness)
	a.panel.SetSaturation(v.Saturation)
}

// Run loads the configured model and runs the frame loop until quit.
func (a *App) Run() error {
	ctx, cancel := context.WithCancel(context.Background())
	a.cancel = cancel
	defer cancel()

	payload, err := a.cfg.Payload()
	if err != nil {
		// An unreadable payload file is treated like a bad payload.
		a.log.Error("payload unavailable", zap.Error(err))
		a.panel.SetStatus(loader.StatusInvalid)
	} else {
		a.tasks = append(a.tasks, a.loader.Start(ctx, payload))
	}

	a.running = true
	last := time.Now()
	frames := 0
	fpsTimer := time.Now()
	lastTitle := ""

	a.log.Info("starting frame loop")
	for a.running {
		now := time.Now()
		dt := now.Sub(last)
		last = now

		if a.input.Update() {
			a.running = false
			break
		}
		a.handleEvents()
		a.pollPicked(ctx)
		a.pollTasks()

		a.scene.Camera.Update()
		a.renderer.Render(a.scene)
		a.window.SwapBuffers()

		if t := a.title.String(); t != lastTitle {
			a.window.SetTitle(t)
			lastTitle = t
		}

		frames++
		if time.Since(fpsTimer) >= time.Second {
			a.log.Debug("fps", zap.Int("count", frames), zap.Duration("dt", dt))
			frames = 0
			fpsTimer = time.Now()
		}
	}
	return nil
}

// pollTasks applies finished load attempts. When several are in flight the
// last one to finish becomes the current model.
func (a *App) pollTasks() {
	pending := a.tasks[:0]
	for _, t := range a.tasks {
		if !t.Poll() {
			pending = append(pending, t)
			continue
		}
		if err := t.Err(); err != nil && !errors.Is(err, context.Canceled) {
			a.log.Warn("model unavailable", zap.Error(err))
		}
	}
	clear(a.tasks[len(pending):])
	a.tasks = pending
}

func (a *App) handleEvents() {
	cam := a.scene.Camera
	for _, ev := range a.input.Events() {
		switch ev.Type {
		case input.EventWindowResize:
			a.resize(ev.Width, ev.Height)
		case input.EventMouseMove:
			switch {
			case a.input.ButtonHeld(input.ButtonLeft):
				cam.HandleDrag(float32(ev.DeltaX), float32(ev.DeltaY))
			case a.input.ButtonHeld(input.ButtonRight), a.input.ButtonHeld(input.ButtonMiddle):
				cam.HandlePan(float32(ev.DeltaX), float32(ev.DeltaY))
			}
		case input.EventMouseWheel:
			cam.HandleZoom(ev.WheelY)
		case input.EventKeyDown:
			action := ActionForKey(ev.Key)
			if action == controls.ActionNone {
				continue
			}
			if ev.Repeat && !repeatable(action) {
				continue
			}
			switch action {
			case controls.ActionQuit:
				a.running = false
				continue
			case controls.ActionOpen:
				a.openModelDialog()
				continue
			}
			if err := a.panel.Do(action); err != nil {
				a.log.Warn("action failed", zap.Stringer("action", action), zap.Error(err))
			}
		}
	}
}

func (a *App) resize(w, h int) {
	dw, dh := a.window.DrawableSize()
	a.renderer.Resize(w, h, dw, dh)
	a.scene.Camera.SetViewport(w, h)
}

// Close releases the window and GPU resources.
func (a *App) Close() {
	a.log.Info("closing viewer")
	if a.cancel != nil {
		a.cancel()
	}
	if a.renderer != nil {
		a.renderer.Close()
	}
	if a.window != nil {
		a.window.Close()
	}
}

// frameCapture saves the last scene pass through a ScreenshotCapture.
type frameCapture struct {
	renderer *renderer.Renderer
	shots    *debug.ScreenshotCapture
}

func (f frameCapture) Capture() (string, error) {
	pixels, w, h := f.renderer.ReadScene()
	return f.shots.CaptureFromPixels(pixels, w, h)
}
