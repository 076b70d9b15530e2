package app

import (
	"context"
	"errors"
	"os"

	"github.com/sqweek/dialog"
	"go.uber.org/zap"

	"github.com/Faultbox/glbview/internal/viewer/loader"
)

// openModelDialog shows a native file dialog without blocking the frame loop.
// The chosen path ("" when canceled) arrives on a.picked and is loaded by
// pollPicked on the loop goroutine.
func (a *App) openModelDialog() {
	if a.picking {
		return
	}
	a.picking = true

	go func() {
		filename, err := dialog.File().
			Filter("GLB models", "glb").
			Filter("Base64 payloads", "b64", "txt").
			Filter("All Files", "*").
			Title("Open model").
			Load()
		if err != nil {
			if !errors.Is(err, dialog.ErrCancelled) {
				a.log.Warn("file dialog failed", zap.Error(err))
			}
			filename = ""
		}
		a.picked <- filename
	}()
}

func (a *App) pollPicked(ctx context.Context) {
	select {
	case path := <-a.picked:
		a.picking = false
		if path != "" {
			a.openModel(ctx, path)
		}
	default:
	}
}

// openModel loads a .glb file, or a file holding a base64 payload.
func (a *App) openModel(ctx context.Context, path string) {
	data, err := os.ReadFile(path)
	if err != nil {
		a.log.Error("cannot read model file", zap.String("path", path), zap.Error(err))
		a.panel.SetStatus(loader.StatusInvalid)
		return
	}
	a.log.Info("opening model", zap.String("path", path), zap.Int("bytes", len(data)))
	a.tasks = append(a.tasks, a.loader.Start(ctx, loader.PayloadFromFile(data)))
}
