// Package loader turns a base64 model payload into the viewer's current model.
//
// The pipeline is: decode the payload, expose the bytes to the asset loader
// through a temporary blob URL, parse on a worker goroutine, then normalize
// meshes and insert the result into the scene on the goroutine that owns it.
package loader

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"go.uber.org/zap"

	"github.com/Faultbox/glbview/internal/viewer/lighting"
	"github.com/Faultbox/glbview/internal/viewer/scene"
)

// Status is the user-visible load state.
type Status string

const (
	StatusLoading   Status = "Loading model..."
	StatusNoModel   Status = "No model provided"
	StatusInvalid   Status = "Invalid model"
	StatusLoadError Status = "Load error"
	StatusNoScene   Status = "No scene"
	// StatusReady hides the status line.
	StatusReady Status = ""
)

var (
	// ErrInvalidPayload means the payload was not valid base64.
	ErrInvalidPayload = errors.New("invalid model payload")
	// ErrLoadFailed means the asset loader rejected the model.
	ErrLoadFailed = errors.New("model load failed")
	// ErrNoScene means the asset parsed but contained no scene.
	ErrNoScene = errors.New("model has no scene")
)

// AssetLoader parses the model behind a blob URL into a scene subtree.
// A nil node with a nil error means the asset holds no scene.
type AssetLoader interface {
	Load(ctx context.Context, url string) (*scene.Node, error)
}

// Target receives the loaded model.
type Target interface {
	SetModel(model *scene.Node)
}

// Refresher recomputes lighting and the display filter.
type Refresher interface {
	Refresh() lighting.Levels
}

// StatusSink displays load status.
type StatusSink interface {
	SetStatus(status Status)
}

// StatusFunc adapts a function to StatusSink.
type StatusFunc func(Status)

// SetStatus implements StatusSink.
func (f StatusFunc) SetStatus(s Status) { f(s) }

// Config wires a Loader to its collaborators.
type Config struct {
	Blobs  *BlobStore // defaults to a private store
	Assets AssetLoader
	Target Target
	Lights Refresher   // optional
	Status StatusSink  // optional
	Logger *zap.Logger // optional
}

// Loader runs load attempts against one scene.
type Loader struct {
	blobs  *BlobStore
	assets AssetLoader
	target Target
	lights Refresher
	status StatusSink
	log    *zap.Logger
}

// New creates a loader.
func New(cfg Config) (*Loader, error) {
	if cfg.Assets == nil {
		return nil, errors.New("loader: asset loader is required")
	}
	if cfg.Target == nil {
		return nil, errors.New("loader: target is required")
	}
	l := &Loader{
		blobs:  cfg.Blobs,
		assets: cfg.Assets,
		target: cfg.Target,
		lights: cfg.Lights,
		status: cfg.Status,
		log:    cfg.Logger,
	}
	if l.blobs == nil {
		l.blobs = NewBlobStore()
	}
	if l.status == nil {
		l.status = StatusFunc(func(Status) {})
	}
	if l.log == nil {
		l.log = zap.NewNop()
	}
	return l, nil
}

// Blobs returns the store used for temporary URLs.
func (l *Loader) Blobs() *BlobStore {
	return l.blobs
}

// Load runs a full attempt and blocks until it has been applied.
func (l *Loader) Load(ctx context.Context, payload string) (Status, error) {
	t := l.Start(ctx, payload)
	err := t.Wait(ctx)
	return t.Status(), err
}

// Start begins a load attempt. Decoding happens immediately; parsing runs on a
// worker goroutine. The caller must drive the task with Poll (or Wait) from the
// goroutine that owns the scene; that is where the model is inserted.
func (l *Loader) Start(ctx context.Context, payload string) *Task {
	t := &Task{loader: l, results: make(chan assetResult, 1)}

	if payload == "" {
		l.log.Info("no model payload configured")
		t.complete(StatusNoModel, nil)
		return t
	}

	data, err := DecodePayload(payload)
	if err != nil {
		l.log.Error("decode failed", zap.Error(err))
		t.complete(StatusInvalid, err)
		return t
	}

	t.url = l.blobs.CreateURL(data, MimeGLB)
	l.log.Debug("model payload decoded",
		zap.Int("bytes", len(data)),
		zap.String("url", t.url),
	)
	l.status.SetStatus(StatusLoading)
	t.status = StatusLoading

	go func() {
		model, err := l.assets.Load(ctx, t.url)
		t.release()
		t.results <- assetResult{model: model, err: err}
	}()
	return t
}

type assetResult struct {
	model *scene.Node
	err   error
}

// Task is one load attempt.
type Task struct {
	loader  *Loader
	url     string
	results chan assetResult

	releaseOnce sync.Once

	done   bool
	status Status
	err    error
}

// URL returns the temporary blob URL, or "" if decoding never produced one.
func (t *Task) URL() string { return t.url }

// Done reports whether the attempt has finished and been applied.
func (t *Task) Done() bool { return t.done }

// Status returns the attempt's current status.
func (t *Task) Status() Status { return t.status }

// Err returns the attempt's failure, if any. An empty payload is not a failure.
func (t *Task) Err() error { return t.err }

// Poll applies the parse result if it is ready, without blocking.
// It reports whether the attempt is finished.
func (t *Task) Poll() bool {
	if t.done {
		return true
	}
	select {
	case res := <-t.results:
		t.finish(res)
	default:
	}
	return t.done
}

// Wait blocks until the attempt is applied or ctx ends.
func (t *Task) Wait(ctx context.Context) error {
	if t.done {
		return t.err
	}
	select {
	case res := <-t.results:
		t.finish(res)
		return t.err
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (t *Task) release() {
	t.releaseOnce.Do(func() {
		if t.url != "" {
			t.loader.blobs.Revoke(t.url)
		}
	})
}

func (t *Task) complete(status Status, err error) {
	t.done = true
	t.status = status
	t.err = err
	t.loader.status.SetStatus(status)
}

func (t *Task) finish(res assetResult) {
	l := t.loader

	if res.err != nil {
		l.log.Error("model load error", zap.Error(res.err))
		t.complete(StatusLoadError, fmt.Errorf("%w: %w", ErrLoadFailed, res.err))
		return
	}
	if res.model == nil {
		l.log.Warn("model contains no scene")
		t.complete(StatusNoScene, ErrNoScene)
		return
	}

	stats := PrepareModel(res.model)
	l.target.SetModel(res.model)
	if l.lights != nil {
		l.lights.Refresh()
	}

	l.log.Info("model loaded",
		zap.String("name", res.model.Name),
		zap.Int("meshes", stats.Meshes),
		zap.Int("materials", stats.Materials),
	)
	t.complete(StatusReady, nil)
}
