package engine

import (
	"context"
	"image"
	"sync"

	"golang.org/x/time/rate"

	"github.com/xiaoguangdong/cover-magic/internal/config"
	"github.com/xiaoguangdong/cover-magic/internal/export"
	"github.com/xiaoguangdong/cover-magic/internal/render"
	"github.com/xiaoguangdong/cover-magic/internal/scheduler"
	"github.com/xiaoguangdong/cover-magic/internal/state"
)

// Engine wires the store, render context, scheduler, renderer and exporter
// into one rendering surface. Configuration changes flow store → scheduler
// debounce → spring targets → animation loop → renderer → sink; export
// bypasses the animation path entirely.
type Engine struct {
	Store    *state.Store
	Ctx      *render.Context
	Renderer *render.Renderer
	Exporter *export.Exporter
	Sink     render.FrameSink
	Logger   Logger

	sched   *scheduler.Scheduler
	limiter *rate.Limiter

	// mu serializes spring stepping and frame composition; the scheduler's
	// debounce and loop goroutines both reach them.
	mu     sync.Mutex
	canvas *image.RGBA
}

func New(store *state.Store, sink render.FrameSink) *Engine {
	ctx := render.NewContext()
	renderer := render.NewRenderer(ctx)
	e := &Engine{
		Store:    store,
		Ctx:      ctx,
		Renderer: renderer,
		Exporter: export.New(renderer),
		Sink:     sink,
		Logger:   NoopLogger{},
		canvas:   image.NewRGBA(image.Rect(0, 0, render.PreviewWidth, render.PreviewHeight)),
		// render-now is throttled to the display refresh rate.
		limiter: rate.NewLimiter(rate.Limit(60), 1),
	}
	e.sched = scheduler.New(e.commit, e.tick)
	store.OnChange = e.sched.Invalidate
	store.OnIconSourceChange = ctx.InvalidateIcons
	return e
}

// Start opens the sink, renders the initial frame and leaves the scheduler
// idle until the first configuration change.
func (e *Engine) Start(ctx context.Context) error {
	e.Renderer.Logger = e.Logger
	e.Exporter.Logger = e.Logger
	e.sched.Logger = e.Logger

	if e.Sink == nil {
		e.Sink = render.NewMemorySink()
	}
	if err := e.Sink.Start(ctx); err != nil {
		e.Logger.Errorf("engine", "sink start error: %v", err)
		return err
	}
	e.sched.Flush()
	return nil
}

func (e *Engine) Stop() error {
	e.sched.Close()
	return e.Sink.Stop()
}

// Updates signals once per committed configuration change.
func (e *Engine) Updates() <-chan struct{} { return e.sched.Updates() }

// RenderNow forces an immediate, non-debounced composite. Calls beyond the
// refresh rate collapse into the already-scheduled frame.
func (e *Engine) RenderNow() {
	if !e.limiter.Allow() {
		return
	}
	e.sched.Flush()
}

// Export produces an encoded image at the requested resolution from the
// current configuration's final values and saves it under dir.
func (e *Engine) Export(dir string, req config.Export) (string, error) {
	cover := e.Store.Snapshot()
	data, name, err := e.Exporter.Export(cover, req)
	if err != nil {
		return "", err
	}
	path, err := e.Exporter.Save(dir, name, data)
	if err != nil {
		return "", err
	}
	e.Logger.Infof("engine", "exported %s (%d bytes)", path, len(data))
	return path, nil
}

// commit applies the latest configuration as spring targets.
func (e *Engine) commit() {
	e.mu.Lock()
	render.SetTargets(e.Ctx.Springs, e.Store.Snapshot())
	e.mu.Unlock()
}

// tick advances the animation and renders one preview frame; a failed pass
// drops the frame and heals on the next tick.
func (e *Engine) tick(dt float64) bool {
	e.mu.Lock()
	defer e.mu.Unlock()

	active := e.Ctx.Springs.StepAll(dt)
	frame := render.BuildFrame(e.Store.Snapshot(), e.Ctx.Springs, 1)
	if err := e.Renderer.Compose(e.canvas, frame); err != nil {
		e.Logger.Errorf("engine", "frame dropped: %v", err)
		return active
	}
	if err := e.Sink.Publish(e.canvas); err != nil {
		e.Logger.Errorf("engine", "publish failed: %v", err)
	}
	return active
}
