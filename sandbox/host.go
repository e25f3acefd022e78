package sandbox

import (
	"fmt"

	"github.com/charmbracelet/log"

	"github.com/richinsley/liquidglass/adaptive"
	"github.com/richinsley/liquidglass/compositor"
	"github.com/richinsley/liquidglass/config"
	"github.com/richinsley/liquidglass/effect"
	"github.com/richinsley/liquidglass/encoder"
	"github.com/richinsley/liquidglass/geometry"
	"github.com/richinsley/liquidglass/graphics"
	"github.com/richinsley/liquidglass/options"
	"github.com/richinsley/liquidglass/renderer"
	"github.com/richinsley/liquidglass/shader"
)

// Host renders the scene into an offscreen target, runs the glass pipeline over it and
// presents the result.
//
// The target is stored top row first so scene coordinates equal framebuffer coordinates,
// the same convention the glass pipeline captures and draws in. Presenting flips it.
type Host struct {
	ctx       graphics.Context
	gpu       *renderer.Renderer
	opts      *options.HostOptions
	store     *config.Store
	scene     *Scene
	publisher *adaptive.Publisher
	glass     *effect.Orchestrator

	target    *renderer.Framebuffer
	wallpaper *renderer.Framebuffer
	backdrop  graphics.Program
	present   graphics.Program
	frameTime float64
}

// NewHost builds the renderer, the scene and the glass pipeline on ctx, which must be
// current on the calling thread.
func NewHost(ctx graphics.Context, opts *options.HostOptions, store *config.Store) (*Host, error) {
	gpu, err := renderer.NewRenderer(ctx)
	if err != nil {
		return nil, err
	}
	h := &Host{ctx: ctx, gpu: gpu, opts: opts, store: store}

	gles := ctx.IsGLES()
	if h.backdrop, err = gpu.NewProgram(shader.ScreenVertex(gles), shader.BackdropFragment(gles), nil); err != nil {
		return nil, fmt.Errorf("backdrop program: %w", err)
	}
	if h.present, err = gpu.NewProgram(shader.ScreenVertex(gles), shader.BlitFragment(gles), nil); err != nil {
		return nil, fmt.Errorf("present program: %w", err)
	}

	w, ht := ctx.GetFramebufferSize()
	h.scene = NewScene(w, ht)
	h.target = &renderer.Framebuffer{}
	if !h.target.Alloc(w, ht, renderer.FormatRGBA8) {
		return nil, fmt.Errorf("allocate %dx%d render target", w, ht)
	}
	if *opts.Wallpaper != "" {
		if err := h.loadWallpaper(*opts.Wallpaper, w, ht); err != nil {
			return nil, err
		}
	}

	tuning := store.Tuning()
	h.publisher = adaptive.NewPublisher(adaptive.NewFileSink(tuning.SnapshotPath), tuning.PublishInterval)
	h.glass, err = effect.New(gpu, h.scene.Surfaces, store, h.publisher,
		effect.WithTuning(tuning),
		effect.WithCompiler(compositor.TranslateCompiler(gles)),
		effect.WithDamager(effect.DamageFunc(func(box geometry.Box) {
			log.Debug("damage", "box", box)
		})),
	)
	if err != nil {
		return nil, err
	}
	if len(tuning.LayerNamespaces) == 0 {
		h.glass.AddPattern("waybar")
	}
	n := h.glass.AttachAll(h.scene.Handles())
	log.Infof("liquid glass attached to %d surfaces, publishing to %s", n, tuning.SnapshotPath)
	return h, nil
}

func (h *Host) loadWallpaper(path string, w, ht int) error {
	img, err := LoadWallpaper(path, w, ht)
	if err != nil {
		return err
	}
	if h.wallpaper == nil {
		h.wallpaper = &renderer.Framebuffer{}
	}
	if !h.wallpaper.Upload(img) {
		return fmt.Errorf("upload wallpaper %s", path)
	}
	return nil
}

// Scene exposes the scene for key bindings.
func (h *Host) Scene() *Scene { return h.scene }

// Glass exposes the orchestrator for key bindings.
func (h *Host) Glass() *effect.Orchestrator { return h.glass }

// Store exposes the configuration store for key bindings.
func (h *Host) Store() *config.Store { return h.store }

// Now is the time of the last rendered frame.
func (h *Host) Now() float64 { return h.frameTime }

// CloseWindow removes a window from the scene and stops its effect.
func (h *Host) CloseWindow(title string) bool {
	for _, win := range h.scene.Windows() {
		if win.Surface.Title != title {
			continue
		}
		handle := win.Handle
		h.scene.Close(title)
		h.glass.Detach(handle)
		return true
	}
	return false
}

func (h *Host) resize() {
	w, ht := h.ctx.GetFramebufferSize()
	if size := h.target.Size(); size.X == w && size.Y == ht {
		return
	}
	if w <= 0 || ht <= 0 {
		return
	}
	h.target.Alloc(w, ht, renderer.FormatRGBA8)
	h.scene.Resize(w, ht)
	if h.wallpaper != nil {
		if err := h.loadWallpaper(*h.opts.Wallpaper, w, ht); err != nil {
			log.Warnf("reloading wallpaper: %v", err)
		}
	}
	h.glass.WorkspaceChanged()
}

// RenderFrame draws one frame at time t and presents it to the context's framebuffer.
func (h *Host) RenderFrame(t float64) {
	h.frameTime = t
	h.resize()
	h.scene.Step(t)

	h.gpu.BindTarget(h.target)
	h.gpu.DisableBlend()
	size := h.target.Size()
	if h.wallpaper != nil {
		h.gpu.UseProgram(h.present)
		h.gpu.BindTexture(h.wallpaper, 0)
		h.present.SetInt("u_texture", 0)
		h.present.SetInt("u_flip", 0)
	} else {
		h.gpu.UseProgram(h.backdrop)
		h.backdrop.SetFloat("u_time", float32(t))
		h.backdrop.SetVec2("u_resolution", float32(size.X), float32(size.Y))
	}
	h.gpu.DrawScreen()

	frame := effect.Frame{Monitor: h.scene.Monitor, Target: h.target}
	for _, win := range h.scene.Windows() {
		h.glass.Draw(win.Handle, frame, 1)
	}

	screen := h.gpu.Screen()
	h.gpu.BindTarget(screen)
	h.gpu.DisableBlend()
	h.gpu.UseProgram(h.present)
	h.gpu.BindTexture(h.target, 0)
	h.present.SetInt("u_texture", 0)
	h.present.SetInt("u_flip", 1)
	h.gpu.DrawScreen()
}

// Run renders until the window is closed.
func (h *Host) Run() {
	for !h.ctx.ShouldClose() {
		h.RenderFrame(h.ctx.Time())
		h.ctx.EndFrame()
	}
}

// Record renders opts.Duration seconds at opts.FPS on a fixed clock and encodes every frame.
func (h *Host) Record(enc *encoder.Encoder) error {
	total := h.opts.TotalFrames()
	fps := float64(*h.opts.FPS)
	for i := 0; i < total; i++ {
		h.RenderFrame(float64(i) / fps)
		pixels, err := h.gpu.ReadFrame(h.gpu.Screen(), nil)
		if err != nil {
			return fmt.Errorf("read frame %d: %w", i, err)
		}
		if err := enc.Encode(pixels, int64(i)); err != nil {
			return err
		}
		h.ctx.EndFrame()
		if i > 0 && i%int(fps) == 0 {
			log.Debugf("recorded %d/%d frames", i, total)
		}
	}
	return nil
}

// Shutdown detaches every surface, flushes the adaptive colours and frees GPU objects.
func (h *Host) Shutdown() error {
	err := h.glass.Shutdown()
	h.target.Release()
	if h.wallpaper != nil {
		h.wallpaper.Release()
	}
	h.backdrop.Release()
	h.present.Release()
	h.gpu.Shutdown()
	return err
}
