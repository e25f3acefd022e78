package effect

import (
	"errors"
	"image/color"
	"sync"
	"testing"
	"time"

	"github.com/richinsley/liquidglass/adaptive"
	"github.com/richinsley/liquidglass/config"
	"github.com/richinsley/liquidglass/geometry"
	"github.com/richinsley/liquidglass/graphics/graphicstest"
	"github.com/richinsley/liquidglass/surface"
)

var monitor = geometry.Monitor{
	Scale:           1,
	Size:            geometry.Vec2{X: 1920, Y: 1080},
	TransformedSize: geometry.Vec2{X: 1920, Y: 1080},
}

type memSink struct {
	mu     sync.Mutex
	writes [][]byte
}

func (s *memSink) Write(data []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.writes = append(s.writes, data)
	return nil
}

type damageLog struct{ boxes []geometry.Box }

func (d *damageLog) Damage(box geometry.Box) { d.boxes = append(d.boxes, box) }

type harness struct {
	rec     *graphicstest.Recorder
	table   *surface.Table
	store   *config.Store
	sink    *memSink
	pub     *adaptive.Publisher
	damage  *damageLog
	orch    *Orchestrator
	target  *graphicstest.Framebuffer
	monitor geometry.Monitor
}

func newHarness(t *testing.T, mutate func(*config.Config)) *harness {
	t.Helper()
	cfg := config.Defaults()
	cfg.Adaptive.LuminanceInterval = 1
	cfg.Adaptive.PublishInterval = 1
	if mutate != nil {
		mutate(&cfg)
	}
	h := &harness{
		rec:     graphicstest.NewRecorder(),
		table:   surface.NewTable(),
		store:   config.Fixed(cfg),
		sink:    &memSink{},
		damage:  &damageLog{},
		monitor: monitor,
	}
	h.pub = adaptive.NewPublisher(h.sink, cfg.Adaptive.PublishInterval)
	clock := time.Unix(1000, 0)
	orch, err := New(h.rec, h.table, h.store, h.pub,
		WithTuning(cfg.Adaptive),
		WithDamager(h.damage),
		WithClock(func() time.Time { clock = clock.Add(time.Second); return clock }),
	)
	if err != nil {
		t.Fatal(err)
	}
	h.orch = orch
	h.target = h.rec.NewTarget(1920, 1080, color.RGBA{R: 255, G: 255, B: 255, A: 255})
	h.rec.Reset()
	return h
}

func (h *harness) frame() Frame { return Frame{Monitor: h.monitor, Target: h.target} }

func window(title string) *surface.Static {
	return &surface.Static{
		Title:        title,
		Bounds:       geometry.Box{X: 100, Y: 100, W: 200, H: 100},
		CornerRadius: 14,
	}
}

func TestDuplicateAttach(t *testing.T) {
	h := newHarness(t, nil)
	a := h.table.Insert(window("a"))

	if !h.orch.Attach(a) {
		t.Fatal("first Attach failed")
	}
	if h.orch.Attach(a) {
		t.Error("duplicate Attach reported success")
	}
	if n := h.orch.Instances(); n != 1 {
		t.Errorf("instances = %d, want 1", n)
	}
}

func TestAttachUnresolvable(t *testing.T) {
	h := newHarness(t, nil)
	a := h.table.Insert(window("a"))
	h.table.Remove(a)
	if h.orch.Attach(a) {
		t.Error("attached a removed surface")
	}
}

func TestDetachThenDrawIsNoop(t *testing.T) {
	h := newHarness(t, nil)
	a := h.table.Insert(window("a"))
	h.orch.Attach(a)

	if !h.orch.Draw(a, h.frame(), 1) {
		t.Fatal("Draw failed on an attached surface")
	}
	inst, _ := h.orch.Instance(a)
	capture := inst.sampler.Buffer().(*graphicstest.Framebuffer)

	if !h.orch.Detach(a) {
		t.Fatal("Detach failed")
	}
	if !capture.Released {
		t.Error("capture buffer not released on detach")
	}

	h.rec.Reset()
	if h.orch.Draw(a, h.frame(), 1) {
		t.Error("Draw after Detach returned true")
	}
	if len(h.rec.Calls) != 0 {
		t.Errorf("Draw after Detach issued GPU calls: %v", h.rec.Calls)
	}
}

func TestDrawPipeline(t *testing.T) {
	h := newHarness(t, nil)
	a := h.table.Insert(window("molten-glass-notch"))
	h.orch.Attach(a)

	if !h.orch.Draw(a, h.frame(), 0.8) {
		t.Fatal("Draw returned false")
	}
	if h.rec.Count("blit") != 1 || h.rec.Draws != 1 || h.rec.Blends != 1 {
		t.Errorf("calls = %v", h.rec.Calls)
	}
	if h.rec.Scissored() {
		t.Error("scissor left set")
	}
	if h.rec.Reads == 0 {
		t.Error("no luminance readback with interval 1")
	}

	r, ok := h.pub.Region("notch")
	if !ok {
		t.Fatal("region not reported")
	}
	if r.Luminance < 0.99 || r.IsDark {
		t.Errorf("region = %+v, want bright and light", r)
	}
	if len(h.sink.writes) != 1 {
		t.Errorf("publishes = %d, want 1", len(h.sink.writes))
	}

	prog := h.rec.Programs[0]
	if v, _ := prog.Float("radius"); v != 14 {
		t.Errorf("radius = %v", v)
	}
	want := config.Defaults().Glass.GlassOpacity * 0.8
	if v, _ := prog.Float("glassOpacity"); v != want {
		t.Errorf("glassOpacity = %v, want %v", v, want)
	}
	if v, _ := prog.Float("time"); v <= 0 {
		t.Errorf("time = %v, want elapsed seconds", v)
	}
}

func TestUnprefixedSurfaceDoesNotReport(t *testing.T) {
	h := newHarness(t, nil)
	a := h.table.Insert(window("firefox"))
	h.orch.Attach(a)
	h.orch.Draw(a, h.frame(), 1)
	if st := h.pub.Stats(); st.Reports != 0 {
		t.Errorf("reports = %d for a surface without the region prefix", st.Reports)
	}
}

func TestDisabledShortCircuit(t *testing.T) {
	h := newHarness(t, func(c *config.Config) { c.Glass.Enabled = false })
	a := h.table.Insert(window("molten-glass-notch"))
	h.orch.Attach(a)

	for i := 0; i < 5; i++ {
		if h.orch.Draw(a, h.frame(), 1) {
			t.Fatal("Draw returned true while disabled")
		}
	}
	if len(h.rec.Calls) != 0 {
		t.Errorf("GPU calls while disabled: %v", h.rec.Calls)
	}
	if st := h.pub.Stats(); st.Reports != 0 {
		t.Errorf("luminance reported while disabled: %+v", st)
	}

	h.store.SetEnabled(true)
	if !h.orch.Draw(a, h.frame(), 1) {
		t.Error("Draw did not resume after re-enabling")
	}
}

func TestWeakHandleDetachesOnDraw(t *testing.T) {
	h := newHarness(t, nil)
	a := h.table.Insert(window("a"))
	h.orch.Attach(a)
	h.orch.Draw(a, h.frame(), 1)
	inst, _ := h.orch.Instance(a)
	capture := inst.sampler.Buffer().(*graphicstest.Framebuffer)

	h.table.Remove(a)
	if h.orch.Draw(a, h.frame(), 1) {
		t.Error("Draw succeeded for a destroyed surface")
	}
	if h.orch.Instances() != 0 {
		t.Error("instance kept after its surface disappeared")
	}
	if !capture.Released {
		t.Error("capture buffer leaked")
	}
}

func TestDetachPrunesDeadHandles(t *testing.T) {
	h := newHarness(t, nil)
	a := h.table.Insert(window("a"))
	b := h.table.Insert(window("b"))
	h.orch.AttachAll([]surface.Handle{a, b})
	h.table.Remove(b)

	h.orch.Detach(a)
	if n := h.orch.Instances(); n != 0 {
		t.Errorf("instances = %d, want dead handle pruned", n)
	}
}

func TestDrawSkipsUnusableFrames(t *testing.T) {
	h := newHarness(t, nil)
	a := h.table.Insert(window("a"))
	h.orch.Attach(a)

	if h.orch.Draw(a, Frame{Monitor: h.monitor}, 1) {
		t.Error("Draw succeeded without a target")
	}

	s, _ := h.table.Resolve(a)
	s.(*surface.Static).Bounds.W = 0
	if h.orch.Draw(a, h.frame(), 1) {
		t.Error("Draw succeeded for a zero-width surface")
	}
	if h.rec.Draws != 0 {
		t.Error("kernel drawn for an unusable frame")
	}
	if h.orch.Instances() != 1 {
		t.Error("transient failure detached the instance")
	}
}

func TestLayerSurfacesNeedPattern(t *testing.T) {
	h := newHarness(t, nil)
	bar := &surface.Static{SurfaceKind: surface.KindLayer, Title: "waybar", Bounds: geometry.Box{W: 1920, H: 32}}
	lh := h.table.Insert(bar)

	if h.orch.Attach(lh) {
		t.Fatal("layer attached without a matching pattern")
	}
	h.orch.AddPattern("way*")
	if !h.orch.Attach(lh) {
		t.Fatal("layer not attached after adding a pattern")
	}
	if !h.orch.Draw(lh, h.frame(), 1) {
		t.Error("layer Draw failed")
	}

	h.orch.RemovePattern("way*")
	if h.orch.Draw(lh, h.frame(), 1) {
		t.Error("layer drawn after its pattern was removed")
	}
}

func TestClearPatternsResetsLayersAndRegions(t *testing.T) {
	h := newHarness(t, func(c *config.Config) { c.Adaptive.LayerNamespaces = []string{"molten-glass-*"} })
	layer := h.table.Insert(&surface.Static{
		SurfaceKind: surface.KindLayer,
		Title:       "molten-glass-dock",
		Bounds:      geometry.Box{X: 0, Y: 1000, W: 600, H: 64},
	})
	win := h.table.Insert(window("molten-glass-notch"))
	h.orch.AttachAll([]surface.Handle{layer, win})
	h.orch.Draw(layer, h.frame(), 1)
	h.orch.Draw(win, h.frame(), 1)
	if len(h.pub.Snapshot()) != 2 {
		t.Fatalf("snapshot = %v", h.pub.Snapshot())
	}

	h.orch.ClearPatterns()
	if _, ok := h.orch.Instance(layer); ok {
		t.Error("layer instance survived ClearPatterns")
	}
	if _, ok := h.orch.Instance(win); !ok {
		t.Error("window instance removed by ClearPatterns")
	}
	if len(h.pub.Snapshot()) != 0 {
		t.Error("regions survived ClearPatterns")
	}
	if len(h.orch.Patterns().List()) != 0 {
		t.Error("patterns survived ClearPatterns")
	}
}

func TestWorkspaceChangedDamagesEveryInstance(t *testing.T) {
	h := newHarness(t, nil)
	w1 := window("a")
	w1.Floating = geometry.Vec2{X: 5}
	w2 := window("b")
	w2.WorkspaceOff = geometry.Vec2{X: 1920}
	w2.Animating = true
	h.orch.AttachAll([]surface.Handle{h.table.Insert(w1), h.table.Insert(w2)})
	h.orch.Draw(h.table.Handles()[0], h.frame(), 1)
	inst, _ := h.orch.Instance(h.table.Handles()[0])
	before := inst.Luminance()

	h.orch.WorkspaceChanged()
	if len(h.damage.boxes) != 2 {
		t.Fatalf("damage requests = %d, want 2", len(h.damage.boxes))
	}
	found := map[geometry.Box]bool{}
	for _, b := range h.damage.boxes {
		found[b] = true
	}
	if !found[geometry.Box{X: 105, Y: 100, W: 200, H: 100}] || !found[geometry.Box{X: 2020, Y: 100, W: 200, H: 100}] {
		t.Errorf("damage boxes = %v", h.damage.boxes)
	}
	if inst.Luminance() != before {
		t.Error("workspace change touched cached luminance")
	}
}

func TestShutdown(t *testing.T) {
	h := newHarness(t, func(c *config.Config) { c.Adaptive.PublishInterval = 100 })
	a := h.table.Insert(window("molten-glass-notch"))
	h.orch.Attach(a)
	h.orch.Draw(a, h.frame(), 1)

	if err := h.orch.Shutdown(); err != nil {
		t.Fatal(err)
	}
	if h.orch.Instances() != 0 {
		t.Error("instances survived Shutdown")
	}
	if len(h.sink.writes) != 1 {
		t.Errorf("final publish count = %d, want 1", len(h.sink.writes))
	}
	if !h.rec.Programs[0].Released {
		t.Error("kernel not released")
	}
	if h.orch.Attach(a) {
		t.Error("Attach accepted after Shutdown")
	}
}

func TestNewReportsKernelFailure(t *testing.T) {
	rec := graphicstest.NewRecorder()
	rec.FailProgram = errors.New("compile error")
	_, err := New(rec, surface.NewTable(), config.Fixed(config.Defaults()), nil)
	if !errors.Is(err, rec.FailProgram) {
		t.Errorf("New error = %v", err)
	}
}

func TestMatchPattern(t *testing.T) {
	tests := []struct {
		pat, ns string
		want    bool
	}{
		{"waybar", "waybar", true},
		{"waybar", "waybar-2", false},
		{"molten-*", "molten-notch", true},
		{"molten-*", "notch", false},
		{"*-bar", "top-bar", true},
		{"*-bar", "bar-top", false},
		{"*", "anything", true},
	}
	for _, tt := range tests {
		if got := matchPattern(tt.pat, tt.ns); got != tt.want {
			t.Errorf("matchPattern(%q, %q) = %v, want %v", tt.pat, tt.ns, got, tt.want)
		}
	}

	p := NewPatterns("b", "", "a*")
	if got := p.List(); len(got) != 2 || got[0] != "a*" {
		t.Errorf("List = %v", got)
	}
}
