// Package effect drives the liquid glass pipeline for every tracked surface: project the
// surface box, capture the background, estimate luminance, publish adaptive colours and
// composite the kernel.
package effect

import (
	"fmt"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	"github.com/richinsley/liquidglass/adaptive"
	"github.com/richinsley/liquidglass/capture"
	"github.com/richinsley/liquidglass/compositor"
	"github.com/richinsley/liquidglass/config"
	"github.com/richinsley/liquidglass/geometry"
	"github.com/richinsley/liquidglass/graphics"
	"github.com/richinsley/liquidglass/luminance"
	"github.com/richinsley/liquidglass/shader"
	"github.com/richinsley/liquidglass/surface"
)

// Damager asks the host to redraw a logical area.
type Damager interface {
	Damage(box geometry.Box)
}

// DamageFunc adapts a function to Damager.
type DamageFunc func(box geometry.Box)

func (f DamageFunc) Damage(box geometry.Box) { f(box) }

// Frame is what the host knows about the pass a surface is drawn in.
type Frame struct {
	Monitor geometry.Monitor
	// Target is the framebuffer being rendered; it holds everything drawn behind the surface.
	Target graphics.Framebuffer
}

// Instance is the effect state for one surface.
type Instance struct {
	ID     uuid.UUID
	Handle surface.Handle
	Kind   surface.Kind

	sampler   *capture.Sampler
	estimator *luminance.Estimator
}

// Luminance returns the last estimate for the surface's background.
func (i *Instance) Luminance() float64 { return i.estimator.Last() }

func (i *Instance) release() { i.sampler.Release() }

type Orchestrator struct {
	mu sync.Mutex

	gpu       graphics.Surface
	surfaces  surface.Resolver
	cfg       config.Source
	publisher *adaptive.Publisher
	comp      *compositor.Compositor
	patterns  *Patterns
	instances map[surface.Handle]*Instance

	tuning  config.Tuning
	kernel  shader.Kernel
	compile compositor.Compiler
	damager Damager
	logger  *log.Logger
	now     func() time.Time
	start   time.Time
	closed  bool
}

type Option func(*Orchestrator)

func WithLogger(l *log.Logger) Option {
	return func(o *Orchestrator) {
		if l != nil {
			o.logger = l
		}
	}
}

// WithTuning sets the luminance cadence, region prefix and initial layer patterns.
func WithTuning(t config.Tuning) Option {
	return func(o *Orchestrator) { o.tuning = t }
}

func WithKernel(k shader.Kernel) Option {
	return func(o *Orchestrator) { o.kernel = k }
}

// WithCompiler selects how the kernel becomes a program; see compositor.TranslateCompiler.
func WithCompiler(c compositor.Compiler) Option {
	return func(o *Orchestrator) { o.compile = c }
}

func WithDamager(d Damager) Option {
	return func(o *Orchestrator) { o.damager = d }
}

// WithClock replaces time.Now for the kernel's time uniform.
func WithClock(now func() time.Time) Option {
	return func(o *Orchestrator) {
		if now != nil {
			o.now = now
		}
	}
}

// New builds the effect kernel. An error means the effect cannot run at all and should be
// reported to the operator once.
func New(gpu graphics.Surface, surfaces surface.Resolver, cfg config.Source, publisher *adaptive.Publisher, opts ...Option) (*Orchestrator, error) {
	o := &Orchestrator{
		gpu:       gpu,
		surfaces:  surfaces,
		cfg:       cfg,
		publisher: publisher,
		instances: make(map[surface.Handle]*Instance),
		tuning:    config.Defaults().Adaptive,
		kernel:    shader.LiquidGlass(),
		logger:    log.Default(),
		now:       time.Now,
	}
	for _, opt := range opts {
		opt(o)
	}

	comp, err := compositor.New(gpu, o.kernel, o.compile)
	if err != nil {
		return nil, fmt.Errorf("liquid glass disabled: %w", err)
	}
	o.comp = comp
	o.patterns = NewPatterns(o.tuning.LayerNamespaces...)
	o.start = o.now()
	return o, nil
}

func (o *Orchestrator) Patterns() *Patterns { return o.patterns }

// Attach starts tracking h. It reports false for an unresolvable handle, a surface that is
// already tracked, or a layer surface whose namespace matches no pattern.
func (o *Orchestrator) Attach(h surface.Handle) bool {
	s, ok := o.surfaces.Resolve(h)
	if !ok {
		return false
	}

	o.mu.Lock()
	defer o.mu.Unlock()
	if o.closed {
		return false
	}
	if _, dup := o.instances[h]; dup {
		return false
	}
	if s.Kind() == surface.KindLayer && !o.patterns.Match(s.Name()) {
		return false
	}

	inst := &Instance{
		ID:        uuid.New(),
		Handle:    h,
		Kind:      s.Kind(),
		sampler:   capture.NewSampler(o.gpu),
		estimator: luminance.NewEstimator(o.gpu, o.tuning.LuminanceInterval),
	}
	o.instances[h] = inst
	o.logger.Debug("glass attached", "id", inst.ID, "surface", h, "kind", inst.Kind, "name", s.Name())
	return true
}

// AttachAll attaches every handle and returns how many were newly tracked.
func (o *Orchestrator) AttachAll(handles []surface.Handle) int {
	n := 0
	for _, h := range handles {
		if o.Attach(h) {
			n++
		}
	}
	return n
}

// Detach stops tracking h and releases its capture buffer. Instances whose surfaces have
// gone away are pruned at the same time.
func (o *Orchestrator) Detach(h surface.Handle) bool {
	o.mu.Lock()
	defer o.mu.Unlock()

	inst, ok := o.instances[h]
	if ok {
		o.detachLocked(inst)
	}
	for _, other := range o.instances {
		if _, live := o.surfaces.Resolve(other.Handle); !live {
			o.detachLocked(other)
		}
	}
	return ok
}

func (o *Orchestrator) detachLocked(inst *Instance) {
	inst.release()
	delete(o.instances, inst.Handle)
	o.logger.Debug("glass detached", "id", inst.ID, "surface", inst.Handle)
}

// WorkspaceChanged requests a full redraw of every tracked surface. Cached luminance is kept.
func (o *Orchestrator) WorkspaceChanged() {
	if o.damager == nil {
		return
	}
	o.mu.Lock()
	defer o.mu.Unlock()
	for _, inst := range o.instances {
		if s, ok := o.surfaces.Resolve(inst.Handle); ok {
			o.damager.Damage(geometry.DamageBox(surface.Geometry(s)))
		}
	}
}

// Draw runs the pipeline for one surface in the current pass. It reports whether the glass
// was composited. Every failure is a silent skip for this frame.
func (o *Orchestrator) Draw(h surface.Handle, f Frame, alpha float32) bool {
	params := o.cfg.Params()
	if !params.Enabled {
		return false
	}

	o.mu.Lock()
	defer o.mu.Unlock()

	inst, ok := o.instances[h]
	if !ok {
		return false
	}
	s, ok := o.surfaces.Resolve(h)
	if !ok {
		o.detachLocked(inst)
		return false
	}
	if inst.Kind == surface.KindLayer && !o.patterns.Match(s.Name()) {
		return false
	}
	if f.Target == nil || !f.Target.Allocated() {
		return false
	}

	res := geometry.Project(surface.Geometry(s), f.Monitor)
	if !inst.sampler.Sample(f.Target, res.Shader) {
		return false
	}

	lum := inst.estimator.Update(inst.sampler.Buffer(), res.Shader)
	if region, ok := adaptive.RegionKey(s.Name(), o.tuning.RegionPrefix); ok && o.publisher != nil {
		o.publisher.Report(region, lum)
	}

	return o.comp.Composite(inst.sampler.Buffer(), f.Target, compositor.Frame{
		Monitor: f.Monitor,
		Device:  res.Device,
		Shader:  res.Shader,
		Radius:  float32(s.Rounding()),
		Time:    float32(o.now().Sub(o.start).Seconds()),
		Alpha:   alpha,
	}, compositor.ParamsFrom(params))
}

// AddPattern enables the effect for matching layer namespaces.
func (o *Orchestrator) AddPattern(pattern string) { o.patterns.Add(pattern) }

// RemovePattern stops matching pattern. Already attached layers stop drawing but stay
// tracked until detached.
func (o *Orchestrator) RemovePattern(pattern string) { o.patterns.Remove(pattern) }

// ClearPatterns removes every pattern, releases all layer instances and forgets every
// adaptive colour region.
func (o *Orchestrator) ClearPatterns() {
	o.patterns.Clear()

	o.mu.Lock()
	for _, inst := range o.instances {
		if inst.Kind == surface.KindLayer {
			o.detachLocked(inst)
		}
	}
	o.mu.Unlock()

	if o.publisher != nil {
		o.publisher.Reset()
	}
}

// Instance returns the state for h, if tracked.
func (o *Orchestrator) Instance(h surface.Handle) (*Instance, bool) {
	o.mu.Lock()
	defer o.mu.Unlock()
	inst, ok := o.instances[h]
	return inst, ok
}

func (o *Orchestrator) Instances() int {
	o.mu.Lock()
	defer o.mu.Unlock()
	return len(o.instances)
}

// Shutdown releases every instance and the kernel, then publishes the final colours.
func (o *Orchestrator) Shutdown() error {
	o.mu.Lock()
	for _, inst := range o.instances {
		o.detachLocked(inst)
	}
	o.comp.Release()
	o.closed = true
	o.mu.Unlock()

	if o.publisher == nil {
		return nil
	}
	if err := o.publisher.Flush(); err != nil {
		return fmt.Errorf("final adaptive colour publish: %w", err)
	}
	return nil
}
