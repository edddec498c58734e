// Package renderer sequences a frame: shadow pass, lit scene, sky, present.
package renderer

import (
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/Faultbox/prism/internal/engine/entity"
	"github.com/Faultbox/prism/internal/engine/gfx"
	"github.com/Faultbox/prism/internal/engine/lighting"
	"github.com/Faultbox/prism/internal/engine/shadow"
	"github.com/Faultbox/prism/internal/engine/sky"
	"github.com/Faultbox/prism/internal/logger"
	"github.com/Faultbox/prism/pkg/math"
)

// DefaultClearColor is the back buffer clear colour.
var DefaultClearColor = [4]float32{0.4, 0.6, 0.75, 0}

// ErrFrameInProgress is returned when DrawFrame is entered while a frame is
// being drawn.
var ErrFrameInProgress = errors.New("frame in progress")

// Phase is the renderer's position within a frame.
type Phase int

const (
	PhaseIdle Phase = iota
	PhaseShadow
	PhaseMain
)

func (p Phase) String() string {
	switch p {
	case PhaseIdle:
		return "idle"
	case PhaseShadow:
		return "shadow"
	case PhaseMain:
		return "main"
	default:
		return "unknown"
	}
}

// Config holds renderer configuration.
type Config struct {
	Width      int
	Height     int
	VSync      bool
	ClearColor [4]float32

	// ValidateBindings logs material/program binding mismatches the first
	// time each material is drawn.
	ValidateBindings bool
}

// Frame is everything drawn in one frame.
type Frame struct {
	Camera   entity.View
	Entities []*entity.Entity
	Ambient  math.Vec3
	Lights   []lighting.Light
	Sky      *sky.Sky // optional

	// BeforePresent runs after everything is drawn, while the back buffer
	// still holds the frame.
	BeforePresent func(ctx gfx.Context)
}

// validator is implemented by *material.Material.
type validator interface {
	LogIssues(frameSupplied ...string) int
}

// Renderer draws frames through a graphics context.
type Renderer struct {
	ctx      gfx.Context
	shadow   *shadow.Pass
	config   Config
	phase    Phase
	viewport gfx.Viewport

	validated map[entity.Surface]struct{}
}

// New creates a renderer drawing through ctx. pass may be nil to skip shadows.
func New(ctx gfx.Context, pass *shadow.Pass, cfg Config) *Renderer {
	if cfg.ClearColor == ([4]float32{}) {
		cfg.ClearColor = DefaultClearColor
	}
	r := &Renderer{
		ctx:       ctx,
		shadow:    pass,
		config:    cfg,
		validated: make(map[entity.Surface]struct{}),
	}
	r.Resize(cfg.Width, cfg.Height)
	return r
}

// Phase returns the current frame phase.
func (r *Renderer) Phase() Phase { return r.phase }

// Viewport returns the full-window viewport.
func (r *Renderer) Viewport() gfx.Viewport { return r.viewport }

// SetVSync toggles presentation sync.
func (r *Renderer) SetVSync(on bool) { r.config.VSync = on }

// SetClearColor changes the back buffer clear colour.
func (r *Renderer) SetClearColor(c [4]float32) { r.config.ClearColor = c }

// Resize handles window resize.
func (r *Renderer) Resize(width, height int) {
	r.config.Width = width
	r.config.Height = height
	r.viewport = gfx.Viewport{Width: width, Height: height}
	logger.Debug("renderer resized",
		zap.Int("width", width),
		zap.Int("height", height),
	)
}

// DrawFrame renders f and presents it. A lost device is returned as
// gfx.ErrDeviceLost so the caller can rebuild its resources.
func (r *Renderer) DrawFrame(f Frame) error {
	if r.phase != PhaseIdle {
		return fmt.Errorf("%w: phase %s", ErrFrameInProgress, r.phase)
	}
	defer func() { r.phase = PhaseIdle }()

	ctx := r.ctx
	ctx.SetRenderTargets(nil)
	ctx.SetViewport(r.viewport)
	ctx.ClearRenderTarget(r.config.ClearColor)
	ctx.ClearDepth(1)

	r.phase = PhaseShadow
	if r.shadow != nil {
		casters := make([]shadow.Caster, len(f.Entities))
		for i, e := range f.Entities {
			casters[i] = e
		}
		r.shadow.Render(ctx, casters, r.viewport)
	}

	r.phase = PhaseMain
	r.bindShadowInputs(f.Entities)
	for _, e := range f.Entities {
		r.validate(e)
		e.Draw(ctx, f.Camera, f.Ambient, f.Lights)
	}
	if f.Sky != nil {
		f.Sky.Draw(ctx, f.Camera)
	}

	// the shadow map is a render target next frame
	ctx.UnbindShaderResources(gfx.MaxShaderResources)
	r.phase = PhaseIdle

	if f.BeforePresent != nil {
		f.BeforePresent(ctx)
	}

	if err := ctx.Present(r.config.VSync); err != nil {
		if errors.Is(err, gfx.ErrDeviceLost) {
			return err
		}
		return fmt.Errorf("present: %w", err)
	}
	return nil
}

// bindShadowInputs hands the shadow map to each distinct program pair once.
func (r *Renderer) bindShadowInputs(entities []*entity.Entity) {
	if r.shadow == nil {
		return
	}
	seen := make(map[[2]gfx.Program]struct{})
	for _, e := range entities {
		s := e.Surface()
		pair := [2]gfx.Program{s.VertexProgram(), s.PixelProgram()}
		if _, ok := seen[pair]; ok {
			continue
		}
		seen[pair] = struct{}{}
		r.shadow.BindMainInputs(pair[0], pair[1])
	}
}

func (r *Renderer) validate(e *entity.Entity) {
	if !r.config.ValidateBindings {
		return
	}
	s := e.Surface()
	if _, ok := r.validated[s]; ok {
		return
	}
	r.validated[s] = struct{}{}
	if v, ok := s.(validator); ok {
		v.LogIssues(shadow.MapName, shadow.SamplerName)
	}
}

// Rebind switches to a rebuilt shadow pass and forgets which materials were
// validated.
func (r *Renderer) Rebind(pass *shadow.Pass) {
	r.shadow = pass
	clear(r.validated)
}
