// Package game implements the main loop: events, camera, drawing and
// device-loss recovery.
package game

import (
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/Faultbox/prism/internal/assets"
	"github.com/Faultbox/prism/internal/config"
	"github.com/Faultbox/prism/internal/engine/camera"
	"github.com/Faultbox/prism/internal/engine/debug"
	"github.com/Faultbox/prism/internal/engine/gfx"
	"github.com/Faultbox/prism/internal/engine/input"
	"github.com/Faultbox/prism/internal/engine/renderer"
	"github.com/Faultbox/prism/internal/engine/scene"
	"github.com/Faultbox/prism/internal/engine/shaders"
	"github.com/Faultbox/prism/internal/engine/shadow"
	"github.com/Faultbox/prism/internal/logger"
)

// Window is the part of the OS window the loop needs. *window.Window
// implements it.
type Window interface {
	// PollEvents begins a new input frame and feeds it the pending events.
	PollEvents(in *input.State) input.Events
	GetSize() (width, height int)
	SetTitle(title string)
}

// Game is the main game instance.
type Game struct {
	config *config.Config
	window Window
	device gfx.Device
	ctx    gfx.Context
	assets *assets.Manager
	desc   *scene.Description

	input    *input.State
	camera   *camera.Camera
	pass     *shadow.Pass
	scene    *scene.Scene
	renderer *renderer.Renderer
	shots    *debug.ScreenshotCapture

	width, height int
	running       bool
	screenshot    bool

	stats frameStats
	now   func() time.Time
}

// New loads the scene description and creates every GPU resource it needs.
func New(cfg *config.Config, win Window, device gfx.Device, ctx gfx.Context) (*Game, error) {
	w, h := win.GetSize()
	logger.Info("initializing game",
		zap.String("title", cfg.Window.Title),
		zap.Int("width", w),
		zap.Int("height", h),
	)

	g := &Game{
		config: cfg,
		window: win,
		device: device,
		ctx:    ctx,
		input:  input.New(),
		shots:  debug.NewScreenshotCapture(cfg.Debug.ScreenshotDir, "prism"),
		width:  w,
		height: h,
		now:    time.Now,
	}

	g.assets = assets.NewManager()
	g.assets.AddFS("shaders", shaders.FS())
	if root := cfg.Scene.AssetRoot; root != "" {
		if err := g.assets.AddDir(root); err != nil {
			// the embedded scene needs no files
			logger.Warn("asset root unavailable", zap.String("path", root), zap.Error(err))
		}
	}

	if cfg.Scene.Path != "" {
		desc, err := scene.Load(cfg.Scene.Path)
		if err != nil {
			g.assets.Close()
			return nil, fmt.Errorf("failed to load scene: %w", err)
		}
		g.desc = desc
	} else {
		g.desc = scene.Default()
	}

	if err := g.buildResources(); err != nil {
		g.assets.Close()
		return nil, err
	}

	logger.Info("game initialized successfully")
	return g, nil
}

// buildResources creates the shadow pass, the scene and, on first use, the
// renderer and camera.
func (g *Game) buildResources() error {
	pass, err := shadow.New(g.device, shadow.Config{Resolution: g.config.Shadow.Resolution})
	if err != nil {
		return fmt.Errorf("failed to create shadow pass: %w", err)
	}
	sc, err := scene.NewBuilder(g.device, g.assets).Build(g.desc)
	if err != nil {
		pass.Release()
		return fmt.Errorf("failed to build scene: %w", err)
	}
	if view, proj, ok := sc.ShadowMatrices(); ok {
		pass.SetLightMatrices(view, proj)
	}
	g.pass = pass
	g.scene = sc

	if g.renderer == nil {
		rc := renderer.Config{
			Width:            g.width,
			Height:           g.height,
			VSync:            g.config.Graphics.VSync,
			ValidateBindings: g.config.Debug.ValidateBindings,
		}
		if sc.ClearColor != nil {
			rc.ClearColor = *sc.ClearColor
		}
		g.renderer = renderer.New(g.ctx, pass, rc)
	} else {
		g.renderer.Rebind(pass)
	}

	if g.camera == nil {
		g.camera = camera.New(sc.CameraPosition, g.aspect(),
			camera.WithMoveSpeed(g.config.Camera.MoveSpeed),
			camera.WithMouseSensitivity(g.config.Camera.MouseSensitivity),
		)
	}
	return nil
}

func (g *Game) releaseResources() {
	if g.scene != nil {
		g.scene.Release()
		g.scene = nil
	}
	if g.pass != nil {
		g.pass.Release()
		g.pass = nil
	}
}

func (g *Game) aspect() float32 {
	if g.height <= 0 {
		return 1
	}
	return float32(g.width) / float32(g.height)
}

// Running reports whether the loop should continue.
func (g *Game) Running() bool { return g.running }

// Camera returns the fly camera.
func (g *Game) Camera() *camera.Camera { return g.camera }

// Update handles input for one frame.
func (g *Game) Update(dt, total float32) {
	if g.input.KeyDown(input.KeyEscape) {
		g.running = false
		return
	}
	g.camera.Update(dt, g.input)
	if g.input.KeyPressed(input.KeyF12) {
		g.screenshot = true
	}
}

// Draw renders one frame. A lost device rebuilds every scene resource from
// the description; other errors are returned.
func (g *Game) Draw(dt, total float32) error {
	frame := g.scene.Frame(g.camera)
	if g.screenshot {
		g.screenshot = false
		frame.BeforePresent = g.capture
	}

	err := g.renderer.DrawFrame(frame)
	if err == nil {
		return nil
	}
	if !errors.Is(err, gfx.ErrDeviceLost) {
		return err
	}

	logger.Warn("device lost, recreating resources")
	g.releaseResources()
	if err := g.buildResources(); err != nil {
		return fmt.Errorf("recovering from device loss: %w", err)
	}
	return nil
}

func (g *Game) capture(ctx gfx.Context) {
	path, err := g.shots.Capture(ctx, g.width, g.height)
	if err != nil {
		logger.Error("screenshot failed", zap.Error(err))
		return
	}
	logger.Info("screenshot saved", zap.String("path", path))
}

// OnResize updates the viewport and, once it exists, the camera projection.
func (g *Game) OnResize(width, height int) {
	g.width, g.height = width, height
	g.renderer.Resize(width, height)
	if g.camera != nil {
		g.camera.UpdateProjectionMatrix(g.aspect())
	}
}

// Step runs one iteration of the loop: events, resize, update and draw.
func (g *Game) Step(dt, total float32) error {
	ev := g.window.PollEvents(g.input)
	if ev.Quit {
		g.running = false
		return nil
	}
	if ev.Resized {
		g.OnResize(ev.Width, ev.Height)
	}

	g.Update(dt, total)
	if !g.running {
		return nil
	}
	return g.Draw(dt, total)
}

// Run starts the main game loop.
func (g *Game) Run() error {
	g.running = true
	start := g.now()
	last := start

	logger.Info("starting game loop")

	for g.running {
		now := g.now()
		dt := float32(now.Sub(last).Seconds())
		total := float32(now.Sub(start).Seconds())
		last = now

		if err := g.Step(dt, total); err != nil {
			return fmt.Errorf("render error: %w", err)
		}

		if title, ok := g.stats.frame(now, g.config.Window.Title); ok && g.config.Window.ShowStats {
			g.window.SetTitle(title)
		}
	}

	return nil
}

// Close releases every GPU resource the game created.
func (g *Game) Close() {
	logger.Info("closing game")

	g.releaseResources()
	if g.assets != nil {
		g.assets.Close()
	}
}

// frameStats counts frames between title updates.
type frameStats struct {
	since  time.Time
	frames int
}

// frame counts one frame ending at now. Once a second it returns the window
// title with FPS and average frame time appended.
func (s *frameStats) frame(now time.Time, base string) (string, bool) {
	if s.since.IsZero() {
		s.since = now
	}
	s.frames++
	elapsed := now.Sub(s.since)
	if elapsed < time.Second {
		return "", false
	}
	fps := float64(s.frames) / elapsed.Seconds()
	ms := elapsed.Seconds() * 1000 / float64(s.frames)
	s.since = now
	s.frames = 0
	return fmt.Sprintf("%s    FPS: %.0f    Frame Time: %.2fms", base, fps, ms), true
}
