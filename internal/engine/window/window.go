// Package window handles SDL2 window and OpenGL context creation.
package window

import (
	"fmt"
	"runtime"

	"github.com/veandco/go-sdl2/sdl"
	"go.uber.org/zap"

	"github.com/Faultbox/prism/internal/engine/input"
	"github.com/Faultbox/prism/internal/logger"
)

func init() {
	// OpenGL calls must be made from the main thread
	runtime.LockOSThread()
}

// Config holds window configuration.
type Config struct {
	Title      string
	Width      int
	Height     int
	Fullscreen bool
	VSync      bool
}

// Window wraps SDL2 window and OpenGL context.
type Window struct {
	config    Config
	sdlWindow *sdl.Window
	glContext sdl.GLContext
}

// New creates a new window with OpenGL context.
func New(cfg Config) (*Window, error) {
	w := &Window{
		config: cfg,
	}

	logger.Info("initializing SDL2")
	if err := sdl.Init(sdl.INIT_VIDEO | sdl.INIT_EVENTS); err != nil {
		return nil, fmt.Errorf("SDL_Init failed: %w", err)
	}

	// OpenGL 4.1 Core Profile (max supported on macOS)
	sdl.GLSetAttribute(sdl.GL_CONTEXT_MAJOR_VERSION, 4)
	sdl.GLSetAttribute(sdl.GL_CONTEXT_MINOR_VERSION, 1)
	sdl.GLSetAttribute(sdl.GL_CONTEXT_PROFILE_MASK, sdl.GL_CONTEXT_PROFILE_CORE)
	sdl.GLSetAttribute(sdl.GL_DOUBLEBUFFER, 1)
	sdl.GLSetAttribute(sdl.GL_DEPTH_SIZE, 24)

	flags := uint32(sdl.WINDOW_OPENGL | sdl.WINDOW_RESIZABLE | sdl.WINDOW_ALLOW_HIGHDPI)
	if cfg.Fullscreen {
		flags |= sdl.WINDOW_FULLSCREEN_DESKTOP
	}

	var err error
	w.sdlWindow, err = sdl.CreateWindow(
		cfg.Title,
		sdl.WINDOWPOS_CENTERED,
		sdl.WINDOWPOS_CENTERED,
		int32(cfg.Width),
		int32(cfg.Height),
		flags,
	)
	if err != nil {
		sdl.Quit()
		return nil, fmt.Errorf("SDL_CreateWindow failed: %w", err)
	}

	w.glContext, err = w.sdlWindow.GLCreateContext()
	if err != nil {
		w.sdlWindow.Destroy()
		sdl.Quit()
		return nil, fmt.Errorf("SDL_GL_CreateContext failed: %w", err)
	}

	if err := w.SetVSync(cfg.VSync); err != nil {
		logger.Warn("failed to set VSync", zap.Error(err))
	}

	logger.Info("window created",
		zap.String("title", cfg.Title),
		zap.Int("width", cfg.Width),
		zap.Int("height", cfg.Height),
		zap.Bool("fullscreen", cfg.Fullscreen),
		zap.Bool("vsync", cfg.VSync),
	)

	return w, nil
}

// Close destroys the window and cleans up SDL2.
func (w *Window) Close() {
	logger.Info("closing window")

	if w.glContext != nil {
		sdl.GLDeleteContext(w.glContext)
	}
	if w.sdlWindow != nil {
		w.sdlWindow.Destroy()
	}

	sdl.Quit()
}

// SwapBuffers swaps the OpenGL buffers.
func (w *Window) SwapBuffers() {
	w.sdlWindow.GLSwap()
}

// SetVSync sets the swap interval.
func (w *Window) SetVSync(on bool) error {
	interval := 0
	if on {
		interval = 1
	}
	if err := sdl.GLSetSwapInterval(interval); err != nil {
		return fmt.Errorf("swap interval %d: %w", interval, err)
	}
	w.config.VSync = on
	return nil
}

// GetSize returns the drawable size in pixels.
func (w *Window) GetSize() (int, int) {
	width, height := w.sdlWindow.GLGetDrawableSize()
	return int(width), int(height)
}

// SetTitle sets the window title.
func (w *Window) SetTitle(title string) {
	w.sdlWindow.SetTitle(title)
}

// Title returns the configured base title.
func (w *Window) Title() string {
	return w.config.Title
}

// PollEvents drains the SDL queue into in and reports quit and resize.
func (w *Window) PollEvents(in *input.State) input.Events {
	var ev input.Events
	in.BeginFrame()

	for event := sdl.PollEvent(); event != nil; event = sdl.PollEvent() {
		switch e := event.(type) {
		case *sdl.QuitEvent:
			ev.Quit = true

		case *sdl.KeyboardEvent:
			if e.Repeat != 0 {
				continue
			}
			in.SetKey(keyFromSDL(e.Keysym.Sym), e.State == sdl.PRESSED)

		case *sdl.MouseButtonEvent:
			if b, ok := buttonFromSDL(e.Button); ok {
				in.SetMouseButton(b, e.State == sdl.PRESSED)
			}

		case *sdl.MouseMotionEvent:
			in.MoveMouse(float32(e.X), float32(e.Y), float32(e.XRel), float32(e.YRel))

		case *sdl.WindowEvent:
			if e.Event == sdl.WINDOWEVENT_SIZE_CHANGED {
				ev.Resized = true
				ev.Width, ev.Height = w.GetSize()
				logger.Debug("window resized", zap.Int("width", ev.Width), zap.Int("height", ev.Height))
			}
		}
	}
	return ev
}

func keyFromSDL(k sdl.Keycode) input.Key {
	switch k {
	case sdl.K_w:
		return input.KeyW
	case sdl.K_a:
		return input.KeyA
	case sdl.K_s:
		return input.KeyS
	case sdl.K_d:
		return input.KeyD
	case sdl.K_x:
		return input.KeyX
	case sdl.K_SPACE:
		return input.KeySpace
	case sdl.K_ESCAPE:
		return input.KeyEscape
	case sdl.K_F12:
		return input.KeyF12
	default:
		return input.KeyUnknown
	}
}

func buttonFromSDL(b uint8) (input.MouseButton, bool) {
	switch b {
	case sdl.BUTTON_LEFT:
		return input.MouseLeft, true
	case sdl.BUTTON_MIDDLE:
		return input.MouseMiddle, true
	case sdl.BUTTON_RIGHT:
		return input.MouseRight, true
	default:
		return 0, false
	}
}
