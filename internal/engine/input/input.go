// Package input tracks keyboard and mouse state between frames.
//
// The window feeds events in; game code polls the resulting state.
package input

// Key identifies a keyboard key the engine cares about.
type Key int

const (
	KeyUnknown Key = iota
	KeyW
	KeyA
	KeyS
	KeyD
	KeyX
	KeySpace
	KeyEscape
	KeyF12
	keyCount
)

var keyNames = [...]string{
	KeyUnknown: "unknown",
	KeyW:       "W",
	KeyA:       "A",
	KeyS:       "S",
	KeyD:       "D",
	KeyX:       "X",
	KeySpace:   "Space",
	KeyEscape:  "Escape",
	KeyF12:     "F12",
}

func (k Key) String() string {
	if k < 0 || k >= keyCount {
		return "unknown"
	}
	return keyNames[k]
}

// MouseButton identifies a mouse button.
type MouseButton int

const (
	MouseLeft MouseButton = iota
	MouseMiddle
	MouseRight
	mouseButtonCount
)

// State is the polled input snapshot for one frame.
type State struct {
	keys     [keyCount]bool
	prevKeys [keyCount]bool
	buttons  [mouseButtonCount]bool

	mouseX, mouseY float32
	dx, dy         float32
}

// New creates an empty input state.
func New() *State {
	return &State{}
}

// BeginFrame remembers the previous key state and clears per-frame mouse motion.
// Call it before feeding the frame's events.
func (s *State) BeginFrame() {
	s.prevKeys = s.keys
	s.dx, s.dy = 0, 0
}

// SetKey records a key press or release.
func (s *State) SetKey(k Key, down bool) {
	if k <= KeyUnknown || k >= keyCount {
		return
	}
	s.keys[k] = down
}

// SetMouseButton records a mouse button press or release.
func (s *State) SetMouseButton(b MouseButton, down bool) {
	if b < 0 || b >= mouseButtonCount {
		return
	}
	s.buttons[b] = down
}

// MoveMouse records an absolute cursor position and accumulates relative motion.
func (s *State) MoveMouse(x, y, relX, relY float32) {
	s.mouseX, s.mouseY = x, y
	s.dx += relX
	s.dy += relY
}

// KeyDown reports whether k is held.
func (s *State) KeyDown(k Key) bool {
	if k <= KeyUnknown || k >= keyCount {
		return false
	}
	return s.keys[k]
}

// KeyPressed reports whether k went down this frame.
func (s *State) KeyPressed(k Key) bool {
	return s.KeyDown(k) && !s.prevKeys[k]
}

// MouseButtonDown reports whether b is held.
func (s *State) MouseButtonDown(b MouseButton) bool {
	if b < 0 || b >= mouseButtonCount {
		return false
	}
	return s.buttons[b]
}

// MousePosition returns the last cursor position in window pixels.
func (s *State) MousePosition() (x, y float32) {
	return s.mouseX, s.mouseY
}

// MouseDelta returns the cursor motion accumulated this frame.
func (s *State) MouseDelta() (dx, dy float32) {
	return s.dx, s.dy
}

// Events reports window-level events seen while feeding one frame.
type Events struct {
	Quit    bool
	Resized bool
	Width   int
	Height  int
}
