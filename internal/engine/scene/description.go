// Package scene loads a declarative scene description and builds the GPU
// resources, entities, lights and sky it names.
package scene

import (
	"bytes"
	_ "embed"
	"errors"
	"fmt"
	"maps"
	"os"
	"slices"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/Faultbox/prism/internal/engine/mesh"
	"github.com/Faultbox/prism/internal/engine/texture"
	"github.com/Faultbox/prism/pkg/math"
)

//go:embed default.yaml
var defaultScene []byte

// Description is the YAML scene file.
type Description struct {
	Ambient    []float32 `yaml:"ambient"`
	ClearColor string    `yaml:"clear_color"`

	Camera    CameraDesc              `yaml:"camera"`
	Shadow    ShadowDesc              `yaml:"shadow"`
	Materials map[string]MaterialDesc `yaml:"materials"`
	Entities  []EntityDesc            `yaml:"entities"`
	Lights    []LightDesc             `yaml:"lights"`
	Sky       SkyDesc                 `yaml:"sky"`
}

// CameraDesc places the camera.
type CameraDesc struct {
	Position []float32 `yaml:"position"`
}

// ShadowDesc configures the shadow volume.
type ShadowDesc struct {
	// FitBounds fits the light volume to the entities instead of using the
	// fixed default light.
	FitBounds bool `yaml:"fit_bounds"`
}

// MaterialDesc describes one material.
type MaterialDesc struct {
	Tint         string                 `yaml:"tint"`
	Roughness    float32                `yaml:"roughness"`
	Textures     map[string]TextureDesc `yaml:"textures"`
	VertexShader string                 `yaml:"vertex_shader"`
	PixelShader  string                 `yaml:"pixel_shader"`
}

// TextureDesc is a texture file or a solid colour.
type TextureDesc struct {
	Path  string `yaml:"path"`
	Color string `yaml:"color"`
}

// key identifies identical textures so they share one GPU object.
func (t TextureDesc) key() string {
	if t.Path != "" {
		return "path:" + t.Path
	}
	return "color:" + strings.ToLower(strings.TrimSpace(t.Color))
}

// EntityDesc places a mesh with a material.
type EntityDesc struct {
	Name     string    `yaml:"name"`
	Mesh     string    `yaml:"mesh"`
	Material string    `yaml:"material"`
	Position []float32 `yaml:"position"`
	Rotation []float32 `yaml:"rotation"` // pitch, yaw, roll in degrees
	Scale    []float32 `yaml:"scale"`    // one value scales uniformly
}

// LightDesc describes a light. Sun angles, when set, replace Direction.
type LightDesc struct {
	Type      string    `yaml:"type"`
	Direction []float32 `yaml:"direction"`
	Position  []float32 `yaml:"position"`
	Color     []float32 `yaml:"color"`
	Intensity *float32  `yaml:"intensity"` // nil = 1
	Range     float32   `yaml:"range"`
	Sun       *SunDesc  `yaml:"sun"`
}

// SunDesc gives a directional light by sun angles in degrees.
type SunDesc struct {
	Longitude float32 `yaml:"longitude"`
	Latitude  float32 `yaml:"latitude"`
}

// SkyDesc is a six-file cube map or a generated gradient.
type SkyDesc struct {
	Faces   []string `yaml:"faces"` // +X -X +Y -Y +Z -Z
	Zenith  string   `yaml:"zenith"`
	Horizon string   `yaml:"horizon"`
	Ground  string   `yaml:"ground"`
	Size    int      `yaml:"size"`
}

// Default returns the built-in scene.
func Default() *Description {
	d, err := Parse(defaultScene)
	if err != nil {
		panic(fmt.Sprintf("default scene: %v", err))
	}
	return d
}

// Load reads and validates a scene file.
func Load(path string) (*Description, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading scene: %w", err)
	}
	d, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("scene %s: %w", path, err)
	}
	return d, nil
}

// Parse decodes and validates a scene. Unknown keys are errors.
func Parse(data []byte) (*Description, error) {
	var d Description
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&d); err != nil {
		return nil, fmt.Errorf("parsing scene: %w", err)
	}
	if err := d.Validate(); err != nil {
		return nil, err
	}
	return &d, nil
}

// Validate checks every reference and value in the description. The error
// names the offending entry.
func (d *Description) Validate() error {
	var errs []error
	add := func(format string, args ...any) {
		errs = append(errs, fmt.Errorf(format, args...))
	}

	if _, err := vec3(d.Ambient, math.Vec3{}); err != nil {
		add("ambient: %w", err)
	}
	if d.ClearColor != "" {
		if _, err := texture.ParseColor(d.ClearColor); err != nil {
			add("clear_color: %w", err)
		}
	}
	if _, err := vec3(d.Camera.Position, math.Vec3{}); err != nil {
		add("camera position: %w", err)
	}

	for _, name := range slices.Sorted(maps.Keys(d.Materials)) {
		m := d.Materials[name]
		if m.Tint != "" {
			if _, err := texture.ParseColor(m.Tint); err != nil {
				add("material %q tint: %w", name, err)
			}
		}
		for _, slot := range slices.Sorted(maps.Keys(m.Textures)) {
			t := m.Textures[slot]
			switch {
			case t.Path == "" && t.Color == "":
				add("material %q texture %q: needs path or color", name, slot)
			case t.Path != "" && t.Color != "":
				add("material %q texture %q: path and color are exclusive", name, slot)
			case t.Color != "":
				if _, err := texture.ParseColor(t.Color); err != nil {
					add("material %q texture %q: %w", name, slot, err)
				}
			}
		}
	}

	for i, e := range d.Entities {
		label := e.label(i)
		if _, ok := mesh.Shape(e.Mesh); !ok {
			add("%s: unknown mesh %q", label, e.Mesh)
		}
		if _, ok := d.Materials[e.Material]; !ok {
			add("%s: unknown material %q", label, e.Material)
		}
		if _, err := vec3(e.Position, math.Vec3{}); err != nil {
			add("%s position: %w", label, err)
		}
		if _, err := vec3(e.Rotation, math.Vec3{}); err != nil {
			add("%s rotation: %w", label, err)
		}
		if _, err := scale(e.Scale); err != nil {
			add("%s scale: %w", label, err)
		}
	}

	for i, l := range d.Lights {
		if _, err := l.light(); err != nil {
			add("light %d: %w", i, err)
		}
	}

	if n := len(d.Sky.Faces); n != 0 && n != 6 {
		add("sky: want 6 faces, got %d", n)
	}
	for _, c := range []struct{ field, value string }{
		{"zenith", d.Sky.Zenith},
		{"horizon", d.Sky.Horizon},
		{"ground", d.Sky.Ground},
	} {
		if c.value == "" {
			continue
		}
		if _, err := texture.ParseColor(c.value); err != nil {
			add("sky %s: %w", c.field, err)
		}
	}

	return errors.Join(errs...)
}

func (e EntityDesc) label(i int) string {
	if e.Name != "" {
		return fmt.Sprintf("entity %q", e.Name)
	}
	return fmt.Sprintf("entity %d", i)
}

func vec3(v []float32, def math.Vec3) (math.Vec3, error) {
	switch len(v) {
	case 0:
		return def, nil
	case 3:
		return math.V3(v[0], v[1], v[2]), nil
	default:
		return def, fmt.Errorf("want 3 components, got %d", len(v))
	}
}

func scale(v []float32) (math.Vec3, error) {
	if len(v) == 1 {
		return math.V3(v[0], v[0], v[0]), nil
	}
	return vec3(v, math.V3(1, 1, 1))
}
