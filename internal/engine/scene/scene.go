package scene

import (
	"fmt"
	"image"
	"image/color"
	"maps"
	"slices"

	"github.com/chewxy/math32"
	"go.uber.org/zap"

	"github.com/Faultbox/prism/internal/assets"
	"github.com/Faultbox/prism/internal/engine/entity"
	"github.com/Faultbox/prism/internal/engine/gfx"
	"github.com/Faultbox/prism/internal/engine/lighting"
	"github.com/Faultbox/prism/internal/engine/material"
	"github.com/Faultbox/prism/internal/engine/mesh"
	"github.com/Faultbox/prism/internal/engine/renderer"
	"github.com/Faultbox/prism/internal/engine/shaders"
	"github.com/Faultbox/prism/internal/engine/shadow"
	"github.com/Faultbox/prism/internal/engine/sky"
	"github.com/Faultbox/prism/internal/engine/texture"
	"github.com/Faultbox/prism/internal/logger"
	"github.com/Faultbox/prism/pkg/math"
)

// BasicSamplerName is the sampler every material binds its textures with.
const BasicSamplerName = "BasicSampler"

// Default sky colours and face size.
const (
	DefaultSkySize    = 64
	DefaultSkyZenith  = "#3f78c8"
	DefaultSkyHorizon = "#bcd6ec"
	DefaultSkyGround  = "#4a4a44"
)

const solidTextureSize = 4

// Scene is the set of drawable objects built from a Description.
type Scene struct {
	Entities       []*entity.Entity
	Lights         []lighting.Light
	Ambient        math.Vec3
	CameraPosition math.Vec3
	Sky            *sky.Sky

	// ClearColor is nil when the description leaves it to the renderer.
	ClearColor *[4]float32

	fitShadow bool
}

// Frame returns the renderer input for one frame seen from view.
func (s *Scene) Frame(view entity.View) renderer.Frame {
	return renderer.Frame{
		Camera:   view,
		Entities: s.Entities,
		Ambient:  s.Ambient,
		Lights:   s.Lights,
		Sky:      s.Sky,
	}
}

// ShadowMatrices fits the light volume to the entities along Lights[0], the
// shadow-casting light. ok is false when the scene keeps the default light or
// has no directional light.
func (s *Scene) ShadowMatrices() (view, proj math.Mat4, ok bool) {
	if !s.fitShadow || len(s.Entities) == 0 || len(s.Lights) == 0 {
		return view, proj, false
	}
	l := s.Lights[0]
	if l.Type != lighting.TypeDirectional {
		return view, proj, false
	}
	casters := make([]shadow.Caster, len(s.Entities))
	for i, e := range s.Entities {
		casters[i] = e
	}
	view, proj = shadow.CalculateDirectionalLightMatrix(l.Direction, shadow.Bounds(casters))
	return view, proj, true
}

// Release drops the scene's entities and sky, freeing every GPU resource
// nothing else holds.
func (s *Scene) Release() {
	for _, e := range s.Entities {
		e.Release()
	}
	s.Entities = nil
	if s.Sky != nil {
		s.Sky.Release()
		s.Sky = nil
	}
}

// Builder creates scene resources on a device. Meshes, textures, programs
// and materials with the same name are created once and shared.
type Builder struct {
	device gfx.Device
	assets *assets.Manager

	meshes    map[string]*mesh.Mesh
	textures  map[string]*gfx.Shared[gfx.Texture]
	programs  map[string]*gfx.Shared[gfx.Program]
	materials map[string]*material.Material
	sampler   *gfx.Shared[gfx.Sampler]
}

// NewBuilder returns a builder loading files through mgr. A nil mgr serves
// only the embedded shaders.
func NewBuilder(device gfx.Device, mgr *assets.Manager) *Builder {
	if mgr == nil {
		mgr = assets.NewManager()
		mgr.AddFS("shaders", shaders.FS())
	}
	return &Builder{device: device, assets: mgr}
}

// Build creates everything d describes. On error nothing stays allocated.
func (b *Builder) Build(d *Description) (*Scene, error) {
	if err := d.Validate(); err != nil {
		return nil, err
	}

	b.meshes = make(map[string]*mesh.Mesh)
	b.textures = make(map[string]*gfx.Shared[gfx.Texture])
	b.programs = make(map[string]*gfx.Shared[gfx.Program])
	b.materials = make(map[string]*material.Material)
	// the scene's owners keep what they use; the builder's own references go
	defer b.releaseCaches()

	s := &Scene{fitShadow: d.Shadow.FitBounds}
	s.Ambient, _ = vec3(d.Ambient, math.Vec3{})
	s.CameraPosition, _ = vec3(d.Camera.Position, math.V3(0, 0, -5))
	if d.ClearColor != "" {
		c, _ := texture.ParseColor(d.ClearColor)
		cc := colorToFloats(c)
		s.ClearColor = &cc
	}

	fail := func(err error) (*Scene, error) {
		s.Release()
		return nil, err
	}

	smp, err := b.device.CreateSampler(gfx.SamplerDesc{
		Filter:        gfx.FilterAnisotropic,
		Address:       gfx.AddressWrap,
		MaxAnisotropy: 16,
	})
	if err != nil {
		return fail(fmt.Errorf("basic sampler: %w", err))
	}
	b.sampler = gfx.Share(smp)

	for _, name := range slices.Sorted(maps.Keys(d.Materials)) {
		m, err := b.material(name, d.Materials[name])
		if err != nil {
			return fail(err)
		}
		b.materials[name] = m
	}

	for i, ed := range d.Entities {
		e, err := b.entity(i, ed)
		if err != nil {
			return fail(err)
		}
		s.Entities = append(s.Entities, e)
	}

	for _, ld := range d.Lights {
		l, _ := ld.light()
		s.Lights = append(s.Lights, l)
	}
	shadowCasterFirst(s.Lights)
	if len(s.Lights) > lighting.MaxLights {
		logger.Warn("too many lights, extra lights ignored",
			zap.Int("lights", len(s.Lights)),
			zap.Int("max", lighting.MaxLights),
		)
	}

	if s.Sky, err = b.sky(d.Sky); err != nil {
		return fail(err)
	}

	logger.Info("scene built",
		zap.Int("entities", len(s.Entities)),
		zap.Int("materials", len(b.materials)),
		zap.Int("meshes", len(b.meshes)),
		zap.Int("textures", len(b.textures)),
		zap.Int("lights", len(s.Lights)),
	)
	return s, nil
}

func (b *Builder) releaseCaches() {
	for _, m := range b.materials {
		m.Release()
	}
	for _, m := range b.meshes {
		m.Release()
	}
	for _, t := range b.textures {
		t.Release()
	}
	for _, p := range b.programs {
		p.Release()
	}
	if b.sampler != nil {
		b.sampler.Release()
	}
	b.materials, b.meshes, b.textures, b.programs, b.sampler = nil, nil, nil, nil, nil
}

func (b *Builder) material(name string, md MaterialDesc) (*material.Material, error) {
	vsName := md.VertexShader
	if vsName == "" {
		vsName = shaders.MainVertex
	}
	psName := md.PixelShader
	if psName == "" {
		psName = shaders.MainPixel
	}

	vs, err := b.program(gfx.VertexStage, vsName)
	if err != nil {
		return nil, fmt.Errorf("material %q: %w", name, err)
	}
	ps, err := b.program(gfx.PixelStage, psName)
	if err != nil {
		return nil, fmt.Errorf("material %q: %w", name, err)
	}

	tint := [4]float32{1, 1, 1, 1}
	if md.Tint != "" {
		c, _ := texture.ParseColor(md.Tint)
		tint = colorToFloats(c)
	}

	m := material.New(name, tint, md.Roughness, vs, ps)
	for _, slot := range slices.Sorted(maps.Keys(md.Textures)) {
		tex, err := b.texture(md.Textures[slot])
		if err != nil {
			m.Release()
			return nil, fmt.Errorf("material %q texture %q: %w", name, slot, err)
		}
		m.AddTextureSRV(slot, tex)
	}
	m.AddSampler(BasicSamplerName, b.sampler)
	return m, nil
}

func (b *Builder) program(stage gfx.Stage, name string) (*gfx.Shared[gfx.Program], error) {
	key := stage.String() + ":" + name
	if p, ok := b.programs[key]; ok {
		return p, nil
	}
	src, err := b.assets.Load(name)
	if err != nil {
		return nil, fmt.Errorf("shader %s: %w", name, err)
	}
	p, err := b.device.CreateProgram(stage, name, string(src))
	if err != nil {
		return nil, err
	}
	shared := gfx.Share(p)
	b.programs[key] = shared
	return shared, nil
}

func (b *Builder) texture(td TextureDesc) (*gfx.Shared[gfx.Texture], error) {
	key := td.key()
	if t, ok := b.textures[key]; ok {
		return t, nil
	}

	var img *image.RGBA
	if td.Path != "" {
		var err error
		if img, err = b.image(td.Path); err != nil {
			return nil, err
		}
	} else {
		c, _ := texture.ParseColor(td.Color)
		img = texture.Solid(c, solidTextureSize)
	}

	t, err := b.device.CreateTexture2D(img)
	if err != nil {
		return nil, fmt.Errorf("texture %s: %w", key, err)
	}
	shared := gfx.Share(t)
	b.textures[key] = shared
	return shared, nil
}

func (b *Builder) image(path string) (*image.RGBA, error) {
	data, err := b.assets.Load(path)
	if err != nil {
		return nil, err
	}
	return texture.Decode(path, data)
}

func (b *Builder) mesh(name string) (*mesh.Mesh, error) {
	if m, ok := b.meshes[name]; ok {
		return m, nil
	}
	g, _ := mesh.Shape(name)
	m, err := mesh.New(b.device, name, g)
	if err != nil {
		return nil, err
	}
	b.meshes[name] = m
	return m, nil
}

func (b *Builder) entity(i int, ed EntityDesc) (*entity.Entity, error) {
	m, err := b.mesh(ed.Mesh)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", ed.label(i), err)
	}

	name := ed.Name
	if name == "" {
		name = fmt.Sprintf("%s#%d", ed.Mesh, i)
	}
	e := entity.New(name, m, b.materials[ed.Material])

	pos, _ := vec3(ed.Position, math.Vec3{})
	rot, _ := vec3(ed.Rotation, math.Vec3{})
	scl, _ := scale(ed.Scale)
	t := e.Transform()
	t.SetScale(scl.X, scl.Y, scl.Z)
	t.SetRotation(radians(rot.X), radians(rot.Y), radians(rot.Z))
	t.SetPosition(pos.X, pos.Y, pos.Z)
	return e, nil
}

func (b *Builder) sky(sd SkyDesc) (*sky.Sky, error) {
	cube, err := b.mesh("cube")
	if err != nil {
		return nil, fmt.Errorf("sky: %w", err)
	}

	var faces [6]*image.RGBA
	if len(sd.Faces) == 6 {
		for i, path := range sd.Faces {
			if faces[i], err = b.image(path); err != nil {
				return nil, fmt.Errorf("sky face %d: %w", i, err)
			}
		}
	} else {
		size := sd.Size
		if size <= 0 {
			size = DefaultSkySize
		}
		faces = texture.GradientCube(size,
			colorOr(sd.Zenith, DefaultSkyZenith),
			colorOr(sd.Horizon, DefaultSkyHorizon),
			colorOr(sd.Ground, DefaultSkyGround),
		)
	}
	return sky.New(b.device, cube, faces)
}

func colorOr(s, def string) color.RGBA {
	if s == "" {
		s = def
	}
	c, _ := texture.ParseColor(s)
	return c
}

func colorToFloats(c color.RGBA) [4]float32 {
	return [4]float32{float32(c.R) / 255, float32(c.G) / 255, float32(c.B) / 255, float32(c.A) / 255}
}

func radians(deg float32) float32 {
	return deg * math32.Pi / 180
}
