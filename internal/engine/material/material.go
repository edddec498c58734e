// Package material pairs shader programs with the textures and samplers
// a surface is drawn with.
package material

import (
	"fmt"
	"maps"
	"slices"

	"go.uber.org/zap"

	"github.com/Faultbox/prism/internal/engine/gfx"
	"github.com/Faultbox/prism/internal/logger"
)

// Material is a tint, a roughness, a vertex/pixel program pair and named
// pixel-stage resources. It is shared between entities and destroyed on
// the last Release, which also releases everything it holds.
type Material struct {
	gfx.RefCount

	name      string
	tint      [4]float32
	roughness float32
	vs, ps    *gfx.Shared[gfx.Program]

	textures map[string]*gfx.Shared[gfx.Texture]
	samplers map[string]*gfx.Shared[gfx.Sampler]
}

// New creates a material holding a reference to both programs.
// The caller holds the first reference to the material.
func New(name string, tint [4]float32, roughness float32, vs, ps *gfx.Shared[gfx.Program]) *Material {
	vs.Retain()
	ps.Retain()

	m := &Material{
		name:      name,
		tint:      tint,
		roughness: roughness,
		vs:        vs,
		ps:        ps,
		textures:  make(map[string]*gfx.Shared[gfx.Texture]),
		samplers:  make(map[string]*gfx.Shared[gfx.Sampler]),
	}
	m.Init(m.destroy)
	return m
}

func (m *Material) destroy() {
	for _, t := range m.textures {
		t.Release()
	}
	for _, s := range m.samplers {
		s.Release()
	}
	m.textures, m.samplers = nil, nil
	m.vs.Release()
	m.ps.Release()
	logger.Debug("material destroyed", zap.String("name", m.name))
}

// Name returns the material name.
func (m *Material) Name() string { return m.name }

// Tint returns the colour multiplied into the albedo.
func (m *Material) Tint() [4]float32 { return m.tint }

// Roughness returns the roughness scale.
func (m *Material) Roughness() float32 { return m.roughness }

// VertexProgram returns the vertex-stage program.
func (m *Material) VertexProgram() gfx.Program { return m.vs.Get() }

// PixelProgram returns the pixel-stage program.
func (m *Material) PixelProgram() gfx.Program { return m.ps.Get() }

// AddTextureSRV binds tex under name. A later call with the same name
// replaces and releases the earlier texture.
func (m *Material) AddTextureSRV(name string, tex *gfx.Shared[gfx.Texture]) {
	tex.Retain()
	if old, ok := m.textures[name]; ok {
		old.Release()
	}
	m.textures[name] = tex
}

// AddSampler binds s under name. A later call with the same name replaces
// and releases the earlier sampler.
func (m *Material) AddSampler(name string, s *gfx.Shared[gfx.Sampler]) {
	s.Retain()
	if old, ok := m.samplers[name]; ok {
		old.Release()
	}
	m.samplers[name] = s
}

// TextureNames returns the bound texture names, sorted.
func (m *Material) TextureNames() []string {
	return slices.Sorted(maps.Keys(m.textures))
}

// SamplerNames returns the bound sampler names, sorted.
func (m *Material) SamplerNames() []string {
	return slices.Sorted(maps.Keys(m.samplers))
}

// PrepareMaterial binds every texture and sampler to the pixel program.
// Call before each draw with this material.
func (m *Material) PrepareMaterial() {
	ps := m.ps.Get()
	for _, name := range m.TextureNames() {
		ps.SetShaderResourceView(name, m.textures[name].Get())
	}
	for _, name := range m.SamplerNames() {
		ps.SetSamplerState(name, m.samplers[name].Get())
	}
}

// IssueKind classifies a binding mismatch.
type IssueKind int

const (
	// Unused is a name the material binds but the program does not declare.
	Unused IssueKind = iota
	// Missing is a name the program declares but the material does not bind.
	Missing
)

func (k IssueKind) String() string {
	if k == Missing {
		return "missing"
	}
	return "unused"
}

// Issue is one binding mismatch between a material and its pixel program.
type Issue struct {
	Kind    IssueKind
	Sampler bool
	Name    string
}

func (i Issue) String() string {
	what := "texture"
	if i.Sampler {
		what = "sampler"
	}
	return fmt.Sprintf("%s %s %q", i.Kind, what, i.Name)
}

// Validate compares the material's names with those the pixel program
// declares. Names in frameSupplied are bound by the renderer each frame
// and are not expected on the material.
func (m *Material) Validate(frameSupplied ...string) []Issue {
	ps := m.ps.Get()
	var issues []Issue
	issues = append(issues, compare(m.TextureNames(), ps.ResourceNames(), frameSupplied, false)...)
	issues = append(issues, compare(m.SamplerNames(), ps.SamplerNames(), frameSupplied, true)...)
	return issues
}

func compare(bound, declared, skip []string, sampler bool) []Issue {
	var issues []Issue
	for _, name := range bound {
		if !slices.Contains(declared, name) {
			issues = append(issues, Issue{Kind: Unused, Sampler: sampler, Name: name})
		}
	}
	for _, name := range declared {
		if !slices.Contains(bound, name) && !slices.Contains(skip, name) {
			issues = append(issues, Issue{Kind: Missing, Sampler: sampler, Name: name})
		}
	}
	return issues
}

// LogIssues validates m and logs each mismatch as a warning. It returns the
// number of issues found.
func (m *Material) LogIssues(frameSupplied ...string) int {
	issues := m.Validate(frameSupplied...)
	for _, issue := range issues {
		logger.Warn("material binding mismatch",
			zap.String("material", m.name),
			zap.String("program", m.ps.Get().Name()),
			zap.Stringer("issue", issue),
		)
	}
	return len(issues)
}
