// Package gfxtest provides a recording graphics device for pipeline tests.
package gfxtest

import (
	"fmt"
	"image"
	"slices"
	"strings"

	"github.com/Faultbox/prism/internal/engine/gfx"
	"github.com/Faultbox/prism/pkg/math"
)

// Call is one recorded graphics operation. Create calls carry the created
// fake as Value.
type Call struct {
	Target string // "ctx", "device" or a program name
	Op     string
	Arg    string
	Value  any
}

func (c Call) String() string {
	if c.Arg == "" {
		return c.Target + "." + c.Op
	}
	return c.Target + "." + c.Op + "(" + c.Arg + ")"
}

// Recorder implements gfx.Device and gfx.Context, logging every call in order.
type Recorder struct {
	Calls []Call

	// PresentErr is returned by Present when set.
	PresentErr error
	// FailCreate makes every Create* call fail.
	FailCreate bool

	// Programs declared by source name. Unknown names accept every variable.
	Declared map[string]Declaration

	nextID int
}

// Declaration lists the variables a fake program reports.
type Declaration struct {
	Uniforms  []string
	Resources []string
	Samplers  []string
}

// New creates an empty recorder.
func New() *Recorder {
	return &Recorder{Declared: map[string]Declaration{}}
}

var (
	_ gfx.Device  = (*Recorder)(nil)
	_ gfx.Context = (*Recorder)(nil)
)

func (r *Recorder) record(target, op, arg string, value any) {
	r.Calls = append(r.Calls, Call{Target: target, Op: op, Arg: arg, Value: value})
}

func (r *Recorder) id(kind string) string {
	r.nextID++
	return fmt.Sprintf("%s#%d", kind, r.nextID)
}

// Reset clears the call log.
func (r *Recorder) Reset() {
	r.Calls = r.Calls[:0]
}

// Strings returns the call log formatted as target.Op(arg).
func (r *Recorder) Strings() []string {
	out := make([]string, len(r.Calls))
	for i, c := range r.Calls {
		out[i] = c.String()
	}
	return out
}

// Index returns the position of the first call matching s at or after from, or -1.
func (r *Recorder) Index(s string, from int) int {
	for i := from; i < len(r.Calls); i++ {
		if r.Calls[i].String() == s {
			return i
		}
	}
	return -1
}

// Count returns how many calls match s.
func (r *Recorder) Count(s string) int {
	n := 0
	for _, c := range r.Calls {
		if c.String() == s {
			n++
		}
	}
	return n
}

// Filter returns formatted calls whose target is one of targets.
func (r *Recorder) Filter(targets ...string) []string {
	var out []string
	for _, c := range r.Calls {
		if slices.Contains(targets, c.Target) {
			out = append(out, c.String())
		}
	}
	return out
}

// Dump formats the whole log, one call per line.
func (r *Recorder) Dump() string {
	return strings.Join(r.Strings(), "\n")
}

func (r *Recorder) fail(kind string) error {
	return fmt.Errorf("%w: %s", gfx.ErrResourceCreation, kind)
}

// Device

func (r *Recorder) CreateGeometry(desc gfx.GeometryDesc) (gfx.Geometry, error) {
	if r.FailCreate {
		return nil, r.fail("geometry")
	}
	g := &Geometry{Resource: Resource{ID: r.id("geometry")}, Indices: len(desc.Indices), Desc: desc}
	r.record("device", "CreateGeometry", g.ID, g)
	return g, nil
}

func (r *Recorder) CreateTexture2D(img *image.RGBA) (gfx.Texture, error) {
	if r.FailCreate {
		return nil, r.fail("texture")
	}
	t := &Resource{ID: r.id("texture")}
	t.Desc = img
	r.record("device", "CreateTexture2D", t.ID, t)
	return t, nil
}

func (r *Recorder) CreateTextureCube(faces [6]*image.RGBA) (gfx.Texture, error) {
	if r.FailCreate {
		return nil, r.fail("cubemap")
	}
	t := &Resource{ID: r.id("cubemap")}
	t.Desc = faces
	r.record("device", "CreateTextureCube", t.ID, t)
	return t, nil
}

func (r *Recorder) CreateSampler(desc gfx.SamplerDesc) (gfx.Sampler, error) {
	if r.FailCreate {
		return nil, r.fail("sampler")
	}
	s := &Resource{ID: r.id("sampler"), Desc: desc}
	r.record("device", "CreateSampler", s.ID, s)
	return s, nil
}

func (r *Recorder) CreateRasterizerState(desc gfx.RasterizerDesc) (gfx.RasterizerState, error) {
	if r.FailCreate {
		return nil, r.fail("rasterizer")
	}
	s := &Resource{ID: r.id("rasterizer"), Desc: desc}
	r.record("device", "CreateRasterizerState", s.ID, s)
	return s, nil
}

func (r *Recorder) CreateDepthStencilState(desc gfx.DepthStencilDesc) (gfx.DepthStencilState, error) {
	if r.FailCreate {
		return nil, r.fail("depth stencil")
	}
	s := &Resource{ID: r.id("depth"), Desc: desc}
	r.record("device", "CreateDepthStencilState", s.ID, s)
	return s, nil
}

func (r *Recorder) CreateDepthTarget(size int) (gfx.DepthTarget, error) {
	if r.FailCreate {
		return nil, r.fail("depth target")
	}
	d := &DepthTarget{Resource: Resource{ID: r.id("depthtarget")}, size: size}
	d.view = &Resource{ID: d.ID + ".srv"}
	r.record("device", "CreateDepthTarget", d.ID, d)
	return d, nil
}

func (r *Recorder) CreateProgram(stage gfx.Stage, name, source string) (gfx.Program, error) {
	if r.FailCreate {
		return nil, r.fail("program " + name)
	}
	p := &Program{
		Resource: Resource{ID: name},
		rec:      r,
		stage:    stage,
		Source:   source,
		Values:   map[string]any{},
	}
	if d, ok := r.Declared[name]; ok {
		p.decl = &d
	}
	r.record("device", "CreateProgram", name, p)
	return p, nil
}

// Context

func (r *Recorder) SetRenderTargets(target gfx.DepthTarget) {
	if target == nil {
		r.record("ctx", "SetRenderTargets", "backbuffer", nil)
		return
	}
	r.record("ctx", "SetRenderTargets", nameOf(target), target)
}

func (r *Recorder) ClearRenderTarget(color [4]float32) {
	r.record("ctx", "ClearRenderTarget", "", color)
}

func (r *Recorder) ClearDepth(depth float32) {
	r.record("ctx", "ClearDepth", "", depth)
}

func (r *Recorder) SetViewport(vp gfx.Viewport) {
	r.record("ctx", "SetViewport", fmt.Sprintf("%dx%d", vp.Width, vp.Height), vp)
}

func (r *Recorder) SetRasterizerState(rs gfx.RasterizerState) {
	if rs == nil {
		r.record("ctx", "SetRasterizerState", "default", nil)
		return
	}
	r.record("ctx", "SetRasterizerState", nameOf(rs), rs)
}

func (r *Recorder) SetDepthStencilState(ds gfx.DepthStencilState) {
	if ds == nil {
		r.record("ctx", "SetDepthStencilState", "default", nil)
		return
	}
	r.record("ctx", "SetDepthStencilState", nameOf(ds), ds)
}

func (r *Recorder) SetProgram(p gfx.Program) {
	r.record("ctx", "SetProgram", p.Name(), p)
}

func (r *Recorder) DisablePixelStage() {
	r.record("ctx", "DisablePixelStage", "", nil)
}

func (r *Recorder) DrawIndexed(g gfx.Geometry) {
	r.record("ctx", "DrawIndexed", nameOf(g), g.IndexCount())
}

func (r *Recorder) UnbindShaderResources(count int) {
	r.record("ctx", "UnbindShaderResources", fmt.Sprint(count), count)
}

func (r *Recorder) Present(vsync bool) error {
	r.record("ctx", "Present", "", vsync)
	return r.PresentErr
}

func (r *Recorder) ReadPixels(width, height int) (*image.RGBA, error) {
	r.record("ctx", "ReadPixels", fmt.Sprintf("%dx%d", width, height), nil)
	return image.NewRGBA(image.Rect(0, 0, width, height)), nil
}

func nameOf(v any) string {
	if n, ok := v.(interface{ Name() string }); ok {
		return n.Name()
	}
	return fmt.Sprint(v)
}

// Resources

// Resource is a fake GPU object that counts releases.
type Resource struct {
	ID       string
	Desc     any
	Released int
}

func (r *Resource) Name() string { return r.ID }

func (r *Resource) Release() { r.Released++ }

// Geometry is a fake uploaded mesh.
type Geometry struct {
	Resource
	Indices int
	Desc    gfx.GeometryDesc
}

func (g *Geometry) IndexCount() int { return g.Indices }

// DepthTarget is a fake offscreen depth buffer.
type DepthTarget struct {
	Resource
	size int
	view *Resource
}

func (d *DepthTarget) Size() int { return d.size }

func (d *DepthTarget) Texture() gfx.Texture { return d.view }

// Program is a fake shader that records variable writes on the shared log.
type Program struct {
	Resource
	Source string
	Values map[string]any

	rec   *Recorder
	stage gfx.Stage
	decl  *Declaration
}

var _ gfx.Program = (*Program)(nil)

func (p *Program) Stage() gfx.Stage { return p.stage }

func (p *Program) set(op, name string, list func(Declaration) []string, v any) bool {
	if p.decl != nil && !slices.Contains(list(*p.decl), name) {
		return false
	}
	p.Values[name] = v
	p.rec.record(p.ID, op, name, v)
	return true
}

func uniforms(d Declaration) []string  { return d.Uniforms }
func resources(d Declaration) []string { return d.Resources }
func samplers(d Declaration) []string  { return d.Samplers }

func (p *Program) SetMatrix4x4(name string, m math.Mat4) bool {
	return p.set("SetMatrix4x4", name, uniforms, m)
}

func (p *Program) SetFloat(name string, v float32) bool {
	return p.set("SetFloat", name, uniforms, v)
}

func (p *Program) SetFloat3(name string, v math.Vec3) bool {
	return p.set("SetFloat3", name, uniforms, v)
}

func (p *Program) SetFloat4(name string, v [4]float32) bool {
	return p.set("SetFloat4", name, uniforms, v)
}

func (p *Program) SetInt(name string, v int32) bool {
	return p.set("SetInt", name, uniforms, v)
}

func (p *Program) SetData(name string, data []byte) bool {
	return p.set("SetData", name, uniforms, slices.Clone(data))
}

func (p *Program) SetShaderResourceView(name string, tex gfx.Texture) bool {
	return p.set("SetShaderResourceView", name, resources, tex)
}

func (p *Program) SetSamplerState(name string, s gfx.Sampler) bool {
	return p.set("SetSamplerState", name, samplers, s)
}

func (p *Program) ResourceNames() []string {
	if p.decl == nil {
		return nil
	}
	return slices.Clone(p.decl.Resources)
}

func (p *Program) SamplerNames() []string {
	if p.decl == nil {
		return nil
	}
	return slices.Clone(p.decl.Samplers)
}

func (p *Program) CopyAllBufferData() {
	p.rec.record(p.ID, "CopyAllBufferData", "", nil)
}
