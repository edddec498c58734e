package entity

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Faultbox/prism/internal/engine/gfx"
	"github.com/Faultbox/prism/internal/engine/gfx/gfxtest"
	"github.com/Faultbox/prism/internal/engine/lighting"
	"github.com/Faultbox/prism/internal/engine/material"
	"github.com/Faultbox/prism/internal/engine/mesh"
	"github.com/Faultbox/prism/pkg/math"
)

// fakeSurface logs PrepareMaterial on the recorder so its position in the
// draw sequence can be asserted.
type fakeSurface struct {
	rec      *gfxtest.Recorder
	vs, ps   gfx.Program
	refs     int
	prepared int
}

func (s *fakeSurface) Retain()                    { s.refs++ }
func (s *fakeSurface) Release()                   { s.refs-- }
func (s *fakeSurface) VertexProgram() gfx.Program { return s.vs }
func (s *fakeSurface) PixelProgram() gfx.Program  { return s.ps }
func (s *fakeSurface) Tint() [4]float32           { return [4]float32{1, 0.5, 0.25, 1} }
func (s *fakeSurface) Roughness() float32         { return 0.15 }

func (s *fakeSurface) PrepareMaterial() {
	s.prepared++
	s.rec.Calls = append(s.rec.Calls, gfxtest.Call{Target: "surface", Op: "PrepareMaterial"})
}

type fakeView struct{}

func (fakeView) ViewMatrix() math.Mat4       { return math.Translate(0, 0, 5) }
func (fakeView) ProjectionMatrix() math.Mat4 { return math.PerspectiveLH(1, 1, 0.01, 100) }
func (fakeView) Position() math.Vec3         { return math.V3(0, 0, -5) }

func newMesh(t *testing.T, rec *gfxtest.Recorder) *mesh.Mesh {
	t.Helper()
	m, err := mesh.New(rec, "cube", mesh.Cube())
	require.NoError(t, err)
	return m
}

func newSurface(t *testing.T, rec *gfxtest.Recorder, suffix string) *fakeSurface {
	t.Helper()
	vs, err := rec.CreateProgram(gfx.VertexStage, "vs"+suffix, "")
	require.NoError(t, err)
	ps, err := rec.CreateProgram(gfx.PixelStage, "ps"+suffix, "")
	require.NoError(t, err)
	return &fakeSurface{rec: rec, vs: vs, ps: ps, refs: 1}
}

func TestDrawOrder(t *testing.T) {
	rec := gfxtest.New()
	m := newMesh(t, rec)
	s := newSurface(t, rec, "")
	e := New("box", m, s)
	rec.Reset()

	lights := []lighting.Light{lighting.Directional(math.V3(0, -1, 1), math.V3(1, 1, 1), 0.75)}
	e.Draw(rec, fakeView{}, math.V3(0.1, 0.1, 0.1), lights)

	assert.Equal(t, []string{
		"vs.SetMatrix4x4(world)",
		"vs.SetMatrix4x4(worldInvTranspose)",
		"vs.SetMatrix4x4(view)",
		"vs.SetMatrix4x4(projection)",
		"vs.CopyAllBufferData",
		"surface.PrepareMaterial",
		"ps.SetFloat4(colorTint)",
		"ps.SetFloat(roughness)",
		"ps.SetFloat3(cameraPosition)",
		"ps.SetFloat3(ambient)",
		"ps.SetInt(lightCount)",
		"ps.SetData(LightBlock)",
		"ps.CopyAllBufferData",
		"ctx.SetProgram(vs)",
		"ctx.SetProgram(ps)",
		"ctx.DrawIndexed(geometry#1)",
	}, rec.Strings())

	ps := s.ps.(*gfxtest.Program)
	assert.Equal(t, int32(1), ps.Values["lightCount"])
	assert.Len(t, ps.Values["LightBlock"], lighting.LightStride)
	assert.Equal(t, math.V3(0, 0, -5), ps.Values["cameraPosition"])
}

func TestDrawUploadsTransform(t *testing.T) {
	rec := gfxtest.New()
	m := newMesh(t, rec)
	e := New("box", m, newSurface(t, rec, ""))
	e.Transform().SetPosition(1, 2, 3)
	e.Transform().SetScale(2, 2, 2)

	e.Draw(rec, fakeView{}, math.Vec3{}, nil)

	world := e.Surface().VertexProgram().(*gfxtest.Program).Values["world"].(math.Mat4)
	assert.True(t, world.TransformPoint(math.V3(1, 1, 1)).ApproxEqual(math.V3(3, 4, 5), 1e-5))
	assert.Equal(t, int32(0), e.Surface().PixelProgram().(*gfxtest.Program).Values["lightCount"])
}

func TestLightCountIsClamped(t *testing.T) {
	rec := gfxtest.New()
	e := New("box", newMesh(t, rec), newSurface(t, rec, ""))
	lights := make([]lighting.Light, lighting.MaxLights+3)

	e.Draw(rec, fakeView{}, math.Vec3{}, lights)

	ps := e.Surface().PixelProgram().(*gfxtest.Program)
	assert.Equal(t, int32(lighting.MaxLights), ps.Values["lightCount"])
}

func TestSharedMeshDestroyedOnce(t *testing.T) {
	rec := gfxtest.New()
	m := newMesh(t, rec)
	geom := rec.Calls[0].Value.(*gfxtest.Geometry)
	s := newSurface(t, rec, "")

	a := New("a", m, s)
	b := New("b", m, s)
	m.Release()
	assert.Equal(t, 2, m.Refs())
	assert.Equal(t, 3, s.refs)

	a.Release()
	a.Release()
	assert.Equal(t, 1, m.Refs(), "double release must not drop a second reference")
	assert.Zero(t, geom.Released)

	b.Release()
	assert.Zero(t, m.Refs())
	assert.Equal(t, 1, geom.Released)
	assert.Equal(t, 1, s.refs)
}

func TestSetMaterial(t *testing.T) {
	rec := gfxtest.New()
	first := newSurface(t, rec, "1")
	second := newSurface(t, rec, "2")
	e := New("box", newMesh(t, rec), first)

	e.SetMaterial(second)
	assert.Equal(t, 1, first.refs)
	assert.Equal(t, 2, second.refs)

	// swapping to the same material keeps it alive
	e.SetMaterial(second)
	assert.Equal(t, 2, second.refs)

	rec.Reset()
	e.Draw(rec, fakeView{}, math.Vec3{}, nil)
	assert.Equal(t, 1, rec.Count("ctx.SetProgram(ps2)"))
	assert.Zero(t, first.prepared)
	assert.Equal(t, 1, second.prepared)
}

func TestWithRealMaterial(t *testing.T) {
	rec := gfxtest.New()
	vs, err := rec.CreateProgram(gfx.VertexStage, "vs", "")
	require.NoError(t, err)
	ps, err := rec.CreateProgram(gfx.PixelStage, "ps", "")
	require.NoError(t, err)
	tex, err := rec.CreateTexture2D(nil)
	require.NoError(t, err)

	vsShared, psShared, texShared := gfx.Share(vs), gfx.Share(ps), gfx.Share(tex)
	mat := material.New("stone", [4]float32{1, 1, 1, 1}, 0.15, vsShared, psShared)
	mat.AddTextureSRV("Albedo", texShared)
	vsShared.Release()
	psShared.Release()
	texShared.Release()

	e := New("floor", newMesh(t, rec), mat)
	mat.Release()
	rec.Reset()

	e.Draw(rec, fakeView{}, math.Vec3{}, nil)
	assert.Less(t, rec.Index("ps.SetShaderResourceView(Albedo)", 0), rec.Index("ps.SetFloat4(colorTint)", 0))

	e.Release()
	assert.Equal(t, 1, tex.(*gfxtest.Resource).Released)
	assert.Equal(t, 1, ps.(*gfxtest.Program).Released)
}
