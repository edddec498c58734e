package gfx

// Attribute describes one float vertex attribute.
type Attribute struct {
	Location   uint32
	Components int
	Offset     int
}

// GeometryDesc is the data for CreateGeometry.
type GeometryDesc struct {
	Vertices   []byte
	Stride     int
	Attributes []Attribute
	Indices    []uint32
}

// Filter selects texture filtering.
type Filter int

const (
	FilterLinear Filter = iota
	FilterPoint
	FilterAnisotropic
)

// AddressMode selects texture coordinate wrapping.
type AddressMode int

const (
	AddressWrap AddressMode = iota
	AddressClamp
	AddressBorder
)

// CompareFunc is a depth or sampler comparison.
type CompareFunc int

const (
	CompareNever CompareFunc = iota
	CompareLess
	CompareLessEqual
	CompareAlways
)

// SamplerDesc describes a sampler state.
type SamplerDesc struct {
	Filter        Filter
	Address       AddressMode
	MaxAnisotropy int
	BorderColor   [4]float32

	// Comparison enables depth comparison sampling when not CompareNever.
	Comparison CompareFunc
}

// CullMode selects which faces are discarded.
type CullMode int

const (
	CullBack CullMode = iota
	CullFront
	CullNone
)

// RasterizerDesc describes a rasterizer state.
type RasterizerDesc struct {
	Cull                 CullMode
	DepthBias            int32
	SlopeScaledDepthBias float32
}

// DepthStencilDesc describes a depth state.
type DepthStencilDesc struct {
	DepthFunc    CompareFunc
	DisableWrite bool
}
