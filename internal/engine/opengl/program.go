package opengl

import (
	"fmt"
	"strings"

	"github.com/go-gl/gl/v4.1-core/gl"
	"go.uber.org/zap"

	"github.com/Faultbox/prism/internal/engine/gfx"
	"github.com/Faultbox/prism/internal/engine/shader"
	"github.com/Faultbox/prism/internal/logger"
	"github.com/Faultbox/prism/pkg/math"
)

// program is a separable single-stage GL program.
// Uniform writes are staged and reach the program in CopyAllBufferData.
type program struct {
	dev   *Device
	id    uint32
	name  string
	stage gfx.Stage
	refl  *shader.Reflection

	locations map[string]int32
	blocks    map[string]*uniformBlock
	pending   map[int32]func()
}

type uniformBlock struct {
	binding uint32
	buffer  uint32
	data    []byte
}

var _ gfx.Program = (*program)(nil)

// CreateProgram compiles and links a single-stage program and reflects its
// textures, samplers and uniform blocks.
func (d *Device) CreateProgram(stage gfx.Stage, name, source string) (gfx.Program, error) {
	refl, err := shader.Parse(source)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", gfx.ErrResourceCreation, name, err)
	}

	id, err := compileSeparable(stage, source)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", gfx.ErrResourceCreation, name, err)
	}

	p := &program{
		dev:       d,
		id:        id,
		name:      name,
		stage:     stage,
		refl:      refl,
		locations: make(map[string]int32),
		blocks:    make(map[string]*uniformBlock),
		pending:   make(map[int32]func()),
	}

	// Point every texture variable at its device-wide unit
	for _, res := range refl.Resources {
		unit, err := d.textureUnit(res.Name)
		if err != nil {
			p.Release()
			return nil, err
		}
		if loc := p.location(res.Name); loc >= 0 {
			gl.ProgramUniform1i(id, loc, int32(unit))
		}
	}

	p.reflectBlocks()

	if err := checkError("program " + name); err != nil {
		p.Release()
		return nil, err
	}

	logger.Debug("program created",
		zap.String("name", name),
		zap.Stringer("stage", stage),
		zap.Uint32("program", id),
		zap.Strings("resources", refl.ResourceNames()),
	)
	return p, nil
}

// compileSeparable builds a program usable in a program pipeline.
func compileSeparable(stage gfx.Stage, source string) (uint32, error) {
	csource, free := gl.Strs(source + "\x00")
	id := gl.CreateShaderProgramv(glStage(stage), 1, csource)
	free()

	var status int32
	gl.GetProgramiv(id, gl.LINK_STATUS, &status)
	if status == gl.FALSE {
		var logLen int32
		gl.GetProgramiv(id, gl.INFO_LOG_LENGTH, &logLen)
		log := strings.Repeat("\x00", int(logLen+1))
		gl.GetProgramInfoLog(id, logLen, nil, gl.Str(log))
		gl.DeleteProgram(id)
		return 0, fmt.Errorf("%s shader: %s", stage, strings.TrimRight(log, "\x00"))
	}
	return id, nil
}

func glStage(s gfx.Stage) uint32 {
	if s == gfx.PixelStage {
		return gl.FRAGMENT_SHADER
	}
	return gl.VERTEX_SHADER
}

func glStageBit(s gfx.Stage) uint32 {
	if s == gfx.PixelStage {
		return gl.FRAGMENT_SHADER_BIT
	}
	return gl.VERTEX_SHADER_BIT
}

func (p *program) reflectBlocks() {
	var count int32
	gl.GetProgramiv(p.id, gl.ACTIVE_UNIFORM_BLOCKS, &count)

	for i := uint32(0); i < uint32(count); i++ {
		var nameLen, size int32
		gl.GetActiveUniformBlockiv(p.id, i, gl.UNIFORM_BLOCK_NAME_LENGTH, &nameLen)
		gl.GetActiveUniformBlockiv(p.id, i, gl.UNIFORM_BLOCK_DATA_SIZE, &size)

		buf := strings.Repeat("\x00", int(nameLen+1))
		gl.GetActiveUniformBlockName(p.id, i, nameLen, nil, gl.Str(buf))
		name := strings.TrimRight(buf, "\x00")

		b := &uniformBlock{
			binding: p.dev.blockBinding(name),
			data:    make([]byte, size),
		}
		gl.UniformBlockBinding(p.id, i, b.binding)

		gl.GenBuffers(1, &b.buffer)
		gl.BindBuffer(gl.UNIFORM_BUFFER, b.buffer)
		gl.BufferData(gl.UNIFORM_BUFFER, int(size), nil, gl.DYNAMIC_DRAW)
		gl.BindBuffer(gl.UNIFORM_BUFFER, 0)

		p.blocks[name] = b
	}
}

// location caches uniform locations; -1 means not declared or optimised out.
func (p *program) location(name string) int32 {
	if loc, ok := p.locations[name]; ok {
		return loc
	}
	loc := gl.GetUniformLocation(p.id, gl.Str(name+"\x00"))
	p.locations[name] = loc
	return loc
}

func (p *program) Name() string     { return p.name }
func (p *program) Stage() gfx.Stage { return p.stage }

func (p *program) stageUniform(name string, write func(loc int32)) bool {
	loc := p.location(name)
	if loc < 0 {
		return false
	}
	p.pending[loc] = func() { write(loc) }
	return true
}

func (p *program) SetMatrix4x4(name string, m math.Mat4) bool {
	return p.stageUniform(name, func(loc int32) {
		gl.ProgramUniformMatrix4fv(p.id, loc, 1, false, &m[0])
	})
}

func (p *program) SetFloat(name string, v float32) bool {
	return p.stageUniform(name, func(loc int32) {
		gl.ProgramUniform1f(p.id, loc, v)
	})
}

func (p *program) SetFloat3(name string, v math.Vec3) bool {
	return p.stageUniform(name, func(loc int32) {
		gl.ProgramUniform3f(p.id, loc, v.X, v.Y, v.Z)
	})
}

func (p *program) SetFloat4(name string, v [4]float32) bool {
	return p.stageUniform(name, func(loc int32) {
		gl.ProgramUniform4f(p.id, loc, v[0], v[1], v[2], v[3])
	})
}

func (p *program) SetInt(name string, v int32) bool {
	return p.stageUniform(name, func(loc int32) {
		gl.ProgramUniform1i(p.id, loc, v)
	})
}

// SetData copies data into a uniform block, truncated to the block size.
func (p *program) SetData(name string, data []byte) bool {
	b, ok := p.blocks[name]
	if !ok {
		return false
	}
	n := copy(b.data, data)
	clear(b.data[n:])
	return true
}

// SetShaderResourceView binds tex to the unit reserved for name.
func (p *program) SetShaderResourceView(name string, tex gfx.Texture) bool {
	if _, ok := p.refl.Resource(name); !ok {
		return false
	}
	unit := p.dev.textureUnits[name]

	gl.ActiveTexture(gl.TEXTURE0 + unit)
	switch t := tex.(type) {
	case *texture:
		gl.BindTexture(t.target, t.id)
	case nil:
		gl.BindTexture(gl.TEXTURE_2D, 0)
	default:
		logger.Warn("foreign texture type", zap.String("name", name))
		return false
	}
	return true
}

// SetSamplerState binds s to the unit of every texture the sampler annotation pairs it with.
func (p *program) SetSamplerState(name string, s gfx.Sampler) bool {
	decl, ok := p.refl.Sampler(name)
	if !ok {
		return false
	}

	var id uint32
	if smp, ok := s.(*sampler); ok {
		id = smp.id
	}
	for _, tex := range decl.Textures {
		gl.BindSampler(p.dev.textureUnits[tex], id)
	}
	return true
}

func (p *program) ResourceNames() []string { return p.refl.ResourceNames() }
func (p *program) SamplerNames() []string  { return p.refl.SamplerNames() }

// CopyAllBufferData writes staged uniforms and attaches uniform blocks.
func (p *program) CopyAllBufferData() {
	for loc, write := range p.pending {
		write()
		delete(p.pending, loc)
	}

	for _, b := range p.blocks {
		gl.BindBuffer(gl.UNIFORM_BUFFER, b.buffer)
		gl.BufferSubData(gl.UNIFORM_BUFFER, 0, len(b.data), gl.Ptr(b.data))
		gl.BindBufferBase(gl.UNIFORM_BUFFER, b.binding, b.buffer)
	}
	gl.BindBuffer(gl.UNIFORM_BUFFER, 0)
}

func (p *program) Release() {
	for _, b := range p.blocks {
		gl.DeleteBuffers(1, &b.buffer)
	}
	p.blocks = nil
	if p.id != 0 {
		gl.DeleteProgram(p.id)
		p.id = 0
	}
}
