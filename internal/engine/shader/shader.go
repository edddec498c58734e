// Package shader reflects the resources a GLSL source declares.
//
// OpenGL has no separate sampler variables, so a source pairs named sampler
// states with the textures they filter through a comment annotation:
//
//	//@sampler BasicSampler Albedo NormalMap
//	uniform sampler2D Albedo;
//	uniform sampler2D NormalMap;
//
// Binding BasicSampler then applies to every texture listed after it.
package shader

import (
	"bufio"
	"fmt"
	"slices"
	"strings"
)

const samplerAnnotation = "//@sampler"

// ResourceKind is the GLSL type of a texture variable.
type ResourceKind string

const (
	Texture2D   ResourceKind = "sampler2D"
	TextureCube ResourceKind = "samplerCube"
	ShadowMap   ResourceKind = "sampler2DShadow"
)

// Resource is a texture variable declared by the source.
type Resource struct {
	Name string
	Kind ResourceKind
	Line int
}

// Sampler is a named sampler state and the textures it applies to.
type Sampler struct {
	Name     string
	Textures []string
	Line     int
}

// Reflection is what Parse found in a source.
type Reflection struct {
	Resources []Resource
	Samplers  []Sampler
}

// ResourceNames returns declared texture names in source order.
func (r *Reflection) ResourceNames() []string {
	names := make([]string, len(r.Resources))
	for i, res := range r.Resources {
		names[i] = res.Name
	}
	return names
}

// SamplerNames returns declared sampler names in source order.
func (r *Reflection) SamplerNames() []string {
	names := make([]string, len(r.Samplers))
	for i, s := range r.Samplers {
		names[i] = s.Name
	}
	return names
}

// Resource looks up a texture variable by name.
func (r *Reflection) Resource(name string) (Resource, bool) {
	for _, res := range r.Resources {
		if res.Name == name {
			return res, true
		}
	}
	return Resource{}, false
}

// Sampler looks up a sampler by name.
func (r *Reflection) Sampler(name string) (Sampler, bool) {
	for _, s := range r.Samplers {
		if s.Name == name {
			return s, true
		}
	}
	return Sampler{}, false
}

// Parse scans source for texture uniforms and sampler annotations.
// Every texture an annotation names must be declared, and no texture may
// belong to two samplers.
func Parse(source string) (*Reflection, error) {
	refl := &Reflection{}

	scanner := bufio.NewScanner(strings.NewReader(source))
	line := 0
	for scanner.Scan() {
		line++
		text := strings.TrimSpace(scanner.Text())

		if strings.HasPrefix(text, samplerAnnotation) {
			fields := strings.Fields(strings.TrimPrefix(text, samplerAnnotation))
			if len(fields) < 2 {
				return nil, fmt.Errorf("line %d: sampler annotation needs a name and at least one texture", line)
			}
			if _, dup := refl.Sampler(fields[0]); dup {
				return nil, fmt.Errorf("line %d: sampler %q declared twice", line, fields[0])
			}
			refl.Samplers = append(refl.Samplers, Sampler{Name: fields[0], Textures: fields[1:], Line: line})
			continue
		}

		if res, ok := parseUniform(text); ok {
			res.Line = line
			refl.Resources = append(refl.Resources, res)
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}

	owner := map[string]string{}
	for _, s := range refl.Samplers {
		for _, tex := range s.Textures {
			if _, ok := refl.Resource(tex); !ok {
				return nil, fmt.Errorf("line %d: sampler %q names undeclared texture %q", s.Line, s.Name, tex)
			}
			if prev, ok := owner[tex]; ok {
				return nil, fmt.Errorf("line %d: texture %q already filtered by sampler %q", s.Line, tex, prev)
			}
			owner[tex] = s.Name
		}
	}

	return refl, nil
}

// parseUniform recognises "uniform <sampler type> <name>;" declarations.
func parseUniform(text string) (Resource, bool) {
	if i := strings.Index(text, "//"); i >= 0 {
		text = text[:i]
	}
	fields := strings.Fields(strings.TrimSuffix(strings.TrimSpace(text), ";"))
	if len(fields) != 3 || fields[0] != "uniform" {
		return Resource{}, false
	}

	kind := ResourceKind(fields[1])
	if !slices.Contains([]ResourceKind{Texture2D, TextureCube, ShadowMap}, kind) {
		return Resource{}, false
	}
	return Resource{Name: fields[2], Kind: kind}, true
}
