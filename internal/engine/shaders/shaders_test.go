package shaders

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Faultbox/prism/internal/engine/shader"
)

func TestEmbeddedSourcesReflect(t *testing.T) {
	for _, name := range []string{MainVertex, MainPixel, ShadowVertex, SkyVertex, SkyPixel} {
		src, err := Source(name)
		require.NoError(t, err, name)
		_, err = shader.Parse(src)
		assert.NoError(t, err, name)
	}
}

func TestMainPixelDeclaresMaterialAndShadowInputs(t *testing.T) {
	src, err := Source(MainPixel)
	require.NoError(t, err)
	refl, err := shader.Parse(src)
	require.NoError(t, err)

	assert.ElementsMatch(t,
		[]string{"Albedo", "NormalMap", "RoughnessMap", "MetalnessMap", "ShadowMap"},
		refl.ResourceNames())
	assert.ElementsMatch(t, []string{"BasicSampler", "ShadowSampler"}, refl.SamplerNames())
}

func TestMissingSource(t *testing.T) {
	_, err := Source("nope.vert")
	assert.Error(t, err)
}
