package scene

import (
	"errors"
	"fmt"
	"strings"

	"github.com/Faultbox/prism/internal/engine/lighting"
	"github.com/Faultbox/prism/pkg/math"
)

func (l LightDesc) light() (lighting.Light, error) {
	color, err := vec3(l.Color, math.V3(1, 1, 1))
	if err != nil {
		return lighting.Light{}, fmt.Errorf("color: %w", err)
	}
	intensity := float32(1)
	if l.Intensity != nil {
		intensity = *l.Intensity
	}
	if intensity < 0 {
		return lighting.Light{}, fmt.Errorf("intensity must not be negative, got %g", intensity)
	}

	switch strings.ToLower(l.Type) {
	case "directional", "":
		if l.Sun != nil {
			return lighting.Sun(l.Sun.Longitude, l.Sun.Latitude, color, intensity), nil
		}
		dir, err := vec3(l.Direction, math.V3(0, -1, 0))
		if err != nil {
			return lighting.Light{}, fmt.Errorf("direction: %w", err)
		}
		if dir.Length() == 0 {
			return lighting.Light{}, errors.New("direction: zero length")
		}
		return lighting.Directional(dir, color, intensity), nil

	case "point":
		pos, err := vec3(l.Position, math.Vec3{})
		if err != nil {
			return lighting.Light{}, fmt.Errorf("position: %w", err)
		}
		if l.Range <= 0 {
			return lighting.Light{}, fmt.Errorf("range must be positive, got %g", l.Range)
		}
		return lighting.Point(pos, color, intensity, l.Range), nil

	default:
		return lighting.Light{}, fmt.Errorf("unknown light type %q", l.Type)
	}
}

// shadowCasterFirst moves the first directional light to index 0, the only
// light the pixel shader applies the shadow map to. The rest keep their order.
func shadowCasterFirst(lights []lighting.Light) {
	for i, l := range lights {
		if l.Type == lighting.TypeDirectional {
			copy(lights[1:i+1], lights[:i])
			lights[0] = l
			return
		}
	}
}
