package lighting

import (
	"github.com/chewxy/math32"

	"github.com/Faultbox/prism/pkg/math"
)

// SunDirection converts sun angles in degrees to the direction sunlight
// travels. Longitude rotates around Y with 0 along +Z; latitude is the
// elevation above the horizon.
func SunDirection(longitude, latitude float32) math.Vec3 {
	lon := longitude * math32.Pi / 180
	lat := latitude * math32.Pi / 180

	sinLon, cosLon := math32.Sincos(lon)
	sinLat, cosLat := math32.Sincos(lat)

	// towards the sun, negated
	return math.Vec3{X: -cosLat * sinLon, Y: -sinLat, Z: -cosLat * cosLon}
}

// Sun returns a directional light for the given sun angles.
func Sun(longitude, latitude float32, color math.Vec3, intensity float32) Light {
	return Directional(SunDirection(longitude, latitude), color, intensity)
}
