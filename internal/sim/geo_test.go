package sim

import (
	"testing"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/stretchr/testify/assert"
)

func TestGeoRef_RoundTrip(t *testing.T) {
	g := GeoRef{OriginLat: 32.0853, OriginLon: 34.7818}

	p := g.GeoToLocal(32.0953, 34.7718, 850)
	assert.InDelta(t, 1113.2, p[0], 1e-6, "north")
	assert.Less(t, p[1], 0.0, "west of origin")
	assert.Equal(t, -850.0, p[2])

	lat, lon, alt := g.LocalToGeo(p)
	assert.InDelta(t, 32.0953, lat, 1e-9)
	assert.InDelta(t, 34.7718, lon, 1e-9)
	assert.Equal(t, 850.0, alt)
}

func TestHeadingDegFromVec(t *testing.T) {
	tests := []struct {
		name string
		v    mgl64.Vec3
		want float64
	}{
		{"north", mgl64.Vec3{10, 0, 0}, 0},
		{"east", mgl64.Vec3{0, 10, 0}, 90},
		{"south", mgl64.Vec3{-10, 0, 3}, 180},
		{"west", mgl64.Vec3{0, -10, 0}, 270},
		{"still", mgl64.Vec3{0, 0, 5}, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.want, HeadingDegFromVec(tt.v), 1e-9)
		})
	}
}
