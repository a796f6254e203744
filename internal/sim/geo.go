package sim

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// GeoRef maps a local flat-earth NED frame to latitude/longitude around
// an origin.
type GeoRef struct {
	OriginLat float64
	OriginLon float64
}

const metersPerDegLat = 111_320.0

func (g GeoRef) metersPerDegLon() float64 {
	return metersPerDegLat * math.Cos(g.OriginLat*math.Pi/180.0)
}

// GeoToLocal returns the NED position of a point (alt in meters).
func (g GeoRef) GeoToLocal(lat, lon, alt float64) mgl64.Vec3 {
	dLat := lat - g.OriginLat
	dLon := lon - g.OriginLon
	return mgl64.Vec3{
		dLat * metersPerDegLat,     // north
		dLon * g.metersPerDegLon(), // east
		-alt,                       // down
	}
}

// LocalToGeo is the inverse of GeoToLocal.
func (g GeoRef) LocalToGeo(p mgl64.Vec3) (lat, lon, alt float64) {
	lat = g.OriginLat + p[0]/metersPerDegLat
	lon = g.OriginLon + p[1]/g.metersPerDegLon()
	alt = -p[2]
	return
}

// HeadingDegFromVec returns the ground track of an NED velocity.
func HeadingDegFromVec(v mgl64.Vec3) float64 {
	// Heading: 0=north, 90=east
	if math.Abs(v[0]) < 1e-9 && math.Abs(v[1]) < 1e-9 {
		return 0
	}
	angleRad := math.Atan2(v[1], v[0])
	deg := angleRad * 180.0 / math.Pi
	if deg < 0 {
		deg += 360
	}
	return deg
}
