// Package geodesy converts WGS-84 geodetic positions into a local East-North-Up
// tangent plane anchored at a reference origin, and back.
//
// The conversion goes through Earth-Centered Earth-Fixed coordinates: both the
// position and the origin are projected onto ECEF, the difference vector is
// rotated into the origin's ENU frame. No flat-earth approximation is made, so
// offsets stay accurate to well below a centimeter over tens of kilometers.
package geodesy

import (
	"math"

	"gonum.org/v1/gonum/spatial/r3"
)

// WGS-84 ellipsoid parameters
const (
	SemiMajorAxis = 6378137.0         // a, meters
	Flattening    = 1 / 298.257223563 // f
)

const (
	eccentricitySq = Flattening * (2 - Flattening)
	semiMinorAxis  = SemiMajorAxis * (1 - Flattening)
	secondEccSq    = eccentricitySq / (1 - eccentricitySq)

	maxIterations = 10
	latTolerance  = 1e-12 // radians

	degToRad = math.Pi / 180
	radToDeg = 180 / math.Pi
)

// Geodetic is a position on the WGS-84 ellipsoid
type Geodetic struct {
	Lat float64 // Latitude in decimal degrees, positive north
	Lon float64 // Longitude in decimal degrees, positive east
	Alt float64 // Height above the ellipsoid in meters
}

// ENU is an offset in the local tangent plane of a reference origin, in meters
type ENU struct {
	East  float64
	North float64
	Up    float64
}

// GeodeticToECEF projects g onto Earth-Centered Earth-Fixed coordinates, in meters.
func GeodeticToECEF(g Geodetic) r3.Vec {
	lat := g.Lat * degToRad
	lon := g.Lon * degToRad

	sinLat, cosLat := math.Sincos(lat)
	sinLon, cosLon := math.Sincos(lon)

	// prime vertical radius of curvature
	n := SemiMajorAxis / math.Sqrt(1-eccentricitySq*sinLat*sinLat)

	return r3.Vec{
		X: (n + g.Alt) * cosLat * cosLon,
		Y: (n + g.Alt) * cosLat * sinLon,
		Z: (n*(1-eccentricitySq) + g.Alt) * sinLat,
	}
}

// ECEFToGeodetic is the inverse of GeodeticToECEF. Latitude is refined
// iteratively from Bowring's initial guess.
func ECEFToGeodetic(v r3.Vec) Geodetic {
	lon := math.Atan2(v.Y, v.X)
	p := math.Hypot(v.X, v.Y)

	if p == 0 {
		// on the polar axis
		lat := math.Copysign(math.Pi/2, v.Z)
		return Geodetic{
			Lat: lat * radToDeg,
			Lon: 0,
			Alt: math.Abs(v.Z) - semiMinorAxis,
		}
	}

	theta := math.Atan2(v.Z*SemiMajorAxis, p*semiMinorAxis)
	sinT, cosT := math.Sincos(theta)
	lat := math.Atan2(
		v.Z+secondEccSq*semiMinorAxis*sinT*sinT*sinT,
		p-eccentricitySq*SemiMajorAxis*cosT*cosT*cosT,
	)

	for i := 0; i < maxIterations; i++ {
		sinLat := math.Sin(lat)
		n := SemiMajorAxis / math.Sqrt(1-eccentricitySq*sinLat*sinLat)
		next := math.Atan2(v.Z+eccentricitySq*n*sinLat, p)
		if math.Abs(next-lat) < latTolerance {
			lat = next
			break
		}
		lat = next
	}

	// stable everywhere, including close to the poles
	sinLat, cosLat := math.Sincos(lat)
	alt := p*cosLat + v.Z*sinLat - SemiMajorAxis*math.Sqrt(1-eccentricitySq*sinLat*sinLat)

	return Geodetic{
		Lat: lat * radToDeg,
		Lon: lon * radToDeg,
		Alt: alt,
	}
}

// GeodeticToENU returns the offset of p from origin in the origin's local
// East-North-Up frame. It is a pure function of the two positions.
func GeodeticToENU(p, origin Geodetic) ENU {
	d := r3.Sub(GeodeticToECEF(p), GeodeticToECEF(origin))

	sinLat, cosLat := math.Sincos(origin.Lat * degToRad)
	sinLon, cosLon := math.Sincos(origin.Lon * degToRad)

	return ENU{
		East:  -sinLon*d.X + cosLon*d.Y,
		North: -sinLat*cosLon*d.X - sinLat*sinLon*d.Y + cosLat*d.Z,
		Up:    cosLat*cosLon*d.X + cosLat*sinLon*d.Y + sinLat*d.Z,
	}
}

// ENUToGeodetic is the inverse of GeodeticToENU.
func ENUToGeodetic(e ENU, origin Geodetic) Geodetic {
	sinLat, cosLat := math.Sincos(origin.Lat * degToRad)
	sinLon, cosLon := math.Sincos(origin.Lon * degToRad)

	// transpose of the ECEF -> ENU rotation
	d := r3.Vec{
		X: -sinLon*e.East - sinLat*cosLon*e.North + cosLat*cosLon*e.Up,
		Y: cosLon*e.East - sinLat*sinLon*e.North + cosLat*sinLon*e.Up,
		Z: cosLat*e.North + sinLat*e.Up,
	}

	return ECEFToGeodetic(r3.Add(GeodeticToECEF(origin), d))
}

// LocalENU is GeodeticToENU over bare coordinates: position (lat, lon, alt)
// relative to the origin (lat0, lon0, alt0).
func LocalENU(lat, lon, alt, lat0, lon0, alt0 float64) (east, north, up float64) {
	enu := GeodeticToENU(Geodetic{Lat: lat, Lon: lon, Alt: alt}, Geodetic{Lat: lat0, Lon: lon0, Alt: alt0})
	return enu.East, enu.North, enu.Up
}
