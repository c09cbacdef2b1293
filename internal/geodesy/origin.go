package geodesy

import (
	"errors"
	"fmt"
)

const (
	MaxLatitude  = 90.0
	MaxLongitude = 180.0
)

var (
	ErrLatitudeRange  = errors.New("latitude out of range")
	ErrLongitudeRange = errors.New("longitude out of range")
)

// ValidateLatitude checks lat against [-90, 90]. NaN is out of range.
func ValidateLatitude(lat float64) error {
	if !(lat >= -MaxLatitude && lat <= MaxLatitude) {
		return fmt.Errorf("%w: %v not in [-%v, %v]", ErrLatitudeRange, lat, MaxLatitude, MaxLatitude)
	}
	return nil
}

// ValidateLongitude checks lon against [-180, 180]. NaN is out of range.
func ValidateLongitude(lon float64) error {
	if !(lon >= -MaxLongitude && lon <= MaxLongitude) {
		return fmt.Errorf("%w: %v not in [-%v, %v]", ErrLongitudeRange, lon, MaxLongitude, MaxLongitude)
	}
	return nil
}

// OriginOverride holds the reference origin components given explicitly on
// the command line or in a settings file. A nil component is taken from the
// first accepted fix of the run.
type OriginOverride struct {
	Lat *float64 // degrees
	Lon *float64 // degrees
	Alt *float64 // meters
}

// Complete reports whether every component is supplied, in which case the
// origin does not depend on the input at all.
func (o OriginOverride) Complete() bool {
	return o.Lat != nil && o.Lon != nil && o.Alt != nil
}

// Validate checks the supplied angular components.
func (o OriginOverride) Validate() error {
	if o.Lat != nil {
		if err := ValidateLatitude(*o.Lat); err != nil {
			return fmt.Errorf("reference origin: %w", err)
		}
	}
	if o.Lon != nil {
		if err := ValidateLongitude(*o.Lon); err != nil {
			return fmt.Errorf("reference origin: %w", err)
		}
	}
	return nil
}

// Resolve builds the reference origin, filling unsupplied components from first.
func (o OriginOverride) Resolve(first Geodetic) Geodetic {
	origin := first
	if o.Lat != nil {
		origin.Lat = *o.Lat
	}
	if o.Lon != nil {
		origin.Lon = *o.Lon
	}
	if o.Alt != nil {
		origin.Alt = *o.Alt
	}
	return origin
}

// Reference resolves the origin once, lazily, on the first position it is
// asked to project, and keeps it for the rest of the run.
type Reference struct {
	override OriginOverride
	origin   Geodetic
	resolved bool
}

// NewReference creates a Reference. A complete override resolves immediately.
func NewReference(override OriginOverride) *Reference {
	r := &Reference{override: override}
	if override.Complete() {
		r.origin = override.Resolve(Geodetic{})
		r.resolved = true
	}
	return r
}

// Origin returns the resolved origin and whether resolution has happened yet.
func (r *Reference) Origin() (Geodetic, bool) {
	return r.origin, r.resolved
}

// ToENU projects p into the reference frame, resolving the origin from p if
// this is the first call.
func (r *Reference) ToENU(p Geodetic) ENU {
	if !r.resolved {
		r.origin = r.override.Resolve(p)
		r.resolved = true
	}
	return GeodeticToENU(p, r.origin)
}
