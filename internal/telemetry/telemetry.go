package telemetry

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/roman-kulish/drone-pointcloud/internal/geodesy"
)

const (
	// FixSentencePrefix marks the log lines carrying a position fix
	FixSentencePrefix = "$GPGGA"

	// ExpectedFieldCount is the number of comma separated fields of a fix
	// sentence: the 15 GGA fields plus the payload sensor reading.
	ExpectedFieldCount = 16

	// MinutesPerDegree scales the minutes part of ddmm.mmmm coordinates
	MinutesPerDegree = 60.0
)

// Field positions within a fix sentence
const (
	fieldLatitude    = 2
	fieldLatHemi     = 3
	fieldLongitude   = 4
	fieldLonHemi     = 5
	fieldFixQuality  = 6
	fieldAltitude    = 9
	fieldSensorValue = 15
)

var (
	// ErrNotFixSentence is returned for lines that do not start with FixSentencePrefix
	ErrNotFixSentence = errors.New("not a fix sentence")

	// ErrFieldCount is returned when a fix sentence does not have ExpectedFieldCount fields
	ErrFieldCount = errors.New("unexpected field count")

	// ErrInvalidFix is returned when the fix quality flag reports no usable fix
	ErrInvalidFix = errors.New("invalid fix")

	// ErrMalformedField is returned when a numeric or hemisphere field cannot be parsed
	ErrMalformedField = errors.New("malformed field")
)

// Fix is one accepted fix sentence from the payload log
type Fix struct {
	Latitude     float64 // Signed decimal degrees, negative south
	Longitude    float64 // Signed decimal degrees, negative west
	RawLatitude  float64 // Signed ddmm.mmmm as logged
	RawLongitude float64 // Signed dddmm.mmmm as logged
	Altitude     float64 // Meters
	FixQuality   int     // GGA fix quality, > 0 for accepted fixes
	SensorValue  float64 // Payload sensor reading, unitless
}

// Valid reports whether the fix quality flag denotes a usable fix
func (f *Fix) Valid() bool {
	return f.FixQuality > 0
}

// Position returns the geodetic position of the fix
func (f *Fix) Position() geodesy.Geodetic {
	return geodesy.Geodetic{
		Lat: f.Latitude,
		Lon: f.Longitude,
		Alt: f.Altitude,
	}
}

// ParseFix parses a single log line. Lines that are not fix sentences return
// ErrNotFixSentence; fix sentences that must be dropped return one of
// ErrFieldCount, ErrInvalidFix or ErrMalformedField.
func ParseFix(line string) (*Fix, error) {
	if !strings.HasPrefix(line, FixSentencePrefix) {
		return nil, ErrNotFixSentence
	}

	line = strings.TrimRight(line, "\r\n")
	fields := strings.Split(line, ",")
	if len(fields) != ExpectedFieldCount {
		return nil, fmt.Errorf("%w: got %d, want %d", ErrFieldCount, len(fields), ExpectedFieldCount)
	}

	quality, err := strconv.Atoi(strings.TrimSpace(fields[fieldFixQuality]))
	fix := Fix{FixQuality: quality}
	if err != nil || !fix.Valid() {
		return nil, fmt.Errorf("%w: quality %q", ErrInvalidFix, fields[fieldFixQuality])
	}

	if fix.RawLatitude, fix.Latitude, err = parseCoordinate(fields[fieldLatitude], fields[fieldLatHemi], "N", "S"); err != nil {
		return nil, fmt.Errorf("latitude: %w", err)
	}
	if fix.RawLongitude, fix.Longitude, err = parseCoordinate(fields[fieldLongitude], fields[fieldLonHemi], "E", "W"); err != nil {
		return nil, fmt.Errorf("longitude: %w", err)
	}
	if err = geodesy.ValidateLatitude(fix.Latitude); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrMalformedField, err)
	}
	if err = geodesy.ValidateLongitude(fix.Longitude); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrMalformedField, err)
	}
	if fix.Altitude, err = parseFloat(fields[fieldAltitude]); err != nil {
		return nil, fmt.Errorf("altitude: %w", err)
	}
	if fix.SensorValue, err = parseFloat(fields[fieldSensorValue]); err != nil {
		return nil, fmt.Errorf("sensor value: %w", err)
	}

	return &fix, nil
}

func parseFloat(s string) (float64, error) {
	v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, fmt.Errorf("%w: %q", ErrMalformedField, s)
	}
	return v, nil
}

// parseCoordinate reads a (d)ddmm.mmmm magnitude with its hemisphere letter.
// It returns the signed value as logged and the signed decimal degrees.
func parseCoordinate(value, hemi, positive, negative string) (raw, degrees float64, err error) {
	value = strings.TrimSpace(value)
	hemi = strings.ToUpper(strings.TrimSpace(hemi))

	var sign float64
	switch hemi {
	case positive:
		sign = 1
	case negative:
		sign = -1
	default:
		return 0, 0, fmt.Errorf("%w: hemisphere %q", ErrMalformedField, hemi)
	}

	// the last two digits of the integer part are minutes
	intPart := value
	if dot := strings.IndexByte(value, '.'); dot != -1 {
		intPart = value[:dot]
	}
	if len(intPart) < 3 {
		return 0, 0, fmt.Errorf("%w: coordinate %q", ErrMalformedField, value)
	}

	deg, err := strconv.Atoi(intPart[:len(intPart)-2])
	if err != nil || deg < 0 {
		return 0, 0, fmt.Errorf("%w: coordinate %q", ErrMalformedField, value)
	}
	mins, err := strconv.ParseFloat(value[len(intPart)-2:], 64)
	if err != nil || mins < 0 || mins >= MinutesPerDegree {
		return 0, 0, fmt.Errorf("%w: coordinate %q", ErrMalformedField, value)
	}
	magnitude, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return 0, 0, fmt.Errorf("%w: coordinate %q", ErrMalformedField, value)
	}

	return sign * magnitude, sign * (float64(deg) + mins/MinutesPerDegree), nil
}
