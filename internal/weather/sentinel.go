package weather

// Kind identifies how a raw GSOD field encodes "missing".
type Kind int

const (
	Temperature Kind = iota
	Precipitation
	WindSpeed
)

// GSOD missing-value encodings.
const (
	// TemperatureMissing marks a missing mean, max or min temperature (exact match).
	TemperatureMissing = 9999.9
	// PrecipitationMissing and anything above it marks missing precipitation.
	PrecipitationMissing = 99.99
	// WindSpeedMissing and anything above it marks missing wind speed.
	WindSpeedMissing = 999.9
)

// IsMissing reports whether v is absent or carries the missing encoding for kind.
func IsMissing(kind Kind, v *float64) bool {
	if v == nil {
		return true
	}
	switch kind {
	case Temperature:
		return *v == TemperatureMissing
	case Precipitation:
		return *v >= PrecipitationMissing
	case WindSpeed:
		return *v >= WindSpeedMissing
	}
	return false
}

// Filter returns v unchanged unless it is missing, in which case it returns nil.
func Filter(kind Kind, v *float64) *float64 {
	if IsMissing(kind, v) {
		return nil
	}
	return v
}
