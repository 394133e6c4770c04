package weather

import (
	"errors"
	"fmt"
)

// Reasons reported with found=false results.
const (
	ReasonNoStation       = "No station for that city"
	ReasonNoRangeData     = "No data in that range"
	ReasonNoYearData      = "No data for that year"
	ReasonNoNearbyStation = "No station with known coordinates"
)

// ValidationError rejects a request before any dataset call is made.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return e.Message
	}
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Message)
}

// UpstreamError wraps a failure of the dataset or geocoding collaborator. The
// upstream message is preserved.
type UpstreamError struct {
	Op  string
	Err error
}

func (e *UpstreamError) Error() string {
	return fmt.Sprintf("%s: upstream failure: %v", e.Op, e.Err)
}

func (e *UpstreamError) Unwrap() error {
	return e.Err
}

// IsValidation reports whether err is a ValidationError.
func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}

// IsUpstream reports whether err is an UpstreamError.
func IsUpstream(err error) bool {
	var ue *UpstreamError
	return errors.As(err, &ue)
}
