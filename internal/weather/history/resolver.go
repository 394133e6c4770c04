package history

import (
	"context"
	"math"

	"github.com/i474232898/gsod-weather/internal/weather"
)

const earthRadiusKm = 6371.0

// ResolveCity maps a city name to the alphabetically first station whose name
// contains it. No match is a normal, found=false result.
func (s *Service) ResolveCity(ctx context.Context, req weather.CityRequest) (weather.CityResolution, error) {
	req.Normalize()
	if err := weather.Validate(req); err != nil {
		return weather.CityResolution{}, err
	}

	rows, err := s.run(ctx, s.builder.ResolveCity(req))
	if err != nil {
		return weather.CityResolution{}, err
	}
	if len(rows) == 0 {
		return weather.CityResolution{Found: false, Reason: weather.ReasonNoStation}, nil
	}

	st, err := decodeStation(rows[0])
	if err != nil {
		return weather.CityResolution{}, &weather.UpstreamError{Op: "decode station", Err: err}
	}
	return weather.CityResolution{Found: true, Station: &st}, nil
}

// NearestStation returns the station closest to the given coordinates, or to
// the geocoded city when no coordinates are supplied.
func (s *Service) NearestStation(ctx context.Context, req weather.NearestRequest) (weather.NearestResolution, error) {
	req.Normalize()
	if err := weather.Validate(req); err != nil {
		return weather.NearestResolution{}, err
	}

	lat, lon, err := s.locate(ctx, req)
	if err != nil {
		return weather.NearestResolution{}, err
	}

	rows, err := s.run(ctx, s.builder.NearestStation(lat, lon))
	if err != nil {
		return weather.NearestResolution{}, err
	}
	if len(rows) == 0 {
		return weather.NearestResolution{Found: false, Reason: weather.ReasonNoNearbyStation}, nil
	}

	st, err := decodeStation(rows[0])
	if err != nil {
		return weather.NearestResolution{}, &weather.UpstreamError{Op: "decode station", Err: err}
	}
	res := weather.NearestResolution{Found: true, Station: &st}
	if st.Lat != nil && st.Lon != nil {
		d := haversineKm(lat, lon, *st.Lat, *st.Lon)
		res.DistanceKm = &d
	}
	return res, nil
}

func (s *Service) locate(ctx context.Context, req weather.NearestRequest) (float64, float64, error) {
	switch {
	case req.Lat != nil && req.Lon != nil:
		return *req.Lat, *req.Lon, nil
	case req.Lat != nil || req.Lon != nil:
		return 0, 0, &weather.ValidationError{Field: "lat", Message: "lat and lon must be given together"}
	case req.City == "":
		return 0, 0, &weather.ValidationError{Field: "city", Message: "either lat and lon or city is required"}
	case s.geocoder == nil:
		return 0, 0, &weather.ValidationError{Field: "city", Message: "geocoding is not configured; pass lat and lon"}
	}

	lat, lon, err := s.geocoder.Locate(ctx, req.City, req.CountryCode)
	if err != nil {
		return 0, 0, &weather.UpstreamError{Op: "geocode", Err: err}
	}
	s.logger.Debug("geocoded city", "city", req.City, "country", req.CountryCode, "lat", lat, "lon", lon)
	return lat, lon, nil
}

func haversineKm(lat1, lon1, lat2, lon2 float64) float64 {
	rad := math.Pi / 180
	dLat := (lat2 - lat1) * rad
	dLon := (lon2 - lon1) * rad
	a := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(lat1*rad)*math.Cos(lat2*rad)*math.Sin(dLon/2)*math.Sin(dLon/2)
	return 2 * earthRadiusKm * math.Asin(math.Sqrt(a))
}
