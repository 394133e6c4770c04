package query

import (
	"fmt"
	"strings"
)

// Dialect captures the per-backend differences in table layout and SQL.
type Dialect struct {
	Name string
	// StationsTable and ObservationsTable are ready-to-use table references.
	StationsTable     string
	ObservationsTable string
	// StationIDColumn is the stations column holding the USAF id.
	StationIDColumn string
	// WindExpr reads wind speed as a float.
	WindExpr string
	// LonDeltaExpr is the longitude distance to @lon in degrees, wrapped
	// across the antimeridian.
	LonDeltaExpr string
	// LikeEscape is appended to LIKE predicates that use backslash escapes.
	LikeEscape string
	// YearSharded adds a _TABLE_SUFFIX year predicate for wildcard tables.
	YearSharded bool
}

// Default BigQuery tables for the public NOAA GSOD dataset.
const (
	DefaultBigQueryStations     = "bigquery-public-data.noaa_gsod.stations"
	DefaultBigQueryObservations = "bigquery-public-data.noaa_gsod.gsod*"
)

// BigQuery targets the public GSOD dataset. Observation tables are sharded per
// year (gsod1929 … gsodYYYY) and store wdsp as STRING.
func BigQuery(stationsTable, observationsTable string) Dialect {
	if stationsTable == "" {
		stationsTable = DefaultBigQueryStations
	}
	if observationsTable == "" {
		observationsTable = DefaultBigQueryObservations
	}
	return Dialect{
		Name:              "bigquery",
		StationsTable:     fmt.Sprintf("`%s`", stationsTable),
		ObservationsTable: fmt.Sprintf("`%s`", observationsTable),
		StationIDColumn:   "usaf",
		WindExpr:          "SAFE_CAST(wdsp AS FLOAT64)",
		LonDeltaExpr:      lonDelta("LEAST"),
		YearSharded:       strings.HasSuffix(observationsTable, "*"),
	}
}

// SQLite targets the local mirror schema.
func SQLite() Dialect {
	return Dialect{
		Name:              "sqlite",
		StationsTable:     "stations",
		ObservationsTable: "daily_observations",
		StationIDColumn:   "stn",
		WindExpr:          "wdsp",
		LonDeltaExpr:      lonDelta("MIN"),
		LikeEscape:        ` ESCAPE '\'`,
	}
}

// Postgres targets the local mirror schema. Backslash is PostgreSQL's default
// LIKE escape.
func Postgres() Dialect {
	return Dialect{
		Name:              "postgres",
		StationsTable:     "stations",
		ObservationsTable: "daily_observations",
		StationIDColumn:   "stn",
		WindExpr:          "wdsp",
		LonDeltaExpr:      lonDelta("LEAST"),
	}
}

// lonDelta wraps |lon - @lon| so stations across the 180th meridian are not
// reported as 360 degrees away. SQLite spells the scalar minimum MIN.
func lonDelta(minFunc string) string {
	return fmt.Sprintf("%s(ABS(lon - @lon), 360 - ABS(lon - @lon))", minFunc)
}

// ForBackend returns the dialect for a configured backend name.
func ForBackend(name, stationsTable, observationsTable string) (Dialect, error) {
	switch name {
	case "bigquery":
		return BigQuery(stationsTable, observationsTable), nil
	case "sqlite":
		return SQLite(), nil
	case "postgres":
		return Postgres(), nil
	}
	return Dialect{}, fmt.Errorf("unknown dataset backend %q", name)
}
