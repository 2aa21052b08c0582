// Package loader parses OpenFlights-style airports.dat and routes.dat files
// into typed records. All file-format quirks live here: comma delimiting,
// quoted fields, the \N null sentinel and ragged rows. Malformed records are
// skipped and counted, never fatal; only an unreadable file aborts a run.
package loader

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"

	"go.uber.org/zap"

	"github.com/DeerInForestovo/FlightNetworkAnalysis/api/schemas"
)

// Column counts of the two OpenFlights layouts. Extra trailing columns are
// tolerated; short rows are malformed.
const (
	airportMinFields = 8
	routeMinFields   = 6
)

// openflightsNull is the dataset's null sentinel.
const openflightsNull = `\N`

// Loader reads the raw delimited datasets and accumulates skip statistics.
type Loader struct {
	log   *zap.Logger
	stats schemas.LoaderStats
}

// New creates a Loader.
func New(logger *zap.Logger) *Loader {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Loader{log: logger.Named("loader")}
}

// Stats returns the skip counters accumulated so far.
func (l *Loader) Stats() schemas.LoaderStats { return l.stats }

// LoadAirports reads every parseable airport record from path.
func (l *Loader) LoadAirports(path string) ([]schemas.Airport, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open airports file: %w", err)
	}
	defer f.Close()

	r := newReader(f)
	var airports []schemas.Airport
	for {
		row, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			l.stats.AirportsSkipped++
			continue
		}
		a, ok := parseAirport(row)
		if !ok {
			l.stats.AirportsSkipped++
			continue
		}
		airports = append(airports, a)
		l.stats.AirportsParsed++
	}

	l.log.Info("Airports loaded",
		zap.String("path", path),
		zap.Int("parsed", l.stats.AirportsParsed),
		zap.Int("skipped", l.stats.AirportsSkipped))
	return airports, nil
}

// LoadRoutes reads every parseable route record from path. Routes whose
// endpoint IDs are null are counted under MissingEndpoints; resolving IDs
// against the airport set is the builder's job, not ours.
func (l *Loader) LoadRoutes(path string) ([]schemas.Route, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open routes file: %w", err)
	}
	defer f.Close()

	r := newReader(f)
	var routes []schemas.Route
	for {
		row, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			l.stats.RoutesSkipped++
			continue
		}
		rt, ok, missing := parseRoute(row)
		if missing {
			l.stats.MissingEndpoints++
			continue
		}
		if !ok {
			l.stats.RoutesSkipped++
			continue
		}
		routes = append(routes, rt)
		l.stats.RoutesParsed++
	}

	l.log.Info("Routes loaded",
		zap.String("path", path),
		zap.Int("parsed", l.stats.RoutesParsed),
		zap.Int("skipped", l.stats.RoutesSkipped),
		zap.Int("missing_endpoints", l.stats.MissingEndpoints))
	return routes, nil
}

func newReader(f *os.File) *csv.Reader {
	r := csv.NewReader(f)
	r.FieldsPerRecord = -1
	r.LazyQuotes = true
	return r
}

func parseAirport(row []string) (schemas.Airport, bool) {
	if len(row) < airportMinFields {
		return schemas.Airport{}, false
	}
	id, err := strconv.Atoi(field(row, 0))
	if err != nil {
		return schemas.Airport{}, false
	}

	a := schemas.Airport{
		ID:      id,
		Name:    field(row, 1),
		City:    field(row, 2),
		Country: field(row, 3),
		IATA:    field(row, 4),
		ICAO:    field(row, 5),
	}
	lat, latErr := strconv.ParseFloat(field(row, 6), 64)
	lon, lonErr := strconv.ParseFloat(field(row, 7), 64)
	if latErr == nil && lonErr == nil {
		a.Latitude, a.Longitude, a.HasCoords = lat, lon, true
	}
	return a, true
}

func parseRoute(row []string) (rt schemas.Route, ok bool, missingEndpoint bool) {
	if len(row) < routeMinFields {
		return schemas.Route{}, false, false
	}
	srcField, dstField := field(row, 3), field(row, 5)
	if srcField == "" || dstField == "" {
		return schemas.Route{}, false, true
	}
	src, srcErr := strconv.Atoi(srcField)
	dst, dstErr := strconv.Atoi(dstField)
	if srcErr != nil || dstErr != nil {
		return schemas.Route{}, false, false
	}

	rt = schemas.Route{
		Airline:      field(row, 0),
		SourceID:     src,
		DestID:       dst,
		Codeshare:    field(row, 6) == "Y",
		Multiplicity: 1,
	}
	if stops, err := strconv.Atoi(field(row, 7)); err == nil {
		rt.Stops = stops
	}
	return rt, true, false
}

// field returns row[i] with the null sentinel collapsed to empty, or empty
// when the row is too short.
func field(row []string, i int) string {
	if i >= len(row) {
		return ""
	}
	if row[i] == openflightsNull {
		return ""
	}
	return row[i]
}
