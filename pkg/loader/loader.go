package loader

import (
	"encoding/csv"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/fleetroute/fleetroute/pkg"
	"github.com/fleetroute/fleetroute/pkg/geo"
	"github.com/fleetroute/fleetroute/pkg/util"
)

// Location is one row of the input CSV. The first row is always the depot.
type Location struct {
	Name    string  `json:"name"`
	Address string  `json:"address"`
	Lat     float64 `json:"latitude"`
	Lon     float64 `json:"longitude"`
	Demand  int     `json:"demand"`
}

func (l Location) Coordinate() geo.Coordinate {
	return geo.NewCoordinate(l.Lat, l.Lon)
}

func Coordinates(locations []Location) []geo.Coordinate {
	coords := make([]geo.Coordinate, len(locations))
	for i, l := range locations {
		coords[i] = l.Coordinate()
	}
	return coords
}

var requiredColumns = []string{"name", "address", "latitude", "longitude"}

// ReadLocations parses the location CSV. Required header columns:
// name, address, latitude, longitude. A demand column is optional and
// defaults to 1 unit per customer. limit > 0 keeps only the first limit rows.
func ReadLocations(r io.Reader, limit int) ([]Location, error) {
	reader := csv.NewReader(r)
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err != nil {
		return nil, util.WrapErrorf(err, util.ErrBadParamInput, "cannot read csv header")
	}

	colIdx := make(map[string]int, len(header))
	for i, col := range header {
		colIdx[strings.ToLower(strings.TrimSpace(col))] = i
	}
	for _, col := range requiredColumns {
		if _, ok := colIdx[col]; !ok {
			return nil, util.WrapErrorf(nil, util.ErrBadParamInput, "missing required column: %s", col)
		}
	}
	demandIdx, hasDemand := colIdx["demand"]

	locations := make([]Location, 0)
	row := 1
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		row++
		if err != nil {
			return nil, util.WrapErrorf(err, util.ErrBadParamInput, "row %d: malformed csv record", row)
		}
		if limit > 0 && len(locations) >= limit {
			break
		}
		if len(locations) >= pkg.MaxLocations {
			return nil, util.WrapErrorf(nil, util.ErrBadParamInput, "too many locations, max is %d", pkg.MaxLocations)
		}

		loc, err := parseLocation(record, colIdx, demandIdx, hasDemand, row)
		if err != nil {
			return nil, err
		}
		locations = append(locations, loc)
	}

	if len(locations) < 2 {
		return nil, util.WrapErrorf(nil, util.ErrBadParamInput,
			"file must contain at least 2 rows (1 depot + 1 customer), got %d", len(locations))
	}

	return locations, nil
}

func ReadLocationsFromFile(path string, limit int) ([]Location, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, util.WrapErrorf(err, util.ErrNotFound, "cannot open %s", path)
	}
	defer f.Close()

	return ReadLocations(f, limit)
}

func parseLocation(record []string, colIdx map[string]int, demandIdx int, hasDemand bool, row int) (Location, error) {
	field := func(col string) string {
		i := colIdx[col]
		if i >= len(record) {
			return ""
		}
		return strings.TrimSpace(record[i])
	}

	for _, col := range requiredColumns {
		if field(col) == "" {
			return Location{}, util.WrapErrorf(nil, util.ErrBadParamInput, "row %d: column %s is empty", row, col)
		}
	}

	lat, err := strconv.ParseFloat(field("latitude"), 64)
	if err != nil {
		return Location{}, util.WrapErrorf(err, util.ErrBadParamInput, "row %d: latitude must be numeric", row)
	}
	lon, err := strconv.ParseFloat(field("longitude"), 64)
	if err != nil {
		return Location{}, util.WrapErrorf(err, util.ErrBadParamInput, "row %d: longitude must be numeric", row)
	}
	if lat < -90 || lat > 90 {
		return Location{}, util.WrapErrorf(nil, util.ErrBadParamInput, "row %d: latitude must be between -90 and 90", row)
	}
	if lon < -180 || lon > 180 {
		return Location{}, util.WrapErrorf(nil, util.ErrBadParamInput, "row %d: longitude must be between -180 and 180", row)
	}

	demand := 1
	if hasDemand && demandIdx < len(record) && strings.TrimSpace(record[demandIdx]) != "" {
		demand, err = strconv.Atoi(strings.TrimSpace(record[demandIdx]))
		if err != nil || demand < 0 {
			return Location{}, util.WrapErrorf(err, util.ErrBadParamInput, "row %d: demand must be a non-negative integer", row)
		}
	}

	return Location{
		Name:    field("name"),
		Address: field("address"),
		Lat:     lat,
		Lon:     lon,
		Demand:  demand,
	}, nil
}
