package schemas

// -- Input Record Models --
// These types are the contract between the record loader and the graph
// builder. The loader owns all file-format quirks (delimiters, quoting, the
// OpenFlights \N null sentinel); everything downstream sees typed records.

// Airport is one row of the airports dataset. An airport with unknown
// coordinates is still a valid graph node; HasCoords only gates the
// geographic attributes emitted on export.
type Airport struct {
	ID        int     `json:"id"`
	Name      string  `json:"name"`
	City      string  `json:"city"`
	Country   string  `json:"country"`
	IATA      string  `json:"iata"`
	ICAO      string  `json:"icao"`
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
	HasCoords bool    `json:"has_coords"`
}

// Route is one row of the routes dataset: a directed airport pair plus
// optional carrier metadata. Multiplicity is the number of raw records this
// route stands for; the loader emits 1 and the builder treats values < 1 as 1.
type Route struct {
	Airline      string `json:"airline"`
	SourceID     int    `json:"source_id"`
	DestID       int    `json:"dest_id"`
	Codeshare    bool   `json:"codeshare"`
	Stops        int    `json:"stops"`
	Multiplicity int    `json:"multiplicity"`
}

// LoaderStats counts record-level problems encountered while parsing. None
// of these are fatal; they are reported so a run can be judged against the
// raw dataset size.
type LoaderStats struct {
	AirportsParsed   int `json:"airports_parsed"`
	AirportsSkipped  int `json:"airports_skipped"`
	RoutesParsed     int `json:"routes_parsed"`
	RoutesSkipped    int `json:"routes_skipped"`
	MissingEndpoints int `json:"missing_endpoints"`
}
