// Package export serializes the built graph and metric tables: GML for the
// graph interchange (what the visualization side consumes) and CSV for the
// flat metric tables.
package export

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/DeerInForestovo/FlightNetworkAnalysis/api/schemas"
	"github.com/DeerInForestovo/FlightNetworkAnalysis/internal/airgraph"
)

// WriteGML serializes the graph's structure and pass-through airport
// attributes. Nodes appear in graph node order, edges in (source, dest)
// order, so identical graphs always produce byte-identical files. Edges
// carry the great-circle distance when both endpoints have coordinates; the
// distance is informational only and never used as a path cost.
func WriteGML(w io.Writer, g *airgraph.Graph) error {
	bw := bufio.NewWriter(w)

	fmt.Fprintln(bw, "graph [")
	fmt.Fprintln(bw, "  directed 1")

	for i := 0; i < g.Order(); i++ {
		a := g.Airport(i)
		fmt.Fprintln(bw, "  node [")
		fmt.Fprintf(bw, "    id %d\n", g.ID(i))
		fmt.Fprintf(bw, "    label %s\n", gmlString(a.Name))
		fmt.Fprintf(bw, "    country %s\n", gmlString(a.Country))
		if a.HasCoords {
			fmt.Fprintf(bw, "    lat %s\n", formatFloat(a.Latitude))
			fmt.Fprintf(bw, "    lon %s\n", formatFloat(a.Longitude))
		}
		fmt.Fprintln(bw, "  ]")
	}

	for i := 0; i < g.Order(); i++ {
		src := g.Airport(i)
		for _, arc := range g.Out(i) {
			dst := g.Airport(arc.To)
			fmt.Fprintln(bw, "  edge [")
			fmt.Fprintf(bw, "    source %d\n", g.ID(i))
			fmt.Fprintf(bw, "    target %d\n", g.ID(arc.To))
			fmt.Fprintf(bw, "    weight %d\n", arc.Weight)
			if src.HasCoords && dst.HasCoords {
				d := Haversine(src.Latitude, src.Longitude, dst.Latitude, dst.Longitude)
				fmt.Fprintf(bw, "    distance %s\n", formatFloat(d))
			}
			fmt.Fprintln(bw, "  ]")
		}
	}

	fmt.Fprintln(bw, "]")
	return bw.Flush()
}

// WriteGMLFile is WriteGML to a freshly created file.
func WriteGMLFile(path string, g *airgraph.Graph) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create GML file: %w", err)
	}
	defer f.Close()
	if err := WriteGML(f, g); err != nil {
		return fmt.Errorf("failed to write GML: %w", err)
	}
	return nil
}

// ReadGML parses a GML file written by WriteGML back into record streams.
// Rebuilding through the graph builder restores the exact node set, edge
// set and edge weights.
func ReadGML(r io.Reader) ([]schemas.Airport, []schemas.Route, error) {
	var (
		airports []schemas.Airport
		routes   []schemas.Route

		inNode, inEdge bool
		curAirport     schemas.Airport
		curRoute       schemas.Route
		haveLat        bool
		haveLon        bool
	)

	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		switch {
		case line == "node [":
			inNode = true
			curAirport = schemas.Airport{}
			haveLat, haveLon = false, false
		case line == "edge [":
			inEdge = true
			curRoute = schemas.Route{Multiplicity: 1}
		case line == "]" && inNode:
			inNode = false
			curAirport.HasCoords = haveLat && haveLon
			airports = append(airports, curAirport)
		case line == "]" && inEdge:
			inEdge = false
			routes = append(routes, curRoute)
		case inNode:
			key, val := splitKV(line)
			switch key {
			case "id":
				id, err := strconv.Atoi(val)
				if err != nil {
					return nil, nil, fmt.Errorf("bad node id %q: %w", val, err)
				}
				curAirport.ID = id
			case "label":
				curAirport.Name = unquote(val)
			case "country":
				curAirport.Country = unquote(val)
			case "lat":
				if f, err := strconv.ParseFloat(val, 64); err == nil {
					curAirport.Latitude, haveLat = f, true
				}
			case "lon":
				if f, err := strconv.ParseFloat(val, 64); err == nil {
					curAirport.Longitude, haveLon = f, true
				}
			}
		case inEdge:
			key, val := splitKV(line)
			switch key {
			case "source":
				id, err := strconv.Atoi(val)
				if err != nil {
					return nil, nil, fmt.Errorf("bad edge source %q: %w", val, err)
				}
				curRoute.SourceID = id
			case "target":
				id, err := strconv.Atoi(val)
				if err != nil {
					return nil, nil, fmt.Errorf("bad edge target %q: %w", val, err)
				}
				curRoute.DestID = id
			case "weight":
				w, err := strconv.Atoi(val)
				if err != nil {
					return nil, nil, fmt.Errorf("bad edge weight %q: %w", val, err)
				}
				curRoute.Multiplicity = w
			}
		}
	}
	if err := sc.Err(); err != nil {
		return nil, nil, fmt.Errorf("failed to read GML: %w", err)
	}
	return airports, routes, nil
}

// ReadGMLFile is ReadGML from a file path.
func ReadGMLFile(path string) ([]schemas.Airport, []schemas.Route, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open GML file: %w", err)
	}
	defer f.Close()
	return ReadGML(f)
}

func splitKV(line string) (key, val string) {
	idx := strings.IndexByte(line, ' ')
	if idx < 0 {
		return line, ""
	}
	return line[:idx], strings.TrimSpace(line[idx+1:])
}

// gmlString quotes a string value. Embedded quotes become apostrophes; GML
// has no portable escape for them and names never rely on the distinction.
func gmlString(s string) string {
	return `"` + strings.ReplaceAll(s, `"`, `'`) + `"`
}

func unquote(s string) string {
	return strings.Trim(s, `"`)
}

func formatFloat(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}
