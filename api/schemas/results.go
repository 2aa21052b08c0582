package schemas

import "time"

// -- Result Models --
// Analysis outputs are flat, identifier-keyed rows. They hold no references
// back into the graph, so the graph can be discarded once a run completes.

// CentralityRow is one airport's full metric set. Degree columns are exact
// edge counts; Betweenness and Closeness are normalized to [0,1].
type CentralityRow struct {
	AirportID   int     `json:"airport_id"`
	Name        string  `json:"name"`
	Country     string  `json:"country"`
	Degree      int     `json:"degree"`
	InDegree    int     `json:"in_degree"`
	OutDegree   int     `json:"out_degree"`
	Betweenness float64 `json:"betweenness"`
	Closeness   float64 `json:"closeness"`
	Eigenvector float64 `json:"eigenvector"`
	KCore       int     `json:"k_core"`
	Community   int     `json:"community"`
}

// HubRow is one entry of the top-N hub ranking.
type HubRow struct {
	Rank      int     `json:"rank"`
	AirportID int     `json:"airport_id"`
	Name      string  `json:"name"`
	Country   string  `json:"country"`
	Metric    string  `json:"metric"`
	Value     float64 `json:"value"`
}

// NetworkStats summarizes the built graph as a whole.
type NetworkStats struct {
	Nodes             int     `json:"nodes"`
	Edges             int     `json:"edges"`
	AvgDegree         float64 `json:"avg_degree"`
	Components        int     `json:"components"`
	GiantComponent    int     `json:"giant_component"`
	GiantFraction     float64 `json:"giant_fraction"`
	AvgPathLength     float64 `json:"avg_path_length"`
	AvgClustering     float64 `json:"avg_clustering"`
	Assortativity     float64 `json:"assortativity"`
	Communities       int     `json:"communities"`
	Modularity        float64 `json:"modularity"`
	RoutesSkipped     int     `json:"routes_skipped"`
	SelfLoopsDropped  int     `json:"self_loops_dropped"`
	UnknownEndpoints  int     `json:"unknown_endpoints"`
	DuplicateAirports int     `json:"duplicate_airports"`
}

// CountryRow is one country super-node's centrality in the aggregated graph.
type CountryRow struct {
	Country     string  `json:"country"`
	NumAirports int     `json:"num_airports"`
	Degree      int     `json:"degree"`
	Betweenness float64 `json:"betweenness"`
	Closeness   float64 `json:"closeness"`
	Eigenvector float64 `json:"eigenvector"`
}

// CountryImpactRow records how much the giant component shrinks when every
// airport of one country is removed.
type CountryImpactRow struct {
	Country         string  `json:"country"`
	RemovedAirports int     `json:"removed_airports"`
	GiantAfter      int     `json:"giant_after"`
	GiantRatioAfter float64 `json:"giant_ratio_after"`
	RatioDrop       float64 `json:"ratio_drop"`
}

// RobustnessPoint is one sample of a node-removal curve.
type RobustnessPoint struct {
	Strategy      string  `json:"strategy"`
	RemovedCount  int     `json:"removed_count"`
	RemovedFrac   float64 `json:"removed_frac"`
	GiantFraction float64 `json:"giant_fraction"`
	Efficiency    float64 `json:"efficiency"`
}

// RunEnvelope bundles everything a single pipeline run produced. It is what
// the report writer serializes and what the store persists.
type RunEnvelope struct {
	RunID      string             `json:"run_id"`
	StartedAt  time.Time          `json:"started_at"`
	FinishedAt time.Time          `json:"finished_at"`
	Loader     LoaderStats        `json:"loader"`
	Stats      NetworkStats       `json:"stats"`
	Centrality []CentralityRow    `json:"centrality,omitempty"`
	Hubs       []HubRow           `json:"hubs,omitempty"`
	Countries  []CountryRow       `json:"countries,omitempty"`
	Impact     []CountryImpactRow `json:"impact,omitempty"`
}
