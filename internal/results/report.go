package results

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/DeerInForestovo/FlightNetworkAnalysis/api/schemas"
)

// ToJSON serializes the envelope for stdout or archival.
func ToJSON(envelope *schemas.RunEnvelope) ([]byte, error) {
	data, err := json.MarshalIndent(envelope, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to serialize run envelope: %w", err)
	}
	return data, nil
}

// runMeta is the small reproducibility record written next to the tables,
// without the bulky per-airport rows.
type runMeta struct {
	RunID      string               `json:"run_id"`
	StartedAt  string               `json:"started_at"`
	FinishedAt string               `json:"finished_at"`
	Loader     schemas.LoaderStats  `json:"loader"`
	Stats      schemas.NetworkStats `json:"stats"`
}

// WriteMeta writes run_meta.json into the output directory.
func WriteMeta(path string, envelope *schemas.RunEnvelope) error {
	meta := runMeta{
		RunID:      envelope.RunID,
		StartedAt:  envelope.StartedAt.Format("2006-01-02T15:04:05Z07:00"),
		FinishedAt: envelope.FinishedAt.Format("2006-01-02T15:04:05Z07:00"),
		Loader:     envelope.Loader,
		Stats:      envelope.Stats,
	}
	data, err := json.MarshalIndent(meta, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to serialize run meta: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write run meta: %w", err)
	}
	return nil
}
