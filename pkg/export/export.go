// Package export renders the incident register for downstream consumption.
package export

import (
	"encoding/csv"
	"encoding/json"
	"io"
	"strconv"
	"time"

	"github.com/communityshield/dispatch/core/model"
)

// WriteJSON writes the incidents to w in JSON format.
func WriteJSON(w io.Writer, incidents []model.Incident) error {
	return json.NewEncoder(w).Encode(incidents)
}

// WriteCSV writes the incidents to w as CSV with a fixed header row.
func WriteCSV(w io.Writer, incidents []model.Incident) error {
	cw := csv.NewWriter(w)
	header := []string{"id", "type", "severity", "status", "location", "lat", "lng", "assigned_unit", "source", "timestamp"}
	if err := cw.Write(header); err != nil {
		return err
	}
	for _, inc := range incidents {
		row := []string{
			inc.ID,
			inc.Type,
			inc.Severity.String(),
			inc.Status.String(),
			inc.Location,
			strconv.FormatFloat(inc.Lat, 'f', -1, 64),
			strconv.FormatFloat(inc.Lng, 'f', -1, 64),
			inc.AssignedUnitID,
			inc.Source,
			inc.Timestamp.UTC().Format(time.RFC3339),
		}
		if err := cw.Write(row); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}
