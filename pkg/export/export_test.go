package export

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"testing"
	"time"

	"github.com/communityshield/dispatch/core/model"
)

func sample() []model.Incident {
	return []model.Incident{
		{
			ID:             "INC-1",
			Type:           "Robbery",
			Location:       "CBD",
			Lat:            -1.2834,
			Lng:            36.8235,
			Severity:       model.SeverityHigh,
			Status:         model.IncidentAssigned,
			AssignedUnitID: "U-001",
			Source:         "Police Radio",
			Timestamp:      time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC),
		},
		{
			ID:        "INC-2",
			Type:      "Theft",
			Location:  "Westlands",
			Lat:       -1.2635,
			Lng:       36.8024,
			Severity:  model.SeverityMedium,
			Status:    model.IncidentNew,
			Timestamp: time.Date(2026, 3, 1, 12, 5, 0, 0, time.UTC),
		},
	}
}

func TestWriteCSV(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteCSV(&buf, sample()); err != nil {
		t.Fatalf("write csv: %v", err)
	}
	rows, err := csv.NewReader(&buf).ReadAll()
	if err != nil {
		t.Fatalf("read csv: %v", err)
	}
	if len(rows) != 3 {
		t.Fatalf("got %d rows, want header + 2", len(rows))
	}
	if rows[0][0] != "id" {
		t.Errorf("header = %v", rows[0])
	}
	if rows[1][2] != "High" || rows[1][3] != "Assigned" || rows[1][7] != "U-001" {
		t.Errorf("row = %v", rows[1])
	}
	if rows[2][9] != "2026-03-01T12:05:00Z" {
		t.Errorf("timestamp = %s", rows[2][9])
	}
}

func TestWriteJSON(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteJSON(&buf, sample()); err != nil {
		t.Fatalf("write json: %v", err)
	}
	var out []model.Incident
	if err := json.Unmarshal(buf.Bytes(), &out); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if len(out) != 2 || out[0].ID != "INC-1" {
		t.Errorf("round trip mismatch: %+v", out)
	}
}
