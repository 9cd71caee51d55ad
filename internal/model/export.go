package model

import (
	"encoding/json"
	"time"
)

// TestExport is the top-level JSON structure for exported test results.
type TestExport struct {
	ExportedAt time.Time       `json:"exported_at"`
	Sessions   []SessionExport `json:"sessions"`
}

// SessionExport holds one stored session with its attempts and full report.
type SessionExport struct {
	Session  TestSession     `json:"session"`
	Attempts []Attempt       `json:"attempts"`
	Report   json.RawMessage `json:"report"`
}
