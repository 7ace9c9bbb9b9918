// Package storage provides database models and repositories for BoilerBrain.
package storage

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// BoilerManual represents an ingested manual document.
type BoilerManual struct {
	ID           uuid.UUID `json:"id" db:"id"`
	Name         string    `json:"name" db:"name"`
	URL          string    `json:"url" db:"url"`
	Manufacturer string    `json:"manufacturer" db:"manufacturer"`
	Models       []string  `json:"models" db:"models"`
	GCNumber     string    `json:"gc_number" db:"gc_number"`
	SystemType   *string   `json:"system_type,omitempty" db:"system_type"`
	RawText      string    `json:"raw_text" db:"raw_text"`
	SHA256       string    `json:"sha256" db:"sha256"`
	CreatedAt    time.Time `json:"created_at" db:"created_at"`
}

// FaultCodeEntry is the write shape for boiler_fault_codes.
type FaultCodeEntry struct {
	ID           uuid.UUID `json:"id" db:"id"`
	Manufacturer string    `json:"manufacturer" db:"manufacturer"`
	ModelName    string    `json:"model_name" db:"model_name"`
	GCNumber     string    `json:"gc_number" db:"gc_number"`
	FaultCode    string    `json:"fault_code" db:"fault_code"`
	Description  string    `json:"description" db:"description"`
	Solutions    []string  `json:"solutions" db:"solutions"`
	CreatedAt    time.Time `json:"created_at" db:"created_at"`
}

// DiagnosticProcedure is the write shape for diagnostic_procedures.
type DiagnosticProcedure struct {
	ID        uuid.UUID `json:"id" db:"id"`
	ManualID  uuid.UUID `json:"manual_id" db:"manual_id"`
	Subsystem string    `json:"subsystem" db:"subsystem"`
	Procedure string    `json:"procedure" db:"procedure"`
	TestType  string    `json:"test_type" db:"test_type"`
	Steps     []string  `json:"steps" db:"steps"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}

// QualityReport is a persisted end-of-batch quality snapshot.
type QualityReport struct {
	ID             uuid.UUID `json:"id" db:"id"`
	BatchNumber    int       `json:"batch_number" db:"batch_number"`
	TotalManuals   int       `json:"total_manuals" db:"total_manuals"`
	MalformedCodes int       `json:"malformed_codes" db:"malformed_codes"`
	MissingRemedy  int       `json:"missing_remedy" db:"missing_remedy"`
	Duplicates     int       `json:"duplicates" db:"duplicates"`
	Errors         []string  `json:"errors" db:"errors"`
	CreatedAt      time.Time `json:"created_at" db:"created_at"`
}

// ChatSession is one persisted conversation with the diagnostic assistant.
type ChatSession struct {
	SessionID string          `json:"session_id" db:"session_id"`
	History   json.RawMessage `json:"history" db:"history"`
	CreatedAt time.Time       `json:"created_at" db:"created_at"`
	UpdatedAt time.Time       `json:"updated_at" db:"updated_at"`
}

// ChatTurn is one entry of a session's history array.
type ChatTurn struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}
