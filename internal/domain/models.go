// Package domain holds the shared value types for the BoilerBrain pipelines.
package domain

// FaultRecord is the canonical unit produced by the record merger. Fields are
// nil when the source rows never supplied them.
type FaultRecord struct {
	Manufacturer *string       `json:"manufacturer"`
	Model        *string       `json:"model"`
	System       *string       `json:"system"`
	FaultCode    *string       `json:"faultCode"`
	Steps        []string      `json:"steps"`
	Bullets      []string      `json:"bullets"`
	Cautions     []string      `json:"cautions"`
	Parts        []string      `json:"parts"`
	Measurements []string      `json:"measurements"`
	Sources      RecordSources `json:"sources"`
}

// RecordSources tracks where a merged record's content came from.
type RecordSources struct {
	Manuals   []string `json:"manuals"`
	Knowledge []string `json:"knowledge"`
}

// Usable reports whether the record may be emitted downstream: a fault code
// plus at least one of manufacturer/model.
func (r *FaultRecord) Usable() bool {
	if r.FaultCode == nil {
		return false
	}
	return r.Manufacturer != nil || r.Model != nil
}

// ManualWorkItem identifies one source document awaiting ingestion.
type ManualWorkItem struct {
	Name         string `json:"name"`
	URL          string `json:"url"`
	Manufacturer string `json:"manufacturer"`
}

// ItemState is the per-item state of the ingestion state machine.
type ItemState string

const (
	StatePending              ItemState = "PENDING"
	StateDownloading          ItemState = "DOWNLOADING"
	StateExtractingText       ItemState = "EXTRACTING_TEXT"
	StateExtractingMetadata   ItemState = "EXTRACTING_METADATA"
	StateValidatingGC         ItemState = "VALIDATING_GC"
	StatePersisting           ItemState = "PERSISTING"
	StateExtractingFaults     ItemState = "EXTRACTING_FAULTS"
	StateExtractingProcedures ItemState = "EXTRACTING_PROCEDURES"
	StateDone                 ItemState = "DONE"
	StateSkipped              ItemState = "SKIPPED"
	StateFailed               ItemState = "FAILED"
)

// ManualMetadata is what the metadata-extraction stage pulls out of a manual.
type ManualMetadata struct {
	Manufacturer string   `json:"manufacturer"`
	Models       []string `json:"models"`
	GCNumbers    []string `json:"gc_numbers"`
	SystemType   string   `json:"system_type"`
}

// ExtractedFault is one fault-code entry pulled out of a manual by the LLM.
type ExtractedFault struct {
	FaultCode   string   `json:"fault_code"`
	Description string   `json:"description"`
	Solutions   []string `json:"solutions"`
}

// ExtractedProcedure is one diagnostic procedure pulled out of a manual.
type ExtractedProcedure struct {
	Subsystem string   `json:"subsystem"`
	Procedure string   `json:"procedure"`
	TestType  string   `json:"test_type"`
	Steps     []string `json:"steps"`
}
