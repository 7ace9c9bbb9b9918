package merge

import (
	"sort"
	"strings"

	"github.com/boilerbrain-ai/boilerbrain/internal/domain"
	"github.com/boilerbrain-ai/boilerbrain/internal/normalize"
)

// Per-record caps applied after folding.
const (
	MaxBullets = 6
	MaxSteps   = 12
)

// SourceRows carries the three row streams, already fetched by the caller.
// The merger itself performs no I/O.
type SourceRows struct {
	Procedures   []EnhancedProcedureRow
	Diagnostics  []DiagnosticFaultRow
	BoilerFaults []BoilerFaultRow
}

// RowProvider supplies the three source streams. A failed fetch must surface
// which table failed; the merger never produces a partial merge.
type RowProvider interface {
	EnhancedProcedures() ([]EnhancedProcedureRow, error)
	DiagnosticFaults() ([]DiagnosticFaultRow, error)
	BoilerFaults() ([]BoilerFaultRow, error)
}

// Merge folds the three source streams into a mapping from merge key to
// FaultRecord, then dedups, caps, and discards unusable buckets. Iteration
// order of downstream consumers comes from Keys, not from this map.
func Merge(rows SourceRows) map[string]*domain.FaultRecord {
	buckets := make(map[string]*domain.FaultRecord)

	fold := func(in recordInput) {
		key := mergeKey(in.manufacturer, in.faultCode, in.model)

		rec, ok := buckets[key]
		if !ok {
			rec = &domain.FaultRecord{
				Manufacturer: in.manufacturer,
				Model:        in.model,
				System:       in.system,
				FaultCode:    in.faultCode,
			}
			buckets[key] = rec
		} else if rec.System == nil && in.system != nil {
			// System is set once, from the first occurrence that carries it.
			rec.System = in.system
		}

		rec.Steps = append(rec.Steps, in.steps...)
		rec.Bullets = append(rec.Bullets, in.bullets...)
		rec.Cautions = append(rec.Cautions, in.cautions...)
		rec.Parts = append(rec.Parts, in.parts...)
		rec.Measurements = append(rec.Measurements, in.measurements...)
		rec.Sources.Manuals = append(rec.Sources.Manuals, in.manualRefs...)
		rec.Sources.Knowledge = append(rec.Sources.Knowledge, in.knowledge...)
	}

	for _, row := range rows.Procedures {
		fold(adaptProcedureRow(row))
	}
	for _, row := range rows.Diagnostics {
		fold(adaptDiagnosticRow(row))
	}
	for _, row := range rows.BoilerFaults {
		fold(adaptBoilerFaultRow(row))
	}

	for key, rec := range buckets {
		rec.Steps = normalize.DedupCap(rec.Steps, MaxSteps)
		rec.Bullets = normalize.DedupCap(rec.Bullets, MaxBullets)
		rec.Cautions = normalize.DedupCap(rec.Cautions, MaxBullets)
		rec.Parts = normalize.DedupCap(rec.Parts, MaxBullets)
		rec.Measurements = normalize.DedupCap(rec.Measurements, MaxBullets)
		rec.Sources.Manuals = normalize.DedupCap(rec.Sources.Manuals, MaxBullets)
		rec.Sources.Knowledge = normalize.DedupCap(rec.Sources.Knowledge, MaxBullets)

		if !rec.Usable() {
			delete(buckets, key)
		}
	}

	return buckets
}

// MergeFromProvider fetches all three streams and merges them. Any source
// failure aborts the whole merge with the failing table named.
func MergeFromProvider(provider RowProvider) (map[string]*domain.FaultRecord, error) {
	procedures, err := provider.EnhancedProcedures()
	if err != nil {
		return nil, domain.SourceError(TableEnhancedProcedures, err)
	}

	diagnostics, err := provider.DiagnosticFaults()
	if err != nil {
		return nil, domain.SourceError(TableDiagnosticFaults, err)
	}

	boilerFaults, err := provider.BoilerFaults()
	if err != nil {
		return nil, domain.SourceError(TableBoilerFaults, err)
	}

	return Merge(SourceRows{
		Procedures:   procedures,
		Diagnostics:  diagnostics,
		BoilerFaults: boilerFaults,
	}), nil
}

// Keys returns bucket keys in deterministic (sorted) order so downstream
// consumers like the dataset split are reproducible.
func Keys(buckets map[string]*domain.FaultRecord) []string {
	keys := make([]string, 0, len(buckets))
	for key := range buckets {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}

// mergeKey builds the composite identity. Nil components collapse to the
// empty string so null and "" never split a bucket.
func mergeKey(manufacturer, faultCode, model *string) string {
	return strings.Join([]string{deref(manufacturer), deref(faultCode), deref(model)}, "|")
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
