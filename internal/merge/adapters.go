// Package merge fuses fault rows from the three legacy source tables into
// canonical FaultRecords keyed by (manufacturer, faultCode, model).
package merge

import (
	"fmt"
	"strings"

	"github.com/boilerbrain-ai/boilerbrain/internal/normalize"
)

// Source table names, used for provenance and error reporting.
const (
	TableEnhancedProcedures = "enhanced_diagnostic_procedures"
	TableDiagnosticFaults   = "diagnostic_fault_codes"
	TableBoilerFaults       = "boiler_fault_codes"
)

// ExpectedValues carries the structured measurement sub-fields some procedure
// rows include.
type ExpectedValues struct {
	GasPressureNominal      string `json:"gas_pressure_nominal"`
	ElectricalSupplyVoltage string `json:"electrical_supply_voltage"`
}

// EnhancedProcedureRow is a row from enhanced_diagnostic_procedures.
type EnhancedProcedureRow struct {
	Manufacturer    string
	FaultCode       string
	Model           string
	System          string
	StepDescription string
	Caution         string
	PartsRequired   string
	ExpectedValues  *ExpectedValues
}

// DiagnosticFaultRow is a row from diagnostic_fault_codes. Note the legacy
// "make" column naming.
type DiagnosticFaultRow struct {
	Make      string
	FaultCode string
	Model     string
	System    string
	Solutions string
}

// BoilerFaultRow is a row from boiler_fault_codes.
type BoilerFaultRow struct {
	Manufacturer string
	ModelName    string
	GCNumber     string
	FaultCode    string
	Description  string
	Solutions    string
}

// recordInput is the common vocabulary every source row adapts to before the
// fold. Sequences here are raw; dedup and caps happen after folding.
type recordInput struct {
	manufacturer *string
	model        *string
	system       *string
	faultCode    *string
	steps        []string
	bullets      []string
	cautions     []string
	parts        []string
	measurements []string
	manualRefs   []string
	knowledge    []string
}

func adaptProcedureRow(row EnhancedProcedureRow) recordInput {
	in := recordInput{
		manufacturer: normalize.Manufacturer(row.Manufacturer),
		model:        normalize.Model(row.Model),
		system:       normalize.System(row.System),
		faultCode:    normalize.FaultCode(row.FaultCode),
	}

	if step := strings.TrimSpace(row.StepDescription); step != "" {
		in.steps = append(in.steps, step)
	}
	if caution := strings.TrimSpace(row.Caution); caution != "" {
		in.cautions = append(in.cautions, caution)
	}
	if parts := strings.TrimSpace(row.PartsRequired); parts != "" {
		in.parts = append(in.parts, parts)
	}
	in.measurements = append(in.measurements, measurementStrings(row.ExpectedValues)...)

	return in
}

func adaptDiagnosticRow(row DiagnosticFaultRow) recordInput {
	return recordInput{
		manufacturer: normalize.Manufacturer(row.Make),
		model:        normalize.Model(row.Model),
		system:       normalize.System(row.System),
		faultCode:    normalize.FaultCode(row.FaultCode),
		bullets:      normalize.SplitActions(row.Solutions, normalize.DefaultActionCap),
		knowledge:    []string{TableDiagnosticFaults},
	}
}

func adaptBoilerFaultRow(row BoilerFaultRow) recordInput {
	in := recordInput{
		manufacturer: normalize.Manufacturer(row.Manufacturer),
		model:        normalize.Model(row.ModelName),
		faultCode:    normalize.FaultCode(row.FaultCode),
		bullets:      normalize.SplitActions(row.Solutions, normalize.DefaultActionCap),
	}
	in.bullets = append(in.bullets, normalize.SplitActions(row.Description, normalize.DefaultActionCap)...)

	if gc := normalize.GCNumber(row.GCNumber); normalize.ValidGCNumber(gc) {
		in.manualRefs = append(in.manualRefs, gc)
	}

	return in
}

// measurementStrings converts structured expected values into single
// human-readable measurement entries.
func measurementStrings(ev *ExpectedValues) []string {
	if ev == nil {
		return nil
	}

	var out []string
	if v := strings.TrimSpace(ev.GasPressureNominal); v != "" {
		out = append(out, fmt.Sprintf("Gas pressure (nominal): %s", v))
	}
	if v := strings.TrimSpace(ev.ElectricalSupplyVoltage); v != "" {
		out = append(out, fmt.Sprintf("Electrical supply: %s", v))
	}
	return out
}
