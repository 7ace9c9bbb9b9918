package calc

import (
	"fmt"

	"github.com/boilerbrain-ai/boilerbrain/internal/domain"
)

// Installations must not drop more than 1 mbar between the meter and any
// appliance on natural gas.
const MaxDropMbar = 1.0

// PressureDropInput describes an installed run to check.
type PressureDropInput struct {
	FlowRate float64 `json:"flow_rate_m3h"`
	Diameter int     `json:"diameter_mm"`
	Length   float64 `json:"length_m"`
	Fittings int     `json:"fittings"`
}

// PressureDropResult is the estimated drop across the run.
type PressureDropResult struct {
	DropMbar        float64 `json:"drop_mbar"`
	EffectiveLength float64 `json:"effective_length_m"`
	WithinLimit     bool    `json:"within_limit"`
}

// PressureDrop estimates the pressure loss across a copper run. The discharge
// tables give the flow that produces a 1 mbar drop; loss scales with the
// square of the flow ratio.
func PressureDrop(in PressureDropInput) (*PressureDropResult, error) {
	if in.FlowRate <= 0 {
		return nil, domain.ValidationError("flow rate must be positive", nil)
	}
	if in.Length <= 0 {
		return nil, domain.ValidationError("run length must be positive", nil)
	}
	if in.Fittings < 0 {
		return nil, domain.ValidationError("fittings count must not be negative", nil)
	}

	table, ok := copperDischarge[in.Diameter]
	if !ok {
		return nil, domain.ValidationError(
			fmt.Sprintf("%dmm is not a standard copper size", in.Diameter), nil)
	}

	effective := in.Length + float64(in.Fittings)*fittingAllowance[in.Diameter]
	capacity, ok := dischargeAt(table, effective)
	if !ok {
		return nil, domain.ValidationError(
			fmt.Sprintf("run of %.1fm exceeds the %dmm sizing table", effective, in.Diameter), nil)
	}

	ratio := in.FlowRate / capacity
	drop := MaxDropMbar * ratio * ratio

	return &PressureDropResult{
		DropMbar:        drop,
		EffectiveLength: effective,
		WithinLimit:     drop <= MaxDropMbar,
	}, nil
}
