package calc

import (
	"fmt"
	"sort"

	"github.com/boilerbrain-ai/boilerbrain/internal/domain"
)

// copperDischarge holds the maximum discharge in m3/h for copper tube at a
// 1 mbar pressure drop, by nominal diameter (mm) and straight run length (m).
// Figures follow the BS 6891 installation tables.
var copperDischarge = map[int]map[int]float64{
	15: {3: 2.9, 6: 1.9, 9: 1.5, 12: 1.3, 15: 1.1, 20: 0.95, 25: 0.92, 30: 0.88},
	22: {3: 8.7, 6: 5.8, 9: 4.6, 12: 3.9, 15: 3.4, 20: 2.9, 25: 2.5, 30: 2.3},
	28: {3: 18, 6: 12, 9: 9.4, 12: 8.0, 15: 7.0, 20: 5.9, 25: 5.2, 30: 4.7},
	35: {3: 32, 6: 22, 9: 17, 12: 15, 15: 13, 20: 11, 25: 9.5, 30: 8.5},
}

// Equivalent straight-pipe length added per fitting, in metres, by diameter.
var fittingAllowance = map[int]float64{
	15: 0.5,
	22: 0.5,
	28: 0.5,
	35: 1.0,
}

// PipeSizeInput describes the pipe run to size.
type PipeSizeInput struct {
	// FlowRate is the required gas flow in m3/h.
	FlowRate float64 `json:"flow_rate_m3h"`
	// Length is the straight run length in metres.
	Length float64 `json:"length_m"`
	// Fittings is the count of elbows and tees on the run.
	Fittings int `json:"fittings"`
}

// PipeSizeResult names the smallest copper tube that carries the flow.
type PipeSizeResult struct {
	Diameter        int     `json:"diameter_mm"`
	EffectiveLength float64 `json:"effective_length_m"`
	Capacity        float64 `json:"capacity_m3h"`
}

// PipeSize returns the smallest standard copper diameter whose tabulated
// discharge covers the requested flow over the effective run length.
func PipeSize(in PipeSizeInput) (*PipeSizeResult, error) {
	if in.FlowRate <= 0 {
		return nil, domain.ValidationError("flow rate must be positive", nil)
	}
	if in.Length <= 0 {
		return nil, domain.ValidationError("run length must be positive", nil)
	}
	if in.Fittings < 0 {
		return nil, domain.ValidationError("fittings count must not be negative", nil)
	}

	diameters := make([]int, 0, len(copperDischarge))
	for d := range copperDischarge {
		diameters = append(diameters, d)
	}
	sort.Ints(diameters)

	for _, d := range diameters {
		effective := in.Length + float64(in.Fittings)*fittingAllowance[d]
		capacity, ok := dischargeAt(copperDischarge[d], effective)
		if !ok {
			continue
		}
		if capacity >= in.FlowRate {
			return &PipeSizeResult{
				Diameter:        d,
				EffectiveLength: effective,
				Capacity:        capacity,
			}, nil
		}
	}

	return nil, domain.ValidationError(
		fmt.Sprintf("no standard copper size carries %.2f m3/h over this run", in.FlowRate), nil)
}

// dischargeAt returns the tabulated capacity for the shortest table length
// that covers the effective run. Runs beyond the table are not sized.
func dischargeAt(table map[int]float64, effective float64) (float64, bool) {
	lengths := make([]int, 0, len(table))
	for l := range table {
		lengths = append(lengths, l)
	}
	sort.Ints(lengths)

	for _, l := range lengths {
		if effective <= float64(l) {
			return table[l], true
		}
	}
	return 0, false
}
