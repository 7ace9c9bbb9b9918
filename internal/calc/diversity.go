package calc

import (
	"github.com/boilerbrain-ai/boilerbrain/internal/domain"
)

// DiversityInput lists the rated heat inputs of every appliance on the
// installation, in kW.
type DiversityInput struct {
	Appliances []float64 `json:"appliances_kw"`
}

// DiversityResult is the diversified design load.
type DiversityResult struct {
	TotalKW       float64 `json:"total_kw"`
	DiversifiedKW float64 `json:"diversified_kw"`
	Factor        float64 `json:"factor"`
}

// Diversity applies a demand factor to a multi-appliance installation. The
// largest appliance is taken at full rate and the remainder are discounted,
// since domestic appliances rarely fire simultaneously.
func Diversity(in DiversityInput) (*DiversityResult, error) {
	if len(in.Appliances) == 0 {
		return nil, domain.ValidationError("at least one appliance is required", nil)
	}

	var total, largest float64
	for _, kw := range in.Appliances {
		if kw <= 0 {
			return nil, domain.ValidationError("appliance ratings must be positive", nil)
		}
		total += kw
		if kw > largest {
			largest = kw
		}
	}

	factor := diversityFactor(len(in.Appliances))
	diversified := largest + (total-largest)*factor

	return &DiversityResult{
		TotalKW:       total,
		DiversifiedKW: diversified,
		Factor:        factor,
	}, nil
}

// diversityFactor discounts the non-largest appliances by installation size.
func diversityFactor(count int) float64 {
	switch {
	case count <= 1:
		return 1.0
	case count == 2:
		return 0.9
	case count <= 4:
		return 0.8
	default:
		return 0.7
	}
}
