// Package calc provides the closed-form gas engineering calculators used by
// engineers on site: gas rating, pipe sizing, pressure drop, and diversity.
package calc

import (
	"github.com/boilerbrain-ai/boilerbrain/internal/domain"
)

// Natural gas constants for UK metered supply.
const (
	// CalorificValue is the gross calorific value of UK natural gas in MJ/m3.
	CalorificValue = 39.3

	// netFactor converts gross heat input to net. Condensing boiler data
	// plates quote net input.
	netFactor = 1.1

	secondsPerHour = 3600
	mjPerKWh       = 3.6
)

// GasRateInput is a metric dial test reading.
type GasRateInput struct {
	// DialVolume is the volume of gas consumed during the test in m3.
	DialVolume float64 `json:"dial_volume"`
	// Seconds is the test duration.
	Seconds float64 `json:"seconds"`
}

// GasRateResult is the computed gas rate and heat input.
type GasRateResult struct {
	FlowRate float64 `json:"flow_rate_m3h"`
	GrossKW  float64 `json:"gross_kw"`
	NetKW    float64 `json:"net_kw"`
}

// GasRate converts a metric dial test into a flow rate and gross/net heat
// input. The gross figure uses the standard UK calorific value.
func GasRate(in GasRateInput) (*GasRateResult, error) {
	if in.DialVolume <= 0 {
		return nil, domain.ValidationError("dial volume must be positive", nil)
	}
	if in.Seconds <= 0 {
		return nil, domain.ValidationError("test duration must be positive", nil)
	}

	flow := in.DialVolume * secondsPerHour / in.Seconds
	gross := flow * CalorificValue / mjPerKWh

	return &GasRateResult{
		FlowRate: flow,
		GrossKW:  gross,
		NetKW:    gross / netFactor,
	}, nil
}
