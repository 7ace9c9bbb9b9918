package calc

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/boilerbrain-ai/boilerbrain/internal/domain"
)

func TestGasRate(t *testing.T) {
	// 0.1 m3 over 120 seconds is 3 m3/h.
	result, err := GasRate(GasRateInput{DialVolume: 0.1, Seconds: 120})
	require.NoError(t, err)

	assert.InDelta(t, 3.0, result.FlowRate, 0.001)
	assert.InDelta(t, 32.75, result.GrossKW, 0.01)
	assert.InDelta(t, 29.77, result.NetKW, 0.01)
}

func TestGasRateValidation(t *testing.T) {
	tests := []struct {
		name  string
		input GasRateInput
	}{
		{"zero volume", GasRateInput{DialVolume: 0, Seconds: 60}},
		{"negative volume", GasRateInput{DialVolume: -1, Seconds: 60}},
		{"zero duration", GasRateInput{DialVolume: 0.1, Seconds: 0}},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := GasRate(tc.input)
			require.Error(t, err)
			assert.Equal(t, domain.ErrorKindValidation, domain.KindOf(err))
		})
	}
}

func TestPipeSize(t *testing.T) {
	tests := []struct {
		name     string
		input    PipeSizeInput
		diameter int
	}{
		{"small load short run", PipeSizeInput{FlowRate: 1.0, Length: 3}, 15},
		{"combi load medium run", PipeSizeInput{FlowRate: 3.0, Length: 10, Fittings: 4}, 22},
		{"large load long run", PipeSizeInput{FlowRate: 7.0, Length: 12, Fittings: 2}, 28},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			result, err := PipeSize(tc.input)
			require.NoError(t, err)
			assert.Equal(t, tc.diameter, result.Diameter)
			assert.GreaterOrEqual(t, result.Capacity, tc.input.FlowRate)
		})
	}
}

func TestPipeSizeNoFit(t *testing.T) {
	_, err := PipeSize(PipeSizeInput{FlowRate: 100, Length: 30})
	require.Error(t, err)
	assert.Equal(t, domain.ErrorKindValidation, domain.KindOf(err))
}

func TestPipeSizeFittingsExtendRun(t *testing.T) {
	// 2.9 m3/h fits 15mm at 3m, but fittings push the effective run past 3m.
	bare, err := PipeSize(PipeSizeInput{FlowRate: 2.5, Length: 3})
	require.NoError(t, err)
	assert.Equal(t, 15, bare.Diameter)

	withFittings, err := PipeSize(PipeSizeInput{FlowRate: 2.5, Length: 3, Fittings: 2})
	require.NoError(t, err)
	assert.Equal(t, 22, withFittings.Diameter)
	assert.InDelta(t, 4.0, withFittings.EffectiveLength, 0.001)
}

func TestPressureDrop(t *testing.T) {
	// Full table capacity produces exactly the 1 mbar limit.
	result, err := PressureDrop(PressureDropInput{FlowRate: 2.9, Diameter: 15, Length: 3})
	require.NoError(t, err)
	assert.InDelta(t, 1.0, result.DropMbar, 0.001)
	assert.True(t, result.WithinLimit)

	// Half the capacity drops a quarter of the limit.
	result, err = PressureDrop(PressureDropInput{FlowRate: 1.45, Diameter: 15, Length: 3})
	require.NoError(t, err)
	assert.InDelta(t, 0.25, result.DropMbar, 0.001)

	// Overloaded pipe exceeds the limit.
	result, err = PressureDrop(PressureDropInput{FlowRate: 4.0, Diameter: 15, Length: 3})
	require.NoError(t, err)
	assert.False(t, result.WithinLimit)
}

func TestPressureDropValidation(t *testing.T) {
	_, err := PressureDrop(PressureDropInput{FlowRate: 1, Diameter: 19, Length: 3})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not a standard copper size")

	_, err = PressureDrop(PressureDropInput{FlowRate: 1, Diameter: 15, Length: 50})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "exceeds")
}

func TestDiversity(t *testing.T) {
	// Single appliance takes no discount.
	result, err := Diversity(DiversityInput{Appliances: []float64{24}})
	require.NoError(t, err)
	assert.InDelta(t, 24.0, result.DiversifiedKW, 0.001)
	assert.InDelta(t, 1.0, result.Factor, 0.001)

	// Largest at full rate, the rest discounted.
	result, err = Diversity(DiversityInput{Appliances: []float64{24, 10}})
	require.NoError(t, err)
	assert.InDelta(t, 34.0, result.TotalKW, 0.001)
	assert.InDelta(t, 24.0+10.0*0.9, result.DiversifiedKW, 0.001)

	result, err = Diversity(DiversityInput{Appliances: []float64{24, 10, 7, 3, 3}})
	require.NoError(t, err)
	assert.InDelta(t, 0.7, result.Factor, 0.001)
	assert.InDelta(t, 24.0+23.0*0.7, result.DiversifiedKW, 0.001)
}

func TestDiversityValidation(t *testing.T) {
	_, err := Diversity(DiversityInput{})
	assert.Error(t, err)

	_, err = Diversity(DiversityInput{Appliances: []float64{24, 0}})
	assert.Error(t, err)
}
