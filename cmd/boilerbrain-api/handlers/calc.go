package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/boilerbrain-ai/boilerbrain/internal/calc"
	"github.com/boilerbrain-ai/boilerbrain/internal/domain"
	"github.com/boilerbrain-ai/boilerbrain/internal/observability"
)

// CalcHandler exposes the gas engineering calculators.
type CalcHandler struct {
	logger *observability.Logger
}

// NewCalcHandler creates a new calculator handler.
func NewCalcHandler(logger *observability.Logger) *CalcHandler {
	return &CalcHandler{logger: logger}
}

// GasRate handles POST /api/v1/calc/gas-rate.
func (h *CalcHandler) GasRate(w http.ResponseWriter, r *http.Request) {
	var in calc.GasRateInput
	if !decode(w, r, &in) {
		return
	}
	result, err := calc.GasRate(in)
	respond(w, result, err)
}

// PipeSize handles POST /api/v1/calc/pipe-size.
func (h *CalcHandler) PipeSize(w http.ResponseWriter, r *http.Request) {
	var in calc.PipeSizeInput
	if !decode(w, r, &in) {
		return
	}
	result, err := calc.PipeSize(in)
	respond(w, result, err)
}

// PressureDrop handles POST /api/v1/calc/pressure-drop.
func (h *CalcHandler) PressureDrop(w http.ResponseWriter, r *http.Request) {
	var in calc.PressureDropInput
	if !decode(w, r, &in) {
		return
	}
	result, err := calc.PressureDrop(in)
	respond(w, result, err)
}

// Diversity handles POST /api/v1/calc/diversity.
func (h *CalcHandler) Diversity(w http.ResponseWriter, r *http.Request) {
	var in calc.DiversityInput
	if !decode(w, r, &in) {
		return
	}
	result, err := calc.Diversity(in)
	respond(w, result, err)
}

func decode(w http.ResponseWriter, r *http.Request, dst any) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return false
	}
	return true
}

// respond maps calculator results onto HTTP. Validation failures are client
// errors; the calculators produce no other error kind.
func respond(w http.ResponseWriter, result any, err error) {
	if err != nil {
		if domain.KindOf(err) == domain.ErrorKindValidation {
			writeError(w, http.StatusBadRequest, "invalid input", err.Error())
			return
		}
		writeError(w, http.StatusInternalServerError, "calculation failed", err.Error())
		return
	}
	writeJSON(w, http.StatusOK, result)
}
