package handlers

import (
	"errors"
	"net/http"

	"github.com/boilerbrain-ai/boilerbrain/internal/domain"
	"github.com/boilerbrain-ai/boilerbrain/internal/observability"
	"github.com/boilerbrain-ai/boilerbrain/internal/retrieval"
)

// FaultsHandler handles fault-code lookup requests.
type FaultsHandler struct {
	logger  *observability.Logger
	lookups *retrieval.LookupService
}

// NewFaultsHandler creates a new faults handler.
func NewFaultsHandler(logger *observability.Logger, lookups *retrieval.LookupService) *FaultsHandler {
	return &FaultsHandler{logger: logger, lookups: lookups}
}

// Lookup handles GET /api/v1/faults/lookup.
func (h *FaultsHandler) Lookup(w http.ResponseWriter, r *http.Request) {
	q := retrieval.LookupQuery{
		Manufacturer: r.URL.Query().Get("manufacturer"),
		FaultCode:    r.URL.Query().Get("fault_code"),
		Model:        r.URL.Query().Get("model"),
	}

	result, err := h.lookups.Lookup(r.Context(), q)
	switch {
	case errors.Is(err, retrieval.ErrFaultNotFound):
		writeError(w, http.StatusNotFound, "fault not found", "")
	case domain.KindOf(err) == domain.ErrorKindValidation:
		writeError(w, http.StatusBadRequest, "invalid lookup query", err.Error())
	case err != nil:
		h.logger.Error().Err(err).Msg("Fault lookup failed")
		writeError(w, http.StatusInternalServerError, "lookup failed", err.Error())
	default:
		writeJSON(w, http.StatusOK, result)
	}
}
