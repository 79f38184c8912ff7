package handlers

import (
	"net/http"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/farmbook-io/farmbook-engine/pkg/services"
)

// OutletHandler exposes the outlet-wide dashboard rollup.
type OutletHandler struct {
	outlet services.OutletService
	logger *zap.Logger
}

// NewOutletHandler creates a new OutletHandler.
func NewOutletHandler(outlet services.OutletService, logger *zap.Logger) *OutletHandler {
	return &OutletHandler{outlet: outlet, logger: logger}
}

// RegisterRoutes registers the outlet routes on the given mux.
func (h *OutletHandler) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("GET /api/outlet/dashboard", h.Dashboard)
}

// Dashboard handles GET /api/outlet/dashboard. Without from/to the
// rollup covers each farmer's whole history since registration; with a
// search parameter only matching farmers are folded in, and zero
// matches yields a no-match dashboard rather than an error.
func (h *OutletHandler) Dashboard(w http.ResponseWriter, r *http.Request) {
	outletID, err := uuid.Parse(r.URL.Query().Get("outlet_id"))
	if err != nil {
		_ = ErrorResponse(w, http.StatusBadRequest, "invalid_outlet", "outlet_id must be a UUID")
		return
	}

	window, ok := windowParam(w, r)
	if !ok {
		return
	}

	selector := services.OutletSelector{
		Search:       r.URL.Query().Get("search"),
		Window:       window,
		AnimalTypeID: animalTypeParam(r),
	}

	dashboard, err := h.outlet.Dashboard(r.Context(), outletID, selector)
	if err != nil {
		h.logger.Error("Outlet dashboard failed", zap.Error(err))
		_ = WriteServiceError(w, err)
		return
	}
	_ = WriteJSON(w, http.StatusOK, dashboard)
}
