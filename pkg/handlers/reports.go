package handlers

import (
	"net/http"
	"strconv"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/farmbook-io/farmbook-engine/pkg/config"
	"github.com/farmbook-io/farmbook-engine/pkg/models"
	"github.com/farmbook-io/farmbook-engine/pkg/services"
)

// ReportsHandler exposes the report and classification reads.
type ReportsHandler struct {
	reports        services.ReportService
	classification services.ClassificationService
	cfg            *config.Config
	logger         *zap.Logger
}

// NewReportsHandler creates a new ReportsHandler.
func NewReportsHandler(
	reports services.ReportService,
	classification services.ClassificationService,
	cfg *config.Config,
	logger *zap.Logger,
) *ReportsHandler {
	return &ReportsHandler{
		reports:        reports,
		classification: classification,
		cfg:            cfg,
		logger:         logger,
	}
}

// RegisterRoutes registers the report routes on the given mux.
func (h *ReportsHandler) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("GET /api/reports/profit-loss", h.ProfitLoss)
	mux.HandleFunc("GET /api/reports/production", h.Production)
	mux.HandleFunc("GET /api/reports/health", h.Health)
	mux.HandleFunc("GET /api/reports/investment", h.Investment)
	mux.HandleFunc("GET /api/reports/breeding", h.Breeding)
	mux.HandleFunc("GET /api/classification", h.Classification)
}

// ProfitLoss handles GET /api/reports/profit-loss.
func (h *ReportsHandler) ProfitLoss(w http.ResponseWriter, r *http.Request) {
	owner, ok := ownerParam(w, r)
	if !ok {
		return
	}
	window, ok := windowParam(w, r)
	if !ok {
		return
	}

	report, err := h.reports.ProfitLoss(r.Context(), owner, window)
	if err != nil {
		h.logger.Error("Profit/loss report failed", zap.Error(err))
		_ = WriteServiceError(w, err)
		return
	}
	_ = WriteJSON(w, http.StatusOK, report)
}

// Production handles GET /api/reports/production. A window is
// required: daily rows need bounds.
func (h *ReportsHandler) Production(w http.ResponseWriter, r *http.Request) {
	owner, ok := ownerParam(w, r)
	if !ok {
		return
	}
	window, ok := windowParam(w, r)
	if !ok {
		return
	}
	if window == nil {
		_ = ErrorResponse(w, http.StatusBadRequest, "missing_window", "from and to are required")
		return
	}

	report, err := h.reports.Production(r.Context(), owner, *window)
	if err != nil {
		h.logger.Error("Production report failed", zap.Error(err))
		_ = WriteServiceError(w, err)
		return
	}
	_ = WriteJSON(w, http.StatusOK, report)
}

// Health handles GET /api/reports/health.
func (h *ReportsHandler) Health(w http.ResponseWriter, r *http.Request) {
	owner, ok := ownerParam(w, r)
	if !ok {
		return
	}
	window, ok := windowParam(w, r)
	if !ok {
		return
	}
	if window == nil {
		_ = ErrorResponse(w, http.StatusBadRequest, "missing_window", "from and to are required")
		return
	}

	report, err := h.reports.Health(r.Context(), owner, *window)
	if err != nil {
		h.logger.Error("Health report failed", zap.Error(err))
		_ = WriteServiceError(w, err)
		return
	}
	_ = WriteJSON(w, http.StatusOK, report)
}

// Investment handles GET /api/reports/investment.
func (h *ReportsHandler) Investment(w http.ResponseWriter, r *http.Request) {
	owner, ok := ownerParam(w, r)
	if !ok {
		return
	}

	lang := r.URL.Query().Get("lang")
	if lang == "" {
		lang = h.cfg.Reports.DefaultLanguage
	}

	report, err := h.reports.Investment(r.Context(), owner, lang)
	if err != nil {
		h.logger.Error("Investment report failed", zap.Error(err))
		_ = WriteServiceError(w, err)
		return
	}
	_ = WriteJSON(w, http.StatusOK, report)
}

// Breeding handles GET /api/reports/breeding.
func (h *ReportsHandler) Breeding(w http.ResponseWriter, r *http.Request) {
	owner, ok := ownerParam(w, r)
	if !ok {
		return
	}
	window, ok := windowParam(w, r)
	if !ok {
		return
	}

	report, err := h.reports.Breeding(r.Context(), owner, animalTypeParam(r), window)
	if err != nil {
		h.logger.Error("Breeding report failed", zap.Error(err))
		_ = WriteServiceError(w, err)
		return
	}
	_ = WriteJSON(w, http.StatusOK, report)
}

// Classification handles GET /api/classification.
func (h *ReportsHandler) Classification(w http.ResponseWriter, r *http.Request) {
	owner, ok := ownerParam(w, r)
	if !ok {
		return
	}

	summary, err := h.classification.ClassifyHerd(r.Context(), owner, animalTypeParam(r))
	if err != nil {
		h.logger.Error("Herd classification failed", zap.Error(err))
		_ = WriteServiceError(w, err)
		return
	}
	_ = WriteJSON(w, http.StatusOK, summary)
}

// ============================================================================
// Query parameter helpers
// ============================================================================

func ownerParam(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	owner, err := uuid.Parse(r.URL.Query().Get("owner_user_id"))
	if err != nil {
		_ = ErrorResponse(w, http.StatusBadRequest, "invalid_owner", "owner_user_id must be a UUID")
		return uuid.Nil, false
	}
	return owner, true
}

func animalTypeParam(r *http.Request) int {
	t, _ := strconv.Atoi(r.URL.Query().Get("animal_type_id"))
	return t
}

// windowParam parses the optional from/to query parameters. Both must
// be YYYY-MM-DD and come together; an inverted window is rejected
// before reaching the engine.
func windowParam(w http.ResponseWriter, r *http.Request) (*models.Window, bool) {
	fromStr := r.URL.Query().Get("from")
	toStr := r.URL.Query().Get("to")
	if fromStr == "" && toStr == "" {
		return nil, true
	}
	if fromStr == "" || toStr == "" {
		_ = ErrorResponse(w, http.StatusBadRequest, "invalid_window", "from and to must be provided together")
		return nil, false
	}

	from, err := time.Parse("2006-01-02", fromStr)
	if err != nil {
		_ = ErrorResponse(w, http.StatusBadRequest, "invalid_window", "from must be YYYY-MM-DD")
		return nil, false
	}
	to, err := time.Parse("2006-01-02", toStr)
	if err != nil {
		_ = ErrorResponse(w, http.StatusBadRequest, "invalid_window", "to must be YYYY-MM-DD")
		return nil, false
	}

	window, err := models.NewWindow(from, to)
	if err != nil {
		_ = WriteServiceError(w, err)
		return nil, false
	}
	return &window, true
}
