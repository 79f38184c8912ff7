package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/farmbook-io/farmbook-engine/pkg/models"
	"github.com/farmbook-io/farmbook-engine/pkg/services"
)

// AnswersHandler handles answer submission and the animal-number
// reconciliation repair endpoint. Authentication happens upstream; the
// engine trusts the identifiers it is handed.
type AnswersHandler struct {
	submissions services.SubmissionService
	logger      *zap.Logger
}

// NewAnswersHandler creates a new AnswersHandler.
func NewAnswersHandler(submissions services.SubmissionService, logger *zap.Logger) *AnswersHandler {
	return &AnswersHandler{submissions: submissions, logger: logger}
}

// RegisterRoutes registers the answer routes on the given mux.
func (h *AnswersHandler) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("POST /api/answers", h.Submit)
	mux.HandleFunc("POST /api/answers/reconcile", h.Reconcile)
}

// Submit handles POST /api/answers. The batch lands atomically: either
// every answer is recorded or none are.
func (h *AnswersHandler) Submit(w http.ResponseWriter, r *http.Request) {
	var input services.SubmissionInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		_ = ErrorResponse(w, http.StatusBadRequest, "invalid_body", "request body is not valid JSON")
		return
	}
	if input.OwnerUserID == uuid.Nil || input.AnimalNumber == "" {
		_ = ErrorResponse(w, http.StatusBadRequest, "missing_subject", "owner_user_id and animal_number are required")
		return
	}

	answers, err := h.submissions.SubmitAnswers(r.Context(), &input)
	if err != nil {
		h.logger.Error("Answer submission failed", zap.Error(err))
		_ = WriteServiceError(w, err)
		return
	}

	_ = WriteJSON(w, http.StatusCreated, answers)
}

type reconcileRequest struct {
	OwnerUserID  uuid.UUID `json:"owner_user_id"`
	AnimalTypeID int       `json:"animal_type_id"`
	AnimalNumber string    `json:"animal_number"`
}

// Reconcile handles POST /api/answers/reconcile, the narrow
// animal-number restatement backfill.
func (h *AnswersHandler) Reconcile(w http.ResponseWriter, r *http.Request) {
	var req reconcileRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		_ = ErrorResponse(w, http.StatusBadRequest, "invalid_body", "request body is not valid JSON")
		return
	}

	subject := models.Subject{
		OwnerUserID:  req.OwnerUserID,
		AnimalTypeID: req.AnimalTypeID,
		AnimalNumber: req.AnimalNumber,
	}

	rewritten, err := h.submissions.ReconcileAnimalNumbers(r.Context(), subject)
	if err != nil {
		h.logger.Error("Animal number reconciliation failed", zap.Error(err))
		_ = WriteServiceError(w, err)
		return
	}

	_ = WriteJSON(w, http.StatusOK, map[string]int64{"rewritten": rewritten})
}
