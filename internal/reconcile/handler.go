package reconcile

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/rentfolio/rentfolio/internal/integrations"
	"github.com/rentfolio/rentfolio/internal/shared"
)

// Handler exposes the reconciliation check over HTTP.
type Handler struct {
	logger     *slog.Logger
	reconciler *Reconciler
	validator  *validator.Validate
}

// NewHandler constructs a reconcile HTTP handler.
func NewHandler(logger *slog.Logger, reconciler *Reconciler) *Handler {
	return &Handler{logger: logger, reconciler: reconciler, validator: validator.New()}
}

// Mount registers the reconciliation routes.
func (h *Handler) Mount(r chi.Router) {
	r.Post("/reconciliation/check", h.check)
}

type checkRequest struct {
	PartnerID   string `json:"partnerId" validate:"required"`
	AccountID   string `json:"accountId"`
	Type        string `json:"type" validate:"required,oneof=power_office_go xledger"`
	PartnerKind string `json:"partnerKind" validate:"omitempty,oneof=direct broker"`
}

func (h *Handler) check(w http.ResponseWriter, r *http.Request) {
	var req checkRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		shared.WriteError(w, http.StatusBadRequest, "invalid json body")
		return
	}
	if err := h.validator.Struct(req); err != nil {
		shared.WriteError(w, http.StatusBadRequest, err.Error())
		return
	}
	kind := integrations.PartnerKind(req.PartnerKind)
	if kind == "" {
		kind = integrations.PartnerDirect
	}

	report, err := h.reconciler.Check(r.Context(), req.PartnerID, req.AccountID, integrations.SystemType(req.Type), kind)
	if err != nil {
		switch {
		case errors.Is(err, integrations.ErrNotFound):
			shared.WriteError(w, http.StatusNotFound, err.Error())
		case errors.Is(err, ErrCheckInProgress):
			shared.WriteError(w, http.StatusConflict, err.Error())
		case errors.Is(err, ErrExternalAuth), errors.Is(err, integrations.ErrMissingCredentials):
			shared.WriteError(w, http.StatusBadRequest, err.Error())
		default:
			h.logger.Error("reconciliation failed", slog.Any("error", err))
			shared.WriteError(w, http.StatusInternalServerError, "internal error")
		}
		return
	}
	shared.WriteJSON(w, http.StatusOK, report)
}
