package commissions

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"

	"github.com/rentfolio/rentfolio/internal/shared"
)

// Handler exposes commission computation over HTTP.
type Handler struct {
	logger    *slog.Logger
	service   *Service
	validator *validator.Validate
}

// NewHandler constructs a commissions HTTP handler.
func NewHandler(logger *slog.Logger, service *Service) *Handler {
	return &Handler{logger: logger, service: service, validator: validator.New()}
}

// Mount registers the commission routes.
func (h *Handler) Mount(r chi.Router) {
	r.Post("/commissions/invoice", h.recordForInvoice)
}

type invoiceAddonRequest struct {
	ID                   string              `json:"id" validate:"required"`
	Total                decimal.Decimal     `json:"total"`
	CommissionEnabled    bool                `json:"commissionEnabled"`
	CommissionPercentage decimal.NullDecimal `json:"commissionPercentage"`
	ContractType         string              `json:"contractType" validate:"omitempty,oneof=brokering rental_management assignment"`
}

type invoiceRequest struct {
	ID                  string                `json:"id" validate:"required"`
	ContractID          string                `json:"contractId" validate:"required"`
	CommissionableTotal decimal.Decimal       `json:"commissionableTotal"`
	Addons              []invoiceAddonRequest `json:"addons" validate:"dive"`
	PartnerID           string                `json:"partnerId" validate:"required"`
	AccountID           string                `json:"accountId"`
	PropertyID          string                `json:"propertyId"`
	AgentID             string                `json:"agentId"`
	BranchID            string                `json:"branchId"`
	TenantID            string                `json:"tenantId"`
}

func (h *Handler) recordForInvoice(w http.ResponseWriter, r *http.Request) {
	var req invoiceRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		shared.WriteError(w, http.StatusBadRequest, "invalid json body")
		return
	}
	if err := h.validator.Struct(req); err != nil {
		shared.WriteError(w, http.StatusBadRequest, err.Error())
		return
	}

	inv := Invoice{
		ID:                  req.ID,
		ContractID:          req.ContractID,
		CommissionableTotal: req.CommissionableTotal,
		PartnerID:           req.PartnerID,
		AccountID:           req.AccountID,
		PropertyID:          req.PropertyID,
		AgentID:             req.AgentID,
		BranchID:            req.BranchID,
		TenantID:            req.TenantID,
	}
	for _, a := range req.Addons {
		inv.Addons = append(inv.Addons, Addon{
			ID:                   a.ID,
			Total:                a.Total,
			CommissionEnabled:    a.CommissionEnabled,
			CommissionPercentage: a.CommissionPercentage,
			ContractType:         ContractType(a.ContractType),
		})
	}

	records, err := h.service.RecordForInvoice(r.Context(), inv)
	if err != nil {
		switch {
		case errors.Is(err, ErrContractNotFound):
			shared.WriteError(w, http.StatusNotFound, err.Error())
		default:
			h.logger.Error("record commissions", slog.Any("error", err))
			shared.WriteError(w, http.StatusInternalServerError, "internal error")
		}
		return
	}
	shared.WriteJSON(w, http.StatusCreated, map[string]any{"commissions": records})
}
