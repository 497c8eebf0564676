package integrations

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/rentfolio/rentfolio/internal/shared"
)

// Handler exposes the mapping update surface over HTTP.
type Handler struct {
	logger    *slog.Logger
	service   *Service
	validator *validator.Validate
}

// NewHandler constructs an integrations HTTP handler.
func NewHandler(logger *slog.Logger, service *Service) *Handler {
	return &Handler{logger: logger, service: service, validator: validator.New()}
}

// Mount registers the integration routes.
func (h *Handler) Mount(r chi.Router) {
	r.Post("/integrations/{integrationID}/mappings", h.addMapping)
	r.Delete("/integrations/{integrationID}/mappings/{kind}/{key}", h.removeMapping)
}

type addMappingRequest struct {
	Kind string `json:"kind" validate:"required"`

	Code         string `json:"code"`
	BranchID     string `json:"branchId"`
	GroupID      string `json:"groupId"`
	TaxCode      string `json:"taxCode"`
	LocalID      string `json:"localId"`
	InternalID   string `json:"internalId"`
	AgentID      string `json:"agentId"`
	EmployeeID   string `json:"employeeId"`
	ObjectKind   string `json:"objectKind"`
	ObjectKindID string `json:"objectKindId"`
	ExternalCode string `json:"externalCode"`
}

// entry builds the typed mapping entry for the requested kind.
func (req addMappingRequest) entry() (MappingEntry, error) {
	switch MappingKind(req.Kind) {
	case KindAccount:
		return AccountMapping{Code: req.Code, ExternalCode: req.ExternalCode}, nil
	case KindBranch:
		return BranchMapping{BranchID: req.BranchID, ExternalCode: req.ExternalCode}, nil
	case KindGroup:
		return GroupMapping{GroupID: req.GroupID, ExternalCode: req.ExternalCode}, nil
	case KindTaxCode:
		return TaxCodeMapping{TaxCode: req.TaxCode, ExternalCode: req.ExternalCode}, nil
	case KindAssignment:
		return AssignmentMapping{InternalIDMapping{LocalID: req.LocalID, InternalID: req.InternalID}}, nil
	case KindLease:
		return LeaseMapping{InternalIDMapping{LocalID: req.LocalID, InternalID: req.InternalID}}, nil
	case KindEmployee:
		return EmployeeMapping{AgentID: req.AgentID, EmployeeID: req.EmployeeID}, nil
	case KindObjectKind:
		return ObjectKindMapping{Kind: req.ObjectKind, ObjectKindID: req.ObjectKindID}, nil
	default:
		return nil, ErrUnknownMappingKind
	}
}

func (h *Handler) addMapping(w http.ResponseWriter, r *http.Request) {
	integrationID := chi.URLParam(r, "integrationID")
	var req addMappingRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		shared.WriteError(w, http.StatusBadRequest, "invalid json body")
		return
	}
	if err := h.validator.Struct(req); err != nil {
		shared.WriteError(w, http.StatusBadRequest, err.Error())
		return
	}
	entry, err := req.entry()
	if err != nil {
		shared.WriteError(w, http.StatusBadRequest, err.Error())
		return
	}
	updated, err := h.service.AddMapping(r.Context(), integrationID, entry)
	if err != nil {
		h.writeError(w, err)
		return
	}
	shared.WriteJSON(w, http.StatusOK, mappingResponse(updated))
}

func (h *Handler) removeMapping(w http.ResponseWriter, r *http.Request) {
	integrationID := chi.URLParam(r, "integrationID")
	kind := MappingKind(chi.URLParam(r, "kind"))
	key := chi.URLParam(r, "key")
	updated, err := h.service.RemoveMapping(r.Context(), integrationID, kind, key)
	if err != nil {
		h.writeError(w, err)
		return
	}
	shared.WriteJSON(w, http.StatusOK, mappingResponse(updated))
}

func (h *Handler) writeError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, ErrNotFound):
		shared.WriteError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, ErrDuplicateMapping), errors.Is(err, ErrDuplicate):
		shared.WriteError(w, http.StatusConflict, err.Error())
	case errors.Is(err, ErrInvalidMapping), errors.Is(err, ErrUnknownMappingKind):
		shared.WriteError(w, http.StatusBadRequest, err.Error())
	default:
		h.logger.Error("mapping update failed", slog.Any("error", err))
		shared.WriteError(w, http.StatusInternalServerError, "internal error")
	}
}

func mappingResponse(integ Integration) map[string]any {
	return map[string]any{
		"id":          integ.ID,
		"status":      integ.Status,
		"accounts":    integ.MapAccounts,
		"branches":    integ.MapBranches,
		"groups":      integ.MapGroups,
		"taxCodes":    integ.MapTaxCodes,
		"assignments": integ.MapAssignments,
		"leases":      integ.MapLeases,
		"employees":   integ.MapEmployees,
		"objectKinds": integ.MapObjectKinds,
	}
}
