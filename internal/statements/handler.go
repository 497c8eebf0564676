package statements

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/rentfolio/rentfolio/internal/shared"
)

// Enqueuer hands statement runs to the background worker.
type Enqueuer interface {
	EnqueueGenerateStatements(ctx context.Context, partnerID string, year int, regenerate bool) error
}

// Handler exposes the statement batch trigger over HTTP. Generation itself
// runs on the worker; the handler only enqueues.
type Handler struct {
	logger    *slog.Logger
	enqueuer  Enqueuer
	validator *validator.Validate
}

// NewHandler constructs a statements HTTP handler.
func NewHandler(logger *slog.Logger, enqueuer Enqueuer) *Handler {
	return &Handler{logger: logger, enqueuer: enqueuer, validator: validator.New()}
}

// Mount registers the statement routes.
func (h *Handler) Mount(r chi.Router) {
	r.Post("/statements/generate", h.generate)
}

type generateRequest struct {
	PartnerID  string `json:"partnerId" validate:"required"`
	Year       int    `json:"year" validate:"required,gte=1900,lte=9999"`
	Regenerate bool   `json:"regenerate"`
}

func (h *Handler) generate(w http.ResponseWriter, r *http.Request) {
	var req generateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		shared.WriteError(w, http.StatusBadRequest, "invalid json body")
		return
	}
	if err := h.validator.Struct(req); err != nil {
		shared.WriteError(w, http.StatusBadRequest, err.Error())
		return
	}
	if err := h.enqueuer.EnqueueGenerateStatements(r.Context(), req.PartnerID, req.Year, req.Regenerate); err != nil {
		h.logger.Error("enqueue statement run", slog.Any("error", err))
		shared.WriteError(w, http.StatusInternalServerError, "internal error")
		return
	}
	shared.WriteJSON(w, http.StatusAccepted, map[string]any{
		"partnerId": req.PartnerID,
		"year":      req.Year,
		"enqueued":  true,
	})
}
