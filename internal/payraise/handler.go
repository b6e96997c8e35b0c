package payraise

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/frahmantamala/payraise-portal/internal/access"
	"github.com/frahmantamala/payraise-portal/internal/session"
	"github.com/frahmantamala/payraise-portal/internal/transport"
	"github.com/frahmantamala/payraise-portal/pkg/logger"
)

type ServiceAPI interface {
	AddPayRaise(ctx context.Context, caller session.Context, dto CreatePayRaiseDTO) (int64, error)
	ListPayRaises(ctx context.Context, caller session.Context, scope access.Operation) ([]*Record, error)
}

type Handler struct {
	*transport.BaseHandler
	Service ServiceAPI
}

func NewHandler(svc ServiceAPI) *Handler {
	lg := logger.LoggerWrapper()
	if lg == nil {
		lg = slog.Default()
	}
	return &Handler{
		BaseHandler: transport.NewBaseHandler(lg),
		Service:     svc,
	}
}

// CreatePayRaise handles POST /payraises
func (h *Handler) CreatePayRaise(w http.ResponseWriter, r *http.Request) {
	caller := session.FromContext(r.Context())

	var dto CreatePayRaiseDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		h.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	id, err := h.Service.AddPayRaise(r.Context(), caller, dto)
	if err != nil {
		h.HandleServiceError(w, r, err)
		return
	}

	h.WriteJSON(w, http.StatusCreated, map[string]interface{}{
		"id": id,
	})
}

// ListAll handles GET /payraises
func (h *Handler) ListAll(w http.ResponseWriter, r *http.Request) {
	h.list(w, r, access.ListAllPayRaises)
}

// ListMine handles GET /payraises/mine
func (h *Handler) ListMine(w http.ResponseWriter, r *http.Request) {
	h.list(w, r, access.ListOwnPayRaises)
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request, scope access.Operation) {
	caller := session.FromContext(r.Context())

	records, err := h.Service.ListPayRaises(r.Context(), caller, scope)
	if err != nil {
		h.HandleServiceError(w, r, err)
		return
	}

	failed := 0
	for _, rec := range records {
		if !rec.Intact() {
			failed++
		}
	}

	h.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"pay_raises":         records,
		"count":              len(records),
		"integrity_failures": failed,
	})
}
