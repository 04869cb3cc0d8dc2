package handler

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/gorilla/mux"
	"github.com/ntuananhdevs/banking-onl/internal/infrastructure/auth"
	"github.com/ntuananhdevs/banking-onl/internal/models"
	service "github.com/ntuananhdevs/banking-onl/internal/services"
	"github.com/ntuananhdevs/banking-onl/internal/webhook"
	pkgerrors "github.com/ntuananhdevs/banking-onl/pkg/errors"
	"github.com/shopspring/decimal"
)

type Reconciler interface {
	Reconcile(ctx context.Context, n webhook.Notification) models.ReconciliationResult
}

type Handler struct {
	reconciler Reconciler
	deposits   service.DepositService
}

func NewHandler(reconciler Reconciler, deposits service.DepositService) *Handler {
	return &Handler{reconciler: reconciler, deposits: deposits}
}

type errorResponse struct {
	Error string `json:"error"`
}

type webhookResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
	Error   string `json:"error,omitempty"`
	Reason  string `json:"reason,omitempty"`
}

func (h *Handler) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}

func (h *Handler) writeError(w http.ResponseWriter, status int, err error) {
	h.writeJSON(w, status, errorResponse{Error: err.Error()})
}

func (h *Handler) RegisterPublicRoutes(r *mux.Router) {
	r.HandleFunc("/webhooks/sepay", h.SepayWebhook).Methods("POST")
	r.HandleFunc("/healthz", h.Health).Methods("GET")
}

func (h *Handler) RegisterProtectedRoutes(r *mux.Router) {
	r.HandleFunc("/deposits", h.CreateDeposit).Methods("POST")
	r.HandleFunc("/deposits", h.ListDeposits).Methods("GET")
	r.HandleFunc("/deposits/{code}", h.GetDeposit).Methods("GET")
	r.HandleFunc("/balance", h.GetBalance).Methods("GET")
}

func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	h.writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (h *Handler) SepayWebhook(w http.ResponseWriter, r *http.Request) {
	n, err := webhook.FromRequest(r, webhook.MaxBodyBytes)
	if err != nil {
		slog.Warn("failed to read webhook request", "error", err)
		h.writeJSON(w, http.StatusBadRequest, webhookResponse{
			Error:  "Invalid payload",
			Reason: string(models.ReasonMalformed),
		})
		return
	}

	result := h.reconciler.Reconcile(r.Context(), n)
	if result.Accepted {
		h.writeJSON(w, http.StatusOK, webhookResponse{Success: true, Message: "Webhook processed successfully"})
		return
	}

	h.writeJSON(w, webhookStatus(result.Reason), webhookResponse{
		Error:  result.Message,
		Reason: string(result.Reason),
	})
}

func webhookStatus(reason models.RejectReason) int {
	switch reason {
	case models.ReasonUnauthenticated:
		return http.StatusUnauthorized
	case models.ReasonInternalFault:
		return http.StatusInternalServerError
	default:
		return http.StatusBadRequest
	}
}

func (h *Handler) CreateDeposit(w http.ResponseWriter, r *http.Request) {
	userID, ok := auth.UserIDFromContext(r.Context())
	if !ok {
		h.writeError(w, http.StatusUnauthorized, pkgerrors.ErrUnauthenticated)
		return
	}

	var req struct {
		Amount decimal.Decimal `json:"amount"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeError(w, http.StatusBadRequest, err)
		return
	}

	tx, err := h.deposits.CreateDeposit(r.Context(), userID, req.Amount)
	if err != nil {
		if errors.Is(err, pkgerrors.ErrInvalidAmount) {
			h.writeError(w, http.StatusBadRequest, err)
		} else if errors.Is(err, pkgerrors.ErrUserNotFound) {
			h.writeError(w, http.StatusNotFound, err)
		} else if errors.Is(err, pkgerrors.ErrDepositCodeConflict) {
			h.writeError(w, http.StatusServiceUnavailable, err)
		} else {
			h.writeError(w, http.StatusInternalServerError, err)
		}
		return
	}

	h.writeJSON(w, http.StatusCreated, tx)
}

func (h *Handler) GetDeposit(w http.ResponseWriter, r *http.Request) {
	userID, ok := auth.UserIDFromContext(r.Context())
	if !ok {
		h.writeError(w, http.StatusUnauthorized, pkgerrors.ErrUnauthenticated)
		return
	}

	tx, err := h.deposits.GetDeposit(r.Context(), userID, mux.Vars(r)["code"])
	if err != nil {
		if errors.Is(err, pkgerrors.ErrTransactionNotFound) {
			h.writeError(w, http.StatusNotFound, err)
		} else {
			h.writeError(w, http.StatusInternalServerError, err)
		}
		return
	}

	h.writeJSON(w, http.StatusOK, tx)
}

func (h *Handler) ListDeposits(w http.ResponseWriter, r *http.Request) {
	userID, ok := auth.UserIDFromContext(r.Context())
	if !ok {
		h.writeError(w, http.StatusUnauthorized, pkgerrors.ErrUnauthenticated)
		return
	}

	transactions, err := h.deposits.ListDeposits(r.Context(), userID)
	if err != nil {
		h.writeError(w, http.StatusInternalServerError, err)
		return
	}
	if transactions == nil {
		transactions = []models.DepositTransaction{}
	}

	h.writeJSON(w, http.StatusOK, transactions)
}

func (h *Handler) GetBalance(w http.ResponseWriter, r *http.Request) {
	userID, ok := auth.UserIDFromContext(r.Context())
	if !ok {
		h.writeError(w, http.StatusUnauthorized, pkgerrors.ErrUnauthenticated)
		return
	}

	balance, err := h.deposits.GetBalance(r.Context(), userID)
	if err != nil {
		if errors.Is(err, pkgerrors.ErrUserNotFound) {
			h.writeError(w, http.StatusNotFound, err)
		} else {
			h.writeError(w, http.StatusInternalServerError, err)
		}
		return
	}

	h.writeJSON(w, http.StatusOK, map[string]string{"balance": balance.StringFixed(2)})
}
