// Package transport serves the claim workflow over HTTP.
package transport

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/go-chi/chi/v5"
	"github.com/goodnatureofminers/subnameclaim-backend/internal/model"
	"github.com/goodnatureofminers/subnameclaim-backend/internal/workflow"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

const (
	defaultLongPoll      = 25 * time.Second
	defaultAttemptsLimit = 50
	healthTimeout        = 2 * time.Second
)

// Deps are the services behind the API. Subnames, Events and Health are optional.
type Deps struct {
	Sessions *Sessions
	Subnames Subnames
	Attempts Attempts
	Events   EventStore
	Health   []Pinger
	Metrics  Metrics
}

type Config struct {
	// Signer is the wallet that signs every write. Sessions and subname actions are
	// only accepted for this account, and GET /v1/attempts returns its journal.
	Signer         common.Address
	LongPoll       time.Duration
	AllowedOrigins []string
}

type Handler struct {
	deps   Deps
	cfg    Config
	binder *Binder
	logger *zap.Logger
}

// NewHandler creates the API handler. Sessions, Attempts, Metrics and Config.Signer are required.
func NewHandler(deps Deps, cfg Config, logger *zap.Logger) (*Handler, error) {
	if deps.Sessions == nil {
		return nil, errors.New("sessions are required")
	}
	if deps.Attempts == nil {
		return nil, errors.New("attempts source is required")
	}
	if deps.Metrics == nil {
		return nil, errors.New("metrics is required")
	}
	if logger == nil {
		return nil, errors.New("logger is required")
	}
	if cfg.Signer == (common.Address{}) {
		return nil, errors.New("signer address is required")
	}
	if cfg.LongPoll <= 0 {
		cfg.LongPoll = defaultLongPoll
	}
	binder, err := NewBinder()
	if err != nil {
		return nil, err
	}
	return &Handler{deps: deps, cfg: cfg, binder: binder, logger: logger.Named("http")}, nil
}

type createSessionRequest struct {
	Account string `json:"account" validate:"required,eth_addr"`
	ChainID uint64 `json:"chainId" validate:"required"`
}

type labelRequest struct {
	Label string `json:"label" validate:"max=255"`
}

type ownerRequest struct {
	Owner string `json:"owner" validate:"required,eth_addr"`
}

type sessionResponse struct {
	ID    uuid.UUID           `json:"id"`
	State model.WorkflowState `json:"state"`
}

type blurResponse struct {
	Message string              `json:"message,omitempty"`
	State   model.WorkflowState `json:"state"`
}

type submitResponse struct {
	workflow.SubmitResult
	State model.WorkflowState `json:"state"`
}

type actionResponse struct {
	AttemptID uuid.UUID `json:"attemptId"`
}

func (h *Handler) createSession(w http.ResponseWriter, r *http.Request) {
	var req createSessionRequest
	if err := h.binder.Decode(r, &req); err != nil {
		h.writeError(w, r, err)
		return
	}

	account := model.Account{Address: common.HexToAddress(req.Account), Connected: true, ChainID: req.ChainID}
	if err := h.actsAsSigner(account.Address); err != nil {
		h.writeError(w, r, err)
		return
	}
	id, wf, err := h.deps.Sessions.Create(account)
	if err != nil {
		h.writeError(w, r, fmt.Errorf("create session: %w", err))
		return
	}
	h.writeJSON(w, http.StatusCreated, sessionResponse{ID: id, State: wf.State()})
}

// getSession returns the state. With ?wait=true it first blocks until the state changes
// or the long poll window ends.
func (h *Handler) getSession(w http.ResponseWriter, r *http.Request) {
	id, wf, ok := h.session(w, r)
	if !ok {
		return
	}

	if wait, _ := strconv.ParseBool(r.URL.Query().Get("wait")); wait {
		timer := time.NewTimer(h.cfg.LongPoll)
		select {
		case <-wf.Changes():
		case <-timer.C:
		case <-r.Context().Done():
		}
		timer.Stop()
	}
	h.writeJSON(w, http.StatusOK, sessionResponse{ID: id, State: wf.State()})
}

func (h *Handler) setLabel(w http.ResponseWriter, r *http.Request) {
	id, wf, ok := h.session(w, r)
	if !ok {
		return
	}
	var req labelRequest
	if err := h.binder.Decode(r, &req); err != nil {
		h.writeError(w, r, err)
		return
	}
	wf.SetLabel(req.Label)
	h.writeJSON(w, http.StatusOK, sessionResponse{ID: id, State: wf.State()})
}

func (h *Handler) blurLabel(w http.ResponseWriter, r *http.Request) {
	_, wf, ok := h.session(w, r)
	if !ok {
		return
	}
	msg := wf.BlurLabel()
	h.writeJSON(w, http.StatusOK, blurResponse{Message: msg, State: wf.State()})
}

func (h *Handler) submit(w http.ResponseWriter, r *http.Request) {
	_, wf, ok := h.session(w, r)
	if !ok {
		return
	}
	res := wf.Submit()
	h.writeJSON(w, http.StatusOK, submitResponse{SubmitResult: res, State: wf.State()})
}

func (h *Handler) selectToken(w http.ResponseWriter, r *http.Request) {
	_, wf, ok := h.session(w, r)
	if !ok {
		return
	}
	tokenID, err := tokenParam(r)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	res, err := wf.SelectToken(tokenID)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	h.writeJSON(w, http.StatusOK, submitResponse{SubmitResult: res, State: wf.State()})
}

func (h *Handler) refetch(w http.ResponseWriter, r *http.Request) {
	id, wf, ok := h.session(w, r)
	if !ok {
		return
	}
	wf.Refetch()
	h.writeJSON(w, http.StatusOK, sessionResponse{ID: id, State: wf.State()})
}

func (h *Handler) deleteSession(w http.ResponseWriter, r *http.Request) {
	id, err := sessionParam(r)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	if err := h.deps.Sessions.Delete(id); err != nil {
		h.writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) listSubnames(w http.ResponseWriter, r *http.Request) {
	owner := r.URL.Query().Get("owner")
	if err := h.binder.Var("owner", owner, "required,eth_addr"); err != nil {
		h.writeError(w, r, err)
		return
	}
	list, err := h.deps.Subnames.List(r.Context(), common.HexToAddress(owner))
	if err != nil {
		h.writeError(w, r, fmt.Errorf("list subnames: %w", err))
		return
	}
	h.writeJSON(w, http.StatusOK, list)
}

func (h *Handler) subnameAction(w http.ResponseWriter, r *http.Request) {
	tokenID, err := tokenParam(r)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	kind, ok := model.ParseActionKind(chi.URLParam(r, "action"))
	if !ok {
		h.writeError(w, r, &BindError{Field: "action", Message: "action must be one of migrate, release, relinquish"})
		return
	}
	var req ownerRequest
	if err := h.binder.Decode(r, &req); err != nil {
		h.writeError(w, r, err)
		return
	}

	owner := common.HexToAddress(req.Owner)
	if err := h.actsAsSigner(owner); err != nil {
		h.writeError(w, r, err)
		return
	}
	attemptID, err := h.deps.Subnames.Act(r.Context(), owner, tokenID, kind)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	h.writeJSON(w, http.StatusAccepted, actionResponse{AttemptID: attemptID})
}

func (h *Handler) listAttempts(w http.ResponseWriter, r *http.Request) {
	limit := defaultAttemptsLimit
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil {
			h.writeError(w, r, &BindError{Field: "limit", Message: "limit must be a number"})
			return
		}
		if err := h.binder.Var("limit", n, "min=1,max=1000"); err != nil {
			h.writeError(w, r, err)
			return
		}
		limit = n
	}

	if h.deps.Events != nil {
		events, err := h.deps.Events.AttemptEvents(r.Context(), h.cfg.Signer.Hex(), limit)
		if err != nil {
			h.writeError(w, r, fmt.Errorf("read attempt journal: %w", err))
			return
		}
		h.writeJSON(w, http.StatusOK, events)
		return
	}

	attempts := h.deps.Attempts.Attempts()
	if len(attempts) > limit {
		attempts = attempts[:limit]
	}
	h.writeJSON(w, http.StatusOK, attempts)
}

func (h *Handler) healthz(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), healthTimeout)
	defer cancel()

	for _, p := range h.deps.Health {
		if err := p.Ping(ctx); err != nil {
			h.logger.Warn("health check failed", zap.Error(err))
			h.writeJSON(w, http.StatusServiceUnavailable, errorResponse{Error: "unhealthy"})
			return
		}
	}
	h.writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (h *Handler) session(w http.ResponseWriter, r *http.Request) (uuid.UUID, Workflow, bool) {
	id, err := sessionParam(r)
	if err != nil {
		h.writeError(w, r, err)
		return uuid.Nil, nil, false
	}
	wf, err := h.deps.Sessions.Get(id)
	if err != nil {
		h.writeError(w, r, err)
		return uuid.Nil, nil, false
	}
	return id, wf, true
}

// actsAsSigner rejects accounts other than the wallet that would sign the transaction:
// ownership and simulation results for them would not hold for the real write.
func (h *Handler) actsAsSigner(account common.Address) error {
	if account != h.cfg.Signer {
		return fmt.Errorf("%w: %s, signer is %s", model.ErrSignerMismatch, account.Hex(), h.cfg.Signer.Hex())
	}
	return nil
}

func sessionParam(r *http.Request) (uuid.UUID, error) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		return uuid.Nil, ErrSessionNotFound
	}
	return id, nil
}

func tokenParam(r *http.Request) (model.TokenID, error) {
	id, err := model.ParseTokenID(chi.URLParam(r, "tokenID"))
	if err != nil {
		return 0, &BindError{Field: "tokenID", Message: "tokenID must be a decimal token id"}
	}
	return id, nil
}
