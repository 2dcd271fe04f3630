// Package workflow drives a single claim session: it keeps ownership and
// availability in sync with the account and label and funnels submits into
// the action controller.
package workflow

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/ethereum/go-ethereum/common"
	"github.com/goodnatureofminers/subnameclaim-backend/internal/label"
	"github.com/goodnatureofminers/subnameclaim-backend/internal/model"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

const (
	msgNotConnected   = "Connect your wallet to proceed"
	msgWrongNetwork   = "Wrong network. Please switch to %s."
	msgOwnershipError = "Error loading your tokens"
	msgOwnershipLoad  = "Loading your tokens"
	msgNoTokens       = "You do not have a qualifying token"
	msgInProgress     = "Transaction in progress"
	msgConfirmed      = "Subname claimed"
)

// Config binds an engine to the target network and parent domain.
type Config struct {
	Network  model.Network
	RootName string
}

// ownershipKey identifies the ownership query the current state answers.
// gen is bumped by refetches so an older run of the same query is dropped too.
type ownershipKey struct {
	address common.Address
	chainID uint64
	gen     uint64
}

type availabilityKey struct {
	from    common.Address
	label   string
	tokenID model.TokenID
	enabled bool
}

// Engine recomputes derived state on every mutation. Background results are
// tagged with the key they answer and discarded once that key is stale.
type Engine struct {
	resolver   Resolver
	checker    Checker
	controller Controller
	network    model.Network
	root       string
	logger     *zap.Logger

	ctx         context.Context
	cancel      context.CancelFunc
	wg          sync.WaitGroup
	changes     chan struct{}
	unsubscribe func()

	mu              sync.Mutex
	closed          bool
	account         model.Account
	labelText       string
	labelError      string
	ownership       model.OwnershipState
	ownershipKey    ownershipKey
	gen             uint64
	selected        *model.TokenID
	selectionOpen   bool
	availability    model.AvailabilityVerdict
	availabilityKey availabilityKey
	submitting      bool
	attemptID       uuid.UUID
	attempt         *model.Attempt
}

// NewEngine creates an Engine subscribed to controller. Close releases it.
func NewEngine(resolver Resolver, checker Checker, controller Controller, cfg Config, logger *zap.Logger) (*Engine, error) {
	if resolver == nil {
		return nil, errors.New("workflow resolver is required")
	}
	if checker == nil {
		return nil, errors.New("workflow checker is required")
	}
	if controller == nil {
		return nil, errors.New("workflow controller is required")
	}
	if cfg.Network.ChainID == 0 {
		return nil, errors.New("workflow network is required")
	}

	ctx, cancel := context.WithCancel(context.Background())
	e := &Engine{
		resolver:     resolver,
		checker:      checker,
		controller:   controller,
		network:      cfg.Network,
		root:         cfg.RootName,
		logger:       logger.Named("workflow"),
		ctx:          ctx,
		cancel:       cancel,
		changes:      make(chan struct{}, 1),
		ownership:    model.OwnershipState{Status: model.OwnershipIdle},
		availability: model.UnknownVerdict(),
	}
	e.unsubscribe = controller.Subscribe(e.onAttempt)
	return e, nil
}

// SetAccount reports a wallet connection change.
func (e *Engine) SetAccount(account model.Account) {
	e.mu.Lock()
	e.account = account
	e.recomputeLocked()
	e.mu.Unlock()
	e.signal()
}

// SetLabel replaces the label. Editing after a settled attempt frees the attempt slot.
func (e *Engine) SetLabel(text string) {
	e.mu.Lock()
	if text != e.labelText && e.attempt != nil && e.attempt.Status.Terminal() {
		e.attemptID = uuid.Nil
		e.attempt = nil
	}
	e.labelText = text
	e.labelError = label.Message(text)
	e.recomputeLocked()
	e.mu.Unlock()
	e.signal()
}

// BlurLabel validates the label as the input loses focus and returns the error message.
func (e *Engine) BlurLabel() string {
	e.mu.Lock()
	e.labelError = label.Message(e.labelText)
	msg := e.labelError
	e.mu.Unlock()
	e.signal()
	return msg
}

// Refetch re-reads ownership for the current account.
func (e *Engine) Refetch() {
	e.mu.Lock()
	e.gen++
	e.recomputeLocked()
	e.mu.Unlock()
	e.signal()
}

// Submit re-validates the label and either submits a claim or opens the token selection step.
func (e *Engine) Submit() SubmitResult {
	e.mu.Lock()
	result, call := e.prepareSubmitLocked()
	e.mu.Unlock()

	if call == nil {
		e.signal()
		return result
	}
	return e.launch(*call)
}

// SelectToken stores the chosen token. When the selection step is open it
// closes the step and submits with that token.
func (e *Engine) SelectToken(id model.TokenID) (SubmitResult, error) {
	e.mu.Lock()
	if !e.ownership.Loaded || !e.ownership.Snapshot.HasCandidate(id) {
		e.mu.Unlock()
		return SubmitResult{}, fmt.Errorf("select token %s: %w", id, model.ErrUnknownToken)
	}
	e.selected = &id
	e.recomputeLocked()

	if !e.selectionOpen {
		e.mu.Unlock()
		e.signal()
		return SubmitResult{Outcome: OutcomeSelected}, nil
	}
	e.selectionOpen = false
	result, call := e.prepareSubmitLocked()
	e.mu.Unlock()

	if call == nil {
		e.signal()
		return result, nil
	}
	return e.launch(*call), nil
}

// CanSubmit evaluates whether submitting is currently permitted.
func (e *Engine) CanSubmit() (bool, model.BlockReason) {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.canSubmitLocked()
}

// State returns a snapshot of the session.
func (e *Engine) State() model.WorkflowState {
	e.mu.Lock()
	defer e.mu.Unlock()

	ok, reason := e.canSubmitLocked()
	state := model.WorkflowState{
		Label:            e.labelText,
		LabelError:       e.labelError,
		Account:          e.account,
		CanSubmit:        ok,
		BlockReason:      reason,
		SelectionPending: reason.Code == model.BlockSelectionPending,
		SelectionOpen:    e.selectionOpen,
		Ownership:        e.ownership,
		Availability:     e.availability,
	}
	if e.labelText != "" && e.root != "" {
		state.FullName = label.Join(e.labelText, e.root)
	}
	if e.selected != nil {
		id := *e.selected
		state.SelectedToken = &id
	}
	if e.attempt != nil {
		a := *e.attempt
		state.Attempt = &a
	}
	return state
}

// Changes signals state changes. Signals coalesce; read State after each one.
func (e *Engine) Changes() <-chan struct{} {
	return e.changes
}

// Wait blocks until background reads started so far have been applied.
func (e *Engine) Wait() {
	e.wg.Wait()
}

// Close stops background reads and detaches from the controller. A submitted
// attempt keeps running in the controller.
func (e *Engine) Close() {
	e.mu.Lock()
	if e.closed {
		e.mu.Unlock()
		return
	}
	e.closed = true
	e.mu.Unlock()

	e.cancel()
	e.unsubscribe()
	e.wg.Wait()
}

func (e *Engine) canSubmitLocked() (bool, model.BlockReason) {
	switch {
	case !e.account.Connected:
		return false, model.BlockReason{Code: model.BlockNotConnected, Message: msgNotConnected}
	case !e.account.OnNetwork(e.network):
		return false, model.BlockReason{Code: model.BlockWrongNetwork, Message: fmt.Sprintf(msgWrongNetwork, e.network)}
	case e.ownership.Status == model.OwnershipErrored:
		return false, model.BlockReason{Code: model.BlockOwnershipErrored, Message: msgOwnershipError}
	case !e.ownership.Loaded:
		return false, model.BlockReason{Code: model.BlockOwnershipLoading, Message: msgOwnershipLoad}
	case e.ownership.Snapshot.OwnedCount == 0:
		return false, model.BlockReason{Code: model.BlockNoTokens, Message: msgNoTokens}
	case e.ownership.Snapshot.OwnedCount > 1 && e.selected == nil:
		// submit opens the selection step instead of sending
		return true, model.BlockReason{Code: model.BlockSelectionPending}
	case e.submitting || (e.attempt != nil && e.attempt.Status.Pending()):
		return false, model.BlockReason{Code: model.BlockInProgress, Message: msgInProgress}
	case e.attempt != nil && e.attempt.Status == model.AttemptConfirmed:
		return false, model.BlockReason{Code: model.BlockConfirmed, Message: msgConfirmed}
	case e.availability.BlocksSubmit():
		return false, model.BlockReason{Code: model.BlockUnavailable, Message: e.availability.Message}
	}
	return true, model.BlockReason{}
}

// prepareSubmitLocked decides what a submit does. A non-nil call must be
// passed to launch after the lock is released.
func (e *Engine) prepareSubmitLocked() (SubmitResult, *model.ContractCall) {
	if err := label.Validate(e.labelText); err != nil {
		e.labelError = err.Error()
		return SubmitResult{Outcome: OutcomeInvalidLabel, Message: err.Error()}, nil
	}
	e.labelError = ""

	ok, reason := e.canSubmitLocked()
	if reason.Code == model.BlockSelectionPending {
		e.selectionOpen = true
		return SubmitResult{Outcome: OutcomeSelectionRequired}, nil
	}
	if !ok {
		return SubmitResult{Outcome: OutcomeIgnored, Message: reason.Message}, nil
	}

	tokenID, resolved := e.currentTokenLocked()
	if !resolved {
		return SubmitResult{Outcome: OutcomeIgnored}, nil
	}
	e.submitting = true
	call := model.ClaimCall(e.labelText, tokenID)
	return SubmitResult{}, &call
}

func (e *Engine) launch(call model.ContractCall) SubmitResult {
	id := e.controller.Begin(call)
	attempt, _ := e.controller.Attempt(id)

	e.mu.Lock()
	e.submitting = false
	e.attemptID = id
	e.attempt = &attempt
	e.mu.Unlock()

	e.logger.Info("claim submitted", zap.Stringer("attempt", id), zap.String("label", call.Label), zap.Stringer("token", call.TokenID))
	e.controller.Start(e.ctx, id)
	e.signal()
	return SubmitResult{Outcome: OutcomeSubmitted, AttemptID: id}
}

func (e *Engine) onAttempt(a model.Attempt) {
	e.mu.Lock()
	if e.closed || a.ID != e.attemptID {
		e.mu.Unlock()
		return
	}
	e.attempt = &a
	if a.Status == model.AttemptConfirmed {
		e.gen++
		e.recomputeLocked()
	}
	e.mu.Unlock()
	e.signal()
}

func (e *Engine) currentTokenLocked() (model.TokenID, bool) {
	snapshot := e.ownership.Snapshot
	if !e.ownership.Loaded {
		return 0, false
	}
	if snapshot.SingleTokenID != nil {
		return *snapshot.SingleTokenID, true
	}
	if e.selected != nil && snapshot.HasCandidate(*e.selected) {
		return *e.selected, true
	}
	return 0, false
}

// recomputeLocked derives both query keys from the current inputs and
// starts a read for every key that changed.
func (e *Engine) recomputeLocked() {
	if e.closed {
		return
	}
	e.recomputeOwnershipLocked()
	e.recomputeAvailabilityLocked()
}

func (e *Engine) recomputeOwnershipLocked() {
	if !e.account.OnNetwork(e.network) {
		if e.ownershipKey != (ownershipKey{}) {
			e.ownershipKey = ownershipKey{}
			e.ownership = model.OwnershipState{Status: model.OwnershipIdle}
			e.selected = nil
			e.selectionOpen = false
		}
		return
	}

	key := ownershipKey{address: e.account.Address, chainID: e.account.ChainID, gen: e.gen}
	if key == e.ownershipKey {
		return
	}
	if key.address != e.ownershipKey.address || key.chainID != e.ownershipKey.chainID {
		e.ownership = model.OwnershipState{}
		e.selected = nil
		e.selectionOpen = false
	}
	e.ownershipKey = key
	e.ownership.Status = model.OwnershipLoading
	e.ownership.Err = nil

	e.wg.Add(1)
	go e.resolveOwnership(key)
}

func (e *Engine) recomputeAvailabilityLocked() {
	key := availabilityKey{from: e.account.Address, label: e.labelText}
	if tokenID, ok := e.currentTokenLocked(); ok {
		key.tokenID = tokenID
		key.enabled = e.account.OnNetwork(e.network) && label.Validate(e.labelText) == nil
	}
	if !key.enabled {
		key = availabilityKey{}
	}
	if key == e.availabilityKey {
		return
	}
	e.availabilityKey = key
	if !key.enabled {
		e.availability = model.UnknownVerdict()
		return
	}
	e.availability = model.CheckingVerdict()

	e.wg.Add(1)
	go e.checkAvailability(key)
}

func (e *Engine) resolveOwnership(key ownershipKey) {
	defer e.wg.Done()

	snapshot, err := e.resolver.Resolve(e.ctx, key.address)

	e.mu.Lock()
	if e.closed || key != e.ownershipKey {
		e.mu.Unlock()
		e.logger.Debug("stale ownership result dropped", zap.Stringer("owner", key.address))
		return
	}
	if err != nil {
		// keep the last good snapshot, only flag the failure
		e.ownership.Status = model.OwnershipErrored
		e.ownership.Err = err
		e.logger.Warn("ownership read failed", zap.Stringer("owner", key.address), zap.Error(err))
	} else {
		e.ownership = model.OwnershipState{Snapshot: snapshot, Status: model.OwnershipReady, Loaded: true}
		if e.selected != nil && (snapshot.OwnedCount < 2 || !snapshot.HasCandidate(*e.selected)) {
			e.selected = nil
		}
		if snapshot.OwnedCount < 2 {
			e.selectionOpen = false
		}
	}
	e.recomputeLocked()
	e.mu.Unlock()
	e.signal()
}

func (e *Engine) checkAvailability(key availabilityKey) {
	defer e.wg.Done()

	verdict := e.checker.Check(e.ctx, key.from, key.label, key.tokenID)

	e.mu.Lock()
	if e.closed || key != e.availabilityKey {
		e.mu.Unlock()
		e.logger.Debug("stale availability result dropped", zap.String("label", key.label), zap.Stringer("token", key.tokenID))
		return
	}
	e.availability = verdict
	e.mu.Unlock()
	e.signal()
}

func (e *Engine) signal() {
	select {
	case e.changes <- struct{}{}:
	default:
	}
}
