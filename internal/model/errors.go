package model

import (
	"errors"
	"fmt"
)

var (
	// ErrWrongNetwork is returned when the node serves a different chain than configured.
	ErrWrongNetwork = errors.New("wrong network")
	// ErrNoSigner is returned when a write is requested without a wallet.
	ErrNoSigner = errors.New("no signer configured")
	// ErrUnknownToken is returned when a token is not among the owner's tokens.
	ErrUnknownToken = errors.New("token not owned by account")
	// ErrAttemptNotFound is returned for unknown attempt ids.
	ErrAttemptNotFound = errors.New("attempt not found")
	// ErrActionNotAllowed is returned when a subname action does not apply to the token's current state.
	ErrActionNotAllowed = errors.New("action not allowed for token")
	// ErrSignerMismatch is returned when a request acts for an account other than the signing wallet.
	ErrSignerMismatch = errors.New("account is not the signing wallet")
)

// RevertError is a decoded custom error of a rejected contract call.
type RevertError struct {
	Name string
	Data []byte
}

func (e *RevertError) Error() string {
	if e.Name == "" {
		return "execution reverted"
	}
	return fmt.Sprintf("execution reverted: %s", e.Name)
}

// AsRevert extracts a RevertError from err.
func AsRevert(err error) (*RevertError, bool) {
	var rev *RevertError
	if errors.As(err, &rev) {
		return rev, true
	}
	return nil, false
}
