package auction

import (
	"errors"

	"github.com/mcdev12/tplauction/go/clients"
)

var (
	// ErrSubmitting rejects a second action while one is in flight
	ErrSubmitting = errors.New("an action is already in progress")
	// ErrNotLoaded rejects actions before the player and teams are on screen
	ErrNotLoaded      = errors.New("player details are not loaded")
	ErrInvalidAssign  = errors.New("invalid assignment")
	ErrPlayerNotFound = errors.New("Player not found")
	ErrTeamsFetch     = errors.New("Failed to fetch teams")
)

// FailureReason is the operator-facing text for an assignment the backend
// refused or never answered. Errors raised before anything was sent give "".
func FailureReason(err error) string {
	if err == nil || errors.Is(err, ErrInvalidAssign) || errors.Is(err, ErrSubmitting) || errors.Is(err, ErrNotLoaded) {
		return ""
	}
	return clients.ErrorMessage(err, assignFailedMessage)
}
