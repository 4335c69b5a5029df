package services

import (
	"errors"
	"fmt"

	"monkeybets/internal/models"
)

// ValidationError rejects input before any store call. Field names the
// input the message belongs next to.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

var maxBananasMessage = fmt.Sprintf("You can wager at most %d bananas at once", models.MaxBananas)

func invalid(field, message string) error {
	return &ValidationError{Field: field, Message: message}
}

var (
	ErrPropNotFound       = errors.New("prop not found")
	ErrPropUnavailable    = errors.New("prop is no longer available")
	ErrNotCreator         = errors.New("only the prop creator can do that")
	ErrPropClosed         = errors.New("prop is no longer accepting wagers")
	ErrAlreadyResolved    = errors.New("result has already been set")
	ErrNotExpired         = errors.New("prop has not expired yet")
	ErrCreatorWager       = errors.New("creators cannot wager on their own prop")
	ErrDuplicateWager     = errors.New("wager already placed on this prop")
	ErrCannotDelete       = errors.New("resolved props cannot be deleted")
	ErrWagerNotFound      = errors.New("no wager on this prop")
	ErrDraftNotFound      = errors.New("no pending wager")
	ErrPhoneTaken         = errors.New("phone number already registered")
	ErrAccountNotFound    = errors.New("account not found")
	ErrCodeRejected       = errors.New("verification code rejected")
	ErrVerificationFailed = errors.New("verification failed")
)
