package common

import (
	"errors"
	"fmt"
)

// split engine
var (
	ErrPaymentNotFound     = errors.New("payment not found")
	ErrInvalidPaymentState = errors.New("payment has no usable amount")
	ErrTransactionFailure  = errors.New("ledger transaction failed")
	ErrAlreadyProcessed    = errors.New("payment already has ledger entries")
)

var (
	ErrProjectNotFound     = errors.New("project not found")
	ErrInsufficientBalance = errors.New("insufficient balance")
	ErrPayoutImmutable     = errors.New("payout cannot be edited, delete it instead")
	ErrUnsupportedCurrency = errors.New("unsupported currency")
	ErrDuplicateMember     = errors.New("user appears more than once in project members")
)

var (
	ErrNoRowsAffected        = errors.New("no rows affected")
	ErrValidation            = errors.New("validation failed")
	ErrDataNotFound          = errors.New("data not found")
	ErrInvalidFormatDate     = errors.New("invalid format date")
	ErrInvalidFingerprint    = errors.New("idempotency key cannot be reused for different requests payload")
	ErrRequestBeingProcessed = errors.New("request with same idempotency key is being processed")
	ErrMissingIdempotencyKey = errors.New("missing idempotency key. this operation requires idempotency key")
)

// TransactionFailure tags a storage error raised inside a unit of work. Engine errors that
// already carry a domain meaning pass through unchanged.
func TransactionFailure(err error) error {
	if err == nil {
		return nil
	}
	for _, known := range []error{
		ErrPaymentNotFound,
		ErrInvalidPaymentState,
		ErrAlreadyProcessed,
		ErrProjectNotFound,
		ErrInsufficientBalance,
		ErrPayoutImmutable,
		ErrTransactionFailure,
	} {
		if errors.Is(err, known) {
			return err
		}
	}
	return fmt.Errorf("%w: %w", ErrTransactionFailure, err)
}
