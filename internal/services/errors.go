package services

import (
	"errors"
)

var (
	// ErrMissingIdentifier rejects a catalog record with no id. Batch
	// callers skip the record and continue.
	ErrMissingIdentifier = errors.New("card record missing identifier")

	// ErrCardNotFound means a trade or deck line referenced a card that is
	// not in the store.
	ErrCardNotFound = errors.New("card not found")

	// ErrInsufficientHoldings means a sell (or buy reversal) would drive an
	// owned quantity negative. The operation is rejected with no mutation.
	ErrInsufficientHoldings = errors.New("insufficient cards in collection")

	// ErrNotFound means a delete targeted a row that does not exist.
	ErrNotFound = errors.New("not found")
)
