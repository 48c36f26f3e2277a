package wallet

import "errors"

var (
	ErrInvalidRecipient = errors.New("invalid recipient")
	ErrInvalidAmount    = errors.New("amount must be greater than zero")
	ErrInvalidAddress   = errors.New("contract address is required")
	ErrInvalidSymbol    = errors.New("asset symbol is required")
	ErrTxNotFound       = errors.New("transaction not found")
	ErrNotPending       = errors.New("transaction is not pending")
	ErrTrackerNotFound  = errors.New("no active tracker for transaction")
	ErrWatchNotFound    = errors.New("watched contract not found")
	ErrHoldingNotFound  = errors.New("holding not found")
)
