package settlement

import "errors"

var (
	ErrInsufficientBalance = errors.New("insufficient balance for transfer")
	ErrInvalidAmount       = errors.New("amount must be positive")
)
