package fund

import "errors"

var (
	ErrInvalidState      = errors.New("operation not allowed in current project state")
	ErrSelfContribution  = errors.New("creator cannot contribute to own project")
	ErrNoContribution    = errors.New("no contribution to refund")
	ErrNothingToPay      = errors.New("project balance already paid out")
	ErrInvalidAmount     = errors.New("amount must be a non-negative integer")
	ErrNilTransferer     = errors.New("project requires a transferer")
	ErrCorruptedSnapshot = errors.New("project snapshot violates balance invariant")
)
