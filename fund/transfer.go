package fund

import (
	"math/big"

	"github.com/vitelabs/go-crowdfund/common/types"
)

// TransferResult is the outcome of a transfer-out. A failed transfer is a
// normal result, not an error.
type TransferResult uint8

const (
	TransferFailed TransferResult = iota
	TransferSucceeded
)

func (r TransferResult) Succeeded() bool {
	return r == TransferSucceeded
}

func (r TransferResult) String() string {
	if r.Succeeded() {
		return "succeeded"
	}
	return "failed"
}

// Transferer moves funds held by a project to an external party. Send is
// atomic: either the whole amount moved or nothing did. It is called while
// the project lock is held and must not call back into the same project.
type Transferer interface {
	Send(to types.Address, amount *big.Int) TransferResult
}
