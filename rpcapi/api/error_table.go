package api

import (
	"github.com/pkg/errors"
	"github.com/powerman/rpc-codec/jsonrpc2"

	"github.com/vitelabs/go-crowdfund/fund"
	"github.com/vitelabs/go-crowdfund/registry"
	"github.com/vitelabs/go-crowdfund/settlement"
)

type JsonRpc2Error struct {
	Message string
	Code    int
}

func (e JsonRpc2Error) Error() string {
	return e.Message
}

func (e JsonRpc2Error) ErrorCode() int {
	return e.Code
}

var (
	ErrInvalidState = JsonRpc2Error{
		Message: fund.ErrInvalidState.Error(),
		Code:    -36001,
	}
	ErrSelfContribution = JsonRpc2Error{
		Message: fund.ErrSelfContribution.Error(),
		Code:    -36002,
	}
	ErrNoContribution = JsonRpc2Error{
		Message: fund.ErrNoContribution.Error(),
		Code:    -36003,
	}
	ErrNothingToPay = JsonRpc2Error{
		Message: fund.ErrNothingToPay.Error(),
		Code:    -36004,
	}
	ErrInvalidAmount = JsonRpc2Error{
		Message: fund.ErrInvalidAmount.Error(),
		Code:    -36005,
	}

	ErrProjectNotFound = JsonRpc2Error{
		Message: registry.ErrProjectNotFound.Error(),
		Code:    -36101,
	}
	ErrDurationOverflow = JsonRpc2Error{
		Message: registry.ErrDurationOverflow.Error(),
		Code:    -36102,
	}

	ErrBalanceNotEnough = JsonRpc2Error{
		Message: settlement.ErrInsufficientBalance.Error(),
		Code:    -35001,
	}
	ErrNonPositiveAmount = JsonRpc2Error{
		Message: settlement.ErrInvalidAmount.Error(),
		Code:    -35002,
	}

	ErrBadAmountString = JsonRpc2Error{
		Message: ErrStrToBigInt.Error(),
		Code:    -32602,
	}

	concernedErrorMap = map[error]JsonRpc2Error{
		fund.ErrInvalidState:              ErrInvalidState,
		fund.ErrSelfContribution:          ErrSelfContribution,
		fund.ErrNoContribution:            ErrNoContribution,
		fund.ErrNothingToPay:              ErrNothingToPay,
		fund.ErrInvalidAmount:             ErrInvalidAmount,
		registry.ErrProjectNotFound:       ErrProjectNotFound,
		registry.ErrDurationOverflow:      ErrDurationOverflow,
		settlement.ErrInsufficientBalance: ErrBalanceNotEnough,
		settlement.ErrInvalidAmount:       ErrNonPositiveAmount,
		ErrStrToBigInt:                    ErrBadAmountString,
	}
)

// TryMakeConcernedError turns a known cause into a JSON-RPC error carrying a
// stable code. The message keeps the wrapped context.
func TryMakeConcernedError(err error) (newerr error, concerned bool) {
	if err == nil {
		return nil, false
	}
	rerr, ok := concernedErrorMap[errors.Cause(err)]
	if ok {
		return jsonrpc2.NewError(rerr.Code, err.Error()), true
	}
	return err, false
}

func rpcError(err error) error {
	newerr, _ := TryMakeConcernedError(err)
	return newerr
}
