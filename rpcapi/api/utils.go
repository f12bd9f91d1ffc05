package api

import (
	"math/big"

	"github.com/pkg/errors"
)

func stringToBigInt(str string) (*big.Int, error) {
	n, ok := new(big.Int).SetString(str, 10)
	if n == nil || !ok {
		return nil, errors.Wrapf(ErrStrToBigInt, "%q", str)
	}
	return n, nil
}

func bigIntToString(big *big.Int) string {
	if big == nil {
		return "0"
	}
	return big.String()
}
