package store

import (
	"bytes"
	"math/big"
	"sort"
	"time"

	"github.com/ethereum/go-ethereum/rlp"
	"github.com/golang/snappy"
	"github.com/pkg/errors"

	"github.com/vitelabs/go-crowdfund/common/types"
	"github.com/vitelabs/go-crowdfund/fund"
)

const recordVersion = uint8(1)

type contributionRecord struct {
	Contributor types.Address
	Amount      *big.Int
}

// projectRecord is the rlp layout of a project snapshot. Times are kept in
// their binary marshalled form because rlp has no signed integers.
type projectRecord struct {
	Version       uint8
	Address       types.Address
	Creator       types.Address
	Title         string
	Description   string
	GoalAmount    *big.Int
	Deadline      []byte
	Balance       *big.Int
	CompletedAt   []byte
	State         uint8
	Contributions []contributionRecord
}

func encodeProject(info *fund.ProjectInfo) ([]byte, error) {
	deadline, err := info.Deadline.MarshalBinary()
	if err != nil {
		return nil, errors.Wrap(err, "marshal deadline")
	}
	completedAt, err := info.CompletedAt.MarshalBinary()
	if err != nil {
		return nil, errors.Wrap(err, "marshal completedAt")
	}

	rec := projectRecord{
		Version:       recordVersion,
		Address:       info.Address,
		Creator:       info.Creator,
		Title:         info.Title,
		Description:   info.Description,
		GoalAmount:    info.GoalAmount,
		Deadline:      deadline,
		Balance:       info.Balance,
		CompletedAt:   completedAt,
		State:         uint8(info.State),
		Contributions: make([]contributionRecord, 0, len(info.Contributions)),
	}
	for addr, amount := range info.Contributions {
		rec.Contributions = append(rec.Contributions, contributionRecord{Contributor: addr, Amount: amount})
	}
	sort.Slice(rec.Contributions, func(i, j int) bool {
		return bytes.Compare(rec.Contributions[i].Contributor[:], rec.Contributions[j].Contributor[:]) < 0
	})

	data, err := rlp.EncodeToBytes(&rec)
	if err != nil {
		return nil, errors.Wrap(err, "rlp encode project")
	}
	return snappy.Encode(nil, data), nil
}

func decodeProject(buf []byte) (*fund.ProjectInfo, error) {
	data, err := snappy.Decode(nil, buf)
	if err != nil {
		return nil, errors.Wrap(ErrBadRecord, err.Error())
	}
	rec := new(projectRecord)
	if err := rlp.DecodeBytes(data, rec); err != nil {
		return nil, errors.Wrap(ErrBadRecord, err.Error())
	}
	if rec.Version != recordVersion {
		return nil, errors.Wrapf(ErrBadRecord, "unknown record version %d", rec.Version)
	}

	info := &fund.ProjectInfo{
		Address:       rec.Address,
		Creator:       rec.Creator,
		Title:         rec.Title,
		Description:   rec.Description,
		GoalAmount:    nonNil(rec.GoalAmount),
		Balance:       nonNil(rec.Balance),
		State:         fund.State(rec.State),
		Contributions: make(map[types.Address]*big.Int, len(rec.Contributions)),
	}
	if err := unmarshalTime(&info.Deadline, rec.Deadline); err != nil {
		return nil, err
	}
	if err := unmarshalTime(&info.CompletedAt, rec.CompletedAt); err != nil {
		return nil, err
	}
	for _, c := range rec.Contributions {
		info.Contributions[c.Contributor] = nonNil(c.Amount)
	}
	return info, nil
}

func unmarshalTime(t *time.Time, b []byte) error {
	if err := t.UnmarshalBinary(b); err != nil {
		return errors.Wrap(ErrBadRecord, err.Error())
	}
	return nil
}

func nonNil(x *big.Int) *big.Int {
	if x == nil {
		return new(big.Int)
	}
	return x
}
