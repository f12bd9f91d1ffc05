package fund

import (
	"math/big"
	"time"

	"github.com/vitelabs/go-crowdfund/common/types"
)

// ProjectInfo is a detached snapshot of a project. Mutating it does not
// affect the project it was read from.
type ProjectInfo struct {
	Address       types.Address              `json:"address"`
	Creator       types.Address              `json:"creator"`
	Title         string                     `json:"title"`
	Description   string                     `json:"description"`
	GoalAmount    *big.Int                   `json:"goalAmount"`
	Deadline      time.Time                  `json:"deadline"`
	Balance       *big.Int                   `json:"balance"`
	CompletedAt   time.Time                  `json:"completedAt"`
	State         State                      `json:"state"`
	Contributions map[types.Address]*big.Int `json:"contributions"`
}

// Journal persists snapshots after each state-changing operation.
type Journal interface {
	SaveProject(info *ProjectInfo) error
}

func (info *ProjectInfo) Clone() *ProjectInfo {
	c := *info
	c.GoalAmount = cloneInt(info.GoalAmount)
	c.Balance = cloneInt(info.Balance)
	c.Contributions = make(map[types.Address]*big.Int, len(info.Contributions))
	for addr, amount := range info.Contributions {
		c.Contributions[addr] = cloneInt(amount)
	}
	return &c
}

// ContributionTotal sums every recorded pledge.
func (info *ProjectInfo) ContributionTotal() *big.Int {
	total := new(big.Int)
	for _, amount := range info.Contributions {
		total.Add(total, amount)
	}
	return total
}

// Validate checks the accounting invariants a stored snapshot must satisfy
// before a project can be restored from it.
func (info *ProjectInfo) Validate() error {
	if info.GoalAmount == nil || info.GoalAmount.Sign() < 0 ||
		info.Balance == nil || info.Balance.Sign() < 0 {
		return ErrCorruptedSnapshot
	}
	if info.State > Successful {
		return ErrCorruptedSnapshot
	}
	if _, ok := info.Contributions[info.Creator]; ok {
		return ErrCorruptedSnapshot
	}
	for _, amount := range info.Contributions {
		if amount == nil || amount.Sign() < 0 {
			return ErrCorruptedSnapshot
		}
	}
	held := info.ContributionTotal().Cmp(info.Balance) == 0
	if info.State == Successful {
		// paid out, or awaiting a payout retry
		held = held || info.Balance.Sign() == 0
	}
	if !held {
		return ErrCorruptedSnapshot
	}
	return nil
}

func cloneInt(x *big.Int) *big.Int {
	if x == nil {
		return new(big.Int)
	}
	return new(big.Int).Set(x)
}
