package fund

import (
	"math/big"
	"sync"
	"time"

	"github.com/inconshreveable/log15"
	"github.com/pkg/errors"

	"github.com/vitelabs/go-crowdfund/common/types"
)

// Params are fixed when a project is created and never change afterwards.
type Params struct {
	Address     types.Address
	Creator     types.Address
	Title       string
	Description string
	GoalAmount  *big.Int
	Deadline    time.Time
}

// Options wires a project to its collaborators. Events and Journal may be nil.
type Options struct {
	Transferer Transferer
	Events     *EventManager
	Journal    Journal
	Now        func() time.Time
}

// Project owns the financial state of one crowdfunding campaign.
//
// Every operation that moves funds out follows the same order: capture the
// amount, zero the field it came from, persist the zeroed snapshot, attempt
// the transfer, and restore the field if the transfer failed. The field is
// therefore never observed holding funds that already left the project, in
// memory or on disk.
type Project struct {
	address     types.Address
	creator     types.Address
	title       string
	description string
	goal        *big.Int
	deadline    time.Time

	mu            sync.Mutex
	balance       *big.Int
	contributions map[types.Address]*big.Int
	completedAt   time.Time
	state         State

	// guarded by mu, flushed by finish
	pending []Event
	dirty   bool

	transferer Transferer
	events     *EventManager
	journal    Journal
	now        func() time.Time

	log log15.Logger
}

func NewProject(params Params, opts Options) (*Project, error) {
	if params.GoalAmount == nil || params.GoalAmount.Sign() < 0 {
		return nil, ErrInvalidAmount
	}
	return newProject(&ProjectInfo{
		Address:       params.Address,
		Creator:       params.Creator,
		Title:         params.Title,
		Description:   params.Description,
		GoalAmount:    params.GoalAmount,
		Deadline:      params.Deadline,
		Balance:       new(big.Int),
		State:         Fundraising,
		Contributions: make(map[types.Address]*big.Int),
	}, opts)
}

// RestoreProject rebuilds a project from a persisted snapshot.
func RestoreProject(info *ProjectInfo, opts Options) (*Project, error) {
	if err := info.Validate(); err != nil {
		return nil, err
	}
	return newProject(info.Clone(), opts)
}

func newProject(info *ProjectInfo, opts Options) (*Project, error) {
	if opts.Transferer == nil {
		return nil, ErrNilTransferer
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	return &Project{
		address:       info.Address,
		creator:       info.Creator,
		title:         info.Title,
		description:   info.Description,
		goal:          cloneInt(info.GoalAmount),
		deadline:      info.Deadline,
		balance:       cloneInt(info.Balance),
		contributions: info.Contributions,
		completedAt:   info.CompletedAt,
		state:         info.State,
		transferer:    opts.Transferer,
		events:        opts.Events,
		journal:       opts.Journal,
		now:           opts.Now,
		log:           log15.New("module", "fund/project", "project", info.Address),
	}, nil
}

func (p *Project) Address() types.Address { return p.address }
func (p *Project) Creator() types.Address { return p.creator }
func (p *Project) Deadline() time.Time    { return p.deadline }
func (p *Project) GoalAmount() *big.Int   { return new(big.Int).Set(p.goal) }

func (p *Project) State() State {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.state
}

func (p *Project) Balance() *big.Int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return new(big.Int).Set(p.balance)
}

// ContributionOf returns the net pledge currently recorded for contributor.
func (p *Project) ContributionOf(contributor types.Address) *big.Int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return cloneInt(p.contributions[contributor])
}

// Info returns a snapshot of every field. It has no side effects.
func (p *Project) Info() *ProjectInfo {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.snapshot()
}

// Contribute records amount from contributor and re-evaluates the project,
// so a contribution that reaches the goal pays out within the same call.
func (p *Project) Contribute(contributor types.Address, amount *big.Int) error {
	if amount == nil || amount.Sign() < 0 {
		return ErrInvalidAmount
	}

	p.mu.Lock()
	defer p.finish()

	if p.state != Fundraising {
		return ErrInvalidState
	}
	if contributor == p.creator {
		return ErrSelfContribution
	}

	previous, recorded := p.contributions[contributor]
	previousBalance := p.balance
	pledge := cloneInt(previous)
	p.contributions[contributor] = pledge.Add(pledge, amount)
	p.balance = new(big.Int).Add(p.balance, amount)

	if err := p.persist(nil); err != nil {
		if recorded {
			p.contributions[contributor] = previous
		} else {
			delete(p.contributions, contributor)
		}
		p.balance = previousBalance
		return err
	}

	p.log.Info("contribution received", "contributor", contributor, "amount", amount, "balance", p.balance)
	p.emit(&FundingReceived{
		ProjectAddress: p.address,
		Contributor:    contributor,
		Amount:         new(big.Int).Set(amount),
		CurrentTotal:   new(big.Int).Set(p.balance),
	})

	p.evaluate()
	return nil
}

// Evaluate checks the goal and the deadline and returns the resulting state.
// Reaching the goal triggers a payout attempt. completedAt is stamped on
// every check made while the project is still fundraising, whatever the
// outcome. Terminal projects are left untouched; a payout that failed is
// retried through Payout.
func (p *Project) Evaluate() State {
	p.mu.Lock()
	defer p.finish()
	return p.evaluate()
}

func (p *Project) evaluate() State {
	if p.state.IsTerminal() {
		return p.state
	}

	now := p.now()
	p.completedAt = now
	p.dirty = true

	switch {
	case p.balance.Cmp(p.goal) >= 0:
		p.setState(Successful, now)
		if _, err := p.payout(); err != nil {
			p.log.Warn("payout skipped", "err", err)
		}
	case now.After(p.deadline):
		p.setState(Expired, now)
	}
	return p.state
}

// Payout transfers the whole balance to the creator. A failed transfer
// leaves the balance in place so Payout can be retried. An error means the
// zeroed balance could not be persisted and no transfer was attempted.
func (p *Project) Payout() (TransferResult, error) {
	p.mu.Lock()
	defer p.finish()
	return p.payout()
}

func (p *Project) payout() (TransferResult, error) {
	if p.state != Successful {
		return TransferFailed, ErrInvalidState
	}
	if p.balance.Sign() == 0 {
		return TransferFailed, ErrNothingToPay
	}

	amount := p.balance
	p.balance = new(big.Int)

	if err := p.persist(nil); err != nil {
		p.balance = amount
		return TransferFailed, err
	}

	if !p.transferer.Send(p.creator, new(big.Int).Set(amount)).Succeeded() {
		p.balance = amount
		p.dirty = true
		p.log.Warn("payout transfer failed, balance restored", "creator", p.creator, "amount", amount)
		return TransferFailed, nil
	}

	p.log.Info("payout sent", "creator", p.creator, "amount", amount)
	p.emit(&CreatorPaid{
		ProjectAddress: p.address,
		Recipient:      p.creator,
		Amount:         amount,
	})
	return TransferSucceeded, nil
}

// Refund returns the full pledge of contributor from an expired project. A
// failed transfer restores the pledge so Refund can be retried.
func (p *Project) Refund(contributor types.Address) (TransferResult, error) {
	p.mu.Lock()
	defer p.finish()

	if p.state != Expired {
		return TransferFailed, ErrInvalidState
	}
	amount := p.contributions[contributor]
	if amount == nil || amount.Sign() <= 0 {
		return TransferFailed, ErrNoContribution
	}

	p.contributions[contributor] = new(big.Int)

	// the stored snapshot already carries the reduced balance so it stays
	// consistent with the zeroed pledge
	err := p.persist(func(info *ProjectInfo) {
		info.Balance.Sub(info.Balance, amount)
	})
	if err != nil {
		p.contributions[contributor] = amount
		return TransferFailed, err
	}

	if !p.transferer.Send(contributor, new(big.Int).Set(amount)).Succeeded() {
		p.contributions[contributor] = amount
		p.dirty = true
		p.log.Warn("refund transfer failed, pledge restored", "contributor", contributor, "amount", amount)
		return TransferFailed, nil
	}

	p.balance = new(big.Int).Sub(p.balance, amount)
	p.log.Info("refund sent", "contributor", contributor, "amount", amount, "balance", p.balance)
	p.emit(&ContributorRefunded{
		ProjectAddress: p.address,
		Contributor:    contributor,
		Amount:         amount,
	})
	return TransferSucceeded, nil
}

func (p *Project) setState(to State, at time.Time) {
	from := p.state
	p.state = to
	p.log.Info("state changed", "from", from, "to", to)
	p.emit(&StateChanged{ProjectAddress: p.address, From: from, To: to, At: at})
}

func (p *Project) emit(e Event) {
	p.pending = append(p.pending, e)
}

// persist writes the current snapshot, adjusted by adjust when set, before
// the caller lets funds move. A project without journal always succeeds.
func (p *Project) persist(adjust func(info *ProjectInfo)) error {
	if p.journal == nil {
		return nil
	}
	info := p.snapshot()
	if adjust != nil {
		adjust(info)
	}
	if err := p.journal.SaveProject(info); err != nil {
		p.log.Error("save project snapshot failed", "err", err)
		return errors.Wrap(err, "save project snapshot")
	}
	p.dirty = false
	return nil
}

// finish persists a changed project, releases the lock and then publishes
// the events collected while it was held. Only bookkeeping that moves no
// funds, such as completedAt or a restored field, is left to finish.
func (p *Project) finish() {
	events := p.pending
	p.pending = nil
	if p.dirty && p.journal != nil {
		if err := p.journal.SaveProject(p.snapshot()); err != nil {
			p.log.Error("save project snapshot failed", "err", err)
		}
	}
	p.dirty = false
	p.mu.Unlock()

	p.events.Publish(events...)
}

func (p *Project) snapshot() *ProjectInfo {
	contributions := make(map[types.Address]*big.Int, len(p.contributions))
	for addr, amount := range p.contributions {
		contributions[addr] = new(big.Int).Set(amount)
	}
	return &ProjectInfo{
		Address:       p.address,
		Creator:       p.creator,
		Title:         p.title,
		Description:   p.description,
		GoalAmount:    new(big.Int).Set(p.goal),
		Deadline:      p.deadline,
		Balance:       new(big.Int).Set(p.balance),
		CompletedAt:   p.completedAt,
		State:         p.state,
		Contributions: contributions,
	}
}
