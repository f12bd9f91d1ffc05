package settlement

import (
	"math/big"
	"sync"

	"github.com/inconshreveable/log15"
	"github.com/pkg/errors"
	"go.uber.org/atomic"

	"github.com/vitelabs/go-crowdfund/common/types"
	"github.com/vitelabs/go-crowdfund/fund"
)

// CustodyAddress holds value attached to project calls until it is paid out
// to a creator or refunded to a contributor.
var CustodyAddress = types.ZERO_ADDRESS

// AccountStore persists balances. SaveAccounts must apply all balances or
// none.
type AccountStore interface {
	GetAccount(addr types.Address) (*big.Int, error)
	SaveAccounts(balances map[types.Address]*big.Int) error
}

// FailFunc reports whether a transfer should be refused. Used to exercise
// the restore path of projects.
type FailFunc func(to types.Address, amount *big.Int) bool

// Vault is an in-process settlement substrate. It keeps user accounts and
// the custody pool, and implements fund.Transferer.
type Vault struct {
	mu       sync.Mutex
	accounts map[types.Address]*big.Int
	store    AccountStore
	failer   FailFunc

	sent   *atomic.Uint64
	failed *atomic.Uint64

	log log15.Logger
}

var _ fund.Transferer = (*Vault)(nil)

// NewVault returns a vault backed by store, or memory only when store is nil.
func NewVault(store AccountStore) *Vault {
	return &Vault{
		accounts: make(map[types.Address]*big.Int),
		store:    store,
		sent:     atomic.NewUint64(0),
		failed:   atomic.NewUint64(0),
		log:      log15.New("module", "settlement"),
	}
}

func (v *Vault) SetFailer(f FailFunc) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.failer = f
}

// Stats returns the number of sent and failed transfers.
func (v *Vault) Stats() (sent, failed uint64) {
	return v.sent.Load(), v.failed.Load()
}

func (v *Vault) BalanceOf(addr types.Address) (*big.Int, error) {
	v.mu.Lock()
	defer v.mu.Unlock()
	b, err := v.balance(addr)
	if err != nil {
		return nil, err
	}
	return new(big.Int).Set(b), nil
}

func (v *Vault) Custody() (*big.Int, error) {
	return v.BalanceOf(CustodyAddress)
}

// Deposit credits addr out of thin air. It is the faucet of a dev setup.
func (v *Vault) Deposit(addr types.Address, amount *big.Int) error {
	if amount == nil || amount.Sign() <= 0 {
		return ErrInvalidAmount
	}
	if addr == CustodyAddress {
		return errors.New("cannot deposit into custody")
	}

	v.mu.Lock()
	defer v.mu.Unlock()
	b, err := v.balance(addr)
	if err != nil {
		return err
	}
	return v.commit(map[types.Address]*big.Int{addr: new(big.Int).Add(b, amount)})
}

// Charge moves value attached to a call from the caller into custody.
func (v *Vault) Charge(from types.Address, amount *big.Int) error {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.move(from, CustodyAddress, amount)
}

// Reverse hands the value of a rejected call back to its caller.
func (v *Vault) Reverse(from types.Address, amount *big.Int) error {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.move(CustodyAddress, from, amount)
}

// Send pays amount out of custody. It never panics and reports a refused,
// underfunded or unpersisted transfer as TransferFailed.
func (v *Vault) Send(to types.Address, amount *big.Int) fund.TransferResult {
	v.mu.Lock()
	defer v.mu.Unlock()

	if v.failer != nil && v.failer(to, amount) {
		v.failed.Inc()
		v.log.Warn("transfer refused", "to", to, "amount", amount)
		return fund.TransferFailed
	}
	if err := v.move(CustodyAddress, to, amount); err != nil {
		v.failed.Inc()
		v.log.Error("transfer failed", "to", to, "amount", amount, "err", err)
		return fund.TransferFailed
	}
	v.sent.Inc()
	return fund.TransferSucceeded
}

func (v *Vault) move(from, to types.Address, amount *big.Int) error {
	if amount == nil || amount.Sign() < 0 {
		return ErrInvalidAmount
	}
	if from == to {
		return errors.Errorf("transfer from %s to itself", from)
	}
	if amount.Sign() == 0 {
		return nil
	}
	fromBalance, err := v.balance(from)
	if err != nil {
		return err
	}
	if fromBalance.Cmp(amount) < 0 {
		return errors.Wrapf(ErrInsufficientBalance, "%s has %s, needs %s", from, fromBalance, amount)
	}
	toBalance, err := v.balance(to)
	if err != nil {
		return err
	}
	return v.commit(map[types.Address]*big.Int{
		from: new(big.Int).Sub(fromBalance, amount),
		to:   new(big.Int).Add(toBalance, amount),
	})
}

func (v *Vault) balance(addr types.Address) (*big.Int, error) {
	if b, ok := v.accounts[addr]; ok {
		return b, nil
	}
	if v.store == nil {
		return new(big.Int), nil
	}
	b, err := v.store.GetAccount(addr)
	if err != nil {
		return nil, errors.Wrapf(err, "load account %s", addr)
	}
	v.accounts[addr] = b
	return b, nil
}

// commit persists first so a failed write leaves memory untouched.
func (v *Vault) commit(changes map[types.Address]*big.Int) error {
	if v.store != nil {
		if err := v.store.SaveAccounts(changes); err != nil {
			return err
		}
	}
	for addr, b := range changes {
		v.accounts[addr] = b
	}
	return nil
}
