package registry

import (
	"math/big"
	"testing"
	"time"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vitelabs/go-crowdfund/common/helper"
	"github.com/vitelabs/go-crowdfund/common/types"
	"github.com/vitelabs/go-crowdfund/fund"
	"github.com/vitelabs/go-crowdfund/settlement"
	"github.com/vitelabs/go-crowdfund/store"
)

var start = time.Date(2026, 5, 1, 9, 0, 0, 0, time.UTC)

func newAddr(t *testing.T) types.Address {
	addr, _, err := types.CreateAddress()
	require.NoError(t, err)
	return addr
}

type clock struct{ now time.Time }

func (c *clock) Now() time.Time { return c.now }

func TestRegistry_CreateAndList(t *testing.T) {
	em := fund.NewEventManager()
	var created []*fund.ProjectCreated
	em.Register(fund.ProjectCreatedEvent, func(e fund.Event) {
		created = append(created, e.(*fund.ProjectCreated))
	})

	c := &clock{now: start}
	r, err := New(Config{Transferer: settlement.NewVault(nil), Events: em, Now: c.Now})
	require.NoError(t, err)

	creator := newAddr(t)
	p1, err := r.CreateProject(creator, "bikes", "shared bikes", 7, big.NewInt(100))
	require.NoError(t, err)
	p2, err := r.CreateProject(creator, "books", "little library", 30, big.NewInt(5))
	require.NoError(t, err)

	assert.NotEqual(t, p1.Address(), p2.Address())
	assert.Equal(t, []types.Address{p1.Address(), p2.Address()}, r.ListProjects())
	assert.Equal(t, start.Add(7*24*time.Hour), p1.Deadline())
	assert.Equal(t, fund.Fundraising, p1.State())

	require.Len(t, created, 2)
	assert.Equal(t, p1.Address(), created[0].ContractAddress)
	assert.Equal(t, creator, created[0].ProjectStarter)
	assert.Equal(t, "bikes", created[0].ProjectTitle)
	assert.Equal(t, "shared bikes", created[0].ProjectDesc)
	assert.Equal(t, p1.Deadline(), created[0].Deadline)
	assert.Equal(t, "100", created[0].GoalAmount.String())

	got, err := r.Project(p2.Address())
	require.NoError(t, err)
	assert.Same(t, p2, got)

	_, err = r.Project(newAddr(t))
	assert.Equal(t, ErrProjectNotFound, errors.Cause(err))

	// the returned list is a copy
	list := r.ListProjects()
	list[0] = types.ZERO_ADDRESS
	assert.Equal(t, p1.Address(), r.ListProjects()[0])
}

func TestRegistry_ZeroDurationAndGoal(t *testing.T) {
	c := &clock{now: start}
	r, err := New(Config{Transferer: settlement.NewVault(nil), Now: c.Now})
	require.NoError(t, err)

	p, err := r.CreateProject(newAddr(t), "", "", 0, big.NewInt(0))
	require.NoError(t, err)
	assert.Equal(t, start, p.Deadline())
	assert.Equal(t, fund.Successful, p.Evaluate())
}

func TestRegistry_RejectsBadInput(t *testing.T) {
	r, err := New(Config{Transferer: settlement.NewVault(nil)})
	require.NoError(t, err)

	_, err = r.CreateProject(newAddr(t), "t", "d", helper.MaxUint64, big.NewInt(1))
	assert.Equal(t, ErrDurationOverflow, err)
	_, err = r.CreateProject(newAddr(t), "t", "d", 1, big.NewInt(-1))
	assert.Equal(t, fund.ErrInvalidAmount, err)
	assert.Equal(t, 0, r.Len())

	_, err = New(Config{})
	assert.Equal(t, fund.ErrNilTransferer, err)
}

func TestRegistry_LoadRestoresProjects(t *testing.T) {
	s, err := store.OpenMemory(16)
	require.NoError(t, err)
	defer s.Close()

	c := &clock{now: start}
	vault := settlement.NewVault(s)
	r, err := New(Config{Transferer: vault, Store: s, Now: c.Now})
	require.NoError(t, err)
	require.NoError(t, r.Load())

	creator, alice := newAddr(t), newAddr(t)
	p, err := r.CreateProject(creator, "kiln", "solar kiln", 7, big.NewInt(100))
	require.NoError(t, err)
	_, err = r.CreateProject(creator, "loom", "community loom", 3, big.NewInt(10))
	require.NoError(t, err)

	require.NoError(t, vault.Deposit(alice, big.NewInt(40)))
	require.NoError(t, vault.Charge(alice, big.NewInt(40)))
	require.NoError(t, p.Contribute(alice, big.NewInt(40)))

	reloaded, err := New(Config{Transferer: vault, Store: s, Now: c.Now})
	require.NoError(t, err)
	require.NoError(t, reloaded.Load())
	assert.Equal(t, r.ListProjects(), reloaded.ListProjects())

	rp, err := reloaded.Project(p.Address())
	require.NoError(t, err)
	assert.Equal(t, "40", rp.Balance().String())
	assert.Equal(t, "40", rp.ContributionOf(alice).String())

	// the restored project keeps working and persisting
	c.now = start.Add(8 * 24 * time.Hour)
	assert.Equal(t, fund.Expired, rp.Evaluate())
	result, err := rp.Refund(alice)
	require.NoError(t, err)
	assert.True(t, result.Succeeded())
	bal, err := vault.BalanceOf(alice)
	require.NoError(t, err)
	assert.Equal(t, "40", bal.String())

	stored, err := s.GetProject(p.Address())
	require.NoError(t, err)
	assert.Equal(t, fund.Expired, stored.State)
	assert.Equal(t, 0, stored.Balance.Sign())

	// new projects continue the stored sequence
	p3, err := reloaded.CreateProject(creator, "oven", "bread oven", 3, big.NewInt(10))
	require.NoError(t, err)
	assert.Equal(t, types.CreateProjectAddress(creator, 2), p3.Address())
	assert.Equal(t, ErrAlreadyLoaded, reloaded.Load())
}

// flakyStore rejects project snapshots while failing is set.
type flakyStore struct {
	*store.Store
	failing bool
}

func (s *flakyStore) SaveProject(info *fund.ProjectInfo) error {
	if s.failing {
		return errors.New("write failed")
	}
	return s.Store.SaveProject(info)
}

func TestRegistry_LostSnapshotNeverPaysTwice(t *testing.T) {
	s, err := store.OpenMemory(16)
	require.NoError(t, err)
	defer s.Close()

	c := &clock{now: start}
	vault := settlement.NewVault(s)
	flaky := &flakyStore{Store: s}
	r, err := New(Config{Transferer: vault, Store: flaky, Now: c.Now})
	require.NoError(t, err)

	creator, alice, bob := newAddr(t), newAddr(t), newAddr(t)
	kiln, err := r.CreateProject(creator, "kiln", "solar kiln", 7, big.NewInt(100))
	require.NoError(t, err)
	loom, err := r.CreateProject(newAddr(t), "loom", "community loom", 7, big.NewInt(1000))
	require.NoError(t, err)

	// bob's pledge to another project sits in the same custody pool
	require.NoError(t, vault.Deposit(bob, big.NewInt(500)))
	require.NoError(t, vault.Charge(bob, big.NewInt(500)))
	require.NoError(t, loom.Contribute(bob, big.NewInt(500)))

	vault.SetFailer(func(types.Address, *big.Int) bool { return true })
	require.NoError(t, vault.Deposit(alice, big.NewInt(110)))
	require.NoError(t, vault.Charge(alice, big.NewInt(110)))
	require.NoError(t, kiln.Contribute(alice, big.NewInt(110)))
	require.Equal(t, fund.Successful, kiln.State())
	assert.Equal(t, "110", kiln.Balance().String())

	// the retry cannot record the zeroed balance so nothing is sent
	vault.SetFailer(nil)
	flaky.failing = true
	_, err = kiln.Payout()
	require.Error(t, err)
	paid, err := vault.BalanceOf(creator)
	require.NoError(t, err)
	assert.Equal(t, 0, paid.Sign())

	flaky.failing = false
	reloaded, err := New(Config{Transferer: vault, Store: flaky, Now: c.Now})
	require.NoError(t, err)
	require.NoError(t, reloaded.Load())
	rk, err := reloaded.Project(kiln.Address())
	require.NoError(t, err)
	result, err := rk.Payout()
	require.NoError(t, err)
	assert.True(t, result.Succeeded())
	_, err = rk.Payout()
	assert.Equal(t, fund.ErrNothingToPay, err)

	paid, err = vault.BalanceOf(creator)
	require.NoError(t, err)
	assert.Equal(t, "110", paid.String())
	custody, err := vault.Custody()
	require.NoError(t, err)
	assert.Equal(t, "500", custody.String())
}
