package api

import (
	"math/big"
	"testing"
	"time"

	"github.com/pkg/errors"
	"github.com/powerman/rpc-codec/jsonrpc2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vitelabs/go-crowdfund/common/types"
	"github.com/vitelabs/go-crowdfund/fund"
	"github.com/vitelabs/go-crowdfund/registry"
	"github.com/vitelabs/go-crowdfund/settlement"
	"github.com/vitelabs/go-crowdfund/store"
)

type testBackend struct {
	reg   *registry.Registry
	vault *settlement.Vault
}

func (b *testBackend) Registry() *registry.Registry { return b.reg }
func (b *testBackend) Vault() *settlement.Vault     { return b.vault }

type clock struct{ now time.Time }

func (c *clock) Now() time.Time { return c.now }

func newApi(t *testing.T) (*FundApi, *testBackend, *clock) {
	c := &clock{now: time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC)}
	v := settlement.NewVault(nil)
	r, err := registry.New(registry.Config{Transferer: v, Now: c.Now})
	require.NoError(t, err)
	b := &testBackend{reg: r, vault: v}
	return NewFundApi(b), b, c
}

func newAddr(t *testing.T) types.Address {
	addr, _, err := types.CreateAddress()
	require.NoError(t, err)
	return addr
}

func errorCode(t *testing.T, err error) int {
	t.Helper()
	require.Error(t, err)
	rerr, ok := err.(*jsonrpc2.Error)
	require.True(t, ok, "not a json-rpc error: %v", err)
	return rerr.Code
}

func TestFundApi_SuccessfulCampaign(t *testing.T) {
	f, _, _ := newApi(t)
	creator, alice := newAddr(t), newAddr(t)

	var info ProjectInfo
	require.NoError(t, f.CreateProject(CreateProjectArgs{
		Creator:      creator,
		Title:        "well",
		Description:  "village well",
		DurationDays: 7,
		GoalAmount:   "100",
	}, &info))
	assert.Equal(t, fund.Fundraising, info.State)
	assert.Nil(t, info.CompletedAt)

	var list []types.Address
	require.NoError(t, f.ListProjects(Empty{}, &list))
	assert.Equal(t, []types.Address{info.Address}, list)

	var balance string
	require.NoError(t, f.Deposit(AccountArgs{Address: alice, Amount: "150"}, &balance))
	assert.Equal(t, "150", balance)

	var after ProjectInfo
	require.NoError(t, f.Contribute(ContributeArgs{Project: info.Address, Contributor: alice, Amount: "100"}, &after))
	assert.Equal(t, fund.Successful, after.State)
	assert.Equal(t, "0", after.Balance)
	assert.Equal(t, "100", after.Contributions[alice])
	assert.NotNil(t, after.CompletedAt)

	require.NoError(t, f.GetBalance(AccountArgs{Address: creator}, &balance))
	assert.Equal(t, "100", balance)
	require.NoError(t, f.GetBalance(AccountArgs{Address: alice}, &balance))
	assert.Equal(t, "50", balance)
	require.NoError(t, f.GetCustody(Empty{}, &balance))
	assert.Equal(t, "0", balance)

	var reply TransferReply
	assert.Equal(t, ErrNothingToPay.Code, errorCode(t, f.Payout(ProjectArgs{Project: info.Address}, &reply)))

	var state fund.State
	require.NoError(t, f.Evaluate(ProjectArgs{Project: info.Address}, &state))
	assert.Equal(t, fund.Successful, state)
}

func TestFundApi_RejectedContributionIsReversed(t *testing.T) {
	f, b, _ := newApi(t)
	creator := newAddr(t)

	var info ProjectInfo
	require.NoError(t, f.CreateProject(CreateProjectArgs{Creator: creator, DurationDays: 1, GoalAmount: "10"}, &info))

	var balance string
	require.NoError(t, f.Deposit(AccountArgs{Address: creator, Amount: "5"}, &balance))

	err := f.Contribute(ContributeArgs{Project: info.Address, Contributor: creator, Amount: "5"}, &ProjectInfo{})
	assert.Equal(t, ErrSelfContribution.Code, errorCode(t, err))

	require.NoError(t, f.GetBalance(AccountArgs{Address: creator}, &balance))
	assert.Equal(t, "5", balance)
	custody, err := b.vault.Custody()
	require.NoError(t, err)
	assert.Equal(t, 0, custody.Sign())
}

// readOnlyStore accepts the project index but refuses snapshots once sealed.
type readOnlyStore struct {
	*store.Store
	sealed bool
}

func (s *readOnlyStore) SaveProject(info *fund.ProjectInfo) error {
	if s.sealed {
		return errors.New("store is read-only")
	}
	return s.Store.SaveProject(info)
}

func TestFundApi_UnsavedContributionIsReversed(t *testing.T) {
	s, err := store.OpenMemory(16)
	require.NoError(t, err)
	defer s.Close()

	ro := &readOnlyStore{Store: s}
	v := settlement.NewVault(s)
	r, err := registry.New(registry.Config{Transferer: v, Store: ro})
	require.NoError(t, err)
	f := NewFundApi(&testBackend{reg: r, vault: v})
	alice := newAddr(t)

	var info ProjectInfo
	require.NoError(t, f.CreateProject(CreateProjectArgs{Creator: newAddr(t), DurationDays: 1, GoalAmount: "10"}, &info))
	var balance string
	require.NoError(t, f.Deposit(AccountArgs{Address: alice, Amount: "10"}, &balance))

	ro.sealed = true
	err = f.Contribute(ContributeArgs{Project: info.Address, Contributor: alice, Amount: "10"}, &ProjectInfo{})
	require.Error(t, err)

	require.NoError(t, f.GetBalance(AccountArgs{Address: alice}, &balance))
	assert.Equal(t, "10", balance)
	custody, err := v.Custody()
	require.NoError(t, err)
	assert.Equal(t, 0, custody.Sign())

	var after ProjectInfo
	require.NoError(t, f.GetProjectInfo(ProjectArgs{Project: info.Address}, &after))
	assert.Equal(t, "0", after.Balance)
	assert.Equal(t, fund.Fundraising, after.State)
}

func TestFundApi_ExpiredRefund(t *testing.T) {
	f, b, c := newApi(t)
	creator, alice := newAddr(t), newAddr(t)

	var info ProjectInfo
	require.NoError(t, f.CreateProject(CreateProjectArgs{Creator: creator, DurationDays: 1, GoalAmount: "100"}, &info))
	var balance string
	require.NoError(t, f.Deposit(AccountArgs{Address: alice, Amount: "30"}, &balance))
	require.NoError(t, f.Contribute(ContributeArgs{Project: info.Address, Contributor: alice, Amount: "30"}, &ProjectInfo{}))

	c.now = c.now.Add(48 * time.Hour)
	var state fund.State
	require.NoError(t, f.Evaluate(ProjectArgs{Project: info.Address}, &state))
	assert.Equal(t, fund.Expired, state)

	// a failing transfer reports failed and keeps the pledge
	b.vault.SetFailer(func(to types.Address, amount *big.Int) bool { return true })
	var reply TransferReply
	require.NoError(t, f.Refund(RefundArgs{Project: info.Address, Contributor: alice}, &reply))
	assert.Equal(t, "failed", reply.Result)
	assert.Equal(t, "30", reply.Project.Contributions[alice])

	b.vault.SetFailer(nil)
	require.NoError(t, f.Refund(RefundArgs{Project: info.Address, Contributor: alice}, &reply))
	assert.Equal(t, "succeeded", reply.Result)
	assert.Equal(t, "0", reply.Project.Balance)

	err := f.Refund(RefundArgs{Project: info.Address, Contributor: alice}, &reply)
	assert.Equal(t, ErrNoContribution.Code, errorCode(t, err))
	require.NoError(t, f.GetBalance(AccountArgs{Address: alice}, &balance))
	assert.Equal(t, "30", balance)

	err = f.Contribute(ContributeArgs{Project: info.Address, Contributor: newAddr(t), Amount: "1"}, &ProjectInfo{})
	assert.Equal(t, ErrBalanceNotEnough.Code, errorCode(t, err))

	err = f.Contribute(ContributeArgs{Project: info.Address, Contributor: alice, Amount: "1"}, &ProjectInfo{})
	assert.Equal(t, ErrInvalidState.Code, errorCode(t, err))
	require.NoError(t, f.GetBalance(AccountArgs{Address: alice}, &balance))
	assert.Equal(t, "30", balance)
}

func TestFundApi_BadArguments(t *testing.T) {
	f, _, _ := newApi(t)

	err := f.CreateProject(CreateProjectArgs{Creator: newAddr(t), GoalAmount: "ten"}, &ProjectInfo{})
	assert.Equal(t, ErrBadAmountString.Code, errorCode(t, err))

	err = f.GetProjectInfo(ProjectArgs{Project: newAddr(t)}, &ProjectInfo{})
	assert.Equal(t, ErrProjectNotFound.Code, errorCode(t, err))

	var balance string
	err = f.Deposit(AccountArgs{Address: newAddr(t), Amount: "0"}, &balance)
	assert.Equal(t, ErrNonPositiveAmount.Code, errorCode(t, err))

	var info ProjectInfo
	require.NoError(t, f.CreateProject(CreateProjectArgs{Creator: newAddr(t), DurationDays: 1, GoalAmount: "1"}, &info))
	err = f.Contribute(ContributeArgs{Project: info.Address, Contributor: newAddr(t), Amount: "-1"}, &ProjectInfo{})
	assert.Equal(t, ErrInvalidAmount.Code, errorCode(t, err))
}

func TestTryMakeConcernedError(t *testing.T) {
	newerr, concerned := TryMakeConcernedError(nil)
	assert.Nil(t, newerr)
	assert.False(t, concerned)

	plain := assert.AnError
	newerr, concerned = TryMakeConcernedError(plain)
	assert.Equal(t, plain, newerr)
	assert.False(t, concerned)

	_, concerned = TryMakeConcernedError(fund.ErrInvalidState)
	assert.True(t, concerned)
}
