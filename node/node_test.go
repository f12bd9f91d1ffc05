package node

import (
	"math/big"
	"syscall"
	"testing"

	"github.com/pkg/errors"
	"github.com/powerman/rpc-codec/jsonrpc2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vitelabs/go-crowdfund/common/types"
	"github.com/vitelabs/go-crowdfund/config"
	"github.com/vitelabs/go-crowdfund/fund"
	"github.com/vitelabs/go-crowdfund/rpcapi/api"
)

func testConfig(t *testing.T) *config.Config {
	cfg := config.Default()
	cfg.DataDir = t.TempDir()
	cfg.LogDir = ""
	cfg.CacheSize = 16
	cfg.SweepSpec = "@every 1h"
	cfg.RPC.ListenAddr = "127.0.0.1:0"
	return cfg
}

func newAddr(t *testing.T) types.Address {
	addr, _, err := types.CreateAddress()
	require.NoError(t, err)
	return addr
}

func TestNode_ServeAndReopen(t *testing.T) {
	cfg := testConfig(t)
	n, err := New(cfg)
	require.NoError(t, err)
	require.NoError(t, n.Start())
	assert.Equal(t, ErrNodeRunning, n.Start())

	endpoint := n.HTTPEndpoint()
	require.NotEmpty(t, endpoint)
	client := jsonrpc2.NewHTTPClient("http://" + endpoint)
	defer client.Close()

	creator, alice := newAddr(t), newAddr(t)
	var info api.ProjectInfo
	require.NoError(t, client.Call("fund.CreateProject", api.CreateProjectArgs{
		Creator:      creator,
		Title:        "bridge",
		DurationDays: 3,
		GoalAmount:   "80",
	}, &info))
	var balance string
	require.NoError(t, client.Call("fund.Deposit", api.AccountArgs{Address: alice, Amount: "100"}, &balance))
	require.NoError(t, client.Call("fund.Contribute", api.ContributeArgs{
		Project:     info.Address,
		Contributor: alice,
		Amount:      "80",
	}, &info))
	assert.Equal(t, fund.Successful, info.State)

	// a second node cannot take the same data dir
	other, err := New(cfg)
	require.NoError(t, err)
	assert.Equal(t, ErrDataDirUsed, other.Open())

	require.NoError(t, n.Stop())
	n.Wait()
	assert.Empty(t, n.HTTPEndpoint())
	assert.Equal(t, ErrNodeStopped, n.Stop())

	reopened, err := New(cfg)
	require.NoError(t, err)
	require.NoError(t, reopened.Open())
	defer reopened.Stop()

	assert.Equal(t, []types.Address{info.Address}, reopened.Registry().ListProjects())
	p, err := reopened.Registry().Project(info.Address)
	require.NoError(t, err)
	assert.Equal(t, fund.Successful, p.State())
	assert.Equal(t, 0, p.Balance().Sign())

	paid, err := reopened.Vault().BalanceOf(creator)
	require.NoError(t, err)
	assert.Equal(t, 0, paid.Cmp(big.NewInt(80)))
	left, err := reopened.Vault().BalanceOf(alice)
	require.NoError(t, err)
	assert.Equal(t, "20", left.String())
}

func TestNode_OpenOnlyHasNoServices(t *testing.T) {
	cfg := testConfig(t)
	n, err := New(cfg)
	require.NoError(t, err)
	require.NoError(t, n.Open())
	assert.Empty(t, n.HTTPEndpoint())
	assert.Nil(t, n.Sweeper())
	require.NoError(t, n.Stop())
}

func TestNode_InvalidConfig(t *testing.T) {
	cfg := testConfig(t)
	cfg.CacheSize = 0
	_, err := New(cfg)
	assert.Equal(t, config.ErrBadCacheSize, errors.Cause(err))
}

func TestConvertFileLockError(t *testing.T) {
	assert.Equal(t, ErrDataDirUsed, convertFileLockError(errors.Wrap(syscall.Errno(11), "open leveldb")))
	plain := errors.New("disk on fire")
	assert.Equal(t, plain, convertFileLockError(plain))
}
