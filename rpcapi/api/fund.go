package api

import (
	"time"

	"github.com/inconshreveable/log15"

	"github.com/vitelabs/go-crowdfund/common/types"
	"github.com/vitelabs/go-crowdfund/fund"
	"github.com/vitelabs/go-crowdfund/registry"
	"github.com/vitelabs/go-crowdfund/settlement"
)

// Backend is what the fund api needs from a running node.
type Backend interface {
	Registry() *registry.Registry
	Vault() *settlement.Vault
}

type Empty struct{}

type CreateProjectArgs struct {
	Creator      types.Address `json:"creator"`
	Title        string        `json:"title"`
	Description  string        `json:"description"`
	DurationDays uint64        `json:"durationDays"`
	GoalAmount   string        `json:"goalAmount"`
}

type ProjectArgs struct {
	Project types.Address `json:"project"`
}

type ContributeArgs struct {
	Project     types.Address `json:"project"`
	Contributor types.Address `json:"contributor"`
	Amount      string        `json:"amount"`
}

type RefundArgs struct {
	Project     types.Address `json:"project"`
	Contributor types.Address `json:"contributor"`
}

type AccountArgs struct {
	Address types.Address `json:"address"`
	Amount  string        `json:"amount,omitempty"`
}

type ProjectInfo struct {
	Address       types.Address            `json:"address"`
	Creator       types.Address            `json:"creator"`
	Title         string                   `json:"title"`
	Description   string                   `json:"description"`
	GoalAmount    string                   `json:"goalAmount"`
	Deadline      time.Time                `json:"deadline"`
	Balance       string                   `json:"balance"`
	CompletedAt   *time.Time               `json:"completedAt,omitempty"`
	State         fund.State               `json:"state"`
	Contributions map[types.Address]string `json:"contributions"`
}

type TransferReply struct {
	Result  string       `json:"result"`
	Project *ProjectInfo `json:"project"`
}

func toRpcProjectInfo(info *fund.ProjectInfo) *ProjectInfo {
	r := &ProjectInfo{
		Address:       info.Address,
		Creator:       info.Creator,
		Title:         info.Title,
		Description:   info.Description,
		GoalAmount:    bigIntToString(info.GoalAmount),
		Deadline:      info.Deadline,
		Balance:       bigIntToString(info.Balance),
		State:         info.State,
		Contributions: make(map[types.Address]string, len(info.Contributions)),
	}
	if !info.CompletedAt.IsZero() {
		t := info.CompletedAt
		r.CompletedAt = &t
	}
	for addr, amount := range info.Contributions {
		r.Contributions[addr] = bigIntToString(amount)
	}
	return r
}

// FundApi exposes the registry and the vault under the "fund" namespace.
// Methods follow the net/rpc calling convention.
type FundApi struct {
	reg   *registry.Registry
	vault *settlement.Vault
	log   log15.Logger
}

func NewFundApi(b Backend) *FundApi {
	return &FundApi{
		reg:   b.Registry(),
		vault: b.Vault(),
		log:   log15.New("module", "rpc_api/fund_api"),
	}
}

func (f FundApi) String() string {
	return "FundApi"
}

func (f *FundApi) CreateProject(args CreateProjectArgs, reply *ProjectInfo) error {
	goal, err := stringToBigInt(args.GoalAmount)
	if err != nil {
		return rpcError(err)
	}
	p, err := f.reg.CreateProject(args.Creator, args.Title, args.Description, args.DurationDays, goal)
	if err != nil {
		return rpcError(err)
	}
	*reply = *toRpcProjectInfo(p.Info())
	return nil
}

func (f *FundApi) ListProjects(args Empty, reply *[]types.Address) error {
	*reply = f.reg.ListProjects()
	return nil
}

func (f *FundApi) GetProjectInfo(args ProjectArgs, reply *ProjectInfo) error {
	p, err := f.reg.Project(args.Project)
	if err != nil {
		return rpcError(err)
	}
	*reply = *toRpcProjectInfo(p.Info())
	return nil
}

// Contribute charges the contributor's account and pledges the amount. The
// charge is reversed when the project rejects the contribution.
func (f *FundApi) Contribute(args ContributeArgs, reply *ProjectInfo) error {
	amount, err := stringToBigInt(args.Amount)
	if err != nil {
		return rpcError(err)
	}
	if amount.Sign() < 0 {
		return rpcError(fund.ErrInvalidAmount)
	}
	p, err := f.reg.Project(args.Project)
	if err != nil {
		return rpcError(err)
	}
	if err := f.vault.Charge(args.Contributor, amount); err != nil {
		return rpcError(err)
	}
	if err := p.Contribute(args.Contributor, amount); err != nil {
		if rerr := f.vault.Reverse(args.Contributor, amount); rerr != nil {
			f.log.Error("reverse rejected contribution failed", "project", args.Project, "contributor", args.Contributor, "amount", amount, "err", rerr)
		}
		return rpcError(err)
	}
	*reply = *toRpcProjectInfo(p.Info())
	return nil
}

func (f *FundApi) Evaluate(args ProjectArgs, reply *fund.State) error {
	p, err := f.reg.Project(args.Project)
	if err != nil {
		return rpcError(err)
	}
	*reply = p.Evaluate()
	return nil
}

func (f *FundApi) Payout(args ProjectArgs, reply *TransferReply) error {
	p, err := f.reg.Project(args.Project)
	if err != nil {
		return rpcError(err)
	}
	result, err := p.Payout()
	if err != nil {
		return rpcError(err)
	}
	*reply = TransferReply{Result: result.String(), Project: toRpcProjectInfo(p.Info())}
	return nil
}

func (f *FundApi) Refund(args RefundArgs, reply *TransferReply) error {
	p, err := f.reg.Project(args.Project)
	if err != nil {
		return rpcError(err)
	}
	result, err := p.Refund(args.Contributor)
	if err != nil {
		return rpcError(err)
	}
	*reply = TransferReply{Result: result.String(), Project: toRpcProjectInfo(p.Info())}
	return nil
}

// Deposit credits test funds to an account and returns the new balance.
func (f *FundApi) Deposit(args AccountArgs, reply *string) error {
	amount, err := stringToBigInt(args.Amount)
	if err != nil {
		return rpcError(err)
	}
	if err := f.vault.Deposit(args.Address, amount); err != nil {
		return rpcError(err)
	}
	return f.GetBalance(AccountArgs{Address: args.Address}, reply)
}

func (f *FundApi) GetBalance(args AccountArgs, reply *string) error {
	balance, err := f.vault.BalanceOf(args.Address)
	if err != nil {
		return rpcError(err)
	}
	*reply = bigIntToString(balance)
	return nil
}

// GetCustody returns the total value held for all projects.
func (f *FundApi) GetCustody(args Empty, reply *string) error {
	custody, err := f.vault.Custody()
	if err != nil {
		return rpcError(err)
	}
	*reply = bigIntToString(custody)
	return nil
}
