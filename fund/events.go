package fund

import (
	"math/big"
	"time"

	"github.com/vitelabs/go-crowdfund/common/types"
)

type EventKind string

const (
	ProjectCreatedEvent      EventKind = "project.created"
	FundingReceivedEvent     EventKind = "project.funding"
	CreatorPaidEvent         EventKind = "project.payout"
	ContributorRefundedEvent EventKind = "project.refund"
	StateChangedEvent        EventKind = "project.state"
)

// Event is a notification about a project. Events are published after the
// operation that produced them has released the project lock.
type Event interface {
	Kind() EventKind
	Project() types.Address
}

// ProjectCreated is emitted once per successful registry creation.
type ProjectCreated struct {
	ContractAddress types.Address
	ProjectStarter  types.Address
	ProjectTitle    string
	ProjectDesc     string
	Deadline        time.Time
	GoalAmount      *big.Int
}

func (e *ProjectCreated) Kind() EventKind        { return ProjectCreatedEvent }
func (e *ProjectCreated) Project() types.Address { return e.ContractAddress }

// FundingReceived carries the balance right after the contribution was added,
// before evaluation could pay it out.
type FundingReceived struct {
	ProjectAddress types.Address
	Contributor    types.Address
	Amount         *big.Int
	CurrentTotal   *big.Int
}

func (e *FundingReceived) Kind() EventKind        { return FundingReceivedEvent }
func (e *FundingReceived) Project() types.Address { return e.ProjectAddress }

// CreatorPaid is emitted once per successful payout transfer.
type CreatorPaid struct {
	ProjectAddress types.Address
	Recipient      types.Address
	Amount         *big.Int
}

func (e *CreatorPaid) Kind() EventKind        { return CreatorPaidEvent }
func (e *CreatorPaid) Project() types.Address { return e.ProjectAddress }

// ContributorRefunded is emitted once per successful refund transfer.
type ContributorRefunded struct {
	ProjectAddress types.Address
	Contributor    types.Address
	Amount         *big.Int
}

func (e *ContributorRefunded) Kind() EventKind        { return ContributorRefundedEvent }
func (e *ContributorRefunded) Project() types.Address { return e.ProjectAddress }

type StateChanged struct {
	ProjectAddress types.Address
	From           State
	To             State
	At             time.Time
}

func (e *StateChanged) Kind() EventKind        { return StateChangedEvent }
func (e *StateChanged) Project() types.Address { return e.ProjectAddress }
