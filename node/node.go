package node

import (
	"fmt"
	"net"
	"net/http"
	"os"
	"path/filepath"
	"sync"

	"github.com/inconshreveable/log15"

	"github.com/vitelabs/go-crowdfund/config"
	"github.com/vitelabs/go-crowdfund/fund"
	"github.com/vitelabs/go-crowdfund/registry"
	"github.com/vitelabs/go-crowdfund/rpc"
	"github.com/vitelabs/go-crowdfund/settlement"
	"github.com/vitelabs/go-crowdfund/store"
	"github.com/vitelabs/go-crowdfund/sweeper"
)

var (
	log = log15.New("module", "gfund/node")
)

// Node is a container that manages the ledger, the sweeper and the rpc endpoint
type Node struct {
	config *config.Config

	store    *store.Store
	vault    *settlement.Vault
	events   *fund.EventManager
	registry *registry.Registry
	sweeper  *sweeper.Sweeper

	eventLogId uint32

	// List of APIs currently provided by the node
	rpcAPIs      []rpc.API
	httpListener net.Listener
	httpServer   *http.Server

	opened  bool
	running bool

	// Channel to wait for termination notifications
	stop chan struct{}
	lock sync.RWMutex
}

func New(conf *config.Config) (*Node, error) {
	if err := conf.Validate(); err != nil {
		return nil, err
	}
	return &Node{
		config: conf,
		stop:   make(chan struct{}),
	}, nil
}

// Open makes the ledger usable without starting any service. The data dir
// stays locked until Stop.
func (node *Node) Open() error {
	node.lock.Lock()
	defer node.lock.Unlock()
	return node.open()
}

func (node *Node) open() error {
	if node.opened {
		return nil
	}

	if err := os.MkdirAll(node.config.DataDir, 0700); err != nil {
		return err
	}
	dbDir := filepath.Join(node.config.DataDir, "ledger")
	log.Info("Open ledger", "dir", dbDir)
	s, err := store.Open(dbDir, node.config.CacheSize)
	if err != nil {
		log.Error(fmt.Sprintf("Open ledger failed, dir:%v", dbDir), "err", err)
		return convertFileLockError(err)
	}

	events := fund.NewEventManager()
	vault := settlement.NewVault(s)
	reg, err := registry.New(registry.Config{
		Transferer: vault,
		Events:     events,
		Store:      s,
	})
	if err == nil {
		err = reg.Load()
	}
	if err != nil {
		s.Close()
		return err
	}

	node.store = s
	node.vault = vault
	node.events = events
	node.registry = reg
	node.eventLogId = events.Register("", logEvent)
	node.opened = true
	log.Info("Ledger opened", "projects", reg.Len())
	return nil
}

func (node *Node) Start() error {
	node.lock.Lock()
	defer node.lock.Unlock()

	if node.running {
		return ErrNodeRunning
	}
	if err := node.open(); err != nil {
		return err
	}
	node.stop = make(chan struct{})

	log.Info("Begin Start Sweeper... ", "spec", node.config.SweepSpec)
	sw, err := sweeper.New(node.registry, node.config.SweepSpec, nil)
	if err != nil {
		return err
	}
	if err := sw.Start(); err != nil {
		return err
	}
	node.sweeper = sw

	if node.config.RPC.Enabled {
		log.Info("Begin Start RPC... ")
		if err := node.startRPC(); err != nil {
			log.Error(fmt.Sprintf("Node startRPC error: %v", err))
			node.sweeper.Stop()
			node.sweeper = nil
			return err
		}
	}

	node.running = true
	return nil
}

// Stop shuts down every service and releases the data dir. It is also used
// to close a node that was only opened.
func (node *Node) Stop() error {
	node.lock.Lock()
	defer node.lock.Unlock()

	if !node.opened {
		return ErrNodeStopped
	}

	if node.running {
		// unblock node.Wait
		defer close(node.stop)
		node.running = false
	}

	node.stopRPC()

	if node.sweeper != nil {
		log.Info("Begin Stop Sweeper... ")
		if err := node.sweeper.Stop(); err != nil {
			log.Error(fmt.Sprintf("Node stopSweeper error: %v", err))
		}
		node.sweeper = nil
	}

	node.events.UnRegister(node.eventLogId)
	if err := node.store.Close(); err != nil {
		log.Error("Can't close ledger", "err", err)
	} else {
		log.Info("The ledger has been closed...")
	}
	node.opened = false
	return nil
}

// Wait blocks until a started node is stopped.
func (node *Node) Wait() {
	node.lock.RLock()
	if !node.running {
		node.lock.RUnlock()
		return
	}
	node.lock.RUnlock()
	<-node.stop
}

func (node *Node) Config() *config.Config {
	return node.config
}

func (node *Node) Registry() *registry.Registry {
	return node.registry
}

func (node *Node) Vault() *settlement.Vault {
	return node.vault
}

func (node *Node) Events() *fund.EventManager {
	return node.events
}

func (node *Node) Sweeper() *sweeper.Sweeper {
	return node.sweeper
}

func logEvent(e fund.Event) {
	switch ev := e.(type) {
	case *fund.ProjectCreated:
		log.Info("event", "kind", ev.Kind(), "project", ev.ContractAddress, "creator", ev.ProjectStarter, "title", ev.ProjectTitle, "goal", ev.GoalAmount, "deadline", ev.Deadline)
	case *fund.FundingReceived:
		log.Info("event", "kind", ev.Kind(), "project", ev.ProjectAddress, "contributor", ev.Contributor, "amount", ev.Amount, "total", ev.CurrentTotal)
	case *fund.CreatorPaid:
		log.Info("event", "kind", ev.Kind(), "project", ev.ProjectAddress, "recipient", ev.Recipient, "amount", ev.Amount)
	case *fund.ContributorRefunded:
		log.Info("event", "kind", ev.Kind(), "project", ev.ProjectAddress, "contributor", ev.Contributor, "amount", ev.Amount)
	case *fund.StateChanged:
		log.Info("event", "kind", ev.Kind(), "project", ev.ProjectAddress, "from", ev.From, "to", ev.To)
	default:
		log.Info("event", "kind", e.Kind(), "project", e.Project())
	}
}
