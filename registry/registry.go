package registry

import (
	"math"
	"math/big"
	"sync"
	"time"

	mapset "github.com/deckarep/golang-set"
	"github.com/inconshreveable/log15"
	"github.com/pkg/errors"

	"github.com/vitelabs/go-crowdfund/common/helper"
	"github.com/vitelabs/go-crowdfund/common/types"
	"github.com/vitelabs/go-crowdfund/fund"
)

const (
	secondsPerDay      = uint64(24 * 60 * 60)
	maxDurationSeconds = uint64(math.MaxInt64 / int64(time.Second))
)

// Store is the persistence the registry needs. Projects write their own
// snapshots through the embedded journal.
type Store interface {
	fund.Journal
	GetProject(addr types.Address) (*fund.ProjectInfo, error)
	AppendProject(index uint64, addr types.Address) error
	ProjectAddresses() ([]types.Address, error)
}

type Config struct {
	Transferer fund.Transferer
	Events     *fund.EventManager
	// Store may be nil, the registry then lives in memory only.
	Store Store
	Now   func() time.Time
}

// Registry is the append-only catalog of projects. It creates projects and
// hands them out; it never touches their accounting.
type Registry struct {
	mu       sync.RWMutex
	projects []types.Address
	byAddr   map[types.Address]*fund.Project
	known    mapset.Set

	cfg Config
	log log15.Logger
}

func New(cfg Config) (*Registry, error) {
	if cfg.Transferer == nil {
		return nil, fund.ErrNilTransferer
	}
	if cfg.Now == nil {
		cfg.Now = time.Now
	}
	return &Registry{
		byAddr: make(map[types.Address]*fund.Project),
		known:  mapset.NewSet(),
		cfg:    cfg,
		log:    log15.New("module", "registry"),
	}, nil
}

func (r *Registry) projectOptions() fund.Options {
	opts := fund.Options{
		Transferer: r.cfg.Transferer,
		Events:     r.cfg.Events,
		Now:        r.cfg.Now,
	}
	if r.cfg.Store != nil {
		opts.Journal = r.cfg.Store
	}
	return opts
}

// CreateProject opens a project that accepts contributions for durationDays
// days. Zero duration and zero goal are accepted.
func (r *Registry) CreateProject(creator types.Address, title, description string, durationDays uint64, goalAmount *big.Int) (*fund.Project, error) {
	seconds, overflow := helper.SafeMul(durationDays, secondsPerDay)
	if overflow || seconds > maxDurationSeconds {
		return nil, ErrDurationOverflow
	}

	r.mu.Lock()
	index := uint64(len(r.projects))
	addr := types.CreateProjectAddress(creator, index)
	if r.known.Contains(addr) {
		r.mu.Unlock()
		return nil, ErrDuplicateProject
	}

	deadline := r.cfg.Now().Add(time.Duration(seconds) * time.Second)
	project, err := fund.NewProject(fund.Params{
		Address:     addr,
		Creator:     creator,
		Title:       title,
		Description: description,
		GoalAmount:  goalAmount,
		Deadline:    deadline,
	}, r.projectOptions())
	if err != nil {
		r.mu.Unlock()
		return nil, err
	}

	if s := r.cfg.Store; s != nil {
		if err := s.SaveProject(project.Info()); err != nil {
			r.mu.Unlock()
			return nil, errors.Wrap(err, "save new project")
		}
		if err := s.AppendProject(index, addr); err != nil {
			r.mu.Unlock()
			return nil, errors.Wrap(err, "append project")
		}
	}

	r.projects = append(r.projects, addr)
	r.byAddr[addr] = project
	r.known.Add(addr)
	r.mu.Unlock()

	r.log.Info("project created", "project", addr, "creator", creator, "goal", goalAmount, "deadline", deadline)
	r.cfg.Events.Publish(&fund.ProjectCreated{
		ContractAddress: addr,
		ProjectStarter:  creator,
		ProjectTitle:    title,
		ProjectDesc:     description,
		Deadline:        deadline,
		GoalAmount:      new(big.Int).Set(goalAmount),
	})
	return project, nil
}

// ListProjects returns every project identity in creation order.
func (r *Registry) ListProjects() []types.Address {
	r.mu.RLock()
	defer r.mu.RUnlock()
	addrs := make([]types.Address, len(r.projects))
	copy(addrs, r.projects)
	return addrs
}

func (r *Registry) Project(addr types.Address) (*fund.Project, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	p, ok := r.byAddr[addr]
	if !ok {
		return nil, errors.Wrapf(ErrProjectNotFound, "%s", addr)
	}
	return p, nil
}

// Projects returns the project handles in creation order.
func (r *Registry) Projects() []*fund.Project {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]*fund.Project, 0, len(r.projects))
	for _, addr := range r.projects {
		out = append(out, r.byAddr[addr])
	}
	return out
}

func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.projects)
}

// Load restores every stored project. It must run before the first
// CreateProject.
func (r *Registry) Load() error {
	s := r.cfg.Store
	if s == nil {
		return nil
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.projects) > 0 {
		return ErrAlreadyLoaded
	}

	addrs, err := s.ProjectAddresses()
	if err != nil {
		return errors.Wrap(err, "load registry")
	}

	byAddr := make(map[types.Address]*fund.Project, len(addrs))
	known := mapset.NewSet()
	for _, addr := range addrs {
		if !known.Add(addr) {
			return errors.Wrapf(ErrRegistryCorrupted, "duplicate %s", addr)
		}
		info, err := s.GetProject(addr)
		if err != nil {
			return errors.Wrapf(err, "load project %s", addr)
		}
		if info.Address != addr {
			return errors.Wrapf(ErrRegistryCorrupted, "snapshot of %s carries %s", addr, info.Address)
		}
		project, err := fund.RestoreProject(info, r.projectOptions())
		if err != nil {
			return errors.Wrapf(err, "restore project %s", addr)
		}
		byAddr[addr] = project
	}

	r.projects = addrs
	r.byAddr = byAddr
	r.known = known
	r.log.Info("registry loaded", "projects", len(addrs))
	return nil
}
