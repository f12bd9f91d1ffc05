// Package sweeper settles projects nobody is calling anymore. It closes
// fundraising projects whose deadline has passed and retries payouts that an
// earlier transfer failure left behind.
package sweeper

import (
	"time"

	"github.com/inconshreveable/log15"
	"github.com/pkg/errors"
	"github.com/robfig/cron"
	"go.uber.org/atomic"

	"github.com/vitelabs/go-crowdfund/common"
	"github.com/vitelabs/go-crowdfund/fund"
)

type ProjectSource interface {
	Projects() []*fund.Project
}

type Sweeper struct {
	common.LifecycleStatus

	src  ProjectSource
	spec string
	now  func() time.Time
	cron *cron.Cron

	rounds   *atomic.Uint64
	closed   *atomic.Uint64
	paid     *atomic.Uint64
	sweeping *atomic.Bool

	log log15.Logger
}

// New returns a sweeper running on the cron spec, e.g. "@every 1m".
func New(src ProjectSource, spec string, now func() time.Time) (*Sweeper, error) {
	if _, err := cron.Parse(spec); err != nil {
		return nil, errors.Wrapf(err, "bad sweep spec %q", spec)
	}
	if now == nil {
		now = time.Now
	}
	return &Sweeper{
		src:      src,
		spec:     spec,
		now:      now,
		rounds:   atomic.NewUint64(0),
		closed:   atomic.NewUint64(0),
		paid:     atomic.NewUint64(0),
		sweeping: atomic.NewBool(false),
		log:      log15.New("module", "sweeper"),
	}, nil
}

// Start schedules the sweep. A schedule that cannot be built leaves the
// sweeper unstarted so Start may be called again.
func (s *Sweeper) Start() error {
	c := cron.New()
	if err := c.AddFunc(s.spec, s.tick); err != nil {
		return errors.Wrap(err, "schedule sweep")
	}
	if !s.PreStart() {
		return errors.New("pre start fail.")
	}
	defer s.PostStart()

	c.Start()
	s.cron = c
	s.log.Info("started", "spec", s.spec)
	return nil
}

func (s *Sweeper) Stop() error {
	if !s.PreStop() {
		return errors.New("pre stop fail.")
	}
	defer s.PostStop()

	if s.cron != nil {
		s.cron.Stop()
	}
	s.log.Info("stopped", "rounds", s.rounds.Load(), "closed", s.closed.Load(), "paid", s.paid.Load())
	return nil
}

// tick skips a round while the previous one is still running.
func (s *Sweeper) tick() {
	if !s.sweeping.CAS(false, true) {
		return
	}
	defer s.sweeping.Store(false)

	if err := common.Recover(func() { s.Sweep() }); err != nil {
		s.log.Error("sweep panicked", "err", err)
	}
}

// Sweep makes one pass over every project and returns how many it settled.
func (s *Sweeper) Sweep() int {
	now := s.now()
	settled := 0
	for _, p := range s.src.Projects() {
		switch p.State() {
		case fund.Fundraising:
			if !now.After(p.Deadline()) {
				continue
			}
			if p.Evaluate() != fund.Fundraising {
				s.closed.Inc()
				settled++
			}
		case fund.Successful:
			if p.Balance().Sign() == 0 {
				continue
			}
			result, err := p.Payout()
			if err != nil {
				s.log.Debug("payout retry skipped", "project", p.Address(), "err", err)
				continue
			}
			if result.Succeeded() {
				s.paid.Inc()
				settled++
			} else {
				s.log.Warn("payout retry failed", "project", p.Address())
			}
		}
	}
	s.rounds.Inc()
	if settled > 0 {
		s.log.Info("sweep done", "settled", settled)
	}
	return settled
}

// Stats returns the number of rounds run, projects closed and payouts sent.
func (s *Sweeper) Stats() (rounds, closed, paid uint64) {
	return s.rounds.Load(), s.closed.Load(), s.paid.Load()
}
