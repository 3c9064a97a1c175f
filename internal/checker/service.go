// Package checker runs the reminder evaluation cycle: fetch every reminder,
// decide which are due, deliver, and record the new last-reminded stamp.
//
// Cycles never overlap: if one overruns the tick interval, the next tick is
// skipped. Within a cycle reminders are independent; one bad record or failed
// delivery never blocks the rest.
package checker

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
	"golang.org/x/time/rate"

	logx "farmbot/pkg/logx"
)

type Service struct {
	mu  sync.Mutex
	cfg Config
	log logx.Logger

	backend Backend
	msgr    Messenger

	loc     *time.Location
	limiter *rate.Limiter

	c         *cron.Cron
	runCtx    context.Context
	runCancel context.CancelFunc
	initWG    sync.WaitGroup

	// cycleMu enforces non-overlap across cron generations. SkipIfStillRunning
	// only serializes runs within one chain; Apply swaps the chain, so the
	// immediate run of a fresh cron could otherwise race a cycle still
	// finishing on the old one.
	cycleMu sync.Mutex

	// now is swapped in tests.
	now func() time.Time

	hmu     sync.Mutex
	history []CycleStats
}

func New(cfg Config, b Backend, m Messenger, log logx.Logger) (*Service, error) {
	if log.IsZero() {
		log = logx.Nop()
	}
	s := &Service{backend: b, msgr: m, log: log, now: time.Now}
	if err := s.applyLocked(cfg); err != nil {
		return nil, err
	}
	return s, nil
}

func (s *Service) applyLocked(cfg Config) error {
	if cfg.Interval <= 0 {
		cfg.Interval = 60 * time.Second
	}
	if cfg.Timezone == "" {
		cfg.Timezone = "Asia/Kathmandu"
	}
	if cfg.Concurrency <= 0 {
		cfg.Concurrency = 4
	}
	if cfg.CallTimeout <= 0 {
		cfg.CallTimeout = 10 * time.Second
	}
	if cfg.SendRatePerSec <= 0 {
		cfg.SendRatePerSec = 3
	}

	loc, err := time.LoadLocation(cfg.Timezone)
	if err != nil {
		return fmt.Errorf("checker timezone %q: %w", cfg.Timezone, err)
	}

	s.cfg = cfg
	s.loc = loc
	s.limiter = rate.NewLimiter(rate.Limit(cfg.SendRatePerSec), cfg.SendRatePerSec)
	return nil
}

// Apply updates the config at runtime. Interval or timezone changes restart
// the tick schedule; an in-flight cycle finishes on the old settings.
func (s *Service) Apply(cfg Config) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	old := s.cfg
	if err := s.applyLocked(cfg); err != nil {
		return err
	}
	if s.c != nil && (old.Interval != s.cfg.Interval || old.Timezone != s.cfg.Timezone) {
		c := s.c
		s.c = nil
		go func() { <-c.Stop().Done() }()
		s.startCronLocked()
		s.log.Info("checker rescheduled", logx.Duration("interval", s.cfg.Interval), logx.String("tz", s.cfg.Timezone))
	}
	return nil
}

func (s *Service) Start(ctx context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.c != nil {
		return
	}
	s.runCtx, s.runCancel = context.WithCancel(ctx)
	s.startCronLocked()
	s.log.Info("checker started",
		logx.Duration("interval", s.cfg.Interval),
		logx.String("tz", s.loc.String()),
		logx.Int("concurrency", s.cfg.Concurrency))
}

func (s *Service) startCronLocked() {
	runCtx := s.runCtx
	job := cron.NewChain(cron.SkipIfStillRunning(cronLog{s.log})).Then(cron.FuncJob(func() {
		s.runCycle(runCtx)
	}))

	c := cron.New(cron.WithLocation(s.loc))
	c.Schedule(cron.Every(s.cfg.Interval), job)
	c.Start()
	s.c = c

	// First evaluation should not wait a full interval. The chain still
	// serializes it against cron-triggered runs.
	s.initWG.Add(1)
	go func() {
		defer s.initWG.Done()
		job.Run()
	}()
}

// Stop halts ticking and waits (bounded by ctx) for the in-flight cycle.
// Started deliveries are allowed to land so a sent reminder is never left
// unrecorded by a cancel racing the persist step.
func (s *Service) Stop(ctx context.Context) {
	s.mu.Lock()
	c := s.c
	s.c = nil
	cancel := s.runCancel
	s.runCancel = nil
	s.mu.Unlock()

	if c == nil {
		return
	}

	done := make(chan struct{})
	go func() {
		s.initWG.Wait()
		<-c.Stop().Done()
		close(done)
	}()

	select {
	case <-done:
		s.log.Info("checker stopped")
	case <-ctx.Done():
		// Give up waiting; cut the cycle loose.
		if cancel != nil {
			cancel()
		}
		s.log.Warn("checker stop cancelled", logx.Err(ctx.Err()))
		return
	}
	if cancel != nil {
		cancel()
	}
}

// Snapshot returns a copy of the bounded cycle history, newest last.
func (s *Service) Snapshot() []CycleStats {
	s.hmu.Lock()
	defer s.hmu.Unlock()
	return append([]CycleStats(nil), s.history...)
}

func (s *Service) appendHistory(st CycleStats) {
	s.hmu.Lock()
	defer s.hmu.Unlock()
	s.history = append(s.history, st)
	if len(s.history) > historyMax {
		s.history = s.history[len(s.history)-historyMax:]
	}
}

// cronLog adapts logx to cron.Logger; cron only speaks up on skips and
// schedule errors, which we want visible but not loud.
type cronLog struct{ log logx.Logger }

func (c cronLog) Info(msg string, kv ...interface{}) {
	c.log.Debug("cron: "+msg, logx.Any("kv", kv))
}

func (c cronLog) Error(err error, msg string, kv ...interface{}) {
	c.log.Warn("cron: "+msg, logx.Err(err), logx.Any("kv", kv))
}
