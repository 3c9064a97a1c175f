package checker

import (
	"context"
	"runtime/debug"
	"sync"
	"time"

	"golang.org/x/time/rate"

	"farmbot/internal/backend"
	"farmbot/internal/remind"
	logx "farmbot/pkg/logx"
)

// runCycle executes one fetch-all-and-evaluate pass. A fetch failure aborts
// the whole cycle; every other failure is isolated to its reminder.
func (s *Service) runCycle(ctx context.Context) {
	if ctx == nil || ctx.Err() != nil {
		return
	}
	if !s.cycleMu.TryLock() {
		s.log.Debug("previous cycle still running; tick skipped")
		return
	}
	defer s.cycleMu.Unlock()

	s.mu.Lock()
	cfg := s.cfg
	loc := s.loc
	lim := s.limiter
	s.mu.Unlock()

	now := s.now().In(loc)
	start := time.Now()
	stats := CycleStats{Started: now}

	fctx, cancel := context.WithTimeout(ctx, cfg.CallTimeout)
	list, err := s.backend.ListReminders(fctx)
	cancel()
	if err != nil {
		// Nothing was evaluated or mutated; the next tick is a fresh attempt.
		s.log.Error("reminder fetch failed; cycle aborted", logx.Err(err))
		stats.FetchError = err.Error()
		stats.Duration = time.Since(start)
		s.appendHistory(stats)
		return
	}
	stats.Total = len(list)

	var (
		statsMu sync.Mutex
		wg      sync.WaitGroup
	)
	sem := make(chan struct{}, cfg.Concurrency)
	for _, rec := range list {
		rec := rec
		wg.Add(1)
		sem <- struct{}{}
		go func() {
			defer wg.Done()
			defer func() { <-sem }()
			defer func() {
				if r := recover(); r != nil {
					s.log.Error("panic while processing reminder",
						logx.Int64("reminder_id", rec.ID),
						logx.Any("panic", r),
						logx.String("stack", string(debug.Stack())))
					statsMu.Lock()
					stats.Failed++
					statsMu.Unlock()
				}
			}()

			out := s.processOne(ctx, cfg, loc, lim, rec, now)

			statsMu.Lock()
			switch out {
			case outcomeSent:
				stats.Due++
				stats.Sent++
			case outcomeFailed:
				stats.Due++
				stats.Failed++
			case outcomeSkipped:
				stats.Skipped++
			}
			statsMu.Unlock()
		}()
	}
	wg.Wait()

	stats.Duration = time.Since(start)
	s.appendHistory(stats)

	log := s.log.Debug
	if stats.Due > 0 || stats.Failed > 0 || stats.Skipped > 0 {
		log = s.log.Info
	}
	log("cycle finished",
		logx.Int("total", stats.Total),
		logx.Int("due", stats.Due),
		logx.Int("sent", stats.Sent),
		logx.Int("skipped", stats.Skipped),
		logx.Int("failed", stats.Failed),
		logx.Duration("dur", stats.Duration))
}

// processOne handles a single reminder end to end. It only ever mutates the
// backend record after a confirmed delivery; any failure leaves the record
// untouched so the reminder stays due for the next cycle.
func (s *Service) processOne(ctx context.Context, cfg Config, loc *time.Location, lim *rate.Limiter, rec backend.Reminder, now time.Time) outcome {
	log := s.log.With(logx.Int64("reminder_id", rec.ID), logx.String("handle", rec.Username))

	tod, err := remind.ParseTimeOfDay(rec.ReminderTime)
	if err != nil {
		log.Warn("unparseable reminder time", logx.String("raw", rec.ReminderTime), logx.Err(err))
		return outcomeSkipped
	}
	last, err := remind.ParseStamp(rec.LastReminded, loc)
	if err != nil {
		log.Warn("unparseable last-reminded stamp", logx.String("raw", rec.LastReminded), logx.Err(err))
		return outcomeSkipped
	}
	freq := remind.Frequency(rec.Frequency)
	if !freq.Known() {
		log.Warn("unknown frequency; reminder will never fire", logx.String("frequency", rec.Frequency))
		return outcomeSkipped
	}

	if !remind.IsDue(tod, freq, last, now) {
		return outcomeNotDue
	}

	rctx, cancel := context.WithTimeout(ctx, cfg.CallTimeout)
	to, err := s.msgr.ResolveRecipient(rctx, rec.Username)
	cancel()
	if err != nil {
		log.Warn("recipient resolution failed; will retry next cycle", logx.Err(err))
		return outcomeFailed
	}

	pctx, cancel := context.WithTimeout(ctx, cfg.CallTimeout)
	project, err := s.backend.GetProject(pctx, rec.Project)
	cancel()
	if err != nil {
		log.Warn("project fetch failed; will retry next cycle", logx.Int64("project_id", rec.Project), logx.Err(err))
		return outcomeFailed
	}

	payload := remind.BuildPayload(project)

	if err := lim.Wait(ctx); err != nil {
		return outcomeFailed
	}
	dctx, cancel := context.WithTimeout(ctx, cfg.CallTimeout)
	_, err = s.msgr.SendPayload(dctx, to, payload)
	cancel()
	if err != nil {
		log.Warn("delivery failed; will retry next cycle", logx.Err(err))
		return outcomeFailed
	}

	// Delivery confirmed; only now may last-reminded move forward. The stamp
	// is written in the operating location, symmetric with ParseStamp above.
	rec.LastReminded = remind.FormatStamp(now, loc)
	uctx, cancel := context.WithTimeout(ctx, cfg.CallTimeout)
	err = s.backend.UpdateReminder(uctx, rec)
	cancel()
	if err != nil {
		// The message went out but the stamp didn't stick, so the next cycle
		// may deliver a duplicate. That beats silently losing reminders; do
		// not re-send here.
		log.Error("last-reminded write failed after delivery; duplicate possible", logx.Err(err))
		return outcomeSent
	}

	log.Info("reminder delivered", logx.String("project", project.Name))
	return outcomeSent
}
