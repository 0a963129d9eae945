package scheduler

import (
	"context"
	"time"

	drepo "TokenRadar/internal/domain/repository"
	"TokenRadar/internal/service/telegram"
	"TokenRadar/internal/usecase"
	xlogger "TokenRadar/pkg/logger"

	"github.com/robfig/cron/v3"
)

// runTimeout bounds one scheduled scan including the Telegram push.
const runTimeout = 2 * time.Minute

// Scheduler runs the scan pipeline on a cron schedule and pushes non-empty
// batches to the configured chat.
type Scheduler struct {
	cron    *cron.Cron
	spec    string
	runner  *usecase.ScanRunner
	tg      *telegram.Client
	history drepo.AlertHistory
	log     *xlogger.Logger
}

// New creates a scheduler. It does not start ticking until Start.
func New(spec string, runner *usecase.ScanRunner, tg *telegram.Client, history drepo.AlertHistory, log *xlogger.Logger) *Scheduler {
	return &Scheduler{
		cron:    cron.New(),
		spec:    spec,
		runner:  runner,
		tg:      tg,
		history: history,
		log:     log,
	}
}

// Start registers the scan job and starts the cron loop.
func (s *Scheduler) Start() error {
	if _, err := s.cron.AddFunc(s.spec, s.runOnce); err != nil {
		return err
	}
	s.cron.Start()
	s.log.Info("scheduler started", xlogger.String("schedule", s.spec))
	return nil
}

// Stop halts scheduling and waits for an in-flight job to finish.
func (s *Scheduler) Stop() {
	ctx := s.cron.Stop()
	select {
	case <-ctx.Done():
	case <-time.After(runTimeout):
		s.log.Warn("scheduler stop timed out waiting for running job")
	}
}

// runOnce is one scheduled tick. An empty batch is silence, not an alert.
func (s *Scheduler) runOnce() {
	ctx, cancel := context.WithTimeout(context.Background(), runTimeout)
	defer cancel()

	batch, err := s.runner.Run(ctx)
	if err != nil {
		s.log.Error("scheduled scan failed", xlogger.Error(err))
		return
	}
	if batch.Empty() {
		s.log.Debug("scheduled scan found no qualifying tokens")
		return
	}

	text := telegram.Truncate(telegram.RenderBatch(batch))
	if err := s.tg.SendMessage(ctx, s.tg.ChatID(), text, nil); err != nil {
		s.log.Error("alert push failed", xlogger.Error(err))
		return
	}

	if err := s.history.StoreBatch(ctx, batch); err != nil {
		s.log.Warn("alert history write failed", xlogger.Error(err))
	}

	s.log.Info("alerts pushed", xlogger.Int("tokens", batch.Size()))
}
