// Package jobs runs periodic maintenance outside request handling: expired
// session cleanup, view log pruning and read notification pruning.
package jobs

import (
	"Recipe-Platform/internal/metrics"
	"Recipe-Platform/internal/utils/logging"
	"context"
	"time"

	"github.com/robfig/cron/v3"
)

const (
	SessionCleanupSpec = "@every 15m"
	DailyCleanupSpec   = "0 3 * * *"

	ViewRetention         = 90 * 24 * time.Hour
	NotificationRetention = 30 * 24 * time.Hour

	jobTimeout = 5 * time.Minute
)

type (
	SessionPurger interface {
		PurgeExpiredSessions(ctx context.Context) (int64, error)
	}

	ViewPurger interface {
		PurgeOldViews(ctx context.Context, olderThan time.Duration) (int64, error)
	}

	NotificationPurger interface {
		PurgeRead(ctx context.Context, olderThan time.Duration) (int64, error)
	}

	Config struct {
		Sessions      SessionPurger
		Views         ViewPurger
		Notifications NotificationPurger
	}

	Scheduler struct {
		cron *cron.Cron
		cfg  Config
	}
)

func NewScheduler(cfg Config) (*Scheduler, error) {
	s := &Scheduler{
		cron: cron.New(cron.WithLocation(time.UTC), cron.WithChain(cron.Recover(cronLogger{}))),
		cfg:  cfg,
	}

	if _, err := s.cron.AddFunc(SessionCleanupSpec, s.purgeSessions); err != nil {
		return nil, err
	}
	if _, err := s.cron.AddFunc(DailyCleanupSpec, s.purgeViews); err != nil {
		return nil, err
	}
	if _, err := s.cron.AddFunc(DailyCleanupSpec, s.purgeNotifications); err != nil {
		return nil, err
	}
	return s, nil
}

func (s *Scheduler) Start() {
	s.cron.Start()
	logging.Info().Int("jobs", len(s.cron.Entries())).Msg("maintenance scheduler started")
}

// Stop prevents new runs and waits for running jobs until ctx is done.
func (s *Scheduler) Stop(ctx context.Context) {
	done := s.cron.Stop()
	select {
	case <-done.Done():
		logging.Info().Msg("maintenance scheduler stopped")
	case <-ctx.Done():
		logging.Warn().Msg("maintenance scheduler stop timed out")
	}
}

func (s *Scheduler) purgeSessions() {
	run("purge_sessions", func(ctx context.Context) (int64, error) {
		return s.cfg.Sessions.PurgeExpiredSessions(ctx)
	})
}

func (s *Scheduler) purgeViews() {
	run("purge_views", func(ctx context.Context) (int64, error) {
		return s.cfg.Views.PurgeOldViews(ctx, ViewRetention)
	})
}

func (s *Scheduler) purgeNotifications() {
	run("purge_notifications", func(ctx context.Context) (int64, error) {
		return s.cfg.Notifications.PurgeRead(ctx, NotificationRetention)
	})
}

func run(name string, job func(ctx context.Context) (int64, error)) {
	ctx, cancel := context.WithTimeout(context.Background(), jobTimeout)
	defer cancel()

	start := time.Now()
	removed, err := job(ctx)
	elapsed := time.Since(start)
	metrics.RecordJob(name, err == nil, elapsed)

	if err != nil {
		logging.Error().Err(err).Str("job", name).Dur("elapsed", elapsed).Msg("maintenance job failed")
		return
	}
	logging.Info().Str("job", name).Int64("removed", removed).Dur("elapsed", elapsed).Msg("maintenance job finished")
}

// cronLogger adapts the global zerolog logger to cron.Logger.
type cronLogger struct{}

func (cronLogger) Info(msg string, keysAndValues ...interface{}) {
	logging.Debug().Fields(keysAndValues).Msg(msg)
}

func (cronLogger) Error(err error, msg string, keysAndValues ...interface{}) {
	logging.Error().Err(err).Fields(keysAndValues).Msg(msg)
}
