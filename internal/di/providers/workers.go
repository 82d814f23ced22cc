package providers

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/samber/do/v2"

	"github.com/foodgram/foodgram-server/internal/logger"
	"github.com/foodgram/foodgram-server/internal/metrics"
	"github.com/foodgram/foodgram-server/internal/service"
)

const (
	sessionCleanupJob      = "session_cleanup"
	sessionCleanupSchedule = "@hourly"

	// shutdownTimeout bounds how long a handle may drain on shutdown.
	shutdownTimeout = 30 * time.Second
)

// SessionCleanupJob runs periodic expired-session cleanup.
type SessionCleanupJob struct {
	scheduler *cron.Cron
	cancel    context.CancelFunc
	startup   sync.WaitGroup
}

// startCleanupJob schedules run on schedule and starts one run immediately.
// Every run receives a context cancelled by Shutdown.
func startCleanupJob(schedule string, run func(ctx context.Context)) (*SessionCleanupJob, error) {
	ctx, cancel := context.WithCancel(context.Background())
	j := &SessionCleanupJob{scheduler: cron.New(), cancel: cancel}

	if _, err := j.scheduler.AddFunc(schedule, func() { run(ctx) }); err != nil {
		cancel()
		return nil, err
	}

	j.startup.Add(1)
	go func() {
		defer j.startup.Done()
		run(ctx)
	}()
	j.scheduler.Start()

	return j, nil
}

// Shutdown implements do.Shutdownable. It waits for in-flight runs, the
// startup run included, bounded by shutdownTimeout.
func (j *SessionCleanupJob) Shutdown() error {
	j.cancel()
	stopped := j.scheduler.Stop()

	done := make(chan struct{})
	go func() {
		<-stopped.Done()
		j.startup.Wait()
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(shutdownTimeout):
	}
	return nil
}

// ProvideSessionCleanupJob schedules expired-session cleanup hourly and runs
// it once at startup.
func ProvideSessionCleanupJob(i do.Injector) (*SessionCleanupJob, error) {
	sessions := do.MustInvoke[*service.SessionService](i)
	m := do.MustInvoke[*metrics.Metrics](i)
	log := do.MustInvoke[*logger.Logger](i)

	jobLog := log.Component("jobs")

	job, err := startCleanupJob(sessionCleanupSchedule, func(ctx context.Context) {
		start := time.Now()
		count, err := sessions.DeleteExpiredSessions(ctx)
		m.RecordJobRun(sessionCleanupJob, time.Since(start), err == nil)
		switch {
		case errors.Is(err, context.Canceled):
			jobLog.Debug("Session cleanup interrupted by shutdown")
		case err != nil:
			jobLog.Warn("Session cleanup failed", "error", err)
		case count > 0:
			jobLog.Info("Session cleanup completed", "deleted", count)
		}
	})
	if err != nil {
		return nil, err
	}

	log.Info("Session cleanup job started", "schedule", sessionCleanupSchedule)
	return job, nil
}
