// Package jobs runs the periodic maintenance tasks on a cron schedule.
package jobs

import (
	"context"
	"time"

	"github.com/robfig/cron/v3"
	log "github.com/sirupsen/logrus"

	"github.com/joelcarspotz/carfigures/internal/features/casino"
	"github.com/joelcarspotz/carfigures/internal/features/packs"
)

// Scheduler owns the cron runner.
type Scheduler struct {
	cron  *cron.Cron
	packs *packs.Service
}

// NewScheduler registers the jobs. Times are UTC so the daily rollover
// matches the economy's claim day.
func NewScheduler(packsService *packs.Service) (*Scheduler, error) {
	s := &Scheduler{
		cron:  cron.New(cron.WithLocation(time.UTC)),
		packs: packsService,
	}

	// Hourly: close limited-time packs whose window has passed.
	if _, err := s.cron.AddFunc("0 * * * *", s.deactivateExpiredPacks); err != nil {
		return nil, err
	}

	// Midnight UTC: the lucky casino game rolls over by date seed; this
	// job just announces the fact in the logs.
	if _, err := s.cron.AddFunc("0 0 * * *", s.announceLuckyGame); err != nil {
		return nil, err
	}

	return s, nil
}

// Start launches the cron loop in its own goroutine.
func (s *Scheduler) Start() {
	s.cron.Start()
	log.Info("Job scheduler started")
}

// Stop halts the cron loop and waits for running jobs.
func (s *Scheduler) Stop() {
	ctx := s.cron.Stop()
	<-ctx.Done()
	log.Info("Job scheduler stopped")
}

func (s *Scheduler) deactivateExpiredPacks() {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	n, err := s.packs.DeactivateExpired(ctx)
	if err != nil {
		log.WithError(err).Error("expired-pack sweep failed")
		return
	}
	if n > 0 {
		log.WithField("count", n).Info("Deactivated expired packs")
	}
}

func (s *Scheduler) announceLuckyGame() {
	log.WithField("game", casino.DailyLuckyGame(time.Now().UTC())).Info("Casino lucky game rolled over")
}
