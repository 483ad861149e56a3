package cronjob

import (
	"context"
	"log"

	"github.com/robfig/cron/v3"

	"github.com/freelance-market/market-backend/internal/admin/service"
)

// Scheduler refreshes the system stats snapshot on a fixed schedule so the
// audit trail stays current even if no admin triggers a manual refresh.
type Scheduler struct {
	svc  *service.AdminService
	cron *cron.Cron
}

func NewScheduler(svc *service.AdminService) *Scheduler {
	return &Scheduler{svc: svc, cron: cron.New()}
}

// Start registers the hourly refresh and starts the cron loop.
func (s *Scheduler) Start() error {
	_, err := s.cron.AddFunc("@hourly", func() {
		if _, err := s.svc.UpdateSystemStats(context.Background()); err != nil {
			log.Printf("[cron] system stats refresh failed: %v", err)
		}
	})
	if err != nil {
		return err
	}

	log.Println("Cron scheduler started (stats snapshot refresh hourly)")
	s.cron.Start()
	return nil
}

// Stop halts the cron loop; running jobs finish.
func (s *Scheduler) Stop() {
	s.cron.Stop()
}
