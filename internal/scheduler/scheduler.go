package scheduler

import (
	"context"
	"log"
	"time"

	"github.com/skillforge-dev/skillforge/db"
	"github.com/skillforge-dev/skillforge/internal/models"
	"github.com/skillforge-dev/skillforge/internal/types"
)

// Scheduler runs periodic maintenance sweeps: expiring stale invitations and
// closing job postings past their application deadline.
type Scheduler struct {
	interval time.Duration
	ctx      context.Context
	cancel   context.CancelFunc
}

// NewScheduler initializes a new Scheduler instance
func NewScheduler(interval time.Duration) *Scheduler {
	ctx, cancel := context.WithCancel(context.Background())
	return &Scheduler{
		interval: interval,
		ctx:      ctx,
		cancel:   cancel,
	}
}

// Start runs an immediate sweep and then sweeps on every tick
func (s *Scheduler) Start() {
	log.Println("Starting scheduler...")

	go func() {
		s.sweep()

		ticker := time.NewTicker(s.interval)
		defer ticker.Stop()

		for {
			select {
			case <-s.ctx.Done():
				return
			case <-ticker.C:
				s.sweep()
			}
		}
	}()

	log.Printf("Scheduler started with interval %v", s.interval)
}

// Stop gracefully shuts down the sweep loop
func (s *Scheduler) Stop() {
	log.Println("Stopping scheduler...")
	s.cancel()
	log.Println("Scheduler stopped")
}

func (s *Scheduler) sweep() {
	now := time.Now()

	s.expireInvitations(now)
	s.closeExpiredJobs(now)
}

// expireInvitations marks pending invitations past their expiry as expired.
func (s *Scheduler) expireInvitations(now time.Time) {
	result := db.DB.Model(&models.ProjectInvitation{}).
		Where("status = ? AND expires_at IS NOT NULL AND expires_at <= ?", types.InvitationPending, now).
		Update("status", types.InvitationExpired)

	if result.Error != nil {
		log.Printf("Failed to expire invitations: %v", result.Error)
		return
	}

	if result.RowsAffected > 0 {
		log.Printf("Expired %d stale invitations", result.RowsAffected)
	}
}

// closeExpiredJobs closes published postings whose application deadline passed.
func (s *Scheduler) closeExpiredJobs(now time.Time) {
	result := db.DB.Model(&models.JobPosting{}).
		Where("status = ? AND application_deadline IS NOT NULL AND application_deadline <= ?", types.JobPublished, now).
		Update("status", types.JobClosed)

	if result.Error != nil {
		log.Printf("Failed to close expired job postings: %v", result.Error)
		return
	}

	if result.RowsAffected > 0 {
		log.Printf("Closed %d expired job postings", result.RowsAffected)
	}
}

// Global scheduler instance
var globalScheduler *Scheduler

// Initialize creates and starts the global scheduler
func Initialize(interval time.Duration) {
	globalScheduler = NewScheduler(interval)
	globalScheduler.Start()
}

// Shutdown stops the global scheduler
func Shutdown() {
	if globalScheduler != nil {
		globalScheduler.Stop()
	}
}
