package CronJobs

import (
	"fmt"
	"log"
	"time"

	"Garage/Models"

	"github.com/robfig/cron/v3"
	"gorm.io/gorm"
)

// DeferredFollowUp is a scheduled service that returns deferred repair items
// to the ready pool once their follow-up date has passed.
type DeferredFollowUp struct {
	db             *gorm.DB
	cronScheduler  *cron.Cron
	runImmediately bool
	jobID          cron.EntryID
}

// NewDeferredFollowUp creates a follow-up service with the given configuration
func NewDeferredFollowUp(db *gorm.DB, runImmediately bool) *DeferredFollowUp {
	return &DeferredFollowUp{
		db:             db,
		cronScheduler:  cron.New(cron.WithSeconds()),
		runImmediately: runImmediately,
	}
}

// Start initiates the daily follow-up cron job
func (s *DeferredFollowUp) Start() error {
	var err error
	s.jobID, err = s.cronScheduler.AddFunc("0 0 1 * * *", func() {
		log.Println("Running scheduled deferred repair follow-up")
		s.runFollowUp()
	})
	if err != nil {
		return fmt.Errorf("error scheduling cron job: %w", err)
	}

	s.cronScheduler.Start()
	fmt.Println("Deferred follow-up scheduler started - will run daily at 1:00 AM")

	if s.runImmediately {
		fmt.Println("Running initial deferred follow-up")
		s.runFollowUp()
	}
	return nil
}

// Stop terminates the follow-up scheduler
func (s *DeferredFollowUp) Stop() {
	if s.cronScheduler != nil {
		s.cronScheduler.Stop()
		log.Println("Deferred follow-up scheduler stopped")
	}
}

// RunManualCheck executes a follow-up sweep on demand
func (s *DeferredFollowUp) RunManualCheck() {
	log.Println("Running manual deferred follow-up")
	s.runFollowUp()
}

// runFollowUp clears the outcome of every deferred item whose follow-up date
// has passed so it shows as ready for a fresh customer decision.
func (s *DeferredFollowUp) runFollowUp() {
	count, err := s.sweep()
	if err != nil {
		log.Printf("Error in deferred follow-up: %v\n", err)
		return
	}
	if count == 0 {
		log.Println("No expired deferrals found")
	} else {
		log.Printf("Returned %d deferred repair items for follow-up\n", count)
	}
}

func (s *DeferredFollowUp) sweep() (int64, error) {
	var total int64
	err := s.db.Transaction(func(tx *gorm.DB) error {
		var expired []Models.RepairItem
		if err := tx.Where("outcome_status = ? AND deferred_until IS NOT NULL AND deferred_until <= ?",
			Models.OutcomeDeferred, time.Now()).Find(&expired).Error; err != nil {
			return err
		}
		for _, item := range expired {
			if _, err := Models.ResetRepairItemOutcome(tx, item.OrganizationID, item.ID); err != nil {
				return err
			}
			total++
		}
		return nil
	})
	return total, err
}
