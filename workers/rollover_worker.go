package workers

import (
	"context"
	"errors"
	"log"
	"time"

	"hansei-os/models"
	"hansei-os/services"

	"github.com/go-co-op/gocron/v2"
	"gorm.io/gorm"
)

// RolloverWorker finalizes streaks at the day boundary. The streak branch
// "not logged today but logged yesterday" only becomes final once the day has
// fully elapsed, so a scheduled job shortly after midnight UTC re-runs the
// streak transition for every onboarded user. Log saves handle the
// intra-day transitions; both paths share the same pure streak function.
type RolloverWorker struct {
	db        *gorm.DB
	progress  *services.ProgressService
	batchSize int
}

func NewRolloverWorker(db *gorm.DB, progress *services.ProgressService) *RolloverWorker {
	return &RolloverWorker{
		db:        db,
		progress:  progress,
		batchSize: 200,
	}
}

// Start schedules the daily rollover at 00:05 UTC and blocks until ctx is
// done. Run it in its own goroutine.
func (w *RolloverWorker) Start(ctx context.Context) {
	sched, err := gocron.NewScheduler(gocron.WithLocation(time.UTC))
	if err != nil {
		log.Printf("[Rollover] scheduler init failed: %v", err)
		return
	}

	_, err = sched.NewJob(
		gocron.DailyJob(1, gocron.NewAtTimes(gocron.NewAtTime(0, 5, 0))),
		gocron.NewTask(func() {
			w.RunOnce(time.Now().UTC())
		}),
	)
	if err != nil {
		log.Printf("[Rollover] job registration failed: %v", err)
		return
	}

	sched.Start()
	log.Println("✅ Daily streak rollover scheduled (00:05 UTC)")

	<-ctx.Done()
	if err := sched.Shutdown(); err != nil {
		log.Printf("[Rollover] scheduler shutdown: %v", err)
	}
}

// RunOnce sweeps all onboarded users and applies the streak transition as of
// now. A conflict on one user (concurrent session) is retried once, then
// logged and skipped; the next rollover converges.
func (w *RolloverWorker) RunOnce(now time.Time) {
	start := time.Now()
	var swept, failed int

	var batch []models.BeltProgress
	err := w.db.
		Where("first_log_date IS NOT NULL").
		FindInBatches(&batch, w.batchSize, func(tx *gorm.DB, _ int) error {
			for _, progress := range batch {
				if err := w.rolloverUser(progress.UserID, now); err != nil {
					log.Printf("[Rollover] user %s: %v", progress.UserID, err)
					failed++
					continue
				}
				swept++
			}
			return nil
		}).Error
	if err != nil {
		log.Printf("[Rollover] sweep failed: %v", err)
		return
	}

	log.Printf("✅ Rollover complete: %d users swept, %d failed in %s", swept, failed, time.Since(start))
}

func (w *RolloverWorker) rolloverUser(userID string, now time.Time) error {
	_, err := w.progress.ApplyStreak(userID, now)
	if errors.Is(err, services.ErrProgressConflict) {
		_, err = w.progress.ApplyStreak(userID, now)
	}
	return err
}
