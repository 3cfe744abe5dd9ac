// services/scheduler.go
package services

import (
	"context"
	"log"
	"time"

	"team-pairing-system/workers"

	"github.com/go-co-op/gocron/v2"
)

// StartSnapshotScheduler runs the JSON snapshot worker on a fixed interval.
// The first snapshot is taken shortly after startup so a fresh deploy gets a
// baseline without waiting a full interval.
func StartSnapshotScheduler(worker *workers.SnapshotWorker, every time.Duration) {
	sched, _ := gocron.NewScheduler()
	sched.Start()

	_, _ = sched.NewJob(
		gocron.DurationJob(every),
		gocron.NewTask(func() {
			if err := worker.Run(context.Background()); err != nil {
				log.Printf("[Scheduler] Snapshot failed: %v", err)
			}
		}),
		gocron.WithStartAt(gocron.WithStartDateTime(time.Now().Add(time.Minute))),
	)

	log.Printf("✅ Snapshot scheduler running (every %s)", every)
}
