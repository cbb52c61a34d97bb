package service

import (
	"context"
	"log"
	"time"

	"github.com/robfig/cron/v3"
)

// StartOutboxScheduler: retry pesan outbox yang jatuh tempo.
// schedule default "@every 1m" (OUTBOX_CRON).
func StartOutboxScheduler(d *Dispatcher, schedule string, batch int) (*cron.Cron, error) {
	if schedule == "" {
		schedule = "@every 1m"
	}
	if batch <= 0 {
		batch = 50
	}
	c := cron.New(cron.WithChain(cron.SkipIfStillRunning(cron.DefaultLogger)))

	_, err := c.AddFunc(schedule, func() {
		ctx, cancel := context.WithTimeout(context.Background(), 50*time.Second)
		defer cancel()
		sent, err := d.ProcessDue(ctx, batch)
		if err != nil {
			log.Printf("[OUTBOX] proses antrean gagal: %v", err)
			return
		}
		if sent > 0 {
			log.Printf("[OUTBOX] %d pesan terkirim ulang", sent)
		}
	})
	if err != nil {
		return nil, err
	}
	log.Printf("[OUTBOX] scheduler started schedule=%q batch=%d", schedule, batch)
	c.Start()
	return c, nil
}
