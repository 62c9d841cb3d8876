package daemon

import (
	"context"
	"fmt"
	"log"

	"github.com/robfig/cron/v3"

	"vcpscan/internal/app"
)

// Daemon runs scheduled scans over the configured universe. Results land in
// the recorder; the web API serves them from there.
type Daemon struct {
	cron *cron.Cron
	app  *app.App
	ctx  context.Context
}

// New creates a daemon bound to the application and a lifetime context
func New(ctx context.Context, a *app.App) *Daemon {
	return &Daemon{
		cron: cron.New(),
		app:  a,
		ctx:  ctx,
	}
}

// Register schedules the recurring scan. An empty expression registers
// nothing, leaving only manual triggers.
func (d *Daemon) Register(scanCron string) error {
	if scanCron == "" {
		return nil
	}
	if _, err := d.cron.AddFunc(scanCron, d.scanTask); err != nil {
		return fmt.Errorf("register scan task: %w", err)
	}
	return nil
}

// Start starts the cron scheduler
func (d *Daemon) Start() {
	d.cron.Start()
	log.Println("[INFO] scan daemon started")
}

// Stop stops the cron scheduler gracefully
func (d *Daemon) Stop() {
	d.cron.Stop()
	log.Println("[INFO] scan daemon stopped")
}

// RunNow executes the scan task immediately (manual trigger)
func (d *Daemon) RunNow() {
	d.scanTask()
}

func (d *Daemon) scanTask() {
	log.Println("[INFO] running scheduled scan")

	stocks, err := d.app.ResolveUniverse(d.ctx, nil, "", 0)
	if err != nil {
		log.Printf("[ERROR] loading universe: %v", err)
		return
	}

	result, err := d.app.RunScan(d.ctx, stocks, nil)
	if err != nil {
		log.Printf("[ERROR] scheduled scan: %v", err)
		return
	}

	log.Printf("[INFO] scan %s: %d scanned, %d setups, %d breakouts in %s",
		result.ScanID, result.TotalScanned, result.SetupsFound, result.BreakoutsFound, result.Duration.Round(0))
}
