package application

import (
	"context"
	"fmt"
	"time"

	"github.com/go-co-op/gocron/v2"
	log "github.com/sirupsen/logrus"
)

// VoucherExpiryWorker periodically sweeps issued vouchers past their expiry
// into the expired state.
type VoucherExpiryWorker struct {
	engine    *Engine
	interval  time.Duration
	scheduler gocron.Scheduler
}

// NewVoucherExpiryWorker creates a new voucher expiry worker.
func NewVoucherExpiryWorker(engine *Engine, interval time.Duration) *VoucherExpiryWorker {
	return &VoucherExpiryWorker{
		engine:   engine,
		interval: interval,
	}
}

// Start schedules the sweep and runs it once immediately.
func (w *VoucherExpiryWorker) Start(ctx context.Context) error {
	scheduler, err := gocron.NewScheduler()
	if err != nil {
		return fmt.Errorf("failed to create scheduler: %w", err)
	}

	_, err = scheduler.NewJob(
		gocron.DurationJob(w.interval),
		gocron.NewTask(func() {
			w.sweep(ctx)
		}),
		gocron.WithStartAt(gocron.WithStartImmediately()),
	)
	if err != nil {
		return fmt.Errorf("failed to schedule voucher expiry sweep: %w", err)
	}

	w.scheduler = scheduler
	scheduler.Start()

	log.WithField("interval", w.interval).Info("Voucher expiry worker started")
	return nil
}

// Stop shuts the scheduler down.
func (w *VoucherExpiryWorker) Stop() error {
	if w.scheduler == nil {
		return nil
	}
	return w.scheduler.Shutdown()
}

func (w *VoucherExpiryWorker) sweep(ctx context.Context) {
	expired, err := w.engine.ExpireVouchers(ctx, time.Now().UTC())
	if err != nil {
		log.WithError(err).Error("Voucher expiry sweep failed")
		return
	}
	if expired > 0 {
		log.WithField("expired", expired).Info("Expired vouchers")
	}
}
