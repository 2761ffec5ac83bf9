package application

import (
	"context"

	"tapsika/domain/events"

	log "github.com/sirupsen/logrus"
)

// RegisterSubscriptions wires the post-commit event handlers onto the bus.
func RegisterSubscriptions(bus *events.Bus) {
	bus.Subscribe(events.EventTypeAccountCreated, handleAccountCreated)
	bus.Subscribe(events.EventTypeSaveRecorded, handleSaveRecorded)
	bus.Subscribe(events.EventTypeVoucherIssued, handleVoucherIssued)
}

func handleAccountCreated(ctx context.Context, event events.Event) {
	e, ok := event.(events.AccountCreatedEvent)
	if !ok {
		return
	}
	log.WithFields(log.Fields{
		"accountID":    e.AccountID,
		"externalID":   e.ExternalID,
		"referralCode": e.ReferralCode,
	}).Info("Account created")
}

func handleSaveRecorded(ctx context.Context, event events.Event) {
	e, ok := event.(events.SaveRecordedEvent)
	if !ok {
		return
	}
	log.WithFields(log.Fields{
		"accountID": e.AccountID,
		"amount":    e.Amount.StringFixed(2),
		"sika":      e.SikaCredited,
		"streak":    e.CurrentStreak,
		"tier":      e.Tier,
	}).Info("Save recorded")
}

func handleVoucherIssued(ctx context.Context, event events.Event) {
	e, ok := event.(events.VoucherIssuedEvent)
	if !ok {
		return
	}
	log.WithFields(log.Fields{
		"accountID":    e.AccountID,
		"voucherCode":  e.VoucherCode,
		"voucherValue": e.VoucherValue.StringFixed(2),
	}).Info("Voucher issued")
}
