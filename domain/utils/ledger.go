package utils

import (
	"context"
	"fmt"

	"tapsika/domain/entities"
	"tapsika/domain/events"
	"tapsika/domain/interfaces"

	log "github.com/sirupsen/logrus"
)

// RecordLedgerEntry appends a transaction and emits the matching balance
// change events. This is the single entry point for writing the ledger.
func RecordLedgerEntry(ctx context.Context, transactionRepo interfaces.TransactionRepository, eventPublisher interfaces.EventPublisher, tx *entities.Transaction, balance *entities.Balance) error {
	if err := tx.Validate(); err != nil {
		return fmt.Errorf("invalid ledger entry: %w", err)
	}

	if err := transactionRepo.Record(ctx, tx); err != nil {
		return fmt.Errorf("failed to record transaction: %w", err)
	}

	if eventPublisher == nil {
		return nil
	}

	if tx.SikaAmount != 0 {
		publishBalanceChange(eventPublisher, events.BalanceChangeEvent{
			AccountID:       tx.AccountID,
			Currency:        entities.CurrencySika,
			ChangeAmount:    tx.SikaAmount,
			NewAmount:       balance.Sika,
			TransactionType: tx.Type,
		})
	}
	if tx.GameCoinsAmount != 0 {
		publishBalanceChange(eventPublisher, events.BalanceChangeEvent{
			AccountID:       tx.AccountID,
			Currency:        entities.CurrencyGameCoins,
			ChangeAmount:    tx.GameCoinsAmount,
			NewAmount:       balance.GameCoins,
			TransactionType: tx.Type,
		})
	}

	return nil
}

func publishBalanceChange(eventPublisher interfaces.EventPublisher, event events.BalanceChangeEvent) {
	log.WithFields(log.Fields{
		"accountID":       event.AccountID,
		"currency":        event.Currency,
		"changeAmount":    event.ChangeAmount,
		"newAmount":       event.NewAmount,
		"transactionType": event.TransactionType,
	}).Debug("Publishing BalanceChangeEvent")
	if err := eventPublisher.Publish(event); err != nil {
		log.WithError(err).Error("Failed to publish balance change event")
	}
}
