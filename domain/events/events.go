package events

import (
	"tapsika/domain/entities"

	"github.com/shopspring/decimal"
)

// EventType represents different types of events in the system
type EventType string

const (
	EventTypeBalanceChange  EventType = "balance_change"
	EventTypeAccountCreated EventType = "account_created"
	EventTypeSaveRecorded   EventType = "save_recorded"
	EventTypeVoucherIssued  EventType = "voucher_issued"
)

// Event is the base interface for all events
type Event interface {
	Type() EventType
}

// BalanceChangeEvent represents a balance change that occurred
type BalanceChangeEvent struct {
	AccountID       int64
	Currency        entities.Currency
	ChangeAmount    int64
	NewAmount       int64
	TransactionType entities.TransactionType
}

func (e BalanceChangeEvent) Type() EventType {
	return EventTypeBalanceChange
}

// AccountCreatedEvent represents a new account creation
type AccountCreatedEvent struct {
	AccountID    int64
	ExternalID   string
	DisplayName  string
	ReferralCode string
}

func (e AccountCreatedEvent) Type() EventType {
	return EventTypeAccountCreated
}

// SaveRecordedEvent represents a completed savings event
type SaveRecordedEvent struct {
	AccountID     int64
	Amount        decimal.Decimal
	SikaCredited  int64
	CurrentStreak int
	Tier          entities.Tier
}

func (e SaveRecordedEvent) Type() EventType {
	return EventTypeSaveRecorded
}

// VoucherIssuedEvent represents a voucher redemption
type VoucherIssuedEvent struct {
	AccountID    int64
	VoucherCode  string
	VoucherValue decimal.Decimal
}

func (e VoucherIssuedEvent) Type() EventType {
	return EventTypeVoucherIssued
}
