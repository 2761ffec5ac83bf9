package repository

import (
	"tapsika/database"
	"tapsika/domain/events"
	"tapsika/domain/interfaces"
)

// NewTestUnitOfWorkFactory creates a unit of work factory backed by a fresh
// event bus, for tests that don't care about delivered events.
func NewTestUnitOfWorkFactory(db *database.DB) interfaces.UnitOfWorkFactory {
	return NewUnitOfWorkFactory(db, events.NewBus())
}
