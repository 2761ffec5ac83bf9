package entities

import (
	"strings"
	"time"
)

// Account represents one Tapsika user as known to the engine.
// The external ID is whatever the identity resolver hands us (e.g. a
// Telegram user ID); the internal ID is stable and never changes.
type Account struct {
	ID           int64      `db:"id"`
	ExternalID   string     `db:"external_id"`
	DisplayName  string     `db:"display_name"`
	ReferralCode string     `db:"referral_code"`
	ReferredBy   *int64     `db:"referred_by"`
	CreatedAt    time.Time  `db:"created_at"`
	UpdatedAt    time.Time  `db:"updated_at"`
}

// HasReferrer reports whether this account has already applied a referral code.
func (a *Account) HasReferrer() bool {
	return a.ReferredBy != nil
}

// GenerateReferralCode derives the shareable referral code for an external ID.
// Codes are "TAP" plus the last six characters of the external ID, uppercased.
func GenerateReferralCode(externalID string) string {
	suffix := externalID
	if len(suffix) > 6 {
		suffix = suffix[len(suffix)-6:]
	}
	return "TAP" + strings.ToUpper(suffix)
}
