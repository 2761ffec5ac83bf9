package entities

import (
	"time"

	"github.com/shopspring/decimal"
)

// Streak tracks consecutive-day saving plus the monthly aggregates used by
// Jar Shake eligibility. One row per account.
type Streak struct {
	AccountID       int64           `db:"account_id"`
	CurrentStreak   int             `db:"current_streak"`
	LongestStreak   int             `db:"longest_streak"`
	LastSaveDate    *time.Time      `db:"last_save_date"`
	SavesThisMonth  int             `db:"saves_this_month"`
	AmountThisMonth decimal.Decimal `db:"amount_this_month"`
	MonthKey        string          `db:"month_key"`
	UpdatedAt       time.Time       `db:"updated_at"`
}

// MonthKeyFor formats the year-month key the monthly counters apply to.
func MonthKeyFor(t time.Time) string {
	return t.UTC().Format("2006-01")
}

// DateOnly truncates a time to its UTC calendar date.
func DateOnly(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// ApplySave advances the streak for a save of amount on today's date.
//   - saved yesterday: streak grows by one
//   - saved earlier today already: streak unchanged
//   - gap of more than a day, or first ever save: streak restarts at 1
//
// Monthly counters reset whenever the save lands in a new month.
func (s *Streak) ApplySave(today time.Time, amount decimal.Decimal) {
	today = DateOnly(today)

	newStreak := 1
	if s.LastSaveDate != nil {
		diffDays := int(today.Sub(DateOnly(*s.LastSaveDate)).Hours() / 24)
		switch {
		case diffDays == 1:
			newStreak = s.CurrentStreak + 1
		case diffDays == 0:
			newStreak = s.CurrentStreak
			if newStreak < 1 {
				newStreak = 1
			}
		}
	}
	s.CurrentStreak = newStreak
	if s.CurrentStreak > s.LongestStreak {
		s.LongestStreak = s.CurrentStreak
	}

	monthKey := MonthKeyFor(today)
	if s.MonthKey == monthKey {
		s.SavesThisMonth++
		s.AmountThisMonth = s.AmountThisMonth.Add(amount)
	} else {
		s.SavesThisMonth = 1
		s.AmountThisMonth = amount
		s.MonthKey = monthKey
	}

	s.LastSaveDate = &today
}
