package entities

// LeaderboardEntry is one row of the lifetime-Sika leaderboard. Rank is
// assigned by position at read time, never stored.
type LeaderboardEntry struct {
	Rank              int
	AccountID         int64
	DisplayName       string
	LifetimeSika      int64
	LifetimeGameCoins int64
	Tier              Tier
}
