package entities

import "time"

// MaxPlaysPerDay is the daily quota of reward-granting game plays.
const MaxPlaysPerDay = 5

// DefaultGameType is recorded when the reporter does not name a game.
const DefaultGameType = "coin_catch"

// GamePlay is one completed, reward-granting game session. At most
// MaxPlaysPerDay rows exist per account per calendar date.
type GamePlay struct {
	ID          int64     `db:"id"`
	AccountID   int64     `db:"account_id"`
	GameType    string    `db:"game_type"`
	PlayDate    time.Time `db:"play_date"`
	PlayNumber  int       `db:"play_number"`
	Score       int       `db:"score"`
	CoinsEarned int64     `db:"coins_earned"`
	CreatedAt   time.Time `db:"created_at"`
}
