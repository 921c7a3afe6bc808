package ledger

// Category partitions a player's point balance.
type Category string

const (
	CategoryBingoTasks    Category = "bingo_tasks"
	CategoryBingoPatterns Category = "bingo_patterns"
)

type Balance struct {
	PlayerID string
	Category Category
	Points   int
}

// LeaderboardEntry accumulates what one player earned inside one event.
type LeaderboardEntry struct {
	EventID      string
	PlayerID     string
	TaskPoints   int
	PatternBonus int
}

func (e LeaderboardEntry) Total() int {
	return e.TaskPoints + e.PatternBonus
}
