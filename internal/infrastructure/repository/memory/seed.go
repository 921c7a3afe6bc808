package memory

import "github.com/riskibarqy/clan-bingo/internal/domain/bingo"

// SeedTasks is a starter task pool for local runs on the memory driver.
func SeedTasks() []bingo.Task {
	return []bingo.Task{
		{ID: "task-overall-exp", Description: "Gain 5M overall experience", Parameter: "overall", Type: bingo.TaskTypeExp, Target: 5_000_000, BasePoints: 30},
		{ID: "task-slayer-exp", Description: "Gain 500k Slayer experience", Parameter: "slayer", Type: bingo.TaskTypeExp, Target: 500_000, BasePoints: 20},
		{ID: "task-agility-exp", Description: "Gain 250k Agility experience", Parameter: "agility", Type: bingo.TaskTypeExp, Target: 250_000, BasePoints: 20},
		{ID: "task-fishing-exp", Description: "Gain 300k Fishing experience", Parameter: "fishing", Type: bingo.TaskTypeExp, Target: 300_000, BasePoints: 15},
		{ID: "task-mining-exp", Description: "Gain 300k Mining experience", Parameter: "mining", Type: bingo.TaskTypeExp, Target: 300_000, BasePoints: 15},
		{ID: "task-overall-level", Description: "Gain 5 total levels", Parameter: "overall", Type: bingo.TaskTypeLevel, Target: 5, BasePoints: 10},
		{ID: "task-slayer-level", Description: "Gain 2 Slayer levels", Parameter: "slayer", Type: bingo.TaskTypeLevel, Target: 2, BasePoints: 10},
		{ID: "task-zulrah-kc", Description: "Kill Zulrah 50 times", Parameter: "zulrah", Type: bingo.TaskTypeKill, Target: 50, BasePoints: 25},
		{ID: "task-vorkath-kc", Description: "Kill Vorkath 40 times", Parameter: "vorkath", Type: bingo.TaskTypeKill, Target: 40, BasePoints: 25},
		{ID: "task-gotr-kc", Description: "Complete 30 Guardians of the Rift games", Parameter: "guardians_of_the_rift", Type: bingo.TaskTypeKill, Target: 30, BasePoints: 20},
		{ID: "task-cox-kc", Description: "Complete 5 Chambers of Xeric raids", Parameter: "chambers_of_xeric", Type: bingo.TaskTypeKill, Target: 5, BasePoints: 40},
		{ID: "task-tob-kc", Description: "Complete 3 Theatre of Blood raids", Parameter: "theatre_of_blood", Type: bingo.TaskTypeKill, Target: 3, BasePoints: 40},
		{ID: "task-clue-score", Description: "Complete 10 hard clues", Parameter: "clue_scrolls_hard", Type: bingo.TaskTypeScore, Target: 10, BasePoints: 20},
		{ID: "task-lms-score", Description: "Earn 200 Last Man Standing points", Parameter: "last_man_standing", Type: bingo.TaskTypeScore, Target: 200, BasePoints: 15},
		{ID: "task-collection-score", Description: "Log 15 new collection slots", Parameter: "collections_logged", Type: bingo.TaskTypeScore, Target: 15, BasePoints: 30},
	}
}
