package interview

import (
	"fmt"

	"interviewassist/internal/config"
	"interviewassist/internal/models"
)

// buildItems lays questions out in the configured difficulty order. Questions
// the order has no slot for are appended in generator order, so nothing the
// generator returned is dropped.
func buildItems(questions []models.GeneratedQuestion, settings config.Settings) []models.QAItem {
	pools := make(map[string][]models.GeneratedQuestion)
	for _, q := range questions {
		pools[q.Difficulty] = append(pools[q.Difficulty], q)
	}

	ordered := make([]models.GeneratedQuestion, 0, len(questions))
	for _, d := range settings.DifficultyOrder {
		pool := pools[d]
		if len(pool) == 0 {
			continue
		}
		ordered = append(ordered, pool[0])
		pools[d] = pool[1:]
	}
	for _, q := range questions {
		pool := pools[q.Difficulty]
		if len(pool) > 0 && pool[0] == q {
			ordered = append(ordered, q)
			pools[q.Difficulty] = pool[1:]
		}
	}

	items := make([]models.QAItem, len(ordered))
	for i, q := range ordered {
		seconds := q.TimeLimit
		if seconds <= 0 {
			seconds = settings.TimerFor(q.Difficulty)
		}
		items[i] = models.QAItem{
			ID:               fmt.Sprintf("q%d", i+1),
			Difficulty:       q.Difficulty,
			Question:         q.Question,
			TimeAllocatedSec: seconds,
		}
	}
	return items
}
