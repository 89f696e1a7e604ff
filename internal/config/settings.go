package config

import (
	"errors"
	"fmt"

	"interviewassist/internal/models"
)

// Settings are the interview parameters an interviewer may tune at runtime.
type Settings struct {
	Role            string             `yaml:"role" json:"role"`
	Seed            int                `yaml:"seed" json:"seed"`
	TimerValues     map[string]int     `yaml:"timer_values" json:"timerValues"`
	DifficultyOrder []string           `yaml:"difficulty_order" json:"difficultyOrder"`
	ScoringWeights  map[string]float64 `yaml:"scoring_weights" json:"scoringWeights"`
}

func DefaultSettings() Settings {
	return Settings{
		Role: "fullstack",
		Seed: 42,
		TimerValues: map[string]int{
			models.DifficultyEasy:   20,
			models.DifficultyMedium: 60,
			models.DifficultyHard:   120,
		},
		DifficultyOrder: []string{
			models.DifficultyEasy, models.DifficultyEasy,
			models.DifficultyMedium, models.DifficultyMedium,
			models.DifficultyHard, models.DifficultyHard,
		},
		ScoringWeights: map[string]float64{
			models.DifficultyEasy:   1.0,
			models.DifficultyMedium: 1.75,
			models.DifficultyHard:   2.25,
		},
	}
}

func (s Settings) Validate() error {
	if s.Role == "" {
		return errors.New("interview role is required")
	}
	if len(s.DifficultyOrder) == 0 {
		return errors.New("difficulty order must name at least one question")
	}
	for _, d := range s.DifficultyOrder {
		if !models.ValidDifficulties[d] {
			return fmt.Errorf("unknown difficulty in order: %s", d)
		}
	}
	for _, d := range models.DifficultiesList() {
		if s.TimerValues[d] <= 0 {
			return fmt.Errorf("timer value for %s must be positive", d)
		}
		if s.ScoringWeights[d] <= 0 {
			return fmt.Errorf("scoring weight for %s must be positive", d)
		}
	}
	return nil
}

// Counts tallies the difficulty order into per-difficulty question counts.
func (s Settings) Counts() map[string]int {
	counts := make(map[string]int, len(models.ValidDifficulties))
	for _, d := range s.DifficultyOrder {
		counts[d]++
	}
	return counts
}

// TimerFor returns the configured seconds for difficulty.
func (s Settings) TimerFor(difficulty string) int {
	return s.TimerValues[difficulty]
}

// Merge applies a partial update and returns the result without touching s.
func (s Settings) Merge(req models.SettingsRequest) Settings {
	out := s.Clone()
	for d, v := range req.TimerValues {
		out.TimerValues[d] = v
	}
	if len(req.DifficultyOrder) > 0 {
		out.DifficultyOrder = append([]string(nil), req.DifficultyOrder...)
	}
	for d, w := range req.ScoringWeights {
		out.ScoringWeights[d] = w
	}
	return out
}

func (s Settings) Clone() Settings {
	out := s
	out.TimerValues = make(map[string]int, len(s.TimerValues))
	for k, v := range s.TimerValues {
		out.TimerValues[k] = v
	}
	out.ScoringWeights = make(map[string]float64, len(s.ScoringWeights))
	for k, v := range s.ScoringWeights {
		out.ScoringWeights[k] = v
	}
	out.DifficultyOrder = append([]string(nil), s.DifficultyOrder...)
	return out
}
