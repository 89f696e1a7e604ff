// Package store persists candidate profiles and their final results.
package store

import (
	"context"
	"errors"
	"sort"
	"strings"
	"time"

	"interviewassist/internal/models"
)

var (
	ErrNotFound  = errors.New("candidate not found")
	ErrDuplicate = errors.New("candidate already exists")
)

// ListOptions filters and orders the candidate table.
type ListOptions struct {
	Search string
	SortBy string
	Order  string
}

// Store keeps profiles and results keyed by candidate id. A candidate has at
// most one result; AddResult replaces any earlier one and bumps its Revision.
type Store interface {
	AddCandidate(ctx context.Context, profile models.CandidateProfile) error
	UpdateCandidate(ctx context.Context, id string, update models.ProfileUpdate) (*models.CandidateProfile, error)
	GetCandidate(ctx context.Context, id string) (*models.CandidateProfile, error)
	ListCandidates(ctx context.Context, opts ListOptions) ([]models.CandidateRow, error)
	RemoveCandidate(ctx context.Context, id string) error

	AddResult(ctx context.Context, result models.CandidateResult) error
	GetResult(ctx context.Context, candidateID string) (*models.CandidateResult, error)
	ListUnexportedResults(ctx context.Context, limit int) ([]models.CandidateResult, error)
	// MarkResultsExported stamps the given results, matching on candidate id
	// and Revision. A result replaced since it was listed stays pending.
	MarkResultsExported(ctx context.Context, results []models.CandidateResult) error
}

// matches reports whether the profile's name or email contains search,
// ignoring case. search must already be lowercased.
func matches(p models.CandidateProfile, search string) bool {
	if search == "" {
		return true
	}
	return strings.Contains(strings.ToLower(p.Name), search) ||
		strings.Contains(strings.ToLower(p.Email), search)
}

// SortRows orders rows in place. Unknown keys sort by score, unknown orders
// descend. Candidates without a result score zero. Ties keep id order.
func SortRows(rows []models.CandidateRow, sortBy, order string) {
	less := func(a, b models.CandidateRow) int {
		switch sortBy {
		case models.SortByName:
			return strings.Compare(strings.ToLower(a.Profile.Name), strings.ToLower(b.Profile.Name))
		case models.SortByDate:
			return compareTime(a.Profile.CreatedAt, b.Profile.CreatedAt)
		default:
			return compareFloat(score(a), score(b))
		}
	}

	desc := order != models.SortAsc
	sort.SliceStable(rows, func(i, j int) bool {
		c := less(rows[i], rows[j])
		if c == 0 {
			return rows[i].Profile.ID < rows[j].Profile.ID
		}
		if desc {
			return c > 0
		}
		return c < 0
	})
}

func score(r models.CandidateRow) float64 {
	if r.Result == nil {
		return 0
	}
	return r.Result.FinalScore
}

func compareFloat(a, b float64) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	}
	return 0
}

func compareTime(a, b time.Time) int {
	switch {
	case a.Before(b):
		return -1
	case a.After(b):
		return 1
	}
	return 0
}
