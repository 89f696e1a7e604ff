package store

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"interviewassist/internal/models"
)

// MemoryStore is an in-process Store for tests and single-run use.
type MemoryStore struct {
	mu       sync.RWMutex
	profiles map[string]models.CandidateProfile
	results  map[string]models.CandidateResult
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		profiles: make(map[string]models.CandidateProfile),
		results:  make(map[string]models.CandidateResult),
	}
}

func (m *MemoryStore) AddCandidate(_ context.Context, profile models.CandidateProfile) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, exists := m.profiles[profile.ID]; exists {
		return ErrDuplicate
	}
	m.profiles[profile.ID] = profile
	return nil
}

func (m *MemoryStore) UpdateCandidate(_ context.Context, id string, update models.ProfileUpdate) (*models.CandidateProfile, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	profile, ok := m.profiles[id]
	if !ok {
		return nil, ErrNotFound
	}
	update.Apply(&profile)
	m.profiles[id] = profile
	return &profile, nil
}

func (m *MemoryStore) GetCandidate(_ context.Context, id string) (*models.CandidateProfile, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	profile, ok := m.profiles[id]
	if !ok {
		return nil, ErrNotFound
	}
	return &profile, nil
}

func (m *MemoryStore) ListCandidates(_ context.Context, opts ListOptions) ([]models.CandidateRow, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	search := strings.ToLower(strings.TrimSpace(opts.Search))
	rows := make([]models.CandidateRow, 0, len(m.profiles))
	for id, profile := range m.profiles {
		if !matches(profile, search) {
			continue
		}
		row := models.CandidateRow{Profile: profile}
		if result, ok := m.results[id]; ok {
			r := result
			row.Result = &r
		}
		rows = append(rows, row)
	}
	SortRows(rows, opts.SortBy, opts.Order)
	return rows, nil
}

func (m *MemoryStore) RemoveCandidate(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.profiles[id]; !ok {
		return ErrNotFound
	}
	delete(m.profiles, id)
	delete(m.results, id)
	return nil
}

func (m *MemoryStore) AddResult(_ context.Context, result models.CandidateResult) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	result.Revision = m.results[result.CandidateID].Revision + 1
	result.Exported = false
	result.ExportedAt = nil
	m.results[result.CandidateID] = result
	return nil
}

func (m *MemoryStore) GetResult(_ context.Context, candidateID string) (*models.CandidateResult, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	result, ok := m.results[candidateID]
	if !ok {
		return nil, ErrNotFound
	}
	return &result, nil
}

func (m *MemoryStore) ListUnexportedResults(_ context.Context, limit int) ([]models.CandidateResult, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var out []models.CandidateResult
	for _, result := range m.results {
		if !result.Exported {
			out = append(out, result)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].FinishedAt.Before(out[j].FinishedAt) })
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (m *MemoryStore) MarkResultsExported(_ context.Context, results []models.CandidateResult) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	now := time.Now().UTC()
	for _, r := range results {
		result, ok := m.results[r.CandidateID]
		if !ok || result.Revision != r.Revision {
			continue
		}
		result.Exported = true
		result.ExportedAt = &now
		m.results[r.CandidateID] = result
	}
	return nil
}
