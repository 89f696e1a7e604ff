package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"interviewassist/internal/kv"
	"interviewassist/internal/models"
	"interviewassist/internal/timer"
)

// SnapshotKey is the KV key holding the persisted session.
const SnapshotKey = "session"

// Snapshot is the persisted form of a machine.
type Snapshot struct {
	Session *models.InterviewSession `json:"session"`
	Timer   timer.Snapshot           `json:"timer"`
	Draft   string                   `json:"draft,omitempty"`
	SavedAt time.Time                `json:"savedAt"`
}

// Repository is a single-slot store for the session snapshot.
type Repository interface {
	// Load returns nil, nil when nothing is persisted.
	Load(ctx context.Context) (*Snapshot, error)
	Save(ctx context.Context, snapshot *Snapshot) error
	Clear(ctx context.Context) error
}

// Validate checks that persisted state can be restored.
func Validate(s *models.InterviewSession) error {
	if s == nil {
		return fmt.Errorf("%w: no session", ErrMalformedSession)
	}
	if len(s.Items) == 0 {
		return fmt.Errorf("%w: no items", ErrMalformedSession)
	}
	for i, item := range s.Items {
		if strings.TrimSpace(item.ID) == "" {
			return fmt.Errorf("%w: item %d has no id", ErrMalformedSession, i)
		}
		if !models.ValidDifficulties[item.Difficulty] {
			return fmt.Errorf("%w: item %d has difficulty %q", ErrMalformedSession, i, item.Difficulty)
		}
		if item.TimeAllocatedSec < 0 {
			return fmt.Errorf("%w: item %d has negative allotment", ErrMalformedSession, i)
		}
	}

	switch s.Status {
	case models.StatusInProgress:
		if s.CurrentIndex < 0 || s.CurrentIndex >= len(s.Items) {
			return fmt.Errorf("%w: index %d out of range for %d items", ErrMalformedSession, s.CurrentIndex, len(s.Items))
		}
	case models.StatusCompleted:
		if s.CurrentIndex != len(s.Items) {
			return fmt.Errorf("%w: completed session at index %d of %d", ErrMalformedSession, s.CurrentIndex, len(s.Items))
		}
	default:
		return fmt.Errorf("%w: status %q", ErrMalformedSession, s.Status)
	}
	return nil
}

// KVRepository persists the snapshot as JSON under SnapshotKey.
type KVRepository struct {
	store kv.Store
}

func NewKVRepository(store kv.Store) *KVRepository {
	return &KVRepository{store: store}
}

func (r *KVRepository) Load(ctx context.Context) (*Snapshot, error) {
	data, found, err := r.store.Get(ctx, SnapshotKey)
	if err != nil {
		return nil, fmt.Errorf("failed to load session snapshot: %w", err)
	}
	if !found {
		return nil, nil
	}

	var snapshot Snapshot
	if err := json.Unmarshal(data, &snapshot); err != nil {
		return nil, errors.Join(ErrMalformedSession, err)
	}
	return &snapshot, nil
}

func (r *KVRepository) Save(ctx context.Context, snapshot *Snapshot) error {
	if snapshot == nil || snapshot.Session == nil {
		return r.Clear(ctx)
	}
	data, err := json.Marshal(snapshot)
	if err != nil {
		return fmt.Errorf("failed to encode session snapshot: %w", err)
	}
	if err := r.store.Set(ctx, SnapshotKey, data); err != nil {
		return fmt.Errorf("failed to save session snapshot: %w", err)
	}
	return nil
}

func (r *KVRepository) Clear(ctx context.Context) error {
	if err := r.store.Remove(ctx, SnapshotKey); err != nil {
		return fmt.Errorf("failed to clear session snapshot: %w", err)
	}
	return nil
}
