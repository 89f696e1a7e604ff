package config

import (
	"context"
	"encoding/json"
	"fmt"

	"interviewassist/internal/kv"
)

// SettingsKey is the KV key holding runtime interview settings.
const SettingsKey = "config"

// SettingsRepository persists Settings in the KV store.
type SettingsRepository struct {
	store kv.Store
}

func NewSettingsRepository(store kv.Store) *SettingsRepository {
	return &SettingsRepository{store: store}
}

// Load returns the stored settings, or fallback when none are stored.
// Stored settings that no longer validate are ignored.
func (r *SettingsRepository) Load(ctx context.Context, fallback Settings) (Settings, error) {
	data, found, err := r.store.Get(ctx, SettingsKey)
	if err != nil {
		return fallback, fmt.Errorf("failed to load settings: %w", err)
	}
	if !found {
		return fallback, nil
	}

	stored := fallback.Clone()
	if err := json.Unmarshal(data, &stored); err != nil {
		return fallback, fmt.Errorf("failed to decode settings: %w", err)
	}
	if err := stored.Validate(); err != nil {
		return fallback, fmt.Errorf("stored settings are invalid: %w", err)
	}
	return stored, nil
}

func (r *SettingsRepository) Save(ctx context.Context, settings Settings) error {
	data, err := json.Marshal(settings)
	if err != nil {
		return fmt.Errorf("failed to encode settings: %w", err)
	}
	if err := r.store.Set(ctx, SettingsKey, data); err != nil {
		return fmt.Errorf("failed to save settings: %w", err)
	}
	return nil
}
