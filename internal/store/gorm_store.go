package store

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	"gorm.io/gorm/logger"

	"interviewassist/internal/models"
)

// database drivers
const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
)

// OpenDB connects to the configured database and migrates the schema.
func OpenDB(driver, dsn string) (*gorm.DB, error) {
	var dialector gorm.Dialector
	switch driver {
	case DriverPostgres:
		dialector = postgres.Open(dsn)
	case DriverSQLite, "":
		dialector = sqlite.Open(dsn)
	default:
		return nil, fmt.Errorf("unsupported database driver: %s", driver)
	}

	db, err := gorm.Open(dialector, &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Warn),
		TranslateError: true,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	if err := Migrate(db); err != nil {
		return nil, err
	}
	return db, nil
}

func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(&models.CandidateProfile{}, &models.CandidateResult{}); err != nil {
		return fmt.Errorf("failed to migrate database: %w", err)
	}
	return nil
}

// GormStore is the SQL-backed Store.
type GormStore struct {
	db *gorm.DB
}

func NewGormStore(db *gorm.DB) *GormStore {
	return &GormStore{db: db}
}

// Ping checks the database connection.
func (s *GormStore) Ping(ctx context.Context) error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}

func (s *GormStore) AddCandidate(ctx context.Context, profile models.CandidateProfile) error {
	err := s.db.WithContext(ctx).Create(&profile).Error
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return ErrDuplicate
	}
	if err != nil {
		return fmt.Errorf("failed to store candidate: %w", err)
	}
	return nil
}

func (s *GormStore) UpdateCandidate(ctx context.Context, id string, update models.ProfileUpdate) (*models.CandidateProfile, error) {
	var profile models.CandidateProfile
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&profile, "id = ?", id).Error; err != nil {
			return err
		}
		update.Apply(&profile)
		return tx.Save(&profile).Error
	})
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to update candidate %s: %w", id, err)
	}
	return &profile, nil
}

func (s *GormStore) GetCandidate(ctx context.Context, id string) (*models.CandidateProfile, error) {
	var profile models.CandidateProfile
	err := s.db.WithContext(ctx).First(&profile, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get candidate %s: %w", id, err)
	}
	return &profile, nil
}

func (s *GormStore) ListCandidates(ctx context.Context, opts ListOptions) ([]models.CandidateRow, error) {
	query := s.db.WithContext(ctx).Model(&models.CandidateProfile{})
	if search := strings.ToLower(strings.TrimSpace(opts.Search)); search != "" {
		pattern := "%" + search + "%"
		query = query.Where("LOWER(name) LIKE ? OR LOWER(email) LIKE ?", pattern, pattern)
	}

	var profiles []models.CandidateProfile
	if err := query.Find(&profiles).Error; err != nil {
		return nil, fmt.Errorf("failed to list candidates: %w", err)
	}
	if len(profiles) == 0 {
		return []models.CandidateRow{}, nil
	}

	ids := make([]string, len(profiles))
	for i, p := range profiles {
		ids[i] = p.ID
	}
	var results []models.CandidateResult
	if err := s.db.WithContext(ctx).Where("candidate_id IN ?", ids).Find(&results).Error; err != nil {
		return nil, fmt.Errorf("failed to list results: %w", err)
	}
	byID := make(map[string]*models.CandidateResult, len(results))
	for i := range results {
		byID[results[i].CandidateID] = &results[i]
	}

	rows := make([]models.CandidateRow, len(profiles))
	for i, p := range profiles {
		rows[i] = models.CandidateRow{Profile: p, Result: byID[p.ID]}
	}
	SortRows(rows, opts.SortBy, opts.Order)
	return rows, nil
}

func (s *GormStore) RemoveCandidate(ctx context.Context, id string) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Delete(&models.CandidateProfile{}, "id = ?", id)
		if res.Error != nil {
			return fmt.Errorf("failed to remove candidate %s: %w", id, res.Error)
		}
		if res.RowsAffected == 0 {
			return ErrNotFound
		}
		if err := tx.Delete(&models.CandidateResult{}, "candidate_id = ?", id).Error; err != nil {
			return fmt.Errorf("failed to remove result %s: %w", id, err)
		}
		return nil
	})
}

// AddResult upserts the result. A replaced result is queued for export again.
func (s *GormStore) AddResult(ctx context.Context, result models.CandidateResult) error {
	result.Revision = 1
	result.Exported = false
	result.ExportedAt = nil

	updates := clause.AssignmentColumns([]string{"final_score", "summary", "finished_at", "exported", "exported_at"})
	updates = append(updates, clause.Assignment{
		Column: clause.Column{Name: "revision"},
		Value:  gorm.Expr("candidate_results.revision + 1"),
	})
	err := s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "candidate_id"}},
		DoUpdates: updates,
	}).Create(&result).Error
	if err != nil {
		return fmt.Errorf("failed to store result for %s: %w", result.CandidateID, err)
	}
	return nil
}

func (s *GormStore) GetResult(ctx context.Context, candidateID string) (*models.CandidateResult, error) {
	var result models.CandidateResult
	err := s.db.WithContext(ctx).First(&result, "candidate_id = ?", candidateID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get result %s: %w", candidateID, err)
	}
	return &result, nil
}

func (s *GormStore) ListUnexportedResults(ctx context.Context, limit int) ([]models.CandidateResult, error) {
	var results []models.CandidateResult

	query := s.db.WithContext(ctx).Where("exported = ?", false).Order("finished_at ASC")
	if limit > 0 {
		query = query.Limit(limit)
	}

	if err := query.Find(&results).Error; err != nil {
		return nil, fmt.Errorf("failed to get unexported results: %w", err)
	}
	return results, nil
}

func (s *GormStore) MarkResultsExported(ctx context.Context, results []models.CandidateResult) error {
	if len(results) == 0 {
		return nil
	}
	now := time.Now().UTC()
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, r := range results {
			err := tx.Model(&models.CandidateResult{}).
				Where("candidate_id = ? AND revision = ?", r.CandidateID, r.Revision).
				Updates(map[string]interface{}{
					"exported":    true,
					"exported_at": now,
				}).Error
			if err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("failed to mark results as exported: %w", err)
	}
	return nil
}
