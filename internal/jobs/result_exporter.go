package jobs

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"interviewassist/internal/models"
	"interviewassist/internal/store"
)

// ResultExporterJob periodically archives finished interview results as
// JSONL files for interviewer review.
type ResultExporterJob struct {
	store  store.Store
	config *ExporterConfig
	cron   *cron.Cron
	logger *zap.Logger
	now    func() time.Time
}

// ExporterConfig contains configuration for the exporter job
type ExporterConfig struct {
	Schedule      string // cron schedule, e.g. "0 2 * * *" for 2 AM daily
	ExportDir     string
	ExportEnabled bool
	BatchSize     int // max results per run, 0 for no limit
}

// ExportRecord is one line of an export file.
type ExportRecord struct {
	CandidateID string    `json:"candidateId"`
	Name        string    `json:"name"`
	Email       string    `json:"email"`
	Phone       string    `json:"phone,omitempty"`
	FinalScore  float64   `json:"finalScore"`
	Summary     string    `json:"summary"`
	FinishedAt  time.Time `json:"finishedAt"`
}

func NewResultExporterJob(s store.Store, config *ExporterConfig, logger *zap.Logger) *ResultExporterJob {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ResultExporterJob{
		store:  s,
		config: config,
		cron:   cron.New(),
		logger: logger,
		now:    time.Now,
	}
}

// Start begins the scheduled export job
func (j *ResultExporterJob) Start() error {
	if !j.config.ExportEnabled {
		j.logger.Info("Result export is disabled, skipping scheduler")
		return nil
	}

	_, err := j.cron.AddFunc(j.config.Schedule, func() {
		if _, err := j.RunExport(context.Background()); err != nil {
			j.logger.Error("Result export failed", zap.Error(err))
		}
	})
	if err != nil {
		return fmt.Errorf("failed to schedule export job: %w", err)
	}

	j.cron.Start()
	j.logger.Info("Result exporter started", zap.String("schedule", j.config.Schedule))
	return nil
}

// Stop stops the scheduler and waits for a running export to finish.
func (j *ResultExporterJob) Stop() {
	if j.cron != nil {
		<-j.cron.Stop().Done()
		j.logger.Info("Result exporter stopped")
	}
}

// RunExport writes every unexported result to a new file and marks the
// written revisions exported. It returns the file path, or "" when there was nothing
// to export.
func (j *ResultExporterJob) RunExport(ctx context.Context) (string, error) {
	results, err := j.store.ListUnexportedResults(ctx, j.config.BatchSize)
	if err != nil {
		return "", fmt.Errorf("failed to get unexported results: %w", err)
	}
	if len(results) == 0 {
		j.logger.Debug("No unexported results found")
		return "", nil
	}

	data, err := j.encode(ctx, results)
	if err != nil {
		return "", err
	}

	if err := os.MkdirAll(j.config.ExportDir, 0755); err != nil {
		return "", fmt.Errorf("failed to create export directory: %w", err)
	}
	filename := fmt.Sprintf("results_export_%s.jsonl", j.now().Format("20060102_150405"))
	path := filepath.Join(j.config.ExportDir, filename)
	if err := os.WriteFile(path, data, 0644); err != nil {
		return "", fmt.Errorf("failed to write export file: %w", err)
	}

	// only the revisions written above; a result replaced meanwhile stays pending
	if err := j.store.MarkResultsExported(ctx, results); err != nil {
		return path, fmt.Errorf("failed to mark results as exported: %w", err)
	}

	j.logger.Info("Exported interview results",
		zap.Int("count", len(results)),
		zap.String("file", path))
	return path, nil
}

// encode renders one JSON object per line. Results whose candidate was
// removed are still exported, without contact details.
func (j *ResultExporterJob) encode(ctx context.Context, results []models.CandidateResult) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	for _, r := range results {
		record := ExportRecord{
			CandidateID: r.CandidateID,
			FinalScore:  r.FinalScore,
			Summary:     r.Summary,
			FinishedAt:  r.FinishedAt,
		}
		if profile, err := j.store.GetCandidate(ctx, r.CandidateID); err == nil {
			record.Name = profile.Name
			record.Email = profile.Email
			record.Phone = profile.Phone
		}
		if err := enc.Encode(record); err != nil {
			return nil, fmt.Errorf("failed to encode result %s: %w", r.CandidateID, err)
		}
	}
	return buf.Bytes(), nil
}
