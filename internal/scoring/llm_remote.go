package scoring

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"interviewassist/internal/llm"
	"interviewassist/internal/models"
	"interviewassist/internal/prompts"
	"interviewassist/internal/utils"
)

// LLMRemote implements Remote directly against an LLM provider using the
// embedded prompt templates.
type LLMRemote struct {
	provider llm.Provider
	prompts  *prompts.PromptManager
	logger   *zap.Logger
}

func NewLLMRemote(provider llm.Provider, pm *prompts.PromptManager, logger *zap.Logger) *LLMRemote {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &LLMRemote{provider: provider, prompts: pm, logger: logger}
}

type finalizeItem struct {
	Difficulty string
	Question   string
	Answer     string
	Scored     bool
	Score      float64
}

func (r *LLMRemote) GenerateQuestions(ctx context.Context, req models.QuestionRequest) ([]models.GeneratedQuestion, error) {
	counts := req.Counts
	if len(counts) == 0 {
		counts = DefaultCounts
	}
	data := map[string]any{
		"Role":          req.Role,
		"Seed":          req.Seed,
		"Easy":          counts[models.DifficultyEasy],
		"Medium":        counts[models.DifficultyMedium],
		"Hard":          counts[models.DifficultyHard],
		"Total":         counts[models.DifficultyEasy] + counts[models.DifficultyMedium] + counts[models.DifficultyHard],
		"EasySeconds":   timeLimit(req.TimeLimits, models.DifficultyEasy),
		"MediumSeconds": timeLimit(req.TimeLimits, models.DifficultyMedium),
		"HardSeconds":   timeLimit(req.TimeLimits, models.DifficultyHard),
	}

	var out []models.GeneratedQuestion
	if err := r.generate(ctx, prompts.ModeGenerateQuestions, strings.ToLower(req.Role), data, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (r *LLMRemote) ScoreAnswer(ctx context.Context, req models.ScoreRequest) (*models.ScoreResponse, error) {
	data := map[string]string{
		"Difficulty": req.Difficulty,
		"Question":   req.Question,
		"Answer":     req.Answer,
	}

	var out models.ScoreResponse
	if err := r.generate(ctx, prompts.ModeScoreAnswer, req.Difficulty, data, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (r *LLMRemote) Finalize(ctx context.Context, req models.FinalizeRequest) (*models.FinalizeResponse, error) {
	items := make([]finalizeItem, len(req.Items))
	for i, item := range req.Items {
		fi := finalizeItem{Difficulty: item.Difficulty, Question: item.Question}
		if item.Answer != nil {
			fi.Answer = *item.Answer
		}
		if item.AIScore != nil {
			fi.Scored = true
			fi.Score = *item.AIScore
		}
		items[i] = fi
	}
	weights := make([]string, 0, len(req.Weights))
	for _, d := range models.DifficultiesList() {
		if w, ok := req.Weights[d]; ok {
			weights = append(weights, fmt.Sprintf("%s %.2f", d, w))
		}
	}
	data := map[string]any{
		"Name":    req.Profile.Name,
		"Items":   items,
		"Weights": strings.Join(weights, ", "),
	}

	var out models.FinalizeResponse
	if err := r.generate(ctx, prompts.ModeFinalize, prompts.DefaultVariant, data, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// timeLimit falls back to the built-in bank's limit for the difficulty.
func timeLimit(limits map[string]int, difficulty string) int {
	if v, ok := limits[difficulty]; ok && v > 0 {
		return v
	}
	return questionBank[difficulty][0].TimeLimit
}

func (r *LLMRemote) generate(ctx context.Context, mode, variant string, data any, out any) error {
	prompt, err := r.prompts.BuildPrompt(mode, variant, data)
	if err != nil {
		return err
	}

	requestID := uuid.New().String()
	resp, err := r.provider.GenerateContent(ctx, prompt, requestID)
	if err != nil {
		return err
	}
	r.logger.Debug("LLM reply received",
		zap.String("mode", mode),
		zap.String("request_id", requestID),
		zap.String("provider", resp.Provider),
		zap.Duration("latency", resp.Latency))

	if err := json.Unmarshal([]byte(utils.StripFences(resp.Content)), out); err != nil {
		return fmt.Errorf("%w: %s reply is not JSON: %v", ErrInvalidPayload, mode, err)
	}
	return nil
}
