package interview

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"interviewassist/internal/config"
	"interviewassist/internal/kv"
	"interviewassist/internal/models"
	"interviewassist/internal/session"
	"interviewassist/internal/store"
)

func TestDriverSubmitsOnExpiry(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	candidates := store.NewMemoryStore()
	require.NoError(t, candidates.AddCandidate(ctx, models.CandidateProfile{ID: "c1", Name: "Ada"}))

	settings := config.DefaultSettings()
	settings.DifficultyOrder = []string{models.DifficultyEasy}
	settings.TimerValues[models.DifficultyEasy] = 1

	svc := NewService(Deps{
		Repo:     session.NewKVRepository(kv.NewMemoryStore()),
		Store:    candidates,
		Defaults: settings,
		Logger:   zap.NewNop(),
	})
	_, err := svc.StartInterview(ctx, "c1")
	require.NoError(t, err)

	done := make(chan struct{})
	go func() {
		NewDriver(svc, 10*time.Millisecond, zap.NewNop()).Run(ctx)
		close(done)
	}()

	require.Eventually(t, func() bool {
		return !svc.View().Active
	}, 3*time.Second, 20*time.Millisecond)

	view := svc.View()
	assert.Equal(t, models.StatusCompleted, view.Session.Status)
	assert.NotNil(t, view.Session.Items[0].SubmittedAt)

	cancel()
	<-done

	_, err = candidates.GetResult(context.Background(), "c1")
	assert.NoError(t, err)
}
