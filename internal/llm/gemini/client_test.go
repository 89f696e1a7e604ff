package gemini

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"interviewassist/internal/llm"
)

func TestGetProviderNameAndRateLimitHelper(t *testing.T) {
	client := &Client{}
	if client.GetProviderName() != "gemini" {
		t.Fatalf("expected provider name gemini")
	}

	cases := map[string]bool{
		"429 rate limit exceeded": true,
		"RESOURCE_EXHAUSTED":      true,
		"quota exceeded":          true,
		"other error":             false,
	}
	for input, expect := range cases {
		if got := isRateLimitError(errors.New(input)); got != expect {
			t.Fatalf("isRateLimitError(%s) = %v, expected %v", input, got, expect)
		}
	}
	if isRateLimitError(nil) {
		t.Fatalf("expected nil error to return false")
	}
}

func TestClassifyError(t *testing.T) {
	cases := []struct {
		err  error
		code string
	}{
		{fmt.Errorf("call: %w", context.DeadlineExceeded), llm.ErrCodeTimeout},
		{errors.New("Error 429, RESOURCE_EXHAUSTED"), llm.ErrCodeRateLimit},
		{errors.New("connection refused"), llm.ErrCodeServiceDown},
	}
	for _, tc := range cases {
		got := classifyError(tc.err)
		if got.Code != tc.code {
			t.Fatalf("classifyError(%v) code = %s, expected %s", tc.err, got.Code, tc.code)
		}
		if !errors.Is(got, tc.err) {
			t.Fatalf("expected classified error to wrap %v", tc.err)
		}
	}
}

func TestRegisteredOnImport(t *testing.T) {
	t.Setenv("GEMINI_API_KEY", "")
	if _, err := llm.NewProvider("gemini"); err == nil {
		t.Fatal("expected factory to surface missing API key")
	}
}
