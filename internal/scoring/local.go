package scoring

import (
	"fmt"
	"math"
	"strings"

	"interviewassist/internal/models"
)

var questionBank = map[string][]models.GeneratedQuestion{
	models.DifficultyEasy: {
		{Difficulty: models.DifficultyEasy, Question: "What is the difference between React state and props?", TimeLimit: 20},
		{Difficulty: models.DifficultyEasy, Question: "Explain the Node.js event loop in simple terms.", TimeLimit: 20},
	},
	models.DifficultyMedium: {
		{Difficulty: models.DifficultyMedium, Question: "How would you implement debounced search in React?", TimeLimit: 60},
		{Difficulty: models.DifficultyMedium, Question: "Explain JWT authentication flow in Node.js/Express.", TimeLimit: 60},
	},
	models.DifficultyHard: {
		{Difficulty: models.DifficultyHard, Question: "Design a scalable file upload system with chunked uploads.", TimeLimit: 120},
		{Difficulty: models.DifficultyHard, Question: "Optimize a React app for large tables (10k+ rows).", TimeLimit: 120},
	},
}

// DefaultCounts is the per-difficulty question count of a standard interview.
var DefaultCounts = map[string]int{
	models.DifficultyEasy:   2,
	models.DifficultyMedium: 2,
	models.DifficultyHard:   2,
}

// LocalQuestions picks questions from the built-in bank, easy first. Counts
// larger than the bank wrap around it; the seed rotates the starting point.
// Time limits come from the request when set.
func LocalQuestions(req models.QuestionRequest) []models.GeneratedQuestion {
	counts := req.Counts
	if len(counts) == 0 {
		counts = DefaultCounts
	}

	var out []models.GeneratedQuestion
	for _, difficulty := range models.DifficultiesList() {
		bank := questionBank[difficulty]
		n := counts[difficulty]
		if n <= 0 || len(bank) == 0 {
			continue
		}
		offset := req.Seed % len(bank)
		if offset < 0 {
			offset += len(bank)
		}
		for i := 0; i < n; i++ {
			q := bank[(offset+i)%len(bank)]
			q.ID = len(out) + 1
			q.TimeLimit = timeLimit(req.TimeLimits, difficulty)
			out = append(out, q)
		}
	}
	return out
}

var topicKeywords = []struct {
	topics   []string
	keywords []string
}{
	{[]string{"react"}, []string{"component", "state", "props", "hook", "jsx"}},
	{[]string{"node"}, []string{"event", "loop", "async", "callback", "promise"}},
	{[]string{"authentication", "jwt"}, []string{"token", "login", "session", "security", "encrypt"}},
	{[]string{"upload", "file"}, []string{"chunk", "stream", "buffer", "multipart", "progress"}},
}

// LocalScore grades an answer by length and topic keywords on a 0-10 scale.
func LocalScore(question, difficulty, answer string) models.ScoreResponse {
	words := len(strings.Fields(answer))

	var score float64
	switch {
	case words < 10:
		score = 2
	case words < 25:
		score = 4
	case words < 50:
		score = 6
	default:
		score = 8
	}
	if hasTopicKeyword(question, answer) {
		score = math.Min(10, score+2)
	}

	return models.ScoreResponse{
		Score:    score,
		Feedback: localFeedback(score, difficulty, words),
	}
}

// only the first topic the question mentions is considered
func hasTopicKeyword(question, answer string) bool {
	q := strings.ToLower(question)
	a := strings.ToLower(answer)
	for _, topic := range topicKeywords {
		if !containsAny(q, topic.topics) {
			continue
		}
		return containsAny(a, topic.keywords)
	}
	return false
}

func containsAny(s string, terms []string) bool {
	for _, term := range terms {
		if strings.Contains(s, term) {
			return true
		}
	}
	return false
}

func localFeedback(score float64, difficulty string, words int) string {
	var b strings.Builder

	switch {
	case words < 10:
		b.WriteString("Your answer is quite brief. Consider elaborating on the technical concepts and providing specific examples to demonstrate your understanding.")
	case words < 25:
		b.WriteString("You provided a moderate response. The answer shows some understanding, but could benefit from more technical depth and concrete examples.")
	default:
		b.WriteString("You provided a detailed response. Consider focusing on the most relevant technical aspects and ensuring clarity in your explanations.")
	}

	switch difficulty {
	case models.DifficultyEasy:
		b.WriteString(` For basic concepts, try to explain the "why" behind your answer and provide simple examples.`)
	case models.DifficultyMedium:
		b.WriteString(" For intermediate topics, consider discussing implementation approaches and potential challenges.")
	default:
		b.WriteString(" For advanced concepts, elaborate on system design considerations and trade-offs.")
	}

	switch {
	case score >= 8:
		b.WriteString(" Your technical knowledge and communication are strong.")
	case score >= 6:
		b.WriteString(" Good foundation, focus on providing more specific technical details.")
	default:
		b.WriteString(" Consider studying the fundamentals more deeply and practicing with real-world examples.")
	}

	return b.String()
}

// LocalFinalize averages the item scores into a 0-100 result. Unscored items
// count as zero and an empty session scores zero.
func LocalFinalize(items []models.QAItem, profile models.CandidateProfile) models.FinalizeResponse {
	var finalScore float64
	if len(items) > 0 {
		var total float64
		for _, item := range items {
			if item.AIScore != nil {
				total += *item.AIScore
			}
		}
		finalScore = math.Min(100, math.Round(total/float64(len(items))*10))
	}

	answered := 0
	for _, item := range items {
		if item.Answer != nil && strings.TrimSpace(*item.Answer) != "" {
			answered++
		}
	}

	var strengths, improvements []string
	switch {
	case finalScore >= 80:
		strengths = append(strengths, "strong technical knowledge", "clear communication")
	case finalScore >= 60:
		strengths = append(strengths, "good understanding of concepts")
		improvements = append(improvements, "more detailed explanations")
	default:
		improvements = append(improvements, "deeper technical knowledge", "more comprehensive answers")
	}
	if answered < len(items) {
		improvements = append(improvements, "completing all questions")
	}

	name := strings.TrimSpace(profile.Name)
	if name == "" {
		name = "The candidate"
	}

	var b strings.Builder
	if len(strengths) > 0 {
		fmt.Fprintf(&b, "%s demonstrated %s. ", name, strings.Join(strengths, " and "))
	} else {
		fmt.Fprintf(&b, "%s completed the interview. ", name)
	}
	if len(improvements) > 0 {
		fmt.Fprintf(&b, "Areas for improvement include %s. ", strings.Join(improvements, ", "))
	}
	fmt.Fprintf(&b, "Overall performance: %d/100.", int(finalScore))

	return models.FinalizeResponse{FinalScore: finalScore, Summary: b.String()}
}
