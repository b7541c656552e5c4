package service

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"alifbe_backend/internal/config"
	"alifbe_backend/pkg/logger"

	"go.uber.org/zap"
)

// EvalRequest carries one attempt to be scored.
type EvalRequest struct {
	Transcript   string
	TargetLetter string
	TargetSound  string
	ExampleWords []string
	LessonTitle  string
}

// EvalResult is the evaluator's verdict. Score nil means the evaluator could
// not produce one; the engine treats that as incorrect.
type EvalResult struct {
	Score       *float64
	Issues      []string
	Explanation string
	Model       string
}

// Evaluator scores attempts. Implementations must degrade gracefully and
// never return an error; the engine has no retry logic for this call.
type Evaluator interface {
	Evaluate(ctx context.Context, req EvalRequest) EvalResult
}

// AIEvaluator scores pronunciation via an OpenAI-compatible chat completions
// endpoint, falling back to a deterministic transcript heuristic whenever the
// remote call fails or returns something unusable.
type AIEvaluator struct {
	config config.EvaluatorConfig
	client *http.Client
}

func NewAIEvaluator(cfg config.EvaluatorConfig) *AIEvaluator {
	return &AIEvaluator{
		config: cfg,
		client: &http.Client{Timeout: 15 * time.Second},
	}
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatCompletionResponse struct {
	Choices []struct {
		Message chatMessage `json:"message"`
	} `json:"choices"`
	Error *struct {
		Message string `json:"message"`
	} `json:"error,omitempty"`
}

type evaluatorVerdict struct {
	Score       *float64 `json:"score"`
	Issues      []string `json:"issues"`
	Explanation string   `json:"explanation"`
}

func (e *AIEvaluator) Evaluate(ctx context.Context, req EvalRequest) EvalResult {
	if e.config.APIKey == "" || e.config.BaseURL == "" {
		return heuristicEvaluate(req)
	}

	verdict, err := e.callModel(ctx, req)
	if err != nil {
		logger.Log.Warn("evaluator degraded to heuristic", zap.Error(err))
		return heuristicEvaluate(req)
	}
	if verdict.Score != nil && (*verdict.Score < 0 || *verdict.Score > 1) {
		logger.Log.Warn("evaluator returned out-of-range score",
			zap.Float64("score", *verdict.Score))
		return heuristicEvaluate(req)
	}
	return EvalResult{
		Score:       verdict.Score,
		Issues:      verdict.Issues,
		Explanation: verdict.Explanation,
		Model:       e.config.Model,
	}
}

func (e *AIEvaluator) callModel(ctx context.Context, req EvalRequest) (*evaluatorVerdict, error) {
	system := "You are a pronunciation coach for children learning the Uzbek alphabet. " +
		"Score the learner's transcript against the target. Reply with strict JSON only: " +
		`{"score": <float 0..1 or null>, "issues": [<short strings>], "explanation": <one encouraging sentence>}`

	user := fmt.Sprintf("Lesson: %s\nTarget letter: %q\nTarget sound: %q\nExample words: %s\nTranscript: %q",
		req.LessonTitle, req.TargetLetter, req.TargetSound,
		strings.Join(req.ExampleWords, ", "), req.Transcript)

	body, err := json.Marshal(map[string]interface{}{
		"model": e.config.Model,
		"messages": []chatMessage{
			{Role: "system", Content: system},
			{Role: "user", Content: user},
		},
		"temperature": 0,
	})
	if err != nil {
		return nil, err
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost,
		e.config.BaseURL+"/chat/completions", bytes.NewBuffer(body))
	if err != nil {
		return nil, err
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Authorization", "Bearer "+e.config.APIKey)

	resp, err := e.client.Do(httpReq)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		data, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("evaluator API error (status %d): %s", resp.StatusCode, string(data))
	}

	var completion chatCompletionResponse
	if err := json.NewDecoder(resp.Body).Decode(&completion); err != nil {
		return nil, err
	}
	if completion.Error != nil {
		return nil, fmt.Errorf("evaluator API error: %s", completion.Error.Message)
	}
	if len(completion.Choices) == 0 {
		return nil, fmt.Errorf("evaluator returned no choices")
	}

	content := extractJSON(completion.Choices[0].Message.Content)
	var verdict evaluatorVerdict
	if err := json.Unmarshal([]byte(content), &verdict); err != nil {
		return nil, fmt.Errorf("evaluator returned unparsable verdict: %w", err)
	}
	return &verdict, nil
}

// extractJSON strips markdown fences and surrounding chatter the model may
// wrap around the JSON object.
func extractJSON(s string) string {
	start := strings.Index(s, "{")
	end := strings.LastIndex(s, "}")
	if start >= 0 && end > start {
		return s[start : end+1]
	}
	return s
}

// heuristicEvaluate is the deterministic offline fallback. It only looks at
// the transcript text, so identical input always scores the same.
func heuristicEvaluate(req EvalRequest) EvalResult {
	transcript := strings.ToLower(strings.TrimSpace(req.Transcript))

	if transcript == "" {
		zero := 0.0
		return EvalResult{
			Score:       &zero,
			Issues:      []string{"no speech detected"},
			Explanation: "We could not hear anything. Try again a little louder!",
			Model:       "heuristic",
		}
	}

	for _, word := range req.ExampleWords {
		if word != "" && strings.Contains(transcript, strings.ToLower(word)) {
			score := 0.9
			return EvalResult{
				Score:       &score,
				Explanation: "Great job, that sounded right!",
				Model:       "heuristic",
			}
		}
	}

	target := strings.ToLower(strings.TrimSpace(req.TargetLetter))
	if target != "" && !strings.Contains(transcript, target) {
		score := 0.3
		return EvalResult{
			Score:       &score,
			Issues:      []string{fmt.Sprintf("the sound %q was not heard", req.TargetLetter)},
			Explanation: "Almost! Listen to the letter once more and repeat it.",
			Model:       "heuristic",
		}
	}

	score := 0.6
	return EvalResult{
		Score:       &score,
		Explanation: "Nice try! Keep practicing to make it even clearer.",
		Model:       "heuristic",
	}
}
