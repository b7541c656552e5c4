package service

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"alifbe_backend/internal/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHeuristicEmptyTranscript(t *testing.T) {
	result := heuristicEvaluate(EvalRequest{Transcript: "   "})

	require.NotNil(t, result.Score)
	assert.Equal(t, 0.0, *result.Score)
	assert.Equal(t, []string{"no speech detected"}, result.Issues)
	assert.Equal(t, "heuristic", result.Model)
}

func TestHeuristicExampleWordMatch(t *testing.T) {
	result := heuristicEvaluate(EvalRequest{
		Transcript:   "men ANOR dedim",
		TargetLetter: "A",
		ExampleWords: []string{"anor", "olma"},
	})

	require.NotNil(t, result.Score)
	assert.Equal(t, 0.9, *result.Score)
	assert.Empty(t, result.Issues)
}

func TestHeuristicTargetLetterAbsent(t *testing.T) {
	result := heuristicEvaluate(EvalRequest{
		Transcript:   "mmm",
		TargetLetter: "A",
		ExampleWords: []string{"anor"},
	})

	require.NotNil(t, result.Score)
	assert.Equal(t, 0.3, *result.Score)
	require.Len(t, result.Issues, 1)
	assert.Contains(t, result.Issues[0], `"A"`)
}

func TestHeuristicDefaultScore(t *testing.T) {
	result := heuristicEvaluate(EvalRequest{
		Transcript:   "aaa",
		TargetLetter: "A",
	})

	require.NotNil(t, result.Score)
	assert.Equal(t, 0.6, *result.Score)
}

func TestEvaluateUnconfiguredUsesHeuristic(t *testing.T) {
	eval := NewAIEvaluator(config.EvaluatorConfig{})

	result := eval.Evaluate(context.Background(), EvalRequest{Transcript: "anor", ExampleWords: []string{"anor"}})
	assert.Equal(t, "heuristic", result.Model)
	require.NotNil(t, result.Score)
	assert.Equal(t, 0.9, *result.Score)
}

func newChatServer(t *testing.T, handler http.HandlerFunc) (*httptest.Server, *AIEvaluator) {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	eval := NewAIEvaluator(config.EvaluatorConfig{
		BaseURL: srv.URL,
		APIKey:  "test-key",
		Model:   "gpt-test",
	})
	return srv, eval
}

func chatReply(t *testing.T, w http.ResponseWriter, content string) {
	t.Helper()
	resp := map[string]interface{}{
		"choices": []map[string]interface{}{
			{"message": map[string]string{"role": "assistant", "content": content}},
		},
	}
	require.NoError(t, json.NewEncoder(w).Encode(resp))
}

func TestEvaluateRemoteVerdict(t *testing.T) {
	_, eval := newChatServer(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/chat/completions", r.URL.Path)
		assert.Equal(t, "Bearer test-key", r.Header.Get("Authorization"))
		chatReply(t, w, `{"score": 0.85, "issues": ["slightly rushed"], "explanation": "Well done!"}`)
	})

	result := eval.Evaluate(context.Background(), EvalRequest{Transcript: "anor"})

	require.NotNil(t, result.Score)
	assert.Equal(t, 0.85, *result.Score)
	assert.Equal(t, []string{"slightly rushed"}, result.Issues)
	assert.Equal(t, "gpt-test", result.Model)
}

func TestEvaluateStripsMarkdownFences(t *testing.T) {
	_, eval := newChatServer(t, func(w http.ResponseWriter, r *http.Request) {
		chatReply(t, w, "Here you go:\n```json\n{\"score\": 0.7, \"explanation\": \"ok\"}\n```")
	})

	result := eval.Evaluate(context.Background(), EvalRequest{Transcript: "anor"})

	require.NotNil(t, result.Score)
	assert.Equal(t, 0.7, *result.Score)
}

func TestEvaluateServerErrorFallsBack(t *testing.T) {
	_, eval := newChatServer(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	})

	result := eval.Evaluate(context.Background(), EvalRequest{
		Transcript:   "anor",
		ExampleWords: []string{"anor"},
	})
	assert.Equal(t, "heuristic", result.Model)
	require.NotNil(t, result.Score)
	assert.Equal(t, 0.9, *result.Score)
}

func TestEvaluateGarbageVerdictFallsBack(t *testing.T) {
	_, eval := newChatServer(t, func(w http.ResponseWriter, r *http.Request) {
		chatReply(t, w, "I cannot help with that.")
	})

	result := eval.Evaluate(context.Background(), EvalRequest{Transcript: "anor", TargetLetter: "A"})
	assert.Equal(t, "heuristic", result.Model)
}

func TestEvaluateOutOfRangeScoreFallsBack(t *testing.T) {
	_, eval := newChatServer(t, func(w http.ResponseWriter, r *http.Request) {
		chatReply(t, w, `{"score": 42, "explanation": "confused"}`)
	})

	result := eval.Evaluate(context.Background(), EvalRequest{Transcript: "anor", TargetLetter: "A"})
	assert.Equal(t, "heuristic", result.Model)
	require.NotNil(t, result.Score)
	assert.Equal(t, 0.6, *result.Score)
}

func TestEvaluateNullScorePassedThrough(t *testing.T) {
	_, eval := newChatServer(t, func(w http.ResponseWriter, r *http.Request) {
		chatReply(t, w, `{"score": null, "issues": ["inaudible"], "explanation": "try again"}`)
	})

	result := eval.Evaluate(context.Background(), EvalRequest{Transcript: "anor"})
	assert.Nil(t, result.Score, "a null score means no verdict, the engine treats it as incorrect")
	assert.Equal(t, "gpt-test", result.Model)
}

func TestExtractJSON(t *testing.T) {
	assert.Equal(t, `{"a":1}`, extractJSON("```json\n{\"a\":1}\n```"))
	assert.Equal(t, `{"a":1}`, extractJSON(`{"a":1}`))
	assert.Equal(t, "no braces here", extractJSON("no braces here"))
}
