package service

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"time"

	"alifbe_backend/internal/config"
	"alifbe_backend/internal/util"
	"alifbe_backend/pkg/logger"

	"go.uber.org/zap"
)

// SpeechService adapts the Muxlisa STT/TTS HTTP API. Failures degrade to a
// zero-value result carrying the error rather than failing the request; the
// lesson flow can proceed on a typed transcript even when speech is down.
type SpeechService struct {
	config config.SpeechConfig
	client *http.Client
}

func NewSpeechService(cfg config.SpeechConfig) *SpeechService {
	return &SpeechService{
		config: cfg,
		client: &http.Client{Timeout: 30 * time.Second},
	}
}

type TranscriptionResult struct {
	Transcript string  `json:"transcript"`
	Confidence float64 `json:"confidence"`
	DurationS  float64 `json:"durationSeconds"`
	Error      string  `json:"error,omitempty"`
}

type SynthesisResult struct {
	AudioBase64 string `json:"audioBase64,omitempty"`
	AudioURL    string `json:"audioUrl,omitempty"`
	Error       string `json:"error,omitempty"`
}

// Transcribe sends the audio blob to the STT endpoint.
func (s *SpeechService) Transcribe(ctx context.Context, audio []byte, filename string) TranscriptionResult {
	if s.config.BaseURL == "" || s.config.APIKey == "" {
		return TranscriptionResult{Error: util.ErrSpeechUnavailable.Error()}
	}

	var body bytes.Buffer
	writer := multipart.NewWriter(&body)
	part, err := writer.CreateFormFile("file", filename)
	if err != nil {
		return TranscriptionResult{Error: err.Error()}
	}
	if _, err := part.Write(audio); err != nil {
		return TranscriptionResult{Error: err.Error()}
	}
	_ = writer.WriteField("language", s.config.Language)
	if err := writer.Close(); err != nil {
		return TranscriptionResult{Error: err.Error()}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		s.config.BaseURL+"/v1/stt", &body)
	if err != nil {
		return TranscriptionResult{Error: err.Error()}
	}
	req.Header.Set("Content-Type", writer.FormDataContentType())
	req.Header.Set("Authorization", "Bearer "+s.config.APIKey)

	resp, err := s.client.Do(req)
	if err != nil {
		logger.Log.Warn("stt request failed", zap.Error(err))
		return TranscriptionResult{Error: err.Error()}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		data, _ := io.ReadAll(resp.Body)
		msg := fmt.Sprintf("stt error (status %d): %s", resp.StatusCode, string(data))
		logger.Log.Warn("stt request rejected", zap.Int("status", resp.StatusCode))
		return TranscriptionResult{Error: msg}
	}

	var out struct {
		Text       string  `json:"text"`
		Confidence float64 `json:"confidence"`
		Duration   float64 `json:"duration"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return TranscriptionResult{Error: err.Error()}
	}
	return TranscriptionResult{
		Transcript: out.Text,
		Confidence: out.Confidence,
		DurationS:  out.Duration,
	}
}

// Synthesize asks the TTS endpoint to read text aloud in the configured
// child-friendly voice.
func (s *SpeechService) Synthesize(ctx context.Context, text string) SynthesisResult {
	if s.config.BaseURL == "" || s.config.APIKey == "" {
		return SynthesisResult{Error: util.ErrSpeechUnavailable.Error()}
	}

	payload, err := json.Marshal(map[string]string{
		"text":     text,
		"language": s.config.Language,
		"voice":    s.config.Voice,
	})
	if err != nil {
		return SynthesisResult{Error: err.Error()}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		s.config.BaseURL+"/v1/tts", bytes.NewBuffer(payload))
	if err != nil {
		return SynthesisResult{Error: err.Error()}
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+s.config.APIKey)

	resp, err := s.client.Do(req)
	if err != nil {
		logger.Log.Warn("tts request failed", zap.Error(err))
		return SynthesisResult{Error: err.Error()}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		data, _ := io.ReadAll(resp.Body)
		return SynthesisResult{Error: fmt.Sprintf("tts error (status %d): %s", resp.StatusCode, string(data))}
	}

	var out struct {
		Audio string `json:"audio"`
		URL   string `json:"url"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return SynthesisResult{Error: err.Error()}
	}
	return SynthesisResult{AudioBase64: out.Audio, AudioURL: out.URL}
}
