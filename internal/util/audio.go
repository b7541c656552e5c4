package util

import (
	"encoding/json"
	"fmt"
	"os"
	"strconv"
	"strings"

	ffmpeg "github.com/u2takey/ffmpeg-go"
)

type AudioInfo struct {
	Duration float64 `json:"duration"`
	Format   string  `json:"format"`
	Size     int64   `json:"size"`
}

// GetAudioInfo probes an audio file with ffprobe for its duration and format.
func GetAudioInfo(audioPath string) (*AudioInfo, error) {
	fileInfo, err := os.Stat(audioPath)
	if err != nil {
		return nil, fmt.Errorf("audio file not found: %v", err)
	}

	jsonOutput, err := ffmpeg.Probe(audioPath)
	if err != nil {
		return nil, fmt.Errorf("probing audio failed: %v", err)
	}

	var result struct {
		Format struct {
			Duration string `json:"duration"`
			Size     string `json:"size"`
			Format   string `json:"format_name"`
		} `json:"format"`
	}
	if err := json.Unmarshal([]byte(jsonOutput), &result); err != nil {
		return nil, fmt.Errorf("parsing probe output failed: %v", err)
	}

	duration, err := strconv.ParseFloat(result.Format.Duration, 64)
	if err != nil {
		duration = 0
	}
	size, err := strconv.ParseInt(result.Format.Size, 10, 64)
	if err != nil {
		size = fileInfo.Size()
	}

	format := "unknown"
	if parts := strings.Split(result.Format.Format, ","); len(parts) > 0 && parts[0] != "" {
		format = parts[0]
	}

	return &AudioInfo{
		Duration: duration,
		Format:   format,
		Size:     size,
	}, nil
}
