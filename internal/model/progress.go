package model

import (
	"encoding/json"
	"time"
)

type ProgressStatus string

const (
	StatusLocked     ProgressStatus = "locked"
	StatusAvailable  ProgressStatus = "available"
	StatusInProgress ProgressStatus = "in_progress"
	StatusCompleted  ProgressStatus = "completed"
)

// Rank orders statuses along the unlock pipeline. Used by the manual update
// endpoint to reject backwards transitions.
func (s ProgressStatus) Rank() int {
	switch s {
	case StatusLocked:
		return 0
	case StatusAvailable:
		return 1
	case StatusInProgress:
		return 2
	case StatusCompleted:
		return 3
	}
	return -1
}

func (s ProgressStatus) Valid() bool {
	return s.Rank() >= 0
}

const (
	metaKeyLastScore = "last_score"
	metaKeyIsCorrect = "is_correct"
)

// ProgressMeta is the progress record's metadata bag. last_score and
// is_correct are first-class; any other keys written by earlier versions or
// external tooling survive merges untouched.
type ProgressMeta struct {
	LastScore *float64
	IsCorrect bool
	Extra     map[string]interface{}
}

func (m ProgressMeta) MarshalJSON() ([]byte, error) {
	out := make(map[string]interface{}, len(m.Extra)+2)
	for k, v := range m.Extra {
		out[k] = v
	}
	out[metaKeyLastScore] = m.LastScore
	out[metaKeyIsCorrect] = m.IsCorrect
	return json.Marshal(out)
}

func (m *ProgressMeta) UnmarshalJSON(data []byte) error {
	raw := map[string]interface{}{}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	if v, ok := raw[metaKeyLastScore]; ok {
		if f, isFloat := v.(float64); isFloat {
			m.LastScore = &f
		}
		delete(raw, metaKeyLastScore)
	}
	if v, ok := raw[metaKeyIsCorrect]; ok {
		if b, isBool := v.(bool); isBool {
			m.IsCorrect = b
		}
		delete(raw, metaKeyIsCorrect)
	}
	if len(raw) > 0 {
		m.Extra = raw
	} else {
		m.Extra = nil
	}
	return nil
}

// RecordAttempt overwrites the two attempt keys and leaves Extra alone.
func (m *ProgressMeta) RecordAttempt(score *float64, isCorrect bool) {
	m.LastScore = score
	m.IsCorrect = isCorrect
}

// UserProgress is the per-(user, lesson) unlock/completion ledger row. The
// (user_id, lesson_id) pair is unique; concurrent creation races are resolved
// by the storage layer's insert-or-fetch upsert. XPEarned only ever grows.
type UserProgress struct {
	BaseModel
	UserID         uint           `gorm:"uniqueIndex:uq_progress_user_lesson;not null;type:bigint unsigned" json:"userId"`
	LearningPathID uint           `gorm:"index;not null;type:bigint unsigned" json:"learningPathId"`
	ModuleID       *uint          `gorm:"index;type:bigint unsigned" json:"moduleId,omitempty"`
	LessonID       *uint          `gorm:"uniqueIndex:uq_progress_user_lesson;type:bigint unsigned" json:"lessonId,omitempty"`
	Status         ProgressStatus `gorm:"type:enum('locked','available','in_progress','completed');default:'available'" json:"status"`
	XPEarned       int            `gorm:"default:0" json:"xpEarned"`
	StreakCount    int            `gorm:"default:0" json:"streakCount"`
	LastAttemptAt  *time.Time     `json:"lastAttemptAt,omitempty"`
	Meta           ProgressMeta   `gorm:"serializer:json;type:json" json:"metadata"`
}

func (UserProgress) TableName() string {
	return "user_progress"
}
