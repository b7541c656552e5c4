package model

// LessonAttempt is the append-only record of one submission. Rows are never
// mutated after creation; resubmitting the same lesson appends a new row.
type LessonAttempt struct {
	UUIDBase
	UserID     uint                   `gorm:"index;not null;type:bigint unsigned" json:"userId"`
	LessonID   uint                   `gorm:"index;not null;type:bigint unsigned" json:"lessonId"`
	AudioURL   string                 `gorm:"size:1024" json:"audioUrl,omitempty"`
	Transcript string                 `gorm:"type:text" json:"transcript,omitempty"`
	Evaluation map[string]interface{} `gorm:"serializer:json" json:"evaluation,omitempty"`
	Feedback   string                 `gorm:"type:text" json:"feedback,omitempty"`
	AIModel    string                 `gorm:"size:100" json:"aiModel,omitempty"`
	Score      *float64               `json:"score,omitempty"`
	IsCorrect  bool                   `gorm:"default:false" json:"isCorrect"`
	LatencyMS  *int                   `json:"latencyMs,omitempty"`
}

func (LessonAttempt) TableName() string {
	return "lesson_attempts"
}
