package model

// Skill is the numeracy counterpart of a module: an ordered container of
// activities under a learning path.
type Skill struct {
	BaseModel
	LearningPathID uint            `gorm:"index;not null;type:bigint unsigned" json:"learningPathId"`
	Key            string          `gorm:"size:64;index;not null" json:"key"`
	Title          string          `gorm:"size:255;not null" json:"title"`
	Description    string          `gorm:"type:text" json:"description,omitempty"`
	SkillType      SkillType       `gorm:"type:enum('alphabet','phonics','math','logic');default:'math'" json:"skillType"`
	OrderIndex     int             `gorm:"default:0" json:"orderIndex"`
	Activities     []SkillActivity `gorm:"foreignKey:SkillID" json:"activities,omitempty"`
}

func (Skill) TableName() string {
	return "skills"
}

// Problem is one expected-answer entry inside an activity's problem set. The
// answer may be numeric or textual; comparison is done on the trimmed string
// form.
type Problem struct {
	ID     string      `json:"id"`
	Prompt string      `json:"prompt,omitempty"`
	Answer interface{} `json:"answer"`
}

type ActivityContent struct {
	Problems []Problem `json:"problems"`
}

// SkillActivity is a leaf numeracy unit carrying its problem set and XP
// reward.
type SkillActivity struct {
	BaseModel
	SkillID      uint                   `gorm:"index;not null;type:bigint unsigned" json:"skillId"`
	ActivityType string                 `gorm:"size:64;not null" json:"activityType"`
	Instructions string                 `gorm:"type:text" json:"instructions"`
	Content      ActivityContent        `gorm:"serializer:json" json:"content"`
	XPReward     int                    `gorm:"default:15" json:"xpReward"`
	Meta         map[string]interface{} `gorm:"serializer:json" json:"metadata,omitempty"`
}

func (SkillActivity) TableName() string {
	return "skill_activities"
}
