package model

type SkillType string

const (
	SkillAlphabet SkillType = "alphabet"
	SkillPhonics  SkillType = "phonics"
	SkillMath     SkillType = "math"
	SkillLogic    SkillType = "logic"
)

type LessonType string

const (
	LetterPractice    LessonType = "letter_practice"
	WordPronunciation LessonType = "word_pronunciation"
	Storytelling      LessonType = "storytelling"
	MathQuiz          LessonType = "math_quiz"
)

type PromptType string

const (
	SystemPrompt     PromptType = "system"
	EvaluationPrompt PromptType = "evaluation"
	FeedbackPrompt   PromptType = "feedback"
)

// LearningPath is the top-level literacy curriculum container. Curriculum
// content is externally authored and read-only to the progression engine.
type LearningPath struct {
	BaseModel
	Key          string   `gorm:"size:64;uniqueIndex;not null" json:"key"`
	Title        string   `gorm:"size:255;not null" json:"title"`
	Description  string   `gorm:"type:text" json:"description,omitempty"`
	HeroImageURL string   `gorm:"size:500" json:"heroImageUrl,omitempty"`
	Difficulty   string   `gorm:"size:32;default:'beginner'" json:"difficulty"`
	OrderIndex   int      `gorm:"default:0" json:"orderIndex"`
	IsActive     bool     `gorm:"default:true" json:"isActive"`
	Modules      []Module `gorm:"foreignKey:LearningPathID" json:"modules,omitempty"`
	Skills       []Skill  `gorm:"foreignKey:LearningPathID" json:"skills,omitempty"`
}

func (LearningPath) TableName() string {
	return "learning_paths"
}

// Module groups lessons inside a learning path. OrderIndex is unique within
// the parent path.
type Module struct {
	BaseModel
	LearningPathID      uint                   `gorm:"uniqueIndex:uq_module_order;not null;type:bigint unsigned" json:"learningPathId"`
	Key                 string                 `gorm:"size:64;not null" json:"key"`
	Title               string                 `gorm:"size:255;not null" json:"title"`
	Description         string                 `gorm:"type:text" json:"description,omitempty"`
	ModuleType          SkillType              `gorm:"type:enum('alphabet','phonics','math','logic');default:'alphabet'" json:"moduleType"`
	OrderIndex          int                    `gorm:"uniqueIndex:uq_module_order;default:0" json:"orderIndex"`
	Meta                map[string]interface{} `gorm:"serializer:json" json:"metadata,omitempty"`
	IsUnlockedByDefault bool                   `gorm:"default:false" json:"isUnlockedByDefault"`
	Lessons             []Lesson               `gorm:"foreignKey:ModuleID" json:"lessons,omitempty"`
}

func (Module) TableName() string {
	return "modules"
}

// Lesson is a leaf literacy unit. OrderIndex is unique within the parent
// module; XPReward feeds the attempt outcome processor.
type Lesson struct {
	BaseModel
	ModuleID         uint                   `gorm:"uniqueIndex:uq_lesson_order;not null;type:bigint unsigned" json:"moduleId"`
	Key              string                 `gorm:"size:64;not null" json:"key"`
	Title            string                 `gorm:"size:255;not null" json:"title"`
	Description      string                 `gorm:"type:text" json:"description,omitempty"`
	LessonType       LessonType             `gorm:"type:enum('letter_practice','word_pronunciation','storytelling','math_quiz');default:'letter_practice'" json:"lessonType"`
	TargetLetter     string                 `gorm:"size:4" json:"targetLetter,omitempty"`
	TargetSound      string                 `gorm:"size:16" json:"targetSound,omitempty"`
	Difficulty       string                 `gorm:"size:32;default:'beginner'" json:"difficulty"`
	OrderIndex       int                    `gorm:"uniqueIndex:uq_lesson_order;default:0" json:"orderIndex"`
	XPReward         int                    `gorm:"default:10" json:"xpReward"`
	MediaAssets      map[string]interface{} `gorm:"serializer:json" json:"mediaAssets,omitempty"`
	ExampleWords     []string               `gorm:"serializer:json" json:"exampleWords,omitempty"`
	ExampleImageURLs []string               `gorm:"serializer:json" json:"exampleImageUrls,omitempty"`
	ExtraMetadata    map[string]interface{} `gorm:"serializer:json" json:"extraMetadata,omitempty"`
	Module           *Module                `gorm:"foreignKey:ModuleID" json:"-"`
	Prompts          []LessonPrompt         `gorm:"foreignKey:LessonID" json:"prompts,omitempty"`
}

func (Lesson) TableName() string {
	return "lessons"
}

// LessonPrompt holds AI prompt templates attached to a lesson.
type LessonPrompt struct {
	BaseModel
	LessonID   uint                   `gorm:"index;not null;type:bigint unsigned" json:"lessonId"`
	PromptType PromptType             `gorm:"type:enum('system','evaluation','feedback');default:'evaluation'" json:"promptType"`
	Locale     string                 `gorm:"size:16;default:'uz-Latn'" json:"locale"`
	Template   string                 `gorm:"type:text;not null" json:"template"`
	Meta       map[string]interface{} `gorm:"serializer:json" json:"metadata,omitempty"`
}

func (LessonPrompt) TableName() string {
	return "lesson_prompts"
}
