package service

import (
	"alifbe_backend/internal/model"
	"alifbe_backend/pkg/logger"

	"go.uber.org/zap"
)

// ContentService replicates externally authored curriculum into the store.
// This is pure data plumbing: upserts are keyed, idempotent, and never touch
// learner state.
type ContentService struct {
	store Store
}

func NewContentService(store Store) *ContentService {
	return &ContentService{store: store}
}

// Payload types carry both JSON (admin API) and YAML (sync script) shapes.

type PromptPayload struct {
	PromptType string `json:"promptType" yaml:"prompt_type"`
	Locale     string `json:"locale" yaml:"locale"`
	Template   string `json:"template" yaml:"template"`
}

type LessonPayload struct {
	Key          string          `json:"key" yaml:"key"`
	Title        string          `json:"title" yaml:"title"`
	Description  string          `json:"description" yaml:"description"`
	LessonType   string          `json:"lessonType" yaml:"lesson_type"`
	TargetLetter string          `json:"targetLetter" yaml:"target_letter"`
	TargetSound  string          `json:"targetSound" yaml:"target_sound"`
	Difficulty   string          `json:"difficulty" yaml:"difficulty"`
	OrderIndex   int             `json:"orderIndex" yaml:"order_index"`
	XPReward     int             `json:"xpReward" yaml:"xp_reward"`
	ExampleWords []string        `json:"exampleWords" yaml:"example_words"`
	Prompts      []PromptPayload `json:"prompts" yaml:"prompts"`
}

type ModulePayload struct {
	Key                 string          `json:"key" yaml:"key"`
	Title               string          `json:"title" yaml:"title"`
	Description         string          `json:"description" yaml:"description"`
	ModuleType          string          `json:"moduleType" yaml:"module_type"`
	OrderIndex          int             `json:"orderIndex" yaml:"order_index"`
	IsUnlockedByDefault bool            `json:"isUnlockedByDefault" yaml:"is_unlocked_by_default"`
	Lessons             []LessonPayload `json:"lessons" yaml:"lessons"`
}

type ActivityPayload struct {
	ActivityType string          `json:"activityType" yaml:"activity_type"`
	Instructions string          `json:"instructions" yaml:"instructions"`
	XPReward     int             `json:"xpReward" yaml:"xp_reward"`
	Problems     []model.Problem `json:"problems" yaml:"problems"`
}

type SkillPayload struct {
	Key        string            `json:"key" yaml:"key"`
	Title      string            `json:"title" yaml:"title"`
	SkillType  string            `json:"skillType" yaml:"skill_type"`
	OrderIndex int               `json:"orderIndex" yaml:"order_index"`
	Activities []ActivityPayload `json:"activities" yaml:"activities"`
}

type PathPayload struct {
	Key         string          `json:"key" yaml:"key"`
	Title       string          `json:"title" yaml:"title"`
	Description string          `json:"description" yaml:"description"`
	Difficulty  string          `json:"difficulty" yaml:"difficulty"`
	OrderIndex  int             `json:"orderIndex" yaml:"order_index"`
	Modules     []ModulePayload `json:"modules" yaml:"modules"`
	Skills      []SkillPayload  `json:"skills" yaml:"skills"`
}

type ContentPayload struct {
	Paths []PathPayload `json:"paths" yaml:"paths"`
}

type SyncStats struct {
	Paths   int `json:"paths"`
	Modules int `json:"modules"`
	Lessons int `json:"lessons"`
	Skills  int `json:"skills"`
}

// Sync upserts the whole payload in one transaction.
func (s *ContentService) Sync(payload ContentPayload) (*SyncStats, error) {
	stats := &SyncStats{}
	err := s.store.Transaction(func(tx Store) error {
		for _, p := range payload.Paths {
			path := buildPath(p)
			if err := tx.Curriculum().UpsertPath(path); err != nil {
				return err
			}
			stats.Paths++
			for _, m := range p.Modules {
				stats.Modules++
				stats.Lessons += len(m.Lessons)
			}

			for _, sk := range p.Skills {
				skill := buildSkill(path.ID, sk)
				if err := tx.Skills().UpsertSkill(skill); err != nil {
					return err
				}
				stats.Skills++
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	logger.Log.Info("content synced",
		zap.Int("paths", stats.Paths),
		zap.Int("lessons", stats.Lessons),
		zap.Int("skills", stats.Skills))
	return stats, nil
}

func buildPath(p PathPayload) *model.LearningPath {
	path := &model.LearningPath{
		Key:         p.Key,
		Title:       p.Title,
		Description: p.Description,
		Difficulty:  defaultStr(p.Difficulty, "beginner"),
		OrderIndex:  p.OrderIndex,
		IsActive:    true,
	}
	for _, m := range p.Modules {
		module := model.Module{
			Key:                 m.Key,
			Title:               m.Title,
			Description:         m.Description,
			ModuleType:          model.SkillType(defaultStr(m.ModuleType, string(model.SkillAlphabet))),
			OrderIndex:          m.OrderIndex,
			IsUnlockedByDefault: m.IsUnlockedByDefault,
		}
		for _, l := range m.Lessons {
			lesson := model.Lesson{
				Key:          l.Key,
				Title:        l.Title,
				Description:  l.Description,
				LessonType:   model.LessonType(defaultStr(l.LessonType, string(model.LetterPractice))),
				TargetLetter: l.TargetLetter,
				TargetSound:  l.TargetSound,
				Difficulty:   defaultStr(l.Difficulty, "beginner"),
				OrderIndex:   l.OrderIndex,
				XPReward:     defaultInt(l.XPReward, 10),
				ExampleWords: l.ExampleWords,
			}
			for _, pr := range l.Prompts {
				lesson.Prompts = append(lesson.Prompts, model.LessonPrompt{
					PromptType: model.PromptType(defaultStr(pr.PromptType, string(model.EvaluationPrompt))),
					Locale:     defaultStr(pr.Locale, "uz-Latn"),
					Template:   pr.Template,
				})
			}
			module.Lessons = append(module.Lessons, lesson)
		}
		path.Modules = append(path.Modules, module)
	}
	return path
}

func buildSkill(pathID uint, sk SkillPayload) *model.Skill {
	skill := &model.Skill{
		LearningPathID: pathID,
		Key:            sk.Key,
		Title:          sk.Title,
		SkillType:      model.SkillType(defaultStr(sk.SkillType, string(model.SkillMath))),
		OrderIndex:     sk.OrderIndex,
	}
	for _, a := range sk.Activities {
		skill.Activities = append(skill.Activities, model.SkillActivity{
			ActivityType: a.ActivityType,
			Instructions: a.Instructions,
			Content:      model.ActivityContent{Problems: a.Problems},
			XPReward:     defaultInt(a.XPReward, 15),
		})
	}
	return skill
}

func defaultStr(v, fallback string) string {
	if v == "" {
		return fallback
	}
	return v
}

func defaultInt(v, fallback int) int {
	if v == 0 {
		return fallback
	}
	return v
}
