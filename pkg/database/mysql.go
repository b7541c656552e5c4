package database

import (
	"fmt"

	"alifbe_backend/internal/config"
	"alifbe_backend/internal/model"
	applog "alifbe_backend/pkg/logger"

	"go.uber.org/zap"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func InitDB(cfg *config.DatabaseConfig) (*gorm.DB, error) {
	dsn := fmt.Sprintf("%s:%s@tcp(%s:%d)/%s?charset=%s&parseTime=%t&loc=Local",
		cfg.User,
		cfg.Password,
		cfg.Host,
		cfg.Port,
		cfg.DBName,
		cfg.Charset,
		cfg.ParseTime,
	)

	db, err := gorm.Open(mysql.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Warn),
	})
	if err != nil {
		return nil, err
	}
	applog.Log.Info("database connection established")

	if err := db.AutoMigrate(
		&model.User{},
		&model.LearningPath{},
		&model.Module{},
		&model.Lesson{},
		&model.LessonPrompt{},
		&model.Skill{},
		&model.SkillActivity{},
		&model.UserProgress{},
		&model.LessonAttempt{},
		&model.Achievement{},
		&model.UserAchievement{},
	); err != nil {
		return nil, err
	}
	applog.Log.Info("database migration completed")

	if err := seedBaseline(db); err != nil {
		return nil, err
	}
	return db, nil
}

// seedBaseline inserts a starter curriculum and achievements on an empty
// database. Keyed counts make re-running the seed a no-op.
func seedBaseline(db *gorm.DB) error {
	var pathCount int64
	if err := db.Model(&model.LearningPath{}).Count(&pathCount).Error; err != nil {
		return err
	}
	if pathCount == 0 {
		if err := seedAlphabetPath(db); err != nil {
			return err
		}
		applog.Log.Info("seeded baseline curriculum")
	}

	var achievementCount int64
	if err := db.Model(&model.Achievement{}).Count(&achievementCount).Error; err != nil {
		return err
	}
	if achievementCount == 0 {
		achievements := []model.Achievement{
			{
				Key:         "first-steps",
				Title:       "Birinchi qadamlar",
				Description: "Earn your first 40 XP",
				Conditions:  model.AchievementConditions{MinXP: 40},
				IsActive:    true,
			},
			{
				Key:         "on-a-roll",
				Title:       "Zo'r ketyapsan!",
				Description: "Answer five lessons in a row correctly",
				Conditions:  model.AchievementConditions{MinStreak: 5},
				IsActive:    true,
			},
		}
		if err := db.Create(&achievements).Error; err != nil {
			return err
		}
		applog.Log.Info("seeded baseline achievements", zap.Int("count", len(achievements)))
	}
	return nil
}

func seedAlphabetPath(db *gorm.DB) error {
	letters := []struct {
		Letter string
		Sound  string
		Words  []string
	}{
		{"A", "a", []string{"anor", "archa"}},
		{"B", "be", []string{"bola", "baliq"}},
		{"D", "de", []string{"daraxt", "do'st"}},
		{"E", "e", []string{"eshik", "echki"}},
	}

	module := model.Module{
		Key:                 "alphabet-1",
		Title:               "Harflar bilan tanishuv",
		Description:         "First letters of the Uzbek alphabet",
		ModuleType:          model.SkillAlphabet,
		OrderIndex:          0,
		IsUnlockedByDefault: true,
	}
	for i, l := range letters {
		module.Lessons = append(module.Lessons, model.Lesson{
			Key:          fmt.Sprintf("letter-%s", l.Letter),
			Title:        fmt.Sprintf("%s harfi", l.Letter),
			LessonType:   model.LetterPractice,
			TargetLetter: l.Letter,
			TargetSound:  l.Sound,
			OrderIndex:   i,
			XPReward:     10,
			ExampleWords: l.Words,
			Prompts: []model.LessonPrompt{
				{
					PromptType: model.EvaluationPrompt,
					Locale:     "uz-Latn",
					Template:   fmt.Sprintf("Score how clearly the child pronounces the letter %s and its sound %q.", l.Letter, l.Sound),
				},
				{
					PromptType: model.FeedbackPrompt,
					Locale:     "uz-Latn",
					Template:   "Give one short, encouraging sentence a 5-year-old understands.",
				},
			},
		})
	}

	path := model.LearningPath{
		Key:         "uzbek-alphabet",
		Title:       "O'zbek alifbosi",
		Description: "Learn the letters and sounds of the Uzbek alphabet",
		Difficulty:  "beginner",
		OrderIndex:  0,
		IsActive:    true,
		Modules:     []model.Module{module},
		Skills: []model.Skill{
			{
				Key:        "counting-1",
				Title:      "Sanashni o'rganamiz",
				SkillType:  model.SkillMath,
				OrderIndex: 0,
				Activities: []model.SkillActivity{
					{
						ActivityType: "addition",
						Instructions: "Qo'shish: javobini yoz",
						XPReward:     15,
						Content: model.ActivityContent{
							Problems: []model.Problem{
								{ID: "p1", Prompt: "1 + 1", Answer: 2},
								{ID: "p2", Prompt: "2 + 1", Answer: 3},
								{ID: "p3", Prompt: "2 + 2", Answer: 4},
							},
						},
					},
				},
			},
		},
	}
	return db.Create(&path).Error
}
