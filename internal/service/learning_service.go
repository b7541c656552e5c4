package service

import (
	"context"
	"time"

	"alifbe_backend/internal/model"
	"alifbe_backend/internal/util"
	"alifbe_backend/pkg/logger"
	"alifbe_backend/pkg/monitoring"

	"go.uber.org/zap"
)

// LearningService drives the lesson lifecycle: picking the next lesson,
// processing submitted attempts, and the progress surfaces around them.
type LearningService struct {
	store     Store
	gamify    *GamificationService
	evaluator Evaluator
}

func NewLearningService(store Store, gamify *GamificationService, evaluator Evaluator) *LearningService {
	return &LearningService{store: store, gamify: gamify, evaluator: evaluator}
}

// NextLessonResult is what the session-start endpoint returns.
type NextLessonResult struct {
	PathKey   string              `json:"pathKey"`
	ModuleKey string              `json:"moduleKey"`
	Lesson    *model.Lesson       `json:"lesson"`
	Progress  *model.UserProgress `json:"progress"`
}

// NextLesson selects the lesson a learner should see for the given path.
// With resume=true completed lessons are skipped; a fully completed path
// falls back to replaying its last lesson. Runs in one transaction so the
// lazily created records are visible to its own scan.
func (s *LearningService) NextLesson(userID uint, pathKey string, resume bool) (*NextLessonResult, error) {
	user, err := s.store.Users().FindByID(userID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, util.ErrUserNotFound
	}

	var result *NextLessonResult
	err = s.store.Transaction(func(tx Store) error {
		path, err := tx.Curriculum().FindPathByKey(pathKey)
		if err != nil {
			return err
		}
		if path == nil || len(path.Modules) == 0 {
			return util.ErrLearningPathNotFound
		}

		firstLessonSeen := false
		var lastModule *model.Module
		var lastLesson *model.Lesson

		for mi := range path.Modules {
			module := &path.Modules[mi]
			if len(module.Lessons) == 0 {
				continue
			}
			for li := range module.Lessons {
				lesson := &module.Lessons[li]
				lastModule, lastLesson = module, lesson

				initial := model.StatusLocked
				if !firstLessonSeen {
					initial = model.StatusAvailable
				}
				firstLessonSeen = true

				rec, err := s.ensureRecord(tx, userID, path.ID, module, lesson, initial)
				if err != nil {
					return err
				}
				if resume && rec.Status == model.StatusCompleted {
					continue
				}
				result = &NextLessonResult{
					PathKey:   path.Key,
					ModuleKey: module.Key,
					Lesson:    lesson,
					Progress:  rec,
				}
				return nil
			}
		}

		if lastLesson == nil {
			return util.ErrLessonNotFound
		}

		// Everything completed: hand back the last lesson as a replay slot.
		rec, err := s.ensureRecord(tx, userID, path.ID, lastModule, lastLesson, model.StatusAvailable)
		if err != nil {
			return err
		}
		if rec.Status != model.StatusAvailable {
			rec.Status = model.StatusAvailable
			if err := tx.Progress().Save(rec); err != nil {
				return err
			}
		}
		result = &NextLessonResult{
			PathKey:   path.Key,
			ModuleKey: lastModule.Key,
			Lesson:    lastLesson,
			Progress:  rec,
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

func (s *LearningService) ensureRecord(tx Store, userID, pathID uint, module *model.Module, lesson *model.Lesson, initial model.ProgressStatus) (*model.UserProgress, error) {
	moduleID := module.ID
	lessonID := lesson.ID
	return tx.Progress().GetOrCreate(&model.UserProgress{
		UserID:         userID,
		LearningPathID: pathID,
		ModuleID:       &moduleID,
		LessonID:       &lessonID,
		Status:         initial,
	})
}

type SubmitAttemptInput struct {
	UserID     uint
	LessonID   uint
	AudioURL   string
	Transcript string
	LatencyMS  *int
}

// AttemptResult is the full outcome handed back to the client after one
// submission.
type AttemptResult struct {
	AttemptID       string   `json:"attemptId"`
	Transcript      string   `json:"transcript,omitempty"`
	Score           *float64 `json:"score"`
	IsCorrect       bool     `json:"isCorrect"`
	Feedback        string   `json:"feedback,omitempty"`
	Issues          []string `json:"issues,omitempty"`
	XPAwarded       int      `json:"xpAwarded"`
	LeveledUp       bool     `json:"leveledUp"`
	Level           int      `json:"level"`
	NextLevelXP     int      `json:"nextLevelXp"`
	UnlockedLessons []string `json:"unlockedLessons,omitempty"`
	NewAchievements []string `json:"newAchievements,omitempty"`
}

// SubmitAttempt evaluates the submission, then applies the outcome, unlock
// scan and achievement check in one transaction. The evaluator call stays
// outside the transaction; only its result crosses the boundary.
func (s *LearningService) SubmitAttempt(ctx context.Context, input SubmitAttemptInput) (*AttemptResult, error) {
	if input.Transcript == "" && input.AudioURL == "" {
		return nil, util.ErrMissingAudio
	}

	lesson, err := s.store.Curriculum().FindLessonByID(input.LessonID)
	if err != nil {
		return nil, err
	}
	if lesson == nil {
		return nil, util.ErrLessonNotFound
	}

	eval := s.evaluator.Evaluate(ctx, EvalRequest{
		Transcript:   input.Transcript,
		TargetLetter: lesson.TargetLetter,
		TargetSound:  lesson.TargetSound,
		ExampleWords: lesson.ExampleWords,
		LessonTitle:  lesson.Title,
	})

	var result *AttemptResult
	err = s.store.Transaction(func(tx Store) error {
		user, err := tx.Users().FindByID(input.UserID)
		if err != nil {
			return err
		}
		if user == nil {
			return util.ErrUserNotFound
		}

		attempt := &model.LessonAttempt{
			UserID:     user.ID,
			LessonID:   lesson.ID,
			AudioURL:   input.AudioURL,
			Transcript: input.Transcript,
			Feedback:   eval.Explanation,
			AIModel:    eval.Model,
			Score:      eval.Score,
			LatencyMS:  input.LatencyMS,
			Evaluation: map[string]interface{}{
				"issues": eval.Issues,
			},
		}
		if err := tx.Attempts().Create(attempt); err != nil {
			return err
		}

		xpAwarded, leveledUp, err := s.gamify.ApplyAttemptOutcome(tx, user, lesson, attempt)
		if err != nil {
			return err
		}

		var unlocked []string
		if attempt.IsCorrect {
			module, err := tx.Curriculum().FindModuleByID(lesson.ModuleID)
			if err != nil {
				return err
			}
			if module == nil {
				return util.ErrModuleNotFound
			}
			unlocked, err = s.gamify.UnlockNextLessons(tx, module, user.ID)
			if err != nil {
				return err
			}
		}

		newAchievements, err := s.gamify.CheckAchievements(tx, user)
		if err != nil {
			return err
		}

		result = &AttemptResult{
			AttemptID:       attempt.ID,
			Transcript:      input.Transcript,
			Score:           eval.Score,
			IsCorrect:       attempt.IsCorrect,
			Feedback:        eval.Explanation,
			Issues:          eval.Issues,
			XPAwarded:       xpAwarded,
			LeveledUp:       leveledUp,
			Level:           user.Level,
			NextLevelXP:     s.gamify.Policy().NextLevelXP(user.XP),
			UnlockedLessons: unlocked,
			NewAchievements: newAchievements,
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	outcome := "incorrect"
	if result.IsCorrect {
		outcome = "correct"
	}
	monitoring.AttemptCounter.WithLabelValues(outcome).Inc()
	logger.Log.Info("lesson attempt processed",
		zap.Uint("userId", input.UserID),
		zap.Uint("lessonId", input.LessonID),
		zap.String("outcome", outcome),
		zap.Int("xpAwarded", result.XPAwarded))

	return result, nil
}

// PathProgress summarises one learning path inside the overview payload.
type PathProgress struct {
	PathKey          string  `json:"pathKey"`
	Title            string  `json:"title"`
	TotalLessons     int     `json:"totalLessons"`
	CompletedLessons int     `json:"completedLessons"`
	Percent          float64 `json:"percent"`
}

type ProgressOverview struct {
	User           *model.User           `json:"user"`
	Paths          []PathProgress        `json:"paths"`
	RecentAttempts []model.LessonAttempt `json:"recentAttempts"`
	Achievements   []string              `json:"achievements"`
}

// Overview assembles the guardian-facing progress card for one learner.
func (s *LearningService) Overview(userID uint) (*ProgressOverview, error) {
	user, err := s.store.Users().FindByID(userID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, util.ErrUserNotFound
	}

	paths, err := s.store.Curriculum().ListActivePaths()
	if err != nil {
		return nil, err
	}

	summary := make([]PathProgress, 0, len(paths))
	for i := range paths {
		path := &paths[i]
		total := 0
		var lessonIDs []uint
		for mi := range path.Modules {
			for li := range path.Modules[mi].Lessons {
				total++
				lessonIDs = append(lessonIDs, path.Modules[mi].Lessons[li].ID)
			}
		}
		completed, err := s.store.Progress().CompletedLessonIDs(userID, lessonIDs)
		if err != nil {
			return nil, err
		}
		pct := 0.0
		if total > 0 {
			pct = float64(len(completed)) / float64(total) * 100
		}
		summary = append(summary, PathProgress{
			PathKey:          path.Key,
			Title:            path.Title,
			TotalLessons:     total,
			CompletedLessons: len(completed),
			Percent:          pct,
		})
	}

	recent, err := s.store.Attempts().ListRecentByUser(userID, 5)
	if err != nil {
		return nil, err
	}

	earned, err := s.store.Achievements().ListByUser(userID)
	if err != nil {
		return nil, err
	}
	titles := make([]string, 0, len(earned))
	for _, ua := range earned {
		if ua.Achievement != nil {
			titles = append(titles, ua.Achievement.Title)
		}
	}

	return &ProgressOverview{
		User:           user,
		Paths:          summary,
		RecentAttempts: recent,
		Achievements:   titles,
	}, nil
}

// UpdateProgress applies a manual status change to a (user, lesson) record.
// Transitions only move forward along locked → available → in_progress →
// completed; anything else is rejected.
func (s *LearningService) UpdateProgress(userID, lessonID uint, status model.ProgressStatus) (*model.UserProgress, error) {
	if !status.Valid() {
		return nil, util.ErrBackwardsTransition
	}

	lesson, err := s.store.Curriculum().FindLessonByID(lessonID)
	if err != nil {
		return nil, err
	}
	if lesson == nil {
		return nil, util.ErrLessonNotFound
	}

	var rec *model.UserProgress
	err = s.store.Transaction(func(tx Store) error {
		module, err := tx.Curriculum().FindModuleByID(lesson.ModuleID)
		if err != nil {
			return err
		}
		if module == nil {
			return util.ErrModuleNotFound
		}

		rec, err = s.ensureRecord(tx, userID, module.LearningPathID, module, lesson, status)
		if err != nil {
			return err
		}
		if status.Rank() < rec.Status.Rank() {
			return util.ErrBackwardsTransition
		}
		if rec.Status != status {
			rec.Status = status
			now := time.Now()
			rec.LastAttemptAt = &now
			return tx.Progress().Save(rec)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return rec, nil
}

// ListPaths returns the active learning paths for the catalogue endpoint.
func (s *LearningService) ListPaths() ([]model.LearningPath, error) {
	return s.store.Curriculum().ListActivePaths()
}

// GetLesson fetches one lesson with its prompts for the lesson detail view.
func (s *LearningService) GetLesson(lessonID uint) (*model.Lesson, error) {
	lesson, err := s.store.Curriculum().FindLessonByID(lessonID)
	if err != nil {
		return nil, err
	}
	if lesson == nil {
		return nil, util.ErrLessonNotFound
	}
	return lesson, nil
}
