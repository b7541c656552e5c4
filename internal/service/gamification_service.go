package service

import (
	"time"

	"alifbe_backend/internal/model"
	"alifbe_backend/internal/util"
	"alifbe_backend/pkg/logger"

	"go.uber.org/zap"
)

// PassScore is the correctness threshold applied to evaluator scores. The
// engine never trusts an externally supplied correctness flag.
const PassScore = 0.75

// GamificationService owns XP, levels, streaks and the progress ledger. It is
// stateless apart from the immutable leveling policy; every mutation goes
// through the Store passed in by the caller so the whole outcome commits as
// one transaction.
type GamificationService struct {
	store  Store
	policy *LevelPolicy
}

func NewGamificationService(store Store, policy *LevelPolicy) *GamificationService {
	return &GamificationService{store: store, policy: policy}
}

func (s *GamificationService) Policy() *LevelPolicy {
	return s.policy
}

// ApplyAttemptOutcome turns an evaluated lesson attempt into XP, level and
// streak changes plus the ledger upsert. The attempt's IsCorrect flag is
// derived here from its score. Must run inside the same transaction as the
// attempt insert; st is that transaction-scoped store.
func (s *GamificationService) ApplyAttemptOutcome(st Store, user *model.User, lesson *model.Lesson, attempt *model.LessonAttempt) (int, bool, error) {
	if user == nil {
		return 0, false, util.ErrUserNotFound
	}
	if lesson == nil {
		return 0, false, util.ErrLessonNotFound
	}

	correct := attempt.Score != nil && *attempt.Score >= PassScore
	attempt.IsCorrect = correct

	xpAwarded := lesson.XPReward
	if !correct {
		xpAwarded = lesson.XPReward / 2
		if xpAwarded < 1 {
			xpAwarded = 1
		}
	}

	oldLevel := user.Level
	user.XP += xpAwarded
	if newLevel := s.policy.Level(user.XP); newLevel > user.Level {
		user.Level = newLevel
	}
	leveledUp := user.Level > oldLevel

	if correct {
		user.CurrentStreak++
		if user.CurrentStreak > user.LongestStreak {
			user.LongestStreak = user.CurrentStreak
		}
	} else {
		user.CurrentStreak = 0
	}

	if err := st.Users().Save(user); err != nil {
		return 0, false, err
	}

	pathID, err := s.resolvePathID(st, lesson)
	if err != nil {
		return 0, false, err
	}

	moduleID := lesson.ModuleID
	lessonID := lesson.ID
	rec, err := st.Progress().GetOrCreate(&model.UserProgress{
		UserID:         user.ID,
		LearningPathID: pathID,
		ModuleID:       &moduleID,
		LessonID:       &lessonID,
		Status:         model.StatusInProgress,
	})
	if err != nil {
		return 0, false, err
	}

	now := time.Now()
	if correct {
		rec.Status = model.StatusCompleted
	} else {
		rec.Status = model.StatusInProgress
	}
	rec.XPEarned += xpAwarded
	rec.StreakCount = user.CurrentStreak
	rec.LastAttemptAt = &now
	rec.Meta.RecordAttempt(attempt.Score, correct)

	if err := st.Progress().Save(rec); err != nil {
		return 0, false, err
	}

	return xpAwarded, leveledUp, nil
}

func (s *GamificationService) resolvePathID(st Store, lesson *model.Lesson) (uint, error) {
	if lesson.Module != nil {
		return lesson.Module.LearningPathID, nil
	}
	module, err := st.Curriculum().FindModuleByID(lesson.ModuleID)
	if err != nil {
		return 0, err
	}
	if module == nil {
		return 0, util.ErrModuleNotFound
	}
	return module.LearningPathID, nil
}

// UnlockNextLessons walks the module's ordered lessons and unlocks at most
// one: the first lesson without a completed record, and only when its
// predecessor is completed (or it is the module's first lesson). The walk
// stops at the first incomplete lesson either way, so a learner can never
// skip ahead. Returns the keys of lessons unlocked by this call.
func (s *GamificationService) UnlockNextLessons(st Store, module *model.Module, userID uint) ([]string, error) {
	if module == nil {
		return nil, util.ErrModuleNotFound
	}
	lessons := module.Lessons
	if len(lessons) == 0 {
		return nil, nil
	}

	ids := make([]uint, len(lessons))
	for i, l := range lessons {
		ids[i] = l.ID
	}
	completed, err := st.Progress().CompletedLessonIDs(userID, ids)
	if err != nil {
		return nil, err
	}

	for i := range lessons {
		lesson := &lessons[i]
		if _, done := completed[lesson.ID]; done {
			continue
		}

		eligible := i == 0
		if !eligible {
			_, prevDone := completed[lessons[i-1].ID]
			eligible = prevDone
		}
		if !eligible {
			return nil, nil
		}

		moduleID := module.ID
		lessonID := lesson.ID
		rec, err := st.Progress().GetOrCreate(&model.UserProgress{
			UserID:         userID,
			LearningPathID: module.LearningPathID,
			ModuleID:       &moduleID,
			LessonID:       &lessonID,
			Status:         model.StatusAvailable,
		})
		if err != nil {
			return nil, err
		}
		if rec.Status == model.StatusLocked {
			rec.Status = model.StatusAvailable
			if err := st.Progress().Save(rec); err != nil {
				return nil, err
			}
		}
		return []string{lesson.Key}, nil
	}
	return nil, nil
}

// CheckAchievements awards every active achievement whose conditions the
// user's current totals now satisfy. Awarding is idempotent; the returned
// slice holds the titles granted by this call.
func (s *GamificationService) CheckAchievements(st Store, user *model.User) ([]string, error) {
	achievements, err := st.Achievements().ListActive()
	if err != nil {
		return nil, err
	}

	var awarded []string
	for i := range achievements {
		a := &achievements[i]
		if !a.Conditions.Met(user.XP, user.CurrentStreak) {
			continue
		}
		granted, err := st.Achievements().Award(user.ID, a.ID)
		if err != nil {
			return nil, err
		}
		if granted {
			awarded = append(awarded, a.Title)
			logger.Log.Info("achievement awarded",
				zap.Uint("userId", user.ID),
				zap.String("key", a.Key))
		}
	}
	return awarded, nil
}

// BadgeView is one earned achievement in the snapshot payload.
type BadgeView struct {
	Key       string    `json:"key"`
	Title     string    `json:"title"`
	IconURL   string    `json:"iconUrl,omitempty"`
	AwardedAt time.Time `json:"awardedAt"`
}

type GamificationSnapshot struct {
	UserID        uint        `json:"userId"`
	XP            int         `json:"xp"`
	Level         int         `json:"level"`
	MaxLevel      int         `json:"maxLevel"`
	NextLevelXP   int         `json:"nextLevelXp"`
	CurrentStreak int         `json:"currentStreak"`
	LongestStreak int         `json:"longestStreak"`
	Badges        []BadgeView `json:"badges"`
}

// Snapshot assembles the learner's gamification card.
func (s *GamificationService) Snapshot(userID uint) (*GamificationSnapshot, error) {
	user, err := s.store.Users().FindByID(userID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, util.ErrUserNotFound
	}

	earned, err := s.store.Achievements().ListByUser(userID)
	if err != nil {
		return nil, err
	}

	badges := make([]BadgeView, 0, len(earned))
	for _, ua := range earned {
		if ua.Achievement == nil {
			continue
		}
		badges = append(badges, BadgeView{
			Key:       ua.Achievement.Key,
			Title:     ua.Achievement.Title,
			IconURL:   ua.Achievement.IconURL,
			AwardedAt: ua.AwardedAt,
		})
	}

	return &GamificationSnapshot{
		UserID:        user.ID,
		XP:            user.XP,
		Level:         user.Level,
		MaxLevel:      s.policy.MaxLevel(),
		NextLevelXP:   s.policy.NextLevelXP(user.XP),
		CurrentStreak: user.CurrentStreak,
		LongestStreak: user.LongestStreak,
		Badges:        badges,
	}, nil
}
