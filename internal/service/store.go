package service

import "alifbe_backend/internal/model"

// Store interfaces are declared on the consumer side; the repository package
// provides the gorm-backed implementations and tests provide in-memory ones.
//
// Lookup methods that can legitimately miss return (nil, nil); a non-nil
// error always means the storage layer itself failed.

type UserStore interface {
	FindByID(id uint) (*model.User, error)
	FindByEmail(email string) (*model.User, error)
	FindByPhone(phone string) (*model.User, error)
	Create(user *model.User) error
	Save(user *model.User) error
	ListChildren(guardianID uint) ([]model.User, error)
	TopByXP(limit int) ([]model.User, error)
}

type CurriculumStore interface {
	// FindPathByKey preloads modules and lessons ordered by OrderIndex.
	FindPathByKey(key string) (*model.LearningPath, error)
	ListActivePaths() ([]model.LearningPath, error)
	FindLessonByID(id uint) (*model.Lesson, error)
	// FindModuleByID preloads lessons ordered by OrderIndex.
	FindModuleByID(id uint) (*model.Module, error)
	UpsertPath(path *model.LearningPath) error
}

type SkillStore interface {
	FindSkillByKey(pathID uint, key string) (*model.Skill, error)
	FindActivityByID(id uint) (*model.SkillActivity, error)
	UpsertSkill(skill *model.Skill) error
}

type ProgressStore interface {
	FindByUserAndLesson(userID, lessonID uint) (*model.UserProgress, error)
	// GetOrCreate inserts the record if no row exists for its (user, lesson)
	// pair, otherwise returns the existing row. Safe under concurrent calls.
	GetOrCreate(rec *model.UserProgress) (*model.UserProgress, error)
	Save(rec *model.UserProgress) error
	// CompletedLessonIDs returns the subset of lessonIDs the user has
	// completed, as a set.
	CompletedLessonIDs(userID uint, lessonIDs []uint) (map[uint]struct{}, error)
	ListByUser(userID, pathID uint) ([]model.UserProgress, error)
}

type AttemptStore interface {
	Create(att *model.LessonAttempt) error
	ListByUserAndLesson(userID, lessonID uint, limit int) ([]model.LessonAttempt, error)
	ListRecentByUser(userID uint, limit int) ([]model.LessonAttempt, error)
}

type AchievementStore interface {
	ListActive() ([]model.Achievement, error)
	// Award grants the achievement once; it reports false when the user
	// already holds it.
	Award(userID, achievementID uint) (bool, error)
	ListByUser(userID uint) ([]model.UserAchievement, error)
}

// Store bundles the per-aggregate stores and scopes them to a transaction.
type Store interface {
	Users() UserStore
	Curriculum() CurriculumStore
	Skills() SkillStore
	Progress() ProgressStore
	Attempts() AttemptStore
	Achievements() AchievementStore

	// Transaction runs fn against a store view bound to one transaction;
	// returning an error rolls everything back.
	Transaction(fn func(Store) error) error
}
