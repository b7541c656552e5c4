package repository

import (
	"alifbe_backend/internal/service"

	"gorm.io/gorm"
)

// Store bundles the gorm repositories behind the service layer's storage
// contract. Transaction hands the callback a store view bound to one gorm
// transaction, so every mutation inside commits or rolls back together.
type Store struct {
	db           *gorm.DB
	users        *UserRepository
	curriculum   *CurriculumRepository
	skills       *SkillRepository
	progress     *ProgressRepository
	attempts     *AttemptRepository
	achievements *AchievementRepository
}

func NewStore(db *gorm.DB) *Store {
	return &Store{
		db:           db,
		users:        NewUserRepository(db),
		curriculum:   NewCurriculumRepository(db),
		skills:       NewSkillRepository(db),
		progress:     NewProgressRepository(db),
		attempts:     NewAttemptRepository(db),
		achievements: NewAchievementRepository(db),
	}
}

func (s *Store) Users() service.UserStore               { return s.users }
func (s *Store) Curriculum() service.CurriculumStore    { return s.curriculum }
func (s *Store) Skills() service.SkillStore             { return s.skills }
func (s *Store) Progress() service.ProgressStore        { return s.progress }
func (s *Store) Attempts() service.AttemptStore         { return s.attempts }
func (s *Store) Achievements() service.AchievementStore { return s.achievements }

func (s *Store) Transaction(fn func(service.Store) error) error {
	return s.db.Transaction(func(tx *gorm.DB) error {
		return fn(NewStore(tx))
	})
}
