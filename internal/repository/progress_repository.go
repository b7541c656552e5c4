package repository

import (
	"errors"

	"alifbe_backend/internal/model"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type ProgressRepository struct {
	DB *gorm.DB
}

func NewProgressRepository(db *gorm.DB) *ProgressRepository {
	return &ProgressRepository{DB: db}
}

func (r *ProgressRepository) FindByUserAndLesson(userID, lessonID uint) (*model.UserProgress, error) {
	var rec model.UserProgress
	err := r.DB.Where("user_id = ? AND lesson_id = ?", userID, lessonID).
		First(&rec).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &rec, nil
}

// GetOrCreate inserts the record unless a row for its (user, lesson) pair
// already exists, then returns whichever row won. The unique index plus
// ON CONFLICT DO NOTHING makes concurrent first attempts race-safe without
// read-then-blind-insert.
func (r *ProgressRepository) GetOrCreate(rec *model.UserProgress) (*model.UserProgress, error) {
	res := r.DB.Clauses(clause.OnConflict{DoNothing: true}).Create(rec)
	if res.Error != nil {
		return nil, res.Error
	}
	if res.RowsAffected == 1 && rec.ID != 0 {
		return rec, nil
	}

	// Lost the race or the row predates us: fetch the winner.
	var existing model.UserProgress
	q := r.DB.Where("user_id = ?", rec.UserID)
	if rec.LessonID != nil {
		q = q.Where("lesson_id = ?", *rec.LessonID)
	} else {
		q = q.Where("lesson_id IS NULL AND learning_path_id = ?", rec.LearningPathID)
	}
	if err := q.First(&existing).Error; err != nil {
		return nil, err
	}
	return &existing, nil
}

func (r *ProgressRepository) Save(rec *model.UserProgress) error {
	return r.DB.Save(rec).Error
}

func (r *ProgressRepository) CompletedLessonIDs(userID uint, lessonIDs []uint) (map[uint]struct{}, error) {
	completed := make(map[uint]struct{})
	if len(lessonIDs) == 0 {
		return completed, nil
	}

	var ids []uint
	err := r.DB.Model(&model.UserProgress{}).
		Where("user_id = ? AND status = ? AND lesson_id IN ?", userID, model.StatusCompleted, lessonIDs).
		Pluck("lesson_id", &ids).Error
	if err != nil {
		return nil, err
	}
	for _, id := range ids {
		completed[id] = struct{}{}
	}
	return completed, nil
}

func (r *ProgressRepository) ListByUser(userID, pathID uint) ([]model.UserProgress, error) {
	var recs []model.UserProgress
	q := r.DB.Where("user_id = ?", userID)
	if pathID != 0 {
		q = q.Where("learning_path_id = ?", pathID)
	}
	err := q.Order("updated_at DESC").Find(&recs).Error
	return recs, err
}
