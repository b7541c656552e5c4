package repository

import (
	"alifbe_backend/internal/model"

	"gorm.io/gorm"
)

type AttemptRepository struct {
	DB *gorm.DB
}

func NewAttemptRepository(db *gorm.DB) *AttemptRepository {
	return &AttemptRepository{DB: db}
}

func (r *AttemptRepository) Create(att *model.LessonAttempt) error {
	return r.DB.Create(att).Error
}

func (r *AttemptRepository) ListByUserAndLesson(userID, lessonID uint, limit int) ([]model.LessonAttempt, error) {
	var attempts []model.LessonAttempt
	q := r.DB.Where("user_id = ? AND lesson_id = ?", userID, lessonID).
		Order("created_at DESC")
	if limit > 0 {
		q = q.Limit(limit)
	}
	err := q.Find(&attempts).Error
	return attempts, err
}

func (r *AttemptRepository) ListRecentByUser(userID uint, limit int) ([]model.LessonAttempt, error) {
	var attempts []model.LessonAttempt
	q := r.DB.Where("user_id = ?", userID).Order("created_at DESC")
	if limit > 0 {
		q = q.Limit(limit)
	}
	err := q.Find(&attempts).Error
	return attempts, err
}
