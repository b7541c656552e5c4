package repository

import (
	"time"

	"alifbe_backend/internal/model"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type AchievementRepository struct {
	DB *gorm.DB
}

func NewAchievementRepository(db *gorm.DB) *AchievementRepository {
	return &AchievementRepository{DB: db}
}

func (r *AchievementRepository) ListActive() ([]model.Achievement, error) {
	var achievements []model.Achievement
	err := r.DB.Where("is_active = ?", true).Find(&achievements).Error
	return achievements, err
}

// Award inserts the link row once; the unique (user, achievement) index plus
// ON CONFLICT DO NOTHING makes repeat awards a no-op.
func (r *AchievementRepository) Award(userID, achievementID uint) (bool, error) {
	ua := model.UserAchievement{
		UserID:        userID,
		AchievementID: achievementID,
		AwardedAt:     time.Now(),
	}
	res := r.DB.Clauses(clause.OnConflict{DoNothing: true}).Create(&ua)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected == 1, nil
}

func (r *AchievementRepository) ListByUser(userID uint) ([]model.UserAchievement, error) {
	var earned []model.UserAchievement
	err := r.DB.Preload("Achievement").
		Where("user_id = ?", userID).
		Order("awarded_at DESC").
		Find(&earned).Error
	return earned, err
}
