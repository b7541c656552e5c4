package repository

import (
	"errors"

	"alifbe_backend/internal/model"

	"gorm.io/gorm"
)

type SkillRepository struct {
	DB *gorm.DB
}

func NewSkillRepository(db *gorm.DB) *SkillRepository {
	return &SkillRepository{DB: db}
}

func (r *SkillRepository) FindSkillByKey(pathID uint, key string) (*model.Skill, error) {
	var skill model.Skill
	err := r.DB.
		Preload("Activities", func(db *gorm.DB) *gorm.DB {
			return db.Order("skill_activities.id ASC")
		}).
		Where("learning_path_id = ? AND `key` = ?", pathID, key).
		First(&skill).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &skill, nil
}

func (r *SkillRepository) FindActivityByID(id uint) (*model.SkillActivity, error) {
	var activity model.SkillActivity
	err := r.DB.First(&activity, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &activity, nil
}

// UpsertSkill replaces the skill keyed by (path, key); activities are
// replaced wholesale since they carry no learner state.
func (r *SkillRepository) UpsertSkill(skill *model.Skill) error {
	return r.DB.Transaction(func(tx *gorm.DB) error {
		var existing model.Skill
		err := tx.Where("learning_path_id = ? AND `key` = ?", skill.LearningPathID, skill.Key).
			First(&existing).Error
		switch {
		case errors.Is(err, gorm.ErrRecordNotFound):
			return tx.Create(skill).Error
		case err != nil:
			return err
		}

		skill.ID = existing.ID
		existing.Title = skill.Title
		existing.Description = skill.Description
		existing.SkillType = skill.SkillType
		existing.OrderIndex = skill.OrderIndex
		if err := tx.Save(&existing).Error; err != nil {
			return err
		}

		if len(skill.Activities) == 0 {
			return nil
		}
		if err := tx.Where("skill_id = ?", skill.ID).Delete(&model.SkillActivity{}).Error; err != nil {
			return err
		}
		for i := range skill.Activities {
			skill.Activities[i].ID = 0
			skill.Activities[i].SkillID = skill.ID
		}
		return tx.Create(&skill.Activities).Error
	})
}
