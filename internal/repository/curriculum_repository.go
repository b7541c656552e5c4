package repository

import (
	"errors"

	"alifbe_backend/internal/model"

	"gorm.io/gorm"
)

type CurriculumRepository struct {
	DB *gorm.DB
}

func NewCurriculumRepository(db *gorm.DB) *CurriculumRepository {
	return &CurriculumRepository{DB: db}
}

func (r *CurriculumRepository) FindPathByKey(key string) (*model.LearningPath, error) {
	var path model.LearningPath
	err := r.DB.
		Preload("Modules", func(db *gorm.DB) *gorm.DB {
			return db.Order("modules.order_index ASC")
		}).
		Preload("Modules.Lessons", func(db *gorm.DB) *gorm.DB {
			return db.Order("lessons.order_index ASC")
		}).
		Preload("Skills", func(db *gorm.DB) *gorm.DB {
			return db.Order("skills.order_index ASC")
		}).
		Preload("Skills.Activities").
		Where("`key` = ? AND is_active = ?", key, true).
		First(&path).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &path, nil
}

func (r *CurriculumRepository) ListActivePaths() ([]model.LearningPath, error) {
	var paths []model.LearningPath
	err := r.DB.
		Preload("Modules", func(db *gorm.DB) *gorm.DB {
			return db.Order("modules.order_index ASC")
		}).
		Preload("Modules.Lessons", func(db *gorm.DB) *gorm.DB {
			return db.Order("lessons.order_index ASC")
		}).
		Where("is_active = ?", true).
		Order("order_index ASC").
		Find(&paths).Error
	return paths, err
}

func (r *CurriculumRepository) FindLessonByID(id uint) (*model.Lesson, error) {
	var lesson model.Lesson
	err := r.DB.
		Preload("Module").
		Preload("Prompts").
		First(&lesson, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &lesson, nil
}

func (r *CurriculumRepository) FindModuleByID(id uint) (*model.Module, error) {
	var module model.Module
	err := r.DB.
		Preload("Lessons", func(db *gorm.DB) *gorm.DB {
			return db.Order("lessons.order_index ASC")
		}).
		First(&module, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &module, nil
}

// UpsertPath replaces the path's content tree keyed by (path key, module key,
// lesson key). Existing IDs are reused so learner progress rows keep their
// lesson references.
func (r *CurriculumRepository) UpsertPath(path *model.LearningPath) error {
	return r.DB.Transaction(func(tx *gorm.DB) error {
		var existing model.LearningPath
		err := tx.Where("`key` = ?", path.Key).First(&existing).Error
		switch {
		case errors.Is(err, gorm.ErrRecordNotFound):
			return tx.Create(path).Error
		case err != nil:
			return err
		}

		path.ID = existing.ID
		path.CreatedAt = existing.CreatedAt
		existing.Title = path.Title
		existing.Description = path.Description
		existing.Difficulty = path.Difficulty
		existing.OrderIndex = path.OrderIndex
		existing.IsActive = path.IsActive
		if err := tx.Save(&existing).Error; err != nil {
			return err
		}

		for mi := range path.Modules {
			module := &path.Modules[mi]
			module.LearningPathID = path.ID
			if err := upsertModule(tx, module); err != nil {
				return err
			}
		}
		return nil
	})
}

func upsertModule(tx *gorm.DB, module *model.Module) error {
	var existing model.Module
	err := tx.Where("learning_path_id = ? AND `key` = ?", module.LearningPathID, module.Key).
		First(&existing).Error
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		return tx.Create(module).Error
	case err != nil:
		return err
	}

	module.ID = existing.ID
	existing.Title = module.Title
	existing.Description = module.Description
	existing.ModuleType = module.ModuleType
	existing.OrderIndex = module.OrderIndex
	existing.IsUnlockedByDefault = module.IsUnlockedByDefault
	if err := tx.Save(&existing).Error; err != nil {
		return err
	}

	for li := range module.Lessons {
		lesson := &module.Lessons[li]
		lesson.ModuleID = module.ID
		if err := upsertLesson(tx, lesson); err != nil {
			return err
		}
	}
	return nil
}

func upsertLesson(tx *gorm.DB, lesson *model.Lesson) error {
	var existing model.Lesson
	err := tx.Where("module_id = ? AND `key` = ?", lesson.ModuleID, lesson.Key).
		First(&existing).Error
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		return tx.Create(lesson).Error
	case err != nil:
		return err
	}

	lesson.ID = existing.ID
	existing.Title = lesson.Title
	existing.Description = lesson.Description
	existing.LessonType = lesson.LessonType
	existing.TargetLetter = lesson.TargetLetter
	existing.TargetSound = lesson.TargetSound
	existing.Difficulty = lesson.Difficulty
	existing.OrderIndex = lesson.OrderIndex
	existing.XPReward = lesson.XPReward
	existing.ExampleWords = lesson.ExampleWords
	if err := tx.Save(&existing).Error; err != nil {
		return err
	}

	if len(lesson.Prompts) == 0 {
		return nil
	}
	// Prompts are replaced wholesale; they carry no learner state.
	if err := tx.Where("lesson_id = ?", lesson.ID).Delete(&model.LessonPrompt{}).Error; err != nil {
		return err
	}
	for pi := range lesson.Prompts {
		lesson.Prompts[pi].ID = 0
		lesson.Prompts[pi].LessonID = lesson.ID
	}
	return tx.Create(&lesson.Prompts).Error
}
