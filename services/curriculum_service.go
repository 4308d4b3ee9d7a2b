// services/curriculum_service.go - Curriculum Catalog Access
package services

import (
	"errors"
	"math/rand"

	"github.com/PedroCidro/TriMathLon-sub002/models"
	"gorm.io/gorm"
)

type CurriculumService struct {
	db *gorm.DB
}

func NewCurriculumService(db *gorm.DB) *CurriculumService {
	return &CurriculumService{db: db}
}

// GetModule loads an active module by id
func (s *CurriculumService) GetModule(id string) (*models.Module, error) {
	var module models.Module
	err := s.db.Where("id = ? AND is_active = ?", id, true).First(&module).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, validationErrorf("unknown module %q", id)
		}
		return nil, err
	}
	return &module, nil
}

// TopicsForModule lists a module's topics
func (s *CurriculumService) TopicsForModule(moduleID string) ([]models.Topic, error) {
	var topics []models.Topic
	err := s.db.Where("module_id = ?", moduleID).Order("id").Find(&topics).Error
	return topics, err
}

// ListModules returns all active modules with topics preloaded
func (s *CurriculumService) ListModules() ([]models.Module, error) {
	var modules []models.Module
	err := s.db.Where("is_active = ?", true).Preload("Topics").Order("id").Find(&modules).Error
	return modules, err
}

// ValidateSelection checks the requested topics against the module catalog
// and returns the module so callers can read its configured duration
func (s *CurriculumService) ValidateSelection(moduleID string, topicIDs []string) (*models.Module, error) {
	module, err := s.GetModule(moduleID)
	if err != nil {
		return nil, err
	}

	topics, err := s.TopicsForModule(moduleID)
	if err != nil {
		return nil, err
	}

	if err := ValidateTopicSelection(module, topics, topicIDs); err != nil {
		return nil, err
	}
	return module, nil
}

// PickQuestionIDs selects up to limit active questions from the given topics,
// shuffled once. The returned order is what gets frozen onto the challenge;
// it is never reshuffled afterwards.
func (s *CurriculumService) PickQuestionIDs(topicIDs []string, limit int) ([]uint, error) {
	var ids []uint
	err := s.db.Model(&models.Question{}).
		Where("topic_id IN ? AND is_active = ?", topicIDs, true).
		Pluck("id", &ids).Error
	if err != nil {
		return nil, err
	}

	if len(ids) < MinQuestionsPerChallenge {
		return nil, validationErrorf("only %d eligible questions, need at least %d", len(ids), MinQuestionsPerChallenge)
	}

	rand.Shuffle(len(ids), func(i, j int) {
		ids[i], ids[j] = ids[j], ids[i]
	})

	if limit > 0 && len(ids) > limit {
		ids = ids[:limit]
	}
	return ids, nil
}

// QuestionsInOrder loads the frozen sequence preserving its original order
func (s *CurriculumService) QuestionsInOrder(ids []uint) ([]models.Question, error) {
	var questions []models.Question
	if err := s.db.Where("id IN ?", ids).Find(&questions).Error; err != nil {
		return nil, err
	}

	byID := make(map[uint]models.Question, len(questions))
	for _, q := range questions {
		byID[q.ID] = q
	}

	ordered := make([]models.Question, 0, len(ids))
	for _, id := range ids {
		if q, ok := byID[id]; ok {
			ordered = append(ordered, q)
		}
	}
	return ordered, nil
}
