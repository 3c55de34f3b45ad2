package repository

import (
	"context"
	"errors"
	"fmt"

	"forum/backend/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// TopicFilter narrows topic listings. Zero values match everything.
type TopicFilter struct {
	CourseName string
}

// TopicRepository defines the data operations on topics.
type TopicRepository interface {
	FindAll(ctx context.Context, filter TopicFilter, page PageRequest) ([]models.Topic, int64, error)
	// FindByID loads the topic with its author, course and answers.
	FindByID(ctx context.Context, id uint) (*models.Topic, error)
	Create(ctx context.Context, topic *models.Topic) error
	// Update writes the title and message of an existing topic.
	Update(ctx context.Context, topic *models.Topic) error
	// Delete removes the topic and its answers.
	Delete(ctx context.Context, id uint) error
	// AddAnswer stores answer and marks an unanswered topic as unsolved.
	AddAnswer(ctx context.Context, answer *models.Answer) error
}

type gormTopicRepository struct {
	db *gorm.DB
}

func NewGormTopicRepository(db *gorm.DB) TopicRepository {
	return &gormTopicRepository{db: db}
}

func (r *gormTopicRepository) FindAll(ctx context.Context, filter TopicFilter, page PageRequest) ([]models.Topic, int64, error) {
	query := r.db.WithContext(ctx).Model(&models.Topic{})
	if filter.CourseName != "" {
		courses := r.db.Model(&models.Course{}).Select("id").Where("name = ?", filter.CourseName)
		query = query.Where("course_id IN (?)", courses)
	}
	// Count and Find each get their own copy of the statement.
	query = query.Session(&gorm.Session{})

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("count topics: %w", err)
	}

	for _, s := range page.Sort {
		query = query.Order(clause.OrderByColumn{Column: clause.Column{Name: s.Column}, Desc: s.Desc})
	}

	var topics []models.Topic
	if err := query.Offset(page.Offset()).Limit(page.Size).Find(&topics).Error; err != nil {
		return nil, 0, fmt.Errorf("find topics: %w", err)
	}
	return topics, total, nil
}

func (r *gormTopicRepository) FindByID(ctx context.Context, id uint) (*models.Topic, error) {
	var topic models.Topic
	err := r.db.WithContext(ctx).
		Preload("Author").
		Preload("Course").
		Preload("Answers", func(db *gorm.DB) *gorm.DB { return db.Order("created_at, id") }).
		Preload("Answers.Author").
		First(&topic, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("find topic %d: %w", id, err)
	}
	return &topic, nil
}

func (r *gormTopicRepository) Create(ctx context.Context, topic *models.Topic) error {
	if topic.Status == "" {
		topic.Status = models.StatusUnanswered
	}
	return r.db.WithContext(ctx).Omit(clause.Associations).Create(topic).Error
}

func (r *gormTopicRepository) Update(ctx context.Context, topic *models.Topic) error {
	result := r.db.WithContext(ctx).Model(&models.Topic{ID: topic.ID}).
		Select("title", "message").
		Updates(models.Topic{Title: topic.Title, Message: topic.Message})
	if result.Error != nil {
		return fmt.Errorf("update topic %d: %w", topic.ID, result.Error)
	}
	return nil
}

func (r *gormTopicRepository) Delete(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("topic_id = ?", id).Delete(&models.Answer{}).Error; err != nil {
			return fmt.Errorf("delete answers of topic %d: %w", id, err)
		}
		result := tx.Delete(&models.Topic{}, id)
		if result.Error != nil {
			return fmt.Errorf("delete topic %d: %w", id, result.Error)
		}
		if result.RowsAffected == 0 {
			return ErrNotFound
		}
		return nil
	})
}

func (r *gormTopicRepository) AddAnswer(ctx context.Context, answer *models.Answer) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var topic models.Topic
		if err := tx.Select("id", "status").First(&topic, answer.TopicID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrNotFound
			}
			return fmt.Errorf("find topic %d: %w", answer.TopicID, err)
		}

		if err := tx.Omit(clause.Associations).Create(answer).Error; err != nil {
			return fmt.Errorf("create answer: %w", err)
		}

		if topic.Status == models.StatusUnanswered {
			err := tx.Model(&topic).Update("status", models.StatusUnsolved).Error
			if err != nil {
				return fmt.Errorf("update topic %d status: %w", topic.ID, err)
			}
		}
		return nil
	})
}
