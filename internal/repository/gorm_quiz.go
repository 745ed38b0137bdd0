package repository

import (
	"context"
	"errors"
	"time"

	"github.com/immxrtalbeast/classroom_live/internal/domain"
	"github.com/immxrtalbeast/classroom_live/internal/repository/model"
	"gorm.io/datatypes"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type GormQuizRepository struct {
	db *gorm.DB
}

func NewGormQuizRepository(db *gorm.DB) *GormQuizRepository {
	return &GormQuizRepository{db: db}
}

func (r *GormQuizRepository) Create(ctx context.Context, quiz *domain.Quiz) error {
	if quiz == nil {
		return errors.New("quiz is nil")
	}

	m := &model.Quiz{
		RoomID:    quiz.RoomID,
		CreatorID: quiz.CreatorID,
		Title:     quiz.Title,
		Questions: toModelQuestions(quiz.Questions),
	}
	if err := r.db.WithContext(ctx).Create(m).Error; err != nil {
		return err
	}

	quiz.ID = m.ID
	quiz.CreatedAt = m.CreatedAt.UTC()
	quiz.Questions = toDomainQuestions(m.Questions)
	return nil
}

func (r *GormQuizRepository) GetByID(ctx context.Context, id uint) (*domain.Quiz, error) {
	var quiz model.Quiz
	if err := r.withQuestions(ctx).First(&quiz, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrQuizNotFound
		}
		return nil, err
	}
	return toDomainQuiz(&quiz), nil
}

func (r *GormQuizRepository) ReplaceContent(ctx context.Context, quiz *domain.Quiz) error {
	if quiz == nil {
		return errors.New("quiz is nil")
	}

	var questions []model.Question
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Select("id").First(&model.Quiz{}, quiz.ID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrQuizNotFound
			}
			return err
		}

		var submissions int64
		if err := tx.Model(&model.Submission{}).Where("quiz_id = ?", quiz.ID).Count(&submissions).Error; err != nil {
			return err
		}
		if submissions > 0 {
			return ErrQuizHasSubmissions
		}

		if err := tx.Model(&model.Quiz{}).Where("id = ?", quiz.ID).Update("title", quiz.Title).Error; err != nil {
			return err
		}
		if err := tx.Where("quiz_id = ?", quiz.ID).Delete(&model.Question{}).Error; err != nil {
			return err
		}

		questions = toModelQuestions(quiz.Questions)
		for i := range questions {
			questions[i].QuizID = quiz.ID
		}
		if len(questions) == 0 {
			return nil
		}
		return tx.Create(&questions).Error
	})
	if err != nil {
		return err
	}

	quiz.Questions = toDomainQuestions(questions)
	return nil
}

func (r *GormQuizRepository) ListByRoom(ctx context.Context, roomID uint) ([]*domain.Quiz, error) {
	var quizzes []model.Quiz
	if err := r.withQuestions(ctx).Where("room_id = ?", roomID).Order("created_at, id").Find(&quizzes).Error; err != nil {
		return nil, err
	}

	result := make([]*domain.Quiz, 0, len(quizzes))
	for i := range quizzes {
		result = append(result, toDomainQuiz(&quizzes[i]))
	}
	return result, nil
}

// UpsertSubmission keeps a single row per (quiz, user); resubmitting
// overwrites the answers.
func (r *GormQuizRepository) UpsertSubmission(ctx context.Context, sub *domain.Submission) error {
	if sub == nil {
		return errors.New("submission is nil")
	}

	now := time.Now().UTC()
	m := &model.Submission{
		QuizID:    sub.QuizID,
		UserID:    sub.User.UserID,
		Answers:   datatypes.JSONSlice[string](sub.Answers),
		CreatedAt: now,
		UpdatedAt: now,
	}
	err := r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "quiz_id"}, {Name: "user_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"answers", "updated_at"}),
	}).Create(m).Error
	if err != nil {
		return err
	}

	sub.UpdatedAt = now
	return nil
}

func (r *GormQuizRepository) ListSubmissions(ctx context.Context, quizID uint) ([]domain.Submission, error) {
	var subs []model.Submission
	err := r.db.WithContext(ctx).
		Joins("User").
		Where("submissions.quiz_id = ?", quizID).
		Order("submissions.id").
		Find(&subs).Error
	if err != nil {
		return nil, err
	}

	result := make([]domain.Submission, 0, len(subs))
	for i := range subs {
		s := &subs[i]
		result = append(result, domain.Submission{
			ID:        s.ID,
			QuizID:    s.QuizID,
			User:      toMember(&s.User),
			Answers:   []string(s.Answers),
			CreatedAt: s.CreatedAt.UTC(),
			UpdatedAt: s.UpdatedAt.UTC(),
		})
	}
	return result, nil
}

func (r *GormQuizRepository) withQuestions(ctx context.Context) *gorm.DB {
	return r.db.WithContext(ctx).
		Preload("Questions", func(db *gorm.DB) *gorm.DB { return db.Order("id") })
}

func toModelQuestions(questions []domain.Question) []model.Question {
	result := make([]model.Question, 0, len(questions))
	for _, q := range questions {
		result = append(result, model.Question{
			Question:      q.Text,
			Choices:       datatypes.JSONSlice[string](q.Choices),
			CorrectAnswer: q.CorrectAnswer,
		})
	}
	return result
}

func toDomainQuestions(questions []model.Question) []domain.Question {
	result := make([]domain.Question, 0, len(questions))
	for _, q := range questions {
		result = append(result, domain.Question{
			ID:            q.ID,
			QuizID:        q.QuizID,
			Text:          q.Question,
			Choices:       []string(q.Choices),
			CorrectAnswer: q.CorrectAnswer,
		})
	}
	return result
}

func toDomainQuiz(q *model.Quiz) *domain.Quiz {
	return &domain.Quiz{
		ID:        q.ID,
		RoomID:    q.RoomID,
		CreatorID: q.CreatorID,
		Title:     q.Title,
		CreatedAt: q.CreatedAt.UTC(),
		Questions: toDomainQuestions(q.Questions),
	}
}
