package service

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/immxrtalbeast/classroom_live/internal/domain"
	"github.com/immxrtalbeast/classroom_live/internal/repository"
	"github.com/immxrtalbeast/classroom_live/lib/logger/sl"
)

type QuizInput struct {
	RoomID    uint
	Title     string
	Questions []domain.Question
}

type QuizService struct {
	quizzes   repository.QuizRepository
	rooms     repository.RoomRepository
	events    repository.QuizEventLog
	publisher Publisher
	log       *slog.Logger
	now       func() time.Time
}

func NewQuizService(
	quizzes repository.QuizRepository,
	rooms repository.RoomRepository,
	events repository.QuizEventLog,
	publisher Publisher,
	log *slog.Logger,
) *QuizService {
	if log == nil {
		log = slog.Default()
	}
	return &QuizService{
		quizzes:   quizzes,
		rooms:     rooms,
		events:    events,
		publisher: publisherOrNoop(publisher),
		log:       log,
		now:       time.Now,
	}
}

func (s *QuizService) CreateQuiz(ctx context.Context, actor domain.Member, in QuizInput) (*domain.Quiz, error) {
	const op = "service.quiz.create"
	log := s.log.With(slog.String("op", op), slog.Uint64("room_id", uint64(in.RoomID)))

	if actor.Role != domain.RoleProfessor {
		return nil, fmt.Errorf("%w: only professors can create quizzes", domain.ErrForbidden)
	}
	if _, err := s.rooms.GetByID(ctx, in.RoomID); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	quiz := &domain.Quiz{
		RoomID:    in.RoomID,
		CreatorID: actor.UserID,
		Title:     strings.TrimSpace(in.Title),
		Questions: in.Questions,
	}
	if err := quiz.Validate(); err != nil {
		return nil, err
	}

	if err := s.quizzes.Create(ctx, quiz); err != nil {
		log.Error("failed to create quiz", sl.Err(err))
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	log.Info("quiz created", slog.Uint64("quiz_id", uint64(quiz.ID)), slog.Int("questions", len(quiz.Questions)))
	s.notify(quiz, domain.QuizEventCreated, actor, domain.EventQuizCreated)
	return quiz, nil
}

// UpdateQuiz replaces title and questions. Only the creator may do it and only
// while nobody has submitted.
func (s *QuizService) UpdateQuiz(ctx context.Context, actor domain.Member, quizID uint, in QuizInput) (*domain.Quiz, error) {
	const op = "service.quiz.update"
	log := s.log.With(slog.String("op", op), slog.Uint64("quiz_id", uint64(quizID)))

	if actor.Role != domain.RoleProfessor {
		return nil, fmt.Errorf("%w: only professors can update quizzes", domain.ErrForbidden)
	}

	quiz, err := s.quizzes.GetByID(ctx, quizID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if quiz.CreatorID != actor.UserID {
		return nil, fmt.Errorf("%w: only the quiz creator can update it", domain.ErrForbidden)
	}

	quiz.Title = strings.TrimSpace(in.Title)
	quiz.Questions = in.Questions
	if err := quiz.Validate(); err != nil {
		return nil, err
	}

	if err := s.quizzes.ReplaceContent(ctx, quiz); err != nil {
		log.Info("failed to update quiz", sl.Err(err))
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return quiz, nil
}

func (s *QuizService) GetQuiz(ctx context.Context, quizID uint) (*domain.Quiz, error) {
	const op = "service.quiz.get"

	quiz, err := s.quizzes.GetByID(ctx, quizID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return quiz, nil
}

func (s *QuizService) ListRoomQuizzes(ctx context.Context, actor domain.Member, roomID uint) ([]*domain.Quiz, error) {
	const op = "service.quiz.listRoom"

	if actor.Role != domain.RoleProfessor {
		return nil, fmt.Errorf("%w: only professors can list quizzes", domain.ErrForbidden)
	}
	if _, err := s.rooms.GetByID(ctx, roomID); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	quizzes, err := s.quizzes.ListByRoom(ctx, roomID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return quizzes, nil
}

// Submit grades the answers and stores them as the actor's only submission.
func (s *QuizService) Submit(ctx context.Context, actor domain.Member, quizID uint, answers []string) (*domain.GradeResult, error) {
	const op = "service.quiz.submit"
	log := s.log.With(slog.String("op", op), slog.Uint64("quiz_id", uint64(quizID)), slog.Uint64("user_id", uint64(actor.UserID)))

	if actor.Role != domain.RoleStudent {
		return nil, fmt.Errorf("%w: only students can submit quizzes", domain.ErrForbidden)
	}

	quiz, err := s.quizzes.GetByID(ctx, quizID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	result, err := domain.Grade(quiz, actor.UserID, answers)
	if err != nil {
		return nil, err
	}

	sub := &domain.Submission{QuizID: quiz.ID, User: actor, Answers: answers}
	if err := s.quizzes.UpsertSubmission(ctx, sub); err != nil {
		log.Error("failed to save submission", sl.Err(err))
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	log.Info("quiz submitted", slog.Int("correct", result.CorrectCount), slog.Int("total", result.TotalQuestions))
	s.notify(quiz, domain.QuizEventSubmitted, actor, domain.EventQuizSubmitted)
	return result, nil
}

func (s *QuizService) Score(ctx context.Context, actor domain.Member, quizID uint) (*domain.QuizScore, error) {
	const op = "service.quiz.score"

	quiz, err := s.quizzes.GetByID(ctx, quizID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	subs, err := s.quizzes.ListSubmissions(ctx, quizID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return domain.Score(quiz, subs, actor.UserID), nil
}

func (s *QuizService) Ranking(ctx context.Context, quizID uint) ([]domain.RankingEntry, error) {
	const op = "service.quiz.ranking"

	quiz, err := s.quizzes.GetByID(ctx, quizID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	subs, err := s.quizzes.ListSubmissions(ctx, quizID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return domain.Rank(quiz, subs), nil
}

func (s *QuizService) RoomRanking(ctx context.Context, roomID uint) ([]domain.RankingEntry, error) {
	const op = "service.quiz.roomRanking"

	quizzes, err := s.quizzes.ListByRoom(ctx, roomID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if len(quizzes) == 0 {
		return nil, fmt.Errorf("%w: room has no quizzes", domain.ErrNotFound)
	}

	all := make([]domain.Quiz, 0, len(quizzes))
	subs := make(map[uint][]domain.Submission, len(quizzes))
	for _, q := range quizzes {
		list, err := s.quizzes.ListSubmissions(ctx, q.ID)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		all = append(all, *q)
		subs[q.ID] = list
	}
	return domain.RankRoom(all, subs), nil
}

func (s *QuizService) notify(quiz *domain.Quiz, kind domain.QuizEventKind, actor domain.Member, event string) {
	entry := domain.QuizEvent{
		RoomID: quiz.RoomID,
		QuizID: quiz.ID,
		Kind:   kind,
		Actor:  actor,
		At:     s.now().UTC(),
	}
	s.events.Append(entry)
	s.publisher.PublishToRoom(quiz.RoomID, event, domain.NewQuizEventView(&entry, quiz.Title))
}
