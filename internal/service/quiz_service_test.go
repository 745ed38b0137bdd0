package service

import (
	"context"
	"testing"

	"github.com/immxrtalbeast/classroom_live/internal/domain"
	"github.com/immxrtalbeast/classroom_live/internal/repository"
	"github.com/immxrtalbeast/classroom_live/internal/service/mocks"
	"github.com/immxrtalbeast/classroom_live/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
	"gorm.io/gorm"
)

type quizFixture struct {
	db     *gorm.DB
	svc    *QuizService
	events *repository.InMemoryQuizEventLog
	pub    *mocks.MockPublisher
	room   *domain.Room
	prof   *domain.Principal
}

func newQuizFixture(t *testing.T) *quizFixture {
	t.Helper()
	db := testutil.NewDB(t)
	pub := mocks.NewMockPublisher(gomock.NewController(t))
	events := repository.NewInMemoryQuizEventLog()
	svc := NewQuizService(
		repository.NewGormQuizRepository(db),
		repository.NewGormRoomRepository(db),
		events,
		pub,
		testutil.Logger(),
	)
	return &quizFixture{
		db:     db,
		svc:    svc,
		events: events,
		pub:    pub,
		room:   testutil.CreateRoom(t, db, "QUIZ01"),
		prof:   testutil.CreatePrincipal(t, db, domain.RoleProfessor, "prof"),
	}
}

func twoQuestionInput(roomID uint) QuizInput {
	return QuizInput{
		RoomID: roomID,
		Title:  "warm-up",
		Questions: []domain.Question{
			{Text: "first", Choices: []string{"A", "B", "C", "D"}, CorrectAnswer: "A"},
			{Text: "second", Choices: []string{"A", "B", "C", "D"}, CorrectAnswer: "C"},
		},
	}
}

func (f *quizFixture) createQuiz(t *testing.T) *domain.Quiz {
	t.Helper()
	f.pub.EXPECT().PublishToRoom(f.room.ID, domain.EventQuizCreated, gomock.Any())
	quiz, err := f.svc.CreateQuiz(context.Background(), f.prof.Member(), twoQuestionInput(f.room.ID))
	require.NoError(t, err)
	return quiz
}

func TestCreateQuizValidation(t *testing.T) {
	ctx := context.Background()
	f := newQuizFixture(t)
	stu := testutil.CreatePrincipal(t, f.db, domain.RoleStudent, "stu")

	_, err := f.svc.CreateQuiz(ctx, stu.Member(), twoQuestionInput(f.room.ID))
	assert.ErrorIs(t, err, domain.ErrForbidden)

	_, err = f.svc.CreateQuiz(ctx, f.prof.Member(), twoQuestionInput(999))
	assert.ErrorIs(t, err, domain.ErrNotFound)

	bad := twoQuestionInput(f.room.ID)
	bad.Questions[0].Choices = []string{"A", "B"}
	_, err = f.svc.CreateQuiz(ctx, f.prof.Member(), bad)
	assert.ErrorIs(t, err, domain.ErrBadRequest)

	bad = twoQuestionInput(f.room.ID)
	bad.Questions[1].CorrectAnswer = "Z"
	_, err = f.svc.CreateQuiz(ctx, f.prof.Member(), bad)
	assert.ErrorIs(t, err, domain.ErrBadRequest)
}

func TestSubmitGradesAndLogs(t *testing.T) {
	ctx := context.Background()
	f := newQuizFixture(t)
	quiz := f.createQuiz(t)
	stu := testutil.CreatePrincipal(t, f.db, domain.RoleStudent, "stu")

	_, err := f.svc.Submit(ctx, f.prof.Member(), quiz.ID, []string{"A", "C"})
	assert.ErrorIs(t, err, domain.ErrForbidden)

	_, err = f.svc.Submit(ctx, stu.Member(), quiz.ID, []string{"A"})
	require.ErrorIs(t, err, domain.ErrBadRequest)
	assert.Contains(t, err.Error(), "expected 2 answers, got 1")

	f.pub.EXPECT().PublishToRoom(f.room.ID, domain.EventQuizSubmitted, gomock.Any()).Times(2)

	result, err := f.svc.Submit(ctx, stu.Member(), quiz.ID, []string{"A", "B"})
	require.NoError(t, err)
	assert.Equal(t, 1, result.CorrectCount)
	assert.Equal(t, 2, result.TotalQuestions)

	result, err = f.svc.Submit(ctx, stu.Member(), quiz.ID, []string{"A", "C"})
	require.NoError(t, err)
	assert.Equal(t, 2, result.CorrectCount)

	subs, err := repository.NewGormQuizRepository(f.db).ListSubmissions(ctx, quiz.ID)
	require.NoError(t, err)
	require.Len(t, subs, 1)
	assert.Equal(t, []string{"A", "C"}, subs[0].Answers)

	logged := f.events.ListByRoom(f.room.ID)
	require.Len(t, logged, 3)
	assert.Equal(t, domain.QuizEventCreated, logged[0].Kind)
	assert.Equal(t, domain.QuizEventSubmitted, logged[2].Kind)
}

func TestScoreAndRanking(t *testing.T) {
	ctx := context.Background()
	f := newQuizFixture(t)
	quiz := f.createQuiz(t)
	s1 := testutil.CreatePrincipal(t, f.db, domain.RoleStudent, "s1")
	s2 := testutil.CreatePrincipal(t, f.db, domain.RoleStudent, "s2")

	empty, err := f.svc.Score(ctx, s1.Member(), quiz.ID)
	require.NoError(t, err)
	assert.Equal(t, 0, empty.TotalSubmissions)
	assert.Zero(t, empty.Questions[0].Choices[0].Rate)

	f.pub.EXPECT().PublishToRoom(f.room.ID, domain.EventQuizSubmitted, gomock.Any()).Times(2)
	_, err = f.svc.Submit(ctx, s1.Member(), quiz.ID, []string{"B", "C"})
	require.NoError(t, err)
	_, err = f.svc.Submit(ctx, s2.Member(), quiz.ID, []string{"A", "C"})
	require.NoError(t, err)

	score, err := f.svc.Score(ctx, s1.Member(), quiz.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, score.TotalSubmissions)
	assert.Equal(t, 1, score.CorrectCount)
	assert.Equal(t, 10, score.TotalScore)
	require.NotNil(t, score.Questions[0].MyAnswer)
	assert.Equal(t, "B", *score.Questions[0].MyAnswer)
	assert.InDelta(t, 0.5, score.Questions[0].Choices[0].Rate, 1e-9)
	assert.InDelta(t, 1.0, score.Questions[1].Choices[2].Rate, 1e-9)

	ranking, err := f.svc.Ranking(ctx, quiz.ID)
	require.NoError(t, err)
	require.Len(t, ranking, 2)
	assert.Equal(t, s2.ID, ranking[0].UserID)
	assert.Equal(t, 20, ranking[0].TotalScore)

	_, err = f.svc.Ranking(ctx, 999)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestRoomRankingSumsQuizzes(t *testing.T) {
	ctx := context.Background()
	f := newQuizFixture(t)

	_, err := f.svc.RoomRanking(ctx, f.room.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)

	q1 := f.createQuiz(t)
	q2 := f.createQuiz(t)
	s1 := testutil.CreatePrincipal(t, f.db, domain.RoleStudent, "s1")
	s2 := testutil.CreatePrincipal(t, f.db, domain.RoleStudent, "s2")

	f.pub.EXPECT().PublishToRoom(f.room.ID, domain.EventQuizSubmitted, gomock.Any()).Times(3)
	_, err = f.svc.Submit(ctx, s1.Member(), q1.ID, []string{"A", "C"})
	require.NoError(t, err)
	_, err = f.svc.Submit(ctx, s2.Member(), q1.ID, []string{"A", "B"})
	require.NoError(t, err)
	_, err = f.svc.Submit(ctx, s2.Member(), q2.ID, []string{"A", "C"})
	require.NoError(t, err)

	ranking, err := f.svc.RoomRanking(ctx, f.room.ID)
	require.NoError(t, err)
	require.Len(t, ranking, 2)
	assert.Equal(t, s2.ID, ranking[0].UserID)
	assert.Equal(t, 3, ranking[0].CorrectCount)
	assert.Equal(t, 30, ranking[0].TotalScore)
	assert.Equal(t, 20, ranking[1].TotalScore)
}

func TestUpdateQuizRules(t *testing.T) {
	ctx := context.Background()
	f := newQuizFixture(t)
	quiz := f.createQuiz(t)
	other := testutil.CreatePrincipal(t, f.db, domain.RoleProfessor, "other")
	stu := testutil.CreatePrincipal(t, f.db, domain.RoleStudent, "stu")

	in := twoQuestionInput(f.room.ID)
	in.Title = "renamed"

	_, err := f.svc.UpdateQuiz(ctx, other.Member(), quiz.ID, in)
	assert.ErrorIs(t, err, domain.ErrForbidden)

	updated, err := f.svc.UpdateQuiz(ctx, f.prof.Member(), quiz.ID, in)
	require.NoError(t, err)
	assert.Equal(t, "renamed", updated.Title)

	f.pub.EXPECT().PublishToRoom(f.room.ID, domain.EventQuizSubmitted, gomock.Any())
	_, err = f.svc.Submit(ctx, stu.Member(), quiz.ID, []string{"A", "C"})
	require.NoError(t, err)

	_, err = f.svc.UpdateQuiz(ctx, f.prof.Member(), quiz.ID, in)
	assert.ErrorIs(t, err, repository.ErrQuizHasSubmissions)
}

func TestListRoomQuizzesProfessorOnly(t *testing.T) {
	ctx := context.Background()
	f := newQuizFixture(t)
	f.createQuiz(t)
	stu := testutil.CreatePrincipal(t, f.db, domain.RoleStudent, "stu")

	_, err := f.svc.ListRoomQuizzes(ctx, stu.Member(), f.room.ID)
	assert.ErrorIs(t, err, domain.ErrForbidden)

	quizzes, err := f.svc.ListRoomQuizzes(ctx, f.prof.Member(), f.room.ID)
	require.NoError(t, err)
	assert.Len(t, quizzes, 1)
}
