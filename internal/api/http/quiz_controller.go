package http

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/immxrtalbeast/classroom_live/internal/api/http/converter"
	"github.com/immxrtalbeast/classroom_live/internal/domain"
	"github.com/immxrtalbeast/classroom_live/internal/service"
)

type QuizController struct {
	quizzes service.QuizInteractor
}

func NewQuizController(quizzes service.QuizInteractor) *QuizController {
	return &QuizController{quizzes: quizzes}
}

type questionRequest struct {
	Question      string   `json:"question" binding:"required"`
	Choices       []string `json:"choices" binding:"required"`
	CorrectAnswer string   `json:"correctAnswer" binding:"required"`
}

type quizRequest struct {
	RoomID    uint              `json:"roomId"`
	Title     string            `json:"title" binding:"required"`
	Questions []questionRequest `json:"questions" binding:"required,dive"`
}

func (r quizRequest) input() service.QuizInput {
	in := service.QuizInput{
		RoomID:    r.RoomID,
		Title:     r.Title,
		Questions: make([]domain.Question, 0, len(r.Questions)),
	}
	for _, q := range r.Questions {
		in.Questions = append(in.Questions, domain.Question{
			Text:          q.Question,
			Choices:       q.Choices,
			CorrectAnswer: q.CorrectAnswer,
		})
	}
	return in
}

func (c *QuizController) Create(ctx *gin.Context) {
	var req quizRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		badRequest(ctx, "invalid request body", err)
		return
	}
	if req.RoomID == 0 {
		badRequest(ctx, "roomId is required", nil)
		return
	}

	quiz, err := c.quizzes.CreateQuiz(ctx.Request.Context(), mustPrincipal(ctx).Member(), req.input())
	if err != nil {
		writeError(ctx, err)
		return
	}
	ctx.JSON(http.StatusCreated, converter.QuizToApi(quiz, true))
}

func (c *QuizController) Update(ctx *gin.Context) {
	quizID, ok := uintParam(ctx, "quizID")
	if !ok {
		return
	}

	var req quizRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		badRequest(ctx, "invalid request body", err)
		return
	}

	quiz, err := c.quizzes.UpdateQuiz(ctx.Request.Context(), mustPrincipal(ctx).Member(), quizID, req.input())
	if err != nil {
		writeError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, converter.QuizToApi(quiz, true))
}

// Get hides correct answers from everyone but professors.
func (c *QuizController) Get(ctx *gin.Context) {
	quizID, ok := uintParam(ctx, "quizID")
	if !ok {
		return
	}

	quiz, err := c.quizzes.GetQuiz(ctx.Request.Context(), quizID)
	if err != nil {
		writeError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, converter.QuizToApi(quiz, mustPrincipal(ctx).Role == domain.RoleProfessor))
}

func (c *QuizController) Submit(ctx *gin.Context) {
	quizID, ok := uintParam(ctx, "quizID")
	if !ok {
		return
	}

	type request struct {
		Answers []string `json:"answers" binding:"required"`
	}
	var req request
	if err := ctx.ShouldBindJSON(&req); err != nil {
		badRequest(ctx, "invalid request body", err)
		return
	}

	result, err := c.quizzes.Submit(ctx.Request.Context(), mustPrincipal(ctx).Member(), quizID, req.Answers)
	if err != nil {
		writeError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, result)
}

func (c *QuizController) Score(ctx *gin.Context) {
	quizID, ok := uintParam(ctx, "quizID")
	if !ok {
		return
	}

	score, err := c.quizzes.Score(ctx.Request.Context(), mustPrincipal(ctx).Member(), quizID)
	if err != nil {
		writeError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, score)
}

func (c *QuizController) Ranking(ctx *gin.Context) {
	quizID, ok := uintParam(ctx, "quizID")
	if !ok {
		return
	}

	ranking, err := c.quizzes.Ranking(ctx.Request.Context(), quizID)
	if err != nil {
		writeError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, gin.H{"ranking": ranking})
}
