package converter

import (
	"time"

	"github.com/immxrtalbeast/classroom_live/internal/domain"
)

type QuestionResponse struct {
	ID            uint     `json:"id"`
	QuizID        uint     `json:"quizId"`
	Question      string   `json:"question"`
	Choices       []string `json:"choices"`
	CorrectAnswer string   `json:"correctAnswer,omitempty"`
}

type QuizResponse struct {
	ID        uint               `json:"id"`
	RoomID    uint               `json:"roomId"`
	CreatorID uint               `json:"creatorId"`
	Title     string             `json:"title"`
	CreatedAt time.Time          `json:"createdAt"`
	Questions []QuestionResponse `json:"questions"`
}

// QuizToApi lists questions in grading order. Correct answers are only
// included when reveal is set.
func QuizToApi(q *domain.Quiz, reveal bool) *QuizResponse {
	questions := q.OrderedQuestions()
	resp := &QuizResponse{
		ID:        q.ID,
		RoomID:    q.RoomID,
		CreatorID: q.CreatorID,
		Title:     q.Title,
		CreatedAt: q.CreatedAt,
		Questions: make([]QuestionResponse, 0, len(questions)),
	}
	for _, question := range questions {
		qr := QuestionResponse{
			ID:       question.ID,
			QuizID:   question.QuizID,
			Question: question.Text,
			Choices:  question.Choices,
		}
		if reveal {
			qr.CorrectAnswer = question.CorrectAnswer
		}
		resp.Questions = append(resp.Questions, qr)
	}
	return resp
}

func QuizzesToApi(quizzes []*domain.Quiz, reveal bool) []*QuizResponse {
	result := make([]*QuizResponse, 0, len(quizzes))
	for _, q := range quizzes {
		result = append(result, QuizToApi(q, reveal))
	}
	return result
}
