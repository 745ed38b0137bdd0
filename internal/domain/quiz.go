package domain

import (
	"fmt"
	"slices"
	"sort"
	"strings"
	"time"
)

const (
	ChoicesPerQuestion = 4
	PointsPerCorrect   = 10
)

type Question struct {
	ID            uint
	QuizID        uint
	Text          string
	Choices       []string
	CorrectAnswer string
}

func (q *Question) Validate() error {
	if strings.TrimSpace(q.Text) == "" {
		return fmt.Errorf("%w: question text is required", ErrBadRequest)
	}
	if len(q.Choices) != ChoicesPerQuestion {
		return fmt.Errorf("%w: question must have exactly %d choices, got %d", ErrBadRequest, ChoicesPerQuestion, len(q.Choices))
	}
	if !slices.Contains(q.Choices, q.CorrectAnswer) {
		return fmt.Errorf("%w: correct answer must be one of the choices", ErrBadRequest)
	}
	return nil
}

type Quiz struct {
	ID        uint
	RoomID    uint
	CreatorID uint
	Title     string
	CreatedAt time.Time
	Questions []Question
}

func (q *Quiz) Validate() error {
	if strings.TrimSpace(q.Title) == "" {
		return fmt.Errorf("%w: quiz title is required", ErrBadRequest)
	}
	if len(q.Questions) == 0 {
		return fmt.Errorf("%w: quiz needs at least one question", ErrBadRequest)
	}
	for i := range q.Questions {
		if err := q.Questions[i].Validate(); err != nil {
			return fmt.Errorf("question %d: %w", i+1, err)
		}
	}
	return nil
}

// OrderedQuestions returns the questions sorted by ascending ID. Submission
// answers align positionally with this order.
func (q *Quiz) OrderedQuestions() []Question {
	ordered := slices.Clone(q.Questions)
	sort.SliceStable(ordered, func(i, j int) bool { return ordered[i].ID < ordered[j].ID })
	return ordered
}

// Submission is one user's answer set for a quiz; resubmitting overwrites it.
type Submission struct {
	ID        uint
	QuizID    uint
	User      Member
	Answers   []string
	CreatedAt time.Time
	UpdatedAt time.Time
}

type QuestionResult struct {
	QuestionID    uint   `json:"questionId"`
	Answer        string `json:"answer"`
	CorrectAnswer string `json:"correctAnswer"`
	IsCorrect     bool   `json:"isCorrect"`
}

type GradeResult struct {
	QuizID         uint             `json:"quizId"`
	UserID         uint             `json:"userId"`
	CorrectCount   int              `json:"correctCount"`
	TotalQuestions int              `json:"totalQuestions"`
	Results        []QuestionResult `json:"results"`
}

// Grade compares answers to the quiz questions in ascending ID order.
func Grade(quiz *Quiz, userID uint, answers []string) (*GradeResult, error) {
	questions := quiz.OrderedQuestions()
	if len(answers) != len(questions) {
		return nil, fmt.Errorf("%w: expected %d answers, got %d", ErrBadRequest, len(questions), len(answers))
	}

	res := &GradeResult{
		QuizID:         quiz.ID,
		UserID:         userID,
		TotalQuestions: len(questions),
		Results:        make([]QuestionResult, 0, len(questions)),
	}
	for i, q := range questions {
		correct := answers[i] == q.CorrectAnswer
		if correct {
			res.CorrectCount++
		}
		res.Results = append(res.Results, QuestionResult{
			QuestionID:    q.ID,
			Answer:        answers[i],
			CorrectAnswer: q.CorrectAnswer,
			IsCorrect:     correct,
		})
	}
	return res, nil
}

func countCorrect(questions []Question, answers []string) int {
	n := 0
	for i, q := range questions {
		if i < len(answers) && answers[i] == q.CorrectAnswer {
			n++
		}
	}
	return n
}

type ChoiceStat struct {
	Choice string  `json:"choice"`
	Count  int     `json:"count"`
	Rate   float64 `json:"rate"`
}

type QuestionStat struct {
	QuestionID    uint         `json:"questionId"`
	Text          string       `json:"question"`
	CorrectAnswer string       `json:"correctAnswer"`
	MyAnswer      *string      `json:"myAnswer"`
	Choices       []ChoiceStat `json:"choices"`
}

type QuizScore struct {
	QuizID           uint           `json:"id"`
	RoomID           uint           `json:"roomId"`
	Title            string         `json:"title"`
	TotalSubmissions int            `json:"totalResponses"`
	CorrectCount     int            `json:"correctCount"`
	TotalScore       int            `json:"totalScore"`
	Questions        []QuestionStat `json:"questions"`
}

// Score builds the per-question choice distribution over every submission
// together with the viewer's own answers.
func Score(quiz *Quiz, submissions []Submission, viewerID uint) *QuizScore {
	questions := quiz.OrderedQuestions()
	total := len(submissions)

	var mine []string
	for _, s := range submissions {
		if s.User.UserID == viewerID {
			mine = s.Answers
			break
		}
	}

	score := &QuizScore{
		QuizID:           quiz.ID,
		RoomID:           quiz.RoomID,
		Title:            quiz.Title,
		TotalSubmissions: total,
		Questions:        make([]QuestionStat, 0, len(questions)),
	}

	for i, q := range questions {
		counts := make(map[string]int, len(q.Choices))
		for _, s := range submissions {
			if i < len(s.Answers) {
				counts[s.Answers[i]]++
			}
		}

		stat := QuestionStat{
			QuestionID:    q.ID,
			Text:          q.Text,
			CorrectAnswer: q.CorrectAnswer,
			Choices:       make([]ChoiceStat, 0, len(q.Choices)),
		}
		for _, c := range q.Choices {
			cs := ChoiceStat{Choice: c, Count: counts[c]}
			if total > 0 {
				cs.Rate = float64(cs.Count) / float64(total)
			}
			stat.Choices = append(stat.Choices, cs)
		}
		if i < len(mine) {
			answer := mine[i]
			stat.MyAnswer = &answer
			if answer == q.CorrectAnswer {
				score.CorrectCount++
			}
		}
		score.Questions = append(score.Questions, stat)
	}

	score.TotalScore = score.CorrectCount * PointsPerCorrect
	return score
}

type RankingEntry struct {
	UserID       uint   `json:"userId"`
	Handle       string `json:"handle"`
	CorrectCount int    `json:"correctCount"`
	TotalScore   int    `json:"totalScore"`
}

// Rank orders the submissions of one quiz by total score, highest first.
func Rank(quiz *Quiz, submissions []Submission) []RankingEntry {
	return RankRoom([]Quiz{*quiz}, map[uint][]Submission{quiz.ID: submissions})
}

// RankRoom sums correct answers per user across every quiz given.
func RankRoom(quizzes []Quiz, submissions map[uint][]Submission) []RankingEntry {
	entries := make([]RankingEntry, 0)
	index := make(map[uint]int)

	for i := range quizzes {
		questions := quizzes[i].OrderedQuestions()
		for _, s := range submissions[quizzes[i].ID] {
			pos, ok := index[s.User.UserID]
			if !ok {
				pos = len(entries)
				index[s.User.UserID] = pos
				entries = append(entries, RankingEntry{UserID: s.User.UserID, Handle: s.User.Handle})
			}
			entries[pos].CorrectCount += countCorrect(questions, s.Answers)
		}
	}

	for i := range entries {
		entries[i].TotalScore = entries[i].CorrectCount * PointsPerCorrect
	}
	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].TotalScore > entries[j].TotalScore
	})
	return entries
}
