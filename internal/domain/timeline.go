package domain

import (
	"sort"
	"time"
)

type TimelineKind string

const (
	TimelineChat      TimelineKind = "chat"
	TimelineOXPoll    TimelineKind = "oxpoll"
	TimelineChecklist TimelineKind = "checklist"
	TimelineDraw      TimelineKind = "draw"
	TimelineQuiz      TimelineKind = "quiz"
)

type TimelineEvent struct {
	Kind      TimelineKind `json:"type"`
	Timestamp time.Time    `json:"timestamp"`
	Data      any          `json:"data"`
}

// SortTimeline orders events by timestamp. Events with equal timestamps keep
// the order they were appended in.
func SortTimeline(events []TimelineEvent) {
	sort.SliceStable(events, func(i, j int) bool {
		return events[i].Timestamp.Before(events[j].Timestamp)
	})
}

type ChatView struct {
	ID        uint      `json:"id"`
	RoomID    uint      `json:"roomId"`
	UserID    uint      `json:"userId"`
	Handle    string    `json:"handle"`
	Role      Role      `json:"role"`
	Text      string    `json:"text"`
	Timestamp time.Time `json:"timestamp"`
}

func NewChatView(m *ChatMessage) ChatView {
	return ChatView{
		ID:        m.ID,
		RoomID:    m.RoomID,
		UserID:    m.Author.UserID,
		Handle:    m.Author.Handle,
		Role:      m.Author.Role,
		Text:      m.Text,
		Timestamp: m.CreatedAt,
	}
}

type OXAnswerView struct {
	UserID uint    `json:"userId"`
	Handle string  `json:"handle"`
	Answer OXValue `json:"answer"`
}

type OXPollView struct {
	ID        uint           `json:"id"`
	RoomID    uint           `json:"roomId"`
	CreatorID uint           `json:"creatorId"`
	OCount    int            `json:"oCount"`
	XCount    int            `json:"xCount"`
	Answers   []OXAnswerView `json:"answers"`
	MyAnswer  *OXValue       `json:"myAnswer,omitempty"`
	Timestamp time.Time      `json:"timestamp"`
}

// NewOXPollView carries the full tally and answer list. viewerID, when set,
// adds the viewer's own answer.
func NewOXPollView(p *OXPoll, viewerID *uint) OXPollView {
	o, x := p.Tally()
	view := OXPollView{
		ID:        p.ID,
		RoomID:    p.RoomID,
		CreatorID: p.CreatorID,
		OCount:    o,
		XCount:    x,
		Answers:   make([]OXAnswerView, 0, len(p.Answers)),
		Timestamp: p.CreatedAt,
	}
	for _, a := range p.Answers {
		view.Answers = append(view.Answers, OXAnswerView{UserID: a.User.UserID, Handle: a.User.Handle, Answer: a.Value})
	}
	if viewerID != nil {
		if v, ok := p.AnswerOf(*viewerID); ok {
			view.MyAnswer = &v
		}
	}
	return view
}

type ChecklistView struct {
	ID           uint      `json:"id"`
	RoomID       uint      `json:"roomId"`
	ProfessorID  uint      `json:"professorId"`
	IsChecked    bool      `json:"isChecked"`
	CheckCount   int       `json:"checkCount"`
	CheckedUsers []Member  `json:"checkedUsers"`
	MyChecked    *bool     `json:"myChecked,omitempty"`
	Timestamp    time.Time `json:"timestamp"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

func NewChecklistView(c *ChecklistItem, viewerID *uint) ChecklistView {
	users := c.CheckedUsers
	if users == nil {
		users = []Member{}
	}
	view := ChecklistView{
		ID:           c.ID,
		RoomID:       c.RoomID,
		ProfessorID:  c.ProfessorID,
		IsChecked:    c.IsChecked,
		CheckCount:   c.CheckCount,
		CheckedUsers: users,
		Timestamp:    c.CreatedAt,
		UpdatedAt:    c.UpdatedAt,
	}
	if viewerID != nil {
		checked := c.HasChecked(*viewerID)
		view.MyChecked = &checked
	}
	return view
}

type DrawView struct {
	ID           uint              `json:"id"`
	RoomID       uint              `json:"roomId"`
	InitiatorID  uint              `json:"initiatorId"`
	Participants []DrawParticipant `json:"participants"`
	WinnerID     *uint             `json:"winnerId"`
	WinnerHandle string            `json:"winnerHandle,omitempty"`
	IsRelease    bool              `json:"isRelease"`
	Timestamp    time.Time         `json:"timestamp"`
}

func NewDrawView(d *Draw) DrawView {
	participants := d.Participants
	if participants == nil {
		participants = []DrawParticipant{}
	}
	view := DrawView{
		ID:           d.ID,
		RoomID:       d.RoomID,
		InitiatorID:  d.InitiatorID,
		Participants: participants,
		WinnerID:     d.WinnerID,
		IsRelease:    d.IsRelease,
		Timestamp:    d.CreatedAt,
	}
	if w, ok := d.Winner(); ok {
		view.WinnerHandle = w.Handle
	}
	return view
}

type QuizEventKind string

const (
	QuizEventCreated   QuizEventKind = "created"
	QuizEventSubmitted QuizEventKind = "submitted"
)

// QuizEvent is a notification kept in process memory only. Grading never
// reads it.
type QuizEvent struct {
	RoomID uint
	QuizID uint
	Kind   QuizEventKind
	Actor  Member
	At     time.Time
}

type QuizEventView struct {
	QuizID    uint          `json:"quizId"`
	Title     string        `json:"title"`
	Action    QuizEventKind `json:"action"`
	UserID    uint          `json:"userId"`
	Handle    string        `json:"handle"`
	Role      Role          `json:"role"`
	Timestamp time.Time     `json:"timestamp"`
}

func NewQuizEventView(e *QuizEvent, title string) QuizEventView {
	return QuizEventView{
		QuizID:    e.QuizID,
		Title:     title,
		Action:    e.Kind,
		UserID:    e.Actor.UserID,
		Handle:    e.Actor.Handle,
		Role:      e.Actor.Role,
		Timestamp: e.At,
	}
}
