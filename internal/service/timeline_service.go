package service

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/immxrtalbeast/classroom_live/internal/domain"
	"github.com/immxrtalbeast/classroom_live/internal/repository"
)

type TimelineService struct {
	chats      repository.ChatRepository
	polls      repository.OXPollRepository
	checklists repository.ChecklistRepository
	draws      repository.DrawRepository
	quizzes    repository.QuizRepository
	events     repository.QuizEventLog
	log        *slog.Logger
}

func NewTimelineService(
	chats repository.ChatRepository,
	polls repository.OXPollRepository,
	checklists repository.ChecklistRepository,
	draws repository.DrawRepository,
	quizzes repository.QuizRepository,
	events repository.QuizEventLog,
	log *slog.Logger,
) *TimelineService {
	if log == nil {
		log = slog.Default()
	}
	return &TimelineService{
		chats:      chats,
		polls:      polls,
		checklists: checklists,
		draws:      draws,
		quizzes:    quizzes,
		events:     events,
		log:        log,
	}
}

// BuildHistory merges every event kind of the room into one ascending
// sequence. With a viewer, polls and checklist items carry the viewer's own
// answer and check-in state.
func (s *TimelineService) BuildHistory(ctx context.Context, roomID uint, viewerID *uint) ([]domain.TimelineEvent, error) {
	const op = "service.timeline.build"

	var events []domain.TimelineEvent

	messages, err := s.chats.ListByRoom(ctx, roomID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	for _, m := range messages {
		events = append(events, domain.TimelineEvent{Kind: domain.TimelineChat, Timestamp: m.CreatedAt, Data: domain.NewChatView(m)})
	}

	polls, err := s.polls.ListByRoom(ctx, roomID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	for _, p := range polls {
		events = append(events, domain.TimelineEvent{Kind: domain.TimelineOXPoll, Timestamp: p.CreatedAt, Data: domain.NewOXPollView(p, viewerID)})
	}

	items, err := s.checklists.ListByRoom(ctx, roomID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	for _, c := range items {
		events = append(events, domain.TimelineEvent{Kind: domain.TimelineChecklist, Timestamp: c.CreatedAt, Data: domain.NewChecklistView(c, viewerID)})
	}

	draws, err := s.draws.ListByRoom(ctx, roomID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	for _, d := range draws {
		events = append(events, domain.TimelineEvent{Kind: domain.TimelineDraw, Timestamp: d.CreatedAt, Data: domain.NewDrawView(d)})
	}

	quizEvents := s.events.ListByRoom(roomID)
	if len(quizEvents) > 0 {
		titles, err := s.quizTitles(ctx, roomID)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		for i := range quizEvents {
			e := &quizEvents[i]
			title, ok := titles[e.QuizID]
			if !ok {
				s.log.Debug("skipping event of unknown quiz", slog.String("op", op), slog.Uint64("quiz_id", uint64(e.QuizID)))
				continue
			}
			events = append(events, domain.TimelineEvent{Kind: domain.TimelineQuiz, Timestamp: e.At, Data: domain.NewQuizEventView(e, title)})
		}
	}

	domain.SortTimeline(events)
	if events == nil {
		events = []domain.TimelineEvent{}
	}
	return events, nil
}

func (s *TimelineService) quizTitles(ctx context.Context, roomID uint) (map[uint]string, error) {
	quizzes, err := s.quizzes.ListByRoom(ctx, roomID)
	if err != nil {
		return nil, err
	}
	titles := make(map[uint]string, len(quizzes))
	for _, q := range quizzes {
		titles[q.ID] = q.Title
	}
	return titles, nil
}
