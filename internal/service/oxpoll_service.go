package service

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/immxrtalbeast/classroom_live/internal/domain"
	"github.com/immxrtalbeast/classroom_live/internal/repository"
	"github.com/immxrtalbeast/classroom_live/lib/logger/sl"
)

type OXPollService struct {
	polls     repository.OXPollRepository
	publisher Publisher
	log       *slog.Logger
}

func NewOXPollService(polls repository.OXPollRepository, publisher Publisher, log *slog.Logger) *OXPollService {
	if log == nil {
		log = slog.Default()
	}
	return &OXPollService{polls: polls, publisher: publisherOrNoop(publisher), log: log}
}

func (s *OXPollService) CreatePoll(ctx context.Context, actor domain.Member, roomID uint) (*domain.OXPoll, error) {
	const op = "service.oxpoll.create"

	if actor.Role != domain.RoleProfessor {
		return nil, fmt.Errorf("%w: only professors can create ox polls", domain.ErrForbidden)
	}

	poll := &domain.OXPoll{RoomID: roomID, CreatorID: actor.UserID}
	if err := s.polls.Create(ctx, poll); err != nil {
		s.log.Error("failed to create poll", slog.String("op", op), sl.Err(err))
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	s.publisher.PublishToRoom(roomID, domain.EventOXPollCreated, domain.NewOXPollView(poll, nil))
	return poll, nil
}

// Answer records or, with a nil value, retracts the actor's answer and
// broadcasts the complete tally.
func (s *OXPollService) Answer(ctx context.Context, actor domain.Member, roomID uint, pollID uint, value *domain.OXValue) (*domain.OXPoll, error) {
	const op = "service.oxpoll.answer"
	log := s.log.With(slog.String("op", op), slog.Uint64("poll_id", uint64(pollID)))

	poll, err := s.polls.GetByID(ctx, pollID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if poll.RoomID != roomID {
		return nil, fmt.Errorf("%s: %w", op, repository.ErrPollNotFound)
	}

	if err := s.polls.SetAnswer(ctx, pollID, actor.UserID, value); err != nil {
		log.Error("failed to set answer", sl.Err(err))
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	poll, err = s.polls.GetByID(ctx, pollID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	s.publisher.PublishToRoom(roomID, domain.EventOXPollAnswered, domain.NewOXPollView(poll, nil))
	return poll, nil
}
