package service

import (
	"context"
	"fmt"
	"log/slog"
	"math/rand/v2"

	"github.com/immxrtalbeast/classroom_live/internal/domain"
	"github.com/immxrtalbeast/classroom_live/internal/repository"
	"github.com/immxrtalbeast/classroom_live/lib/logger/sl"
)

type DrawService struct {
	draws     repository.DrawRepository
	publisher Publisher
	log       *slog.Logger
	pick      func(n int) int
}

func NewDrawService(draws repository.DrawRepository, publisher Publisher, log *slog.Logger) *DrawService {
	if log == nil {
		log = slog.Default()
	}
	return &DrawService{draws: draws, publisher: publisherOrNoop(publisher), log: log, pick: rand.IntN}
}

// Start picks one student uniformly at random. Professors are dropped from the
// snapshot; with no students left the draw is stored without a winner.
func (s *DrawService) Start(ctx context.Context, actor domain.Member, roomID uint, participants []domain.DrawParticipant, isRelease bool) (*domain.Draw, error) {
	const op = "service.draw.start"
	log := s.log.With(slog.String("op", op), slog.Uint64("room_id", uint64(roomID)))

	if actor.Role != domain.RoleProfessor {
		return nil, fmt.Errorf("%w: only professors can start a draw", domain.ErrForbidden)
	}

	eligible := domain.EligibleParticipants(participants)
	draw := &domain.Draw{
		RoomID:       roomID,
		InitiatorID:  actor.UserID,
		Participants: eligible,
		IsRelease:    isRelease,
	}
	if len(eligible) > 0 {
		winner := eligible[s.pick(len(eligible))].UserID
		draw.WinnerID = &winner
	}

	if err := s.draws.Create(ctx, draw); err != nil {
		log.Error("failed to save draw", sl.Err(err))
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	log.Info("draw finished", slog.Int("eligible", len(eligible)))
	s.publisher.PublishToRoom(roomID, domain.EventDrawResult, domain.NewDrawView(draw))
	return draw, nil
}
