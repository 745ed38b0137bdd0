package service

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/immxrtalbeast/classroom_live/internal/domain"
	"github.com/immxrtalbeast/classroom_live/internal/repository"
	"github.com/immxrtalbeast/classroom_live/lib/logger/sl"
)

type ChecklistService struct {
	items     repository.ChecklistRepository
	publisher Publisher
	log       *slog.Logger
}

func NewChecklistService(items repository.ChecklistRepository, publisher Publisher, log *slog.Logger) *ChecklistService {
	if log == nil {
		log = slog.Default()
	}
	return &ChecklistService{items: items, publisher: publisherOrNoop(publisher), log: log}
}

func (s *ChecklistService) CreateItem(ctx context.Context, actor domain.Member, roomID uint) (*domain.ChecklistItem, error) {
	const op = "service.checklist.create"

	if actor.Role != domain.RoleProfessor {
		return nil, fmt.Errorf("%w: only professors can create checklist items", domain.ErrForbidden)
	}

	item := &domain.ChecklistItem{RoomID: roomID, ProfessorID: actor.UserID}
	if err := s.items.Create(ctx, item); err != nil {
		s.log.Error("failed to create checklist item", slog.String("op", op), sl.Err(err))
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	s.publisher.PublishToRoom(roomID, domain.EventCheckCreated, domain.NewChecklistView(item, nil))
	return item, nil
}

// Toggle is not role-gated here; callers decide who may check in.
func (s *ChecklistService) Toggle(ctx context.Context, actor domain.Member, roomID uint, itemID uint, checked bool) (*domain.ChecklistItem, error) {
	const op = "service.checklist.toggle"
	log := s.log.With(slog.String("op", op), slog.Uint64("item_id", uint64(itemID)))

	current, err := s.items.GetByID(ctx, itemID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if current.RoomID != roomID {
		return nil, fmt.Errorf("%s: %w", op, repository.ErrChecklistItemNotFound)
	}

	item, err := s.items.Toggle(ctx, itemID, actor.UserID, checked)
	if err != nil {
		log.Error("failed to toggle", sl.Err(err))
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	s.publisher.PublishToRoom(roomID, domain.EventCheckToggled, domain.NewChecklistView(item, nil))
	return item, nil
}
