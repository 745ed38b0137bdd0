package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/immxrtalbeast/classroom_live/internal/domain"
	"github.com/immxrtalbeast/classroom_live/internal/repository"
	"github.com/immxrtalbeast/classroom_live/lib/logger/sl"
)

type RoomService struct {
	rooms        repository.RoomRepository
	log          *slog.Logger
	codeLength   int
	codeAttempts int
}

func NewRoomService(rooms repository.RoomRepository, codeLength int, codeAttempts int, log *slog.Logger) *RoomService {
	if log == nil {
		log = slog.Default()
	}
	if codeAttempts <= 0 {
		codeAttempts = 1
	}
	return &RoomService{
		rooms:        rooms,
		log:          log,
		codeLength:   codeLength,
		codeAttempts: codeAttempts,
	}
}

// CreateRoom stores a room under a fresh code and puts the creating
// professor on its roster. A code collision only costs another attempt.
func (s *RoomService) CreateRoom(ctx context.Context, actor domain.Member, name string) (*domain.Room, error) {
	const op = "service.room.create"
	log := s.log.With(slog.String("op", op), slog.Uint64("user_id", uint64(actor.UserID)))

	if actor.Role != domain.RoleProfessor {
		return nil, fmt.Errorf("%w: only professors can create rooms", domain.ErrForbidden)
	}
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, fmt.Errorf("%w: room name is required", domain.ErrBadRequest)
	}

	var room *domain.Room
	for attempt := 1; ; attempt++ {
		room = domain.NewRoom(name, s.codeLength)
		err := s.rooms.Create(ctx, room)
		if err == nil {
			break
		}
		if errors.Is(err, repository.ErrRoomCodeExists) && attempt < s.codeAttempts {
			log.Debug("room code collision", slog.String("code", room.Code), slog.Int("attempt", attempt))
			continue
		}
		log.Error("failed to create room", sl.Err(err))
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	if err := s.rooms.AddMember(ctx, room.ID, actor.UserID, domain.RoleProfessor); err != nil {
		log.Error("failed to add creator to roster", sl.Err(err))
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	log.Info("room created", slog.Uint64("room_id", uint64(room.ID)), slog.String("code", room.Code))
	return room, nil
}

func (s *RoomService) GetRoom(ctx context.Context, id uint) (*domain.Room, error) {
	const op = "service.room.get"

	room, err := s.rooms.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return room, nil
}

// UpdateRoom renames or (de)activates a room. Only professors on its roster
// may change it.
func (s *RoomService) UpdateRoom(ctx context.Context, actor domain.Member, roomID uint, update domain.RoomUpdate) (*domain.Room, error) {
	const op = "service.room.update"
	log := s.log.With(slog.String("op", op), slog.Uint64("room_id", uint64(roomID)))

	if update.Name != nil {
		name := strings.TrimSpace(*update.Name)
		if name == "" {
			return nil, fmt.Errorf("%w: room name is required", domain.ErrBadRequest)
		}
		update.Name = &name
	}
	if err := s.requireRosterProfessor(ctx, actor, roomID); err != nil {
		return nil, err
	}

	room, err := s.rooms.Update(ctx, roomID, update)
	if err != nil {
		log.Error("failed to update room", sl.Err(err))
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	log.Info("room updated", slog.Bool("active", room.IsActive))
	return room, nil
}

func (s *RoomService) DeleteRoom(ctx context.Context, actor domain.Member, roomID uint) error {
	const op = "service.room.delete"
	log := s.log.With(slog.String("op", op), slog.Uint64("room_id", uint64(roomID)))

	if err := s.requireRosterProfessor(ctx, actor, roomID); err != nil {
		return err
	}
	if err := s.rooms.Delete(ctx, roomID); err != nil {
		log.Error("failed to delete room", sl.Err(err))
		return fmt.Errorf("%s: %w", op, err)
	}

	log.Info("room deleted", slog.Uint64("user_id", uint64(actor.UserID)))
	return nil
}

func (s *RoomService) requireRosterProfessor(ctx context.Context, actor domain.Member, roomID uint) error {
	const op = "service.room.requireRosterProfessor"

	if actor.Role != domain.RoleProfessor {
		return fmt.Errorf("%w: only professors can manage rooms", domain.ErrForbidden)
	}
	if _, err := s.rooms.GetByID(ctx, roomID); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	member, err := s.rooms.IsMember(ctx, roomID, actor.UserID, domain.RoleProfessor)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if !member {
		return fmt.Errorf("%w: not a professor of this room", domain.ErrForbidden)
	}
	return nil
}

func (s *RoomService) ResolveCode(ctx context.Context, code string) (*domain.Room, error) {
	const op = "service.room.resolveCode"

	code = strings.ToUpper(strings.TrimSpace(code))
	if code == "" {
		return nil, fmt.Errorf("%w: room code is required", domain.ErrBadRequest)
	}
	room, err := s.rooms.GetByCode(ctx, code)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return room, nil
}

// Join resolves the code and, for students, adds them to the roster.
func (s *RoomService) Join(ctx context.Context, actor domain.Member, code string) (*domain.Room, error) {
	const op = "service.room.join"
	log := s.log.With(slog.String("op", op), slog.Uint64("user_id", uint64(actor.UserID)))

	room, err := s.ResolveCode(ctx, code)
	if err != nil {
		return nil, err
	}

	if actor.Role == domain.RoleStudent {
		if err := s.rooms.AddMember(ctx, room.ID, actor.UserID, domain.RoleStudent); err != nil {
			log.Error("failed to add member", sl.Err(err))
			return nil, fmt.Errorf("%s: %w", op, err)
		}
	}

	log.Info("joined room", slog.Uint64("room_id", uint64(room.ID)))
	return room, nil
}

func (s *RoomService) ListMyRooms(ctx context.Context, actor domain.Member) ([]*domain.Room, error) {
	const op = "service.room.listMine"

	rooms, err := s.rooms.ListByMember(ctx, actor.UserID, actor.Role)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return rooms, nil
}

func (s *RoomService) ListParticipants(ctx context.Context, roomID uint) ([]domain.Member, error) {
	const op = "service.room.listParticipants"

	if _, err := s.rooms.GetByID(ctx, roomID); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	members, err := s.rooms.ListMembers(ctx, roomID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return members, nil
}
