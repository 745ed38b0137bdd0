package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/immxrtalbeast/classroom_live/internal/domain"
)

var (
	ErrRoomNotFound             = fmt.Errorf("%w: room not found", domain.ErrNotFound)
	ErrRoomCodeExists           = errors.New("room code already exists")
	ErrPrincipalNotFound        = fmt.Errorf("%w: user not found", domain.ErrNotFound)
	ErrHandleTaken              = fmt.Errorf("%w: handle already exists", domain.ErrBadRequest)
	ErrInstitutionalNumberTaken = fmt.Errorf("%w: institutional number already exists", domain.ErrBadRequest)
	ErrPollNotFound             = fmt.Errorf("%w: ox poll not found", domain.ErrNotFound)
	ErrChecklistItemNotFound    = fmt.Errorf("%w: checklist item not found", domain.ErrNotFound)
	ErrQuizNotFound             = fmt.Errorf("%w: quiz not found", domain.ErrNotFound)
	ErrQuizHasSubmissions       = fmt.Errorf("%w: quiz already has submissions", domain.ErrBadRequest)
)

type PrincipalRepository interface {
	Create(ctx context.Context, principal *domain.Principal) error
	GetByID(ctx context.Context, id uint) (*domain.Principal, error)
	GetByInstitutionalNumber(ctx context.Context, number string) (*domain.Principal, error)
	HandleExists(ctx context.Context, handle string) (bool, error)
	UpdateHandle(ctx context.Context, id uint, handle string) error
	Delete(ctx context.Context, id uint) error
}

type RoomRepository interface {
	Create(ctx context.Context, room *domain.Room) error
	GetByID(ctx context.Context, id uint) (*domain.Room, error)
	GetByCode(ctx context.Context, code string) (*domain.Room, error)
	Update(ctx context.Context, id uint, update domain.RoomUpdate) (*domain.Room, error)
	Delete(ctx context.Context, id uint) error
	UpdateImageKey(ctx context.Context, id uint, key string) error
	AddMember(ctx context.Context, roomID uint, principalID uint, role domain.Role) error
	IsMember(ctx context.Context, roomID uint, principalID uint, role domain.Role) (bool, error)
	ListMembers(ctx context.Context, roomID uint) ([]domain.Member, error)
	ListByMember(ctx context.Context, principalID uint, role domain.Role) ([]*domain.Room, error)
	AddImage(ctx context.Context, image *domain.RoomImage) error
	ListImages(ctx context.Context, roomID uint) ([]*domain.RoomImage, error)
}

type ChatRepository interface {
	Create(ctx context.Context, msg *domain.ChatMessage) error
	ListByRoom(ctx context.Context, roomID uint) ([]*domain.ChatMessage, error)
}

type OXPollRepository interface {
	Create(ctx context.Context, poll *domain.OXPoll) error
	GetByID(ctx context.Context, id uint) (*domain.OXPoll, error)
	// SetAnswer upserts the user's answer, or removes it when value is nil.
	SetAnswer(ctx context.Context, pollID uint, userID uint, value *domain.OXValue) error
	ListByRoom(ctx context.Context, roomID uint) ([]*domain.OXPoll, error)
}

type ChecklistRepository interface {
	Create(ctx context.Context, item *domain.ChecklistItem) error
	GetByID(ctx context.Context, id uint) (*domain.ChecklistItem, error)
	Toggle(ctx context.Context, itemID uint, userID uint, checked bool) (*domain.ChecklistItem, error)
	ListByRoom(ctx context.Context, roomID uint) ([]*domain.ChecklistItem, error)
}

type DrawRepository interface {
	Create(ctx context.Context, draw *domain.Draw) error
	ListByRoom(ctx context.Context, roomID uint) ([]*domain.Draw, error)
}

type QuizRepository interface {
	Create(ctx context.Context, quiz *domain.Quiz) error
	GetByID(ctx context.Context, id uint) (*domain.Quiz, error)
	// ReplaceContent swaps title and questions. It fails with
	// ErrQuizHasSubmissions once anyone has submitted.
	ReplaceContent(ctx context.Context, quiz *domain.Quiz) error
	ListByRoom(ctx context.Context, roomID uint) ([]*domain.Quiz, error)
	UpsertSubmission(ctx context.Context, sub *domain.Submission) error
	ListSubmissions(ctx context.Context, quizID uint) ([]domain.Submission, error)
}

type QuizEventLog interface {
	Append(event domain.QuizEvent)
	ListByRoom(roomID uint) []domain.QuizEvent
}

type RevocationList interface {
	Revoke(token string, expiresAt time.Time)
	IsRevoked(token string) bool
}
