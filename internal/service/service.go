package service

import (
	"context"

	"github.com/immxrtalbeast/classroom_live/internal/domain"
)

type AuthInteractor interface {
	Register(ctx context.Context, in RegisterInput) (*domain.TokenPair, error)
	Login(ctx context.Context, institutionalNumber string, password string) (*domain.TokenPair, error)
	Logout(ctx context.Context, accessToken string, refreshToken string) error
	Refresh(ctx context.Context, refreshToken string) (*domain.TokenPair, error)
	Authenticate(ctx context.Context, token string) (*domain.Principal, error)
	RenameHandle(ctx context.Context, principalID uint, handle string) error
	DeleteAccount(ctx context.Context, principalID uint) error
	RandomHandle(ctx context.Context) (string, error)
}

type RoomInteractor interface {
	CreateRoom(ctx context.Context, actor domain.Member, name string) (*domain.Room, error)
	GetRoom(ctx context.Context, id uint) (*domain.Room, error)
	UpdateRoom(ctx context.Context, actor domain.Member, roomID uint, update domain.RoomUpdate) (*domain.Room, error)
	DeleteRoom(ctx context.Context, actor domain.Member, roomID uint) error
	ResolveCode(ctx context.Context, code string) (*domain.Room, error)
	Join(ctx context.Context, actor domain.Member, code string) (*domain.Room, error)
	ListMyRooms(ctx context.Context, actor domain.Member) ([]*domain.Room, error)
	ListParticipants(ctx context.Context, roomID uint) ([]domain.Member, error)
}

type ChatInteractor interface {
	Send(ctx context.Context, actor domain.Member, roomID uint, text string) (*domain.ChatMessage, error)
}

type OXPollInteractor interface {
	CreatePoll(ctx context.Context, actor domain.Member, roomID uint) (*domain.OXPoll, error)
	Answer(ctx context.Context, actor domain.Member, roomID uint, pollID uint, value *domain.OXValue) (*domain.OXPoll, error)
}

type ChecklistInteractor interface {
	CreateItem(ctx context.Context, actor domain.Member, roomID uint) (*domain.ChecklistItem, error)
	Toggle(ctx context.Context, actor domain.Member, roomID uint, itemID uint, checked bool) (*domain.ChecklistItem, error)
}

type DrawInteractor interface {
	Start(ctx context.Context, actor domain.Member, roomID uint, participants []domain.DrawParticipant, isRelease bool) (*domain.Draw, error)
}

type QuizInteractor interface {
	CreateQuiz(ctx context.Context, actor domain.Member, in QuizInput) (*domain.Quiz, error)
	UpdateQuiz(ctx context.Context, actor domain.Member, quizID uint, in QuizInput) (*domain.Quiz, error)
	GetQuiz(ctx context.Context, quizID uint) (*domain.Quiz, error)
	ListRoomQuizzes(ctx context.Context, actor domain.Member, roomID uint) ([]*domain.Quiz, error)
	Submit(ctx context.Context, actor domain.Member, quizID uint, answers []string) (*domain.GradeResult, error)
	Score(ctx context.Context, actor domain.Member, quizID uint) (*domain.QuizScore, error)
	Ranking(ctx context.Context, quizID uint) ([]domain.RankingEntry, error)
	RoomRanking(ctx context.Context, roomID uint) ([]domain.RankingEntry, error)
}

type TimelineInteractor interface {
	BuildHistory(ctx context.Context, roomID uint, viewerID *uint) ([]domain.TimelineEvent, error)
}

type ImageInteractor interface {
	MainUploadURL(ctx context.Context, roomID uint, fileName string, contentType string) (*UploadTicket, error)
	MainDownloadURL(ctx context.Context, roomID uint) (string, error)
	GalleryUploadURL(ctx context.Context, actor domain.Member, roomID uint, fileName string, contentType string) (*UploadTicket, error)
	ListGallery(ctx context.Context, roomID uint) ([]GalleryImage, error)
}
