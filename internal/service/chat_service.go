package service

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/immxrtalbeast/classroom_live/internal/domain"
	"github.com/immxrtalbeast/classroom_live/internal/repository"
	"github.com/immxrtalbeast/classroom_live/lib/logger/sl"
)

type ChatService struct {
	chats     repository.ChatRepository
	publisher Publisher
	log       *slog.Logger
}

func NewChatService(chats repository.ChatRepository, publisher Publisher, log *slog.Logger) *ChatService {
	if log == nil {
		log = slog.Default()
	}
	return &ChatService{chats: chats, publisher: publisherOrNoop(publisher), log: log}
}

func (s *ChatService) Send(ctx context.Context, actor domain.Member, roomID uint, text string) (*domain.ChatMessage, error) {
	const op = "service.chat.send"
	log := s.log.With(slog.String("op", op), slog.Uint64("room_id", uint64(roomID)))

	text, err := domain.NormalizeChatText(text)
	if err != nil {
		return nil, err
	}

	msg := &domain.ChatMessage{RoomID: roomID, Author: actor, Text: text}
	if err := s.chats.Create(ctx, msg); err != nil {
		log.Error("failed to save chat message", sl.Err(err))
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	s.publisher.PublishToRoom(roomID, domain.EventChatMessage, domain.NewChatView(msg))
	return msg, nil
}
