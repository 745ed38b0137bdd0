package repository

import (
	"sync"
	"time"

	"github.com/immxrtalbeast/classroom_live/internal/domain"
)

// InMemoryQuizEventLog keeps quiz notifications for timeline display. It is
// lost on restart.
type InMemoryQuizEventLog struct {
	mu     sync.RWMutex
	byRoom map[uint][]domain.QuizEvent
}

func NewInMemoryQuizEventLog() *InMemoryQuizEventLog {
	return &InMemoryQuizEventLog{
		byRoom: make(map[uint][]domain.QuizEvent),
	}
}

func (l *InMemoryQuizEventLog) Append(event domain.QuizEvent) {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.byRoom[event.RoomID] = append(l.byRoom[event.RoomID], event)
}

func (l *InMemoryQuizEventLog) ListByRoom(roomID uint) []domain.QuizEvent {
	l.mu.RLock()
	defer l.mu.RUnlock()

	events := l.byRoom[roomID]
	result := make([]domain.QuizEvent, len(events))
	copy(result, events)
	return result
}

// InMemoryRevocationList holds logged-out tokens until they would have
// expired anyway.
type InMemoryRevocationList struct {
	mu     sync.RWMutex
	tokens map[string]time.Time
	now    func() time.Time
}

func NewInMemoryRevocationList() *InMemoryRevocationList {
	return &InMemoryRevocationList{
		tokens: make(map[string]time.Time),
		now:    time.Now,
	}
}

// Revoke stores the token and drops every entry that has already expired.
func (l *InMemoryRevocationList) Revoke(token string, expiresAt time.Time) {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	for t, exp := range l.tokens {
		if !exp.After(now) {
			delete(l.tokens, t)
		}
	}
	l.tokens[token] = expiresAt
}

func (l *InMemoryRevocationList) IsRevoked(token string) bool {
	l.mu.RLock()
	defer l.mu.RUnlock()

	_, ok := l.tokens[token]
	return ok
}

func (l *InMemoryRevocationList) Len() int {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return len(l.tokens)
}
