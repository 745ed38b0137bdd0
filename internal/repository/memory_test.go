package repository

import (
	"sync"
	"testing"
	"time"

	"github.com/immxrtalbeast/classroom_live/internal/domain"
	"github.com/stretchr/testify/assert"
)

func TestRevocationListSweepsExpired(t *testing.T) {
	now := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	list := NewInMemoryRevocationList()
	list.now = func() time.Time { return now }

	list.Revoke("old", now.Add(time.Minute))
	list.Revoke("live", now.Add(time.Hour))
	assert.True(t, list.IsRevoked("old"))
	assert.Equal(t, 2, list.Len())

	now = now.Add(10 * time.Minute)
	list.Revoke("new", now.Add(time.Hour))

	assert.False(t, list.IsRevoked("old"))
	assert.True(t, list.IsRevoked("live"))
	assert.True(t, list.IsRevoked("new"))
	assert.Equal(t, 2, list.Len())
}

func TestQuizEventLogConcurrentAppend(t *testing.T) {
	log := NewInMemoryQuizEventLog()

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			log.Append(domain.QuizEvent{RoomID: uint(i%2 + 1), QuizID: uint(i), Kind: domain.QuizEventSubmitted})
		}(i)
	}
	wg.Wait()

	assert.Len(t, log.ListByRoom(1), 25)
	assert.Len(t, log.ListByRoom(2), 25)
	assert.Empty(t, log.ListByRoom(3))

	events := log.ListByRoom(1)
	events[0].QuizID = 999
	assert.NotEqual(t, uint(999), log.ListByRoom(1)[0].QuizID)
}
