package service

import (
	"context"
	"testing"

	"github.com/immxrtalbeast/classroom_live/internal/domain"
	"github.com/immxrtalbeast/classroom_live/internal/repository"
	"github.com/immxrtalbeast/classroom_live/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateRoomAddsCreator(t *testing.T) {
	ctx := context.Background()
	db := testutil.NewDB(t)
	svc := NewRoomService(repository.NewGormRoomRepository(db), 6, 5, testutil.Logger())

	prof := testutil.CreatePrincipal(t, db, domain.RoleProfessor, "prof")
	stu := testutil.CreatePrincipal(t, db, domain.RoleStudent, "stu")

	_, err := svc.CreateRoom(ctx, stu.Member(), "algebra")
	assert.ErrorIs(t, err, domain.ErrForbidden)

	_, err = svc.CreateRoom(ctx, prof.Member(), "  ")
	assert.ErrorIs(t, err, domain.ErrBadRequest)

	room, err := svc.CreateRoom(ctx, prof.Member(), "algebra")
	require.NoError(t, err)
	assert.Len(t, room.Code, 6)

	members, err := svc.ListParticipants(ctx, room.ID)
	require.NoError(t, err)
	require.Len(t, members, 1)
	assert.Equal(t, prof.ID, members[0].UserID)

	mine, err := svc.ListMyRooms(ctx, prof.Member())
	require.NoError(t, err)
	require.Len(t, mine, 1)
	assert.Equal(t, room.ID, mine[0].ID)
}

func TestJoinIsIdempotent(t *testing.T) {
	ctx := context.Background()
	db := testutil.NewDB(t)
	svc := NewRoomService(repository.NewGormRoomRepository(db), 6, 5, testutil.Logger())

	room := testutil.CreateRoom(t, db, "AB12CD")
	stu := testutil.CreatePrincipal(t, db, domain.RoleStudent, "stu")

	joined, err := svc.Join(ctx, stu.Member(), " ab12cd ")
	require.NoError(t, err)
	assert.Equal(t, room.ID, joined.ID)

	_, err = svc.Join(ctx, stu.Member(), "AB12CD")
	require.NoError(t, err)

	members, err := svc.ListParticipants(ctx, room.ID)
	require.NoError(t, err)
	assert.Len(t, members, 1)

	_, err = svc.Join(ctx, stu.Member(), "ZZZZZZ")
	assert.ErrorIs(t, err, domain.ErrNotFound)

	_, err = svc.ResolveCode(ctx, "")
	assert.ErrorIs(t, err, domain.ErrBadRequest)
}

func TestListParticipantsUnknownRoom(t *testing.T) {
	db := testutil.NewDB(t)
	svc := NewRoomService(repository.NewGormRoomRepository(db), 6, 5, testutil.Logger())

	_, err := svc.ListParticipants(context.Background(), 42)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

type collidingRooms struct {
	repository.RoomRepository
	failures int
	codes    []string
}

func (r *collidingRooms) Create(ctx context.Context, room *domain.Room) error {
	r.codes = append(r.codes, room.Code)
	if r.failures > 0 {
		r.failures--
		return repository.ErrRoomCodeExists
	}
	return r.RoomRepository.Create(ctx, room)
}

func TestCreateRoomRetriesOnCodeCollision(t *testing.T) {
	ctx := context.Background()
	db := testutil.NewDB(t)
	prof := testutil.CreatePrincipal(t, db, domain.RoleProfessor, "prof")

	rooms := &collidingRooms{RoomRepository: repository.NewGormRoomRepository(db), failures: 2}
	svc := NewRoomService(rooms, 6, 5, testutil.Logger())

	room, err := svc.CreateRoom(ctx, prof.Member(), "physics")
	require.NoError(t, err)
	assert.Len(t, rooms.codes, 3)
	assert.Equal(t, rooms.codes[2], room.Code)

	rooms.failures = 5
	_, err = svc.CreateRoom(ctx, prof.Member(), "chemistry")
	assert.ErrorIs(t, err, repository.ErrRoomCodeExists)
}

func TestUpdateRoomRequiresRosterProfessor(t *testing.T) {
	ctx := context.Background()
	db := testutil.NewDB(t)
	svc := NewRoomService(repository.NewGormRoomRepository(db), 6, 5, testutil.Logger())

	owner := testutil.CreatePrincipal(t, db, domain.RoleProfessor, "owner")
	other := testutil.CreatePrincipal(t, db, domain.RoleProfessor, "other")
	stu := testutil.CreatePrincipal(t, db, domain.RoleStudent, "stu")

	room, err := svc.CreateRoom(ctx, owner.Member(), "algebra")
	require.NoError(t, err)

	name := "  linear algebra "
	inactive := false

	_, err = svc.UpdateRoom(ctx, stu.Member(), room.ID, domain.RoomUpdate{Name: &name})
	assert.ErrorIs(t, err, domain.ErrForbidden)

	_, err = svc.UpdateRoom(ctx, other.Member(), room.ID, domain.RoomUpdate{Name: &name})
	assert.ErrorIs(t, err, domain.ErrForbidden)

	blank := " "
	_, err = svc.UpdateRoom(ctx, owner.Member(), room.ID, domain.RoomUpdate{Name: &blank})
	assert.ErrorIs(t, err, domain.ErrBadRequest)

	_, err = svc.UpdateRoom(ctx, owner.Member(), 999, domain.RoomUpdate{Name: &name})
	assert.ErrorIs(t, err, domain.ErrNotFound)

	updated, err := svc.UpdateRoom(ctx, owner.Member(), room.ID, domain.RoomUpdate{Name: &name, IsActive: &inactive})
	require.NoError(t, err)
	assert.Equal(t, "linear algebra", updated.Name)
	assert.False(t, updated.IsActive)
	assert.Equal(t, room.Code, updated.Code)

	reloaded, err := svc.GetRoom(ctx, room.ID)
	require.NoError(t, err)
	assert.Equal(t, "linear algebra", reloaded.Name)
	assert.False(t, reloaded.IsActive)

	renamedOnly := "geometry"
	updated, err = svc.UpdateRoom(ctx, owner.Member(), room.ID, domain.RoomUpdate{Name: &renamedOnly})
	require.NoError(t, err)
	assert.Equal(t, "geometry", updated.Name)
	assert.False(t, updated.IsActive)
}

func TestDeleteRoomRemovesEverything(t *testing.T) {
	ctx := context.Background()
	db := testutil.NewDB(t)
	rooms := repository.NewGormRoomRepository(db)
	chats := repository.NewGormChatRepository(db)
	svc := NewRoomService(rooms, 6, 5, testutil.Logger())

	owner := testutil.CreatePrincipal(t, db, domain.RoleProfessor, "owner")
	stu := testutil.CreatePrincipal(t, db, domain.RoleStudent, "stu")

	room, err := svc.CreateRoom(ctx, owner.Member(), "algebra")
	require.NoError(t, err)
	_, err = svc.Join(ctx, stu.Member(), room.Code)
	require.NoError(t, err)
	require.NoError(t, chats.Create(ctx, &domain.ChatMessage{RoomID: room.ID, Author: stu.Member(), Text: "hi"}))

	err = svc.DeleteRoom(ctx, stu.Member(), room.ID)
	assert.ErrorIs(t, err, domain.ErrForbidden)

	require.NoError(t, svc.DeleteRoom(ctx, owner.Member(), room.ID))

	_, err = svc.GetRoom(ctx, room.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)

	messages, err := chats.ListByRoom(ctx, room.ID)
	require.NoError(t, err)
	assert.Empty(t, messages)

	mine, err := svc.ListMyRooms(ctx, stu.Member())
	require.NoError(t, err)
	assert.Empty(t, mine)

	err = svc.DeleteRoom(ctx, owner.Member(), room.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}
