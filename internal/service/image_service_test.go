package service

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/immxrtalbeast/classroom_live/internal/domain"
	"github.com/immxrtalbeast/classroom_live/internal/repository"
	"github.com/immxrtalbeast/classroom_live/internal/service/mocks"
	storagemocks "github.com/immxrtalbeast/classroom_live/internal/storage/mocks"
	"github.com/immxrtalbeast/classroom_live/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

func TestMainImageRoundTrip(t *testing.T) {
	ctx := context.Background()
	db := testutil.NewDB(t)
	ctrl := gomock.NewController(t)
	signer := storagemocks.NewMockURLSigner(ctrl)
	rooms := repository.NewGormRoomRepository(db)
	svc := NewImageService(rooms, signer, nil, testutil.Logger())

	room := testutil.CreateRoom(t, db, "IMAGE1")

	_, err := svc.MainDownloadURL(ctx, room.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)

	_, err = svc.MainUploadURL(ctx, room.ID, "cover.png", "text/plain")
	assert.ErrorIs(t, err, domain.ErrBadRequest)

	var signedKey string
	signer.EXPECT().UploadURL(gomock.Any(), gomock.Any(), "image/png").
		DoAndReturn(func(_ context.Context, key string, _ string) (string, error) {
			signedKey = key
			return "https://upload/" + key, nil
		})

	ticket, err := svc.MainUploadURL(ctx, room.ID, "cover.png", "image/png")
	require.NoError(t, err)
	assert.Equal(t, signedKey, ticket.Key)
	assert.True(t, strings.HasPrefix(ticket.Key, "rooms/"))
	assert.True(t, strings.HasSuffix(ticket.Key, "-cover.png"))

	stored, err := rooms.GetByID(ctx, room.ID)
	require.NoError(t, err)
	assert.Equal(t, ticket.Key, stored.ImageKey)

	signer.EXPECT().DownloadURL(gomock.Any(), ticket.Key).Return("https://download/cover", nil)
	url, err := svc.MainDownloadURL(ctx, room.ID)
	require.NoError(t, err)
	assert.Equal(t, "https://download/cover", url)
}

func TestGalleryUploadPublishes(t *testing.T) {
	ctx := context.Background()
	db := testutil.NewDB(t)
	ctrl := gomock.NewController(t)
	signer := storagemocks.NewMockURLSigner(ctrl)
	pub := mocks.NewMockPublisher(ctrl)
	svc := NewImageService(repository.NewGormRoomRepository(db), signer, pub, testutil.Logger())

	room := testutil.CreateRoom(t, db, "IMAGE2")
	stu := testutil.CreatePrincipal(t, db, domain.RoleStudent, "stu")

	signer.EXPECT().UploadURL(gomock.Any(), gomock.Any(), "image/jpeg").Return("https://upload", nil)
	signer.EXPECT().DownloadURL(gomock.Any(), gomock.Any()).Return("https://download", nil).Times(2)
	pub.EXPECT().PublishToRoom(room.ID, domain.EventImageUploaded, gomock.Any()).
		Do(func(_ uint, _ string, payload any) {
			img := payload.(GalleryImage)
			assert.NotZero(t, img.ID)
			assert.Equal(t, "https://download", img.URL)
		})

	ticket, err := svc.GalleryUploadURL(ctx, stu.Member(), room.ID, "board.jpg", "image/jpeg")
	require.NoError(t, err)
	assert.Equal(t, "https://upload", ticket.UploadURL)

	gallery, err := svc.ListGallery(ctx, room.ID)
	require.NoError(t, err)
	require.Len(t, gallery, 1)
	assert.Equal(t, ticket.Key, gallery[0].Key)
}

func TestGalleryUploadSignerFailure(t *testing.T) {
	ctx := context.Background()
	db := testutil.NewDB(t)
	ctrl := gomock.NewController(t)
	signer := storagemocks.NewMockURLSigner(ctrl)
	svc := NewImageService(repository.NewGormRoomRepository(db), signer, nil, testutil.Logger())

	room := testutil.CreateRoom(t, db, "IMAGE3")
	stu := testutil.CreatePrincipal(t, db, domain.RoleStudent, "stu")

	signer.EXPECT().UploadURL(gomock.Any(), gomock.Any(), gomock.Any()).Return("", errors.New("boom"))
	_, err := svc.GalleryUploadURL(ctx, stu.Member(), room.ID, "board.jpg", "image/jpeg")
	require.Error(t, err)

	gallery, err := svc.ListGallery(ctx, room.ID)
	require.NoError(t, err)
	assert.Empty(t, gallery)
}
