package service

import (
	"context"
	"fmt"
	"log/slog"
	"path"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/immxrtalbeast/classroom_live/internal/domain"
	"github.com/immxrtalbeast/classroom_live/internal/repository"
	"github.com/immxrtalbeast/classroom_live/internal/storage"
	"github.com/immxrtalbeast/classroom_live/lib/logger/sl"
)

type UploadTicket struct {
	UploadURL string `json:"uploadUrl"`
	Key       string `json:"key"`
}

type GalleryImage struct {
	ID        uint      `json:"id"`
	Key       string    `json:"key"`
	URL       string    `json:"url"`
	CreatedAt time.Time `json:"createdAt"`
}

type ImageService struct {
	rooms     repository.RoomRepository
	signer    storage.URLSigner
	publisher Publisher
	log       *slog.Logger
}

func NewImageService(rooms repository.RoomRepository, signer storage.URLSigner, publisher Publisher, log *slog.Logger) *ImageService {
	if log == nil {
		log = slog.Default()
	}
	return &ImageService{rooms: rooms, signer: signer, publisher: publisherOrNoop(publisher), log: log}
}

// MainUploadURL signs an upload for the room's cover image and records the
// key on the room right away.
func (s *ImageService) MainUploadURL(ctx context.Context, roomID uint, fileName string, contentType string) (*UploadTicket, error) {
	const op = "service.image.mainUpload"
	log := s.log.With(slog.String("op", op), slog.Uint64("room_id", uint64(roomID)))

	key, err := objectKey(roomID, fileName, contentType)
	if err != nil {
		return nil, err
	}
	if _, err := s.rooms.GetByID(ctx, roomID); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	url, err := s.signer.UploadURL(ctx, key, contentType)
	if err != nil {
		log.Error("failed to sign upload", sl.Err(err))
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if err := s.rooms.UpdateImageKey(ctx, roomID, key); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return &UploadTicket{UploadURL: url, Key: key}, nil
}

func (s *ImageService) MainDownloadURL(ctx context.Context, roomID uint) (string, error) {
	const op = "service.image.mainDownload"

	room, err := s.rooms.GetByID(ctx, roomID)
	if err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}
	if room.ImageKey == "" {
		return "", fmt.Errorf("%w: image not found", domain.ErrNotFound)
	}

	url, err := s.signer.DownloadURL(ctx, room.ImageKey)
	if err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}
	return url, nil
}

// GalleryUploadURL stores the gallery row before the client uploads and
// announces it with a download URL.
func (s *ImageService) GalleryUploadURL(ctx context.Context, actor domain.Member, roomID uint, fileName string, contentType string) (*UploadTicket, error) {
	const op = "service.image.galleryUpload"
	log := s.log.With(slog.String("op", op), slog.Uint64("room_id", uint64(roomID)))

	key, err := objectKey(roomID, fileName, contentType)
	if err != nil {
		return nil, err
	}
	if _, err := s.rooms.GetByID(ctx, roomID); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	uploadURL, err := s.signer.UploadURL(ctx, key, contentType)
	if err != nil {
		log.Error("failed to sign upload", sl.Err(err))
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	image := &domain.RoomImage{RoomID: roomID, UploaderID: actor.UserID, Key: key}
	if err := s.rooms.AddImage(ctx, image); err != nil {
		log.Error("failed to save image", sl.Err(err))
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	downloadURL, err := s.signer.DownloadURL(ctx, key)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	s.publisher.PublishToRoom(roomID, domain.EventImageUploaded, GalleryImage{
		ID:        image.ID,
		Key:       image.Key,
		URL:       downloadURL,
		CreatedAt: image.CreatedAt,
	})

	return &UploadTicket{UploadURL: uploadURL, Key: key}, nil
}

func (s *ImageService) ListGallery(ctx context.Context, roomID uint) ([]GalleryImage, error) {
	const op = "service.image.listGallery"

	images, err := s.rooms.ListImages(ctx, roomID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	result := make([]GalleryImage, 0, len(images))
	for _, img := range images {
		url, err := s.signer.DownloadURL(ctx, img.Key)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		result = append(result, GalleryImage{ID: img.ID, Key: img.Key, URL: url, CreatedAt: img.CreatedAt})
	}
	return result, nil
}

func objectKey(roomID uint, fileName string, contentType string) (string, error) {
	name := path.Base(strings.TrimSpace(fileName))
	if name == "" || name == "." || name == "/" {
		return "", fmt.Errorf("%w: file name is required", domain.ErrBadRequest)
	}
	if !strings.HasPrefix(contentType, "image/") {
		return "", fmt.Errorf("%w: content type must be an image", domain.ErrBadRequest)
	}
	return fmt.Sprintf("rooms/%d/%s-%s", roomID, uuid.NewString(), name), nil
}
