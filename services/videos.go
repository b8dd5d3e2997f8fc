// services/videos.go - Highlight videos and their counters
package services

import (
	"context"
	"fmt"
	"mime/multipart"
	"strings"

	"scoutlink/models"
	"scoutlink/validation"
)

// VideoUpload is the metadata sent alongside the video file.
type VideoUpload struct {
	Title       string
	Description *string
	Thumbnail   *string
	Duration    *int
}

type VideoService struct {
	store   Store
	uploads *UploadStorage
}

func NewVideoService(store Store, uploads *UploadStorage) *VideoService {
	return &VideoService{store: store, uploads: uploads}
}

// Upload stores the file and records the video for the caller.
func (s *VideoService) Upload(ctx context.Context, p Principal, meta VideoUpload, file *multipart.FileHeader) (*models.Video, error) {
	title := strings.TrimSpace(meta.Title)
	if title == "" {
		return nil, validation.NewFieldError("title", "title is required")
	}
	if meta.Duration != nil && *meta.Duration < 0 {
		return nil, validation.NewFieldError("duration", "duration must be at least 0")
	}

	url, err := s.uploads.Save(file, "videos", "videoFile", VideoExtensions)
	if err != nil {
		return nil, err
	}

	video := &models.Video{
		UserID:      p.UserID,
		Title:       title,
		Description: meta.Description,
		URL:         url,
		Thumbnail:   meta.Thumbnail,
		Duration:    meta.Duration,
	}
	if err := s.store.CreateVideo(ctx, video); err != nil {
		s.uploads.Remove(url)
		return nil, fmt.Errorf("create video: %w", err)
	}
	return video, nil
}

// View returns the video after counting one more view.
func (s *VideoService) View(ctx context.Context, id uint) (*models.Video, error) {
	return s.store.IncrementVideoViews(ctx, id)
}

// Like counts one more like.
func (s *VideoService) Like(ctx context.Context, id uint) (*models.Video, error) {
	return s.store.IncrementVideoLikes(ctx, id)
}

func (s *VideoService) ByUser(ctx context.Context, userID uint) ([]models.Video, error) {
	return s.store.ListVideosByUser(ctx, userID)
}

// Feed lists the most recent uploads.
func (s *VideoService) Feed(ctx context.Context, limit, offset int) ([]models.Video, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}
	return s.store.ListRecentVideos(ctx, limit, offset)
}
