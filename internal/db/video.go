package db

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/Atrasoftware/avlogue/internal/models"
	"github.com/Atrasoftware/avlogue/internal/storage"
)

// VideoRepository handles database operations for uploaded video files,
// with the same file lifecycle behavior as AudioRepository.
type VideoRepository struct {
	db    *DB
	files fileCleaner
}

// NewVideoRepository creates a new video file repository
func NewVideoRepository(db *DB, store storage.Backend) *VideoRepository {
	return &VideoRepository{db: db, files: fileCleaner{store: store}}
}

// Create inserts a new video file row
func (r *VideoRepository) Create(ctx context.Context, video *models.Video) error {
	result := r.db.WithContext(ctx).Create(video)
	if result.Error != nil {
		return fmt.Errorf("failed to create video file: %w", MapGormError(result.Error))
	}
	return nil
}

// GetByID retrieves a video file by its UUID
func (r *VideoRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Video, error) {
	var video models.Video
	result := r.db.WithContext(ctx).Where("id = ?", id.String()).First(&video)
	if result.Error != nil {
		return nil, MapGormError(result.Error)
	}
	return &video, nil
}

// GetBySlug retrieves a video file by its slug
func (r *VideoRepository) GetBySlug(ctx context.Context, slug string) (*models.Video, error) {
	var video models.Video
	result := r.db.WithContext(ctx).Where("slug = ?", slug).First(&video)
	if result.Error != nil {
		return nil, MapGormError(result.Error)
	}
	return &video, nil
}

// List retrieves video files ordered by date added, newest first
func (r *VideoRepository) List(ctx context.Context, limit, offset int) ([]*models.Video, error) {
	var videoList []*models.Video
	query := r.db.WithContext(ctx).Order("date_added DESC")

	if limit > 0 {
		query = query.Limit(limit)
	}
	if offset > 0 {
		query = query.Offset(offset)
	}

	result := query.Find(&videoList)
	if result.Error != nil {
		return nil, fmt.Errorf("failed to list video files: %w", MapGormError(result.Error))
	}
	return videoList, nil
}

// Update updates an existing video file row. If the file reference
// changed, the previously stored object is deleted from storage.
func (r *VideoRepository) Update(ctx context.Context, video *models.Video) error {
	old, err := r.GetByID(ctx, video.ID)
	if err != nil {
		return err
	}

	updates := map[string]interface{}{
		"title":          video.Title,
		"slug":           video.Slug,
		"description":    video.Description,
		"date_added":     video.DateAdded,
		"file":           video.File,
		"bitrate":        video.Bitrate,
		"duration":       video.Duration,
		"size":           video.Size,
		"audio_codec":    video.AudioCodec,
		"audio_bitrate":  video.AudioBitrate,
		"audio_channels": video.AudioChannels,
		"video_codec":    video.VideoCodec,
		"video_bitrate":  video.VideoBitrate,
		"width":          video.Width,
		"height":         video.Height,
	}

	result := r.db.WithContext(ctx).Model(&models.Video{}).Where("id = ?", video.ID.String()).Updates(updates)
	if result.Error != nil {
		return fmt.Errorf("failed to update video file: %w", MapGormError(result.Error))
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}

	r.files.onChange(ctx, old.File, video.File)
	return nil
}

// Delete deletes a video file row together with its backing object and
// the backing objects of its cascade-deleted streams.
func (r *VideoRepository) Delete(ctx context.Context, id uuid.UUID) error {
	video, err := r.GetByID(ctx, id)
	if err != nil {
		return err
	}

	var streamFiles []string
	err = r.db.WithTransaction(ctx, func(tx *gorm.DB) error {
		result := tx.
			Model(&models.VideoStream{}).
			Where("media_file_id = ?", id.String()).
			Pluck("file", &streamFiles)
		if result.Error != nil {
			return fmt.Errorf("failed to collect stream files: %w", MapGormError(result.Error))
		}

		result = tx.Where("id = ?", id.String()).Delete(&models.Video{})
		if result.Error != nil {
			return fmt.Errorf("failed to delete video file: %w", MapGormError(result.Error))
		}
		if result.RowsAffected == 0 {
			return ErrNotFound
		}
		return nil
	})
	if err != nil {
		return err
	}

	r.files.onDelete(ctx, video.File)
	for _, name := range streamFiles {
		r.files.onDelete(ctx, name)
	}
	return nil
}
