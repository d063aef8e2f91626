package db

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/Atrasoftware/avlogue/internal/models"
	"github.com/Atrasoftware/avlogue/internal/storage"
)

// AudioStreamRepository handles database operations for derived audio
// streams. The unique (media_file_id, format_id) index guarantees at most
// one stream per format per source: concurrent writers racing on the same
// pair see the second insert fail with ErrDuplicate.
type AudioStreamRepository struct {
	db    *DB
	files fileCleaner
}

// NewAudioStreamRepository creates a new audio stream repository
func NewAudioStreamRepository(db *DB, store storage.Backend) *AudioStreamRepository {
	return &AudioStreamRepository{db: db, files: fileCleaner{store: store}}
}

// Create inserts a new audio stream row, stamping its created time
func (r *AudioStreamRepository) Create(ctx context.Context, stream *models.AudioStream) error {
	stream.Created = time.Now().UTC()
	result := r.db.WithContext(ctx).Omit("MediaFile", "Format").Create(stream)
	if result.Error != nil {
		return fmt.Errorf("failed to create audio stream: %w", MapGormError(result.Error))
	}
	return nil
}

// GetByID retrieves an audio stream by its UUID
func (r *AudioStreamRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.AudioStream, error) {
	var stream models.AudioStream
	result := r.db.WithContext(ctx).Where("id = ?", id.String()).First(&stream)
	if result.Error != nil {
		return nil, MapGormError(result.Error)
	}
	return &stream, nil
}

// GetByMediaAndFormat retrieves the stream for a (media file, format) pair
func (r *AudioStreamRepository) GetByMediaAndFormat(ctx context.Context, mediaFileID, formatID uuid.UUID) (*models.AudioStream, error) {
	var stream models.AudioStream
	result := r.db.WithContext(ctx).
		Where("media_file_id = ? AND format_id = ?", mediaFileID.String(), formatID.String()).
		First(&stream)
	if result.Error != nil {
		return nil, MapGormError(result.Error)
	}
	return &stream, nil
}

// ListByMediaFile retrieves all streams derived from one audio file
func (r *AudioStreamRepository) ListByMediaFile(ctx context.Context, mediaFileID uuid.UUID) ([]models.AudioStream, error) {
	var streams []models.AudioStream
	result := r.db.WithContext(ctx).
		Where("media_file_id = ?", mediaFileID.String()).
		Order("created ASC").
		Find(&streams)
	if result.Error != nil {
		return nil, fmt.Errorf("failed to list audio streams: %w", MapGormError(result.Error))
	}
	return streams, nil
}

// Update updates an existing audio stream row, refreshing its created
// time. A changed file reference releases the old backing object.
func (r *AudioStreamRepository) Update(ctx context.Context, stream *models.AudioStream) error {
	old, err := r.GetByID(ctx, stream.ID)
	if err != nil {
		return err
	}

	stream.Created = time.Now().UTC()
	updates := map[string]interface{}{
		"file":           stream.File,
		"created":        stream.Created,
		"bitrate":        stream.Bitrate,
		"duration":       stream.Duration,
		"size":           stream.Size,
		"audio_codec":    stream.AudioCodec,
		"audio_bitrate":  stream.AudioBitrate,
		"audio_channels": stream.AudioChannels,
	}

	result := r.db.WithContext(ctx).Model(&models.AudioStream{}).Where("id = ?", stream.ID.String()).Updates(updates)
	if result.Error != nil {
		return fmt.Errorf("failed to update audio stream: %w", MapGormError(result.Error))
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}

	r.files.onChange(ctx, old.File, stream.File)
	return nil
}

// Delete deletes an audio stream row and its backing object
func (r *AudioStreamRepository) Delete(ctx context.Context, id uuid.UUID) error {
	stream, err := r.GetByID(ctx, id)
	if err != nil {
		return err
	}

	result := r.db.WithContext(ctx).Where("id = ?", id.String()).Delete(&models.AudioStream{})
	if result.Error != nil {
		return fmt.Errorf("failed to delete audio stream: %w", MapGormError(result.Error))
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}

	r.files.onDelete(ctx, stream.File)
	return nil
}

// VideoStreamRepository handles database operations for derived video streams
type VideoStreamRepository struct {
	db    *DB
	files fileCleaner
}

// NewVideoStreamRepository creates a new video stream repository
func NewVideoStreamRepository(db *DB, store storage.Backend) *VideoStreamRepository {
	return &VideoStreamRepository{db: db, files: fileCleaner{store: store}}
}

// Create inserts a new video stream row, stamping its created time
func (r *VideoStreamRepository) Create(ctx context.Context, stream *models.VideoStream) error {
	stream.Created = time.Now().UTC()
	result := r.db.WithContext(ctx).Omit("MediaFile", "Format").Create(stream)
	if result.Error != nil {
		return fmt.Errorf("failed to create video stream: %w", MapGormError(result.Error))
	}
	return nil
}

// GetByID retrieves a video stream by its UUID
func (r *VideoStreamRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.VideoStream, error) {
	var stream models.VideoStream
	result := r.db.WithContext(ctx).Where("id = ?", id.String()).First(&stream)
	if result.Error != nil {
		return nil, MapGormError(result.Error)
	}
	return &stream, nil
}

// GetByMediaAndFormat retrieves the stream for a (media file, format) pair
func (r *VideoStreamRepository) GetByMediaAndFormat(ctx context.Context, mediaFileID, formatID uuid.UUID) (*models.VideoStream, error) {
	var stream models.VideoStream
	result := r.db.WithContext(ctx).
		Where("media_file_id = ? AND format_id = ?", mediaFileID.String(), formatID.String()).
		First(&stream)
	if result.Error != nil {
		return nil, MapGormError(result.Error)
	}
	return &stream, nil
}

// ListByMediaFile retrieves all streams derived from one video file
func (r *VideoStreamRepository) ListByMediaFile(ctx context.Context, mediaFileID uuid.UUID) ([]models.VideoStream, error) {
	var streams []models.VideoStream
	result := r.db.WithContext(ctx).
		Where("media_file_id = ?", mediaFileID.String()).
		Order("created ASC").
		Find(&streams)
	if result.Error != nil {
		return nil, fmt.Errorf("failed to list video streams: %w", MapGormError(result.Error))
	}
	return streams, nil
}

// Update updates an existing video stream row, refreshing its created
// time. A changed file reference releases the old backing object.
func (r *VideoStreamRepository) Update(ctx context.Context, stream *models.VideoStream) error {
	old, err := r.GetByID(ctx, stream.ID)
	if err != nil {
		return err
	}

	stream.Created = time.Now().UTC()
	updates := map[string]interface{}{
		"file":           stream.File,
		"created":        stream.Created,
		"bitrate":        stream.Bitrate,
		"duration":       stream.Duration,
		"size":           stream.Size,
		"audio_codec":    stream.AudioCodec,
		"audio_bitrate":  stream.AudioBitrate,
		"audio_channels": stream.AudioChannels,
		"video_codec":    stream.VideoCodec,
		"video_bitrate":  stream.VideoBitrate,
		"width":          stream.Width,
		"height":         stream.Height,
	}

	result := r.db.WithContext(ctx).Model(&models.VideoStream{}).Where("id = ?", stream.ID.String()).Updates(updates)
	if result.Error != nil {
		return fmt.Errorf("failed to update video stream: %w", MapGormError(result.Error))
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}

	r.files.onChange(ctx, old.File, stream.File)
	return nil
}

// Delete deletes a video stream row and its backing object
func (r *VideoStreamRepository) Delete(ctx context.Context, id uuid.UUID) error {
	stream, err := r.GetByID(ctx, id)
	if err != nil {
		return err
	}

	result := r.db.WithContext(ctx).Where("id = ?", id.String()).Delete(&models.VideoStream{})
	if result.Error != nil {
		return fmt.Errorf("failed to delete video stream: %w", MapGormError(result.Error))
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}

	r.files.onDelete(ctx, stream.File)
	return nil
}
