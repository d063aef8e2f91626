package db

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/Atrasoftware/avlogue/internal/models"
)

// AudioFormatRepository handles database operations for audio encode formats
type AudioFormatRepository struct {
	db *DB
}

// NewAudioFormatRepository creates a new audio format repository
func NewAudioFormatRepository(db *DB) *AudioFormatRepository {
	return &AudioFormatRepository{db: db}
}

// Create inserts a new audio format
func (r *AudioFormatRepository) Create(ctx context.Context, format *models.AudioFormat) error {
	result := r.db.WithContext(ctx).Create(format)
	if result.Error != nil {
		return fmt.Errorf("failed to create audio format: %w", MapGormError(result.Error))
	}
	return nil
}

// GetByID retrieves an audio format by its UUID
func (r *AudioFormatRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.AudioFormat, error) {
	var format models.AudioFormat
	result := r.db.WithContext(ctx).Where("id = ?", id.String()).First(&format)
	if result.Error != nil {
		return nil, MapGormError(result.Error)
	}
	return &format, nil
}

// GetByName retrieves an audio format by its unique name
func (r *AudioFormatRepository) GetByName(ctx context.Context, name string) (*models.AudioFormat, error) {
	var format models.AudioFormat
	result := r.db.WithContext(ctx).Where("name = ?", name).First(&format)
	if result.Error != nil {
		return nil, MapGormError(result.Error)
	}
	return &format, nil
}

// List retrieves all audio formats ordered by name
func (r *AudioFormatRepository) List(ctx context.Context) ([]models.AudioFormat, error) {
	var formats []models.AudioFormat
	result := r.db.WithContext(ctx).Order("name ASC").Find(&formats)
	if result.Error != nil {
		return nil, fmt.Errorf("failed to list audio formats: %w", MapGormError(result.Error))
	}
	return formats, nil
}

// Update updates an existing audio format
func (r *AudioFormatRepository) Update(ctx context.Context, format *models.AudioFormat) error {
	updates := map[string]interface{}{
		"name":               format.Name,
		"container":          format.Container,
		"audio_codec":        format.AudioCodec,
		"audio_codec_params": format.AudioCodecParams,
		"audio_bitrate":      format.AudioBitrate,
	}

	result := r.db.WithContext(ctx).Model(&models.AudioFormat{}).Where("id = ?", format.ID.String()).Updates(updates)
	if result.Error != nil {
		return fmt.Errorf("failed to update audio format: %w", MapGormError(result.Error))
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// Delete deletes an audio format by its UUID
func (r *AudioFormatRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Where("id = ?", id.String()).Delete(&models.AudioFormat{})
	if result.Error != nil {
		return fmt.Errorf("failed to delete audio format: %w", MapGormError(result.Error))
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// VideoFormatRepository handles database operations for video encode formats
type VideoFormatRepository struct {
	db *DB
}

// NewVideoFormatRepository creates a new video format repository
func NewVideoFormatRepository(db *DB) *VideoFormatRepository {
	return &VideoFormatRepository{db: db}
}

// Create inserts a new video format
func (r *VideoFormatRepository) Create(ctx context.Context, format *models.VideoFormat) error {
	result := r.db.WithContext(ctx).Create(format)
	if result.Error != nil {
		return fmt.Errorf("failed to create video format: %w", MapGormError(result.Error))
	}
	return nil
}

// GetByID retrieves a video format by its UUID
func (r *VideoFormatRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.VideoFormat, error) {
	var format models.VideoFormat
	result := r.db.WithContext(ctx).Where("id = ?", id.String()).First(&format)
	if result.Error != nil {
		return nil, MapGormError(result.Error)
	}
	return &format, nil
}

// GetByName retrieves a video format by its unique name
func (r *VideoFormatRepository) GetByName(ctx context.Context, name string) (*models.VideoFormat, error) {
	var format models.VideoFormat
	result := r.db.WithContext(ctx).Where("name = ?", name).First(&format)
	if result.Error != nil {
		return nil, MapGormError(result.Error)
	}
	return &format, nil
}

// List retrieves all video formats ordered by name
func (r *VideoFormatRepository) List(ctx context.Context) ([]models.VideoFormat, error) {
	var formats []models.VideoFormat
	result := r.db.WithContext(ctx).Order("name ASC").Find(&formats)
	if result.Error != nil {
		return nil, fmt.Errorf("failed to list video formats: %w", MapGormError(result.Error))
	}
	return formats, nil
}

// Update updates an existing video format
func (r *VideoFormatRepository) Update(ctx context.Context, format *models.VideoFormat) error {
	updates := map[string]interface{}{
		"name":               format.Name,
		"container":          format.Container,
		"audio_codec":        format.AudioCodec,
		"audio_codec_params": format.AudioCodecParams,
		"audio_bitrate":      format.AudioBitrate,
		"video_codec":        format.VideoCodec,
		"video_codec_params": format.VideoCodecParams,
		"video_bitrate":      format.VideoBitrate,
		"width":              format.Width,
		"height":             format.Height,
		"aspect_mode":        format.AspectMode,
	}

	result := r.db.WithContext(ctx).Model(&models.VideoFormat{}).Where("id = ?", format.ID.String()).Updates(updates)
	if result.Error != nil {
		return fmt.Errorf("failed to update video format: %w", MapGormError(result.Error))
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// Delete deletes a video format by its UUID
func (r *VideoFormatRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Where("id = ?", id.String()).Delete(&models.VideoFormat{})
	if result.Error != nil {
		return fmt.Errorf("failed to delete video format: %w", MapGormError(result.Error))
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}
