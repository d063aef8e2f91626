package db

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/Atrasoftware/avlogue/internal/models"
	"github.com/Atrasoftware/avlogue/internal/storage"
)

// AudioRepository handles database operations for uploaded audio files.
// Update and Delete also take care of the file lifecycle: an old backing
// object is removed once the row no longer references it.
type AudioRepository struct {
	db    *DB
	files fileCleaner
}

// NewAudioRepository creates a new audio file repository
func NewAudioRepository(db *DB, store storage.Backend) *AudioRepository {
	return &AudioRepository{db: db, files: fileCleaner{store: store}}
}

// Create inserts a new audio file row
func (r *AudioRepository) Create(ctx context.Context, audio *models.Audio) error {
	result := r.db.WithContext(ctx).Create(audio)
	if result.Error != nil {
		return fmt.Errorf("failed to create audio file: %w", MapGormError(result.Error))
	}
	return nil
}

// GetByID retrieves an audio file by its UUID
func (r *AudioRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Audio, error) {
	var audio models.Audio
	result := r.db.WithContext(ctx).Where("id = ?", id.String()).First(&audio)
	if result.Error != nil {
		return nil, MapGormError(result.Error)
	}
	return &audio, nil
}

// GetBySlug retrieves an audio file by its slug
func (r *AudioRepository) GetBySlug(ctx context.Context, slug string) (*models.Audio, error) {
	var audio models.Audio
	result := r.db.WithContext(ctx).Where("slug = ?", slug).First(&audio)
	if result.Error != nil {
		return nil, MapGormError(result.Error)
	}
	return &audio, nil
}

// List retrieves audio files ordered by date added, newest first
func (r *AudioRepository) List(ctx context.Context, limit, offset int) ([]*models.Audio, error) {
	var audioList []*models.Audio
	query := r.db.WithContext(ctx).Order("date_added DESC")

	if limit > 0 {
		query = query.Limit(limit)
	}
	if offset > 0 {
		query = query.Offset(offset)
	}

	result := query.Find(&audioList)
	if result.Error != nil {
		return nil, fmt.Errorf("failed to list audio files: %w", MapGormError(result.Error))
	}
	return audioList, nil
}

// Update updates an existing audio file row. If the file reference
// changed, the previously stored object is deleted from storage.
// Note: Uses map-based updates to support setting fields to zero values
func (r *AudioRepository) Update(ctx context.Context, audio *models.Audio) error {
	old, err := r.GetByID(ctx, audio.ID)
	if err != nil {
		return err
	}

	updates := map[string]interface{}{
		"title":          audio.Title,
		"slug":           audio.Slug,
		"description":    audio.Description,
		"date_added":     audio.DateAdded,
		"file":           audio.File,
		"bitrate":        audio.Bitrate,
		"duration":       audio.Duration,
		"size":           audio.Size,
		"audio_codec":    audio.AudioCodec,
		"audio_bitrate":  audio.AudioBitrate,
		"audio_channels": audio.AudioChannels,
	}

	result := r.db.WithContext(ctx).Model(&models.Audio{}).Where("id = ?", audio.ID.String()).Updates(updates)
	if result.Error != nil {
		return fmt.Errorf("failed to update audio file: %w", MapGormError(result.Error))
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}

	r.files.onChange(ctx, old.File, audio.File)
	return nil
}

// Delete deletes an audio file row together with its backing object.
// Derived stream rows are removed by the cascade constraint; their
// backing objects are cleaned up here as well.
func (r *AudioRepository) Delete(ctx context.Context, id uuid.UUID) error {
	audio, err := r.GetByID(ctx, id)
	if err != nil {
		return err
	}

	// Collect stream files and delete the row in one transaction, so the
	// collected list matches exactly what the cascade removes.
	var streamFiles []string
	err = r.db.WithTransaction(ctx, func(tx *gorm.DB) error {
		result := tx.
			Model(&models.AudioStream{}).
			Where("media_file_id = ?", id.String()).
			Pluck("file", &streamFiles)
		if result.Error != nil {
			return fmt.Errorf("failed to collect stream files: %w", MapGormError(result.Error))
		}

		result = tx.Where("id = ?", id.String()).Delete(&models.Audio{})
		if result.Error != nil {
			return fmt.Errorf("failed to delete audio file: %w", MapGormError(result.Error))
		}
		if result.RowsAffected == 0 {
			return ErrNotFound
		}
		return nil
	})
	if err != nil {
		return err
	}

	r.files.onDelete(ctx, audio.File)
	for _, name := range streamFiles {
		r.files.onDelete(ctx, name)
	}
	return nil
}
