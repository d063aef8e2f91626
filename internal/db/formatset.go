package db

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/Atrasoftware/avlogue/internal/models"
)

// AudioFormatSetRepository handles database operations for named audio
// format collections. Member formats are referenced, never owned.
type AudioFormatSetRepository struct {
	db *DB
}

// NewAudioFormatSetRepository creates a new audio format set repository
func NewAudioFormatSetRepository(db *DB) *AudioFormatSetRepository {
	return &AudioFormatSetRepository{db: db}
}

// Create inserts a new format set and its membership rows. The member
// formats themselves must already exist.
func (r *AudioFormatSetRepository) Create(ctx context.Context, set *models.AudioFormatSet) error {
	result := r.db.WithContext(ctx).Omit("Formats.*").Create(set)
	if result.Error != nil {
		return fmt.Errorf("failed to create audio format set: %w", MapGormError(result.Error))
	}
	return nil
}

// GetByID retrieves a format set with its member formats
func (r *AudioFormatSetRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.AudioFormatSet, error) {
	var set models.AudioFormatSet
	result := r.db.WithContext(ctx).Preload("Formats").Where("id = ?", id.String()).First(&set)
	if result.Error != nil {
		return nil, MapGormError(result.Error)
	}
	return &set, nil
}

// GetByName retrieves a format set by its unique name, with members
func (r *AudioFormatSetRepository) GetByName(ctx context.Context, name string) (*models.AudioFormatSet, error) {
	var set models.AudioFormatSet
	result := r.db.WithContext(ctx).Preload("Formats").Where("name = ?", name).First(&set)
	if result.Error != nil {
		return nil, MapGormError(result.Error)
	}
	return &set, nil
}

// List retrieves all format sets with their member formats
func (r *AudioFormatSetRepository) List(ctx context.Context) ([]models.AudioFormatSet, error) {
	var sets []models.AudioFormatSet
	result := r.db.WithContext(ctx).Preload("Formats").Order("name ASC").Find(&sets)
	if result.Error != nil {
		return nil, fmt.Errorf("failed to list audio format sets: %w", MapGormError(result.Error))
	}
	return sets, nil
}

// SetFormats replaces the member formats of a format set
func (r *AudioFormatSetRepository) SetFormats(ctx context.Context, set *models.AudioFormatSet, formats []models.AudioFormat) error {
	err := r.db.WithContext(ctx).Model(set).Association("Formats").Replace(formats)
	if err != nil {
		return fmt.Errorf("failed to set audio format set members: %w", MapGormError(err))
	}
	set.Formats = formats
	return nil
}

// Delete deletes a format set; membership rows cascade, member formats stay
func (r *AudioFormatSetRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Where("id = ?", id.String()).Delete(&models.AudioFormatSet{})
	if result.Error != nil {
		return fmt.Errorf("failed to delete audio format set: %w", MapGormError(result.Error))
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// VideoFormatSetRepository handles database operations for named video
// format collections.
type VideoFormatSetRepository struct {
	db *DB
}

// NewVideoFormatSetRepository creates a new video format set repository
func NewVideoFormatSetRepository(db *DB) *VideoFormatSetRepository {
	return &VideoFormatSetRepository{db: db}
}

// Create inserts a new format set and its membership rows
func (r *VideoFormatSetRepository) Create(ctx context.Context, set *models.VideoFormatSet) error {
	result := r.db.WithContext(ctx).Omit("Formats.*").Create(set)
	if result.Error != nil {
		return fmt.Errorf("failed to create video format set: %w", MapGormError(result.Error))
	}
	return nil
}

// GetByID retrieves a format set with its member formats
func (r *VideoFormatSetRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.VideoFormatSet, error) {
	var set models.VideoFormatSet
	result := r.db.WithContext(ctx).Preload("Formats").Where("id = ?", id.String()).First(&set)
	if result.Error != nil {
		return nil, MapGormError(result.Error)
	}
	return &set, nil
}

// GetByName retrieves a format set by its unique name, with members
func (r *VideoFormatSetRepository) GetByName(ctx context.Context, name string) (*models.VideoFormatSet, error) {
	var set models.VideoFormatSet
	result := r.db.WithContext(ctx).Preload("Formats").Where("name = ?", name).First(&set)
	if result.Error != nil {
		return nil, MapGormError(result.Error)
	}
	return &set, nil
}

// List retrieves all format sets with their member formats
func (r *VideoFormatSetRepository) List(ctx context.Context) ([]models.VideoFormatSet, error) {
	var sets []models.VideoFormatSet
	result := r.db.WithContext(ctx).Preload("Formats").Order("name ASC").Find(&sets)
	if result.Error != nil {
		return nil, fmt.Errorf("failed to list video format sets: %w", MapGormError(result.Error))
	}
	return sets, nil
}

// SetFormats replaces the member formats of a format set
func (r *VideoFormatSetRepository) SetFormats(ctx context.Context, set *models.VideoFormatSet, formats []models.VideoFormat) error {
	err := r.db.WithContext(ctx).Model(set).Association("Formats").Replace(formats)
	if err != nil {
		return fmt.Errorf("failed to set video format set members: %w", MapGormError(err))
	}
	set.Formats = formats
	return nil
}

// Delete deletes a format set; membership rows cascade, member formats stay
func (r *VideoFormatSetRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Where("id = ?", id.String()).Delete(&models.VideoFormatSet{})
	if result.Error != nil {
		return fmt.Errorf("failed to delete video format set: %w", MapGormError(result.Error))
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}
