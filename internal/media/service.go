package media

import (
	"context"
	"fmt"
	"os"
	"path"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/gosimple/slug"

	"github.com/Atrasoftware/avlogue/internal/config"
	"github.com/Atrasoftware/avlogue/internal/db"
	"github.com/Atrasoftware/avlogue/internal/encoder"
	"github.com/Atrasoftware/avlogue/internal/logger"
	"github.com/Atrasoftware/avlogue/internal/models"
	"github.com/Atrasoftware/avlogue/internal/storage"
)

// Service ingests uploaded media files: it validates the content type,
// probes the technical metadata, stores the file and persists the row.
// Nothing is stored when validation or probing fails.
type Service struct {
	repos *db.Repositories
	enc   encoder.Encoder
	store storage.Backend
	dirs  config.MediaConfig
}

// NewService creates a new ingestion service instance
func NewService(repos *db.Repositories, enc encoder.Encoder, store storage.Backend, dirs config.MediaConfig) *Service {
	return &Service{
		repos: repos,
		enc:   enc,
		store: store,
		dirs:  dirs,
	}
}

// CreateAudioFromFile ingests the audio file at filePath. An empty title
// defaults to the file's base name.
func (s *Service) CreateAudioFromFile(ctx context.Context, filePath, title, description string) (*models.Audio, error) {
	if title == "" {
		title = titleFromPath(filePath)
	}

	if err := AudioValidator.Validate(filePath); err != nil {
		return nil, err
	}

	meta, err := s.enc.Probe(ctx, filePath)
	if err != nil {
		return nil, err
	}

	stored, err := s.storeUpload(ctx, filePath, s.dirs.AudioDir)
	if err != nil {
		return nil, err
	}

	audio := &models.Audio{
		ID:          uuid.New(),
		Title:       title,
		Slug:        slug.Make(title),
		Description: description,
		DateAdded:   time.Now().UTC(),
		File:        stored,
	}
	meta.ApplyTo(&audio.MediaInfo, &audio.AudioProperties, nil)

	if err := s.repos.AudioFiles.Create(ctx, audio); err != nil {
		// Roll the upload back so the failed row leaves no orphan object
		s.discard(ctx, stored)
		return nil, err
	}

	logger.Log.Info().
		Str("audio_id", audio.ID.String()).
		Str("title", audio.Title).
		Str("file", audio.File).
		Msg("Audio file ingested")

	return audio, nil
}

// CreateVideoFromFile ingests the video file at filePath. An empty title
// defaults to the file's base name.
func (s *Service) CreateVideoFromFile(ctx context.Context, filePath, title, description string) (*models.Video, error) {
	if title == "" {
		title = titleFromPath(filePath)
	}

	if err := VideoValidator.Validate(filePath); err != nil {
		return nil, err
	}

	meta, err := s.enc.Probe(ctx, filePath)
	if err != nil {
		return nil, err
	}

	stored, err := s.storeUpload(ctx, filePath, s.dirs.VideoDir)
	if err != nil {
		return nil, err
	}

	video := &models.Video{
		ID:          uuid.New(),
		Title:       title,
		Slug:        slug.Make(title),
		Description: description,
		DateAdded:   time.Now().UTC(),
		File:        stored,
	}
	meta.ApplyTo(&video.MediaInfo, &video.AudioProperties, &video.VideoProperties)

	if err := s.repos.VideoFiles.Create(ctx, video); err != nil {
		s.discard(ctx, stored)
		return nil, err
	}

	logger.Log.Info().
		Str("video_id", video.ID.String()).
		Str("title", video.Title).
		Str("file", video.File).
		Msg("Video file ingested")

	return video, nil
}

// ReplaceAudioFile replaces an audio file's backing object with the file
// at filePath and refreshes the probed metadata. The repository removes
// the previously stored object once the row update went through.
func (s *Service) ReplaceAudioFile(ctx context.Context, audio *models.Audio, filePath string) error {
	if err := AudioValidator.Validate(filePath); err != nil {
		return err
	}

	meta, err := s.enc.Probe(ctx, filePath)
	if err != nil {
		return err
	}

	stored, err := s.storeUpload(ctx, filePath, s.dirs.AudioDir)
	if err != nil {
		return err
	}

	audio.File = stored
	meta.ApplyTo(&audio.MediaInfo, &audio.AudioProperties, nil)

	if err := s.repos.AudioFiles.Update(ctx, audio); err != nil {
		s.discard(ctx, stored)
		return err
	}
	return nil
}

// ReplaceVideoFile replaces a video file's backing object with the file
// at filePath and refreshes the probed metadata.
func (s *Service) ReplaceVideoFile(ctx context.Context, video *models.Video, filePath string) error {
	if err := VideoValidator.Validate(filePath); err != nil {
		return err
	}

	meta, err := s.enc.Probe(ctx, filePath)
	if err != nil {
		return err
	}

	stored, err := s.storeUpload(ctx, filePath, s.dirs.VideoDir)
	if err != nil {
		return err
	}

	video.File = stored
	meta.ApplyTo(&video.MediaInfo, &video.AudioProperties, &video.VideoProperties)

	if err := s.repos.VideoFiles.Update(ctx, video); err != nil {
		s.discard(ctx, stored)
		return err
	}
	return nil
}

// storeUpload copies a local file into storage under dir
func (s *Service) storeUpload(ctx context.Context, filePath, dir string) (string, error) {
	f, err := os.Open(filePath)
	if err != nil {
		return "", fmt.Errorf("failed to open upload: %w", err)
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return "", fmt.Errorf("failed to stat upload: %w", err)
	}

	name := path.Join(dir, filepath.Base(filePath))
	stored, err := s.store.Save(ctx, name, f, info.Size())
	if err != nil {
		return "", fmt.Errorf("failed to store upload: %w", err)
	}
	return stored, nil
}

// discard best-effort deletes a stored object after a failed row write
func (s *Service) discard(ctx context.Context, name string) {
	if err := s.store.Delete(ctx, name); err != nil {
		logger.Log.Debug().
			Err(err).
			Str("object", name).
			Msg("Failed to discard stored upload")
	}
}

func titleFromPath(filePath string) string {
	base := filepath.Base(filePath)
	return strings.TrimSuffix(base, filepath.Ext(base))
}
