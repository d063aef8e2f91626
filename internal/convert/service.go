// Package convert orchestrates the transcoding of media files into their
// derived streams. The quality gate decides synchronously which formats
// to produce; the encoding itself runs as a background job whose result
// is retrieved through the returned handle.
package convert

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path"
	"path/filepath"

	"github.com/google/uuid"

	"github.com/Atrasoftware/avlogue/internal/config"
	"github.com/Atrasoftware/avlogue/internal/db"
	"github.com/Atrasoftware/avlogue/internal/encoder"
	"github.com/Atrasoftware/avlogue/internal/jobs"
	"github.com/Atrasoftware/avlogue/internal/logger"
	"github.com/Atrasoftware/avlogue/internal/models"
	"github.com/Atrasoftware/avlogue/internal/quality"
	"github.com/Atrasoftware/avlogue/internal/storage"
)

// Service submits and runs encode batches.
type Service struct {
	repos   *db.Repositories
	enc     encoder.Encoder
	store   storage.Backend
	queue   jobs.Queue
	tempDir string
	dirs    config.MediaConfig
}

// NewService creates a new conversion service instance. tempDir may be
// empty to use the system default.
func NewService(repos *db.Repositories, enc encoder.Encoder, store storage.Backend, queue jobs.Queue, tempDir string, dirs config.MediaConfig) *Service {
	return &Service{
		repos:   repos,
		enc:     enc,
		store:   store,
		queue:   queue,
		tempDir: tempDir,
		dirs:    dirs,
	}
}

// ConvertAudio filters formats through the quality gate and submits one
// background job for the accepted subset. When no format passes the gate
// no job is submitted and the returned handle is nil. The handle's
// eventual result is []*models.AudioStream, in input format order;
// individually failed formats are reported through the handle's error
// without aborting the rest of the batch.
func (s *Service) ConvertAudio(ctx context.Context, audio *models.Audio, formats []models.AudioFormat) (*jobs.Handle, error) {
	accepted := quality.FilterAudioFormats(audio, formats)
	if len(accepted) == 0 {
		logger.Log.Debug().
			Str("audio_id", audio.ID.String()).
			Int("candidates", len(formats)).
			Msg("No formats passed the quality gate")
		return nil, nil
	}

	media := *audio // job runs after return, work on a copy
	return s.queue.Submit(ctx, func(jobCtx context.Context) (any, error) {
		return s.encodeAudio(jobCtx, &media, accepted)
	})
}

// ConvertAudioSet converts an audio file into the members of a format set.
func (s *Service) ConvertAudioSet(ctx context.Context, audio *models.Audio, set *models.AudioFormatSet) (*jobs.Handle, error) {
	return s.ConvertAudio(ctx, audio, set.Formats)
}

// ConvertVideo is the video counterpart of ConvertAudio. The handle's
// eventual result is []*models.VideoStream.
func (s *Service) ConvertVideo(ctx context.Context, video *models.Video, formats []models.VideoFormat) (*jobs.Handle, error) {
	accepted := quality.FilterVideoFormats(video, formats)
	if len(accepted) == 0 {
		logger.Log.Debug().
			Str("video_id", video.ID.String()).
			Int("candidates", len(formats)).
			Msg("No formats passed the quality gate")
		return nil, nil
	}

	media := *video
	return s.queue.Submit(ctx, func(jobCtx context.Context) (any, error) {
		return s.encodeVideo(jobCtx, &media, accepted)
	})
}

// ConvertVideoSet converts a video file into the members of a format set.
func (s *Service) ConvertVideoSet(ctx context.Context, video *models.Video, set *models.VideoFormatSet) (*jobs.Handle, error) {
	return s.ConvertVideo(ctx, video, set.Formats)
}

// encodeAudio runs the accepted formats one after another. Each format is
// an independent unit of work: a failure is recorded and the remaining
// formats still run. A conversion racing another one on the same
// (media file, format) pair loses at the uniqueness constraint and shows
// up here as a duplicate-record error for that format.
func (s *Service) encodeAudio(ctx context.Context, audio *models.Audio, formats []models.AudioFormat) ([]*models.AudioStream, error) {
	srcPath, cleanup, err := s.localCopy(ctx, audio.File)
	if err != nil {
		return nil, err
	}
	defer cleanup()

	streams := make([]*models.AudioStream, 0, len(formats))
	var errs []error
	for i := range formats {
		format := &formats[i]
		stream, err := s.encodeAudioFormat(ctx, audio, format, srcPath)
		if err != nil {
			logger.Log.Error().
				Err(err).
				Str("audio_id", audio.ID.String()).
				Str("format", format.Name).
				Msg("Audio encode failed")
			errs = append(errs, fmt.Errorf("format %s: %w", format.Name, err))
			continue
		}
		streams = append(streams, stream)
	}

	logger.Log.Info().
		Str("audio_id", audio.ID.String()).
		Int("requested", len(formats)).
		Int("created", len(streams)).
		Msg("Audio conversion finished")

	return streams, errors.Join(errs...)
}

func (s *Service) encodeAudioFormat(ctx context.Context, audio *models.Audio, format *models.AudioFormat, srcPath string) (*models.AudioStream, error) {
	outDir, err := os.MkdirTemp(s.tempDir, "avlogue-encode-")
	if err != nil {
		return nil, fmt.Errorf("failed to create work directory: %w", err)
	}
	defer os.RemoveAll(outDir)

	outName := fmt.Sprintf("%s.%s", audio.Slug, format.Container)
	outPath := filepath.Join(outDir, outName)

	if err := s.enc.Encode(ctx, srcPath, outPath, encoder.SpecFromAudioFormat(format)); err != nil {
		return nil, err
	}

	meta, err := s.enc.Probe(ctx, outPath)
	if err != nil {
		return nil, err
	}

	stored, err := s.storeArtifact(ctx, outPath, path.Join(s.dirs.AudioStreamsDir, outName))
	if err != nil {
		return nil, err
	}

	stream := &models.AudioStream{
		ID:          uuid.New(),
		MediaFileID: audio.ID,
		FormatID:    format.ID,
		File:        stored,
	}
	meta.ApplyTo(&stream.MediaInfo, &stream.AudioProperties, nil)

	if err := s.repos.AudioStreams.Create(ctx, stream); err != nil {
		s.discard(ctx, stored)
		return nil, err
	}
	return stream, nil
}

// encodeVideo is the video counterpart of encodeAudio.
func (s *Service) encodeVideo(ctx context.Context, video *models.Video, formats []models.VideoFormat) ([]*models.VideoStream, error) {
	srcPath, cleanup, err := s.localCopy(ctx, video.File)
	if err != nil {
		return nil, err
	}
	defer cleanup()

	streams := make([]*models.VideoStream, 0, len(formats))
	var errs []error
	for i := range formats {
		format := &formats[i]
		stream, err := s.encodeVideoFormat(ctx, video, format, srcPath)
		if err != nil {
			logger.Log.Error().
				Err(err).
				Str("video_id", video.ID.String()).
				Str("format", format.Name).
				Msg("Video encode failed")
			errs = append(errs, fmt.Errorf("format %s: %w", format.Name, err))
			continue
		}
		streams = append(streams, stream)
	}

	logger.Log.Info().
		Str("video_id", video.ID.String()).
		Int("requested", len(formats)).
		Int("created", len(streams)).
		Msg("Video conversion finished")

	return streams, errors.Join(errs...)
}

func (s *Service) encodeVideoFormat(ctx context.Context, video *models.Video, format *models.VideoFormat, srcPath string) (*models.VideoStream, error) {
	outDir, err := os.MkdirTemp(s.tempDir, "avlogue-encode-")
	if err != nil {
		return nil, fmt.Errorf("failed to create work directory: %w", err)
	}
	defer os.RemoveAll(outDir)

	outName := fmt.Sprintf("%s.%s", video.Slug, format.Container)
	outPath := filepath.Join(outDir, outName)

	if err := s.enc.Encode(ctx, srcPath, outPath, encoder.SpecFromVideoFormat(format)); err != nil {
		return nil, err
	}

	meta, err := s.enc.Probe(ctx, outPath)
	if err != nil {
		return nil, err
	}

	stored, err := s.storeArtifact(ctx, outPath, path.Join(s.dirs.VideoStreamsDir, outName))
	if err != nil {
		return nil, err
	}

	stream := &models.VideoStream{
		ID:          uuid.New(),
		MediaFileID: video.ID,
		FormatID:    format.ID,
		File:        stored,
	}
	meta.ApplyTo(&stream.MediaInfo, &stream.AudioProperties, &stream.VideoProperties)

	if err := s.repos.VideoStreams.Create(ctx, stream); err != nil {
		s.discard(ctx, stored)
		return nil, err
	}
	return stream, nil
}

// localCopy materializes a stored object as a local file the encoder can
// read. The returned cleanup removes the copy.
func (s *Service) localCopy(ctx context.Context, name string) (string, func(), error) {
	obj, err := s.store.Open(ctx, name)
	if err != nil {
		return "", nil, fmt.Errorf("failed to open source object: %w", err)
	}
	defer obj.Close()

	tmp, err := os.CreateTemp(s.tempDir, "avlogue-src-*"+path.Ext(name))
	if err != nil {
		return "", nil, fmt.Errorf("failed to create source copy: %w", err)
	}

	if _, err := io.Copy(tmp, obj); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return "", nil, fmt.Errorf("failed to copy source object: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return "", nil, fmt.Errorf("failed to copy source object: %w", err)
	}

	cleanup := func() { os.Remove(tmp.Name()) }
	return tmp.Name(), cleanup, nil
}

// storeArtifact uploads a produced file into storage under name
func (s *Service) storeArtifact(ctx context.Context, filePath, name string) (string, error) {
	f, err := os.Open(filePath)
	if err != nil {
		return "", fmt.Errorf("failed to open encoded file: %w", err)
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return "", fmt.Errorf("failed to stat encoded file: %w", err)
	}

	stored, err := s.store.Save(ctx, name, f, info.Size())
	if err != nil {
		return "", fmt.Errorf("failed to store encoded file: %w", err)
	}
	return stored, nil
}

// discard best-effort deletes a stored object after a failed row write
func (s *Service) discard(ctx context.Context, name string) {
	if err := s.store.Delete(ctx, name); err != nil {
		logger.Log.Debug().
			Err(err).
			Str("object", name).
			Msg("Failed to discard stored artifact")
	}
}
