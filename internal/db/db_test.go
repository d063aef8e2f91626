package db

import (
	"context"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/Atrasoftware/avlogue/internal/models"
	"github.com/Atrasoftware/avlogue/internal/storage"
)

// setupTestRepos creates a migrated database and a filesystem store in
// temporary directories.
func setupTestRepos(t *testing.T) (*Repositories, storage.Backend, func()) {
	t.Helper()

	tmpFile := filepath.Join(t.TempDir(), "test.db")
	database, err := New(tmpFile)
	require.NoError(t, err)

	sqlDB, err := database.GetSQLDB()
	require.NoError(t, err)

	err = RunMigrations(sqlDB, "file://../../migrations")
	require.NoError(t, err)

	store, err := storage.NewFilesystem(t.TempDir(), "/media/")
	require.NoError(t, err)

	cleanup := func() {
		_ = database.Close()
	}

	return NewRepositories(database, store), store, cleanup
}

// seedObject stores dummy content under name and returns the stored name
func seedObject(t *testing.T, store storage.Backend, name string) string {
	t.Helper()
	stored, err := store.Save(context.Background(), name, strings.NewReader("content"), -1)
	require.NoError(t, err)
	return stored
}

func objectExists(t *testing.T, store storage.Backend, name string) bool {
	t.Helper()
	ok, err := store.Exists(context.Background(), name)
	require.NoError(t, err)
	return ok
}

func makeAudio(title, file string) *models.Audio {
	return &models.Audio{
		ID:        uuid.New(),
		Title:     title,
		Slug:      strings.ToLower(strings.ReplaceAll(title, " ", "-")),
		DateAdded: time.Now().UTC(),
		File:      file,
		MediaInfo: models.MediaInfo{Bitrate: 192000, Duration: 180, Size: 4325400},
		AudioProperties: models.AudioProperties{
			AudioCodec:    "mp3",
			AudioBitrate:  192000,
			AudioChannels: 2,
		},
	}
}

func makeVideo(title, file string) *models.Video {
	return &models.Video{
		ID:        uuid.New(),
		Title:     title,
		Slug:      strings.ToLower(strings.ReplaceAll(title, " ", "-")),
		DateAdded: time.Now().UTC(),
		File:      file,
		MediaInfo: models.MediaInfo{Bitrate: 2645000, Duration: 60, Size: 20000000},
		AudioProperties: models.AudioProperties{
			AudioCodec:    "aac",
			AudioBitrate:  128000,
			AudioChannels: 2,
		},
		VideoProperties: models.VideoProperties{
			VideoCodec:   "h264",
			VideoBitrate: 2500000,
			Width:        1920,
			Height:       1080,
		},
	}
}

func makeAudioFormat(name string) *models.AudioFormat {
	return &models.AudioFormat{
		ID:           uuid.New(),
		Name:         name,
		Container:    "mp3",
		AudioCodec:   "libmp3lame",
		AudioBitrate: 128000,
	}
}

func makeVideoFormat(name string) *models.VideoFormat {
	return &models.VideoFormat{
		ID:           uuid.New(),
		Name:         name,
		Container:    "mp4",
		AudioCodec:   "aac",
		AudioBitrate: 128000,
		VideoCodec:   "libx264",
		VideoBitrate: 2000000,
		Width:        1280,
		Height:       720,
		AspectMode:   models.AspectModeScale,
	}
}
