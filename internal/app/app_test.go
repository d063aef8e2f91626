package app

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Atrasoftware/avlogue/internal/config"
	"github.com/Atrasoftware/avlogue/internal/db"
	"github.com/Atrasoftware/avlogue/internal/jobs"
)

func setupTestApp(t *testing.T) *App {
	t.Helper()

	dir := t.TempDir()
	database, err := db.New(filepath.Join(dir, "test.db"))
	require.NoError(t, err)

	sqlDB, err := database.GetSQLDB()
	require.NoError(t, err)
	require.NoError(t, db.RunMigrations(sqlDB, "file://../../migrations"))

	cfg := &config.Config{
		Storage: config.StorageConfig{
			Backend: config.StorageBackendLocal,
			Local: config.LocalStorageConfig{
				Root:    filepath.Join(dir, "storage"),
				BaseURL: "http://localhost/media/",
			},
		},
		Encoder: config.EncoderConfig{
			FFmpegPath:  "ffmpeg",
			FFprobePath: "ffprobe",
		},
		Queue: config.QueueConfig{Workers: 1, Backlog: 4},
		Media: config.MediaConfig{
			AudioDir:        "audio",
			VideoDir:        "video",
			AudioStreamsDir: "audio/streams",
			VideoStreamsDir: "video/streams",
		},
	}

	application, err := New(context.Background(), cfg, database)
	require.NoError(t, err)
	return application
}

func TestApp_New(t *testing.T) {
	application := setupTestApp(t)

	assert.NotNil(t, application.Repos)
	assert.NotNil(t, application.Media)
	assert.NotNil(t, application.Convert)
	assert.NotNil(t, application.Queue())
	assert.NotNil(t, application.Storage())

	require.NoError(t, application.Shutdown(context.Background()))
}

func TestApp_ShutdownDrainsQueue(t *testing.T) {
	application := setupTestApp(t)

	ran := false
	handle, err := application.Queue().Submit(context.Background(), func(ctx context.Context) (any, error) {
		ran = true
		return nil, nil
	})
	require.NoError(t, err)

	require.NoError(t, application.Shutdown(context.Background()))

	<-handle.Done()
	assert.True(t, ran)

	_, err = application.Queue().Submit(context.Background(), func(ctx context.Context) (any, error) {
		return nil, nil
	})
	assert.ErrorIs(t, err, jobs.ErrQueueClosed)
}

func TestApp_ShutdownHonorsDeadline(t *testing.T) {
	application := setupTestApp(t)

	release := make(chan struct{})
	_, err := application.Queue().Submit(context.Background(), func(ctx context.Context) (any, error) {
		<-release
		return nil, nil
	})
	require.NoError(t, err)

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	err = application.Shutdown(ctx)
	assert.ErrorIs(t, err, context.DeadlineExceeded)

	// Let the drain goroutine finish before the test exits.
	close(release)
}
