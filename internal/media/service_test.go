package media

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Atrasoftware/avlogue/internal/config"
	"github.com/Atrasoftware/avlogue/internal/db"
	"github.com/Atrasoftware/avlogue/internal/encoder"
	"github.com/Atrasoftware/avlogue/internal/storage"
)

// fakeEncoder satisfies encoder.Encoder with canned probe metadata
type fakeEncoder struct {
	mu       sync.Mutex
	meta     encoder.Metadata
	probeErr error
	probed   []string
}

func (f *fakeEncoder) Probe(ctx context.Context, path string) (*encoder.Metadata, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.probed = append(f.probed, path)
	if f.probeErr != nil {
		return nil, f.probeErr
	}
	meta := f.meta
	return &meta, nil
}

func (f *fakeEncoder) Encode(ctx context.Context, sourcePath, outputPath string, spec encoder.TargetSpec) error {
	return nil
}

var audioMeta = encoder.Metadata{
	Bitrate:       192000,
	Duration:      180,
	Size:          4325400,
	AudioCodec:    "mp3",
	AudioBitrate:  192000,
	AudioChannels: 2,
}

var videoMeta = encoder.Metadata{
	Bitrate:       2645000,
	Duration:      60,
	Size:          20000000,
	AudioCodec:    "aac",
	AudioBitrate:  128000,
	AudioChannels: 2,
	VideoCodec:    "h264",
	VideoBitrate:  2500000,
	Width:         1920,
	Height:        1080,
}

func setupTestService(t *testing.T, meta encoder.Metadata) (*Service, *db.Repositories, storage.Backend, *fakeEncoder, func()) {
	t.Helper()

	tmpFile := filepath.Join(t.TempDir(), "test.db")
	database, err := db.New(tmpFile)
	require.NoError(t, err)

	sqlDB, err := database.GetSQLDB()
	require.NoError(t, err)
	require.NoError(t, db.RunMigrations(sqlDB, "file://../../migrations"))

	store, err := storage.NewFilesystem(t.TempDir(), "/media/")
	require.NoError(t, err)

	enc := &fakeEncoder{meta: meta}
	repos := db.NewRepositories(database, store)
	service := NewService(repos, enc, store, config.MediaConfig{
		AudioDir:        "audio",
		VideoDir:        "video",
		AudioStreamsDir: "audio/streams",
		VideoStreamsDir: "video/streams",
	})

	cleanup := func() {
		_ = database.Close()
	}

	return service, repos, store, enc, cleanup
}

// writeUpload creates a local file posing as an upload
func writeUpload(t *testing.T, name string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte("content"), 0644))
	return path
}

func TestCreateAudioFromFile(t *testing.T) {
	service, repos, store, enc, cleanup := setupTestService(t, audioMeta)
	defer cleanup()

	ctx := context.Background()
	upload := writeUpload(t, "My Track.mp3")

	audio, err := service.CreateAudioFromFile(ctx, upload, "My Track", "a test track")
	require.NoError(t, err)

	assert.Equal(t, "My Track", audio.Title)
	assert.Equal(t, "my-track", audio.Slug)
	assert.Equal(t, "a test track", audio.Description)
	assert.Equal(t, "audio/My Track.mp3", audio.File)
	assert.False(t, audio.DateAdded.IsZero())

	// Probed metadata landed on the row
	assert.Equal(t, int64(192000), audio.AudioBitrate)
	assert.Equal(t, "mp3", audio.AudioCodec)
	assert.Equal(t, 2, audio.AudioChannels)
	assert.Equal(t, 180.0, audio.Duration)

	// The upload itself was probed, not the stored copy
	require.Len(t, enc.probed, 1)
	assert.Equal(t, upload, enc.probed[0])

	ok, err := store.Exists(ctx, audio.File)
	require.NoError(t, err)
	assert.True(t, ok)

	got, err := repos.AudioFiles.GetBySlug(ctx, "my-track")
	require.NoError(t, err)
	assert.Equal(t, audio.ID, got.ID)
}

func TestCreateAudioFromFile_TitleDefaultsToFileName(t *testing.T) {
	service, _, _, _, cleanup := setupTestService(t, audioMeta)
	defer cleanup()

	upload := writeUpload(t, "untitled-demo.mp3")
	audio, err := service.CreateAudioFromFile(context.Background(), upload, "", "")
	require.NoError(t, err)

	assert.Equal(t, "untitled-demo", audio.Title)
	assert.Equal(t, "untitled-demo", audio.Slug)
}

func TestCreateAudioFromFile_RejectsWrongType(t *testing.T) {
	service, repos, _, enc, cleanup := setupTestService(t, audioMeta)
	defer cleanup()

	ctx := context.Background()
	upload := writeUpload(t, "clip.mp4")

	_, err := service.CreateAudioFromFile(ctx, upload, "Clip", "")
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrInvalidContentType))

	// Nothing was probed or persisted
	assert.Empty(t, enc.probed)
	list, err := repos.AudioFiles.List(ctx, 0, 0)
	require.NoError(t, err)
	assert.Empty(t, list)
}

func TestCreateAudioFromFile_ProbeFailureStoresNothing(t *testing.T) {
	service, repos, _, enc, cleanup := setupTestService(t, audioMeta)
	defer cleanup()

	enc.probeErr = encoder.ErrProbe
	ctx := context.Background()

	_, err := service.CreateAudioFromFile(ctx, writeUpload(t, "broken.mp3"), "Broken", "")
	require.Error(t, err)
	assert.ErrorIs(t, err, encoder.ErrProbe)

	list, err := repos.AudioFiles.List(ctx, 0, 0)
	require.NoError(t, err)
	assert.Empty(t, list)
}

func TestCreateAudioFromFile_DuplicateTitleDiscardsUpload(t *testing.T) {
	service, _, store, _, cleanup := setupTestService(t, audioMeta)
	defer cleanup()

	ctx := context.Background()
	_, err := service.CreateAudioFromFile(ctx, writeUpload(t, "first.mp3"), "Same Title", "")
	require.NoError(t, err)

	_, err = service.CreateAudioFromFile(ctx, writeUpload(t, "second.mp3"), "Same Title", "")
	require.Error(t, err)
	assert.True(t, db.IsDuplicate(err))

	// The second upload's stored object was rolled back
	ok, err := store.Exists(ctx, "audio/second.mp3")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestCreateVideoFromFile(t *testing.T) {
	service, _, store, _, cleanup := setupTestService(t, videoMeta)
	defer cleanup()

	ctx := context.Background()
	video, err := service.CreateVideoFromFile(ctx, writeUpload(t, "clip.mp4"), "A Clip", "")
	require.NoError(t, err)

	assert.Equal(t, "video/clip.mp4", video.File)
	assert.Equal(t, "h264", video.VideoCodec)
	assert.Equal(t, int64(2500000), video.VideoBitrate)
	assert.Equal(t, "1920x1080", video.Resolution())

	ok, err := store.Exists(ctx, video.File)
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestCreateVideoFromFile_RejectsAudio(t *testing.T) {
	service, _, _, _, cleanup := setupTestService(t, videoMeta)
	defer cleanup()

	_, err := service.CreateVideoFromFile(context.Background(), writeUpload(t, "track.mp3"), "Track", "")
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrInvalidContentType))
}

func TestReplaceAudioFile(t *testing.T) {
	service, repos, store, enc, cleanup := setupTestService(t, audioMeta)
	defer cleanup()

	ctx := context.Background()
	audio, err := service.CreateAudioFromFile(ctx, writeUpload(t, "original.mp3"), "Replace Me", "")
	require.NoError(t, err)
	oldFile := audio.File

	enc.meta.AudioBitrate = 256000
	require.NoError(t, service.ReplaceAudioFile(ctx, audio, writeUpload(t, "replacement.mp3")))

	assert.Equal(t, "audio/replacement.mp3", audio.File)
	assert.Equal(t, int64(256000), audio.AudioBitrate)

	// The old object is gone, the new one is stored
	ok, err := store.Exists(ctx, oldFile)
	require.NoError(t, err)
	assert.False(t, ok)
	ok, err = store.Exists(ctx, audio.File)
	require.NoError(t, err)
	assert.True(t, ok)

	got, err := repos.AudioFiles.GetByID(ctx, audio.ID)
	require.NoError(t, err)
	assert.Equal(t, audio.File, got.File)
	assert.Equal(t, int64(256000), got.AudioBitrate)
}

func TestReplaceAudioFile_RejectsWrongType(t *testing.T) {
	service, _, store, _, cleanup := setupTestService(t, audioMeta)
	defer cleanup()

	ctx := context.Background()
	audio, err := service.CreateAudioFromFile(ctx, writeUpload(t, "original.mp3"), "Keep Me", "")
	require.NoError(t, err)

	err = service.ReplaceAudioFile(ctx, audio, writeUpload(t, "clip.mp4"))
	require.Error(t, err)

	// The original object stays
	ok, err := store.Exists(ctx, "audio/original.mp3")
	require.NoError(t, err)
	assert.True(t, ok)
}
