package db

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Atrasoftware/avlogue/internal/models"
)

func TestAudioRepository_CreateAndGet(t *testing.T) {
	repos, store, cleanup := setupTestRepos(t)
	defer cleanup()

	ctx := context.Background()
	file := seedObject(t, store, "avlogue/audio/track.mp3")
	audio := makeAudio("Test Track", file)

	require.NoError(t, repos.AudioFiles.Create(ctx, audio))

	got, err := repos.AudioFiles.GetByID(ctx, audio.ID)
	require.NoError(t, err)
	assert.Equal(t, audio.Title, got.Title)
	assert.Equal(t, audio.Slug, got.Slug)
	assert.Equal(t, audio.File, got.File)
	assert.Equal(t, int64(192000), got.AudioBitrate)
	assert.Equal(t, 2, got.AudioChannels)

	bySlug, err := repos.AudioFiles.GetBySlug(ctx, audio.Slug)
	require.NoError(t, err)
	assert.Equal(t, audio.ID, bySlug.ID)
}

func TestAudioRepository_GetNotFound(t *testing.T) {
	repos, _, cleanup := setupTestRepos(t)
	defer cleanup()

	_, err := repos.AudioFiles.GetByID(context.Background(), uuid.New())
	assert.True(t, IsNotFound(err))
}

func TestAudioRepository_DuplicateTitle(t *testing.T) {
	repos, store, cleanup := setupTestRepos(t)
	defer cleanup()

	ctx := context.Background()
	first := makeAudio("Same Title", seedObject(t, store, "a.mp3"))
	require.NoError(t, repos.AudioFiles.Create(ctx, first))

	second := makeAudio("Same Title", seedObject(t, store, "b.mp3"))
	second.Slug = "different-slug"
	err := repos.AudioFiles.Create(ctx, second)
	assert.True(t, IsDuplicate(err))
}

func TestAudioRepository_List(t *testing.T) {
	repos, store, cleanup := setupTestRepos(t)
	defer cleanup()

	ctx := context.Background()
	older := makeAudio("Older", seedObject(t, store, "older.mp3"))
	older.DateAdded = time.Now().UTC().Add(-time.Hour)
	require.NoError(t, repos.AudioFiles.Create(ctx, older))

	newer := makeAudio("Newer", seedObject(t, store, "newer.mp3"))
	require.NoError(t, repos.AudioFiles.Create(ctx, newer))

	list, err := repos.AudioFiles.List(ctx, 0, 0)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "Newer", list[0].Title)
	assert.Equal(t, "Older", list[1].Title)

	limited, err := repos.AudioFiles.List(ctx, 1, 0)
	require.NoError(t, err)
	assert.Len(t, limited, 1)
}

func TestAudioRepository_UpdateReleasesOldFile(t *testing.T) {
	repos, store, cleanup := setupTestRepos(t)
	defer cleanup()

	ctx := context.Background()
	oldFile := seedObject(t, store, "old.mp3")
	audio := makeAudio("Replaced Track", oldFile)
	require.NoError(t, repos.AudioFiles.Create(ctx, audio))

	newFile := seedObject(t, store, "new.mp3")
	audio.File = newFile
	audio.AudioBitrate = 256000
	require.NoError(t, repos.AudioFiles.Update(ctx, audio))

	got, err := repos.AudioFiles.GetByID(ctx, audio.ID)
	require.NoError(t, err)
	assert.Equal(t, newFile, got.File)
	assert.Equal(t, int64(256000), got.AudioBitrate)

	// The orphaned object is gone, the new one stays
	assert.False(t, objectExists(t, store, oldFile))
	assert.True(t, objectExists(t, store, newFile))
}

func TestAudioRepository_UpdateKeepsUnchangedFile(t *testing.T) {
	repos, store, cleanup := setupTestRepos(t)
	defer cleanup()

	ctx := context.Background()
	file := seedObject(t, store, "track.mp3")
	audio := makeAudio("Retitled Track", file)
	require.NoError(t, repos.AudioFiles.Create(ctx, audio))

	audio.Title = "New Title"
	require.NoError(t, repos.AudioFiles.Update(ctx, audio))

	assert.True(t, objectExists(t, store, file))
}

func TestAudioRepository_UpdateNotFound(t *testing.T) {
	repos, _, cleanup := setupTestRepos(t)
	defer cleanup()

	audio := makeAudio("Ghost", "ghost.mp3")
	err := repos.AudioFiles.Update(context.Background(), audio)
	assert.True(t, IsNotFound(err))
}

func TestAudioRepository_DeleteRemovesFilesAndStreams(t *testing.T) {
	repos, store, cleanup := setupTestRepos(t)
	defer cleanup()

	ctx := context.Background()
	mediaFile := seedObject(t, store, "avlogue/audio/track.mp3")
	audio := makeAudio("Doomed Track", mediaFile)
	require.NoError(t, repos.AudioFiles.Create(ctx, audio))

	format := makeAudioFormat("mp3-128")
	require.NoError(t, repos.AudioFormats.Create(ctx, format))

	streamFile := seedObject(t, store, "avlogue/audio/streams/track.mp3")
	stream := &models.AudioStream{
		ID:          uuid.New(),
		MediaFileID: audio.ID,
		FormatID:    format.ID,
		File:        streamFile,
	}
	require.NoError(t, repos.AudioStreams.Create(ctx, stream))

	require.NoError(t, repos.AudioFiles.Delete(ctx, audio.ID))

	_, err := repos.AudioFiles.GetByID(ctx, audio.ID)
	assert.True(t, IsNotFound(err))

	// The stream row went with the cascade, both objects are cleaned up
	_, err = repos.AudioStreams.GetByID(ctx, stream.ID)
	assert.True(t, IsNotFound(err))
	assert.False(t, objectExists(t, store, mediaFile))
	assert.False(t, objectExists(t, store, streamFile))

	// The format is untouched
	_, err = repos.AudioFormats.GetByID(ctx, format.ID)
	assert.NoError(t, err)
}

func TestAudioRepository_DeleteNotFound(t *testing.T) {
	repos, _, cleanup := setupTestRepos(t)
	defer cleanup()

	err := repos.AudioFiles.Delete(context.Background(), uuid.New())
	assert.True(t, IsNotFound(err))
}

func TestVideoRepository_CreateAndGet(t *testing.T) {
	repos, store, cleanup := setupTestRepos(t)
	defer cleanup()

	ctx := context.Background()
	video := makeVideo("Test Clip", seedObject(t, store, "clip.mp4"))
	require.NoError(t, repos.VideoFiles.Create(ctx, video))

	got, err := repos.VideoFiles.GetByID(ctx, video.ID)
	require.NoError(t, err)
	assert.Equal(t, "h264", got.VideoCodec)
	assert.Equal(t, 1920, got.Width)
	assert.Equal(t, 1080, got.Height)
	assert.Equal(t, "1920x1080", got.Resolution())
}

func TestVideoRepository_DeleteRemovesFilesAndStreams(t *testing.T) {
	repos, store, cleanup := setupTestRepos(t)
	defer cleanup()

	ctx := context.Background()
	mediaFile := seedObject(t, store, "clip.mp4")
	video := makeVideo("Doomed Clip", mediaFile)
	require.NoError(t, repos.VideoFiles.Create(ctx, video))

	format := makeVideoFormat("mp4-720p")
	require.NoError(t, repos.VideoFormats.Create(ctx, format))

	streamFile := seedObject(t, store, "streams/clip.mp4")
	stream := &models.VideoStream{
		ID:          uuid.New(),
		MediaFileID: video.ID,
		FormatID:    format.ID,
		File:        streamFile,
	}
	require.NoError(t, repos.VideoStreams.Create(ctx, stream))

	require.NoError(t, repos.VideoFiles.Delete(ctx, video.ID))

	_, err := repos.VideoStreams.GetByID(ctx, stream.ID)
	assert.True(t, IsNotFound(err))
	assert.False(t, objectExists(t, store, mediaFile))
	assert.False(t, objectExists(t, store, streamFile))
}
