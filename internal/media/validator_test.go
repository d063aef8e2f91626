package media

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAudioValidator_AcceptsAudioFiles(t *testing.T) {
	for _, name := range []string{"track.mp3", "track.wav", "track.flac", "track.ogg", "dir/track.m4a"} {
		assert.NoError(t, AudioValidator.Validate(name), name)
	}
}

func TestAudioValidator_RejectsNonAudioFiles(t *testing.T) {
	for _, name := range []string{"clip.mp4", "notes.txt", "image.png", "clip.webm"} {
		assert.Error(t, AudioValidator.Validate(name), name)
	}
}

func TestVideoValidator_AcceptsVideoFiles(t *testing.T) {
	for _, name := range []string{"clip.mp4", "clip.webm", "clip.mkv", "clip.mov", "clip.avi"} {
		assert.NoError(t, VideoValidator.Validate(name), name)
	}
}

func TestVideoValidator_RejectsNonVideoFiles(t *testing.T) {
	for _, name := range []string{"track.mp3", "notes.txt", "image.png"} {
		assert.Error(t, VideoValidator.Validate(name), name)
	}
}

func TestValidate_UnknownExtensionRejected(t *testing.T) {
	// A type that cannot be inferred fails closed
	err := AudioValidator.Validate("mystery.zzzz")
	assert.Error(t, err)
}

func TestValidate_ErrorCarriesCodeAndMessage(t *testing.T) {
	err := AudioValidator.Validate("clip.mp4")
	require.Error(t, err)

	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, CodeInvalidContentType, verr.Code)
	assert.Equal(t, "Only audio files are allowed.", verr.Message)
	assert.True(t, errors.Is(err, ErrInvalidContentType))
}

func TestValidate_PatternsAnchoredAtStart(t *testing.T) {
	// "mpeg" must not match mid-string in "audio/mpeg"
	v, err := NewContentTypeValidator([]string{`mpeg`}, "")
	require.NoError(t, err)
	assert.Error(t, v.Validate("track.mp3"))

	v, err = NewContentTypeValidator([]string{`audio/mpeg`}, "")
	require.NoError(t, err)
	assert.NoError(t, v.Validate("track.mp3"))
}

func TestNewContentTypeValidator_InvalidPattern(t *testing.T) {
	_, err := NewContentTypeValidator([]string{`audio/(`}, "")
	assert.Error(t, err)
}

func TestNewContentTypeValidator_DefaultMessage(t *testing.T) {
	v, err := NewContentTypeValidator([]string{`audio/.*`}, "")
	require.NoError(t, err)

	verr := &ValidationError{}
	require.ErrorAs(t, v.Validate("notes.txt"), &verr)
	assert.Equal(t, ErrInvalidContentType.Error(), verr.Message)
}
