// Package encoder wraps the external ffmpeg/ffprobe binaries behind the
// probe and encode contracts the rest of the application depends on.
package encoder

import (
	"context"
	"errors"

	"github.com/Atrasoftware/avlogue/internal/models"
)

// Common encoder errors
var (
	ErrProbe  = errors.New("failed to probe media file")
	ErrEncode = errors.New("failed to encode media file")
)

// Metadata is the probed technical property set of a media file. It is
// exactly the attribute set persisted on media file and stream rows.
// Zero values mean the property was absent or could not be determined.
type Metadata struct {
	Bitrate       int64   // overall average, bits per second
	Duration      float64 // seconds
	Size          int64   // bytes
	AudioCodec    string
	AudioBitrate  int64
	AudioChannels int
	VideoCodec    string
	VideoBitrate  int64
	Width         int
	Height        int
}

// HasVideo reports whether a video stream was found.
func (m *Metadata) HasVideo() bool {
	return m.VideoCodec != "" || m.Width > 0 || m.Height > 0
}

// TargetSpec describes one encode target. Video fields are left zero for
// audio-only targets.
type TargetSpec struct {
	Container        string
	AudioCodec       string
	AudioCodecParams string
	AudioBitrate     int64
	VideoCodec       string
	VideoCodecParams string
	VideoBitrate     int64
	Width            int
	Height           int
	AspectMode       string
}

// Encoder is the external encoder service contract.
type Encoder interface {
	// Probe extracts technical metadata from the file at path.
	Probe(ctx context.Context, path string) (*Metadata, error)
	// Encode transcodes sourcePath into outputPath according to spec.
	Encode(ctx context.Context, sourcePath, outputPath string, spec TargetSpec) error
}

// SpecFromAudioFormat maps an audio encode format onto a target spec.
func SpecFromAudioFormat(f *models.AudioFormat) TargetSpec {
	return TargetSpec{
		Container:        f.Container,
		AudioCodec:       f.AudioCodec,
		AudioCodecParams: f.AudioCodecParams,
		AudioBitrate:     f.AudioBitrate,
	}
}

// SpecFromVideoFormat maps a video encode format onto a target spec.
func SpecFromVideoFormat(f *models.VideoFormat) TargetSpec {
	return TargetSpec{
		Container:        f.Container,
		AudioCodec:       f.AudioCodec,
		AudioCodecParams: f.AudioCodecParams,
		AudioBitrate:     f.AudioBitrate,
		VideoCodec:       f.VideoCodec,
		VideoCodecParams: f.VideoCodecParams,
		VideoBitrate:     f.VideoBitrate,
		Width:            f.Width,
		Height:           f.Height,
		AspectMode:       f.AspectMode,
	}
}

// ApplyTo copies probed metadata onto the embeddable model field groups.
func (m *Metadata) ApplyTo(info *models.MediaInfo, audio *models.AudioProperties, video *models.VideoProperties) {
	if info != nil {
		info.Bitrate = m.Bitrate
		info.Duration = m.Duration
		info.Size = m.Size
	}
	if audio != nil {
		audio.AudioCodec = m.AudioCodec
		audio.AudioBitrate = m.AudioBitrate
		audio.AudioChannels = m.AudioChannels
	}
	if video != nil {
		video.VideoCodec = m.VideoCodec
		video.VideoBitrate = m.VideoBitrate
		video.Width = m.Width
		video.Height = m.Height
	}
}
