package encoder

import (
	"context"
	"encoding/json"
	"fmt"
	"os/exec"
	"strconv"
	"time"

	"github.com/Atrasoftware/avlogue/internal/logger"
)

// Timeout for ffprobe execution
const ffprobeTimeout = 30 * time.Second

// ffprobeResult represents the top-level JSON output from ffprobe
type ffprobeResult struct {
	Streams []ffprobeStream `json:"streams"`
	Format  ffprobeFormat   `json:"format"`
}

// ffprobeStream represents one audio or video stream
type ffprobeStream struct {
	CodecName string `json:"codec_name"`
	CodecType string `json:"codec_type"` // "video" or "audio"
	Width     int    `json:"width,omitempty"`
	Height    int    `json:"height,omitempty"`
	BitRate   string `json:"bit_rate,omitempty"`
	Channels  int    `json:"channels,omitempty"`
}

// ffprobeFormat represents the container-level information
type ffprobeFormat struct {
	FormatName string `json:"format_name"`
	Duration   string `json:"duration"`
	Size       string `json:"size"`
	BitRate    string `json:"bit_rate"`
}

// Probe implements Encoder using ffprobe's JSON output.
func (f *FFmpeg) Probe(ctx context.Context, path string) (*Metadata, error) {
	ctx, cancel := context.WithTimeout(ctx, ffprobeTimeout)
	defer cancel()

	cmd := exec.CommandContext(ctx,
		f.ffprobePath,
		"-v", "quiet",
		"-print_format", "json",
		"-show_format",
		"-show_streams",
		path,
	)

	output, err := cmd.Output()
	if err != nil {
		detail := err.Error()
		if exitErr, ok := err.(*exec.ExitError); ok && len(exitErr.Stderr) > 0 {
			detail = string(exitErr.Stderr)
		}
		logger.Log.Error().
			Str("path", path).
			Str("detail", detail).
			Msg("ffprobe execution failed")
		return nil, fmt.Errorf("%w: %s: %s", ErrProbe, path, detail)
	}

	var result ffprobeResult
	if err := json.Unmarshal(output, &result); err != nil {
		return nil, fmt.Errorf("%w: unparsable ffprobe output: %v", ErrProbe, err)
	}

	meta, err := metadataFromResult(&result)
	if err != nil {
		return nil, err
	}

	logger.Log.Debug().
		Str("path", path).
		Int64("bitrate", meta.Bitrate).
		Float64("duration", meta.Duration).
		Str("audio_codec", meta.AudioCodec).
		Str("video_codec", meta.VideoCodec).
		Msg("Probed media file")

	return meta, nil
}

// metadataFromResult flattens the ffprobe report into Metadata, using the
// first audio and first video stream.
func metadataFromResult(result *ffprobeResult) (*Metadata, error) {
	meta := &Metadata{}

	var audio, video *ffprobeStream
	for i := range result.Streams {
		stream := &result.Streams[i]
		switch stream.CodecType {
		case "audio":
			if audio == nil {
				audio = stream
			}
		case "video":
			if video == nil {
				video = stream
			}
		}
	}

	if audio == nil && video == nil {
		return nil, fmt.Errorf("%w: no audio or video streams found", ErrProbe)
	}

	meta.Bitrate = parseInt(result.Format.BitRate)
	meta.Size = parseInt(result.Format.Size)
	if d, err := strconv.ParseFloat(result.Format.Duration, 64); err == nil {
		meta.Duration = d
	}

	if audio != nil {
		meta.AudioCodec = audio.CodecName
		meta.AudioBitrate = parseInt(audio.BitRate)
		meta.AudioChannels = audio.Channels
	}
	if video != nil {
		meta.VideoCodec = video.CodecName
		meta.VideoBitrate = parseInt(video.BitRate)
		meta.Width = video.Width
		meta.Height = video.Height
	}

	return meta, nil
}

func parseInt(s string) int64 {
	n, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return 0
	}
	return n
}
