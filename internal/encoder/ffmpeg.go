package encoder

import (
	"bytes"
	"context"
	"fmt"
	"os/exec"
	"strconv"
	"strings"

	"github.com/Atrasoftware/avlogue/internal/logger"
	"github.com/Atrasoftware/avlogue/internal/models"
)

// FFmpeg runs the ffmpeg and ffprobe binaries.
type FFmpeg struct {
	ffmpegPath  string
	ffprobePath string
}

// NewFFmpeg creates an FFmpeg encoder using the given binary paths.
func NewFFmpeg(ffmpegPath, ffprobePath string) *FFmpeg {
	if ffmpegPath == "" {
		ffmpegPath = "ffmpeg"
	}
	if ffprobePath == "" {
		ffprobePath = "ffprobe"
	}
	return &FFmpeg{ffmpegPath: ffmpegPath, ffprobePath: ffprobePath}
}

// Encode implements Encoder. The output container is taken from the spec;
// sourcePath and outputPath must be local files.
func (f *FFmpeg) Encode(ctx context.Context, sourcePath, outputPath string, spec TargetSpec) error {
	args := BuildEncodeArgs(sourcePath, outputPath, spec)

	logger.Log.Debug().
		Str("source", sourcePath).
		Str("output", outputPath).
		Strs("args", args).
		Msg("Running ffmpeg")

	cmd := exec.CommandContext(ctx, f.ffmpegPath, args...)
	var stderr bytes.Buffer
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		logger.Log.Error().
			Str("source", sourcePath).
			Str("stderr", tail(stderr.String(), 2048)).
			Msg("ffmpeg execution failed")
		return fmt.Errorf("%w: %s: %s", ErrEncode, sourcePath, tail(stderr.String(), 512))
	}

	return nil
}

// BuildEncodeArgs assembles the ffmpeg argument list for one encode
// target. Codec params are passed through verbatim, split on whitespace.
func BuildEncodeArgs(sourcePath, outputPath string, spec TargetSpec) []string {
	args := []string{"-y", "-i", sourcePath}

	if spec.VideoCodec != "" {
		args = append(args, "-c:v", spec.VideoCodec)
		args = append(args, strings.Fields(spec.VideoCodecParams)...)
		if spec.VideoBitrate > 0 {
			args = append(args, "-b:v", strconv.FormatInt(spec.VideoBitrate, 10))
		}
		if vf := scaleFilter(spec); vf != "" {
			args = append(args, "-vf", vf)
		}
	} else {
		// Audio-only target: drop any video stream
		args = append(args, "-vn")
	}

	if spec.AudioCodec != "" {
		args = append(args, "-c:a", spec.AudioCodec)
		args = append(args, strings.Fields(spec.AudioCodecParams)...)
		if spec.AudioBitrate > 0 {
			args = append(args, "-b:a", strconv.FormatInt(spec.AudioBitrate, 10))
		}
	}

	if spec.Container != "" {
		args = append(args, "-f", spec.Container)
	}

	return append(args, outputPath)
}

// scaleFilter returns the -vf expression for the target resolution.
// With a single dimension the other side follows the source aspect ratio.
// With both dimensions the aspect mode decides between a plain scale and
// a scale-to-cover plus center crop.
func scaleFilter(spec TargetSpec) string {
	switch {
	case spec.Width > 0 && spec.Height > 0:
		if spec.AspectMode == models.AspectModeScaleCrop {
			return fmt.Sprintf("scale=%d:%d:force_original_aspect_ratio=increase,crop=%d:%d",
				spec.Width, spec.Height, spec.Width, spec.Height)
		}
		return fmt.Sprintf("scale=%d:%d", spec.Width, spec.Height)
	case spec.Width > 0:
		return fmt.Sprintf("scale=%d:-2", spec.Width)
	case spec.Height > 0:
		return fmt.Sprintf("scale=-2:%d", spec.Height)
	}
	return ""
}

func tail(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[len(s)-n:]
}
