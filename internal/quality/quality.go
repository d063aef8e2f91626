// Package quality implements the quality gate: the decision whether
// encoding a media file into a target format would exceed the source's
// effective quality. Encoding above source quality only inflates files
// without gaining fidelity, so such formats are filtered out before any
// encode job is submitted.
package quality

import "github.com/Atrasoftware/avlogue/internal/models"

// AudioPolicy decides the quality gate for audio files.
type AudioPolicy struct{}

// FormatHasLowerQuality returns true if encoding to format would not
// exceed the source quality. When the per-stream audio bitrate is
// unknown the overall file bitrate stands in for it; a format without a
// target bitrate is always accepted.
func (AudioPolicy) FormatHasLowerQuality(a *models.Audio, format *models.AudioFormat) bool {
	bitrate := a.AudioBitrate
	if bitrate == 0 {
		bitrate = a.Bitrate
	}
	return bitrate >= format.AudioBitrate
}

// VideoPolicy decides the quality gate for video files.
type VideoPolicy struct{}

// FormatHasLowerQuality returns true if encoding to format would not
// exceed the source quality on either the audio or the video stream.
func (VideoPolicy) FormatHasLowerQuality(v *models.Video, format *models.VideoFormat) bool {
	audioBitrate := v.AudioBitrate
	if audioBitrate == 0 {
		audioBitrate = v.Bitrate
	}
	videoBitrate := v.VideoBitrate
	if videoBitrate == 0 {
		videoBitrate = v.Bitrate
	}
	return audioBitrate >= format.AudioBitrate && videoBitrate >= format.VideoBitrate
}

// FilterAudioFormats returns the subset of formats that pass the quality
// gate for a, preserving input order.
func FilterAudioFormats(a *models.Audio, formats []models.AudioFormat) []models.AudioFormat {
	var policy AudioPolicy
	accepted := make([]models.AudioFormat, 0, len(formats))
	for _, f := range formats {
		if policy.FormatHasLowerQuality(a, &f) {
			accepted = append(accepted, f)
		}
	}
	return accepted
}

// FilterVideoFormats returns the subset of formats that pass the quality
// gate for v, preserving input order.
func FilterVideoFormats(v *models.Video, formats []models.VideoFormat) []models.VideoFormat {
	var policy VideoPolicy
	accepted := make([]models.VideoFormat, 0, len(formats))
	for _, f := range formats {
		if policy.FormatHasLowerQuality(v, &f) {
			accepted = append(accepted, f)
		}
	}
	return accepted
}
