package models

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// MediaInfo holds the technical properties shared by every media entity.
// A zero Bitrate means the value could not be determined by the prober.
type MediaInfo struct {
	Bitrate  int64   `json:"bitrate" gorm:"type:integer;not null;column:bitrate"`            // bits per second, whole file average
	Duration float64 `json:"duration" gorm:"type:real;not null;column:duration"`             // seconds
	Size     int64   `json:"size" gorm:"type:integer;not null;column:size"`                  // bytes
}

// AudioProperties holds the audio-stream properties shared by audio files,
// video files and their derived streams. Zero values mean unknown.
type AudioProperties struct {
	AudioCodec    string `json:"audio_codec" gorm:"type:text;column:audio_codec"`
	AudioBitrate  int64  `json:"audio_bitrate" gorm:"type:integer;column:audio_bitrate"`
	AudioChannels int    `json:"audio_channels" gorm:"type:integer;column:audio_channels"`
}

// VideoProperties holds the video-stream properties of video files and
// video streams.
type VideoProperties struct {
	VideoCodec   string `json:"video_codec" gorm:"type:text;column:video_codec"`
	VideoBitrate int64  `json:"video_bitrate" gorm:"type:integer;column:video_bitrate"`
	Width        int    `json:"width" gorm:"type:integer;column:width"`
	Height       int    `json:"height" gorm:"type:integer;column:height"`
}

// Resolution returns "WxH" using whichever dimensions are known,
// or an empty string when neither is set.
func (p VideoProperties) Resolution() string {
	if p.Width == 0 && p.Height == 0 {
		return ""
	}
	w, h := "", ""
	if p.Width > 0 {
		w = fmt.Sprintf("%d", p.Width)
	}
	if p.Height > 0 {
		h = fmt.Sprintf("%d", p.Height)
	}
	return w + "x" + h
}

// Audio represents one uploaded original audio file.
type Audio struct {
	ID          uuid.UUID `json:"id" gorm:"type:text;primaryKey;column:id"`
	Title       string    `json:"title" gorm:"type:text;not null;uniqueIndex;column:title"`
	Slug        string    `json:"slug" gorm:"type:text;not null;uniqueIndex;column:slug"`
	Description string    `json:"description" gorm:"type:text;column:description"`
	DateAdded   time.Time `json:"date_added" gorm:"type:datetime;not null;column:date_added"`
	File        string    `json:"file" gorm:"type:text;not null;column:file"`
	MediaInfo
	AudioProperties
}

// TableName overrides the gorm table name for Audio
func (Audio) TableName() string { return "audio_files" }

func (a *Audio) String() string { return a.Title }

// Video represents one uploaded original video file.
type Video struct {
	ID          uuid.UUID `json:"id" gorm:"type:text;primaryKey;column:id"`
	Title       string    `json:"title" gorm:"type:text;not null;uniqueIndex;column:title"`
	Slug        string    `json:"slug" gorm:"type:text;not null;uniqueIndex;column:slug"`
	Description string    `json:"description" gorm:"type:text;column:description"`
	DateAdded   time.Time `json:"date_added" gorm:"type:datetime;not null;column:date_added"`
	File        string    `json:"file" gorm:"type:text;not null;column:file"`
	MediaInfo
	AudioProperties
	VideoProperties
}

// TableName overrides the gorm table name for Video
func (Video) TableName() string { return "video_files" }

func (v *Video) String() string { return v.Title }
