package models

import "github.com/google/uuid"

// Aspect mode constants for video formats. The aspect mode is only used
// when both target width and height are specified.
const (
	AspectModeScale     = "scale"
	AspectModeScaleCrop = "scale_crop"
)

// AudioFormat is a named target-encoding profile for audio files.
type AudioFormat struct {
	ID               uuid.UUID `json:"id" gorm:"type:text;primaryKey;column:id"`
	Name             string    `json:"name" gorm:"type:text;not null;uniqueIndex;column:name"`
	Container        string    `json:"container" gorm:"type:text;not null;column:container"`
	AudioCodec       string    `json:"audio_codec" gorm:"type:text;not null;column:audio_codec"`
	AudioCodecParams string    `json:"audio_codec_params" gorm:"type:text;column:audio_codec_params"` // raw encoder options passthrough
	AudioBitrate     int64     `json:"audio_bitrate" gorm:"type:integer;column:audio_bitrate"`
}

// TableName overrides the gorm table name for AudioFormat
func (AudioFormat) TableName() string { return "audio_formats" }

func (f *AudioFormat) String() string { return f.Name }

// VideoFormat is a named target-encoding profile for video files.
type VideoFormat struct {
	ID               uuid.UUID `json:"id" gorm:"type:text;primaryKey;column:id"`
	Name             string    `json:"name" gorm:"type:text;not null;uniqueIndex;column:name"`
	Container        string    `json:"container" gorm:"type:text;not null;column:container"`
	AudioCodec       string    `json:"audio_codec" gorm:"type:text;not null;column:audio_codec"`
	AudioCodecParams string    `json:"audio_codec_params" gorm:"type:text;column:audio_codec_params"`
	AudioBitrate     int64     `json:"audio_bitrate" gorm:"type:integer;column:audio_bitrate"`
	VideoCodec       string    `json:"video_codec" gorm:"type:text;not null;column:video_codec"`
	VideoCodecParams string    `json:"video_codec_params" gorm:"type:text;column:video_codec_params"`
	VideoBitrate     int64     `json:"video_bitrate" gorm:"type:integer;column:video_bitrate"`
	Width            int       `json:"width" gorm:"type:integer;column:width"`
	Height           int       `json:"height" gorm:"type:integer;column:height"`
	AspectMode       string    `json:"aspect_mode" gorm:"type:text;not null;default:scale;column:aspect_mode"`
}

// TableName overrides the gorm table name for VideoFormat
func (VideoFormat) TableName() string { return "video_formats" }

func (f *VideoFormat) String() string { return f.Name }

// AudioFormatSet is a named collection of audio formats.
type AudioFormatSet struct {
	ID      uuid.UUID     `json:"id" gorm:"type:text;primaryKey;column:id"`
	Name    string        `json:"name" gorm:"type:text;not null;uniqueIndex;column:name"`
	Formats []AudioFormat `json:"formats" gorm:"many2many:audio_format_set_formats"`
}

// TableName overrides the gorm table name for AudioFormatSet
func (AudioFormatSet) TableName() string { return "audio_format_sets" }

func (s *AudioFormatSet) String() string { return s.Name }

// VideoFormatSet is a named collection of video formats.
type VideoFormatSet struct {
	ID      uuid.UUID     `json:"id" gorm:"type:text;primaryKey;column:id"`
	Name    string        `json:"name" gorm:"type:text;not null;uniqueIndex;column:name"`
	Formats []VideoFormat `json:"formats" gorm:"many2many:video_format_set_formats"`
}

// TableName overrides the gorm table name for VideoFormatSet
func (VideoFormatSet) TableName() string { return "video_format_sets" }

func (s *VideoFormatSet) String() string { return s.Name }
