package models

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// AudioStream is a derived, encoded artifact of an Audio file in a
// particular AudioFormat. At most one stream may exist per
// (media file, format) pair.
type AudioStream struct {
	ID          uuid.UUID    `json:"id" gorm:"type:text;primaryKey;column:id"`
	MediaFileID uuid.UUID    `json:"media_file_id" gorm:"type:text;not null;uniqueIndex:idx_audio_streams_media_format;column:media_file_id"`
	FormatID    uuid.UUID    `json:"format_id" gorm:"type:text;not null;uniqueIndex:idx_audio_streams_media_format;column:format_id"`
	File        string       `json:"file" gorm:"type:text;not null;column:file"`
	Created     time.Time    `json:"created" gorm:"type:datetime;not null;column:created"` // refreshed on every save
	MediaFile   *Audio       `json:"-" gorm:"foreignKey:MediaFileID;constraint:OnDelete:CASCADE"`
	Format      *AudioFormat `json:"-" gorm:"foreignKey:FormatID"`
	MediaInfo
	AudioProperties
}

// TableName overrides the gorm table name for AudioStream
func (AudioStream) TableName() string { return "audio_streams" }

func (s *AudioStream) String() string {
	format, media := "?", "?"
	if s.Format != nil {
		format = s.Format.Name
	}
	if s.MediaFile != nil {
		media = s.MediaFile.Title
	}
	return fmt.Sprintf("%s: %s", format, media)
}

// VideoStream is a derived, encoded artifact of a Video file in a
// particular VideoFormat.
type VideoStream struct {
	ID          uuid.UUID    `json:"id" gorm:"type:text;primaryKey;column:id"`
	MediaFileID uuid.UUID    `json:"media_file_id" gorm:"type:text;not null;uniqueIndex:idx_video_streams_media_format;column:media_file_id"`
	FormatID    uuid.UUID    `json:"format_id" gorm:"type:text;not null;uniqueIndex:idx_video_streams_media_format;column:format_id"`
	File        string       `json:"file" gorm:"type:text;not null;column:file"`
	Created     time.Time    `json:"created" gorm:"type:datetime;not null;column:created"`
	MediaFile   *Video       `json:"-" gorm:"foreignKey:MediaFileID;constraint:OnDelete:CASCADE"`
	Format      *VideoFormat `json:"-" gorm:"foreignKey:FormatID"`
	MediaInfo
	AudioProperties
	VideoProperties
}

// TableName overrides the gorm table name for VideoStream
func (VideoStream) TableName() string { return "video_streams" }

func (s *VideoStream) String() string {
	format, media := "?", "?"
	if s.Format != nil {
		format = s.Format.Name
	}
	if s.MediaFile != nil {
		media = s.MediaFile.Title
	}
	return fmt.Sprintf("%s: %s", format, media)
}
