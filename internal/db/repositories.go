package db

import "github.com/Atrasoftware/avlogue/internal/storage"

// Repositories provides access to all database repositories. The storage
// backend is shared by the repositories that manage file-owning rows.
type Repositories struct {
	AudioFiles      *AudioRepository
	VideoFiles      *VideoRepository
	AudioFormats    *AudioFormatRepository
	VideoFormats    *VideoFormatRepository
	AudioFormatSets *AudioFormatSetRepository
	VideoFormatSets *VideoFormatSetRepository
	AudioStreams    *AudioStreamRepository
	VideoStreams    *VideoStreamRepository
}

// NewRepositories creates a new repository collection
func NewRepositories(db *DB, store storage.Backend) *Repositories {
	return &Repositories{
		AudioFiles:      NewAudioRepository(db, store),
		VideoFiles:      NewVideoRepository(db, store),
		AudioFormats:    NewAudioFormatRepository(db),
		VideoFormats:    NewVideoFormatRepository(db),
		AudioFormatSets: NewAudioFormatSetRepository(db),
		VideoFormatSets: NewVideoFormatSetRepository(db),
		AudioStreams:    NewAudioStreamRepository(db, store),
		VideoStreams:    NewVideoStreamRepository(db, store),
	}
}
