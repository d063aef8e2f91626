package db

import (
	"context"

	"github.com/Atrasoftware/avlogue/internal/logger"
	"github.com/Atrasoftware/avlogue/internal/storage"
)

// fileCleaner removes storage objects orphaned by row updates and
// deletes. Cleanup is best-effort: a failed delete leaves the completed
// row operation intact and is only logged.
type fileCleaner struct {
	store storage.Backend
}

// onChange deletes the previously stored object after a row's file
// reference changed. Unchanged references are a no-op.
func (c fileCleaner) onChange(ctx context.Context, oldName, newName string) {
	if oldName == "" || oldName == newName {
		return
	}
	c.remove(ctx, oldName)
}

// onDelete deletes a removed row's backing object, if any.
func (c fileCleaner) onDelete(ctx context.Context, name string) {
	if name == "" {
		return
	}
	c.remove(ctx, name)
}

func (c fileCleaner) remove(ctx context.Context, name string) {
	if c.store == nil {
		return
	}
	if err := c.store.Delete(ctx, name); err != nil {
		logger.Log.Debug().
			Err(err).
			Str("object", name).
			Msg("File cleanup failed")
		return
	}
	logger.Log.Debug().
		Str("object", name).
		Msg("Deleted orphaned file")
}
