package export

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/gofrs/flock"
)

const lockRetryDelay = 100 * time.Millisecond

// ErrLocked is returned when another writer holds the output lock until ctx ends.
var ErrLocked = errors.New("output file is locked by another writer")

// WriteFile writes the snapshot to path in the given format while holding
// an advisory lock on path+".lock". JSON and YAML replace the file
// atomically; SQLite appends to an existing database.
func WriteFile(ctx context.Context, path string, format Format, s *Snapshot) error {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("creating output directory %s: %w", dir, err)
		}
	}

	lock := flock.New(path + ".lock")
	ok, err := lock.TryLockContext(ctx, lockRetryDelay)
	if err != nil {
		if ctx.Err() != nil {
			return ErrLocked
		}
		return fmt.Errorf("acquire output lock: %w", err)
	}
	if !ok {
		return ErrLocked
	}
	defer func() { _ = lock.Unlock() }()

	switch format {
	case FormatSQLite:
		return WriteSQLite(ctx, path, s)
	case FormatYAML:
		var buf bytes.Buffer
		if err := EncodeYAML(&buf, s); err != nil {
			return err
		}
		return writeAtomic(path, buf.Bytes())
	case FormatJSON, "":
		var buf bytes.Buffer
		if err := EncodeJSON(&buf, s); err != nil {
			return err
		}
		return writeAtomic(path, buf.Bytes())
	default:
		return fmt.Errorf("unsupported export format %q", format)
	}
}

// writeAtomic writes data to a temp file beside path and renames it over path.
func writeAtomic(path string, data []byte) error {
	tmp, err := os.CreateTemp(filepath.Dir(path), "."+filepath.Base(path)+".tmp-*")
	if err != nil {
		return fmt.Errorf("creating temp file for %s: %w", path, err)
	}
	tmpName := tmp.Name()
	defer func() { _ = os.Remove(tmpName) }()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("writing %s: %w", tmpName, err)
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		return fmt.Errorf("syncing %s: %w", tmpName, err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("closing %s: %w", tmpName, err)
	}
	if err := os.Chmod(tmpName, 0644); err != nil {
		return fmt.Errorf("setting permissions on %s: %w", tmpName, err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		return fmt.Errorf("replacing %s: %w", path, err)
	}
	return nil
}
