// Package output persists generated artifacts to disk.
//
// Writes go through a temporary file in the destination directory followed
// by a rename, so a failed run never leaves a truncated artifact behind.
package output

import (
	"bytes"
	"os"
	"path/filepath"

	"github.com/klauspost/compress/gzip"

	"github.com/Blobfolio/bashman/pkg/errors"
)

// Write atomically writes data to path, creating parent directories as
// needed.
func Write(path string, data []byte) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return errors.Wrap(errors.ErrCodeWrite, err, "failed to create directory %s", dir)
	}

	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".*")
	if err != nil {
		return errors.Wrap(errors.ErrCodeWrite, err, "failed to create temporary file in %s", dir)
	}
	defer func() { _ = os.Remove(tmp.Name()) }()

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		return errors.Wrap(errors.ErrCodeWrite, err, "failed to write %s", path)
	}
	if err := tmp.Close(); err != nil {
		return errors.Wrap(errors.ErrCodeWrite, err, "failed to write %s", path)
	}
	if err := os.Chmod(tmp.Name(), 0644); err != nil {
		return errors.Wrap(errors.ErrCodeWrite, err, "failed to write %s", path)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return errors.Wrap(errors.ErrCodeWrite, err, "failed to write %s", path)
	}
	return nil
}

// WriteGzip atomically writes a gzip-compressed copy of data to path.
// The gzip header carries no timestamp, keeping repeated runs byte-stable.
func WriteGzip(path string, data []byte) error {
	compressed, err := compress(data)
	if err != nil {
		return errors.Wrap(errors.ErrCodeWrite, err, "failed to compress %s", path)
	}
	return Write(path, compressed)
}

func compress(data []byte) ([]byte, error) {
	var buf bytes.Buffer
	zw, err := gzip.NewWriterLevel(&buf, gzip.BestCompression)
	if err != nil {
		return nil, err
	}
	if _, err := zw.Write(data); err != nil {
		return nil, err
	}
	if err := zw.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
