// Package fileutils writes analysis artifacts to disk and decodes model
// replies. Artifact writes are atomic: a report file is either absent or
// complete, never truncated.
package fileutils

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

// FileExists reports whether path names an existing file.
func FileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

// WriteJSONFileAtomic marshals v, appends a trailing newline and moves the
// result into place through a staging file. Parent directories are created as
// needed.
func WriteJSONFileAtomic(path string, v any, pretty bool) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("WriteJSONFileAtomic: marshal: %w", err)
	}
	if pretty {
		var buf bytes.Buffer
		if err := json.Indent(&buf, data, "", "  "); err != nil {
			return fmt.Errorf("WriteJSONFileAtomic: indent: %w", err)
		}
		data = buf.Bytes()
	}
	data = append(data, '\n')

	if err := writeAtomic(path, data); err != nil {
		return fmt.Errorf("WriteJSONFileAtomic: %w", err)
	}
	return nil
}

// writeAtomic stages data in a temp file beside path and renames it into
// place. Staging in the destination directory keeps the rename on one
// filesystem, which is what makes it atomic.
func writeAtomic(path string, data []byte) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}

	tmp, err := os.CreateTemp(dir, ".staging-*")
	if err != nil {
		return err
	}
	defer os.Remove(tmp.Name())

	_, werr := tmp.Write(data)
	if werr == nil {
		werr = tmp.Chmod(0o644)
	}
	if werr == nil {
		werr = tmp.Sync()
	}
	if cerr := tmp.Close(); werr == nil {
		werr = cerr
	}
	if werr != nil {
		return werr
	}
	return os.Rename(tmp.Name(), path)
}
