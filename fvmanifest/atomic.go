package fvmanifest

import (
	"os"
	"path/filepath"

	"github.com/lattice-substrate/fmtvec/fverr"
)

// WriteAtomic writes data to path using temp file + rename. On failure the
// temp file is removed and nothing is left at path.
//
// The rename is atomic on local POSIX filesystems when the temp file and
// the target share a mount, which they do because the temp file is created
// in the target's directory.
func WriteAtomic(path string, data []byte) error {
	dir := filepath.Dir(path)

	tmp, err := os.CreateTemp(dir, ".fmtvec-*.tmp")
	if err != nil {
		return fverr.Wrap(fverr.InternalIO, -1, "create temp file", err)
	}
	tmpPath := tmp.Name()

	success := false
	defer func() {
		if !success {
			_ = tmp.Close()
			_ = os.Remove(tmpPath)
		}
	}()

	if _, err := tmp.Write(data); err != nil {
		return fverr.Wrap(fverr.InternalIO, -1, "write temp file", err)
	}
	if err := tmp.Sync(); err != nil {
		return fverr.Wrap(fverr.InternalIO, -1, "sync temp file", err)
	}
	if err := tmp.Close(); err != nil {
		return fverr.Wrap(fverr.InternalIO, -1, "close temp file", err)
	}
	if err := os.Chmod(tmpPath, 0o644); err != nil {
		return fverr.Wrap(fverr.InternalIO, -1, "chmod temp file", err)
	}
	if err := os.Rename(tmpPath, path); err != nil {
		return fverr.Wrap(fverr.InternalIO, -1, "rename temp to final", err)
	}
	success = true

	syncDir(dir)
	return nil
}

// syncDir fsyncs the directory. Errors are ignored.
func syncDir(dir string) {
	d, err := os.Open(dir)
	if err != nil {
		return
	}
	_ = d.Sync()
	_ = d.Close()
}
