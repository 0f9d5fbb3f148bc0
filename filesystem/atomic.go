package filesystem

import (
	"fmt"
	"io"
	"os"
)

// PartSuffix marks files that are still being written.
const PartSuffix = ".part"

// WriteAtomic streams r into path+".part" and renames it over path once complete.
// A failed write never leaves a file at path.
func WriteAtomic(path string, r io.Reader) (int64, error) {
	fs := API()
	part := path + PartSuffix

	f, err := fs.OpenFile(part, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o644)
	if err != nil {
		return 0, err
	}

	n, err := io.Copy(f, r)
	if closeErr := f.Close(); err == nil {
		err = closeErr
	}
	if err != nil {
		_ = fs.Remove(part)
		return n, fmt.Errorf("write %s: %w", path, err)
	}

	if err = fs.Rename(part, path); err != nil {
		_ = fs.Remove(part)
		return n, err
	}
	return n, nil
}
