package segment

import (
	"errors"
	"fmt"
	"io"
	"path/filepath"

	"github.com/etldl/etldl/filesystem"
	"github.com/etldl/etldl/source"
	"github.com/spf13/afero"
)

// Concat joins segments [0, count) found in dir into output, byte for byte,
// in ascending index order. Every input is checked before writing starts, and
// output only appears once the whole stream has been copied.
func Concat(dir string, stream source.Stream, count int, output string) (int64, error) {
	if count < 0 {
		return 0, fmt.Errorf("concat %s: negative segment count %d", output, count)
	}

	paths := make([]string, count)
	for i := range paths {
		paths[i] = filepath.Join(dir, stream.SegmentName(i))

		stat, err := filesystem.API().Stat(paths[i])
		if err != nil {
			return 0, &AssemblyError{Index: i, Path: paths[i], Err: err}
		}
		if stat.IsDir() {
			return 0, &AssemblyError{Index: i, Path: paths[i], Err: errIsDir}
		}
	}

	c := &chain{paths: paths}
	defer c.close()

	return filesystem.WriteAtomic(output, c)
}

var errIsDir = errors.New("is a directory")

// chain reads the files in order, opening each one only when the previous is exhausted.
type chain struct {
	paths   []string
	index   int
	current afero.File
}

func (c *chain) Read(p []byte) (int, error) {
	for {
		if c.current == nil {
			if c.index >= len(c.paths) {
				return 0, io.EOF
			}

			f, err := filesystem.API().Open(c.paths[c.index])
			if err != nil {
				return 0, &AssemblyError{Index: c.index, Path: c.paths[c.index], Err: err}
			}
			c.current = f
		}

		n, err := c.current.Read(p)
		if err == io.EOF {
			_ = c.current.Close()
			c.current = nil
			c.index++
			if n > 0 {
				return n, nil
			}
			continue
		}
		return n, err
	}
}

func (c *chain) close() {
	if c.current != nil {
		_ = c.current.Close()
		c.current = nil
	}
}
