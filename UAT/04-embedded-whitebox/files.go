// Package files describes readable resources. Its stub is generated into the package itself.
package files

import (
	"errors"
	"io"
)

// Named has a name.
type Named interface {
	Name() string
}

// File is a named, readable resource.
type File interface {
	Named
	io.Reader
	Size() (n int64, err error)
}

// Describe reads up to limit bytes of f and labels them with its name.
func Describe(f File, limit int) (string, error) {
	size, err := f.Size()
	if err != nil {
		return "", err
	}

	if int64(limit) > size {
		limit = int(size)
	}

	buf := make([]byte, limit)

	n, err := f.Read(buf)
	if err != nil && !errors.Is(err, io.EOF) {
		return "", err
	}

	return f.Name() + ": " + string(buf[:n]), nil
}
