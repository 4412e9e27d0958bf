package sumfile

import (
	"errors"
	"io/fs"
	"os"

	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/relsum/pkg/domain/model"
)

// Writer appends checksum records to a file. Existing content is never
// rewritten, so running twice against the same file appends duplicates.
type Writer struct {
	path string
}

// New creates a Writer for the checksum file at path. The file is created on
// the first Append.
func New(path string) *Writer {
	return &Writer{path: path}
}

// Path returns the checksum file path
func (w *Writer) Path() string {
	return w.path
}

// Append writes one record line at the end of the file
func (w *Writer) Append(rec model.ChecksumRecord) error {
	f, err := os.OpenFile(w.path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return goerr.Wrap(err, "failed to open checksum file", goerr.V("path", w.path))
	}

	if _, err := f.WriteString(rec.Line()); err != nil {
		_ = f.Close()
		return goerr.Wrap(err, "failed to append checksum record",
			goerr.V("path", w.path),
			goerr.V("asset", rec.Name),
		)
	}

	if err := f.Close(); err != nil {
		return goerr.Wrap(err, "failed to close checksum file", goerr.V("path", w.path))
	}
	return nil
}

// Size returns the file size in bytes, 0 when the file does not exist
func (w *Writer) Size() (int64, error) {
	info, err := os.Stat(w.path)
	if errors.Is(err, fs.ErrNotExist) {
		return 0, nil
	}
	if err != nil {
		return 0, goerr.Wrap(err, "failed to stat checksum file", goerr.V("path", w.path))
	}
	return info.Size(), nil
}

// Read returns the file content, empty when the file does not exist
func (w *Writer) Read() (string, error) {
	data, err := os.ReadFile(w.path)
	if errors.Is(err, fs.ErrNotExist) {
		return "", nil
	}
	if err != nil {
		return "", goerr.Wrap(err, "failed to read checksum file", goerr.V("path", w.path))
	}
	return string(data), nil
}
