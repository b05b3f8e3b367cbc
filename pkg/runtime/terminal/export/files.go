package export

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/de-tools/sim-reporting/pkg/models/domain"
	"github.com/rs/zerolog"
	"github.com/spf13/afero"
)

// ErrOutputNotDir is returned when the output path exists but is not a directory.
var ErrOutputNotDir = errors.New("output path exists and is not a directory")

// Output writes result files into one directory, prefixing every file name.
type Output struct {
	fs     afero.Fs
	dir    string
	prefix string
}

// NewOutput prepares dir for writing, creating it with its parents when needed.
// A nil fs writes to the OS filesystem.
func NewOutput(ctx context.Context, fs afero.Fs, dir, prefix string) (*Output, error) {
	if fs == nil {
		fs = afero.NewOsFs()
	}

	info, err := fs.Stat(dir)
	switch {
	case err == nil && !info.IsDir():
		return nil, fmt.Errorf("%w: %s", ErrOutputNotDir, dir)
	case err == nil:
	case errors.Is(err, os.ErrNotExist):
		zerolog.Ctx(ctx).Debug().Str("dir", dir).Msg("creating output directory")
		if err := fs.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("failed to create output directory %s: %w", dir, err)
		}
	default:
		return nil, fmt.Errorf("failed to inspect output directory %s: %w", dir, err)
	}

	return &Output{fs: fs, dir: dir, prefix: prefix}, nil
}

func (o *Output) Dir() string {
	return o.dir
}

// Path returns the location of the named file with the given extension.
func (o *Output) Path(name, ext string) string {
	return filepath.Join(o.dir, fmt.Sprintf("%s%s.%s", o.prefix, name, ext))
}

// Write renders a file with fn and stores it under name. Nothing is written when fn fails.
func (o *Output) Write(ctx context.Context, name, ext string, fn func(io.Writer) error) (string, error) {
	var buf bytes.Buffer
	if err := fn(&buf); err != nil {
		return "", err
	}

	path := o.Path(name, ext)
	if err := afero.WriteFile(o.fs, path, buf.Bytes(), 0o644); err != nil {
		return "", fmt.Errorf("failed to write %s: %w", path, err)
	}
	zerolog.Ctx(ctx).Debug().Str("file", path).Msg("saved output")
	return path, nil
}

// SaveTable stores t in format f under name.
func (o *Output) SaveTable(ctx context.Context, name string, f Format, t *domain.Table) (string, error) {
	return o.Write(ctx, name, f.Ext(), func(w io.Writer) error {
		return WriteTable(w, f, t)
	})
}
