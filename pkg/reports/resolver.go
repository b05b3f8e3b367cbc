package reports

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"

	"github.com/rs/zerolog"
	"github.com/spf13/afero"
)

// ErrNoReportFiles is returned when a pattern leaves no readable report file,
// either because nothing matched or because every open failed.
var ErrNoReportFiles = errors.New("no files matching your glob patterns found")

// ReportFile is an open report together with the path it was resolved from.
type ReportFile struct {
	Path string
	afero.File
}

// Resolver expands glob patterns against a base directory and opens the matches.
type Resolver struct {
	fs afero.Fs
}

// NewResolver creates a resolver on top of fs. A nil fs means the OS filesystem.
func NewResolver(fs afero.Fs) *Resolver {
	if fs == nil {
		fs = afero.NewOsFs()
	}
	return &Resolver{fs: fs}
}

// Resolve returns the regular files matching pattern under baseDir, in glob order.
// An absolute pattern is used as is.
func (r *Resolver) Resolve(ctx context.Context, pattern, baseDir string) ([]string, error) {
	glob := pattern
	if !filepath.IsAbs(pattern) {
		glob = filepath.Join(baseDir, pattern)
	}
	matches, err := afero.Glob(r.fs, glob)
	if err != nil {
		return nil, fmt.Errorf("invalid glob pattern %q: %w", pattern, err)
	}

	paths := make([]string, 0, len(matches))
	for _, m := range matches {
		info, err := r.fs.Stat(m)
		if err != nil {
			zerolog.Ctx(ctx).Warn().Err(err).Str("file", m).Msg("failed to stat report file, skipping it")
			continue
		}
		if info.IsDir() {
			continue
		}
		paths = append(paths, m)
	}
	return paths, nil
}

// Open opens every path. Paths that fail to open are dropped with a warning.
// Callers own the returned files and must close them with CloseAll.
func (r *Resolver) Open(ctx context.Context, paths []string) []*ReportFile {
	logger := zerolog.Ctx(ctx)

	files := make([]*ReportFile, 0, len(paths))
	for _, p := range paths {
		f, err := r.fs.Open(p)
		if err != nil {
			logger.Warn().Err(err).Str("file", p).Msg("failed to open report file, skipping it")
			continue
		}
		files = append(files, &ReportFile{Path: p, File: f})
	}
	return files
}

// CloseAll closes every file, logging close failures.
func CloseAll(ctx context.Context, files []*ReportFile) {
	logger := zerolog.Ctx(ctx)
	for _, f := range files {
		if err := f.Close(); err != nil {
			logger.Warn().Err(err).Str("file", f.Path).Msg("failed to close report file")
		}
	}
}
