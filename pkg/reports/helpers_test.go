package reports

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/rs/zerolog"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/require"
)

const reportsDir = "/reports"

func newFs(t *testing.T, files map[string]string) afero.Fs {
	t.Helper()
	fs := afero.NewMemMapFs()
	require.NoError(t, fs.MkdirAll(reportsDir, 0o755))
	for name, content := range files {
		require.NoError(t, afero.WriteFile(fs, filepath.Join(reportsDir, name), []byte(content), 0o644))
	}
	return fs
}

// logContext returns a context carrying a logger that writes to the returned buffer.
func logContext() (context.Context, *bytes.Buffer) {
	buf := &bytes.Buffer{}
	logger := zerolog.New(buf)
	return logger.WithContext(context.Background()), buf
}

// failingOpenFs fails Open for the listed paths.
type failingOpenFs struct {
	afero.Fs
	fail map[string]bool
}

func (f failingOpenFs) Open(name string) (afero.File, error) {
	if f.fail[name] {
		return nil, &os.PathError{Op: "open", Path: name, Err: os.ErrPermission}
	}
	return f.Fs.Open(name)
}

// failingStatFs fails Stat for the listed paths.
type failingStatFs struct {
	afero.Fs
	fail map[string]bool
}

func (f failingStatFs) Stat(name string) (os.FileInfo, error) {
	if f.fail[name] {
		return nil, &os.PathError{Op: "stat", Path: name, Err: os.ErrPermission}
	}
	return f.Fs.Stat(name)
}

// trackingFs counts the files that are open at any moment, per path.
type trackingFs struct {
	afero.Fs
	mu   sync.Mutex
	open map[string]int
}

func newTrackingFs(fs afero.Fs) *trackingFs {
	return &trackingFs{Fs: fs, open: map[string]int{}}
}

func (f *trackingFs) Open(name string) (afero.File, error) {
	file, err := f.Fs.Open(name)
	if err != nil {
		return nil, err
	}
	f.mu.Lock()
	f.open[name]++
	f.mu.Unlock()
	return &trackedFile{File: file, fs: f, name: name}, nil
}

// openFiles returns the paths opened and not closed yet.
func (f *trackingFs) openFiles() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	var names []string
	for name, n := range f.open {
		if n > 0 {
			names = append(names, name)
		}
	}
	return names
}

func (f *trackingFs) opened(name string) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	_, ok := f.open[name]
	return ok
}

type trackedFile struct {
	afero.File
	fs   *trackingFs
	name string
}

func (f *trackedFile) Close() error {
	f.fs.mu.Lock()
	f.fs.open[f.name]--
	f.fs.mu.Unlock()
	return f.File.Close()
}

func openAll(t *testing.T, fs afero.Fs, pattern string) []*ReportFile {
	t.Helper()
	r := NewResolver(fs)
	paths, err := r.Resolve(context.Background(), pattern, reportsDir)
	require.NoError(t, err)
	files := r.Open(context.Background(), paths)
	t.Cleanup(func() { CloseAll(context.Background(), files) })
	return files
}
