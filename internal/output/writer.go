// Package output writes generated files under an output directory and decides
// whether a run can be skipped because the output is newer than every source.
package output

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/okra-platform/overlay/internal/codegen"
)

// FileSystem defines the file system operations the writer needs
type FileSystem interface {
	Stat(name string) (os.FileInfo, error)
	MkdirAll(path string, perm os.FileMode) error
	WriteFile(name string, data []byte, perm os.FileMode) error
	Chtimes(name string, atime, mtime time.Time) error
}

// OSFileSystem is the FileSystem backed by package os
type OSFileSystem struct{}

func (OSFileSystem) Stat(name string) (os.FileInfo, error) {
	return os.Stat(name)
}

func (OSFileSystem) MkdirAll(path string, perm os.FileMode) error {
	return os.MkdirAll(path, perm)
}

func (OSFileSystem) WriteFile(name string, data []byte, perm os.FileMode) error {
	return os.WriteFile(name, data, perm)
}

func (OSFileSystem) Chtimes(name string, atime, mtime time.Time) error {
	return os.Chtimes(name, atime, mtime)
}

// Writer places generated files below Root. Packages under Module are written
// relative to it; other packages keep their full import path.
type Writer struct {
	Root   string
	Module string
	fs     FileSystem
	logger zerolog.Logger
	now    func() time.Time
}

// NewWriter creates a writer on the real file system
func NewWriter(root, module string, logger zerolog.Logger) *Writer {
	return NewWriterWithFS(root, module, OSFileSystem{}, logger)
}

// NewWriterWithFS creates a writer on the given file system
func NewWriterWithFS(root, module string, fs FileSystem, logger zerolog.Logger) *Writer {
	return &Writer{
		Root:   root,
		Module: strings.TrimSuffix(module, "/"),
		fs:     fs,
		logger: logger,
		now:    time.Now,
	}
}

// Path returns the destination of a generated file
func (w *Writer) Path(f codegen.File) string {
	rel := f.Package
	if w.Module != "" {
		switch {
		case rel == w.Module:
			rel = ""
		case strings.HasPrefix(rel, w.Module+"/"):
			rel = strings.TrimPrefix(rel, w.Module+"/")
		}
	}
	return filepath.Join(w.Root, filepath.FromSlash(rel), f.Name)
}

// Write writes every file, then marks the output directory as fresh
func (w *Writer) Write(files []codegen.File) error {
	for _, f := range files {
		path := w.Path(f)
		if err := w.fs.MkdirAll(filepath.Dir(path), 0755); err != nil {
			return fmt.Errorf("failed to create directory for %s: %w", owner(f), err)
		}
		if err := w.fs.WriteFile(path, f.Content, 0644); err != nil {
			return fmt.Errorf("failed to write %s for %s: %w", path, owner(f), err)
		}
		w.logger.Debug().Str("path", path).Str("owner", f.Owner).Msg("wrote file")
	}

	if err := w.Touch(); err != nil {
		return err
	}
	w.logger.Info().Int("files", len(files)).Str("output", w.Root).Msg("generated files")
	return nil
}

// Touch sets the output directory's modification time to now, creating it if needed
func (w *Writer) Touch() error {
	if err := w.fs.MkdirAll(w.Root, 0755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}
	now := w.now()
	if err := w.fs.Chtimes(w.Root, now, now); err != nil {
		return fmt.Errorf("failed to touch output directory: %w", err)
	}
	return nil
}

// UpToDate reports whether the output directory is newer than every source.
// Any stat failure, or an empty source list, means the output is stale.
func (w *Writer) UpToDate(sources []string) bool {
	if len(sources) == 0 {
		return false
	}

	out, err := w.fs.Stat(w.Root)
	if err != nil {
		w.logger.Debug().Err(err).Msg("output directory not readable, regenerating")
		return false
	}

	var newest time.Time
	for _, src := range sources {
		info, err := w.fs.Stat(src)
		if err != nil {
			w.logger.Debug().Err(err).Str("source", src).Msg("source not readable, regenerating")
			return false
		}
		if info.ModTime().After(newest) {
			newest = info.ModTime()
		}
	}

	return out.ModTime().After(newest)
}

func owner(f codegen.File) string {
	if f.Owner == "" {
		return f.Path()
	}
	return f.Owner
}
