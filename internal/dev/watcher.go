// Package dev runs the watch loop: it observes source artifacts and regenerates
// wrappers whenever a matching file changes.
package dev

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/fsnotify/fsnotify"
	"github.com/rs/zerolog"
)

// FileWatcher watches files for changes based on patterns
type FileWatcher struct {
	watcher  *fsnotify.Watcher
	root     string
	patterns []string
	exclude  []string
	onChange func(path string, op fsnotify.Op)
	logger   zerolog.Logger
}

// NewFileWatcher creates a new file watcher.
// Patterns match file names ("*.gql"), any depth ("**/*.gql") or paths relative
// to the first directory added ("schema/*.gql"). Exclude patterns ending in "/"
// name directories; the others match file names.
func NewFileWatcher(patterns []string, exclude []string, onChange func(path string, op fsnotify.Op), logger zerolog.Logger) (*FileWatcher, error) {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create watcher: %w", err)
	}

	return &FileWatcher{
		watcher:  watcher,
		patterns: patterns,
		exclude:  exclude,
		onChange: onChange,
		logger:   logger,
	}, nil
}

// AddDirectory recursively adds a directory to the watcher
func (fw *FileWatcher) AddDirectory(dir string) error {
	if fw.root == "" {
		fw.root = dir
	}

	return filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() {
			return nil
		}
		if path != dir && fw.excludedDir(d.Name()) {
			return filepath.SkipDir
		}

		if err := fw.watcher.Add(path); err != nil {
			return fmt.Errorf("failed to watch directory %s: %w", path, err)
		}
		return nil
	})
}

// Start begins watching for file changes
func (fw *FileWatcher) Start(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case event, ok := <-fw.watcher.Events:
			if !ok {
				return fmt.Errorf("watcher channel closed")
			}

			// A new directory is watched too
			if event.Op&fsnotify.Create == fsnotify.Create {
				if info, err := os.Stat(event.Name); err == nil && info.IsDir() {
					if !fw.excludedDir(info.Name()) {
						if err := fw.AddDirectory(event.Name); err != nil {
							fw.logger.Warn().Err(err).Str("path", event.Name).Msg("failed to watch new directory")
						}
					}
					continue
				}
			}

			if fw.shouldWatch(event.Name) {
				fw.onChange(event.Name, event.Op)
			}

		case err, ok := <-fw.watcher.Errors:
			if !ok {
				return fmt.Errorf("watcher error channel closed")
			}
			if err != nil {
				// Log error but continue watching
				fw.logger.Warn().Err(err).Msg("watcher error")
			}
		}
	}
}

// shouldWatch checks if a file should trigger a change event based on patterns
func (fw *FileWatcher) shouldWatch(path string) bool {
	base := filepath.Base(path)

	// Check excludes first
	for _, pattern := range fw.exclude {
		if strings.HasSuffix(pattern, "/") {
			if fw.inExcludedDir(path) {
				return false
			}
			continue
		}
		if matched, _ := filepath.Match(pattern, base); matched {
			return false
		}
	}

	for _, pattern := range fw.patterns {
		switch {
		case strings.HasPrefix(pattern, "**/"):
			if matched, _ := filepath.Match(strings.TrimPrefix(pattern, "**/"), base); matched {
				return true
			}
		case strings.Contains(pattern, "/"):
			if rel, ok := fw.relative(path); ok {
				if matched, _ := filepath.Match(pattern, rel); matched {
					return true
				}
			}
		default:
			if matched, _ := filepath.Match(pattern, base); matched {
				return true
			}
		}
	}

	return false
}

// excludedDir reports whether a directory name matches a directory exclude
func (fw *FileWatcher) excludedDir(name string) bool {
	for _, pattern := range fw.exclude {
		dir, ok := strings.CutSuffix(pattern, "/")
		if !ok {
			continue
		}
		if matched, _ := filepath.Match(dir, name); matched {
			return true
		}
	}
	return false
}

func (fw *FileWatcher) inExcludedDir(path string) bool {
	rel, ok := fw.relative(path)
	if !ok {
		rel = filepath.ToSlash(path)
	}
	parts := strings.Split(rel, "/")
	for _, part := range parts[:len(parts)-1] {
		if fw.excludedDir(part) {
			return true
		}
	}
	return false
}

// relative returns path relative to the watch root with slash separators
func (fw *FileWatcher) relative(path string) (string, bool) {
	if fw.root == "" {
		return "", false
	}
	rel, err := filepath.Rel(fw.root, path)
	if err != nil || strings.HasPrefix(rel, "..") {
		return "", false
	}
	return filepath.ToSlash(rel), true
}

// Close stops the watcher
func (fw *FileWatcher) Close() error {
	return fw.watcher.Close()
}
