package dev

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/rs/zerolog"
)

// DefaultDebounce is how long the loop waits for a burst of changes to settle
const DefaultDebounce = 200 * time.Millisecond

// Loop regenerates once up front and again after every settled burst of changes.
// Regenerations run one at a time on the loop goroutine.
type Loop struct {
	root     string
	patterns []string
	exclude  []string
	debounce time.Duration
	rebuild  func(ctx context.Context) error
	logger   zerolog.Logger
}

// NewLoop creates a watch loop over root
func NewLoop(root string, patterns, exclude []string, rebuild func(ctx context.Context) error, logger zerolog.Logger) *Loop {
	return &Loop{
		root:     root,
		patterns: patterns,
		exclude:  exclude,
		debounce: DefaultDebounce,
		rebuild:  rebuild,
		logger:   logger.With().Str("component", "watch").Logger(),
	}
}

// WithDebounce sets the settle interval
func (l *Loop) WithDebounce(d time.Duration) *Loop {
	l.debounce = d
	return l
}

// Run blocks until ctx is cancelled. A failing initial generation ends the loop;
// later failures are logged and the loop keeps watching.
func (l *Loop) Run(ctx context.Context) error {
	if err := l.rebuild(ctx); err != nil {
		return fmt.Errorf("initial generation failed: %w", err)
	}

	changes := make(chan string, 1)
	watcher, err := NewFileWatcher(l.patterns, l.exclude, func(path string, op fsnotify.Op) {
		if op&(fsnotify.Create|fsnotify.Write|fsnotify.Remove|fsnotify.Rename) == 0 {
			return
		}
		select {
		case changes <- path:
		default:
		}
	}, l.logger)
	if err != nil {
		return err
	}
	defer watcher.Close()

	if err := watcher.AddDirectory(l.root); err != nil {
		return fmt.Errorf("failed to watch project directory: %w", err)
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- watcher.Start(ctx)
	}()

	l.logger.Info().Str("root", l.root).Msg("watching for changes")

	var (
		timer   *time.Timer
		settled <-chan time.Time
		last    string
	)
	for {
		select {
		case <-ctx.Done():
			return nil
		case err := <-errCh:
			if errors.Is(err, context.Canceled) || ctx.Err() != nil {
				return nil
			}
			return err
		case path := <-changes:
			last = path
			if timer == nil {
				timer = time.NewTimer(l.debounce)
			} else {
				timer.Reset(l.debounce)
			}
			settled = timer.C
		case <-settled:
			settled = nil
			rel, relErr := filepath.Rel(l.root, last)
			if relErr != nil {
				rel = last
			}
			l.logger.Info().Str("path", rel).Msg("change detected, regenerating")
			if err := l.rebuild(ctx); err != nil {
				l.logger.Error().Err(err).Msg("generation failed")
			}
		}
	}
}
