package commands

import (
	"fmt"
	"os"
	"os/signal"
	"path/filepath"

	"github.com/okra-platform/overlay/internal/config"
)

// Interfaces for dependency injection
type ConfigLoader interface {
	// LoadConfig loads the configuration at path, or searches from the working
	// directory when path is empty. It returns the project root.
	LoadConfig(path string) (*config.Config, string, error)
}

type SignalNotifier interface {
	Notify(c chan<- os.Signal, sig ...os.Signal)
	Stop(c chan<- os.Signal)
}

type Output interface {
	Printf(format string, a ...any)
	Println(a ...any)
}

// Default implementations
type defaultConfigLoader struct{}

func (l *defaultConfigLoader) LoadConfig(path string) (*config.Config, string, error) {
	if path == "" {
		return config.LoadConfig()
	}

	cfg, err := config.LoadConfigFromPath(path)
	if err != nil {
		return nil, "", err
	}
	root, err := filepath.Abs(filepath.Dir(path))
	if err != nil {
		return nil, "", fmt.Errorf("failed to resolve project root: %w", err)
	}
	return cfg, root, nil
}

type defaultSignalNotifier struct{}

func (defaultSignalNotifier) Notify(c chan<- os.Signal, sig ...os.Signal) {
	signal.Notify(c, sig...)
}

func (defaultSignalNotifier) Stop(c chan<- os.Signal) {
	signal.Stop(c)
}

type defaultOutput struct{}

func (defaultOutput) Printf(format string, a ...any) {
	fmt.Printf(format, a...)
}

func (defaultOutput) Println(a ...any) {
	fmt.Println(a...)
}
