package commands

import (
	"context"
	"fmt"
	"os"

	"github.com/stretchr/testify/mock"

	"github.com/okra-platform/overlay/internal/config"
)

type mockConfigLoader struct {
	mock.Mock
}

func (m *mockConfigLoader) LoadConfig(path string) (*config.Config, string, error) {
	args := m.Called(path)
	if args.Get(0) == nil {
		return nil, args.String(1), args.Error(2)
	}
	return args.Get(0).(*config.Config), args.String(1), args.Error(2)
}

type mockSignalNotifier struct {
	mock.Mock
}

func (m *mockSignalNotifier) Notify(c chan<- os.Signal, sig ...os.Signal) {
	m.Called(c, sig)
}

func (m *mockSignalNotifier) Stop(c chan<- os.Signal) {
	m.Called(c)
}

type mockLoop struct {
	mock.Mock
	rebuild func(ctx context.Context) error
}

func (m *mockLoop) Run(ctx context.Context) error {
	if m.rebuild != nil {
		if err := m.rebuild(ctx); err != nil {
			return err
		}
	}
	args := m.Called(ctx)
	return args.Error(0)
}

type mockLoopFactory struct {
	mock.Mock
}

func (m *mockLoopFactory) NewLoop(cfg *config.Config, projectRoot string, rebuild func(ctx context.Context) error) WatchLoop {
	args := m.Called(cfg, projectRoot)
	loop := args.Get(0).(*mockLoop)
	loop.rebuild = rebuild
	return loop
}

type mockOutput struct {
	messages []string
}

func (m *mockOutput) Printf(format string, a ...any) {
	m.messages = append(m.messages, fmt.Sprintf(format, a...))
}

func (m *mockOutput) Println(a ...any) {
	m.messages = append(m.messages, fmt.Sprintln(a...))
}
