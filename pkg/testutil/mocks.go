package testutil

import (
	"context"

	"github.com/arthur-debert/enzyme/pkg/shell"
	"github.com/arthur-debert/enzyme/pkg/types"
	"github.com/stretchr/testify/mock"
)

// MockRunner implements shell.Runner for testing
type MockRunner struct {
	mock.Mock
}

func (m *MockRunner) Run(ctx context.Context, cmd shell.Command) error {
	return m.Called(ctx, cmd).Error(0)
}

// Script matches a shell.Command by its script
func Script(script string) interface{} {
	return mock.MatchedBy(func(cmd shell.Command) bool { return cmd.Script == script })
}

// MockStore implements history.Store for testing
type MockStore struct {
	mock.Mock
}

func (m *MockStore) Load() (types.State, error) {
	args := m.Called()
	return args.Get(0).(types.State), args.Error(1)
}

func (m *MockStore) Append(rec types.InstallRecord) error {
	return m.Called(rec).Error(0)
}

func (m *MockStore) Close() error {
	return m.Called().Error(0)
}
