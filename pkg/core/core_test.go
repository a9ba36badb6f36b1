// pkg/core/core_test.go
// TEST TYPE: Integration Tests
// DEPENDENCIES: temp files, mocked runner and history store
// PURPOSE: Verify the plan and install pipelines and history recording

package core

import (
	"context"
	stderrors "errors"
	"testing"
	"time"

	"github.com/arthur-debert/enzyme/pkg/errors"
	"github.com/arthur-debert/enzyme/pkg/executor"
	"github.com/arthur-debert/enzyme/pkg/planner"
	"github.com/arthur-debert/enzyme/pkg/shell"
	"github.com/arthur-debert/enzyme/pkg/testutil"
	"github.com/arthur-debert/enzyme/pkg/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

const manifestJSON = `{
  "name": "demo",
  "version": "2.1.0",
  "modes": {
    "full": {
      "requirements": {"os": ["linux"], "ram_gb": 16},
      "steps": {"linux": [{"run": "echo full"}]}
    },
    "lite": {
      "requirements": {"os": ["linux", "macos"]},
      "steps": {
        "linux": [{"run": "echo one"}, {"run": "echo two"}],
        "macos": [{"run": "echo mac"}]
      }
    }
  }
}`

func writeManifest(t *testing.T, content string) string {
	t.Helper()
	return testutil.WriteFile(t, t.TempDir(), "enzyme.json", content)
}

func hostWithRAM(ram uint64) func(context.Context) (types.Environment, error) {
	return func(context.Context) (types.Environment, error) {
		return types.Environment{OS: "linux", OSVersion: "6.1", CPUArch: "x64", RAMGB: ram, PkgManagers: []string{"apt"}}, nil
	}
}

var fixedNow = func() time.Time { return time.Date(2024, 6, 1, 12, 30, 45, 500, time.UTC) }

func TestPlanInstall(t *testing.T) {
	tests := []struct {
		name string
		ram  uint64
		mode string
	}{
		{name: "enough RAM picks full", ram: 32, mode: "full"},
		{name: "low RAM falls back to lite", ram: 8, mode: "lite"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res, err := PlanInstall(context.Background(), PlanOptions{
				ManifestPath: writeManifest(t, manifestJSON),
				Detect:       hostWithRAM(tt.ram),
			})
			require.NoError(t, err)
			assert.Equal(t, tt.mode, res.Plan.ChosenMode)
			assert.Equal(t, "demo", res.Plan.AppName)
			assert.Len(t, res.Evaluations, 2)
		})
	}
}

func TestPlanInstall_Snapshot(t *testing.T) {
	envPath := testutil.WriteSnapshot(t, t.TempDir(), testutil.Environment("macos", "14.0", "arm64", 8))

	res, err := PlanInstall(context.Background(), PlanOptions{
		ManifestPath:    writeManifest(t, manifestJSON),
		EnvironmentPath: envPath,
		Detect: func(context.Context) (types.Environment, error) {
			t.Fatal("detect must not run when a snapshot is given")
			return types.Environment{}, nil
		},
	})
	require.NoError(t, err)
	assert.Equal(t, "lite", res.Plan.ChosenMode)
	assert.Equal(t, "macos", res.Plan.OS)
	require.Len(t, res.Plan.Steps, 1)
}

func TestPlanInstall_NoCompatibleMode(t *testing.T) {
	res, err := PlanInstall(context.Background(), PlanOptions{
		ManifestPath: writeManifest(t, manifestJSON),
		Detect: func(context.Context) (types.Environment, error) {
			return types.Environment{OS: "windows", OSVersion: "11", CPUArch: "x64", RAMGB: 64}, nil
		},
	})
	require.Error(t, err)

	var ncm *planner.NoCompatibleModeError
	require.True(t, stderrors.As(err, &ncm))
	assert.Len(t, ncm.Reasons, 2)
	require.NotNil(t, res)
	assert.Len(t, res.Evaluations, 2)
}

func TestPlanInstall_InvalidManifest(t *testing.T) {
	_, err := PlanInstall(context.Background(), PlanOptions{
		ManifestPath: writeManifest(t, `{"version": "1.0", "modes": {}}`),
		Detect:       hostWithRAM(8),
	})
	require.Error(t, err)
	assert.True(t, errors.IsErrorCode(err, errors.ErrManifestInvalid))

	_, err = PlanInstall(context.Background(), PlanOptions{})
	assert.True(t, errors.IsErrorCode(err, errors.ErrInvalidInput))
}

func TestInstall_Success(t *testing.T) {
	runner := new(testutil.MockRunner)
	runner.On("Run", mock.Anything, testutil.Script("echo one")).Return(nil).Once()
	runner.On("Run", mock.Anything, testutil.Script("echo two")).Return(nil).Once()

	store := new(testutil.MockStore)
	store.On("Append", mock.MatchedBy(func(rec types.InstallRecord) bool {
		return rec.Status == types.InstallStatusSuccess && rec.Mode == "lite"
	})).Return(nil).Once()

	res, err := Install(context.Background(), InstallOptions{
		PlanOptions: PlanOptions{ManifestPath: writeManifest(t, manifestJSON), Detect: hostWithRAM(8)},
		Executor:    executor.Options{Runner: runner},
		History:     store,
		Now:         fixedNow,
	})
	require.NoError(t, err)
	assert.NotEmpty(t, res.RunID)
	assert.Equal(t, types.ExecutionResult{CompletedSteps: 2, TotalSteps: 2}, res.Result)
	require.NotNil(t, res.Record)
	assert.Equal(t, types.InstallRecord{
		AppName:    "demo",
		AppVersion: "2.1.0",
		Mode:       "lite",
		OS:         "linux",
		CPUArch:    "x64",
		Timestamp:  time.Date(2024, 6, 1, 12, 30, 45, 0, time.UTC),
		Status:     types.InstallStatusSuccess,
	}, *res.Record)

	runner.AssertExpectations(t)
	store.AssertExpectations(t)
}

func TestInstall_StepFailureIsRecorded(t *testing.T) {
	runner := new(testutil.MockRunner)
	runner.On("Run", mock.Anything, testutil.Script("echo one")).Return(&shell.ExitError{Code: 7}).Once()

	store := new(testutil.MockStore)
	store.On("Append", mock.MatchedBy(func(rec types.InstallRecord) bool {
		return rec.Status == types.InstallStatusFailed
	})).Return(nil).Once()

	res, err := Install(context.Background(), InstallOptions{
		PlanOptions: PlanOptions{ManifestPath: writeManifest(t, manifestJSON), Detect: hostWithRAM(8)},
		Executor:    executor.Options{Runner: runner},
		History:     store,
		Now:         fixedNow,
	})
	require.Error(t, err)

	var sf *executor.StepFailedError
	require.True(t, stderrors.As(err, &sf))
	assert.Equal(t, 0, sf.Index)
	assert.Same(t, res.ExecErr, err)
	assert.Equal(t, 0, res.Result.CompletedSteps)

	runner.AssertNotCalled(t, "Run", mock.Anything, testutil.Script("echo two"))
	store.AssertExpectations(t)
}

func TestInstall_HistoryFailureIsIgnored(t *testing.T) {
	runner := new(testutil.MockRunner)
	runner.On("Run", mock.Anything, mock.Anything).Return(nil)

	store := new(testutil.MockStore)
	store.On("Append", mock.Anything).
		Return(errors.New(errors.ErrHistoryWrite, "disk full")).Once()

	res, err := Install(context.Background(), InstallOptions{
		PlanOptions: PlanOptions{ManifestPath: writeManifest(t, manifestJSON), Detect: hostWithRAM(8)},
		Executor:    executor.Options{Runner: runner},
		History:     store,
	})
	require.NoError(t, err)
	assert.True(t, res.Result.Succeeded())
	store.AssertExpectations(t)
}

func TestInstall_PlanningFailureRecordsNothing(t *testing.T) {
	store := new(testutil.MockStore)

	res, err := Install(context.Background(), InstallOptions{
		PlanOptions: PlanOptions{
			ManifestPath: writeManifest(t, manifestJSON),
			Detect: func(context.Context) (types.Environment, error) {
				return types.Environment{OS: "windows", CPUArch: "x64"}, nil
			},
		},
		History: store,
	})
	require.Error(t, err)
	assert.True(t, errors.IsErrorCode(err, errors.ErrNoCompatibleMode))
	assert.Nil(t, res)
	store.AssertNotCalled(t, "Append", mock.Anything)
}

func TestInstall_DryRun(t *testing.T) {
	runner := new(testutil.MockRunner)
	store := new(testutil.MockStore)

	res, err := Install(context.Background(), InstallOptions{
		PlanOptions: PlanOptions{ManifestPath: writeManifest(t, manifestJSON), Detect: hostWithRAM(8)},
		Executor:    executor.Options{Runner: runner},
		History:     store,
		DryRun:      true,
	})
	require.NoError(t, err)
	assert.Nil(t, res.Record)
	assert.Len(t, res.Plan.Plan.Steps, 2)
	runner.AssertNotCalled(t, "Run", mock.Anything, mock.Anything)
	store.AssertNotCalled(t, "Append", mock.Anything)
}
