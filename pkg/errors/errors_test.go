// pkg/errors/errors_test.go
// TEST TYPE: Unit Test
// DEPENDENCIES: None
// PURPOSE: Test error creation, wrapping, code lookup and exit code mapping

package errors_test

import (
	stderrors "errors"
	"fmt"
	"testing"

	"github.com/arthur-debert/enzyme/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew(t *testing.T) {
	tests := []struct {
		name    string
		code    errors.ErrorCode
		message string
		wantStr string
	}{
		{
			name:    "not_found_error",
			code:    errors.ErrNotFound,
			message: "manifest not found",
			wantStr: "[NOT_FOUND] manifest not found",
		},
		{
			name:    "invalid_manifest",
			code:    errors.ErrManifestInvalid,
			message: "manifest has no modes defined",
			wantStr: "[MANIFEST_INVALID] manifest has no modes defined",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := errors.New(tt.code, tt.message)

			assert.Equal(t, tt.code, err.Code)
			assert.Equal(t, tt.message, err.Message)
			assert.NotNil(t, err.Details)
			assert.Equal(t, tt.wantStr, err.Error())
		})
	}
}

func TestNewf(t *testing.T) {
	err := errors.Newf(errors.ErrStepFailed, "step %d failed: %s", 2, "exit status 1")
	assert.Equal(t, "step 2 failed: exit status 1", err.Message)
}

func TestWrap(t *testing.T) {
	baseErr := stderrors.New("base error")

	t.Run("wrap_non_nil_error", func(t *testing.T) {
		err := errors.Wrap(baseErr, errors.ErrHistoryWrite, "committing history")

		assert.Equal(t, errors.ErrHistoryWrite, err.Code)
		assert.Same(t, baseErr, err.Wrapped)
		assert.Equal(t, "[HISTORY_WRITE] committing history: base error", err.Error())
		assert.True(t, stderrors.Is(err, baseErr))
	})

	t.Run("wrap_nil_error_returns_nil", func(t *testing.T) {
		assert.Nil(t, errors.Wrap(nil, errors.ErrInternal, "internal error"))
		assert.Nil(t, errors.Wrapf(nil, errors.ErrInternal, "internal %s", "error"))
	})
}

func TestWithDetails(t *testing.T) {
	err := errors.New(errors.ErrManifestRead, "cannot read manifest").
		WithDetail("path", "/tmp/manifest.json").
		WithDetails(map[string]interface{}{"size": 12})

	assert.Equal(t, "/tmp/manifest.json", err.Details["path"])
	assert.Equal(t, 12, err.Details["size"])
	assert.Equal(t, err.Details, errors.GetErrorDetails(err))
	assert.Nil(t, errors.GetErrorDetails(stderrors.New("plain")))
}

func TestIs(t *testing.T) {
	err1 := errors.New(errors.ErrStepFailed, "step 1")
	err2 := errors.New(errors.ErrStepFailed, "step 2")
	err3 := errors.New(errors.ErrNoCompatibleMode, "nothing matched")

	assert.True(t, err1.Is(err2))
	assert.False(t, err1.Is(err3))
	assert.True(t, stderrors.Is(err1, err2))
}

func TestIsErrorCode(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		code     errors.ErrorCode
		expected bool
	}{
		{
			name:     "matching_code",
			err:      errors.New(errors.ErrNotFound, "not found"),
			code:     errors.ErrNotFound,
			expected: true,
		},
		{
			name:     "different_code",
			err:      errors.New(errors.ErrNotFound, "not found"),
			code:     errors.ErrInternal,
			expected: false,
		},
		{
			name:     "inner_code_in_chain",
			err:      errors.Wrap(errors.New(errors.ErrHistoryLock, "locked"), errors.ErrHistoryWrite, "append"),
			code:     errors.ErrHistoryLock,
			expected: true,
		},
		{
			name:     "wrapped_by_fmt",
			err:      fmt.Errorf("context: %w", errors.New(errors.ErrStepFailed, "boom")),
			code:     errors.ErrStepFailed,
			expected: true,
		},
		{
			name:     "standard_error",
			err:      stderrors.New("standard error"),
			code:     errors.ErrNotFound,
			expected: false,
		},
		{
			name:     "nil_error",
			err:      nil,
			code:     errors.ErrNotFound,
			expected: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, errors.IsErrorCode(tt.err, tt.code))
		})
	}
}

func TestGetErrorCode(t *testing.T) {
	assert.Equal(t, errors.ErrHistoryParse, errors.GetErrorCode(errors.New(errors.ErrHistoryParse, "bad json")))
	assert.Equal(t, errors.ErrUnknown, errors.GetErrorCode(stderrors.New("standard error")))
	assert.Equal(t, errors.ErrUnknown, errors.GetErrorCode(nil))
}

func TestExitCode(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"success", nil, 0},
		{"no_compatible_mode", errors.New(errors.ErrNoCompatibleMode, "none"), 2},
		{"step_failed", errors.New(errors.ErrStepFailed, "step 1"), 3},
		{"manifest_invalid", errors.New(errors.ErrManifestInvalid, "empty"), 4},
		{"manifest_parse", errors.New(errors.ErrManifestParse, "syntax"), 4},
		{"other", stderrors.New("boom"), 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Equal(t, tt.want, errors.ExitCode(tt.err))
		})
	}
}
