package errors

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCheckError_Unwrap_PreservesOriginalError(t *testing.T) {
	// Given: an original error
	originalErr := errors.New("stat data/projects.csv: no such file or directory")

	// When: wrapping with CheckError
	checkErr := New(ErrCodeDataFileMissing, "missing data file: data/projects.csv", originalErr)

	// Then: unwrapping returns original error
	require.NotNil(t, checkErr)
	assert.Equal(t, originalErr, errors.Unwrap(checkErr))
	assert.True(t, errors.Is(checkErr, originalErr))
}

func TestCheckError_Error_ReturnsFormattedMessage(t *testing.T) {
	tests := []struct {
		name     string
		code     string
		message  string
		expected string
	}{
		{
			name:     "config error",
			code:     ErrCodeConfigNotFound,
			message:  "config file not found",
			expected: "[ERR_101_CONFIG_NOT_FOUND] config file not found",
		},
		{
			name:     "data file error",
			code:     ErrCodeDataFileMissing,
			message:  "data/plans.csv missing",
			expected: "[ERR_201_DATA_FILE_MISSING] data/plans.csv missing",
		},
		{
			name:     "tool error",
			code:     ErrCodeToolTimeout,
			message:  "jupyter timed out",
			expected: "[ERR_302_TOOL_TIMEOUT] jupyter timed out",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := New(tt.code, tt.message, nil)
			assert.Equal(t, tt.expected, err.Error())
		})
	}
}

func TestCheckError_Is_MatchesByCode(t *testing.T) {
	// Given: two errors with same code
	err1 := New(ErrCodePackageMissing, "pandas missing", nil)
	err2 := New(ErrCodePackageMissing, "duckdb missing", nil)

	// Then: they match by code, different codes do not
	assert.True(t, errors.Is(err1, err2))
	assert.False(t, errors.Is(err1, New(ErrCodeVersionTooOld, "old", nil)))
}

func TestCheckError_WithDetailAndSuggestion(t *testing.T) {
	// Given: a base error
	err := New(ErrCodeVersionTooOld, "DuckDB version too old (need 1.2+)", nil)

	// When: adding context
	err = err.WithDetail("found", "1.1.3").WithSuggestion("uv pip install duckdb --upgrade")

	// Then: both are available
	assert.Equal(t, "1.1.3", err.Details["found"])
	assert.Equal(t, "uv pip install duckdb --upgrade", err.Suggestion)
}

func TestCheckError_CategoryFromCode(t *testing.T) {
	tests := []struct {
		code         string
		wantCategory Category
	}{
		{ErrCodeConfigNotFound, CategoryConfig},
		{ErrCodeConfigInvalid, CategoryConfig},
		{ErrCodeDataFileMissing, CategoryIO},
		{ErrCodeNotebookUnreadable, CategoryIO},
		{ErrCodeToolNotFound, CategoryTool},
		{ErrCodeToolFailed, CategoryTool},
		{ErrCodePackageMissing, CategoryValidation},
		{ErrCodeNotebookInvalid, CategoryValidation},
		{ErrCodeEngineQuery, CategoryInternal},
		{"bogus", CategoryInternal},
	}

	for _, tt := range tests {
		t.Run(tt.code, func(t *testing.T) {
			err := New(tt.code, "test message", nil)
			assert.Equal(t, tt.wantCategory, err.Category)
		})
	}
}

func TestWrap_NilReturnsNil(t *testing.T) {
	assert.Nil(t, Wrap(ErrCodeInternal, nil))
}

func TestGetCode_FindsWrappedCheckError(t *testing.T) {
	// Given: a CheckError wrapped by fmt.Errorf
	inner := New(ErrCodeEngineOpen, "open failed", nil).WithSuggestion("reinstall")
	outer := fmt.Errorf("integration: %w", inner)

	// Then: helpers look through the chain
	assert.Equal(t, ErrCodeEngineOpen, GetCode(outer))
	assert.Equal(t, CategoryInternal, GetCategory(outer))
	assert.Equal(t, "reinstall", Suggestion(outer))

	// And: plain errors yield zero values
	assert.Empty(t, GetCode(errors.New("plain")))
	assert.Empty(t, Suggestion(nil))
}
