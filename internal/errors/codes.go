// Package errors provides structured error handling for envcheck.
//
// Error codes follow the pattern ERR_XXX_DESCRIPTION where:
//   - 1XX: Configuration errors
//   - 2XX: IO errors (data files, notebook)
//   - 3XX: External tool errors (python, jupyter, uv)
//   - 4XX: Validation errors (packages, versions, document structure)
//   - 5XX: Engine and internal errors
package errors

// Category defines error categories for classification.
type Category string

const (
	// CategoryConfig indicates configuration-related errors.
	CategoryConfig Category = "CONFIG"
	// CategoryIO indicates file I/O errors.
	CategoryIO Category = "IO"
	// CategoryTool indicates an external command could not be run or failed.
	CategoryTool Category = "TOOL"
	// CategoryValidation indicates the environment did not meet a requirement.
	CategoryValidation Category = "VALIDATION"
	// CategoryInternal indicates engine or unexpected internal errors.
	CategoryInternal Category = "INTERNAL"
)

// Error codes organized by category.
const (
	// Config errors (100-199)
	ErrCodeConfigNotFound = "ERR_101_CONFIG_NOT_FOUND"
	ErrCodeConfigInvalid  = "ERR_102_CONFIG_INVALID"

	// IO errors (200-299)
	ErrCodeDataFileMissing    = "ERR_201_DATA_FILE_MISSING"
	ErrCodeNotebookMissing    = "ERR_202_NOTEBOOK_MISSING"
	ErrCodeNotebookUnreadable = "ERR_203_NOTEBOOK_UNREADABLE"

	// Tool errors (300-399)
	ErrCodeToolNotFound = "ERR_301_TOOL_NOT_FOUND"
	ErrCodeToolTimeout  = "ERR_302_TOOL_TIMEOUT"
	ErrCodeToolFailed   = "ERR_303_TOOL_FAILED"

	// Validation errors (400-499)
	ErrCodePackageMissing    = "ERR_401_PACKAGE_MISSING"
	ErrCodeVersionUnparsable = "ERR_402_VERSION_UNPARSABLE"
	ErrCodeVersionTooOld     = "ERR_403_VERSION_TOO_OLD"
	ErrCodeNotebookInvalid   = "ERR_404_NOTEBOOK_INVALID"

	// Engine and internal errors (500-599)
	ErrCodeInternal     = "ERR_501_INTERNAL"
	ErrCodeEngineOpen   = "ERR_502_ENGINE_OPEN"
	ErrCodeEngineQuery  = "ERR_503_ENGINE_QUERY"
	ErrCodeLaunchFailed = "ERR_504_LAUNCH_FAILED"
)

// categoryFromCode extracts category from error code.
func categoryFromCode(code string) Category {
	if len(code) < 7 {
		return CategoryInternal
	}

	// "101" from "ERR_101_CONFIG_NOT_FOUND"
	switch code[4] {
	case '1':
		return CategoryConfig
	case '2':
		return CategoryIO
	case '3':
		return CategoryTool
	case '4':
		return CategoryValidation
	default:
		return CategoryInternal
	}
}
