package errors

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestErrorType_Constants(t *testing.T) {
	tests := []struct {
		name     string
		errType  ErrorType
		expected string
	}{
		{name: "config error type", errType: ErrTypeConfig, expected: "CONFIG"},
		{name: "source error type", errType: ErrTypeSource, expected: "SOURCE"},
		{name: "schema error type", errType: ErrTypeSchema, expected: "SCHEMA"},
		{name: "parsing error type", errType: ErrTypeParsing, expected: "PARSING"},
		{name: "validation error type", errType: ErrTypeValidation, expected: "VALIDATION"},
		{name: "export error type", errType: ErrTypeExport, expected: "EXPORT"},
		{name: "not found error type", errType: ErrTypeNotFound, expected: "NOT_FOUND"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, string(tt.errType))
		})
	}
}

func TestAppError_Error(t *testing.T) {
	tests := []struct {
		name        string
		appError    *AppError
		wantMessage string
	}{
		{
			name: "error without cause",
			appError: &AppError{
				Type:    ErrTypeSchema,
				Message: "column SALEPRICE missing",
			},
			wantMessage: "[SCHEMA] column SALEPRICE missing",
		},
		{
			name: "error with cause",
			appError: &AppError{
				Type:    ErrTypeSource,
				Message: "open 2018_manhattan.xlsx",
				Cause:   fmt.Errorf("no such file or directory"),
			},
			wantMessage: "[SOURCE] open 2018_manhattan.xlsx: no such file or directory",
		},
		{
			name: "error with context and cause",
			appError: NewSourceError("failed to open workbook", fmt.Errorf("zip: not a valid zip file")).
				WithContext("year", 2020).
				WithContext("borough", "brooklyn").
				WithContext("path", "data/2020_brooklyn.xlsx"),
			wantMessage: "[SOURCE] failed to open workbook (borough=brooklyn path=data/2020_brooklyn.xlsx year=2020): zip: not a valid zip file",
		},
		{
			name:        "error with context only",
			appError:    NewSchemaError("header does not match", nil).WithContext("header_row", 6),
			wantMessage: "[SCHEMA] header does not match (header_row=6)",
		},
		{
			name: "error with empty message",
			appError: &AppError{
				Type: ErrTypeValidation,
			},
			wantMessage: "[VALIDATION] ",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.wantMessage, tt.appError.Error())
		})
	}
}

func TestAppError_Unwrap(t *testing.T) {
	cause := errors.New("zip: not a valid zip file")
	appErr := NewSourceError("read workbook", cause)

	assert.Same(t, cause, appErr.Unwrap())
	assert.True(t, errors.Is(appErr, cause))
	assert.Nil(t, NewValidationError("bad", nil).Unwrap())
}

func TestAppError_WithContext(t *testing.T) {
	appErr := &AppError{Type: ErrTypeSource, Message: "missing file"}

	result := appErr.WithContext("year", 2019).WithContext("borough", "queens")

	assert.Same(t, appErr, result)
	require.Len(t, result.Context, 2)
	assert.Equal(t, 2019, result.Context["year"])
	assert.Equal(t, "borough=queens year=2019", result.Detail())
}

func TestAppError_Detail_Empty(t *testing.T) {
	assert.Equal(t, "", NewConfigError("bad config", nil).Detail())
}

func TestIsType(t *testing.T) {
	schemaErr := NewSchemaError("header row out of range", nil)
	wrapped := fmt.Errorf("load 2020_brooklyn: %w", schemaErr)

	assert.True(t, IsType(wrapped, ErrTypeSchema))
	assert.False(t, IsType(wrapped, ErrTypeSource))
	assert.False(t, IsType(errors.New("plain"), ErrTypeSchema))
	assert.False(t, IsType(nil, ErrTypeSchema))
}

func TestConstructors(t *testing.T) {
	cause := errors.New("boom")
	tests := []struct {
		name     string
		got      *AppError
		wantType ErrorType
	}{
		{name: "config", got: NewConfigError("m", cause), wantType: ErrTypeConfig},
		{name: "source", got: NewSourceError("m", cause), wantType: ErrTypeSource},
		{name: "schema", got: NewSchemaError("m", cause), wantType: ErrTypeSchema},
		{name: "parsing", got: NewParsingError("m", cause), wantType: ErrTypeParsing},
		{name: "validation", got: NewValidationError("m", cause), wantType: ErrTypeValidation},
		{name: "export", got: NewExportError("m", cause), wantType: ErrTypeExport},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.wantType, tt.got.Type)
			assert.Equal(t, "m", tt.got.Message)
			assert.Equal(t, cause, tt.got.Cause)
			assert.NotNil(t, tt.got.Context)
		})
	}

	notFound := NewNotFoundError("2021_queens.xlsx")
	assert.Equal(t, ErrTypeNotFound, notFound.Type)
	assert.Equal(t, "2021_queens.xlsx not found", notFound.Message)
}
