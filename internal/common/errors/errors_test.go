package errors

import (
	stderrors "errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew_RetryableFollowsCode(t *testing.T) {
	assert.True(t, NewPersistFailedError(stderrors.New("db down")).Retryable)
	assert.True(t, NewChatTimeoutError().Retryable)
	assert.False(t, NewValidationError("no skills").Retryable)
	assert.False(t, NewDuplicateSubmissionError("s-1").Retryable)
}

func TestGetRetryCount(t *testing.T) {
	tests := []struct {
		code     ErrorCode
		expected int
	}{
		{ErrCodePersistFailed, 3},
		{ErrCodeQueryExecutionFailed, 3},
		{ErrCodeSearchTimeout, 2},
		{ErrCodeChatTimeout, 1},
		{ErrCodeStepGuardNotMet, 0},
		{ErrCodeInvalidQueryType, 0},
	}

	for _, tt := range tests {
		t.Run(string(tt.code), func(t *testing.T) {
			assert.Equal(t, tt.expected, GetRetryCount(tt.code))
		})
	}
}

func TestConvertToBPMNError(t *testing.T) {
	stdErr := NewQueryExecutionFailedError("career_paths", stderrors.New("syntax error"))

	bpmnErr := ConvertToBPMNError(stdErr)
	assert.Equal(t, "QUERY_EXECUTION_FAILED", bpmnErr.Code)
	assert.Equal(t, 3, bpmnErr.Retries)
	assert.Equal(t, "syntax error", bpmnErr.Details)

	vars := bpmnErr.ToErrorVariables()
	assert.Equal(t, "QUERY_EXECUTION_FAILED", vars["errorCode"])
	assert.Equal(t, "career_paths", vars["queryType"])
	assert.Equal(t, "QUERY_EXECUTION_FAILED", vars["originalErrorCode"])
	assert.Equal(t, true, vars["retryable"])
}

func TestConvertToBPMNError_NonRetryable(t *testing.T) {
	stdErr := NewPersistFailedError(stderrors.New("x"))
	stdErr.Retryable = false

	assert.Equal(t, 0, ConvertToBPMNError(stdErr).Retries)
}

func TestAsStandard(t *testing.T) {
	orig := NewSessionNotFoundError("s-1")
	wrapped := fmt.Errorf("loading session: %w", orig)

	got := AsStandard(wrapped)
	require.NotNil(t, got)
	assert.Equal(t, ErrCodeSessionNotFound, got.Code)

	internal := AsStandard(stderrors.New("nil pointer"))
	assert.Equal(t, ErrCodeInternal, internal.Code)
	assert.Equal(t, "nil pointer", internal.Details)
	assert.False(t, internal.Retryable)
}

func TestGetErrorCategory(t *testing.T) {
	assert.Equal(t, "ASSESSMENT", GetErrorCategory(ErrCodePersistFailed))
	assert.Equal(t, "ASSESSMENT", GetErrorCategory(ErrCodeDuplicateSubmission))
	assert.Equal(t, "DATABASE", GetErrorCategory(ErrCodeQueryTimeout))
	assert.Equal(t, "SEARCH", GetErrorCategory(ErrCodeIndexNotFound))
	assert.Equal(t, "CHAT", GetErrorCategory(ErrCodeChatFailed))
	assert.Equal(t, "VALIDATION", GetErrorCategory(ErrCodeInvalidInput))
	assert.Equal(t, "OTHER", GetErrorCategory(ErrCodeInternal))
}

func TestRemainingRetries(t *testing.T) {
	assert.Equal(t, int32(2), remainingRetries(3, 3))
	assert.Equal(t, int32(1), remainingRetries(5, 1))
	assert.Equal(t, int32(0), remainingRetries(0, 3))
}
