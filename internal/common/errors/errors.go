// internal/common/errors/errors.go
package errors

import (
	stderrors "errors"
	"fmt"
	"strings"
	"time"
)

type ErrorCode string

const (
	ErrCodeInvalidInput        ErrorCode = "INVALID_INPUT"
	ErrCodeValidationFailed    ErrorCode = "ASSESSMENT_VALIDATION_FAILED"
	ErrCodeStepGuardNotMet     ErrorCode = "STEP_GUARD_NOT_MET"
	ErrCodeSessionNotFound     ErrorCode = "ASSESSMENT_SESSION_NOT_FOUND"
	ErrCodeDuplicateSubmission ErrorCode = "DUPLICATE_SUBMISSION"
	ErrCodeAssessmentNotFound  ErrorCode = "ASSESSMENT_NOT_FOUND"
	ErrCodeCareerNotFound      ErrorCode = "CAREER_NOT_FOUND"
	ErrCodePersistFailed       ErrorCode = "ASSESSMENT_PERSIST_FAILED"
	ErrCodeSessionStoreFailed  ErrorCode = "SESSION_STORE_FAILED"

	ErrCodeDatabaseConnectionFailed ErrorCode = "DATABASE_CONNECTION_FAILED"
	ErrCodeQueryExecutionFailed     ErrorCode = "QUERY_EXECUTION_FAILED"
	ErrCodeQueryTimeout             ErrorCode = "QUERY_TIMEOUT"
	ErrCodeInvalidQueryType         ErrorCode = "INVALID_QUERY_TYPE"

	ErrCodeSearchQueryFailed   ErrorCode = "SEARCH_QUERY_FAILED"
	ErrCodeSearchTimeout       ErrorCode = "SEARCH_TIMEOUT"
	ErrCodeIndexNotFound       ErrorCode = "INDEX_NOT_FOUND"
	ErrCodeInvalidFilterFormat ErrorCode = "INVALID_FILTER_FORMAT"

	ErrCodeNotificationSendFailed ErrorCode = "NOTIFICATION_SEND_FAILED"

	ErrCodeChatTimeout ErrorCode = "CHAT_TIMEOUT"
	ErrCodeChatFailed  ErrorCode = "CHAT_FAILED"

	ErrCodeInternal ErrorCode = "INTERNAL_ERROR"
)

type StandardError struct {
	Code      ErrorCode              `json:"code"`
	Message   string                 `json:"message"`
	Details   string                 `json:"details,omitempty"`
	Retryable bool                   `json:"retryable"`
	Metadata  map[string]interface{} `json:"metadata,omitempty"`
	Timestamp time.Time              `json:"timestamp"`
}

func (e *StandardError) Error() string {
	return fmt.Sprintf("StandardError[%s]: %s", e.Code, e.Message)
}

// WithMetadata adds a key that is forwarded to the process as an error variable.
func (e *StandardError) WithMetadata(key string, value interface{}) *StandardError {
	if e.Metadata == nil {
		e.Metadata = map[string]interface{}{}
	}
	e.Metadata[key] = value
	return e
}

type BPMNError struct {
	Code           string                 `json:"code"`
	Message        string                 `json:"message"`
	Details        string                 `json:"details,omitempty"`
	Retryable      bool                   `json:"retryable"`
	Retries        int                    `json:"retries"`
	ErrorVariables map[string]interface{} `json:"errorVariables,omitempty"`
}

func (e *BPMNError) Error() string {
	return fmt.Sprintf("BPMNError[%s]: %s", e.Code, e.Message)
}

func (e *BPMNError) ToErrorVariables() map[string]interface{} {
	vars := map[string]interface{}{
		"errorCode":    e.Code,
		"errorMessage": e.Message,
		"errorDetails": e.Details,
		"retryable":    e.Retryable,
	}
	for k, v := range e.ErrorVariables {
		vars[k] = v
	}
	return vars
}

// New builds a StandardError whose retryability follows the code's retry budget.
func New(code ErrorCode, message, details string) *StandardError {
	return &StandardError{
		Code:      code,
		Message:   message,
		Details:   details,
		Retryable: IsRetryableErrorCode(code),
		Timestamp: time.Now().UTC(),
	}
}

func errDetails(err error) string {
	if err == nil {
		return ""
	}
	return err.Error()
}

func NewInvalidInputError(details string) *StandardError {
	return New(ErrCodeInvalidInput, "Invalid job input", details)
}

func NewValidationError(details string) *StandardError {
	return New(ErrCodeValidationFailed, "Assessment validation failed", details)
}

func NewStepGuardError(step string) *StandardError {
	return New(ErrCodeStepGuardNotMet, "Current step is not complete", step)
}

func NewSessionNotFoundError(sessionID string) *StandardError {
	return New(ErrCodeSessionNotFound, "Assessment session not found", sessionID)
}

func NewDuplicateSubmissionError(sessionID string) *StandardError {
	return New(ErrCodeDuplicateSubmission, "Assessment already submitted or in flight", sessionID)
}

func NewAssessmentNotFoundError(details string) *StandardError {
	return New(ErrCodeAssessmentNotFound, "No assessment found", details)
}

func NewCareerNotFoundError(careerID string) *StandardError {
	return New(ErrCodeCareerNotFound, "Career path not found", careerID)
}

func NewPersistFailedError(err error) *StandardError {
	return New(ErrCodePersistFailed, "Failed to save assessment", errDetails(err))
}

func NewSessionStoreFailedError(err error) *StandardError {
	return New(ErrCodeSessionStoreFailed, "Session store unavailable", errDetails(err))
}

func NewDatabaseConnectionFailedError(err error) *StandardError {
	return New(ErrCodeDatabaseConnectionFailed, "Database connection failed", errDetails(err))
}

func NewQueryExecutionFailedError(queryType string, err error) *StandardError {
	return New(ErrCodeQueryExecutionFailed, "Query execution failed", errDetails(err)).
		WithMetadata("queryType", queryType)
}

func NewQueryTimeoutError(queryType string) *StandardError {
	return New(ErrCodeQueryTimeout, "Query timed out", queryType)
}

func NewInvalidQueryTypeError(queryType string) *StandardError {
	return New(ErrCodeInvalidQueryType, "Unknown query type", queryType)
}

func NewSearchQueryFailedError(index string, err error) *StandardError {
	return New(ErrCodeSearchQueryFailed, "Search query failed", errDetails(err)).
		WithMetadata("index", index)
}

func NewSearchTimeoutError(index string) *StandardError {
	return New(ErrCodeSearchTimeout, "Search timed out", index)
}

func NewIndexNotFoundError(index string) *StandardError {
	return New(ErrCodeIndexNotFound, "Search index not found", index)
}

func NewInvalidFilterFormatError(details string) *StandardError {
	return New(ErrCodeInvalidFilterFormat, "Invalid filter format", details)
}

func NewNotificationSendFailedError(channel string, err error) *StandardError {
	return New(ErrCodeNotificationSendFailed, "Notification delivery failed", errDetails(err)).
		WithMetadata("channel", channel)
}

func NewChatTimeoutError() *StandardError {
	return New(ErrCodeChatTimeout, "Chat gateway timed out", "")
}

func NewChatFailedError(err error) *StandardError {
	return New(ErrCodeChatFailed, "Chat completion failed", errDetails(err))
}

func NewInternalError(err error) *StandardError {
	return New(ErrCodeInternal, "Unexpected error", errDetails(err))
}

// GetRetryCount is the retry budget for a code. Zero means the error is a
// business outcome and is thrown to the process instead of retried.
func GetRetryCount(code ErrorCode) int {
	switch code {
	case ErrCodePersistFailed,
		ErrCodeSessionStoreFailed,
		ErrCodeDatabaseConnectionFailed,
		ErrCodeQueryExecutionFailed,
		ErrCodeSearchQueryFailed,
		ErrCodeNotificationSendFailed,
		ErrCodeChatFailed:
		return 3
	case ErrCodeQueryTimeout,
		ErrCodeSearchTimeout:
		return 2
	case ErrCodeChatTimeout:
		return 1
	default:
		return 0
	}
}

func IsRetryableErrorCode(code ErrorCode) bool {
	return GetRetryCount(code) > 0
}

func ConvertToBPMNError(stdErr *StandardError) *BPMNError {
	retries := GetRetryCount(stdErr.Code)
	if !stdErr.Retryable {
		retries = 0
	}

	vars := map[string]interface{}{
		"originalErrorCode": string(stdErr.Code),
		"timestamp":         stdErr.Timestamp.Format(time.RFC3339),
	}
	for k, v := range stdErr.Metadata {
		vars[k] = v
	}

	return &BPMNError{
		Code:           string(stdErr.Code),
		Message:        stdErr.Message,
		Details:        stdErr.Details,
		Retryable:      stdErr.Retryable,
		Retries:        retries,
		ErrorVariables: vars,
	}
}

func GetErrorCategory(code ErrorCode) string {
	codeStr := string(code)
	switch {
	case strings.Contains(codeStr, "ASSESSMENT") || strings.Contains(codeStr, "STEP") || strings.Contains(codeStr, "SUBMISSION"):
		return "ASSESSMENT"
	case strings.Contains(codeStr, "DATABASE") || strings.Contains(codeStr, "QUERY"):
		return "DATABASE"
	case strings.Contains(codeStr, "SEARCH") || strings.Contains(codeStr, "INDEX") || strings.Contains(codeStr, "FILTER"):
		return "SEARCH"
	case strings.Contains(codeStr, "NOTIFICATION"):
		return "NOTIFICATION"
	case strings.Contains(codeStr, "CHAT"):
		return "CHAT"
	case strings.Contains(codeStr, "INVALID"):
		return "VALIDATION"
	default:
		return "OTHER"
	}
}

// AsStandard unwraps err to a StandardError, wrapping unknown errors as internal.
func AsStandard(err error) *StandardError {
	var stdErr *StandardError
	if stderrors.As(err, &stdErr) {
		return stdErr
	}
	return NewInternalError(err)
}
