// Package errors provides the standardized error taxonomy for the voice core.
package errors

import (
	"fmt"
	"strings"
	"time"
)

// ErrorCode represents standardized internal error codes.
type ErrorCode string

const (
	// Configuration errors: fatal at startup.
	ErrCodeCatalogNotFound     ErrorCode = "CATALOG_NOT_FOUND"
	ErrCodeCatalogInvalid      ErrorCode = "CATALOG_INVALID"
	ErrCodeConfigInvalid       ErrorCode = "CONFIG_INVALID"

	// Model-unavailable conditions: always recoverable, degrade to fallback.
	ErrCodeModelRuntimeMissing ErrorCode = "MODEL_RUNTIME_MISSING"
	ErrCodeModelAssetsMissing  ErrorCode = "MODEL_ASSETS_MISSING"
	ErrCodeModelInferenceFail  ErrorCode = "MODEL_INFERENCE_FAILED"
	ErrCodeTokenizerFailed     ErrorCode = "TOKENIZER_FAILED"

	// Knowledge errors: recoverable, degrade to fuzzy fallback or "no knowledge".
	ErrCodeKnowledgeNotFound   ErrorCode = "KNOWLEDGE_NOT_FOUND"
	ErrCodeKnowledgeParse      ErrorCode = "KNOWLEDGE_PARSE_FAILED"
	ErrCodeEmbeddingFailed     ErrorCode = "EMBEDDING_FAILED"
	ErrCodeIndexBuildFailed    ErrorCode = "INDEX_BUILD_FAILED"

	// Session errors.
	ErrCodeSessionMirrorFailed ErrorCode = "SESSION_MIRROR_FAILED"
)

// StandardError represents a structured application error.
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

// NewCatalogNotFoundError creates a fatal catalog lookup error.
func NewCatalogNotFoundError(path string) *StandardError {
	return &StandardError{
		Code:      ErrCodeCatalogNotFound,
		Message:   "Intent catalog file not found",
		Details:   fmt.Sprintf("path: %s", path),
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewCatalogInvalidError creates a fatal catalog schema error.
func NewCatalogInvalidError(details string) *StandardError {
	return &StandardError{
		Code:      ErrCodeCatalogInvalid,
		Message:   "Intent catalog failed schema validation",
		Details:   details,
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewConfigInvalidError creates a fatal configuration error.
func NewConfigInvalidError(details string) *StandardError {
	return &StandardError{
		Code:      ErrCodeConfigInvalid,
		Message:   "Invalid voice core configuration",
		Details:   details,
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewModelRuntimeMissingError records an absent inference runtime.
func NewModelRuntimeMissingError(err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeModelRuntimeMissing,
		Message:   "ONNX runtime unavailable, using keyword fallback",
		Details:   err.Error(),
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewModelAssetsMissingError records missing model files.
func NewModelAssetsMissingError(asset string) *StandardError {
	return &StandardError{
		Code:      ErrCodeModelAssetsMissing,
		Message:   "Model asset missing, using keyword fallback",
		Details:   fmt.Sprintf("asset: %s", asset),
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewModelInferenceError records a per-call inference failure.
func NewModelInferenceError(err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeModelInferenceFail,
		Message:   "Model inference failed",
		Details:   err.Error(),
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}

// NewTokenizerError records a tokenizer load or encode failure.
func NewTokenizerError(err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeTokenizerFailed,
		Message:   "Tokenizer failed",
		Details:   err.Error(),
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewKnowledgeNotFoundError records a missing knowledge records file.
func NewKnowledgeNotFoundError(path string) *StandardError {
	return &StandardError{
		Code:      ErrCodeKnowledgeNotFound,
		Message:   "Knowledge records file not found",
		Details:   fmt.Sprintf("path: %s", path),
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewKnowledgeParseError records an unreadable knowledge records file.
func NewKnowledgeParseError(err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeKnowledgeParse,
		Message:   "Knowledge records file could not be parsed",
		Details:   err.Error(),
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewEmbeddingFailedError records a per-query embedding failure.
func NewEmbeddingFailedError(err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeEmbeddingFailed,
		Message:   "Question embedding failed, using fuzzy fallback",
		Details:   err.Error(),
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}

// NewIndexBuildFailedError records a semantic index construction failure.
func NewIndexBuildFailedError(err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeIndexBuildFailed,
		Message:   "Semantic index build failed, using fuzzy fallback",
		Details:   err.Error(),
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewSessionMirrorError records a session mirror write failure.
func NewSessionMirrorError(sessionID string, err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeSessionMirrorFailed,
		Message:   "Session mirror write failed",
		Details:   fmt.Sprintf("sessionId: %s, error: %s", sessionID, err.Error()),
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}

// IsFatal reports whether an error code must abort initialization.
func IsFatal(code ErrorCode) bool {
	switch code {
	case ErrCodeCatalogNotFound, ErrCodeCatalogInvalid, ErrCodeConfigInvalid:
		return true
	default:
		return false
	}
}

// GetErrorCategory returns the category of the error code.
func GetErrorCategory(code ErrorCode) string {
	codeStr := string(code)
	switch {
	case strings.Contains(codeStr, "CATALOG") || strings.Contains(codeStr, "CONFIG"):
		return "CONFIGURATION"
	case strings.Contains(codeStr, "MODEL") || strings.Contains(codeStr, "TOKENIZER"):
		return "MODEL"
	case strings.Contains(codeStr, "KNOWLEDGE") || strings.Contains(codeStr, "EMBEDDING") || strings.Contains(codeStr, "INDEX"):
		return "KNOWLEDGE"
	case strings.Contains(codeStr, "SESSION"):
		return "SESSION"
	default:
		return "OTHER"
	}
}
