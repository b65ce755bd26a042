package ai

import (
	"errors"
	"fmt"

	"quickai-backend/internal/credits"
)

// ErrPersistence marks a failure writing the creation record. The credit is
// not consumed when this happens.
var ErrPersistence = errors.New("failed to save creation")

// NoCreditsError reports an exhausted balance for one capability.
type NoCreditsError struct {
	Capability credits.Capability
}

func (e *NoCreditsError) Error() string {
	return noCreditsMessage(e.Capability)
}

// ValidationError reports rejected input, detected before any provider call.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string { return e.Message }

// ProviderError wraps an upstream provider failure.
type ProviderError struct {
	Err error
}

func (e *ProviderError) Error() string { return e.Err.Error() }

func (e *ProviderError) Unwrap() error { return e.Err }

func invalid(format string, args ...any) error {
	return &ValidationError{Message: fmt.Sprintf(format, args...)}
}

func noCreditsMessage(cap credits.Capability) string {
	switch cap {
	case credits.CapArticle:
		return "You have no article credits left. Upgrade to continue."
	case credits.CapBlogTitle:
		return "You have no blog title credits left. Upgrade to continue."
	case credits.CapImage:
		return "You have no image generation credits left. Upgrade to continue."
	case credits.CapRemoval:
		return "You have no removal credits left. Upgrade to continue."
	case credits.CapResumeReview:
		return "You have no resume review credits left. Upgrade to continue."
	default:
		return "You have no credits left. Upgrade to continue."
	}
}
